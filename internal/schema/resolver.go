package schema

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
	"github.com/jonesrussell/north-cloud/query-api/internal/engine"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/logger"
	"github.com/jonesrussell/north-cloud/query-api/internal/metrics"
)

type cacheKey struct {
	index string
	field string
}

// ResolverOptions configures a Resolver. A CacheSize of 0 disables caching.
type ResolverOptions struct {
	CacheSize int
	CacheTTL  time.Duration
	Metrics   *metrics.Metrics
}

// Resolver looks up field descriptors through the engine's field mapping API.
type Resolver struct {
	eng     engine.Engine
	cache   *expirable.LRU[cacheKey, Descriptor]
	metrics *metrics.Metrics
}

// NewResolver creates a Resolver backed by eng.
func NewResolver(eng engine.Engine, opts ResolverOptions) *Resolver {
	r := &Resolver{eng: eng, metrics: opts.Metrics}
	if opts.CacheSize > 0 {
		r.cache = expirable.NewLRU[cacheKey, Descriptor](opts.CacheSize, nil, opts.CacheTTL)
	}
	return r
}

// Describe returns the descriptor of field in index. Lookup failures are
// logged and produce the string descriptor; they are never returned.
func (r *Resolver) Describe(ctx context.Context, index, field string) Descriptor {
	key := cacheKey{index: index, field: field}
	if r.cache != nil {
		if d, ok := r.cache.Get(key); ok {
			r.metrics.CacheLookup(true)
			return d
		}
		r.metrics.CacheLookup(false)
	}

	resp, err := r.eng.FieldMapping(ctx, index, field)
	if err != nil {
		r.metrics.SchemaLookupFailed()
		logger.FromContext(ctx).Warn("Field mapping lookup failed, using default missing value",
			logger.String("index", index),
			logger.String("field", field),
			logger.Error(domain.SchemaErr(err)),
		)
		return Describe(field, "")
	}

	d := Describe(field, RawTypeFromMapping(resp))
	if r.cache != nil {
		r.cache.Add(key, d)
	}
	return d
}
