// Package service orchestrates the query API operations.
package service

import (
	"context"
	"runtime"
	"time"

	"github.com/jonesrussell/north-cloud/query-api/internal/aggregation"
	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
	"github.com/jonesrussell/north-cloud/query-api/internal/engine"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/logger"
	"github.com/jonesrussell/north-cloud/query-api/internal/query"
	"github.com/jonesrussell/north-cloud/query-api/internal/schema"
	"github.com/jonesrussell/north-cloud/query-api/internal/timerange"
	"github.com/jonesrussell/north-cloud/query-api/internal/urlrouter"
)

// DefaultAggregationField is bucketed when a request names no field.
const DefaultAggregationField = "event.provider"

// BuildInfo is reported by Version.
type BuildInfo struct {
	Version   string
	BuildDate string
	Revision  string
}

// Deps are the collaborators of a QueryService.
type Deps struct {
	Engine     engine.Engine
	Builder    *query.QueryBuilder
	Aggregator *aggregation.Aggregator
	Router     *urlrouter.Router
	Catalog    *schema.Catalog
	Build      BuildInfo
	// Now defaults to time.Now.
	Now func() time.Time
}

// QueryService executes the read-side operations against the engine.
type QueryService struct {
	eng        engine.Engine
	builder    *query.QueryBuilder
	aggregator *aggregation.Aggregator
	router     *urlrouter.Router
	catalog    *schema.Catalog
	build      BuildInfo
	now        func() time.Time
}

// NewQueryService creates a new query service.
func NewQueryService(deps Deps) *QueryService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &QueryService{
		eng:        deps.Engine,
		builder:    deps.Builder,
		aggregator: deps.Aggregator,
		router:     deps.Router,
		catalog:    deps.Catalog,
		build:      deps.Build,
		now:        now,
	}
}

// Aggregate buckets matching documents by fields (DefaultAggregationField
// when empty) and attaches the dashboards relevant to them.
func (s *QueryService) Aggregate(
	ctx context.Context, fields []string, args domain.QueryArgs,
) (domain.AggregationResult, error) {
	if len(fields) == 0 {
		fields = []string{DefaultAggregationField}
	}

	d, err := s.builder.Parse(ctx, args, timerange.AggregationDefaults, s.now())
	if err != nil {
		return domain.AggregationResult{}, err
	}

	urls := s.router.URLs(fields, d.Window.Start, d.Window.End)
	return s.aggregator.Aggregate(ctx, d, fields, urls)
}

// Documents returns up to limit raw hits.
func (s *QueryService) Documents(ctx context.Context, args domain.QueryArgs) (domain.DocumentResult, error) {
	d, err := s.builder.Parse(ctx, args, timerange.DocumentDefaults, s.now())
	if err != nil {
		return domain.DocumentResult{}, err
	}

	body := query.Build(d, d.Limit)
	logger.FromContext(ctx).Debug("Fetching documents",
		logger.String("index", d.Index),
		logger.Any("query", body),
	)

	res, err := s.eng.Search(ctx, d.Index, body)
	if err != nil {
		return domain.DocumentResult{}, err
	}

	hits := []any{}
	if outer, ok := res["hits"].(map[string]any); ok {
		if list, ok := outer["hits"].([]any); ok {
			hits = list
		}
	}
	return domain.DocumentResult{
		Results: hits,
		Range:   d.Range.Seconds(),
		Filter:  d.Filter,
	}, nil
}

// Fields returns the merged field catalog for the requested template and
// doctype.
func (s *QueryService) Fields(ctx context.Context, args domain.QueryArgs) (domain.FieldsResult, error) {
	d, err := s.builder.Parse(ctx, domain.QueryArgs{Doctype: args.Doctype}, timerange.AggregationDefaults, s.now())
	if err != nil {
		return domain.FieldsResult{}, err
	}
	return s.catalog.Fields(ctx, schema.CatalogRequest{
		Template:     args.Template,
		Doctype:      d.Doctype,
		IndexPattern: d.Index,
	}), nil
}

// Indices lists the engine's indices.
func (s *QueryService) Indices(ctx context.Context) (domain.IndicesResult, error) {
	indices, err := s.eng.CatIndices(ctx)
	if err != nil {
		return domain.IndicesResult{}, err
	}
	if indices == nil {
		indices = []map[string]any{}
	}
	return domain.IndicesResult{Indices: indices}, nil
}

// Version reports build information plus the engine's info and health.
func (s *QueryService) Version(ctx context.Context) (domain.VersionInfo, error) {
	info, err := s.eng.Info(ctx)
	if err != nil {
		return domain.VersionInfo{}, err
	}
	health, err := s.eng.Health(ctx)
	if err != nil {
		return domain.VersionInfo{}, err
	}

	engineInfo := make(map[string]any, len(info)+1)
	for k, v := range info {
		engineInfo[k] = v
	}
	engineInfo["health"] = health

	return domain.VersionInfo{
		Version: s.build.Version,
		Built:   s.build.BuildDate,
		SHA:     s.build.Revision,
		Mode:    string(s.eng.Backend()),
		Machine: runtime.GOARCH,
		Engine:  engineInfo,
	}, nil
}

// Ping checks that the engine answers.
func (s *QueryService) Ping(ctx context.Context) error {
	return s.eng.Ping(ctx)
}
