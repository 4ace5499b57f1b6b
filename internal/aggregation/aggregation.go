// Package aggregation runs nested terms aggregations over one or more fields.
package aggregation

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
	"github.com/jonesrussell/north-cloud/query-api/internal/engine"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/logger"
	"github.com/jonesrussell/north-cloud/query-api/internal/query"
	"github.com/jonesrussell/north-cloud/query-api/internal/schema"
)

// FieldDescriber resolves the type and missing key of a field. It never
// fails; unknown fields get the string descriptor.
type FieldDescriber interface {
	Describe(ctx context.Context, index, field string) schema.Descriptor
}

// Aggregator builds and executes bucket aggregations.
type Aggregator struct {
	eng    engine.Engine
	fields FieldDescriber
}

// New creates an Aggregator.
func New(eng engine.Engine, fields FieldDescriber) *Aggregator {
	return &Aggregator{eng: eng, fields: fields}
}

// Aggregate buckets the documents matching d by each of fields in order, at
// most d.Limit buckets per level. urls is attached to the result as given.
func (a *Aggregator) Aggregate(
	ctx context.Context, d query.Descriptor, fields []string, urls []string,
) (domain.AggregationResult, error) {
	if len(fields) == 0 {
		return domain.AggregationResult{}, domain.ParseErr("at least one aggregation field is required")
	}

	descriptors := a.describe(ctx, d.Index, fields)

	body := query.Build(d, 0)
	body["aggs"] = BuildAggs(descriptors, d.Limit)

	logger.FromContext(ctx).Debug("Running aggregation",
		logger.String("index", d.Index),
		logger.Strings("fields", fields),
		logger.Any("query", body),
	)

	res, err := a.eng.Search(ctx, d.Index, body)
	if err != nil {
		return domain.AggregationResult{}, err
	}

	return domain.AggregationResult{
		Field:   fields[0],
		Buckets: TopBuckets(res, fields[0]),
		Range:   d.Range.Seconds(),
		Filter:  d.Filter,
		Fields:  fields,
		URLs:    urls,
	}, nil
}

// describe resolves all field descriptors concurrently, keeping field order.
func (a *Aggregator) describe(ctx context.Context, index string, fields []string) []schema.Descriptor {
	out := make([]schema.Descriptor, len(fields))

	var g errgroup.Group
	for i, f := range fields {
		g.Go(func() error {
			out[i] = a.fields.Describe(ctx, index, f)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// BuildAggs nests one terms level per descriptor, the first outermost. Each
// level is named after its field.
func BuildAggs(descriptors []schema.Descriptor, size int) map[string]any {
	var inner map[string]any
	for i := len(descriptors) - 1; i >= 0; i-- {
		d := descriptors[i]
		level := map[string]any{
			"terms": map[string]any{
				"field":   d.Name,
				"size":    size,
				"missing": d.Missing,
			},
		}
		if inner != nil {
			level["aggs"] = inner
		}
		inner = map[string]any{d.Name: level}
	}
	return inner
}

// TopBuckets returns the outermost aggregation named field from a search
// response, or an empty object when the response has none.
func TopBuckets(res map[string]any, field string) map[string]any {
	aggs, _ := res["aggregations"].(map[string]any)
	top, ok := aggs[field].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return top
}
