// Package query turns request arguments into engine query bodies.
package query

import (
	"context"
	"time"

	"github.com/jonesrussell/north-cloud/query-api/internal/doctype"
	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
	"github.com/jonesrussell/north-cloud/query-api/internal/filter"
	"github.com/jonesrussell/north-cloud/query-api/internal/timerange"
)

// Descriptor is a parsed, engine-agnostic query.
type Descriptor struct {
	Doctype   string
	Index     string
	TimeField string
	Range     timerange.Range
	// Window holds the bounds the request supplied itself; nil ends fell
	// back to defaults.
	Window Window
	Filter domain.FilterSpec
	Limit  int
}

// Window is the explicitly requested part of a time range.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// QueryBuilder resolves request arguments against the configured doctypes
// and limits.
type QueryBuilder struct {
	doctypes     *doctype.Resolver
	defaultLimit int
}

// NewQueryBuilder creates a new query builder. defaultLimit applies when a
// request sets no limit.
func NewQueryBuilder(doctypes *doctype.Resolver, defaultLimit int) *QueryBuilder {
	return &QueryBuilder{doctypes: doctypes, defaultLimit: defaultLimit}
}

// Parse validates args and resolves them into a Descriptor. Missing times
// use defaults; malformed times, filters or limits are ParseErrors.
func (qb *QueryBuilder) Parse(
	ctx context.Context, args domain.QueryArgs, defaults timerange.Defaults, now time.Time,
) (Descriptor, error) {
	rng, err := timerange.Resolve(args.From, args.To, defaults, now)
	if err != nil {
		return Descriptor{}, err
	}

	spec, err := filter.Parse(ctx, args.Filter)
	if err != nil {
		return Descriptor{}, err
	}

	limit := args.Limit
	switch {
	case limit < 0:
		return Descriptor{}, domain.ParseErr("limit must not be negative, got %d", limit)
	case limit == 0:
		limit = qb.defaultLimit
	}

	binding := qb.doctypes.Resolve(args.Doctype)
	d := Descriptor{
		Doctype:   qb.doctypes.Doctype(args.Doctype),
		Index:     binding.IndexPattern,
		TimeField: binding.TimeField,
		Range:     rng,
		Filter:    spec,
		Limit:     limit,
	}
	if args.From != "" {
		d.Window.Start = &rng.Start
	}
	if args.To != "" {
		d.Window.End = &rng.End
	}
	return d, nil
}

// Build constructs the search body for d returning size hits.
func Build(d Descriptor, size int) map[string]any {
	return map[string]any{
		"size":  size,
		"query": buildBoolQuery(d),
	}
}

// buildBoolQuery combines the time range with the filter clauses.
func buildBoolQuery(d Descriptor) map[string]any {
	clauses := filter.Build(d.Filter)

	filters := make([]any, 0, len(clauses.Filter)+1)
	filters = append(filters, buildRange(d))
	for _, c := range clauses.Filter {
		filters = append(filters, c)
	}

	boolQuery := map[string]any{"filter": filters}
	if len(clauses.MustNot) > 0 {
		mustNot := make([]any, 0, len(clauses.MustNot))
		for _, c := range clauses.MustNot {
			mustNot = append(mustNot, c)
		}
		boolQuery["must_not"] = mustNot
	}
	return map[string]any{"bool": boolQuery}
}

// buildRange is the inclusive time filter in epoch milliseconds.
func buildRange(d Descriptor) map[string]any {
	return map[string]any{
		"range": map[string]any{
			d.TimeField: map[string]any{
				"gte":    d.Range.StartMillis(),
				"lte":    d.Range.EndMillis(),
				"format": "epoch_millis",
			},
		},
	}
}
