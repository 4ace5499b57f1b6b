package aggregation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/query-api/internal/aggregation"
	"github.com/jonesrussell/north-cloud/query-api/internal/doctype"
	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
	"github.com/jonesrussell/north-cloud/query-api/internal/engine/enginetest"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/logger"
	"github.com/jonesrussell/north-cloud/query-api/internal/query"
	"github.com/jonesrussell/north-cloud/query-api/internal/schema"
	"github.com/jonesrussell/north-cloud/query-api/internal/timerange"
)

const index = "arkime_sessions3-*"

var (
	now     = time.Date(2022, 1, 2, 12, 0, 0, 0, time.UTC)
	inRange = time.Date(2022, 1, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
)

func testContext() context.Context {
	return logger.WithContext(context.Background(), logger.NewNop())
}

func descriptor(t *testing.T, args domain.QueryArgs) query.Descriptor {
	t.Helper()
	qb := query.NewQueryBuilder(doctype.NewResolver(doctype.Bindings{
		Network: doctype.Binding{IndexPattern: index, TimeField: "firstPacket"},
	}, "network"), 500)
	d, err := qb.Parse(testContext(), args, timerange.AggregationDefaults, now)
	require.NoError(t, err)
	return d
}

func longMapping(field string) map[string]any {
	return map[string]any{"idx": map[string]any{"mappings": map[string]any{field: map[string]any{
		"mapping": map[string]any{"x": map[string]any{"type": "long"}},
	}}}}
}

func buckets(t *testing.T, top map[string]any) []any {
	t.Helper()
	b, ok := top["buckets"].([]any)
	require.True(t, ok, "buckets missing from %v", top)
	return b
}

func TestAggregate_DistinctValues(t *testing.T) {
	t.Parallel()

	fake := enginetest.New()
	for i, action := range []string{"read", "write", "read", "delete", "write", "read"} {
		fake.Add(index, enginetest.Doc{
			ID:     fmt.Sprint(i),
			Source: map[string]any{"firstPacket": inRange, "event.action": action},
		})
	}
	agg := aggregation.New(fake, schema.NewResolver(fake, schema.ResolverOptions{}))

	res, err := agg.Aggregate(testContext(), descriptor(t, domain.QueryArgs{From: "now-1d", To: "now", Limit: 5}),
		[]string{"event.action"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"event.action"}, res.Fields)
	got := buckets(t, res.Buckets)
	require.Len(t, got, 3)
	first := got[0].(map[string]any)
	assert.Equal(t, "read", first["key"])
	assert.Equal(t, 3, first["doc_count"])
	assert.Empty(t, res.URLs)
}

func TestAggregate_LimitAndRange(t *testing.T) {
	t.Parallel()

	fake := enginetest.New()
	for i := range 25 {
		fake.Add(index, enginetest.Doc{
			ID:     fmt.Sprint(i),
			Source: map[string]any{"firstPacket": inRange, "event.provider": fmt.Sprintf("p%02d", i%12)},
		})
	}
	agg := aggregation.New(fake, schema.NewResolver(fake, schema.ResolverOptions{}))

	res, err := agg.Aggregate(testContext(),
		descriptor(t, domain.QueryArgs{From: "2022-01-01", To: "2022-01-02", Limit: 10}),
		[]string{"event.provider"}, []string{"/dashboards/x"})
	require.NoError(t, err)

	got := buckets(t, res.Buckets)
	assert.LessOrEqual(t, len(got), 10)
	for _, b := range got {
		assert.Contains(t, b, "key")
		assert.Contains(t, b, "doc_count")
	}
	assert.GreaterOrEqual(t, res.Range[1], res.Range[0])
	assert.Equal(t, []string{"/dashboards/x"}, res.URLs)

	body := fake.Searches()[0].Body
	assert.Equal(t, 0, body["size"])
}

func TestAggregate_NestedFieldsAndSentinels(t *testing.T) {
	t.Parallel()

	fake := enginetest.New()
	fake.Mappings["destination.port"] = longMapping("destination.port")
	fake.Add(index,
		enginetest.Doc{ID: "1", Source: map[string]any{"firstPacket": inRange, "network.transport": "tcp", "destination.port": 443}},
		enginetest.Doc{ID: "2", Source: map[string]any{"firstPacket": inRange, "network.transport": "tcp"}},
		enginetest.Doc{ID: "3", Source: map[string]any{"firstPacket": inRange, "destination.port": 53}},
	)
	agg := aggregation.New(fake, schema.NewResolver(fake, schema.ResolverOptions{}))

	res, err := agg.Aggregate(testContext(), descriptor(t, domain.QueryArgs{}),
		[]string{"network.transport", "destination.port"}, nil)
	require.NoError(t, err)

	outer := buckets(t, res.Buckets)
	require.Len(t, outer, 2)
	tcp := outer[0].(map[string]any)
	assert.Equal(t, "tcp", tcp["key"])
	inner := buckets(t, tcp["destination.port"].(map[string]any))
	keys := make([]any, 0, len(inner))
	for _, b := range inner {
		keys = append(keys, b.(map[string]any)["key"])
	}
	assert.ElementsMatch(t, []any{443, 0}, keys)

	missing := outer[1].(map[string]any)
	assert.Equal(t, "-", missing["key"])
}

func TestAggregate_MappingFailureFallsBack(t *testing.T) {
	t.Parallel()

	fake := enginetest.New()
	fake.MappingErr = errors.New("index_not_found_exception")
	agg := aggregation.New(fake, schema.NewResolver(fake, schema.ResolverOptions{}))

	_, err := agg.Aggregate(testContext(), descriptor(t, domain.QueryArgs{}), []string{"source.port"}, nil)
	require.NoError(t, err)

	terms := fake.Searches()[0].Body["aggs"].(map[string]any)["source.port"].(map[string]any)["terms"].(map[string]any)
	assert.Equal(t, "-", terms["missing"])
}

func TestAggregate_EngineErrorSurfaces(t *testing.T) {
	t.Parallel()

	fake := enginetest.New()
	fake.SearchErr = errors.New("search_phase_execution_exception")
	agg := aggregation.New(fake, schema.NewResolver(fake, schema.ResolverOptions{}))

	_, err := agg.Aggregate(testContext(), descriptor(t, domain.QueryArgs{}), []string{"event.provider"}, nil)
	require.Error(t, err)
	assert.Equal(t, domain.KindEngine, domain.KindOf(err))

	_, err = agg.Aggregate(testContext(), descriptor(t, domain.QueryArgs{}), nil, nil)
	assert.Equal(t, domain.KindParse, domain.KindOf(err))
}

func TestBuildAggs(t *testing.T) {
	t.Parallel()

	got := aggregation.BuildAggs([]schema.Descriptor{
		schema.Describe("a", "keyword"),
		schema.Describe("b", "ip"),
	}, 7)

	want := map[string]any{
		"a": map[string]any{
			"terms": map[string]any{"field": "a", "size": 7, "missing": "-"},
			"aggs": map[string]any{
				"b": map[string]any{
					"terms": map[string]any{"field": "b", "size": 7, "missing": "0.0.0.0"},
				},
			},
		},
	}
	assert.Equal(t, want, got)
}

func TestTopBuckets_MissingAggregation(t *testing.T) {
	t.Parallel()
	assert.Equal(t, map[string]any{}, aggregation.TopBuckets(map[string]any{}, "a"))
}
