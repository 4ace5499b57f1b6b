package filter_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
	"github.com/jonesrussell/north-cloud/query-api/internal/filter"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/logger"
)

func testContext() context.Context {
	return logger.WithContext(context.Background(), logger.NewNop())
}

func TestParse_NotAnObject(t *testing.T) {
	t.Parallel()

	inputs := []any{nil, "", "not json", "[1,2]", "42", `"str"`, []any{"a"}, 7}
	for _, in := range inputs {
		spec, err := filter.Parse(testContext(), in)
		require.NoError(t, err, "input %#v", in)
		assert.Nil(t, spec, "input %#v", in)
	}
}

func TestParse_PreservesNumbers(t *testing.T) {
	t.Parallel()

	spec, err := filter.Parse(testContext(), `{"destination.port": 9007199254740993}`)
	require.NoError(t, err)

	assert.Equal(t, json.Number("9007199254740993"), spec["destination.port"])
}

func TestParse_RejectsObjectValues(t *testing.T) {
	t.Parallel()

	tests := []string{
		`{"source.ip": {"gte": "10.0.0.0"}}`,
		`{"source.ip": [{"a": 1}]}`,
		`{"!": "x"}`,
	}
	for _, in := range tests {
		_, err := filter.Parse(testContext(), in)
		require.Error(t, err, in)
		assert.Equal(t, domain.KindParse, domain.KindOf(err), in)
	}
}

func TestParse_AcceptsDecodedObject(t *testing.T) {
	t.Parallel()

	spec, err := filter.Parse(testContext(), map[string]any{"event.provider": "zeek"})
	require.NoError(t, err)
	assert.Equal(t, domain.FilterSpec{"event.provider": "zeek"}, spec)
}

func TestBuild_Polarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		spec        domain.FilterSpec
		wantFilter  []map[string]any
		wantMustNot []map[string]any
	}{
		{
			name:       "include scalar",
			spec:       domain.FilterSpec{"event.provider": "zeek"},
			wantFilter: []map[string]any{{"terms": map[string]any{"event.provider": []any{"zeek"}}}},
		},
		{
			name:        "exclude list",
			spec:        domain.FilterSpec{"!event.provider": []any{"zeek", "suricata"}},
			wantMustNot: []map[string]any{{"terms": map[string]any{"event.provider": []any{"zeek", "suricata"}}}},
		},
		{
			name:       "require missing",
			spec:       domain.FilterSpec{"tags": nil},
			wantFilter: []map[string]any{{"bool": map[string]any{"must_not": []any{map[string]any{"exists": map[string]any{"field": "tags"}}}}}},
		},
		{
			name:       "require present",
			spec:       domain.FilterSpec{"!tags": nil},
			wantFilter: []map[string]any{{"exists": map[string]any{"field": "tags"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := filter.Build(tt.spec)
			assert.Equal(t, tt.wantFilter, got.Filter)
			assert.Equal(t, tt.wantMustNot, got.MustNot)
		})
	}
}

func TestBuild_DeterministicOrder(t *testing.T) {
	t.Parallel()

	spec := domain.FilterSpec{"z.field": "1", "a.field": "2", "m.field": nil}

	first, err := json.Marshal(filter.Build(spec))
	require.NoError(t, err)
	for range 20 {
		again, marshalErr := json.Marshal(filter.Build(spec))
		require.NoError(t, marshalErr)
		require.JSONEq(t, string(first), string(again))
		require.Equal(t, string(first), string(again))
	}

	got := filter.Build(spec)
	require.Len(t, got.Filter, 3)
	assert.Contains(t, got.Filter[0]["terms"], "a.field")
}
