// Package filter parses the "filter" request argument and turns it into
// boolean query clauses.
//
// A filter is a JSON object mapping field keys to values:
//
//	{"event.provider": "zeek"}            field is one of the values
//	{"event.provider": ["zeek","suricata"]}
//	{"!event.provider": "zeek"}           field is none of the values
//	{"tags": null}                        field is missing
//	{"!tags": null}                       field is present
package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
	"github.com/jonesrussell/north-cloud/query-api/internal/infra/logger"
)

// NegationPrefix marks a field key as an exclusion.
const NegationPrefix = "!"

// Parse accepts nil, JSON text or an already decoded object. Input that is
// not an object (invalid JSON, arrays, scalars) yields a nil spec and a
// warning, never an error. Entries whose value is an object, or a list
// containing non-scalars, are rejected with a ParseError.
func Parse(ctx context.Context, raw any) (domain.FilterSpec, error) {
	var obj map[string]any

	switch v := raw.(type) {
	case nil:
		return nil, nil
	case domain.FilterSpec:
		obj = v
	case map[string]any:
		obj = v
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		obj = decodeObject(ctx, []byte(v))
	case []byte:
		obj = decodeObject(ctx, v)
	default:
		logger.FromContext(ctx).Warn("Ignoring filter that is not an object",
			logger.String("type", typeName(raw)))
		return nil, nil
	}
	if obj == nil {
		return nil, nil
	}

	spec := make(domain.FilterSpec, len(obj))
	for key, value := range obj {
		if strings.TrimPrefix(key, NegationPrefix) == "" {
			return nil, domain.ParseErr("filter key %q names no field", key)
		}
		if err := validate(key, value); err != nil {
			return nil, err
		}
		spec[key] = value
	}
	return spec, nil
}

func decodeObject(ctx context.Context, data []byte) map[string]any {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		logger.FromContext(ctx).Warn("Ignoring filter that is not valid JSON", logger.Error(err))
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		logger.FromContext(ctx).Warn("Ignoring filter that is not an object",
			logger.String("type", typeName(v)))
		return nil
	}
	return obj
}

func validate(key string, value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case map[string]any:
		return domain.ParseErr("filter %q: value must be null, a scalar or a list of scalars", key)
	case []any:
		for _, item := range v {
			if !isScalar(item) {
				return domain.ParseErr("filter %q: list items must be scalars", key)
			}
		}
		return nil
	default:
		if !isScalar(v) {
			return domain.ParseErr("filter %q: unsupported value type %s", key, typeName(v))
		}
		return nil
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, json.Number, bool, float64, float32, int, int32, int64, uint, uint32, uint64:
		return true
	default:
		return false
	}
}

func typeName(v any) string {
	switch v.(type) {
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number, float64, int, int64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "object"
	}
}

// Clauses are the bool-query members contributed by a filter.
type Clauses struct {
	Filter  []map[string]any
	MustNot []map[string]any
}

// Build translates spec into clauses. Keys are visited in sorted order so the
// same spec always produces the same query.
func Build(spec domain.FilterSpec) Clauses {
	var out Clauses

	keys := make([]string, 0, len(spec))
	for k := range spec {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		field, negated := strings.CutPrefix(key, NegationPrefix)
		values := asList(spec[key])

		switch {
		case values == nil && negated:
			out.Filter = append(out.Filter, existsClause(field))
		case values == nil:
			out.Filter = append(out.Filter, map[string]any{
				"bool": map[string]any{"must_not": []any{existsClause(field)}},
			})
		case negated:
			out.MustNot = append(out.MustNot, termsClause(field, values))
		default:
			out.Filter = append(out.Filter, termsClause(field, values))
		}
	}
	return out
}

func asList(v any) []any {
	switch vv := v.(type) {
	case nil:
		return nil
	case []any:
		return vv
	default:
		return []any{vv}
	}
}

func existsClause(field string) map[string]any {
	return map[string]any{"exists": map[string]any{"field": field}}
}

func termsClause(field string, values []any) map[string]any {
	return map[string]any{"terms": map[string]any{field: values}}
}
