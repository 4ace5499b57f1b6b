// Package enginetest provides an in-memory engine.Engine for tests. It
// evaluates the subset of the query DSL the query API generates: bool
// filter/must_not with range, terms and exists clauses, and nested terms
// aggregations with a missing key.
package enginetest

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
	"github.com/jonesrussell/north-cloud/query-api/internal/engine"
)

// Doc is one stored document. Fields use dotted names.
type Doc struct {
	ID     string
	Source map[string]any
}

// Engine is a fake engine. Exported fields may be set before use; the
// recorded searches are read with Searches.
type Engine struct {
	BackendValue engine.Backend

	// Mappings maps a field name to its _mapping/field response.
	Mappings   map[string]map[string]any
	MappingErr error

	Templates  map[string]map[string]any
	Components map[string]map[string]any
	Indices    []map[string]any
	InfoValue  map[string]any
	HealthErr  error
	SearchErr  error
	PingErr    error

	mu       sync.Mutex
	docs     map[string][]Doc
	searches []Search
}

// Search is a recorded Search call.
type Search struct {
	Index string
	Body  map[string]any
}

// New returns an empty fake using the opensearch-local backend.
func New() *Engine {
	return &Engine{
		BackendValue: engine.OpenSearchLocal,
		Mappings:     map[string]map[string]any{},
		Templates:    map[string]map[string]any{},
		Components:   map[string]map[string]any{},
		docs:         map[string][]Doc{},
	}
}

// Add stores docs under index. Searches must name the same index string.
func (e *Engine) Add(index string, docs ...Doc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.docs[index] = append(e.docs[index], docs...)
}

// Searches returns the recorded search calls.
func (e *Engine) Searches() []Search {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.searches)
}

// Backend implements engine.Engine.
func (e *Engine) Backend() engine.Backend { return e.BackendValue }

// Search implements engine.Engine.
func (e *Engine) Search(_ context.Context, index string, body map[string]any) (map[string]any, error) {
	e.mu.Lock()
	e.searches = append(e.searches, Search{Index: index, Body: body})
	docs := slices.Clone(e.docs[index])
	e.mu.Unlock()

	if e.SearchErr != nil {
		return nil, domain.EngineErr(e.SearchErr)
	}

	matched := make([]Doc, 0, len(docs))
	for _, d := range docs {
		ok, err := matches(d.Source, body["query"])
		if err != nil {
			return nil, domain.EngineErr(err)
		}
		if ok {
			matched = append(matched, d)
		}
	}

	size := len(matched)
	if s, ok := body["size"]; ok {
		n, err := toInt(s)
		if err != nil {
			return nil, domain.EngineErr(err)
		}
		size = min(size, n)
	}
	hits := make([]any, 0, size)
	for _, d := range matched[:size] {
		hits = append(hits, map[string]any{"_index": index, "_id": d.ID, "_source": d.Source})
	}

	out := map[string]any{
		"hits": map[string]any{
			"total": map[string]any{"value": len(matched), "relation": "eq"},
			"hits":  hits,
		},
	}
	if aggs, ok := body["aggs"].(map[string]any); ok {
		res, err := aggregate(matched, aggs)
		if err != nil {
			return nil, domain.EngineErr(err)
		}
		out["aggregations"] = res
	}
	return out, nil
}

// FieldMapping implements engine.Engine.
func (e *Engine) FieldMapping(_ context.Context, _, field string) (map[string]any, error) {
	if e.MappingErr != nil {
		return nil, domain.EngineErr(e.MappingErr)
	}
	return e.Mappings[field], nil
}

// IndexTemplate implements engine.Engine.
func (e *Engine) IndexTemplate(_ context.Context, name string) (map[string]any, error) {
	t, ok := e.Templates[name]
	if !ok {
		return nil, domain.EngineErr(fmt.Errorf("index template [%s] missing", name))
	}
	return t, nil
}

// ComponentTemplate implements engine.Engine.
func (e *Engine) ComponentTemplate(_ context.Context, name string) (map[string]any, error) {
	t, ok := e.Components[name]
	if !ok {
		return nil, domain.EngineErr(fmt.Errorf("component template [%s] missing", name))
	}
	return t, nil
}

// CatIndices implements engine.Engine.
func (e *Engine) CatIndices(context.Context) ([]map[string]any, error) {
	return e.Indices, nil
}

// Info implements engine.Engine.
func (e *Engine) Info(context.Context) (map[string]any, error) {
	if e.InfoValue == nil {
		return map[string]any{"version": map[string]any{"number": "2.19.0", "distribution": "opensearch"}}, nil
	}
	return e.InfoValue, nil
}

// Health implements engine.Engine.
func (e *Engine) Health(context.Context) (map[string]any, error) {
	if e.HealthErr != nil {
		return nil, domain.EngineErr(e.HealthErr)
	}
	return map[string]any{"status": "green"}, nil
}

// Ping implements engine.Engine.
func (e *Engine) Ping(context.Context) error {
	if e.PingErr != nil {
		return domain.EngineErr(e.PingErr)
	}
	return nil
}

func matches(src map[string]any, query any) (bool, error) {
	if query == nil {
		return true, nil
	}
	q, ok := query.(map[string]any)
	if !ok {
		return false, fmt.Errorf("query must be an object, got %T", query)
	}
	for kind, arg := range q {
		var (
			ok  bool
			err error
		)
		switch kind {
		case "bool":
			ok, err = matchBool(src, arg)
		case "range":
			ok, err = matchRange(src, arg)
		case "terms":
			ok, err = matchTerms(src, arg)
		case "exists":
			field, _ := arg.(map[string]any)["field"].(string)
			_, ok = src[field]
		case "match_all":
			ok = true
		default:
			return false, fmt.Errorf("unsupported query [%s]", kind)
		}
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchBool(src map[string]any, arg any) (bool, error) {
	b, _ := arg.(map[string]any)
	for _, clause := range asClauses(b["filter"]) {
		ok, err := matches(src, clause)
		if err != nil || !ok {
			return false, err
		}
	}
	for _, clause := range asClauses(b["must_not"]) {
		ok, err := matches(src, clause)
		if err != nil {
			return false, err
		}
		if ok {
			return false, nil
		}
	}
	return true, nil
}

func asClauses(v any) []any {
	switch c := v.(type) {
	case nil:
		return nil
	case []any:
		return c
	case []map[string]any:
		out := make([]any, len(c))
		for i := range c {
			out[i] = c[i]
		}
		return out
	default:
		return []any{c}
	}
}

func matchRange(src map[string]any, arg any) (bool, error) {
	for field, bounds := range arg.(map[string]any) {
		raw, ok := src[field]
		if !ok {
			return false, nil
		}
		v, err := toInt64(raw)
		if err != nil {
			return false, fmt.Errorf("range on %s: %w", field, err)
		}
		b := bounds.(map[string]any)
		if gte, ok := b["gte"]; ok {
			lo, err := toInt64(gte)
			if err != nil {
				return false, err
			}
			if v < lo {
				return false, nil
			}
		}
		if lte, ok := b["lte"]; ok {
			hi, err := toInt64(lte)
			if err != nil {
				return false, err
			}
			if v > hi {
				return false, nil
			}
		}
	}
	return true, nil
}

func matchTerms(src map[string]any, arg any) (bool, error) {
	for field, values := range arg.(map[string]any) {
		list, ok := values.([]any)
		if !ok {
			return false, fmt.Errorf("terms on %s must be a list", field)
		}
		raw, ok := src[field]
		if !ok {
			return false, nil
		}
		found := false
		for _, want := range list {
			if keyOf(raw) == keyOf(want) {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}
	return true, nil
}

type bucket struct {
	key  any
	docs []Doc
}

func aggregate(docs []Doc, aggs map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(aggs))
	for name, def := range aggs {
		d, _ := def.(map[string]any)
		terms, ok := d["terms"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("aggregation [%s]: only terms is supported", name)
		}
		field, _ := terms["field"].(string)
		size := 10
		if s, ok := terms["size"]; ok {
			n, err := toInt(s)
			if err != nil {
				return nil, err
			}
			size = n
		}
		missing, hasMissing := terms["missing"]

		var buckets []*bucket
		index := map[string]*bucket{}
		for _, doc := range docs {
			v, ok := doc.Source[field]
			if !ok {
				if !hasMissing {
					continue
				}
				v = missing
			}
			k := keyOf(v)
			b, seen := index[k]
			if !seen {
				b = &bucket{key: v}
				index[k] = b
				buckets = append(buckets, b)
			}
			b.docs = append(b.docs, doc)
		}
		slices.SortStableFunc(buckets, func(a, b *bucket) int {
			if c := cmp.Compare(len(b.docs), len(a.docs)); c != 0 {
				return c
			}
			return strings.Compare(keyOf(a.key), keyOf(b.key))
		})

		other := 0
		if len(buckets) > size {
			for _, b := range buckets[size:] {
				other += len(b.docs)
			}
			buckets = buckets[:size]
		}

		rendered := make([]any, 0, len(buckets))
		for _, b := range buckets {
			entry := map[string]any{"key": b.key, "doc_count": len(b.docs)}
			if sub, ok := d["aggs"].(map[string]any); ok {
				nested, err := aggregate(b.docs, sub)
				if err != nil {
					return nil, err
				}
				for k, v := range nested {
					entry[k] = v
				}
			}
			rendered = append(rendered, entry)
		}
		out[name] = map[string]any{
			"doc_count_error_upper_bound": 0,
			"sum_other_doc_count":         other,
			"buckets":                     rendered,
		}
	}
	return out, nil
}

func keyOf(v any) string {
	switch n := v.(type) {
	case json.Number:
		return n.String()
	case string:
		return n
	default:
		return fmt.Sprint(n)
	}
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, errors.New("not a number")
	}
}

func toInt(v any) (int, error) {
	n, err := toInt64(v)
	return int(n), err
}
