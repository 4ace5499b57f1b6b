// Package domain holds the request, response and error types shared by the
// query packages.
package domain

import (
	"encoding/json"
)

// QueryArgs are the loosely typed request arguments. GET query parameters and
// POST JSON bodies decode into the same struct.
type QueryArgs struct {
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
	Filter   any    `mapstructure:"filter"`
	Doctype  string `mapstructure:"doctype"`
	Limit    int    `mapstructure:"limit"`
	Template string `mapstructure:"template"`
}

// FilterSpec maps a field key, optionally prefixed with "!", to nil, a scalar
// or a list of scalars.
type FilterSpec map[string]any

// AggregationResult is the body of the /agg endpoint. The bucket tree is keyed
// by the first requested field.
type AggregationResult struct {
	Field   string
	Buckets map[string]any
	Range   [2]int64
	Filter  FilterSpec
	Fields  []string
	URLs    []string
}

// MarshalJSON flattens the bucket tree next to the fixed members.
func (r AggregationResult) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"range":  r.Range,
		"filter": r.Filter,
		"fields": r.Fields,
	}
	if len(r.URLs) > 0 {
		out["urls"] = r.URLs
	}
	out[r.Field] = r.Buckets
	return json.Marshal(out)
}

// DocumentResult is the body of the /document endpoint.
type DocumentResult struct {
	Results []any      `json:"results"`
	Range   [2]int64   `json:"range"`
	Filter  FilterSpec `json:"filter"`
}

// FieldInfo describes one entry of the field catalog.
type FieldInfo struct {
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
}

// FieldsResult is the body of the /fields endpoint.
type FieldsResult struct {
	Fields map[string]FieldInfo `json:"fields"`
	Total  int                  `json:"total"`
}

// IndicesResult wraps the engine's index listing.
type IndicesResult struct {
	Indices []map[string]any `json:"indices"`
}

// VersionInfo is the body of the /version endpoint.
type VersionInfo struct {
	Version string         `json:"version"`
	Built   string         `json:"built"`
	SHA     string         `json:"sha"`
	Mode    string         `json:"mode"`
	Machine string         `json:"machine"`
	Engine  map[string]any `json:"engine"`
}

