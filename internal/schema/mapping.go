package schema

import (
	"slices"

	"github.com/itchyny/gojq"
)

// typeLeaf finds the first string "type" member in a depth-first walk.
var typeLeaf = mustCompile(`first(.. | objects | .type? | strings)`)

func mustCompile(src string) *gojq.Code {
	q, err := gojq.Parse(src)
	if err != nil {
		panic(err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		panic(err)
	}
	return code
}

// RawTypeFromMapping extracts the field type from a _mapping/field response.
// The response is keyed by concrete index; when several indices match, the
// key that sorts last is used. It returns "" when no type is present.
func RawTypeFromMapping(resp map[string]any) string {
	if len(resp) == 0 {
		return ""
	}

	keys := make([]string, 0, len(resp))
	for k := range resp {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	iter := typeLeaf.Run(resp[keys[len(keys)-1]])
	v, ok := iter.Next()
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
