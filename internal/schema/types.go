// Package schema derives field types from the engine's mapping metadata and
// merges the field catalog served by /fields.
package schema

// FieldType is the canonical type reported for a field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeDate    FieldType = "date"
	TypeFloat   FieldType = "float"
	TypeInteger FieldType = "integer"
	TypeIP      FieldType = "ip"
	TypeGeo     FieldType = "geo"
)

// DefaultSentinel is the missing-bucket key for types without a dedicated one.
const DefaultSentinel = "-"

// CanonicalType maps a raw engine or catalog type onto a FieldType.
// Unrecognised and empty types are strings.
func CanonicalType(raw string) FieldType {
	switch raw {
	case "date", "datetime", "time", "timestamp":
		return TypeDate
	case "double", "float":
		return TypeFloat
	case "geo_point":
		return TypeGeo
	case "integer", "long":
		return TypeInteger
	case "ip":
		return TypeIP
	default:
		return TypeString
	}
}

// MissingSentinel returns the terms-aggregation "missing" key for a raw type.
// The value must be valid for the field's type or the engine rejects the
// aggregation. Every other type, including the date types, uses
// DefaultSentinel.
func MissingSentinel(raw string) any {
	switch raw {
	case "integer", "long":
		return 0
	case "float", "double":
		return 0.0
	case "ip":
		return "0.0.0.0"
	case "string", "keyword", "text":
		return DefaultSentinel
	default:
		// unmapped or unknown
		return DefaultSentinel
	}
}

// Descriptor is what the aggregation path needs to know about a field.
type Descriptor struct {
	Name    string
	RawType string
	Type    FieldType
	Missing any
}

// Describe builds the descriptor for a field of the given raw type.
func Describe(name, raw string) Descriptor {
	return Descriptor{
		Name:    name,
		RawType: raw,
		Type:    CanonicalType(raw),
		Missing: MissingSentinel(raw),
	}
}
