package domain

import (
	"errors"
	"fmt"
)

// Kind classifies request failures. Its string form is the prefix of the
// "error" member in response bodies.
type Kind string

const (
	KindParse        Kind = "ParseError"
	KindSchemaLookup Kind = "SchemaLookupError"
	KindEngine       Kind = "EngineError"
	KindInternal     Kind = "InternalError"
)

// Error is a classified error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ParseErr reports malformed request input.
func ParseErr(format string, args ...any) error {
	return &Error{Kind: KindParse, Err: fmt.Errorf(format, args...)}
}

// SchemaErr reports a failed mapping or template lookup.
func SchemaErr(err error) error {
	return &Error{Kind: KindSchemaLookup, Err: err}
}

// EngineErr reports an unreachable engine or a rejected query.
func EngineErr(err error) error {
	return &Error{Kind: KindEngine, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal.
func KindOf(err error) Kind {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Kind
	}
	return KindInternal
}

// Describe renders err as "<Kind>: <message>".
func Describe(err error) string {
	return fmt.Sprintf("%s: %s", KindOf(err), err.Error())
}
