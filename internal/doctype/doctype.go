// Package doctype maps the "doctype" request argument onto an index pattern
// and its time field.
package doctype

import "strings"

// Binding is the index pattern and time field queried for a doctype.
type Binding struct {
	Name         string
	IndexPattern string
	TimeField    string
}

// Bindings is the set of configured targets.
type Bindings struct {
	Network Binding
	Other   Binding
	Arkime  Binding
}

var (
	otherPrefixes  = []string{"host", "beat", "miscbeat"}
	arkimePrefixes = []string{"arkime", "session"}
)

// Resolver picks a Binding by doctype prefix.
type Resolver struct {
	bindings       Bindings
	defaultDoctype string
}

// NewResolver returns a resolver that uses defaultDoctype when the request
// names none.
func NewResolver(bindings Bindings, defaultDoctype string) *Resolver {
	bindings.Network.Name = "network"
	bindings.Other.Name = "host"
	bindings.Arkime.Name = "arkime"
	return &Resolver{bindings: bindings, defaultDoctype: defaultDoctype}
}

// Doctype returns the effective, lower-cased doctype token.
func (r *Resolver) Doctype(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		token = strings.ToLower(r.defaultDoctype)
	}
	return token
}

// Resolve never fails: unknown tokens select the network binding.
func (r *Resolver) Resolve(token string) Binding {
	dt := r.Doctype(token)
	switch {
	case hasAnyPrefix(dt, otherPrefixes):
		return r.bindings.Other
	case hasAnyPrefix(dt, arkimePrefixes):
		return r.bindings.Arkime
	default:
		return r.bindings.Network
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
