// Package ignore provides rule sets used as filter and ignore options
package ignore

import (
	"errors"

	"github.com/bethropolis/filekit/internal/pattern"
)

// ErrUnsupportedRule is returned by Parse for rule values of an unknown type.
var ErrUnsupportedRule = errors.New("ignore: unsupported rule type")

// Predicate decides a tagged path on its own, replacing compiled patterns.
type Predicate func(taggedPath string) bool

// RuleSet is a compiled, ordered collection of matchers evaluated with OR
// semantics, or a single predicate. A *RuleSet is always compiled: passing one
// back through Parse returns it unchanged.
//
// A RuleSet holds no per-traversal state and may be shared between calls.
type RuleSet struct {
	matchers  []pattern.Matcher
	predicate Predicate
	sources   []string
}

// Len returns the number of compiled matchers, or 1 for a predicate set.
func (r *RuleSet) Len() int {
	if r == nil {
		return 0
	}
	if r.predicate != nil {
		return 1
	}
	return len(r.matchers)
}

// Sources returns the raw strings the set was compiled from, in order.
func (r *RuleSet) Sources() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.sources...)
}
