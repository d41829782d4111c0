// Package ignore provides file/directory pattern matching for exclusion
//
// Rules are gitignore-style strings compiled by package pattern, prebuilt
// matchers such as *regexp.Regexp, or plain predicates. They are evaluated
// against tagged paths ("/dir/", "/dir/file.txt").
package ignore

import (
	"fmt"

	"github.com/bethropolis/filekit/internal/pattern"
)

// Parse normalizes rule into a RuleSet.
//
//   - nil or "" yields (nil, nil)
//   - *RuleSet is returned unchanged
//   - Predicate or func(string) bool wraps the callback
//   - string or pattern.Matcher yields a one-element set
//   - []string, []pattern.Matcher or []any compile each element in order
func Parse(rule any) (*RuleSet, error) {
	switch v := rule.(type) {
	case nil:
		return nil, nil
	case *RuleSet:
		return v, nil
	case Predicate:
		return Func(v), nil
	case func(string) bool:
		return Func(v), nil
	case string:
		if v == "" {
			return nil, nil
		}
		return Patterns(v), nil
	case []string:
		if len(v) == 0 {
			return nil, nil
		}
		return Patterns(v...), nil
	case pattern.Matcher:
		return Matchers(v), nil
	case []pattern.Matcher:
		if len(v) == 0 {
			return nil, nil
		}
		return Matchers(v...), nil
	case []any:
		if len(v) == 0 {
			return nil, nil
		}
		set := &RuleSet{}
		for i, item := range v {
			switch it := item.(type) {
			case string:
				set.matchers = append(set.matchers, pattern.Compile(it))
				set.sources = append(set.sources, it)
			case pattern.Matcher:
				set.matchers = append(set.matchers, it)
				set.sources = append(set.sources, fmt.Sprint(it))
			default:
				return nil, fmt.Errorf("%w: element %d is %T", ErrUnsupportedRule, i, item)
			}
		}
		return set, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedRule, rule)
	}
}

// MustParse is like Parse but panics on an unsupported rule type.
func MustParse(rule any) *RuleSet {
	set, err := Parse(rule)
	if err != nil {
		panic(err)
	}
	return set
}

// Patterns compiles gitignore-style patterns into a RuleSet.
func Patterns(patterns ...string) *RuleSet {
	return &RuleSet{
		matchers: pattern.CompileAll(patterns),
		sources:  append([]string(nil), patterns...),
	}
}

// Matchers wraps prebuilt matchers without compiling them.
func Matchers(matchers ...pattern.Matcher) *RuleSet {
	set := &RuleSet{matchers: append([]pattern.Matcher(nil), matchers...)}
	for _, m := range matchers {
		set.sources = append(set.sources, fmt.Sprint(m))
	}
	return set
}

// Func wraps a predicate.
func Func(fn Predicate) *RuleSet {
	if fn == nil {
		return nil
	}
	return &RuleSet{predicate: fn}
}

// Any combines sets so that a path matches if any of them matches. Nil sets
// are skipped; Any returns nil when nothing is left.
func Any(sets ...*RuleSet) *RuleSet {
	var live []*RuleSet
	for _, s := range sets {
		if s != nil {
			live = append(live, s)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return Func(func(tagged string) bool {
		for _, s := range live {
			if s.Matches(tagged) {
				return true
			}
		}
		return false
	})
}
