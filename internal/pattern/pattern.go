// Package pattern compiles gitignore-style rules into path matchers.
//
// Matchers run against tagged paths: root-relative, always starting with "/",
// with a trailing "/" on directories (for example "/src/index.js" or "/lib/").
// Three syntaxes are recognised and tried in order: exact segment, double star
// and single star. All matchers are case-insensitive.
package pattern

import (
	"regexp"
	"strings"
)

// Matcher reports whether a tagged path matches. *regexp.Regexp satisfies it,
// so prebuilt expressions bypass compilation.
type Matcher interface {
	MatchString(s string) bool
}

// builder turns a raw pattern into a regular expression source, or reports
// that the pattern is not in its syntax.
type builder func(pattern string) (string, bool)

// builders is consulted in order; the first syntax that accepts a pattern wins.
var builders = []builder{
	exactSegment,
	doubleStar,
	singleStar,
}

var (
	// 'foo', 'foo/', '/foo', '/foo/'
	exactShape = regexp.MustCompile(`^/?[^*/]+/?$`)
	// '**', '**foo', 'foo**', 'foo**bar' but not '***'
	doubleShape = regexp.MustCompile(`^\*{2}$|^\*{2}[^*]|[^*]\*{2}$|[^*]\*{2}[^*]`)
	// '*', '*foo', 'foo*', 'foo*bar'
	singleShape = regexp.MustCompile(`^\*$|^\*[^*]|[^*]\*$|[^*]\*[^*]`)
	// a separator between two non-separator characters
	innerSlash = regexp.MustCompile(`[^/]/[^/]`)
	// a star directly followed by a terminal extension, as in '*.json'
	starExtension = regexp.MustCompile(`\*\.[^/*]+?$`)
)

// Compile translates one rule into a Matcher. It returns nil when the rule
// fits none of the supported syntaxes or yields an invalid expression; callers
// treat a nil Matcher as never matching.
func Compile(pattern string) Matcher {
	for _, build := range builders {
		src, ok := build(pattern)
		if !ok {
			continue
		}
		re, err := regexp.Compile("(?i)" + src)
		if err != nil {
			return nil
		}
		return re
	}
	return nil
}

// CompileAll compiles every pattern, keeping input order. Entries that fail
// to compile are kept as nil.
func CompileAll(patterns []string) []Matcher {
	out := make([]Matcher, len(patterns))
	for i, p := range patterns {
		out[i] = Compile(p)
	}
	return out
}

// Source returns the expression a pattern compiles to, or "" when it does not
// compile. Useful for diagnostics.
func Source(pattern string) string {
	if re, ok := Compile(pattern).(*regexp.Regexp); ok {
		return re.String()
	}
	return ""
}

func escape(pattern string) string {
	pattern = strings.ReplaceAll(pattern, ".", `\.`)
	return strings.ReplaceAll(pattern, "?", "[^/]")
}

func exactSegment(pattern string) (string, bool) {
	if !exactShape.MatchString(pattern) {
		return "", false
	}
	src := escape(pattern)
	if strings.HasPrefix(src, "/") {
		src = "^" + src
	} else {
		src = "/" + src
	}
	if strings.HasSuffix(src, "/") {
		return src + "$", true
	}
	return "(" + src + "/)|(" + src + "$)", true
}

func doubleStar(pattern string) (string, bool) {
	if !doubleShape.MatchString(pattern) {
		return "", false
	}
	pattern = impliedRoot(pattern)
	src := strings.ReplaceAll(escape(pattern), "**", "[^*]+")
	if strings.HasPrefix(pattern, "/") {
		src = "^" + src
	}
	return src, true
}

func singleStar(pattern string) (string, bool) {
	if !singleShape.MatchString(pattern) {
		return "", false
	}
	pattern = impliedRoot(pattern)
	if starExtension.MatchString(pattern) {
		pattern += "$"
	}
	src := strings.ReplaceAll(escape(pattern), "*", "[^/*]+")
	if strings.HasPrefix(pattern, "/") {
		src = "^" + src
	}
	return src, true
}

// impliedRoot anchors patterns with an inner separator, as gitignore does.
func impliedRoot(pattern string) string {
	if innerSlash.MatchString(pattern) && !strings.HasPrefix(pattern, "/") {
		return "/" + pattern
	}
	return pattern
}
