// Package pattern matches resource identifiers against the glob-style
// ownership patterns services declare in the catalog.
//
// Only '*' is special: it matches zero or more of any character. Every other
// character, including regexp metacharacters, is literal, and a pattern must
// cover the whole identifier.
package pattern

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const wildcard = "*"

// cacheSize bounds the number of compiled patterns kept in memory. Catalogs
// hold tens to low hundreds of patterns, so this is effectively unbounded for
// real deployments while still capping pathological callers.
const cacheSize = 1024

var compiled *lru.Cache[string, *Matcher]

func init() {
	c, err := lru.New[string, *Matcher](cacheSize)
	if err != nil {
		panic(err)
	}
	compiled = c
}

// Matcher is a compiled ownership pattern.
type Matcher struct {
	pattern string
	literal bool
	re      *regexp.Regexp
}

// Compile turns a glob pattern into an anchored Matcher. It never fails:
// every string is a valid pattern.
func Compile(pattern string) *Matcher {
	if m, ok := compiled.Get(pattern); ok {
		return m
	}
	m := compile(pattern)
	compiled.Add(pattern, m)
	return m
}

func compile(pattern string) *Matcher {
	if !strings.Contains(pattern, wildcard) {
		return &Matcher{pattern: pattern, literal: true}
	}

	parts := strings.Split(pattern, wildcard)
	var b strings.Builder
	b.WriteString(`(?s)^`)
	for i, part := range parts {
		if i > 0 {
			b.WriteString(`.*`)
		}
		b.WriteString(regexp.QuoteMeta(part))
	}
	b.WriteString(`$`)

	return &Matcher{pattern: pattern, re: regexp.MustCompile(b.String())}
}

// Pattern returns the source glob.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Match reports whether id is covered by the pattern.
func (m *Matcher) Match(id string) bool {
	if m.literal {
		return m.pattern == id
	}
	return m.re.MatchString(id)
}

// Match reports whether id matches the glob pattern.
func Match(pattern, id string) bool {
	return Compile(pattern).Match(id)
}

// HasWildcard reports whether the pattern contains '*'.
func HasWildcard(pattern string) bool {
	return strings.Contains(pattern, wildcard)
}
