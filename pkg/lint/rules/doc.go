// Package rules provides the built-in lint rules for idiomlint.
//
// # Rule Domains
//
//   - Signatures and naming:
//
//   - IL001: use-self - The impl's own type name where Self would do
//
//   - IL002: should-implement-trait - Inherent methods shaped like a std trait method
//
//   - IL003: wrong-self-convention - Receivers that contradict the method name
//
//   - IL004: new-ret-no-self - new methods that do not return Self
//
//   - Option and Result combinators:
//
//   - IL005: option-map-unwrap-or - map(f).unwrap_or(a) is map_or(a, f)
//
//   - IL006: option-map-unwrap-or-else - map(f).unwrap_or_else(g) is map_or_else(g, f)
//
//   - IL007: option-map-or-none - map_or(None, f) is and_then(f)
//
//   - IL008: result-map-unwrap-or-else - map(f).unwrap_or_else(g) on a Result
//
//   - Iterators:
//
//   - IL009: filter-next - filter(p).next() is find(p)
//
//   - IL010: search-is-some - find(p).is_some() is any(p)
//
//   - IL011: iter-skip-next - skip(n).next() is nth(n)
//
//   - IL012: iter-nth - iter().nth(n) on an indexable sequence is get(n)
//
//   - IL013: map-flatten - map(f).flatten() is flat_map(f)
//
//   - Lazy evaluation:
//
//   - IL014: or-fun-call - Function calls passed to unwrap_or and friends
//
//   - IL015: expect-fun-call - expect messages built eagerly
//
//   - Discouraged calls:
//
//   - IL016: option-unwrap-used - unwrap() on an Option
//
//   - IL017: result-unwrap-used - unwrap() on a Result (allowed by default)
//
//   - IL018: ok-expect - ok().expect(m) on a Result
//
//   - Formatting:
//
//   - IL019: useless-format - format! calls that only copy a string
//
// # Rule Names
//
// Every rule is known by its ID, its kebab-case name, and the snake_case
// name clippy uses for the same lint (filter_next, clippy::filter_next).
//
// # Rule Packs
//
// Rule packs are configuration presets for common use cases:
//
//   - core: the default levels, with pedantic, restriction, and nursery allowed
//   - strict: every warning denies, and bare unwrap() is forbidden
//   - pedantic: every group warns
//
// Use PackByName or Packs to access pack definitions programmatically.
//
// # Documentation
//
// Each rule has a Markdown page embedded in the binary; Doc returns it.
package rules

import (
	"embed"
	"strings"
)

//go:embed docs/*.md
var docsFS embed.FS

// Doc returns the Markdown documentation for a rule ID.
func Doc(id string) (string, bool) {
	data, err := docsFS.ReadFile("docs/" + strings.ToUpper(id) + ".md")
	if err != nil {
		return "", false
	}
	return string(data), true
}
