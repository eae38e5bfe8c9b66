package lint

import (
	"fmt"
	"slices"

	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/span"
)

// SuggestionBuilder assembles a suggestion from verbatim source text.
//
// Argument text is always copied from the source, never re-rendered from the
// tree. The first failure is sticky: later calls are no-ops and Build returns
// an error wrapping ErrMatchAmbiguity.
type SuggestionBuilder struct {
	file *ast.File
	sugg fix.Suggestion
	err  error
}

// NewSuggestion starts a suggestion against file.
func NewSuggestion(file *ast.File, message string, applicability fix.Applicability) *SuggestionBuilder {
	return &SuggestionBuilder{
		file: file,
		sugg: fix.Suggestion{Message: message, Applicability: applicability},
	}
}

// Text returns the source text of node. Nodes produced by macro expansion
// have no trustworthy text and fail the suggestion.
func (b *SuggestionBuilder) Text(node *ast.Node) string {
	if b.err != nil {
		return ""
	}
	if node == nil {
		b.fail("missing node")
		return ""
	}
	if node.FromExpansion {
		b.fail(fmt.Sprintf("%s at %s comes from a macro expansion", node.Kind, node.Span))
		return ""
	}
	return b.TextOf(node.Span)
}

// TextOf returns the source text covered by sp.
func (b *SuggestionBuilder) TextOf(sp span.Span) string {
	if b.err != nil {
		return ""
	}
	text, ok := b.file.Snippet(sp)
	if !ok {
		b.fail(fmt.Sprintf("no source text for %s", sp))
		return ""
	}
	return text
}

// Require fails the suggestion if any node comes from a macro expansion.
func (b *SuggestionBuilder) Require(nodes ...*ast.Node) *SuggestionBuilder {
	for _, node := range nodes {
		if b.err != nil {
			break
		}
		if node != nil && node.FromExpansion {
			b.fail(fmt.Sprintf("%s at %s comes from a macro expansion", node.Kind, node.Span))
		}
	}
	return b
}

// Replace adds a replacement of sp with text.
func (b *SuggestionBuilder) Replace(sp span.Span, text string) *SuggestionBuilder {
	if b.err != nil {
		return b
	}
	if b.file == nil || sp.File != b.file.Path {
		b.fail(fmt.Sprintf("replacement %s is not in this file", sp))
		return b
	}
	b.sugg.Replacements = append(b.sugg.Replacements, fix.Replacement{Span: sp, Text: text})
	return b
}

// Fail marks the suggestion as impossible to build safely.
func (b *SuggestionBuilder) Fail(reason string) *SuggestionBuilder {
	if b.err == nil {
		b.fail(reason)
	}
	return b
}

// Err returns the first failure, or nil.
func (b *SuggestionBuilder) Err() error {
	return b.err
}

// Build returns the suggestion with replacements in span order.
func (b *SuggestionBuilder) Build() (*fix.Suggestion, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.sugg.Replacements) == 0 {
		return nil, fmt.Errorf("%w: suggestion has no replacements", ErrMatchAmbiguity)
	}
	if b.file.Source == nil {
		return nil, fmt.Errorf("%w: file has no source text", ErrMatchAmbiguity)
	}

	sugg := b.sugg
	sugg.Replacements = slices.Clone(b.sugg.Replacements)
	slices.SortStableFunc(sugg.Replacements, func(x, y fix.Replacement) int {
		return span.Compare(x.Span, y.Span)
	})
	if err := sugg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchAmbiguity, err)
	}
	for _, r := range sugg.Replacements {
		if _, ok := b.file.Source.Range(r.Span); !ok {
			return nil, fmt.Errorf("%w: replacement %s is outside the source", ErrMatchAmbiguity, r.Span)
		}
	}
	return &sugg, nil
}

func (b *SuggestionBuilder) fail(reason string) {
	b.err = fmt.Errorf("%w: %s", ErrMatchAmbiguity, reason)
}
