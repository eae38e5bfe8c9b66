package lint

import (
	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/span"
)

// FindingBuilder helps construct Finding values.
type FindingBuilder struct {
	finding Finding
	suggErr error
}

// NewFinding starts building a finding for the given rule and span.
func NewFinding(ruleID string, sp span.Span, message string) *FindingBuilder {
	return &FindingBuilder{
		finding: Finding{
			RuleID:  ruleID,
			Span:    sp,
			Message: message,
		},
	}
}

// NewFindingAt starts building a finding covering a node.
func NewFindingAt(ruleID string, node *ast.Node, message string) *FindingBuilder {
	var sp span.Span
	if node != nil {
		sp = node.Span
	}
	return NewFinding(ruleID, sp, message)
}

// WithNote sets the explanatory note.
func (b *FindingBuilder) WithNote(note string) *FindingBuilder {
	b.finding.Note = note
	return b
}

// WithSuggestion attaches the suggestion built by sb. If sb failed, the
// finding is kept without a suggestion and the failure is available from
// SuggestionErr.
func (b *FindingBuilder) WithSuggestion(sb *SuggestionBuilder) *FindingBuilder {
	if sb == nil {
		return b
	}
	sugg, err := sb.Build()
	if err != nil {
		b.suggErr = err
		b.finding.Suggestion = nil
		return b
	}
	b.finding.Suggestion = sugg
	return b
}

// SuggestionErr returns why the last suggestion was dropped, or nil.
func (b *FindingBuilder) SuggestionErr() error {
	return b.suggErr
}

// Build returns the constructed Finding.
func (b *FindingBuilder) Build() *Finding {
	f := b.finding
	return &f
}
