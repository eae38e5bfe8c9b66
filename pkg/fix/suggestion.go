package fix

import (
	"errors"
	"fmt"

	"github.com/yaklabco/idiomlint/pkg/span"
)

var (
	// ErrOverlap is returned when replacements of one suggestion overlap.
	ErrOverlap = errors.New("suggestion replacements overlap")

	// ErrSpanOutOfRange is returned when a replacement span is not inside the source.
	ErrSpanOutOfRange = errors.New("replacement span outside source")
)

// Applicability says how safe it is to apply a suggestion without review.
type Applicability string

// Applicability levels.
const (
	// MachineApplicable suggestions are safe to apply automatically.
	MachineApplicable Applicability = "machine-applicable"

	// MaybeIncorrect suggestions are probably right but may not compile.
	MaybeIncorrect Applicability = "maybe-incorrect"

	// HasPlaceholders suggestions contain text the user must fill in.
	HasPlaceholders Applicability = "has-placeholders"

	// Unspecified is used when the rule did not say.
	Unspecified Applicability = "unspecified"
)

// Replacement replaces the text covered by Span with Text.
type Replacement struct {
	Span span.Span `json:"span"`
	Text string    `json:"text"`
}

// Suggestion is a proposed source change made of one or more replacements.
// Replacements are kept in span order and never overlap.
type Suggestion struct {
	// Message describes the change, e.g. "try using `find` instead".
	Message string `json:"message"`

	Replacements  []Replacement `json:"replacements"`
	Applicability Applicability `json:"applicability"`
}

// IsMachineApplicable reports whether the suggestion may be applied unattended.
func (s *Suggestion) IsMachineApplicable() bool {
	return s != nil && s.Applicability == MachineApplicable
}

// Validate checks that the replacements are in one file, in order, and disjoint.
func (s *Suggestion) Validate() error {
	for i := 1; i < len(s.Replacements); i++ {
		prev, cur := s.Replacements[i-1].Span, s.Replacements[i].Span
		if prev.File != cur.File {
			return fmt.Errorf("%w: %w", ErrOverlap, span.ErrFileMismatch)
		}
		if cur.Start().Compare(prev.End()) < 0 {
			return fmt.Errorf("%w: %s and %s", ErrOverlap, prev, cur)
		}
	}
	return nil
}

// Edits converts the replacements to byte edits against src.
func (s *Suggestion) Edits(src *span.Source) ([]TextEdit, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	edits := make([]TextEdit, len(s.Replacements))
	for i, r := range s.Replacements {
		edit, err := SpanEdit(src, r.Span, r.Text)
		if err != nil {
			return nil, err
		}
		edits[i] = edit
	}
	return edits, nil
}

// Apply returns src's content with the suggestion applied.
func (s *Suggestion) Apply(src *span.Source) ([]byte, error) {
	edits, err := s.Edits(src)
	if err != nil {
		return nil, err
	}
	prepared, err := PrepareEdits(edits, len(src.Content))
	if err != nil {
		return nil, err
	}
	return ApplyEdits(src.Content, prepared), nil
}

// Selection is the outcome of choosing which suggestions to apply together.
type Selection struct {
	// Edits are the accepted edits, sorted and conflict-free.
	Edits []TextEdit

	// Applied counts accepted suggestions.
	Applied int

	// Skipped counts suggestions dropped because they conflicted with an
	// earlier one or could not be converted.
	Skipped int
}

// SelectSuggestions picks suggestions in order, accepting each one only if
// none of its edits overlap an already accepted edit. A suggestion is applied
// whole or not at all.
func SelectSuggestions(src *span.Source, suggestions []*Suggestion) Selection {
	var sel Selection
	var accepted []TextEdit

	for _, sugg := range suggestions {
		edits, err := sugg.Edits(src)
		if err != nil || ValidateEdits(edits, len(src.Content)) != nil {
			sel.Skipped++
			continue
		}

		candidate := make([]TextEdit, 0, len(accepted)+len(edits))
		candidate = append(candidate, accepted...)
		candidate = append(candidate, edits...)
		SortEdits(candidate)
		if DetectConflicts(candidate) != nil {
			sel.Skipped++
			continue
		}

		accepted = candidate
		sel.Applied++
	}

	sel.Edits = accepted
	return sel
}
