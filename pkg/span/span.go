// Package span provides the immutable source-location model shared by the
// program model, the rules, and the diagnostics they produce.
package span

import (
	"cmp"
	"errors"
	"fmt"
)

var (
	// ErrFileMismatch is returned when two spans from different files are combined.
	ErrFileMismatch = errors.New("spans belong to different files")

	// ErrInverted is returned when a span ends before it starts.
	ErrInverted = errors.New("span end precedes start")
)

// Position represents a 1-based line and column in a file.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Compare orders positions by line, then column.
func (p Position) Compare(other Position) int {
	if c := cmp.Compare(p.Line, other.Line); c != 0 {
		return c
	}
	return cmp.Compare(p.Column, other.Column)
}

// Span is a range of source text in a single file.
// The end column is exclusive: it points just past the last covered byte.
type Span struct {
	File        string `json:"file"`
	StartLine   int    `json:"start_line"`
	StartColumn int    `json:"start_column"`
	EndLine     int    `json:"end_line"`
	EndColumn   int    `json:"end_column"`
}

// New creates a span and checks that it does not end before it starts.
func New(file string, startLine, startCol, endLine, endCol int) (Span, error) {
	s := Span{
		File:        file,
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}
	if s.End().Compare(s.Start()) < 0 {
		return Span{}, fmt.Errorf("%w: %s", ErrInverted, s)
	}
	return s, nil
}

// FromPositions creates a span from a start and end position.
func FromPositions(file string, start, end Position) (Span, error) {
	return New(file, start.Line, start.Column, end.Line, end.Column)
}

// Start returns the start position.
func (s Span) Start() Position {
	return Position{Line: s.StartLine, Column: s.StartColumn}
}

// End returns the end position.
func (s Span) End() Position {
	return Position{Line: s.EndLine, Column: s.EndColumn}
}

// IsZero reports whether the span was never set.
func (s Span) IsZero() bool {
	return s == Span{}
}

// IsValid returns true if both ends are valid and start <= end.
func (s Span) IsValid() bool {
	return s.Start().IsValid() && s.End().IsValid() && s.Start().Compare(s.End()) <= 0
}

// IsSingleLine returns true if start and end are on the same line.
func (s Span) IsSingleLine() bool {
	return s.StartLine == s.EndLine
}

// IsEmpty returns true if the span covers no text.
func (s Span) IsEmpty() bool {
	return s.Start() == s.End()
}

// String renders the span as file:line:col-line:col.
func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d-%d:%d", s.File, s.StartLine, s.StartColumn, s.EndLine, s.EndColumn)
}

// Merge returns the smallest span covering both a and b.
// The result does not depend on which lines the spans sit on, so a chain
// split over several lines merges the same way as a single-line one.
func Merge(a, b Span) (Span, error) {
	if a.File != b.File {
		return Span{}, fmt.Errorf("%w: %q and %q", ErrFileMismatch, a.File, b.File)
	}

	merged := a
	if b.Start().Compare(a.Start()) < 0 {
		merged.StartLine, merged.StartColumn = b.StartLine, b.StartColumn
	}
	if b.End().Compare(a.End()) > 0 {
		merged.EndLine, merged.EndColumn = b.EndLine, b.EndColumn
	}
	return merged, nil
}

// MustMerge is Merge for spans already known to share a file.
// It panics on a file mismatch.
func MustMerge(a, b Span) Span {
	merged, err := Merge(a, b)
	if err != nil {
		panic(err)
	}
	return merged
}

// Contains reports whether inner lies entirely within outer.
// Spans in different files never contain each other.
func Contains(outer, inner Span) bool {
	if outer.File != inner.File {
		return false
	}
	return outer.Start().Compare(inner.Start()) <= 0 && inner.End().Compare(outer.End()) <= 0
}

// Overlaps reports whether a and b share at least one byte.
func Overlaps(a, b Span) bool {
	if a.File != b.File {
		return false
	}
	return a.Start().Compare(b.End()) < 0 && b.Start().Compare(a.End()) < 0
}

// Compare orders spans by file, start position, then end position.
func Compare(a, b Span) int {
	if c := cmp.Compare(a.File, b.File); c != 0 {
		return c
	}
	if c := a.Start().Compare(b.Start()); c != 0 {
		return c
	}
	return a.End().Compare(b.End())
}
