// Package fix turns suggestions into text edits and applies them.
package fix

import (
	"fmt"

	"github.com/yaklabco/idiomlint/pkg/span"
)

// TextEdit replaces the bytes [StartOffset, EndOffset) with NewText. An
// empty range inserts; an empty NewText deletes.
type TextEdit struct {
	StartOffset int
	EndOffset   int
	NewText     string
}

// Len is the number of bytes replaced.
func (e TextEdit) Len() int {
	return e.EndOffset - e.StartOffset
}

// SpanEdit converts a replacement of sp by text into a byte edit against
// src. It fails with ErrSpanOutOfRange when sp names another file or does
// not fit in src.
func SpanEdit(src *span.Source, sp span.Span, text string) (TextEdit, error) {
	if src == nil || sp.File != src.Path {
		return TextEdit{}, fmt.Errorf("%w: %s", ErrSpanOutOfRange, sp)
	}
	r, ok := src.Range(sp)
	if !ok {
		return TextEdit{}, fmt.Errorf("%w: %s", ErrSpanOutOfRange, sp)
	}
	return TextEdit{StartOffset: r.StartOffset, EndOffset: r.EndOffset, NewText: text}, nil
}
