package fix

import (
	"cmp"
	"fmt"
	"slices"
)

// ValidationError is an edit whose range does not fit the content.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// ConflictError is a pair of edits that cannot both be applied. Edit1 sorts
// first.
type ConflictError struct {
	Edit1, Edit2 TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset, e.Edit2.StartOffset, e.Edit2.EndOffset)
}

func (e TextEdit) check(contentLen int) error {
	var msg string
	switch {
	case e.StartOffset < 0:
		msg = "start offset is negative"
	case e.EndOffset < e.StartOffset:
		msg = "end offset is before start offset"
	case e.EndOffset > contentLen:
		msg = fmt.Sprintf("end offset %d exceeds content length %d", e.EndOffset, contentLen)
	default:
		return nil
	}
	return &ValidationError{Edit: e, Message: msg}
}

// ValidateEdits returns the first edit that falls outside content of
// length contentLen.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		if err := edit.check(contentLen); err != nil {
			return err
		}
	}
	return nil
}

// SortEdits orders edits by start, then end offset. Equal edits keep their
// relative order.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		return cmp.Or(cmp.Compare(a.StartOffset, b.StartOffset), cmp.Compare(a.EndOffset, b.EndOffset))
	})
}

// DetectConflicts reports the first overlap in sorted edits. Two edits
// starting at the same offset conflict even when both are insertions,
// since neither order is right.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		prev, curr := edits[i-1], edits[i]
		if curr.StartOffset < prev.EndOffset || curr.StartOffset == prev.StartOffset {
			return &ConflictError{Edit1: prev, Edit2: curr}
		}
	}
	return nil
}

// PrepareEdits returns a sorted copy of edits after checking ranges and
// overlaps. The input is not modified.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return edits, nil
	}
	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	sorted := slices.Clone(edits)
	SortEdits(sorted)
	if err := DetectConflicts(sorted); err != nil {
		return nil, err
	}
	return sorted, nil
}
