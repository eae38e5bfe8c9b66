package fix

// ApplyEdits returns content with edits applied. The edits must be sorted
// and non-overlapping, as PrepareEdits and SelectSuggestions leave them.
// With no edits content is returned as is.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	size := len(content)
	for _, e := range edits {
		size += len(e.NewText) - e.Len()
	}

	out := make([]byte, 0, size)
	prev := 0
	for _, e := range edits {
		out = append(out, content[prev:e.StartOffset]...)
		out = append(out, e.NewText...)
		prev = e.EndOffset
	}
	return append(out, content[prev:]...)
}
