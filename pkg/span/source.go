package span

import (
	"bytes"
	"sort"
)

// Range is a half-open byte range [StartOffset, EndOffset) of a file.
type Range struct {
	StartOffset int
	EndOffset   int
}

func (r Range) Len() int { return r.EndOffset - r.StartOffset }

func (r Range) IsEmpty() bool { return r.StartOffset == r.EndOffset }

// LineInfo locates one line. NewlineStart is where the line terminator
// ("\n" or "\r\n") begins; on the last line it equals EndOffset.
type LineInfo struct {
	StartOffset  int
	NewlineStart int
	EndOffset    int
}

// Source is the text of one file together with its line index.
// It converts between line/column spans and byte ranges. Columns count
// bytes.
type Source struct {
	Path    string // empty for in-memory content
	Content []byte
	Lines   []LineInfo
}

// NewSource builds the line index for content.
func NewSource(path string, content []byte) *Source {
	return &Source{Path: path, Content: content, Lines: BuildLines(content)}
}

// BuildLines indexes the lines of content. Empty content has no lines;
// otherwise a trailing newline opens one final empty line.
func BuildLines(content []byte) []LineInfo {
	lines := make([]LineInfo, 0, bytes.Count(content, []byte{'\n'})+1)
	if len(content) == 0 {
		return lines
	}

	start := 0
	for {
		nl := bytes.IndexByte(content[start:], '\n')
		if nl < 0 {
			break
		}
		end := start + nl
		term := end
		if term > start && content[term-1] == '\r' {
			term--
		}
		lines = append(lines, LineInfo{StartOffset: start, NewlineStart: term, EndOffset: end + 1})
		start = end + 1
	}
	return append(lines, LineInfo{StartOffset: start, NewlineStart: len(content), EndOffset: len(content)})
}

func (s *Source) LineCount() int {
	return len(s.Lines)
}

// LineAt maps a byte offset to a 1-based line and column. Offsets at or past
// the end of the content land on the last line; negative offsets give (0, 0).
func (s *Source) LineAt(offset int) (line, col int) {
	n := len(s.Lines)
	if offset < 0 || n == 0 {
		return 0, 0
	}

	idx := n - 1
	if offset < len(s.Content) {
		idx = min(sort.Search(n, func(i int) bool { return s.Lines[i].EndOffset > offset }), n-1)
	}
	info := s.Lines[idx]
	if offset < info.StartOffset {
		return 0, 0
	}
	return idx + 1, offset - info.StartOffset + 1
}

// Offset maps a 1-based line and column to a byte offset. The column may
// point one past the last byte of the line.
func (s *Source) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(s.Lines) || col < 1 {
		return 0, false
	}
	info := s.Lines[line-1]
	offset := info.StartOffset + col - 1
	return offset, offset <= info.EndOffset
}

// LineContent returns a 1-based line without its terminator, or nil.
func (s *Source) LineContent(line int) []byte {
	if line < 1 || line > len(s.Lines) {
		return nil
	}
	info := s.Lines[line-1]
	return s.Content[info.StartOffset:info.NewlineStart]
}

// Range converts a span to a byte range. It fails when either end falls
// outside the file or the span runs backwards.
func (s *Source) Range(sp Span) (Range, bool) {
	start, okStart := s.Offset(sp.StartLine, sp.StartColumn)
	end, okEnd := s.Offset(sp.EndLine, sp.EndColumn)
	if !okStart || !okEnd || end < start {
		return Range{}, false
	}
	return Range{StartOffset: start, EndOffset: end}, true
}

// Snippet returns the text a span covers.
func (s *Source) Snippet(sp Span) ([]byte, bool) {
	r, ok := s.Range(sp)
	if !ok {
		return nil, false
	}
	return s.Content[r.StartOffset:r.EndOffset], true
}

// SpanOf converts a byte range back to a span in this file.
func (s *Source) SpanOf(r Range) Span {
	sp := Span{File: s.Path}
	sp.StartLine, sp.StartColumn = s.LineAt(r.StartOffset)
	sp.EndLine, sp.EndColumn = s.LineAt(r.EndOffset)
	return sp
}
