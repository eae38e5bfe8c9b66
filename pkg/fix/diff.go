package fix

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the unchanged context kept around each change.
const contextLines = 3

// DiffLineKind is the role of a line inside a hunk.
type DiffLineKind int

const (
	DiffLineContext DiffLineKind = iota
	DiffLineAdd
	DiffLineRemove
)

// prefix is the unified-diff column-one marker for the kind.
func (k DiffLineKind) prefix() byte {
	switch k {
	case DiffLineAdd:
		return '+'
	case DiffLineRemove:
		return '-'
	default:
		return ' '
	}
}

// DiffLine is one line of a hunk, without its trailing newline.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffHunk is one "@@" block. Starts are 1-based; a zero count start points
// at the line before the change, as in GNU diff.
type DiffHunk struct {
	OriginalStart, OriginalCount int
	ModifiedStart, ModifiedCount int
	Lines                        []DiffLine
}

// Diff is the unified diff of one fixed source file.
type Diff struct {
	Path      string
	Hunks     []DiffHunk
	Additions int
	Deletions int
}

// GenerateDiff diffs original against modified line by line, with three
// lines of context. It returns nil when the contents have the same lines.
func GenerateDiff(path string, original, modified []byte) *Diff {
	a, b := splitLines(original), splitLines(modified)
	groups := difflib.NewMatcher(a, b).GetGroupedOpCodes(contextLines)

	diff := &Diff{Path: path}
	for _, group := range groups {
		first, last := group[0], group[len(group)-1]
		hunk := DiffHunk{
			OriginalStart: hunkStart(first.I1, last.I2),
			OriginalCount: last.I2 - first.I1,
			ModifiedStart: hunkStart(first.J1, last.J2),
			ModifiedCount: last.J2 - first.J1,
		}
		for _, op := range group {
			if op.Tag == 'e' {
				hunk.Lines = appendLines(hunk.Lines, DiffLineContext, a[op.I1:op.I2])
				continue
			}
			if op.Tag == 'r' || op.Tag == 'd' {
				hunk.Lines = appendLines(hunk.Lines, DiffLineRemove, a[op.I1:op.I2])
				diff.Deletions += op.I2 - op.I1
			}
			if op.Tag == 'r' || op.Tag == 'i' {
				hunk.Lines = appendLines(hunk.Lines, DiffLineAdd, b[op.J1:op.J2])
				diff.Additions += op.J2 - op.J1
			}
		}
		diff.Hunks = append(diff.Hunks, hunk)
	}

	if !diff.HasChanges() {
		return nil
	}
	return diff
}

func hunkStart(from, to int) int {
	if from == to {
		return from
	}
	return from + 1
}

func appendLines(dst []DiffLine, kind DiffLineKind, lines []string) []DiffLine {
	for _, line := range lines {
		dst = append(dst, DiffLine{Kind: kind, Content: line})
	}
	return dst
}

// splitLines splits content into lines, dropping one trailing newline.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

// HasChanges reports whether d holds at least one hunk. It is safe on nil.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

func (d *Diff) slashPath() string {
	return strings.TrimPrefix(d.Path, "/")
}

// GitHeader is the "diff --git" line, or "" for a nil diff.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("diff --git a/%[1]s b/%[1]s", d.slashPath())
}

// String renders the ---/+++ headers and hunks, without the git header.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%[1]s\n+++ b/%[1]s\n", d.slashPath())
	for _, hunk := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount, hunk.ModifiedStart, hunk.ModifiedCount)
		for _, line := range hunk.Lines {
			b.WriteByte(line.Kind.prefix())
			b.WriteString(line.Content)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// FullString is GitHeader followed by String.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}
