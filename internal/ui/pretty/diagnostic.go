package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/span"
)

const (
	tabWidth = 4

	// maxExcerptLines bounds the source lines shown for a multi-line span.
	maxExcerptLines = 6
)

// DiagnosticOptions controls FormatDiagnostic.
type DiagnosticOptions struct {
	// RuleFormat controls how the rule appears in the header.
	RuleFormat config.RuleFormat

	// ShowContext includes the annotated source excerpt.
	ShowContext bool

	// ShowOrigin adds a note explaining which setting decided the level.
	ShowOrigin bool

	// MaxWidth truncates source lines to fit a terminal. 0 means unlimited.
	MaxWidth int
}

// FormatDiagnostic renders one diagnostic in rustc style:
//
//	warning[filter-next]: called `filter(..).next()` on an `Iterator`
//	 --> src/lib.rs:3:13
//	  |
//	3 |     let _ = v.iter().filter(|&x| *x < 0).next();
//	  |             ^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^
//	  |
//	  = note: `#[warn(filter-next)]` on by default
//	help: try using `find` instead: `v.iter().find(|&x| *x < 0)`
//
// src may be nil, in which case no excerpt is shown.
func (s *Styles) FormatDiagnostic(diag *lint.Diagnostic, path string, src *span.Source, opts DiagnosticOptions) string {
	var b strings.Builder

	ident := config.FormatRuleID(opts.RuleFormat, diag.RuleID, diag.RuleName)
	b.WriteString(s.LevelStyle(diag.Level).Render(LevelLabel(diag.Level)+"["+ident+"]") +
		s.Message.Render(": "+diag.Message) + "\n")

	sp := diag.Span
	width := len(strconv.Itoa(sp.EndLine))
	pad := strings.Repeat(" ", width+1)
	bar := s.Gutter.Render("|")

	b.WriteString(strings.Repeat(" ", width) + s.Arrow.Render("--> ") +
		fmt.Sprintf("%s:%d:%d", path, sp.StartLine, sp.StartColumn) + "\n")

	excerpt := opts.ShowContext && src != nil && sp.StartLine >= 1 && sp.EndLine <= src.LineCount()
	if excerpt {
		b.WriteString(pad + bar + "\n")
		if sp.IsSingleLine() {
			s.writeSingleLine(&b, src, sp, width, opts.MaxWidth)
		} else {
			s.writeMultiLine(&b, src, sp, width, opts.MaxWidth)
		}
	}

	var notes []string
	if diag.Note != "" {
		notes = append(notes, diag.Note)
	}
	if opts.ShowOrigin {
		notes = append(notes, diag.Origin.Explain(diag.RuleName, diag.Level))
	}
	if len(notes) > 0 && excerpt {
		b.WriteString(pad + bar + "\n")
	}
	for _, note := range notes {
		b.WriteString(pad + s.Gutter.Render("=") + " " + s.Note.Render("note") + ": " + note + "\n")
	}

	if help := s.FormatHelp(diag.Suggestion); help != "" {
		b.WriteString(help)
	}

	return b.String()
}

// FormatHelp renders a suggestion as a help line. A single one-line
// replacement is shown inline; anything else is listed below the message.
func (s *Styles) FormatHelp(sugg *fix.Suggestion) string {
	if sugg == nil || len(sugg.Replacements) == 0 {
		return ""
	}

	message := sugg.Message
	if message == "" {
		message = "try"
	}
	switch sugg.Applicability {
	case fix.MaybeIncorrect:
		message += " (maybe incorrect)"
	case fix.HasPlaceholders:
		message += " (has placeholders)"
	}

	label := s.Help.Render("help") + ": "
	if len(sugg.Replacements) == 1 && !strings.Contains(sugg.Replacements[0].Text, "\n") {
		return label + message + ": " + s.Suggestion.Render("`"+sugg.Replacements[0].Text+"`") + "\n"
	}

	var b strings.Builder
	b.WriteString(label + message + "\n")
	for _, r := range sugg.Replacements {
		b.WriteString(s.Dim.Render(fmt.Sprintf("    %d:%d", r.Span.StartLine, r.Span.StartColumn)) + "\n")
		for _, line := range strings.Split(r.Text, "\n") {
			b.WriteString("      " + s.Suggestion.Render(line) + "\n")
		}
	}
	return b.String()
}

func (s *Styles) writeSingleLine(b *strings.Builder, src *span.Source, sp span.Span, width, maxWidth int) {
	raw := src.LineContent(sp.StartLine)
	bar := s.Gutter.Render("|")

	b.WriteString(s.lineNumber(sp.StartLine, width) + bar + " " +
		s.SourceLine.Render(clip(expandTabs(string(raw)), maxWidth, width+3)) + "\n")

	start := columnWidth(raw, sp.StartColumn)
	end := columnWidth(raw, sp.EndColumn)
	b.WriteString(strings.Repeat(" ", width+1) + bar + " " + strings.Repeat(" ", start) +
		s.Caret.Render(strings.Repeat("^", max(1, end-start))) + "\n")
}

// writeMultiLine draws a span that covers several lines with a connecting
// rail from the start column to the last covered character.
func (s *Styles) writeMultiLine(b *strings.Builder, src *span.Source, sp span.Span, width, maxWidth int) {
	bar := s.Gutter.Render("|")
	pad := strings.Repeat(" ", width+1)
	offset := width + 5

	first := src.LineContent(sp.StartLine)
	b.WriteString(s.lineNumber(sp.StartLine, width) + bar + "   " +
		s.SourceLine.Render(clip(expandTabs(string(first)), maxWidth, offset)) + "\n")
	b.WriteString(pad + bar + "  " + s.Caret.Render(strings.Repeat("_", columnWidth(first, sp.StartColumn)+1)+"^") + "\n")

	for _, line := range excerptLines(sp.StartLine+1, sp.EndLine) {
		if line == 0 {
			b.WriteString(s.Gutter.Render("...") + "\n")
			continue
		}
		b.WriteString(s.lineNumber(line, width) + bar + " " + s.Caret.Render("|") + " " +
			s.SourceLine.Render(clip(expandTabs(string(src.LineContent(line))), maxWidth, offset)) + "\n")
	}

	last := src.LineContent(sp.EndLine)
	rail := 1
	if sp.EndColumn > 1 {
		rail += columnWidth(last, sp.EndColumn-1)
	}
	b.WriteString(pad + bar + " " + s.Caret.Render("|"+strings.Repeat("_", rail)+"^") + "\n")
}

// excerptLines lists the lines from..to, eliding the middle of long runs
// with a 0 entry.
func excerptLines(from, to int) []int {
	var lines []int
	count := to - from + 1
	if count <= maxExcerptLines {
		for line := from; line <= to; line++ {
			lines = append(lines, line)
		}
		return lines
	}
	for line := from; line < from+maxExcerptLines/2; line++ {
		lines = append(lines, line)
	}
	lines = append(lines, 0)
	for line := to - maxExcerptLines/2 + 2; line <= to; line++ {
		lines = append(lines, line)
	}
	return lines
}

func (s *Styles) lineNumber(line, width int) string {
	return s.Gutter.Render(fmt.Sprintf("%*d ", width, line))
}

// columnWidth returns the display width of raw before the 1-based byte column.
func columnWidth(raw []byte, column int) int {
	n := min(max(column-1, 0), len(raw))
	return runewidth.StringWidth(expandTabs(string(raw[:n])))
}

func expandTabs(line string) string {
	return strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth))
}

// clip truncates line so that it fits maxWidth after a prefix of used columns.
func clip(line string, maxWidth, used int) string {
	if maxWidth <= 0 || maxWidth-used <= 1 {
		return line
	}
	return runewidth.Truncate(line, maxWidth-used, "…")
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", issueCount, plural(issueCount, "issue", "issues")))
	}
	return header
}

// FormatFileError formats a model that could not be processed.
func (s *Styles) FormatFileError(path string, err error) string {
	return s.Deny.Render("error") + s.Message.Render(": "+err.Error()) + "\n" +
		" " + s.Arrow.Render("--> ") + path + "\n"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
