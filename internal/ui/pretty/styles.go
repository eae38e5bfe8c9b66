// Package pretty renders diagnostics, tables and summaries for terminals
// with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/yaklabco/idiomlint/pkg/config"
)

// ANSI palette indexes, after rustc's.
const (
	red     = "9"
	green   = "10"
	yellow  = "11"
	blue    = "12"
	cyan    = "14"
	white   = "7"
	grey    = "8"
	noColor = ""
)

// Styles holds every style the renderers use. With color disabled each one
// is an empty lipgloss style and renders text unchanged.
type Styles struct {
	Deny, Warn, Note, Help lipgloss.Style

	// rustc diagnostic layout
	FilePath   lipgloss.Style
	Arrow      lipgloss.Style
	Gutter     lipgloss.Style
	RuleID     lipgloss.Style
	Message    lipgloss.Style
	Suggestion lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	DiffHeader, DiffHunk, DiffAdd, DiffRemove, DiffContext lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	TableHeader    lipgloss.Style
	TableDenyRow   lipgloss.Style
	TableWarnRow   lipgloss.Style
	TableFixable   lipgloss.Style
	TableLegend    lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles builds the style set, colored or plain.
func NewStyles(colorEnabled bool) *Styles {
	fg := func(color string) lipgloss.Style {
		style := lipgloss.NewStyle()
		if colorEnabled && color != noColor {
			style = style.Foreground(lipgloss.Color(color))
		}
		return style
	}
	strong := func(color string) lipgloss.Style {
		return fg(color).Bold(colorEnabled)
	}

	legend := fg(grey)
	if colorEnabled {
		legend = legend.Italic(true)
	}

	return &Styles{
		Deny: strong(red),
		Warn: strong(yellow),
		Note: strong(noColor),
		Help: strong(cyan),

		FilePath:   strong(noColor),
		Arrow:      strong(blue),
		Gutter:     strong(blue),
		RuleID:     fg(grey),
		Message:    strong(noColor),
		Suggestion: fg(green),
		SourceLine: fg(noColor),
		Caret:      strong(yellow),

		DiffHeader:  strong(noColor),
		DiffHunk:    fg(cyan),
		DiffAdd:     fg(green),
		DiffRemove:  fg(red),
		DiffContext: fg(grey),

		SummaryTitle: strong(noColor),
		SummaryValue: fg(noColor),
		Success:      strong(green),
		Failure:      strong(red),

		TableHeader:    strong(white),
		TableDenyRow:   fg(red),
		TableWarnRow:   fg(yellow),
		TableFixable:   fg(green),
		TableLegend:    legend,
		TableSeparator: fg(grey),

		Dim:  fg(grey),
		Bold: strong(noColor),
	}
}

// LevelStyle is Deny for deny and Warn otherwise.
func (s *Styles) LevelStyle(level config.Level) lipgloss.Style {
	if level == config.LevelDeny {
		return s.Deny
	}
	return s.Warn
}

// LevelLabel is the word rustc prints for level: "error" or "warning".
func LevelLabel(level config.Level) string {
	if level == config.LevelDeny {
		return "error"
	}
	return "warning"
}

// IsColorEnabled resolves a --color mode for writer. "always" and "never"
// are absolute; anything else means color only on a terminal and only when
// NO_COLOR is unset.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// TerminalWidth returns the width of writer when it is a terminal, or 0.
func TerminalWidth(writer io.Writer) int {
	f, ok := writer.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
