package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "5 issues (2 errors, 3 warnings) in 3 files, 4 fixable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.DiagnosticsTotal == 0 {
		msg := s.Success.Render("No issues found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, "model", "models")))
		if stats.SuggestionsApplied > 0 {
			msg += ", " + s.fixedPart(stats)
		}
		return msg + "\n"
	}

	var parts []string

	issueWord := plural(stats.DiagnosticsTotal, "issue", "issues")
	if levels := s.levelParts(stats); len(levels) > 0 {
		parts = append(parts, fmt.Sprintf("%d %s (%s)", stats.DiagnosticsTotal, issueWord, strings.Join(levels, ", ")))
	} else {
		parts = append(parts, fmt.Sprintf("%d %s", stats.DiagnosticsTotal, issueWord))
	}

	parts = append(parts, fmt.Sprintf("in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, "file", "files")))

	if stats.DiagnosticsFixable > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d fixable", stats.DiagnosticsFixable)))
	}

	if stats.SuggestionsApplied > 0 {
		parts = append(parts, s.fixedPart(stats))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Deny.Render(fmt.Sprintf("%d %s not processed", stats.FilesErrored,
			plural(stats.FilesErrored, "model", "models"))))
	}

	return strings.Join(parts, ", ") + "\n"
}

func (s *Styles) levelParts(stats runner.Stats) []string {
	var parts []string
	if n := stats.DiagnosticsByLevel[config.LevelDeny]; n > 0 {
		parts = append(parts, s.Deny.Render(fmt.Sprintf("%d %s", n, plural(n, "error", "errors"))))
	}
	if n := stats.DiagnosticsByLevel[config.LevelWarn]; n > 0 {
		parts = append(parts, s.Warn.Render(fmt.Sprintf("%d %s", n, plural(n, "warning", "warnings"))))
	}
	return parts
}

func (s *Styles) fixedPart(stats runner.Stats) string {
	return s.Success.Render(fmt.Sprintf("%d fixed in %d %s",
		stats.SuggestionsApplied, stats.FilesModified, plural(stats.FilesModified, "file", "files")))
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Models checked:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesSkipped > 0 {
		builder.WriteString("  Models skipped:    " +
			s.Dim.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}

	if stats.FilesErrored > 0 {
		builder.WriteString("  Models failed:     " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	if stats.FilesWithIssues > 0 {
		builder.WriteString("  Files with issues: " +
			s.Failure.Render(strconv.Itoa(stats.FilesWithIssues)) + "\n")
	}

	if stats.FilesModified > 0 {
		builder.WriteString("  Files modified:    " +
			s.Success.Render(strconv.Itoa(stats.FilesModified)) + "\n")
	}

	builder.WriteString("\n")

	builder.WriteString("  Total issues:      " +
		s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)) + "\n")

	if n := stats.DiagnosticsByLevel[config.LevelDeny]; n > 0 {
		builder.WriteString("    Errors:          " + s.Deny.Render(strconv.Itoa(n)) + "\n")
	}
	if n := stats.DiagnosticsByLevel[config.LevelWarn]; n > 0 {
		builder.WriteString("    Warnings:        " + s.Warn.Render(strconv.Itoa(n)) + "\n")
	}
	if stats.Suppressed > 0 {
		builder.WriteString("    Suppressed:      " + s.Dim.Render(strconv.Itoa(stats.Suppressed)) + "\n")
	}

	builder.WriteString("\n")

	switch {
	case stats.DiagnosticsByLevel[config.LevelDeny] > 0:
		builder.WriteString(s.Failure.Render("Lint failed with errors"))
	case stats.Strict && stats.DiagnosticsByLevel[config.LevelWarn] > 0:
		builder.WriteString(s.Failure.Render("Lint failed with warnings (strict)"))
	case stats.DiagnosticsByLevel[config.LevelWarn] > 0:
		builder.WriteString(s.Warn.Render("Lint completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Lint passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
