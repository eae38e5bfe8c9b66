package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/idiomlint/internal/ui/pretty"
	"github.com/yaklabco/idiomlint/pkg/analysis"
	"github.com/yaklabco/idiomlint/pkg/config"
)

const (
	maxRuleNameWidth = 32
	maxFilePathWidth = 60
)

// SummaryRenderer formats results as aggregated summary tables.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if report.Totals.Issues == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No issues found"))
		return nil
	}

	// Determine order
	if r.opts.SummaryOrder == config.SummaryOrderFiles {
		r.renderFileTable(report.ByFile)
		fmt.Fprintln(r.out)
		r.renderRuleTable(report.ByRule)
	} else {
		r.renderRuleTable(report.ByRule)
		fmt.Fprintln(r.out)
		r.renderFileTable(report.ByFile)
	}

	fmt.Fprintln(r.out)
	r.renderTotals(report.Totals)

	return nil
}

func (r *SummaryRenderer) renderRuleTable(rules []analysis.RuleAnalysis) {
	if len(rules) == 0 {
		return
	}

	rows := make([][]string, len(rules))
	for i, rule := range rules {
		name := config.FormatRuleID(r.opts.RuleFormat, rule.RuleID, rule.RuleName)
		fixable := ""
		if rule.Fixable {
			fixable = "✓"
		}
		rows[i] = []string{
			runewidth.Truncate(name, maxRuleNameWidth, "…"),
			strconv.Itoa(rule.Issues),
			strconv.Itoa(rule.Errors),
			strconv.Itoa(rule.Warnings),
			fixable,
		}
	}

	tbl := r.styles.NewTable([]string{"Rule", "Count", "Errors", "Warnings", "Fixable"}, rows,
		func(row, col int) lipgloss.Style {
			switch col {
			case 0:
				return r.countStyle(rules[row].Errors, rules[row].Warnings)
			case 4:
				return r.styles.Success.Align(lipgloss.Center)
			default:
				return lipgloss.NewStyle().Align(lipgloss.Right)
			}
		})

	fmt.Fprintln(r.out, r.styles.Bold.Render("Rules Summary"))
	fmt.Fprintln(r.out, tbl.String())
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	rows := make([][]string, len(files))
	for i, file := range files {
		path := file.Path
		if w := runewidth.StringWidth(path); w > maxFilePathWidth {
			path = "…" + runewidth.TruncateLeft(path, w-maxFilePathWidth+1, "")
		}
		rows[i] = []string{path, strconv.Itoa(file.Issues), strconv.Itoa(file.Errors), strconv.Itoa(file.Warnings)}
	}

	tbl := r.styles.NewTable([]string{"File", "Count", "Errors", "Warnings"}, rows,
		func(row, col int) lipgloss.Style {
			if col == 0 {
				return r.countStyle(files[row].Errors, files[row].Warnings)
			}
			return lipgloss.NewStyle().Align(lipgloss.Right)
		})

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	fmt.Fprintln(r.out, tbl.String())
}

// countStyle colors a name cell by the worst level it carries.
func (r *SummaryRenderer) countStyle(denied, warned int) lipgloss.Style {
	switch {
	case denied > 0:
		return r.styles.TableDenyRow
	case warned > 0:
		return r.styles.TableWarnRow
	default:
		return lipgloss.NewStyle()
	}
}

func (r *SummaryRenderer) renderTotals(totals analysis.Totals) {
	parts := make([]string, 0, 2)

	issueWord := pluralize(totals.Issues, "issue", "issues")
	parts = append(parts, fmt.Sprintf("%d %s", totals.Issues, issueWord))

	// Level breakdown
	var levelParts []string
	if totals.Errors > 0 {
		levelParts = append(levelParts, r.styles.Deny.Render(
			fmt.Sprintf("%d %s", totals.Errors, pluralize(totals.Errors, "error", "errors"))))
	}
	if totals.Warnings > 0 {
		levelParts = append(levelParts, r.styles.Warn.Render(
			fmt.Sprintf("%d %s", totals.Warnings, pluralize(totals.Warnings, "warning", "warnings"))))
	}
	if len(levelParts) > 0 {
		parts[0] = fmt.Sprintf("%d %s (%s)", totals.Issues, issueWord, strings.Join(levelParts, ", "))
	}

	parts = append(parts, fmt.Sprintf("in %d %s", totals.FilesWithIssues,
		pluralize(totals.FilesWithIssues, "file", "files")))

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+strings.Join(parts, " "))
}
