package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/runner"
)

const (
	fixableMark      = "+"
	defaultTermWidth = 100
	minMessageWidth  = 30
	maxPathWidth     = 48
	cellPadding      = 2
)

// NewTable returns a table without outer or column borders and with a rule
// under the header. cell styles data cells; it may be nil. Every cell gets
// one column of padding on each side.
func (s *Styles) NewTable(headers []string, rows [][]string, cell func(row, col int) lipgloss.Style) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.TableSeparator).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.TableHeader.Padding(0, 1)
			case cell != nil:
				return cell(row, col).Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		})
}

// TableRow is one diagnostic as the table format shows it.
type TableRow struct {
	File     string
	Location string
	Message  string
	Rule     string
	Level    config.Level
	Fixable  bool
}

// DiagnosticToTableRow flattens diag for path.
func DiagnosticToTableRow(path string, diag *lint.Diagnostic, ruleFormat config.RuleFormat) TableRow {
	return TableRow{
		File:     path,
		Location: fmt.Sprintf("%d:%d", diag.Span.StartLine, diag.Span.StartColumn),
		Message:  diag.Message,
		Rule:     config.FormatRuleID(ruleFormat, diag.RuleID, diag.RuleName),
		Level:    diag.Level,
		Fixable:  diag.HasFix(),
	}
}

// TableFormatter renders diagnostics one row each.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
	ruleFormat   config.RuleFormat
}

// NewTableFormatter creates a formatter that fits rows into termWidth
// columns, or 100 when termWidth is not positive.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int, ruleFormat config.RuleFormat) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
		ruleFormat:   ruleFormat,
	}
}

// FormatTable renders every file's diagnostics in one table with a FILE
// column, followed by a legend. The path is shown on a file's first row only.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	if result == nil {
		return ""
	}

	var rows []TableRow
	for _, file := range result.Files {
		rows = append(rows, t.fileRows(file)...)
	}
	if len(rows) == 0 {
		return ""
	}
	return t.render(rows, true) + t.legend() + "\n"
}

// FormatFileTable renders one file's diagnostics without the FILE column,
// followed by the file's counts.
func (t *TableFormatter) FormatFileTable(file runner.FileOutcome) string {
	rows := t.fileRows(file)
	if len(rows) == 0 {
		return ""
	}
	return t.render(rows, false) + t.fileCounts(rows) + "\n"
}

func (t *TableFormatter) fileRows(file runner.FileOutcome) []TableRow {
	if file.Result == nil || file.Result.FileResult == nil {
		return nil
	}
	diags := file.Result.Diagnostics
	rows := make([]TableRow, 0, len(diags))
	for i := range diags {
		rows = append(rows, DiagnosticToTableRow(file.Result.Path, &diags[i], t.ruleFormat))
	}
	return rows
}

func (t *TableFormatter) render(rows []TableRow, withFile bool) string {
	headers := []string{"LOC", "LEVEL", "RULE", "MESSAGE", "FIX"}
	if withFile {
		headers = append([]string{"FILE"}, headers...)
	}
	messageCol := len(headers) - 2

	cells := make([][]string, len(rows))
	for i, row := range rows {
		fix := ""
		if row.Fixable {
			fix = fixableMark
		}
		cells[i] = []string{row.Location, string(row.Level), row.Rule, row.Message, fix}
		if withFile {
			file := ""
			if i == 0 || rows[i-1].File != row.File {
				file = truncatePath(row.File, maxPathWidth)
			}
			cells[i] = append([]string{file}, cells[i]...)
		}
	}

	// The message column takes whatever width the others leave.
	used := 0
	for col, header := range headers {
		if col == messageCol {
			continue
		}
		width := runewidth.StringWidth(header)
		for _, c := range cells {
			width = max(width, runewidth.StringWidth(c[col]))
		}
		used += width + cellPadding
	}
	messageWidth := max(minMessageWidth, t.termWidth-used-cellPadding)
	for _, c := range cells {
		c[messageCol] = truncate(c[messageCol], messageWidth)
	}

	tbl := t.styles.NewTable(headers, cells, func(row, col int) lipgloss.Style {
		if col == len(headers)-1 {
			return t.styles.TableFixable
		}
		return t.styles.levelRow(rows[row].Level)
	})
	return tbl.String() + "\n"
}

func (s *Styles) levelRow(level config.Level) lipgloss.Style {
	switch level {
	case config.LevelDeny:
		return s.TableDenyRow
	case config.LevelWarn:
		return s.TableWarnRow
	default:
		return lipgloss.NewStyle()
	}
}

func (t *TableFormatter) legend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(" Legend: " + fixableMark + " = fixable")
	}
	return t.styles.TableLegend.Render(fmt.Sprintf(" Legend: %s = error  %s = warning  %s = fixable",
		t.styles.TableDenyRow.Render(" error "),
		t.styles.TableWarnRow.Render(" warning "),
		t.styles.TableFixable.Render(fixableMark)))
}

func (t *TableFormatter) fileCounts(rows []TableRow) string {
	var denied, warned, fixable int
	for _, row := range rows {
		switch row.Level {
		case config.LevelDeny:
			denied++
		case config.LevelWarn:
			warned++
		}
		if row.Fixable {
			fixable++
		}
	}
	return " " + strings.Join(t.countParts(denied, warned, fixable), " | ")
}

func (t *TableFormatter) countParts(denied, warned, fixable int) []string {
	var parts []string
	if denied > 0 {
		parts = append(parts, t.styles.Deny.Render(fmt.Sprintf("%d %s", denied, plural(denied, "error", "errors"))))
	}
	if warned > 0 {
		parts = append(parts, t.styles.Warn.Render(fmt.Sprintf("%d %s", warned, plural(warned, "warning", "warnings"))))
	}
	if fixable > 0 {
		parts = append(parts, t.styles.TableFixable.Render(fmt.Sprintf("%d fixable", fixable)))
	}
	return parts
}

// FormatTableSummary is the one-line footer of the table format. duration
// is appended when non-empty.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	parts := []string{fmt.Sprintf("%d %s checked", stats.FilesProcessed, plural(stats.FilesProcessed, "model", "models"))}
	parts = append(parts, t.countParts(
		stats.DiagnosticsByLevel[config.LevelDeny],
		stats.DiagnosticsByLevel[config.LevelWarn],
		stats.DiagnosticsFixable)...)
	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}
	return " " + strings.Join(parts, " | ")
}

// truncate cuts s to width display columns, marking the cut with "…".
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// truncatePath keeps the end of a path, where the file name is.
func truncatePath(path string, width int) string {
	w := runewidth.StringWidth(path)
	if w <= width {
		return path
	}
	return "…" + runewidth.TruncateLeft(path, w-width+1, "")
}
