package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/yaklabco/idiomlint/internal/ui/pretty"
	"github.com/yaklabco/idiomlint/pkg/analysis"
	"github.com/yaklabco/idiomlint/pkg/runner"
)

const fixHint = "Run with --fix to apply machine-applicable suggestions"

// TableReporter prints diagnostics as level-colored table rows, either in one
// table or one table per file.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a table reporter. Rows are fitted to
// opts.MaxWidth, or to the terminal when it is zero.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)

	width := opts.MaxWidth
	if width == 0 {
		width = pretty.TerminalWidth(opts.Writer)
	}

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, colorEnabled, width, opts.RuleFormat),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No program models to check."))
		}
		return 0, nil
	}

	total, fixable := tally(result)
	if total == 0 {
		if r.opts.ShowSummary {
			checked := result.Stats.FilesProcessed
			fmt.Fprintf(r.bw, "\n%s\n%s\n",
				r.styles.Success.Render("All models passed!"),
				r.styles.Dim.Render(fmt.Sprintf("%d %s checked", checked, pluralize(checked, "model", "models"))))
		}
		return 0, nil
	}

	if r.opts.PerFile {
		for _, file := range result.Files {
			if block := r.formatter.FormatFileTable(file); block != "" {
				fmt.Fprintf(r.bw, "\n%s\n%s", r.styles.Bold.Render(analysis.DisplayPath(file, r.opts.WorkingDir)), block)
			}
		}
		if r.opts.ShowSummary {
			fmt.Fprintf(r.bw, "\n%s\n", r.styles.Bold.Render("Overall Summary"))
		}
	} else {
		fmt.Fprint(r.bw, r.formatter.FormatTable(result))
	}

	if r.opts.ShowSummary {
		r.footer(r.bw, result.Stats, fixable)
	}
	return total, nil
}

func (r *TableReporter) footer(w io.Writer, stats runner.Stats, fixable bool) {
	fmt.Fprintln(w, r.formatter.FormatTableSummary(stats, ""))
	if fixable {
		fmt.Fprintf(w, "\n%s\n", r.styles.Dim.Render(fixHint))
	}
}

// tally counts the diagnostics in result and reports whether any carries a
// machine-applicable suggestion.
func tally(result *runner.Result) (total int, fixable bool) {
	for _, file := range result.Files {
		if file.Result == nil || file.Result.FileResult == nil {
			continue
		}
		total += len(file.Result.Diagnostics)
		for i := range file.Result.Diagnostics {
			fixable = fixable || file.Result.Diagnostics[i].HasFix()
		}
	}
	return total, fixable
}
