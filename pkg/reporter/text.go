package reporter

import (
	"bufio"
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/idiomlint/internal/ui/pretty"
	"github.com/yaklabco/idiomlint/pkg/analysis"
	"github.com/yaklabco/idiomlint/pkg/runner"
	"github.com/yaklabco/idiomlint/pkg/span"
)

// TextReporter formats results as rustc-style annotated diagnostics.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
	diag   pretty.DiagnosticOptions

	// explained tracks rules whose level origin has been printed.
	explained map[string]bool
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	maxWidth := opts.MaxWidth
	if maxWidth == 0 {
		maxWidth = pretty.TerminalWidth(opts.Writer)
	}
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
		diag: pretty.DiagnosticOptions{
			RuleFormat:  opts.RuleFormat,
			ShowContext: opts.ShowContext,
			MaxWidth:    maxWidth,
		},
		explained: make(map[string]bool),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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

	var total int
	for _, file := range result.Files {
		total += r.reportFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// reportFile writes one outcome and returns the number of diagnostics written.
func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := analysis.DisplayPath(file, r.opts.WorkingDir)

	if file.Error != nil {
		fmt.Fprintln(r.bw, r.styles.FormatFileError(path, file.Error))
		return 0
	}
	if file.Result == nil || file.Result.FileResult == nil {
		return 0
	}

	r.reportRuleErrors(path, file.Result.RuleErrors)

	diagnostics := file.Result.Diagnostics
	if len(diagnostics) == 0 {
		return 0
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(diagnostics)))
		fmt.Fprintln(r.bw)
	}

	var src *span.Source
	if file.Result.File != nil {
		src = file.Result.File.Source
	}

	for i := range diagnostics {
		d := &diagnostics[i]
		opts := r.diag
		if r.opts.ShowOrigin && !r.explained[d.RuleID] {
			opts.ShowOrigin = true
			r.explained[d.RuleID] = true
		}
		fmt.Fprintln(r.bw, r.styles.FormatDiagnostic(d, path, src, opts))
	}

	return len(diagnostics)
}

func (r *TextReporter) reportRuleErrors(path string, errs map[string]error) {
	ids := make([]string, 0, len(errs))
	for id := range errs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Fprintf(r.bw, "%s: rule %s failed on %s: %v\n",
			r.styles.Warn.Render("warning"), id, path, errs[id])
	}
}
