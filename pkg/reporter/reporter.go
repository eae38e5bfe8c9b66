// Package reporter writes lint results as text, tables, JSON, SARIF, diffs
// or summaries.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/idiomlint/pkg/analysis"
	"github.com/yaklabco/idiomlint/pkg/runner"
)

// Reporter writes a run's results and returns how many issues it reported.
type Reporter interface {
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// Renderer writes an already analyzed report. Machine-readable formats and
// the summary are renderers; the streaming text, table and diff formats
// implement Reporter directly.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}

// analyzed adapts a Renderer to Reporter, computing only the views the
// renderer reads.
type analyzed struct {
	render Renderer
	opts   analysis.Options
}

var _ Reporter = analyzed{}

func (a analyzed) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, a.opts)
	if err := a.render.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Issues, nil
}

func withAnalysis(render Renderer, views analysis.View, opts Options) Reporter {
	aopts := analysis.DefaultOptions()
	aopts.Views = views
	aopts.WorkingDir = opts.WorkingDir
	return analyzed{render: render, opts: aopts}
}

// New returns the reporter for opts.Format. An empty format means text and
// a nil writer means stdout.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	switch opts.Format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatTable:
		return NewTableReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatJSON:
		return withAnalysis(NewJSONRenderer(opts), analysis.ViewDiagnostics, opts), nil
	case FormatSARIF:
		return withAnalysis(NewSARIFRenderer(opts), analysis.ViewDiagnostics, opts), nil
	case FormatSummary:
		return withAnalysis(NewSummaryRenderer(opts), analysis.ViewByFile|analysis.ViewByRule, opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
}
