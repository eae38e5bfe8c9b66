package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/idiomlint/pkg/analysis"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version     string                     `json:"version"`
	Diagnostics []analysis.DiagnosticEntry `json:"diagnostics"`
	Errors      []analysis.FileError       `json:"errors,omitempty"`
	Summary     analysis.Totals            `json:"summary"`
}

// JSONRenderer writes a report as JSON.
type JSONRenderer struct {
	opts Options
}

// NewJSONRenderer creates a new JSON renderer.
func NewJSONRenderer(opts Options) *JSONRenderer {
	return &JSONRenderer{opts: opts}
}

// Render implements Renderer.
func (r *JSONRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := JSONOutput{
		Version:     report.Version,
		Diagnostics: report.Diagnostics,
		Errors:      report.Errors,
		Summary:     report.Totals,
	}
	if output.Diagnostics == nil {
		output.Diagnostics = []analysis.DiagnosticEntry{}
	}

	encoder := json.NewEncoder(bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
