package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/idiomlint/pkg/config"
)

// bufWriterSize is the buffer in front of the output writer.
const bufWriterSize = 64 * 1024

// Options configures a reporter. The CLI fills it from the resolved config
// and flags.
type Options struct {
	Writer      io.Writer
	ErrorWriter io.Writer
	Format      Format

	// Color is "auto", "always" or "never".
	Color string

	ShowContext bool // source excerpt under each diagnostic
	ShowSummary bool
	ShowOrigin  bool // explain once per rule which setting decided its level
	GroupByFile bool
	Compact     bool // single-line JSON and SARIF
	PerFile     bool // one table per file

	RuleFormat   config.RuleFormat
	SummaryOrder config.SummaryOrder

	// MaxWidth caps excerpts and tables; 0 uses the terminal width.
	MaxWidth int

	// ToolVersion goes into the SARIF driver.
	ToolVersion string

	// WorkingDir, when set, makes displayed paths relative to it.
	WorkingDir string
}

// DefaultOptions writes colored text with context to stdout.
func DefaultOptions() Options {
	return Options{
		Writer:       os.Stdout,
		ErrorWriter:  os.Stderr,
		Format:       FormatText,
		Color:        "auto",
		ShowContext:  true,
		ShowSummary:  true,
		ShowOrigin:   true,
		GroupByFile:  true,
		RuleFormat:   config.RuleFormatName,
		SummaryOrder: config.SummaryOrderRules,
	}
}
