package pretty_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/idiomlint/internal/ui/pretty"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/span"
)

const filterSrc = `fn main() {
    let _ = v.iter().filter(|&x| *x < 0).next();
}
`

const chainSrc = `fn main() {
    let x = opt
        .map(|x| x + 1)
        .unwrap_or(0);
}
`

func filterDiag() *lint.Diagnostic {
	sp := span.Span{File: "src/lib.rs", StartLine: 2, StartColumn: 13, EndLine: 2, EndColumn: 48}
	return &lint.Diagnostic{
		Finding: lint.Finding{
			RuleID:  "IL009",
			Span:    sp,
			Message: "called `filter(..).next()` on an `Iterator`",
			Suggestion: &fix.Suggestion{
				Message:       "try using `find` instead",
				Replacements:  []fix.Replacement{{Span: sp, Text: "v.iter().find(|&x| *x < 0)"}},
				Applicability: fix.MachineApplicable,
			},
		},
		RuleName: "filter-next",
		Group:    lint.GroupComplexity,
		Level:    config.LevelWarn,
		Origin:   lint.Origin{Kind: lint.OriginDefault, Level: config.LevelWarn},
	}
}

func TestFormatDiagnostic_SingleLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	src := span.NewSource("src/lib.rs", []byte(filterSrc))

	got := styles.FormatDiagnostic(filterDiag(), "src/lib.rs", src, pretty.DiagnosticOptions{
		RuleFormat:  config.RuleFormatName,
		ShowContext: true,
		ShowOrigin:  true,
	})

	want := "warning[filter-next]: called `filter(..).next()` on an `Iterator`\n" +
		" --> src/lib.rs:2:13\n" +
		"  |\n" +
		"2 |     let _ = v.iter().filter(|&x| *x < 0).next();\n" +
		"  |             " + strings.Repeat("^", 35) + "\n" +
		"  |\n" +
		"  = note: `#[warn(filter-next)]` on by default\n" +
		"help: try using `find` instead: `v.iter().find(|&x| *x < 0)`\n"
	assert.Equal(t, want, got)
}

func TestFormatDiagnostic_MultiLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	src := span.NewSource("src/lib.rs", []byte(chainSrc))
	diag := &lint.Diagnostic{
		Finding: lint.Finding{
			RuleID:  "IL005",
			Span:    span.Span{File: "src/lib.rs", StartLine: 2, StartColumn: 13, EndLine: 4, EndColumn: 22},
			Message: "called `map(f).unwrap_or(a)` on an `Option` value",
		},
		RuleName: "option-map-unwrap-or",
		Level:    config.LevelDeny,
	}

	got := styles.FormatDiagnostic(diag, "src/lib.rs", src, pretty.DiagnosticOptions{
		RuleFormat:  config.RuleFormatID,
		ShowContext: true,
	})

	want := "error[IL005]: called `map(f).unwrap_or(a)` on an `Option` value\n" +
		" --> src/lib.rs:2:13\n" +
		"  |\n" +
		"2 |       let x = opt\n" +
		"  |  _____________^\n" +
		"3 | |         .map(|x| x + 1)\n" +
		"4 | |         .unwrap_or(0);\n" +
		"  | |" + strings.Repeat("_", 21) + "^\n"
	assert.Equal(t, want, got)
}

func TestFormatDiagnostic_WithoutContext(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	diag := filterDiag()
	diag.Note = "this is more succinctly expressed with `find`"
	diag.Suggestion = nil

	got := styles.FormatDiagnostic(diag, "lib.rs", nil, pretty.DiagnosticOptions{RuleFormat: config.RuleFormatCombined})

	assert.Equal(t, "warning[IL009/filter-next]: called `filter(..).next()` on an `Iterator`\n"+
		" --> lib.rs:2:13\n"+
		"  = note: this is more succinctly expressed with `find`\n", got)
}

func TestFormatDiagnostic_SpanOutsideSource(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	src := span.NewSource("src/lib.rs", []byte("fn main() {}\n"))
	diag := filterDiag()
	diag.Span.StartLine, diag.Span.EndLine = 5, 5
	diag.Suggestion = nil

	got := styles.FormatDiagnostic(diag, "src/lib.rs", src, pretty.DiagnosticOptions{ShowContext: true})
	assert.NotContains(t, got, "|")
}

func TestFormatDiagnostic_ClipsLongLines(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	src := span.NewSource("src/lib.rs", []byte(filterSrc))

	got := styles.FormatDiagnostic(filterDiag(), "src/lib.rs", src, pretty.DiagnosticOptions{
		ShowContext: true,
		MaxWidth:    24,
	})
	assert.Contains(t, got, "2 |     let _ = v.iter(…\n")
}

func TestFormatHelp(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	sp := func(line, col int) span.Span {
		return span.Span{File: "a.rs", StartLine: line, StartColumn: col, EndLine: line, EndColumn: col + 3}
	}

	tests := []struct {
		name string
		sugg *fix.Suggestion
		want string
	}{
		{name: "nil", sugg: nil, want: ""},
		{name: "no replacements", sugg: &fix.Suggestion{Message: "x"}, want: ""},
		{
			name: "maybe incorrect",
			sugg: &fix.Suggestion{
				Message:       "try this",
				Replacements:  []fix.Replacement{{Span: sp(1, 1), Text: "v.iter().any(|x| *x == 0)"}},
				Applicability: fix.MaybeIncorrect,
			},
			want: "help: try this (maybe incorrect): `v.iter().any(|x| *x == 0)`\n",
		},
		{
			name: "several replacements",
			sugg: &fix.Suggestion{
				Message:       "use `Self` instead",
				Replacements:  []fix.Replacement{{Span: sp(2, 5), Text: "Self"}, {Span: sp(3, 9), Text: "Self"}},
				Applicability: fix.MachineApplicable,
			},
			want: "help: use `Self` instead\n    2:5\n      Self\n    3:9\n      Self\n",
		},
		{
			name: "placeholder default message",
			sugg: &fix.Suggestion{
				Replacements:  []fix.Replacement{{Span: sp(1, 1), Text: `expect("..")`}},
				Applicability: fix.HasPlaceholders,
			},
			want: "help: try (has placeholders): `expect(\"..\")`\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatHelp(tt.sugg))
		})
	}
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "lib.pm.json", styles.FormatFileHeader("lib.pm.json", 0))
	assert.Equal(t, "lib.pm.json (1 issue)", styles.FormatFileHeader("lib.pm.json", 1))
	assert.Equal(t, "lib.pm.json (3 issues)", styles.FormatFileHeader("lib.pm.json", 3))
}

func TestFormatFileError(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	got := styles.FormatFileError("bad.pm.json", errors.New("model decode failed"))
	assert.Equal(t, "error: model decode failed\n --> bad.pm.json\n", got)
}
