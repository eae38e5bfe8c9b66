package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/ast/asttest"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

// exprPrefix and exprSuffix wrap a single expression in a function body.
const (
	exprPrefix = "fn main() {\n    let _ = "
	exprSuffix = ";\n}\n"
)

// lintWith lints file with only the given rules registered.
func lintWith(t *testing.T, file *ast.File, cfg *config.Config, rules ...lint.Rule) *lint.FileResult {
	t.Helper()

	registry := lint.NewRegistry()
	for _, rule := range rules {
		registry.Register(rule)
	}
	return lintRegistry(t, registry, file, cfg)
}

// lintAll lints file with every rule and its clippy aliases registered.
func lintAll(t *testing.T, file *ast.File, cfg *config.Config) *lint.FileResult {
	t.Helper()

	registry := lint.NewRegistry()
	RegisterAll(registry)
	RegisterClippyAliases(registry)
	return lintRegistry(t, registry, file, cfg)
}

func lintRegistry(t *testing.T, registry *lint.Registry, file *ast.File, cfg *config.Config) *lint.FileResult {
	t.Helper()

	if cfg == nil {
		cfg = config.NewConfig()
	}
	rs, err := lint.Resolve(registry, cfg)
	require.NoError(t, err)

	result, err := lint.NewEngine(rs, cfg).Lint(file)
	require.NoError(t, err)
	require.Empty(t, result.RuleErrors)
	return result
}

// exprFile builds a model of a function whose body binds expr.
func exprFile(t *testing.T, expr string, opts ...asttest.Opt) *ast.File {
	t.Helper()

	b := asttest.New(exprPrefix + expr + exprSuffix)
	return b.Adapt(t, b.Fn("fn main()", b.Expr(expr, opts...)))
}

// lintExpr lints a single expression with the given rules.
func lintExpr(t *testing.T, expr string, opts []asttest.Opt, rules ...lint.Rule) (*ast.File, []lint.Diagnostic) {
	t.Helper()

	file := exprFile(t, expr, opts...)
	return file, lintWith(t, file, nil, rules...).Diagnostics
}

// applied returns the source of file with the diagnostic's suggestion applied.
func applied(t *testing.T, file *ast.File, d lint.Diagnostic) string {
	t.Helper()

	require.NotNil(t, d.Suggestion, "diagnostic %s has no suggestion", d.RuleID)
	out, err := d.Suggestion.Apply(file.Source)
	require.NoError(t, err)
	return string(out)
}

// appliedAll applies every non-conflicting suggestion in diags.
func appliedAll(t *testing.T, file *ast.File, diags []lint.Diagnostic) string {
	t.Helper()

	var suggs []*fix.Suggestion
	for i := range diags {
		if diags[i].Suggestion != nil {
			suggs = append(suggs, diags[i].Suggestion)
		}
	}
	sel := fix.SelectSuggestions(file.Source, suggs)
	require.Zero(t, sel.Skipped)
	return string(fix.ApplyEdits(file.Source.Content, sel.Edits))
}

// rewrittenExpr returns the expression after applying d, for sources built by exprFile.
func rewrittenExpr(t *testing.T, file *ast.File, d lint.Diagnostic) string {
	t.Helper()

	out := applied(t, file, d)
	require.True(t, strings.HasPrefix(out, exprPrefix), "prefix changed: %q", out)
	require.True(t, strings.HasSuffix(out, exprSuffix), "suffix changed: %q", out)
	return strings.TrimSuffix(strings.TrimPrefix(out, exprPrefix), exprSuffix)
}

// snippet returns the source text covered by the diagnostic's span.
func snippet(t *testing.T, file *ast.File, d lint.Diagnostic) string {
	t.Helper()

	r, ok := file.Source.Range(d.Span)
	require.True(t, ok)
	return string(file.Source.Content[r.StartOffset:r.EndOffset])
}

func ruleIDs(diags []lint.Diagnostic) []string {
	ids := make([]string, 0, len(diags))
	for i := range diags {
		ids = append(ids, diags[i].RuleID)
	}
	return ids
}

func levelPtr(level config.Level) *string {
	s := string(level)
	return &s
}
