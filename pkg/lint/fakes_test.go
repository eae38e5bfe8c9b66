package lint_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/ast/asttest"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/span"
)

const chainSrc = `fn main() {
    let x = opt.map(|x| x + 1).unwrap_or(0);
}
`

// chainFile adapts chainSrc with opt typed as an Option.
func chainFile(b *asttest.Builder) *ast.RawFile {
	return b.File(b.Fn("fn main()", b.Expr("opt.map(|x| x + 1).unwrap_or(0)", asttest.Type("opt", "Option<i32>"))))
}

// callRule reports every call to one method. With chain set it covers the
// call and its chain predecessor.
type callRule struct {
	lint.BaseRule
	method   string
	level    config.Level
	subsumes []string
	chain    bool
	replace  string
}

func newCallRule(id, name, group, method string) *callRule {
	return &callRule{
		BaseRule: lint.NewBaseRule(id, name, group, "reports "+method+" calls", true, ast.NodeMethodCall),
		method:   method,
	}
}

func (r *callRule) DefaultLevel() config.Level {
	if r.level != "" {
		return r.level
	}
	return config.LevelWarn
}

func (r *callRule) Subsumes() []string {
	return r.subsumes
}

func (r *callRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	if node.Name != r.method {
		return nil, nil
	}

	sp := node.CallSpan()
	if pred := node.ChainPredecessor(); r.chain && pred != nil {
		var err error
		if sp, err = lint.ChainSpan(pred, node); err != nil {
			return nil, err
		}
	}

	b := rc.Report(sp, "found "+r.method)
	if r.replace != "" {
		b.WithSuggestion(rc.Suggest("replace it", fix.MachineApplicable).Replace(sp, r.replace))
	}
	return b.Build(), nil
}

// errRule fails on every node it sees.
type errRule struct {
	lint.BaseRule
	err   error
	calls int
}

func (r *errRule) Check(_ *lint.RuleContext, _ *ast.Node) (*lint.Finding, error) {
	r.calls++
	return nil, r.err
}

// strayRule reports a finding in another file.
type strayRule struct {
	lint.BaseRule
}

func (r *strayRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	sp := node.Span
	sp.File = "elsewhere.rs"
	return rc.Report(sp, "stray").Build(), nil
}

// orderRule records the nodes it is dispatched on, and its own name in log
// when one is shared between rules.
type orderRule struct {
	lint.BaseRule
	seen []string
	log  *[]string
}

func (r *orderRule) Check(_ *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	r.seen = append(r.seen, node.Kind.String()+":"+node.Name)
	if r.log != nil {
		*r.log = append(*r.log, r.Name()+"@"+node.Kind.String())
	}
	return nil, nil
}

var errBoom = errors.New("boom")

// adaptChain adapts chainSrc.
func adaptChain(t *testing.T, opts ...asttest.Opt) *ast.File {
	t.Helper()
	b := asttest.New(chainSrc)
	opts = append([]asttest.Opt{asttest.Type("opt", "Option<i32>")}, opts...)
	return b.Adapt(t, b.Fn("fn main()", b.Expr("opt.map(|x| x + 1).unwrap_or(0)", opts...)))
}

// findCall returns the first call of method in file.
func findCall(t *testing.T, file *ast.File, method string) *ast.Node {
	t.Helper()
	node := ast.FindFirst(file.Root, func(n *ast.Node) bool { return n.IsMethodCall(method) })
	require.NotNil(t, node, method)
	return node
}

func registryOf(rules ...lint.Rule) *lint.Registry {
	reg := lint.NewRegistry()
	for _, r := range rules {
		reg.Register(r)
	}
	return reg
}

func mkSpan(file string, sl, sc, el, ec int) span.Span {
	return span.Span{File: file, StartLine: sl, StartColumn: sc, EndLine: el, EndColumn: ec}
}
