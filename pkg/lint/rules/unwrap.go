package rules

import (
	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

// unwrapRule flags `.unwrap()` on one receiver type and suggests `expect`
// with a message the author has to write.
type unwrapRule struct {
	lint.BaseRule
	receiver string
	noneCase string
	matches  func(call *ast.Node) bool
}

// Check matches `.unwrap()` with no arguments.
func (r *unwrapRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	if !node.IsMethodCall("unwrap") || lint.ArgCount(node) != 0 || !r.matches(node) {
		return nil, nil
	}

	return replaceCall(rc, node,
		"used `unwrap()` on "+r.receiver+" value",
		"if you don't want to handle the "+r.noneCase+" case gracefully, "+
			"consider using `expect()` to provide a better panic message",
		fix.HasPlaceholders,
		func(*lint.SuggestionBuilder) string {
			return `expect("..")`
		})
}

// OptionUnwrapUsedRule flags `.unwrap()` on an Option.
type OptionUnwrapUsedRule struct {
	unwrapRule
}

// NewOptionUnwrapUsedRule creates a new option-unwrap-used rule.
func NewOptionUnwrapUsedRule() *OptionUnwrapUsedRule {
	return &OptionUnwrapUsedRule{unwrapRule{
		BaseRule: lint.NewBaseRule(
			"IL016",
			"option-unwrap-used",
			lint.GroupRestriction,
			"Checks for `.unwrap()` calls on an Option",
			false,
			ast.NodeMethodCall,
		),
		receiver: "an `Option`",
		noneCase: "`None`",
		matches:  onOption,
	}}
}

// ResultUnwrapUsedRule flags `.unwrap()` on a Result.
type ResultUnwrapUsedRule struct {
	unwrapRule
}

// NewResultUnwrapUsedRule creates a new result-unwrap-used rule.
func NewResultUnwrapUsedRule() *ResultUnwrapUsedRule {
	return &ResultUnwrapUsedRule{unwrapRule{
		BaseRule: lint.NewBaseRule(
			"IL017",
			"result-unwrap-used",
			lint.GroupRestriction,
			"Checks for `.unwrap()` calls on a Result",
			false,
			ast.NodeMethodCall,
		),
		receiver: "a `Result`",
		noneCase: "`Err`",
		matches:  onResult,
	}}
}

// DefaultLevel returns allow.
func (r *ResultUnwrapUsedRule) DefaultLevel() config.Level {
	return config.LevelAllow
}

// OkExpectRule flags `ok().expect(m)` on a Result.
type OkExpectRule struct {
	lint.BaseRule
}

// NewOkExpectRule creates a new ok-expect rule.
func NewOkExpectRule() *OkExpectRule {
	return &OkExpectRule{
		BaseRule: lint.NewBaseRule(
			"IL018",
			"ok-expect",
			lint.GroupStyle,
			"Checks for `ok().expect(..)` on a Result, which drops the error before panicking",
			false,
			ast.NodeMethodCall,
		),
	}
}

// Check matches `ok().expect(m)`.
//
// Result::expect needs the error type to implement Debug, which the model
// does not record, so the suggestion may not compile.
func (r *OkExpectRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	calls := lint.MatchChain(node, "ok", "expect")
	if calls == nil || !onResult(calls[0]) || lint.ArgCount(calls[0]) != 0 {
		return nil, nil
	}
	msg := lint.Arg(node, 0)
	if msg == nil {
		return nil, nil
	}

	return replaceChain(rc, calls[0], node,
		"called `ok().expect()` on a `Result` value",
		"you can call `expect()` directly on the `Result`",
		fix.MaybeIncorrect,
		func(sb *lint.SuggestionBuilder) string {
			return "expect(" + sb.Text(msg) + ")"
		})
}
