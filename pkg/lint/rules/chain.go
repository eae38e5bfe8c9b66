package rules

import (
	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/span"
)

// replaceChain reports the calls from first through last and suggests
// replacing them with the text built by rewrite. The finding is kept
// without a suggestion when rewrite cannot copy the text it needs.
func replaceChain(
	rc *lint.RuleContext,
	first, last *ast.Node,
	message, help string,
	applicability fix.Applicability,
	rewrite func(sb *lint.SuggestionBuilder) string,
) (*lint.Finding, error) {
	sp, err := lint.ChainSpan(first, last)
	if err != nil {
		return nil, err
	}

	sb := rc.Suggest(help, applicability).Require(first, last)
	text := rewrite(sb)
	sb.Replace(sp, text)

	return rc.Report(sp, message).WithSuggestion(sb).Build(), nil
}

// replaceCall is replaceChain for a single call.
func replaceCall(
	rc *lint.RuleContext,
	call *ast.Node,
	message, help string,
	applicability fix.Applicability,
	rewrite func(sb *lint.SuggestionBuilder) string,
) (*lint.Finding, error) {
	return replaceChain(rc, call, call, message, help, applicability, rewrite)
}

// onOption reports whether call is made on an Option.
func onOption(call *ast.Node) bool {
	return lint.ReceiverType(call).IsOption()
}

// onResult reports whether call is made on a Result.
func onResult(call *ast.Node) bool {
	return lint.ReceiverType(call).IsResult()
}

// onIterator reports whether call is made on an iterator.
func onIterator(call *ast.Node) bool {
	return lint.ReceiverType(call).IsIterator()
}

// isNone reports whether expr is the `None` path.
func isNone(expr *ast.Node) bool {
	return expr != nil && expr.Kind == ast.NodePath && (expr.Name == "None" || expr.Name == "Option::None")
}

// argsText copies the source text of a call's arguments, from the first
// argument through the last.
func argsText(sb *lint.SuggestionBuilder, call *ast.Node) string {
	args := call.Args()
	if len(args) == 0 {
		return ""
	}
	sb.Require(args...)
	first, last := args[0], args[len(args)-1]
	sp, err := span.Merge(first.Span, last.Span)
	if err != nil {
		sb.Fail(err.Error())
		return ""
	}
	return sb.TextOf(sp)
}
