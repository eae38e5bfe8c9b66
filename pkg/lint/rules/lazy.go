package rules

import (
	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

// lazyVariants maps an eager method to its lazily evaluated counterpart.
//
//nolint:gochecknoglobals // Read-only lookup table.
var lazyVariants = map[string]string{
	"unwrap_or":     "unwrap_or_else",
	"or":            "or_else",
	"map_or":        "map_or_else",
	"ok_or":         "ok_or_else",
	"get_or_insert": "get_or_insert_with",
	"or_insert":     "or_insert_with",
}

// defaultVariants maps an eager method to the form that builds the default value.
//
//nolint:gochecknoglobals // Read-only lookup table.
var defaultVariants = map[string]string{
	"unwrap_or": "unwrap_or_default",
	"or_insert": "or_default",
}

// OrFunCallRule flags eager function calls passed to `unwrap_or` and friends.
type OrFunCallRule struct {
	lint.BaseRule
}

// NewOrFunCallRule creates a new or-fun-call rule.
func NewOrFunCallRule() *OrFunCallRule {
	return &OrFunCallRule{
		BaseRule: lint.NewBaseRule(
			"IL014",
			"or-fun-call",
			lint.GroupPerf,
			"Checks for function calls in `unwrap_or`, `or`, `map_or`, `ok_or`, and `or_insert` arguments",
			true,
			ast.NodeMethodCall,
		),
	}
}

// Check matches an eager method whose argument is not cheap to evaluate.
func (r *OrFunCallRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	lazy, ok := lazyVariants[node.Name]
	if !ok {
		return nil, nil
	}
	switch node.Name {
	case "or_insert":
	case "get_or_insert":
		if !onOption(node) {
			return nil, nil
		}
	default:
		if !onOption(node) && !onResult(node) {
			return nil, nil
		}
	}

	arg := lint.Arg(node, 0)
	if arg == nil {
		return nil, nil
	}

	if def, ok := defaultVariants[node.Name]; ok && isDefaultCtor(arg) && lint.ArgCount(node) == 1 {
		return replaceCall(rc, node,
			"use of `"+node.Name+"` to construct default value",
			"try",
			fix.MachineApplicable,
			func(*lint.SuggestionBuilder) string {
				return def + "()"
			})
	}

	if !isCall(arg) || lint.IsCheap(arg) {
		return nil, nil
	}

	params := "||"
	if onResult(node) && node.Name != "ok_or" {
		params = "|_|"
	}

	return replaceCall(rc, node,
		"use of `"+node.Name+"` followed by a function call",
		"try",
		fix.MachineApplicable,
		func(sb *lint.SuggestionBuilder) string {
			fallback := params + " " + sb.Text(arg)
			if params == "||" && isNullaryPathCall(arg) {
				fallback = sb.Text(arg.Call.Callee)
			}
			rest := lint.Arg(node, 1)
			if rest == nil {
				return lazy + "(" + fallback + ")"
			}
			return lazy + "(" + fallback + ", " + sb.Text(rest) + ")"
		})
}

// isCall reports whether expr, or the expression it borrows, is a function
// or method call.
func isCall(expr *ast.Node) bool {
	if expr.Kind == ast.NodeRef && expr.FirstChild != nil {
		expr = expr.FirstChild
	}
	return expr.Kind == ast.NodeCall || expr.Kind == ast.NodeMethodCall
}

// isDefaultCtor reports whether expr builds its type's default value with
// no arguments, such as Vec::new() or String::default().
func isDefaultCtor(expr *ast.Node) bool {
	return expr != nil && expr.Kind == ast.NodeCall && expr.Call != nil &&
		expr.Call.DefaultCtor && len(expr.Args()) == 0
}

// isNullaryPathCall reports whether expr is f() for a path f, which can be
// passed as the closure itself.
func isNullaryPathCall(expr *ast.Node) bool {
	return expr.Kind == ast.NodeCall && expr.Call != nil && expr.Call.Callee != nil &&
		expr.Call.Callee.Kind == ast.NodePath && len(expr.Args()) == 0
}

// ExpectFunCallRule flags `expect` messages built eagerly.
type ExpectFunCallRule struct {
	lint.BaseRule
}

// NewExpectFunCallRule creates a new expect-fun-call rule.
func NewExpectFunCallRule() *ExpectFunCallRule {
	return &ExpectFunCallRule{
		BaseRule: lint.NewBaseRule(
			"IL015",
			"expect-fun-call",
			lint.GroupPerf,
			"Checks for `expect` messages built with format! or a function call",
			true,
			ast.NodeMethodCall,
		),
	}
}

// Check matches `expect(format!(..))`, `expect(&format!(..))`, and
// `expect(<call>)`.
func (r *ExpectFunCallRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	if !node.IsMethodCall("expect") || lint.ArgCount(node) != 1 {
		return nil, nil
	}
	if !onOption(node) && !onResult(node) {
		return nil, nil
	}

	msg := lint.Arg(node, 0)
	if msg.Kind == ast.NodeRef && msg.FirstChild != nil {
		msg = msg.FirstChild
	}

	var panicArgs func(sb *lint.SuggestionBuilder) string
	switch {
	case lint.IsMacro(msg, "format"):
		if lint.ArgCount(msg) == 0 {
			return nil, nil
		}
		panicArgs = func(sb *lint.SuggestionBuilder) string {
			sb.Require(msg)
			return argsText(sb, msg)
		}
	case isToString(msg):
		panicArgs = func(sb *lint.SuggestionBuilder) string {
			return `"{}", ` + sb.Text(msg.Receiver())
		}
	case (msg.Kind == ast.NodeCall || msg.Kind == ast.NodeMethodCall) && !lint.IsCheap(msg):
		panicArgs = func(sb *lint.SuggestionBuilder) string {
			return `"{}", ` + sb.Text(msg)
		}
	default:
		return nil, nil
	}

	params := "||"
	if onResult(node) {
		params = "|_|"
	}

	return replaceCall(rc, node,
		"use of `expect` followed by a function call",
		"try",
		fix.MachineApplicable,
		func(sb *lint.SuggestionBuilder) string {
			return "unwrap_or_else(" + params + " panic!(" + panicArgs(sb) + "))"
		})
}

func isToString(expr *ast.Node) bool {
	if expr.Kind != ast.NodeMethodCall || len(expr.Args()) != 0 {
		return false
	}
	return expr.Name == "to_string" || expr.Name == "to_owned"
}
