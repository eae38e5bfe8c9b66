package rules

import (
	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

// OptionMapUnwrapOrRule flags `map(f).unwrap_or(a)` on an Option.
type OptionMapUnwrapOrRule struct {
	lint.BaseRule
}

// NewOptionMapUnwrapOrRule creates a new option-map-unwrap-or rule.
func NewOptionMapUnwrapOrRule() *OptionMapUnwrapOrRule {
	return &OptionMapUnwrapOrRule{
		BaseRule: lint.NewBaseRule(
			"IL005",
			"option-map-unwrap-or",
			lint.GroupPedantic,
			"Checks for `map(f).unwrap_or(a)` on an Option, which is `map_or(a, f)`",
			true,
			ast.NodeMethodCall,
		),
	}
}

// Subsumes reports that a lazy-argument finding inside the chain is redundant.
func (r *OptionMapUnwrapOrRule) Subsumes() []string {
	return []string{"or-fun-call"}
}

// Check matches `map(f).unwrap_or(a)`.
func (r *OptionMapUnwrapOrRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	calls := lint.MatchChain(node, "map", "unwrap_or")
	if calls == nil || !onOption(calls[0]) {
		return nil, nil
	}
	mapCall, unwrapOr := calls[0], calls[1]
	f, fallback := lint.Arg(mapCall, 0), lint.Arg(unwrapOr, 0)
	if f == nil || fallback == nil || isNone(fallback) {
		return nil, nil
	}

	return replaceChain(rc, mapCall, unwrapOr,
		"called `map(f).unwrap_or(a)` on an Option value. "+
			"This can be done more directly by calling `map_or(a, f)` instead",
		"use `map_or(a, f)` instead",
		fix.MachineApplicable,
		func(sb *lint.SuggestionBuilder) string {
			return "map_or(" + sb.Text(fallback) + ", " + sb.Text(f) + ")"
		})
}

// OptionMapUnwrapOrElseRule flags `map(f).unwrap_or_else(g)` on an Option.
type OptionMapUnwrapOrElseRule struct {
	lint.BaseRule
}

// NewOptionMapUnwrapOrElseRule creates a new option-map-unwrap-or-else rule.
func NewOptionMapUnwrapOrElseRule() *OptionMapUnwrapOrElseRule {
	return &OptionMapUnwrapOrElseRule{
		BaseRule: lint.NewBaseRule(
			"IL006",
			"option-map-unwrap-or-else",
			lint.GroupPedantic,
			"Checks for `map(f).unwrap_or_else(g)` on an Option, which is `map_or_else(g, f)`",
			true,
			ast.NodeMethodCall,
		),
	}
}

// Check matches `map(f).unwrap_or_else(g)`.
func (r *OptionMapUnwrapOrElseRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	calls := lint.MatchChain(node, "map", "unwrap_or_else")
	if calls == nil || !onOption(calls[0]) {
		return nil, nil
	}
	mapCall, unwrapOrElse := calls[0], calls[1]
	f, g := lint.Arg(mapCall, 0), lint.Arg(unwrapOrElse, 0)
	if f == nil || g == nil {
		return nil, nil
	}

	return replaceChain(rc, mapCall, unwrapOrElse,
		"called `map(f).unwrap_or_else(g)` on an Option value. "+
			"This can be done more directly by calling `map_or_else(g, f)` instead",
		"use `map_or_else(g, f)` instead",
		fix.MachineApplicable,
		func(sb *lint.SuggestionBuilder) string {
			return "map_or_else(" + sb.Text(g) + ", " + sb.Text(f) + ")"
		})
}

// OptionMapOrNoneRule flags `map_or(None, f)` and `map(f).unwrap_or(None)`
// on an Option; both are `and_then(f)`.
type OptionMapOrNoneRule struct {
	lint.BaseRule
}

// NewOptionMapOrNoneRule creates a new option-map-or-none rule.
func NewOptionMapOrNoneRule() *OptionMapOrNoneRule {
	return &OptionMapOrNoneRule{
		BaseRule: lint.NewBaseRule(
			"IL007",
			"option-map-or-none",
			lint.GroupStyle,
			"Checks for `map_or(None, f)` on an Option, which is `and_then(f)`",
			true,
			ast.NodeMethodCall,
		),
	}
}

// Check matches both spellings.
func (r *OptionMapOrNoneRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	var first, f *ast.Node
	switch {
	case node.IsMethodCall("map_or") && onOption(node) && isNone(lint.Arg(node, 0)):
		first, f = node, lint.Arg(node, 1)
	case node.IsMethodCall("unwrap_or") && isNone(lint.Arg(node, 0)):
		calls := lint.MatchChain(node, "map", "unwrap_or")
		if calls == nil || !onOption(calls[0]) {
			return nil, nil
		}
		first, f = calls[0], lint.Arg(calls[0], 0)
	default:
		return nil, nil
	}
	if f == nil {
		return nil, nil
	}

	return replaceChain(rc, first, node,
		"called `map_or(None, f)` on an Option value. "+
			"This can be done more directly by calling `and_then(f)` instead",
		"try using `and_then` instead",
		fix.MachineApplicable,
		func(sb *lint.SuggestionBuilder) string {
			return "and_then(" + sb.Text(f) + ")"
		})
}

// ResultMapUnwrapOrElseRule flags `map(f).unwrap_or_else(g)` on a Result.
type ResultMapUnwrapOrElseRule struct {
	lint.BaseRule
}

// NewResultMapUnwrapOrElseRule creates a new result-map-unwrap-or-else rule.
func NewResultMapUnwrapOrElseRule() *ResultMapUnwrapOrElseRule {
	return &ResultMapUnwrapOrElseRule{
		BaseRule: lint.NewBaseRule(
			"IL008",
			"result-map-unwrap-or-else",
			lint.GroupPedantic,
			"Checks for `map(f).unwrap_or_else(g)` on a Result, which is `ok().map_or_else(g, f)`",
			false,
			ast.NodeMethodCall,
		),
	}
}

// Check matches `map(f).unwrap_or_else(g)` on a Result.
//
// The fallback of unwrap_or_else receives the error and the one of
// map_or_else does not, so the suggestion may need the closure adjusted.
func (r *ResultMapUnwrapOrElseRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	calls := lint.MatchChain(node, "map", "unwrap_or_else")
	if calls == nil || !onResult(calls[0]) {
		return nil, nil
	}
	mapCall, unwrapOrElse := calls[0], calls[1]
	f, g := lint.Arg(mapCall, 0), lint.Arg(unwrapOrElse, 0)
	if f == nil || g == nil {
		return nil, nil
	}

	return replaceChain(rc, mapCall, unwrapOrElse,
		"called `map(f).unwrap_or_else(g)` on a Result value. "+
			"This can be done more directly by calling `ok().map_or_else(g, f)` instead",
		"use `ok().map_or_else(g, f)` instead",
		fix.MaybeIncorrect,
		func(sb *lint.SuggestionBuilder) string {
			return "ok().map_or_else(" + sb.Text(g) + ", " + sb.Text(f) + ")"
		})
}

// MapFlattenRule flags `map(f).flatten()` on an iterator or Option.
type MapFlattenRule struct {
	lint.BaseRule
}

// NewMapFlattenRule creates a new map-flatten rule.
func NewMapFlattenRule() *MapFlattenRule {
	return &MapFlattenRule{
		BaseRule: lint.NewBaseRule(
			"IL013",
			"map-flatten",
			lint.GroupPedantic,
			"Checks for `map(f).flatten()`, which is `flat_map(f)` or `and_then(f)`",
			true,
			ast.NodeMethodCall,
		),
	}
}

// Check matches `map(f).flatten()`.
func (r *MapFlattenRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	calls := lint.MatchChain(node, "map", "flatten")
	if calls == nil || lint.ArgCount(calls[1]) != 0 {
		return nil, nil
	}
	mapCall := calls[0]
	f := lint.Arg(mapCall, 0)
	if f == nil {
		return nil, nil
	}

	var receiver, method string
	switch {
	case onIterator(mapCall):
		receiver, method = "an `Iterator`", "flat_map"
	case onOption(mapCall):
		receiver, method = "an `Option`", "and_then"
	default:
		return nil, nil
	}

	return replaceChain(rc, mapCall, node,
		"called `map(..).flatten()` on "+receiver+
			". This is more succinctly expressed by calling `."+method+"(..)`",
		"try using `"+method+"` instead",
		fix.MachineApplicable,
		func(sb *lint.SuggestionBuilder) string {
			return method + "(" + sb.Text(f) + ")"
		})
}
