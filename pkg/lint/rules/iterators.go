package rules

import (
	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

// FilterNextRule flags `filter(p).next()` on an iterator.
type FilterNextRule struct {
	lint.BaseRule
}

// NewFilterNextRule creates a new filter-next rule.
func NewFilterNextRule() *FilterNextRule {
	return &FilterNextRule{
		BaseRule: lint.NewBaseRule(
			"IL009",
			"filter-next",
			lint.GroupComplexity,
			"Checks for `filter(p).next()` on an iterator, which is `find(p)`",
			true,
			ast.NodeMethodCall,
		),
	}
}

// Check matches `filter(p).next()`.
func (r *FilterNextRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	calls := lint.MatchChain(node, "filter", "next")
	if calls == nil || !onIterator(calls[0]) || lint.ArgCount(node) != 0 {
		return nil, nil
	}
	pred := lint.Arg(calls[0], 0)
	if pred == nil {
		return nil, nil
	}

	return replaceChain(rc, calls[0], node,
		"called `filter(..).next()` on an `Iterator`. "+
			"This is more succinctly expressed by calling `.find(..)` instead",
		"try",
		fix.MachineApplicable,
		func(sb *lint.SuggestionBuilder) string {
			return "find(" + sb.Text(pred) + ")"
		})
}

// SearchIsSomeRule flags `find(p).is_some()` and the position variants.
type SearchIsSomeRule struct {
	lint.BaseRule
}

// NewSearchIsSomeRule creates a new search-is-some rule.
func NewSearchIsSomeRule() *SearchIsSomeRule {
	return &SearchIsSomeRule{
		BaseRule: lint.NewBaseRule(
			"IL010",
			"search-is-some",
			lint.GroupComplexity,
			"Checks for `find`, `position`, or `rposition` followed by `is_some()`, which is `any(p)`",
			true,
			ast.NodeMethodCall,
		),
	}
}

// Check matches a search followed by `is_some()`.
//
// The closure given to find receives a reference to the item and the one
// given to any receives the item, so a find suggestion may need its pattern
// adjusted.
func (r *SearchIsSomeRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	calls := lint.MatchChain(node, "", "is_some")
	if calls == nil || lint.ArgCount(node) != 0 {
		return nil, nil
	}
	search := calls[0]

	applicability := fix.MachineApplicable
	switch search.Name {
	case "find":
		applicability = fix.MaybeIncorrect
	case "position", "rposition":
	default:
		return nil, nil
	}
	if !onIterator(search) {
		return nil, nil
	}
	pred := lint.Arg(search, 0)
	if pred == nil {
		return nil, nil
	}

	return replaceChain(rc, search, node,
		"called `is_some()` after searching an `Iterator` with `"+search.Name+"`",
		"use `any()` instead",
		applicability,
		func(sb *lint.SuggestionBuilder) string {
			return "any(" + sb.Text(pred) + ")"
		})
}

// IterSkipNextRule flags `skip(n).next()` on an iterator.
type IterSkipNextRule struct {
	lint.BaseRule
}

// NewIterSkipNextRule creates a new iter-skip-next rule.
func NewIterSkipNextRule() *IterSkipNextRule {
	return &IterSkipNextRule{
		BaseRule: lint.NewBaseRule(
			"IL011",
			"iter-skip-next",
			lint.GroupStyle,
			"Checks for `skip(n).next()` on an iterator, which is `nth(n)`",
			true,
			ast.NodeMethodCall,
		),
	}
}

// Check matches `skip(n).next()`.
func (r *IterSkipNextRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	calls := lint.MatchChain(node, "skip", "next")
	if calls == nil || !onIterator(calls[0]) || lint.ArgCount(node) != 0 {
		return nil, nil
	}
	n := lint.Arg(calls[0], 0)
	if n == nil {
		return nil, nil
	}

	return replaceChain(rc, calls[0], node,
		"called `skip(..).next()` on an iterator",
		"use `nth` instead",
		fix.MachineApplicable,
		func(sb *lint.SuggestionBuilder) string {
			return "nth(" + sb.Text(n) + ")"
		})
}

// IterNthRule flags `.iter().nth(n)` on an indexable sequence.
type IterNthRule struct {
	lint.BaseRule
}

// NewIterNthRule creates a new iter-nth rule.
func NewIterNthRule() *IterNthRule {
	return &IterNthRule{
		BaseRule: lint.NewBaseRule(
			"IL012",
			"iter-nth",
			lint.GroupPerf,
			"Checks for `.iter().nth(n)` on a Vec, VecDeque, slice, or array, which is `.get(n)`",
			true,
			ast.NodeMethodCall,
		),
	}
}

// Check matches `.iter().nth(n)` and `.iter_mut().nth(n)`.
func (r *IterNthRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	calls := lint.MatchChain(node, "", "nth")
	if calls == nil {
		return nil, nil
	}
	iter := calls[0]

	var getter string
	switch iter.Name {
	case "iter":
		getter = "get"
	case "iter_mut":
		getter = "get_mut"
	default:
		return nil, nil
	}
	recvType := lint.ReceiverType(iter)
	if !recvType.IsRandomAccess() || lint.ArgCount(iter) != 0 {
		return nil, nil
	}
	n := lint.Arg(node, 0)
	if n == nil {
		return nil, nil
	}

	return replaceChain(rc, iter, node,
		"called `."+iter.Name+"().nth()` on "+sequenceName(recvType),
		"`."+getter+"()` is both faster and more readable",
		fix.MachineApplicable,
		func(sb *lint.SuggestionBuilder) string {
			return getter + "(" + sb.Text(n) + ")"
		})
}

func sequenceName(t ast.TypeTag) string {
	switch t.Base() {
	case "Vec":
		return "a Vec"
	case "VecDeque":
		return "a VecDeque"
	default:
		return "a slice"
	}
}
