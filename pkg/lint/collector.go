package lint

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/yaklabco/idiomlint/pkg/span"
)

// Collector accumulates the diagnostics of one file in traversal order.
type Collector struct {
	rules *RuleSet
	diags []Diagnostic
}

// NewCollector creates a collector that consults rules for subsumption.
func NewCollector(rules *RuleSet) *Collector {
	return &Collector{rules: rules}
}

// Add records a finding at the rule's resolved level.
func (c *Collector) Add(f *Finding, rr *ResolvedRule) {
	c.diags = append(c.diags, Diagnostic{
		Finding:  *f,
		RuleName: rr.Rule.Name(),
		Group:    rr.Rule.Group(),
		Level:    rr.Level,
		Origin:   rr.Origin,
	})
}

// Len returns the number of findings added so far.
func (c *Collector) Len() int {
	return len(c.diags)
}

// Result drops duplicate and subsumed findings and returns the rest sorted by
// (file, start line, start column, rule ID). It also returns how many
// findings were dropped.
//
// A finding is subsumed when a finding of a rule that subsumes its rule
// contains its span at an equal or higher level, so a deny is never dropped
// in favor of a warning. Findings that suppress each other are an invariant
// violation.
func (c *Collector) Result() ([]Diagnostic, int, error) {
	diags := dedupe(c.diags)
	dropped := len(c.diags) - len(diags)

	// edges[i] lists the findings that finding i suppresses.
	edges := make([][]int, len(diags))
	suppressed := make([]bool, len(diags))
	for i := range diags {
		outer := &diags[i]
		for j := range diags {
			inner := &diags[j]
			if i == j || !c.rules.Subsumes(outer.RuleID, inner.RuleID) {
				continue
			}
			if !span.Contains(outer.Span, inner.Span) || inner.Level.Rank() > outer.Level.Rank() {
				continue
			}
			edges[i] = append(edges[i], j)
			suppressed[j] = true
		}
	}

	if cycle := findCycle(edges); cycle != nil {
		first := diags[cycle[0]]
		return nil, 0, fmt.Errorf("%w: findings suppress each other at %s (rules %s)",
			ErrInvariantViolation, first.Span, cycleRules(diags, cycle))
	}

	result := make([]Diagnostic, 0, len(diags))
	for i, d := range diags {
		if suppressed[i] {
			dropped++
			continue
		}
		result = append(result, d)
	}

	SortDiagnostics(result)
	return result, dropped, nil
}

// SortDiagnostics sorts by (file, start line, start column, rule ID),
// keeping traversal order for ties.
func SortDiagnostics(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Span.File, b.Span.File),
			cmp.Compare(a.Span.StartLine, b.Span.StartLine),
			cmp.Compare(a.Span.StartColumn, b.Span.StartColumn),
			cmp.Compare(a.RuleID, b.RuleID),
		)
	})
}

// dedupe drops repeated findings of one rule at one span, keeping the first.
func dedupe(diags []Diagnostic) []Diagnostic {
	type key struct {
		rule string
		sp   span.Span
	}
	seen := make(map[key]bool, len(diags))
	result := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		k := key{d.RuleID, d.Span}
		if seen[k] {
			continue
		}
		seen[k] = true
		result = append(result, d)
	}
	return result
}

// findCycle returns the nodes of a cycle in the graph, or nil.
func findCycle(edges [][]int) []int {
	const (
		unvisited = iota
		active
		done
	)
	state := make([]int, len(edges))
	var stack []int

	var visit func(n int) []int
	visit = func(n int) []int {
		state[n] = active
		stack = append(stack, n)
		for _, next := range edges[n] {
			switch state[next] {
			case active:
				start := slices.Index(stack, next)
				return slices.Clone(stack[start:])
			case unvisited:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[n] = done
		return nil
	}

	for n := range edges {
		if state[n] == unvisited {
			if cycle := visit(n); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

func cycleRules(diags []Diagnostic, cycle []int) []string {
	ids := make([]string, 0, len(cycle))
	for _, n := range cycle {
		ids = append(ids, diags[n].RuleID)
	}
	return ids
}
