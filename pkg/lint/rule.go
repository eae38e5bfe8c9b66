// Package lint provides the rule engine, diagnostics, and registry for idiomlint.
package lint

import (
	"slices"

	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/span"
)

// Rule groups. A group sets the level of all its rules at once.
const (
	GroupCorrectness = "correctness"
	GroupStyle       = "style"
	GroupComplexity  = "complexity"
	GroupPerf        = "perf"
	GroupPedantic    = "pedantic"
	GroupRestriction = "restriction"
	GroupNursery     = "nursery"
)

// Groups returns every rule group in display order.
func Groups() []string {
	return []string{
		GroupCorrectness, GroupStyle, GroupComplexity, GroupPerf,
		GroupPedantic, GroupRestriction, GroupNursery,
	}
}

// IsGroup reports whether name is a rule group.
func IsGroup(name string) bool {
	return slices.Contains(Groups(), name)
}

// Finding is a single rule match before its level is resolved.
type Finding struct {
	// RuleID is the identifier of the rule that matched.
	RuleID string `json:"rule_id"`

	// Span covers the whole matched construct, which may span several lines.
	Span span.Span `json:"span"`

	// Message is the human-readable description of the issue.
	Message string `json:"message"`

	// Note is an optional explanation shown under the message.
	Note string `json:"note,omitempty"`

	// Suggestion is an optional proposed rewrite.
	Suggestion *fix.Suggestion `json:"suggestion,omitempty"`
}

// Diagnostic is a Finding with its level resolved, ready for rendering.
type Diagnostic struct {
	Finding

	// RuleName is the human-readable name of the rule (e.g. "filter-next").
	RuleName string `json:"rule_name"`

	// Group is the rule's group.
	Group string `json:"group"`

	// Level is the resolved level. It is never allow.
	Level config.Level `json:"level"`

	// Origin records which configuration layer decided Level.
	Origin Origin `json:"origin"`
}

// HasFix returns true if the diagnostic carries a suggestion.
func (d *Diagnostic) HasFix() bool {
	return d.Suggestion != nil && len(d.Suggestion.Replacements) > 0
}

// IsDeny reports whether the diagnostic fails the run.
func (d *Diagnostic) IsDeny() bool {
	return d.Level == config.LevelDeny
}

// Rule defines the interface that all lint rules must implement.
//
// A rule is stateless. Check is called once for every node whose kind is in
// Interests, in pre-order, and must only look at that node and the nodes it
// can reach from it.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g. "IL009").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Group returns the group the rule belongs to.
	Group() string

	// Description returns a one-line description of what the rule checks.
	Description() string

	// DefaultLevel returns the level used when nothing configures the rule.
	DefaultLevel() config.Level

	// Interests returns the node kinds Check wants to see.
	Interests() []ast.NodeKind

	// Subsumes returns ids of rules whose findings inside this rule's
	// findings are redundant.
	Subsumes() []string

	// CanFix returns whether this rule produces machine-applicable suggestions.
	CanFix() bool

	// Check inspects one node and returns a finding or nil.
	//
	// Rules must:
	//   - Return nil, nil when the node does not match.
	//   - Keep the finding when a suggestion cannot be built.
	//   - Return error only for internal failures, not violations.
	Check(rc *RuleContext, node *ast.Node) (*Finding, error)
}
