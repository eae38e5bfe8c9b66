package lint

import (
	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/config"
)

// BaseRule provides a default implementation of the Rule interface.
// Embed this in rule implementations and override methods as needed.
//
// Fields are unexported to avoid stutter and name collisions with interface methods.
type BaseRule struct {
	id        string         // Unique identifier (e.g., "IL009")
	name      string         // Human-readable name
	group     string         // Rule group
	desc      string         // One-line description
	fixable   bool           // Whether suggestions are machine-applicable
	interests []ast.NodeKind // Node kinds Check is called for
}

// NewBaseRule creates a BaseRule with the given properties.
func NewBaseRule(id, name, group, desc string, fixable bool, interests ...ast.NodeKind) BaseRule {
	return BaseRule{
		id:        id,
		name:      name,
		group:     group,
		desc:      desc,
		fixable:   fixable,
		interests: interests,
	}
}

// ID returns the unique identifier for this rule.
func (r *BaseRule) ID() string {
	return r.id
}

// Name returns the human-readable name of the rule.
func (r *BaseRule) Name() string {
	return r.name
}

// Group returns the rule's group.
func (r *BaseRule) Group() string {
	return r.group
}

// Description returns a one-line description of what the rule checks.
func (r *BaseRule) Description() string {
	return r.desc
}

// DefaultLevel returns warn.
// Override this method to change the default.
func (r *BaseRule) DefaultLevel() config.Level {
	return config.LevelWarn
}

// Interests returns the node kinds the rule is dispatched on.
func (r *BaseRule) Interests() []ast.NodeKind {
	return r.interests
}

// Subsumes returns nil. Override to suppress findings of nested rules.
func (r *BaseRule) Subsumes() []string {
	return nil
}

// CanFix returns whether this rule can auto-fix issues.
func (r *BaseRule) CanFix() bool {
	return r.fixable
}

// Check must be overridden by concrete rule implementations.
// The default implementation never matches.
func (r *BaseRule) Check(_ *RuleContext, _ *ast.Node) (*Finding, error) {
	return nil, nil
}
