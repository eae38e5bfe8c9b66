package lint

import (
	"errors"
	"fmt"

	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/config"
)

// FileResult contains the results of linting a single file.
type FileResult struct {
	// File is the adapted program model.
	File *ast.File

	// Diagnostics contains all issues found, sorted.
	Diagnostics []Diagnostic

	// Suppressed counts findings dropped as duplicates or subsumed.
	Suppressed int

	// RuleErrors contains errors from rule execution, keyed by rule ID.
	// A rule that fails is not called again for the rest of the file.
	RuleErrors map[string]error
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// IssueCount returns the total number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// FixableCount returns the number of diagnostics with suggestions.
func (fr *FileResult) FixableCount() int {
	count := 0
	for i := range fr.Diagnostics {
		if fr.Diagnostics[i].HasFix() {
			count++
		}
	}
	return count
}

// CountLevel returns the number of diagnostics at the given level.
func (fr *FileResult) CountLevel(level config.Level) int {
	count := 0
	for i := range fr.Diagnostics {
		if fr.Diagnostics[i].Level == level {
			count++
		}
	}
	return count
}

// HasDeny reports whether any diagnostic fails the run.
func (fr *FileResult) HasDeny() bool {
	return fr.CountLevel(config.LevelDeny) > 0
}

// Engine is the traversal engine. It walks each file once and dispatches
// every node to the enabled rules interested in its kind.
type Engine struct {
	// Rules is the resolved, read-only rule set.
	Rules *RuleSet

	// Config is the configuration rules may consult.
	Config *config.Config
}

// NewEngine creates a new Engine for a resolved rule set.
func NewEngine(rules *RuleSet, cfg *config.Config) *Engine {
	return &Engine{
		Rules:  rules,
		Config: cfg,
	}
}

// Lint runs every enabled rule over file in a single pre-order walk.
//
// Rules are called in registration order at each node; a finding from one
// rule does not stop the others. A rule returning an ordinary error is
// recorded in RuleErrors and skipped for the rest of the file. An
// ErrInvariantViolation aborts the file and no partial result is returned.
func (e *Engine) Lint(file *ast.File) (*FileResult, error) {
	if file == nil || file.Root == nil {
		return nil, fmt.Errorf("%w: file has no tree", ErrInvariantViolation)
	}

	contexts := make(map[string]*RuleContext)
	for _, rr := range e.Rules.Enabled() {
		id := rr.Rule.ID()
		contexts[id] = NewRuleContext(file, e.Config, id, rr.Config)
	}

	result := &FileResult{
		File:       file,
		RuleErrors: make(map[string]error),
	}
	collector := NewCollector(e.Rules)

	err := ast.Walk(file.Root, func(node *ast.Node) error {
		for _, rr := range e.Rules.ForKind(node.Kind) {
			id := rr.Rule.ID()
			if _, failed := result.RuleErrors[id]; failed {
				continue
			}

			finding, err := rr.Rule.Check(contexts[id], node)
			if err != nil {
				if errors.Is(err, ErrInvariantViolation) {
					return fmt.Errorf("rule %s at %s: %w", id, node.Span, err)
				}
				result.RuleErrors[id] = err
				continue
			}
			if finding == nil {
				continue
			}

			if finding.RuleID == "" {
				finding.RuleID = id
			}
			if err := checkFinding(file, id, finding); err != nil {
				return err
			}
			collector.Add(finding, rr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	diags, suppressed, err := collector.Result()
	if err != nil {
		return nil, err
	}
	result.Diagnostics = diags
	result.Suppressed = suppressed

	return result, nil
}

// checkFinding rejects findings whose span cannot be rendered against file.
func checkFinding(file *ast.File, ruleID string, f *Finding) error {
	switch {
	case f.RuleID != ruleID:
		return fmt.Errorf("%w: rule %s reported a finding as %s", ErrInvariantViolation, ruleID, f.RuleID)
	case !f.Span.IsValid():
		return fmt.Errorf("%w: rule %s reported invalid span %s", ErrInvariantViolation, ruleID, f.Span)
	case f.Span.File != file.Path:
		return fmt.Errorf("%w: rule %s reported span %s outside %s", ErrInvariantViolation, ruleID, f.Span, file.Path)
	}
	if file.Source != nil && len(file.Source.Content) > 0 {
		if _, ok := file.Source.Range(f.Span); !ok {
			return fmt.Errorf("%w: rule %s reported span %s past the end of the source",
				ErrInvariantViolation, ruleID, f.Span)
		}
	}
	return nil
}
