package lint

import (
	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/span"
)

// RuleContext is what a rule sees besides the node it was dispatched on.
// The engine builds one per rule per file; rules must not modify it.
type RuleContext struct {
	File       *ast.File
	Config     *config.Config
	RuleConfig *config.RuleConfig // nil when the rule has no entry
	RuleID     string
}

func NewRuleContext(file *ast.File, cfg *config.Config, ruleID string, ruleCfg *config.RuleConfig) *RuleContext {
	return &RuleContext{File: file, Config: cfg, RuleConfig: ruleCfg, RuleID: ruleID}
}

// Report starts a finding of the current rule at sp.
func (rc *RuleContext) Report(sp span.Span, message string) *FindingBuilder {
	return NewFinding(rc.RuleID, sp, message)
}

// Suggest starts a suggestion against the current file.
func (rc *RuleContext) Suggest(message string, applicability fix.Applicability) *SuggestionBuilder {
	return NewSuggestion(rc.File, message, applicability)
}

// Snippet returns the source text under sp, or "" when sp is not in the
// file.
func (rc *RuleContext) Snippet(sp span.Span) string {
	text, _ := rc.File.Snippet(sp)
	return text
}

// AvoidBreakingExportedAPI reports whether renaming rules leave public items
// alone.
func (rc *RuleContext) AvoidBreakingExportedAPI() bool {
	return rc.Config != nil && rc.Config.AvoidBreakingExportedAPI
}

func (rc *RuleContext) lookup(key string) (any, bool) {
	if rc.RuleConfig == nil {
		return nil, false
	}
	v, ok := rc.RuleConfig.Options[key]
	return v, ok
}

// optionOf returns the option as a T, or def when it is unset or of
// another type.
func optionOf[T any](rc *RuleContext, key string, def T) T {
	if v, ok := rc.lookup(key); ok {
		if typed, ok := v.(T); ok {
			return typed
		}
	}
	return def
}

// Option returns the raw option value for key, or def.
func (rc *RuleContext) Option(key string, def any) any {
	if v, ok := rc.lookup(key); ok {
		return v
	}
	return def
}

func (rc *RuleContext) OptionString(key, def string) string { return optionOf(rc, key, def) }

func (rc *RuleContext) OptionBool(key string, def bool) bool { return optionOf(rc, key, def) }

// OptionInt accepts any numeric option; decoders disagree on whether a
// YAML, TOML or MessagePack integer is an int, int64, uint64 or float64.
func (rc *RuleContext) OptionInt(key string, def int) int {
	v, _ := rc.lookup(key)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

// OptionStringSlice accepts a []string or a decoded []any, keeping only its
// string items. A list with no strings gives def.
func (rc *RuleContext) OptionStringSlice(key string, def []string) []string {
	v, _ := rc.lookup(key)
	switch items := v.(type) {
	case []string:
		return items
	case []any:
		var out []string
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}
