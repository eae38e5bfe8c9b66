package lint

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/config"
)

// Pseudo targets accepted by level flags besides rules and groups.
const (
	TargetWarnings = "warnings"
	TargetAll      = "all"
)

// OriginKind names the configuration layer that decided a rule's level.
type OriginKind string

// Origin kinds, from weakest to strongest.
const (
	OriginDefault      OriginKind = "default"
	OriginGlobal       OriginKind = "global"
	OriginGroup        OriginKind = "group"
	OriginRule         OriginKind = "rule"
	OriginFlag         OriginKind = "flag"
	OriginDenyWarnings OriginKind = "deny-warnings"
)

// Origin records where a resolved level came from.
type Origin struct {
	Kind OriginKind `json:"kind"`

	// Key is the group, configuration key, or flag target that set the level.
	Key string `json:"key,omitempty"`

	// Level is the level written at that layer.
	Level config.Level `json:"level,omitempty"`
}

// Explain renders the origin as a note, e.g.
// "`-D filter-next` implied by `-D warnings`".
func (o Origin) Explain(ruleName string, level config.Level) string {
	self := fmt.Sprintf("`-%s %s`", flagLetter(level), ruleName)
	switch o.Kind {
	case OriginGlobal:
		return fmt.Sprintf("%s implied by `default: %s`", self, o.Level)
	case OriginGroup:
		return fmt.Sprintf("%s implied by `groups.%s: %s`", self, o.Key, o.Level)
	case OriginRule:
		return fmt.Sprintf("%s set by `rules.%s`", self, o.Key)
	case OriginFlag:
		if o.Key == ruleName {
			return self + " on the command line"
		}
		return fmt.Sprintf("%s implied by `-%s %s`", self, flagLetter(o.Level), o.Key)
	case OriginDenyWarnings:
		return self + " implied by `-D warnings`"
	default:
		return fmt.Sprintf("`#[%s(%s)]` on by default", level, ruleName)
	}
}

func flagLetter(level config.Level) string {
	switch level {
	case config.LevelAllow:
		return "A"
	case config.LevelDeny:
		return "D"
	default:
		return "W"
	}
}

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	// Rule is the underlying rule implementation.
	Rule Rule

	// Level is the resolved level for diagnostics from this rule.
	Level config.Level

	// Origin records which layer decided Level.
	Origin Origin

	// AutoFix indicates whether --fix may apply this rule's suggestions.
	AutoFix bool

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig
}

// Enabled reports whether the rule runs.
func (rr *ResolvedRule) Enabled() bool {
	return rr.Level.Enabled()
}

// RuleSet is the immutable result of resolving a registry against a
// configuration. It is built once and shared read-only by every file.
type RuleSet struct {
	all      []*ResolvedRule
	byID     map[string]*ResolvedRule
	byKind   map[ast.NodeKind][]*ResolvedRule
	subsumes map[string]map[string]bool
}

// Resolve computes the level of every registered rule, in this order:
// rule default, global default, group level, per-rule level, command-line
// level flags in the order given, and finally deny_warnings escalation.
// Unknown rule or group names are reported as ConfigErrors joined together.
func Resolve(registry *Registry, cfg *config.Config) (*RuleSet, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	res := &resolver{registry: registry}
	global, hasGlobal := res.globalLevel(cfg.Default)
	groups := res.groupLevels(cfg.Groups)
	rules := res.ruleConfigs(cfg.Rules)
	flags := res.levelFlags(cfg.LevelFlags)
	fixRules := res.fixRules(cfg.FixRules)
	if len(res.errs) > 0 {
		return nil, errors.Join(res.errs...)
	}

	denyWarnings, allowWarnings := cfg.DenyWarnings, false
	for _, flag := range flags {
		if flag.target != TargetWarnings {
			continue
		}
		denyWarnings = flag.level == config.LevelDeny
		allowWarnings = flag.level == config.LevelAllow
	}

	set := &RuleSet{
		byID:     make(map[string]*ResolvedRule),
		byKind:   make(map[ast.NodeKind][]*ResolvedRule),
		subsumes: make(map[string]map[string]bool),
	}

	for _, rule := range registry.Rules() {
		rr := &ResolvedRule{
			Rule:   rule,
			Level:  rule.DefaultLevel(),
			Origin: Origin{Kind: OriginDefault, Level: rule.DefaultLevel()},
		}

		if hasGlobal {
			rr.Level = global
			rr.Origin = Origin{Kind: OriginGlobal, Level: global}
		}
		if level, ok := groups[rule.Group()]; ok {
			rr.Level = level
			rr.Origin = Origin{Kind: OriginGroup, Key: rule.Group(), Level: level}
		}
		if entry, ok := rules[rule.ID()]; ok {
			rr.Config = &entry.cfg
			if entry.hasLevel {
				rr.Level = entry.level
				rr.Origin = Origin{Kind: OriginRule, Key: entry.key, Level: entry.level}
			}
		}
		for _, flag := range flags {
			if flag.matches(rule) {
				rr.Level = flag.level
				rr.Origin = Origin{Kind: OriginFlag, Key: flag.display(rule), Level: flag.level}
			}
		}
		if rr.Level == config.LevelWarn {
			switch {
			case denyWarnings:
				rr.Level = config.LevelDeny
				rr.Origin = Origin{Kind: OriginDenyWarnings, Key: TargetWarnings, Level: config.LevelDeny}
			case allowWarnings:
				rr.Level = config.LevelAllow
				rr.Origin = Origin{Kind: OriginFlag, Key: TargetWarnings, Level: config.LevelAllow}
			}
		}

		rr.AutoFix = rule.CanFix() && cfg.Fix
		if rr.Config != nil && rr.Config.AutoFix != nil {
			rr.AutoFix = rr.AutoFix && *rr.Config.AutoFix
		}
		if len(fixRules) > 0 && !fixRules[rule.ID()] {
			rr.AutoFix = false
		}

		set.all = append(set.all, rr)
		set.byID[rule.ID()] = rr
		if !rr.Enabled() {
			continue
		}
		for _, kind := range rule.Interests() {
			set.byKind[kind] = append(set.byKind[kind], rr)
		}
		for _, inner := range rule.Subsumes() {
			if id, _, ok := registry.Resolve(inner); ok {
				if set.subsumes[rule.ID()] == nil {
					set.subsumes[rule.ID()] = make(map[string]bool)
				}
				set.subsumes[rule.ID()][id] = true
			}
		}
	}

	return set, nil
}

// All returns every registered rule, including allowed ones, in registration order.
func (rs *RuleSet) All() []*ResolvedRule {
	return rs.all
}

// Enabled returns the rules that run, in registration order.
func (rs *RuleSet) Enabled() []*ResolvedRule {
	var result []*ResolvedRule
	for _, rr := range rs.all {
		if rr.Enabled() {
			result = append(result, rr)
		}
	}
	return result
}

// ForKind returns the enabled rules interested in kind, in registration order.
func (rs *RuleSet) ForKind(kind ast.NodeKind) []*ResolvedRule {
	return rs.byKind[kind]
}

// Lookup returns the resolved rule for a canonical rule ID.
func (rs *RuleSet) Lookup(id string) (*ResolvedRule, bool) {
	rr, ok := rs.byID[id]
	return rr, ok
}

// Subsumes reports whether findings of outer make contained findings of inner redundant.
func (rs *RuleSet) Subsumes(outer, inner string) bool {
	return rs.subsumes[outer][inner]
}

type ruleEntry struct {
	key      string
	cfg      config.RuleConfig
	level    config.Level
	hasLevel bool
}

type levelFlag struct {
	level  config.Level
	target string // rule ID, group, TargetWarnings, or TargetAll
	typed  string // target as written
	isRule bool
}

func (f levelFlag) matches(rule Rule) bool {
	switch {
	case f.isRule:
		return f.target == rule.ID()
	case f.target == TargetAll:
		return true
	case f.target == TargetWarnings:
		return false
	default:
		return f.target == rule.Group()
	}
}

func (f levelFlag) display(rule Rule) string {
	if f.isRule {
		return rule.Name()
	}
	return f.typed
}

type resolver struct {
	registry *Registry
	errs     []error
}

func (r *resolver) fail(source, key, reason string) {
	r.errs = append(r.errs, &ConfigError{Source: source, Key: key, Reason: reason})
}

func (r *resolver) level(source, value string) (config.Level, bool) {
	level, err := config.ParseLevel(value)
	if err != nil {
		r.fail(source, value, "invalid level (want allow, warn, or deny)")
		return "", false
	}
	return level, true
}

func (r *resolver) globalLevel(value string) (config.Level, bool) {
	if value == "" {
		return "", false
	}
	return r.level("default", value)
}

func (r *resolver) groupLevels(groups map[string]string) map[string]config.Level {
	result := make(map[string]config.Level, len(groups))
	for _, key := range slices.Sorted(maps.Keys(groups)) {
		name := strings.TrimPrefix(key, "clippy::")
		if !IsGroup(name) {
			r.fail("groups", key, "unknown group")
			continue
		}
		if level, ok := r.level("groups."+key, groups[key]); ok {
			result[name] = level
		}
	}
	return result
}

func (r *resolver) ruleConfigs(rules map[string]config.RuleConfig) map[string]ruleEntry {
	result := make(map[string]ruleEntry, len(rules))
	for _, key := range slices.Sorted(maps.Keys(rules)) {
		id, _, ok := r.registry.Resolve(key)
		if !ok {
			r.fail("rules", key, "unknown rule")
			continue
		}
		if prev, dup := result[id]; dup {
			r.fail("rules", key, fmt.Sprintf("rule %s is already configured as %q", id, prev.key))
			continue
		}

		entry := ruleEntry{key: key, cfg: rules[key].Clone()}
		if entry.cfg.Level != nil {
			entry.level, entry.hasLevel = r.level("rules."+key, *entry.cfg.Level)
		}
		result[id] = entry
	}
	return result
}

func (r *resolver) levelFlags(flags []config.LevelFlag) []levelFlag {
	result := make([]levelFlag, 0, len(flags))
	for _, flag := range flags {
		source := "--" + string(flag.Level)
		if !flag.Level.IsValid() {
			r.fail(source, string(flag.Level), "invalid level")
			continue
		}

		lf := levelFlag{level: flag.Level, typed: flag.Target}
		name := strings.TrimPrefix(flag.Target, "clippy::")
		switch {
		case name == TargetWarnings || name == TargetAll || IsGroup(name):
			lf.target = name
		default:
			id, _, ok := r.registry.Resolve(flag.Target)
			if !ok {
				r.fail(source, flag.Target, "unknown rule or group")
				continue
			}
			lf.target, lf.isRule = id, true
		}
		result = append(result, lf)
	}
	return result
}

func (r *resolver) fixRules(keys []string) map[string]bool {
	result := make(map[string]bool, len(keys))
	for _, key := range keys {
		id, _, ok := r.registry.Resolve(key)
		if !ok {
			r.fail("--fix-rules", key, "unknown rule")
			continue
		}
		result[id] = true
	}
	return result
}
