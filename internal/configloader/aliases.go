package configloader

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

// clippyGroups maps clippy lint group names onto idiomlint groups. Groups
// clippy has and idiomlint does not map to nil.
//
//nolint:gochecknoglobals // Read-only lookup table.
var clippyGroups = map[string][]string{
	"all": {
		lint.GroupCorrectness, lint.GroupStyle, lint.GroupComplexity, lint.GroupPerf,
	},
	"correctness": {lint.GroupCorrectness},
	"suspicious":  {lint.GroupCorrectness},
	"style":       {lint.GroupStyle},
	"complexity":  {lint.GroupComplexity},
	"perf":        {lint.GroupPerf},
	"pedantic":    {lint.GroupPedantic},
	"restriction": {lint.GroupRestriction},
	"nursery":     {lint.GroupNursery},
	"cargo":       nil,
}

// ClippyGroup returns the idiomlint groups a clippy group name covers.
// The name may carry a "clippy::" prefix. ok is false for names that are
// not clippy groups at all.
func ClippyGroup(name string) (groups []string, ok bool) {
	groups, ok = clippyGroups[strings.TrimPrefix(name, "clippy::")]
	return groups, ok
}

// normalizeRuleKeys rewrites the keys of one configuration layer to
// canonical spellings: rule ids and clippy aliases become rule names and
// group keys lose their "clippy::" prefix. Two keys in the same layer that
// name the same rule or group are reported as ConfigErrors. Unknown keys
// are kept so that resolution can report them.
func normalizeRuleKeys(cfg *configLayer, registry *lint.Registry) error {
	if cfg == nil || cfg.Config == nil {
		return nil
	}

	var errs []error

	if len(cfg.Rules) > 0 {
		normalized := make(map[string]ruleEntry, len(cfg.Rules))
		for _, key := range slices.Sorted(maps.Keys(cfg.Rules)) {
			_, rule, ok := registry.Resolve(key)
			if !ok {
				normalized[key] = ruleEntry{key: key, cfg: cfg.Rules[key]}
				continue
			}
			if prev, dup := normalized[rule.Name()]; dup {
				errs = append(errs, &lint.ConfigError{
					Source: cfg.source("rules"),
					Key:    key,
					Reason: fmt.Sprintf("rule %s is already configured as %q", rule.ID(), prev.key),
				})
				continue
			}
			normalized[rule.Name()] = ruleEntry{key: key, cfg: cfg.Rules[key]}
		}
		cfg.Rules = make(map[string]config.RuleConfig, len(normalized))
		for name, entry := range normalized {
			cfg.Rules[name] = entry.cfg
		}
	}

	if len(cfg.Groups) > 0 {
		normalized := make(map[string]string, len(cfg.Groups))
		origin := make(map[string]string, len(cfg.Groups))
		for _, key := range slices.Sorted(maps.Keys(cfg.Groups)) {
			name := strings.TrimPrefix(key, "clippy::")
			if prev, dup := origin[name]; dup {
				errs = append(errs, &lint.ConfigError{
					Source: cfg.source("groups"),
					Key:    key,
					Reason: fmt.Sprintf("group %s is already configured as %q", name, prev),
				})
				continue
			}
			origin[name] = key
			normalized[name] = cfg.Groups[key]
		}
		cfg.Groups = normalized
	}

	return errors.Join(errs...)
}

// RuleAliases returns every key that resolves to the rule with the given
// id: the id itself, the rule name, and registered aliases.
func RuleAliases(registry *lint.Registry, id string) []string {
	rule, ok := registry.GetByID(id)
	if !ok {
		return nil
	}
	return append([]string{rule.ID(), rule.Name()}, registry.Aliases(rule.ID())...)
}
