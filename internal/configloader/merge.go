package configloader

import (
	"maps"
	"slices"

	"github.com/yaklabco/idiomlint/pkg/config"
)

// overlay sets *dst to v unless v is the zero value.
func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// merge lays override on top of base and returns a new config; neither
// input is modified. Scalars and booleans win when set, since a layer cannot
// express "false". Maps merge key by key, rule options included. Lists
// replace, except level flags, which accumulate in layer order.
func merge(base, override *config.Config) *config.Config {
	switch {
	case base == nil:
		return override
	case override == nil:
		return base
	}

	out := *base
	overlay(&out.Default, override.Default)
	overlay(&out.MSRV, override.MSRV)
	overlay(&out.Format, override.Format)
	overlay(&out.RuleFormat, override.RuleFormat)
	overlay(&out.SummaryOrder, override.SummaryOrder)
	overlay(&out.Jobs, override.Jobs)
	overlay(&out.Backups.Mode, override.Backups.Mode)

	for _, flag := range []struct {
		dst *bool
		set bool
	}{
		{&out.DenyWarnings, override.DenyWarnings},
		{&out.AvoidBreakingExportedAPI, override.AvoidBreakingExportedAPI},
		{&out.Fix, override.Fix},
		{&out.DryRun, override.DryRun},
		{&out.Strict, override.Strict},
		{&out.NoBackups, override.NoBackups},
		{&out.Backups.Enabled, override.Backups.Enabled},
	} {
		overlay(flag.dst, flag.set)
	}

	if base.Groups != nil || override.Groups != nil {
		out.Groups = maps.Clone(base.Groups)
		if out.Groups == nil {
			out.Groups = make(map[string]string, len(override.Groups))
		}
		maps.Copy(out.Groups, override.Groups)
	}
	out.Rules = mergeRules(base.Rules, override.Rules)

	if override.Ignore != nil {
		out.Ignore = slices.Clone(override.Ignore)
	}
	if override.FixRules != nil {
		out.FixRules = slices.Clone(override.FixRules)
	}
	out.LevelFlags = slices.Concat(base.LevelFlags, override.LevelFlags)

	return &out
}

func mergeRules(base, override map[string]config.RuleConfig) map[string]config.RuleConfig {
	if base == nil && override == nil {
		return nil
	}

	out := make(map[string]config.RuleConfig, len(base)+len(override))
	for key, rc := range base {
		out[key] = rc.Clone()
	}
	for key, rc := range override {
		merged := out[key].Clone()
		if rc.Level != nil {
			merged.Level = ptrTo(*rc.Level)
		}
		if rc.AutoFix != nil {
			merged.AutoFix = ptrTo(*rc.AutoFix)
		}
		if rc.Options != nil {
			if merged.Options == nil {
				merged.Options = make(map[string]any, len(rc.Options))
			}
			maps.Copy(merged.Options, rc.Options)
		}
		out[key] = merged
	}
	return out
}

func ptrTo[T any](v T) *T { return &v }

// MergeAll folds configs left to right; later configs win.
func MergeAll(configs ...*config.Config) *config.Config {
	var out *config.Config
	for _, cfg := range configs {
		out = merge(out, cfg)
	}
	return out
}
