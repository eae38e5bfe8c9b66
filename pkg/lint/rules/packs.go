package rules

import (
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

// Pack describes a named set of level overrides for a particular use case.
// Packs are configuration fragments that can be used as starting points
// for .idiomlint.yml files.
type Pack struct {
	// Name is the short identifier for the pack (e.g., "core", "strict").
	Name string

	// Description explains the purpose and characteristics of the pack.
	Description string

	// Groups sets group levels.
	Groups map[string]config.Level

	// Rules sets rule levels keyed by rule name.
	Rules map[string]config.Level

	// DenyWarnings escalates every warning to deny.
	DenyWarnings bool
}

// CorePack returns the core pack: the default levels with the opt-in
// groups spelled out.
func CorePack() Pack {
	return Pack{
		Name:        "core",
		Description: "Default levels: correctness, style, complexity, and perf rules warn",
		Groups: map[string]config.Level{
			lint.GroupPedantic:    config.LevelAllow,
			lint.GroupRestriction: config.LevelAllow,
			lint.GroupNursery:     config.LevelAllow,
		},
	}
}

// StrictPack returns the strict pack, which fails the run on any warning.
func StrictPack() Pack {
	return Pack{
		Name:        "strict",
		Description: "Strict pack: every warning denies, and bare unwrap() is forbidden",
		Groups: map[string]config.Level{
			lint.GroupCorrectness: config.LevelDeny,
			lint.GroupNursery:     config.LevelAllow,
		},
		Rules: map[string]config.Level{
			"option-unwrap-used": config.LevelDeny,
			"result-unwrap-used": config.LevelDeny,
		},
		DenyWarnings: true,
	}
}

// PedanticPack returns the pedantic pack, which enables every group.
func PedanticPack() Pack {
	return Pack{
		Name:        "pedantic",
		Description: "Pedantic pack: every group warns, including nursery and restriction",
		Groups: map[string]config.Level{
			lint.GroupPedantic:    config.LevelWarn,
			lint.GroupRestriction: config.LevelWarn,
			lint.GroupNursery:     config.LevelWarn,
		},
		Rules: map[string]config.Level{
			"result-unwrap-used": config.LevelWarn,
		},
	}
}

// Packs returns all built-in rule packs.
func Packs() []Pack {
	return []Pack{
		CorePack(),
		StrictPack(),
		PedanticPack(),
	}
}

// PackByName returns a pack by name, or nil if not found.
func PackByName(name string) *Pack {
	for _, p := range Packs() {
		if p.Name == name {
			return &p
		}
	}
	return nil
}

// PackNames returns the names of all available packs.
func PackNames() []string {
	packs := Packs()
	names := make([]string, len(packs))
	for i, p := range packs {
		names[i] = p.Name
	}
	return names
}

// Config returns the pack as a configuration that Resolve can layer.
func (p Pack) Config() *config.Config {
	cfg := config.NewConfig()
	cfg.DenyWarnings = p.DenyWarnings
	for group, level := range p.Groups {
		cfg.Groups[group] = string(level)
	}
	for name, level := range p.Rules {
		lvl := string(level)
		cfg.Rules[name] = config.RuleConfig{Level: &lvl}
	}
	return cfg
}
