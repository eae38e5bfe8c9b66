// Package config defines core configuration types for idiomlint.
// These types are pure data structures; loading and layering live in
// internal/configloader.
package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Level is the severity a rule's findings resolve to.
type Level string

const (
	// LevelAllow disables the rule.
	LevelAllow Level = "allow"

	// LevelWarn reports findings without failing the run.
	LevelWarn Level = "warn"

	// LevelDeny reports findings and fails the run.
	LevelDeny Level = "deny"
)

// ParseLevel parses a level name. Besides allow, warn, and deny it accepts
// the common spellings off, warning, error, and forbid.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "allow", "off", "none":
		return LevelAllow, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "deny", "error", "forbid":
		return LevelDeny, nil
	default:
		return "", fmt.Errorf("invalid level %q (want allow, warn, or deny)", name)
	}
}

// IsValid reports whether l is one of the three levels.
func (l Level) IsValid() bool {
	switch l {
	case LevelAllow, LevelWarn, LevelDeny:
		return true
	default:
		return false
	}
}

// Rank orders levels: allow < warn < deny.
func (l Level) Rank() int {
	switch l {
	case LevelWarn:
		return 1
	case LevelDeny:
		return 2
	default:
		return 0
	}
}

// Enabled reports whether findings at this level are reported.
func (l Level) Enabled() bool {
	return l == LevelWarn || l == LevelDeny
}

// RuleConfig holds per-rule configuration options.
// In YAML a rule may also be configured with a bare level:
//
//	rules:
//	  use-self: deny
type RuleConfig struct {
	Level   *string        `yaml:"level,omitempty"`
	AutoFix *bool          `yaml:"auto_fix,omitempty"`
	Options map[string]any `yaml:"options,omitempty"`
}

// UnmarshalYAML accepts either a mapping or a bare level string.
func (rc *RuleConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		level := node.Value
		rc.Level = &level
		return nil
	}

	type plain RuleConfig
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*rc = RuleConfig(decoded)
	return nil
}

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar" or "none"
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "filter-next"
	RuleFormatID       RuleFormat = "id"       // "IL009"
	RuleFormatCombined RuleFormat = "combined" // "IL009/filter-next"
)

// SummaryOrder controls the order of tables in summary output.
type SummaryOrder string

const (
	// SummaryOrderRules shows rules table first (default).
	SummaryOrderRules SummaryOrder = "rules"
	// SummaryOrderFiles shows files table first.
	SummaryOrderFiles SummaryOrder = "files"
)

// LevelFlag is one command-line level override such as "-D filter-next".
// Target is a rule id, rule name, alias, group name, or "warnings".
type LevelFlag struct {
	Level  Level
	Target string
}

// Config is the root configuration structure for idiomlint.
type Config struct {
	// Default is the level applied to every rule before group and rule overrides.
	Default string `yaml:"default,omitempty"`

	// DenyWarnings escalates every warn-level rule to deny.
	DenyWarnings bool `yaml:"deny_warnings,omitempty"`

	// AvoidBreakingExportedAPI suppresses naming rules on public items,
	// whose fix would change an exported interface.
	AvoidBreakingExportedAPI bool `yaml:"avoid_breaking_exported_api,omitempty"`

	// MSRV is the minimum supported language version, carried over from clippy.toml.
	MSRV string `yaml:"msrv,omitempty"`

	// Groups sets a level for every rule in a group.
	Groups map[string]string `yaml:"groups,omitempty"`

	// Rules contains per-rule configuration keyed by rule id, name, or alias.
	Rules map[string]RuleConfig `yaml:"rules,omitempty"`

	// Ignore contains glob patterns for model files to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// LevelFlags are -A/-W/-D overrides in command-line order.
	LevelFlags []LevelFlag `yaml:"-"`

	// Fix applies machine-applicable suggestions.
	Fix bool `yaml:"-"`

	// DryRun shows what would be fixed without making changes.
	DryRun bool `yaml:"-"`

	// Strict fails the run on warnings as well as denials.
	Strict bool `yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `yaml:"-"`

	// SummaryOrder controls table order in summary output.
	SummaryOrder SummaryOrder `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// FixRules limits fixing to specific rules.
	FixRules []string `yaml:"-"`

	// NoBackups disables backup creation when fixing.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Groups: make(map[string]string),
		Rules:  make(map[string]RuleConfig),
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Format:       FormatText,
		RuleFormat:   RuleFormatName,
		SummaryOrder: SummaryOrderRules,
		Jobs:         0, // 0 means use GOMAXPROCS
	}
}
