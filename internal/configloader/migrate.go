package configloader

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

// MigrationResult contains the result of converting a clippy config.
type MigrationResult struct {
	// Config is the converted idiomlint configuration.
	Config *config.Config

	// Warnings contains non-fatal issues encountered during conversion.
	Warnings []string

	// SourcePath is the path to the original clippy config.
	SourcePath string
}

// Keys of clippy.toml that carry over.
const (
	clippyKeyMSRV        = "msrv"
	clippyKeyExportedAPI = "avoid-breaking-exported-api"
	clippyKeyLints       = "lints"
	clippyKeyWorkspace   = "workspace"
)

// ConvertClippyConfig converts a clippy.toml or the lint tables of a
// Cargo.toml into an idiomlint configuration. Lint names are resolved
// against registry; names it does not know produce warnings.
//
// From clippy.toml it reads msrv, avoid-breaking-exported-api, and the
// [lints.clippy] table. From Cargo.toml it reads [lints.clippy] and
// [workspace.lints.clippy].
func ConvertClippyConfig(path string, registry *lint.Registry) (*MigrationResult, error) {
	if !CanMigrate(path) {
		return nil, fmt.Errorf("cannot convert %q: not a TOML file", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var raw map[string]any
	if _, err := toml.Decode(string(content), &raw); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}

	conv := &converter{
		cfg:      config.NewConfig(),
		registry: registry,
		result:   &MigrationResult{SourcePath: path},
	}

	if IsCargoManifest(path) {
		conv.lintTables(raw)
		if ws, ok := raw[clippyKeyWorkspace].(map[string]any); ok {
			conv.lintTables(ws)
		}
	} else {
		conv.clippySettings(raw)
	}

	conv.result.Config = conv.cfg
	return conv.result, nil
}

type converter struct {
	cfg      *config.Config
	registry *lint.Registry
	result   *MigrationResult
}

func (c *converter) warn(format string, args ...any) {
	c.result.Warnings = append(c.result.Warnings, fmt.Sprintf(format, args...))
}

// clippySettings handles the top-level keys of a clippy.toml.
func (c *converter) clippySettings(raw map[string]any) {
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		value := raw[key]
		switch key {
		case clippyKeyMSRV:
			msrv, ok := versionString(value)
			if !ok {
				c.warn("msrv: expected a version string, got %v; skipping", value)
				continue
			}
			c.cfg.MSRV = msrv
		case clippyKeyExportedAPI:
			avoid, ok := value.(bool)
			if !ok {
				c.warn("%s: expected true or false, got %v; skipping", key, value)
				continue
			}
			c.cfg.AvoidBreakingExportedAPI = avoid
		case clippyKeyLints:
			c.lintTables(raw)
		default:
			c.warn("setting %q has no idiomlint equivalent; skipping", key)
		}
	}
}

// lintTables reads the [lints.clippy] table under parent.
func (c *converter) lintTables(parent map[string]any) {
	lints, ok := parent[clippyKeyLints].(map[string]any)
	if !ok {
		return
	}
	table, ok := lints["clippy"].(map[string]any)
	if !ok {
		return
	}

	for _, name := range slices.Sorted(maps.Keys(table)) {
		level, ok := lintLevel(table[name])
		if !ok {
			c.warn("lints.clippy.%s: expected a level or { level = ... }, got %v; skipping", name, table[name])
			continue
		}
		parsed, err := config.ParseLevel(level)
		if err != nil {
			c.warn("lints.clippy.%s: %v; skipping", name, err)
			continue
		}
		c.applyLint(name, string(parsed))
	}
}

func (c *converter) applyLint(name, level string) {
	if groups, ok := ClippyGroup(name); ok {
		if len(groups) == 0 {
			c.warn("clippy group %q has no idiomlint equivalent; skipping", name)
		}
		for _, group := range groups {
			c.cfg.Groups[group] = level
		}
		return
	}

	_, rule, ok := c.registry.Resolve(name)
	if !ok {
		c.warn("unknown lint %q; skipping", name)
		return
	}
	ruleLevel := level
	c.cfg.Rules[rule.Name()] = config.RuleConfig{Level: &ruleLevel}
}

// lintLevel accepts `name = "deny"` and `name = { level = "deny", priority = -1 }`.
func lintLevel(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case map[string]any:
		level, ok := v["level"].(string)
		return level, ok
	default:
		return "", false
	}
}

// versionString accepts msrv written as a string or as a bare number.
func versionString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		version := strings.TrimSpace(v)
		return version, version != ""
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// GenerateMigrationHeader returns a header comment for migrated configs.
func GenerateMigrationHeader(sourcePath string) string {
	return fmt.Sprintf(`# idiomlint configuration
# Migrated from: %s
# See: https://github.com/yaklabco/idiomlint
`, filepath.Base(sourcePath))
}

// CanMigrate returns true if the config file can be migrated.
func CanMigrate(path string) bool {
	return IsTOMLConfig(path)
}

// DetectConfigFormat determines the format of a config file.
func DetectConfigFormat(path string) string {
	switch {
	case IsCargoManifest(path):
		return "cargo"
	case IsTOMLConfig(path):
		return "clippy"
	case IsYAMLConfig(path):
		return "yaml"
	default:
		return "unknown"
	}
}
