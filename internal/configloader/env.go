package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/idiomlint/pkg/config"
)

const envVarPrefix = "IDIOMLINT_"

// EnvVar is one environment override of a config field.
type EnvVar struct {
	Name        string
	Field       string
	Description string

	set func(cfg *config.Config, value string) error
}

func envString(set func(*config.Config, string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		set(cfg, value)
		return nil
	}
}

func envBool(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%q is not a boolean (want true, false, 1 or 0)", value)
		}
		set(cfg, b)
		return nil
	}
}

// envVars is applied in order; the order is also the listing order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []EnvVar{
	{Name: "DEFAULT", Field: "default", Description: "level for every rule: allow, warn or deny",
		set: envString(func(c *config.Config, v string) { c.Default = v })},
	{Name: "DENY_WARNINGS", Field: "deny_warnings", Description: "escalate warnings to errors",
		set: envBool(func(c *config.Config, v bool) { c.DenyWarnings = v })},
	{Name: "AVOID_BREAKING_EXPORTED_API", Field: "avoid_breaking_exported_api", Description: "skip naming rules on public items",
		set: envBool(func(c *config.Config, v bool) { c.AvoidBreakingExportedAPI = v })},
	{Name: "MSRV", Field: "msrv", Description: "minimum supported language version",
		set: envString(func(c *config.Config, v string) { c.MSRV = v })},
	{Name: "FIX", Field: "fix", Description: "apply machine-applicable suggestions",
		set: envBool(func(c *config.Config, v bool) { c.Fix = v })},
	{Name: "DRY_RUN", Field: "dry_run", Description: "compute fixes without writing them",
		set: envBool(func(c *config.Config, v bool) { c.DryRun = v })},
	{Name: "STRICT", Field: "strict", Description: "fail on warnings as well as errors",
		set: envBool(func(c *config.Config, v bool) { c.Strict = v })},
	{Name: "JOBS", Field: "jobs", Description: "parallel workers, 0 for one per CPU",
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%q is not an integer", v)
			}
			c.Jobs = n
			return nil
		}},
	{Name: "FORMAT", Field: "format", Description: "output format: text, table, json, sarif, diff or summary",
		set: envString(func(c *config.Config, v string) { c.Format = config.OutputFormat(v) })},
	{Name: "RULE_FORMAT", Field: "rule_format", Description: "rule identifiers in output: name, id or combined",
		set: envString(func(c *config.Config, v string) { c.RuleFormat = config.RuleFormat(v) })},
	{Name: "BACKUPS_ENABLED", Field: "backups.enabled", Description: "back up sources before fixing them",
		set: envBool(func(c *config.Config, v bool) { c.Backups.Enabled = v })},
	{Name: "BACKUPS_MODE", Field: "backups.mode", Description: "backup mode: sidecar or none",
		set: envString(func(c *config.Config, v string) { c.Backups.Mode = v })},
	{Name: "NO_BACKUPS", Field: "no_backups", Description: "never write backups",
		set: envBool(func(c *config.Config, v bool) { c.NoBackups = v })},
	{Name: "IGNORE", Field: "ignore", Description: "comma-separated ignore globs",
		set: envString(func(c *config.Config, v string) { c.Ignore = splitList(v) })},
}

// LoadFromEnv applies every set IDIOMLINT_* variable to cfg. Empty
// variables are ignored.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, env := range envVars {
		name := envVarPrefix + env.Name
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := env.set(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func splitList(value string) []string {
	var items []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// GetEnvVarName returns the variable that overrides field, or "".
func GetEnvVarName(field string) string {
	for _, env := range envVars {
		if env.Field == field {
			return envVarPrefix + env.Name
		}
	}
	return ""
}

// ListEnvVars returns the supported variables with their full names.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, len(envVars))
	for i, env := range envVars {
		env.Name = envVarPrefix + env.Name
		env.set = nil
		vars[i] = env
	}
	return vars
}
