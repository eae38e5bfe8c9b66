package configloader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

func TestValidateWith(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(cfg *config.Config)
		want     string
		conflict bool
	}{
		{name: "bad default", mutate: func(c *config.Config) { c.Default = "loud" }, want: `default: invalid level "loud"`},
		{name: "bad format", mutate: func(c *config.Config) { c.Format = "xml" }, want: `format: invalid format "xml"; must be one of: text, table, json, sarif, diff, summary`},
		{name: "bad rule format", mutate: func(c *config.Config) { c.RuleFormat = "short" }, want: `rule_format: invalid rule format "short"`},
		{name: "bad backup mode", mutate: func(c *config.Config) { c.Backups.Mode = "cloud" }, want: `backups.mode: invalid backup mode "cloud"; must be one of: sidecar, none`},
		{name: "negative jobs", mutate: func(c *config.Config) { c.Jobs = -1 }, want: "jobs: jobs must be >= 0"},
		{name: "unknown group", mutate: func(c *config.Config) { c.Groups["clippy::nursery2"] = "deny" }, want: `unknown group "clippy::nursery2"`, conflict: true},
		{name: "bad group level", mutate: func(c *config.Config) { c.Groups["perf"] = "always" }, want: `groups.perf: invalid level "always"`},
		{name: "unknown fix rule", mutate: func(c *config.Config) { c.FixRules = []string{"no-such-rule"} }, want: `fix_rules: unknown rule "no-such-rule"`, conflict: true},
		{name: "bad ignore glob", mutate: func(c *config.Config) { c.Ignore = []string{"target/**", "src/[a-"} }, want: `ignore[1]: invalid glob "src/[a-"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.mutate(cfg)

			err := ValidateWith(cfg, lint.DefaultRegistry).Err()
			require.ErrorContains(t, err, tt.want)
			assert.Equal(t, tt.conflict, errors.Is(err, lint.ErrConfigConflict))
		})
	}
}

func TestValidateWith_Clean(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Groups["clippy::perf"] = "deny"
	cfg.DryRun = true

	result := ValidateWith(cfg, lint.DefaultRegistry)
	require.NoError(t, result.Err())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "dry_run: dry run has no effect without fix", result.Warnings[0].Error())

	assert.NoError(t, ValidateWith(nil, lint.DefaultRegistry).Err())
}
