package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/idiomlint/pkg/config"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want config.Level
	}{
		{"allow", config.LevelAllow},
		{"OFF", config.LevelAllow},
		{"warn", config.LevelWarn},
		{"warning", config.LevelWarn},
		{" deny ", config.LevelDeny},
		{"forbid", config.LevelDeny},
		{"error", config.LevelDeny},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := config.ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := config.ParseLevel("loud")
	require.Error(t, err)
}

func TestLevel_Rank(t *testing.T) {
	t.Parallel()

	assert.Less(t, config.LevelAllow.Rank(), config.LevelWarn.Rank())
	assert.Less(t, config.LevelWarn.Rank(), config.LevelDeny.Rank())
	assert.False(t, config.LevelAllow.Enabled())
	assert.True(t, config.LevelDeny.Enabled())
	assert.False(t, config.Level("loud").IsValid())
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	data := []byte(`
default: warn
deny_warnings: true
groups:
  restriction: allow
rules:
  use-self: deny
  filter-next:
    level: allow
    auto_fix: false
  should-implement-trait:
    options:
      public_only: false
ignore: ["target/**"]
backups:
  enabled: false
  mode: none
`)

	cfg, err := config.FromYAML(data)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Default)
	assert.True(t, cfg.DenyWarnings)
	assert.Equal(t, "allow", cfg.Groups["restriction"])
	require.NotNil(t, cfg.Rules["use-self"].Level)
	assert.Equal(t, "deny", *cfg.Rules["use-self"].Level)
	assert.Equal(t, "allow", *cfg.Rules["filter-next"].Level)
	assert.False(t, *cfg.Rules["filter-next"].AutoFix)
	assert.Equal(t, false, cfg.Rules["should-implement-trait"].Options["public_only"])
	assert.Equal(t, []string{"target/**"}, cfg.Ignore)
	assert.Equal(t, "none", cfg.Backups.Mode)

	_, err = config.FromYAML([]byte("rules: [1, 2"))
	require.Error(t, err)
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	var nilCfg *config.Config
	assert.Nil(t, nilCfg.Clone())

	level := "deny"
	original := config.NewConfig()
	original.Rules["use-self"] = config.RuleConfig{Level: &level, Options: map[string]any{"include_private": false}}
	original.Groups["style"] = "warn"
	original.Ignore = []string{"target/**"}
	original.LevelFlags = []config.LevelFlag{{Level: config.LevelDeny, Target: "warnings"}}

	clone := original.Clone()
	require.NotNil(t, clone)

	*clone.Rules["use-self"].Level = "allow"
	clone.Rules["use-self"].Options["include_private"] = true
	clone.Groups["style"] = "deny"
	clone.Ignore[0] = "other"
	clone.LevelFlags[0].Target = "perf"

	assert.Equal(t, "deny", *original.Rules["use-self"].Level)
	assert.Equal(t, false, original.Rules["use-self"].Options["include_private"])
	assert.Equal(t, "warn", original.Groups["style"])
	assert.Equal(t, "target/**", original.Ignore[0])
	assert.Equal(t, "warnings", original.LevelFlags[0].Target)
}

func TestToYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	level := "deny"
	cfg := config.NewConfig()
	cfg.DenyWarnings = true
	cfg.Rules["filter-next"] = config.RuleConfig{Level: &level}
	cfg.Fix = true

	data, err := cfg.ToYAMLWithHeader(config.DefaultTemplateHeader())
	require.NoError(t, err)
	assert.Contains(t, string(data), "# idiomlint configuration")
	assert.NotContains(t, string(data), "fix:")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.True(t, parsed.DenyWarnings)
	assert.Equal(t, "deny", *parsed.Rules["filter-next"].Level)
	assert.False(t, parsed.Fix)
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	minimal := string(config.GenerateTemplate(config.TemplateOptions{
		Pack:   "strict",
		Groups: map[string]config.Level{"restriction": config.LevelWarn},
		Levels: map[string]config.Level{"use-self": config.LevelDeny},
	}))
	assert.Contains(t, minimal, `"strict" rule pack`)
	assert.Contains(t, minimal, "groups:\n  restriction: warn\n")
	assert.Contains(t, minimal, "rules:\n  use-self: deny\n")

	cfg, err := config.FromYAML([]byte(minimal))
	require.NoError(t, err)
	assert.Equal(t, "deny", *cfg.Rules["use-self"].Level)

	full := string(config.GenerateTemplate(config.TemplateOptions{
		Full: true,
		Rules: []config.RuleInfo{
			{ID: "IL014", Name: "or-fun-call", Group: "perf", Level: config.LevelWarn, CanFix: true,
				Description: "Function call inside an eager combinator argument"},
			{ID: "IL009", Name: "filter-next", Group: "complexity", Level: config.LevelWarn},
		},
	}))
	assert.Less(t, strings.Index(full, "filter-next:"), strings.Index(full, "or-fun-call:"))
	assert.Contains(t, full, "# Auto-fix: yes")

	cfg, err = config.FromYAML([]byte(full))
	require.NoError(t, err)
	assert.Equal(t, "warn", *cfg.Rules["or-fun-call"].Level)
}
