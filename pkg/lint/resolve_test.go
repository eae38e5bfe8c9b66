package lint_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

func resolveRegistry() *lint.Registry {
	alpha := newCallRule("IL001", "alpha", lint.GroupStyle, "a")
	alpha.subsumes = []string{"beta"}
	beta := newCallRule("IL002", "beta", lint.GroupPerf, "b")
	gamma := newCallRule("IL003", "gamma", lint.GroupRestriction, "c")
	gamma.level = config.LevelAllow

	reg := registryOf(alpha, beta, gamma)
	reg.RegisterAlias("the_beta", "IL002")
	return reg
}

func ptr[T any](v T) *T {
	return &v
}

func TestResolve_Layers(t *testing.T) {
	t.Parallel()

	flag := func(level config.Level, target string) config.LevelFlag {
		return config.LevelFlag{Level: level, Target: target}
	}

	tests := []struct {
		name       string
		configure  func(cfg *config.Config)
		want       map[string]config.Level
		wantOrigin map[string]lint.OriginKind
	}{
		{
			name:       "rule defaults",
			configure:  func(*config.Config) {},
			want:       map[string]config.Level{"IL001": "warn", "IL002": "warn", "IL003": "allow"},
			wantOrigin: map[string]lint.OriginKind{"IL001": lint.OriginDefault, "IL003": lint.OriginDefault},
		},
		{
			name:       "global default",
			configure:  func(cfg *config.Config) { cfg.Default = "deny" },
			want:       map[string]config.Level{"IL001": "deny", "IL002": "deny", "IL003": "deny"},
			wantOrigin: map[string]lint.OriginKind{"IL001": lint.OriginGlobal},
		},
		{
			name: "group beats global",
			configure: func(cfg *config.Config) {
				cfg.Default = "deny"
				cfg.Groups = map[string]string{"style": "allow", "clippy::perf": "warn"}
			},
			want:       map[string]config.Level{"IL001": "allow", "IL002": "warn", "IL003": "deny"},
			wantOrigin: map[string]lint.OriginKind{"IL001": lint.OriginGroup, "IL002": lint.OriginGroup},
		},
		{
			name: "rule beats group",
			configure: func(cfg *config.Config) {
				cfg.Groups = map[string]string{"style": "deny"}
				cfg.Rules = map[string]config.RuleConfig{"alpha": {Level: ptr("warn")}, "the_beta": {Level: ptr("deny")}}
			},
			want:       map[string]config.Level{"IL001": "warn", "IL002": "deny"},
			wantOrigin: map[string]lint.OriginKind{"IL001": lint.OriginRule, "IL002": lint.OriginRule},
		},
		{
			name: "rule options without level keep the group level",
			configure: func(cfg *config.Config) {
				cfg.Groups = map[string]string{"style": "deny"}
				cfg.Rules = map[string]config.RuleConfig{"alpha": {Options: map[string]any{"x": 1}}}
			},
			want:       map[string]config.Level{"IL001": "deny"},
			wantOrigin: map[string]lint.OriginKind{"IL001": lint.OriginGroup},
		},
		{
			name: "flags apply in order",
			configure: func(cfg *config.Config) {
				cfg.Rules = map[string]config.RuleConfig{"alpha": {Level: ptr("deny")}}
				cfg.LevelFlags = []config.LevelFlag{flag("deny", "style"), flag("allow", "alpha")}
			},
			want:       map[string]config.Level{"IL001": "allow", "IL002": "warn"},
			wantOrigin: map[string]lint.OriginKind{"IL001": lint.OriginFlag},
		},
		{
			name: "later group flag overrides earlier rule flag",
			configure: func(cfg *config.Config) {
				cfg.LevelFlags = []config.LevelFlag{flag("allow", "alpha"), flag("deny", "style")}
			},
			want:       map[string]config.Level{"IL001": "deny"},
			wantOrigin: map[string]lint.OriginKind{"IL001": lint.OriginFlag},
		},
		{
			name:       "deny warnings escalates warn only",
			configure:  func(cfg *config.Config) { cfg.DenyWarnings = true },
			want:       map[string]config.Level{"IL001": "deny", "IL002": "deny", "IL003": "allow"},
			wantOrigin: map[string]lint.OriginKind{"IL001": lint.OriginDenyWarnings},
		},
		{
			name:      "deny warnings flag",
			configure: func(cfg *config.Config) { cfg.LevelFlags = []config.LevelFlag{flag("deny", "warnings")} },
			want:      map[string]config.Level{"IL001": "deny", "IL003": "allow"},
		},
		{
			name: "warn warnings cancels deny_warnings",
			configure: func(cfg *config.Config) {
				cfg.DenyWarnings = true
				cfg.LevelFlags = []config.LevelFlag{flag("warn", "warnings")}
			},
			want: map[string]config.Level{"IL001": "warn", "IL002": "warn"},
		},
		{
			name: "allow warnings silences warn but keeps deny",
			configure: func(cfg *config.Config) {
				cfg.Rules = map[string]config.RuleConfig{"beta": {Level: ptr("deny")}}
				cfg.LevelFlags = []config.LevelFlag{flag("allow", "warnings")}
			},
			want: map[string]config.Level{"IL001": "allow", "IL002": "deny"},
		},
		{
			name:      "all targets every rule",
			configure: func(cfg *config.Config) { cfg.LevelFlags = []config.LevelFlag{flag("deny", "all")} },
			want:      map[string]config.Level{"IL001": "deny", "IL002": "deny", "IL003": "deny"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.configure(cfg)

			rs, err := lint.Resolve(resolveRegistry(), cfg)
			require.NoError(t, err)

			for id, want := range tt.want {
				rr, ok := rs.Lookup(id)
				require.True(t, ok, id)
				assert.Equal(t, want, rr.Level, id)
			}
			for id, want := range tt.wantOrigin {
				rr, _ := rs.Lookup(id)
				assert.Equal(t, want, rr.Origin.Kind, id)
			}
		})
	}
}

func TestResolve_ConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		configure func(cfg *config.Config)
		wantKey   string
	}{
		{"unknown rule", func(cfg *config.Config) {
			cfg.Rules = map[string]config.RuleConfig{"nope": {}}
		}, "nope"},
		{"unknown group", func(cfg *config.Config) {
			cfg.Groups = map[string]string{"styles": "deny"}
		}, "styles"},
		{"invalid group level", func(cfg *config.Config) {
			cfg.Groups = map[string]string{"style": "loud"}
		}, "loud"},
		{"invalid default", func(cfg *config.Config) {
			cfg.Default = "sometimes"
		}, "sometimes"},
		{"rule configured twice", func(cfg *config.Config) {
			cfg.Rules = map[string]config.RuleConfig{"IL001": {}, "alpha": {}}
		}, "alpha"},
		{"unknown flag target", func(cfg *config.Config) {
			cfg.LevelFlags = []config.LevelFlag{{Level: config.LevelDeny, Target: "delta"}}
		}, "delta"},
		{"unknown fix rule", func(cfg *config.Config) {
			cfg.FixRules = []string{"omega"}
		}, "omega"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.configure(cfg)

			rs, err := lint.Resolve(resolveRegistry(), cfg)
			require.Error(t, err)
			assert.Nil(t, rs)
			require.ErrorIs(t, err, lint.ErrConfigConflict)

			var cerr *lint.ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.wantKey, cerr.Key)
		})
	}
}

func TestResolve_ReportsEveryConfigError(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Rules = map[string]config.RuleConfig{"nope": {}}
	cfg.Groups = map[string]string{"styles": "deny"}

	_, err := lint.Resolve(resolveRegistry(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)
	assert.Contains(t, err.Error(), `"styles"`)
}

func TestResolve_AutoFix(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	rs, err := lint.Resolve(resolveRegistry(), cfg)
	require.NoError(t, err)
	alpha, _ := rs.Lookup("IL001")
	assert.False(t, alpha.AutoFix, "auto-fix needs --fix")

	cfg.Fix = true
	cfg.Rules = map[string]config.RuleConfig{"beta": {AutoFix: ptr(false)}}
	rs, err = lint.Resolve(resolveRegistry(), cfg)
	require.NoError(t, err)
	alpha, _ = rs.Lookup("IL001")
	beta, _ := rs.Lookup("IL002")
	assert.True(t, alpha.AutoFix)
	assert.False(t, beta.AutoFix)
	require.NotNil(t, beta.Config)

	cfg.Rules = nil
	cfg.FixRules = []string{"the_beta"}
	rs, err = lint.Resolve(resolveRegistry(), cfg)
	require.NoError(t, err)
	alpha, _ = rs.Lookup("IL001")
	beta, _ = rs.Lookup("IL002")
	assert.False(t, alpha.AutoFix)
	assert.True(t, beta.AutoFix)
}

func TestRuleSet_Dispatch(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.LevelFlags = []config.LevelFlag{{Level: config.LevelAllow, Target: "IL002"}}

	rs, err := lint.Resolve(resolveRegistry(), cfg)
	require.NoError(t, err)

	var ids []string
	for _, rr := range rs.ForKind(ast.NodeMethodCall) {
		ids = append(ids, rr.Rule.ID())
	}
	assert.Equal(t, []string{"IL001"}, ids, "allowed rules are not dispatched")
	assert.Empty(t, rs.ForKind(ast.NodeFn))
	assert.Len(t, rs.All(), 3)
	assert.Len(t, rs.Enabled(), 1)
}

func TestRuleSet_Subsumes(t *testing.T) {
	t.Parallel()

	rs, err := lint.Resolve(resolveRegistry(), nil)
	require.NoError(t, err)

	assert.True(t, rs.Subsumes("IL001", "IL002"))
	assert.False(t, rs.Subsumes("IL002", "IL001"))
	assert.False(t, rs.Subsumes("IL003", "IL002"))
}

func TestOrigin_Explain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		origin lint.Origin
		level  config.Level
		want   string
	}{
		{lint.Origin{Kind: lint.OriginDefault}, config.LevelWarn, "`#[warn(filter-next)]` on by default"},
		{lint.Origin{Kind: lint.OriginGlobal, Level: config.LevelDeny}, config.LevelDeny,
			"`-D filter-next` implied by `default: deny`"},
		{lint.Origin{Kind: lint.OriginGroup, Key: "complexity", Level: config.LevelDeny}, config.LevelDeny,
			"`-D filter-next` implied by `groups.complexity: deny`"},
		{lint.Origin{Kind: lint.OriginRule, Key: "filter_next"}, config.LevelWarn,
			"`-W filter-next` set by `rules.filter_next`"},
		{lint.Origin{Kind: lint.OriginFlag, Key: "filter-next", Level: config.LevelDeny}, config.LevelDeny,
			"`-D filter-next` on the command line"},
		{lint.Origin{Kind: lint.OriginFlag, Key: "complexity", Level: config.LevelDeny}, config.LevelDeny,
			"`-D filter-next` implied by `-D complexity`"},
		{lint.Origin{Kind: lint.OriginDenyWarnings}, config.LevelDeny,
			"`-D filter-next` implied by `-D warnings`"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.origin.Explain("filter-next", tt.level))
	}
}
