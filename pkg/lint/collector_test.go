package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

const srcFile = "src/lib.rs"

// collectorRules resolves an outer rule IL001 that subsumes IL002 and an
// unrelated IL003.
func collectorRules(t *testing.T, cfg *config.Config) *lint.RuleSet {
	t.Helper()

	outer := newCallRule("IL001", "outer", lint.GroupStyle, "unwrap_or")
	outer.subsumes = []string{"IL002"}
	inner := newCallRule("IL002", "inner", lint.GroupStyle, "map")
	other := newCallRule("IL003", "other", lint.GroupStyle, "map")

	rs, err := lint.Resolve(registryOf(outer, inner, other), cfg)
	require.NoError(t, err)
	return rs
}

func addFinding(t *testing.T, c *lint.Collector, rs *lint.RuleSet, id string, f *lint.Finding) {
	t.Helper()
	rr, ok := rs.Lookup(id)
	require.True(t, ok, id)
	f.RuleID = id
	c.Add(f, rr)
}

func TestCollector_Subsumption(t *testing.T) {
	t.Parallel()

	outerSpan := mkSpan(srcFile, 2, 17, 2, 44)
	innerSpan := mkSpan(srcFile, 2, 17, 2, 31)
	apart := mkSpan(srcFile, 3, 1, 3, 2)

	tests := []struct {
		name        string
		innerLevel  string
		innerID     string
		innerSpan   string
		wantIDs     []string
		wantDropped int
	}{
		{name: "contained finding is dropped", innerLevel: "warn", innerID: "IL002", innerSpan: "inside",
			wantIDs: []string{"IL001"}, wantDropped: 1},
		{name: "higher level inner is kept", innerLevel: "deny", innerID: "IL002", innerSpan: "inside",
			wantIDs: []string{"IL001", "IL002"}},
		{name: "finding outside the span is kept", innerLevel: "warn", innerID: "IL002", innerSpan: "apart",
			wantIDs: []string{"IL001", "IL002"}},
		{name: "unrelated rule is kept", innerLevel: "warn", innerID: "IL003", innerSpan: "inside",
			wantIDs: []string{"IL001", "IL003"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			cfg.Rules = map[string]config.RuleConfig{tt.innerID: {Level: ptr(tt.innerLevel)}}
			rs := collectorRules(t, cfg)

			sp := innerSpan
			if tt.innerSpan == "apart" {
				sp = apart
			}

			c := lint.NewCollector(rs)
			addFinding(t, c, rs, "IL001", &lint.Finding{Span: outerSpan, Message: "outer"})
			addFinding(t, c, rs, tt.innerID, &lint.Finding{Span: sp, Message: "inner"})
			assert.Equal(t, 2, c.Len())

			diags, dropped, err := c.Result()
			require.NoError(t, err)
			assert.Equal(t, tt.wantDropped, dropped)

			var ids []string
			for _, d := range diags {
				ids = append(ids, d.RuleID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestCollector_MutualSuppressionIsInvariantViolation(t *testing.T) {
	t.Parallel()

	a := newCallRule("IL001", "a", lint.GroupStyle, "map")
	a.subsumes = []string{"b"}
	b := newCallRule("IL002", "b", lint.GroupStyle, "map")
	b.subsumes = []string{"a"}

	rs, err := lint.Resolve(registryOf(a, b), nil)
	require.NoError(t, err)

	sp := mkSpan(srcFile, 2, 17, 2, 31)
	c := lint.NewCollector(rs)
	addFinding(t, c, rs, "IL001", &lint.Finding{Span: sp})
	addFinding(t, c, rs, "IL002", &lint.Finding{Span: sp})

	diags, _, err := c.Result()
	require.ErrorIs(t, err, lint.ErrInvariantViolation)
	assert.Nil(t, diags)
	assert.Contains(t, err.Error(), "IL001")
}

func TestCollector_DedupesAndSorts(t *testing.T) {
	t.Parallel()

	rs := collectorRules(t, nil)
	c := lint.NewCollector(rs)

	addFinding(t, c, rs, "IL003", &lint.Finding{Span: mkSpan("b.rs", 1, 1, 1, 2), Message: "b"})
	addFinding(t, c, rs, "IL003", &lint.Finding{Span: mkSpan("a.rs", 4, 9, 4, 10), Message: "first"})
	addFinding(t, c, rs, "IL003", &lint.Finding{Span: mkSpan("a.rs", 4, 9, 4, 10), Message: "again"})
	addFinding(t, c, rs, "IL002", &lint.Finding{Span: mkSpan("a.rs", 4, 9, 4, 12), Message: "wider"})
	addFinding(t, c, rs, "IL003", &lint.Finding{Span: mkSpan("a.rs", 2, 5, 2, 6), Message: "early"})

	diags, dropped, err := c.Result()
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)

	var got []string
	for _, d := range diags {
		got = append(got, d.RuleID+" "+d.Message)
	}
	assert.Equal(t, []string{
		"IL003 early",
		"IL002 wider",
		"IL003 first",
		"IL003 b",
	}, got)

	assert.Equal(t, "other", diags[0].RuleName)
	assert.Equal(t, config.LevelWarn, diags[0].Level)
	assert.Equal(t, lint.OriginDefault, diags[0].Origin.Kind)
}
