package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/idiomlint/pkg/config"
)

func TestFormatRuleID(t *testing.T) {
	tests := []struct {
		name     string
		format   config.RuleFormat
		ruleID   string
		ruleName string
		want     string
	}{
		{"name format", config.RuleFormatName, "IL009", "filter-next", "filter-next"},
		{"id format", config.RuleFormatID, "IL009", "filter-next", "IL009"},
		{"combined format", config.RuleFormatCombined, "IL009", "filter-next", "IL009/filter-next"},
		{"name format empty name", config.RuleFormatName, "IL009", "", "IL009"},
		{"default to name", config.RuleFormat(""), "IL009", "filter-next", "filter-next"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := config.FormatRuleID(tt.format, tt.ruleID, tt.ruleName)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := config.NewConfig()
	assert.Equal(t, config.RuleFormatName, cfg.RuleFormat)
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.True(t, cfg.Backups.Enabled)
	assert.Equal(t, config.SummaryOrderRules, cfg.SummaryOrder)
}
