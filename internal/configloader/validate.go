package configloader

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/runner"
)

// ValidationError is one invalid config field.
type ValidationError struct {
	Field   string // e.g. "rules.use-self.level"
	Value   any
	Message string

	// Err is lint.ErrConfigConflict for keys that name no rule or group.
	Err error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult collects the findings of ValidateWith. Errors stop
// loading; warnings are reported and ignored.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Err joins every error, or returns nil.
func (r *ValidationResult) Err() error {
	errs := make([]error, len(r.Errors))
	for i := range r.Errors {
		errs[i] = &r.Errors[i]
	}
	return errors.Join(errs...)
}

func (r *ValidationResult) fail(field string, value any, err error, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...), Err: err})
}

// oneOf checks a non-empty enum value against its allowed spellings.
func oneOf[T ~string](r *ValidationResult, field, what string, value T, allowed ...T) {
	if value == "" || slices.Contains(allowed, value) {
		return
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	r.fail(field, value, nil, "invalid %s %q; must be one of: %s", what, value, strings.Join(names, ", "))
}

// ValidateWith checks cfg, resolving rule keys against registry. Rule and
// group keys that resolve to nothing wrap lint.ErrConfigConflict.
func ValidateWith(cfg *config.Config, registry *lint.Registry) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Default != "" {
		result.level("default", cfg.Default)
	}
	oneOf(result, "format", "format", cfg.Format,
		config.FormatText, config.FormatTable, config.FormatJSON, config.FormatSARIF, config.FormatDiff, config.FormatSummary)
	oneOf(result, "rule_format", "rule format", cfg.RuleFormat,
		config.RuleFormatName, config.RuleFormatID, config.RuleFormatCombined)
	oneOf(result, "summary_order", "summary order", cfg.SummaryOrder,
		config.SummaryOrderRules, config.SummaryOrderFiles)
	oneOf(result, "backups.mode", "backup mode", cfg.Backups.Mode, "sidecar", "none")

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, nil, "jobs must be >= 0 (0 means auto)")
	}
	if cfg.DryRun && !cfg.Fix {
		result.Warnings = append(result.Warnings, ValidationError{
			Field: "dry_run", Value: true, Message: "dry run has no effect without fix",
		})
	}

	for _, key := range slices.Sorted(maps.Keys(cfg.Groups)) {
		field := "groups." + key
		if !lint.IsGroup(strings.TrimPrefix(key, "clippy::")) {
			result.fail(field, key, lint.ErrConfigConflict,
				"unknown group %q; must be one of: %s", key, strings.Join(lint.Groups(), ", "))
			continue
		}
		result.level(field, cfg.Groups[key])
	}

	for _, key := range slices.Sorted(maps.Keys(cfg.Rules)) {
		if _, _, ok := registry.Resolve(key); !ok {
			result.fail("rules."+key, key, lint.ErrConfigConflict, "unknown rule %q", key)
			continue
		}
		if level := cfg.Rules[key].Level; level != nil {
			result.level("rules."+key+".level", *level)
		}
	}
	for _, key := range cfg.FixRules {
		if _, _, ok := registry.Resolve(key); !ok {
			result.fail("fix_rules", key, lint.ErrConfigConflict, "unknown rule %q", key)
		}
	}

	for i, pattern := range cfg.Ignore {
		if err := runner.ValidatePattern(pattern); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, nil, "%v", err)
		}
	}

	return result
}

func (r *ValidationResult) level(field, value string) {
	if _, err := config.ParseLevel(value); err != nil {
		r.fail(field, value, nil, "invalid level %q; must be one of: allow, warn, deny", value)
	}
}
