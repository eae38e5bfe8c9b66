package lint

import (
	"errors"
	"fmt"
)

// Engine error categories.
var (
	// ErrInvariantViolation is a defect in the engine or a rule, such as a span
	// merge across files or a cycle between suppressing findings. It aborts
	// the current file.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrConfigConflict is returned when configuration names an unknown rule
	// or group, or configures a rule twice.
	ErrConfigConflict = errors.New("configuration conflict")

	// ErrMatchAmbiguity means a rule matched but could not build a safe
	// suggestion. The finding is kept without the suggestion.
	ErrMatchAmbiguity = errors.New("ambiguous match")
)

// Pipeline error categories.
var (
	// ErrFileNotFound indicates the model or source file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrModelDecode indicates the program model could not be decoded or adapted.
	ErrModelDecode = errors.New("model decode failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// ConfigError reports a configuration key that does not resolve.
type ConfigError struct {
	// Source names where the key came from, e.g. "rules", "groups", or "--deny".
	Source string

	// Key is the offending rule, group, or level name.
	Key string

	// Reason describes the problem.
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %q: %s", e.Source, e.Key, e.Reason)
}

// Unwrap lets errors.Is match ErrConfigConflict.
func (e *ConfigError) Unwrap() error {
	return ErrConfigConflict
}

// invariant wraps err as an invariant violation.
func invariant(err error) error {
	if err == nil || errors.Is(err, ErrInvariantViolation) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvariantViolation, err)
}
