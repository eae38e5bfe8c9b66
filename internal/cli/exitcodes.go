package cli

import (
	"errors"

	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/runner"
)

// Exit codes for idiomlint.
const (
	// ExitSuccess indicates successful execution with no failing diagnostics.
	ExitSuccess = 0

	// ExitLintErrors indicates a diagnostic resolved to deny, or a warning
	// was reported under --strict.
	ExitLintErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates a configuration conflict such as an unknown
	// rule or group.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrLintIssuesFound is returned when the run has failing diagnostics.
var ErrLintIssuesFound = errors.New("lint issues found")

// ErrConfig marks failures to load or resolve configuration.
var ErrConfig = errors.New("configuration error")

// ErrInvalidUsage wraps command-line usage errors.
var ErrInvalidUsage = errors.New("invalid usage")

// ExitCodeFromResult determines the exit code of a finished run.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	denials := result.Stats.DiagnosticsByLevel[config.LevelDeny]
	warnings := result.Stats.DiagnosticsByLevel[config.LevelWarn]

	if denials > 0 {
		return ExitLintErrors
	}

	if strict && warnings > 0 {
		return ExitLintErrors
	}

	return ExitSuccess
}

// ExitCodeFromError maps a command error to a process exit code.
func ExitCodeFromError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrLintIssuesFound):
		return ExitLintErrors
	case errors.Is(err, lint.ErrConfigConflict), errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, lint.ErrFileNotFound),
		errors.Is(err, lint.ErrPermissionDenied),
		errors.Is(err, lint.ErrWriteFailure):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
