package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/runner"
)

func TestLevelFlagValue_KeepsCommandLineOrder(t *testing.T) {
	t.Parallel()

	cmd := newLintCommand(BuildInfo{})
	require.NoError(t, cmd.ParseFlags([]string{
		"-D", "warnings",
		"-A", "pedantic",
		"--warn", "IL005",
		"-D", "clippy::filter_next",
	}))

	// The three flags share one slice.
	allow, ok := cmd.Flags().Lookup("allow").Value.(*levelFlagValue)
	require.True(t, ok)

	assert.Equal(t, []config.LevelFlag{
		{Level: config.LevelDeny, Target: "warnings"},
		{Level: config.LevelAllow, Target: "pedantic"},
		{Level: config.LevelWarn, Target: "IL005"},
		{Level: config.LevelDeny, Target: "clippy::filter_next"},
	}, *allow.flags)

	deny := cmd.Flags().Lookup("deny").Value
	assert.Equal(t, "warnings,clippy::filter_next", deny.String())
	assert.Equal(t, "lint", deny.Type())
}

func TestLevelFlagValue_RejectsEmptyTarget(t *testing.T) {
	t.Parallel()

	var flags []config.LevelFlag
	value := &levelFlagValue{level: config.LevelDeny, flags: &flags}
	require.Error(t, value.Set("  "))
	assert.Empty(t, flags)
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	result := func(warn, deny int) *runner.Result {
		return &runner.Result{Stats: runner.Stats{DiagnosticsByLevel: map[config.Level]int{
			config.LevelWarn: warn,
			config.LevelDeny: deny,
		}}}
	}

	tests := []struct {
		name   string
		result *runner.Result
		strict bool
		want   int
	}{
		{name: "nil result", result: nil, want: ExitSuccess},
		{name: "clean", result: result(0, 0), want: ExitSuccess},
		{name: "warnings only", result: result(3, 0), want: ExitSuccess},
		{name: "warnings under strict", result: result(3, 0), strict: true, want: ExitLintErrors},
		{name: "deny", result: result(0, 1), want: ExitLintErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCodeFromResult(tt.result, tt.strict))
		})
	}
}

func TestExitCodeFromError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "issues", err: ErrLintIssuesFound, want: ExitLintErrors},
		{name: "config conflict", err: &lint.ConfigError{Key: "nope", Reason: "unknown rule"}, want: ExitConfigError},
		{name: "bad config", err: errors.Join(ErrConfig, errors.New("invalid level")), want: ExitConfigError},
		{name: "usage", err: ErrInvalidUsage, want: ExitInvalidUsage},
		{name: "missing file", err: lint.ErrFileNotFound, want: ExitIOError},
		{name: "write failure", err: lint.ErrWriteFailure, want: ExitIOError},
		{name: "other", err: errors.New("boom"), want: ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCodeFromError(tt.err))
		})
	}
}

func TestWatchRoots(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	model := filepath.Join(dir, "models", "lib.pm.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(model), 0o755))
	require.NoError(t, os.WriteFile(model, []byte("{}"), 0o644))

	assert.Equal(t, []string{dir}, watchRoots(nil, dir))
	assert.Equal(t,
		[]string{filepath.Join(dir, "models")},
		watchRoots([]string{"models/lib.pm.json", "models"}, dir))
}

func TestWatchModels(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchModels(ctx, []string{dir}, func(context.Context) error {
			runs.Add(1)
			return ErrLintIssuesFound
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "notes.txt"), []byte("x"), 0o644))
	time.Sleep(3 * watchDebounce)
	assert.Zero(t, runs.Load(), "non-model files are ignored")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "lib.pm.json"), []byte("{}"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}
