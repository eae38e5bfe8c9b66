package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/ast/asttest"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/lint/rules"
	"github.com/yaklabco/idiomlint/pkg/runner"
)

const chainSrc = `fn main() {
    let x = opt.map(|x| x + 1).unwrap_or(0);
}
`

const fixedSrc = `fn main() {
    let x = opt.map_or(0, |x| x + 1);
}
`

// writeModel writes src/lib.rs and lib.pm.json under dir and returns the model path.
func writeModel(t testing.TB, dir string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "lib.rs"), []byte(chainSrc), 0o644))

	b := asttest.New(chainSrc)
	raw := b.File(b.Fn("fn main()", b.Expr("opt.map(|x| x + 1).unwrap_or(0)", asttest.Type("opt", "Option<i32>"))))
	raw.Source = ""

	data, err := ast.Encode(ast.FormatJSON, raw)
	require.NoError(t, err)

	modelPath := filepath.Join(dir, "lib.pm.json")
	require.NoError(t, os.WriteFile(modelPath, data, 0o644))
	return modelPath
}

// writeModels writes one model per named subdirectory of dir.
func writeModels(t testing.TB, dir string, names ...string) []string {
	t.Helper()

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = writeModel(t, filepath.Join(dir, name))
	}
	return paths
}

func newRunner(t testing.TB, cfg *config.Config) *runner.Runner {
	t.Helper()

	registry := lint.NewRegistry()
	rules.RegisterAll(registry)
	rs, err := lint.Resolve(registry, cfg)
	require.NoError(t, err)
	return runner.New(lint.NewPipeline(lint.NewEngine(rs, cfg)))
}

func run(t *testing.T, cfg *config.Config, dir string, jobs int) *runner.Result {
	t.Helper()

	result, err := newRunner(t, cfg).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Jobs:       jobs,
		Config:     cfg,
	})
	require.NoError(t, err)
	return result
}

func TestNew(t *testing.T) {
	t.Parallel()

	pipeline := lint.NewPipeline(nil)
	assert.Same(t, pipeline, runner.New(pipeline).Pipeline)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "README.md")

	result := run(t, config.NewConfig(), dir, 0)
	assert.Empty(t, result.Files)
	assert.Zero(t, result.Stats.FilesDiscovered)
	assert.False(t, result.HasIssues())
	assert.False(t, result.HasFailures())
}

func TestRunner_Run_WithDiagnostics(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	models := writeModels(t, dir, "a", "b", "c")

	result := run(t, config.NewConfig(), dir, 2)

	require.Len(t, result.Files, 3)
	for i, outcome := range result.Files {
		assert.Equal(t, models[i], outcome.Path)
		require.NoError(t, outcome.Error)
		require.NotNil(t, outcome.Result)
		assert.Equal(t, filepath.Join(filepath.Dir(models[i]), "src", "lib.rs"), outcome.Result.Path)
	}

	stats := result.Stats
	assert.Equal(t, 3, stats.FilesDiscovered)
	assert.Equal(t, 3, stats.FilesProcessed)
	assert.Equal(t, 3, stats.FilesWithIssues)
	assert.Equal(t, 3, stats.DiagnosticsTotal)
	assert.Equal(t, 3, stats.DiagnosticsFixable)
	assert.Equal(t, 3, stats.DiagnosticsByLevel[config.LevelWarn])
	assert.Equal(t, 3, stats.DiagnosticsByRule["IL005"])
	assert.Zero(t, stats.FilesModified)
	assert.True(t, result.HasIssues())
	assert.False(t, result.HasFailures())
}

func TestRunner_Run_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
		want   bool
	}{
		{"warnings only", func(*config.Config) {}, false},
		{"deny rule", func(cfg *config.Config) { cfg.Rules["IL005"] = config.RuleConfig{Level: levelPtr("deny")} }, true},
		{"deny warnings", func(cfg *config.Config) { cfg.DenyWarnings = true }, true},
		{"strict", func(cfg *config.Config) { cfg.Strict = true }, true},
		{"allowed", func(cfg *config.Config) { cfg.Rules["option-map-unwrap-or"] = config.RuleConfig{Level: levelPtr("allow")} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeModels(t, dir, "a")

			cfg := config.NewConfig()
			tt.mutate(cfg)
			assert.Equal(t, tt.want, run(t, cfg, dir, 1).HasFailures())
		})
	}
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeModels(t, dir, "m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8")

	serial := run(t, config.NewConfig(), dir, 1)
	parallel := run(t, config.NewConfig(), dir, 8)

	require.Len(t, parallel.Files, len(serial.Files))
	for i := range serial.Files {
		assert.Equal(t, serial.Files[i].Path, parallel.Files[i].Path)
		assert.Equal(t, serial.Files[i].Result.Diagnostics, parallel.Files[i].Result.Diagnostics)
	}
	assert.Equal(t, serial.Stats, parallel.Stats)
}

func TestRunner_Run_BrokenModel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeModels(t, dir, "a", "c")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	broken := filepath.Join(dir, "b", "lib.pm.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"path": `), 0o644))

	result := run(t, config.NewConfig(), dir, 0)

	require.Len(t, result.Files, 3)
	assert.Equal(t, broken, result.Files[1].Path)
	require.Error(t, result.Files[1].Error)
	assert.ErrorIs(t, result.Files[1].Error, lint.ErrModelDecode)
	assert.Nil(t, result.Files[1].Result)

	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.Equal(t, 2, result.Stats.FilesProcessed)
	assert.Equal(t, 2, result.Stats.DiagnosticsTotal)
	assert.True(t, result.HasErrors())
}

func TestRunner_RunFiles_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	models := writeModels(t, dir, "a", "b")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.NewConfig()
	result, err := newRunner(t, cfg).RunFiles(ctx, models, runner.Options{Config: cfg})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Empty(t, result.Files)
	assert.Equal(t, 2, result.Stats.FilesDiscovered)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeModels(t, dir, "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(t, config.NewConfig()).Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Run_WithFixes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeModels(t, dir, "a", "b")

	cfg := config.NewConfig()
	cfg.Fix = true
	cfg.NoBackups = true

	result := run(t, cfg, dir, 2)

	assert.Equal(t, 2, result.Stats.FilesModified)
	assert.Equal(t, 2, result.Stats.SuggestionsApplied)
	for _, name := range []string{"a", "b"} {
		data, err := os.ReadFile(filepath.Join(dir, name, "src", "lib.rs"))
		require.NoError(t, err)
		assert.Equal(t, fixedSrc, string(data))
	}
	for _, outcome := range result.Files {
		assert.True(t, outcome.Result.Written)
		assert.False(t, outcome.Result.BackupCreated)
	}
}

func TestRunner_Run_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeModels(t, dir, "a")

	cfg := config.NewConfig()
	cfg.Fix = true
	cfg.DryRun = true

	result := run(t, cfg, dir, 1)

	require.Len(t, result.Files, 1)
	pr := result.Files[0].Result
	assert.True(t, pr.Modified)
	assert.False(t, pr.Written)
	require.NotNil(t, pr.Diff)
	assert.Zero(t, result.Stats.FilesModified)

	data, err := os.ReadFile(filepath.Join(dir, "a", "src", "lib.rs"))
	require.NoError(t, err)
	assert.Equal(t, chainSrc, string(data))
}

func TestResult_HasFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		byLevel map[config.Level]int
		strict  bool
		want    bool
	}{
		{"empty", map[config.Level]int{}, false, false},
		{"warn", map[config.Level]int{config.LevelWarn: 2}, false, false},
		{"warn strict", map[config.Level]int{config.LevelWarn: 2}, true, true},
		{"deny", map[config.Level]int{config.LevelDeny: 1}, false, true},
		{"zero deny", map[config.Level]int{config.LevelDeny: 0}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := &runner.Result{Stats: runner.Stats{DiagnosticsByLevel: tt.byLevel, Strict: tt.strict}}
			assert.Equal(t, tt.want, result.HasFailures())
		})
	}

	var nilResult *runner.Result
	assert.False(t, nilResult.HasFailures())
	assert.False(t, nilResult.HasIssues())
	assert.False(t, nilResult.HasErrors())
}

func levelPtr(level string) *string { return &level }
