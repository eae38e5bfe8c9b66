package lint_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/ast/asttest"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/fsutil"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

const fixedLine = "    let x = opt.map_or(0, |x| x + 1);"

func fixPipeline(t *testing.T, fixEnabled bool) *lint.Pipeline {
	t.Helper()

	rule := newCallRule("IL005", "map-unwrap-or", lint.GroupPedantic, "unwrap_or")
	rule.chain = true
	rule.replace = "map_or(0, |x| x + 1)"

	cfg := config.NewConfig()
	cfg.Fix = fixEnabled
	return lint.NewPipeline(newEngine(t, cfg, rule))
}

func fixOptions() lint.PipelineOptions {
	opts := lint.DefaultPipelineOptions()
	opts.Fix = true
	return opts
}

// writeModel writes src to dir/src/lib.rs and its model to dir/lib.pm.json.
// With embed set the model carries the source text.
func writeModel(t *testing.T, dir string, embed bool) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "lib.rs"), []byte(chainSrc), 0o644))

	raw := chainFile(asttest.New(chainSrc))
	if !embed {
		raw.Source = ""
	}
	data, err := ast.Encode(ast.FormatJSON, raw)
	require.NoError(t, err)

	modelPath := filepath.Join(dir, "lib.pm.json")
	require.NoError(t, os.WriteFile(modelPath, data, 0o644))
	return modelPath
}

func TestPipeline_ProcessRaw(t *testing.T) {
	t.Parallel()

	t.Run("lint only", func(t *testing.T) {
		t.Parallel()

		result, err := fixPipeline(t, false).ProcessRaw(context.Background(), chainFile(asttest.New(chainSrc)),
			lint.DefaultPipelineOptions())
		require.NoError(t, err)
		assert.False(t, result.Modified)
		assert.Equal(t, 1, result.IssueCount())
		assert.Equal(t, "issues found", result.Summary())
	})

	t.Run("fix", func(t *testing.T) {
		t.Parallel()

		result, err := fixPipeline(t, true).ProcessRaw(context.Background(), chainFile(asttest.New(chainSrc)), fixOptions())
		require.NoError(t, err)
		require.True(t, result.Modified)
		assert.Equal(t, 1, result.SuggestionsApplied)
		assert.Equal(t, fixedLine, strings.Split(string(result.ModifiedContent), "\n")[1])
		require.NotNil(t, result.Diff)
		assert.Equal(t, 1, result.Diff.Additions)
		assert.Equal(t, 1, result.Diff.Deletions)
		assert.Equal(t, "changes pending", result.Summary())
	})

	t.Run("fix without auto-fix enabled", func(t *testing.T) {
		t.Parallel()

		result, err := fixPipeline(t, false).ProcessRaw(context.Background(), chainFile(asttest.New(chainSrc)), fixOptions())
		require.NoError(t, err)
		assert.False(t, result.Modified)
		assert.Zero(t, result.SuggestionsApplied)
	})

	t.Run("other language is skipped", func(t *testing.T) {
		t.Parallel()

		raw := chainFile(asttest.New(chainSrc))
		raw.Language = "Python"

		result, err := fixPipeline(t, true).ProcessRaw(context.Background(), raw, fixOptions())
		require.NoError(t, err)
		assert.True(t, result.Skipped)
		assert.Nil(t, result.FileResult)
		assert.Contains(t, result.SkipReason, "python")
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := fixPipeline(t, true).ProcessRaw(ctx, chainFile(asttest.New(chainSrc)), fixOptions())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestPipeline_ProcessFile_WritesFix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	modelPath := writeModel(t, dir, false)
	srcPath := filepath.Join(dir, "src", "lib.rs")

	opts := fixOptions()
	opts.Backups = fsutil.Backups{Enabled: true, Mode: fsutil.BackupModeSidecar}

	result, err := fixPipeline(t, true).ProcessFile(context.Background(), modelPath, opts)
	require.NoError(t, err)
	assert.Equal(t, srcPath, result.Path)
	assert.Equal(t, modelPath, result.ModelPath)
	assert.True(t, result.Written)
	assert.True(t, result.BackupCreated)
	assert.Equal(t, "fixed (backup created)", result.Summary())

	got, err := os.ReadFile(srcPath)
	require.NoError(t, err)
	assert.Equal(t, fixedLine, strings.Split(string(got), "\n")[1])

	backup, err := os.ReadFile(opts.Backups.Path(srcPath))
	require.NoError(t, err)
	assert.Equal(t, chainSrc, string(backup))
}

func TestPipeline_ProcessFile_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	modelPath := writeModel(t, dir, false)

	opts := fixOptions()
	opts.DryRun = true

	result, err := fixPipeline(t, true).ProcessFile(context.Background(), modelPath, opts)
	require.NoError(t, err)
	assert.True(t, result.Modified)
	assert.False(t, result.Written)
	assert.NotNil(t, result.Diff)

	got, err := os.ReadFile(filepath.Join(dir, "src", "lib.rs"))
	require.NoError(t, err)
	assert.Equal(t, chainSrc, string(got))
}

func TestPipeline_ProcessFile_EmbeddedSource(t *testing.T) {
	t.Parallel()

	t.Run("matching disk copy is written", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		result, err := fixPipeline(t, true).ProcessFile(context.Background(), writeModel(t, dir, true), fixOptions())
		require.NoError(t, err)
		assert.True(t, result.Written)
	})

	t.Run("stale disk copy is skipped", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		modelPath := writeModel(t, dir, true)
		srcPath := filepath.Join(dir, "src", "lib.rs")
		edited := "// edited\n" + chainSrc
		require.NoError(t, os.WriteFile(srcPath, []byte(edited), 0o644))

		result, err := fixPipeline(t, true).ProcessFile(context.Background(), modelPath, fixOptions())
		require.NoError(t, err)
		assert.True(t, result.Skipped)
		assert.Equal(t, "source on disk does not match the model", result.SkipReason)
		assert.Equal(t, 1, result.IssueCount())

		got, err := os.ReadFile(srcPath)
		require.NoError(t, err)
		assert.Equal(t, edited, string(got))
	})
}

func TestPipeline_ProcessFile_Errors(t *testing.T) {
	t.Parallel()

	t.Run("model not found", func(t *testing.T) {
		t.Parallel()

		_, err := fixPipeline(t, false).ProcessFile(context.Background(),
			filepath.Join(t.TempDir(), "missing.pm.json"), lint.DefaultPipelineOptions())
		require.ErrorIs(t, err, lint.ErrFileNotFound)
		assert.True(t, lint.IsPipelineError(err))
	})

	t.Run("source not found", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		modelPath := writeModel(t, dir, false)
		require.NoError(t, os.Remove(filepath.Join(dir, "src", "lib.rs")))

		_, err := fixPipeline(t, false).ProcessFile(context.Background(), modelPath, lint.DefaultPipelineOptions())
		require.ErrorIs(t, err, lint.ErrFileNotFound)
	})

	t.Run("malformed model", func(t *testing.T) {
		t.Parallel()

		modelPath := filepath.Join(t.TempDir(), "bad.pm.json")
		require.NoError(t, os.WriteFile(modelPath, []byte(`{"path": `), 0o644))

		_, err := fixPipeline(t, false).ProcessFile(context.Background(), modelPath, lint.DefaultPipelineOptions())
		require.ErrorIs(t, err, lint.ErrModelDecode)
		assert.True(t, lint.IsPipelineError(err))
	})

	t.Run("span past the source", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		modelPath := writeModel(t, dir, false)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "lib.rs"), []byte("fn main() {}\n"), 0o644))

		_, err := fixPipeline(t, false).ProcessFile(context.Background(), modelPath, lint.DefaultPipelineOptions())
		require.ErrorIs(t, err, lint.ErrModelDecode)
	})
}

func TestSourcePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("out", "src", "lib.rs"), lint.SourcePath(filepath.Join("out", "lib.pm.json"), "src/lib.rs"))
	assert.Equal(t, "/abs/lib.rs", lint.SourcePath("out/lib.pm.json", "/abs/lib.rs"))
	assert.Empty(t, lint.SourcePath("out/lib.pm.json", ""))
}

func TestPipelineOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Fix = true
	cfg.NoBackups = true

	opts := lint.PipelineOptionsFromConfig(cfg)
	assert.True(t, opts.Fix)
	assert.False(t, opts.Backups.Active())
	assert.True(t, opts.VerifyLanguage)

	assert.Equal(t, lint.DefaultPipelineOptions(), lint.PipelineOptionsFromConfig(nil))
}
