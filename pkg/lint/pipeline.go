package lint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/fsutil"
	"github.com/yaklabco/idiomlint/pkg/langdetect"
)

// SourceLanguage is the language the built-in rules understand.
const SourceLanguage = "rust"

// PipelineResult contains the result of processing one model file.
type PipelineResult struct {
	// FileResult contains the lint diagnostics. Nil when the file was skipped
	// before linting.
	*FileResult

	// ModelPath is the model file that was processed (empty for in-memory models).
	ModelPath string

	// Path is the source path the model describes.
	Path string

	// Source is the source file as read from disk, if it was.
	Source *fsutil.Snapshot

	// Modified is true if suggestions changed the source.
	Modified bool

	// ModifiedContent is the new source after applying suggestions (nil if not modified).
	ModifiedContent []byte

	// Diff is the unified diff of the applied suggestions (nil if not modified or written).
	Diff *fix.Diff

	// Skipped is true if the file was not linted or not written.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for the source file.
	BackupCreated bool

	// Written is true if the source file was written to disk.
	Written bool

	// SuggestionsApplied counts suggestions applied to ModifiedContent.
	SuggestionsApplied int

	// SuggestionsSkipped counts fixable suggestions dropped because they
	// overlapped an earlier one.
	SuggestionsSkipped int
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	if pr.Skipped {
		return "skipped: " + pr.SkipReason
	}
	if pr.Written {
		if pr.BackupCreated {
			return "fixed (backup created)"
		}
		return "fixed"
	}
	if pr.Modified {
		return "changes pending"
	}
	if pr.FileResult != nil && pr.HasIssues() {
		return "issues found"
	}
	return "ok"
}

// PipelineOptions controls pipeline behavior.
type PipelineOptions struct {
	// Fix applies machine-applicable suggestions of auto-fix rules.
	Fix bool

	// DryRun generates diffs without writing files.
	DryRun bool

	// Backups configures backups of sources before fixes are written.
	Backups fsutil.Backups

	// StrictRaceDetection uses hash comparison for modification detection.
	// When false, only mod time and size are checked.
	StrictRaceDetection bool

	// VerifyLanguage skips models whose source is not in SourceLanguage.
	VerifyLanguage bool
}

// DefaultPipelineOptions returns sensible defaults.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Backups:             fsutil.DefaultBackups(),
		StrictRaceDetection: true,
		VerifyLanguage:      true,
	}
}

// Pipeline loads one model, lints it, and optionally applies suggestions.
//
// The model cannot be rebuilt from edited source, so fixing is a single
// pass: suggestions that overlap an already accepted one are skipped and
// reported on the next run against a fresh model.
type Pipeline struct {
	// Engine is the lint engine used for rule execution.
	Engine *Engine

	// Decoder decodes model files. Nil means DefaultDecoder.
	Decoder ModelDecoder
}

// NewPipeline creates a new pipeline with the given engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine, Decoder: DefaultDecoder}
}

// ProcessFile runs the pipeline for a single model file.
//
// The pipeline performs the following steps:
//  1. Read and decode the model.
//  2. Read the source from disk if the model does not embed it.
//  3. Adapt and lint the model.
//  4. Select and apply fixable suggestions (if fix mode is enabled).
//  5. Generate a diff (dry-run mode) or check for concurrent
//     modification, back up, and write the source atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, modelPath string, opts PipelineOptions) (*PipelineResult, error) {
	data, _, err := fsutil.Read(ctx, modelPath)
	if err != nil {
		return nil, categorizeError(err)
	}

	decoder := p.Decoder
	if decoder == nil {
		decoder = DefaultDecoder
	}
	raw, err := decoder.Decode(modelPath, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelDecode, err)
	}

	srcPath := SourcePath(modelPath, raw.Path)
	var snap *fsutil.Snapshot
	switch {
	case raw.Source == "":
		content, s, err := fsutil.Read(ctx, srcPath)
		if err != nil {
			return nil, categorizeError(err)
		}
		raw.Source = string(content)
		snap = s
	case opts.Fix && !opts.DryRun:
		// Only write back when the file on disk is what the model describes.
		if _, s, err := fsutil.Read(ctx, srcPath); err == nil && s.Matches([]byte(raw.Source)) {
			snap = s
		}
	}

	result, err := p.process(ctx, raw, opts)
	if err != nil {
		return nil, err
	}
	result.ModelPath = modelPath
	result.Path = srcPath
	result.Source = snap

	if !result.Modified || opts.DryRun {
		return result, nil
	}
	if snap == nil {
		result.Skipped = true
		result.SkipReason = "source on disk does not match the model"
		return result, nil
	}
	return p.write(ctx, result, opts)
}

// ProcessRaw processes an in-memory model without file I/O.
// In fix mode the result carries the modified content and its diff.
func (p *Pipeline) ProcessRaw(ctx context.Context, raw *ast.RawFile, opts PipelineOptions) (*PipelineResult, error) {
	result, err := p.process(ctx, raw, opts)
	if err != nil {
		return nil, err
	}
	result.Path = raw.Path
	return result, nil
}

func (p *Pipeline) process(ctx context.Context, raw *ast.RawFile, opts PipelineOptions) (*PipelineResult, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
	default:
	}

	result := &PipelineResult{Path: raw.Path}

	if opts.VerifyLanguage {
		if lang, ok := langdetect.Verify(raw.Language, raw.Path, []byte(raw.Source), SourceLanguage); !ok {
			result.Skipped = true
			result.SkipReason = fmt.Sprintf("unsupported language %q", lang)
			return result, nil
		}
	}

	file, err := ast.Adapt(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelDecode, err)
	}

	fileResult, err := p.Engine.Lint(file)
	if err != nil {
		return nil, err
	}
	result.FileResult = fileResult

	if !opts.Fix {
		return result, nil
	}

	sel := fix.SelectSuggestions(file.Source, FixableSuggestions(p.Engine.Rules, fileResult.Diagnostics))
	result.SuggestionsApplied = sel.Applied
	result.SuggestionsSkipped = sel.Skipped
	if len(sel.Edits) == 0 {
		return result, nil
	}

	original := file.Content()
	result.ModifiedContent = fix.ApplyEdits(original, sel.Edits)
	result.Modified = true
	result.Diff = fix.GenerateDiff(raw.Path, original, result.ModifiedContent)

	return result, nil
}

// write performs step 5 of ProcessFile for a modified source.
func (p *Pipeline) write(ctx context.Context, result *PipelineResult, opts PipelineOptions) (*PipelineResult, error) {
	changed, err := result.Source.Changed(ctx, opts.StrictRaceDetection)
	if err != nil {
		return nil, categorizeError(err)
	}
	if changed {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	created, err := opts.Backups.Save(ctx, result.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.BackupCreated = created

	if err := fsutil.WriteAtomic(ctx, result.Path, result.ModifiedContent, result.Source.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true
	result.Diff = nil

	return result, nil
}

// FixableSuggestions returns, in diagnostic order, the machine-applicable
// suggestions of rules whose auto-fix is enabled.
func FixableSuggestions(rules *RuleSet, diags []Diagnostic) []*fix.Suggestion {
	var result []*fix.Suggestion
	for i := range diags {
		d := &diags[i]
		if !d.Suggestion.IsMachineApplicable() {
			continue
		}
		if rr, ok := rules.Lookup(d.RuleID); !ok || !rr.AutoFix {
			continue
		}
		result = append(result, d.Suggestion)
	}
	return result
}

// SourcePath resolves a model's source path against the model file's directory.
func SourcePath(modelPath, sourcePath string) string {
	if sourcePath == "" || filepath.IsAbs(sourcePath) {
		return sourcePath
	}
	return filepath.Join(filepath.Dir(modelPath), sourcePath)
}

// categorizeError wraps an error with the appropriate pipeline error type.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}

	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrModelDecode) ||
		errors.Is(err, ErrWriteFailure)
}

// BackupsFromConfig returns the backup policy for cfg.
func BackupsFromConfig(cfg *config.Config) fsutil.Backups {
	if cfg == nil {
		return fsutil.DefaultBackups()
	}
	return fsutil.Backups{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// PipelineOptionsFromConfig creates PipelineOptions from config.Config.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	if cfg == nil {
		return DefaultPipelineOptions()
	}
	return PipelineOptions{
		Fix:                 cfg.Fix,
		DryRun:              cfg.DryRun,
		Backups:             BackupsFromConfig(cfg),
		StrictRaceDetection: true,
		VerifyLanguage:      true,
	}
}
