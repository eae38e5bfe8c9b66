package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/idiomlint/internal/ui/pretty"
	"github.com/yaklabco/idiomlint/pkg/analysis"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/runner"
)

// DiffReporter prints the changes --fix made, or would make under
// --dry-run, as git-style unified diffs followed by a diffstat line.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
}

func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

// Report implements Reporter. The count is the number of files with changes.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	var files, additions, deletions int
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprint(bw, r.styles.FormatFileError(analysis.DisplayPath(file, r.opts.WorkingDir), file.Error))
			continue
		}
		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}
		diff := *file.Result.Diff
		diff.Path = r.relativePath(diff.Path)
		r.write(bw, &diff)

		files++
		additions += diff.Additions
		deletions += diff.Deletions
	}

	if files > 0 && r.opts.ShowSummary {
		r.diffstat(bw, files, additions, deletions)
	}
	if err := bw.Flush(); err != nil {
		return files, fmt.Errorf("write diff: %w", err)
	}
	return files, nil
}

// write colors the rendered diff line by line. Header lines come before
// the first hunk; after it only the column-one marker matters.
func (r *DiffReporter) write(w io.Writer, diff *fix.Diff) {
	inHunk := false
	for line := range strings.Lines(diff.FullString()) {
		line = strings.TrimSuffix(line, "\n")
		fmt.Fprintln(w, r.lineStyle(line, &inHunk).Render(line))
	}
	fmt.Fprintln(w)
}

func (r *DiffReporter) lineStyle(line string, inHunk *bool) lipgloss.Style {
	switch {
	case strings.HasPrefix(line, "@@"):
		*inHunk = true
		return r.styles.DiffHunk
	case !*inHunk && strings.HasPrefix(line, "diff --git"):
		return r.styles.DiffHeader
	case strings.HasPrefix(line, "+"):
		return r.styles.DiffAdd
	case strings.HasPrefix(line, "-"):
		return r.styles.DiffRemove
	default:
		return r.styles.DiffContext
	}
}

// relativePath shows path relative to the working directory, or by its base
// name when it lies outside of it.
func (r *DiffReporter) relativePath(path string) string {
	if r.opts.WorkingDir == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(r.opts.WorkingDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

func (r *DiffReporter) diffstat(w io.Writer, files, additions, deletions int) {
	parts := []string{fmt.Sprintf("%d %s changed", files, pluralize(files, "file", "files"))}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", additions, pluralize(additions, "insertion", "insertions"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deletions, pluralize(deletions, "deletion", "deletions"))))
	}
	fmt.Fprintln(w, strings.Join(parts, ", "))
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
