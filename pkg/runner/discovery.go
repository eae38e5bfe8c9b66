package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Discover returns the absolute, sorted, de-duplicated paths of the model
// files that opts selects. Directories are walked; a file named explicitly
// is taken even when IsModel rejects its name, though the globs still apply.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	d, err := newDiscoverer(opts)
	if err != nil {
		return nil, err
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		target := input
		if !filepath.IsAbs(target) {
			target = filepath.Join(d.workDir, target)
		}
		target = filepath.Clean(target)

		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if !info.IsDir() {
			if d.selected(target) {
				d.add(target)
			}
			continue
		}
		if err := d.walk(ctx, target); err != nil {
			return nil, fmt.Errorf("walk directory %s: %w", target, err)
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

type discoverer struct {
	workDir        string
	isModel        func(string) bool
	include        *patternSet
	exclude        *patternSet
	followSymlinks bool

	seen  map[string]struct{}
	files []string
}

func newDiscoverer(opts Options) (*discoverer, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	include, err := compilePatterns(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := compilePatterns(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}
	return &discoverer{
		workDir:        workDir,
		isModel:        opts.effectiveIsModel(),
		include:        include,
		exclude:        exclude,
		followSymlinks: opts.FollowSymlinks,
		seen:           make(map[string]struct{}),
	}, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(workDir)
}

func (d *discoverer) add(path string) {
	if _, dup := d.seen[path]; dup {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

func (d *discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

// selected applies the include and exclude globs.
func (d *discoverer) selected(path string) bool {
	rel := d.rel(path)
	if d.exclude.match(rel) {
		return false
	}
	return d.include.empty() || d.include.match(rel)
}

// walk adds the model files under root. Hidden entries and excluded
// directories are pruned, unreadable directories are skipped, and directory
// symlinks are followed only when asked.
func (d *discoverer) walk(ctx context.Context, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")
		if entry.IsDir() {
			if hidden || d.exclude.match(d.rel(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // dangling links are skipped
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // unreadable targets are skipped
			}
			if info.IsDir() {
				if !d.followSymlinks {
					return nil
				}
				// Walk the target: WalkDir does not descend through a link root.
				return d.walk(ctx, target)
			}
		}

		if d.isModel(path) && d.selected(path) {
			d.add(path)
		}
		return nil
	})
}
