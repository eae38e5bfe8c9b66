package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/idiomlint/internal/logging"
	"github.com/yaklabco/idiomlint/pkg/ast"
)

// watchDebounce coalesces the burst of events a front end produces while
// rewriting a batch of models.
const watchDebounce = 100 * time.Millisecond

// watchRoots returns the directories to watch for the given lint paths.
func watchRoots(paths []string, workDir string) []string {
	if len(paths) == 0 {
		return []string{workDir}
	}

	roots := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			path = filepath.Dir(path)
		}
		if !seen[path] {
			seen[path] = true
			roots = append(roots, path)
		}
	}
	return roots
}

// watchModels calls lint every time a program model under roots is
// written, created, renamed, or removed, until ctx is cancelled. lint
// failures are logged and never stop the watch.
func watchModels(ctx context.Context, roots []string, lint func(context.Context) error) error {
	logger := logging.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range roots {
		if err := watchDirRecursive(watcher, root); err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
	}
	logger.Info("watching for model changes", logging.FieldPaths, roots)

	var (
		timer    *time.Timer
		debounce <-chan time.Time
		changed  string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchDirRecursive(watcher, event.Name); err != nil {
						logger.Warn("failed to watch directory", logging.FieldPath, event.Name, logging.FieldError, err)
					}
					continue
				}
			}
			if !ast.IsModelPath(event.Name) {
				continue
			}

			changed = event.Name
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(watchDebounce)
			debounce = timer.C

		case <-debounce:
			debounce = nil
			logger.Info("change detected", logging.FieldPath, changed)
			if err := lint(ctx); err != nil && !errors.Is(err, ErrLintIssuesFound) {
				logger.Error("lint failed", logging.FieldError, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logging.FieldError, err)
		}
	}
}

// watchDirRecursive adds dir and every non-hidden directory below it.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
