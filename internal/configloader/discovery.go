package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ConfigPaths are the config files found for a working directory. A field
// is empty when no such file exists.
type ConfigPaths struct {
	System   string // /etc/idiomlint/config.yaml, or %ProgramData% on Windows
	User     string // $XDG_CONFIG_HOME/idiomlint/config.yaml
	Project  string // nearest .idiomlint.yml walking up
	Explicit string // --config

	// Clippy is a clippy.toml in the working directory, offered for
	// migration when there is no project config.
	Clippy string
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	projectConfigNames = []string{".idiomlint.yml", ".idiomlint.yaml", "idiomlint.yml", "idiomlint.yaml"}
	layerConfigNames   = []string{"config.yaml", "config.yml"}
	clippyConfigNames  = []string{"clippy.toml", ".clippy.toml"}
	vcsMarkers         = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths locates the system, user, project and clippy config files
// for workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), layerConfigNames),
		User:    firstFile(userConfigDir(), layerConfigNames),
		Project: project,
		Clippy:  FindClippyConfig(workDir),
	}, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/idiomlint"
	}
	if dir := os.Getenv("ProgramData"); dir != "" {
		return filepath.Join(dir, "idiomlint")
	}
	return `C:\ProgramData\idiomlint`
}

func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "idiomlint")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "idiomlint")
}

// FindProjectConfig walks up from startDir, or the working directory when
// empty, and returns the first project config it meets. The walk stops
// after a VCS root, the home directory or the filesystem root, returning
// "" when nothing was found.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", startDir, err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("discover config: %w", err)
		}
		if path := firstFile(dir, projectConfigNames); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if isVCSRoot(dir) || dir == home || parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// FindClippyConfig returns the clippy.toml (or .clippy.toml) in dir, or "".
func FindClippyConfig(dir string) string {
	return firstFile(dir, clippyConfigNames)
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// IsCargoManifest reports whether path is a Cargo.toml, whose lint tables
// live under [lints.clippy] or [workspace.lints.clippy].
func IsCargoManifest(path string) bool {
	return strings.EqualFold(filepath.Base(path), "Cargo.toml")
}

// IsTOMLConfig reports a .toml extension, in any case.
func IsTOMLConfig(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// IsYAMLConfig reports a .yaml or .yml extension, in any case.
func IsYAMLConfig(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
