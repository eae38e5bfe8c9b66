package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupMode selects where backups of fixed sources go.
type BackupMode string

const (
	// BackupModeSidecar writes path + BackupSuffix next to the source.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone keeps no backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is appended to a source path in sidecar mode.
const BackupSuffix = ".idiomlint.bak"

// Backups is the backup policy for --fix writes.
type Backups struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackups is the library default: off, sidecar when turned on.
func DefaultBackups() Backups {
	return Backups{Mode: BackupModeSidecar}
}

// Active reports whether Save will write anything.
func (b Backups) Active() bool {
	return b.Enabled && b.Mode != BackupModeNone
}

// Path returns the backup location for src, or "" when b is inactive.
// Unknown modes behave like sidecar.
func (b Backups) Path(src string) string {
	if !b.Active() {
		return ""
	}
	return src + BackupSuffix
}

// Save copies src to its backup path. An existing backup is left alone so
// the oldest pre-fix content survives repeated runs. It returns whether a
// backup was written.
func (b Backups) Save(ctx context.Context, src string) (bool, error) {
	dst := b.Path(src)
	if dst == "" {
		return false, nil
	}

	switch _, err := os.Stat(dst); {
	case err == nil:
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, classify(dst, err)
	}

	content, snap, err := Read(ctx, src)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("back up: %w", err)
	}

	if err := WriteAtomic(ctx, dst, content, snap.Mode); err != nil {
		return false, fmt.Errorf("back up: %w", err)
	}
	return true, nil
}
