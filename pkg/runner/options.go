// Package runner discovers program models and lints them in parallel.
package runner

import (
	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/config"
)

// Options selects the models a run lints and how.
type Options struct {
	// Paths are model files or directories; "." when empty. Relative paths
	// resolve against WorkingDir, or the process directory.
	Paths      []string
	WorkingDir string

	// IsModel recognizes model file names; ast.IsModelPath when nil.
	IsModel func(path string) bool

	// IncludeGlobs, when set, restrict discovery to matching files.
	// ExcludeGlobs skip files and whole directories; the CLI fills them from
	// the config's ignore list and --ignore.
	IncludeGlobs []string
	ExcludeGlobs []string

	FollowSymlinks bool

	// Jobs caps concurrent files; GOMAXPROCS when not positive.
	Jobs int

	Config *config.Config
}

func (o Options) effectiveIsModel() func(string) bool {
	if o.IsModel != nil {
		return o.IsModel
	}
	return ast.IsModelPath
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) > 0 {
		return o.Paths
	}
	return []string{"."}
}
