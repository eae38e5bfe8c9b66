package runner

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// patternSet matches paths relative to the working directory. Patterns use
// "/" as the separator, so "*" stays within one element and "**" crosses
// elements. A pattern with no "/" is matched against the base name.
// "**/x" and "x/**" also match "x" itself.
type patternSet struct {
	full []glob.Glob
	base []glob.Glob
	err  error
}

// ValidatePattern reports whether pattern compiles as an ignore or include glob.
func ValidatePattern(pattern string) error {
	_, err := compilePatterns([]string{pattern})
	return err
}

func compilePatterns(patterns []string) (*patternSet, error) {
	set := &patternSet{}
	for _, pattern := range patterns {
		normalized := strings.TrimPrefix(filepath.ToSlash(pattern), "./")

		// A pattern without "/" matches base names unless it is the bare
		// directory of "x/**", which stays anchored.
		set.add(pattern, normalized, !strings.Contains(normalized, "/"))
		if rest, ok := strings.CutPrefix(normalized, "**/"); ok {
			set.add(pattern, rest, !strings.Contains(rest, "/"))
		}
		if dir, ok := strings.CutSuffix(normalized, "/**"); ok {
			set.add(pattern, dir, false)
		}
	}
	if set.err != nil {
		return nil, set.err
	}
	return set, nil
}

func (s *patternSet) add(pattern, expr string, base bool) {
	if s.err != nil {
		return
	}
	g, err := glob.Compile(expr, '/')
	if err != nil {
		s.err = fmt.Errorf("invalid glob %q: %w", pattern, err)
		return
	}
	if base {
		s.base = append(s.base, g)
	} else {
		s.full = append(s.full, g)
	}
}

func (s *patternSet) empty() bool {
	return len(s.full) == 0 && len(s.base) == 0
}

func (s *patternSet) match(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, g := range s.full {
		if g.Match(relPath) {
			return true
		}
	}
	name := path.Base(relPath)
	for _, g := range s.base {
		if g.Match(name) {
			return true
		}
	}
	return false
}
