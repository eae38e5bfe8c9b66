package configloader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/idiomlint/internal/logging"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

// Prompt is where the clippy.toml migration question is asked. Zero fields
// mean stdout and stdin.
type Prompt struct {
	Out io.Writer
	In  io.Reader
}

func (p Prompt) streams() (io.Writer, io.Reader) {
	out, in := p.Out, p.In
	if out == nil {
		out = os.Stdout
	}
	if in == nil {
		in = os.Stdin
	}
	return out, in
}

// offerClippyMigration asks to convert clippy.toml when the project has one
// and no idiomlint config. Without a terminal it only warns.
func offerClippyMigration(
	ctx context.Context,
	result *LoadResult,
	opts LoadOptions,
	registry *lint.Registry,
	workDir string,
) (bool, error) {
	clippy := result.Paths.Clippy
	if clippy == "" || result.Paths.Project != "" {
		return false, nil
	}

	if opts.NonInteractive || !term.IsTerminal(int(os.Stdin.Fd())) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("found %s but no %s; run 'idiomlint migrate' to convert", clippy, ProjectConfigName))
		return false, nil
	}

	out, in := opts.Prompt.streams()
	accepted, err := promptMigration(out, in, clippy)
	if err != nil || !accepted {
		return false, err
	}

	migration, err := ConvertClippyConfig(clippy, registry)
	if err != nil {
		return false, fmt.Errorf("convert clippy config: %w", err)
	}
	result.Warnings = append(result.Warnings, migration.Warnings...)

	target := filepath.Join(workDir, ProjectConfigName)
	if err := WriteConfig(migration.Config, target, GenerateMigrationHeader(clippy)); err != nil {
		return false, fmt.Errorf("write migrated config: %w", err)
	}

	logging.FromContext(ctx).Info("migrated clippy config",
		logging.FieldInput, clippy, logging.FieldOutput, target)
	result.MigrationPerformed = true
	return true, nil
}

// promptMigration asks a yes/no question defaulting to yes. A reply cut
// off by EOF still counts.
func promptMigration(out io.Writer, in io.Reader, clippyPath string) (bool, error) {
	_, err := fmt.Fprintf(out, "Found %s but no %s\nConvert it to an idiomlint config? [Y/n] ",
		clippyPath, ProjectConfigName)
	if err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	reply, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && reply == "" {
		return false, fmt.Errorf("read response: %w", err)
	}
	return slices.Contains([]string{"", "y", "yes"}, strings.ToLower(strings.TrimSpace(reply))), nil
}
