package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/idiomlint/internal/configloader"
	"github.com/yaklabco/idiomlint/internal/logging"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

const migrateLong = `Convert an existing clippy.toml, .clippy.toml, or the [lints.clippy]
table of a Cargo.toml to idiomlint format (.idiomlint.yml).

If no input file is specified, the command looks for clippy.toml or
.clippy.toml in the current directory, then for Cargo.toml.

msrv and avoid-breaking-exported-api carry over. Lint levels carry over for
lints and groups idiomlint implements; everything else is reported and
skipped.

Examples:
  idiomlint migrate                       Auto-detect and convert
  idiomlint migrate Cargo.toml            Convert the manifest lint table
  idiomlint migrate --output lint.yml     Write to a custom output path`

func newMigrateCommand() *cobra.Command {
	var (
		force  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "migrate [input]",
		Short: "Convert a clippy configuration to idiomlint format",
		Long:  migrateLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewInteractive(cmd.ErrOrStderr())

			var input string
			if len(args) == 1 {
				input = args[0]
			} else {
				found, err := detectClippyInput()
				if err != nil {
					return err
				}
				logger.Info("found clippy config", logging.FieldPath, found)
				input = found
			}
			return migrate(logger, input, output, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing output file")
	cmd.Flags().StringVarP(&output, "output", "o", configloader.ProjectConfigName, "Output file path")
	return cmd
}

// detectClippyInput looks in the working directory for clippy.toml or
// .clippy.toml, then Cargo.toml.
func detectClippyInput() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	if found := configloader.FindClippyConfig(cwd); found != "" {
		return found, nil
	}
	manifest := filepath.Join(cwd, "Cargo.toml")
	if _, err := os.Stat(manifest); err == nil {
		return manifest, nil
	}
	return "", errors.New("no clippy configuration or Cargo.toml found in current directory")
}

func migrate(logger *log.Logger, input, output string, force bool) error {
	if _, err := os.Stat(input); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("input file does not exist: %s", input)
	}
	if !configloader.CanMigrate(input) {
		return fmt.Errorf("%w: cannot migrate %s: expected clippy.toml or Cargo.toml", ErrInvalidUsage, input)
	}

	target, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if _, err := os.Stat(target); err == nil {
		if !force {
			return fmt.Errorf("output file %q already exists; use --force to overwrite", output)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, output)
	}

	converted, err := configloader.ConvertClippyConfig(input, lint.DefaultRegistry)
	if err != nil {
		return fmt.Errorf("convert configuration: %w", err)
	}
	for _, warning := range converted.Warnings {
		logger.Warn(warning)
	}

	if err := configloader.WriteConfig(converted.Config, target, configloader.GenerateMigrationHeader(input)); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}

	logger.Info("migration complete", logging.FieldInput, input, logging.FieldOutput, output)
	if len(converted.Warnings) > 0 {
		logger.Warn("review warnings above and verify the migrated configuration")
	}
	return nil
}
