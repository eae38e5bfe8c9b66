package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/idiomlint/internal/configloader"
	"github.com/yaklabco/idiomlint/internal/logging"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/fsutil"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/lint/rules"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	pack   string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new idiomlint configuration file",
		Long: `Create a new .idiomlint.yml configuration file in the current directory,
seeded from a rule pack. The file can be customized to change group and
rule levels and to configure other options.

Packs:
  core       default levels; pedantic, restriction, and nursery stay off
  strict     deny warnings and forbid bare unwrap()
  pedantic   every group warns

Examples:
  idiomlint init                     Create .idiomlint.yml from the core pack
  idiomlint init --pack strict       Seed from the strict pack
  idiomlint init --full              Document every rule in the file
  idiomlint init --output lint.yml   Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with all rules documented")
	cmd.Flags().StringVar(&flags.pack, "pack", "core", "Rule pack to seed from: "+strings.Join(rules.PackNames(), ", "))
	cmd.Flags().StringVarP(&flags.output, "output", "o", configloader.ProjectConfigName, "Output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive(cmd.ErrOrStderr())

	pack := rules.PackByName(flags.pack)
	if pack == nil {
		return fmt.Errorf("%w: unknown pack %q; must be one of: %s",
			ErrInvalidUsage, flags.pack, strings.Join(rules.PackNames(), ", "))
	}

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", flags.output)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	content := config.GenerateTemplate(config.TemplateOptions{
		Full:         flags.full,
		Pack:         pack.Name,
		Levels:       pack.Rules,
		Groups:       pack.Groups,
		DenyWarnings: pack.DenyWarnings,
		Rules:        ruleInfos(lint.DefaultRegistry),
	})

	if err := fsutil.WriteAtomic(cmd.Context(), absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output, logging.FieldPack, pack.Name)
	if flags.full {
		logger.Info("full template includes all rules with documentation")
	}
	logger.Info("run 'idiomlint rules' to see all available rules")

	return nil
}

// ruleInfos collects template metadata for every registered rule.
func ruleInfos(registry *lint.Registry) []config.RuleInfo {
	registered := registry.Rules()
	infos := make([]config.RuleInfo, 0, len(registered))
	for _, rule := range registered {
		infos = append(infos, config.RuleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Group:       rule.Group(),
			Description: rule.Description(),
			Level:       rule.DefaultLevel(),
			CanFix:      rule.CanFix(),
		})
	}
	return infos
}
