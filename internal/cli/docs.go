package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/idiomlint/internal/logging"
	"github.com/yaklabco/idiomlint/pkg/docs"
)

func newDocsCommand() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Render rule documentation as HTML",
		Long: `Render the documentation of every rule to a static HTML site: one page
per rule plus an index listing each rule's group and resolved level.

Examples:
  idiomlint docs                  Write the site to ./idiomlint-docs
  idiomlint docs --out site/lint  Write the site to a custom directory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := resolveRuleSet(cmd)
			if err != nil {
				return err
			}

			pages, err := docs.NewRenderer().RenderRuleSet(set)
			if err != nil {
				return fmt.Errorf("render docs: %w", err)
			}

			written, err := docs.WriteSite(cmd.Context(), outDir, pages)
			if err != nil {
				return fmt.Errorf("write docs: %w", err)
			}

			logger := logging.NewInteractive(cmd.ErrOrStderr())
			logger.Info("wrote rule documentation",
				logging.FieldOutput, outDir,
				logging.FieldFiles, len(written),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "idiomlint-docs", "output directory")

	return cmd
}
