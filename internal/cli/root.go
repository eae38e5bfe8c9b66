// Package cli wires the idiomlint commands together with cobra.
package cli

import (
	"cmp"
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/idiomlint/internal/logging"
)

// BuildInfo is stamped into the binary through -ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

const rootLong = `idiomlint checks program models of Rust code for non-idiomatic method
usage, naming conventions, and combinator chains, and suggests the idiomatic
rewrite.

Front ends emit one program model per compilation unit (*.pm.json, *.pm.yaml,
*.pm.msgpack). idiomlint lints them in parallel, reports rustc-style
diagnostics, and can apply machine-applicable suggestions back to the source.`

// NewRootCommand builds the idiomlint command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var (
		debug      bool
		configPath string
		color      string
	)

	root := &cobra.Command{
		Use:           "idiomlint",
		Short:         "A fast, self-fixing linter for idiomatic Rust",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{annotationEnvironment: "true"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
			ctx := cmp.Or(cmd.Context(), context.Background())
			cmd.SetContext(logging.WithLogger(ctx, logging.Default()))
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&debug, "debug", false, "enable debug logging")
	flags.StringVar(&configPath, "config", "", "path to config file")
	flags.StringVar(&color, "color", "auto", "colorize output: auto, always, never")

	root.AddCommand(
		newLintCommand(info),
		newRulesCommand(),
		newDocsCommand(),
		newInitCommand(),
		newMigrateCommand(),
		newVersionCommand(info),
	)

	NewHelpFormatter(color, os.Stdout).ApplyToCommand(root)
	return root
}
