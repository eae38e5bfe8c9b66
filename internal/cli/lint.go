package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yaklabco/idiomlint/internal/configloader"
	"github.com/yaklabco/idiomlint/internal/logging"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/reporter"
	"github.com/yaklabco/idiomlint/pkg/runner"
)

type lintFlags struct {
	format       string
	ruleFormat   string
	summaryOrder string
	noContext    bool
	noOrigin     bool
	compact      bool
	perFile      bool
	watch        bool
	maxWidth     int
}

func newLintCommand(info BuildInfo) *cobra.Command {
	// Zero values leave file and environment settings in place when merged.
	cfg := &config.Config{}
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint program models",
		Long:  lintLongDescription,
		Args:  cobra.ArbitraryArgs,
		Annotations: map[string]string{
			annotationLintGroups: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, cfg, flags, info)
		},
	}

	addLintFlags(cmd, cfg, flags)

	return cmd
}

const lintLongDescription = `Lint program models for non-idiomatic Rust.

By default, lints every *.pm.json, *.pm.yaml, *.pm.yml, and *.pm.msgpack
file under the current directory. Specify paths to lint specific models
or directories.

Level flags apply in command-line order after the configuration file, the
way rustc and clippy read them. A flag target is a rule id, rule name,
clippy lint name, group, or "warnings".

Examples:
  idiomlint lint                       # Lint current directory
  idiomlint lint target/models/        # Lint a directory of models
  idiomlint lint -D warnings           # Fail on any warning
  idiomlint lint -W pedantic -A map-flatten
  idiomlint lint --fix                 # Apply machine-applicable suggestions
  idiomlint lint --fix --dry-run       # Show fixes as a diff without writing
  idiomlint lint --format sarif        # SARIF output for code scanning
  idiomlint lint --watch               # Re-lint when models change`

func runLint(cmd *cobra.Command, args []string, cfg *config.Config, flags *lintFlags, info BuildInfo) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	// Only set values that were explicitly provided via CLI flags, so
	// environment and file settings survive the merge.
	if cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if cmd.Flags().Changed("rule-format") {
		cfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
	}
	if cmd.Flags().Changed("summary-order") {
		cfg.SummaryOrder = config.SummaryOrder(flags.summaryOrder)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cfg,
		Prompt:       configloader.Prompt{Out: cmd.ErrOrStderr(), In: cmd.InOrStdin()},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	finalCfg := loadResult.Config
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	ruleSet, err := lint.Resolve(lint.DefaultRegistry, finalCfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	logger.Debug("configuration loaded",
		logging.FieldFix, finalCfg.Fix,
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldJobs, finalCfg.Jobs,
		logging.FieldRules, len(ruleSet.Enabled()),
	)

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	lintRunner := runner.New(lint.NewPipeline(lint.NewEngine(ruleSet, finalCfg)))
	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		ExcludeGlobs: finalCfg.Ignore,
		Jobs:         finalCfg.Jobs,
		Config:       finalCfg,
	}
	repOpts := reporter.Options{
		Writer:       cmd.OutOrStdout(),
		ErrorWriter:  cmd.ErrOrStderr(),
		Format:       format,
		Color:        colorMode,
		ShowContext:  !flags.noContext,
		ShowOrigin:   !flags.noOrigin,
		ShowSummary:  true,
		GroupByFile:  true,
		Compact:      flags.compact,
		PerFile:      flags.perFile,
		MaxWidth:     flags.maxWidth,
		RuleFormat:   finalCfg.RuleFormat,
		SummaryOrder: finalCfg.SummaryOrder,
		ToolVersion:  info.Version,
		WorkingDir:   workDir,
	}

	lintOnce := func(ctx context.Context) error {
		logger.Debug("starting lint run",
			logging.FieldPaths, runOpts.Paths,
			logging.FieldWorkingDir, runOpts.WorkingDir,
			logging.FieldJobs, runOpts.Jobs,
		)

		result, err := lintRunner.Run(ctx, runOpts)
		if err != nil {
			return fmt.Errorf("lint run failed: %w", err)
		}

		logger.Debug("lint run complete",
			logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
			logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
			logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
			logging.FieldFilesModified, result.Stats.FilesModified,
		)

		// Reporters are stateful, so each run gets a fresh one.
		rep, err := reporter.New(repOpts)
		if err != nil {
			return fmt.Errorf("create reporter: %w", err)
		}
		if _, err := rep.Report(ctx, result); err != nil {
			return fmt.Errorf("report results: %w", err)
		}

		if errs := resultErrors(result); errs != nil {
			return errs
		}
		if ExitCodeFromResult(result, finalCfg.Strict) != ExitSuccess {
			return ErrLintIssuesFound
		}
		return nil
	}

	if !flags.watch {
		return lintOnce(ctx)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := lintOnce(ctx); err != nil && !errors.Is(err, ErrLintIssuesFound) {
		logger.Error("lint failed", logging.FieldError, err)
	}
	return watchModels(ctx, watchRoots(args, workDir), lintOnce)
}

// resultErrors joins the file errors of a run. Files that could not be
// loaded or written fail the command after the report is written.
func resultErrors(result *runner.Result) error {
	errs := make([]error, 0, len(result.Errors))
	errs = append(errs, result.Errors...)
	for _, outcome := range result.Files {
		if outcome.Error != nil {
			errs = append(errs, fmt.Errorf("%s: %w", outcome.Path, outcome.Error))
		}
	}
	return errors.Join(errs...)
}

func addLintFlags(cmd *cobra.Command, cfg *config.Config, flags *lintFlags) {
	cmd.Flags().VarP(&levelFlagValue{level: config.LevelAllow, flags: &cfg.LevelFlags},
		"allow", "A", "set a rule, group, or warnings to allow (repeatable)")
	cmd.Flags().VarP(&levelFlagValue{level: config.LevelWarn, flags: &cfg.LevelFlags},
		"warn", "W", "set a rule, group, or warnings to warn (repeatable)")
	cmd.Flags().VarP(&levelFlagValue{level: config.LevelDeny, flags: &cfg.LevelFlags},
		"deny", "D", "set a rule, group, or warnings to deny (repeatable)")

	cmd.Flags().BoolVar(&cfg.Fix, "fix", false, "apply machine-applicable suggestions")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show fixes without applying them")
	formats := make([]string, 0, len(reporter.Formats()))
	for _, f := range reporter.Formats() {
		formats = append(formats, f.String())
	}
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: "+strings.Join(formats, ", "))
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&cfg.Ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&cfg.FixRules, "fix-rules", nil, "limit auto-fix to specific rules")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when fixing")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source excerpts in output")
	cmd.Flags().BoolVar(&flags.noOrigin, "no-origin", false, "hide notes explaining why a rule is enabled")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.perFile, "per-file", false, "output separate report for each file (table format)")
	cmd.Flags().IntVar(&flags.maxWidth, "max-width", 0, "wrap width for excerpts and tables (0 = terminal width)")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.summaryOrder, "summary-order", "rules",
		"order of tables in summary output: rules, files")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "re-lint whenever a program model changes")
}

// levelFlagValue appends -A/-W/-D occurrences to one shared slice, keeping
// command-line order across the three flags.
type levelFlagValue struct {
	level config.Level
	flags *[]config.LevelFlag
}

func (v *levelFlagValue) String() string {
	var targets []string
	if v.flags != nil {
		for _, f := range *v.flags {
			if f.Level == v.level {
				targets = append(targets, f.Target)
			}
		}
	}
	return strings.Join(targets, ",")
}

func (v *levelFlagValue) Set(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return errors.New("empty lint target")
	}
	*v.flags = append(*v.flags, config.LevelFlag{Level: v.level, Target: target})
	return nil
}

func (v *levelFlagValue) Type() string {
	return "lint"
}
