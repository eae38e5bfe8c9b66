package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/idiomlint/internal/configloader"
	"github.com/yaklabco/idiomlint/internal/logging"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/lint/rules"
)

type rulesFlags struct {
	ruleFormat string
	format     string
	group      string
}

const formatJSON = "json"

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Group        string   `json:"group"`
	Description  string   `json:"description"`
	Level        string   `json:"level"`
	DefaultLevel string   `json:"default_level"`
	Origin       string   `json:"origin"`
	Fixable      bool     `json:"fixable"`
	Aliases      []string `json:"aliases,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		Long: `List all available lint rules with their IDs, groups, the level they
resolve to under the current configuration, and whether they support
auto-fixing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRules(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")
	cmd.Flags().StringVar(&flags.group, "group", "",
		"only list rules in this group: "+strings.Join(lint.Groups(), ", "))

	cmd.AddCommand(newRulesExplainCommand())

	return cmd
}

func runRules(cmd *cobra.Command, flags *rulesFlags) error {
	if flags.group != "" && !lint.IsGroup(flags.group) {
		return fmt.Errorf("%w: unknown group %q; must be one of: %s",
			ErrInvalidUsage, flags.group, strings.Join(lint.Groups(), ", "))
	}

	set, err := resolveRuleSet(cmd)
	if err != nil {
		return err
	}

	resolved := set.All()
	if flags.group != "" {
		resolved = slices.DeleteFunc(slices.Clone(resolved), func(rr *lint.ResolvedRule) bool {
			return rr.Rule.Group() != flags.group
		})
	}

	if flags.format == formatJSON {
		return outputRulesJSON(cmd.OutOrStdout(), resolved)
	}

	logger := logging.NewInteractive(cmd.OutOrStdout())
	if len(resolved) == 0 {
		logger.Info("no rules in group", logging.FieldGroup, flags.group)
		return nil
	}

	ruleFormat := config.RuleFormat(flags.ruleFormat)
	for _, rr := range resolved {
		fixable := "-"
		if rr.Rule.CanFix() {
			fixable = "yes"
		}

		logger.Info(config.FormatRuleID(ruleFormat, rr.Rule.ID(), rr.Rule.Name()),
			logging.FieldGroup, rr.Rule.Group(),
			logging.FieldLevel, rr.Level,
			logging.FieldFixable, fixable,
			logging.FieldDescription, rr.Rule.Description(),
		)
	}

	return nil
}

// outputRulesJSON writes rules as a JSON array.
func outputRulesJSON(w io.Writer, resolved []*lint.ResolvedRule) error {
	infos := make([]ruleInfo, 0, len(resolved))
	for _, rr := range resolved {
		infos = append(infos, ruleInfo{
			ID:           rr.Rule.ID(),
			Name:         rr.Rule.Name(),
			Group:        rr.Rule.Group(),
			Description:  rr.Rule.Description(),
			Level:        string(rr.Level),
			DefaultLevel: string(rr.Rule.DefaultLevel()),
			Origin:       rr.Origin.Explain(rr.Rule.Name(), rr.Level),
			Fixable:      rr.Rule.CanFix(),
			Aliases:      lint.DefaultRegistry.Aliases(rr.Rule.ID()),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}

func newRulesExplainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <rule>",
		Short: "Show the documentation of a rule",
		Long: `Show the documentation of a rule and the level it resolves to under
the current configuration. The rule may be named by id, name, or clippy lint
name.

Examples:
  idiomlint rules explain IL009
  idiomlint rules explain filter-next
  idiomlint rules explain clippy::filter_next`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd, args[0])
		},
	}
}

func runExplain(cmd *cobra.Command, key string) error {
	id, rule, ok := lint.DefaultRegistry.Resolve(key)
	if !ok {
		return fmt.Errorf("%w: unknown rule %q", ErrInvalidUsage, key)
	}

	set, err := resolveRuleSet(cmd)
	if err != nil {
		return err
	}

	doc, ok := rules.Doc(id)
	if !ok {
		doc = fmt.Sprintf("# %s\n\n%s\n", rule.Name(), rule.Description())
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, strings.TrimRight(doc, "\n")+"\n\n")
	fmt.Fprintf(out, "ID:      %s\n", id)
	fmt.Fprintf(out, "Group:   %s\n", rule.Group())
	if rr, found := set.Lookup(id); found {
		fmt.Fprintf(out, "Level:   %s (%s)\n", rr.Level, rr.Origin.Explain(rule.Name(), rr.Level))
	}
	if aliases := lint.DefaultRegistry.Aliases(id); len(aliases) > 0 {
		fmt.Fprintf(out, "Aliases: %s\n", strings.Join(aliases, ", "))
	}
	return nil
}

// resolveRuleSet loads the configuration the way lint does and resolves
// the rule set, so listings show the levels a run would use.
func resolveRuleSet(cmd *cobra.Command) (*lint.RuleSet, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(cmd.Context(), configloader.LoadOptions{
		WorkingDir:     workDir,
		ExplicitPath:   configPath,
		IgnoreClippy:   true,
		NonInteractive: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	set, err := lint.Resolve(lint.DefaultRegistry, result.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return set, nil
}
