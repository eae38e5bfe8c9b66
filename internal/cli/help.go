package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/idiomlint/internal/configloader"
	"github.com/yaklabco/idiomlint/internal/ui/pretty"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

// Annotations that add sections to a command's help.
const (
	annotationLintGroups  = "lint_groups"
	annotationEnvironment = "environment"
)

const usageTemplate = `{{heading "Usage:"}}
{{- if .Runnable}}
  {{command .UseLine}}{{end}}
{{- if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]{{end}}
{{- if .Aliases}}

{{heading "Aliases:"}}
  {{dim (join .Aliases ", ")}}{{end}}
{{- if .HasExample}}

{{heading "Examples:"}}
{{dim .Example}}{{end}}
{{- if .HasAvailableSubCommands}}

{{heading "Available Commands:"}}{{range .Commands}}{{if or .IsAvailableCommand (eq .Name "help")}}
  {{name (pad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}
{{- if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flags .LocalFlags.FlagUsages}}{{end}}
{{- if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flags .InheritedFlags.FlagUsages}}{{end}}
{{- if index .Annotations "lint_groups"}}

{{heading "Lint Groups:"}}
{{groups}}{{end}}
{{- if index .Annotations "environment"}}

{{heading "Environment:"}}
{{environment}}{{end}}
{{- if .HasAvailableSubCommands}}

Use "{{command (print .CommandPath " [command] --help")}}" for more information about a command.{{end}}
`

const helpTemplate = `{{if or .Runnable .HasSubCommands}}{{command .CommandPath}}{{if .Version}} {{dim .Version}}{{end}}

{{end}}{{with or .Long .Short}}{{trim .}}

{{end}}` + usageTemplate

// flagLine splits a pflag usage line into indent, flag names with their
// value type, and description. pflag separates the last two by at least
// two spaces.
var flagLine = regexp.MustCompile(`^(\s*)(\S.*?)\s{2,}(\S.*)$`)

// HelpFormatter renders cobra help and usage with lipgloss styles. The level
// flags (-A, -W, -D) take the color of the diagnostics they produce.
type HelpFormatter struct {
	command, heading, name, flag, dim lipgloss.Style
	levels                            map[string]lipgloss.Style

	usage, help *template.Template
}

// NewHelpFormatter creates a formatter for colorMode as seen by writer.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	plain := lipgloss.NewStyle()
	h := &HelpFormatter{
		command: plain, heading: plain, name: plain, flag: plain, dim: plain,
		levels: map[string]lipgloss.Style{},
	}

	if pretty.IsColorEnabled(colorMode, writer) {
		styles := pretty.NewStyles(true)
		h.command = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
		h.heading = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
		h.name = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		h.flag = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
		h.dim = styles.Dim
		for level, style := range map[config.Level]lipgloss.Style{
			config.LevelAllow: styles.Dim,
			config.LevelWarn:  styles.Warn,
			config.LevelDeny:  styles.Deny,
		} {
			short := "-" + strings.ToUpper(string(level)[:1])
			h.levels[short] = style
			h.levels["--"+string(level)] = style
		}
	}

	funcs := template.FuncMap{
		"command":     h.command.Render,
		"heading":     h.heading.Render,
		"name":        h.name.Render,
		"dim":         h.dim.Render,
		"flags":       h.flags,
		"groups":      h.groups,
		"environment": h.environment,
		"pad":         func(s string, n int) string { return fmt.Sprintf("%-*s", n, s) },
		"join":        strings.Join,
		"trim":        func(s string) string { return strings.TrimRight(s, " \t\n") },
	}
	h.usage = template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	h.help = template.Must(template.New("help").Funcs(funcs).Parse(helpTemplate))
	return h
}

// ApplyToCommand installs the help and usage functions on cmd. Subcommands
// inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		if err := h.usage.Execute(c.OutOrStderr(), c); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := h.help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

// flags styles the output of pflag's FlagUsages line by line.
func (h *HelpFormatter) flags(usages string) string {
	lines := strings.Split(strings.TrimRight(usages, "\n"), "\n")
	for i, line := range lines {
		m := flagLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		tokens := strings.Fields(m[2])
		for j, tok := range tokens {
			name, comma := strings.CutSuffix(tok, ",")
			if !strings.HasPrefix(name, "-") {
				tokens[j] = h.dim.Render(tok)
				continue
			}
			style, ok := h.levels[name]
			if !ok {
				style = h.flag
			}
			tokens[j] = style.Render(name)
			if comma {
				tokens[j] += ","
			}
		}
		lines[i] = m[1] + strings.Join(tokens, " ") + "   " + m[3]
	}
	return strings.Join(lines, "\n")
}

// groups lists every lint group with the number of rules it holds.
func (h *HelpFormatter) groups() string {
	names := lint.Groups()
	width := 0
	for _, group := range names {
		width = max(width, len(group))
	}

	var b strings.Builder
	for i, group := range names {
		if i > 0 {
			b.WriteByte('\n')
		}
		n := len(lint.DefaultRegistry.InGroup(group))
		noun := "rules"
		if n == 1 {
			noun = "rule"
		}
		fmt.Fprintf(&b, "  %s %s", h.name.Render(fmt.Sprintf("%-*s", width, group)), h.dim.Render(fmt.Sprintf("%d %s", n, noun)))
	}
	return b.String()
}

// environment lists the IDIOMLINT_* overrides.
func (h *HelpFormatter) environment() string {
	vars := configloader.ListEnvVars()
	width := 0
	for _, env := range vars {
		width = max(width, len(env.Name))
	}

	lines := make([]string, len(vars))
	for i, env := range vars {
		lines[i] = fmt.Sprintf("  %s   %s", h.flag.Render(fmt.Sprintf("%-*s", width, env.Name)), env.Description)
	}
	return strings.Join(lines, "\n")
}
