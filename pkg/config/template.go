package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes every rule with its documentation.
	Full bool

	// Pack names the rule pack the template is seeded from (core, strict, pedantic).
	Pack string

	// Levels holds per-rule levels to write, keyed by rule name.
	Levels map[string]Level

	// Groups holds group levels to write.
	Groups map[string]Level

	// DenyWarnings is written as the deny_warnings setting.
	DenyWarnings bool

	// Rules supplies rule metadata for the full template.
	Rules []RuleInfo
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	ID          string
	Name        string
	Group       string
	Description string
	Level       Level
	CanFix      bool
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# idiomlint configuration
# See: https://github.com/yaklabco/idiomlint`
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n")
	if opts.Pack != "" {
		fmt.Fprintf(&buf, "# Seeded from the %q rule pack.\n", opts.Pack)
	}
	buf.WriteString(`
# Level for every rule before group and rule overrides: allow, warn, or deny
# default: warn

# Treat every warning as an error (like -D warnings)
`)
	fmt.Fprintf(&buf, "deny_warnings: %t\n", opts.DenyWarnings)

	buf.WriteString(`
# Skip naming rules on public items, whose fix would change an exported interface
# avoid_breaking_exported_api: false

# Model file patterns to ignore (glob patterns)
# ignore:
#   - "target/**"

backups:
  enabled: true
  mode: sidecar
`)

	writeLevelMap(&buf, "groups", opts.Groups)

	if !opts.Full {
		writeLevelMap(&buf, "rules", opts.Levels)
		return buf.Bytes()
	}

	buf.WriteString("\nrules:\n")
	rules := slices.Clone(opts.Rules)
	slices.SortFunc(rules, func(a, b RuleInfo) int { return strings.Compare(a.ID, b.ID) })

	for _, rule := range rules {
		level := rule.Level
		if override, ok := opts.Levels[rule.Name]; ok {
			level = override
		}
		fmt.Fprintf(&buf, "\n  # %s: %s (%s)\n", rule.ID, rule.Name, rule.Group)
		fmt.Fprintf(&buf, "  # %s\n", wrapComment(rule.Description, commentWrapWidth))
		if rule.CanFix {
			buf.WriteString("  # Auto-fix: yes\n")
		}
		fmt.Fprintf(&buf, "  %s:\n", rule.Name)
		fmt.Fprintf(&buf, "    level: %s\n", level)
	}

	return buf.Bytes()
}

func writeLevelMap(buf *bytes.Buffer, key string, levels map[string]Level) {
	if len(levels) == 0 {
		return
	}
	fmt.Fprintf(buf, "\n%s:\n", key)
	names := make([]string, 0, len(levels))
	for name := range levels {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(buf, "  %s: %s\n", name, levels[name])
	}
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}
