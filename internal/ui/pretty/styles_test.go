package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/idiomlint/internal/ui/pretty"
	"github.com/yaklabco/idiomlint/pkg/config"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	for _, rendered := range []string{
		styles.Bold.Render("test"),
		styles.Deny.Render("test"),
		styles.Warn.Render("test"),
		styles.Caret.Render("test"),
	} {
		assert.Equal(t, "test", rendered)
	}
}

func TestStyles_AllFieldsRender(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(true)
	for _, style := range []interface{ Render(...string) string }{
		styles.Deny, styles.Warn, styles.Note, styles.Help,
		styles.FilePath, styles.Arrow, styles.Gutter, styles.RuleID,
		styles.Message, styles.Suggestion, styles.SourceLine, styles.Caret,
		styles.DiffHeader, styles.DiffHunk, styles.DiffAdd, styles.DiffRemove, styles.DiffContext,
		styles.SummaryTitle, styles.SummaryValue, styles.Success, styles.Failure,
		styles.TableHeader, styles.TableDenyRow, styles.TableWarnRow,
		styles.TableFixable, styles.TableLegend, styles.TableSeparator,
		styles.Dim, styles.Bold,
	} {
		assert.Contains(t, style.Render("x"), "x")
	}
}

func TestLevelLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "error", pretty.LevelLabel(config.LevelDeny))
	assert.Equal(t, "warning", pretty.LevelLabel(config.LevelWarn))
}

func TestIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer

	assert.True(t, pretty.IsColorEnabled("always", &buf))
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout))

	t.Setenv("NO_COLOR", "")
	assert.False(t, pretty.IsColorEnabled("auto", &buf), "buffer is not a terminal")
	assert.False(t, pretty.IsColorEnabled("", &buf))
	assert.False(t, pretty.IsColorEnabled("unknown", &buf))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout))
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Zero(t, pretty.TerminalWidth(&buf))
}
