package docs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/docs"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/lint/rules"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		markdown string
		contains []string
		excludes []string
	}{
		{
			name:     "headings and code",
			markdown: "# title\n\nUse `find` instead.\n",
			contains: []string{"<h1>title</h1>", "<code>find</code>"},
		},
		{
			name:     "raw html is dropped",
			markdown: "text\n\n<script>alert(1)</script>\n",
			contains: []string{"<p>text</p>"},
			excludes: []string{"<script", "alert(1)"},
		},
		{
			name:     "dangerous links are neutralized",
			markdown: "[click](javascript:alert(1))\n",
			excludes: []string{"javascript:"},
		},
		{
			name:     "gfm tables",
			markdown: "| a | b |\n|---|---|\n| 1 | 2 |\n",
			contains: []string{"<table>", "<td>1</td>"},
		},
	}

	renderer := docs.NewRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html, err := renderer.Render(tt.markdown)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, html, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, html, unwanted)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	t.Parallel()

	renderer := docs.NewRenderer()
	assert.Equal(t, "filter-next", renderer.Title("# filter-next\n\n### What it does\n"))
	assert.Equal(t, "later", renderer.Title("intro\n\n## sub\n\n# later\n"))
	assert.Empty(t, renderer.Title("no headings here\n"))
}

func TestRenderRule(t *testing.T) {
	t.Parallel()

	rule, ok := lint.DefaultRegistry.GetByID("IL009")
	require.True(t, ok)

	page, err := docs.NewRenderer().RenderRule(rule, "deny")
	require.NoError(t, err)

	assert.Equal(t, "IL009", page.ID)
	assert.Equal(t, "filter-next", page.Name)
	assert.Equal(t, "filter-next", page.Title)
	assert.Equal(t, lint.GroupComplexity, page.Group)
	assert.Equal(t, "deny", page.Level)
	assert.Contains(t, string(page.HTML), "<h3>What it does</h3>")
	assert.Contains(t, string(page.HTML), "<code>filter(p).next()</code>")
}

func TestRenderRuleSet_EveryRuleHasADoc(t *testing.T) {
	t.Parallel()

	set, err := lint.Resolve(lint.DefaultRegistry, config.NewConfig())
	require.NoError(t, err)

	pages, err := docs.NewRenderer().RenderRuleSet(set)
	require.NoError(t, err)
	require.Len(t, pages, len(lint.DefaultRegistry.Rules()))

	for _, page := range pages {
		markdown, ok := rules.Doc(page.ID)
		require.True(t, ok, page.ID)
		assert.NotEmpty(t, markdown)
		assert.Equal(t, page.Name, page.Title, "%s doc starts with the rule name", page.ID)
	}
}

func TestWriteSite(t *testing.T) {
	t.Parallel()

	rule, ok := lint.DefaultRegistry.GetByID("IL016")
	require.True(t, ok)
	page, err := docs.NewRenderer().RenderRule(rule, "warn")
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "site")
	written, err := docs.WriteSite(context.Background(), dir, []*docs.Page{page})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "IL016.html"), filepath.Join(dir, "index.html")}, written)

	pageHTML, err := os.ReadFile(filepath.Join(dir, "IL016.html"))
	require.NoError(t, err)
	assert.Contains(t, string(pageHTML), "<title>IL016 option-unwrap-used - idiomlint</title>")
	assert.Contains(t, string(pageHTML), string(page.HTML), "body is embedded unescaped")

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `<a href="IL016.html">IL016</a>`)
	assert.Contains(t, string(index), "<td>restriction</td>")
}

func TestWriteSite_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rule, _ := lint.DefaultRegistry.GetByID("IL001")
	page, err := docs.NewRenderer().RenderRule(rule, "warn")
	require.NoError(t, err)

	_, err = docs.WriteSite(ctx, t.TempDir(), []*docs.Page{page})
	require.ErrorIs(t, err, context.Canceled)
}
