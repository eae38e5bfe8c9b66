// Package docs renders rule documentation from Markdown to sanitized HTML.
package docs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/idiomlint/pkg/fsutil"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/lint/rules"
)

// ErrNoDoc is returned for a rule without an embedded documentation page.
var ErrNoDoc = errors.New("no documentation")

// Page is one rendered rule documentation page.
type Page struct {
	ID          string
	Name        string
	Group       string
	Level       string
	Description string

	// Title is the text of the first top-level heading, or the rule name.
	Title string

	// HTML is the sanitized page body.
	HTML template.HTML
}

// Renderer converts GitHub-flavored Markdown to sanitized HTML.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer creates a renderer using the GFM extensions and the
// user-generated-content sanitizing policy.
func NewRenderer() *Renderer {
	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown to sanitized HTML.
func (r *Renderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// Title returns the text of the first level-one heading in markdown.
func (r *Renderer) Title(markdown string) string {
	source := []byte(markdown)
	doc := r.md.Parser().Parse(text.NewReader(source))

	var title string
	_ = gmast.Walk(doc, func(node gmast.Node, entering bool) (gmast.WalkStatus, error) {
		heading, ok := node.(*gmast.Heading)
		if !entering || !ok || heading.Level != 1 {
			return gmast.WalkContinue, nil
		}
		var buf bytes.Buffer
		lines := heading.Lines()
		for i := range lines.Len() {
			segment := lines.At(i)
			buf.Write(segment.Value(source))
		}
		title = buf.String()
		return gmast.WalkStop, nil
	})
	return title
}

// RenderRule renders the documentation page of rule. level is the level
// the rule resolves to in the current configuration.
func (r *Renderer) RenderRule(rule lint.Rule, level string) (*Page, error) {
	markdown, ok := rules.Doc(rule.ID())
	if !ok {
		return nil, fmt.Errorf("%s: %w", rule.ID(), ErrNoDoc)
	}

	body, err := r.Render(markdown)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rule.ID(), err)
	}

	title := r.Title(markdown)
	if title == "" {
		title = rule.Name()
	}

	return &Page{
		ID:          rule.ID(),
		Name:        rule.Name(),
		Group:       rule.Group(),
		Level:       level,
		Description: rule.Description(),
		Title:       title,
		HTML:        template.HTML(body), //nolint:gosec // sanitized by the policy
	}, nil
}

// RenderRuleSet renders a page for every rule in set, in registration order.
func (r *Renderer) RenderRuleSet(set *lint.RuleSet) ([]*Page, error) {
	var (
		pages []*Page
		errs  []error
	)
	for _, rr := range set.All() {
		page, err := r.RenderRule(rr.Rule, string(rr.Level))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pages = append(pages, page)
	}
	return pages, errors.Join(errs...)
}

//nolint:gochecknoglobals // Parsed once.
var (
	pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.ID}} {{.Name}} - idiomlint</title>
</head>
<body>
<p><a href="index.html">All rules</a></p>
<p><code>{{.ID}}</code> &middot; group <code>{{.Group}}</code> &middot; level <code>{{.Level}}</code></p>
{{.HTML}}
</body>
</html>
`))

	indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>idiomlint rules</title>
</head>
<body>
<h1>idiomlint rules</h1>
<table>
<thead><tr><th>ID</th><th>Name</th><th>Group</th><th>Level</th><th>Description</th></tr></thead>
<tbody>
{{- range .}}
<tr><td><a href="{{.ID}}.html">{{.ID}}</a></td><td>{{.Name}}</td><td>{{.Group}}</td><td>{{.Level}}</td><td>{{.Description}}</td></tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))
)

// WriteSite writes one HTML file per page plus an index.html into dir,
// creating dir when needed. It returns the paths written.
func WriteSite(ctx context.Context, dir string, pages []*Page) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	written := make([]string, 0, len(pages)+1)
	write := func(name string, tmpl *template.Template, data any) error {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		path := filepath.Join(dir, name)
		if err := fsutil.WriteAtomic(ctx, path, buf.Bytes(), 0); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	for _, page := range pages {
		if err := write(page.ID+".html", pageTemplate, page); err != nil {
			return written, err
		}
	}
	if err := write("index.html", indexTemplate, pages); err != nil {
		return written, err
	}

	return written, nil
}
