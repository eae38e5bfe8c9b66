// Package asttest builds program models from Rust-like source text for tests.
//
// A Builder locates snippets in the source and returns raw nodes whose spans
// point at them, so a test can write the code once and describe its tree
// without counting columns:
//
//	b := asttest.New(src)
//	file := b.Adapt(t, b.Fn("fn main()", b.Expr("opt.map(|x| x + 1).unwrap_or(0)",
//		asttest.Type("opt", "Option<i32>"))))
//
// Expressions are split into method chains, calls, macros, closures,
// references, literals, struct literals, and paths. Anything else becomes a
// leaf node.
package asttest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/span"
)

// DefaultPath is the file path used by New.
const DefaultPath = "src/lib.rs"

// Builder produces raw nodes for snippets of one source file.
type Builder struct {
	path   string
	src    string
	source *span.Source
	base   int
}

// New creates a builder for src at DefaultPath.
func New(src string) *Builder {
	return NewAt(DefaultPath, src)
}

// NewAt creates a builder for src at path.
func NewAt(path, src string) *Builder {
	return &Builder{
		path:   path,
		src:    src,
		source: span.NewSource(path, []byte(src)),
	}
}

// Source returns the builder's source text.
func (b *Builder) Source() string {
	return b.src
}

// At returns a builder that only searches the source after marker.
// It panics if marker does not occur.
func (b *Builder) At(marker string) *Builder {
	c := *b
	c.base = b.locate(marker)
	return &c
}

// File wraps items in a file root spanning the whole source.
func (b *Builder) File(items ...*ast.RawNode) *ast.RawFile {
	return &ast.RawFile{
		Path:     b.path,
		Language: "Rust",
		Source:   b.src,
		Root: &ast.RawNode{
			Kind:     ast.NodeFile.String(),
			Span:     b.span(0, len(b.src)),
			Children: items,
		},
	}
}

// Adapt builds the file and adapts it, failing the test on error.
func (b *Builder) Adapt(tb testing.TB, items ...*ast.RawNode) *ast.File {
	tb.Helper()
	file, err := ast.Adapt(b.File(items...))
	require.NoError(tb, err)
	return file
}

// Impl locates an impl header such as "impl<T> Add<T> for Foo<T>" and spans
// it through the closing brace of its body.
func (b *Builder) Impl(header string, items ...*ast.RawNode) *ast.RawNode {
	start := b.locate(header)
	if !strings.HasPrefix(header, "impl") {
		panic(fmt.Sprintf("asttest: impl header %q must start with impl", header))
	}

	cur := skipSpace(b.src, start+len("impl"))
	var generics []string
	if cur < len(b.src) && b.src[cur] == '<' {
		closeIdx := matchAngle(b.src, cur)
		for _, g := range strings.Split(b.src[cur+1:closeIdx], ",") {
			name, _, _ := strings.Cut(strings.TrimSpace(g), ":")
			if name = strings.TrimSpace(name); name != "" {
				generics = append(generics, name)
			}
		}
		cur = closeIdx + 1
	}

	brace := indexFrom(b.src, "{", cur)
	signature := strings.TrimSpace(b.src[cur:brace])
	raw := &ast.RawImpl{SelfType: signature, Generics: generics}
	if trait, self, ok := strings.Cut(signature, " for "); ok {
		raw.Trait = strings.TrimSpace(trait)
		raw.SelfType = strings.TrimSpace(self)
	}

	end := matchClose(b.src, brace) + 1
	return &ast.RawNode{
		Kind:     ast.NodeImpl.String(),
		Span:     b.span(start, end),
		Impl:     raw,
		Children: items,
	}
}

// Fn locates a function header such as "pub fn new(x: i32) -> Self" and
// spans it through the end of its body. Parameter and return types become
// type children; body nodes follow them.
func (b *Builder) Fn(header string, body ...*ast.RawNode) *ast.RawNode {
	start := b.locate(header)
	rel := strings.Index(header, "fn ")
	if rel < 0 {
		panic(fmt.Sprintf("asttest: fn header %q has no fn keyword", header))
	}
	fnIdx := start + rel

	attrs := &ast.RawFn{Visibility: visibility(b.src[start:fnIdx])}

	nameStart := skipSpace(b.src, fnIdx+len("fn "))
	nameEnd := identEnd(b.src, nameStart)
	cur := nameEnd
	if cur < len(b.src) && b.src[cur] == '<' {
		cur = matchAngle(b.src, cur) + 1
	}

	open := indexFrom(b.src, "(", cur)
	closeIdx := matchClose(b.src, open)

	var children []*ast.RawNode
	for i, param := range splitTop(b.src, open+1, closeIdx) {
		ps, pe := param[0], param[1]
		text := b.src[ps:pe]
		if i == 0 {
			if kind, ok := selfKind(text); ok {
				attrs.SelfKind = kind
				attrs.SelfSpan = b.spanPtr(ps, pe)
				continue
			}
		}
		colon := strings.IndexByte(text, ':')
		if colon < 0 {
			panic(fmt.Sprintf("asttest: parameter %q has no type", text))
		}
		ts, te := trim(b.src, ps+colon+1, pe)
		attrs.Params = append(attrs.Params, ast.RawParam{
			Name: strings.TrimSpace(text[:colon]),
			Type: b.src[ts:te],
		})
		children = append(children, b.typeRef(ts, te))
	}

	cur = skipSpace(b.src, closeIdx+1)
	if strings.HasPrefix(b.src[cur:], "->") {
		rs := skipSpace(b.src, cur+2)
		re := rs
		for re < len(b.src) && b.src[re] != '{' && b.src[re] != ';' && !strings.HasPrefix(b.src[re:], " where") {
			re++
		}
		rs, re = trim(b.src, rs, re)
		attrs.Ret = b.src[rs:re]
		attrs.RetSpan = b.spanPtr(rs, re)
		children = append(children, b.typeRef(rs, re))
		cur = re
	}

	end := cur
	for end < len(b.src) && b.src[end] != '{' && b.src[end] != ';' {
		end++
	}
	if end < len(b.src) && b.src[end] == '{' {
		end = matchClose(b.src, end)
	}
	end++

	return &ast.RawNode{
		Kind:     ast.NodeFn.String(),
		Name:     b.src[nameStart:nameEnd],
		NameSpan: b.spanPtr(nameStart, nameEnd),
		Span:     b.span(start, end),
		Fn:       attrs,
		Children: append(children, body...),
	}
}

// TypeRef locates a written type.
func (b *Builder) TypeRef(text string) *ast.RawNode {
	start := b.locate(text)
	return b.typeRef(start, start+len(text))
}

// Expr locates an expression and splits it into a node tree.
func (b *Builder) Expr(text string, opts ...Opt) *ast.RawNode {
	h := newHints(opts)
	start := b.locate(text)
	return b.expr(start, start+len(text), h)
}

func (b *Builder) typeRef(start, end int) *ast.RawNode {
	text := b.src[start:end]
	return &ast.RawNode{
		Kind: ast.NodeTypeRef.String(),
		Name: text,
		Type: text,
		Span: b.span(start, end),
	}
}

func (b *Builder) locate(text string) int {
	idx := strings.Index(b.src[b.base:], text)
	if idx < 0 {
		panic(fmt.Sprintf("asttest: %q not found in source", text))
	}
	return b.base + idx
}

func (b *Builder) span(start, end int) ast.RawSpan {
	sp := b.source.SpanOf(span.Range{StartOffset: start, EndOffset: end})
	return ast.RawSpan{sp.StartLine, sp.StartColumn, sp.EndLine, sp.EndColumn}
}

func (b *Builder) spanPtr(start, end int) *ast.RawSpan {
	sp := b.span(start, end)
	return &sp
}

func visibility(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	switch {
	case strings.HasPrefix(prefix, "pub("):
		return prefix[:strings.IndexByte(prefix, ')')+1]
	case strings.HasPrefix(prefix, "pub"):
		return string(ast.VisPublic)
	default:
		return string(ast.VisPrivate)
	}
}

func selfKind(param string) (string, bool) {
	p := strings.TrimSpace(param)
	typed := ""
	if name, typ, ok := strings.Cut(p, ":"); ok {
		p = strings.TrimSpace(name)
		typed = strings.TrimSpace(typ)
	}

	switch {
	case p == "self" || p == "mut self":
		switch {
		case strings.HasPrefix(typed, "&mut "):
			return ast.SelfRefMut.String(), true
		case strings.HasPrefix(typed, "&"):
			return ast.SelfRef.String(), true
		default:
			return ast.SelfValue.String(), true
		}
	case strings.HasPrefix(p, "&") && strings.HasSuffix(p, "self"):
		if strings.Contains(p, "mut ") {
			return ast.SelfRefMut.String(), true
		}
		return ast.SelfRef.String(), true
	default:
		return "", false
	}
}
