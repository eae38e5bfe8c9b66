package ast_test

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/ast/asttest"
	"github.com/yaklabco/idiomlint/pkg/span"
)

const chainSource = `fn main() {
    let n = v.iter()
        .skip(42)
        .next();
}
`

func TestAdapt_ChainLinks(t *testing.T) {
	t.Parallel()

	b := asttest.New(chainSource)
	file := b.Adapt(t, b.Fn("fn main()", b.Expr("v.iter()\n        .skip(42)\n        .next()",
		asttest.Type("v", "Vec<i32>"))))

	calls := ast.FindByKind(file.Root, ast.NodeMethodCall)
	require.Len(t, calls, 3)

	next, skip, iter := calls[0], calls[1], calls[2]
	assert.Equal(t, "next", next.Name)
	assert.Equal(t, "skip", skip.Name)
	assert.Equal(t, "iter", iter.Name)

	assert.Same(t, skip, next.ChainPredecessor())
	assert.Same(t, next, skip.ChainSuccessor())
	assert.Same(t, iter, skip.ChainPredecessor())
	assert.Nil(t, iter.ChainPredecessor())
	assert.Nil(t, next.ChainSuccessor())

	root := next.ChainRoot()
	assert.Equal(t, ast.NodePath, root.Kind)
	assert.Equal(t, "v", root.Name)
	assert.Equal(t, ast.TypeTag("Vec<i32>"), root.Type)
	assert.True(t, skip.Type.IsIterator())

	assert.Equal(t, span.Span{File: asttest.DefaultPath, StartLine: 2, StartColumn: 13, EndLine: 4, EndColumn: 16}, next.Span)
	assert.Equal(t, span.Span{File: asttest.DefaultPath, StartLine: 3, StartColumn: 10, EndLine: 3, EndColumn: 14}, skip.NameSpan)
	assert.Equal(t, "skip(42)\n        .next()", mustSnippet(t, file, span.MustMerge(skip.CallSpan(), next.CallSpan())))

	require.Len(t, skip.Args(), 1)
	assert.Equal(t, ast.NodeLiteral, skip.Args()[0].Kind)
	assert.Same(t, file, skip.File)
	assert.NotNil(t, next.Ancestor(ast.NodeFn))
}

func TestAdapt_FnSignature(t *testing.T) {
	t.Parallel()

	src := `impl Foo {
    pub(crate) fn into_bar(&self, scale: u32) -> Option<Bar> {
        None
    }
}
`
	b := asttest.New(src)
	file := b.Adapt(t, b.Impl("impl Foo", b.Fn("pub(crate) fn into_bar(&self, scale: u32) -> Option<Bar>")))

	fn := ast.FindByKind(file.Root, ast.NodeFn)[0]
	require.NotNil(t, fn.Fn)
	assert.Equal(t, ast.VisCrate, fn.Fn.Visibility)
	assert.False(t, fn.Fn.Visibility.IsPublic())
	assert.Equal(t, ast.SelfRef, fn.Fn.SelfKind)
	assert.Equal(t, 2, fn.Fn.Arity())
	assert.Equal(t, ast.TypeTag("Option<Bar>"), fn.Fn.Ret)
	assert.Equal(t, "&self", mustSnippet(t, file, fn.Fn.SelfSpan))
	assert.Equal(t, []ast.Param{{Name: "scale", Type: "u32"}}, fn.Fn.Params)

	impl := fn.Ancestor(ast.NodeImpl)
	require.NotNil(t, impl)
	assert.Equal(t, ast.TypeTag("Foo"), impl.Impl.SelfType)
	assert.True(t, impl.Impl.IsInherent())

	types := ast.FindByKind(fn, ast.NodeTypeRef)
	require.Len(t, types, 2)
	assert.Equal(t, "u32", types[0].Name)
	assert.Equal(t, "Option<Bar>", types[1].Text())
}

func TestAdapt_Errors(t *testing.T) {
	t.Parallel()

	leaf := func(kind string, sp ast.RawSpan) *ast.RawNode {
		return &ast.RawNode{Kind: kind, Span: sp}
	}
	file := func(children ...*ast.RawNode) *ast.RawFile {
		return &ast.RawFile{
			Path:     "a.rs",
			Source:   "let x = y;\nlet z = w;\n",
			Root:     &ast.RawNode{Kind: "file", Span: ast.RawSpan{1, 1, 3, 1}, Children: children},
		}
	}

	tests := []struct {
		name string
		raw  *ast.RawFile
		want string
	}{
		{"nil model", nil, "missing root"},
		{"unknown kind", file(leaf("lambda", ast.RawSpan{1, 9, 1, 10})), `unknown node kind "lambda"`},
		{"inverted span", file(leaf("path", ast.RawSpan{2, 5, 1, 1})), "span end precedes start"},
		{"zero position", file(leaf("path", ast.RawSpan{0, 0, 1, 1})), "non-positive"},
		{"outside source", file(leaf("path", ast.RawSpan{9, 1, 9, 2})), "outside the source"},
		{
			"child escapes parent",
			file(&ast.RawNode{
				Kind:     "block",
				Span:     ast.RawSpan{1, 1, 1, 11},
				Children: []*ast.RawNode{leaf("path", ast.RawSpan{2, 1, 2, 4})},
			}),
			"escapes its parent",
		},
		{
			"method call without receiver",
			file(&ast.RawNode{Kind: "method_call", Name: "unwrap", Span: ast.RawSpan{1, 9, 1, 10}}),
			"has no receiver",
		},
		{
			"root is not a file",
			&ast.RawFile{Path: "a.rs", Root: leaf("block", ast.RawSpan{1, 1, 1, 2})},
			"want file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ast.Adapt(tt.raw)
			require.ErrorIs(t, err, ast.ErrInvalidModel)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAdapt_ExpansionEscapesParent(t *testing.T) {
	t.Parallel()

	raw := &ast.RawFile{
		Path:   "a.rs",
		Source: "let x = y;\nlet z = w;\n",
		Root: &ast.RawNode{Kind: "file", Span: ast.RawSpan{1, 1, 3, 1}, Children: []*ast.RawNode{{
			Kind:          "macro_call",
			Name:          "format",
			FromExpansion: true,
			Span:          ast.RawSpan{1, 1, 1, 11},
			Children:      []*ast.RawNode{{Kind: "path", Span: ast.RawSpan{2, 1, 2, 4}}},
		}}},
	}

	file, err := ast.Adapt(raw)
	require.NoError(t, err)
	paths := ast.FindByKind(file.Root, ast.NodePath)
	require.Len(t, paths, 1)
	assert.True(t, paths[0].FromExpansion)
}

func TestDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	b := asttest.New(chainSource)
	raw := b.File(b.Fn("fn main()", b.Expr("v.iter()\n        .skip(42)\n        .next()")))

	for _, format := range []ast.Format{ast.FormatJSON, ast.FormatYAML, ast.FormatMsgpack} {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			data, err := ast.Encode(format, raw)
			require.NoError(t, err)

			got, err := ast.Decode("model.pm."+string(format), data)
			require.NoError(t, err)

			if diff := deep.Equal(raw, got); diff != nil {
				t.Errorf("round trip changed the model: %v", diff)
			}
		})
	}
}

func TestDecode_JSONDocument(t *testing.T) {
	t.Parallel()

	doc := `{
  "path": "src/a.rs",
  "language": "Rust",
  "source": "opt.unwrap()",
  "root": {"kind": "file", "span": [1, 1, 1, 13], "children": [
    {"kind": "method_call", "name": "unwrap", "span": [1, 1, 1, 13], "name_span": [1, 5, 1, 11],
     "receiver": {"kind": "path", "name": "opt", "type": "Option<u8>", "span": [1, 1, 1, 4]}}
  ]}
}`

	raw, err := ast.Decode("src/a.pm.json", []byte(doc))
	require.NoError(t, err)

	file, err := ast.Adapt(raw)
	require.NoError(t, err)

	call := ast.FindByKind(file.Root, ast.NodeMethodCall)[0]
	assert.True(t, call.Receiver().Type.IsOption())
	assert.Equal(t, "unwrap", mustSnippet(t, file, call.NameSpan))
	assert.Equal(t, 3, file.NodeCount())
}

func TestDecode_Rejects(t *testing.T) {
	t.Parallel()

	_, err := ast.Decode("a.rs", nil)
	require.ErrorIs(t, err, ast.ErrUnknownFormat)

	_, err = ast.Decode("a.pm.json", []byte(`{"path": "a.rs", "bogus": 1}`))
	require.Error(t, err)

	_, err = ast.Decode("a.pm.yml", []byte("path: a.rs\nroot: [1, 2\n"))
	require.Error(t, err)

	assert.True(t, ast.IsModelPath("dir/Main.PM.YAML"))
	assert.False(t, ast.IsModelPath("dir/main.json"))
}

func mustSnippet(t *testing.T, file *ast.File, sp span.Span) string {
	t.Helper()
	text, ok := file.Snippet(sp)
	require.True(t, ok, "span %s outside source", sp)
	return text
}
