package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/idiomlint/pkg/ast/asttest"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

func TestUselessFormat(t *testing.T) {
	t.Parallel()

	runRewriteCases(t, func() lint.Rule { return NewUselessFormatRule() }, []rewriteCase{
		{
			name:  "literal",
			expr:  `format!("foo")`,
			want:  `"foo".to_string()`,
			apply: fix.MachineApplicable,
		},
		{
			name: "empty",
			expr: "format!()",
			want: "String::new()",
		},
		{
			name: "string argument",
			expr: `format!("{}", s)`,
			opts: []asttest.Opt{asttest.Type("s", "String")},
			want: "s.to_string()",
		},
		{
			name: "str argument",
			expr: `format!("{}", name)`,
			opts: []asttest.Opt{asttest.Type("name", "&str")},
			want: "name.to_string()",
		},
		{
			name: "borrowed string argument",
			expr: `format!("{}", &s)`,
			opts: []asttest.Opt{asttest.Type("s", "String")},
			want: "s.to_string()",
		},
		{
			name: "literal argument",
			expr: `format!("{}", "bar")`,
			want: `"bar".to_string()`,
		},
		{
			name: "integer argument",
			expr: `format!("{}", n)`,
			opts: []asttest.Opt{asttest.Type("n", "i32")},
		},
		{
			name: "untyped argument",
			expr: `format!("{}", thing)`,
		},
		{
			name: "debug placeholder",
			expr: `format!("{:?}", s)`,
			opts: []asttest.Opt{asttest.Type("s", "String")},
		},
		{
			name: "inline argument",
			expr: `format!("{x}")`,
		},
		{
			name: "two arguments",
			expr: `format!("{} {}", a, b)`,
		},
		{
			name: "other macro",
			expr: `vec!["foo"]`,
		},
		{
			name: "from expansion",
			expr: `format!("foo")`,
			opts: []asttest.Opt{asttest.Expansion(`format!("foo")`)},
		},
	})
}

func TestUselessFormat_Message(t *testing.T) {
	t.Parallel()

	file, diags := lintExpr(t, `format!("foo")`, nil, NewUselessFormatRule())
	require.Len(t, diags, 1)
	assert.Equal(t, "useless use of `format!`", diags[0].Message)
	assert.Equal(t, `format!("foo")`, snippet(t, file, diags[0]))
}
