package rules

import (
	"strings"

	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

// UselessFormatRule flags format! calls that only copy a string.
type UselessFormatRule struct {
	lint.BaseRule
}

// NewUselessFormatRule creates a new useless-format rule.
func NewUselessFormatRule() *UselessFormatRule {
	return &UselessFormatRule{
		BaseRule: lint.NewBaseRule(
			"IL019",
			"useless-format",
			lint.GroupComplexity,
			"Checks for `format!(\"foo\")` and `format!(\"{}\", s)` where s is a string",
			true,
			ast.NodeMacroCall,
		),
	}
}

// Check matches format! with no placeholders, or with a single `{}` and a
// string argument. Calls produced by other macros are skipped.
func (r *UselessFormatRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	if !lint.IsMacro(node, "format") || node.FromExpansion {
		return nil, nil
	}

	var rewrite func(sb *lint.SuggestionBuilder) string
	args := node.Args()
	switch len(args) {
	case 0:
		rewrite = func(*lint.SuggestionBuilder) string { return "String::new()" }
	case 1:
		lit := args[0]
		if !isStrLit(lit) || strings.ContainsAny(lit.Lit.Value, "{}") {
			return nil, nil
		}
		rewrite = func(sb *lint.SuggestionBuilder) string { return sb.Text(lit) + ".to_string()" }
	case 2:
		if !isStrLit(args[0]) || args[0].Lit.Value != "{}" || !args[1].Type.IsString() {
			return nil, nil
		}
		s := args[1]
		if s.Kind == ast.NodeRef && s.FirstChild != nil {
			s = s.FirstChild
		}
		rewrite = func(sb *lint.SuggestionBuilder) string { return sb.Text(s) + ".to_string()" }
	default:
		return nil, nil
	}

	sb := rc.Suggest("consider using `.to_string()`", fix.MachineApplicable)
	sb.Replace(node.Span, rewrite(sb))
	return rc.Report(node.Span, "useless use of `format!`").WithSuggestion(sb).Build(), nil
}

func isStrLit(n *ast.Node) bool {
	return n.Kind == ast.NodeLiteral && n.Lit != nil && n.Lit.Kind == ast.LitStr
}
