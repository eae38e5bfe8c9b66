package rules

import (
	"strings"

	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/fix"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/span"
)

// UseSelfRule flags the impl's own type name where `Self` would do.
type UseSelfRule struct {
	lint.BaseRule
}

// NewUseSelfRule creates a new use-self rule.
func NewUseSelfRule() *UseSelfRule {
	return &UseSelfRule{
		BaseRule: lint.NewBaseRule(
			"IL001",
			"use-self",
			lint.GroupNursery,
			"Checks for unnecessary repetition of the structure name when `Self` is applicable",
			true,
			ast.NodeTypeRef, ast.NodeStructLit, ast.NodePath,
		),
	}
}

// Check matches written types, struct literals, and paths inside an impl
// block that repeat the impl's type. Struct literals and paths are only
// matched for non-generic types, where the bare name is the whole type.
//
// The include_private option (default true) controls whether private
// methods of inherent impls are checked.
func (r *UseSelfRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	if node.FromExpansion || rc.File == nil || rc.File.Source == nil {
		return nil, nil
	}
	impl := lint.EnclosingImpl(node)
	if impl == nil || impl.Impl == nil {
		return nil, nil
	}

	selfType := strings.TrimSpace(string(impl.Impl.SelfType))
	base := impl.Impl.SelfType.Base()
	if base == "" || !strings.HasPrefix(selfType, base) {
		return nil, nil
	}
	generic := selfType != base
	if !rc.OptionBool("include_private", true) && !exported(node, impl) {
		return nil, nil
	}

	var hits []span.Span
	switch node.Kind {
	case ast.NodeTypeRef:
		hits = typeMentions(rc.File.Source, node.Span, selfType)
	case ast.NodeStructLit:
		if !generic && node.Name == base && !node.NameSpan.IsZero() {
			hits = []span.Span{node.NameSpan}
		}
	case ast.NodePath:
		if generic {
			break
		}
		if node.Name == base {
			hits = []span.Span{node.Span}
		} else if strings.HasPrefix(node.Name, base+"::") {
			if r, ok := rc.File.Source.Range(node.Span); ok {
				hits = []span.Span{rc.File.Source.SpanOf(span.Range{
					StartOffset: r.StartOffset,
					EndOffset:   r.StartOffset + len(base),
				})}
			}
		}
	default:
	}
	if len(hits) == 0 {
		return nil, nil
	}

	sp, err := span.Merge(hits[0], hits[len(hits)-1])
	if err != nil {
		return nil, err
	}
	sb := rc.Suggest("use the applicable keyword", fix.MachineApplicable)
	for _, h := range hits {
		sb.Replace(h, "Self")
	}
	return rc.Report(sp, "unnecessary structure name repetition").WithSuggestion(sb).Build(), nil
}

// exported reports whether the code at node belongs to the public interface:
// anything in a trait impl, or a pub method of an inherent impl.
func exported(node, impl *ast.Node) bool {
	if !impl.Impl.IsInherent() {
		return true
	}
	fn := node.Ancestor(ast.NodeFn)
	if fn == nil || fn.Fn == nil {
		return true
	}
	return fn.Fn.Visibility.IsPublic()
}

// typeMentions returns the spans where selfType is written inside the type
// at sp. Qualified occurrences such as other::Foo are left alone, and a
// non-generic name followed by generic arguments names a different type.
func typeMentions(src *span.Source, sp span.Span, selfType string) []span.Span {
	r, ok := src.Range(sp)
	if !ok {
		return nil
	}
	text := string(src.Content[r.StartOffset:r.EndOffset])
	generic := strings.Contains(selfType, "<")

	var out []span.Span
	for idx := 0; idx < len(text); {
		pos := strings.Index(text[idx:], selfType)
		if pos < 0 {
			break
		}
		start := idx + pos
		end := start + len(selfType)
		idx = end

		if start > 0 && (identByte(text[start-1]) || text[start-1] == ':') {
			continue
		}
		if end < len(text) && (identByte(text[end]) || !generic && text[end] == '<') {
			continue
		}
		out = append(out, src.SpanOf(span.Range{
			StartOffset: r.StartOffset + start,
			EndOffset:   r.StartOffset + end,
		}))
	}
	return out
}

func identByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
