package asttest

import (
	"strings"

	"github.com/yaklabco/idiomlint/pkg/ast"
)

// Opt adjusts nodes built by Expr. Options match a node by its exact source text.
type Opt func(*hints)

type hints struct {
	types map[string]string
	marks map[string][]func(*ast.RawNode)
}

func newHints(opts []Opt) *hints {
	h := &hints{
		types: make(map[string]string),
		marks: make(map[string][]func(*ast.RawNode)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *hints) mark(expr string, fn func(*ast.RawNode)) {
	h.marks[expr] = append(h.marks[expr], fn)
}

// Type sets the type tag of the node whose text is expr.
func Type(expr, typ string) Opt {
	return func(h *hints) { h.types[expr] = typ }
}

// DefaultCtor marks a call as constructing its type's default value.
func DefaultCtor(expr string) Opt {
	return func(h *hints) { h.mark(expr, func(n *ast.RawNode) { n.DefaultCtor = true }) }
}

// Const marks a call as a call to a const fn.
func Const(expr string) Opt {
	return func(h *hints) { h.mark(expr, func(n *ast.RawNode) { n.IsConst = true }) }
}

// Ctor marks a call as a tuple-struct or variant constructor.
func Ctor(expr string) Opt {
	return func(h *hints) { h.mark(expr, func(n *ast.RawNode) { n.IsCtor = true }) }
}

// Expansion marks a node as produced by a macro expansion.
func Expansion(expr string) Opt {
	return func(h *hints) { h.mark(expr, func(n *ast.RawNode) { n.FromExpansion = true }) }
}

func (b *Builder) expr(start, end int, h *hints) *ast.RawNode {
	start, end = trim(b.src, start, end)
	text := b.src[start:end]

	n := b.classify(start, end, h)
	if typ, ok := h.types[text]; ok {
		n.Type = typ
	}
	for _, fn := range h.marks[text] {
		fn(n)
	}
	return n
}

func (b *Builder) classify(start, end int, h *hints) *ast.RawNode {
	text := b.src[start:end]

	switch {
	case strings.HasPrefix(text, "|") || strings.HasPrefix(text, "move |"):
		return b.closure(start, end, h)
	case literalKind(text) != "":
		return b.literal(start, end)
	case strings.HasPrefix(text, "&"):
		inner := start + 1
		if strings.HasPrefix(text, "&mut ") {
			inner = start + len("&mut ")
		}
		child := b.expr(inner, end, h)
		n := &ast.RawNode{Kind: ast.NodeRef.String(), Span: b.span(start, end), Children: []*ast.RawNode{child}}
		if child.Type != "" {
			n.Type = "&" + child.Type
		}
		return n
	case hasTopLevelOperator(text):
		return &ast.RawNode{Kind: ast.NodeBinary.String(), Span: b.span(start, end)}
	}

	if n := b.methodCall(start, end, h); n != nil {
		return n
	}
	if n := b.call(start, end, h); n != nil {
		return n
	}
	if n := b.structLit(start, end); n != nil {
		return n
	}
	if text[0] == '{' {
		return &ast.RawNode{Kind: ast.NodeBlock.String(), Span: b.span(start, end)}
	}
	if isPath(text) || strings.HasPrefix(text, "self.") {
		return &ast.RawNode{Kind: ast.NodePath.String(), Name: text, Span: b.span(start, end)}
	}
	return &ast.RawNode{Kind: ast.NodeOther.String(), Span: b.span(start, end)}
}

func (b *Builder) closure(start, end int, h *hints) *ast.RawNode {
	first := indexFrom(b.src, "|", start)
	second := indexFrom(b.src, "|", first+1)
	body := b.expr(second+1, end, h)
	return &ast.RawNode{
		Kind:     ast.NodeClosure.String(),
		Span:     b.span(start, end),
		Children: []*ast.RawNode{body},
	}
}

func (b *Builder) literal(start, end int) *ast.RawNode {
	text := b.src[start:end]
	kind := literalKind(text)

	n := &ast.RawNode{Kind: ast.NodeLiteral.String(), Span: b.span(start, end), LitKind: string(kind)}
	switch kind {
	case ast.LitStr:
		n.Type = "&str"
		n.LitValue = strings.Trim(strings.TrimPrefix(text, "r"), `"`)
	case ast.LitInt:
		n.Type = "i32"
	case ast.LitFloat:
		n.Type = "f64"
	case ast.LitBool:
		n.Type = "bool"
	case ast.LitChar:
		n.Type = "char"
	case ast.LitUnit:
		n.Type = "()"
	}
	return n
}

// methodCall matches text ending in a top-level ".name(args)".
func (b *Builder) methodCall(start, end int, h *hints) *ast.RawNode {
	text := b.src[start:end]
	if !strings.HasSuffix(text, ")") {
		return nil
	}

	dot, nameStart, nameEnd, open := -1, 0, 0, 0
	walkTop(text, func(i, depth int) bool {
		if depth != 0 || text[i] != '.' || i+1 >= len(text) || !isIdentStart(text[i+1]) {
			return true
		}
		j := identEnd(text, i+1)
		k := j
		if strings.HasPrefix(text[k:], "::<") {
			k = matchAngle(text, k+2) + 1
		}
		if k > 0 && k < len(text) && text[k] == '(' && matchClose(text, k) == len(text)-1 {
			dot, nameStart, nameEnd, open = i, i+1, j, k
		}
		return true
	})
	if dot < 0 {
		return nil
	}

	recv := b.expr(start, start+dot, h)
	name := text[nameStart:nameEnd]
	return &ast.RawNode{
		Kind:     ast.NodeMethodCall.String(),
		Name:     name,
		Span:     b.span(start, end),
		NameSpan: b.spanPtr(start+nameStart, start+nameEnd),
		Type:     inferMethodType(ast.TypeTag(recv.Type), name),
		Receiver: recv,
		Args:     b.args(start+open+1, end-1, h),
	}
}

// call matches "path(args)" and "name!(args)".
func (b *Builder) call(start, end int, h *hints) *ast.RawNode {
	text := b.src[start:end]

	open := -1
	walkTop(text, func(i, depth int) bool {
		if depth == 0 && (text[i] == '(' || text[i] == '[' || text[i] == '{') {
			open = i
			return false
		}
		return true
	})
	if open <= 0 || matchClose(text, open) != len(text)-1 {
		return nil
	}

	ps, pe := trim(b.src, start, start+open)
	prefix := b.src[ps:pe]

	if name, ok := strings.CutSuffix(prefix, "!"); ok && isPath(name) {
		n := &ast.RawNode{
			Kind:     ast.NodeMacroCall.String(),
			Name:     name,
			Span:     b.span(start, end),
			NameSpan: b.spanPtr(ps, pe-1),
			Args:     b.args(start+open+1, end-1, h),
		}
		switch name {
		case "format":
			n.Type = "String"
		case "vec":
			n.Type = "Vec<_>"
		}
		return n
	}

	if text[open] != '(' || !isPath(prefix) {
		return nil
	}

	callee := &ast.RawNode{
		Kind:     ast.NodePath.String(),
		Name:     prefix,
		Span:     b.span(ps, pe),
		NameSpan: b.spanPtr(ps, pe),
	}
	n := &ast.RawNode{
		Kind:   ast.NodeCall.String(),
		Name:   prefix,
		Span:   b.span(start, end),
		Callee: callee,
		Args:   b.args(start+open+1, end-1, h),
	}
	if owner, fn, ok := cutLast(prefix, "::"); ok {
		switch fn {
		case "new", "default", "with_capacity", "from":
			n.Type = owner
		}
	}
	if typ, ok := h.types[prefix]; ok {
		callee.Type = typ
	}
	return n
}

func (b *Builder) structLit(start, end int) *ast.RawNode {
	text := b.src[start:end]
	if !strings.HasSuffix(text, "}") {
		return nil
	}
	open := strings.IndexByte(text, '{')
	if open <= 0 || matchClose(text, open) != len(text)-1 {
		return nil
	}
	ps, pe := trim(b.src, start, start+open)
	if !isPath(b.src[ps:pe]) {
		return nil
	}
	return &ast.RawNode{
		Kind:     ast.NodeStructLit.String(),
		Name:     b.src[ps:pe],
		Type:     b.src[ps:pe],
		Span:     b.span(start, end),
		NameSpan: b.spanPtr(ps, pe),
	}
}

func (b *Builder) args(start, end int, h *hints) []*ast.RawNode {
	var out []*ast.RawNode
	for _, r := range splitTop(b.src, start, end) {
		out = append(out, b.expr(r[0], r[1], h))
	}
	return out
}

// inferMethodType gives chained calls a coarse type so rules can see
// iterator and Option receivers without every test spelling them out.
func inferMethodType(recv ast.TypeTag, name string) string {
	switch {
	case recv.IsOption():
		switch name {
		case "map", "and_then", "filter", "or", "or_else", "xor", "take", "cloned", "copied", "as_ref", "as_mut":
			return "Option<_>"
		case "ok_or", "ok_or_else":
			return "Result<_, _>"
		}
	case recv.IsResult():
		switch name {
		case "map", "map_err", "and_then", "or_else", "as_ref":
			return "Result<_, _>"
		case "ok", "err":
			return "Option<_>"
		}
	case recv.IsIterator():
		switch name {
		case "filter", "map", "skip", "take", "rev", "enumerate", "cloned", "copied", "flat_map",
			"flatten", "chain", "zip", "step_by", "peekable", "skip_while", "take_while", "filter_map":
			return "Iterator<_>"
		case "next", "find", "position", "rposition", "nth", "last", "max", "min", "find_map":
			return "Option<_>"
		}
	}

	switch name {
	case "iter", "iter_mut", "into_iter", "chars", "bytes", "lines", "keys", "values":
		return "Iterator<_>"
	case "to_string", "to_owned":
		return "String"
	}
	return ""
}
