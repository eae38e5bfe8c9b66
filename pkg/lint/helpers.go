package lint

import (
	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/span"
)

// Chain matching helpers.

// MatchChain matches the method chain ending at node against names, oldest
// call first. MatchChain(n, "filter", "next") returns [filter, next] when n is
// a next() call chained directly onto a filter() call, and nil otherwise.
// An empty name matches any method.
func MatchChain(node *ast.Node, names ...string) []*ast.Node {
	if len(names) == 0 {
		return nil
	}
	calls := make([]*ast.Node, len(names))
	cur := node
	for i := len(names) - 1; i >= 0; i-- {
		if cur == nil || cur.Kind != ast.NodeMethodCall {
			return nil
		}
		if names[i] != "" && cur.Name != names[i] {
			return nil
		}
		calls[i] = cur
		cur = cur.ChainPredecessor()
	}
	return calls
}

// ChainSpan covers the calls from first through last, leaving out the
// receiver of first. For v.iter().skip(n).next() with first = skip and
// last = next it covers "skip(n).next()", across lines if need be.
func ChainSpan(first, last *ast.Node) (span.Span, error) {
	sp, err := span.Merge(first.CallSpan(), last.CallSpan())
	if err != nil {
		return span.Span{}, invariant(err)
	}
	return sp, nil
}

// Node accessor helpers.

// ReceiverType returns the type tag of a method call's receiver, or "".
func ReceiverType(n *ast.Node) ast.TypeTag {
	if recv := n.Receiver(); recv != nil {
		return recv.Type
	}
	return ""
}

// ArgCount returns the number of call arguments.
func ArgCount(n *ast.Node) int {
	return len(n.Args())
}

// Arg returns the i-th call argument, or nil.
func Arg(n *ast.Node, i int) *ast.Node {
	args := n.Args()
	if i < 0 || i >= len(args) {
		return nil
	}
	return args[i]
}

// IsMacro reports whether n invokes the named macro.
func IsMacro(n *ast.Node, name string) bool {
	return n != nil && n.Kind == ast.NodeMacroCall && n.Name == name
}

// EnclosingImpl returns the impl block a node sits in, or nil.
func EnclosingImpl(n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	if n.Kind == ast.NodeImpl {
		return n
	}
	return n.Ancestor(ast.NodeImpl)
}

// ImplSelfType returns the self type of the impl enclosing n, or "".
func ImplSelfType(n *ast.Node) ast.TypeTag {
	impl := EnclosingImpl(n)
	if impl == nil || impl.Impl == nil {
		return ""
	}
	return impl.Impl.SelfType
}

// IsMethod reports whether fn is a function defined directly in an impl block.
func IsMethod(fn *ast.Node) bool {
	return fn != nil && fn.Kind == ast.NodeFn && fn.Fn != nil &&
		fn.Parent != nil && fn.Parent.Kind == ast.NodeImpl && fn.Parent.Impl != nil
}

// InInherentImpl reports whether fn is a method of an inherent (non-trait) impl.
func InInherentImpl(fn *ast.Node) bool {
	return IsMethod(fn) && fn.Parent.Impl.IsInherent()
}

// IsCheap reports whether evaluating expr eagerly costs nothing worth
// deferring: literals, paths, references to them, closures, and calls to
// const fns or constructors.
func IsCheap(expr *ast.Node) bool {
	if expr == nil {
		return true
	}
	switch expr.Kind {
	case ast.NodeLiteral, ast.NodePath, ast.NodeClosure:
		return true
	case ast.NodeRef:
		return IsCheap(expr.FirstChild)
	case ast.NodeCall:
		return expr.Call != nil && (expr.Call.Const || expr.Call.Ctor) && allCheap(expr.Args())
	case ast.NodeStructLit:
		return !expr.HasChildren()
	default:
		return false
	}
}

func allCheap(nodes []*ast.Node) bool {
	for _, n := range nodes {
		if !IsCheap(n) {
			return false
		}
	}
	return true
}
