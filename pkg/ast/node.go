// Package ast provides the program model the lint engine walks.
// It defines:
// - File: one compilation unit with its source text and tree root
// - Node: a typed tree of items and expressions with spans and type tags
// - RawNode: the interchange form emitted by external front ends, and Adapt
package ast

import "github.com/yaklabco/idiomlint/pkg/span"

// NodeKind classifies the type of a program node.
type NodeKind uint16

// Node kinds for items and expressions.
const (
	NodeFile NodeKind = iota

	// Items.
	NodeImpl
	NodeFn
	NodeTypeRef

	// Statements and blocks.
	NodeBlock
	NodeLet
	NodeReturn

	// Expressions.
	NodePath
	NodeLiteral
	NodeCall
	NodeMethodCall
	NodeMacroCall
	NodeClosure
	NodeStructLit
	NodeRef
	NodeBinary

	// Fallback for constructs the engine does not model.
	NodeOther

	nodeKindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var nodeKindNames = [...]string{
	NodeFile:       "file",
	NodeImpl:       "impl",
	NodeFn:         "fn",
	NodeTypeRef:    "type",
	NodeBlock:      "block",
	NodeLet:        "let",
	NodeReturn:     "return",
	NodePath:       "path",
	NodeLiteral:    "literal",
	NodeCall:       "call",
	NodeMethodCall: "method_call",
	NodeMacroCall:  "macro_call",
	NodeClosure:    "closure",
	NodeStructLit:  "struct_lit",
	NodeRef:        "ref",
	NodeBinary:     "binary",
	NodeOther:      "other",
}

// String returns the interchange name of the kind.
func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) && nodeKindNames[k] != "" {
		return nodeKindNames[k]
	}
	return "unknown"
}

// ParseNodeKind maps an interchange name back to a kind.
func ParseNodeKind(name string) (NodeKind, bool) {
	for k, n := range nodeKindNames {
		if n == name {
			return NodeKind(k), true
		}
	}
	return NodeOther, false
}

// AllNodeKinds returns every modelled kind in declaration order.
func AllNodeKinds() []NodeKind {
	kinds := make([]NodeKind, 0, nodeKindCount)
	for k := NodeFile; k < nodeKindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Node represents a single node in the program tree.
// Nodes form a tree with parent/child/sibling relationships; a child is owned
// by exactly one parent. Chain links in CallAttrs are backward references and
// never own anything.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// Span covers the whole node.
	Span span.Span

	// NameSpan covers the identifier of a method call or function, if any.
	NameSpan span.Span

	// Type is the resolved type tag supplied by the type checker (may be empty).
	Type TypeTag

	// Name is the method, function, macro, path, or type name.
	Name string

	// FromExpansion is true for nodes produced by macro expansion.
	FromExpansion bool

	// File is a back-reference to the containing File.
	File *File

	// Call holds attributes for calls, method calls, and macro calls.
	Call *CallAttrs

	// Fn holds the signature of a function definition.
	Fn *FnAttrs

	// Impl holds attributes of an impl block.
	Impl *ImplAttrs

	// Lit holds attributes of a literal.
	Lit *LitAttrs
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// IsExpr reports whether the node is an expression.
func (n *Node) IsExpr() bool {
	switch n.Kind {
	case NodePath, NodeLiteral, NodeCall, NodeMethodCall, NodeMacroCall,
		NodeClosure, NodeStructLit, NodeRef, NodeBinary, NodeBlock:
		return true
	default:
		return false
	}
}

// IsMethodCall reports whether n is a call to the named method.
func (n *Node) IsMethodCall(name string) bool {
	return n != nil && n.Kind == NodeMethodCall && n.Name == name
}

// Args returns the argument nodes of a call, or nil.
func (n *Node) Args() []*Node {
	if n == nil || n.Call == nil {
		return nil
	}
	return n.Call.Args
}

// Receiver returns the receiver of a method call, or nil.
func (n *Node) Receiver() *Node {
	if n == nil || n.Call == nil {
		return nil
	}
	return n.Call.Receiver
}

// ChainPredecessor returns the method call this call was chained onto.
// For a.b().c(), the predecessor of c is b. Returns nil at the chain start.
func (n *Node) ChainPredecessor() *Node {
	if n == nil || n.Call == nil {
		return nil
	}
	return n.Call.Pred
}

// ChainSuccessor returns the method call chained onto this one, or nil.
func (n *Node) ChainSuccessor() *Node {
	if n == nil || n.Call == nil {
		return nil
	}
	return n.Call.Succ
}

// ChainRoot returns the receiver expression the whole chain starts from.
// For a.b().c(), the root is a.
func (n *Node) ChainRoot() *Node {
	cur := n
	for cur.ChainPredecessor() != nil {
		cur = cur.ChainPredecessor()
	}
	if recv := cur.Receiver(); recv != nil {
		return recv
	}
	return cur
}

// CallSpan returns the span from a call's name to its end, leaving out the
// receiver. For a.b().c() the call span of c covers "c()".
func (n *Node) CallSpan() span.Span {
	if n.NameSpan.IsZero() {
		return n.Span
	}
	sp := n.Span
	sp.StartLine, sp.StartColumn = n.NameSpan.StartLine, n.NameSpan.StartColumn
	return sp
}

// Ancestor returns the closest ancestor of the given kind, or nil.
func (n *Node) Ancestor(kind NodeKind) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}

// Source returns the source text covered by the node.
// Returns false if the node has no file or its span is outside the file.
func (n *Node) Source() ([]byte, bool) {
	if n == nil || n.File == nil || n.File.Source == nil {
		return nil, false
	}
	return n.File.Source.Snippet(n.Span)
}

// Text returns the node's source text, or an empty string.
func (n *Node) Text() string {
	b, _ := n.Source()
	return string(b)
}
