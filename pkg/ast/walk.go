package ast

import "iter"

// Preorder yields root and then its descendants in source order.
func Preorder(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		preorder(root, yield)
	}
}

func preorder(n *Node, yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for child := n.FirstChild; child != nil; child = child.Next {
		if !preorder(child, yield) {
			return false
		}
	}
	return true
}

// Walk calls fn on every node under root in pre-order and returns the first
// error fn returns.
func Walk(root *Node, fn func(*Node) error) error {
	for n := range Preorder(root) {
		if err := fn(n); err != nil {
			return err
		}
	}
	return nil
}

// WalkWithContext calls enter before a node's children and leave after
// them. Either may be nil.
func WalkWithContext(root *Node, enter, leave func(*Node) error) error {
	if root == nil {
		return nil
	}
	if enter != nil {
		if err := enter(root); err != nil {
			return err
		}
	}
	for child := root.FirstChild; child != nil; child = child.Next {
		if err := WalkWithContext(child, enter, leave); err != nil {
			return err
		}
	}
	if leave != nil {
		return leave(root)
	}
	return nil
}

// FindAll returns the nodes under root that satisfy pred, in pre-order.
func FindAll(root *Node, pred func(*Node) bool) []*Node {
	var found []*Node
	for n := range Preorder(root) {
		if pred(n) {
			found = append(found, n)
		}
	}
	return found
}

// FindFirst returns the first node in pre-order that satisfies pred.
func FindFirst(root *Node, pred func(*Node) bool) *Node {
	for n := range Preorder(root) {
		if pred(n) {
			return n
		}
	}
	return nil
}

// FindByKind returns every node of kind under root.
func FindByKind(root *Node, kind NodeKind) []*Node {
	return FindAll(root, func(n *Node) bool { return n.Kind == kind })
}
