package ast

// NewNode returns a detached node of kind.
func NewNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// AppendChild links child as the last child of parent, first detaching it
// from wherever it was.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	child.detach()

	child.Parent, child.Prev = parent, parent.LastChild
	if last := parent.LastChild; last != nil {
		last.Next = child
	} else {
		parent.FirstChild = child
	}
	parent.LastChild = child
}

// RemoveChild detaches child if its parent is parent.
func RemoveChild(parent, child *Node) {
	if parent != nil && child != nil && child.Parent == parent {
		child.detach()
	}
}

// detach unlinks n from its parent and siblings.
func (n *Node) detach() {
	parent := n.Parent
	if parent == nil {
		return
	}

	if n.Prev == nil {
		parent.FirstChild = n.Next
	} else {
		n.Prev.Next = n.Next
	}
	if n.Next == nil {
		parent.LastChild = n.Prev
	} else {
		n.Next.Prev = n.Prev
	}
	n.Parent, n.Prev, n.Next = nil, nil, nil
}
