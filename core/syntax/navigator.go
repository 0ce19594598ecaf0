package syntax

import "github.com/antchfx/xpath"

// Navigator walks a syntax subtree for XPath evaluation. Every syntax node
// is presented as an element named after its kind; syntax nodes carry no
// attributes. The subtree root handed to NewNavigator acts as the document
// root, so relative location paths are evaluated against it.
type Navigator struct {
	src  []byte
	path []frame
}

type frame struct {
	node  Node
	index int // position within the parent's children
}

var _ xpath.NodeNavigator = (*Navigator)(nil)

// NewNavigator returns a Navigator positioned on root.
func NewNavigator(src []byte, root Node) *Navigator {
	return &Navigator{src: src, path: []frame{{node: root}}}
}

// Current returns the syntax node the navigator is positioned on.
func (n *Navigator) Current() Node {
	return n.path[len(n.path)-1].node
}

func (n *Navigator) parent() Node {
	if len(n.path) < 2 {
		return nil
	}
	return n.path[len(n.path)-2].node
}

func (n *Navigator) NodeType() xpath.NodeType { return xpath.ElementNode }
func (n *Navigator) LocalName() string        { return n.Current().Kind() }
func (n *Navigator) Prefix() string           { return "" }

func (n *Navigator) Value() string {
	return string(Slice(n.src, n.Current()))
}

func (n *Navigator) Copy() xpath.NodeNavigator {
	path := make([]frame, len(n.path))
	copy(path, n.path)
	return &Navigator{src: n.src, path: path}
}

func (n *Navigator) MoveToRoot() {
	n.path = n.path[:1]
}

func (n *Navigator) MoveToParent() bool {
	if len(n.path) < 2 {
		return false
	}
	n.path = n.path[:len(n.path)-1]
	return true
}

func (n *Navigator) MoveToNextAttribute() bool { return false }

func (n *Navigator) MoveToChild() bool {
	cur := n.Current()
	if cur.ChildCount() == 0 {
		return false
	}
	child := cur.Child(0)
	if child == nil {
		return false
	}
	n.path = append(n.path, frame{node: child})
	return true
}

func (n *Navigator) MoveToFirst() bool {
	return n.moveToSibling(0)
}

func (n *Navigator) MoveToNext() bool {
	return n.moveToSibling(n.path[len(n.path)-1].index + 1)
}

func (n *Navigator) MoveToPrevious() bool {
	return n.moveToSibling(n.path[len(n.path)-1].index - 1)
}

func (n *Navigator) moveToSibling(index int) bool {
	parent := n.parent()
	top := &n.path[len(n.path)-1]
	if parent == nil || index < 0 || index >= parent.ChildCount() || index == top.index {
		return false
	}
	sibling := parent.Child(index)
	if sibling == nil {
		return false
	}
	top.node = sibling
	top.index = index
	return true
}

func (n *Navigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*Navigator)
	if !ok || len(o.path) == 0 || !sameNode(o.path[0].node, n.path[0].node) {
		return false
	}
	n.path = append(n.path[:0], o.path...)
	return true
}

// sameNode compares roots by range and kind; adapters may hand out fresh
// wrapper values for the same underlying node.
func sameNode(a, b Node) bool {
	return a.Kind() == b.Kind() && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}
