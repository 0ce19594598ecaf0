// Package syntax defines the concrete syntax tree consumed by the USJ converter.
//
// Trees come from an external provider (tree-sitter, or a serialized dump of
// one). A Node only exposes its grammar kind, its byte range into the source
// text and its ordered children; everything the converter needs is derived
// from those three things.
package syntax

import "bytes"

// Node is a read-only syntax tree node.
type Node interface {
	// Kind is the grammar category label, e.g. "chapter", "verseNumber", "\\v".
	Kind() string
	StartByte() uint32
	EndByte() uint32
	ChildCount() int
	Child(i int) Node
}

// MissingNode is implemented by nodes that a parser inserted to recover
// from a syntax error.
type MissingNode interface {
	IsMissing() bool
}

// Tree pairs a root node with the source text its byte ranges refer to.
type Tree struct {
	Source []byte
	Root   Node
}

// Bytes returns the source slice covered by n, clamped to the source bounds.
func (t *Tree) Bytes(n Node) []byte {
	return Slice(t.Source, n)
}

// Slice returns the part of src covered by n, clamped to the bounds of src.
func Slice(src []byte, n Node) []byte {
	if n == nil {
		return nil
	}
	start, end := int(n.StartByte()), int(n.EndByte())
	if start > len(src) {
		start = len(src)
	}
	if end > len(src) {
		end = len(src)
	}
	if end < start {
		return nil
	}
	return src[start:end]
}

// Children returns the children of n as a slice.
func Children(n Node) []Node {
	count := n.ChildCount()
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		if c := n.Child(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Position converts a byte offset into a 1-based row and 0-based column.
func Position(src []byte, offset uint32) (row, col int) {
	if int(offset) > len(src) {
		offset = uint32(len(src))
	}
	head := src[:offset]
	row = bytes.Count(head, []byte{'\n'}) + 1
	if i := bytes.LastIndexByte(head, '\n'); i >= 0 {
		col = len(head) - i - 1
	} else {
		col = len(head)
	}
	return row, col
}
