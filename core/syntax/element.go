package syntax

import "bytes"

// Element is an in-memory Node. It is the shape serialized trees decode
// into and the shape Builder produces.
type Element struct {
	Type     string     `json:"type"`
	Start    uint32     `json:"start"`
	End      uint32     `json:"end"`
	Missing  bool       `json:"missing,omitempty"`
	Children []*Element `json:"children,omitempty"`
}

func (e *Element) Kind() string      { return e.Type }
func (e *Element) StartByte() uint32 { return e.Start }
func (e *Element) EndByte() uint32   { return e.End }
func (e *Element) ChildCount() int   { return len(e.Children) }
func (e *Element) IsMissing() bool   { return e.Missing }

func (e *Element) Child(i int) Node {
	if i < 0 || i >= len(e.Children) {
		return nil
	}
	return e.Children[i]
}

// Builder lays out source text and Elements together, so that every
// element's byte range points at the text it was built from. Arguments are
// evaluated left to right, which lets trees be written as nested calls:
//
//	b := syntax.NewBuilder()
//	v := b.Node("v", b.Leaf("\\v", "\\v "), b.Leaf("verseNumber", "1"))
type Builder struct {
	buf bytes.Buffer
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Leaf appends text to the source and returns a childless element spanning it.
func (b *Builder) Leaf(kind, text string) *Element {
	start := uint32(b.buf.Len())
	b.buf.WriteString(text)
	return &Element{Type: kind, Start: start, End: uint32(b.buf.Len())}
}

// Missing returns a zero-width element flagged as parser-inserted.
func (b *Builder) Missing(kind string) *Element {
	at := uint32(b.buf.Len())
	return &Element{Type: kind, Start: at, End: at, Missing: true}
}

// Space appends text that belongs to no leaf. It returns nil so it can sit
// in a Node argument list.
func (b *Builder) Space(text string) *Element {
	b.buf.WriteString(text)
	return nil
}

// Node returns an element spanning its children. Nil children are skipped.
func (b *Builder) Node(kind string, children ...*Element) *Element {
	e := &Element{Type: kind}
	for _, c := range children {
		if c != nil {
			e.Children = append(e.Children, c)
		}
	}
	if len(e.Children) == 0 {
		e.Start = uint32(b.buf.Len())
		e.End = e.Start
		return e
	}
	e.Start = e.Children[0].Start
	e.End = e.Children[len(e.Children)-1].End
	return e
}

// Source returns the text laid out so far.
func (b *Builder) Source() []byte {
	return bytes.Clone(b.buf.Bytes())
}

// Tree returns root paired with the text laid out so far.
func (b *Builder) Tree(root *Element) *Tree {
	t := &Tree{Source: b.Source()}
	if root != nil {
		t.Root = root
	}
	return t
}
