// Package usj defines the USJ document model: the JSON rendition of USFM
// scripture markup, version 3.1.
package usj

// Document type and schema version written at the top level of every USJ
// document.
const (
	DocumentType = "USJ"
	Version      = "3.1"
)

// Node type labels.
const (
	TypeBook      = "book"
	TypeChapter   = "chapter"
	TypeVerse     = "verse"
	TypePara      = "para"
	TypeChar      = "char"
	TypeNote      = "note"
	TypeTable     = "table"
	TypeRow       = "table:row"
	TypeCell      = "table:cell"
	TypeMilestone = "ms"
	TypeAttribute = "attribute"
	TypeSidebar   = "sidebar"
	TypeFigure    = "figure"
	TypeCategory  = "category"
)

// Cell alignments.
const (
	AlignStart = "start"
	AlignEnd   = "end"
)

// Content is an entry of a content sequence: either a *Node or a Text.
type Content interface {
	isContent()
}

// Text is a run of plain text inside a content sequence.
type Text string

func (Text) isContent() {}

// Node is a structured USJ node. Which fields are meaningful depends on
// Type. A nil Content means the node carries no content field at all; an
// empty, non-nil Content is written as [].
type Node struct {
	Type   string
	Marker string

	// book
	Code string

	// chapter, verse
	Number    string
	Sid       string
	AltNumber string
	PubNumber string

	// note
	Caller string

	// table:cell
	Align string

	// sidebar, category
	Category string

	// attribute
	Name        string
	Value       string
	AttribName  string
	AttribValue string

	Content []Content
}

func (*Node) isContent() {}

// Append adds items to n's content, allocating it if needed.
func (n *Node) Append(items ...Content) {
	if n.Content == nil {
		n.Content = make([]Content, 0, len(items))
	}
	n.Content = append(n.Content, items...)
}

// Document is the top-level USJ value.
type Document struct {
	Type    string
	Version string
	Content []Content
}

// NewDocument returns an empty USJ 3.1 document.
func NewDocument() *Document {
	return &Document{Type: DocumentType, Version: Version, Content: []Content{}}
}

// NewContainer returns a node of the given type whose content field is
// always written, even when empty.
func NewContainer(typ, marker string) *Node {
	return &Node{Type: typ, Marker: marker, Content: []Content{}}
}

// Walk calls fn for every item in content, depth first in document order.
// Returning false from fn skips the item's own content.
func Walk(content []Content, fn func(c Content) bool) {
	for _, c := range content {
		if !fn(c) {
			continue
		}
		if n, ok := c.(*Node); ok {
			Walk(n.Content, fn)
		}
	}
}

// Clone returns a deep copy of content.
func Clone(content []Content) []Content {
	if content == nil {
		return nil
	}
	out := make([]Content, len(content))
	for i, c := range content {
		if n, ok := c.(*Node); ok {
			cp := *n
			cp.Content = Clone(n.Content)
			out[i] = &cp
			continue
		}
		out[i] = c
	}
	return out
}
