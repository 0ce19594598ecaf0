// Package usfm writes USJ documents back out as USFM marker text.
//
// Block nodes (book, chapter, paragraphs, table rows, sidebars) and verses
// start on a new line. Character spans nested inside another span use the
// \+ form. Attribute nodes are written as |name="value" before the closing
// marker of the node that holds them; a default attribute is written as a
// bare |value.
package usfm

import (
	"bytes"
	"fmt"

	"github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/usj"
)

// Generate renders doc as USFM. A node of unknown type fails with a
// *errors.SerializationError wrapping an *errors.UnsupportedError.
func Generate(doc *usj.Document) ([]byte, error) {
	if doc == nil {
		return nil, &errors.SerializationError{Format: "USFM", Err: fmt.Errorf("nil document")}
	}
	g := &generator{}
	if err := g.content(doc.Content, 0); err != nil {
		return nil, &errors.SerializationError{Format: "USFM", Err: err}
	}
	g.newline()
	return g.b.Bytes(), nil
}

type generator struct {
	b bytes.Buffer
}

// newline ends the current line, dropping blanks left at its end.
func (g *generator) newline() {
	g.b.Truncate(len(bytes.TrimRight(g.b.Bytes(), " ")))
	if g.b.Len() > 0 && !g.endsWith('\n') {
		g.b.WriteByte('\n')
	}
}

func (g *generator) endsWith(c byte) bool {
	b := g.b.Bytes()
	return len(b) > 0 && b[len(b)-1] == c
}

// open writes an opening marker followed by a space.
func (g *generator) open(marker string) {
	g.b.WriteString(`\` + marker + " ")
}

// content writes items. depth counts the character spans enclosing them.
func (g *generator) content(items []usj.Content, depth int) error {
	for _, item := range items {
		switch v := item.(type) {
		case usj.Text:
			g.b.WriteString(string(v))
		case *usj.Node:
			if err := g.node(v, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *generator) node(n *usj.Node, depth int) error {
	switch n.Type {
	case usj.TypeBook:
		g.newline()
		g.open(marker(n, "id"))
		g.b.WriteString(n.Code + " ")
		if err := g.content(n.Content, 0); err != nil {
			return err
		}
		g.newline()
	case usj.TypeChapter:
		g.newline()
		g.open(marker(n, "c"))
		g.b.WriteString(n.Number)
		g.newline()
		if n.AltNumber != "" {
			g.b.WriteString(`\ca ` + n.AltNumber + `\ca*`)
			g.newline()
		}
		if n.PubNumber != "" {
			g.b.WriteString(`\cp ` + n.PubNumber)
			g.newline()
		}
	case usj.TypeVerse:
		g.newline()
		g.open(marker(n, "v"))
		g.b.WriteString(n.Number + " ")
		if n.AltNumber != "" {
			g.b.WriteString(`\va ` + n.AltNumber + `\va* `)
		}
		if n.PubNumber != "" {
			g.b.WriteString(`\vp ` + n.PubNumber + `\vp* `)
		}
	case usj.TypePara:
		g.newline()
		g.open(n.Marker)
		if err := g.content(n.Content, 0); err != nil {
			return err
		}
	case usj.TypeChar:
		m := n.Marker
		if depth > 0 {
			m = "+" + m
		}
		return g.span(m, n, depth+1)
	case usj.TypeNote:
		g.open(n.Marker)
		g.b.WriteString(n.Caller + " ")
		if err := g.content(n.Content, 0); err != nil {
			return err
		}
		g.b.WriteString(`\` + n.Marker + `*`)
	case usj.TypeFigure:
		return g.span(marker(n, "fig"), n, 0)
	case usj.TypeMilestone:
		g.b.WriteString(`\` + n.Marker)
		attrs, _ := split(n.Content)
		if len(attrs) > 0 {
			g.b.WriteByte(' ')
			g.attributes(attrs)
		}
		g.b.WriteString(`\*`)
	case usj.TypeAttribute:
		g.attributes([]*usj.Node{n})
	case usj.TypeTable:
		return g.content(n.Content, 0)
	case usj.TypeRow:
		g.newline()
		g.open(marker(n, "tr"))
		if err := g.content(n.Content, 0); err != nil {
			return err
		}
	case usj.TypeCell:
		g.open(n.Marker)
		if err := g.content(n.Content, 0); err != nil {
			return err
		}
		if !g.endsWith(' ') {
			g.b.WriteByte(' ')
		}
	case usj.TypeSidebar:
		g.newline()
		g.b.WriteString(`\` + marker(n, "esb"))
		g.newline()
		if n.Category != "" {
			g.b.WriteString(`\cat ` + n.Category + `\cat*`)
			g.newline()
		}
		if err := g.content(n.Content, 0); err != nil {
			return err
		}
		g.newline()
		g.b.WriteString(`\esbe`)
		g.newline()
	case usj.TypeCategory:
		g.b.WriteString(`\cat ` + n.Category + `\cat*`)
	default:
		return errors.NewUnsupported("node type "+n.Type, "no USFM form")
	}
	return nil
}

// span writes a marker with content, attributes and a closing marker.
func (g *generator) span(m string, n *usj.Node, depth int) error {
	g.open(m)
	attrs, rest := split(n.Content)
	if err := g.content(rest, depth); err != nil {
		return err
	}
	if len(attrs) > 0 {
		g.attributes(attrs)
	}
	g.b.WriteString(`\` + m + `*`)
	return nil
}

func (g *generator) attributes(attrs []*usj.Node) {
	g.b.WriteByte('|')
	for i, a := range attrs {
		if i > 0 {
			g.b.WriteByte(' ')
		}
		name, value := a.Name, a.Value
		if name == "" {
			name = a.AttribName
		}
		if value == "" {
			value = a.AttribValue
		}
		if name == "" || name == "default" {
			g.b.WriteString(value)
			continue
		}
		fmt.Fprintf(&g.b, `%s="%s"`, name, value)
	}
}

// split separates attribute nodes from the rest of content.
func split(content []usj.Content) (attrs []*usj.Node, rest []usj.Content) {
	for _, c := range content {
		if n, ok := c.(*usj.Node); ok && n.Type == usj.TypeAttribute {
			attrs = append(attrs, n)
			continue
		}
		rest = append(rest, c)
	}
	return attrs, rest
}

func marker(n *usj.Node, fallback string) string {
	if n.Marker == "" {
		return fallback
	}
	return n.Marker
}
