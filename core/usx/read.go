package usx

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/usj"
)

// structural are the USX attributes that map to USJ fields. Any other
// attribute on a char, ms or figure element becomes an attribute node.
var structural = map[string]bool{
	"style": true, "closed": true, "code": true, "caller": true,
	"number": true, "altnumber": true, "pubnumber": true,
	"sid": true, "eid": true, "vid": true,
	"align": true, "category": true, "version": true, "status": true,
}

// ToDocument reads a USX tree, as returned by Parse, back into a USJ
// document. Verse and chapter end milestones (eid only) are dropped, as is
// indentation between elements. An element with no USJ counterpart fails
// with a *errors.ParseError wrapping an *errors.UnsupportedError.
func ToDocument(top *xmlquery.Node) (*usj.Document, error) {
	root := top
	if root == nil || root.Data != "usx" {
		root = xmlquery.FindOne(top, "//usx")
	}
	if root == nil {
		return nil, errors.NewParse("USX", "", "missing usx root element")
	}
	doc := usj.NewDocument()
	content, err := readContent(root)
	if err != nil {
		return nil, &errors.ParseError{Format: "USX", Message: "unsupported content", Err: err}
	}
	doc.Content = append(doc.Content, content...)
	return doc, nil
}

func readContent(parent *xmlquery.Node) ([]usj.Content, error) {
	var out []usj.Content
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			if strings.TrimSpace(c.Data) == "" && strings.ContainsAny(c.Data, "\r\n") {
				continue
			}
			out = append(out, usj.Text(c.Data))
		case xmlquery.ElementNode:
			n, err := readElement(c)
			if err != nil {
				return nil, err
			}
			if n != nil {
				out = append(out, n)
			}
		}
	}
	return out, nil
}

func readElement(el *xmlquery.Node) (*usj.Node, error) {
	style := el.SelectAttr("style")
	var n *usj.Node
	switch el.Data {
	case "book":
		n = usj.NewContainer(usj.TypeBook, style)
		n.Code = el.SelectAttr("code")
	case "chapter", "verse":
		if el.SelectAttr("number") == "" && el.SelectAttr("eid") != "" {
			return nil, nil
		}
		n = &usj.Node{
			Type:      el.Data,
			Marker:    style,
			Number:    el.SelectAttr("number"),
			Sid:       el.SelectAttr("sid"),
			AltNumber: el.SelectAttr("altnumber"),
			PubNumber: el.SelectAttr("pubnumber"),
		}
		return n, nil
	case "para", "char", "figure":
		n = usj.NewContainer(el.Data, style)
	case "ms":
		n = &usj.Node{Type: usj.TypeMilestone, Marker: style}
	case "note":
		n = usj.NewContainer(usj.TypeNote, style)
		n.Caller = el.SelectAttr("caller")
	case "table":
		n = usj.NewContainer(usj.TypeTable, "")
	case "row":
		n = usj.NewContainer(usj.TypeRow, style)
	case "cell":
		n = usj.NewContainer(usj.TypeCell, style)
		n.Align = el.SelectAttr("align")
	case "sidebar":
		n = usj.NewContainer(usj.TypeSidebar, style)
		n.Category = el.SelectAttr("category")
	case "category":
		return &usj.Node{Type: usj.TypeCategory, Marker: "cat", Category: strings.TrimSpace(el.InnerText())}, nil
	default:
		return nil, errors.NewUnsupported(fmt.Sprintf("USX element <%s>", el.Data), "no USJ node type")
	}

	content, err := readContent(el)
	if err != nil {
		return nil, err
	}
	if len(content) > 0 {
		n.Append(content...)
	}
	for _, a := range el.Attr {
		if structural[a.Name.Local] || a.Name.Space != "" {
			continue
		}
		n.Append(&usj.Node{Type: usj.TypeAttribute, Marker: "attribute", Name: a.Name.Local, Value: a.Value})
	}
	return n, nil
}
