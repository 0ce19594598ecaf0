// Package usx renders USJ documents as USX, the XML form of USFM.
//
// The tree is built with xmlquery so callers can run XPath over the result
// before writing it out. Attribute nodes in USJ content become XML
// attributes on the element that holds them.
package usx

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/usj"
)

// Version is the USX schema version written on the root element.
const Version = "3.1"

// defaultAttributes names the attribute an unnamed USFM attribute stands
// for, by marker.
var defaultAttributes = map[string]string{
	"w":   "lemma",
	"rb":  "gloss",
	"xt":  "link-href",
	"fig": "src",
}

var xmlName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9._:-]*$`)

// FromDocument builds the USX tree for doc. The returned node is a document
// node holding the XML declaration and the usx root element.
func FromDocument(doc *usj.Document) (*xmlquery.Node, error) {
	if doc == nil {
		return nil, &errors.SerializationError{Format: "USX", Err: fmt.Errorf("nil document")}
	}
	top := &xmlquery.Node{Type: xmlquery.DocumentNode}
	decl := &xmlquery.Node{Type: xmlquery.DeclarationNode, Data: "xml"}
	xmlquery.AddAttr(decl, "version", "1.0")
	xmlquery.AddAttr(decl, "encoding", "utf-8")
	xmlquery.AddChild(top, decl)

	root := element("usx")
	xmlquery.AddAttr(root, "version", Version)
	xmlquery.AddChild(top, root)

	if err := appendContent(root, "", doc.Content); err != nil {
		return nil, &errors.SerializationError{Format: "USX", Err: err}
	}
	return top, nil
}

// Marshal renders doc as USX text. A non-empty indent produces indented
// output.
func Marshal(doc *usj.Document, indent string) ([]byte, error) {
	top, err := FromDocument(doc)
	if err != nil {
		return nil, err
	}
	opts := []xmlquery.OutputOption{xmlquery.WithEmptyTagSupport()}
	if indent != "" {
		opts = append(opts, xmlquery.WithIndentation(indent))
	}
	var buf bytes.Buffer
	if err := top.WriteWithOptions(&buf, opts...); err != nil {
		return nil, &errors.SerializationError{Format: "USX", Err: err}
	}
	return buf.Bytes(), nil
}

// Parse reads USX text back into an xmlquery tree.
func Parse(data []byte) (*xmlquery.Node, error) {
	top, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &errors.ParseError{Format: "USX", Message: "malformed XML", Err: err}
	}
	if xmlquery.FindOne(top, "/usx") == nil {
		return nil, errors.NewParse("USX", "", "missing usx root element")
	}
	return top, nil
}

func element(name string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.ElementNode, Data: name}
}

func appendContent(parent *xmlquery.Node, parentMarker string, content []usj.Content) error {
	for _, c := range content {
		switch v := c.(type) {
		case usj.Text:
			xmlquery.AddChild(parent, &xmlquery.Node{Type: xmlquery.TextNode, Data: string(v)})
		case *usj.Node:
			if v.Type == usj.TypeAttribute {
				if err := setAttribute(parent, parentMarker, v); err != nil {
					return err
				}
				continue
			}
			el, err := nodeElement(v)
			if err != nil {
				return err
			}
			xmlquery.AddChild(parent, el)
			if err := appendContent(el, v.Marker, v.Content); err != nil {
				return err
			}
		}
	}
	return nil
}

func nodeElement(n *usj.Node) (*xmlquery.Node, error) {
	var el *xmlquery.Node
	switch n.Type {
	case usj.TypeBook:
		el = element("book")
		xmlquery.AddAttr(el, "code", n.Code)
		xmlquery.AddAttr(el, "style", n.Marker)
	case usj.TypeChapter, usj.TypeVerse:
		el = element(n.Type)
		xmlquery.AddAttr(el, "number", n.Number)
		xmlquery.AddAttr(el, "style", n.Marker)
		optional(el, "altnumber", n.AltNumber)
		optional(el, "pubnumber", n.PubNumber)
		optional(el, "sid", n.Sid)
	case usj.TypePara, usj.TypeChar, usj.TypeMilestone, usj.TypeFigure:
		el = element(n.Type)
		xmlquery.AddAttr(el, "style", n.Marker)
	case usj.TypeNote:
		el = element("note")
		xmlquery.AddAttr(el, "caller", n.Caller)
		xmlquery.AddAttr(el, "style", n.Marker)
	case usj.TypeTable:
		el = element("table")
	case usj.TypeRow:
		el = element("row")
		xmlquery.AddAttr(el, "style", n.Marker)
	case usj.TypeCell:
		el = element("cell")
		xmlquery.AddAttr(el, "style", n.Marker)
		optional(el, "align", n.Align)
	case usj.TypeSidebar:
		el = element("sidebar")
		xmlquery.AddAttr(el, "style", n.Marker)
		optional(el, "category", n.Category)
	case usj.TypeCategory:
		el = element("category")
		xmlquery.AddChild(el, &xmlquery.Node{Type: xmlquery.TextNode, Data: n.Category})
	default:
		return nil, errors.NewUnsupported("node type "+n.Type, "no USX element")
	}
	return el, nil
}

func optional(el *xmlquery.Node, key, value string) {
	if value != "" {
		xmlquery.AddAttr(el, key, value)
	}
}

func setAttribute(el *xmlquery.Node, marker string, attr *usj.Node) error {
	name := attr.Name
	if name == "" {
		name = attr.AttribName
	}
	if name == "" || name == "default" {
		name = defaultAttributes[strings.TrimSuffix(marker, "-s")]
		if name == "" {
			name = "default"
		}
	}
	if !xmlName.MatchString(name) {
		return fmt.Errorf("invalid attribute name %q on %s", name, marker)
	}
	value := attr.Value
	if value == "" {
		value = attr.AttribValue
	}
	el.SetAttr(name, value)
	return nil
}
