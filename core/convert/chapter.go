package convert

import (
	"github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/syntax"
	"github.com/FocuswithJustin/usj/core/usj"
)

func (w *walker) book(n syntax.Node, out *[]usj.Content) traversal {
	b := w.match(bookPattern, n)
	node := usj.NewContainer(usj.TypeBook, "id")
	node.Code, _ = w.required(b, "code", n)
	if desc, ok := w.lookup(b, "description"); ok {
		node.Append(usj.Text(desc))
	}
	*out = append(*out, node)
	return consumed
}

// chapter handles both the chapter wrapper, whose first c child carries the
// number and whose other children are the chapter's content, and a bare c.
func (w *walker) chapter(n syntax.Node, out *[]usj.Content) traversal {
	if n.Kind() == "c" {
		w.chapterMarker(n, out)
		return consumed
	}
	var c syntax.Node
	var rest []syntax.Node
	for _, child := range syntax.Children(n) {
		if c == nil && child.Kind() == "c" {
			c = child
			continue
		}
		rest = append(rest, child)
	}
	if c == nil {
		w.diagnose(errors.NewMalformed(n.Kind(), "c", n.StartByte()))
	} else {
		w.chapterMarker(c, out)
	}
	w.dispatchAll(rest, out)
	return consumed
}

func (w *walker) chapterMarker(c syntax.Node, out *[]usj.Content) {
	b := w.match(chapterPattern, c)
	number, ok := w.required(b, "number", c)
	if !ok {
		w.chapters.ClearChapter()
		return
	}
	w.chapters.SetChapter(number)

	node := &usj.Node{
		Type:   usj.TypeChapter,
		Marker: "c",
		Number: number,
		Sid:    w.bookCode() + " " + number,
	}
	node.AltNumber, _ = w.lookup(b, "alt")
	node.PubNumber, _ = w.lookup(b, "pub")
	*out = append(*out, node)
}

// bookCode returns the code of the most recent book node in the document's
// top-level content.
func (w *walker) bookCode() string {
	content := w.doc.Content
	for i := len(content) - 1; i >= 0; i-- {
		if n, ok := content[i].(*usj.Node); ok && n.Type == usj.TypeBook {
			return n.Code
		}
	}
	return ""
}

func (w *walker) verse(n syntax.Node, out *[]usj.Content) traversal {
	b := w.match(versePattern, n)
	number, ok := w.required(b, "number", n)
	if !ok {
		return consumed
	}
	node := &usj.Node{
		Type:   usj.TypeVerse,
		Marker: "v",
		Number: number,
		Sid:    w.chapters.verseChapter() + ":" + number,
	}
	node.AltNumber, _ = w.lookup(b, "alt")
	node.PubNumber, _ = w.lookup(b, "pub")
	*out = append(*out, node)
	return consumed
}
