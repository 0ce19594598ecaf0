package convert

import (
	"context"
	"strings"

	"github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/extract"
	"github.com/FocuswithJustin/usj/core/syntax"
	"github.com/FocuswithJustin/usj/core/usj"
	"github.com/FocuswithJustin/usj/internal/logging"
)

// traversal tells dispatch whether a handler already took care of a node's
// children.
type traversal int

const (
	descend  traversal = iota // visit every child into the same sequence
	consumed                  // children were handled, or are fields
)

// walker is the per-conversion state.
type walker struct {
	ctx         context.Context
	opts        Options
	src         []byte
	doc         *usj.Document
	chapters    ConversionContext
	diagnostics []error
}

// dispatch appends whatever n converts to onto out.
func (w *walker) dispatch(n syntax.Node, out *[]usj.Content) {
	var t traversal
	switch syntax.Classify(n.Kind()) {
	case syntax.CategoryBook:
		t = w.book(n, out)
	case syntax.CategoryChapter:
		t = w.chapter(n, out)
	case syntax.CategoryVerse:
		t = w.verse(n, out)
	case syntax.CategoryParagraph:
		t = w.paragraph(n, out)
	case syntax.CategoryParaMarker:
		t = w.para(n, out)
	case syntax.CategoryBreak:
		t = w.lineBreak(out)
	case syntax.CategoryChar:
		t = w.char(n, out)
	case syntax.CategoryNote:
		t = w.note(n, out)
	case syntax.CategoryTable:
		t = w.table(n, out)
	case syntax.CategoryRow:
		t = w.row(n, out)
	case syntax.CategoryCell:
		t = w.cell(n, out)
	case syntax.CategoryMilestone:
		t = w.milestone(n, out)
	case syntax.CategoryAttribute:
		t = w.attribute(n, out)
	case syntax.CategorySidebar:
		t = w.sidebar(n, out)
	case syntax.CategoryFigure:
		t = w.figure(n, out)
	case syntax.CategoryCategory:
		t = w.category(n, out)
	case syntax.CategoryText:
		t = w.text(n, out)
	case syntax.CategoryTag, syntax.CategoryNumbered:
		t = consumed
	default:
		// Block, Inline, Error and Unknown are transparent containers.
		t = descend
	}
	if t == descend {
		w.dispatchAll(syntax.Children(n), out)
	}
}

func (w *walker) dispatchAll(children []syntax.Node, out *[]usj.Content) {
	for _, c := range children {
		w.dispatch(c, out)
	}
}

// diagnose records a recoverable problem.
func (w *walker) diagnose(err error) {
	w.diagnostics = append(w.diagnostics, err)
	logging.Diagnostic(w.ctx, err)
}

// lookup returns the text bound to name, recording decode failures.
func (w *walker) lookup(b extract.Bindings, name string) (string, bool) {
	text, ok, err := b.Lookup(w.src, name)
	if err != nil {
		w.diagnose(err)
		return "", false
	}
	return text, ok && text != ""
}

// required is lookup for a capture the node cannot do without. A capture
// bound to an empty node, such as a parser-inserted missing number, is
// recorded the same way as one that did not bind.
func (w *walker) required(b extract.Bindings, name string, n syntax.Node) (string, bool) {
	text, ok, err := b.Lookup(w.src, name)
	if err != nil {
		w.diagnose(err)
		return "", false
	}
	if ok && text == "" {
		w.diagnose(errors.NewMalformed(n.Kind(), name, n.StartByte()))
		return "", false
	}
	return text, ok
}

// match runs p against n, recording a missing required capture.
func (w *walker) match(p *extract.Pattern, n syntax.Node) extract.Bindings {
	b, err := p.Match(w.src, n)
	if err != nil {
		w.diagnose(err)
	}
	return b
}

// styled splits the children of a marker element into its marker name and
// the children that remain content. The marker comes from a leading tag
// child when there is one, else from the node kind; a numbered child right
// after the tag is appended to it, so \q followed by 1 reads q1.
func (w *walker) styled(n syntax.Node) (marker string, rest []syntax.Node) {
	children := syntax.Children(n)
	marker = strings.TrimSuffix(n.Kind(), "Nested")
	if len(children) > 0 && syntax.Classify(children[0].Kind()) == syntax.CategoryTag {
		tag := children[0]
		raw, err := extract.Raw(w.src, tag)
		if err != nil {
			w.diagnose(err)
		}
		if name := markerName(raw); name != "" {
			marker = name
		} else if name := markerName(tag.Kind()); name != "" && strings.HasPrefix(tag.Kind(), `\`) {
			marker = name
		}
		children = children[1:]
	}
	if len(children) > 0 && syntax.Classify(children[0].Kind()) == syntax.CategoryNumbered {
		if num, err := extract.Text(w.src, children[0]); err != nil {
			w.diagnose(err)
		} else {
			marker += num
		}
		children = children[1:]
	}
	return marker, children
}
