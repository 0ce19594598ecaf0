package convert

import (
	"regexp"
	"strings"

	"github.com/FocuswithJustin/usj/core/extract"
	"github.com/FocuswithJustin/usj/core/syntax"
	"github.com/FocuswithJustin/usj/core/usj"
)

// paragraph handles the wrapper whose first child is the real paragraph
// element. Anything after that element belongs to the enclosing sequence.
func (w *walker) paragraph(n syntax.Node, out *[]usj.Content) traversal {
	children := syntax.Children(n)
	if len(children) == 0 {
		return consumed
	}
	w.dispatch(children[0], out)
	w.dispatchAll(children[1:], out)
	return consumed
}

// para emits a paragraph for a marker element such as \p or \q1. Inline
// children go into the paragraph; anything else is handed to out.
func (w *walker) para(n syntax.Node, out *[]usj.Content) traversal {
	marker, rest := w.styled(n)
	node := usj.NewContainer(usj.TypePara, marker)
	var outer []syntax.Node
	for _, child := range rest {
		if inline(child) {
			w.dispatch(child, &node.Content)
			continue
		}
		outer = append(outer, child)
	}
	*out = append(*out, node)
	w.dispatchAll(outer, out)
	return consumed
}

// inline reports whether n nests inside a paragraph's content.
func inline(n syntax.Node) bool {
	switch syntax.Classify(n.Kind()) {
	case syntax.CategoryText, syntax.CategoryInline, syntax.CategoryNote,
		syntax.CategoryVerse, syntax.CategoryBreak, syntax.CategoryMilestone,
		syntax.CategoryChar, syntax.CategoryAttribute, syntax.CategoryFigure,
		syntax.CategoryTag, syntax.CategoryNumbered,
		syntax.CategoryUnknown, syntax.CategoryError:
		return true
	}
	return false
}

func (w *walker) lineBreak(out *[]usj.Content) traversal {
	*out = append(*out, usj.NewContainer(usj.TypePara, "b"))
	return consumed
}

// char emits a character span. Nested spans (\+nd inside \wj) nest in the
// content of the enclosing span.
func (w *walker) char(n syntax.Node, out *[]usj.Content) traversal {
	marker, rest := w.styled(n)
	node := usj.NewContainer(usj.TypeChar, marker)
	w.dispatchAll(rest, &node.Content)
	*out = append(*out, node)
	return consumed
}

// lineBreak matches a line break inside a text run together with the
// blanks around it.
var lineBreak = regexp.MustCompile(`[ \t]*[\r\n]+[ \t]*`)

// text appends the node's text. Line breaks at either end are dropped and
// those inside the run become a single space. Whitespace-only text is
// dropped.
func (w *walker) text(n syntax.Node, out *[]usj.Content) traversal {
	raw, err := extract.Raw(w.src, n)
	if err != nil {
		w.diagnose(err)
		return consumed
	}
	text := lineBreak.ReplaceAllString(strings.Trim(raw, "\r\n"), " ")
	if strings.TrimSpace(text) == "" {
		return consumed
	}
	*out = append(*out, usj.Text(text))
	return consumed
}
