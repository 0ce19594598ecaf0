package convert

import (
	"github.com/FocuswithJustin/usj/core/syntax"
	"github.com/FocuswithJustin/usj/core/usj"
)

// sidebar emits an extended study sidebar. A leading \cat moves into the
// category field instead of the content.
func (w *walker) sidebar(n syntax.Node, out *[]usj.Content) traversal {
	b := w.match(sidebarPattern, n)
	node := usj.NewContainer(usj.TypeSidebar, "esb")
	node.Category, _ = w.lookup(b, "category")

	for _, child := range syntax.Children(n) {
		if node.Category != "" && syntax.Classify(child.Kind()) == syntax.CategoryCategory {
			continue
		}
		w.dispatch(child, &node.Content)
	}
	*out = append(*out, node)
	return consumed
}

func (w *walker) figure(n syntax.Node, out *[]usj.Content) traversal {
	marker, rest := w.styled(n)
	node := usj.NewContainer(usj.TypeFigure, marker)
	w.dispatchAll(rest, &node.Content)
	*out = append(*out, node)
	return consumed
}

func (w *walker) category(n syntax.Node, out *[]usj.Content) traversal {
	b := w.match(categoryPattern, n)
	if text, ok := w.lookup(b, "category"); ok {
		*out = append(*out, &usj.Node{Type: usj.TypeCategory, Marker: "cat", Category: text})
	}
	return consumed
}
