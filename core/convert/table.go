package convert

import (
	"strings"

	"github.com/FocuswithJustin/usj/core/syntax"
	"github.com/FocuswithJustin/usj/core/usj"
)

func (w *walker) table(n syntax.Node, out *[]usj.Content) traversal {
	node := usj.NewContainer(usj.TypeTable, "")
	w.dispatchAll(syntax.Children(n), &node.Content)
	*out = append(*out, node)
	return consumed
}

func (w *walker) row(n syntax.Node, out *[]usj.Content) traversal {
	node := usj.NewContainer(usj.TypeRow, "tr")
	w.dispatchAll(syntax.Children(n), &node.Content)
	*out = append(*out, node)
	return consumed
}

// cell emits a table cell. Right-aligned markers (tcr, thr) align to the end.
func (w *walker) cell(n syntax.Node, out *[]usj.Content) traversal {
	marker, rest := w.styled(n)
	node := usj.NewContainer(usj.TypeCell, marker)
	node.Align = usj.AlignStart
	if strings.Contains(marker, "r") {
		node.Align = usj.AlignEnd
	}
	w.dispatchAll(rest, &node.Content)
	*out = append(*out, node)
	return consumed
}
