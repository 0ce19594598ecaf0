package convert

import (
	"github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/extract"
	"github.com/FocuswithJustin/usj/core/syntax"
	"github.com/FocuswithJustin/usj/core/usj"
)

// note emits a footnote or cross reference. The child after the marker tag
// is the caller glyph; the rest is note content. A closing tag in the
// caller's place means the caller is missing.
func (w *walker) note(n syntax.Node, out *[]usj.Content) traversal {
	marker, rest := w.styled(n)
	node := usj.NewContainer(usj.TypeNote, marker)
	if len(rest) == 0 || syntax.Classify(rest[0].Kind()) == syntax.CategoryTag {
		w.diagnose(errors.NewMalformed(n.Kind(), "caller", n.StartByte()))
		w.dispatchAll(rest, &node.Content)
	} else {
		caller, err := extract.Text(w.src, rest[0])
		if err != nil {
			w.diagnose(err)
		}
		node.Caller = caller
		w.dispatchAll(rest[1:], &node.Content)
	}
	*out = append(*out, node)
	return consumed
}
