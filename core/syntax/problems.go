package syntax

import (
	"fmt"
	"strings"
)

// Problems lists ERROR and parser-inserted (missing) nodes in t, in
// document order, formatted as "At <row>:<col>, Error: ...".
func Problems(t *Tree) []string {
	if t == nil || t.Root == nil {
		return nil
	}
	var out []string
	var walk func(n Node)
	walk = func(n Node) {
		row, col := Position(t.Source, n.StartByte())
		if m, ok := n.(MissingNode); ok && m.IsMissing() {
			out = append(out, fmt.Sprintf("At %d:%d, Error: Missing %s", row, col, n.Kind()))
		} else if Classify(n.Kind()) == CategoryError {
			text := strings.TrimSpace(string(t.Bytes(n)))
			out = append(out, fmt.Sprintf("At %d:%d, Error: %s", row, col, text))
		}
		for _, c := range Children(n) {
			walk(c)
		}
	}
	walk(t.Root)
	return out
}
