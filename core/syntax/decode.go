package syntax

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/FocuswithJustin/usj/core/errors"
)

// DecodeTree reads a serialized syntax tree for src. The expected shape is
// the one Element marshals to:
//
//	{"type": "File", "start": 0, "end": 42, "children": [...]}
//
// which is what a tree-sitter binding produces by walking each node's type,
// start index, end index and children.
func DecodeTree(src []byte, r io.Reader) (*Tree, error) {
	var root Element
	dec := json.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		perr := errors.NewParse("syntax tree", "", err.Error())
		perr.Err = err
		return nil, perr
	}
	if root.Type == "" {
		return nil, &errors.MissingTreeError{Reason: "serialized tree has no root type"}
	}
	if err := checkRanges(&root, uint32(len(src))); err != nil {
		return nil, err
	}
	return &Tree{Source: src, Root: &root}, nil
}

// EncodeTree writes root in the form DecodeTree reads.
func EncodeTree(w io.Writer, root *Element) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(root); err != nil {
		return &errors.SerializationError{Format: "syntax tree", Err: err}
	}
	return nil
}

func checkRanges(e *Element, limit uint32) error {
	if e.End < e.Start || e.End > limit {
		return errors.NewParse("syntax tree", "",
			fmt.Sprintf("%s node has range [%d:%d] outside source of %d bytes", e.Type, e.Start, e.End, limit))
	}
	for _, c := range e.Children {
		if c == nil {
			return errors.NewParse("syntax tree", "", fmt.Sprintf("%s node has a null child", e.Type))
		}
		if err := checkRanges(c, limit); err != nil {
			return err
		}
	}
	return nil
}
