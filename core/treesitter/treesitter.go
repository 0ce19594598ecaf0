// Package treesitter adapts tree-sitter parse trees to syntax.Tree so they
// can be handed to the converter.
package treesitter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/syntax"
)

// Node wraps a tree-sitter node. The owning tree is kept alongside so the
// node stays valid for as long as any wrapper is reachable.
type Node struct {
	node *sitter.Node
	tree *sitter.Tree
}

func (n *Node) Kind() string      { return n.node.Type() }
func (n *Node) StartByte() uint32 { return n.node.StartByte() }
func (n *Node) EndByte() uint32   { return n.node.EndByte() }
func (n *Node) ChildCount() int   { return int(n.node.ChildCount()) }
func (n *Node) IsMissing() bool   { return n.node.IsMissing() }

func (n *Node) Child(i int) syntax.Node {
	c := n.node.Child(i)
	if c == nil {
		return nil
	}
	return &Node{node: c, tree: n.tree}
}

// Sitter returns the underlying tree-sitter node.
func (n *Node) Sitter() *sitter.Node {
	return n.node
}

// Wrap adapts an already parsed tree-sitter tree.
func Wrap(src []byte, tree *sitter.Tree) (*syntax.Tree, error) {
	if tree == nil {
		return nil, &errors.MissingTreeError{}
	}
	root := tree.RootNode()
	if root == nil {
		return nil, &errors.MissingTreeError{}
	}
	return &syntax.Tree{Source: src, Root: &Node{node: root, tree: tree}}, nil
}

// Parse parses src with lang and adapts the result.
func Parse(ctx context.Context, src []byte, lang *sitter.Language) (*syntax.Tree, error) {
	if lang == nil {
		return nil, errors.NewValidation("language", "no tree-sitter language given")
	}
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, &errors.ParseError{Format: "tree-sitter", Message: fmt.Sprintf("parse %d bytes", len(src)), Err: err}
	}
	return Wrap(src, tree)
}
