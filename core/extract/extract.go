// Package extract pulls named structural children out of syntax nodes.
//
// A Pattern is a set of named captures, each an XPath location path
// evaluated relative to the node being converted, for example
//
//	extract.MustCompile("c",
//		extract.Capture{Name: "number", Path: "chapterNumber"},
//		extract.Capture{Name: "alt", Path: "ca/chapterNumber", Optional: true},
//	)
//
// Patterns are compiled once and are safe for concurrent use.
package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/syntax"
)

// Capture names one structural child of a node.
type Capture struct {
	Name     string
	Path     string // XPath relative to the matched node
	Optional bool
}

type compiled struct {
	Capture
	expr *xpath.Expr
}

// Pattern extracts a fixed set of captures from nodes of one kind.
type Pattern struct {
	kind     string
	captures []compiled
}

// Compile builds a Pattern for nodes of the given kind.
func Compile(kind string, captures ...Capture) (*Pattern, error) {
	p := &Pattern{kind: kind}
	seen := make(map[string]bool, len(captures))
	for _, c := range captures {
		if c.Name == "" {
			return nil, errors.NewValidation("capture", fmt.Sprintf("capture for %q has no name", c.Path))
		}
		if seen[c.Name] {
			return nil, errors.NewValidation("capture", fmt.Sprintf("duplicate capture %q", c.Name))
		}
		seen[c.Name] = true
		expr, err := xpath.Compile(c.Path)
		if err != nil {
			perr := errors.NewParse("capture path", "", fmt.Sprintf("%s: %v", c.Path, err))
			perr.Err = err
			return nil, perr
		}
		p.captures = append(p.captures, compiled{Capture: c, expr: expr})
	}
	return p, nil
}

// MustCompile is like Compile but panics on error. It is meant for
// package-level pattern tables.
func MustCompile(kind string, captures ...Capture) *Pattern {
	p, err := Compile(kind, captures...)
	if err != nil {
		panic(err)
	}
	return p
}

// Bindings maps capture names to the first node each path selected.
type Bindings map[string]syntax.Node

// Match evaluates every capture against n. Missing optional captures are
// simply absent from the result. The first missing required capture is
// reported as a *errors.MalformedNodeError, but the bindings that were
// found are still returned so callers can emit a partial node.
func (p *Pattern) Match(src []byte, n syntax.Node) (Bindings, error) {
	b := make(Bindings, len(p.captures))
	var firstErr error
	for _, c := range p.captures {
		if found := First(c.expr, src, n); found != nil {
			b[c.Name] = found
			continue
		}
		if !c.Optional && firstErr == nil {
			firstErr = errors.NewMalformed(n.Kind(), c.Name, n.StartByte())
		}
	}
	return b, firstErr
}

// Select returns every node the compiled expression selects under n, in
// document order.
func Select(expr *xpath.Expr, src []byte, n syntax.Node) []syntax.Node {
	var out []syntax.Node
	iter := expr.Select(syntax.NewNavigator(src, n))
	for iter.MoveNext() {
		out = append(out, iter.Current().(*syntax.Navigator).Current())
	}
	return out
}

// First returns the first node expr selects under n, or nil.
func First(expr *xpath.Expr, src []byte, n syntax.Node) syntax.Node {
	iter := expr.Select(syntax.NewNavigator(src, n))
	if !iter.MoveNext() {
		return nil
	}
	return iter.Current().(*syntax.Navigator).Current()
}

// Text returns the whitespace-trimmed source text of n. A byte range that
// is not valid UTF-8 yields a *errors.DecodeError.
func Text(src []byte, n syntax.Node) (string, error) {
	raw := syntax.Slice(src, n)
	if !utf8.Valid(raw) {
		return "", errors.NewDecode(n.Kind(), n.StartByte(), n.EndByte())
	}
	return strings.TrimSpace(string(raw)), nil
}

// Raw is like Text without trimming.
func Raw(src []byte, n syntax.Node) (string, error) {
	raw := syntax.Slice(src, n)
	if !utf8.Valid(raw) {
		return "", errors.NewDecode(n.Kind(), n.StartByte(), n.EndByte())
	}
	return string(raw), nil
}

// Lookup returns the trimmed text of a bound capture. ok is false when the
// capture did not bind.
func (b Bindings) Lookup(src []byte, name string) (text string, ok bool, err error) {
	n := b[name]
	if n == nil {
		return "", false, nil
	}
	text, err = Text(src, n)
	return text, err == nil, err
}
