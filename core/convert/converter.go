// Package convert turns a USFM concrete syntax tree into a USJ document.
//
// A Converter is immutable and may be shared between goroutines. Every call
// to Convert walks the tree with its own walker, so chapter state never
// leaks between conversions.
package convert

import (
	"context"
	"time"

	"github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/syntax"
	"github.com/FocuswithJustin/usj/core/usj"
	"github.com/FocuswithJustin/usj/internal/logging"
)

// Options control a Converter.
type Options struct {
	// IgnoreErrors converts trees that contain ERROR or missing nodes
	// instead of failing with a *errors.SyntaxError.
	IgnoreErrors bool

	// LegacyAttributeFields writes attrib_name and attrib_value next to
	// name and value on attribute nodes.
	LegacyAttributeFields bool
}

// DefaultOptions returns strict syntax checking with legacy attribute
// fields on.
func DefaultOptions() Options {
	return Options{LegacyAttributeFields: true}
}

// Converter converts syntax trees to USJ documents.
type Converter struct {
	opts Options
}

// New returns a Converter with the given options.
func New(opts Options) *Converter {
	return &Converter{opts: opts}
}

// Options returns the converter's options.
func (c *Converter) Options() Options {
	return c.opts
}

// Result is the outcome of a conversion.
type Result struct {
	Document *usj.Document

	// Diagnostics lists the recoverable per-node problems met along the
	// way, each a *errors.MalformedNodeError or *errors.DecodeError.
	Diagnostics []error
}

// Convert walks tree and builds its USJ document. It fails only when there
// is no tree to walk, or when the tree reports syntax problems and
// IgnoreErrors is off.
func (c *Converter) Convert(ctx context.Context, tree *syntax.Tree) (*Result, error) {
	if tree == nil {
		return nil, &errors.MissingTreeError{Reason: "no tree supplied"}
	}
	if tree.Root == nil {
		return nil, &errors.MissingTreeError{Reason: "tree has no root node"}
	}
	if logging.GetConversionID(ctx) == "" {
		ctx = logging.WithConversionID(ctx, logging.NewConversionID())
	}

	if !c.opts.IgnoreErrors {
		if problems := syntax.Problems(tree); len(problems) > 0 {
			return nil, &errors.SyntaxError{Problems: problems}
		}
	}

	start := time.Now()
	logging.ConversionStarted(ctx, len(tree.Source), "root_kind", tree.Root.Kind())

	w := &walker{
		ctx:  ctx,
		opts: c.opts,
		src:  tree.Source,
		doc:  usj.NewDocument(),
	}
	w.dispatch(tree.Root, &w.doc.Content)

	logging.ConversionFinished(ctx, len(w.doc.Content), len(w.diagnostics), time.Since(start))
	return &Result{Document: w.doc, Diagnostics: w.diagnostics}, nil
}

// Convert converts tree with DefaultOptions.
func Convert(ctx context.Context, tree *syntax.Tree) (*Result, error) {
	return New(DefaultOptions()).Convert(ctx, tree)
}
