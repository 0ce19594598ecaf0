// Package filter keeps or removes USJ nodes by marker.
//
// Markers are compared without their trailing level digits, so "q" selects
// q1, q2 and so on, and "toc" selects toc1 to toc3. Nodes without a marker
// (tables) are selected by type. When a node is filtered out its content is
// normally lifted into the parent; for markers whose content means nothing
// on its own (headers, titles, notes, figures, milestones) the content goes
// with it.
package filter

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/FocuswithJustin/usj/core/usj"
)

// TextInExcludedParent is a pseudo-marker for plain text whose enclosing
// node was filtered out. KeepOnly keeps such text only when it is listed;
// Remove drops it only when it is listed.
const TextInExcludedParent = "text-in-excluded-parent"

// Marker groups.
var (
	BookHeaders = []string{"ide", "usfm", "h", "toc", "toca",
		"imt", "is", "ip", "ipi", "im", "imi", "ipq", "imq", "ipr", "iq", "ib",
		"ili", "iot", "io", "iex", "imte", "ie"}
	Titles     = []string{"mt", "mte", "cl", "cd", "ms", "mr", "s", "sr", "r", "d", "sp", "sd"}
	Comments   = []string{"sts", "rem", "lit", "restore"}
	Paragraphs = []string{"p", "m", "po", "pr", "cls", "pmo", "pm", "pmc",
		"pmr", "pi", "mi", "nb", "pc", "ph", "q", "qr", "qc", "qa", "qm", "qd",
		"lh", "li", "lf", "lim", "litl", "tr", "tc", "th", "tcr", "thr", "tcc", "table", "b"}
	Characters = []string{"add", "bk", "dc", "ior", "iqt", "k", "litl", "nd",
		"ord", "pn", "png", "qac", "qs", "qt", "rq", "sig", "sls", "tl", "wj",
		"em", "bd", "bdit", "it", "no", "sc", "sup", "rb", "pro", "w", "wh",
		"wa", "wg", "lik", "liv", "jmp"}
	Notes      = []string{"f", "fe", "ef", "efe", "x", "ex"}
	StudyBible = []string{"esb", "cat"}
	BCV        = []string{"id", "c", "v"}
	Text       = []string{TextInExcludedParent}
)

// discardable markers take their content with them when filtered out.
var discardable = toSet(slices.Concat(
	BookHeaders, Titles, Comments, Notes, StudyBible,
	[]string{"fig", "b"},
))

// KeepOnly returns a copy of doc holding only nodes whose marker is in
// markers. With combineTexts, adjacent text runs left next to each other
// are merged.
func KeepOnly(doc *usj.Document, markers []string, combineTexts bool) *usj.Document {
	keep := toSet(markers)
	f := &filter{
		selected:  func(m string) bool { return keep[m] },
		keepText:  keep[TextInExcludedParent],
		combine:   combineTexts,
		retaining: true,
	}
	return f.document(doc)
}

// Remove returns a copy of doc without the nodes whose marker is in
// markers.
func Remove(doc *usj.Document, markers []string, combineTexts bool) *usj.Document {
	drop := toSet(markers)
	f := &filter{
		selected: func(m string) bool { return drop[m] },
		keepText: !drop[TextInExcludedParent],
		combine:  combineTexts,
	}
	return f.document(doc)
}

type filter struct {
	selected  func(marker string) bool
	keepText  bool
	combine   bool
	retaining bool // selected means keep rather than drop
}

func (f *filter) document(doc *usj.Document) *usj.Document {
	out := usj.NewDocument()
	if doc == nil {
		return out
	}
	out.Type, out.Version = doc.Type, doc.Version
	out.Content = f.content(doc.Content, false)
	if out.Content == nil {
		out.Content = []usj.Content{}
	}
	return out
}

func (f *filter) content(items []usj.Content, parentExcluded bool) []usj.Content {
	var out []usj.Content
	for _, item := range items {
		switch v := item.(type) {
		case usj.Text:
			if parentExcluded && !f.keepText {
				continue
			}
			out = append(out, v)
		case *usj.Node:
			out = append(out, f.node(v)...)
		}
	}
	if f.combine {
		out = combine(out)
	}
	return out
}

func (f *filter) node(n *usj.Node) []usj.Content {
	marker := Marker(n)
	keep := f.selected(marker) == f.retaining

	var kids []usj.Content
	if keep || !discards(n, marker) {
		kids = f.content(n.Content, !keep)
	}
	if !keep {
		return kids
	}
	cp := *n
	cp.Content = nil
	if n.Content != nil {
		cp.Content = kids
		if cp.Content == nil {
			cp.Content = []usj.Content{}
		}
	}
	return []usj.Content{&cp}
}

func discards(n *usj.Node, marker string) bool {
	return discardable[marker] || n.Type == usj.TypeMilestone || n.Type == usj.TypeAttribute
}

// Marker returns the marker a node is filtered by: its marker, or its type
// when it has none, without trailing digits.
func Marker(n *usj.Node) string {
	m := n.Marker
	if m == "" {
		m = n.Type
	}
	trimmed := strings.TrimRightFunc(m, unicode.IsDigit)
	if trimmed == "" {
		return m
	}
	return trimmed
}

// combine merges adjacent text runs. A space is put between runs that would
// otherwise run two words together.
func combine(items []usj.Content) []usj.Content {
	out := make([]usj.Content, 0, len(items))
	for _, item := range items {
		t, ok := item.(usj.Text)
		if ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(usj.Text); ok {
				out[len(out)-1] = joinText(prev, t)
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

func joinText(a, b usj.Text) usj.Text {
	if a == "" || b == "" {
		return a + b
	}
	last, _ := utf8.DecodeLastRuneInString(string(a))
	first, _ := utf8.DecodeRuneInString(string(b))
	if unicode.IsSpace(last) || unicode.IsSpace(first) {
		return a + b
	}
	return a + " " + b
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
