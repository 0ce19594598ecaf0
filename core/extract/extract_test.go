package extract

import (
	"errors"
	"testing"

	"github.com/antchfx/xpath"

	usjerrors "github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/syntax"
)

var versePattern = MustCompile("v",
	Capture{Name: "number", Path: "verseNumber"},
	Capture{Name: "alt", Path: "va/verseNumber", Optional: true},
	Capture{Name: "pub", Path: "vp/text", Optional: true},
)

func TestMatch(t *testing.T) {
	b := syntax.NewBuilder()
	v := b.Node("v",
		b.Leaf(`\v`, `\v `),
		b.Leaf("verseNumber", "5 "),
		b.Node("vp", b.Leaf(`\vp`, `\vp `), b.Leaf("text", "5a"), b.Leaf(`\vp*`, `\vp*`)),
	)
	tree := b.Tree(v)

	got, err := versePattern.Match(tree.Source, v)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if got["alt"] != nil {
		t.Error("alt should not bind")
	}

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"number", "5", true},
		{"pub", "5a", true},
		{"alt", "", false},
	}
	for _, tt := range tests {
		text, ok, err := got.Lookup(tree.Source, tt.name)
		if err != nil {
			t.Fatalf("Lookup(%q) error = %v", tt.name, err)
		}
		if text != tt.want || ok != tt.wantOK {
			t.Errorf("Lookup(%q) = %q, %v, want %q, %v", tt.name, text, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMatchMissingRequired(t *testing.T) {
	b := syntax.NewBuilder()
	v := b.Node("v", b.Leaf(`\v`, `\v `), b.Node("va", b.Leaf("verseNumber", "2")))
	tree := b.Tree(v)

	got, err := versePattern.Match(tree.Source, v)
	var malformed *usjerrors.MalformedNodeError
	if !errors.As(err, &malformed) {
		t.Fatalf("Match() error = %v, want MalformedNodeError", err)
	}
	if malformed.Kind != "v" || malformed.Field != "number" {
		t.Errorf("MalformedNodeError = %+v", malformed)
	}
	if got["alt"] == nil {
		t.Error("partial bindings should still include alt")
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name     string
		captures []Capture
		want     error
	}{
		{"unnamed", []Capture{{Path: "text"}}, usjerrors.ErrInvalidInput},
		{"duplicate", []Capture{{Name: "a", Path: "text"}, {Name: "a", Path: "tag"}}, usjerrors.ErrInvalidInput},
		{"bad path", []Capture{{Name: "a", Path: "text[["}}, usjerrors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile("x", tt.captures...); !errors.Is(err, tt.want) {
				t.Errorf("Compile() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile should panic on a bad path")
		}
	}()
	MustCompile("x", Capture{Name: "a", Path: "(("})
}

func TestSelect(t *testing.T) {
	b := syntax.NewBuilder()
	ms := b.Node("milestone",
		b.Leaf("milestoneStartTag", `\qt-s`),
		b.Node("attribute", b.Leaf("attributeName", "sid"), b.Leaf("attributeValue", "a")),
		b.Node("attribute", b.Leaf("attributeName", "who"), b.Leaf("attributeValue", "b")),
	)
	tree := b.Tree(ms)

	attrs := Select(xpath.MustCompile("attribute"), tree.Source, ms)
	if len(attrs) != 2 {
		t.Fatalf("Select() returned %d nodes, want 2", len(attrs))
	}
	if got := First(xpath.MustCompile("attribute/attributeValue"), tree.Source, ms); got == nil || string(tree.Bytes(got)) != "a" {
		t.Errorf("First() = %v", got)
	}
	if got := First(xpath.MustCompile("zSpaceTag"), tree.Source, ms); got != nil {
		t.Errorf("First() = %v, want nil", got)
	}
}

func TestTextDecodeError(t *testing.T) {
	src := []byte{'a', 0xff, 'b'}
	n := &syntax.Element{Type: "text", Start: 0, End: 3}
	if _, err := Text(src, n); !errors.Is(err, usjerrors.ErrTextDecode) {
		t.Errorf("Text() error = %v, want ErrTextDecode", err)
	}
	if _, err := Raw(src, n); !errors.Is(err, usjerrors.ErrTextDecode) {
		t.Errorf("Raw() error = %v, want ErrTextDecode", err)
	}

	src = []byte("  spaced \n")
	n = &syntax.Element{Type: "text", Start: 0, End: uint32(len(src))}
	if got, _ := Text(src, n); got != "spaced" {
		t.Errorf("Text() = %q, want %q", got, "spaced")
	}
	if got, _ := Raw(src, n); got != "  spaced \n" {
		t.Errorf("Raw() = %q", got)
	}
}
