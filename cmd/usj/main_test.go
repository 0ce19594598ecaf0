package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/syntax"
	"github.com/FocuswithJustin/usj/core/usj"
)

// Test helper functions

func testGlobals(format string) *Globals {
	return &Globals{LogLevel: "error", LogFormat: "text", Format: format}
}

func sampleTree() *syntax.Tree {
	b := syntax.NewBuilder()
	root := b.Node("File",
		b.Node("book",
			b.Node("id", b.Leaf(`\id`, `\id `), b.Leaf("bookcode", "GEN"), b.Space("\n")),
		),
		b.Node("chapter",
			b.Node("c", b.Leaf(`\c`, `\c `), b.Leaf("chapterNumber", "1"), b.Space("\n")),
			b.Node("paragraph",
				b.Node("p", b.Leaf(`\p`, `\p`), b.Space("\n"),
					b.Node("v", b.Leaf(`\v`, `\v `), b.Leaf("verseNumber", "1"), b.Space(" ")),
					b.Node("verseText", b.Leaf("text", "In the beginning\n")),
				),
			),
		),
	)
	return b.Tree(root)
}

// writeInputs writes the sample source and tree under dir as name.usfm and
// name.tree.json, compressing the tree with xz when compress is set.
func writeInputs(t *testing.T, dir, name string, compress bool) (string, string) {
	t.Helper()
	tree := sampleTree()
	source := filepath.Join(dir, name+".usfm")
	if err := os.WriteFile(source, tree.Source, 0644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	treePath := filepath.Join(dir, name+".tree.json")
	if compress {
		treePath += ".xz"
	}
	f, err := os.Create(treePath)
	if err != nil {
		t.Fatalf("failed to create tree file: %v", err)
	}
	defer f.Close()

	if compress {
		w, err := xz.NewWriter(f)
		if err != nil {
			t.Fatalf("xz.NewWriter() error = %v", err)
		}
		if err := syntax.EncodeTree(w, tree.Root.(*syntax.Element)); err != nil {
			t.Fatalf("EncodeTree() error = %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("xz close error = %v", err)
		}
	} else if err := syntax.EncodeTree(f, tree.Root.(*syntax.Element)); err != nil {
		t.Fatalf("EncodeTree() error = %v", err)
	}
	return source, treePath
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// Tests for ConvertCmd

func TestConvertCmd_Run(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		compress bool
		contains []string
	}{
		{
			name:   "json",
			format: "json",
			contains: []string{
				`{"type":"USJ","version":"3.1","content":[`,
				`"sid":"GEN 1"`,
				`"In the beginning"`,
			},
		},
		{
			name:     "json from xz tree",
			format:   "json",
			compress: true,
			contains: []string{`"sid":"1:1"`},
		},
		{
			name:     "usx",
			format:   "usx",
			contains: []string{`<usx version="3.1">`, `<verse number="1" style="v" sid="1:1"/>`},
		},
		{
			name:     "list",
			format:   "list",
			contains: []string{"Book\tChapter\tVerse\tText\tType\tMarker\n", "GEN\t1\t1\tIn the beginning\tpara\tp\n"},
		},
		{
			name:     "biblenlp",
			format:   "biblenlp",
			contains: []string{`"GEN 1:1"`, `"In the beginning"`},
		},
		{
			name:     "usfm",
			format:   "usfm",
			contains: []string{"\\id GEN\n\\c 1\n\\p\n\\v 1 In the beginning\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			source, tree := writeInputs(t, dir, "gen", tt.compress)
			out := filepath.Join(dir, "out")

			cmd := &ConvertCmd{Source: source, Tree: tree, Out: out}
			if err := cmd.Run(testGlobals(tt.format)); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			got := readFile(t, out)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestConvertCmd_Filters(t *testing.T) {
	dir := t.TempDir()
	source, tree := writeInputs(t, dir, "gen", false)
	out := filepath.Join(dir, "out.json")

	g := testGlobals("json")
	g.Include = []string{"bcv"}
	if err := (&ConvertCmd{Source: source, Tree: tree, Out: out}).Run(g); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	doc, err := usj.Unmarshal([]byte(readFile(t, out)))
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, c := range doc.Content {
		if _, ok := c.(usj.Text); ok {
			t.Errorf("text %q kept by bcv filter", c)
		}
	}
	if len(doc.Content) != 3 {
		t.Errorf("content = %d items, want book, chapter and verse", len(doc.Content))
	}
}

func TestConvertCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	source, tree := writeInputs(t, dir, "gen", false)

	bad := testGlobals("json")
	bad.LogLevel = "loud"
	if err := (&ConvertCmd{Source: source, Tree: tree, Out: "-"}).Run(bad); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("bad log level error = %v, want ErrInvalidInput", err)
	}

	garbage := filepath.Join(dir, "garbage.json")
	if err := os.WriteFile(garbage, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	err := (&ConvertCmd{Source: source, Tree: garbage, Out: "-"}).Run(testGlobals("json"))
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("garbage tree error = %v, want ErrInvalidInput", err)
	}

	missing := filepath.Join(dir, "missing.usfm")
	var ioErr *errors.IOError
	if _, err := loadTree(missing, tree); !errors.As(err, &ioErr) {
		t.Errorf("loadTree(missing) error = %v, want IOError", err)
	}
}

// Tests for USFMCmd

func TestUSFMCmd_Run(t *testing.T) {
	const want = "\\id GEN\n\\c 1\n\\p\n\\v 1 In the beginning\n"

	for _, format := range []string{"json", "usx"} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			source, tree := writeInputs(t, dir, "gen", false)
			doc := filepath.Join(dir, "gen"+extension(format))
			if err := (&ConvertCmd{Source: source, Tree: tree, Out: doc}).Run(testGlobals(format)); err != nil {
				t.Fatalf("ConvertCmd.Run() error = %v", err)
			}

			out := filepath.Join(dir, "out.usfm")
			if err := (&USFMCmd{Input: doc, Out: out}).Run(testGlobals("json")); err != nil {
				t.Fatalf("USFMCmd.Run() error = %v", err)
			}
			if got := readFile(t, out); got != want {
				t.Errorf("USFM = %q, want %q", got, want)
			}
		})
	}
}

func TestUSFMCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	for name, data := range map[string]string{
		"bad.usj": `{"type":"book"}`,
		"bad.usx": `<usx`,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		err := (&USFMCmd{Input: path, Out: "-"}).Run(testGlobals("json"))
		if !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("%s: Run() error = %v, want ErrInvalidInput", name, err)
		}
	}
}

// Tests for BatchCmd

func TestBatchCmd_Run(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir, "gen", false)
	writeInputs(t, dir, "exo", true)
	if err := os.WriteFile(filepath.Join(dir, "lonely.usfm"), []byte(`\id LEV`), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")

	cmd := &BatchCmd{Dir: dir, Out: out, Workers: 2}
	if err := cmd.Run(testGlobals("json")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, name := range []string{"exo", "gen"} {
		var doc map[string]any
		if err := json.Unmarshal([]byte(readFile(t, filepath.Join(out, name+".usj"))), &doc); err != nil {
			t.Errorf("%s: invalid JSON: %v", name, err)
		}
		if doc["type"] != "USJ" {
			t.Errorf("%s: type = %v, want USJ", name, doc["type"])
		}
	}
	if _, err := os.Stat(filepath.Join(out, "lonely.usj")); !os.IsNotExist(err) {
		t.Errorf("source without tree should be skipped, stat error = %v", err)
	}
}

func TestBatchCmd_Empty(t *testing.T) {
	dir := t.TempDir()
	err := (&BatchCmd{Dir: dir, Out: filepath.Join(dir, "out")}).Run(testGlobals("json"))
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Run() error = %v, want ErrInvalidInput", err)
	}
}

func TestFindPairs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.usfm", "b.tree.json", "a.sfm.xz", "a.tree.json.xz", "c.usfm"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	pairs, err := findPairs(dir)
	if err != nil {
		t.Fatalf("findPairs() error = %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("findPairs() = %+v, want 2 pairs", pairs)
	}
	if pairs[0].name != "a" || !strings.HasSuffix(pairs[0].tree, "a.tree.json.xz") {
		t.Errorf("pairs[0] = %+v", pairs[0])
	}
	if pairs[1].name != "b" || !strings.HasSuffix(pairs[1].source, "b.usfm") {
		t.Errorf("pairs[1] = %+v", pairs[1])
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"json":     ".usj",
		"usx":      ".usx",
		"list":     ".tsv",
		"biblenlp": ".biblenlp.json",
		"usfm":     ".usfm",
	}
	for format, want := range tests {
		if got := extension(format); got != want {
			t.Errorf("extension(%q) = %q, want %q", format, got, want)
		}
	}
}
