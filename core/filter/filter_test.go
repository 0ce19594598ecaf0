package filter

import (
	"slices"
	"strings"
	"testing"

	"github.com/FocuswithJustin/usj/core/usj"
)

func sampleDocument() *usj.Document {
	doc := usj.NewDocument()
	book := usj.NewContainer(usj.TypeBook, "id")
	book.Code = "GEN"
	book.Append(usj.Text("Genesis"))

	heading := usj.NewContainer(usj.TypePara, "s1")
	heading.Append(usj.Text("The Creation"))

	note := usj.NewContainer(usj.TypeNote, "f")
	note.Caller = "+"
	ft := usj.NewContainer(usj.TypeChar, "ft")
	ft.Append(usj.Text("note"))
	note.Append(ft)

	nd := usj.NewContainer(usj.TypeChar, "nd")
	nd.Append(usj.Text("God"))

	para := usj.NewContainer(usj.TypePara, "p")
	para.Append(
		&usj.Node{Type: usj.TypeVerse, Marker: "v", Number: "1", Sid: "1:1"},
		usj.Text("In the beginning"),
		note,
		&usj.Node{Type: usj.TypeVerse, Marker: "v", Number: "2", Sid: "1:2"},
		nd,
		usj.Text("created"),
	)

	ms := &usj.Node{Type: usj.TypeMilestone, Marker: "qt-s"}
	ms.Append(&usj.Node{Type: usj.TypeAttribute, Marker: "attribute", Name: "who", Value: "God"})

	doc.Content = append(doc.Content,
		book,
		&usj.Node{Type: usj.TypeChapter, Marker: "c", Number: "1", Sid: "GEN 1"},
		heading,
		para,
		ms,
	)
	return doc
}

func marshal(t *testing.T, doc *usj.Document) string {
	t.Helper()
	out, err := usj.Marshal(doc, "")
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	return string(out)
}

func document(items ...string) string {
	return `{"type":"USJ","version":"3.1","content":[` + strings.Join(items, ",") + `]}`
}

const (
	bookJSON    = `{"type":"book","marker":"id","code":"GEN","content":["Genesis"]}`
	chapterJSON = `{"type":"chapter","marker":"c","number":"1","sid":"GEN 1"}`
	verse1JSON  = `{"type":"verse","marker":"v","number":"1","sid":"1:1"}`
	verse2JSON  = `{"type":"verse","marker":"v","number":"2","sid":"1:2"}`
	noteJSON    = `{"type":"note","marker":"f","caller":"+","content":[{"type":"char","marker":"ft","content":["note"]}]}`
	ndJSON      = `{"type":"char","marker":"nd","content":["God"]}`
	msJSON      = `{"type":"ms","marker":"qt-s","content":[{"type":"attribute","marker":"attribute","name":"who","value":"God"}]}`
)

func TestKeepOnly(t *testing.T) {
	tests := []struct {
		name    string
		markers []string
		combine bool
		want    string
	}{
		{
			name:    "bcv and text",
			markers: slices.Concat(BCV, Text),
			combine: true,
			want:    document(bookJSON, chapterJSON, verse1JSON, `"In the beginning"`, verse2JSON, `"God created"`),
		},
		{
			name:    "bcv and text uncombined",
			markers: slices.Concat(BCV, Text),
			want:    document(bookJSON, chapterJSON, verse1JSON, `"In the beginning"`, verse2JSON, `"God"`, `"created"`),
		},
		{
			name:    "bcv only",
			markers: BCV,
			combine: true,
			want:    document(bookJSON, chapterJSON, verse1JSON, verse2JSON),
		},
		{
			name:    "titles keep headings at any level",
			markers: Titles,
			combine: true,
			want:    document(`{"type":"para","marker":"s1","content":["The Creation"]}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := marshal(t, KeepOnly(sampleDocument(), tt.markers, tt.combine)); got != tt.want {
				t.Errorf("KeepOnly() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name    string
		markers []string
		want    string
	}{
		{
			name:    "notes and titles",
			markers: slices.Concat(Notes, Titles),
			want: document(bookJSON, chapterJSON,
				`{"type":"para","marker":"p","content":[`+verse1JSON+`,"In the beginning",`+verse2JSON+`,`+ndJSON+`,"created"]}`,
				msJSON),
		},
		{
			name:    "paragraph content is lifted",
			markers: []string{"p", "s", "qt-s"},
			want:    document(bookJSON, chapterJSON, verse1JSON, `"In the beginning"`, noteJSON, verse2JSON, ndJSON, `"created"`),
		},
		{
			name:    "text of removed paragraphs dropped",
			markers: []string{"p", "s", "qt-s", TextInExcludedParent},
			want:    document(bookJSON, chapterJSON, verse1JSON, noteJSON, verse2JSON, ndJSON),
		},
		{
			name:    "characters unwrapped",
			markers: slices.Concat(Characters, Notes, Titles, []string{"qt-s"}),
			want: document(bookJSON, chapterJSON,
				`{"type":"para","marker":"p","content":[`+verse1JSON+`,"In the beginning",`+verse2JSON+`,"God created"]}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := marshal(t, Remove(sampleDocument(), tt.markers, true)); got != tt.want {
				t.Errorf("Remove() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestFilterLeavesInputUntouched(t *testing.T) {
	doc := sampleDocument()
	before := marshal(t, doc)
	KeepOnly(doc, BCV, true)
	Remove(doc, Paragraphs, true)
	if after := marshal(t, doc); after != before {
		t.Errorf("input changed:\n%s\n%s", after, before)
	}
}

func TestFilterNilDocument(t *testing.T) {
	if got := marshal(t, KeepOnly(nil, BCV, true)); got != document() {
		t.Errorf("KeepOnly(nil) = %s", got)
	}
}

func TestMarker(t *testing.T) {
	tests := []struct {
		node *usj.Node
		want string
	}{
		{&usj.Node{Type: usj.TypePara, Marker: "q1"}, "q"},
		{&usj.Node{Type: usj.TypePara, Marker: "toc2"}, "toc"},
		{&usj.Node{Type: usj.TypeCell, Marker: "tcr2"}, "tcr"},
		{&usj.Node{Type: usj.TypeTable}, "table"},
		{&usj.Node{Type: usj.TypeMilestone, Marker: "qt-s"}, "qt-s"},
		{&usj.Node{Type: usj.TypePara, Marker: "42"}, "42"},
	}
	for _, tt := range tests {
		if got := Marker(tt.node); got != tt.want {
			t.Errorf("Marker(%+v) = %q, want %q", tt.node, got, tt.want)
		}
	}
}

func TestBibleNLPPipeline(t *testing.T) {
	got := usj.ToBibleNLP(KeepOnly(sampleDocument(), slices.Concat(BCV, Text), true))
	if strings.Join(got.VRef, "|") != "GEN 1:1|GEN 1:2" {
		t.Errorf("VRef = %q", got.VRef)
	}
	if strings.Join(got.Text, "|") != "In the beginning|God created" {
		t.Errorf("Text = %q", got.Text)
	}
}
