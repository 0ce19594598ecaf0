package usj

import (
	"strings"
)

// ListHeader is the first row ToList produces.
var ListHeader = []string{"Book", "Chapter", "Verse", "Text", "Type", "Marker"}

// ToList flattens doc into rows, one per text run, each annotated with the
// book, chapter and verse in effect and the type and marker of the node
// that directly holds the text. The first row is ListHeader.
func ToList(doc *Document) [][]string {
	rows := [][]string{append([]string(nil), ListHeader...)}
	var book, chapter, verse string

	var walk func(parent *Node, content []Content)
	walk = func(parent *Node, content []Content) {
		for _, c := range content {
			switch v := c.(type) {
			case Text:
				var typ, marker string
				if parent != nil {
					typ, marker = parent.Type, parent.Marker
				}
				rows = append(rows, []string{book, chapter, verse, string(v), typ, marker})
			case *Node:
				switch v.Type {
				case TypeBook:
					book = v.Code
					chapter, verse = "", ""
				case TypeChapter:
					chapter, verse = v.Number, ""
				case TypeVerse:
					verse = v.Number
				}
				walk(v, v.Content)
			}
		}
	}
	if doc != nil {
		walk(nil, doc.Content)
	}
	return rows
}

// BibleNLP is the verse-per-line format used by Bible NLP corpora: Text[i]
// is the text of the verse identified by VRef[i].
type BibleNLP struct {
	Text []string `json:"text"`
	VRef []string `json:"vref"`
}

// ToBibleNLP collects the text following each verse marker up to the next
// verse or chapter. Note content is skipped; text ahead of the first verse
// of a chapter is ignored. The book in each vref comes from the chapter sid
// when it names one, else from the most recent book node.
func ToBibleNLP(doc *Document) BibleNLP {
	out := BibleNLP{Text: []string{}, VRef: []string{}}
	var book, chapter string
	var current *strings.Builder

	flush := func() {
		if current != nil {
			out.Text = append(out.Text, strings.Join(strings.Fields(current.String()), " "))
			current = nil
		}
	}

	if doc == nil {
		return out
	}
	Walk(doc.Content, func(c Content) bool {
		switch v := c.(type) {
		case Text:
			if current != nil {
				current.WriteString(string(v))
				current.WriteByte(' ')
			}
		case *Node:
			switch v.Type {
			case TypeBook:
				flush()
				book = v.Code
				return false
			case TypeChapter:
				flush()
				chapter = v.Number
				if sid, err := ParseSID(v.Sid); err == nil && sid.Book != "" {
					book = sid.Book
				}
				return false
			case TypeVerse:
				flush()
				current = &strings.Builder{}
				out.VRef = append(out.VRef, book+" "+chapter+":"+v.Number)
				return false
			case TypeNote:
				return false
			}
		}
		return true
	})
	flush()
	return out
}
