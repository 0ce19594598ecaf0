package syntax

import (
	"regexp"
	"strings"
)

// Category is the closed set of grammar families the converter dispatches on.
type Category int

const (
	CategoryUnknown    Category = iota
	CategoryBook                // \id
	CategoryChapter             // chapter wrapper or \c
	CategoryVerse               // \v
	CategoryParagraph           // paragraph wrapper; the real marker is its first child
	CategoryBlock               // poetryBlock, listBlock, tableBlock ...
	CategoryParaMarker          // single-line paragraph, title and heading markers
	CategoryBreak               // \b
	CategoryChar                // character styles, including +nested ones
	CategoryNote                // footnotes and cross references
	CategoryInline              // verseText, footnote, crossref containers
	CategoryTable
	CategoryRow
	CategoryCell
	CategoryMilestone // milestones and z-namespaces
	CategoryAttribute
	CategorySidebar
	CategoryFigure
	CategoryCategory
	CategoryText
	CategoryNumbered
	CategoryTag
	CategoryError
)

var categoryNames = [...]string{
	CategoryUnknown:    "unknown",
	CategoryBook:       "book",
	CategoryChapter:    "chapter",
	CategoryVerse:      "verse",
	CategoryParagraph:  "paragraph",
	CategoryBlock:      "block",
	CategoryParaMarker: "para",
	CategoryBreak:      "break",
	CategoryChar:       "char",
	CategoryNote:       "note",
	CategoryInline:     "inline",
	CategoryTable:      "table",
	CategoryRow:        "row",
	CategoryCell:       "cell",
	CategoryMilestone:  "milestone",
	CategoryAttribute:  "attribute",
	CategorySidebar:    "sidebar",
	CategoryFigure:     "figure",
	CategoryCategory:   "category",
	CategoryText:       "text",
	CategoryNumbered:   "numbered",
	CategoryTag:        "tag",
	CategoryError:      "error",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// NoteMarkers are the footnote and cross reference markers.
var NoteMarkers = []string{"f", "fe", "ef", "efe", "x", "ex"}

// CharMarkers are the USFM character style markers.
var CharMarkers = []string{
	"add", "bk", "dc", "ior", "iqt", "k", "litl", "nd", "ord", "pn", "png", "addpn",
	"qac", "qs", "qt", "rq", "sig", "sls", "tl", "wj", "em", "bd", "bdit", "it",
	"no", "sc", "sup", "rb", "pro", "w", "wh", "wa", "wg", "lik", "liv", "jmp",
	"fr", "ft", "fk", "fq", "fqa", "fl", "fw", "fp", "fv", "fdc", "fm",
	"xo", "xop", "xt", "xta", "xk", "xq", "xot", "xnt", "xdc", "ref",
	"ca", "va", "vp",
}

// ParaMarkers are the USFM paragraph, title, heading and introduction markers.
var ParaMarkers = []string{
	"ide", "h", "toc1", "toc2", "toc3", "toca1", "toca2", "toca3", "rem", "sts", "usfm",
	"imt", "is", "ip", "ipi", "im", "imi", "ipq", "imq", "ipr", "iq", "ib", "ili",
	"iot", "io", "iex", "imte", "ie",
	"mt", "mte", "ms", "mr", "s", "sr", "r", "d", "sp", "sd",
	"p", "m", "po", "pr", "cls", "pmo", "pm", "pmc", "pmr", "pi", "mi", "nb", "pc", "ph", "lit",
	"q", "qr", "qc", "qa", "qm", "qd",
	"lh", "li", "lf", "lim",
	"cl", "cd", "cp",
}

var (
	noteSet = toSet(NoteMarkers)
	charSet = toSet(CharMarkers)
	paraSet = toSet(ParaMarkers)

	cellPattern = regexp.MustCompile(`^t[hc][rc]?[0-9]*$`)
)

var fixedKinds = map[string]Category{
	"id":         CategoryBook,
	"chapter":    CategoryChapter,
	"c":          CategoryChapter,
	"v":          CategoryVerse,
	"paragraph":  CategoryParagraph,
	"b":          CategoryBreak,
	"footnote":   CategoryInline,
	"crossref":   CategoryInline,
	"verseText":  CategoryInline,
	"table":      CategoryTable,
	"tr":         CategoryRow,
	"milestone":  CategoryMilestone,
	"zNameSpace": CategoryMilestone,
	"attribute":  CategoryAttribute,
	"esb":        CategorySidebar,
	"fig":        CategoryFigure,
	"cat":        CategoryCategory,
	"text":       CategoryText,
	"ERROR":      CategoryError,
}

// Classify maps a grammar kind label to its Category. Labels that belong to
// no family classify as CategoryUnknown.
func Classify(kind string) Category {
	if c, ok := fixedKinds[kind]; ok {
		return c
	}
	switch {
	case kind == "":
		return CategoryUnknown
	case strings.HasPrefix(kind, `\`):
		return CategoryTag
	case strings.HasPrefix(kind, "numbered"):
		return CategoryNumbered
	case strings.HasSuffix(kind, "Block"):
		return CategoryBlock
	case strings.HasSuffix(kind, "Attribute"):
		return CategoryAttribute
	case strings.HasSuffix(kind, "Tag"), strings.HasSuffix(kind, "End"):
		return CategoryTag
	case strings.HasSuffix(kind, "Nested") && charSet[strings.TrimSuffix(kind, "Nested")]:
		return CategoryChar
	case noteSet[kind]:
		return CategoryNote
	case charSet[kind]:
		return CategoryChar
	case paraSet[kind]:
		return CategoryParaMarker
	case cellPattern.MatchString(kind):
		return CategoryCell
	}
	return CategoryUnknown
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
