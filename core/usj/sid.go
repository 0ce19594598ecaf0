package usj

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/usj/core/errors"
)

// SID is a parsed start identifier, e.g. "GEN 1" on a chapter or "1:2" on a
// verse.
type SID struct {
	Book     string // three character book code, empty when absent
	Chapter  int
	Verse    int    // 0 for chapter identifiers
	VerseEnd int    // end of a verse range such as "1:2-4"
	Part     string // verse part letter such as the "a" in "1:2a"
}

// String formats s in sid form.
func (s SID) String() string {
	var sb strings.Builder
	if s.Book != "" {
		sb.WriteString(s.Book)
		sb.WriteByte(' ')
	}
	sb.WriteString(strconv.Itoa(s.Chapter))
	if s.Verse > 0 {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(s.Verse))
		sb.WriteString(s.Part)
		if s.VerseEnd > 0 {
			sb.WriteByte('-')
			sb.WriteString(strconv.Itoa(s.VerseEnd))
		}
	}
	return sb.String()
}

//nolint:govet // participle grammar tags are not standard struct tags
type sidGrammar struct {
	Book    string    `@Book?`
	Chapter int       `@Int`
	Verse   *sidVerse `( ":" @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type sidVerse struct {
	Verse int     `@Int`
	Part  *string `@Part?`
	End   *int    `( "-" @Int )?`
}

// Book codes are three characters: a letter followed by letters or digits,
// or a digit 1-4 followed by two letters (1SA, 2KI, 3JN).
var sidLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Book", Pattern: `[1-4][A-Z]{2}|[A-Z][A-Z0-9]{2}`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Part", Pattern: `[a-z]`},
	{Name: "Punct", Pattern: `[:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var sidParser = participle.MustBuild[sidGrammar](
	participle.Lexer(sidLexer),
	participle.Elide("Whitespace"),
)

// ParseSID parses a chapter or verse start identifier:
//   - "GEN 1" (book and chapter)
//   - "GEN 1:2", "GEN 1:2a", "GEN 1:2-4"
//   - "1:2" (verse sid without book)
//   - " 1" (chapter sid written before any book was seen)
func ParseSID(s string) (SID, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return SID{}, errors.NewParse("sid", "", "empty sid")
	}
	parsed, err := sidParser.ParseString("", trimmed)
	if err != nil {
		perr := errors.NewParse("sid", "", strconv.Quote(s))
		perr.Err = err
		return SID{}, perr
	}
	sid := SID{Book: parsed.Book, Chapter: parsed.Chapter}
	if v := parsed.Verse; v != nil {
		sid.Verse = v.Verse
		if v.Part != nil {
			sid.Part = *v.Part
		}
		if v.End != nil {
			sid.VerseEnd = *v.End
		}
	}
	return sid, nil
}
