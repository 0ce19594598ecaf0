package convert

import (
	"strings"

	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/usj/core/extract"
)

// Structural shapes of the nodes whose fields come from named children.
var (
	bookPattern = extract.MustCompile("id",
		extract.Capture{Name: "code", Path: "bookcode"},
		extract.Capture{Name: "description", Path: "description", Optional: true},
	)

	chapterPattern = extract.MustCompile("c",
		extract.Capture{Name: "number", Path: "chapterNumber"},
		extract.Capture{Name: "alt", Path: "ca/chapterNumber", Optional: true},
		extract.Capture{Name: "pub", Path: "cp/text", Optional: true},
	)

	versePattern = extract.MustCompile("v",
		extract.Capture{Name: "number", Path: "verseNumber"},
		extract.Capture{Name: "alt", Path: "va/verseNumber", Optional: true},
		extract.Capture{Name: "pub", Path: "vp/text", Optional: true},
	)

	attributePattern = extract.MustCompile("attribute",
		extract.Capture{Name: "name", Path: "attributeName"},
		extract.Capture{Name: "value", Path: "attributeValue", Optional: true},
	)

	sidebarPattern = extract.MustCompile("esb",
		extract.Capture{Name: "category", Path: "cat/category", Optional: true},
	)

	categoryPattern = extract.MustCompile("cat",
		extract.Capture{Name: "category", Path: ".//category"},
	)
)

// milestoneTagPath selects the tag that names a milestone or z-namespace.
var milestoneTagPath = xpath.MustCompile(
	"*[self::milestoneTag or self::milestoneStartTag or self::milestoneEndTag or self::zSpaceTag]",
)

// milestoneAttributesPath selects the attributes directly under a milestone.
var milestoneAttributesPath = xpath.MustCompile(
	"*[self::attribute or ends-with(local-name(), 'Attribute')]",
)

var markerCleaner = strings.NewReplacer(`\`, "", "+", "")

// markerName turns tag text such as `\+nd`, `\qt-e\*` or `\f ` into the
// bare marker name.
func markerName(tag string) string {
	name := strings.TrimSpace(markerCleaner.Replace(tag))
	return strings.TrimSpace(strings.TrimRight(name, "*"))
}
