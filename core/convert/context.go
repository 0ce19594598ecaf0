package convert

// ConversionContext carries the state a single conversion threads through
// its traversal. A fresh one is created for every Convert call.
type ConversionContext struct {
	chapter    string
	hasChapter bool
}

// SetChapter records the number of the chapter just seen.
func (c *ConversionContext) SetChapter(number string) {
	c.chapter = number
	c.hasChapter = true
}

// ClearChapter forgets the current chapter, for a chapter marker whose
// number could not be read.
func (c *ConversionContext) ClearChapter() {
	c.chapter = ""
	c.hasChapter = false
}

// Chapter returns the most recent chapter number, if any.
func (c *ConversionContext) Chapter() (string, bool) {
	return c.chapter, c.hasChapter
}

// verseChapter is the chapter part of a verse sid; "0" when no numbered
// chapter is in effect.
func (c *ConversionContext) verseChapter() string {
	if chapter, ok := c.Chapter(); ok {
		return chapter
	}
	return "0"
}
