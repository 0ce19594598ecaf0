// Package config holds the run settings shared by the usj commands.
package config

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/FocuswithJustin/usj/core/convert"
	"github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/filter"
	"github.com/FocuswithJustin/usj/core/usj"
	"github.com/FocuswithJustin/usj/internal/logging"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatUSX      = "usx"
	FormatList     = "list"
	FormatBibleNLP = "biblenlp"
	FormatUSFM     = "usfm"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatJSON, FormatUSX, FormatList, FormatBibleNLP, FormatUSFM}

// groups maps the marker group names accepted in Include/Exclude.
var groups = map[string][]string{
	"book-headers": filter.BookHeaders,
	"titles":       filter.Titles,
	"comments":     filter.Comments,
	"paragraphs":   filter.Paragraphs,
	"characters":   filter.Characters,
	"notes":        filter.Notes,
	"study-bible":  filter.StudyBible,
	"bcv":          filter.BCV,
	"text":         filter.Text,
}

// Config holds run configuration.
type Config struct {
	LogLevel  string
	LogFormat string

	Workers  int           // parallel conversions (0 = one per CPU)
	CacheTTL time.Duration // batch result cache lifetime (0 = no expiry)

	IgnoreErrors          bool
	LegacyAttributeFields bool

	Include      []string // markers or group names to keep
	Exclude      []string // markers or group names to drop
	CombineTexts bool

	Format string
	Indent string
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Workers:               runtime.NumCPU(),
		CacheTTL:              10 * time.Minute,
		LegacyAttributeFields: true,
		CombineTexts:          true,
		Format:                FormatJSON,
	}
}

// Validate checks c and returns the first problem as a ValidationError.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return errors.NewValidation("log-level", err.Error())
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return errors.NewValidation("log-format", err.Error())
	}
	if c.Workers < 0 {
		return errors.NewValidation("workers", "must not be negative")
	}
	if c.CacheTTL < 0 {
		return errors.NewValidation("cache-ttl", "must not be negative")
	}
	if !slices.Contains(Formats, c.Format) {
		return errors.NewValidation("format", fmt.Sprintf("unknown format %q (want one of %s)", c.Format, strings.Join(Formats, ", ")))
	}
	if len(c.Include) > 0 && len(c.Exclude) > 0 {
		return errors.NewValidation("include", "include and exclude cannot be combined")
	}
	return nil
}

// ConverterOptions returns the converter settings carried by c.
func (c Config) ConverterOptions() convert.Options {
	return convert.Options{
		IgnoreErrors:          c.IgnoreErrors,
		LegacyAttributeFields: c.LegacyAttributeFields,
	}
}

// Filter applies the Include or Exclude marker filter to doc. Without
// either, doc is returned as is.
func (c Config) Filter(doc *usj.Document) *usj.Document {
	switch {
	case len(c.Include) > 0:
		return filter.KeepOnly(doc, Markers(c.Include), c.CombineTexts)
	case len(c.Exclude) > 0:
		return filter.Remove(doc, Markers(c.Exclude), c.CombineTexts)
	}
	return doc
}

// Markers expands group names in names into their markers. Names that are
// not groups are taken as markers.
func Markers(names []string) []string {
	var out []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if group, ok := groups[strings.ToLower(name)]; ok {
			out = append(out, group...)
			continue
		}
		out = append(out, strings.TrimPrefix(name, `\`))
	}
	return out
}

// GroupNames returns the accepted marker group names, sorted.
func GroupNames() []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
