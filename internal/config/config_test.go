package config

import (
	"slices"
	"testing"

	"github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/filter"
	"github.com/FocuswithJustin/usj/core/usj"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Format != FormatJSON {
		t.Errorf("Format = %q, want %q", cfg.Format, FormatJSON)
	}
	if cfg.Workers < 1 {
		t.Errorf("Workers = %d, want at least 1", cfg.Workers)
	}
	opts := cfg.ConverterOptions()
	if !opts.LegacyAttributeFields || opts.IgnoreErrors {
		t.Errorf("ConverterOptions() = %+v", opts)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log-level"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "log-format"},
		{"workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"cache ttl", func(c *Config) { c.CacheTTL = -1 }, "cache-ttl"},
		{"format", func(c *Config) { c.Format = "pdf" }, "format"},
		{"include and exclude", func(c *Config) {
			c.Include = []string{"v"}
			c.Exclude = []string{"f"}
		}, "include"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			var verr *errors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("Validate() error does not match ErrInvalidInput")
			}
		})
	}
}

func TestMarkers(t *testing.T) {
	got := Markers([]string{"BCV", `\f`, " ", "text", "q"})
	want := slices.Concat(filter.BCV, []string{"f"}, filter.Text, []string{"q"})
	if !slices.Equal(got, want) {
		t.Errorf("Markers() = %q, want %q", got, want)
	}
	if got := Markers(nil); got != nil {
		t.Errorf("Markers(nil) = %q, want nil", got)
	}
}

func TestGroupNames(t *testing.T) {
	names := GroupNames()
	if !slices.IsSorted(names) {
		t.Errorf("GroupNames() not sorted: %q", names)
	}
	if !slices.Contains(names, "notes") {
		t.Errorf("GroupNames() = %q, missing notes", names)
	}
}

func TestFilter(t *testing.T) {
	doc := usj.NewDocument()
	note := usj.NewContainer(usj.TypeNote, "f")
	note.Caller = "+"
	para := usj.NewContainer(usj.TypePara, "p")
	para.Append(usj.Text("a"), note, usj.Text("b"))
	doc.Content = append(doc.Content, para)

	cfg := Default()
	if got := cfg.Filter(doc); got != doc {
		t.Error("Filter() without markers should return the input")
	}

	cfg.Exclude = []string{"notes"}
	out := cfg.Filter(doc)
	p := out.Content[0].(*usj.Node)
	if len(p.Content) != 1 || p.Content[0] != usj.Text("a b") {
		t.Errorf("Exclude notes content = %#v, want [\"a b\"]", p.Content)
	}

	cfg.Exclude = nil
	cfg.Include = []string{"p"}
	out = cfg.Filter(doc)
	p = out.Content[0].(*usj.Node)
	if len(p.Content) != 1 || p.Content[0] != usj.Text("a b") {
		t.Errorf("Include p content = %#v, want [\"a b\"]", p.Content)
	}
}
