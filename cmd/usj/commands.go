package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/usj/core/convert"
	"github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/filter"
	"github.com/FocuswithJustin/usj/core/syntax"
	"github.com/FocuswithJustin/usj/core/usfm"
	"github.com/FocuswithJustin/usj/core/usj"
	"github.com/FocuswithJustin/usj/core/usx"
	"github.com/FocuswithJustin/usj/internal/batch"
	"github.com/FocuswithJustin/usj/internal/config"
	"github.com/FocuswithJustin/usj/internal/logging"
)

// Globals are flags shared by every command.
type Globals struct {
	ConfigFile kong.ConfigFlag `name:"config" help:"Load flag defaults from a JSON file"`

	LogLevel  string `name:"log-level" default:"info" env:"USJ_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" default:"text" env:"USJ_LOG_FORMAT" enum:"text,json" help:"Log format"`

	Format string `name:"format" short:"f" default:"json" env:"USJ_FORMAT" enum:"json,usx,list,biblenlp,usfm" help:"Output format"`
	Indent string `name:"indent" env:"USJ_INDENT" help:"Indent JSON and USX output with this string"`

	IgnoreErrors    bool     `name:"ignore-errors" env:"USJ_IGNORE_ERRORS" help:"Convert trees with syntax errors"`
	NoLegacyAttribs bool     `name:"no-legacy-attributes" env:"USJ_NO_LEGACY_ATTRIBUTES" help:"Omit attrib_name and attrib_value"`
	Include         []string `name:"include" env:"USJ_INCLUDE" help:"Keep only these markers or marker groups"`
	Exclude         []string `name:"exclude" env:"USJ_EXCLUDE" help:"Drop these markers or marker groups"`
	NoCombineTexts  bool     `name:"no-combine-texts" help:"Keep text runs separate after filtering"`
}

// Config turns the flags into a validated run configuration and sets up
// logging.
func (g *Globals) Config() (config.Config, error) {
	cfg := config.Default()
	cfg.LogLevel = g.LogLevel
	cfg.LogFormat = g.LogFormat
	cfg.Format = g.Format
	cfg.Indent = g.Indent
	cfg.IgnoreErrors = g.IgnoreErrors
	cfg.LegacyAttributeFields = !g.NoLegacyAttribs
	cfg.Include = g.Include
	cfg.Exclude = g.Exclude
	cfg.CombineTexts = !g.NoCombineTexts
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	format, _ := logging.ParseFormat(cfg.LogFormat)
	logging.InitLogger(level, format)
	return cfg, nil
}

// ConvertCmd converts a single tree.
type ConvertCmd struct {
	Source string `arg:"" help:"USFM source text (.xz accepted)" type:"existingfile"`
	Tree   string `required:"" short:"t" help:"Syntax tree JSON for the source (.xz accepted)" type:"existingfile"`
	Out    string `short:"o" default:"-" help:"Output path, - for stdout"`
}

func (c *ConvertCmd) Run(g *Globals) error {
	cfg, err := g.Config()
	if err != nil {
		return err
	}
	tree, err := loadTree(c.Source, c.Tree)
	if err != nil {
		return err
	}

	ctx := logging.WithSource(context.Background(), c.Source)
	res, err := convert.New(cfg.ConverterOptions()).Convert(ctx, tree)
	if err != nil {
		return err
	}
	for _, d := range res.Diagnostics {
		logging.WarnContext(ctx, "recovered from malformed node", "error", d)
	}

	data, err := render(cfg.Filter(res.Document), cfg)
	if err != nil {
		return err
	}
	return writeOutput(c.Out, data)
}

// BatchCmd converts every source/tree pair in a directory.
type BatchCmd struct {
	Dir      string        `arg:"" help:"Directory of sources with .tree.json siblings" type:"existingdir"`
	Out      string        `required:"" short:"o" help:"Output directory" type:"path"`
	Workers  int           `short:"w" env:"USJ_WORKERS" help:"Parallel conversions (0 = one per CPU)"`
	CacheTTL time.Duration `name:"cache-ttl" default:"10m" env:"USJ_CACHE_TTL" help:"How long identical inputs reuse a result"`
}

func (c *BatchCmd) Run(g *Globals) error {
	cfg, err := g.Config()
	if err != nil {
		return err
	}
	cfg.Workers = c.Workers
	cfg.CacheTTL = c.CacheTTL
	if err := cfg.Validate(); err != nil {
		return err
	}

	pairs, err := findPairs(c.Dir)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return errors.NewValidation("dir", fmt.Sprintf("no source/tree pairs in %s", c.Dir))
	}
	if err := os.MkdirAll(c.Out, 0755); err != nil {
		return errors.NewIO("mkdir", c.Out, err)
	}

	var jobs []batch.Job
	var failed int
	for _, p := range pairs {
		tree, err := loadTree(p.source, p.tree)
		if err != nil {
			logging.Warn("skipping unreadable input", "source", p.source, "error", err)
			failed++
			continue
		}
		jobs = append(jobs, batch.Job{Name: p.name, Tree: tree})
	}

	runner := batch.NewRunner(convert.New(cfg.ConverterOptions()), cfg.Workers, cfg.CacheTTL)
	for _, res := range runner.Run(context.Background(), jobs) {
		if res.Err != nil {
			logging.Error("conversion failed", "source", res.Name, "error", res.Err)
			failed++
			continue
		}
		data, err := render(cfg.Filter(res.Result.Document), cfg)
		if err != nil {
			logging.Error("render failed", "source", res.Name, "error", err)
			failed++
			continue
		}
		path := filepath.Join(c.Out, res.Name+extension(cfg.Format))
		if err := writeOutput(path, data); err != nil {
			logging.Error("write failed", "path", path, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(pairs))
	}
	return nil
}

// USFMCmd writes a USJ or USX document back out as USFM.
type USFMCmd struct {
	Input string `arg:"" help:"USJ or USX document (.xz accepted)" type:"existingfile"`
	Out   string `short:"o" default:"-" help:"Output path, - for stdout"`
}

func (c *USFMCmd) Run(g *Globals) error {
	cfg, err := g.Config()
	if err != nil {
		return err
	}
	doc, err := loadDocument(c.Input)
	if err != nil {
		return err
	}
	data, err := usfm.Generate(cfg.Filter(doc))
	if err != nil {
		return err
	}
	return writeOutput(c.Out, data)
}

// FormatsCmd lists output formats and marker group names.
type FormatsCmd struct{}

func (c *FormatsCmd) Run() error {
	fmt.Printf("formats: %s\n", strings.Join(config.Formats, ", "))
	fmt.Printf("marker groups: %s\n", strings.Join(config.GroupNames(), ", "))
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("usj version %s (USJ %s, USX %s)\n", version, usj.Version, usx.Version)
	return nil
}

// Helper functions

type pair struct {
	name, source, tree string
}

// findPairs returns the sources in dir that have a tree file next to them,
// sorted by name. A source foo.usfm pairs with foo.tree.json or
// foo.tree.json.xz.
func findPairs(dir string) ([]pair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewIO("read", dir, err)
	}
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		names[e.Name()] = true
	}

	var out []pair
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.Contains(name, ".tree.json") {
			continue
		}
		base := strings.TrimSuffix(name, ".xz")
		base = strings.TrimSuffix(base, filepath.Ext(base))
		for _, tree := range []string{base + ".tree.json", base + ".tree.json.xz"} {
			if names[tree] {
				out = append(out, pair{
					name:   base,
					source: filepath.Join(dir, name),
					tree:   filepath.Join(dir, tree),
				})
				break
			}
		}
	}
	slices.SortFunc(out, func(a, b pair) int { return strings.Compare(a.name, b.name) })
	return out, nil
}

func loadTree(sourcePath, treePath string) (*syntax.Tree, error) {
	src, err := readInput(sourcePath)
	if err != nil {
		return nil, err
	}
	data, err := readInput(treePath)
	if err != nil {
		return nil, err
	}
	return syntax.DecodeTree(src, bytes.NewReader(data))
}

// loadDocument reads a USJ document, or a USX one when path names a .usx
// file or the data starts with markup.
func loadDocument(path string) (*usj.Document, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if strings.HasSuffix(strings.TrimSuffix(path, ".xz"), ".usx") || bytes.HasPrefix(trimmed, []byte("<")) {
		top, err := usx.Parse(data)
		if err != nil {
			return nil, err
		}
		return usx.ToDocument(top)
	}
	return usj.Unmarshal(data)
}

// readInput reads path, decompressing it when it ends in .xz.
func readInput(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, errors.NewIO("decompress", path, err)
		}
		r = xr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return data, nil
}

func render(doc *usj.Document, cfg config.Config) ([]byte, error) {
	switch cfg.Format {
	case config.FormatUSX:
		return usx.Marshal(doc, cfg.Indent)
	case config.FormatList:
		var b strings.Builder
		w := csv.NewWriter(&b)
		w.Comma = '\t'
		if err := w.WriteAll(usj.ToList(doc)); err != nil {
			return nil, &errors.SerializationError{Format: "list", Err: err}
		}
		return []byte(b.String()), nil
	case config.FormatUSFM:
		return usfm.Generate(doc)
	case config.FormatBibleNLP:
		nlp := usj.ToBibleNLP(filter.KeepOnly(doc, slices.Concat(filter.BCV, filter.Text), true))
		data, err := json.MarshalIndent(nlp, "", "  ")
		if err != nil {
			return nil, &errors.SerializationError{Format: "BibleNLP", Err: err}
		}
		return data, nil
	}
	return usj.Marshal(doc, cfg.Indent)
}

func extension(format string) string {
	switch format {
	case config.FormatUSX:
		return ".usx"
	case config.FormatList:
		return ".tsv"
	case config.FormatBibleNLP:
		return ".biblenlp.json"
	case config.FormatUSFM:
		return ".usfm"
	}
	return ".usj"
}

func writeOutput(path string, data []byte) error {
	if path == "-" || path == "" {
		if _, err := os.Stdout.Write(append(data, '\n')); err != nil {
			return errors.NewIO("write", "stdout", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}
