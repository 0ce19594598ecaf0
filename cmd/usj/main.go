// Command usj converts USFM syntax trees into USJ, USX and derived formats,
// and writes USJ or USX documents back out as USFM.
package main

import (
	"github.com/alecthomas/kong"
)

const version = "0.1.0"

// CLI defines the command-line interface for usj.
var CLI struct {
	Globals

	Convert ConvertCmd `cmd:"" help:"Convert one syntax tree"`
	Batch   BatchCmd   `cmd:"" help:"Convert every tree in a directory"`
	USFM    USFMCmd    `cmd:"" name:"usfm" help:"Write a USJ or USX document back out as USFM"`
	Formats FormatsCmd `cmd:"" help:"List output formats and marker groups"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("usj"),
		kong.Description("USFM syntax tree to USJ converter"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Configuration(kong.JSON, "~/.config/usj/config.json"),
	)
	err := ctx.Run(&CLI.Globals)
	ctx.FatalIfErrorf(err)
}
