package main

import (
	"github.com/alecthomas/kong"

	"github.com/texsite/texsite/cmd/texsite/commands"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("texsite"),
		kong.Description("Converts LaTeX documentation releases into a versioned Markdown site."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	ctx.FatalIfErrorf(ctx.Run(&commands.Global{}))
}
