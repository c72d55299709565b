package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdlinkattrs/cmd/mdlinkattrs/commands"
	"git.home.luguber.info/inful/mdlinkattrs/internal/config"
	"git.home.luguber.info/inful/mdlinkattrs/internal/foundation/errors"
	"git.home.luguber.info/inful/mdlinkattrs/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Stdout: os.Stdout, Stdin: os.Stdin}

	parser := kong.Parse(cli,
		kong.Name("mdlinkattrs"),
		kong.Description("Render Markdown with configurable HTML link attributes."),
		kong.UsageOnError(),
		kong.Bind(global),
		kong.Vars{
			"version":        version.String(),
			"config_default": config.DefaultPath,
		},
	)

	if err := parser.Run(global, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
