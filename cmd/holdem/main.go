package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Debug    bool             `help:"Enable debug logging"`
	NoColor  bool             `help:"Disable colour output" env:"NO_COLOR"`
	Serve    ServeCmd         `cmd:"" help:"Host a table and accept remote players"`
	Join     JoinCmd          `cmd:"" help:"Join a table from this terminal"`
	Odds     OddsCmd          `cmd:"" help:"Estimate the equity of a hand by simulation"`
	JoinCode JoinCodeCmd      `cmd:"joincode" help:"Encode or decode a table join code"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("Networked Texas Hold'em table with simulated opponents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
