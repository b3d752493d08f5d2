package main

import (
	"context"
	"os"

	"github.com/marcinruszkiewicz/rah-bme280/adapter"
	"github.com/marcinruszkiewicz/rah-bme280/cmd/bme280/console"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "MCP2221 adapter diagnostics",
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
	},
}

var mcp2221StatusCmd = cli.Command{
	Name: "status",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221()
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		status, err := a.Status(ctx)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		enc := yaml.NewEncoder(os.Stdout)
		if err := enc.Encode(status); err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name: "release",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221()
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		status, err := a.ReleaseBus(ctx)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		enc := yaml.NewEncoder(os.Stdout)
		if err := enc.Encode(status); err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}
