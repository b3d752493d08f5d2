package main

import (
	"context"

	"github.com/marcinruszkiewicz/rah-bme280/cmd/bme280/console"
	"github.com/urfave/cli/v2"
)

var idCmd = cli.Command{
	Name:  "id",
	Usage: "read the chip identification register",
	Flags: transportFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		dev, err := openDevice(ctx, c)
		if err != nil {
			return console.Exit(1, "device initialization error: %s", console.Red(err))
		}
		id, err := dev.ReadID(ctx)
		if err != nil {
			return console.Exit(1, "error reading chip id: %s", console.Red(err))
		}
		console.Printf("%s chip id: 0x%s\n", console.PictoChip, console.White(id))
		return nil
	},
}

var statusCmd = cli.Command{
	Name:  "status",
	Usage: "read the status register (measuring/im_update bits)",
	Flags: transportFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		dev, err := openDevice(ctx, c)
		if err != nil {
			return console.Exit(1, "device initialization error: %s", console.Red(err))
		}
		st, err := dev.ReadStatus(ctx)
		if err != nil {
			return console.Exit(1, "error reading status: %s", console.Red(err))
		}
		console.Printf("measuring: %s\nim_update: %s\n", console.White(st.Measuring), console.White(st.ImUpdate))
		return nil
	},
}

var resetCmd = cli.Command{
	Name:  "reset",
	Usage: "trigger a sensor power-on reset",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
	}, transportFlags...),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		if !c.Bool("yes") {
			answer, err := console.YesOrNo("reset the sensor?")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer != console.Yes {
				console.Print("aborted")
				return nil
			}
		}
		dev, err := openDevice(ctx, c)
		if err != nil {
			return console.Exit(1, "device initialization error: %s", console.Red(err))
		}
		if err := dev.Reset(ctx); err != nil {
			return console.Exit(1, "error resetting sensor: %s", console.Red(err))
		}
		console.Print("sensor reset")
		return nil
	},
}
