package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/marcinruszkiewicz/rah-bme280/adapter"

	"github.com/karalabe/hid"
	"github.com/urfave/cli/v2"
)

var usbCmd = cli.Command{
	Name:  "usb",
	Usage: "USB HID utilities",
	Subcommands: cli.Commands{
		&usbLsCmd,
	},
}

var usbLsCmd = cli.Command{
	Name:  "ls",
	Usage: "list HID devices",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "known", Usage: "only list known I2C adapters"},
	},
	Action: func(c *cli.Context) error {
		devices := hid.Enumerate(0, 0)
		if c.Bool("known") {
			devices = hid.Enumerate(adapter.VendorID, adapter.ProductID)
		}

		w := tabwriter.NewWriter(os.Stdout, 24, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "PATH\tSERIAL\tVENDOR\tPRODUCT ID\tMANUFACTURER\tPRODUCT\n")
		for _, dev := range devices {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%#x\t%#x\t%s\t%s\n",
				dev.Path, dev.Serial, dev.VendorID, dev.ProductID, dev.Manufacturer, dev.Product)
		}
		_ = w.Flush()
		return nil
	},
}
