package main

import (
	"context"

	"github.com/marcinruszkiewicz/rah-bme280/cmd/bme280/console"
	"github.com/urfave/cli/v2"
)

var readCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"measure"},
	Usage:   "read a compensated measurement from the sensor",
	Flags:   transportFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		dev, err := openDevice(ctx, c)
		if err != nil {
			return console.Exit(1, "device initialization error: %s", console.Red(err))
		}
		m, err := dev.GetMeasurement(ctx)
		if err != nil {
			return console.Exit(1, "error getting measurement: %s", console.Red(err))
		}
		console.Printf("%s  %s °C\n", console.PictoThermometer, console.White(m.Temperature))
		if m.Pressure == 0 {
			console.Warnf("pressure compensation invalid (sensor not ready?)")
		} else {
			console.Printf("%s  %s hPa\n", console.PictoPressure, console.White(m.Pressure))
		}
		console.Printf("%s %s %%RH\n", console.PictoHumidity, console.White(m.Humidity))
		return nil
	},
}
