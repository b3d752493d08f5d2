package main

import (
	"context"
	"fmt"

	bme280 "github.com/marcinruszkiewicz/rah-bme280"
	"github.com/marcinruszkiewicz/rah-bme280/adapter"
	"github.com/marcinruszkiewicz/rah-bme280/i2c"
	"github.com/urfave/cli/v2"
)

// Flags shared by every command that talks to the sensor.
var transportFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "adapter",
		Aliases: []string{"a"},
		Usage:   "bus adapter to use (mcp2221, i2c, nanopi)",
		Value:   "mcp2221",
	},
	&cli.StringFlag{
		Name:    "bus",
		Aliases: []string{"b"},
		Usage:   "i2c bus name or number",
		Value:   "1",
	},
	&cli.IntFlag{
		Name:  "address",
		Usage: "sensor i2c address",
		Value: bme280.DefaultAddress,
	},
	&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
}

func openBus(c *cli.Context) (bme280.I2CBus, error) {
	switch c.String("adapter") {
	case "mcp2221":
		return adapter.NewMCP2221(), nil
	case "i2c":
		bus, err := i2c.NewGenericBus(c.String("bus"))
		if err != nil {
			return nil, fmt.Errorf("could not open generic bus: %w", err)
		}
		return bus, nil
	case "nanopi":
		busNr := 0
		if _, err := fmt.Sscanf(c.String("bus"), "%d", &busNr); err != nil {
			return nil, fmt.Errorf("nanopi adapter needs a numeric bus: %w", err)
		}
		bus, err := adapter.NewNanoPi(busNr)
		if err != nil {
			return nil, fmt.Errorf("could not open nanopi bus: %w", err)
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unknown adapter %q", c.String("adapter"))
	}
}

func openDevice(ctx context.Context, c *cli.Context) (*bme280.BME280, error) {
	bus, err := openBus(c)
	if err != nil {
		return nil, err
	}
	dev, err := bme280.New(ctx, bus, bme280.WithAddress(byte(c.Int("address"))))
	if err != nil {
		return nil, fmt.Errorf("sensor initialization error: %w", err)
	}
	return dev, nil
}
