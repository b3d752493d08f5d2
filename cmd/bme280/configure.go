package main

import (
	"context"
	"fmt"
	"os"

	bme280 "github.com/marcinruszkiewicz/rah-bme280"
	"github.com/marcinruszkiewicz/rah-bme280/cmd/bme280/console"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// profile is the YAML description of a full sensor configuration, e.g.
//
//	standby: 1000ms
//	filter: "4"
//	spi3w: false
//	temperature_oversampling: x2
//	pressure_oversampling: x16
//	humidity_oversampling: x1
//	mode: normal
type profile struct {
	Standby                 string `yaml:"standby"`
	Filter                  string `yaml:"filter"`
	SPI3W                   bool   `yaml:"spi3w"`
	TemperatureOversampling string `yaml:"temperature_oversampling"`
	PressureOversampling    string `yaml:"pressure_oversampling"`
	HumidityOversampling    string `yaml:"humidity_oversampling"`
	Mode                    string `yaml:"mode"`
}

var standbyValues = map[string]bme280.StandbyTime{
	"0.5ms":  bme280.Standby500us,
	"62.5ms": bme280.Standby62ms5,
	"125ms":  bme280.Standby125ms,
	"250ms":  bme280.Standby250ms,
	"500ms":  bme280.Standby500ms,
	"1000ms": bme280.Standby1000ms,
	"10ms":   bme280.Standby10ms,
	"20ms":   bme280.Standby20ms,
}

var filterValues = map[string]bme280.FilterCoeff{
	"off": bme280.FilterOff,
	"2":   bme280.FilterCoeff2,
	"4":   bme280.FilterCoeff4,
	"8":   bme280.FilterCoeff8,
	"16":  bme280.FilterCoeff16,
}

var oversamplingValues = map[string]bme280.Oversampling{
	"skip": bme280.OversamplingSkip,
	"x1":   bme280.Oversampling1x,
	"x2":   bme280.Oversampling2x,
	"x4":   bme280.Oversampling4x,
	"x8":   bme280.Oversampling8x,
	"x16":  bme280.Oversampling16x,
}

var modeValues = map[string]bme280.Mode{
	"sleep":  bme280.ModeSleep,
	"forced": bme280.ModeForced,
	"normal": bme280.ModeNormal,
}

var configureCmd = cli.Command{
	Name:  "configure",
	Usage: "write standby/filter/oversampling/mode configuration",
	Flags: append([]cli.Flag{
		&cli.StringFlag{Name: "profile", Aliases: []string{"p"}, Usage: "YAML configuration profile file"},
		&cli.StringFlag{Name: "standby", Value: "1000ms"},
		&cli.StringFlag{Name: "filter", Value: "off"},
		&cli.BoolFlag{Name: "spi3w"},
		&cli.StringFlag{Name: "temp-os", Value: "x1"},
		&cli.StringFlag{Name: "press-os", Value: "x1"},
		&cli.StringFlag{Name: "hum-os", Value: "x1"},
		&cli.StringFlag{Name: "mode", Value: "normal"},
	}, transportFlags...),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		p := profile{
			Standby:                 c.String("standby"),
			Filter:                  c.String("filter"),
			SPI3W:                   c.Bool("spi3w"),
			TemperatureOversampling: c.String("temp-os"),
			PressureOversampling:    c.String("press-os"),
			HumidityOversampling:    c.String("hum-os"),
			Mode:                    c.String("mode"),
		}
		if file := c.String("profile"); file != "" {
			raw, err := os.ReadFile(file)
			if err != nil {
				return console.Exit(1, "could not read profile: %s", console.Red(err))
			}
			if err := yaml.Unmarshal(raw, &p); err != nil {
				return console.Exit(1, "could not parse profile: %s", console.Red(err))
			}
		}
		dev, err := openDevice(ctx, c)
		if err != nil {
			return console.Exit(1, "device initialization error: %s", console.Red(err))
		}
		if err := applyProfile(ctx, dev, p); err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		console.Print("configuration written")
		return nil
	},
}

func applyProfile(ctx context.Context, dev *bme280.BME280, p profile) error {
	standby, ok := standbyValues[p.Standby]
	if !ok {
		return fmt.Errorf("unknown standby time %q", p.Standby)
	}
	filter, ok := filterValues[p.Filter]
	if !ok {
		return fmt.Errorf("unknown filter coefficient %q", p.Filter)
	}
	tempOS, ok := oversamplingValues[p.TemperatureOversampling]
	if !ok {
		return fmt.Errorf("unknown temperature oversampling %q", p.TemperatureOversampling)
	}
	pressOS, ok := oversamplingValues[p.PressureOversampling]
	if !ok {
		return fmt.Errorf("unknown pressure oversampling %q", p.PressureOversampling)
	}
	humOS, ok := oversamplingValues[p.HumidityOversampling]
	if !ok {
		return fmt.Errorf("unknown humidity oversampling %q", p.HumidityOversampling)
	}
	mode, ok := modeValues[p.Mode]
	if !ok {
		return fmt.Errorf("unknown mode %q", p.Mode)
	}
	// config is only guaranteed writable in sleep mode; ctrl_hum has to
	// precede ctrl_meas for the oversampling value to latch.
	if err := dev.SetCtrlMeas(ctx, tempOS, pressOS, bme280.ModeSleep); err != nil {
		return err
	}
	if err := dev.SetConfig(ctx, standby, filter, p.SPI3W); err != nil {
		return err
	}
	if err := dev.SetCtrlHum(ctx, humOS); err != nil {
		return err
	}
	return dev.SetCtrlMeas(ctx, tempOS, pressOS, mode)
}
