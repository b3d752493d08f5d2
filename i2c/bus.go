package i2c

import (
	"context"
	"fmt"

	bme280 "github.com/marcinruszkiewicz/rah-bme280"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var _ bme280.I2CBus = &GenericBus{}

// GenericBus drives a kernel-exposed I2C bus through periph.io. Every
// method maps to a single Tx, so a register-selected read is one
// write+read transaction with a repeated start in between.
type GenericBus struct {
	bus i2c.BusCloser
}

// NewGenericBus opens the bus registered under dev (a name like "1" or
// "/dev/i2c-1").
func NewGenericBus(dev string) (*GenericBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return &GenericBus{
		bus: bus,
	}, nil
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), nil, buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c device %x: %w: %w", address, bme280.ErrBusIO, err)
	}
	return nil
}

func (b *GenericBus) ReadRegFromAddr(ctx context.Context, address byte, register byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), []byte{register}, buffer)
	if err != nil {
		return fmt.Errorf("could not read register %x of i2c device %x: %w: %w", register, address, bme280.ErrBusIO, err)
	}
	return nil
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), buffer, nil)
	if err != nil {
		return fmt.Errorf("could not write to i2c device %x: %w: %w", address, bme280.ErrBusIO, err)
	}
	return nil
}

func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}
