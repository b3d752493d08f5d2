package adapter

import (
	"context"
	"fmt"

	bme280 "github.com/marcinruszkiewicz/rah-bme280"

	"gobot.io/x/gobot/v2/drivers/i2c"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
)

var _ bme280.I2CBus = &NanoPi{}

// NanoPi exposes a FriendlyELEC NanoPi NEO I2C bus through gobot. A
// generic driver is started and halted around every transaction, so no
// kernel handle outlives a single call.
type NanoPi struct {
	adaptor *nanopi.Adaptor
	busNr   int
}

func NewNanoPi(busNr int) (*NanoPi, error) {
	adaptor := nanopi.NewNeoAdaptor()
	if err := adaptor.I2cBusAdaptor.Connect(); err != nil {
		return nil, fmt.Errorf("adaptor connect error: %w", err)
	}
	return &NanoPi{adaptor: adaptor, busNr: busNr}, nil
}

func (b *NanoPi) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.transact(address, func(board *i2c.GenericDriver) error {
		return board.Read(buffer)
	})
}

func (b *NanoPi) ReadRegFromAddr(ctx context.Context, address byte, register byte, buffer []byte) error {
	return b.transact(address, func(board *i2c.GenericDriver) error {
		if err := board.Write([]byte{register}); err != nil {
			return err
		}
		return board.Read(buffer)
	})
}

func (b *NanoPi) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.transact(address, func(board *i2c.GenericDriver) error {
		return board.Write(buffer)
	})
}

func (b *NanoPi) Release(ctx context.Context) error {
	return nil
}

func (b *NanoPi) Close() error {
	return b.adaptor.I2cBusAdaptor.Finalize()
}

func (b *NanoPi) transact(address byte, op func(board *i2c.GenericDriver) error) error {
	board := i2c.NewGenericDriver(b.adaptor, "bme280", int(address), func(c i2c.Config) {
		c.SetBus(b.busNr)
	})
	if err := board.Start(); err != nil {
		return fmt.Errorf("i2c driver start error: %w: %w", bme280.ErrBusIO, err)
	}
	defer func() { _ = board.Halt() }()
	if err := op(board); err != nil {
		return fmt.Errorf("i2c transaction with %#x failed: %w: %w", address, bme280.ErrBusIO, err)
	}
	return nil
}
