package bme280

import (
	"context"
	"fmt"
)

// ErrBusIO marks any failed bus transaction (device absent, NACK,
// kernel-level I/O failure). Transports wrap it so callers can match
// with errors.Is regardless of which adapter produced the failure.
var ErrBusIO = fmt.Errorf("i2c bus I/O error")

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type AddressableReader interface {
	// ReadFromAddr selects the device and reads len(buffer) bytes
	// without writing a command byte first.
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
	// ReadRegFromAddr selects the device, writes a single register
	// address byte and reads len(buffer) bytes in the same transaction.
	ReadRegFromAddr(ctx context.Context, address byte, register byte, buffer []byte) error
}

type AddressableWriter interface {
	// WriteToAddr selects the device and writes all bytes in one
	// transaction; by convention the first byte is the target register.
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus is the transport contract consumed by the driver. Each call
// performs exactly one bus transaction; implementations hold no
// connection state between calls and do not retry.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}
