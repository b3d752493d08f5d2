package adapter

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	bme280 "github.com/marcinruszkiewicz/rah-bme280"
	"github.com/marcinruszkiewicz/rah-bme280/cmd/bme280/console"

	"github.com/karalabe/hid"
)

const VendorID = 0x04D8
const ProductID = 0x00DD

// MCP2221 HID command codes used by this adapter.
const (
	cmdStatusSetParams byte = 0x10
	cmdGetI2CData      byte = 0x40
	cmdI2CWriteData    byte = 0x90
	cmdI2CReadData     byte = 0x91
	cmdI2CReadRepStart byte = 0x93
	cmdI2CWriteNoStop  byte = 0x94
)

// MCP2221 is a Microchip USB-to-I2C bridge. The HID device is
// enumerated and opened for every transaction, matching the
// open/transact/close transport model of the driver; only the 64-byte
// request/response scratch buffers are reused between calls.
type MCP2221 struct {
	mx           sync.Mutex
	request      []byte
	response     []byte
	responseWait time.Duration
}

var _ bme280.I2CBus = &MCP2221{}

// MCP2221Status reports the I2C engine state parsed from the chip's
// status command response.
type MCP2221Status struct {
	I2CDataBufferCounter   int    `yaml:"i2c_data_buffer_counter"`
	I2CSpeedDivider        int    `yaml:"i2c_speed_divider"`
	I2CTimeout             int    `yaml:"i2c_timeout"`
	CurrentAddress         string `yaml:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested_size"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent_size"`
	ReadPending            int    `yaml:"read_pending"`
}

func NewMCP2221() *MCP2221 {
	return &MCP2221{
		request:      make([]byte, 64),
		response:     make([]byte, 64),
		responseWait: 50 * time.Millisecond,
	}
}

func (d *MCP2221) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdI2CWriteData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address << 1
	copy(d.request[4:], buffer)
	err := d.send(ctx, true)
	if err != nil {
		return fmt.Errorf("write to %x failed: %w: %w", address, bme280.ErrBusIO, err)
	}
	if d.response[1] == 0x01 {
		console.Debug("adapter busy")
		return bme280.ErrBusBusy
	}
	return nil
}

func (d *MCP2221) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdI2CReadData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address<<1 + 1
	if err := d.send(ctx, true); err != nil {
		return fmt.Errorf("bus read from %x failed: %w: %w", address, bme280.ErrBusIO, err)
	}
	return d.fetchReadData(ctx, address, buffer)
}

// ReadRegFromAddr performs the register-selected read as one bus
// transaction: the register byte goes out without a stop condition and
// the read is started with a repeated start.
func (d *MCP2221) ReadRegFromAddr(ctx context.Context, address byte, register byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdI2CWriteNoStop
	binary.LittleEndian.PutUint16(d.request[1:3], 1)
	d.request[3] = address << 1
	d.request[4] = register
	if err := d.send(ctx, true); err != nil {
		return fmt.Errorf("register select on %x failed: %w: %w", address, bme280.ErrBusIO, err)
	}
	if d.response[1] == 0x01 {
		return bme280.ErrBusBusy
	}

	d.resetBuffers()
	d.request[0] = cmdI2CReadRepStart
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address<<1 + 1
	if err := d.send(ctx, true); err != nil {
		return fmt.Errorf("bus read from %x failed: %w: %w", address, bme280.ErrBusIO, err)
	}
	return d.fetchReadData(ctx, address, buffer)
}

// fetchReadData drains the I2C engine buffer after a read command has
// been issued. Expects d.mx to be held.
func (d *MCP2221) fetchReadData(ctx context.Context, address byte, buffer []byte) error {
	d.request[0] = cmdGetI2CData
	resetBuffer(d.response)
	if err := d.send(ctx, true); err != nil {
		return fmt.Errorf("error getting read data from adapter: %w: %w", bme280.ErrBusIO, err)
	}
	if d.response[1] == 0x41 {
		return fmt.Errorf("error reading the I2C slave data from the I2C engine: %w", bme280.ErrBusIO)
	}
	if d.response[3] == 127 || int(d.response[3]) != len(buffer) {
		return fmt.Errorf("invalid data size byte; expected %d, got %d: %w", len(buffer), d.response[3], bme280.ErrBusIO)
	}
	copy(buffer, d.response[4:])
	return nil
}

func (d *MCP2221) Status(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	if err := d.send(ctx, true); err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func bufferToStatus(buffer []byte) *MCP2221Status {
	// Response layout (status/set parameters command): bytes 9-10 are
	// the requested transfer length, 11-12 the transferred count, 13
	// the internal buffer counter, 14 the speed divider, 15 the
	// timeout, 16-17 the address in use, 25 the pending read flag.
	status := &MCP2221Status{
		I2CDataBufferCounter: int(buffer[13]),
		I2CSpeedDivider:      int(buffer[14]),
		I2CTimeout:           int(buffer[15]),
		ReadPending:          int(buffer[25]),
		CurrentAddress:       hex.EncodeToString(buffer[16:18]),
	}
	status.LastWriteRequestedSize = binary.LittleEndian.Uint16(buffer[9:11])
	status.LastWriteSentSize = binary.LittleEndian.Uint16(buffer[11:13])
	return status
}

func (d *MCP2221) Release(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	_, err := d.releaseBus(ctx)
	return err
}

// ReleaseBus cancels any pending transfer and frees the I2C engine,
// returning the post-release status.
func (d *MCP2221) ReleaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.releaseBus(ctx)
}

func (d *MCP2221) releaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	d.request[2] = 0x10
	if err := d.send(ctx, true); err != nil {
		return nil, fmt.Errorf("bus release request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func (d *MCP2221) send(ctx context.Context, response bool) error {
	devs := hid.Enumerate(VendorID, ProductID)
	if len(devs) == 0 {
		return fmt.Errorf("MCP2221 device not found")
	}
	if len(devs) > 1 {
		return fmt.Errorf("ambiguous device identification")
	}
	dev, err := devs[0].Open()
	if err != nil {
		return fmt.Errorf("error opening device: %w", err)
	}
	defer func() {
		_ = dev.Close()
	}()
	verbose := console.IsVerbose(ctx)
	if verbose {
		console.Printf("sending message to adapter:\n%s\n", hex.Dump(d.request))
	}
	n, err := dev.Write(d.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != 64 {
		return fmt.Errorf("short write: %d", n)
	}
	if !response {
		return nil
	}
	time.Sleep(d.responseWait)
	n, err = dev.Read(d.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != 64 {
		return fmt.Errorf("short read: %d", n)
	}
	if verbose {
		console.Printf("read message from adapter:\n%s\n", hex.Dump(d.response))
	}
	return nil
}

func (d *MCP2221) resetBuffers() {
	resetBuffer(d.request)
	resetBuffer(d.response)
}

func resetBuffer(buf []byte) {
	for i := range buf {
		buf[i] = 0x00
	}
}
