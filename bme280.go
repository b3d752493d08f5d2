package bme280

import (
	"context"
	"encoding/hex"
	"fmt"
)

// DefaultAddress is the 7-bit bus address with SDO pulled low; boards
// with SDO high respond at 0x77 instead.
const DefaultAddress = 0x76

// Measurement is one calibrated readout. Pressure is 0 when the
// compensation denominator collapsed to zero (the device was not ready);
// that is a defined sentinel, not an error.
type Measurement struct {
	Temperature float64 // °C
	Pressure    float64 // hPa
	Humidity    float64 // %RH
}

// Status mirrors the status register (0xF3). Measuring is bit 3 (a
// conversion is running), ImUpdate is bit 0 (NVM data is being copied).
type Status struct {
	Measuring bool
	ImUpdate  bool
}

// rawSample holds the three ADC words decoded from one 8-byte burst
// read; created fresh per measurement, never cached.
type rawSample struct {
	pressure    uint32
	temperature uint32
	humidity    uint32
}

// BME280 represents a Bosch BME280 combined temperature/pressure/
// humidity sensor behind an I2C transport.
//
// Every register access is a fresh, synchronous bus transaction; the
// driver caches nothing but the factory calibration table read at
// construction time. A single instance is not safe for concurrent use
// without external locking.
//
// Typical usage:
//
//	dev, err := bme280.New(ctx, bus)
//	m, err := dev.GetMeasurement(ctx)
type BME280 struct {
	transport I2CBus
	address   byte
	cal       calibration
}

type Config struct {
	Address byte
}

type ConfigOption func(*Config)

func WithAddress(address byte) ConfigOption {
	return func(c *Config) {
		c.Address = address
	}
}

// New creates a sensor connector on the given transport and immediately
// reads the factory calibration blocks. If any of the three reads fails
// no device is returned: a BME280 is never observable with an
// incomplete calibration table.
func New(ctx context.Context, trans I2CBus, opts ...ConfigOption) (*BME280, error) {
	config := &Config{Address: DefaultAddress}
	for _, opt := range opts {
		opt(config)
	}
	s := &BME280{transport: trans, address: config.Address}
	if err := s.readCalibration(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *BME280) readCalibration(ctx context.Context) error {
	tp := make([]byte, calibTPLen)
	if err := s.transport.ReadRegFromAddr(ctx, s.address, regCalibTP, tp); err != nil {
		return fmt.Errorf("bme280: could not read T/P calibration block: %w", err)
	}
	h1 := make([]byte, 1)
	if err := s.transport.ReadRegFromAddr(ctx, s.address, regCalibH1, h1); err != nil {
		return fmt.Errorf("bme280: could not read H1 calibration byte: %w", err)
	}
	h := make([]byte, calibH2H6Len)
	if err := s.transport.ReadRegFromAddr(ctx, s.address, regCalibH2H6, h); err != nil {
		return fmt.Errorf("bme280: could not read H2..H6 calibration block: %w", err)
	}
	s.cal = parseCalibration(tp, h1[0], h)
	return nil
}

// GetMeasurement performs one burst read of the data registers and
// returns the compensated snapshot. The data registers are read whether
// or not a conversion is in progress; poll ReadStatus first if
// freshness matters.
func (s *BME280) GetMeasurement(ctx context.Context) (Measurement, error) {
	raw, err := s.readRawSample(ctx)
	if err != nil {
		return Measurement{}, err
	}
	var m Measurement
	var tFine int64
	m.Temperature, tFine = s.cal.compensateTemperature(raw.temperature)
	m.Pressure, _ = s.cal.compensatePressure(raw.pressure, tFine)
	m.Humidity = s.cal.compensateHumidity(raw.humidity, tFine)
	return m, nil
}

func (s *BME280) readRawSample(ctx context.Context) (rawSample, error) {
	buf := make([]byte, dataLen)
	if err := s.transport.ReadRegFromAddr(ctx, s.address, regData, buf); err != nil {
		return rawSample{}, fmt.Errorf("bme280: could not read data registers: %w", err)
	}
	return decodeRawSample(buf), nil
}

// decodeRawSample reconstructs the three ADC words from the 8-byte
// burst block: press msb/lsb/xlsb, temp msb/lsb/xlsb, hum msb/lsb.
func decodeRawSample(buf []byte) rawSample {
	return rawSample{
		pressure:    uint32(buf[0])<<12 | uint32(buf[1])<<4 | uint32(buf[2])>>2,
		temperature: uint32(buf[3])<<12 | uint32(buf[4])<<4 | uint32(buf[5])>>2,
		humidity:    uint32(buf[6])<<8 | uint32(buf[7]),
	}
}

// GetTemperature performs a single measurement and returns temperature in Celsius.
func (s *BME280) GetTemperature(ctx context.Context) (float32, error) {
	m, err := s.GetMeasurement(ctx)
	return float32(m.Temperature), err
}

// GetHumidity performs a single measurement and returns relative humidity in %RH.
func (s *BME280) GetHumidity(ctx context.Context) (float32, error) {
	m, err := s.GetMeasurement(ctx)
	return float32(m.Humidity), err
}

// GetTempAndHum performs a single measurement and returns temperature and humidity.
func (s *BME280) GetTempAndHum(ctx context.Context) (float32, float32, error) {
	m, err := s.GetMeasurement(ctx)
	return float32(m.Temperature), float32(m.Humidity), err
}

// ReadID returns the chip identification register as a hex string
// ("60" for the BME280).
func (s *BME280) ReadID(ctx context.Context) (string, error) {
	buf := make([]byte, 1)
	if err := s.transport.ReadRegFromAddr(ctx, s.address, regID, buf); err != nil {
		return "", fmt.Errorf("bme280: could not read id register: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ReadStatus reads the status register.
func (s *BME280) ReadStatus(ctx context.Context) (Status, error) {
	buf := make([]byte, 1)
	if err := s.transport.ReadRegFromAddr(ctx, s.address, regStatus, buf); err != nil {
		return Status{}, fmt.Errorf("bme280: could not read status register: %w", err)
	}
	return Status{
		Measuring: buf[0]&0x08 != 0,
		ImUpdate:  buf[0]&0x01 != 0,
	}, nil
}

// Reset triggers a power-on reset. The write is fire-and-forget; the
// device needs ~2ms before it accepts further commands.
func (s *BME280) Reset(ctx context.Context) error {
	return s.writeRegister(ctx, regReset, resetMagic)
}

// SetConfig writes standby time, IIR filter coefficient and the 3-wire
// SPI enable bit. Writes to config may be ignored in normal mode; set
// the mode to sleep first.
func (s *BME280) SetConfig(ctx context.Context, standby StandbyTime, filter FilterCoeff, spi3w bool) error {
	return s.writeRegister(ctx, regConfig, packConfig(standby, filter, spi3w))
}

// SetCtrlMeas writes temperature/pressure oversampling and the power
// mode in a single register update.
func (s *BME280) SetCtrlMeas(ctx context.Context, tempOS, pressOS Oversampling, mode Mode) error {
	return s.writeRegister(ctx, regCtrlMeas, packCtrlMeas(tempOS, pressOS, mode))
}

// SetCtrlHum writes humidity oversampling. The device latches the value
// on the next ctrl_meas write, so call SetCtrlMeas afterwards.
func (s *BME280) SetCtrlHum(ctx context.Context, humOS Oversampling) error {
	return s.writeRegister(ctx, regCtrlHum, packCtrlHum(humOS))
}

func (s *BME280) writeRegister(ctx context.Context, register, value byte) error {
	if err := s.transport.WriteToAddr(ctx, s.address, []byte{register, value}); err != nil {
		return fmt.Errorf("bme280: could not write register %#x: %w", register, err)
	}
	return nil
}
