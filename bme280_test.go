package bme280

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockI2CBus is a mock implementation of I2CBus using testify/mock.
type MockI2CBus struct {
	mock.Mock
}

func (m *MockI2CBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
		copy(buffer, data)
	}
	return args.Error(1)
}

func (m *MockI2CBus) ReadRegFromAddr(ctx context.Context, address byte, register byte, buffer []byte) error {
	args := m.Called(ctx, address, register, buffer)
	if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
		copy(buffer, data)
	}
	return args.Error(1)
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockI2CBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// expectCalibration arms the mock with the three calibration block
// reads every constructor performs.
func expectCalibration(bus *MockI2CBus, address byte) {
	bus.On("ReadRegFromAddr", mock.Anything, address, regCalibTP, mock.Anything).Return(calibTPFixture, nil)
	bus.On("ReadRegFromAddr", mock.Anything, address, regCalibH1, mock.Anything).Return([]byte{calibH1Fixture}, nil)
	bus.On("ReadRegFromAddr", mock.Anything, address, regCalibH2H6, mock.Anything).Return(calibHFixture, nil)
}

// Burst data block encoding the datasheet example ADC words
// (press 415148, temp 519888, hum 33188).
var dataFixture = []byte{0x65, 0x5A, 0x30, 0x7E, 0xED, 0x00, 0x81, 0xA4}

func TestDecodeRawSample(t *testing.T) {
	raw := decodeRawSample(dataFixture)

	assert.Equal(t, uint32(415148), raw.pressure)
	assert.Equal(t, uint32(519888), raw.temperature)
	assert.Equal(t, uint32(33188), raw.humidity)
}

func TestNew_ReadsCalibrationOnce(t *testing.T) {
	bus := &MockI2CBus{}
	expectCalibration(bus, DefaultAddress)

	s, err := New(context.Background(), bus)

	assert.NoError(t, err)
	assert.Equal(t, testCalibration(), s.cal)
	bus.AssertNumberOfCalls(t, "ReadRegFromAddr", 3)
}

func TestNew_CustomAddress(t *testing.T) {
	bus := &MockI2CBus{}
	expectCalibration(bus, 0x77)

	s, err := New(context.Background(), bus, WithAddress(0x77))

	assert.NoError(t, err)
	assert.Equal(t, byte(0x77), s.address)
}

func TestNew_BusFailure(t *testing.T) {
	tests := []struct {
		name    string
		failing byte
	}{
		{"T/P block", regCalibTP},
		{"H1 byte", regCalibH1},
		{"H2..H6 block", regCalibH2H6},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bus := &MockI2CBus{}
			busErr := fmt.Errorf("remote I/O error: %w", ErrBusIO)
			bus.On("ReadRegFromAddr", mock.Anything, byte(DefaultAddress), test.failing, mock.Anything).Return(nil, busErr)
			bus.On("ReadRegFromAddr", mock.Anything, byte(DefaultAddress), mock.Anything, mock.Anything).Return(calibTPFixture, nil)

			s, err := New(context.Background(), bus)

			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrBusIO)
		})
	}
}

func TestGetMeasurement(t *testing.T) {
	bus := &MockI2CBus{}
	expectCalibration(bus, DefaultAddress)
	bus.On("ReadRegFromAddr", mock.Anything, byte(DefaultAddress), regData, mock.Anything).Return(dataFixture, nil)

	s, err := New(context.Background(), bus)
	assert.NoError(t, err)

	m, err := s.GetMeasurement(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 25.08, m.Temperature)
	assert.InDelta(t, 1006.5325390625, m.Pressure, 1e-9)
	assert.Equal(t, 65.947265625, m.Humidity)
}

func TestGetMeasurement_BusFailure(t *testing.T) {
	bus := &MockI2CBus{}
	expectCalibration(bus, DefaultAddress)
	bus.On("ReadRegFromAddr", mock.Anything, byte(DefaultAddress), regData, mock.Anything).
		Return(nil, fmt.Errorf("NACK: %w", ErrBusIO))

	s, err := New(context.Background(), bus)
	assert.NoError(t, err)

	_, err = s.GetMeasurement(context.Background())
	assert.ErrorIs(t, err, ErrBusIO)
}

func TestGetTempAndHum(t *testing.T) {
	bus := &MockI2CBus{}
	expectCalibration(bus, DefaultAddress)
	bus.On("ReadRegFromAddr", mock.Anything, byte(DefaultAddress), regData, mock.Anything).Return(dataFixture, nil)

	s, err := New(context.Background(), bus)
	assert.NoError(t, err)

	temp, hum, err := s.GetTempAndHum(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, float32(25.08), temp)
	assert.Equal(t, float32(65.947265625), hum)
}

func TestReadID(t *testing.T) {
	bus := &MockI2CBus{}
	expectCalibration(bus, DefaultAddress)
	bus.On("ReadRegFromAddr", mock.Anything, byte(DefaultAddress), regID, mock.Anything).Return([]byte{0x60}, nil)

	s, err := New(context.Background(), bus)
	assert.NoError(t, err)

	id, err := s.ReadID(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "60", id)
}

func TestReadStatus(t *testing.T) {
	tests := []struct {
		name     string
		register byte
		expected Status
	}{
		{"idle", 0x00, Status{}},
		{"measuring", 0x08, Status{Measuring: true}},
		{"im_update", 0x01, Status{ImUpdate: true}},
		{"both", 0x09, Status{Measuring: true, ImUpdate: true}},
		{"unrelated bits ignored", 0xF6, Status{Measuring: false, ImUpdate: false}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bus := &MockI2CBus{}
			expectCalibration(bus, DefaultAddress)
			bus.On("ReadRegFromAddr", mock.Anything, byte(DefaultAddress), regStatus, mock.Anything).Return([]byte{test.register}, nil)

			s, err := New(context.Background(), bus)
			assert.NoError(t, err)

			st, err := s.ReadStatus(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, test.expected, st)
		})
	}
}

func TestReset(t *testing.T) {
	bus := &MockI2CBus{}
	expectCalibration(bus, DefaultAddress)
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{0xE0, 0xB6}).Return(nil)

	s, err := New(context.Background(), bus)
	assert.NoError(t, err)

	assert.NoError(t, s.Reset(context.Background()))
	bus.AssertExpectations(t)
}

func TestConfigurationWrites(t *testing.T) {
	bus := &MockI2CBus{}
	expectCalibration(bus, DefaultAddress)
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{0xF5, 0xA8}).Return(nil)
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{0xF4, 0x57}).Return(nil)
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{0xF2, 0x05}).Return(nil)

	s, err := New(context.Background(), bus)
	assert.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, s.SetConfig(ctx, Standby1000ms, FilterCoeff4, false))
	assert.NoError(t, s.SetCtrlMeas(ctx, Oversampling2x, Oversampling16x, ModeNormal))
	assert.NoError(t, s.SetCtrlHum(ctx, Oversampling16x))
	bus.AssertExpectations(t)
}

func TestConfigurationWrite_BusFailure(t *testing.T) {
	bus := &MockI2CBus{}
	expectCalibration(bus, DefaultAddress)
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
		Return(fmt.Errorf("device absent: %w", ErrBusIO))

	s, err := New(context.Background(), bus)
	assert.NoError(t, err)

	err = s.SetCtrlHum(context.Background(), Oversampling1x)
	assert.ErrorIs(t, err, ErrBusIO)
}
