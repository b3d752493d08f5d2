package bme280

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Raw ADC words from the Bosch datasheet worked example; with the
// fixture coefficients the reference implementation yields t_fine =
// 128422, T = 25.08 °C and p = 25767233 in Q24.8 (1006.5325 hPa).
const (
	exampleRawTemp  = uint32(519888)
	exampleRawPress = uint32(415148)
	exampleRawHum   = uint32(33188)
)

func TestCompensateTemperature(t *testing.T) {
	c := testCalibration()

	temp, tFine := c.compensateTemperature(exampleRawTemp)

	assert.Equal(t, int64(128422), tFine)
	assert.Equal(t, 25.08, temp)
}

func TestCompensatePressure(t *testing.T) {
	c := testCalibration()

	p, ok := c.compensatePressure(exampleRawPress, 128422)

	assert.True(t, ok)
	assert.InDelta(t, 1006.5325390625, p, 1e-9)
}

func TestCompensatePressure_ZeroDenominator(t *testing.T) {
	// p1 = 0 collapses the var1 denominator to zero for any input; the
	// result is the sentinel 0, not a divide fault.
	c := testCalibration()
	c.p1 = 0

	p, ok := c.compensatePressure(exampleRawPress, 128422)

	assert.False(t, ok)
	assert.Equal(t, 0.0, p)
}

func TestCompensateHumidity(t *testing.T) {
	c := testCalibration()

	tests := []struct {
		name     string
		raw      uint32
		expected float64
	}{
		{"datasheet example", exampleRawHum, 65.947265625},
		// raw 0 drives the intermediate below zero; clamped to 0 %RH
		{"underflow clamp", 0, 0.0},
		// raw 0xFFFF overshoots the Q22.10 ceiling; clamped to 100 %RH
		{"overflow clamp", 65535, 100.0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, c.compensateHumidity(test.raw, 128422))
		})
	}
}
