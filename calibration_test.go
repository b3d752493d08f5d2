package bme280

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Calibration blocks encoding the coefficient set from the Bosch
// datasheet worked example (T1..P9), plus a representative humidity set.
var calibTPFixture = []byte{
	0x70, 0x6B, // T1 = 27504
	0x43, 0x67, // T2 = 26435
	0x18, 0xFC, // T3 = -1000
	0x7D, 0x8E, // P1 = 36477
	0x43, 0xD6, // P2 = -10685
	0xD0, 0x0B, // P3 = 3024
	0x27, 0x0B, // P4 = 2855
	0x8C, 0x00, // P5 = 140
	0xF9, 0xFF, // P6 = -7
	0x8C, 0x3C, // P7 = 15500
	0xF8, 0xC6, // P8 = -14600
	0x70, 0x17, // P9 = 6000
}

const calibH1Fixture = byte(0x4B) // H1 = 75

var calibHFixture = []byte{
	0x6A, 0x01, // H2 = 362
	0x00,             // H3 = 0
	0x14, 0x2C, 0x03, // H4 = 332, H5 = 50 (nibble-packed)
	0x1E, // H6 = 30
	0x00, // 0xE8, unused
}

func testCalibration() calibration {
	return parseCalibration(calibTPFixture, calibH1Fixture, calibHFixture)
}

func TestParseCalibration(t *testing.T) {
	c := testCalibration()

	assert.Equal(t, uint16(27504), c.t1)
	assert.Equal(t, int16(26435), c.t2)
	assert.Equal(t, int16(-1000), c.t3)

	assert.Equal(t, uint16(36477), c.p1)
	assert.Equal(t, int16(-10685), c.p2)
	assert.Equal(t, int16(3024), c.p3)
	assert.Equal(t, int16(2855), c.p4)
	assert.Equal(t, int16(140), c.p5)
	assert.Equal(t, int16(-7), c.p6)
	assert.Equal(t, int16(15500), c.p7)
	assert.Equal(t, int16(-14600), c.p8)
	assert.Equal(t, int16(6000), c.p9)

	assert.Equal(t, uint8(75), c.h1)
	assert.Equal(t, int16(362), c.h2)
	assert.Equal(t, uint8(0), c.h3)
	assert.Equal(t, int16(332), c.h4)
	assert.Equal(t, int16(50), c.h5)
	assert.Equal(t, int8(30), c.h6)
}

func TestUnpackH4H5(t *testing.T) {
	tests := []struct {
		name       string
		e4, e5, e6 byte
		h4, h5     int16
	}{
		{"fixture", 0x14, 0x2C, 0x03, 332, 50},
		{"zero", 0x00, 0x00, 0x00, 0, 0},
		{"all bits", 0xFF, 0xFF, 0xFF, 4095, 4095},
		{"nibbles do not bleed", 0x01, 0xF0, 0x01, 16, 31},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h4, h5 := unpackH4H5(test.e4, test.e5, test.e6)
			assert.Equal(t, test.h4, h4)
			assert.Equal(t, test.h5, h5)
		})
	}
}
