package bme280

import "encoding/binary"

// calibration holds the 18 factory trimming coefficients. The table is
// read once during device construction and never mutated afterwards;
// a partially populated table is not a valid state, so the parsers only
// run after all three register blocks have been read successfully.
type calibration struct {
	t1 uint16
	t2 int16
	t3 int16

	p1 uint16
	p2 int16
	p3 int16
	p4 int16
	p5 int16
	p6 int16
	p7 int16
	p8 int16
	p9 int16

	h1 uint8
	h2 int16
	h3 uint8
	h4 int16
	h5 int16
	h6 int8
}

// parseCalibration decodes the three calibration blocks: tp covers
// registers 0x88..0x9F (24 bytes), h1 is the single byte at 0xA1 and
// h covers 0xE1..0xE8 (8 bytes).
func parseCalibration(tp []byte, h1 byte, h []byte) calibration {
	var c calibration

	c.t1 = binary.LittleEndian.Uint16(tp[0:])
	c.t2 = int16(binary.LittleEndian.Uint16(tp[2:]))
	c.t3 = int16(binary.LittleEndian.Uint16(tp[4:]))

	c.p1 = binary.LittleEndian.Uint16(tp[6:])
	c.p2 = int16(binary.LittleEndian.Uint16(tp[8:]))
	c.p3 = int16(binary.LittleEndian.Uint16(tp[10:]))
	c.p4 = int16(binary.LittleEndian.Uint16(tp[12:]))
	c.p5 = int16(binary.LittleEndian.Uint16(tp[14:]))
	c.p6 = int16(binary.LittleEndian.Uint16(tp[16:]))
	c.p7 = int16(binary.LittleEndian.Uint16(tp[18:]))
	c.p8 = int16(binary.LittleEndian.Uint16(tp[20:]))
	c.p9 = int16(binary.LittleEndian.Uint16(tp[22:]))

	c.h1 = h1
	c.h2 = int16(binary.LittleEndian.Uint16(h[0:]))
	c.h3 = h[2]
	c.h4, c.h5 = unpackH4H5(h[3], h[4], h[5])
	c.h6 = int8(h[6])

	return c
}

// unpackH4H5 reconstructs the two 12-bit coefficients interleaved over
// registers 0xE4..0xE6. The contract is bit-exact and unchecked (the
// device carries no checksum over the calibration area):
//
//	H4 = (0xE4 << 4) | (0xE5 & 0x0F)
//	H5 = (0xE6 << 4) | (0xE5 >> 4)
func unpackH4H5(e4, e5, e6 byte) (h4, h5 int16) {
	h4 = int16(e4)<<4 | int16(e5&0x0F)
	h5 = int16(e6)<<4 | int16(e5>>4)
	return h4, h5
}
