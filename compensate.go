package bme280

// Fixed-point compensation per the Bosch reference formulas. All
// arithmetic runs on int64: the temperature intermediates fit in 32
// bits but the pressure chain shifts by up to 47 bits and overflows
// anything narrower.

// humidityMax is the Q22.10 ceiling of the humidity formula
// (100 %RH == 100 << 22 >> 10 == 419430400).
const humidityMax = 419430400

// compensateTemperature converts a raw 20-bit temperature ADC value to
// degrees Celsius. The second return value is t_fine, the shared
// intermediate consumed by the pressure and humidity formulas; it is
// only valid for the raw sample it was computed from.
func (c calibration) compensateTemperature(raw uint32) (float64, int64) {
	adc := int64(raw)
	t1 := int64(c.t1)

	var1 := (((adc >> 3) - (t1 << 1)) * int64(c.t2)) >> 11
	var2 := (((((adc >> 4) - t1) * ((adc >> 4) - t1)) >> 12) * int64(c.t3)) >> 14
	tFine := var1 + var2

	// hundredths of a degree
	t := (tFine*5 + 128) >> 8
	return float64(t) / 100.0, tFine
}

// compensatePressure converts a raw 20-bit pressure ADC value to hPa.
// When the var1 denominator evaluates to zero the formula is undefined;
// the device is reporting garbage (e.g. still in reset) and the result
// is the sentinel 0 with ok=false rather than a division fault.
func (c calibration) compensatePressure(raw uint32, tFine int64) (float64, bool) {
	var1 := tFine - 128000
	var2 := var1 * var1 * int64(c.p6)
	var2 += (var1 * int64(c.p5)) << 17
	var2 += int64(c.p4) << 35
	var1 = ((var1 * var1 * int64(c.p3)) >> 8) + ((var1 * int64(c.p2)) << 12)
	var1 = (((int64(1) << 47) + var1) * int64(c.p1)) >> 33
	if var1 == 0 {
		return 0, false
	}

	p := 1048576 - int64(raw)
	p = ((p<<31 - var2) * 3125) / var1
	var1 = (int64(c.p9) * (p >> 13) * (p >> 13)) >> 25
	var2 = (int64(c.p8) * p) >> 19
	p = ((p + var1 + var2) >> 8) + (int64(c.p7) << 4)

	// p is in Q24.8 Pascal; /256 to Pa, /100 to hPa
	return float64(p) / 256.0 / 100.0, true
}

// compensateHumidity converts a raw 16-bit humidity ADC value to %RH.
// The intermediate is clamped to [0, humidityMax] before the final
// shift: near the calibration edges the raw formula can underflow
// negative or overflow past 100 %RH.
func (c calibration) compensateHumidity(raw uint32, tFine int64) float64 {
	v := tFine - 76800

	v = (((int64(raw)<<14 - int64(c.h4)<<20 - int64(c.h5)*v) + 16384) >> 15) *
		(((((((v*int64(c.h6))>>10)*(((v*int64(c.h3))>>11)+32768))>>10)+2097152)*int64(c.h2) + 8192) >> 14)
	v -= ((((v >> 15) * (v >> 15)) >> 7) * int64(c.h1)) >> 4

	if v < 0 {
		v = 0
	}
	if v > humidityMax {
		v = humidityMax
	}
	// Q22.10 to %RH
	return float64(v>>12) / 1024.0
}
