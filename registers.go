package bme280

// Register map (Bosch BME280 datasheet, table 18).
const (
	regCalibTP   byte = 0x88 // 24 bytes, dig_T1..dig_P9
	regCalibH1   byte = 0xA1 // 1 byte, dig_H1
	regCalibH2H6 byte = 0xE1 // 8 bytes, dig_H2..dig_H6
	regID        byte = 0xD0
	regReset     byte = 0xE0
	regCtrlHum   byte = 0xF2
	regStatus    byte = 0xF3
	regCtrlMeas  byte = 0xF4
	regConfig    byte = 0xF5
	regData      byte = 0xF7 // 8 bytes, press/temp/hum readout
)

const (
	calibTPLen   = 24
	calibH2H6Len = 8
	dataLen      = 8
)

// resetMagic written to regReset triggers a full power-on reset.
const resetMagic byte = 0xB6

// Oversampling codes shared by the osrs_t, osrs_p and osrs_h fields.
type Oversampling byte

const (
	OversamplingSkip Oversampling = iota
	Oversampling1x
	Oversampling2x
	Oversampling4x
	Oversampling8x
	Oversampling16x
)

// StandbyTime selects the inactive duration between measurements in
// normal mode. Codes 6 and 7 are BME280-specific (10ms/20ms); on the
// BMP280 family they mean 2s/4s instead.
type StandbyTime byte

const (
	Standby500us StandbyTime = iota // 0.5 ms
	Standby62ms5                    // 62.5 ms
	Standby125ms
	Standby250ms
	Standby500ms
	Standby1000ms
	Standby10ms
	Standby20ms
)

// FilterCoeff selects the IIR filter coefficient.
type FilterCoeff byte

const (
	FilterOff FilterCoeff = iota
	FilterCoeff2
	FilterCoeff4
	FilterCoeff8
	FilterCoeff16
)

// Mode is the sensor power mode (ctrl_meas bits 1:0).
type Mode byte

const (
	ModeSleep  Mode = 0b00
	ModeForced Mode = 0b01
	ModeNormal Mode = 0b11
)

// packConfig builds the config register payload:
// t_sb on bits 7:5, filter on bits 4:2, spi3w_en on bit 0.
func packConfig(standby StandbyTime, filter FilterCoeff, spi3w bool) byte {
	b := byte(standby)<<5 | byte(filter)<<2
	if spi3w {
		b |= 0x01
	}
	return b
}

// packCtrlMeas builds the ctrl_meas register payload:
// osrs_t on bits 7:5, osrs_p on bits 4:2, mode on bits 1:0.
func packCtrlMeas(tempOS, pressOS Oversampling, mode Mode) byte {
	return byte(tempOS)<<5 | byte(pressOS)<<2 | byte(mode)
}

// packCtrlHum builds the ctrl_hum register payload (osrs_h on bits 2:0).
// Changes only take effect after a subsequent ctrl_meas write.
func packCtrlHum(humOS Oversampling) byte {
	return byte(humOS) & 0x07
}
