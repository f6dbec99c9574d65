// Register addresses and bitfields used in the operation of the ADF4377
// wideband synthesizer.

package adf4377

const (
	// --- SPI instruction ---
	spiWriteCmd   = 0x00
	spiReadCmd    = 0x80 // R/W bit of the 16-bit instruction word
	spiDummy      = 0x00
	spiScratchpad = 0x5A
	chipType      = 0x06
	frameLen      = 3

	// --- Register addresses ---
	regInterface     = 0x00 // soft reset, bit order, SDO, address ascension (+ reflected copies)
	regChipType      = 0x03 // R
	regScratchpad    = 0x0A // R/W, no functional effect
	regNIntLSB       = 0x10 // N_INT[7:0]; writing it starts VCO autocalibration
	regNIntMSB       = 0x11 // EN_AUTOCAL, EN_RDBLR, DCLK_DIV2, N_INT[11:8]
	regDividers      = 0x12 // CLKOUT_DIV, R_DIV
	regChargePump    = 0x15
	regOutputs       = 0x19 // CLKOUT2_OP, CLKOUT1_OP
	regPowerDown     = 0x1A
	regCalClocks     = 0x1C // EN_DNCLK, EN_DRCLK
	regMuxout        = 0x1D
	regADCClock      = 0x20 // EN_ADC_CLK
	regDClkMode      = 0x24
	regVCOBandDiv    = 0x26
	regSynthLockLSB  = 0x27
	regSynthLockMSB  = 0x28
	regVCOALCLSB     = 0x29
	regVCOALCMSB     = 0x2A
	regADCClockDiv   = 0x2D
	regADCControl    = 0x2E
	regDClkDiv1      = 0x2F
	maxRegisterAddr  = 0x7F
	fullRegisterMask = 0xFF
)

// REG 0x00. Bits 7:4 mirror bits 0:3 so the word reads the same in either
// bit order.
const (
	softResetR   = 1 << 7
	lsbFirstR    = 1 << 6
	addrAscR     = 1 << 5
	sdoActiveR   = 1 << 4
	sdoActive    = 1 << 3
	addrAsc      = 1 << 2
	lsbFirst     = 1 << 1
	softReset    = 1 << 0
	softResetAll = softReset | softResetR
)

// Field masks.
const (
	enAutocal     = 1 << 7   // 0x11
	enRefDoubler  = 1 << 6   // 0x11
	dclkDiv2Mask  = 0x3 << 4 // 0x11
	nIntMSBMask   = 0x0F     // 0x11
	clkoutDivMask = 0x3 << 6 // 0x12
	rDivMask      = 0x3F     // 0x12
	cpCurrentMask = 0x0F     // 0x15
	clkout2OpMask = 0x3 << 6 // 0x19
	clkout1OpMask = 0x3 << 4 // 0x19
	enDNClk       = 1 << 7   // 0x1C
	enDRClk       = 1 << 6   // 0x1C
	muxoutMask    = 0xF << 4 // 0x1D
	enADCClk      = 1 << 3   // 0x20
	dclkModeBit   = 1 << 2   // 0x24
	timeoutMSB    = 0x7F     // 0x28, 0x2A
	enADCCnv      = 1 << 7   // 0x2E
	enADC         = 1 << 1   // 0x2E
	adcAConvVCO   = 1 << 0   // 0x2E: ADC_A_CONV = VCO calibration
	dclkDiv1Mask  = 0x3      // 0x2F
	powerDownAll  = 0xFF     // 0x1A, every section powered down
	powerUpAll    = 0x00     // 0x1A, every section operating
	nIntMSBShift  = 8
	clkoutShift   = 6
	dclkDiv2Shift = 4
	muxoutShift   = 4
)

// DCLK divider codes.
const (
	dclkDiv1By1 = 0x0
	dclkDiv1By2 = 0x1
	dclkDiv2By1 = 0x0
	dclkDiv2By2 = 0x1
)

// regOp is one register step. A full mask is a plain write; anything else is
// a read-modify-write of the masked bits.
type regOp struct {
	addr uint8
	mask uint8
	val  uint8
}

// reservedDefaults holds vendor-reserved bit values required for correct
// analog behaviour. Opaque; not derived.
var reservedDefaults = [...]regOp{
	{0x0F, 0xFF, 0x14},
	{0x1C, 0x01, 0x01},
	{0x1F, 0x1F, 0x07},
	{0x20, 0x01, 0x01},
	{0x21, 0xFF, 0xD3},
	{0x22, 0xFF, 0x32},
	{0x23, 0xFF, 0x18},
	{0x25, 0x3F, 0x0B},
	{0x2C, 0xFF, 0xC0},
	{0x31, 0xFF, 0x09},
	{0x32, 0x0F, 0x09},
	{0x33, 0xFF, 0x18},
	{0x34, 0xFF, 0x08},
	{0x3A, 0xFF, 0x5D},
	{0x3B, 0xFF, 0x2B},
	{0x42, 0xFF, 0x05},
}
