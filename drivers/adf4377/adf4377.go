// Package adf4377 provides a TinyGo-friendly driver for the ADF4377
// microwave wideband synthesizer (integer-N PLL, two differential outputs).
//
// Design notes (datasheet references):
// • SPI, 3-byte frame: 16-bit instruction (R/W + 15-bit address) then data.
// • LSB-first buses carry every frame byte bit-reversed.
// • VCO 6.4..12.8 GHz, output divider /1 /2 /4 /8, PFD 3..500 MHz.
// • Integer-N only: N_INT is a 12-bit field, no fractional path.
//
// A Device is not safe for concurrent use; callers serialise externally.
package adf4377

import (
	"errors"
	"time"

	"synthcode-go/errcode"
	"synthcode-go/x/conv"
	"synthcode-go/x/mathx"
	"synthcode-go/x/timex"

	"tinygo.org/x/drivers"
)

// ---------------- Top level vars ----------------

var (
	// Sentinel errors (TinyGo-safe; no fmt). Returned wrapped in *errcode.E.
	ErrChipType     = errors.New("adf4377: unexpected chip type")
	ErrScratchpad   = errors.New("adf4377: scratchpad mismatch")
	ErrResetTimeout = errors.New("adf4377: soft reset did not complete")
	ErrOutFreq      = errors.New("adf4377: output frequency out of range")
	ErrRefInFreq    = errors.New("adf4377: reference input frequency out of range")
	ErrPFDFreq      = errors.New("adf4377: phase detector frequency out of range")
	ErrNInt         = errors.New("adf4377: feedback divider out of range")
	ErrClosed       = errors.New("adf4377: device closed")
)

// ---------------- Types and configuration ----------------

// Amplitude selects the CLKOUT1/CLKOUT2 differential swing.
type Amplitude uint8

const (
	Amp420mV Amplitude = iota
	Amp740mV
	Amp850mV
	Amp960mV
)

// Muxout selects the MUXOUT pin function.
type Muxout uint8

const (
	MuxHighZ      Muxout = 0x0
	MuxLockDetect Muxout = 0x1
	MuxLow        Muxout = 0x2
	MuxDivRClk2   Muxout = 0x4
	MuxDivNClk2   Muxout = 0x5
	MuxHigh       Muxout = 0x8
)

// MaxChargePump is the largest CP_I code (11.1 mA).
const MaxChargePump = 15

// Default timings.
const (
	DefaultSettleDelay  = 100 * time.Millisecond
	DefaultResetTimeout = 50 * time.Millisecond
)

// Config is the caller-supplied operating point. Immutable once a Device is
// built from it.
type Config struct {
	RefInHz    uint64 // reference input (REFP/REFN)
	OutHz      uint64 // requested CLKOUT frequency
	ChargePump uint8  // CP_I code, 0..15
	RefDoubler bool
	SPI4Wire   bool // SDO active; false => 3-wire readback on SDIO
	Amplitude  Amplitude
	Muxout     Muxout

	// Optional; zero => defaults.
	SettleDelay  time.Duration // after N_INT write, VCO autocalibration
	ResetTimeout time.Duration // soft reset completion bound
	ResetPoll    time.Duration // spacing between reset polls; 0 => back to back
}

// Validate checks the operating point without touching the bus. A frequency
// problem is reported as errcode.Range, anything else as errcode.InvalidParams.
func (c Config) Validate() error {
	if !mathx.FitsBits(c.ChargePump, 4) {
		return &errcode.E{C: errcode.InvalidParams, Op: "adf4377.config", Msg: "charge pump code"}
	}
	if c.Amplitude > Amp960mV {
		return &errcode.E{C: errcode.InvalidParams, Op: "adf4377.config", Msg: "amplitude code"}
	}
	switch c.Muxout {
	case MuxHighZ, MuxLockDetect, MuxLow, MuxDivRClk2, MuxDivNClk2, MuxHigh:
	default:
		return &errcode.E{C: errcode.InvalidParams, Op: "adf4377.config", Msg: "muxout selector"}
	}
	_, err := NewPlan(c.RefInHz, c.OutHz, c.RefDoubler)
	return err
}

func (c Config) withDefaults() Config {
	if c.SettleDelay <= 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.ResetTimeout <= 0 {
		c.ResetTimeout = DefaultResetTimeout
	}
	if c.ResetPoll < 0 {
		c.ResetPoll = 0
	}
	return c
}

// BitOrderer is implemented by SPI connections that know their static bit
// order. Connections without it are treated as MSB-first.
type BitOrderer interface {
	LSBFirst() bool
}

// Device wraps an SPI connection to an ADF4377.
type Device struct {
	bus      drivers.SPI
	lsbFirst bool
	cfg      Config
	clock    timex.Clock

	// Derived per setup pass.
	plan  Plan
	state State

	// Fixed buffers to avoid per-call heap allocations.
	w [frameLen]byte
	r [frameLen]byte
}

// New creates a Device on an already configured SPI connection. It does not
// touch the chip; call Setup to bring it up.
func New(bus drivers.SPI, cfg Config) *Device {
	d := &Device{
		bus:   bus,
		cfg:   cfg.withDefaults(),
		clock: timex.System,
	}
	if bo, ok := bus.(BitOrderer); ok {
		d.lsbFirst = bo.LSBFirst()
	}
	return d
}

// Config returns the operating point the device was built with, defaults applied.
func (d *Device) Config() Config { return d.cfg }

// Plan returns the frequency plan applied by the last Setup or SetFrequency.
func (d *Device) Plan() Plan { return d.plan }

// State returns the last sequencer state reached.
func (d *Device) State() State { return d.state }

// LSBFirst reports the bit order used on the wire.
func (d *Device) LSBFirst() bool { return d.lsbFirst }

// SetFrequency retunes an already set-up device. The PFD is fixed by the
// reference path, so only VCO, N_INT and the output divider change.
func (d *Device) SetFrequency(hz uint64) error {
	plan, err := NewPlan(d.cfg.RefInHz, hz, d.cfg.RefDoubler)
	if err != nil {
		return err
	}
	if err := d.apply(calClocksOn()...); err != nil {
		return err
	}
	if err := d.applyFrequency(plan); err != nil {
		return err
	}
	if err := d.apply(calClocksOff()...); err != nil {
		return err
	}
	d.plan = plan
	d.cfg.OutHz = hz
	return nil
}

// SetAmplitude programs the swing of both clock outputs.
func (d *Device) SetAmplitude(a Amplitude) error {
	if a > Amp960mV {
		return &errcode.E{C: errcode.InvalidParams, Op: "adf4377.amplitude", Msg: "amplitude code"}
	}
	if err := d.Update(regOutputs, clkout2OpMask|clkout1OpMask, amplitudeBits(a)); err != nil {
		return err
	}
	d.cfg.Amplitude = a
	return nil
}

func amplitudeBits(a Amplitude) uint8 {
	return uint8(a)<<6 | uint8(a)<<4
}

func (a Amplitude) String() string {
	switch a {
	case Amp420mV:
		return "420mV"
	case Amp740mV:
		return "740mV"
	case Amp850mV:
		return "850mV"
	case Amp960mV:
		return "960mV"
	}
	return "amp(" + conv.U8Hex(uint8(a)) + ")"
}
