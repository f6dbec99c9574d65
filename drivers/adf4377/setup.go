package adf4377

import (
	"synthcode-go/errcode"
	"synthcode-go/x/conv"
)

// State is the bring-up progress of a Device. Setup moves strictly forward;
// a failed step leaves State at the last step that succeeded.
type State uint8

const (
	StateIdle State = iota
	StateReset
	StateBusModeConfigured
	StateIdentified
	StateSelfTested
	StateDefaultsProgrammed
	StateChargePumpSet
	StatePFDComputed
	StateCalibrationProgrammed
	StatePoweredUp
	StateFrequencyApplied
	StateOutputConfigured
)

var stateNames = [...]string{
	StateIdle:                  "idle",
	StateReset:                 "reset",
	StateBusModeConfigured:     "bus_mode_configured",
	StateIdentified:            "identified",
	StateSelfTested:            "self_tested",
	StateDefaultsProgrammed:    "defaults_programmed",
	StateChargePumpSet:         "charge_pump_set",
	StatePFDComputed:           "pfd_computed",
	StateCalibrationProgrammed: "calibration_programmed",
	StatePoweredUp:             "powered_up",
	StateFrequencyApplied:      "frequency_applied",
	StateOutputConfigured:      "output_configured",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "state(" + conv.U8Hex(uint8(s)) + ")"
}

// setupPass carries the derived state of one Setup call.
type setupPass struct {
	d    *Device
	plan Plan
}

type setupStep struct {
	to  State
	run func(*setupPass) error
}

// Linear; the only loop is the reset poll inside SoftReset.
var setupSteps = [...]setupStep{
	{StateReset, func(p *setupPass) error { return p.d.SoftReset() }},
	{StateBusModeConfigured, (*setupPass).busMode},
	{StateIdentified, (*setupPass).identify},
	{StateSelfTested, func(p *setupPass) error { return p.d.CheckScratchpad() }},
	{StateDefaultsProgrammed, func(p *setupPass) error { return p.d.apply(reservedDefaults[:]...) }},
	{StateChargePumpSet, (*setupPass).chargePump},
	{StatePFDComputed, func(*setupPass) error { return nil }}, // planned before the first frame
	{StateCalibrationProgrammed, (*setupPass).calibration},
	{StatePoweredUp, func(p *setupPass) error { return p.d.Write(regPowerDown, powerUpAll) }},
	{StateFrequencyApplied, (*setupPass).frequency},
	{StateOutputConfigured, (*setupPass).outputs},
}

// Setup brings the chip from power-on to locked, outputs enabled, at
// Config.OutHz. The plan is validated before any bus traffic. Any failing
// step aborts with its error; there is no retry.
func (d *Device) Setup() error {
	plan, err := NewPlan(d.cfg.RefInHz, d.cfg.OutHz, d.cfg.RefDoubler)
	if err != nil {
		return err
	}
	d.state, d.plan = StateIdle, Plan{}
	p := &setupPass{d: d, plan: plan}
	for _, s := range setupSteps {
		if err := s.run(p); err != nil {
			return errcode.Wrap(errcode.Of(err), "adf4377.setup."+s.to.String(), err)
		}
		d.state = s.to
	}
	return nil
}

func (p *setupPass) busMode() error {
	var v uint8
	if p.d.lsbFirst {
		v |= lsbFirst | lsbFirstR
	}
	if p.d.cfg.SPI4Wire {
		v |= sdoActive | sdoActiveR
	}
	// ADDRESS_ASC left at 0: auto-decrement.
	return p.d.Write(regInterface, v)
}

// identify aborts on a foreign chip type. No configuration has been
// written yet, so nothing needs undoing.
func (p *setupPass) identify() error {
	v, err := p.d.Read(regChipType)
	if err != nil {
		return err
	}
	if v != chipType {
		return &errcode.E{
			C:   errcode.Verification,
			Op:  "adf4377.identify",
			Msg: "chip type " + conv.U8Hex(v) + " want " + conv.U8Hex(chipType),
			Err: ErrChipType,
		}
	}
	return nil
}

func (p *setupPass) chargePump() error {
	return p.d.Update(regChargePump, cpCurrentMask, p.d.cfg.ChargePump)
}

// frequency publishes the plan only once its registers are written.
func (p *setupPass) frequency() error {
	if err := p.d.applyFrequency(p.plan); err != nil {
		return err
	}
	p.d.plan = p.plan
	return nil
}

func (p *setupPass) calibration() error {
	return p.d.apply(calibrationOps(p.plan.Cal)...)
}

func (p *setupPass) outputs() error {
	ops := append(calClocksOff(),
		regOp{regOutputs, clkout2OpMask | clkout1OpMask, amplitudeBits(p.d.cfg.Amplitude)},
		regOp{regMuxout, muxoutMask, uint8(p.d.cfg.Muxout) << muxoutShift},
	)
	return p.d.apply(ops...)
}

// calibrationOps programs autocalibration clocking and counters for one
// PFD band.
func calibrationOps(c Calibration) []regOp {
	ops := calClocksOn()
	return append(ops,
		regOp{regNIntMSB, enAutocal | dclkDiv2Mask, enAutocal | c.DClkDiv2<<dclkDiv2Shift},
		regOp{regADCControl, enADCCnv | enADC | adcAConvVCO, enADCCnv | enADC | adcAConvVCO},
		regOp{regDClkDiv1, dclkDiv1Mask, c.DClkDiv1},
		regOp{regDClkMode, dclkModeBit, c.DClkMode << 2},
		regOp{regSynthLockLSB, fullRegisterMask, uint8(c.SynthLockTimeout)},
		regOp{regSynthLockMSB, timeoutMSB, uint8(c.SynthLockTimeout >> 8)},
		regOp{regVCOALCLSB, fullRegisterMask, uint8(c.VCOALCTimeout)},
		regOp{regVCOALCMSB, timeoutMSB, uint8(c.VCOALCTimeout >> 8)},
		regOp{regVCOBandDiv, fullRegisterMask, c.VCOBandDiv},
		regOp{regADCClockDiv, fullRegisterMask, c.ADCClkDiv},
	)
}

// calClocksOn enables the divided N/R clocks and the ADC clock used only
// while the VCO calibrates.
func calClocksOn() []regOp {
	return []regOp{
		{regCalClocks, enDNClk | enDRClk, enDNClk | enDRClk},
		{regADCClock, enADCClk, enADCClk},
	}
}

func calClocksOff() []regOp {
	return []regOp{
		{regCalClocks, enDNClk | enDRClk, 0},
		{regADCClock, enADCClk, 0},
	}
}

// applyFrequency programs doubler, dividers and N_INT, LSB last since that
// write starts autocalibration, then waits out the settle delay.
func (d *Device) applyFrequency(p Plan) error {
	var dbl uint8
	if p.RefDoubler {
		dbl = enRefDoubler
	}
	err := d.apply(
		regOp{regNIntMSB, enRefDoubler | nIntMSBMask, dbl | uint8(p.NInt>>nIntMSBShift)&nIntMSBMask},
		regOp{regDividers, clkoutDivMask | rDivMask, p.ClkoutDiv<<clkoutShift | p.RDiv&rDivMask},
		regOp{regNIntLSB, fullRegisterMask, uint8(p.NInt)},
	)
	if err != nil {
		return err
	}
	d.clock.Sleep(d.cfg.SettleDelay)
	return nil
}
