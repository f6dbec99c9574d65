package adf4377

import (
	"synthcode-go/errcode"
	"synthcode-go/x/conv"
	"synthcode-go/x/mathx"
)

// Frequency limits (Hz).
const (
	MinVCOHz   = 6_400_000_000
	MaxVCOHz   = 12_800_000_000
	MinOutHz   = MinVCOHz / 8
	MaxOutHz   = MaxVCOHz
	MinRefInHz = 10_000_000
	MaxRefInHz = 1_000_000_000
	MinPFDHz   = 3_000_000
	MaxPFDHz   = 500_000_000

	rDivBits     = 6  // R_DIV
	nIntBits     = 12 // N_INT
	timeoutBits  = 15 // SYNTH_LOCK_TIMEOUT, VCO_ALC_TIMEOUT
	maxClkoutDiv = 3  // CLKOUT_DIV selector: /1 /2 /4 /8
)

var (
	outRange   = mathx.Range[uint64]{Min: MinOutHz, Max: MaxOutHz}
	refInRange = mathx.Range[uint64]{Min: MinRefInHz, Max: MaxRefInHz}
	pfdRange   = mathx.Range[uint64]{Min: MinPFDHz, Max: MaxPFDHz}
)

// Plan is every divider and timeout derived from one operating point.
// NewPlan is pure; nothing here touches the bus.
type Plan struct {
	RefInHz    uint64
	OutHz      uint64
	RefDoubler bool

	RDiv      uint8  // reference divider factor (1 when doubled)
	PFDHz     uint64 // phase detector frequency
	VCOHz     uint64 // OutHz << ClkoutDiv
	ClkoutDiv uint8  // output divider selector, divide by 1<<ClkoutDiv
	NInt      uint16 // integer feedback divider, OutHz / PFDHz

	Cal Calibration
}

// Calibration holds the VCO/ADC calibration clocking for one PFD band.
type Calibration struct {
	DClkDiv1    uint8  // DCLK_DIV1 code
	DClkDiv2    uint8  // DCLK_DIV2 code
	DClkMode    uint8  // 0 or 1
	RClkDivisor uint8  // 1, 2 or 4; divides PFDHz into DivRClkHz
	DivRClkHz   uint64 // PFDHz / RClkDivisor

	SynthLockTimeout uint16 // 15 bits
	VCOALCTimeout    uint16 // 15 bits
	VCOBandDiv       uint8
	ADCClkDiv        uint8
}

// NewPlan derives the full register plan for refInHz -> outHz.
// Out-of-band requests fail with errcode.Range.
func NewPlan(refInHz, outHz uint64, doubler bool) (Plan, error) {
	p := Plan{RefInHz: refInHz, OutHz: outHz, RefDoubler: doubler}

	vco, div, err := outputDivider(outHz)
	if err != nil {
		return Plan{}, err
	}
	p.VCOHz, p.ClkoutDiv = vco, div

	pfd, rdiv, err := phaseDetector(refInHz, doubler)
	if err != nil {
		return Plan{}, err
	}
	p.PFDHz, p.RDiv = pfd, rdiv

	n := p.OutHz / p.PFDHz
	if n == 0 || !mathx.FitsBits(n, nIntBits) {
		var b [20]byte
		return Plan{}, rangeErr("n_int", ErrNInt, string(conv.Utoa(b[:], n)))
	}
	p.NInt = uint16(n)

	p.Cal = calibrationFor(p.PFDHz)
	return p, nil
}

// ActualOutHz is NInt whole PFD periods: the target with the fractional
// remainder dropped.
func (p Plan) ActualOutHz() uint64 {
	return uint64(p.NInt) * p.PFDHz
}

func (p Plan) String() string {
	return "ref=" + conv.MHz(p.RefInHz) +
		" pfd=" + conv.MHz(p.PFDHz) +
		" vco=" + conv.MHz(p.VCOHz) +
		" out=" + conv.MHz(p.ActualOutHz())
}

// outputDivider maps the requested output into the VCO band by doubling,
// counting doublings as the CLKOUT_DIV selector.
func outputDivider(outHz uint64) (vco uint64, div uint8, err error) {
	if !outRange.Contains(outHz) {
		return 0, 0, rangeErr("out", ErrOutFreq, conv.MHz(outHz))
	}
	vco = outHz
	for vco < MinVCOHz {
		vco <<= 1
		div++
	}
	// Unreachable while MinOutHz == MinVCOHz>>maxClkoutDiv.
	if div > maxClkoutDiv {
		return 0, 0, rangeErr("out", ErrOutFreq, conv.MHz(outHz))
	}
	return vco, div, nil
}

// phaseDetector picks the smallest R that brings the reference under
// MaxPFDHz, or doubles the reference when the doubler is on.
func phaseDetector(refInHz uint64, doubler bool) (pfd uint64, rdiv uint8, err error) {
	if !refInRange.Contains(refInHz) {
		return 0, 0, rangeErr("ref_in", ErrRefInFreq, conv.MHz(refInHz))
	}
	if doubler {
		// R stays at 1 so the doubled reference reaches the PFD undivided.
		pfd, rdiv = refInHz*2, 1
	} else {
		r := uint64(0)
		for {
			r++
			pfd = refInHz / r
			if pfd <= MaxPFDHz {
				break
			}
		}
		if !mathx.FitsBits(r, rDivBits) {
			return 0, 0, rangeErr("r_div", ErrPFDFreq, conv.MHz(refInHz))
		}
		rdiv = uint8(r)
	}
	if !pfdRange.Contains(pfd) {
		return 0, 0, rangeErr("pfd", ErrPFDFreq, conv.MHz(pfd))
	}
	return pfd, rdiv, nil
}

// calBand is one PFD band of the calibration clock table.
type calBand struct {
	maxPFDHz uint64 // inclusive upper bound; 0 => unbounded
	div1     uint8
	div2     uint8
	mode     uint8
	rclkDiv  uint8
}

// Ascending, first match wins.
var calBands = [...]calBand{
	{80_000_000, dclkDiv1By1, dclkDiv2By1, 0, 1},
	{125_000_000, dclkDiv1By1, dclkDiv2By1, 1, 1},
	{160_000_000, dclkDiv1By2, dclkDiv2By1, 0, 2},
	{250_000_000, dclkDiv1By2, dclkDiv2By1, 1, 2},
	{320_000_000, dclkDiv1By2, dclkDiv2By2, 0, 4},
	{0, dclkDiv1By2, dclkDiv2By2, 1, 4},
}

func bandFor(pfdHz uint64) calBand {
	for _, b := range calBands {
		if b.maxPFDHz == 0 || pfdHz <= b.maxPFDHz {
			return b
		}
	}
	return calBands[len(calBands)-1]
}

func calibrationFor(pfdHz uint64) Calibration {
	b := bandFor(pfdHz)
	c := Calibration{
		DClkDiv1:    b.div1,
		DClkDiv2:    b.div2,
		DClkMode:    b.mode,
		RClkDivisor: b.rclkDiv,
		DivRClkHz:   pfdHz / uint64(b.rclkDiv),
	}
	c.SynthLockTimeout, c.VCOALCTimeout, c.VCOBandDiv, c.ADCClkDiv = calTimeouts(c.DivRClkHz, c.DClkMode)
	return c
}

// calTimeouts derives the calibration counters from the divided PFD clock.
// Ceiling division throughout; the ADC term saturates at zero and the lock
// timeouts at their field width.
func calTimeouts(f uint64, mode uint8) (synthLock, vcoALC uint16, vcoBand, adcClk uint8) {
	const maxTimeout = 1<<timeoutBits - 1
	synthLock = uint16(mathx.Clamp(mathx.CeilDiv(f, 50_000), 0, maxTimeout))
	vcoALC = uint16(mathx.Clamp(mathx.CeilDiv(f, 20_000), 0, maxTimeout))
	vcoBand = uint8(mathx.CeilDiv(f, 150_000*16*mathx.Pow2[uint64](mode)))
	adcClk = uint8(mathx.CeilDiv(mathx.SubSat(f/400_000, 2), 4))
	return
}

func rangeErr(what string, sentinel error, value string) error {
	return &errcode.E{C: errcode.Range, Op: "adf4377.plan", Msg: what + " " + value, Err: sentinel}
}
