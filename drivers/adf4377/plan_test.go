package adf4377

import (
	"errors"
	"testing"

	"synthcode-go/errcode"
)

func TestNewPlan_ReferenceDesign(t *testing.T) {
	p, err := NewPlan(122_880_000, 10_000_000_000, false)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if p.RDiv != 1 || p.PFDHz != 122_880_000 {
		t.Fatalf("rdiv=%d pfd=%d", p.RDiv, p.PFDHz)
	}
	if p.VCOHz != 10_000_000_000 || p.ClkoutDiv != 0 {
		t.Fatalf("vco=%d div=%d", p.VCOHz, p.ClkoutDiv)
	}
	if p.NInt != 81 {
		t.Fatalf("n_int = %d, want 81", p.NInt)
	}
	if got := p.ActualOutHz(); got != 9_953_280_000 {
		t.Fatalf("actual = %d", got)
	}

	c := p.Cal
	want := Calibration{
		DClkDiv1:         dclkDiv1By1,
		DClkDiv2:         dclkDiv2By1,
		DClkMode:         1,
		RClkDivisor:      1,
		DivRClkHz:        122_880_000,
		SynthLockTimeout: 2458,
		VCOALCTimeout:    6144,
		VCOBandDiv:       26,
		ADCClkDiv:        77,
	}
	if c != want {
		t.Fatalf("cal = %+v\nwant  %+v", c, want)
	}
}

func TestNewPlan_MinimalRDiv(t *testing.T) {
	for ref := uint64(MinRefInHz); ref <= MaxRefInHz; ref += 7_777_777 {
		p, err := NewPlan(ref, 8_000_000_000, false)
		if err != nil {
			t.Fatalf("ref %d: %v", ref, err)
		}
		if p.PFDHz > MaxPFDHz {
			t.Fatalf("ref %d: pfd %d above max", ref, p.PFDHz)
		}
		if p.RDiv > 1 && ref/uint64(p.RDiv-1) <= MaxPFDHz {
			t.Fatalf("ref %d: rdiv %d not minimal", ref, p.RDiv)
		}
	}
	p, err := NewPlan(MaxRefInHz, 8_000_000_000, false)
	if err != nil {
		t.Fatalf("max ref: %v", err)
	}
	if p.RDiv != 2 || p.PFDHz != 500_000_000 {
		t.Fatalf("max ref: rdiv=%d pfd=%d", p.RDiv, p.PFDHz)
	}
}

func TestNewPlan_OutputDivider(t *testing.T) {
	cases := []struct {
		out uint64
		div uint8
		vco uint64
	}{
		{MaxOutHz, 0, MaxOutHz},
		{MinVCOHz, 0, MinVCOHz},
		{MinVCOHz - 1, 1, 2 * (MinVCOHz - 1)},
		{5_000_000_000, 1, 10_000_000_000},
		{2_000_000_000, 2, 8_000_000_000},
		{MinOutHz, 3, MinVCOHz},
	}
	for _, tc := range cases {
		p, err := NewPlan(100_000_000, tc.out, false)
		if err != nil {
			t.Fatalf("out %d: %v", tc.out, err)
		}
		if p.ClkoutDiv != tc.div || p.VCOHz != tc.vco {
			t.Fatalf("out %d: div=%d vco=%d, want %d %d", tc.out, p.ClkoutDiv, p.VCOHz, tc.div, tc.vco)
		}
		if p.VCOHz < MinVCOHz || p.VCOHz > MaxVCOHz {
			t.Fatalf("out %d: vco %d outside band", tc.out, p.VCOHz)
		}
	}
}

func TestNewPlan_Doubler(t *testing.T) {
	p, err := NewPlan(100_000_000, 10_000_000_000, true)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if p.PFDHz != 200_000_000 || p.RDiv != 1 || p.NInt != 50 {
		t.Fatalf("pfd=%d rdiv=%d n=%d", p.PFDHz, p.RDiv, p.NInt)
	}
	if p.Cal.DClkDiv1 != dclkDiv1By2 || p.Cal.RClkDivisor != 2 || p.Cal.DivRClkHz != 100_000_000 {
		t.Fatalf("cal = %+v", p.Cal)
	}
}

// N_INT divides the target, not the VCO, so divided outputs get a smaller N.
func TestNewPlan_NIntFromTarget(t *testing.T) {
	cases := []struct {
		ref, out uint64
		div      uint8
		n        uint16
		actual   uint64
	}{
		{100_000_000, 5_000_000_000, 1, 50, 5_000_000_000},
		{100_000_000, 2_000_000_000, 2, 20, 2_000_000_000},
		{100_000_000, MinOutHz, 3, 8, MinOutHz},
		{122_880_000, 5_000_000_000, 1, 40, 4_915_200_000},
	}
	for _, tc := range cases {
		p, err := NewPlan(tc.ref, tc.out, false)
		if err != nil {
			t.Fatalf("out %d: %v", tc.out, err)
		}
		if p.ClkoutDiv != tc.div || p.NInt != tc.n {
			t.Fatalf("out %d: div=%d n=%d, want %d %d", tc.out, p.ClkoutDiv, p.NInt, tc.div, tc.n)
		}
		if got := p.ActualOutHz(); got != tc.actual {
			t.Fatalf("out %d: actual = %d, want %d", tc.out, got, tc.actual)
		}
	}
}

func TestNewPlan_RangeErrors(t *testing.T) {
	cases := []struct {
		name     string
		ref, out uint64
		doubler  bool
		sentinel error
	}{
		{"out low", 122_880_000, MinOutHz - 1, false, ErrOutFreq},
		{"out high", 122_880_000, MaxOutHz + 1, false, ErrOutFreq},
		{"out zero", 122_880_000, 0, false, ErrOutFreq},
		{"ref low", MinRefInHz - 1, 10_000_000_000, false, ErrRefInFreq},
		{"ref high", MaxRefInHz + 1, 10_000_000_000, false, ErrRefInFreq},
		{"pfd doubled high", 300_000_000, 10_000_000_000, true, ErrPFDFreq},
	}
	for _, tc := range cases {
		_, err := NewPlan(tc.ref, tc.out, tc.doubler)
		if !errors.Is(err, tc.sentinel) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.sentinel)
		}
		if errcode.Of(err) != errcode.Range {
			t.Fatalf("%s: code = %q, want out_of_range", tc.name, errcode.Of(err))
		}
	}
}

func TestBandFor_InclusiveUpperBounds(t *testing.T) {
	cases := []struct {
		pfd  uint64
		mode uint8
		rclk uint8
		div2 uint8
	}{
		{3_000_000, 0, 1, dclkDiv2By1},
		{80_000_000, 0, 1, dclkDiv2By1},
		{80_000_001, 1, 1, dclkDiv2By1},
		{125_000_000, 1, 1, dclkDiv2By1},
		{125_000_001, 0, 2, dclkDiv2By1},
		{160_000_000, 0, 2, dclkDiv2By1},
		{250_000_000, 1, 2, dclkDiv2By1},
		{250_000_001, 0, 4, dclkDiv2By2},
		{320_000_000, 0, 4, dclkDiv2By2},
		{320_000_001, 1, 4, dclkDiv2By2},
		{MaxPFDHz, 1, 4, dclkDiv2By2},
	}
	for _, tc := range cases {
		b := bandFor(tc.pfd)
		if b.mode != tc.mode || b.rclkDiv != tc.rclk || b.div2 != tc.div2 {
			t.Fatalf("pfd %d: band %+v", tc.pfd, b)
		}
	}
}

func TestCalTimeouts_CeilingDivision(t *testing.T) {
	lock, alc, band, adc := calTimeouts(100_000, 0)
	if lock != 2 || alc != 5 || band != 1 || adc != 0 {
		t.Fatalf("calTimeouts(100000) = %d %d %d %d", lock, alc, band, adc)
	}
	lock, alc, _, _ = calTimeouts(100_001, 0)
	if lock != 3 || alc != 6 {
		t.Fatalf("calTimeouts(100001) = %d %d", lock, alc)
	}
	// Mode doubles the VCO band divider denominator.
	_, _, b0, _ := calTimeouts(4_800_000, 0)
	_, _, b1, _ := calTimeouts(4_800_000, 1)
	if b0 != 2 || b1 != 1 {
		t.Fatalf("vco band: mode0=%d mode1=%d", b0, b1)
	}
	// ADC term saturates instead of wrapping.
	if _, _, _, adc := calTimeouts(400_000, 0); adc != 0 {
		t.Fatalf("adc = %d, want 0", adc)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config: %v", err)
	}
	bad := []Config{cfg, cfg, cfg}
	bad[0].ChargePump = MaxChargePump + 1
	bad[1].Amplitude = Amp960mV + 1
	bad[2].Muxout = 0x3
	for i, c := range bad {
		if code := errcode.Of(c.Validate()); code != errcode.InvalidParams {
			t.Fatalf("case %d: code = %q", i, code)
		}
	}
	cfg.OutHz = 1
	if code := errcode.Of(cfg.Validate()); code != errcode.Range {
		t.Fatalf("code = %q, want out_of_range", code)
	}
}

func TestBandFor_MonotonicSweep(t *testing.T) {
	index := func(b calBand) int {
		for i, c := range calBands {
			if c == b {
				return i
			}
		}
		return -1
	}
	prev := 0
	for pfd := uint64(1); pfd <= 330_000_000; pfd += 250_000 {
		i := index(bandFor(pfd))
		if i < prev {
			t.Fatalf("pfd %d: band %d after band %d", pfd, i, prev)
		}
		prev = i
	}
	if prev != len(calBands)-1 {
		t.Fatalf("sweep ended in band %d", prev)
	}
}
