package mathx

import "testing"

func TestCeilDiv(t *testing.T) {
	cases := []struct {
		a, b, want uint64
	}{
		{100_000, 50_000, 2},
		{100_001, 50_000, 3},
		{99_999, 50_000, 2},
		{0, 7, 0},
		{1, 7, 1},
		{7, 0, 0},
		// Would overflow with the (a+b-1)/b form.
		{^uint64(0), 2, 1 << 63},
	}
	for _, c := range cases {
		if got := CeilDiv(c.a, c.b); got != c.want {
			t.Fatalf("CeilDiv(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestSubSat(t *testing.T) {
	if got := SubSat[uint32](5, 2); got != 3 {
		t.Fatalf("SubSat(5,2) = %d", got)
	}
	if got := SubSat[uint32](0, 2); got != 0 {
		t.Fatalf("SubSat(0,2) = %d", got)
	}
}

func TestPow2AndFitsBits(t *testing.T) {
	if Pow2[uint32](0) != 1 || Pow2[uint32](4) != 16 {
		t.Fatal("Pow2 mismatch")
	}
	if !FitsBits[uint16](4095, 12) || FitsBits[uint16](4096, 12) {
		t.Fatal("FitsBits 12-bit boundary")
	}
	if !FitsBits[uint64](^uint64(0), 64) {
		t.Fatal("FitsBits 64")
	}
}

func TestRangeAndClamp(t *testing.T) {
	r := Range[uint64]{Min: 10, Max: 20}
	for v, want := range map[uint64]bool{9: false, 10: true, 15: true, 20: true, 21: false} {
		if r.Contains(v) != want {
			t.Fatalf("Contains(%d) != %v", v, want)
		}
	}
	if Clamp(30, 0, 20) != 20 || Clamp(-1, 0, 20) != 0 || Clamp(5, 20, 0) != 5 {
		t.Fatal("Clamp mismatch")
	}
}
