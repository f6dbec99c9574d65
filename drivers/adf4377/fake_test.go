package adf4377

import (
	"errors"
	"math/bits"
	"time"

	"tinygo.org/x/drivers"
)

// ---- Test doubles ----

// fakeChip emulates the ADF4377 register file behind drivers.SPI.
type fakeChip struct {
	regs [maxRegisterAddr + 1]uint8
	lsb  bool

	stuckReset    bool // SOFT_RESET never self-clears
	brokenScratch bool // scratchpad reads back 0

	failAt int   // 1-based Tx index that fails; 0 => never
	err    error // returned by the failing Tx

	txs    int
	writes []regWrite
}

type regWrite struct{ addr, val uint8 }

var _ drivers.SPI = (*fakeChip)(nil)
var _ BitOrderer = (*fakeChip)(nil)

var errBus = errors.New("spi: bus fault")

func newFakeChip() *fakeChip {
	c := &fakeChip{}
	c.regs[regChipType] = chipType
	return c
}

func (c *fakeChip) LSBFirst() bool { return c.lsb }

func (c *fakeChip) Transfer(b byte) (byte, error) { return 0, nil }

func (c *fakeChip) Tx(w, r []byte) error {
	c.txs++
	if c.failAt != 0 && c.txs == c.failAt {
		return c.err
	}
	if len(w) != frameLen || len(r) != frameLen {
		return errors.New("fake: frame length")
	}
	cmd, addr, data := w[0], w[1], w[2]
	if c.lsb {
		addr, cmd, data = bits.Reverse8(w[0]), bits.Reverse8(w[1]), bits.Reverse8(w[2])
	}
	addr &= maxRegisterAddr

	if cmd&spiReadCmd != 0 {
		v := c.regs[addr]
		if addr == regScratchpad && c.brokenScratch {
			v = 0
		}
		if c.lsb {
			v = bits.Reverse8(v)
		}
		r[2] = v
		return nil
	}

	c.writes = append(c.writes, regWrite{addr, data})
	switch addr {
	case regChipType:
		// read-only
	case regInterface:
		if !c.stuckReset {
			data &^= softResetAll
		}
		c.regs[addr] = data
	default:
		c.regs[addr] = data
	}
	return nil
}

// fakeClock advances only when slept on.
type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.slept += d
}

// testConfig is a valid operating point: 122.88 MHz in, 10 GHz out.
func testConfig() Config {
	return Config{
		RefInHz:     122_880_000,
		OutHz:       10_000_000_000,
		ChargePump:  7,
		SPI4Wire:    true,
		Amplitude:   Amp850mV,
		Muxout:      MuxLockDetect,
		SettleDelay: time.Millisecond,
		ResetPoll:   time.Millisecond,
	}
}

func newTestDevice(c *fakeChip, cfg Config) (*Device, *fakeClock) {
	d := New(c, cfg)
	clk := &fakeClock{now: time.Unix(0, 0)}
	d.clock = clk
	return d, clk
}
