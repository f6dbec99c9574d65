package platform

import (
	"math/bits"
	"sync"

	"tinygo.org/x/drivers"
)

// ----------------------------- GPIO (emulated) -------------------------------

// FakePin is an in-memory output line.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	modeOut bool
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	v := p.level
	p.mu.RUnlock()
	return v
}

// IsOutput reports whether ConfigureOutput has been called.
func (p *FakePin) IsOutput() bool {
	p.mu.RLock()
	v := p.modeOut
	p.mu.RUnlock()
	return v
}

func (p *FakePin) Number() int { return p.number }

// HostPinFactory returns stable *FakePin instances per number.
type HostPinFactory struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

func (f *HostPinFactory) ByNumber(n int) (Pin, bool) {
	if n < 0 {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = make(map[int]*FakePin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = &FakePin{number: n}
		f.pins[n] = p
	}
	return p, true
}

// Get exposes the underlying *FakePin for tests.
func (f *HostPinFactory) Get(n int) (*FakePin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	return p, ok
}

// ----------------------------- SPI (emulated) --------------------------------

// EmulatedChip answers 3-byte ADF4377 register frames from an in-memory
// register file. SOFT_RESET self-clears and the chip type reads 0x06.
type EmulatedChip struct {
	mu   sync.Mutex
	regs [128]uint8
	lsb  bool
	txs  int
}

var _ drivers.SPI = (*EmulatedChip)(nil)

// NewEmulatedChip returns a chip in its power-on state.
func NewEmulatedChip(lsbFirst bool) *EmulatedChip {
	c := &EmulatedChip{lsb: lsbFirst}
	c.regs[0x03] = 0x06
	c.regs[0x1A] = 0xFF
	return c
}

func (c *EmulatedChip) LSBFirst() bool { return c.lsb }

func (c *EmulatedChip) Transfer(b byte) (byte, error) { return 0, nil }

func (c *EmulatedChip) Tx(w, r []byte) error {
	if len(w) != 3 {
		return errFrame
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.txs++

	hi, lo, data := w[0], w[1], w[2]
	if c.lsb {
		hi, lo, data = bits.Reverse8(w[1]), bits.Reverse8(w[0]), bits.Reverse8(w[2])
	}
	addr := lo & 0x7F
	if hi&0x80 != 0 {
		if len(r) == 3 {
			v := c.regs[addr]
			if c.lsb {
				v = bits.Reverse8(v)
			}
			r[2] = v
		}
		return nil
	}
	switch addr {
	case 0x03:
	case 0x00:
		c.regs[0] = data &^ 0x81
	default:
		c.regs[addr] = data
	}
	return nil
}

// Reg returns the current value of register addr.
func (c *EmulatedChip) Reg(addr uint8) uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[addr&0x7F]
}

// Transactions returns the number of frames seen.
func (c *EmulatedChip) Transactions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.txs
}

// Emulated returns factories backed by FakePins and one EmulatedChip per
// planned SPI bus.
func Emulated(plans []SPIPlan) Factories {
	spis := mapSPIFactory{}
	for _, p := range plans {
		spis[p.ID] = NewEmulatedChip(p.LSBFirst)
	}
	return Factories{
		Pins: &HostPinFactory{pins: make(map[int]*FakePin)},
		SPI:  spis,
	}
}
