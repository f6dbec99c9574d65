package adf4377

import (
	"synthcode-go/errcode"

	"tinygo.org/x/drivers"
)

// Line is a digital output as handed out by Resources.
type Line interface {
	ConfigureOutput(initial bool) error
}

// Resources hands out the lines and the SPI connection a Handle owns.
// Every successful Claim is matched by exactly one Release.
type Resources interface {
	ClaimLine(devID string, pin int) (Line, error)
	ReleaseLine(devID string, pin int) error
	ClaimSPI(devID string, bus string) (drivers.SPI, error)
	ReleaseSPI(devID string, bus string) error
}

// Wiring names the board resources of one chip. A negative pin is not wired.
type Wiring struct {
	SPI        string
	ChipEnable int
	EnClk1     int
	EnClk2     int
}

type claimKind uint8

const (
	claimLine claimKind = iota
	claimSPI
)

type claim struct {
	kind claimKind
	role string
	pin  int
	bus  string
}

// claims records exactly what has been acquired, in acquisition order.
type claims struct {
	res  Resources
	id   string
	held []claim
}

func (c *claims) line(role string, pin int) error {
	if pin < 0 {
		return nil
	}
	l, err := c.res.ClaimLine(c.id, pin)
	if err != nil {
		return resourceErr("adf4377.open", role, err)
	}
	c.held = append(c.held, claim{kind: claimLine, role: role, pin: pin})
	if err := l.ConfigureOutput(true); err != nil {
		return resourceErr("adf4377.open", role, err)
	}
	return nil
}

func (c *claims) spi(bus string) (drivers.SPI, error) {
	s, err := c.res.ClaimSPI(c.id, bus)
	if err != nil {
		return nil, resourceErr("adf4377.open", "spi", err)
	}
	c.held = append(c.held, claim{kind: claimSPI, role: "spi", bus: bus})
	return s, nil
}

func (c *claims) release(cl claim) error {
	var err error
	if cl.kind == claimSPI {
		err = c.res.ReleaseSPI(c.id, cl.bus)
	} else {
		err = c.res.ReleaseLine(c.id, cl.pin)
	}
	return resourceErr("adf4377.release", cl.role, err)
}

// unwind releases everything held, newest first. Release failures are
// dropped; the caller reports the error that caused the unwind.
func (c *claims) unwind() {
	for i := len(c.held) - 1; i >= 0; i-- {
		_ = c.release(c.held[i])
	}
	c.held = nil
}

// Handle is an open, set-up ADF4377 together with the resources it owns.
// Once closed, every operation that would touch the bus fails with ErrClosed.
type Handle struct {
	d      *Device
	c      claims
	closed bool
}

// Open claims chip enable, CLKOUT1 enable and CLKOUT2 enable (each driven
// high), then the SPI bus, then runs Setup. On any failure every claimed
// resource is released in reverse order and the original error is returned.
// Frequency and parameter problems are reported before anything is claimed.
func Open(res Resources, devID string, w Wiring, cfg Config) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := claims{res: res, id: devID}
	if err := c.line("chip_enable", w.ChipEnable); err != nil {
		c.unwind()
		return nil, err
	}
	if err := c.line("en_clk1", w.EnClk1); err != nil {
		c.unwind()
		return nil, err
	}
	if err := c.line("en_clk2", w.EnClk2); err != nil {
		c.unwind()
		return nil, err
	}
	bus, err := c.spi(w.SPI)
	if err != nil {
		c.unwind()
		return nil, err
	}
	d := New(bus, cfg)
	if err := d.Setup(); err != nil {
		c.unwind()
		return nil, err
	}
	return &Handle{d: d, c: c}, nil
}

// Close releases the SPI bus, then chip enable, CLKOUT1 enable and CLKOUT2
// enable. Every release is attempted; the first failure is returned.
// Closing twice is a no-op.
func (h *Handle) Close() error {
	if h == nil || h.closed {
		return nil
	}
	h.closed = true

	var first error
	try := func(cl claim) {
		if err := h.c.release(cl); err != nil && first == nil {
			first = err
		}
	}
	for _, cl := range h.c.held {
		if cl.kind == claimSPI {
			try(cl)
		}
	}
	for _, cl := range h.c.held {
		if cl.kind == claimLine {
			try(cl)
		}
	}
	h.c.held = nil
	return first
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool { return h.closed }

func (h *Handle) open(op string) error {
	if h.closed {
		return errcode.Wrap(errcode.Resource, op, ErrClosed)
	}
	return nil
}

// Config, Plan, State and LSBFirst report the last known device state and
// stay valid after Close.

func (h *Handle) Config() Config { return h.d.Config() }
func (h *Handle) Plan() Plan     { return h.d.Plan() }
func (h *Handle) State() State   { return h.d.State() }
func (h *Handle) LSBFirst() bool { return h.d.LSBFirst() }

// Setup re-runs the full bring-up sequence.
func (h *Handle) Setup() error {
	if err := h.open("adf4377.setup"); err != nil {
		return err
	}
	return h.d.Setup()
}

func (h *Handle) SoftReset() error {
	if err := h.open("adf4377.soft_reset"); err != nil {
		return err
	}
	return h.d.SoftReset()
}

func (h *Handle) CheckScratchpad() error {
	if err := h.open("adf4377.scratchpad"); err != nil {
		return err
	}
	return h.d.CheckScratchpad()
}

func (h *Handle) Write(addr, value uint8) error {
	if err := h.open("adf4377.write"); err != nil {
		return err
	}
	return h.d.Write(addr, value)
}

func (h *Handle) Read(addr uint8) (uint8, error) {
	if err := h.open("adf4377.read"); err != nil {
		return 0, err
	}
	return h.d.Read(addr)
}

func (h *Handle) Update(addr, mask, value uint8) error {
	if err := h.open("adf4377.update"); err != nil {
		return err
	}
	return h.d.Update(addr, mask, value)
}

func (h *Handle) SetFrequency(hz uint64) error {
	if err := h.open("adf4377.set_frequency"); err != nil {
		return err
	}
	return h.d.SetFrequency(hz)
}

func (h *Handle) SetAmplitude(a Amplitude) error {
	if err := h.open("adf4377.amplitude"); err != nil {
		return err
	}
	return h.d.SetAmplitude(a)
}

func resourceErr(op, role string, err error) error {
	if err == nil {
		return nil
	}
	return &errcode.E{C: errcode.Resource, Op: op, Msg: role, Err: err}
}
