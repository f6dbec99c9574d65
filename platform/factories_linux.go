//go:build linux && !rp2040 && !rp2350

package platform

import (
	"io"
	"os"
	"strconv"

	"synthcode-go/errcode"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Native opens the planned spidev ports through periph.io and maps pin
// numbers to the host's "GPIO<n>" names. Ports stay open for the life of
// the process.
func Native(plans []SPIPlan) (Factories, error) {
	if _, err := host.Init(); err != nil {
		return Factories{}, &errcode.E{C: errcode.Unsupported, Op: "platform.native", Msg: "periph init", Err: err}
	}
	spis := mapSPIFactory{}
	for _, p := range plans {
		c, err := openPeriphSPI(p)
		if err != nil {
			return Factories{}, &errcode.E{C: errcode.UnknownBus, Op: "platform.native", Msg: p.ID, Err: err}
		}
		spis[p.ID] = c
	}
	return Factories{Pins: periphPinFactory{}, SPI: spis}, nil
}

// Console is where bring-up programs report progress.
func Console() io.Writer { return os.Stdout }

// ----------------------------- SPI (periph) ----------------------------------

func openPeriphSPI(p SPIPlan) (*spiConn, error) {
	port, err := spireg.Open(p.ID)
	if err != nil {
		return nil, err
	}
	conn, err := port.Connect(physic.Frequency(p.Hz)*physic.Hertz, periphMode(p), 8)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return newSPIConn(&periphSPI{c: conn}, p), nil
}

// periphMode never sets spi.LSBFirst; see spiConn.
func periphMode(p SPIPlan) spi.Mode {
	return spi.Mode(p.Mode & 0x3)
}

// periphSPI adapts a periph spi.Conn to drivers.SPI.
type periphSPI struct {
	c spi.Conn
}

func (s *periphSPI) Tx(w, r []byte) error {
	if s.c == nil {
		return errNoSPI
	}
	return s.c.Tx(w, r)
}

func (s *periphSPI) Transfer(b byte) (byte, error) {
	var r [1]byte
	if err := s.Tx([]byte{b}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

// ----------------------------- GPIO (periph) ---------------------------------

type periphPinFactory struct{}

func (periphPinFactory) ByNumber(n int) (Pin, bool) {
	if n < 0 {
		return nil, false
	}
	p := gpioreg.ByName("GPIO" + strconv.Itoa(n))
	if p == nil {
		return nil, false
	}
	return &periphPin{p: p, n: n}, true
}

type periphPin struct {
	p gpio.PinIO
	n int
}

func (r *periphPin) ConfigureOutput(initial bool) error {
	return r.p.Out(gpio.Level(initial))
}

func (r *periphPin) Set(level bool) { _ = r.p.Out(gpio.Level(level)) }
func (r *periphPin) Get() bool      { return r.p.Read() == gpio.High }
func (r *periphPin) Number() int    { return r.n }
