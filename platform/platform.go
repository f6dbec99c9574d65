// Package platform hands out the digital output lines and SPI connections a
// synthesizer needs, tracking which device owns each one. Concrete pins and
// buses come from build-tagged factories: emulated (host), periph.io (Linux)
// and TinyGo machine (RP2040/RP2350).
package platform

import (
	"tinygo.org/x/drivers"
)

// Pin is an output line as seen by drivers.
type Pin interface {
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// PinFactory returns a pin by its board number.
type PinFactory interface {
	ByNumber(n int) (Pin, bool)
}

// SPIFactory returns a configured SPI connection by bus id.
type SPIFactory interface {
	ByID(id string) (drivers.SPI, bool)
}

// SPIPlan configures one SPI bus before any device claims it.
type SPIPlan struct {
	ID       string
	Hz       uint32
	Mode     uint8 // 0..3, CPOL<<1 | CPHA
	LSBFirst bool

	// Used by MCU targets only; negative => board default.
	SCK, SDO, SDI int
}

// Factories is the pin and bus source for one platform.
type Factories struct {
	Pins PinFactory
	SPI  SPIFactory
}

// spiConn pairs a raw connection with its static bit order so the
// synthesizer driver can read it back. Controllers always shift MSB first;
// an LSB-first bus is only reported, and the driver reverses each byte.
type spiConn struct {
	drivers.SPI
	lsb bool
}

func newSPIConn(bus drivers.SPI, p SPIPlan) *spiConn {
	return &spiConn{SPI: bus, lsb: p.LSBFirst}
}

func (c *spiConn) LSBFirst() bool { return c.lsb }

type mapSPIFactory map[string]drivers.SPI

func (f mapSPIFactory) ByID(id string) (drivers.SPI, bool) {
	b, ok := f[id]
	return b, ok
}
