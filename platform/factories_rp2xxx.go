//go:build rp2040 || rp2350

package platform

import (
	"io"
	"machine"

	"synthcode-go/errcode"

	"github.com/jangala-dev/tinygo-uartx/uartx"
)

// Native configures the planned SPI controllers. Pin numbers map directly to
// machine.Pin(n), matching Pico/Pico 2 GP numbering.
func Native(plans []SPIPlan) (Factories, error) {
	spis := mapSPIFactory{}
	for _, p := range plans {
		c, err := configureSPI(p)
		if err != nil {
			return Factories{}, &errcode.E{C: errcode.UnknownBus, Op: "platform.native", Msg: p.ID, Err: err}
		}
		spis[p.ID] = c
	}
	return Factories{Pins: rp2PinFactory{}, SPI: spis}, nil
}

func configureSPI(p SPIPlan) (*spiConn, error) {
	var (
		hw            *machine.SPI
		sck, sdo, sdi machine.Pin
	)
	switch p.ID {
	case "spi0":
		hw, sck, sdo, sdi = machine.SPI0, machine.SPI0_SCK_PIN, machine.SPI0_SDO_PIN, machine.SPI0_SDI_PIN
	case "spi1":
		hw, sck, sdo, sdi = machine.SPI1, machine.SPI1_SCK_PIN, machine.SPI1_SDO_PIN, machine.SPI1_SDI_PIN
	default:
		return nil, errNoSPI
	}
	if p.SCK >= 0 {
		sck = machine.Pin(p.SCK)
	}
	if p.SDO >= 0 {
		sdo = machine.Pin(p.SDO)
	}
	if p.SDI >= 0 {
		sdi = machine.Pin(p.SDI)
	}
	err := hw.Configure(machine.SPIConfig{
		Frequency: p.Hz,
		SCK:       sck,
		SDO:       sdo,
		SDI:       sdi,
		Mode:      p.Mode & 0x3,
	})
	if err != nil {
		return nil, err
	}
	return newSPIConn(hw, p), nil
}

// ---- GPIO ----

type rp2PinFactory struct{}

func (rp2PinFactory) ByNumber(n int) (Pin, bool) {
	// RP2 user GPIOs (GP0..GP28).
	if n < 0 || n > 28 {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }
func (r *rp2Pin) Number() int    { return r.n }

// ---- Console ----

var console *uartx.UART

// Console returns UART0 on the default pins at 115200 baud, configured on
// first use.
func Console() io.Writer {
	if console == nil {
		console = uartx.UART0
		_ = console.Configure(uartx.UARTConfig{
			BaudRate: 115200,
			TX:       machine.UART0_TX_PIN,
			RX:       machine.UART0_RX_PIN,
		})
	}
	return console
}
