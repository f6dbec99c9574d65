// cmd/synth-up/main.go
//
// Brings one ADF4377 up from its board document, reports the plan it locked
// to and, on MCU builds, holds the outputs on.
//
//	tinygo flash -target pico -ldflags "-X main.board=pico" ./cmd/synth-up
//	go run ./cmd/synth-up                      # host board, emulated chip
package main

import (
	"fmt"
	"io"
	"time"

	"synthcode-go/drivers/adf4377"
	"synthcode-go/errcode"
	"synthcode-go/platform"
	"synthcode-go/services/config"
)

// ---------- Configuration ----------

var (
	board = "host"
	synth = "synth0"
)

const (
	// 0 = hold forever
	holdFor        = 0
	heartbeatEvery = 5 * time.Second
)

// ---------- Output ----------

type out struct{ w io.Writer }

func (o out) println(a ...any) {
	_, _ = io.WriteString(o.w, "[synth] "+fmt.Sprintln(a...))
}

func (o out) fail(step string, err error) {
	o.println(step, "failed:", errcode.Of(err), "-", err)
}

func main() {
	o := out{w: platform.Console()}
	o.println("board", board, "synth", synth)

	h, err := bringUp(o)
	if err != nil {
		return
	}

	p := h.Plan()
	o.println("plan", p.String())
	o.println("rdiv", p.RDiv, "n_int", p.NInt, "clkout_div", 1<<p.ClkoutDiv, "state", h.State())

	if holdFor > 0 || board == "host" {
		time.Sleep(holdFor)
		if err := h.Close(); err != nil {
			o.fail("close", err)
			return
		}
		o.println("closed")
		return
	}
	for {
		time.Sleep(heartbeatEvery)
		o.println("locked", adf4377.StateOutputConfigured == h.State(), "out", p.ActualOutHz())
	}
}

func bringUp(o out) (*adf4377.Handle, error) {
	b, err := config.Load(board)
	if err != nil {
		o.fail("config", err)
		return nil, err
	}
	s, err := b.Synth(synth)
	if err != nil {
		o.fail("config", err)
		return nil, err
	}
	cfg, err := s.DriverConfig()
	if err != nil {
		o.fail("config", err)
		return nil, err
	}

	var f platform.Factories
	if b.Emulate {
		f = platform.Emulated(b.SPIPlans())
	} else if f, err = platform.Native(b.SPIPlans()); err != nil {
		o.fail("platform", err)
		return nil, err
	}

	h, err := adf4377.Open(platform.NewRegistry(f), s.ID, s.Wiring(), cfg)
	if err != nil {
		o.fail("open", err)
		return nil, err
	}
	return h, nil
}
