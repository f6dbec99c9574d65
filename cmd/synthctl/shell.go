//go:build !tinygo

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"synthcode-go/drivers/adf4377"
	"synthcode-go/errcode"
	"synthcode-go/platform"
	"synthcode-go/services/config"

	"github.com/google/shlex"
)

var errQuit = errors.New("quit")

// shell runs synthesizer commands against one board. It is driven line by
// line, either from readline or from tests.
type shell struct {
	out   io.Writer
	board config.Board
	reg   *platform.Registry
	h     *adf4377.Handle
}

func newShell(out io.Writer, b config.Board) (*shell, error) {
	var (
		f   platform.Factories
		err error
	)
	if b.Emulate {
		f = platform.Emulated(b.SPIPlans())
	} else if f, err = platform.Native(b.SPIPlans()); err != nil {
		return nil, err
	}
	return &shell{out: out, board: b, reg: platform.NewRegistry(f)}, nil
}

// exec runs one input line. It returns errQuit when the user asks to leave.
func (s *shell) exec(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "synthctl.parse", Err: err}
	}
	if len(args) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "help", "?":
		s.help()
		return nil
	case "quit", "exit", "q":
		if err := s.h.Close(); err != nil {
			return err
		}
		return errQuit
	case "open":
		return s.open(args)
	case "plan":
		return s.plan(args)
	}

	if !deviceCmds[cmd] {
		return usage("unknown command " + strconv.Quote(cmd) + " (type 'help')")
	}
	if s.h == nil || s.h.Closed() {
		return &errcode.E{C: errcode.Resource, Op: "synthctl." + cmd, Msg: "no open synthesizer"}
	}
	switch cmd {
	case "close":
		err := s.h.Close()
		s.h = nil
		return err
	case "state", "status":
		s.printf("state %s  %s\n", s.h.State(), s.h.Plan())
		return nil
	case "freq":
		hz, err := argHz(args)
		if err != nil {
			return err
		}
		if err := s.h.SetFrequency(hz); err != nil {
			return err
		}
		s.printf("retuned: %s\n", s.h.Plan())
		return nil
	case "amp":
		if len(args) != 1 {
			return usage("amp <420mV|740mV|850mV|960mV>")
		}
		for a := adf4377.Amp420mV; a <= adf4377.Amp960mV; a++ {
			if strings.EqualFold(a.String(), args[0]) {
				return s.h.SetAmplitude(a)
			}
		}
		return usage("amp <420mV|740mV|850mV|960mV>")
	case "read":
		if len(args) != 1 {
			return usage("read <addr>")
		}
		addr, err := parseByte(args[0])
		if err != nil {
			return err
		}
		v, err := s.h.Read(addr)
		if err != nil {
			return err
		}
		s.printf("reg 0x%02X = 0x%02X\n", addr, v)
		return nil
	case "write":
		if len(args) != 2 {
			return usage("write <addr> <value>")
		}
		addr, err := parseByte(args[0])
		if err != nil {
			return err
		}
		v, err := parseByte(args[1])
		if err != nil {
			return err
		}
		return s.h.Write(addr, v)
	}
	return nil
}

// deviceCmds need an open synthesizer.
var deviceCmds = map[string]bool{
	"close": true, "state": true, "status": true, "freq": true,
	"amp": true, "read": true, "write": true,
}

func (s *shell) open(args []string) error {
	if s.h != nil && !s.h.Closed() {
		return &errcode.E{C: errcode.Resource, Op: "synthctl.open", Msg: "already open"}
	}
	id := "synth0"
	if len(args) > 0 {
		id = args[0]
	}
	sy, err := s.board.Synth(id)
	if err != nil {
		return err
	}
	cfg, err := sy.DriverConfig()
	if err != nil {
		return err
	}
	h, err := adf4377.Open(s.reg, sy.ID, sy.Wiring(), cfg)
	if err != nil {
		return err
	}
	s.h = h
	s.printf("%s open: %s\n", sy.ID, h.Plan())
	return nil
}

// plan shows the dividers for a target without touching the chip.
func (s *shell) plan(args []string) error {
	hz, err := argHz(args)
	if err != nil {
		return err
	}
	var (
		ref uint64
		dbl bool
	)
	if s.h != nil && !s.h.Closed() {
		c := s.h.Config()
		ref, dbl = c.RefInHz, c.RefDoubler
	} else {
		sy, err := s.board.Synth("synth0")
		if err != nil {
			return err
		}
		ref, dbl = uint64(sy.RefIn), sy.RefDoubler
	}
	p, err := adf4377.NewPlan(ref, hz, dbl)
	if err != nil {
		return err
	}
	s.printf("%s\n  rdiv=%d n_int=%d clkout_div=%d band_mode=%d rclk_div=%d\n",
		p, p.RDiv, p.NInt, 1<<p.ClkoutDiv, p.Cal.DClkMode, p.Cal.RClkDivisor)
	return nil
}

func (s *shell) help() {
	fmt.Fprint(s.out, `
Synthesizer commands:
  open [id]            - claim pins and bus, run bring-up
  close                - release everything
  state                - show sequencer state and plan
  plan <hz>            - compute dividers without touching the chip
  freq <hz>            - retune (e.g. freq "9.6 GHz")
  amp <level>          - set output swing (420mV, 740mV, 850mV, 960mV)
  read <addr>          - read a register
  write <addr> <value> - write a register
  quit                 - close and exit
`)
}

func (s *shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func argHz(args []string) (uint64, error) {
	if len(args) == 0 {
		return 0, usage("expected a frequency")
	}
	hz, err := config.ParseHz(strings.Join(args, " "))
	if err != nil {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "synthctl.hz", Err: err}
	}
	return hz, nil
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "synthctl.parse", Msg: s, Err: err}
	}
	return uint8(v), nil
}

func usage(msg string) error {
	return &errcode.E{C: errcode.InvalidParams, Op: "synthctl", Msg: msg}
}
