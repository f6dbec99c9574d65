// Package config resolves a board's synthesizer configuration from embedded
// YAML documents.
package config

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"time"

	"synthcode-go/drivers/adf4377"
	"synthcode-go/errcode"
	"synthcode-go/platform"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoBoard   = errors.New("config: no embedded config for board")
	ErrNoSynth   = errors.New("config: no such synthesizer")
	ErrAmplitude = errors.New("config: unknown amplitude")
	ErrMuxout    = errors.New("config: unknown muxout")
	ErrFrequency = errors.New("config: bad frequency")
)

// EmbeddedConfigLookup allows overriding how board documents are resolved.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

// -----------------------------------------------------------------------------
// Document
// -----------------------------------------------------------------------------

// Board is one board's document.
type Board struct {
	Name    string   `yaml:"name"`
	Emulate bool     `yaml:"emulate"` // use the emulated chip and pins
	SPI     []SPIBus `yaml:"spi"`
	Synths  []Synth  `yaml:"synths"`
}

// SPIBus configures one SPI controller.
type SPIBus struct {
	ID       string `yaml:"id"`
	Hz       Hz     `yaml:"hz"`
	Mode     uint8  `yaml:"mode"`
	LSBFirst bool   `yaml:"lsb_first"`
	SCK      *int   `yaml:"sck"`
	SDO      *int   `yaml:"sdo"`
	SDI      *int   `yaml:"sdi"`
}

// Synth is one ADF4377 on the board. Absent enable pins are not wired.
type Synth struct {
	ID         string `yaml:"id"`
	SPI        string `yaml:"spi"`
	ChipEnable *int   `yaml:"chip_enable"`
	EnClk1     *int   `yaml:"en_clk1"`
	EnClk2     *int   `yaml:"en_clk2"`

	RefIn      Hz     `yaml:"ref_in"`
	Out        Hz     `yaml:"out"`
	ChargePump uint8  `yaml:"charge_pump"`
	RefDoubler bool   `yaml:"ref_doubler"`
	SPI4Wire   bool   `yaml:"spi_4wire"`
	Amplitude  string `yaml:"amplitude"`
	Muxout     string `yaml:"muxout"`

	SettleDelay  time.Duration `yaml:"settle_delay"`
	ResetTimeout time.Duration `yaml:"reset_timeout"`
	ResetPoll    time.Duration `yaml:"reset_poll"`
}

// Hz accepts either a plain integer or a decimal with a unit suffix
// ("122.88 MHz", "10GHz", "800 kHz").
type Hz uint64

func (h *Hz) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return &errcode.E{C: errcode.InvalidParams, Op: "config.hz", Msg: "line " + strconv.Itoa(n.Line), Err: ErrFrequency}
	}
	v, err := ParseHz(n.Value)
	if err != nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "config.hz", Msg: "line " + strconv.Itoa(n.Line), Err: err}
	}
	*h = Hz(v)
	return nil
}

var hzUnits = []struct {
	suffix string
	scale  uint64
	digits int
}{
	{"ghz", 1_000_000_000, 9},
	{"mhz", 1_000_000, 6},
	{"khz", 1_000, 3},
	{"hz", 1, 0},
}

// ParseHz parses a frequency exactly, without going through floating point.
func ParseHz(s string) (uint64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	scale, digits := uint64(1), 0
	for _, u := range hzUnits {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			scale, digits = u.scale, u.digits
			break
		}
	}
	s = strings.ReplaceAll(s, "_", "")
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" || len(frac) > digits {
		return 0, ErrFrequency
	}
	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, ErrFrequency
	}
	v := w * scale
	if frac != "" {
		f, err := strconv.ParseUint(frac, 10, 64)
		if err != nil {
			return 0, ErrFrequency
		}
		for i := len(frac); i < digits; i++ {
			f *= 10
		}
		v += f
	}
	if scale != 0 && v/scale != w {
		return 0, ErrFrequency
	}
	return v, nil
}

// -----------------------------------------------------------------------------
// Loading
// -----------------------------------------------------------------------------

// Load resolves and decodes the document for board.
func Load(board string) (Board, error) {
	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return Board{}, &errcode.E{C: errcode.InvalidParams, Op: "config.load", Msg: board, Err: ErrNoBoard}
	}
	b, err := Parse(raw)
	if err != nil {
		return Board{}, err
	}
	if b.Name == "" {
		b.Name = board
	}
	return b, nil
}

// Parse decodes one board document. Unknown keys are rejected.
func Parse(raw []byte) (Board, error) {
	var b Board
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		if code := errcode.Of(err); code != errcode.Error {
			return Board{}, err
		}
		return Board{}, &errcode.E{C: errcode.InvalidParams, Op: "config.parse", Err: err}
	}
	return b, nil
}

// Synth returns the synthesizer with the given id.
func (b Board) Synth(id string) (Synth, error) {
	for _, s := range b.Synths {
		if s.ID == id {
			return s, nil
		}
	}
	return Synth{}, &errcode.E{C: errcode.InvalidParams, Op: "config.synth", Msg: id, Err: ErrNoSynth}
}

// SPIPlans lists the buses the platform must configure.
func (b Board) SPIPlans() []platform.SPIPlan {
	out := make([]platform.SPIPlan, 0, len(b.SPI))
	for _, s := range b.SPI {
		out = append(out, platform.SPIPlan{
			ID:       s.ID,
			Hz:       uint32(s.Hz),
			Mode:     s.Mode,
			LSBFirst: s.LSBFirst,
			SCK:      pinOr(s.SCK),
			SDO:      pinOr(s.SDO),
			SDI:      pinOr(s.SDI),
		})
	}
	return out
}

// Wiring maps the document's pins onto the driver's wiring.
func (s Synth) Wiring() adf4377.Wiring {
	return adf4377.Wiring{
		SPI:        s.SPI,
		ChipEnable: pinOr(s.ChipEnable),
		EnClk1:     pinOr(s.EnClk1),
		EnClk2:     pinOr(s.EnClk2),
	}
}

// DriverConfig converts the document into the driver's operating point and
// validates it.
func (s Synth) DriverConfig() (adf4377.Config, error) {
	amp, err := parseAmplitude(s.Amplitude)
	if err != nil {
		return adf4377.Config{}, err
	}
	mux, err := parseMuxout(s.Muxout)
	if err != nil {
		return adf4377.Config{}, err
	}
	c := adf4377.Config{
		RefInHz:      uint64(s.RefIn),
		OutHz:        uint64(s.Out),
		ChargePump:   s.ChargePump,
		RefDoubler:   s.RefDoubler,
		SPI4Wire:     s.SPI4Wire,
		Amplitude:    amp,
		Muxout:       mux,
		SettleDelay:  s.SettleDelay,
		ResetTimeout: s.ResetTimeout,
		ResetPoll:    s.ResetPoll,
	}
	return c, c.Validate()
}

func parseAmplitude(s string) (adf4377.Amplitude, error) {
	if s == "" {
		return adf4377.Amp420mV, nil
	}
	for a := adf4377.Amp420mV; a <= adf4377.Amp960mV; a++ {
		if strings.EqualFold(a.String(), s) {
			return a, nil
		}
	}
	return 0, &errcode.E{C: errcode.InvalidParams, Op: "config.amplitude", Msg: s, Err: ErrAmplitude}
}

var muxoutNames = map[string]adf4377.Muxout{
	"high_z":      adf4377.MuxHighZ,
	"lock_detect": adf4377.MuxLockDetect,
	"low":         adf4377.MuxLow,
	"div_rclk_2":  adf4377.MuxDivRClk2,
	"div_nclk_2":  adf4377.MuxDivNClk2,
	"high":        adf4377.MuxHigh,
}

func parseMuxout(s string) (adf4377.Muxout, error) {
	if s == "" {
		return adf4377.MuxHighZ, nil
	}
	m, ok := muxoutNames[strings.ToLower(s)]
	if !ok {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "config.muxout", Msg: s, Err: ErrMuxout}
	}
	return m, nil
}

func pinOr(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}
