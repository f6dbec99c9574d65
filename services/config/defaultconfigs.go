package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board name (set at build time, see cmd/synth-up)
// Val: raw YAML for that board
// -----------------------------------------------------------------------------

const cfgHost = `
name: host
emulate: true
spi:
  - id: spi0
    hz: 10 MHz
synths:
  - id: synth0
    spi: spi0
    chip_enable: 1
    en_clk1: 2
    en_clk2: 3
    ref_in: 122.88 MHz
    out: 10 GHz
    charge_pump: 7
    spi_4wire: true
    amplitude: 850mV
    muxout: lock_detect
`

const cfgRPi = `
name: rpi
spi:
  - id: /dev/spidev0.0
    hz: 10 MHz
synths:
  - id: synth0
    spi: /dev/spidev0.0
    chip_enable: 17
    en_clk1: 27
    en_clk2: 22
    ref_in: 125 MHz
    out: 10 GHz
    charge_pump: 7
    spi_4wire: true
    amplitude: 960mV
    muxout: lock_detect
`

const cfgPico = `
name: pico
spi:
  - id: spi0
    hz: 4 MHz
    sck: 18
    sdo: 19
    sdi: 16
synths:
  - id: synth0
    spi: spi0
    chip_enable: 20
    en_clk1: 21
    ref_in: 100 MHz
    ref_doubler: true
    out: 8 GHz
    charge_pump: 9
    spi_4wire: true
    amplitude: 740mV
    muxout: lock_detect
    settle_delay: 100ms
`

var embeddedConfigs = map[string][]byte{
	"host": []byte(cfgHost),
	"rpi":  []byte(cfgRPi),
	"pico": []byte(cfgPico),
}
