package adf4377

import (
	"math/bits"

	"synthcode-go/errcode"
	"synthcode-go/x/conv"
)

// SPI register frames: {instruction hi, instruction lo, data}.
//
// MSB-first: {cmd, addr, data}. LSB-first: the 16-bit instruction word is sent
// least significant byte first, so {rev(addr), rev(cmd), rev(data)}.

func (d *Device) frame(cmd, addr, data uint8) {
	if d.lsbFirst {
		d.w[0] = bits.Reverse8(addr)
		d.w[1] = bits.Reverse8(cmd)
		d.w[2] = bits.Reverse8(data)
		return
	}
	d.w[0] = cmd
	d.w[1] = addr
	d.w[2] = data
}

func (d *Device) tx(op string, addr uint8) error {
	d.r = [frameLen]byte{}
	if err := d.bus.Tx(d.w[:], d.r[:]); err != nil {
		return &errcode.E{C: errcode.Communication, Op: op, Msg: "reg " + conv.U8Hex(addr), Err: err}
	}
	return nil
}

// Write stores value in register addr.
func (d *Device) Write(addr, value uint8) error {
	d.frame(spiWriteCmd, addr, value)
	return d.tx("adf4377.write", addr)
}

// Read returns register addr, taken from the third byte clocked back.
func (d *Device) Read(addr uint8) (uint8, error) {
	d.frame(spiReadCmd, addr, spiDummy)
	if err := d.tx("adf4377.read", addr); err != nil {
		return 0, err
	}
	v := d.r[2]
	if d.lsbFirst {
		v = bits.Reverse8(v)
	}
	return v, nil
}

// Update is a read-modify-write: bits outside mask keep their current value,
// bits inside mask take value's.
func (d *Device) Update(addr, mask, value uint8) error {
	cur, err := d.Read(addr)
	if err != nil {
		return err
	}
	return d.Write(addr, cur&^mask|value&mask)
}

// CheckScratchpad writes a sentinel to the scratchpad and reads it back.
// A wrong echo means bad wiring or a different part (errcode.Verification).
func (d *Device) CheckScratchpad() error {
	if err := d.Write(regScratchpad, spiScratchpad); err != nil {
		return err
	}
	got, err := d.Read(regScratchpad)
	if err != nil {
		return err
	}
	if got != spiScratchpad {
		return &errcode.E{
			C:   errcode.Verification,
			Op:  "adf4377.scratchpad",
			Msg: "read " + conv.U8Hex(got) + " want " + conv.U8Hex(spiScratchpad),
			Err: ErrScratchpad,
		}
	}
	return nil
}

// apply runs register steps in order, stopping at the first failure.
func (d *Device) apply(ops ...regOp) error {
	for _, op := range ops {
		var err error
		if op.mask == fullRegisterMask {
			err = d.Write(op.addr, op.val)
		} else {
			err = d.Update(op.addr, op.mask, op.val)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
