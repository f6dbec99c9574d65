package adf4377

import (
	"errors"

	"synthcode-go/errcode"
	"synthcode-go/x/timex"
)

// SoftReset sets SOFT_RESET and SOFT_RESET_R together, then polls REG 0x00
// until the chip clears SOFT_RESET. The poll is bounded by
// Config.ResetTimeout on the monotonic clock.
func (d *Device) SoftReset() error {
	if err := d.Update(regInterface, softResetAll, softResetAll); err != nil {
		return err
	}
	_, err := timex.PollUntil(d.clock, d.cfg.ResetTimeout, d.cfg.ResetPoll, func() (bool, error) {
		v, err := d.Read(regInterface)
		if err != nil {
			return false, err
		}
		return v&softReset == 0, nil
	})
	if errors.Is(err, timex.ErrDeadline) {
		return &errcode.E{C: errcode.Timeout, Op: "adf4377.soft_reset", Err: ErrResetTimeout}
	}
	return err
}
