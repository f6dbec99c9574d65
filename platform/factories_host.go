//go:build !linux && !rp2040 && !rp2350

package platform

import (
	"io"
	"os"

	"synthcode-go/errcode"
)

// Native has no hardware backend on this build; use Emulated.
func Native(_ []SPIPlan) (Factories, error) {
	return Factories{}, &errcode.E{C: errcode.Unsupported, Op: "platform.native", Err: errUnsupported}
}

// Console is where bring-up programs report progress.
func Console() io.Writer { return os.Stdout }
