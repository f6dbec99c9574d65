//go:build linux && !rp2040 && !rp2350

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/spi"
)

func TestPeriphMode_NoHardwareLSBFirst(t *testing.T) {
	assert.Equal(t, spi.Mode0, periphMode(SPIPlan{LSBFirst: true}))
	assert.Equal(t, spi.Mode3, periphMode(SPIPlan{Mode: 3, LSBFirst: true}))
	assert.Equal(t, spi.Mode1, periphMode(SPIPlan{Mode: 0x81}))
}
