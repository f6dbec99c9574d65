package platform

import (
	"testing"

	"synthcode-go/drivers/adf4377"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wireBus records the bytes a controller would shift out, MSB first.
type wireBus struct {
	sent [][]byte
}

func (b *wireBus) Tx(w, r []byte) error {
	b.sent = append(b.sent, append([]byte(nil), w...))
	return nil
}

func (b *wireBus) Transfer(c byte) (byte, error) { return 0, nil }

// A bit-reversed byte must appear on the wire exactly once.
func TestSPIConn_LSBFirstReversedOnce(t *testing.T) {
	for _, tc := range []struct {
		lsb  bool
		want []byte
	}{
		{false, []byte{0x00, 0x0A, 0x01}},
		{true, []byte{0x50, 0x00, 0x80}},
	} {
		bus := &wireBus{}
		c := newSPIConn(bus, SPIPlan{ID: "spi0", LSBFirst: tc.lsb})
		assert.Equal(t, tc.lsb, c.LSBFirst())

		d := adf4377.New(c, adf4377.Config{RefInHz: 100_000_000, OutHz: 8_000_000_000})
		require.NoError(t, d.Write(0x0A, 0x01))
		require.Len(t, bus.sent, 1)
		assert.Equal(t, tc.want, bus.sent[0], "lsb=%v", tc.lsb)
	}
}
