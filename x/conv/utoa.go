package conv

// Utoa writes base-10 representation of n into buf and returns the used slice.
// buf should be length >= 20 for uint64.
func Utoa(buf []byte, n uint64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
	} else {
		for n > 0 && i > 0 {
			i--
			buf[i] = byte('0' + (n % 10))
			n /= 10
		}
	}
	return buf[i:]
}

// MHz renders hz as megahertz with three decimals ("6400.000 MHz"),
// truncating below 1 kHz. No fmt/strconv dependency.
func MHz(hz uint64) string {
	var b [32]byte
	const unit = " MHz"
	i := len(b) - len(unit)
	copy(b[i:], unit)

	khz := (hz / 1_000) % 1_000
	for j := 0; j < 3; j++ {
		i--
		b[i] = byte('0' + khz%10)
		khz /= 10
	}
	i--
	b[i] = '.'
	head := Utoa(b[:i], hz/1_000_000)
	i -= len(head)
	return string(b[i:])
}
