package mathx

// Unsigned covers the register-width and frequency integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// CeilDiv returns ceil(a/b). b == 0 yields 0.
func CeilDiv[T Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}

// SubSat returns a-b, or 0 when b > a.
func SubSat[T Unsigned](a, b T) T {
	if b > a {
		return 0
	}
	return a - b
}

// Pow2 returns 1<<n for the unsigned type T.
func Pow2[T Unsigned](n uint8) T {
	return T(1) << n
}

// FitsBits reports whether v can be stored in an n-bit register field.
func FitsBits[T Unsigned](v T, n uint8) bool {
	if n >= 64 {
		return true
	}
	return uint64(v) < uint64(1)<<n
}
