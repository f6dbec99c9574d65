package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Range is a closed interval.
type Range[T constraints.Ordered] struct {
	Min, Max T
}

// Contains reports Min <= v && v <= Max.
func (r Range[T]) Contains(v T) bool { return v >= r.Min && v <= r.Max }
