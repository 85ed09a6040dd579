// Package conv provides the bounds-checked narrowing conversions used at
// the NFA arena boundary. Overflow panics: a rule set large enough to
// exhaust the StateID space is a programming error upstream, not a
// recoverable condition.
package conv

import "math"

// IntToUint32 converts n to uint32, panicking if n is negative or exceeds
// math.MaxUint32.
func IntToUint32(n int) uint32 {
	// Compare as uint so the upper bound is representable on 32-bit
	// platforms, where int cannot hold math.MaxUint32.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("conv: int value out of uint32 range")
	}
	return uint32(n)
}
