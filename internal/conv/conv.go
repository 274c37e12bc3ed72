// Package conv provides safe integer conversion helpers for the engine.
//
// The compiler addresses blocks by plain int internally, but the
// internal/sparse.SparseSet worklist used by the jump-coalescing pass
// sizes and indexes itself with uint32. IntToUint32 bounds-checks
// before narrowing and panics on overflow: an overflow here means a
// pattern produced more blocks than that worklist can address — a
// programming error, not a runtime condition callers should recover
// from.
package conv

import "math"

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Compare as uint so 32-bit platforms (where int cannot represent
	// math.MaxUint32) don't wrap the comparison itself.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("conv: int value out of uint32 range")
	}
	return uint32(n)
}
