package split

// CPUFill is the CPU-only path for fill: used for the CPU prefix of a
// split chunk, for any request below dsa_min_size, and by facade as the
// fallback primitive for calls that arrive before lifecycle setup
// completes — one implementation, reused everywhere the original reuses
// its internal dto_internal_memset.
func CPUFill(dst []byte, c byte) {
	for i := range dst {
		dst[i] = c
	}
}

// CPUCopyOrMove is the CPU-only path for copy/move. Go's copy() already
// has memmove semantics (safe for overlapping src/dst), so both cases
// share one implementation, matching dto_internal_memcpymove's intent.
// isCopy is unused here but kept so callers don't need a type switch.
func CPUCopyOrMove(dst, src []byte, isCopy bool) {
	copy(dst, src)
}

// CPUCompare is the CPU-only path for compare: 0 when a == b, otherwise
// the literal difference a[i]-b[i] at the first differing index i,
// matching dto_internal_memcmp's "cmp_result = *t1 - *t2" (not a sign
// normalized to -1/0/1).
func CPUCompare(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return 0
}
