package simd

import "bytes"

// Memmem returns the index of the first occurrence of needle in
// haystack, or -1 if needle is absent. It uses Memchr to scan for
// needle's last byte (a cheap stand-in for a true rare-byte frequency
// table) and verifies the full match at each candidate, so the common
// case of a mismatching first scan byte is SIMD-accelerated rather
// than falling through to a byte-at-a-time comparison.
func Memmem(haystack, needle []byte) int {
	n, m := len(haystack), len(needle)
	if m == 0 {
		return 0
	}
	if m > n {
		return -1
	}
	if m == 1 {
		return Memchr(haystack, needle[0])
	}

	rare := needle[m-1]
	searchFrom := 0
	for {
		rel := Memchr(haystack[searchFrom:], rare)
		if rel < 0 {
			return -1
		}
		rarePos := searchFrom + rel
		start := rarePos - (m - 1)
		if start < 0 {
			searchFrom = rarePos + 1
			continue
		}
		if bytes.Equal(haystack[start:start+m], needle) {
			return start
		}
		searchFrom = rarePos + 1
	}
}
