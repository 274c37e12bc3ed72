// Package prefilter provides fast candidate-position scanning that
// accelerates the VM's unanchored substring search without changing its
// result.
//
// Per the core contract (see the vm package), unwind rule 1 advances
// match_from_index by exactly one byte whenever the backtrack stack is
// exhausted. That rule is semantically complete but can be slow when the
// pattern requires a specific literal byte or one of a small set of
// literals at its start: most candidate start positions can be skipped
// in bulk. A Prefilter answers "where is the next position that could
// possibly start a match" so the VM can jump match_from_index there
// directly; it never itself decides whether a match exists, so it never
// changes which match is reported, only how quickly the VM reaches it.
package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/btre/btre/simd"
)

// Prefilter finds the next byte offset at or after start that could
// begin a match.
type Prefilter interface {
	// Find returns the next candidate offset >= start, or -1 if no
	// candidate exists in haystack[start:]. A candidate is necessary
	// but not sufficient for a match — the VM still runs in full at
	// that offset.
	Find(haystack []byte, start int) int
}

// Build selects a Prefilter strategy for a set of required literal byte
// sequences, one per top-level alternation branch (or a single entry for
// an unbranched pattern). It returns nil if the literals give no useful
// filtering power (none supplied, or any literal is empty).
//
// Strategy selection mirrors the one true rule: use the cheapest scan
// that still rules out the most positions.
//   - 1 literal, single byte: simd.Memchr
//   - 1 literal, multiple bytes: simd.Memmem
//   - 2 or 3 single-byte literals: simd.Memchr2 / simd.Memchr3
//   - otherwise: an Aho-Corasick automaton over all literals
func Build(literals [][]byte) Prefilter {
	if len(literals) == 0 {
		return nil
	}
	for _, lit := range literals {
		if len(lit) == 0 {
			return nil
		}
	}

	if len(literals) == 1 {
		if len(literals[0]) == 1 {
			return &bytePrefilter{b: literals[0][0]}
		}
		return &literalPrefilter{lit: literals[0]}
	}

	if allSingleByte(literals) {
		switch len(literals) {
		case 2:
			return &byte2Prefilter{b1: literals[0][0], b2: literals[1][0]}
		case 3:
			return &byte3Prefilter{b1: literals[0][0], b2: literals[1][0], b3: literals[2][0]}
		}
	}

	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoCorasickPrefilter{auto: auto}
}

func allSingleByte(literals [][]byte) bool {
	for _, lit := range literals {
		if len(lit) != 1 {
			return false
		}
	}
	return true
}

type bytePrefilter struct{ b byte }

func (p *bytePrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr(haystack[start:], p.b)
	if idx < 0 {
		return -1
	}
	return start + idx
}

type byte2Prefilter struct{ b1, b2 byte }

func (p *byte2Prefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr2(haystack[start:], p.b1, p.b2)
	if idx < 0 {
		return -1
	}
	return start + idx
}

type byte3Prefilter struct{ b1, b2, b3 byte }

func (p *byte3Prefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr3(haystack[start:], p.b1, p.b2, p.b3)
	if idx < 0 {
		return -1
	}
	return start + idx
}

// literalPrefilter finds the next occurrence of a multi-byte literal
// via simd.Memmem.
type literalPrefilter struct{ lit []byte }

func (p *literalPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	rest := haystack[start:]
	idx := simd.Memmem(rest, p.lit)
	if idx < 0 {
		return -1
	}
	return start + idx
}

// ahoCorasickPrefilter dispatches to a multi-pattern Aho-Corasick
// automaton when there are too many literals (or literals too varied in
// length) for the fixed-width byte-set scanners above.
type ahoCorasickPrefilter struct{ auto *ahocorasick.Automaton }

func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}
