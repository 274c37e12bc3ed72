package btre

import "github.com/btre/btre/vm"

// Match is the result of a successful Find: the whole-match span plus
// every capture group recorded along the winning path. Capture slices
// are borrowed from the input passed to Find — the input must outlive
// the Match.
type Match struct {
	input     []byte
	start     int
	end       int
	captures  map[int]vm.Capture
	numGroups int
}

// Whole returns the full matched slice.
func (m *Match) Whole() []byte {
	return m.input[m.start:m.end]
}

// Index returns the [start, end) byte offsets of the whole match.
func (m *Match) Index() (start, end int) {
	return m.start, m.end
}

// Group returns capture group n (1-indexed: group 1 is the first
// `(...)` in the pattern, in order of its opening paren) and whether
// it participated in the match. A group can be absent even on a
// successful overall match, e.g. the unmatched arm of an alternation.
func (m *Match) Group(n int) (slice []byte, ok bool) {
	c, present := m.captures[n-1]
	if !present {
		return nil, false
	}
	return m.input[c.Start:c.End], true
}

// GroupIndex is Group but returns byte offsets instead of a slice.
func (m *Match) GroupIndex(n int) (start, end int, ok bool) {
	c, present := m.captures[n-1]
	if !present {
		return 0, 0, false
	}
	return c.Start, c.End, true
}

// Groups returns every capture group in order, length NumSubexp of
// the Regex that produced m. An absent group is reported as a nil
// slice at its index.
func (m *Match) Groups() [][]byte {
	out := make([][]byte, m.numGroups)
	for i := range out {
		if c, ok := m.captures[i]; ok {
			out[i] = m.input[c.Start:c.End]
		}
	}
	return out
}
