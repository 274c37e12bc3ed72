// Package ast builds the abstract syntax tree for a pattern: a
// left-to-right single-pass parser over a token.Stream that produces a
// tree of nodes referencing each other by integer index into two
// parallel arenas rather than by pointer, so the whole tree can be
// freed in bulk once the compiler has consumed it.
package ast

import "fmt"

// Kind identifies an AST node variant.
type Kind uint8

const (
	KindRegex Kind = iota
	KindLiteral
	KindDigit
	KindWhitespace
	KindWord
	KindWildcard
	KindRange
	KindList
	KindAlternation
	KindGroup
	KindZeroOrOne
	KindZeroOrMore
	KindOneOrMore
	KindEndOfInput
)

func (k Kind) String() string {
	switch k {
	case KindRegex:
		return "regex"
	case KindLiteral:
		return "literal"
	case KindDigit:
		return "digit"
	case KindWhitespace:
		return "whitespace"
	case KindWord:
		return "word"
	case KindWildcard:
		return "wildcard"
	case KindRange:
		return "range"
	case KindList:
		return "list"
	case KindAlternation:
		return "alternation"
	case KindGroup:
		return "group"
	case KindZeroOrOne:
		return "zero_or_one"
	case KindZeroOrMore:
		return "zero_or_more"
	case KindOneOrMore:
		return "one_or_more"
	case KindEndOfInput:
		return "end_of_input"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is a tagged union over every AST variant. Only the fields
// relevant to Kind are meaningful; see the per-variant payload table:
//
//	literal               Byte
//	digit/whitespace/word Negate
//	range                 Byte (a), ByteB (b)
//	list                  NodesIndex, Negate
//	alternation           NodesIndex (left), RightIndex (right)
//	group                 NodesIndex, GroupIndex
//	zero_or_one/*/one_or_more  Greedy, OrphanIndex
//	regex                 NodesIndex
type Node struct {
	Kind        Kind
	Byte        byte
	ByteB       byte
	Negate      bool
	NodesIndex  int
	RightIndex  int
	GroupIndex  int
	Greedy      bool
	OrphanIndex int
}

// Arena holds every node list and orphan node produced while parsing a
// single pattern. Lists are addressed by their index into Lists;
// orphans (the sole child of a quantifier) are addressed by their
// index into Orphans.
type Arena struct {
	Lists   [][]Node
	Orphans []Node
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// NewList allocates a fresh, empty node list and returns its index.
func (a *Arena) NewList() int {
	a.Lists = append(a.Lists, nil)
	return len(a.Lists) - 1
}

// Append adds n to the end of the list at listIndex.
func (a *Arena) Append(listIndex int, n Node) {
	a.Lists[listIndex] = append(a.Lists[listIndex], n)
}

// CloneList copies the contents of src into a new list and returns the
// new list's index, leaving src untouched.
func (a *Arena) CloneList(src int) int {
	idx := a.NewList()
	a.Lists[idx] = append([]Node(nil), a.Lists[src]...)
	return idx
}

// NewOrphan stores n as an orphan node and returns its index.
func (a *Arena) NewOrphan(n Node) int {
	a.Orphans = append(a.Orphans, n)
	return len(a.Orphans) - 1
}

// Tree is the parse result: a root regex node plus the arena backing
// its descendants, and the dense count of capture groups discovered.
type Tree struct {
	Arena     *Arena
	Root      Node
	NumGroups int
}
