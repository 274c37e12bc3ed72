// Package block implements the compiler: a post-order lowering of an
// ast.Tree into a graph of instruction blocks (basic blocks with
// explicit inter-block jumps and two-way splits) that the vm package
// interprets directly.
package block

import "fmt"

// OpKind identifies a block instruction's variant.
type OpKind uint8

const (
	OpChar OpKind = iota
	OpWildcard
	OpWhitespace
	OpWord
	OpDigit
	OpRange
	OpList
	OpEndOfInput
	OpStartOfInput
	OpStartCapture
	OpEndCapture
	OpJump
	OpSplit
	OpProgress
	OpEnd
)

func (k OpKind) String() string {
	switch k {
	case OpChar:
		return "char"
	case OpWildcard:
		return "wildcard"
	case OpWhitespace:
		return "whitespace"
	case OpWord:
		return "word"
	case OpDigit:
		return "digit"
	case OpRange:
		return "range"
	case OpList:
		return "list"
	case OpEndOfInput:
		return "end_of_input"
	case OpStartOfInput:
		return "start_of_input"
	case OpStartCapture:
		return "start_capture"
	case OpEndCapture:
		return "end_capture"
	case OpJump:
		return "jump"
	case OpSplit:
		return "split"
	case OpProgress:
		return "progress"
	case OpEnd:
		return "end"
	default:
		return fmt.Sprintf("op(%d)", uint8(k))
	}
}

// Op is a single block instruction, tagged by Kind. Only the fields
// relevant to Kind are meaningful:
//
//	char                Byte
//	whitespace/word/digit  Negate
//	range               Byte (a), ByteB (b)
//	list                ListIndex, Negate
//	start_capture/end_capture  Group
//	jump                Target
//	split               A, B
//	progress            ProgressID
type Op struct {
	Kind       OpKind
	Byte       byte
	ByteB      byte
	Negate     bool
	ListIndex  int
	Group      int
	Target     int
	A, B       int
	ProgressID int
}

// Block is an ordered sequence of ops, referenced by its index into a
// Program's Blocks slice. The entry point is always block 0.
type Block struct {
	Ops []Op
}

// ListItemKind identifies a character class member's variant.
type ListItemKind uint8

const (
	ListItemChar ListItemKind = iota
	ListItemRange
	ListItemWhitespace
	ListItemWord
	ListItemDigit
)

// ListItem is one member of a character class: a tagged union of
// char(b), range(a,b), whitespace(neg), word(neg), digit(neg).
// Membership in a class is "any item matches".
type ListItem struct {
	Kind   ListItemKind
	Byte   byte
	ByteB  byte
	Negate bool
}

// Program is the compiler's output: the block graph plus the
// character-class (ListItem) arena it references, and the dense
// capture-group count discovered while parsing.
type Program struct {
	Blocks    []Block
	Lists     [][]ListItem
	NumGroups int
}
