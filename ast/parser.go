package ast

import (
	"fmt"

	"github.com/btre/btre/token"
)

// ParseState is the parser's mutable cursor into the arena: which
// list new children are appended to, and whatever bookkeeping the
// current nesting level (group or class) needs to unwind correctly
// when its closing token arrives.
type ParseState struct {
	inAlternation   bool
	inList          bool
	isNegative      bool
	alternationIndex int
	groupIndex      int
	nodes           int
}

type parser struct {
	stream       *token.Stream
	arena        *Arena
	state        ParseState
	stack        []ParseState
	groupCounter int
}

// Parse tokenizes and parses pattern into a Tree. It is the sole entry
// point into this package; the tokenizer is an internal stage and its
// errors (principally ErrUnterminatedEscape) are returned unchanged.
func Parse(pattern []byte) (*Tree, error) {
	stream, err := token.Scan(pattern)
	if err != nil {
		return nil, err
	}

	arena := NewArena()
	root := arena.NewList()
	p := &parser{stream: stream, arena: arena, state: ParseState{nodes: root}}

	for p.stream.Available() > 0 {
		tok, _ := p.stream.Consume()
		if err := p.dispatch(tok); err != nil {
			return nil, err
		}
	}

	if len(p.stack) != 0 {
		return nil, wrapParseError("unclosed group or character class", ErrOutOfBounds)
	}

	return &Tree{
		Arena:     arena,
		Root:      Node{Kind: KindRegex, NodesIndex: p.currentContentIndex()},
		NumGroups: p.groupCounter,
	}, nil
}

func (p *parser) currentContentIndex() int {
	if p.state.inAlternation {
		return p.state.alternationIndex
	}
	return p.state.nodes
}

func (p *parser) dispatch(tok token.Token) error {
	if p.state.inList {
		return p.dispatchInList(tok)
	}
	switch tok.Kind {
	case token.Literal, token.Dash, token.Caret:
		return p.appendAndMaybeWrap(Node{Kind: KindLiteral, Byte: tok.ByteValue})
	case token.Dollar:
		return p.appendAndMaybeWrap(Node{Kind: KindEndOfInput})
	case token.Escaped:
		node, _, err := p.classify(tok)
		if err != nil {
			return err
		}
		return p.appendAndMaybeWrap(node)
	case token.Wildcard:
		return p.appendAndMaybeWrap(Node{Kind: KindWildcard})
	case token.LSquare:
		return p.enterList()
	case token.RSquare:
		return p.exitList()
	case token.LParen:
		return p.enterGroup()
	case token.RParen:
		return p.exitGroup()
	case token.Alternation:
		p.handleAlternation()
		return nil
	case token.ZeroOrOne, token.ZeroOrMore, token.OneOrMore:
		return parseErrorf("quantifier %q with no preceding atom", tok.ByteValue)
	default:
		return parseErrorf("unexpected token %s", tok.Kind)
	}
}

func (p *parser) dispatchInList(tok token.Token) error {
	if tok.Kind == token.RSquare {
		return p.exitList()
	}

	node, isByte, err := p.classify(tok)
	if err != nil {
		return err
	}

	if next, ok := p.stream.Peek(0); ok && next.Kind == token.Dash {
		if after, ok2 := p.stream.Peek(1); ok2 && after.Kind != token.RSquare {
			if !isByte {
				return parseErrorf("character class cannot be used as a range start")
			}
			p.stream.Consume()
			endTok, _ := p.stream.Consume()
			endNode, endIsByte, err := p.classify(endTok)
			if err != nil {
				return err
			}
			if !endIsByte {
				return parseErrorf("character class cannot be used as a range end")
			}
			if endNode.Byte < node.Byte {
				return wrapParseError(fmt.Sprintf("range %q-%q has end before start", node.Byte, endNode.Byte), ErrInvalidRange)
			}
			p.arena.Append(p.state.nodes, Node{Kind: KindRange, Byte: node.Byte, ByteB: endNode.Byte})
			return nil
		}
	}

	p.arena.Append(p.state.nodes, node)
	return nil
}

// classify maps a token to the AST node it denotes outside of
// quantifier wrapping. isByte reports whether node is a single-byte
// literal (and therefore eligible to start or end a class range);
// digit/whitespace/word nodes are not.
func (p *parser) classify(tok token.Token) (node Node, isByte bool, err error) {
	if tok.Kind != token.Escaped {
		return Node{Kind: KindLiteral, Byte: tok.ByteValue}, true, nil
	}
	switch tok.ByteValue {
	case 'd':
		return Node{Kind: KindDigit}, false, nil
	case 'D':
		return Node{Kind: KindDigit, Negate: true}, false, nil
	case 's':
		return Node{Kind: KindWhitespace}, false, nil
	case 'S':
		return Node{Kind: KindWhitespace, Negate: true}, false, nil
	case 'w':
		return Node{Kind: KindWord}, false, nil
	case 'W':
		return Node{Kind: KindWord, Negate: true}, false, nil
	case 'x':
		b, err := p.parseHexByte()
		if err != nil {
			return Node{}, false, err
		}
		return Node{Kind: KindLiteral, Byte: b}, true, nil
	default:
		return Node{Kind: KindLiteral, Byte: tok.ByteValue}, true, nil
	}
}

// parseHexByte consumes up to two upcoming hex-digit literal tokens
// and combines them high-nibble-first. A missing low digit yields the
// single digit seen; a wholly absent pair yields 0.
func (p *parser) parseHexByte() (byte, error) {
	var digits []byte
	for len(digits) < 2 {
		tok, ok := p.stream.Peek(0)
		if !ok || !isHexDigitToken(tok) {
			break
		}
		p.stream.Consume()
		digits = append(digits, tok.ByteValue)
	}
	switch len(digits) {
	case 0:
		return 0x00, nil
	case 1:
		return hexVal(digits[0]), nil
	default:
		return hexVal(digits[0])<<4 | hexVal(digits[1]), nil
	}
}

func isHexDigitToken(t token.Token) bool {
	if t.Kind != token.Literal {
		return false
	}
	b := t.ByteValue
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexVal(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	default:
		return b - 'A' + 10
	}
}

// appendAndMaybeWrap appends n to the current list and, outside a
// class, checks for a following quantifier to wrap it in.
func (p *parser) appendAndMaybeWrap(n Node) error {
	p.arena.Append(p.state.nodes, n)
	if p.state.inList {
		return nil
	}
	return p.maybeWrapQuantifier()
}

func (p *parser) maybeWrapQuantifier() error {
	tok, ok := p.stream.Peek(0)
	if !ok {
		return nil
	}
	var qKind Kind
	switch tok.Kind {
	case token.ZeroOrOne:
		qKind = KindZeroOrOne
	case token.ZeroOrMore:
		qKind = KindZeroOrMore
	case token.OneOrMore:
		qKind = KindOneOrMore
	default:
		return nil
	}
	p.stream.Consume()

	greedy := true
	if next, ok := p.stream.Peek(0); ok && next.Kind == token.ZeroOrOne {
		p.stream.Consume()
		greedy = false
	}

	list := p.arena.Lists[p.state.nodes]
	if len(list) == 0 {
		return parseErrorf("quantifier with no preceding atom")
	}
	last := list[len(list)-1]
	p.arena.Lists[p.state.nodes] = list[:len(list)-1]
	orphanIdx := p.arena.NewOrphan(last)
	p.arena.Append(p.state.nodes, Node{Kind: qKind, Greedy: greedy, OrphanIndex: orphanIdx})
	return nil
}

func (p *parser) enterList() error {
	p.stack = append(p.stack, p.state)
	newIdx := p.arena.NewList()
	negate := false
	if tok, ok := p.stream.Peek(0); ok && tok.Kind == token.Caret {
		p.stream.Consume()
		negate = true
	}
	p.state = ParseState{nodes: newIdx, inList: true, isNegative: negate}
	return nil
}

func (p *parser) exitList() error {
	if len(p.stack) == 0 || !p.state.inList {
		return parseErrorf("unexpected ']'")
	}
	listIdx := p.state.nodes
	negate := p.state.isNegative
	if len(p.arena.Lists[listIdx]) == 0 {
		return parseErrorf("empty character class")
	}

	p.state = p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]

	return p.appendAndMaybeWrap(Node{Kind: KindList, NodesIndex: listIdx, Negate: negate})
}

func (p *parser) enterGroup() error {
	gi := p.groupCounter
	p.groupCounter++
	p.stack = append(p.stack, p.state)
	newIdx := p.arena.NewList()
	p.state = ParseState{nodes: newIdx, groupIndex: gi}
	return nil
}

func (p *parser) exitGroup() error {
	if len(p.stack) == 0 {
		return parseErrorf("unexpected ')'")
	}
	contentIdx := p.currentContentIndex()
	cloned := p.arena.CloneList(contentIdx)
	groupIdx := p.state.groupIndex

	p.state = p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]

	return p.appendAndMaybeWrap(Node{Kind: KindGroup, NodesIndex: cloned, GroupIndex: groupIdx})
}

// handleAlternation implements the flat left-factoring rule: the
// branch accumulated so far becomes the left arm of a fresh
// alternation node, a new empty list becomes the right arm that
// subsequent tokens append to, and alternation_index keeps tracking
// the single list slot that holds the (possibly nested) chain.
func (p *parser) handleAlternation() {
	st := &p.state
	if st.inAlternation {
		leftIdx := p.arena.CloneList(st.alternationIndex)
		rightIdx := p.arena.NewList()
		p.arena.Lists[st.alternationIndex] = []Node{{Kind: KindAlternation, NodesIndex: leftIdx, RightIndex: rightIdx}}
		st.nodes = rightIdx
		return
	}
	leftIdx := p.arena.CloneList(st.nodes)
	rightIdx := p.arena.NewList()
	st.alternationIndex = st.nodes
	p.arena.Lists[st.nodes] = []Node{{Kind: KindAlternation, NodesIndex: leftIdx, RightIndex: rightIdx}}
	st.nodes = rightIdx
	st.inAlternation = true
}
