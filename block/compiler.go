package block

import (
	"fmt"

	"github.com/btre/btre/ast"
	"github.com/btre/btre/internal/conv"
	"github.com/btre/btre/internal/sparse"
)

type compiler struct {
	blocks          []Block
	lists           [][]ListItem
	progressCounter int
}

// Compile lowers tree into a Program via a recursive post-order
// traversal: each AST node appends ops to the block passed in and
// returns the block its successor should continue from. The entry
// point is always block 0.
func Compile(tree *ast.Tree) *Program {
	c := &compiler{}
	entry := c.createBlock()
	term := c.compileList(tree.Root.NodesIndex, tree.Arena, entry)
	c.emit(term, Op{Kind: OpEnd})
	c.coalesceJumps()
	return &Program{Blocks: c.blocks, Lists: c.lists, NumGroups: tree.NumGroups}
}

func (c *compiler) createBlock() int {
	c.blocks = append(c.blocks, Block{})
	return len(c.blocks) - 1
}

func (c *compiler) emit(blockIdx int, op Op) {
	c.blocks[blockIdx].Ops = append(c.blocks[blockIdx].Ops, op)
}

// compileList compiles every node in arena.Lists[listIdx] in sequence
// into current, threading the terminal block of each node as the
// entry block of the next. An empty list is a no-op: current is
// returned unchanged, which lets an empty group `()` fall straight
// through to its end_capture.
func (c *compiler) compileList(listIdx int, arena *ast.Arena, current int) int {
	for _, n := range arena.Lists[listIdx] {
		current = c.compileNode(n, arena, current)
	}
	return current
}

func (c *compiler) compileNode(n ast.Node, arena *ast.Arena, current int) int {
	switch n.Kind {
	case ast.KindLiteral:
		c.emit(current, Op{Kind: OpChar, Byte: n.Byte})
		return current
	case ast.KindDigit:
		c.emit(current, Op{Kind: OpDigit, Negate: n.Negate})
		return current
	case ast.KindWhitespace:
		c.emit(current, Op{Kind: OpWhitespace, Negate: n.Negate})
		return current
	case ast.KindWord:
		c.emit(current, Op{Kind: OpWord, Negate: n.Negate})
		return current
	case ast.KindWildcard:
		c.emit(current, Op{Kind: OpWildcard})
		return current
	case ast.KindRange:
		c.emit(current, Op{Kind: OpRange, Byte: n.Byte, ByteB: n.ByteB})
		return current
	case ast.KindEndOfInput:
		c.emit(current, Op{Kind: OpEndOfInput})
		return current
	case ast.KindGroup:
		return c.compileGroup(n, arena, current)
	case ast.KindAlternation:
		return c.compileAlternation(n, arena, current)
	case ast.KindList:
		return c.compileClass(n, arena, current)
	case ast.KindOneOrMore:
		return c.compileOneOrMore(n, arena, current)
	case ast.KindZeroOrOne:
		return c.compileZeroOrOne(n, arena, current)
	case ast.KindZeroOrMore:
		return c.compileZeroOrMore(n, arena, current)
	default:
		panic(fmt.Sprintf("block: compiler cannot lower node kind %s", n.Kind))
	}
}

func (c *compiler) compileGroup(n ast.Node, arena *ast.Arena, current int) int {
	content := c.createBlock()
	endCap := c.createBlock()
	next := c.createBlock()

	c.emit(current, Op{Kind: OpStartCapture, Group: n.GroupIndex})
	c.emit(current, Op{Kind: OpJump, Target: content})

	term := c.compileList(n.NodesIndex, arena, content)
	c.emit(term, Op{Kind: OpJump, Target: endCap})

	c.emit(endCap, Op{Kind: OpEndCapture, Group: n.GroupIndex})
	c.emit(endCap, Op{Kind: OpJump, Target: next})

	return next
}

func (c *compiler) compileAlternation(n ast.Node, arena *ast.Arena, current int) int {
	next := c.createBlock()
	left := c.createBlock()
	right := c.createBlock()

	termL := c.compileList(n.NodesIndex, arena, left)
	c.emit(termL, Op{Kind: OpJump, Target: next})

	termR := c.compileList(n.RightIndex, arena, right)
	c.emit(termR, Op{Kind: OpJump, Target: next})

	c.emit(current, Op{Kind: OpSplit, A: left, B: right})
	return next
}

func (c *compiler) compileClass(n ast.Node, arena *ast.Arena, current int) int {
	next := c.createBlock()

	items := make([]ListItem, 0, len(arena.Lists[n.NodesIndex]))
	for _, child := range arena.Lists[n.NodesIndex] {
		items = append(items, toListItem(child))
	}
	listIdx := len(c.lists)
	c.lists = append(c.lists, items)

	c.emit(current, Op{Kind: OpList, ListIndex: listIdx, Negate: n.Negate})
	c.emit(current, Op{Kind: OpJump, Target: next})
	return next
}

func toListItem(n ast.Node) ListItem {
	switch n.Kind {
	case ast.KindLiteral:
		return ListItem{Kind: ListItemChar, Byte: n.Byte}
	case ast.KindRange:
		return ListItem{Kind: ListItemRange, Byte: n.Byte, ByteB: n.ByteB}
	case ast.KindWhitespace:
		return ListItem{Kind: ListItemWhitespace, Negate: n.Negate}
	case ast.KindWord:
		return ListItem{Kind: ListItemWord, Negate: n.Negate}
	case ast.KindDigit:
		return ListItem{Kind: ListItemDigit, Negate: n.Negate}
	default:
		panic(fmt.Sprintf("block: illegal character class member kind %s", n.Kind))
	}
}

func (c *compiler) compileOneOrMore(n ast.Node, arena *ast.Arena, current int) int {
	content := c.createBlock()
	term := c.compileNode(arena.Orphans[n.OrphanIndex], arena, content)
	c.emit(current, Op{Kind: OpJump, Target: content})

	loop := c.createBlock()
	c.emit(term, Op{Kind: OpJump, Target: loop})

	next := c.createBlock()
	if n.Greedy {
		c.emit(loop, Op{Kind: OpSplit, A: content, B: next})
	} else {
		c.emit(loop, Op{Kind: OpSplit, A: next, B: content})
	}
	return next
}

func (c *compiler) compileZeroOrOne(n ast.Node, arena *ast.Arena, current int) int {
	q := c.createBlock()
	content := c.createBlock()
	next := c.createBlock()

	c.emit(current, Op{Kind: OpJump, Target: q})
	if n.Greedy {
		c.emit(q, Op{Kind: OpSplit, A: content, B: next})
	} else {
		c.emit(q, Op{Kind: OpSplit, A: next, B: content})
	}

	term := c.compileNode(arena.Orphans[n.OrphanIndex], arena, content)
	c.emit(term, Op{Kind: OpJump, Target: next})
	return next
}

func (c *compiler) compileZeroOrMore(n ast.Node, arena *ast.Arena, current int) int {
	q := c.createBlock()
	content := c.createBlock()
	next := c.createBlock()

	c.emit(current, Op{Kind: OpJump, Target: q})

	term := c.compileNode(arena.Orphans[n.OrphanIndex], arena, content)
	c.emit(term, Op{Kind: OpJump, Target: q})

	id := c.progressCounter
	c.progressCounter++
	c.emit(q, Op{Kind: OpProgress, ProgressID: id})
	if n.Greedy {
		c.emit(q, Op{Kind: OpSplit, A: content, B: next})
	} else {
		c.emit(q, Op{Kind: OpSplit, A: next, B: content})
	}
	return next
}

// coalesceJumps rewrites every jump target and both split targets to
// chase through single-instruction jump-only blocks, using a sparse
// set as the worklist of blocks whose operands still need resolving.
// Chains are fully resolved in one pass over the worklist since
// resolve walks an entire chase chain per lookup; dead single-jump
// blocks are left in place, unreferenced but not removed.
func (c *compiler) coalesceJumps() {
	chase := make(map[int]int, len(c.blocks))
	for i, b := range c.blocks {
		if len(b.Ops) == 1 && b.Ops[0].Kind == OpJump {
			chase[i] = b.Ops[0].Target
		}
	}
	if len(chase) == 0 {
		return
	}

	resolve := func(idx int) int {
		visited := make(map[int]bool)
		for {
			t, ok := chase[idx]
			if !ok || visited[idx] {
				return idx
			}
			visited[idx] = true
			idx = t
		}
	}

	pending := sparse.NewSparseSet(conv.IntToUint32(len(c.blocks)))
	for i, b := range c.blocks {
		for _, op := range b.Ops {
			if op.Kind == OpJump || op.Kind == OpSplit {
				pending.Insert(conv.IntToUint32(i))
				break
			}
		}
	}

	for !pending.IsEmpty() {
		v, _ := pending.Pop()
		i := int(v)
		for j := range c.blocks[i].Ops {
			op := &c.blocks[i].Ops[j]
			switch op.Kind {
			case OpJump:
				op.Target = resolve(op.Target)
			case OpSplit:
				op.A = resolve(op.A)
				op.B = resolve(op.B)
			}
		}
	}
}
