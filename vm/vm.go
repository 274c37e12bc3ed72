// Package vm implements the backtracking execution engine: a single
// logical thread walks a compiled block.Program one op at a time,
// pushing a backtrack frame at every split and popping or diverting
// into the saved "B" arm on failure. Capture data is shared between a
// split's two children until one of them mutates it, at which point
// it is copied lazily (copy-on-write).
package vm

import (
	"github.com/btre/btre/block"
	"github.com/btre/btre/prefilter"
)

// Capture is a recorded group span, [Start, End) into the input.
type Capture struct {
	Start int
	End   int
}

// threadState is the VM's notion of "where execution is": which
// block and instruction, how far into the input, and the open
// capture bookkeeping. hasNextSplit/nextSplit record the not-yet-tried
// B arm of the nearest enclosing split this thread still owes, if
// any; the *Copied flags track whether captureStack/captures are
// still shared with the thread this one was split from.
type threadState struct {
	block        int
	pc           int
	index        int
	hasNextSplit bool
	nextSplit    int

	captureStack       []int
	captures           map[int]Capture
	captureStackCopied bool
	capturesCopied     bool
}

// VM interprets one compiled Program against one input. It is built
// fresh per match attempt and is neither reentrant nor thread-safe;
// the Program it interprets is immutable and may be shared freely
// across VM instances.
type VM struct {
	program *block.Program
	input   []byte

	current threadState
	stack   []threadState

	// progress maps a progress op's id to the input index at which it
	// was last visited, forbidding zero-width iteration of the same
	// loop head. It is not reset across an internal match_from_index
	// restart — only the op's own id/index pairing within a single
	// restart could trip the check again, and in practice every fresh
	// attempt advances strictly past every index the prior attempt
	// ever recorded before it could revisit the same loop head, so the
	// shared lifetime costs nothing in the attempts this package runs.
	progress map[int]int

	matchFromIndex int
	matchStart     int
	numGroups      int

	pf prefilter.Prefilter

	// Trace, if set, is called once per dispatched op with the
	// thread's position just before the op executes. The VM has no
	// logging of its own; this hook exists solely so a caller's debug
	// configuration can observe execution steps without the core
	// depending on any particular tracing/formatting library.
	Trace func(blockIdx, pc, index int, op block.OpKind)
}

// New builds a VM ready to search input for program, optionally
// accelerated by pf (which may be nil). The VM positions its first
// attempt at the first byte offset the prefilter (if any) reports as
// a possible match start.
func New(program *block.Program, input []byte, pf prefilter.Prefilter) *VM {
	return NewSized(program, input, pf, 0, 0)
}

// NewSized is New with capacity hints for the backtrack stack and the
// progress table, letting a caller avoid reallocation on patterns
// known to split or loop heavily. A hint of 0 behaves exactly like New.
func NewSized(program *block.Program, input []byte, pf prefilter.Prefilter, stackHint, progressHint int) *VM {
	v := &VM{
		program:   program,
		input:     input,
		stack:     make([]threadState, 0, stackHint),
		progress:  make(map[int]int, progressHint),
		numGroups: program.NumGroups,
		pf:        pf,
	}
	start, ok := v.nextCandidate(0)
	if !ok {
		start = len(input) + 1
	}
	v.matchFromIndex = start
	v.matchStart = start
	v.current = threadState{index: start, captures: map[int]Capture{}}
	return v
}

// NumGroups reports the dense capture-group count, updated as
// start_capture ops execute (normally already equal to the compiled
// program's static count).
func (v *VM) NumGroups() int {
	return v.numGroups
}

// Run executes the VM to completion. ok reports whether a match was
// found; when true, start and end delimit the whole match and
// captures holds every group recorded along the winning path.
func (v *VM) Run() (start, end int, captures map[int]Capture, ok bool) {
	if v.matchFromIndex > len(v.input) {
		return 0, 0, nil, false
	}

	for {
		blk := v.program.Blocks[v.current.block]
		if v.current.pc >= len(blk.Ops) {
			if !v.unwind() {
				return 0, 0, nil, false
			}
			continue
		}

		op := blk.Ops[v.current.pc]
		if v.Trace != nil {
			v.Trace(v.current.block, v.current.pc, v.current.index, op.Kind)
		}
		switch op.Kind {
		case block.OpChar:
			if v.atEnd() || v.input[v.current.index] != op.Byte {
				if !v.unwind() {
					return 0, 0, nil, false
				}
				continue
			}
			v.advance()

		case block.OpWildcard:
			if v.atEnd() {
				if !v.unwind() {
					return 0, 0, nil, false
				}
				continue
			}
			v.advance()

		case block.OpDigit:
			if v.atEnd() || isDigit(v.input[v.current.index]) == op.Negate {
				if !v.unwind() {
					return 0, 0, nil, false
				}
				continue
			}
			v.advance()

		case block.OpWhitespace:
			if v.atEnd() || isWhitespace(v.input[v.current.index]) == op.Negate {
				if !v.unwind() {
					return 0, 0, nil, false
				}
				continue
			}
			v.advance()

		case block.OpWord:
			if v.atEnd() || isWord(v.input[v.current.index]) == op.Negate {
				if !v.unwind() {
					return 0, 0, nil, false
				}
				continue
			}
			v.advance()

		case block.OpRange:
			if v.atEnd() {
				if !v.unwind() {
					return 0, 0, nil, false
				}
				continue
			}
			b := v.input[v.current.index]
			if b < op.Byte || b > op.ByteB {
				if !v.unwind() {
					return 0, 0, nil, false
				}
				continue
			}
			v.advance()

		case block.OpList:
			if v.atEnd() || matchClass(v.program.Lists[op.ListIndex], v.input[v.current.index]) == op.Negate {
				if !v.unwind() {
					return 0, 0, nil, false
				}
				continue
			}
			v.advance()

		case block.OpEndOfInput:
			if v.current.index != len(v.input) {
				if !v.unwind() {
					return 0, 0, nil, false
				}
				continue
			}
			v.current.pc++

		case block.OpStartOfInput:
			if v.current.index != 0 {
				if !v.unwind() {
					return 0, 0, nil, false
				}
				continue
			}
			v.current.pc++

		case block.OpJump:
			v.current.block = op.Target
			v.current.pc = 0

		case block.OpSplit:
			v.split(op.A, op.B)

		case block.OpProgress:
			last, seen := v.progress[op.ProgressID]
			if seen && last == v.current.index {
				if !v.unwind() {
					return 0, 0, nil, false
				}
				continue
			}
			v.progress[op.ProgressID] = v.current.index
			v.current.pc++

		case block.OpStartCapture:
			v.startCapture(op.Group)

		case block.OpEndCapture:
			v.endCapture(op.Group)

		case block.OpEnd:
			return v.matchStart, v.current.index, v.current.captures, true
		}
	}
}

func (v *VM) atEnd() bool {
	return v.current.index >= len(v.input)
}

func (v *VM) advance() {
	v.current.index++
	v.current.pc++
}

// split implements the one delicate instruction: advance past it in
// the current block first (so the pushed clone resumes there), clone
// the now-advanced state onto the backtrack stack, then redirect
// current into arm a while remembering arm b as its nearest unresolved
// split. The clone inherits whatever pending split current already
// owed an outer scope; only the copy-on-write flags reset, since this
// split opens a brand new sharing relationship for capture data.
func (v *VM) split(a, b int) {
	v.current.pc++
	clone := v.current
	clone.capturesCopied = false
	clone.captureStackCopied = false
	v.stack = append(v.stack, clone)

	v.current.hasNextSplit = true
	v.current.nextSplit = b
	v.current.capturesCopied = false
	v.current.captureStackCopied = false
	v.current.block = a
	v.current.pc = 0
}

// unwind is the VM's failure-propagation action. It returns false only
// when every alternative and every remaining match start has been
// exhausted.
func (v *VM) unwind() bool {
	if len(v.stack) == 0 {
		next, ok := v.nextCandidate(v.matchFromIndex + 1)
		if !ok {
			return false
		}
		v.matchFromIndex = next
		v.matchStart = next
		v.current = threadState{index: next, captures: map[int]Capture{}}
		return true
	}

	if v.current.hasNextSplit {
		top := v.stack[len(v.stack)-1]
		v.current.block = v.current.nextSplit
		v.current.pc = 0
		v.current.hasNextSplit = false
		v.current.index = top.index
		v.current.captures = top.captures
		v.current.captureStack = top.captureStack
		v.current.capturesCopied = false
		v.current.captureStackCopied = false
		return true
	}

	v.current = v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]
	return true
}

// nextCandidate resolves the next byte offset at or after from that
// could possibly start a match: from itself with no prefilter, or the
// prefilter's next reported candidate. It never changes which match
// is eventually found, only how many dead start positions are skipped.
func (v *VM) nextCandidate(from int) (int, bool) {
	if from > len(v.input) {
		return 0, false
	}
	if v.pf == nil {
		return from, true
	}
	c := v.pf.Find(v.input, from)
	if c < 0 {
		return 0, false
	}
	return c, true
}

func (v *VM) startCapture(g int) {
	if !v.current.captureStackCopied {
		v.current.captureStack = append([]int(nil), v.current.captureStack...)
		v.current.captureStackCopied = true
	}
	v.current.captureStack = append(v.current.captureStack, v.current.index)
	if g+1 > v.numGroups {
		v.numGroups = g + 1
	}
	v.current.pc++
}

func (v *VM) endCapture(g int) {
	if !v.current.captureStackCopied {
		v.current.captureStack = append([]int(nil), v.current.captureStack...)
		v.current.captureStackCopied = true
	}
	n := len(v.current.captureStack)
	start := v.current.captureStack[n-1]
	v.current.captureStack = v.current.captureStack[:n-1]

	if !v.current.capturesCopied {
		fresh := make(map[int]Capture, len(v.current.captures)+1)
		for k, val := range v.current.captures {
			fresh[k] = val
		}
		v.current.captures = fresh
		v.current.capturesCopied = true
	}
	v.current.captures[g] = Capture{Start: start, End: v.current.index}
	v.current.pc++
}
