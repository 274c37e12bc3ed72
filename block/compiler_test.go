package block

import (
	"testing"

	"github.com/btre/btre/ast"
)

func compile(t *testing.T, pattern string) *Program {
	t.Helper()
	tree, err := ast.Parse([]byte(pattern))
	if err != nil {
		t.Fatalf("ast.Parse(%q) error = %v", pattern, err)
	}
	return Compile(tree)
}

func lastOp(p *Program, blockIdx int) Op {
	ops := p.Blocks[blockIdx].Ops
	return ops[len(ops)-1]
}

func TestCompileLiteralEndsInEnd(t *testing.T) {
	p := compile(t, "ab")
	if len(p.Blocks[0].Ops) != 3 {
		t.Fatalf("block 0 ops = %+v, want char(a) char(b) end", p.Blocks[0].Ops)
	}
	if p.Blocks[0].Ops[0].Kind != OpChar || p.Blocks[0].Ops[0].Byte != 'a' {
		t.Errorf("op 0 = %+v", p.Blocks[0].Ops[0])
	}
	if p.Blocks[0].Ops[1].Kind != OpChar || p.Blocks[0].Ops[1].Byte != 'b' {
		t.Errorf("op 1 = %+v", p.Blocks[0].Ops[1])
	}
	if p.Blocks[0].Ops[2].Kind != OpEnd {
		t.Errorf("op 2 = %+v, want end", p.Blocks[0].Ops[2])
	}
}

func TestCompileClassOp(t *testing.T) {
	p := compile(t, "[a-z]")
	op := p.Blocks[0].Ops[0]
	if op.Kind != OpList || op.Negate {
		t.Fatalf("op = %+v, want list(negate=false)", op)
	}
	items := p.Lists[op.ListIndex]
	if len(items) != 1 || items[0].Kind != ListItemRange || items[0].Byte != 'a' || items[0].ByteB != 'z' {
		t.Fatalf("items = %+v, want [range(a,z)]", items)
	}
}

func TestCompileGroupWiresStartEndCapture(t *testing.T) {
	p := compile(t, "(a)")
	op := p.Blocks[0].Ops[0]
	if op.Kind != OpStartCapture || op.Group != 0 {
		t.Fatalf("block0 op0 = %+v, want start_capture(0)", op)
	}
	jump := p.Blocks[0].Ops[1]
	if jump.Kind != OpJump {
		t.Fatalf("block0 op1 = %+v, want jump", jump)
	}
	content := jump.Target
	if p.Blocks[content].Ops[0].Kind != OpChar {
		t.Fatalf("content block = %+v, want char(a)", p.Blocks[content].Ops)
	}
	contentJump := lastOp(p, content)
	if contentJump.Kind != OpJump {
		t.Fatalf("content terminal = %+v, want jump", contentJump)
	}
	endCap := contentJump.Target
	if p.Blocks[endCap].Ops[0].Kind != OpEndCapture || p.Blocks[endCap].Ops[0].Group != 0 {
		t.Fatalf("end_cap block = %+v, want end_capture(0)", p.Blocks[endCap].Ops)
	}
}

func TestCompileAlternationSplitsAndRejoins(t *testing.T) {
	p := compile(t, "a|b")
	split := p.Blocks[0].Ops[0]
	if split.Kind != OpSplit {
		t.Fatalf("block0 op0 = %+v, want split", split)
	}
	leftTerm := lastOp(p, split.A)
	rightTerm := lastOp(p, split.B)
	if leftTerm.Kind != OpJump || rightTerm.Kind != OpJump {
		t.Fatalf("left/right terminals = %+v / %+v, want jump/jump", leftTerm, rightTerm)
	}
	if leftTerm.Target != rightTerm.Target {
		t.Errorf("left and right should rejoin at the same next block: %d != %d", leftTerm.Target, rightTerm.Target)
	}
}

func TestCompileOneOrMoreGreedy(t *testing.T) {
	p := compile(t, "a+")
	jump := p.Blocks[0].Ops[0]
	if jump.Kind != OpJump {
		t.Fatalf("block0 op0 = %+v, want jump", jump)
	}
	content := jump.Target
	if p.Blocks[content].Ops[0].Kind != OpChar {
		t.Fatalf("content = %+v, want char(a)", p.Blocks[content].Ops)
	}
	loopJump := lastOp(p, content)
	loop := loopJump.Target
	split := lastOp(p, loop)
	if split.Kind != OpSplit || split.A != content {
		t.Fatalf("loop split = %+v, want split(content, next) with A=content", split)
	}
}

func TestCompileOneOrMoreLazy(t *testing.T) {
	p := compile(t, "a+?")
	content := p.Blocks[0].Ops[0].Target
	loop := lastOp(p, content).Target
	split := lastOp(p, loop)
	if split.Kind != OpSplit || split.B != content {
		t.Fatalf("loop split = %+v, want split(next, content) with B=content", split)
	}
}

func TestCompileZeroOrOneGreedy(t *testing.T) {
	p := compile(t, "a?")
	q := p.Blocks[0].Ops[0].Target
	split := p.Blocks[q].Ops[0]
	if split.Kind != OpSplit {
		t.Fatalf("q op = %+v, want split", split)
	}
	if p.Blocks[split.A].Ops[0].Kind != OpChar {
		t.Errorf("greedy arm A = %+v, want content block with char(a)", p.Blocks[split.A].Ops)
	}
}

func TestCompileZeroOrMoreHasProgress(t *testing.T) {
	p := compile(t, "a*")
	q := p.Blocks[0].Ops[0].Target
	ops := p.Blocks[q].Ops
	if ops[0].Kind != OpProgress {
		t.Fatalf("q ops = %+v, want progress first", ops)
	}
	if ops[1].Kind != OpSplit {
		t.Fatalf("q ops = %+v, want split second", ops)
	}
}

func TestCompileZeroOrMoreFreshProgressIDsPerConstruct(t *testing.T) {
	p := compile(t, "a*b*")
	seen := map[int]bool{}
	for _, b := range p.Blocks {
		for _, op := range b.Ops {
			if op.Kind == OpProgress {
				if seen[op.ProgressID] {
					t.Fatalf("duplicate progress id %d", op.ProgressID)
				}
				seen[op.ProgressID] = true
			}
		}
	}
	if len(seen) != 2 {
		t.Fatalf("got %d distinct progress ids, want 2", len(seen))
	}
}

func TestCompileEmptyGroupFallsThrough(t *testing.T) {
	// An empty group has no atom content: its content block is a single
	// jump straight to end_capture, and jump coalescing routes the
	// group's entry jump past that relay onto end_capture itself.
	p := compile(t, "()")
	endCapIdx := p.Blocks[0].Ops[1].Target
	endCap := p.Blocks[endCapIdx].Ops[0]
	if endCap.Kind != OpEndCapture {
		t.Fatalf("entry jump target first op = %+v, want end_capture", endCap)
	}
	// compileGroup creates the content block immediately before end_cap.
	contentOps := p.Blocks[endCapIdx-1].Ops
	if len(contentOps) != 1 || contentOps[0].Kind != OpJump || contentOps[0].Target != endCapIdx {
		t.Fatalf("content block = %+v, want a single jump straight to end_capture", contentOps)
	}
}

func TestCompileJumpCoalescingSkipsDeadHops(t *testing.T) {
	// A quantified group ("(a)?") produces a pure jump(q) entry block
	// and a pure jump(next) relay closing the group, both bare
	// single-jump blocks that coalescing should route every live
	// reference around.
	p := compile(t, "(a)?")
	isBareJump := func(i int) bool {
		ops := p.Blocks[i].Ops
		return len(ops) == 1 && ops[0].Kind == OpJump
	}
	for _, b := range p.Blocks {
		for _, op := range b.Ops {
			switch op.Kind {
			case OpJump:
				if isBareJump(op.Target) {
					t.Errorf("jump target %d is itself a bare relay, coalescing should have skipped it", op.Target)
				}
			case OpSplit:
				if isBareJump(op.A) || isBareJump(op.B) {
					t.Errorf("split targets (%d,%d) should not be bare relays", op.A, op.B)
				}
			}
		}
	}
}
