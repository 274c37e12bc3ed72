package btre

import (
	"fmt"
	"io"
	"os"

	"github.com/btre/btre/ast"
	"github.com/btre/btre/block"
	"github.com/btre/btre/vm"
)

// DebugConfig optionally enables tracing of the three pipeline stages
// that produce and run a compiled Regex: the parsed AST, the lowered
// block graph, and (per match) the VM's executed steps. None of the
// core packages have any logging of their own; this is purely a
// facade-level convenience built on the data they already return.
type DebugConfig struct {
	TraceAST    bool
	TraceBlocks bool
	TraceExec   bool

	// Writer receives trace output. Defaults to os.Stderr if nil.
	Writer io.Writer
}

func (d DebugConfig) writer() io.Writer {
	if d.Writer == nil {
		return os.Stderr
	}
	return d.Writer
}

func (d DebugConfig) dumpTree(tree *ast.Tree) {
	if !d.TraceAST {
		return
	}
	w := d.writer()
	fmt.Fprintf(w, "AST: %d group(s)\n", tree.NumGroups)
	dumpNodeList(w, tree.Arena, tree.Root.NodesIndex, 0)
}

func dumpNodeList(w io.Writer, arena *ast.Arena, listIndex, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	for _, n := range arena.Lists[listIndex] {
		fmt.Fprintf(w, "%s%s\n", indent, describeNode(n))
		switch n.Kind {
		case ast.KindList:
			dumpNodeList(w, arena, n.NodesIndex, depth+1)
		case ast.KindAlternation:
			dumpNodeList(w, arena, n.NodesIndex, depth+1)
			dumpNodeList(w, arena, n.RightIndex, depth+1)
		case ast.KindGroup:
			dumpNodeList(w, arena, n.NodesIndex, depth+1)
		case ast.KindZeroOrOne, ast.KindZeroOrMore, ast.KindOneOrMore:
			fmt.Fprintf(w, "%s  %s\n", indent, describeNode(arena.Orphans[n.OrphanIndex]))
		}
	}
}

func describeNode(n ast.Node) string {
	switch n.Kind {
	case ast.KindLiteral:
		return fmt.Sprintf("literal(%q)", n.Byte)
	case ast.KindRange:
		return fmt.Sprintf("range(%q,%q)", n.Byte, n.ByteB)
	case ast.KindDigit, ast.KindWhitespace, ast.KindWord:
		return fmt.Sprintf("%s(negate=%v)", n.Kind, n.Negate)
	case ast.KindGroup:
		return fmt.Sprintf("group(%d)", n.GroupIndex)
	case ast.KindZeroOrOne, ast.KindZeroOrMore, ast.KindOneOrMore:
		return fmt.Sprintf("%s(greedy=%v)", n.Kind, n.Greedy)
	case ast.KindList:
		return fmt.Sprintf("list(negate=%v)", n.Negate)
	default:
		return n.Kind.String()
	}
}

func (d DebugConfig) dumpProgram(program *block.Program) {
	if !d.TraceBlocks {
		return
	}
	w := d.writer()
	fmt.Fprintf(w, "Blocks: %d, Lists: %d\n", len(program.Blocks), len(program.Lists))
	for i, b := range program.Blocks {
		fmt.Fprintf(w, "block %d:\n", i)
		for _, op := range b.Ops {
			fmt.Fprintf(w, "  %s\n", describeOp(op))
		}
	}
}

func describeOp(op block.Op) string {
	switch op.Kind {
	case block.OpChar:
		return fmt.Sprintf("char(%q)", op.Byte)
	case block.OpRange:
		return fmt.Sprintf("range(%q,%q)", op.Byte, op.ByteB)
	case block.OpList:
		return fmt.Sprintf("list(%d, negate=%v)", op.ListIndex, op.Negate)
	case block.OpStartCapture, block.OpEndCapture:
		return fmt.Sprintf("%s(%d)", op.Kind, op.Group)
	case block.OpJump:
		return fmt.Sprintf("jump(%d)", op.Target)
	case block.OpSplit:
		return fmt.Sprintf("split(%d, %d)", op.A, op.B)
	case block.OpProgress:
		return fmt.Sprintf("progress(%d)", op.ProgressID)
	default:
		return op.Kind.String()
	}
}

// attachTrace wires v's per-op Trace hook to d's writer when TraceExec
// is enabled; otherwise v is left untouched.
func (d DebugConfig) attachTrace(v *vm.VM) {
	if !d.TraceExec {
		return
	}
	w := d.writer()
	v.Trace = func(blockIdx, pc, index int, op block.OpKind) {
		fmt.Fprintf(w, "exec: block=%d pc=%d index=%d op=%s\n", blockIdx, pc, index, op)
	}
}
