package btre

import (
	"bytes"
	"strings"
	"testing"
)

func TestDebugConfigTracesASTAndBlocks(t *testing.T) {
	var buf bytes.Buffer
	dbg := DebugConfig{TraceAST: true, TraceBlocks: true, Writer: &buf}

	re, err := CompileWithDebug("a+", DefaultConfig(), dbg)
	if err != nil {
		t.Fatal(err)
	}
	if re == nil {
		t.Fatal("CompileWithDebug returned nil Regex")
	}

	out := buf.String()
	if !strings.Contains(out, "AST:") {
		t.Errorf("trace output missing AST dump: %q", out)
	}
	if !strings.Contains(out, "Blocks:") {
		t.Errorf("trace output missing block dump: %q", out)
	}
}

func TestDebugConfigTracesExecSteps(t *testing.T) {
	var buf bytes.Buffer
	dbg := DebugConfig{TraceExec: true, Writer: &buf}

	re, err := CompileWithDebug("a+", DefaultConfig(), dbg)
	if err != nil {
		t.Fatal(err)
	}
	re.MatchString("aaa")

	if !strings.Contains(buf.String(), "exec:") {
		t.Error("expected execution trace output, got none")
	}
}

func TestDebugConfigDisabledProducesNoOutput(t *testing.T) {
	var buf bytes.Buffer
	dbg := DebugConfig{Writer: &buf}

	re, err := CompileWithDebug("a+", DefaultConfig(), dbg)
	if err != nil {
		t.Fatal(err)
	}
	re.MatchString("aaa")

	if buf.Len() != 0 {
		t.Errorf("expected no trace output, got %q", buf.String())
	}
}
