package btre

import "github.com/btre/btre/ast"

// Sentinel errors surfaced to callers of Compile/CompileWithConfig.
// Each re-exports the ast package's value so errors.Is works without
// callers needing to import ast directly.
var (
	ErrUnterminatedEscape = ast.ErrUnterminatedEscape
	ErrOutOfBounds        = ast.ErrOutOfBounds
	ErrInvalidRange       = ast.ErrInvalidRange
)

// ParseError reports a structural problem in a pattern (an unexpected
// or misplaced token).
type ParseError = ast.ParseError
