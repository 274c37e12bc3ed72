package ast

import (
	"errors"
	"fmt"

	"github.com/btre/btre/token"
)

// ErrOutOfBounds indicates the token stream was exhausted while a
// group or class was still open (an unterminated `(` or `[`).
var ErrOutOfBounds = errors.New("ast: token stream exhausted with an unclosed group or class")

// ErrInvalidRange indicates a character class range `a-b` where b < a.
var ErrInvalidRange = errors.New("ast: invalid range, end byte precedes start byte")

// ErrUnexpectedToken is the cause wrapped by a ParseError raised for a
// malformed or misplaced token: a stray quantifier, an unmatched `]`
// or `)`, an empty character class.
var ErrUnexpectedToken = errors.New("ast: unexpected token")

// ErrUnterminatedEscape re-exports the tokenizer's sentinel so callers
// of ast.Parse never need to import the token package to recognize it.
var ErrUnterminatedEscape = token.ErrUnterminatedEscape

// ParseError reports a structural problem encountered while parsing a
// pattern, wrapping the sentinel it was raised for (ErrOutOfBounds,
// ErrInvalidRange, or ErrUnexpectedToken) so errors.Is(err,
// ErrInvalidRange) and similar checks still see through Msg's added
// context.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ast: parse error: %s", e.Msg)
}

// Unwrap returns the sentinel ParseError was raised for.
func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErrorf(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Err: ErrUnexpectedToken}
}

// wrapParseError reports cause with msg as the human-readable context,
// for sites that raise a sentinel other than ErrUnexpectedToken.
func wrapParseError(msg string, cause error) error {
	return &ParseError{Msg: msg, Err: cause}
}
