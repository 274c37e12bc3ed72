package token

import "errors"

// ErrUnterminatedEscape indicates the pattern ends in a bare `\` with no
// following byte to escape.
var ErrUnterminatedEscape = errors.New("token: unterminated escape at end of pattern")
