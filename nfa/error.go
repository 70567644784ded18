// Package nfa compiles regex patterns into Thompson NFA programs and runs
// them with a PikeVM (lock-step breadth-first simulation with capture
// tracking).
//
// A compiled Program is a flat instruction list: literal codepoints,
// character classes, the any-codepoint wildcard, split (branch) points,
// capture-slot saves, and a single trailing match instruction. Compilation
// goes pattern -> token stream -> postfix (shunting yard) -> instruction
// list; see Compile.
package nfa

import (
	"errors"
	"fmt"
)

// Common compilation and execution errors
var (
	// ErrInvalidPattern indicates the regex pattern is malformed
	ErrInvalidPattern = errors.New("invalid regex pattern")

	// ErrInternal indicates a compiler or VM invariant was violated
	ErrInternal = errors.New("internal regex engine error")
)

// ParseError wraps pattern errors with position context. The position is a
// byte offset into the processed pattern stream, so it is approximate for
// errors detected after operator reordering.
type ParseError struct {
	Pattern string
	Pos     int
	Msg     string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("invalid pattern %q at offset %d: %s", e.Pattern, e.Pos, e.Msg)
	}
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Msg)
}

// Unwrap returns ErrInvalidPattern so errors.Is works on the sentinel.
func (e *ParseError) Unwrap() error {
	return ErrInvalidPattern
}

func parseErr(pattern []byte, pos int, format string, args ...any) error {
	return &ParseError{Pattern: string(pattern), Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
