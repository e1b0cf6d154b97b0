package syntax

import (
	"errors"
	"fmt"
)

// Parse error kinds. A *ParseError wraps exactly one of these, so
// callers can branch with errors.Is while still getting a position.
var (
	// ErrUnknownFlag indicates an unrecognized letter in %flags.
	ErrUnknownFlag = errors.New("unknown flag letter")

	// ErrUnterminatedGroup indicates a group with no closing ')'.
	ErrUnterminatedGroup = errors.New("unterminated group")

	// ErrUnterminatedClass indicates a class with no closing ']'.
	ErrUnterminatedClass = errors.New("unterminated character class")

	// ErrUnterminatedLook indicates a lookaround with no closing ')'.
	ErrUnterminatedLook = errors.New("unterminated lookaround")

	// ErrUnterminatedName indicates a group name or named backreference
	// with no closing '>'.
	ErrUnterminatedName = errors.New("unterminated group name")

	// ErrBadEscape indicates a malformed escape sequence.
	ErrBadEscape = errors.New("malformed escape")

	// ErrBadQuantifier indicates a malformed {n,m} quantifier: missing
	// its closing brace, or a repeat count above the 65535 ceiling.
	ErrBadQuantifier = errors.New("malformed quantifier")

	// ErrQuantifierBounds indicates an explicit {n,m} with n > m.
	ErrQuantifierBounds = errors.New("quantifier minimum exceeds maximum")

	// ErrNothingToRepeat indicates a quantifier with no preceding atom.
	ErrNothingToRepeat = errors.New("nothing to repeat")

	// ErrQuantifiedAnchor indicates a quantifier applied to an anchor.
	ErrQuantifiedAnchor = errors.New("cannot quantify an anchor")

	// ErrDuplicateName indicates a reused capture group name.
	ErrDuplicateName = errors.New("duplicate group name")

	// ErrInvalidRange indicates a class range whose start code point is
	// greater than its end.
	ErrInvalidRange = errors.New("character class range out of order")

	// ErrDanglingBackreference indicates a backreference to a group that
	// does not exist (by index or by name).
	ErrDanglingBackreference = errors.New("backreference to undefined group")

	// ErrUnmatchedParen indicates a ')' with no open group.
	ErrUnmatchedParen = errors.New("unmatched ')'")

	// ErrEmptyBranch indicates an alternation with a missing side.
	ErrEmptyBranch = errors.New("alternation branch is empty")
)

// ParseError is a syntax or local semantic error in DSL source,
// pointing at the byte offset in the source where it was detected.
// Offsets count from the start of the full source text, including any
// %flags directive line.
type ParseError struct {
	Err    error  // one of the sentinel kinds above
	Pos    int    // byte offset into the source
	Detail string // optional extra context (offending name, letter, ...)
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("strling: parse error at %d: %v: %s", e.Pos, e.Err, e.Detail)
	}
	return fmt.Sprintf("strling: parse error at %d: %v", e.Pos, e.Err)
}

// Unwrap returns the error kind for errors.Is.
func (e *ParseError) Unwrap() error {
	return e.Err
}
