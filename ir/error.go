package ir

import (
	"errors"
	"fmt"
)

// Compile error kinds. The parser already rejects these shapes, but the
// compiler re-validates the whole tree so hand-built ASTs get the same
// guarantees.
var (
	// ErrDuplicateName indicates two capturing groups share a name.
	ErrDuplicateName = errors.New("duplicate group name")

	// ErrDanglingBackreference indicates a backreference whose target
	// group does not exist or is not capturing.
	ErrDanglingBackreference = errors.New("backreference to undefined group")

	// ErrInvalidRange indicates a class range with start > end.
	ErrInvalidRange = errors.New("character class range out of order")

	// ErrQuantifierBounds indicates a quantifier with min < 0 or
	// min > max.
	ErrQuantifierBounds = errors.New("invalid quantifier bounds")

	// ErrUnknownNode indicates an AST node type this compiler does not
	// know. Only possible with a foreign Node implementation.
	ErrUnknownNode = errors.New("unknown AST node")
)

// CompileError is a whole-tree semantic error found during lowering.
type CompileError struct {
	Err    error  // one of the sentinel kinds above
	Detail string // offending name, range, bounds, ...
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("strling: compile error: %v: %s", e.Err, e.Detail)
	}
	return fmt.Sprintf("strling: compile error: %v", e.Err)
}

// Unwrap returns the error kind for errors.Is.
func (e *CompileError) Unwrap() error {
	return e.Err
}
