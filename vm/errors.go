package vm

import (
	"errors"
	"fmt"

	"github.com/chazu/kaffee/pkg/bytecode"
)

// Errors raised while interpreting a method. They are returned wrapped in a
// *RuntimeError that records where execution stopped.
var (
	ErrEmptyStack             = errors.New("empty stack")
	ErrWrongStackType         = errors.New("wrong stack type")
	ErrWrongSlotType          = errors.New("wrong slot type")
	ErrSlotOutOfRange         = errors.New("slot out of range")
	ErrUndefinedSlot          = errors.New("undefined slot")
	ErrConstantOutOfRange     = errors.New("constant index out of range")
	ErrUnresolvedReference    = errors.New("unresolved symbolic reference")
	ErrClassNotFound          = errors.New("class not found")
	ErrMethodNotFound         = errors.New("method not found")
	ErrUnsupportedInstruction = errors.New("unsupported instruction")
	ErrReturnTypeMismatch     = errors.New("return value does not match declared type")
	ErrDivisionByZero         = errors.New("division by zero")
	ErrCallDepthExceeded      = errors.New("call depth exceeded")
	ErrInvalidCode            = errors.New("invalid method code")
)

// ErrNoMainMethod is reported when the entry class has no main method. It is
// a user-facing condition, not an interpreter failure.
var ErrNoMainMethod = errors.New("no main method")

// RuntimeError locates an interpreter failure. PC is the instruction index
// and is -1 for failures raised before the first instruction or after the
// last one.
type RuntimeError struct {
	Class  string
	Method string
	PC     int
	Op     bytecode.Opcode
	Err    error
}

func (e *RuntimeError) Error() string {
	if e.PC < 0 {
		return fmt.Sprintf("%s.%s: %v", e.Class, e.Method, e.Err)
	}
	return fmt.Sprintf("%s.%s at pc %d (%s): %v", e.Class, e.Method, e.PC, e.Op, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// wrongType builds a type error that names the expected tag.
func wrongType(sentinel error, want Kind, got Value) error {
	return fmt.Errorf("%w: expected %s, found %s", sentinel, want, got)
}
