// Package vmerr implements the error taxonomy of §7: a fixed set of failure
// kinds, surfaced to the host as a single error type rather than as a grab
// bag of ad-hoc strings.
package vmerr

import (
	"fmt"

	"go.uber.org/multierr"
)

// Kind enumerates the taxonomy of §7. Kinds are a classification, not
// exported types — callers switch on Error.Kind(), not on Go types.
type Kind uint8

const (
	Io Kind = iota
	InvalidBytecode
	Runtime
	TypeError
	MemoryError
	StackOverflow
	StackUnderflow
	UndefinedVariable
	UndefinedFunction
	DivisionByZero
	InvalidInstruction
	Serialization
	Deserialization
)

func (k Kind) String() string {
	switch k {
	case Io:
		return "Io"
	case InvalidBytecode:
		return "InvalidBytecode"
	case Runtime:
		return "Runtime"
	case TypeError:
		return "TypeError"
	case MemoryError:
		return "MemoryError"
	case StackOverflow:
		return "StackOverflow"
	case StackUnderflow:
		return "StackUnderflow"
	case UndefinedVariable:
		return "UndefinedVariable"
	case UndefinedFunction:
		return "UndefinedFunction"
	case DivisionByZero:
		return "DivisionByZero"
	case InvalidInstruction:
		return "InvalidInstruction"
	case Serialization:
		return "Serialization"
	case Deserialization:
		return "Deserialization"
	default:
		return "Unknown"
	}
}

// Error is the single error type the engine, heap, and bytecode loader
// return. Offset is only meaningful for InvalidInstruction; it is the
// instruction pointer at which the failure occurred.
type Error struct {
	kind    Kind
	message string
	offset  int
	cause   error
}

// New constructs an Error of the given kind with a message.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Newf constructs an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// NewAt constructs an InvalidInstruction error carrying the offending
// instruction pointer, per §7's InvalidInstruction(offset, detail).
func NewAt(offset int, detail string) *Error {
	return &Error{kind: InvalidInstruction, message: detail, offset: offset}
}

// Wrap attaches a single cause to an Error of the given kind, exposed via
// Unwrap. Combine builds on it to attach several causes at once.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{kind: kind, message: message, cause: cause}
}

// Kind reports the failure's taxonomy classification.
func (e *Error) Kind() Kind { return e.kind }

// Offset reports the instruction pointer for an InvalidInstruction error,
// or -1 for any other kind.
func (e *Error) Offset() int {
	if e.kind != InvalidInstruction {
		return -1
	}
	return e.offset
}

// Error implements the error interface. Nil-safe, matching the teacher's
// runtime.Error.Error() so that formatting through an interface never
// panics.
func (e *Error) Error() string {
	if e == nil {
		return "vm error: unknown"
	}
	if e.kind == InvalidInstruction {
		return fmt.Sprintf("%s at offset %d: %s", e.kind, e.offset, e.message)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.kind, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Combine merges zero or more errors into a single Error of the given kind
// via multierr, or returns nil if every argument is nil. Used by the
// bytecode loader, with InvalidBytecode, when both the binary and textual
// decode attempts fail and when a program fails validation.
func Combine(kind Kind, message string, errs ...error) *Error {
	combined := multierr.Combine(errs...)
	if combined == nil {
		return nil
	}
	return Wrap(kind, message, combined)
}
