package evaluator

import (
	"fmt"

	"github.com/cwbudde/skillet/internal/errutil"
	"github.com/cwbudde/skillet/internal/token"
)

// Kind identifies the category of an evaluation failure, per spec.md §4.3's
// failure model.
type Kind int

const (
	ParseError Kind = iota
	UnknownIdentifier
	UnknownFunction
	ArityMismatch
	TypeError
	IndexOutOfBounds
	DivideByZero
	InvalidCast
	JsonPathError
	AssignmentToNonVariable
	Overflow
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case UnknownIdentifier:
		return "UnknownIdentifier"
	case UnknownFunction:
		return "UnknownFunction"
	case ArityMismatch:
		return "ArityMismatch"
	case TypeError:
		return "TypeError"
	case IndexOutOfBounds:
		return "IndexOutOfBounds"
	case DivideByZero:
		return "DivideByZero"
	case InvalidCast:
		return "InvalidCast"
	case JsonPathError:
		return "JsonPathError"
	case AssignmentToNonVariable:
		return "AssignmentToNonVariable"
	case Overflow:
		return "Overflow"
	default:
		return "Unknown"
	}
}

// Error is the error type produced by the evaluator. It wraps an optional
// source position, adapted from the teacher's internal/errors.CompilerError
// idiom of "compiler diagnostic with source context" narrowed to "runtime
// evaluation error with an error kind enum" — there is no compile phase or
// surrounding source file to print context lines from here.
type Error struct {
	Kind    Kind
	Message string
	Pos     *token.Position
}

func (e *Error) Error() string {
	return errutil.Format(e.Kind.String(), e.Message, e.Pos)
}

// Position implements errutil.PositionedError.
func (e *Error) Position() *token.Position { return e.Pos }

func newErr(kind Kind, pos token.Position, format string, args ...any) *Error {
	p := pos
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: &p}
}
