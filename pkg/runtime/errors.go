package runtime

import (
	"errors"
	"fmt"
)

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	UnknownIdentifier ErrorKind = iota + 1
	UnknownFunction
	UnknownType
	UnsupportedExpression
	InvalidArgument
	ArgumentCountMismatch
	UnsupportedAssignment
	DivisionByZero
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownIdentifier:
		return "unknown identifier"
	case UnknownFunction:
		return "unknown function"
	case UnknownType:
		return "unknown type"
	case UnsupportedExpression:
		return "unsupported expression"
	case InvalidArgument:
		return "invalid argument"
	case ArgumentCountMismatch:
		return "argument count mismatch"
	case UnsupportedAssignment:
		return "unsupported assignment"
	case DivisionByZero:
		return "division by zero"
	default:
		return fmt.Sprintf("error_kind_%d", int(k))
	}
}

// Error is a recoverable evaluation failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is matches any *Error of the same kind, so errors.Is(err,
// ErrDivisionByZero) works on wrapped errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Errorf builds an *Error of the given kind.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrUnknownIdentifier     = &Error{Kind: UnknownIdentifier}
	ErrUnknownFunction       = &Error{Kind: UnknownFunction}
	ErrUnknownType           = &Error{Kind: UnknownType}
	ErrUnsupportedExpression = &Error{Kind: UnsupportedExpression}
	ErrInvalidArgument       = &Error{Kind: InvalidArgument}
	ErrArgumentCountMismatch = &Error{Kind: ArgumentCountMismatch}
	ErrUnsupportedAssignment = &Error{Kind: UnsupportedAssignment}
	ErrDivisionByZero        = &Error{Kind: DivisionByZero}
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
