package tcs

import (
	"errors"
	"fmt"
)

// ErrorKind classifies errors reported by the lexer, parser and interpreter.
type ErrorKind int

const (
	ErrorInvalidToken ErrorKind = iota
	ErrorUnexpectedToken
	ErrorSyntax
	ErrorThisCannotBeCalled
	ErrorThisIsNotAssignable
	ErrorInvalidIterationCount
	ErrorInvalidForStart
	ErrorInvalidForEnd
	ErrorInvalidForStep
	ErrorRuntime
	ErrorType
	ErrorInterrupted
)

var errorKindNames = map[ErrorKind]string{
	ErrorInvalidToken:          "InvalidToken",
	ErrorUnexpectedToken:       "UnexpectedToken",
	ErrorSyntax:                "SyntaxError",
	ErrorThisCannotBeCalled:    "ThisCannotBeCalled",
	ErrorThisIsNotAssignable:   "ThisIsNotAssignable",
	ErrorInvalidIterationCount: "InvalidIterationCount",
	ErrorInvalidForStart:       "InvalidForStart",
	ErrorInvalidForEnd:         "InvalidForEnd",
	ErrorInvalidForStep:        "InvalidForStep",
	ErrorRuntime:               "RuntimeError",
	ErrorType:                  "TypeError",
	ErrorInterrupted:           "Interrupted",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a spanned error produced while lexing, parsing or evaluating a
// program. Runtime failures carry the underlying RuntimeError.
type Error struct {
	Kind ErrorKind
	Span Span
	// Detail is the rendered offending value (ThisCannotBeCalled), the
	// expectation message (UnexpectedToken, SyntaxError) or the operand
	// description (TypeError).
	Detail string
	// Token is set for UnexpectedToken errors.
	Token   *Token
	Runtime *RuntimeError
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrorInvalidToken:
		return "invalid token"
	case ErrorUnexpectedToken:
		if e.Token != nil {
			if e.Detail != "" {
				return fmt.Sprintf("unexpected token %s, %s", e.Token, e.Detail)
			}
			return fmt.Sprintf("unexpected token %s", e.Token)
		}
		return "unexpected token"
	case ErrorSyntax:
		return "syntax error: " + e.Detail
	case ErrorThisCannotBeCalled:
		return fmt.Sprintf("this cannot be called: %s", e.Detail)
	case ErrorThisIsNotAssignable:
		return "this is not assignable"
	case ErrorInvalidIterationCount:
		return "invalid iteration count"
	case ErrorInvalidForStart:
		return "invalid for loop start"
	case ErrorInvalidForEnd:
		return "invalid for loop end"
	case ErrorInvalidForStep:
		return "invalid for loop step"
	case ErrorRuntime:
		if e.Runtime != nil {
			return e.Runtime.Error()
		}
		return "runtime error"
	case ErrorType:
		return "type error: " + e.Detail
	case ErrorInterrupted:
		return "interrupted"
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	if e.Runtime == nil {
		return nil
	}
	return e.Runtime
}

// IsInterrupted reports whether err is the cooperative cancellation error.
// Hosts suppress it instead of showing it to the user.
func IsInterrupted(err error) bool {
	var spanned *Error
	return errors.As(err, &spanned) && spanned.Kind == ErrorInterrupted
}

// Interrupted returns the cancellation error for native functions that notice
// cancellation while blocked. The interpreter fills in the call's span.
func Interrupted() *Error {
	return &Error{Kind: ErrorInterrupted}
}

func newError(kind ErrorKind, span Span) *Error {
	return &Error{Kind: kind, Span: span}
}

func newRuntimeError(rt *RuntimeError, span Span) *Error {
	return &Error{Kind: ErrorRuntime, Span: span, Runtime: rt}
}

// RuntimeErrorKind classifies failures raised while evaluating expressions or
// inside native functions.
type RuntimeErrorKind int

const (
	RuntimeInvalidArgCount RuntimeErrorKind = iota
	RuntimeInvalidArgType
	RuntimeInvalidIdentifier
	RuntimeTypeParseError
	RuntimeTypeParseUnsupported
	RuntimeTypeHashUnsupported
	RuntimeTypeError
	RuntimeInvalidBlock
	RuntimeNativeLibraryError
	RuntimeMethodCalledAsFunction
	RuntimeMissingParam
	RuntimeRecursionLimitExceeded
)

// RuntimeError is the error type native functions return. Build values with
// the constructor helpers (ErrInvalidArgCount and friends).
type RuntimeError struct {
	Kind RuntimeErrorKind
	// Found and Expected are argument counts for InvalidArgCount; Expected is
	// the argument position for InvalidArgType.
	Found    int
	Expected int
	// Name is the identifier, parameter or target type involved.
	Name string
	// Source names the offending value or type.
	Source  string
	Message string
}

func (e *RuntimeError) Error() string {
	switch e.Kind {
	case RuntimeInvalidArgCount:
		return fmt.Sprintf("invalid argument count: got %d, expected %d", e.Found, e.Expected)
	case RuntimeInvalidArgType:
		return fmt.Sprintf("invalid type of argument %d", e.Expected)
	case RuntimeInvalidIdentifier:
		return fmt.Sprintf("unknown identifier %q", e.Name)
	case RuntimeTypeParseError:
		return fmt.Sprintf("cannot parse %q as %s", e.Source, e.Name)
	case RuntimeTypeParseUnsupported:
		return fmt.Sprintf("cannot convert %s to %s", e.Source, e.Name)
	case RuntimeTypeHashUnsupported:
		return fmt.Sprintf("%s cannot be used as an object key", e.Source)
	case RuntimeTypeError:
		return "type error"
	case RuntimeInvalidBlock:
		return fmt.Sprintf("invalid block %q", e.Name)
	case RuntimeNativeLibraryError:
		return e.Message
	case RuntimeMethodCalledAsFunction:
		return "method called as a function"
	case RuntimeMissingParam:
		return fmt.Sprintf("missing parameter %q", e.Name)
	case RuntimeRecursionLimitExceeded:
		return fmt.Sprintf("recursion depth exceeded (limit %d)", e.Expected)
	}
	return "runtime error"
}

func ErrInvalidArgCount(found, expected int) *RuntimeError {
	return &RuntimeError{Kind: RuntimeInvalidArgCount, Found: found, Expected: expected}
}

func ErrInvalidArgType(position int) *RuntimeError {
	return &RuntimeError{Kind: RuntimeInvalidArgType, Expected: position}
}

func ErrInvalidIdentifier(name string) *RuntimeError {
	return &RuntimeError{Kind: RuntimeInvalidIdentifier, Name: name}
}

func ErrTypeParse(source, target string) *RuntimeError {
	return &RuntimeError{Kind: RuntimeTypeParseError, Source: source, Name: target}
}

func ErrTypeParseUnsupported(sourceType, target string) *RuntimeError {
	return &RuntimeError{Kind: RuntimeTypeParseUnsupported, Source: sourceType, Name: target}
}

func ErrTypeHashUnsupported(sourceType string) *RuntimeError {
	return &RuntimeError{Kind: RuntimeTypeHashUnsupported, Source: sourceType}
}

// ErrTypeError is the generic conversion failure returned by the narrowing
// accessors on Value.
func ErrTypeError() *RuntimeError {
	return &RuntimeError{Kind: RuntimeTypeError}
}

func ErrInvalidBlock(name string) *RuntimeError {
	return &RuntimeError{Kind: RuntimeInvalidBlock, Name: name}
}

func ErrNativeLibrary(format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: RuntimeNativeLibraryError, Message: fmt.Sprintf(format, args...)}
}

func ErrMethodCalledAsFunction() *RuntimeError {
	return &RuntimeError{Kind: RuntimeMethodCalledAsFunction}
}

func ErrMissingParam(name string) *RuntimeError {
	return &RuntimeError{Kind: RuntimeMissingParam, Name: name}
}
