package interpreter

import (
	"fmt"

	"slpy/interpreter-go/pkg/ast"
)

// RuntimeError is any fault raised while executing a program: a division by
// zero, a failed conversion, a read from a name that was never bound.
type RuntimeError struct {
	Span    ast.Span
	Message string
}

func (e *RuntimeError) Error() string {
	if e.Span.File == "" && e.Span.Start.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Span.File, e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

func runtimeErrorAt(span ast.Span, format string, args ...any) *RuntimeError {
	return &RuntimeError{Span: span, Message: fmt.Sprintf(format, args...)}
}

func divisionByZero(span ast.Span) *RuntimeError {
	return runtimeErrorAt(span, "division by zero")
}

func conversionFailure(span ast.Span, text string) *RuntimeError {
	return runtimeErrorAt(span, "cannot convert %q to an int", text)
}

func inputFailure(span ast.Span, cause error) *RuntimeError {
	return runtimeErrorAt(span, "failed to read input: %v", cause)
}
