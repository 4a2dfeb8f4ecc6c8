package typechecker

import (
	"fmt"

	"slpy/interpreter-go/pkg/ast"
)

// CheckError reports the first static violation found. Checking stops
// immediately; there is no recovery or multi-error reporting.
type CheckError struct {
	Span    ast.Span
	Message string
}

func (e *CheckError) Error() string {
	if e.Span.File == "" && e.Span.Start.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Span.File, e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

func errorAt(span ast.Span, format string, args ...any) *CheckError {
	return &CheckError{Span: span, Message: fmt.Sprintf(format, args...)}
}
