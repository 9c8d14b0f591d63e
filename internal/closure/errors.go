package closure

import (
	"errors"
	"fmt"

	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/source"
)

var (
	// ErrFailed is wrapped by CompileUnit when any error was reported.
	ErrFailed = errors.New("compilation failed")
	// ErrNoMember is returned by CompileLiteral outside a member.
	ErrNoMember = errors.New("closure: no member is being compiled")
	// ErrNotLiteral is returned by CompileLiteral for other expressions.
	ErrNotLiteral = errors.New("closure: expression is not a function literal")
)

// CompileError is the failure of one function literal.
type CompileError struct {
	Literal ast.ExprID
	Span    source.Span
	Stage   Stage
	diags   []diag.Diagnostic
}

func (e *CompileError) Error() string {
	n := len(e.diags)
	if n == 0 {
		return fmt.Sprintf("function literal failed after %s", e.Stage)
	}
	first := e.diags[0]
	if n == 1 {
		return fmt.Sprintf("%s: %s", first.Code.ID(), first.Message)
	}
	return fmt.Sprintf("%s: %s (and %d more)", first.Code.ID(), first.Message, n-1)
}

// Diagnostics returns the errors reported inside the literal.
func (e *CompileError) Diagnostics() []diag.Diagnostic { return e.diags }

// Codes lists the diagnostic codes in report order.
func (e *CompileError) Codes() []diag.Code {
	out := make([]diag.Code, len(e.diags))
	for i, d := range e.diags {
		out[i] = d.Code
	}
	return out
}
