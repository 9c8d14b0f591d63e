package symbols

import (
	"arrowc/internal/ast"
	"arrowc/internal/source"
)

type ScopeID uint32

const NoScopeID ScopeID = 0

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeUniverse           // globals: functions, classes, intrinsics
	ScopeMember             // parameters and fields of the member being resolved
	ScopeLiteral            // parameters of a function literal
	ScopeBlock
	ScopeLoop // for-statement header
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeUniverse:
		return "universe"
	case ScopeMember:
		return "member"
	case ScopeLiteral:
		return "literal"
	case ScopeBlock:
		return "block"
	case ScopeLoop:
		return "loop"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope with a parent link.
type Scope struct {
	Kind   ScopeKind
	Parent ScopeID
	// Owner is the function the scope belongs to: the literal, or
	// ast.NoExprID for the member body itself.
	Owner    ast.ExprID
	Span     source.Span
	Names    map[string]BindingID
	Bindings []BindingID
}
