package symbols

import (
	"arrowc/internal/ast"
	"arrowc/internal/source"
)

type BindingID uint32

const NoBindingID BindingID = 0

type BindingKind uint8

const (
	BindInvalid BindingKind = iota
	BindParam
	BindLocal
	BindField     // instance field, reached through this
	BindMethod    // instance method, reached through this
	BindFunc      // top-level function
	BindClass     // class name, for new
	BindIntrinsic // print, Math, ...
)

func (k BindingKind) String() string {
	switch k {
	case BindParam:
		return "param"
	case BindLocal:
		return "local"
	case BindField:
		return "field"
	case BindMethod:
		return "method"
	case BindFunc:
		return "func"
	case BindClass:
		return "class"
	case BindIntrinsic:
		return "intrinsic"
	default:
		return "invalid"
	}
}

// IsVariable reports bindings that live in a function frame and can be
// captured by a literal.
func (k BindingKind) IsVariable() bool {
	return k == BindParam || k == BindLocal
}

// IsInstance reports bindings reached through the enclosing instance.
func (k BindingKind) IsInstance() bool {
	return k == BindField || k == BindMethod
}

// Site is one occurrence of a binding that matters for capture
// classification.
type Site struct {
	Expr ast.ExprID
	Span source.Span
	// Owner is the function the occurrence sits in.
	Owner ast.ExprID
	// Literal is, for capture sites, the outermost literal inside the
	// declaring function that contains the reference; Span is its span.
	Literal ast.ExprID
	// Loops enclosing the site inside the declaring function, outermost first.
	Loops []ast.StmtID
}

// Binding is one declared name.
type Binding struct {
	ID      BindingID
	Name    string
	Kind    BindingKind
	Mutable bool
	Decl    source.Span
	Type    ast.TypeID // declared annotation, NoTypeID if omitted
	Init    ast.ExprID // initializer of a local declaration
	Owner   ast.ExprID // declaring function (literal or NoExprID for the member)
	Scope   ScopeID
	// Loops enclosing the declaration inside its function. A for-statement
	// header declaration is outside its own loop.
	Loops []ast.StmtID
	// Pattern is set for names bound by a destructuring parameter.
	Pattern ast.PatternID
	Writes   []Site
	Captures []Site
}

// Captured reports whether any literal closes over the binding.
func (b *Binding) Captured() bool { return len(b.Captures) > 0 }
