package symbols

import (
	"fortio.org/safecast"

	"arrowc/internal/ast"
)

// Table is the result of resolving one member body.
type Table struct {
	Builder  *ast.Builder
	Bindings []Binding // index 0 is reserved
	Scopes   []Scope   // index 0 is reserved

	// Refs maps every resolved identifier expression to its binding.
	Refs map[ast.ExprID]BindingID
	// SelfRefs are references to a binding from inside the literal that
	// directly initializes it.
	SelfRefs map[ast.ExprID]BindingID
	// InvalidSelf are references to a binding from a literal nested in its
	// initializer that is not the binding's direct initializer.
	InvalidSelf []ast.ExprID
	// Unresolved are unknown names met inside literals.
	Unresolved []ast.ExprID

	Literals   []ast.ExprID // pre-order
	LitParent  map[ast.ExprID]ast.ExprID
	LitScope   map[ast.ExprID]ScopeID
	LitSelf    map[ast.ExprID]BindingID // literal -> the binding it calls itself by
	LitBinding map[ast.ExprID]BindingID // literal -> binding it directly initializes

	Decls    map[ast.StmtID]BindingID     // declaration and for-of statements
	Params   map[ast.ExprID][]BindingID   // by owner; NoBindingID for pattern parameters
	Patterns map[ast.PatternID][]BindingID // NoBindingID for holes

	MemberScope ScopeID
}

func newTable(b *ast.Builder) *Table {
	return &Table{
		Builder:    b,
		Bindings:   make([]Binding, 1, 32),
		Scopes:     make([]Scope, 1, 16),
		Refs:       make(map[ast.ExprID]BindingID),
		SelfRefs:   make(map[ast.ExprID]BindingID),
		LitParent:  make(map[ast.ExprID]ast.ExprID),
		LitScope:   make(map[ast.ExprID]ScopeID),
		LitSelf:    make(map[ast.ExprID]BindingID),
		LitBinding: make(map[ast.ExprID]BindingID),
		Decls:      make(map[ast.StmtID]BindingID),
		Params:     make(map[ast.ExprID][]BindingID),
		Patterns:   make(map[ast.PatternID][]BindingID),
	}
}

func (t *Table) Binding(id BindingID) *Binding {
	if id == NoBindingID || int(id) >= len(t.Bindings) {
		return nil
	}
	return &t.Bindings[id]
}

func (t *Table) Scope(id ScopeID) *Scope {
	if id == NoScopeID || int(id) >= len(t.Scopes) {
		return nil
	}
	return &t.Scopes[id]
}

// Ref returns the binding an identifier expression resolved to.
func (t *Table) Ref(expr ast.ExprID) *Binding {
	return t.Binding(t.Refs[expr])
}

// Encloses reports whether function inner is outer or nested inside it.
// ast.NoExprID stands for the member body, which encloses everything.
func (t *Table) Encloses(outer, inner ast.ExprID) bool {
	for {
		if inner == outer {
			return true
		}
		if !inner.IsValid() {
			return false
		}
		inner = t.LitParent[inner]
	}
}

// Chain returns the scopes visible from inside literal lit, innermost first,
// excluding the literal's own parameter scope.
func (t *Table) Chain(lit ast.ExprID) []ScopeID {
	var out []ScopeID
	sc := t.Scope(t.LitScope[lit])
	if sc == nil {
		return nil
	}
	for id := sc.Parent; id != NoScopeID; id = t.Scopes[id].Parent {
		out = append(out, id)
	}
	return out
}

// Depth returns the literal nesting depth of fn (0 for the member body).
func (t *Table) Depth(fn ast.ExprID) int {
	d := 0
	for fn.IsValid() {
		d++
		fn = t.LitParent[fn]
	}
	return d
}

func (t *Table) newBinding(b Binding) BindingID {
	id := BindingID(safecast.MustConv[uint32](len(t.Bindings)))
	b.ID = id
	t.Bindings = append(t.Bindings, b)
	return id
}

func (t *Table) newScope(s Scope) ScopeID {
	id := ScopeID(safecast.MustConv[uint32](len(t.Scopes)))
	t.Scopes = append(t.Scopes, s)
	return id
}
