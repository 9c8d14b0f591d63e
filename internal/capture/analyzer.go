package capture

import (
	"slices"

	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/source"
	"arrowc/internal/symbols"
)

// Analyzer computes capture slots for the literals of one member.
type Analyzer struct {
	table      *symbols.Table
	class      *Classification
	reporter   diag.Reporter
	unresolved map[ast.ExprID]bool
	invalid    map[ast.ExprID]bool
}

func NewAnalyzer(t *symbols.Table, c *Classification, r diag.Reporter) *Analyzer {
	if r == nil {
		r = diag.NopReporter{}
	}
	a := &Analyzer{
		table:      t,
		class:      c,
		reporter:   r,
		unresolved: make(map[ast.ExprID]bool, len(t.Unresolved)),
		invalid:    make(map[ast.ExprID]bool, len(t.InvalidSelf)),
	}
	for _, id := range t.Unresolved {
		a.unresolved[id] = true
	}
	for _, id := range t.InvalidSelf {
		a.invalid[id] = true
	}
	return a
}

// Result is the capture analysis of one literal.
type Result struct {
	Slots []Slot
	// Self is the binding the literal calls itself through, if any.
	Self symbols.BindingID
	// Errors counts the diagnostics reported for this literal.
	Errors int
}

// SelfIndex returns the position of the SelfRecursiveRef slot, or -1.
func (r *Result) SelfIndex() int {
	return slices.IndexFunc(r.Slots, func(s Slot) bool { return s.Kind == SelfRecursiveRef })
}

type collector struct {
	a      *Analyzer
	lit    ast.ExprID
	this   bool
	self   bool
	vars   map[symbols.BindingID]Kind
	refs   map[symbols.BindingID]source.Span
	errors int
}

// Analyze returns the ordered slots of literal lit: the enclosing instance
// first, then captured variables in declaration order, then the self slot.
// References made by nested literals count as references of lit.
func (a *Analyzer) Analyze(lit ast.ExprID) Result {
	c := &collector{
		a:    a,
		lit:  lit,
		vars: make(map[symbols.BindingID]Kind),
		refs: make(map[symbols.BindingID]source.Span),
	}
	c.visit(lit, false)

	res := Result{Errors: c.errors}
	t := a.table
	if c.this {
		res.Slots = append(res.Slots, Slot{Name: ThisName, Kind: EnclosingInstanceRef})
	}
	ids := make([]symbols.BindingID, 0, len(c.vars))
	for id := range c.vars {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		b := t.Binding(id)
		res.Slots = append(res.Slots, Slot{Binding: id, Name: b.Name, Kind: c.vars[id], Decl: b.Decl, Ref: c.refs[id]})
	}
	if c.self {
		b := t.Binding(t.LitSelf[lit])
		res.Self = b.ID
		res.Slots = append(res.Slots, Slot{Binding: b.ID, Name: b.Name, Kind: SelfRecursiveRef, Decl: b.Decl, Ref: c.refs[b.ID]})
	}
	return res
}

func (c *collector) visit(fn ast.ExprID, nested bool) {
	b := c.a.table.Builder
	lit := b.FuncLit(fn)
	cb := func(id ast.ExprID, e *ast.Expr) bool {
		if e.Kind == ast.ExprFuncLit && id != fn {
			c.visit(id, true)
			return false
		}
		c.expr(id, e, nested)
		return true
	}
	for _, p := range lit.Params {
		b.InspectExpr(p.Default, cb)
	}
	if lit.HasBlockBody() {
		b.InspectStmt(lit.BlockBody, cb)
	} else {
		b.InspectExpr(lit.ExprBody, cb)
	}
}

func (c *collector) expr(id ast.ExprID, e *ast.Expr, nested bool) {
	t := c.a.table
	switch e.Kind {
	case ast.ExprThis:
		c.this = true
		return
	case ast.ExprIdent:
	default:
		return
	}
	name := e.Data.(ast.IdentData).Name
	if c.a.unresolved[id] {
		if !nested {
			diag.ReportError(c.a.reporter, diag.ClosureUnresolvableCapture, e.Span,
				"cannot resolve captured name '"+name+"'").
				WithNote(t.Builder.Expr(c.lit).Span, "in this function literal").
				Emit()
			c.errors++
		}
		return
	}
	if c.a.invalid[id] {
		if !nested {
			diag.ReportError(c.a.reporter, diag.ClosureInvalidSelfCapture, e.Span,
				"'"+name+"' refers to itself from a literal that is not its direct initializer").
				Emit()
			c.errors++
		}
		return
	}
	b := t.Ref(id)
	if b == nil {
		return
	}
	switch {
	case b.Kind.IsInstance():
		c.this = true
	case !b.Kind.IsVariable():
	case t.Encloses(c.lit, b.Owner):
		// declared inside the literal
	case c.selfRef(id, b.ID):
		if self, ok := t.LitSelf[c.lit]; ok && self == b.ID {
			c.self = true
		} else {
			c.vars[b.ID] = ByValueCopy
		}
		c.ref(b.ID, e.Span)
	case c.a.class.Boxed(b.ID):
		c.vars[b.ID] = SharedMutableBox
		c.ref(b.ID, e.Span)
	default:
		c.vars[b.ID] = ByValueCopy
		c.ref(b.ID, e.Span)
	}
}

// selfRef reports whether reference id is recorded as binding's
// reference to itself.
func (c *collector) selfRef(id ast.ExprID, binding symbols.BindingID) bool {
	target, ok := c.a.table.SelfRefs[id]
	return ok && target == binding
}

// ref keeps the earliest reference span of binding.
func (c *collector) ref(binding symbols.BindingID, span source.Span) {
	if old, ok := c.refs[binding]; ok && old.Start <= span.Start {
		return
	}
	c.refs[binding] = span
}
