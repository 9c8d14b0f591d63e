package symbols

import (
	"slices"

	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/source"
	"arrowc/internal/token"
)

// Universe lists the names visible everywhere in a unit.
type Universe map[string]BindingKind

// Member is the unit of resolution: a top-level function, a class method,
// or a field initializer.
type Member struct {
	Class *ast.ClassDecl // nil for top-level functions
	Func  *ast.FuncDecl  // nil for a field initializer
	Init  ast.ExprID     // field initializer
	Span  source.Span
}

type frame struct {
	owner ast.ExprID
	loops []ast.StmtID
}

type resolver struct {
	b     *ast.Builder
	t     *Table
	r     diag.Reporter
	scope ScopeID
	stack []frame
	// initializing maps a binding to its unparenthesised initializer while
	// the initializer is being resolved.
	initializing map[BindingID]ast.ExprID
	inClass      bool
}

// Resolve binds every name in member m.
func Resolve(b *ast.Builder, m Member, u Universe, r diag.Reporter) *Table {
	if r == nil {
		r = diag.NopReporter{}
	}
	res := &resolver{
		b:            b,
		t:            newTable(b),
		r:            r,
		stack:        []frame{{owner: ast.NoExprID}},
		initializing: make(map[BindingID]ast.ExprID),
		inClass:      m.Class != nil,
	}
	res.pushScope(ScopeUniverse, m.Span)
	names := make([]string, 0, len(u))
	for name := range u {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		res.declare(name, u[name], source.Span{}, false)
	}
	if m.Class != nil {
		res.pushScope(ScopeMember, m.Span)
		for _, f := range m.Class.Fields {
			res.declare(f.Name, BindField, f.NameSpan, true)
		}
		for _, meth := range m.Class.Methods {
			if meth.Name != "constructor" {
				res.declare(meth.Name, BindMethod, meth.NameSpan, false)
			}
		}
	}
	res.t.MemberScope = res.pushScope(ScopeMember, m.Span)
	switch {
	case m.Func != nil:
		res.t.Params[ast.NoExprID] = res.declareParams(m.Func.Params)
		res.resolveStmt(m.Func.Body)
	case m.Init.IsValid():
		res.resolveExpr(m.Init)
	}
	return res.t
}

func (r *resolver) pushScope(kind ScopeKind, sp source.Span) ScopeID {
	id := r.t.newScope(Scope{
		Kind:   kind,
		Parent: r.scope,
		Owner:  r.owner(),
		Span:   sp,
		Names:  make(map[string]BindingID),
	})
	r.scope = id
	return id
}

func (r *resolver) popScope() {
	r.scope = r.t.Scopes[r.scope].Parent
}

func (r *resolver) owner() ast.ExprID { return r.stack[len(r.stack)-1].owner }

func (r *resolver) top() *frame { return &r.stack[len(r.stack)-1] }

func (r *resolver) frameIndex(owner ast.ExprID) int {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if r.stack[i].owner == owner {
			return i
		}
	}
	return -1
}

func (r *resolver) declare(name string, kind BindingKind, sp source.Span, mutable bool) BindingID {
	sc := &r.t.Scopes[r.scope]
	if prev, ok := sc.Names[name]; ok && kind.IsVariable() {
		diag.ReportError(r.r, diag.NameDuplicate, sp, "'"+name+"' is already declared in this scope").
			WithNote(r.t.Bindings[prev].Decl, "previous declaration").
			Emit()
	}
	id := r.t.newBinding(Binding{
		Name:    name,
		Kind:    kind,
		Mutable: mutable,
		Decl:    sp,
		Owner:   r.owner(),
		Scope:   r.scope,
		Loops:   slices.Clone(r.top().loops),
	})
	sc = &r.t.Scopes[r.scope]
	sc.Names[name] = id
	sc.Bindings = append(sc.Bindings, id)
	return id
}

func (r *resolver) lookup(name string) BindingID {
	for id := r.scope; id != NoScopeID; id = r.t.Scopes[id].Parent {
		if b, ok := r.t.Scopes[id].Names[name]; ok {
			return b
		}
	}
	return NoBindingID
}

// declareParams declares a parameter list in the current scope. Defaults
// see the parameters to their left.
func (r *resolver) declareParams(params []ast.Param) []BindingID {
	out := make([]BindingID, len(params))
	for i, p := range params {
		if p.Default.IsValid() {
			r.resolveExpr(p.Default)
		}
		if p.Pattern.IsValid() {
			pat := r.b.Pattern(p.Pattern)
			ids := make([]BindingID, len(pat.Elems))
			for j, el := range pat.Elems {
				if el.Hole {
					continue
				}
				ids[j] = r.declare(el.Name, BindParam, el.Span, true)
				r.t.Bindings[ids[j]].Type = p.Type
				r.t.Bindings[ids[j]].Pattern = p.Pattern
			}
			r.t.Patterns[p.Pattern] = ids
			continue
		}
		out[i] = r.declare(p.Name, BindParam, p.Span, true)
		r.t.Bindings[out[i]].Type = p.Type
	}
	return out
}

// ref resolves one identifier occurrence. site is the span used for write
// ordering: the whole assignment or update expression.
func (r *resolver) ref(id ast.ExprID, name string, sp source.Span, write bool, site source.Span) {
	bid := r.lookup(name)
	if bid == NoBindingID {
		if len(r.stack) > 1 {
			r.t.Unresolved = append(r.t.Unresolved, id)
			return
		}
		diag.ReportError(r.r, diag.NameUnknown, sp, "unknown name '"+name+"'").Emit()
		return
	}
	r.t.Refs[id] = bid
	b := &r.t.Bindings[bid]
	if !b.Kind.IsVariable() {
		if write && b.Kind != BindField {
			diag.ReportError(r.r, diag.SynInvalidAssignTarget, sp, "cannot assign to "+b.Kind.String()+" '"+name+"'").Emit()
		}
		return
	}
	idx := r.frameIndex(b.Owner)
	if init, ok := r.initializing[bid]; ok {
		if idx == len(r.stack)-1 {
			diag.ReportError(r.r, diag.NameUseBeforeInit, sp, "'"+name+"' is used in its own initializer").
				WithNote(b.Decl, "declared here").
				Emit()
			return
		}
		lit := r.stack[idx+1].owner
		if lit == init {
			r.t.SelfRefs[id] = bid
			r.t.LitSelf[lit] = bid
		} else {
			r.t.InvalidSelf = append(r.t.InvalidSelf, id)
		}
		return
	}
	if write {
		if !b.Mutable {
			diag.ReportError(r.r, diag.NameAssignConst, sp, "cannot assign to constant '"+name+"'").
				WithNote(b.Decl, "declared const here").
				Emit()
		}
		b.Writes = append(b.Writes, Site{
			Expr:  id,
			Span:  site,
			Owner: r.owner(),
			Loops: slices.Clone(r.stack[idx].loops),
		})
	}
	if idx < len(r.stack)-1 {
		lit := r.stack[idx+1].owner
		for _, c := range b.Captures {
			if c.Literal == lit {
				return
			}
		}
		b.Captures = append(b.Captures, Site{
			Expr:    id,
			Span:    r.b.Expr(lit).Span,
			Owner:   r.owner(),
			Literal: lit,
			Loops:   slices.Clone(r.stack[idx].loops),
		})
	}
}

func (r *resolver) resolveStmt(id ast.StmtID) {
	st := r.b.Stmt(id)
	if st == nil {
		return
	}
	switch d := st.Data.(type) {
	case *ast.DeclData:
		r.resolveDecl(id, d)
	case ast.ExprStmtData:
		r.resolveExpr(d.Expr)
	case ast.ReturnData:
		r.resolveExpr(d.Value)
	case ast.BlockData:
		r.pushScope(ScopeBlock, st.Span)
		for _, s := range d.Stmts {
			r.resolveStmt(s)
		}
		r.popScope()
	case ast.IfData:
		r.resolveExpr(d.Cond)
		r.resolveStmt(d.Then)
		r.resolveStmt(d.Else)
	case ast.WhileData:
		r.enterLoop(id)
		r.resolveExpr(d.Cond)
		r.resolveStmt(d.Body)
		r.leaveLoop()
	case ast.ForData:
		r.pushScope(ScopeLoop, st.Span)
		r.resolveStmt(d.Init)
		r.enterLoop(id)
		r.resolveExpr(d.Cond)
		r.resolveExpr(d.Update)
		r.resolveStmt(d.Body)
		r.leaveLoop()
		r.popScope()
	case *ast.ForOfData:
		r.resolveExpr(d.Iter)
		r.enterLoop(id)
		r.pushScope(ScopeBlock, st.Span)
		bid := r.declare(d.Decl.Name, BindLocal, d.Decl.NameSpan, d.Decl.Kind != ast.DeclConst)
		r.t.Bindings[bid].Type = d.Decl.Type
		r.t.Decls[id] = bid
		r.resolveStmt(d.Body)
		r.popScope()
		r.leaveLoop()
	}
}

func (r *resolver) enterLoop(id ast.StmtID) {
	f := r.top()
	f.loops = append(f.loops, id)
}

func (r *resolver) leaveLoop() {
	f := r.top()
	f.loops = f.loops[:len(f.loops)-1]
}

func (r *resolver) resolveDecl(id ast.StmtID, d *ast.DeclData) {
	bid := r.declare(d.Name, BindLocal, d.NameSpan, d.Kind != ast.DeclConst)
	r.t.Decls[id] = bid
	b := &r.t.Bindings[bid]
	b.Type = d.Type
	b.Init = d.Init
	if !d.Init.IsValid() {
		return
	}
	init := r.b.Unparen(d.Init)
	if r.b.Expr(init).Kind == ast.ExprFuncLit {
		r.t.LitBinding[init] = bid
	}
	r.initializing[bid] = init
	r.resolveExpr(d.Init)
	delete(r.initializing, bid)
}

func (r *resolver) resolveExpr(id ast.ExprID) {
	e := r.b.Expr(id)
	if e == nil {
		return
	}
	switch d := e.Data.(type) {
	case ast.IdentData:
		r.ref(id, d.Name, e.Span, false, e.Span)
	case ast.ThisData:
		if !r.inClass {
			diag.ReportError(r.r, diag.NameThisOutsideClass, e.Span, "'this' outside of a class").Emit()
		}
	case ast.UnaryData:
		if d.Op == token.PlusPlus || d.Op == token.MinusMinus {
			r.resolveTarget(d.Operand, e.Span)
			return
		}
		r.resolveExpr(d.Operand)
	case ast.AssignData:
		r.resolveTarget(d.Target, e.Span)
		r.resolveExpr(d.Value)
	case ast.BinaryData:
		r.resolveExpr(d.Left)
		r.resolveExpr(d.Right)
	case ast.CondData:
		r.resolveExpr(d.Cond)
		r.resolveExpr(d.Then)
		r.resolveExpr(d.Else)
	case ast.CallData:
		r.resolveExpr(d.Callee)
		for _, a := range d.Args {
			r.resolveExpr(a)
		}
	case ast.NewData:
		if bid := r.lookup(d.Class); bid == NoBindingID || r.t.Bindings[bid].Kind != BindClass {
			diag.ReportError(r.r, diag.NameUnknownType, d.ClassSpan, "unknown class '"+d.Class+"'").Emit()
		}
		for _, a := range d.Args {
			r.resolveExpr(a)
		}
	case ast.MemberData:
		r.resolveExpr(d.Target)
	case ast.IndexData:
		r.resolveExpr(d.Target)
		r.resolveExpr(d.Index)
	case ast.ArrayData:
		for _, el := range d.Elems {
			r.resolveExpr(el)
		}
	case ast.ObjectData:
		for _, f := range d.Fields {
			r.resolveExpr(f.Value)
		}
	case ast.CastData:
		r.resolveExpr(d.Value)
	case ast.GroupData:
		r.resolveExpr(d.Inner)
	case *ast.FuncLit:
		r.resolveLiteral(id, e.Span, d)
	}
}

// resolveTarget resolves the target of an assignment or update expression.
func (r *resolver) resolveTarget(target ast.ExprID, site source.Span) {
	inner := r.b.Unparen(target)
	e := r.b.Expr(inner)
	if e == nil {
		return
	}
	if d, ok := e.Data.(ast.IdentData); ok {
		r.ref(inner, d.Name, e.Span, true, site)
		return
	}
	r.resolveExpr(target)
}

func (r *resolver) resolveLiteral(id ast.ExprID, sp source.Span, lit *ast.FuncLit) {
	r.t.Literals = append(r.t.Literals, id)
	r.t.LitParent[id] = r.owner()
	r.stack = append(r.stack, frame{owner: id})
	r.t.LitScope[id] = r.pushScope(ScopeLiteral, sp)
	r.t.Params[id] = r.declareParams(lit.Params)
	if lit.HasBlockBody() {
		r.resolveStmt(lit.BlockBody)
	} else {
		r.resolveExpr(lit.ExprBody)
	}
	r.popScope()
	r.stack = r.stack[:len(r.stack)-1]
}
