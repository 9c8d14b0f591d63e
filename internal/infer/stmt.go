package infer

import (
	"strings"

	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/source"
	"arrowc/internal/types"
)

type loop struct {
	broken bool
}

// stmt types statement id and reports whether control never falls off
// its end.
func (e *Engine) stmt(id ast.StmtID) bool {
	st := e.b.Stmt(id)
	if st == nil {
		return false
	}
	switch st.Kind {
	case ast.StmtBreak:
		if n := len(e.loops); n > 0 {
			e.loops[n-1].broken = true
		}
		return true
	case ast.StmtContinue:
		return true
	}
	switch d := st.Data.(type) {
	case *ast.DeclData:
		e.decl(id, d)
	case ast.ExprStmtData:
		e.expr(d.Expr, types.NoTypeID)
	case ast.ReturnData:
		e.ret(id, d, st.Span)
		return true
	case ast.BlockData:
		return e.stmts(d.Stmts)
	case ast.IfData:
		e.condition(d.Cond)
		then := e.stmt(d.Then)
		els := d.Else.IsValid() && e.stmt(d.Else)
		return then && els
	case ast.WhileData:
		e.condition(d.Cond)
		l := e.body(d.Body)
		return e.alwaysTrue(d.Cond) && !l.broken
	case ast.ForData:
		if d.Init.IsValid() {
			e.stmt(d.Init)
		}
		if d.Cond.IsValid() {
			e.condition(d.Cond)
		}
		l := e.body(d.Body)
		if d.Update.IsValid() {
			e.expr(d.Update, types.NoTypeID)
		}
		return (!d.Cond.IsValid() || e.alwaysTrue(d.Cond)) && !l.broken
	case *ast.ForOfData:
		e.forOf(id, d)
	}
	return false
}

func (e *Engine) stmts(list []ast.StmtID) bool {
	closed := false
	for _, s := range list {
		if closed {
			e.dead[s] = true
			continue
		}
		closed = e.stmt(s)
	}
	return closed
}

func (e *Engine) body(id ast.StmtID) *loop {
	l := &loop{}
	e.loops = append(e.loops, l)
	e.stmt(id)
	e.loops = e.loops[:len(e.loops)-1]
	return l
}

func (e *Engine) alwaysTrue(id ast.ExprID) bool {
	ex := e.b.Expr(e.b.Unparen(id))
	if ex == nil {
		return false
	}
	d, ok := ex.Data.(ast.LiteralData)
	return ok && d.Kind == ast.LitBool && d.Text == "true"
}

func (e *Engine) decl(id ast.StmtID, d *ast.DeclData) {
	b := e.in.Builtins()
	bid := e.t.Decls[id]
	declared := e.localAnnot(d.Type)
	if !e.unresolved(declared) {
		e.binds[bid] = declared
	}
	if !d.Init.IsValid() {
		if e.unresolved(declared) {
			e.binds[bid] = b.Object
		}
		return
	}
	want := declared
	if e.unresolved(want) {
		want = types.NoTypeID
	}
	t := e.expr(d.Init, want)
	if want != types.NoTypeID {
		e.assignable(t, declared, e.b.Expr(d.Init).Span)
		e.binds[bid] = declared
		return
	}
	switch e.kind(t) {
	case types.KindNull:
		t = b.Object
	case types.KindVoid:
		e.report(diag.TypeMismatch, e.b.Expr(d.Init).Span, "'%s' is initialized with a void value", d.Name).Emit()
		t = b.Unresolved
	}
	e.binds[bid] = t
}

func (e *Engine) forOf(id ast.StmtID, d *ast.ForOfData) {
	b := e.in.Builtins()
	it := e.expr(d.Iter, types.NoTypeID)
	var elem types.TypeID
	t, _ := e.in.Lookup(it)
	switch {
	case t.Kind == types.KindArray:
		elem = t.Elem
	case t.Kind == types.KindString:
		elem = b.Char
	case t.Kind == types.KindMap:
		elem = t.Key
	case t.Kind == types.KindUnresolved:
		elem = b.Unresolved
	case dynamic(t.Kind):
		elem = b.Object
	default:
		e.report(diag.TypeBadOperand, e.b.Expr(d.Iter).Span, "cannot iterate over %s", e.label(it)).Emit()
		elem = b.Unresolved
	}
	if declared := e.localAnnot(d.Decl.Type); !e.unresolved(declared) {
		e.assignable(elem, declared, d.Decl.NameSpan)
		elem = declared
	}
	e.binds[e.t.Decls[id]] = elem
	e.body(d.Body)
}

func (e *Engine) ret(id ast.StmtID, d ast.ReturnData, span source.Span) {
	fr := e.top()
	if fr == nil {
		return
	}
	t := e.in.Builtins().Void
	if d.Value.IsValid() {
		want := fr.declared
		if e.unresolved(want) {
			want = fr.hint
		}
		if e.kind(want) == types.KindVoid {
			want = types.NoTypeID
		}
		t = e.expr(d.Value, want)
		if !e.unresolved(fr.declared) {
			if e.kind(fr.declared) == types.KindVoid {
				e.report(diag.TypeMismatch, span, "void function returns a value").Emit()
			} else {
				e.assignable(t, fr.declared, e.b.Expr(d.Value).Span)
			}
		}
	}
	fr.returns = append(fr.returns, Return{Stmt: id, Span: span, Type: t})
}

// blockResult is the result type of a finished function frame: the
// declared type, else the join of its value returns.
func (e *Engine) blockResult(fr *frame, closed bool, span source.Span) types.TypeID {
	b := e.in.Builtins()
	if !e.unresolved(fr.declared) {
		if !closed && e.kind(fr.declared) != types.KindVoid {
			e.report(diag.TypeMissingReturn, span, "missing return of %s", e.label(fr.declared)).Emit()
		}
		return fr.declared
	}
	var values []Return
	for _, r := range fr.returns {
		if e.kind(r.Type) != types.KindVoid {
			values = append(values, r)
		}
	}
	if len(values) == 0 {
		return b.Void
	}
	if !closed {
		e.report(diag.TypeMissingReturn, span, "not every path returns a value").Emit()
	}
	for _, r := range fr.returns {
		if e.kind(r.Type) == types.KindVoid {
			e.report(diag.TypeMissingReturn, r.Span, "return without a value").Emit()
		}
	}

	res, ok := types.NoTypeID, true
	for _, r := range values {
		switch {
		case e.unresolved(r.Type):
		case res == types.NoTypeID:
			res = r.Type
		default:
			res, ok = e.in.Join(res, r.Type)
		}
		if !ok {
			break
		}
	}
	switch {
	case !ok:
	case res == types.NoTypeID:
		return b.Unresolved
	case e.kind(res) == types.KindNull:
		return b.Object
	default:
		return res
	}

	if hint := fr.hint; !e.unresolved(hint) && e.kind(hint) != types.KindVoid {
		fits := true
		for _, r := range values {
			fits = fits && e.in.Assignable(r.Type, hint)
		}
		if fits {
			return hint
		}
	}
	labels := make([]string, len(values))
	for i, r := range values {
		labels[i] = e.label(r.Type)
	}
	rb := e.report(diag.ClosureAmbiguousReturn, span, "returns have no common type: %s", strings.Join(labels, ", "))
	for _, r := range values {
		rb.WithNote(r.Span, "returns "+e.label(r.Type))
	}
	rb.Emit()
	return b.Unresolved
}

// bindPattern types the names bound by a destructuring parameter of
// type t.
func (e *Engine) bindPattern(id ast.PatternID, t types.TypeID) {
	if !id.IsValid() {
		return
	}
	b := e.in.Builtins()
	pat := e.b.Pattern(id)
	ids := e.t.Patterns[id]
	tt, _ := e.in.Lookup(t)
	for j, el := range pat.Elems {
		if j >= len(ids) || ids[j] == 0 {
			continue
		}
		et := b.Object
		switch pat.Kind {
		case ast.PatArray:
			switch {
			case tt.Kind == types.KindArray && el.Rest:
				et = t
			case tt.Kind == types.KindArray:
				et = tt.Elem
			case el.Rest:
				et = e.in.Array(b.Object)
			}
		case ast.PatObject:
			switch tt.Kind {
			case types.KindMap:
				et = tt.Elem
			case types.KindClass:
				if ft, ok := e.unit.FieldType(e.unit.Classes[tt.Name], el.Key, nil); ok {
					et = ft
				} else {
					e.report(diag.TypeUnknownMember, el.Span, "%s has no field '%s'", e.label(t), el.Key).Emit()
				}
			}
		}
		e.binds[ids[j]] = et
	}
}
