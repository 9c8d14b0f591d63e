package closure

import (
	"arrowc/internal/ast"
	"arrowc/internal/hir"
	"arrowc/internal/source"
	"arrowc/internal/types"
)

// blockInto appends the statements of id to out, unwrapping one block.
func (em *emitter) blockInto(out *hir.Block, id ast.StmtID) {
	st := em.c.b.Stmt(id)
	if st == nil {
		return
	}
	if d, ok := st.Data.(ast.BlockData); ok {
		for _, s := range d.Stmts {
			em.stmt(s, out)
		}
		return
	}
	em.stmt(id, out)
}

func (em *emitter) block(id ast.StmtID) *hir.Block {
	out := &hir.Block{}
	if st := em.c.b.Stmt(id); st != nil {
		out.Span = st.Span
	}
	em.blockInto(out, id)
	return out
}

func (em *emitter) stmt(id ast.StmtID, out *hir.Block) {
	st := em.c.b.Stmt(id)
	if st == nil || em.eng.Dead(id) {
		return
	}
	switch st.Kind {
	case ast.StmtBreak:
		out.Append(hir.StmtBreak, st.Span, hir.BreakData{})
		return
	case ast.StmtContinue:
		out.Append(hir.StmtContinue, st.Span, hir.ContinueData{})
		return
	case ast.StmtEmpty:
		return
	}
	switch d := st.Data.(type) {
	case *ast.DeclData:
		em.decl(id, d, st.Span, out)
	case ast.ExprStmtData:
		out.Append(hir.StmtExpr, st.Span, hir.ExprStmtData{Expr: em.expr(d.Expr)})
	case ast.ReturnData:
		var v *hir.Expr
		if d.Value.IsValid() {
			v = em.expr(d.Value)
		}
		em.ret(out, v, st.Span)
	case ast.BlockData:
		out.Append(hir.StmtBlock, st.Span, hir.BlockStmtData{Block: em.block(id)})
	case ast.IfData:
		data := hir.IfData{Cond: em.condition(d.Cond), Then: em.block(d.Then)}
		if d.Else.IsValid() {
			data.Else = em.block(d.Else)
		}
		out.Append(hir.StmtIf, st.Span, data)
	case ast.WhileData:
		out.Append(hir.StmtWhile, st.Span, hir.WhileData{Cond: em.condition(d.Cond), Body: em.block(d.Body)})
	case ast.ForData:
		var data hir.ForData
		if d.Init.IsValid() {
			data.Init = &hir.Block{Span: em.c.b.Stmt(d.Init).Span}
			em.stmt(d.Init, data.Init)
		}
		if d.Cond.IsValid() {
			data.Cond = em.condition(d.Cond)
		}
		if d.Update.IsValid() {
			data.Update = em.expr(d.Update)
		}
		data.Body = em.block(d.Body)
		out.Append(hir.StmtFor, st.Span, data)
	case *ast.ForOfData:
		iter := em.expr(d.Iter)
		lid := em.declare(em.top(), em.table.Decls[id], d.Decl.Name, d.Decl.NameSpan)
		out.Append(hir.StmtForOf, st.Span, hir.ForOfData{Local: lid, Iter: iter, Body: em.block(d.Body)})
	}
}

func (em *emitter) decl(id ast.StmtID, d *ast.DeclData, sp source.Span, out *hir.Block) {
	bid := em.table.Decls[id]
	t := em.eng.BindingType(bid)
	var v *hir.Expr
	if d.Init.IsValid() {
		v = em.coerce(em.expr(d.Init), t)
	}
	lid := em.declare(em.top(), bid, d.Name, d.NameSpan)
	out.Append(hir.StmtLet, sp, hir.LetData{Local: lid, Value: v})
	if v != nil && v.Kind == hir.ExprMakeClosure && em.table.LitSelf[em.c.b.Unparen(d.Init)] == bid {
		em.bindRecursion(out, lid, v, sp)
	}
}

// condition lowers a boolean test.
func (em *emitter) condition(id ast.ExprID) *hir.Expr {
	return em.coerce(em.expr(id), em.c.in.Builtins().Bool)
}

func (em *emitter) local(id hir.LocalID, sp source.Span) *hir.Expr {
	l := em.top().fn.Local(id)
	return &hir.Expr{Kind: hir.ExprLocal, Type: l.Type, Span: sp, Data: hir.LocalData{Local: id, Name: l.Name}}
}

func (em *emitter) intConst(v int64, sp source.Span) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprConst, Type: em.c.in.Builtins().Int, Span: sp, Data: hir.ConstData{Kind: hir.ConstInt, Int: v}}
}

func (em *emitter) stringConst(s string, sp source.Span) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprConst, Type: em.c.in.Builtins().String, Span: sp, Data: hir.ConstData{Kind: hir.ConstString, String: s}}
}

// null stands in for expressions that failed to type; the unit does
// not run when it has errors.
func (em *emitter) null(sp source.Span) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprConst, Type: em.c.in.Builtins().Null, Span: sp, Data: hir.ConstData{Kind: hir.ConstNull}}
}

func (em *emitter) intrinsic(name string, t types.TypeID, sp source.Span, args ...*hir.Expr) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprIntrinsic, Type: t, Span: sp, Data: hir.IntrinsicData{Name: name, Args: args}}
}

// coerce converts e to type to when both are numeric and differ.
// Constants are folded.
func (em *emitter) coerce(e *hir.Expr, to types.TypeID) *hir.Expr {
	if e == nil || to == types.NoTypeID || e.Type == to {
		return e
	}
	in := em.c.in
	fk, tk := in.KindOf(e.Type), in.KindOf(to)
	if !fk.IsNumeric() || !tk.IsNumeric() {
		return e
	}
	if c, ok := e.Data.(hir.ConstData); ok {
		return &hir.Expr{Kind: hir.ExprConst, Type: to, Span: e.Span, Data: foldConst(c, tk)}
	}
	return &hir.Expr{Kind: hir.ExprConvert, Type: to, Span: e.Span, Data: hir.ConvertData{Value: e}}
}

func foldConst(c hir.ConstData, to types.Kind) hir.ConstData {
	switch {
	case to == types.KindFloat || to == types.KindDouble:
		if c.Kind == hir.ConstInt {
			c.Float = float64(c.Int)
		}
		if to == types.KindFloat {
			c.Float = float64(float32(c.Float))
		}
		c.Kind = hir.ConstFloat
	case c.Kind == hir.ConstFloat:
		c.Int = types.TruncFloat(c.Float, to)
		c.Kind = hir.ConstInt
	default:
		c.Int = types.NarrowInt(c.Int, to)
	}
	return c
}
