package closure

import (
	"slices"
	"strconv"

	"arrowc/internal/ast"
	"arrowc/internal/capture"
	"arrowc/internal/hir"
	"arrowc/internal/infer"
	"arrowc/internal/source"
	"arrowc/internal/symbols"
	"arrowc/internal/types"
)

// fnCtx is one function being lowered: a member body or a literal.
type fnCtx struct {
	fn     *hir.Func
	lit    ast.ExprID // NoExprID for the member
	locals map[symbols.BindingID]hir.LocalID
	// slots maps captured variables to their slot; layout is the whole
	// slot list of the literal.
	slots    map[symbols.BindingID]int
	layout   []capture.Slot
	this     int
	self     symbols.BindingID
	selfSlot int
	result   types.TypeID
	discard  bool
}

// emitter lowers one member and the literals inside it.
type emitter struct {
	c          *Compiler
	class      *ast.ClassDecl
	memberName string
	table      *symbols.Table
	boxes      *capture.Classification
	analyzer   *capture.Analyzer
	eng        *infer.Engine
	span       uint64
	fns        []*fnCtx
}

func (em *emitter) push(lit ast.ExprID, fn *hir.Func) *fnCtx {
	fc := &fnCtx{
		fn:       fn,
		lit:      lit,
		locals:   make(map[symbols.BindingID]hir.LocalID),
		slots:    make(map[symbols.BindingID]int),
		this:     -1,
		selfSlot: -1,
	}
	em.fns = append(em.fns, fc)
	return fc
}

func (em *emitter) pop() { em.fns = em.fns[:len(em.fns)-1] }

func (em *emitter) top() *fnCtx { return em.fns[len(em.fns)-1] }

func (em *emitter) className() string {
	if em.class == nil {
		return ""
	}
	return em.class.Name
}

func (em *emitter) classType() types.TypeID {
	if em.class == nil {
		return em.c.in.Builtins().Object
	}
	return em.c.in.Class(em.class.Name)
}

// closureName is stable for a literal: the member name and the literal's
// position among the member's literals.
func (em *emitter) closureName(lit ast.ExprID) string {
	return em.memberName + "$lambda$" + strconv.Itoa(slices.Index(em.table.Literals, lit)+1)
}

// member lowers a function or method body typed by em.eng.
func (em *emitter) member(fn *ast.FuncDecl) *hir.Func {
	b := em.c.b
	body := b.Stmt(fn.Body)
	sp := fn.NameSpan
	if body != nil {
		sp = sp.Cover(body.Span)
	}
	fc := em.push(ast.NoExprID, hir.NewFunc(fn.Name, em.className(), sp))
	defer em.pop()
	sig := em.c.iu.Signature(em.class, fn, nil)
	em.params(fc, fn.Params, em.table.Params[ast.NoExprID], sig.Params)
	fc.result = em.eng.MemberResult()
	fc.fn.Result = fc.result
	em.blockInto(fc.fn.Body, fn.Body)
	return fc.fn
}

// fieldInit lowers a field initializer into a function returning it.
func (em *emitter) fieldInit(f *ast.FieldDecl) *hir.Func {
	init := em.c.b.Expr(f.Init)
	fc := em.push(ast.NoExprID, hir.NewFunc(f.Name, em.className(), init.Span))
	defer em.pop()
	t, _ := em.c.iu.FieldType(em.class, f.Name, nil)
	fc.result = t
	fc.fn.Result = t
	em.ret(fc.fn.Body, em.expr(f.Init), init.Span)
	return fc.fn
}

// emit lowers literal lit into a closure over the given slots.
func (em *emitter) emit(lit ast.ExprID, fl *ast.FuncLit, res capture.Result, info *infer.Literal) *hir.Closure {
	span := em.c.b.Expr(lit).Span
	name := em.closureName(lit)
	fc := em.push(lit, hir.NewFunc(name, em.className(), span))
	defer em.pop()
	fc.layout = res.Slots
	for i, s := range res.Slots {
		switch s.Kind {
		case capture.EnclosingInstanceRef:
			fc.this = i
		case capture.SelfRecursiveRef:
			fc.self, fc.selfSlot = s.Binding, i
		default:
			fc.slots[s.Binding] = i
		}
	}
	fc.result = info.Result
	fc.discard = info.Discard
	fc.fn.Result = info.Result
	em.params(fc, fl.Params, em.table.Params[lit], info.Params)
	if fl.HasBlockBody() {
		em.blockInto(fc.fn.Body, fl.BlockBody)
	} else {
		em.ret(fc.fn.Body, em.expr(fl.ExprBody), em.c.b.Expr(fl.ExprBody).Span)
	}
	return &hir.Closure{
		Name:     name,
		Member:   em.memberName,
		Literal:  lit,
		Span:     span,
		Slots:    res.Slots,
		Self:     res.SelfIndex(),
		Contract: info.Contract,
		Func:     fc.fn,
	}
}

// params declares the parameters of fc, then emits the prologue:
// defaults for omitted arguments and destructuring of pattern parameters.
func (em *emitter) params(fc *fnCtx, params []ast.Param, ids []symbols.BindingID, ts []types.TypeID) {
	obj := em.c.in.Builtins().Object
	typeAt := func(i int) types.TypeID {
		if i < len(ts) && !em.c.in.IsUnresolved(ts[i]) {
			return ts[i]
		}
		return obj
	}
	for i, p := range params {
		t := typeAt(i)
		bid := symbols.NoBindingID
		if i < len(ids) {
			bid = ids[i]
		}
		l := hir.Local{Name: p.Name, Type: t, Param: true, Span: p.Span}
		if bid == symbols.NoBindingID {
			l.Name = "$arg" + strconv.Itoa(i)
		} else {
			l.Boxed = em.boxes.Boxed(bid)
		}
		lid := fc.fn.AddLocal(l)
		if bid != symbols.NoBindingID {
			fc.locals[bid] = lid
		}
		fc.fn.Params = append(fc.fn.Params, lid)
		fc.fn.Rest = fc.fn.Rest || p.Rest
	}
	for i, p := range params {
		lid := fc.fn.Params[i]
		if p.Default.IsValid() {
			v := em.coerce(em.expr(p.Default), typeAt(i))
			fc.fn.Body.Append(hir.StmtDefault, p.Span, hir.DefaultData{Local: lid, Value: v})
		}
		if p.Pattern.IsValid() {
			em.destructure(fc, p.Pattern, lid, typeAt(i))
		}
	}
}

// destructure binds the names of pattern pid from local src of type t.
func (em *emitter) destructure(fc *fnCtx, pid ast.PatternID, src hir.LocalID, t types.TypeID) {
	in := em.c.in
	pat := em.c.b.Pattern(pid)
	if pat == nil {
		return
	}
	ids := em.table.Patterns[pid]
	tt, _ := in.Lookup(t)
	for j, el := range pat.Elems {
		if el.Hole || j >= len(ids) || ids[j] == symbols.NoBindingID {
			continue
		}
		bid := ids[j]
		et := em.eng.BindingType(bid)
		from := em.local(src, el.Span)
		var val *hir.Expr
		switch {
		case pat.Kind == ast.PatArray && el.Rest:
			val = em.intrinsic("slice", t, el.Span, from, em.intConst(int64(j), el.Span))
		case pat.Kind == ast.PatArray:
			val = &hir.Expr{Kind: hir.ExprIndex, Type: tt.Elem, Span: el.Span,
				Data: hir.IndexData{Target: from, Index: em.intConst(int64(j), el.Span)}}
		case tt.Kind == types.KindClass:
			val = &hir.Expr{Kind: hir.ExprField, Type: et, Span: el.Span,
				Data: hir.FieldData{Object: from, Name: el.Key}}
		default:
			val = &hir.Expr{Kind: hir.ExprIndex, Type: tt.Elem, Span: el.Span,
				Data: hir.IndexData{Target: from, Index: em.stringConst(el.Key, el.Span)}}
		}
		if val.Type == types.NoTypeID {
			val.Type = in.Builtins().Object
		}
		lid := em.declare(fc, bid, el.Name, el.Span)
		fc.fn.Body.Append(hir.StmtLet, el.Span, hir.LetData{Local: lid, Value: em.coerce(val, et)})
	}
}

// declare adds a local for binding bid to fc.
func (em *emitter) declare(fc *fnCtx, bid symbols.BindingID, name string, sp source.Span) hir.LocalID {
	lid := fc.fn.AddLocal(hir.Local{
		Name:  name,
		Type:  em.eng.BindingType(bid),
		Boxed: em.boxes.Boxed(bid),
		Span:  sp,
	})
	fc.locals[bid] = lid
	return lid
}

// ret appends a return of v, converted to the function's result. A void
// result evaluates v for its effects and returns nothing.
func (em *emitter) ret(out *hir.Block, v *hir.Expr, sp source.Span) {
	fc := em.top()
	if v != nil && (fc.discard || em.c.in.KindOf(fc.result) == types.KindVoid) {
		out.Append(hir.StmtExpr, sp, hir.ExprStmtData{Expr: v})
		v = nil
	}
	if v != nil {
		v = em.coerce(v, fc.result)
	}
	out.Append(hir.StmtReturn, sp, hir.ReturnData{Value: v})
}
