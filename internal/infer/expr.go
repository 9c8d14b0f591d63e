package infer

import (
	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/source"
	"arrowc/internal/symbols"
	"arrowc/internal/token"
	"arrowc/internal/types"
)

// Expr types expression id. want is the type the context expects, or
// types.NoTypeID; it is a hint, mismatches are reported by the caller.
func (e *Engine) Expr(id ast.ExprID, want types.TypeID) types.TypeID {
	return e.expr(id, want)
}

func (e *Engine) expr(id ast.ExprID, want types.TypeID) types.TypeID {
	ex := e.b.Expr(id)
	if ex == nil {
		return e.in.Builtins().Unresolved
	}
	t := e.exprKind(id, ex, want)
	if t == types.NoTypeID {
		t = e.in.Builtins().Unresolved
	}
	e.exprs[id] = t
	return t
}

func (e *Engine) exprKind(id ast.ExprID, ex *ast.Expr, want types.TypeID) types.TypeID {
	b := e.in.Builtins()
	switch d := ex.Data.(type) {
	case ast.LiteralData:
		return e.constant(d, want)
	case ast.IdentData:
		return e.ident(id, d.Name, ex.Span)
	case ast.ThisData:
		if e.class == nil {
			return b.Unresolved
		}
		return e.in.Class(e.class.Name)
	case ast.GroupData:
		return e.expr(d.Inner, want)
	case ast.UnaryData:
		return e.unary(d, ex.Span)
	case ast.BinaryData:
		l := e.expr(d.Left, types.NoTypeID)
		r := e.expr(d.Right, types.NoTypeID)
		return e.binary(d.Op, l, r, ex.Span)
	case ast.AssignData:
		return e.assign(d, ex.Span)
	case ast.CondData:
		return e.cond(d, want, ex.Span)
	case ast.CallData:
		return e.call(id, d, want, ex.Span)
	case ast.NewData:
		return e.newExpr(id, d, ex.Span)
	case ast.MemberData:
		return e.member(id, d, ex.Span)
	case ast.IndexData:
		return e.index(d, ex.Span)
	case ast.ArrayData:
		return e.array(d, want)
	case ast.ObjectData:
		return e.object(d, want)
	case ast.CastData:
		return e.cast(d, ex.Span)
	case *ast.FuncLit:
		info := e.literal(id, d, want, nil)
		if info.Contract == nil {
			return b.Unresolved
		}
		return info.Contract.Type
	}
	return b.Unresolved
}

// constant types a literal. An int literal that fits a narrower integral
// target takes the target's type.
func (e *Engine) constant(d ast.LiteralData, want types.TypeID) types.TypeID {
	b := e.in.Builtins()
	switch d.Kind {
	case ast.LitInt:
		if v, err := d.IntValue(); err == nil && fitsNarrow(e.kind(want), v) {
			return want
		}
		return b.Int
	case ast.LitLong:
		return b.Long
	case ast.LitFloat:
		return b.Float
	case ast.LitDouble:
		return b.Double
	case ast.LitString:
		return b.String
	case ast.LitBool:
		return b.Bool
	case ast.LitNull:
		return b.Null
	}
	return b.Unresolved
}

func fitsNarrow(k types.Kind, v int64) bool {
	switch k {
	case types.KindByte:
		return v >= -128 && v <= 127
	case types.KindShort:
		return v >= -32768 && v <= 32767
	case types.KindChar:
		return v >= 0 && v <= 0xFFFF
	}
	return false
}

func (e *Engine) ident(id ast.ExprID, name string, span source.Span) types.TypeID {
	b := e.in.Builtins()
	bind := e.t.Ref(id)
	if bind == nil {
		// unknown inside a literal; the capture analyzer reports it
		return b.Unresolved
	}
	switch bind.Kind {
	case symbols.BindParam, symbols.BindLocal, symbols.BindField:
		return e.BindingType(bind.ID)
	case symbols.BindMethod, symbols.BindFunc:
		e.report(diag.TypeBadOperand, span, "'%s' can only be called", name).Emit()
	case symbols.BindClass:
		e.report(diag.TypeBadOperand, span, "class '%s' is not a value; use new", name).Emit()
	case symbols.BindIntrinsic:
		e.report(diag.TypeBadOperand, span, "built-in '%s' is not a value", name).Emit()
	}
	return b.Unresolved
}

// dynamic reports kinds whose operations are checked at run time.
func dynamic(k types.Kind) bool {
	return k == types.KindObject || k == types.KindTypeParam
}

func (e *Engine) unary(d ast.UnaryData, span source.Span) types.TypeID {
	b := e.in.Builtins()
	t := e.expr(d.Operand, types.NoTypeID)
	k := e.kind(t)
	if k == types.KindUnresolved {
		if d.Op == token.Bang {
			return b.Bool
		}
		return t
	}
	switch d.Op {
	case token.PlusPlus, token.MinusMinus:
		if k.IsNumeric() || dynamic(k) {
			return t
		}
	case token.Minus, token.Plus:
		if k.IsNumeric() {
			return e.in.UnaryPromote(t)
		}
		if dynamic(k) {
			return b.Object
		}
	case token.Tilde:
		if k.IsIntegral() {
			return e.in.UnaryPromote(t)
		}
		if dynamic(k) {
			return b.Object
		}
	case token.Bang:
		if k == types.KindBool || dynamic(k) {
			return b.Bool
		}
		e.report(diag.TypeBadOperand, span, "operator ! needs boolean, got %s", e.label(t)).Emit()
		return b.Bool
	}
	e.report(diag.TypeBadOperand, span, "operator %s does not apply to %s", d.Op, e.label(t)).Emit()
	return b.Unresolved
}

// binary computes the result of l op r.
func (e *Engine) binary(op token.Kind, l, r types.TypeID, span source.Span) types.TypeID {
	b := e.in.Builtins()
	lk, rk := e.kind(l), e.kind(r)
	unres := lk == types.KindUnresolved || rk == types.KindUnresolved
	bad := func() types.TypeID {
		e.report(diag.TypeBadOperand, span, "operator %s does not apply to %s and %s", op, e.label(l), e.label(r)).Emit()
		return b.Unresolved
	}
	// operand kinds that may take part in arithmetic
	arith := func(k types.Kind) bool {
		return k.IsNumeric() || dynamic(k) || k == types.KindUnresolved
	}

	switch op {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent:
		if op == token.Plus && (lk == types.KindString || rk == types.KindString) {
			return b.String
		}
		if !arith(lk) || !arith(rk) {
			return bad()
		}
		switch {
		case unres:
			return b.Unresolved
		case dynamic(lk) || dynamic(rk):
			return b.Object
		}
		return e.in.Promote(l, r)
	case token.Shl, token.Shr, token.UShr:
		integral := func(k types.Kind) bool {
			return k.IsIntegral() || dynamic(k) || k == types.KindUnresolved
		}
		if !integral(lk) || !integral(rk) {
			return bad()
		}
		switch {
		case unres:
			return b.Unresolved
		case dynamic(lk):
			return b.Object
		}
		return e.in.UnaryPromote(l)
	case token.Amp, token.Pipe, token.Caret:
		switch {
		case lk == types.KindBool && rk == types.KindBool:
			return b.Bool
		case unres:
			return b.Unresolved
		case lk.IsIntegral() && rk.IsIntegral():
			return e.in.Promote(l, r)
		case (dynamic(lk) || lk.IsIntegral()) && (dynamic(rk) || rk.IsIntegral()):
			return b.Object
		}
		return bad()
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		if !arith(lk) || !arith(rk) {
			bad()
		}
		return b.Bool
	case token.EqEq, token.EqEqEq, token.BangEq, token.BangEqEq:
		return b.Bool
	case token.AndAnd, token.OrOr:
		for _, t := range []types.TypeID{l, r} {
			if k := e.kind(t); k != types.KindBool && k != types.KindUnresolved && !dynamic(k) {
				e.report(diag.TypeBadOperand, span, "operator %s needs boolean operands, got %s", op, e.label(t)).Emit()
				break
			}
		}
		return b.Bool
	}
	return bad()
}

func (e *Engine) assign(d ast.AssignData, span source.Span) types.TypeID {
	target := e.expr(d.Target, types.NoTypeID)
	if d.Op == token.Assign {
		e.expect(d.Value, target, span)
		return target
	}
	value := e.expr(d.Value, types.NoTypeID)
	res := e.binary(d.Op.CompoundBase(), target, value, span)
	tk, rk := e.kind(target), e.kind(res)
	switch {
	case e.unresolved(target) || e.unresolved(res):
	case tk.IsNumeric() && rk.IsNumeric():
		// compound assignment narrows back to the target type
	case tk == types.KindString && rk == types.KindString:
	case dynamic(tk):
	default:
		e.report(diag.TypeMismatch, span, "cannot store %s into %s", e.label(res), e.label(target)).Emit()
	}
	return target
}

func (e *Engine) condition(id ast.ExprID) {
	t := e.expr(id, e.in.Builtins().Bool)
	if k := e.kind(t); k != types.KindBool && k != types.KindUnresolved && !dynamic(k) {
		e.report(diag.TypeMismatch, e.b.Expr(id).Span, "condition must be boolean, got %s", e.label(t)).Emit()
	}
}

func (e *Engine) cond(d ast.CondData, want types.TypeID, span source.Span) types.TypeID {
	e.condition(d.Cond)
	a := e.expr(d.Then, want)
	b := e.expr(d.Else, want)
	switch {
	case e.unresolved(a):
		return b
	case e.unresolved(b):
		return a
	}
	if j, ok := e.in.Join(a, b); ok {
		return j
	}
	if want != types.NoTypeID && !e.unresolved(want) && e.in.Assignable(a, want) && e.in.Assignable(b, want) {
		return want
	}
	e.report(diag.TypeMismatch, span, "branches have no common type: %s and %s", e.label(a), e.label(b)).Emit()
	return e.in.Builtins().Unresolved
}

// namespace returns the intrinsic namespace named by id, if any.
func (e *Engine) namespace(id ast.ExprID) (string, bool) {
	id = e.b.Unparen(id)
	name, ok := e.b.IdentName(id)
	if !ok {
		return "", false
	}
	bind := e.t.Ref(id)
	if bind == nil || bind.Kind != symbols.BindIntrinsic || name != "Math" {
		return "", false
	}
	return name, true
}

func (e *Engine) member(id ast.ExprID, d ast.MemberData, span source.Span) types.TypeID {
	b := e.in.Builtins()
	if ns, ok := e.namespace(d.Target); ok {
		key := ns + "." + d.Name
		if _, ok := IntrinsicConsts[key]; ok {
			e.access[id] = &Access{Kind: AccessConst, Name: key}
			return b.Double
		}
		e.report(diag.TypeUnknownMember, d.NameSpan, "%s has no constant %s", ns, d.Name).Emit()
		return b.Unresolved
	}
	t := e.expr(d.Target, types.NoTypeID)
	tt, _ := e.in.Lookup(t)
	switch tt.Kind {
	case types.KindUnresolved:
		return b.Unresolved
	case types.KindClass:
		cls := e.unit.Classes[tt.Name]
		if ft, ok := e.unit.FieldType(cls, d.Name, nil); ok {
			e.access[id] = &Access{Kind: AccessField, Class: cls, Name: d.Name}
			return ft
		}
		if cls != nil && cls.Method(d.Name) != nil {
			e.report(diag.TypeBadOperand, d.NameSpan, "method '%s' can only be called", d.Name).Emit()
			return b.Unresolved
		}
	case types.KindArray, types.KindString:
		if d.Name == "length" {
			e.access[id] = &Access{Kind: AccessLength, Name: d.Name}
			return b.Int
		}
	case types.KindMap:
		e.access[id] = &Access{Kind: AccessMapKey, Name: d.Name}
		return tt.Elem
	}
	e.report(diag.TypeUnknownMember, d.NameSpan, "%s has no member '%s'", e.label(t), d.Name).Emit()
	return b.Unresolved
}

func (e *Engine) index(d ast.IndexData, span source.Span) types.TypeID {
	b := e.in.Builtins()
	t := e.expr(d.Target, types.NoTypeID)
	tt, _ := e.in.Lookup(t)
	switch tt.Kind {
	case types.KindUnresolved:
		e.expr(d.Index, types.NoTypeID)
		return b.Unresolved
	case types.KindArray, types.KindString:
		it := e.expr(d.Index, b.Int)
		if k := e.kind(it); !k.IsIntegral() && k != types.KindUnresolved && !dynamic(k) || k == types.KindLong {
			e.report(diag.TypeMismatch, e.b.Expr(d.Index).Span, "index must be int, got %s", e.label(it)).Emit()
		}
		if tt.Kind == types.KindString {
			return b.Char
		}
		return tt.Elem
	case types.KindMap:
		e.expect(d.Index, tt.Key, e.b.Expr(d.Index).Span)
		return tt.Elem
	}
	e.expr(d.Index, types.NoTypeID)
	e.report(diag.TypeBadOperand, span, "cannot index %s", e.label(t)).Emit()
	return b.Unresolved
}

func (e *Engine) array(d ast.ArrayData, want types.TypeID) types.TypeID {
	if wt, ok := e.in.Lookup(want); ok && wt.Kind == types.KindArray {
		for _, el := range d.Elems {
			e.expect(el, wt.Elem, e.b.Expr(el).Span)
		}
		return want
	}
	elem := types.NoTypeID
	for _, el := range d.Elems {
		t := e.expr(el, types.NoTypeID)
		if e.unresolved(t) {
			continue
		}
		if elem == types.NoTypeID {
			elem = t
			continue
		}
		if j, ok := e.in.Join(elem, t); ok {
			elem = j
		} else {
			elem = e.in.Builtins().Object
		}
	}
	if elem == types.NoTypeID || e.kind(elem) == types.KindNull {
		elem = e.in.Builtins().Object
	}
	return e.in.Array(elem)
}

func (e *Engine) object(d ast.ObjectData, want types.TypeID) types.TypeID {
	b := e.in.Builtins()
	if wt, ok := e.in.Lookup(want); ok && wt.Kind == types.KindMap {
		for _, f := range d.Fields {
			e.expect(f.Value, wt.Elem, e.b.Expr(f.Value).Span)
		}
		return want
	}
	val := types.NoTypeID
	for _, f := range d.Fields {
		t := e.expr(f.Value, types.NoTypeID)
		switch {
		case e.unresolved(t):
		case val == types.NoTypeID:
			val = t
		case val != t:
			if j, ok := e.in.Join(val, t); ok {
				val = j
			} else {
				val = b.Object
			}
		}
	}
	if val == types.NoTypeID || e.kind(val) == types.KindNull {
		val = b.Object
	}
	return e.in.Map(b.String, val)
}

func (e *Engine) cast(d ast.CastData, span source.Span) types.TypeID {
	target := e.localAnnot(d.Type)
	v := e.expr(d.Value, target)
	vk, tk := e.kind(v), e.kind(target)
	switch {
	case e.unresolved(v), e.unresolved(target), e.in.Assignable(v, target):
	case vk.IsNumeric() && tk.IsNumeric():
	case vk.IsReference() && tk.IsReference():
	case dynamic(vk) && tk.IsPrimitive():
	default:
		e.report(diag.TypeBadOperand, span, "cannot cast %s to %s", e.label(v), e.label(target)).Emit()
	}
	return target
}
