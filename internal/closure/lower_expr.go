package closure

import (
	"arrowc/internal/ast"
	"arrowc/internal/capture"
	"arrowc/internal/hir"
	"arrowc/internal/infer"
	"arrowc/internal/source"
	"arrowc/internal/symbols"
	"arrowc/internal/token"
	"arrowc/internal/types"
)

func (em *emitter) expr(id ast.ExprID) *hir.Expr {
	ex := em.c.b.Expr(id)
	if ex == nil {
		return nil
	}
	t := em.eng.TypeOf(id)
	mk := func(kind hir.ExprKind, data hir.ExprData) *hir.Expr {
		return &hir.Expr{Kind: kind, Type: t, Span: ex.Span, Data: data}
	}
	switch d := ex.Data.(type) {
	case ast.LiteralData:
		return em.constant(d, t, ex.Span)
	case ast.IdentData:
		return em.ident(id, ex.Span)
	case ast.ThisData:
		return em.this(ex.Span)
	case ast.GroupData:
		return em.expr(d.Inner)
	case ast.UnaryData:
		return em.unary(d, t, ex.Span)
	case ast.BinaryData:
		return em.binary(d.Op, em.expr(d.Left), em.expr(d.Right), t, ex.Span)
	case ast.AssignData:
		return em.assign(d, t, ex.Span)
	case ast.CondData:
		return mk(hir.ExprCond, hir.CondData{
			Cond: em.condition(d.Cond),
			Then: em.coerce(em.expr(d.Then), t),
			Else: em.coerce(em.expr(d.Else), t),
		})
	case ast.CallData:
		return em.call(id, d, t, ex.Span)
	case ast.NewData:
		c := em.eng.Call(id)
		if c == nil {
			return em.null(ex.Span)
		}
		return mk(hir.ExprNew, hir.NewData{Class: c.Name, Args: em.args(c.Sig, d.Args)})
	case ast.MemberData:
		return em.memberExpr(id, d, t, ex.Span)
	case ast.IndexData:
		target := em.expr(d.Target)
		index := em.expr(d.Index)
		if k := em.c.in.KindOf(target.Type); k == types.KindArray || k == types.KindString {
			index = em.coerce(index, em.c.in.Builtins().Int)
		}
		return mk(hir.ExprIndex, hir.IndexData{Target: target, Index: index})
	case ast.ArrayData:
		elem := em.elem(t)
		elems := make([]*hir.Expr, len(d.Elems))
		for i, el := range d.Elems {
			elems[i] = em.coerce(em.expr(el), elem)
		}
		return mk(hir.ExprArrayLit, hir.ArrayLitData{Elems: elems})
	case ast.ObjectData:
		elem := em.elem(t)
		data := hir.MapLitData{Keys: make([]string, len(d.Fields)), Values: make([]*hir.Expr, len(d.Fields))}
		for i, f := range d.Fields {
			data.Keys[i] = f.Key
			data.Values[i] = em.coerce(em.expr(f.Value), elem)
		}
		return mk(hir.ExprMapLit, data)
	case ast.CastData:
		v := em.expr(d.Value)
		if em.c.in.KindOf(t).IsPrimitive() && !em.c.in.KindOf(v.Type).IsPrimitive() {
			return mk(hir.ExprConvert, hir.ConvertData{Value: v})
		}
		if c := em.coerce(v, t); c != v {
			return c
		}
		out := *v
		out.Type = t
		return &out
	case *ast.FuncLit:
		return em.makeClosure(id, ex.Span)
	}
	return em.null(ex.Span)
}

// elem is the element type of an array or the value type of a map.
func (em *emitter) elem(t types.TypeID) types.TypeID {
	if tt, ok := em.c.in.Lookup(t); ok && (tt.Kind == types.KindArray || tt.Kind == types.KindMap) {
		return tt.Elem
	}
	return types.NoTypeID
}

func (em *emitter) constant(d ast.LiteralData, t types.TypeID, sp source.Span) *hir.Expr {
	c := hir.ConstData{}
	switch d.Kind {
	case ast.LitInt, ast.LitLong:
		v, _ := d.IntValue()
		c.Kind, c.Int = hir.ConstInt, v
	case ast.LitFloat, ast.LitDouble:
		v, _ := d.FloatValue()
		if d.Kind == ast.LitFloat {
			v = float64(float32(v))
		}
		c.Kind, c.Float = hir.ConstFloat, v
	case ast.LitString:
		c.Kind, c.String = hir.ConstString, d.Text
	case ast.LitBool:
		c.Kind, c.Bool = hir.ConstBool, d.Text == "true"
	default:
		c.Kind = hir.ConstNull
	}
	return &hir.Expr{Kind: hir.ExprConst, Type: t, Span: sp, Data: c}
}

func (em *emitter) ident(id ast.ExprID, sp source.Span) *hir.Expr {
	b := em.table.Ref(id)
	if b == nil {
		return em.null(sp)
	}
	switch b.Kind {
	case symbols.BindParam, symbols.BindLocal:
		return em.read(b.ID, sp, false)
	case symbols.BindField:
		return em.field(b.Name, em.eng.BindingType(b.ID), sp)
	}
	return em.null(sp)
}

// read loads variable id in the current function: from a local, the self
// slot or a capture slot. ref asks for the box of a boxed variable.
func (em *emitter) read(id symbols.BindingID, sp source.Span, ref bool) *hir.Expr {
	fc := em.top()
	b := em.table.Binding(id)
	t := em.eng.BindingType(id)
	if lid, ok := fc.locals[id]; ok {
		return &hir.Expr{Kind: hir.ExprLocal, Type: t, Span: sp,
			Data: hir.LocalData{Local: lid, Name: b.Name, Ref: ref && fc.fn.Local(lid).Boxed}}
	}
	if fc.selfSlot >= 0 && fc.self == id {
		return &hir.Expr{Kind: hir.ExprSelfRef, Type: t, Span: sp, Data: hir.SelfRefData{Slot: fc.selfSlot}}
	}
	if i, ok := fc.slots[id]; ok {
		boxed := fc.layout[i].Kind == capture.SharedMutableBox
		return &hir.Expr{Kind: hir.ExprCapture, Type: t, Span: sp,
			Data: hir.CaptureData{Slot: i, Name: b.Name, Boxed: boxed, Ref: ref && boxed}}
	}
	return em.null(sp)
}

// this is the enclosing instance: the receiver in a member body, the
// EnclosingInstanceRef slot in a literal.
func (em *emitter) this(sp source.Span) *hir.Expr {
	fc := em.top()
	t := em.classType()
	if fc.lit.IsValid() && fc.this >= 0 {
		return &hir.Expr{Kind: hir.ExprCapture, Type: t, Span: sp,
			Data: hir.CaptureData{Slot: fc.this, Name: capture.ThisName}}
	}
	return &hir.Expr{Kind: hir.ExprThis, Type: t, Span: sp, Data: hir.ThisData{}}
}

func (em *emitter) field(name string, t types.TypeID, sp source.Span) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprField, Type: t, Span: sp, Data: hir.FieldData{Object: em.this(sp), Name: name}}
}

func (em *emitter) memberExpr(id ast.ExprID, d ast.MemberData, t types.TypeID, sp source.Span) *hir.Expr {
	acc := em.eng.Access(id)
	if acc == nil {
		return em.null(sp)
	}
	switch acc.Kind {
	case infer.AccessConst:
		return &hir.Expr{Kind: hir.ExprConst, Type: t, Span: sp,
			Data: hir.ConstData{Kind: hir.ConstFloat, Float: infer.IntrinsicConsts[acc.Name]}}
	case infer.AccessField:
		return &hir.Expr{Kind: hir.ExprField, Type: t, Span: sp, Data: hir.FieldData{Object: em.expr(d.Target), Name: d.Name}}
	case infer.AccessLength:
		return em.intrinsic("length", t, sp, em.expr(d.Target))
	case infer.AccessMapKey:
		return &hir.Expr{Kind: hir.ExprIndex, Type: t, Span: sp,
			Data: hir.IndexData{Target: em.expr(d.Target), Index: em.stringConst(d.Name, d.NameSpan)}}
	}
	return em.null(sp)
}

func (em *emitter) unary(d ast.UnaryData, t types.TypeID, sp source.Span) *hir.Expr {
	switch d.Op {
	case token.PlusPlus, token.MinusMinus:
		target := em.target(d.Operand)
		return &hir.Expr{Kind: hir.ExprAssign, Type: t, Span: sp,
			Data: hir.AssignData{Op: d.Op, Target: target, OpType: target.Type, Postfix: d.Postfix}}
	case token.Plus:
		return em.coerce(em.expr(d.Operand), t)
	}
	operand := em.expr(d.Operand)
	if d.Op != token.Bang {
		operand = em.coerce(operand, t)
	}
	return &hir.Expr{Kind: hir.ExprUnary, Type: t, Span: sp, Data: hir.UnaryData{Op: d.Op, Operand: operand}}
}

// opType is the type a binary operator computes in.
func (em *emitter) opType(op token.Kind, l, r, result types.TypeID) types.TypeID {
	in := em.c.in
	lk, rk := in.KindOf(l), in.KindOf(r)
	switch op {
	case token.Lt, token.LtEq, token.Gt, token.GtEq, token.EqEq, token.EqEqEq, token.BangEq, token.BangEqEq:
		if lk.IsNumeric() && rk.IsNumeric() {
			return in.Promote(l, r)
		}
		if lk == rk {
			return l
		}
		return in.Builtins().Object
	case token.Shl, token.Shr, token.UShr:
		if lk.IsIntegral() {
			return in.UnaryPromote(l)
		}
		return in.Builtins().Object
	}
	if op == token.Plus && (lk == types.KindString || rk == types.KindString) {
		return in.Builtins().String
	}
	return result
}

func (em *emitter) binary(op token.Kind, l, r *hir.Expr, t types.TypeID, sp source.Span) *hir.Expr {
	if op == token.AndAnd || op == token.OrOr {
		return &hir.Expr{Kind: hir.ExprLogical, Type: t, Span: sp, Data: hir.LogicalData{Op: op, Left: l, Right: r}}
	}
	ot := em.opType(op, l.Type, r.Type, t)
	switch op {
	case token.Shl, token.Shr, token.UShr:
		l = em.coerce(l, ot)
	default:
		l, r = em.coerce(l, ot), em.coerce(r, ot)
	}
	return &hir.Expr{Kind: hir.ExprBinary, Type: t, Span: sp, Data: hir.BinaryData{Op: op, Left: l, Right: r, OpType: ot}}
}

// target lowers an assignable expression.
func (em *emitter) target(id ast.ExprID) *hir.Expr {
	return em.expr(em.c.b.Unparen(id))
}

func (em *emitter) assign(d ast.AssignData, t types.TypeID, sp source.Span) *hir.Expr {
	target := em.target(d.Target)
	value := em.expr(d.Value)
	data := hir.AssignData{Op: d.Op, Target: target, OpType: target.Type}
	if d.Op == token.Assign {
		data.Value = em.coerce(value, target.Type)
	} else {
		base := d.Op.CompoundBase()
		in := em.c.in
		res := target.Type
		switch tk, vk := in.KindOf(target.Type), in.KindOf(value.Type); {
		case base == token.Plus && (tk == types.KindString || vk == types.KindString):
			res = in.Builtins().String
		case tk.IsNumeric() && vk.IsNumeric() && (base == token.Shl || base == token.Shr || base == token.UShr):
			res = in.UnaryPromote(target.Type)
		case tk.IsNumeric() && vk.IsNumeric():
			res = in.Promote(target.Type, value.Type)
		case tk == types.KindBool:
			res = in.Builtins().Bool
		}
		data.OpType = em.opType(base, target.Type, value.Type, res)
		data.Value = value
		if base != token.Shl && base != token.Shr && base != token.UShr {
			data.Value = em.coerce(value, data.OpType)
		}
	}
	return &hir.Expr{Kind: hir.ExprAssign, Type: t, Span: sp, Data: data}
}

func (em *emitter) call(id ast.ExprID, d ast.CallData, t types.TypeID, sp source.Span) *hir.Expr {
	c := em.eng.Call(id)
	if c == nil {
		return em.null(sp)
	}
	mk := func(kind hir.ExprKind, data hir.ExprData) *hir.Expr {
		return &hir.Expr{Kind: kind, Type: t, Span: sp, Data: data}
	}
	switch c.Kind {
	case infer.CallFunc:
		return mk(hir.ExprCall, hir.CallData{Func: c.Name, Args: em.args(c.Sig, d.Args)})
	case infer.CallMethod:
		recv := em.this(sp)
		if c.Recv.IsValid() {
			recv = em.expr(c.Recv)
		}
		return mk(hir.ExprMethodCall, hir.MethodCallData{Recv: recv, Class: c.Class.Name, Method: c.Name, Args: em.args(c.Sig, d.Args)})
	case infer.CallInvoke:
		target := c.Recv
		if !target.IsValid() {
			target = em.c.b.Unparen(d.Callee)
		}
		return mk(hir.ExprInvoke, hir.InvokeData{Target: em.expr(target), Method: c.Name, Args: em.args(c.Sig, d.Args)})
	case infer.CallIntrinsic:
		var args []*hir.Expr
		if c.Recv.IsValid() {
			args = append(args, em.expr(c.Recv))
		}
		for _, a := range d.Args {
			args = append(args, em.expr(a))
		}
		switch c.Name {
		case "Math.max", "Math.min", "Math.abs":
			for i := range args {
				args[i] = em.coerce(args[i], t)
			}
		case "push":
			if len(args) == 2 {
				args[1] = em.coerce(args[1], em.elem(args[0].Type))
			}
		}
		return em.intrinsic(c.Name, t, sp, args...)
	}
	return em.null(sp)
}

// args lowers call arguments, converting each to its parameter type.
// Arguments past the fixed parameters convert to the rest element type.
func (em *emitter) args(sig infer.Signature, args []ast.ExprID) []*hir.Expr {
	fixed := len(sig.Params)
	if sig.Rest {
		fixed--
	}
	out := make([]*hir.Expr, len(args))
	for i, a := range args {
		v := em.expr(a)
		switch {
		case i < fixed:
			v = em.coerce(v, sig.Params[i])
		case sig.Rest && fixed >= 0:
			v = em.coerce(v, em.elem(sig.Params[fixed]))
		}
		out[i] = v
	}
	return out
}

// makeClosure compiles literal lit and builds the expression creating
// it, reading each captured value in the current function.
func (em *emitter) makeClosure(lit ast.ExprID, sp source.Span) *hir.Expr {
	clo, err := em.c.compileLiteral(em, lit, em.table.Chain(lit), em.expectedOf(lit))
	if clo == nil {
		return em.null(sp)
	}
	if ce, ok := err.(*CompileError); ok {
		em.c.failures = append(em.c.failures, ce)
	}
	id := em.c.unit.AddClosure(clo)
	caps := make([]*hir.Expr, len(clo.Slots))
	for i, s := range clo.Slots {
		switch s.Kind {
		case capture.EnclosingInstanceRef:
			caps[i] = em.this(sp)
		case capture.ByValueCopy:
			caps[i] = em.read(s.Binding, sp, false)
		case capture.SharedMutableBox:
			caps[i] = em.read(s.Binding, sp, true)
		}
	}
	t := em.c.in.Builtins().Object
	if clo.Contract != nil {
		t = clo.Contract.Type
	}
	return &hir.Expr{Kind: hir.ExprMakeClosure, Type: t, Span: sp, Data: hir.MakeClosureData{Closure: id, Captures: caps}}
}
