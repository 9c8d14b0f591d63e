package vm

import (
	"arrowc/internal/capture"
	"arrowc/internal/diag"
	"arrowc/internal/hir"
	"arrowc/internal/source"
	"arrowc/internal/token"
	"arrowc/internal/types"
)

func (m *Machine) eval(fr *frame, e *hir.Expr) (Value, *Fault) {
	switch d := e.Data.(type) {
	case hir.ConstData:
		return m.constant(e, d), nil
	case hir.LocalData:
		v := fr.locals[d.Local]
		if b, ok := v.H.(*Box); ok && !d.Ref {
			return b.V, nil
		}
		return v, nil
	case hir.CaptureData:
		v := fr.clo.Slots[d.Slot]
		if b, ok := v.H.(*Box); ok && !d.Ref {
			return b.V, nil
		}
		return v, nil
	case hir.SelfRefData:
		cell, _ := fr.clo.Slots[d.Slot].H.(*SelfCell)
		if cell == nil {
			return Value{}, m.fault(diag.RunSelfUnbound, e.Span, "self slot %d is not a cell", d.Slot)
		}
		v, ok := cell.Get()
		if !ok {
			return Value{}, m.fault(diag.RunSelfUnbound, e.Span, "%s read before it was bound", fr.clo.Unit.Name)
		}
		return v, nil
	case hir.ThisData:
		return fr.this, nil
	case hir.FieldData:
		ov, f := m.eval(fr, d.Object)
		if f != nil {
			return Value{}, f
		}
		obj := ov.Object()
		if obj == nil {
			return Value{}, m.nullRef(e.Span, "field '"+d.Name+"'")
		}
		return obj.Fields[d.Name], nil
	case hir.UnaryData:
		v, f := m.eval(fr, d.Operand)
		if f != nil {
			return Value{}, f
		}
		return m.unary(d.Op, v, e.Span)
	case hir.BinaryData:
		l, f := m.eval(fr, d.Left)
		if f != nil {
			return Value{}, f
		}
		r, f := m.eval(fr, d.Right)
		if f != nil {
			return Value{}, f
		}
		return m.binary(d.Op, l, r, m.in.KindOf(d.OpType), e.Span)
	case hir.LogicalData:
		l, f := m.eval(fr, d.Left)
		if f != nil {
			return Value{}, f
		}
		if (d.Op == token.AndAnd) != l.B {
			return l, nil
		}
		return m.eval(fr, d.Right)
	case hir.CondData:
		c, f := m.eval(fr, d.Cond)
		if f != nil {
			return Value{}, f
		}
		if c.B {
			return m.eval(fr, d.Then)
		}
		return m.eval(fr, d.Else)
	case hir.ConvertData:
		v, f := m.eval(fr, d.Value)
		if f != nil {
			return Value{}, f
		}
		k := m.in.KindOf(e.Type)
		if v.IsNull() && k.IsPrimitive() {
			return Value{}, m.nullRef(e.Span, "conversion to "+k.String())
		}
		return convert(v, k), nil
	case hir.CallData:
		fn := m.unit.Funcs[d.Func]
		if fn == nil {
			return Value{}, m.fault(diag.RunBadCall, e.Span, "no function '%s'", d.Func)
		}
		args, f := m.args(fr, d.Args)
		if f != nil {
			return Value{}, f
		}
		return m.invoke(fn, Null(), nil, args, m.packed(fn, d.Args), e.Span)
	case hir.InvokeData:
		tv, f := m.eval(fr, d.Target)
		if f != nil {
			return Value{}, f
		}
		clo := tv.Closure()
		if clo == nil {
			return Value{}, m.nullRef(e.Span, "call of "+d.Method)
		}
		args, f := m.args(fr, d.Args)
		if f != nil {
			return Value{}, f
		}
		return m.invoke(clo.Unit.Func, Null(), clo, args, m.packed(clo.Unit.Func, d.Args), e.Span)
	case hir.MethodCallData:
		rv, f := m.eval(fr, d.Recv)
		if f != nil {
			return Value{}, f
		}
		obj := rv.Object()
		if obj == nil {
			return Value{}, m.nullRef(e.Span, "call of "+d.Method)
		}
		fn := obj.Class.Methods[d.Method]
		if fn == nil {
			return Value{}, m.fault(diag.RunBadCall, e.Span, "%s has no method '%s'", obj.Class.Name, d.Method)
		}
		args, f := m.args(fr, d.Args)
		if f != nil {
			return Value{}, f
		}
		return m.invoke(fn, rv, nil, args, m.packed(fn, d.Args), e.Span)
	case hir.NewData:
		c := m.unit.Classes[d.Class]
		if c == nil {
			return Value{}, m.fault(diag.RunBadCall, e.Span, "no class '%s'", d.Class)
		}
		args, f := m.args(fr, d.Args)
		if f != nil {
			return Value{}, f
		}
		return m.instantiate(c, args, e.Span)
	case hir.MakeClosureData:
		return m.makeClosure(fr, d, e.Span)
	case hir.IndexData:
		return m.index(fr, e, d)
	case hir.ArrayLitData:
		elems, f := m.args(fr, d.Elems)
		if f != nil {
			return Value{}, f
		}
		return ArrayOf(elems...), nil
	case hir.MapLitData:
		mp := NewMap()
		for i, k := range d.Keys {
			v, f := m.eval(fr, d.Values[i])
			if f != nil {
				return Value{}, f
			}
			mp.Set(k, v)
		}
		return MapValue(mp), nil
	case hir.AssignData:
		return m.assign(fr, e, d)
	case hir.IntrinsicData:
		args, f := m.args(fr, d.Args)
		if f != nil {
			return Value{}, f
		}
		return m.intrinsic(d.Name, args, e)
	}
	return Value{}, m.fault(diag.RunBadCall, e.Span, "cannot evaluate %s", e.Kind)
}

func (m *Machine) constant(e *hir.Expr, d hir.ConstData) Value {
	k := m.in.KindOf(e.Type)
	switch d.Kind {
	case hir.ConstBool:
		return Bool(d.Bool)
	case hir.ConstInt:
		if !k.IsIntegral() {
			k = types.KindInt
		}
		return Int(d.Int, k)
	case hir.ConstFloat:
		if k != types.KindFloat {
			k = types.KindDouble
		}
		return Float(d.Float, k)
	case hir.ConstString:
		return String(d.String)
	}
	return Null()
}

func (m *Machine) args(fr *frame, list []*hir.Expr) ([]Value, *Fault) {
	out := make([]Value, len(list))
	for i, a := range list {
		v, f := m.eval(fr, a)
		if f != nil {
			return nil, f
		}
		out[i] = v
	}
	return out, nil
}

// packed reports whether a call to fn passes its rest array as is: the
// argument count matches and the last argument already has array type.
func (m *Machine) packed(fn *hir.Func, args []*hir.Expr) bool {
	if !fn.Rest || len(args) != len(fn.Params) {
		return false
	}
	at := args[len(args)-1].Type
	pt := fn.Local(fn.Params[len(fn.Params)-1]).Type
	if at == pt {
		return true
	}
	a, _ := m.in.Lookup(at)
	p, _ := m.in.Lookup(pt)
	return a.Kind == types.KindArray && p.Kind == types.KindArray && m.in.KindOf(p.Elem) != types.KindArray
}

// makeClosure creates a closure instance, filling each slot from its
// capture expression. The self slot starts as an empty cell.
func (m *Machine) makeClosure(fr *frame, d hir.MakeClosureData, sp source.Span) (Value, *Fault) {
	clo := m.unit.Closure(d.Closure)
	if clo == nil {
		return Value{}, m.fault(diag.RunBadCall, sp, "no closure #%d", d.Closure)
	}
	inst := &Closure{Unit: clo, Slots: make([]Value, len(clo.Slots))}
	for i, s := range clo.Slots {
		if s.Kind == capture.SelfRecursiveRef {
			inst.Slots[i] = Value{Kind: VKCell, H: &SelfCell{}}
			continue
		}
		if i >= len(d.Captures) || d.Captures[i] == nil {
			continue
		}
		v, f := m.eval(fr, d.Captures[i])
		if f != nil {
			return Value{}, f
		}
		if s.Kind == capture.SharedMutableBox && v.Kind != VKBox {
			v = boxValue(v)
		}
		inst.Slots[i] = v
	}
	return ClosureValue(inst), nil
}

func (m *Machine) unary(op token.Kind, v Value, sp source.Span) (Value, *Fault) {
	switch op {
	case token.Bang:
		return Bool(!v.B), nil
	case token.Minus:
		switch v.Kind {
		case VKFloat:
			return Float(-v.F, v.Num), nil
		case VKInt:
			return Int(-v.I, unaryPromote(v.Num)), nil
		}
	case token.Tilde:
		if v.Kind == VKInt {
			return Int(^v.I, unaryPromote(v.Num)), nil
		}
	}
	return Value{}, m.fault(diag.RunBadCall, sp, "operator %s on %s", op, v.Kind)
}

func isComparison(op token.Kind) bool {
	switch op {
	case token.Lt, token.LtEq, token.Gt, token.GtEq, token.EqEq, token.EqEqEq, token.BangEq, token.BangEqEq:
		return true
	}
	return false
}

// binary applies op in kind k. Operands of a numeric k are already
// converted; any other k decides on the runtime values.
func (m *Machine) binary(op token.Kind, l, r Value, k types.Kind, sp source.Span) (Value, *Fault) {
	if k.IsNumeric() {
		if isComparison(op) {
			return Bool(compare(op, convert(l, k), convert(r, k), k)), nil
		}
		switch op {
		case token.Shl, token.Shr, token.UShr:
			return m.arith(op, convert(l, k), r, k, sp)
		}
		return m.arith(op, convert(l, k), convert(r, k), k, sp)
	}
	switch op {
	case token.EqEq, token.EqEqEq:
		return Bool(equal(l, r)), nil
	case token.BangEq, token.BangEqEq:
		return Bool(!equal(l, r)), nil
	case token.Plus:
		if l.Kind == VKString || r.Kind == VKString || k == types.KindString {
			return String(l.String() + r.String()), nil
		}
	case token.Amp, token.Pipe, token.Caret:
		if l.Kind == VKBool && r.Kind == VKBool {
			switch op {
			case token.Amp:
				return Bool(l.B && r.B), nil
			case token.Pipe:
				return Bool(l.B || r.B), nil
			}
			return Bool(l.B != r.B), nil
		}
	}
	if !l.IsNumeric() || !r.IsNumeric() {
		return Value{}, m.fault(diag.RunBadCall, sp, "operator %s on %s and %s", op, l.Kind, r.Kind)
	}
	dk := promote(unaryPromote(l.Num), unaryPromote(r.Num))
	switch op {
	case token.Shl, token.Shr, token.UShr:
		dk = unaryPromote(l.Num)
		if dk == types.KindFloat || dk == types.KindDouble {
			return Value{}, m.fault(diag.RunBadCall, sp, "operator %s on %s", op, dk)
		}
	}
	return m.binary(op, l, r, dk, sp)
}

func one(k types.Kind) Value {
	if k == types.KindFloat || k == types.KindDouble {
		return Float(1, k)
	}
	return Int(1, k)
}

// assign stores into the target and yields the stored value, or the old
// one for a postfix update.
func (m *Machine) assign(fr *frame, e *hir.Expr, d hir.AssignData) (Value, *Fault) {
	p, f := m.placeOf(fr, d.Target)
	if f != nil {
		return Value{}, f
	}
	switch d.Op {
	case token.Assign:
		v, f := m.eval(fr, d.Value)
		if f != nil {
			return Value{}, f
		}
		p.set(v)
		return v, nil
	case token.PlusPlus, token.MinusMinus:
		old := p.get()
		if !old.IsNumeric() {
			return Value{}, m.fault(diag.RunBadCall, e.Span, "operator %s on %s", d.Op, old.Kind)
		}
		op := token.Plus
		if d.Op == token.MinusMinus {
			op = token.Minus
		}
		nv, f := m.arith(op, old, one(old.Num), old.Num, e.Span)
		if f != nil {
			return Value{}, f
		}
		p.set(nv)
		if d.Postfix {
			return old, nil
		}
		return nv, nil
	}
	old := p.get()
	v, f := m.eval(fr, d.Value)
	if f != nil {
		return Value{}, f
	}
	r, f := m.binary(d.Op.CompoundBase(), old, v, m.in.KindOf(d.OpType), e.Span)
	if f != nil {
		return Value{}, f
	}
	nv := convert(r, m.in.KindOf(d.Target.Type))
	p.set(nv)
	return nv, nil
}
