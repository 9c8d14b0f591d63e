package infer

import (
	"strconv"

	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/source"
	"arrowc/internal/symbols"
	"arrowc/internal/types"
)

func (e *Engine) call(id ast.ExprID, d ast.CallData, want types.TypeID, span source.Span) types.TypeID {
	b := e.in.Builtins()
	callee := e.b.Unparen(d.Callee)
	ce := e.b.Expr(callee)
	if ce == nil {
		return b.Unresolved
	}
	switch ce.Kind {
	case ast.ExprFuncLit:
		return e.iife(id, callee, ce.Data.(*ast.FuncLit), d.Args, want, span)
	case ast.ExprIdent:
		name := ce.Data.(ast.IdentData).Name
		if bind := e.t.Ref(callee); bind != nil {
			switch bind.Kind {
			case symbols.BindFunc:
				fn := e.unit.Funcs[name]
				return e.apply(id, &Call{Kind: CallFunc, Name: name, Func: fn, Sig: e.unit.Signature(nil, fn, nil)}, d.Args, span)
			case symbols.BindMethod:
				m := e.class.Method(name)
				return e.apply(id, &Call{Kind: CallMethod, Name: name, Class: e.class, Func: m, Sig: e.unit.Signature(e.class, m, nil)}, d.Args, span)
			case symbols.BindIntrinsic:
				return e.intrinsic(id, name, ast.NoExprID, d.Args, span)
			case symbols.BindClass:
				e.args(d.Args)
				e.report(diag.TypeNotCallable, ce.Span, "class '%s' must be created with new", name).Emit()
				return b.Unresolved
			}
		}
	case ast.ExprMember:
		md := ce.Data.(ast.MemberData)
		if ns, ok := e.namespace(md.Target); ok {
			return e.intrinsic(id, ns+"."+md.Name, ast.NoExprID, d.Args, span)
		}
		return e.methodCall(id, callee, md, d.Args, span)
	}
	return e.invoke(id, callee, ast.NoExprID, d.Args, span)
}

// methodCall types recv.name(args).
func (e *Engine) methodCall(id, callee ast.ExprID, md ast.MemberData, args []ast.ExprID, span source.Span) types.TypeID {
	b := e.in.Builtins()
	rt := e.expr(md.Target, types.NoTypeID)
	t, _ := e.in.Lookup(rt)
	switch t.Kind {
	case types.KindUnresolved:
		e.args(args)
		return b.Unresolved
	case types.KindClass:
		cls := e.unit.Classes[t.Name]
		if cls == nil {
			break
		}
		if m := cls.Method(md.Name); m != nil && m.Name != "constructor" {
			return e.apply(id, &Call{Kind: CallMethod, Name: md.Name, Class: cls, Func: m, Recv: md.Target, Sig: e.unit.Signature(cls, m, nil)}, args, span)
		}
		if ft, ok := e.unit.FieldType(cls, md.Name, nil); ok {
			e.access[callee] = &Access{Kind: AccessField, Class: cls, Name: md.Name}
			e.exprs[callee] = ft
			return e.invoke(id, callee, ast.NoExprID, args, span)
		}
	case types.KindArray:
		if md.Name == "push" {
			return e.intrinsic(id, "push", md.Target, args, span)
		}
	case types.KindString:
		if md.Name == "charAt" {
			return e.intrinsic(id, "charAt", md.Target, args, span)
		}
	case types.KindContract:
		if inst, ok := e.unit.Resolver.FromType(rt); ok && inst.Contract.Method == md.Name {
			return e.invoke(id, md.Target, md.Target, args, span)
		}
	}
	if md.Name == "toString" && len(args) == 0 {
		return e.intrinsic(id, "toString", md.Target, args, span)
	}
	e.args(args)
	e.report(diag.TypeUnknownMember, md.NameSpan, "%s has no method '%s'", e.label(rt), md.Name).Emit()
	return b.Unresolved
}

// invoke calls a value through its contract. target is the expression
// holding the value; recv is recorded on the call when it differs from
// the callee expression.
func (e *Engine) invoke(id, target, recv ast.ExprID, args []ast.ExprID, span source.Span) types.TypeID {
	b := e.in.Builtins()
	t, ok := e.exprs[target]
	if !ok {
		t = e.expr(target, types.NoTypeID)
	}
	if e.unresolved(t) {
		e.args(args)
		return b.Unresolved
	}
	inst, ok := e.unit.Resolver.FromType(t)
	if !ok {
		e.args(args)
		e.report(diag.TypeNotCallable, e.b.Expr(target).Span, "%s is not callable", e.label(t)).Emit()
		return b.Unresolved
	}
	sig := Signature{
		Params:   make([]types.TypeID, len(inst.Params)),
		Optional: make([]bool, len(inst.Params)),
		Result:   e.in.Erase(inst.Result),
	}
	for i, p := range inst.Params {
		sig.Params[i] = e.in.Erase(p)
	}
	return e.apply(id, &Call{Kind: CallInvoke, Name: inst.Contract.Method, Recv: recv, Sig: sig, Instance: inst}, args, span)
}

// apply checks args against the call's signature and records the call.
func (e *Engine) apply(id ast.ExprID, c *Call, args []ast.ExprID, span source.Span) types.TypeID {
	e.calls[id] = c
	sig := c.Sig
	fixed := len(sig.Params)
	if sig.Rest {
		fixed--
	}
	if len(args) < sig.Required() || (!sig.Rest && len(args) > fixed) {
		switch req := sig.Required(); {
		case sig.Rest:
			e.report(diag.TypeArgCount, span, "%s takes at least %d arguments, got %d", c.Name, req, len(args)).Emit()
		case req != fixed:
			e.report(diag.TypeArgCount, span, "%s takes %d to %d arguments, got %d", c.Name, req, fixed, len(args)).Emit()
		default:
			e.report(diag.TypeArgCount, span, "%s takes %d arguments, got %d", c.Name, fixed, len(args)).Emit()
		}
	}
	for i, a := range args {
		want := types.NoTypeID
		switch {
		case i < fixed:
			want = sig.Params[i]
		case sig.Rest:
			if t, ok := e.in.Lookup(sig.Params[fixed]); ok && t.Kind == types.KindArray {
				want = t.Elem
			}
		}
		if want == types.NoTypeID {
			e.expr(a, types.NoTypeID)
			continue
		}
		e.expect(a, want, e.b.Expr(a).Span)
	}
	return sig.Result
}

func (e *Engine) args(args []ast.ExprID) {
	for _, a := range args {
		e.expr(a, types.NoTypeID)
	}
}

// intrinsic types a built-in call; recv, when valid, is passed first.
func (e *Engine) intrinsic(id ast.ExprID, name string, recv ast.ExprID, args []ast.ExprID, span source.Span) types.TypeID {
	b := e.in.Builtins()
	it, ok := LookupIntrinsic(name)
	if !ok {
		e.args(args)
		e.report(diag.TypeUnknownMember, span, "unknown built-in '%s'", name).Emit()
		return b.Unresolved
	}
	var ts []types.TypeID
	if recv.IsValid() {
		ts = append(ts, e.exprs[recv])
	}
	for _, a := range args {
		ts = append(ts, e.expr(a, types.NoTypeID))
	}
	e.calls[id] = &Call{Kind: CallIntrinsic, Name: name, Recv: recv}
	if len(ts) < it.Min || (it.Max >= 0 && len(ts) > it.Max) {
		e.report(diag.TypeArgCount, span, "%s takes %s arguments, got %d", name, arity(it), len(ts)).Emit()
		return b.Unresolved
	}
	res, msg := it.check(e.in, ts)
	if msg != "" {
		e.report(diag.TypeBadOperand, span, "%s", msg).Emit()
		return b.Unresolved
	}
	return res
}

func arity(it Intrinsic) string {
	switch {
	case it.Max < 0:
		return "at least " + strconv.Itoa(it.Min)
	case it.Min == it.Max:
		return strconv.Itoa(it.Min)
	}
	return strconv.Itoa(it.Min) + " to " + strconv.Itoa(it.Max)
}

func (e *Engine) newExpr(id ast.ExprID, d ast.NewData, span source.Span) types.TypeID {
	cls := e.unit.Classes[d.Class]
	if cls == nil {
		e.args(d.Args)
		return e.in.Builtins().Unresolved
	}
	c := &Call{Kind: CallNew, Name: cls.Name, Class: cls, Sig: Signature{Result: e.in.Builtins().Void}}
	if ctor := cls.Method("constructor"); ctor != nil {
		c.Func = ctor
		c.Sig = e.unit.Signature(cls, ctor, nil)
	}
	e.apply(id, c, d.Args, span)
	return e.in.Class(cls.Name)
}
