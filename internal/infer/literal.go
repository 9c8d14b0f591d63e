package infer

import (
	"errors"

	"arrowc/internal/ast"
	"arrowc/internal/contract"
	"arrowc/internal/diag"
	"arrowc/internal/source"
	"arrowc/internal/types"
)

// Literal types function literal id against the expected type want
// (types.NoTypeID for none) and returns the result. The enclosing member
// must have been typed first so captured variables have their types.
func (e *Engine) Literal(id ast.ExprID, want types.TypeID) *Literal {
	fl := e.b.FuncLit(id)
	if fl == nil {
		return nil
	}
	if e.root == nil {
		e.root = &frame{declared: e.in.Builtins().Void}
	}
	info := e.literal(id, fl, want, nil)
	e.exprs[id] = e.in.Builtins().Unresolved
	if info.Contract != nil {
		e.exprs[id] = info.Contract.Type
	}
	return info
}

// resolve picks the contract, without side effects on tentative passes.
func (e *Engine) resolve(s contract.Shape, expected *contract.Instance) (contract.Resolution, error) {
	if e.mute > 0 {
		return e.unit.Resolver.Probe(s, expected)
	}
	return e.unit.Resolver.Resolve(s, expected)
}

// shape collects the declared parameter and result types of fl. Type
// parameters of the literal are erased, or left for the expected
// contract to fill when there is one.
func (e *Engine) shape(fl *ast.FuncLit, open bool) contract.Shape {
	s := contract.Shape{
		Params:   make([]types.TypeID, len(fl.Params)),
		Optional: make([]bool, len(fl.Params)),
	}
	fix := func(t types.TypeID) types.TypeID {
		if !e.in.HasTypeParam(t) {
			return t
		}
		if open {
			return e.in.Builtins().Unresolved
		}
		return e.in.Erase(t)
	}
	for i, p := range fl.Params {
		s.Params[i] = fix(e.Annot(p.Type))
		s.Optional[i] = p.Default.IsValid()
		s.Rest = s.Rest || p.Rest
	}
	s.Result = fix(e.Annot(fl.Return))
	return s
}

func (e *Engine) literal(id ast.ExprID, fl *ast.FuncLit, want types.TypeID, args []types.TypeID) *Literal {
	b := e.in.Builtins()
	span := e.b.Expr(id).Span
	before := e.errors

	tps := make(map[string]bool)
	for name := range e.typeParams() {
		tps[name] = true
	}
	for _, tp := range fl.TypeParams {
		tps[tp.Name] = true
	}
	e.tparams = append(e.tparams, tps)
	defer func() { e.tparams = e.tparams[:len(e.tparams)-1] }()

	var expected *contract.Instance
	if e.kind(want) == types.KindContract {
		expected, _ = e.unit.Resolver.FromType(want)
	}
	s := e.shape(fl, expected != nil)
	e.fillArgs(&s, args)
	info := &Literal{Expr: id, Expected: expected}
	self := e.t.LitSelf[id]

	if expected != nil {
		res, err := e.resolve(s, expected)
		if err != nil {
			e.mismatch(err, span, want)
			info.Expected = nil
			s = e.shape(fl, false)
			e.fillArgs(&s, args)
		} else {
			info.Contract, info.Tier, info.Params = res.Instance, res.Tier, res.Params
		}
	}

	if info.Contract != nil {
		inst := info.Contract
		if self != 0 {
			e.binds[self] = inst.Type
		}
		result, fr := e.typeBody(id, fl, info.Params, s.Result, inst.Result)
		info.Returns = fr.returns
		info.Result = inst.Result
		if e.kind(inst.Result) == types.KindVoid {
			info.Discard = e.kind(result) != types.KindVoid && !e.unresolved(result)
		} else if e.unresolved(s.Result) {
			e.checkResult(info, result, span)
		}
	} else {
		params := s.Params
		if self != 0 {
			result := s.Result
			probe := append([]types.TypeID(nil), params...)
			if e.unresolved(result) {
				delete(e.binds, self)
				e.mute++
				result, _ = e.typeBody(id, fl, probe, s.Result, b.Unresolved)
				e.mute--
			}
			pr, _ := e.unit.Resolver.Probe(contract.Shape{Params: probe, Optional: s.Optional, Rest: s.Rest, Result: result}, nil)
			e.binds[self] = pr.Instance.Type
		}
		result, fr := e.typeBody(id, fl, params, s.Result, b.Unresolved)
		info.Returns = fr.returns
		if e.unresolved(result) && e.errors == before {
			e.report(diag.ClosureContractUnresolved, span, "cannot infer the result type of this literal").Emit()
		}
		res, _ := e.resolve(contract.Shape{Params: params, Optional: s.Optional, Rest: s.Rest, Result: result}, nil)
		info.Contract, info.Tier, info.Params = res.Instance, res.Tier, params
		info.Result = res.Instance.Result
		if self != 0 {
			e.binds[self] = res.Instance.Type
		}
	}

	info.Errors = e.errors - before
	e.lits[id] = info
	if e.mute == 0 && e.observer != nil {
		e.observer.ContractResolved(id, info)
		e.observer.TypesResolved(id, info)
	}
	return info
}

// fillArgs gives unresolved parameters of an immediately invoked literal
// the types of its arguments.
func (e *Engine) fillArgs(s *contract.Shape, args []types.TypeID) {
	if args == nil {
		return
	}
	fixed := len(s.Params)
	if s.Rest {
		fixed--
	}
	norm := func(t types.TypeID) types.TypeID {
		if e.kind(t) == types.KindNull {
			return e.in.Builtins().Object
		}
		return t
	}
	for i := 0; i < fixed && i < len(args); i++ {
		if e.unresolved(s.Params[i]) && !e.unresolved(args[i]) {
			s.Params[i] = norm(args[i])
		}
	}
	if !s.Rest || !e.unresolved(s.Params[fixed]) || len(args) <= fixed {
		return
	}
	elem := types.NoTypeID
	for _, a := range args[fixed:] {
		switch {
		case e.unresolved(a):
		case elem == types.NoTypeID:
			elem = norm(a)
		default:
			j, ok := e.in.Join(elem, a)
			if !ok {
				j = e.in.Builtins().Object
			}
			elem = j
		}
	}
	if elem != types.NoTypeID {
		s.Params[fixed] = e.in.Array(elem)
	}
}

// mismatch reports a failed adoption of the expected contract.
func (e *Engine) mismatch(err error, span source.Span, want types.TypeID) {
	var me *contract.MismatchError
	if !errors.As(err, &me) {
		e.report(diag.ClosureContractMismatch, span, "%v", err).Emit()
		return
	}
	code := diag.ClosureContractMismatch
	if me.Arity {
		code = diag.ClosureArityMismatch
	}
	e.report(code, span, "literal does not implement %s: %v", e.label(want), err).Emit()
}

// checkResult tests the inferred result against the contract result and
// reports narrowing at the offending return.
func (e *Engine) checkResult(info *Literal, result types.TypeID, span source.Span) {
	r := e.unit.Resolver
	if _, err := r.CheckResult(result, info.Result); err == nil {
		return
	}
	at := span
	got := result
	for _, ret := range info.Returns {
		if _, err := r.CheckResult(ret.Type, info.Result); err != nil {
			at, got = ret.Span, ret.Type
			break
		}
	}
	e.report(diag.ClosureContractMismatch, at, "%s returns %s, literal returns %s",
		info.Contract.Label(e.in), e.label(info.Result), e.label(got)).Emit()
}

// typeBody binds the parameters of fl and types its body. declared is the
// written result type, hint the contract result.
func (e *Engine) typeBody(id ast.ExprID, fl *ast.FuncLit, params []types.TypeID, declared, hint types.TypeID) (types.TypeID, *frame) {
	b := e.in.Builtins()
	fr := &frame{lit: id, declared: declared, hint: hint}
	e.frames = append(e.frames, fr)
	defer func() { e.frames = e.frames[:len(e.frames)-1] }()
	saved := e.loops
	e.loops = nil
	defer func() { e.loops = saved }()

	ids := e.t.Params[id]
	for i, p := range fl.Params {
		t := params[i]
		if p.Default.IsValid() {
			want := t
			if e.unresolved(want) {
				want = types.NoTypeID
			}
			dt := e.expr(p.Default, want)
			switch {
			case want != types.NoTypeID:
				e.assignable(dt, t, e.b.Expr(p.Default).Span)
			case e.kind(dt) == types.KindNull, e.unresolved(dt):
				t = b.Object
			default:
				t = dt
			}
			params[i] = t
		}
		if e.unresolved(t) {
			t = b.Object
			if p.Rest {
				t = e.in.Array(t)
			}
			params[i] = t
		}
		if p.Pattern.IsValid() {
			e.bindPattern(p.Pattern, t)
		} else if i < len(ids) && ids[i] != 0 {
			e.binds[ids[i]] = t
		}
	}

	if fl.HasBlockBody() {
		closed := e.stmt(fl.BlockBody)
		return e.blockResult(fr, closed, e.b.Expr(id).Span), fr
	}
	want := declared
	if e.unresolved(want) {
		want = hint
	}
	if e.unresolved(want) || e.kind(want) == types.KindVoid {
		want = types.NoTypeID
	}
	body := e.b.Expr(fl.ExprBody)
	t := e.expr(fl.ExprBody, want)
	fr.returns = append(fr.returns, Return{Span: body.Span, Type: t})
	if e.unresolved(declared) {
		return t, fr
	}
	if e.kind(declared) != types.KindVoid {
		e.assignable(t, declared, body.Span)
	}
	return declared, fr
}

// iife types an immediately invoked literal: the argument types stand in
// for missing parameter annotations.
func (e *Engine) iife(id, callee ast.ExprID, fl *ast.FuncLit, args []ast.ExprID, want types.TypeID, span source.Span) types.TypeID {
	ts := make([]types.TypeID, len(args))
	for i, a := range args {
		ts[i] = e.expr(a, types.NoTypeID)
	}
	info := e.literal(callee, fl, types.NoTypeID, ts)
	e.exprs[callee] = info.Contract.Type
	sig := Signature{
		Params:   info.Params,
		Optional: make([]bool, len(fl.Params)),
		Result:   info.Result,
	}
	for i, p := range fl.Params {
		sig.Optional[i] = p.Default.IsValid()
		sig.Rest = sig.Rest || p.Rest
	}
	c := &Call{Kind: CallInvoke, Name: info.Contract.Contract.Method, Sig: sig, Instance: info.Contract}
	e.calls[id] = c
	fixed := len(sig.Params)
	if sig.Rest {
		fixed--
	}
	if len(args) < sig.Required() || (!sig.Rest && len(args) > fixed) {
		e.report(diag.TypeArgCount, span, "literal takes %d arguments, got %d", fixed, len(args)).Emit()
	}
	for i, a := range args {
		var p types.TypeID
		switch {
		case i < fixed:
			p = sig.Params[i]
		case sig.Rest:
			p = e.in.Erase(elemOf(e.in, sig.Params[fixed]))
		default:
			continue
		}
		e.assignable(ts[i], p, e.b.Expr(a).Span)
	}
	if e.kind(info.Result) == types.KindVoid {
		return e.in.Builtins().Void
	}
	return info.Result
}

func elemOf(in *types.Interner, t types.TypeID) types.TypeID {
	if tt, ok := in.Lookup(t); ok && tt.Kind == types.KindArray {
		return tt.Elem
	}
	return in.Builtins().Object
}
