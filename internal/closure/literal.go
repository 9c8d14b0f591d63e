package closure

import (
	"fmt"

	"arrowc/internal/ast"
	"arrowc/internal/capture"
	"arrowc/internal/contract"
	"arrowc/internal/diag"
	"arrowc/internal/hir"
	"arrowc/internal/symbols"
	"arrowc/internal/trace"
	"arrowc/internal/types"
)

// CompileLiteral compiles function literal lit of the member compiled
// last. chain is the scope chain visible at the literal, innermost first;
// expected is the contract the context requires, or nil. The returned
// closure is not added to the unit.
//
// When the literal fails, the closure built so far is returned together
// with a *CompileError listing the diagnostics inside it.
func (c *Compiler) CompileLiteral(lit ast.ExprID, chain []symbols.ScopeID, expected *contract.Instance) (*hir.Closure, error) {
	if c.cur == nil {
		return nil, ErrNoMember
	}
	return c.compileLiteral(c.cur, lit, chain, expected)
}

func (c *Compiler) compileLiteral(em *emitter, lit ast.ExprID, chain []symbols.ScopeID, expected *contract.Instance) (*hir.Closure, error) {
	fl := c.b.FuncLit(lit)
	if fl == nil {
		return nil, fmt.Errorf("%w: #%d", ErrNotLiteral, lit)
	}
	span := c.b.Expr(lit).Span
	sp := trace.Begin(c.tracer, trace.ScopeLiteral, "literal:"+em.closureName(lit), em.span)

	stage := StageUnanalyzed
	failed := false
	res := em.analyzer.Analyze(lit)
	if em.checkChain(lit, res.Slots, chain)+res.Errors > 0 {
		failed = true
	}
	if !failed {
		stage = advance(stage, StageCapturesResolved)
	}

	info := em.eng.LiteralInfo(lit)
	if info == nil || !sameInstance(info.Expected, expected) {
		want := types.NoTypeID
		if expected != nil {
			want = expected.Type
		}
		info = em.eng.Literal(lit, want)
	}
	if info.Contract == nil {
		failed = true
	}
	if !failed {
		stage = advance(stage, StageContractResolved)
	}
	em.slotTypes(res.Slots)
	if info.Errors > 0 {
		failed = true
	}
	if !failed {
		stage = advance(stage, StageTypesResolved)
	}

	clo := em.emit(lit, fl, res, info)
	if diags := c.errorsIn(span); len(diags) > 0 || failed {
		c.stages[clo] = stage
		sp.End("failed after " + stage.String())
		return clo, &CompileError{Literal: lit, Span: span, Stage: stage, diags: diags}
	}
	stage = advance(stage, StageEmitted)
	c.stages[clo] = stage
	for i, s := range clo.Slots {
		trace.Point(c.tracer, trace.ScopeNode, "slot",
			fmt.Sprintf("%d %s %s %s", i, s.Name, s.Kind, c.in.Label(s.Type)), sp.ID())
	}
	sp.End(info.Contract.Label(c.in))
	return clo, nil
}

// expectedOf is the contract the member's inference settled as the
// literal's context.
func (em *emitter) expectedOf(lit ast.ExprID) *contract.Instance {
	if info := em.eng.LiteralInfo(lit); info != nil {
		return info.Expected
	}
	return nil
}

func sameInstance(a, b *contract.Instance) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Type == b.Type
}

// checkChain reports captured bindings that are not declared in a scope
// of chain, at their first reference inside the literal.
func (em *emitter) checkChain(lit ast.ExprID, slots []capture.Slot, chain []symbols.ScopeID) int {
	visible := make(map[symbols.ScopeID]bool, len(chain))
	for _, s := range chain {
		visible[s] = true
	}
	errs := 0
	for _, s := range slots {
		if s.Kind == capture.EnclosingInstanceRef {
			continue
		}
		b := em.table.Binding(s.Binding)
		if b != nil && visible[b.Scope] {
			continue
		}
		at := s.Ref
		if at.Empty() {
			at = em.c.b.Expr(lit).Span
		}
		diag.ReportError(em.c.reporter, diag.ClosureUnresolvableCapture, at,
			fmt.Sprintf("'%s' is not visible from this function literal", s.Name)).
			WithNote(s.Decl, "declared here").
			Emit()
		errs++
	}
	return errs
}

// slotTypes fills in the type of every slot.
func (em *emitter) slotTypes(slots []capture.Slot) {
	for i := range slots {
		s := &slots[i]
		if s.Kind == capture.EnclosingInstanceRef {
			s.Type = em.classType()
			continue
		}
		s.Type = em.eng.BindingType(s.Binding)
	}
}
