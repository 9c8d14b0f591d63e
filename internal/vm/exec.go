package vm

import (
	"unicode/utf16"

	"arrowc/internal/diag"
	"arrowc/internal/hir"
)

// flow is how a statement finished.
type flow uint8

const (
	flowNext flow = iota
	flowBreak
	flowContinue
	flowReturn
)

func (m *Machine) block(fr *frame, b *hir.Block) (flow, Value, *Fault) {
	if b == nil {
		return flowNext, Value{}, nil
	}
	for i := range b.Stmts {
		fl, v, f := m.stmt(fr, &b.Stmts[i])
		if f != nil || fl != flowNext {
			return fl, v, f
		}
	}
	return flowNext, Value{}, nil
}

func (m *Machine) stmt(fr *frame, s *hir.Stmt) (flow, Value, *Fault) {
	fr.span = s.Span
	switch d := s.Data.(type) {
	case hir.LetData:
		l := fr.fn.Local(d.Local)
		v := m.zero(l.Type)
		if d.Value != nil {
			var f *Fault
			if v, f = m.eval(fr, d.Value); f != nil {
				return flowNext, Value{}, f
			}
		}
		m.declare(fr, d.Local, v)
	case hir.ExprStmtData:
		if _, f := m.eval(fr, d.Expr); f != nil {
			return flowNext, Value{}, f
		}
	case hir.IfData:
		c, f := m.eval(fr, d.Cond)
		if f != nil {
			return flowNext, Value{}, f
		}
		if c.B {
			return m.block(fr, d.Then)
		}
		return m.block(fr, d.Else)
	case hir.WhileData:
		for {
			c, f := m.eval(fr, d.Cond)
			if f != nil {
				return flowNext, Value{}, f
			}
			if !c.B {
				break
			}
			fl, v, f := m.block(fr, d.Body)
			if f != nil || fl == flowReturn {
				return fl, v, f
			}
			if fl == flowBreak {
				break
			}
		}
	case hir.ForData:
		return m.forLoop(fr, d)
	case hir.ForOfData:
		return m.forOf(fr, d, s)
	case hir.ReturnData:
		if d.Value == nil {
			return flowReturn, Null(), nil
		}
		v, f := m.eval(fr, d.Value)
		if f != nil {
			return flowNext, Value{}, f
		}
		return flowReturn, v, nil
	case hir.BreakData:
		return flowBreak, Value{}, nil
	case hir.ContinueData:
		return flowContinue, Value{}, nil
	case hir.BlockStmtData:
		return m.block(fr, d.Block)
	case hir.PatchSelfData:
		v, f := m.eval(fr, d.Target)
		if f != nil {
			return flowNext, Value{}, f
		}
		clo := v.Closure()
		if clo == nil || d.Slot >= len(clo.Slots) {
			return flowNext, Value{}, m.fault(diag.RunSelfUnbound, s.Span, "cannot bind self slot %d", d.Slot)
		}
		clo.Slots[d.Slot].H.(*SelfCell).Set(v)
	case hir.DefaultData:
		p := m.localPlace(fr, d.Local)
		if p.get().Kind != VKMissing {
			break
		}
		v, f := m.eval(fr, d.Value)
		if f != nil {
			return flowNext, Value{}, f
		}
		p.set(v)
	}
	return flowNext, Value{}, nil
}

// declare initializes local id; a boxed local gets a fresh box.
func (m *Machine) declare(fr *frame, id hir.LocalID, v Value) {
	if fr.fn.Local(id).Boxed {
		v = boxValue(v)
	}
	fr.locals[id] = v
}

func (m *Machine) forLoop(fr *frame, d hir.ForData) (flow, Value, *Fault) {
	if fl, v, f := m.block(fr, d.Init); f != nil || fl == flowReturn {
		return fl, v, f
	}
	for {
		if d.Cond != nil {
			c, f := m.eval(fr, d.Cond)
			if f != nil {
				return flowNext, Value{}, f
			}
			if !c.B {
				return flowNext, Value{}, nil
			}
		}
		fl, v, f := m.block(fr, d.Body)
		if f != nil || fl == flowReturn {
			return fl, v, f
		}
		if fl == flowBreak {
			return flowNext, Value{}, nil
		}
		if d.Update != nil {
			if _, f := m.eval(fr, d.Update); f != nil {
				return flowNext, Value{}, f
			}
		}
	}
}

// forOf walks array elements, string chars or map keys, declaring the
// loop variable afresh for every element.
func (m *Machine) forOf(fr *frame, d hir.ForOfData, s *hir.Stmt) (flow, Value, *Fault) {
	it, f := m.eval(fr, d.Iter)
	if f != nil {
		return flowNext, Value{}, f
	}
	var elems []Value
	switch it.Kind {
	case VKArray:
		elems = append(elems, it.Array().Elems...)
	case VKString:
		for _, u := range utf16.Encode([]rune(it.S)) {
			elems = append(elems, Char(rune(u)))
		}
	case VKMap:
		for _, k := range it.Map().Keys {
			elems = append(elems, String(k))
		}
	case VKNull:
		return flowNext, Value{}, m.nullRef(s.Span, "for-of")
	}
	for _, e := range elems {
		m.declare(fr, d.Local, e)
		fl, v, f := m.block(fr, d.Body)
		if f != nil || fl == flowReturn {
			return fl, v, f
		}
		if fl == flowBreak {
			break
		}
	}
	return flowNext, Value{}, nil
}
