package vm

import (
	"unicode/utf16"

	"arrowc/internal/diag"
	"arrowc/internal/hir"
)

// place is an assignable location, resolved once so compound
// assignments evaluate their target's operands a single time.
type place struct {
	get func() Value
	set func(Value)
}

func (m *Machine) localPlace(fr *frame, id hir.LocalID) place {
	if b, ok := fr.locals[id].H.(*Box); ok {
		return boxPlace(b)
	}
	return place{
		get: func() Value { return fr.locals[id] },
		set: func(v Value) { fr.locals[id] = v },
	}
}

func boxPlace(b *Box) place {
	return place{
		get: func() Value { return b.V },
		set: func(v Value) { b.V = v },
	}
}

// placeOf resolves an assignment target: a local, a capture slot, a field
// or an element.
func (m *Machine) placeOf(fr *frame, e *hir.Expr) (place, *Fault) {
	switch d := e.Data.(type) {
	case hir.LocalData:
		return m.localPlace(fr, d.Local), nil
	case hir.CaptureData:
		slots := fr.clo.Slots
		if b, ok := slots[d.Slot].H.(*Box); ok {
			return boxPlace(b), nil
		}
		return place{
			get: func() Value { return slots[d.Slot] },
			set: func(v Value) { slots[d.Slot] = v },
		}, nil
	case hir.FieldData:
		ov, f := m.eval(fr, d.Object)
		if f != nil {
			return place{}, f
		}
		obj := ov.Object()
		if obj == nil {
			return place{}, m.nullRef(e.Span, "field '"+d.Name+"'")
		}
		return place{
			get: func() Value { return obj.Fields[d.Name] },
			set: func(v Value) { obj.Fields[d.Name] = v },
		}, nil
	case hir.IndexData:
		tv, f := m.eval(fr, d.Target)
		if f != nil {
			return place{}, f
		}
		iv, f := m.eval(fr, d.Index)
		if f != nil {
			return place{}, f
		}
		switch tv.Kind {
		case VKArray:
			arr := tv.Array()
			i := iv.I
			if i < 0 || i >= int64(len(arr.Elems)) {
				return place{}, m.fault(diag.RunIndexOutOfRange, e.Span, "index %d out of range for length %d", i, len(arr.Elems))
			}
			return place{
				get: func() Value { return arr.Elems[i] },
				set: func(v Value) { arr.Elems[i] = v },
			}, nil
		case VKMap:
			mp := tv.Map()
			key := iv.String()
			return place{
				get: func() Value {
					if v, ok := mp.Get(key); ok {
						return v
					}
					return Null()
				},
				set: func(v Value) { mp.Set(key, v) },
			}, nil
		case VKNull:
			return place{}, m.nullRef(e.Span, "index")
		}
	}
	return place{}, m.fault(diag.RunBadCall, e.Span, "cannot assign to %s", e.Kind)
}

// index reads an array element, a string char or a map value.
func (m *Machine) index(fr *frame, e *hir.Expr, d hir.IndexData) (Value, *Fault) {
	tv, f := m.eval(fr, d.Target)
	if f != nil {
		return Value{}, f
	}
	if tv.Kind == VKString {
		iv, f := m.eval(fr, d.Index)
		if f != nil {
			return Value{}, f
		}
		return m.charAt(tv.S, iv.I, e)
	}
	if tv.Kind == VKNull {
		return Value{}, m.nullRef(e.Span, "index")
	}
	iv, f := m.eval(fr, d.Index)
	if f != nil {
		return Value{}, f
	}
	switch tv.Kind {
	case VKArray:
		arr := tv.Array()
		if iv.I < 0 || iv.I >= int64(len(arr.Elems)) {
			return Value{}, m.fault(diag.RunIndexOutOfRange, e.Span, "index %d out of range for length %d", iv.I, len(arr.Elems))
		}
		return arr.Elems[iv.I], nil
	case VKMap:
		if v, ok := tv.Map().Get(iv.String()); ok {
			return v, nil
		}
		return Null(), nil
	}
	return Value{}, m.fault(diag.RunBadCall, e.Span, "cannot index %s", tv.Kind)
}

func (m *Machine) charAt(s string, i int64, e *hir.Expr) (Value, *Fault) {
	units := utf16.Encode([]rune(s))
	if i < 0 || i >= int64(len(units)) {
		return Value{}, m.fault(diag.RunIndexOutOfRange, e.Span, "index %d out of range for length %d", i, len(units))
	}
	return Char(rune(units[i])), nil
}
