package vm

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf16"

	"arrowc/internal/diag"
	"arrowc/internal/hir"
	"arrowc/internal/types"
)

// intrinsic runs a built-in. Method-style intrinsics get the receiver
// as their first argument.
func (m *Machine) intrinsic(name string, args []Value, e *hir.Expr) (Value, *Fault) {
	arg := func(i int) Value {
		if i < len(args) {
			return args[i]
		}
		return Null()
	}
	switch name {
	case "print":
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		if _, err := fmt.Fprintln(m.out, strings.Join(parts, " ")); err != nil {
			return Value{}, m.fault(diag.RunBadCall, e.Span, "print: %v", err)
		}
		return Null(), nil
	case "toString":
		return String(arg(0).String()), nil
	case "length":
		switch v := arg(0); v.Kind {
		case VKArray:
			return Int32(int64(len(v.Array().Elems))), nil
		case VKString:
			return Int32(int64(len(utf16.Encode([]rune(v.S))))), nil
		case VKMap:
			return Int32(int64(len(v.Map().Keys))), nil
		case VKNull:
			return Value{}, m.nullRef(e.Span, "length")
		}
	case "push":
		arr := arg(0).Array()
		if arr == nil {
			return Value{}, m.nullRef(e.Span, "push")
		}
		arr.Elems = append(arr.Elems, arg(1))
		return Int32(int64(len(arr.Elems))), nil
	case "charAt":
		s := arg(0)
		if s.Kind != VKString {
			return Value{}, m.nullRef(e.Span, "charAt")
		}
		return m.charAt(s.S, arg(1).I, e)
	case "slice":
		arr := arg(0).Array()
		if arr == nil {
			return Value{}, m.nullRef(e.Span, "destructuring")
		}
		from := min(max(arg(1).I, 0), int64(len(arr.Elems)))
		return ArrayOf(append([]Value(nil), arr.Elems[from:]...)...), nil
	case "Math.max", "Math.min":
		return m.minMax(name == "Math.max", arg(0), arg(1), e)
	case "Math.abs":
		switch v := arg(0); v.Kind {
		case VKFloat:
			return Float(math.Abs(v.F), v.Num), nil
		case VKInt:
			if v.I < 0 {
				return Int(-v.I, v.Num), nil
			}
			return v, nil
		}
	case "Math.sqrt":
		if v := arg(0); v.IsNumeric() {
			return Double(math.Sqrt(v.Float64())), nil
		}
	default:
		return Value{}, m.fault(diag.RunBadCall, e.Span, "unknown intrinsic %s", name)
	}
	return Value{}, m.fault(diag.RunBadCall, e.Span, "%s on %s", name, arg(0).Kind)
}

func (m *Machine) minMax(isMax bool, a, b Value, e *hir.Expr) (Value, *Fault) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Value{}, m.nullRef(e.Span, "Math comparison")
	}
	k := m.in.KindOf(e.Type)
	if !k.IsNumeric() {
		k = promote(unaryPromote(a.Num), unaryPromote(b.Num))
	}
	a, b = convert(a, k), convert(b, k)
	if k == types.KindFloat || k == types.KindDouble {
		if isMax {
			return Float(math.Max(a.F, b.F), k), nil
		}
		return Float(math.Min(a.F, b.F), k), nil
	}
	if (a.I > b.I) == isMax {
		return a, nil
	}
	return b, nil
}
