package vm

import (
	"math"
	"strconv"
	"strings"

	"arrowc/internal/diag"
	"arrowc/internal/source"
	"arrowc/internal/token"
	"arrowc/internal/types"
)

// convert changes a numeric v to primitive kind k. Non-numeric values
// and non-numeric kinds pass through.
func convert(v Value, k types.Kind) Value {
	if !v.IsNumeric() || !k.IsNumeric() {
		return v
	}
	switch {
	case k == types.KindFloat || k == types.KindDouble:
		return Float(v.Float64(), k)
	case v.Kind == VKFloat:
		return Int(types.TruncFloat(v.F, k), k)
	}
	return Int(v.I, k)
}

// promote is binary numeric promotion on runtime kinds.
func promote(a, b types.Kind) types.Kind {
	switch {
	case a == types.KindDouble || b == types.KindDouble:
		return types.KindDouble
	case a == types.KindFloat || b == types.KindFloat:
		return types.KindFloat
	case a == types.KindLong || b == types.KindLong:
		return types.KindLong
	}
	return types.KindInt
}

func unaryPromote(k types.Kind) types.Kind {
	switch k {
	case types.KindByte, types.KindShort, types.KindChar:
		return types.KindInt
	}
	return k
}

// arith applies arithmetic, bitwise or shift operator op to numbers
// already converted to kind k. Shifts take the count from r whatever its
// kind.
func (m *Machine) arith(op token.Kind, l, r Value, k types.Kind, sp source.Span) (Value, *Fault) {
	if k == types.KindFloat || k == types.KindDouble {
		a, b := l.Float64(), r.Float64()
		var f float64
		switch op {
		case token.Plus:
			f = a + b
		case token.Minus:
			f = a - b
		case token.Star:
			f = a * b
		case token.Slash:
			f = a / b
		case token.Percent:
			f = math.Mod(a, b)
		default:
			return Value{}, m.fault(diag.RunBadCall, sp, "operator %s on %s", op, k)
		}
		return Float(f, k), nil
	}
	a, b := l.I, r.I
	width := uint64(31)
	if k == types.KindLong {
		width = 63
	}
	var v int64
	switch op {
	case token.Plus:
		v = a + b
	case token.Minus:
		v = a - b
	case token.Star:
		v = a * b
	case token.Slash, token.Percent:
		if b == 0 {
			return Value{}, m.fault(diag.RunDivideByZero, sp, "/ by zero")
		}
		if op == token.Slash {
			v = a / b
		} else {
			v = a % b
		}
	case token.Amp:
		v = a & b
	case token.Pipe:
		v = a | b
	case token.Caret:
		v = a ^ b
	case token.Shl:
		v = a << (uint64(b) & width)
	case token.Shr:
		v = a >> (uint64(b) & width)
	case token.UShr:
		if k == types.KindLong {
			v = int64(uint64(a) >> (uint64(b) & width))
		} else {
			v = int64(uint32(a) >> (uint64(b) & width))
		}
	default:
		return Value{}, m.fault(diag.RunBadCall, sp, "operator %s on %s", op, k)
	}
	return Int(v, k), nil
}

// compare orders two numbers of kind k. NaN compares false to everything.
func compare(op token.Kind, l, r Value, k types.Kind) bool {
	if k == types.KindFloat || k == types.KindDouble {
		a, b := l.Float64(), r.Float64()
		switch op {
		case token.Lt:
			return a < b
		case token.LtEq:
			return a <= b
		case token.Gt:
			return a > b
		case token.GtEq:
			return a >= b
		case token.EqEq, token.EqEqEq:
			return a == b
		case token.BangEq, token.BangEqEq:
			return a != b
		}
		return false
	}
	a, b := l.I, r.I
	switch op {
	case token.Lt:
		return a < b
	case token.LtEq:
		return a <= b
	case token.Gt:
		return a > b
	case token.GtEq:
		return a >= b
	case token.EqEq, token.EqEqEq:
		return a == b
	case token.BangEq, token.BangEqEq:
		return a != b
	}
	return false
}

// equal is == on values of any kind: numbers by value, strings by
// content, everything else by identity.
func equal(a, b Value) bool {
	switch {
	case a.IsNumeric() && b.IsNumeric():
		return compare(token.EqEq, convert(a, promote(a.Num, b.Num)), convert(b, promote(a.Num, b.Num)), promote(a.Num, b.Num))
	case a.Kind != b.Kind:
		return false
	}
	switch a.Kind {
	case VKNull:
		return true
	case VKBool:
		return a.B == b.B
	case VKString:
		return a.S == b.S
	}
	return a.H == b.H
}

// formatFloat prints like Java's Double.toString and Float.toString.
func formatFloat(f float64, k types.Kind) string {
	bits := 64
	if k == types.KindFloat {
		bits = 32
	}
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	if abs := math.Abs(f); abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, bits)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(f, 'E', -1, bits)
	mant, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	neg := strings.HasPrefix(exp, "-")
	exp = strings.TrimLeft(exp, "+-")
	exp = strings.TrimLeft(exp, "0")
	if neg {
		exp = "-" + exp
	}
	return mant + "E" + exp
}
