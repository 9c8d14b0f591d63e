// Package vm runs compiled units: top-level functions, class members and
// the closures created from function literals.
package vm

import (
	"fmt"
	"strings"

	"arrowc/internal/hir"
	"arrowc/internal/types"
)

// ValueKind identifies the runtime type of a Value.
type ValueKind uint8

const (
	VKNull ValueKind = iota
	VKBool
	// VKInt covers byte, short, char, int and long; Value.Num says which.
	VKInt
	// VKFloat covers float and double.
	VKFloat
	VKString
	VKArray
	VKMap
	VKObject
	VKClosure
	// VKBox is a shared mutable cell held by a local or a closure slot.
	VKBox
	// VKCell is the self cell of a SelfRecursiveRef slot.
	VKCell
	// VKMissing marks an argument the caller left out.
	VKMissing
)

func (k ValueKind) String() string {
	switch k {
	case VKNull:
		return "null"
	case VKBool:
		return "boolean"
	case VKInt:
		return "int"
	case VKFloat:
		return "double"
	case VKString:
		return "string"
	case VKArray:
		return "array"
	case VKMap:
		return "map"
	case VKObject:
		return "object"
	case VKClosure:
		return "closure"
	case VKBox:
		return "box"
	case VKCell:
		return "cell"
	case VKMissing:
		return "missing"
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

// Value is a tagged runtime value. Numbers carry their exact primitive
// kind so arithmetic and printing follow it.
type Value struct {
	Kind ValueKind
	Num  types.Kind
	I    int64
	F    float64
	B    bool
	S    string
	H    any // *Array, *Map, *Object, *Closure, *Box or *SelfCell
}

// Array is a growable array shared by reference.
type Array struct {
	Elems []Value
}

// Map keeps string keys in insertion order.
type Map struct {
	Keys   []string
	Values map[string]Value
}

func NewMap() *Map {
	return &Map{Values: make(map[string]Value)}
}

func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.Values[key]
	return v, ok
}

func (m *Map) Set(key string, v Value) {
	if _, ok := m.Values[key]; !ok {
		m.Keys = append(m.Keys, key)
	}
	m.Values[key] = v
}

// Object is a class instance.
type Object struct {
	ID     uint64
	Class  *hir.Class
	Fields map[string]Value
}

// Closure is one evaluation of a function literal: the compiled unit and
// the values of its slots.
type Closure struct {
	Unit  *hir.Closure
	Slots []Value
}

func Null() Value { return Value{Kind: VKNull} }

func Bool(b bool) Value { return Value{Kind: VKBool, B: b} }

// Int makes an integral value of kind k, wrapping v to its width.
func Int(v int64, k types.Kind) Value {
	return Value{Kind: VKInt, Num: k, I: types.NarrowInt(v, k)}
}

func Int32(v int64) Value { return Int(v, types.KindInt) }

func Long(v int64) Value { return Int(v, types.KindLong) }

func Char(r rune) Value { return Int(int64(r), types.KindChar) }

// Float makes a floating value of kind k; float rounds to 32 bits.
func Float(f float64, k types.Kind) Value {
	if k == types.KindFloat {
		f = float64(float32(f))
	}
	return Value{Kind: VKFloat, Num: k, F: f}
}

func Double(f float64) Value { return Float(f, types.KindDouble) }

func String(s string) Value { return Value{Kind: VKString, S: s} }

func ArrayOf(elems ...Value) Value {
	return Value{Kind: VKArray, H: &Array{Elems: elems}}
}

func MapValue(m *Map) Value { return Value{Kind: VKMap, H: m} }

func ObjectValue(o *Object) Value { return Value{Kind: VKObject, H: o} }

func ClosureValue(c *Closure) Value { return Value{Kind: VKClosure, H: c} }

func missing() Value { return Value{Kind: VKMissing} }

func (v Value) IsNull() bool { return v.Kind == VKNull }

func (v Value) IsNumeric() bool { return v.Kind == VKInt || v.Kind == VKFloat }

func (v Value) Array() *Array {
	a, _ := v.H.(*Array)
	return a
}

func (v Value) Map() *Map {
	m, _ := v.H.(*Map)
	return m
}

func (v Value) Object() *Object {
	o, _ := v.H.(*Object)
	return o
}

func (v Value) Closure() *Closure {
	c, _ := v.H.(*Closure)
	return c
}

// Float64 is the numeric value as a float.
func (v Value) Float64() float64 {
	if v.Kind == VKFloat {
		return v.F
	}
	return float64(v.I)
}

// String renders v the way string concatenation and print do.
func (v Value) String() string {
	switch v.Kind {
	case VKNull:
		return "null"
	case VKBool:
		if v.B {
			return "true"
		}
		return "false"
	case VKInt:
		if v.Num == types.KindChar {
			return string(rune(v.I))
		}
		return fmt.Sprint(v.I)
	case VKFloat:
		return formatFloat(v.F, v.Num)
	case VKString:
		return v.S
	case VKArray:
		a := v.Array()
		parts := make([]string, len(a.Elems))
		for i, e := range a.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VKMap:
		m := v.Map()
		parts := make([]string, len(m.Keys))
		for i, k := range m.Keys {
			parts[i] = k + "=" + m.Values[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case VKObject:
		o := v.Object()
		return fmt.Sprintf("%s@%x", o.Class.Name, o.ID)
	case VKClosure:
		return v.Closure().Unit.Name
	case VKBox:
		return v.H.(*Box).V.String()
	}
	return "<" + v.Kind.String() + ">"
}
