package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindUnresolved is an omitted annotation that inference has not filled
	// in yet. It flows through the pipeline as a normal type.
	KindUnresolved
	KindVoid
	KindBool
	KindByte
	KindShort
	KindChar
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindString
	KindObject
	KindNull
	KindArray
	KindMap
	KindClass
	KindContract
	KindTypeParam
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnresolved:
		return "unresolved"
	case KindVoid:
		return "void"
	case KindBool:
		return "boolean"
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindObject:
		return "Object"
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindClass:
		return "class"
	case KindContract:
		return "contract"
	case KindTypeParam:
		return "typeparam"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsPrimitive reports the value kinds that are stored unboxed.
func (k Kind) IsPrimitive() bool {
	return k >= KindBool && k <= KindDouble
}

// IsNumeric reports byte through double, char included.
func (k Kind) IsNumeric() bool {
	return k >= KindByte && k <= KindDouble
}

// IsIntegral reports byte, short, char, int and long.
func (k Kind) IsIntegral() bool {
	return k >= KindByte && k <= KindLong
}

// IsReference reports kinds whose values are heap references (null allowed).
func (k Kind) IsReference() bool {
	switch k {
	case KindString, KindObject, KindNull, KindArray, KindMap, KindClass, KindContract, KindTypeParam:
		return true
	}
	return false
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind Kind
	Elem TypeID   // array element, map value
	Key  TypeID   // map key
	Name string   // class, contract or type parameter name
	Args []TypeID // contract type arguments
}

// MakeArray describes T[].
func MakeArray(elem TypeID) Type {
	return Type{Kind: KindArray, Elem: elem}
}

// MakeMap describes Map<K, V>.
func MakeMap(key, value TypeID) Type {
	return Type{Kind: KindMap, Key: key, Elem: value}
}

// MakeClass describes an instance of a user class.
func MakeClass(name string) Type {
	return Type{Kind: KindClass, Name: name}
}

// MakeContract describes a value implementing the named call contract.
func MakeContract(name string, args ...TypeID) Type {
	return Type{Kind: KindContract, Name: name, Args: args}
}

// MakeTypeParam describes a literal's generic type parameter.
func MakeTypeParam(name string) Type {
	return Type{Kind: KindTypeParam, Name: name}
}
