package ast

import "arrowc/internal/source"

type TypeKind uint8

const (
	TypeName  TypeKind = iota + 1 // int, string, Foo, Function<int, long>
	TypeArray                     // T[]
	TypeFunc                      // (a: int, b: int) => int
)

// TypeExpr is a written type annotation.
type TypeExpr struct {
	Kind   TypeKind
	Span   source.Span
	Name   string
	Args   []TypeID // TypeName type arguments
	Elem   TypeID   // TypeArray
	Params []FuncTypeParam
	Result TypeID // TypeFunc
}

type FuncTypeParam struct {
	Name string
	Type TypeID
}
