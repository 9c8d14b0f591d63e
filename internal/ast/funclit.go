package ast

import "arrowc/internal/source"

// FuncLit is an arrow function literal.
//
//	<T>(x: T, [a, b]: int[], n: int = 1, ...rest: int[]): T => body
//
// Exactly one of ExprBody / BlockBody is set.
type FuncLit struct {
	TypeParams []TypeParam
	Params     []Param
	Return     TypeID // NoTypeID when omitted
	ExprBody   ExprID
	BlockBody  StmtID
	Generator  bool
	ArrowSpan  source.Span // the "=>" token
}

// HasBlockBody reports whether the body is a statement block.
func (f *FuncLit) HasBlockBody() bool { return f.BlockBody.IsValid() }

type TypeParam struct {
	Name string
	Span source.Span
}

// Param is one parameter. A destructuring parameter has Pattern set and an
// empty Name.
type Param struct {
	Name    string
	Span    source.Span
	Pattern PatternID
	Type    TypeID
	Default ExprID
	Rest    bool
}

type PatternKind uint8

const (
	PatArray PatternKind = iota + 1
	PatObject
)

// Pattern is a one-level destructuring pattern.
type Pattern struct {
	Kind  PatternKind
	Span  source.Span
	Elems []PatternElem
}

// PatternElem binds Name to position i (array) or to Key (object).
// A Rest element collects the remaining array elements.
type PatternElem struct {
	Name string
	Key  string
	Span source.Span
	Rest bool
	Hole bool // [ , b] skips a position
}
