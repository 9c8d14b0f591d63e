package ast

import (
	"arrowc/internal/source"
	"arrowc/internal/token"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota + 1
	ExprLiteral
	ExprThis
	ExprUnary
	ExprBinary
	ExprAssign
	ExprCond
	ExprCall
	ExprNew
	ExprMember
	ExprIndex
	ExprArray
	ExprObject
	ExprCast
	ExprGroup
	ExprFuncLit
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "ident"
	case ExprLiteral:
		return "literal"
	case ExprThis:
		return "this"
	case ExprUnary:
		return "unary"
	case ExprBinary:
		return "binary"
	case ExprAssign:
		return "assign"
	case ExprCond:
		return "cond"
	case ExprCall:
		return "call"
	case ExprNew:
		return "new"
	case ExprMember:
		return "member"
	case ExprIndex:
		return "index"
	case ExprArray:
		return "array"
	case ExprObject:
		return "object"
	case ExprCast:
		return "cast"
	case ExprGroup:
		return "group"
	case ExprFuncLit:
		return "funclit"
	}
	return "unknown"
}

// Expr is one expression node; Data holds the kind-specific payload.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Data ExprData
}

// ExprData is implemented by every payload struct below.
type ExprData interface{ exprData() }

type LitKind uint8

const (
	LitInt LitKind = iota + 1
	LitLong
	LitFloat
	LitDouble
	LitString
	LitBool
	LitNull
)

type IdentData struct {
	Name string
}

type LiteralData struct {
	Kind LitKind
	Text string // digits, unescaped string, "true"/"false"
}

// UnaryData covers prefix - ! ~ ++ -- and postfix ++ --.
type UnaryData struct {
	Op      token.Kind
	Operand ExprID
	Postfix bool
}

type BinaryData struct {
	Op    token.Kind
	Left  ExprID
	Right ExprID
}

type AssignData struct {
	Op     token.Kind // Assign or a compound assignment
	Target ExprID
	Value  ExprID
}

type CondData struct {
	Cond, Then, Else ExprID
}

type CallData struct {
	Callee ExprID
	Args   []ExprID
}

type NewData struct {
	Class     string
	ClassSpan source.Span
	Args      []ExprID
}

type MemberData struct {
	Target   ExprID
	Name     string
	NameSpan source.Span
}

type IndexData struct {
	Target ExprID
	Index  ExprID
}

type ArrayData struct {
	Elems []ExprID
}

type ObjectField struct {
	Key     string
	KeySpan source.Span
	Value   ExprID // for shorthand {a} an ident expression
}

type ObjectData struct {
	Fields []ObjectField
}

type CastData struct {
	Value ExprID
	Type  TypeID
}

type GroupData struct {
	Inner ExprID
}

type ThisData struct{}

func (IdentData) exprData()   {}
func (LiteralData) exprData() {}
func (UnaryData) exprData()   {}
func (BinaryData) exprData()  {}
func (AssignData) exprData()  {}
func (CondData) exprData()    {}
func (CallData) exprData()    {}
func (NewData) exprData()     {}
func (MemberData) exprData()  {}
func (IndexData) exprData()   {}
func (ArrayData) exprData()   {}
func (ObjectData) exprData()  {}
func (CastData) exprData()    {}
func (GroupData) exprData()   {}
func (ThisData) exprData()    {}
func (*FuncLit) exprData()    {}
