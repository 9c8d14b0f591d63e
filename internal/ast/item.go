package ast

import "arrowc/internal/source"

type ItemKind uint8

const (
	ItemFunc ItemKind = iota + 1
	ItemClass
	ItemInterface
	ItemImport
)

type Item struct {
	Kind      ItemKind
	Span      source.Span
	Namespace string // dotted, empty at top level
	Exported  bool
	Data      ItemData
}

type ItemData interface{ itemData() }

// FuncDecl is a top-level function or a class method.
type FuncDecl struct {
	Name     string
	NameSpan source.Span
	Params   []Param
	Return   TypeID
	Body     StmtID
}

type FieldDecl struct {
	Name     string
	NameSpan source.Span
	Type     TypeID
	Init     ExprID
}

type ClassDecl struct {
	Name       string
	NameSpan   source.Span
	Implements []string
	Fields     []FieldDecl
	Methods    []*FuncDecl
}

// MethodSig is an abstract interface method.
type MethodSig struct {
	Name     string
	NameSpan source.Span
	Params   []Param
	Return   TypeID
}

type InterfaceDecl struct {
	Name       string
	NameSpan   source.Span
	TypeParams []TypeParam
	Methods    []MethodSig
}

type ImportName struct {
	Name string
	Span source.Span
}

type ImportDecl struct {
	Names []ImportName
	From  string
}

func (*FuncDecl) itemData()      {}
func (*ClassDecl) itemData()     {}
func (*InterfaceDecl) itemData() {}
func (*ImportDecl) itemData()    {}

// Method returns the class method called name, or nil.
func (c *ClassDecl) Method(name string) *FuncDecl {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Field returns the field called name, or nil.
func (c *ClassDecl) Field(name string) *FieldDecl {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

type File struct {
	Span  source.Span
	Path  string
	Items []ItemID
}
