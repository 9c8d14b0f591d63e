package ast

import "arrowc/internal/source"

type StmtKind uint8

const (
	StmtDecl StmtKind = iota + 1
	StmtExpr
	StmtReturn
	StmtIf
	StmtWhile
	StmtFor
	StmtForOf
	StmtBreak
	StmtContinue
	StmtBlock
	StmtEmpty
)

func (k StmtKind) String() string {
	switch k {
	case StmtDecl:
		return "decl"
	case StmtExpr:
		return "expr"
	case StmtReturn:
		return "return"
	case StmtIf:
		return "if"
	case StmtWhile:
		return "while"
	case StmtFor:
		return "for"
	case StmtForOf:
		return "for-of"
	case StmtBreak:
		return "break"
	case StmtContinue:
		return "continue"
	case StmtBlock:
		return "block"
	case StmtEmpty:
		return "empty"
	}
	return "unknown"
}

type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

type StmtData interface{ stmtData() }

type DeclKind uint8

const (
	DeclConst DeclKind = iota + 1
	DeclLet
	DeclVar
)

func (k DeclKind) String() string {
	switch k {
	case DeclConst:
		return "const"
	case DeclLet:
		return "let"
	case DeclVar:
		return "var"
	}
	return "?"
}

// DeclData is `const|let|var name[: T] [= init]`.
type DeclData struct {
	Kind     DeclKind
	Name     string
	NameSpan source.Span
	Type     TypeID
	Init     ExprID
}

type ExprStmtData struct {
	Expr ExprID
}

type ReturnData struct {
	Value ExprID // NoExprID for a bare return
}

type IfData struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

type WhileData struct {
	Cond ExprID
	Body StmtID
}

type ForData struct {
	Init   StmtID // decl or expression statement, optional
	Cond   ExprID
	Update ExprID
	Body   StmtID
}

type ForOfData struct {
	Decl DeclData // Init unused
	Iter ExprID
	Body StmtID
}

type BlockData struct {
	Stmts []StmtID
}

type EmptyData struct{}

func (*DeclData) stmtData()    {}
func (ExprStmtData) stmtData() {}
func (ReturnData) stmtData()   {}
func (IfData) stmtData()       {}
func (WhileData) stmtData()    {}
func (ForData) stmtData()      {}
func (*ForOfData) stmtData()   {}
func (BlockData) stmtData()    {}
func (EmptyData) stmtData()    {}
