package ast

import (
	"arrowc/internal/source"
)

type Hints struct{ Items, Stmts, Exprs uint }

// Builder owns all node arenas of one parsed file set.
type Builder struct {
	Files    *Arena[File]
	Items    *Arena[Item]
	Stmts    *Arena[Stmt]
	Exprs    *Arena[Expr]
	Types    *Arena[TypeExpr]
	Patterns *Arena[Pattern]
}

func NewBuilder(hints Hints) *Builder {
	if hints.Items == 0 {
		hints.Items = 1 << 5
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 9
	}
	return &Builder{
		Files:    NewArena[File](1),
		Items:    NewArena[Item](hints.Items),
		Stmts:    NewArena[Stmt](hints.Stmts),
		Exprs:    NewArena[Expr](hints.Exprs),
		Types:    NewArena[TypeExpr](hints.Exprs / 4),
		Patterns: NewArena[Pattern](4),
	}
}

func (b *Builder) NewFile(path string, sp source.Span) FileID {
	return FileID(b.Files.Allocate(File{Path: path, Span: sp}))
}

func (b *Builder) File(id FileID) *File { return b.Files.Get(uint32(id)) }

func (b *Builder) NewItem(kind ItemKind, sp source.Span, data ItemData) ItemID {
	return ItemID(b.Items.Allocate(Item{Kind: kind, Span: sp, Data: data}))
}

func (b *Builder) Item(id ItemID) *Item { return b.Items.Get(uint32(id)) }

func (b *Builder) PushItem(file FileID, item ItemID) {
	f := b.File(file)
	f.Items = append(f.Items, item)
}

func (b *Builder) NewStmt(kind StmtKind, sp source.Span, data StmtData) StmtID {
	return StmtID(b.Stmts.Allocate(Stmt{Kind: kind, Span: sp, Data: data}))
}

func (b *Builder) Stmt(id StmtID) *Stmt { return b.Stmts.Get(uint32(id)) }

func (b *Builder) NewExpr(kind ExprKind, sp source.Span, data ExprData) ExprID {
	return ExprID(b.Exprs.Allocate(Expr{Kind: kind, Span: sp, Data: data}))
}

func (b *Builder) Expr(id ExprID) *Expr { return b.Exprs.Get(uint32(id)) }

func (b *Builder) NewType(t TypeExpr) TypeID {
	return TypeID(b.Types.Allocate(t))
}

func (b *Builder) Type(id TypeID) *TypeExpr { return b.Types.Get(uint32(id)) }

func (b *Builder) NewPattern(p Pattern) PatternID {
	return PatternID(b.Patterns.Allocate(p))
}

func (b *Builder) Pattern(id PatternID) *Pattern { return b.Patterns.Get(uint32(id)) }

// FuncLit returns the literal payload of id, or nil.
func (b *Builder) FuncLit(id ExprID) *FuncLit {
	e := b.Expr(id)
	if e == nil || e.Kind != ExprFuncLit {
		return nil
	}
	return e.Data.(*FuncLit)
}

// Unparen strips grouping parentheses.
func (b *Builder) Unparen(id ExprID) ExprID {
	for {
		e := b.Expr(id)
		if e == nil || e.Kind != ExprGroup {
			return id
		}
		id = e.Data.(GroupData).Inner
	}
}

// IdentName returns the name if id is a plain identifier.
func (b *Builder) IdentName(id ExprID) (string, bool) {
	e := b.Expr(b.Unparen(id))
	if e == nil || e.Kind != ExprIdent {
		return "", false
	}
	return e.Data.(IdentData).Name, true
}
