package ast

import (
	"testing"

	"arrowc/internal/source"
	"arrowc/internal/token"
)

func TestInspectEntersLiterals(t *testing.T) {
	b := NewBuilder(Hints{})
	sp := source.Span{}
	x := b.NewExpr(ExprIdent, sp, IdentData{Name: "x"})
	y := b.NewExpr(ExprIdent, sp, IdentData{Name: "y"})
	sum := b.NewExpr(ExprBinary, sp, BinaryData{Op: token.Plus, Left: x, Right: y})
	def := b.NewExpr(ExprIdent, sp, IdentData{Name: "d"})
	lit := b.NewExpr(ExprFuncLit, sp, &FuncLit{
		Params:   []Param{{Name: "p", Default: def}},
		ExprBody: sum,
	})
	ret := b.NewStmt(StmtReturn, sp, ReturnData{Value: b.NewExpr(ExprGroup, sp, GroupData{Inner: lit})})

	var names []string
	b.InspectStmt(ret, func(_ ExprID, e *Expr) bool {
		if id, ok := e.Data.(IdentData); ok {
			names = append(names, id.Name)
		}
		return true
	})
	if len(names) != 3 || names[0] != "d" || names[1] != "x" || names[2] != "y" {
		t.Fatalf("names = %v", names)
	}

	names = names[:0]
	b.InspectStmt(ret, func(_ ExprID, e *Expr) bool {
		if id, ok := e.Data.(IdentData); ok {
			names = append(names, id.Name)
		}
		return e.Kind != ExprFuncLit
	})
	if len(names) != 0 {
		t.Fatalf("literal was entered: %v", names)
	}
	if b.FuncLit(b.Unparen(b.Stmt(ret).Data.(ReturnData).Value)) == nil {
		t.Fatal("Unparen did not reach the literal")
	}
}

func TestArenaOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil || a.Get(1) != nil {
		t.Fatal("empty arena returned a value")
	}
	id := a.Allocate(7)
	if id != 1 || *a.Get(id) != 7 || a.Len() != 1 {
		t.Fatalf("id=%d", id)
	}
}
