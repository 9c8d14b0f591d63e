package parser

import (
	"fmt"
	"strings"
	"testing"

	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/source"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func parseSource(t *testing.T, src string) (*ast.Builder, *ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.arrow", []byte(src)))
	bag := diag.NewBag(50)
	b := ast.NewBuilder(ast.Hints{})
	res := ParseFile(f, b, Options{Reporter: diag.BagReporter{Bag: bag}})
	return b, b.File(res.File), bag
}

func parseOK(t *testing.T, src string) (*ast.Builder, *ast.File) {
	t.Helper()
	b, f, bag := parseSource(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	return b, f
}

// funcBody returns the statements of the first function item.
func funcBody(t *testing.T, b *ast.Builder, f *ast.File) []ast.StmtID {
	t.Helper()
	for _, id := range f.Items {
		if fn, ok := b.Item(id).Data.(*ast.FuncDecl); ok {
			return b.Stmt(fn.Body).Data.(ast.BlockData).Stmts
		}
	}
	t.Fatalf("no function item")
	return nil
}

func declInit(t *testing.T, b *ast.Builder, id ast.StmtID) ast.ExprID {
	t.Helper()
	d, ok := b.Stmt(id).Data.(*ast.DeclData)
	if !ok {
		t.Fatalf("statement is %s, want decl", b.Stmt(id).Kind)
	}
	return d.Init
}
