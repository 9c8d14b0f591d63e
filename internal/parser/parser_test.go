package parser

import (
	"testing"

	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/token"
)

func TestArrowForms(t *testing.T) {
	b, f := parseOK(t, `function main() {
	const a = x => x + 1
	const b = (x: int, y: int): int => x * y
	const c = () => { return 1 }
	const d = <T>(x: T): T => x
	const e = ([first, , ...rest]: int[], {k, v: w}: Map<string, int>) => first
	const g = (n: int = 2, ...more: int[]) => n
}`)
	stmts := funcBody(t, b, f)
	if len(stmts) != 6 {
		t.Fatalf("got %d statements", len(stmts))
	}
	cases := []struct {
		params   int
		block    bool
		ret      bool
		typarams int
	}{
		{1, false, false, 0},
		{2, false, true, 0},
		{0, true, false, 0},
		{1, false, true, 1},
		{2, false, false, 0},
		{2, false, false, 0},
	}
	for i, tc := range cases {
		lit := b.FuncLit(declInit(t, b, stmts[i]))
		if lit == nil {
			t.Fatalf("stmt %d: not an arrow literal", i)
		}
		if len(lit.Params) != tc.params || lit.HasBlockBody() != tc.block ||
			lit.Return.IsValid() != tc.ret || len(lit.TypeParams) != tc.typarams {
			t.Errorf("stmt %d: params=%d block=%v ret=%v typarams=%d", i,
				len(lit.Params), lit.HasBlockBody(), lit.Return.IsValid(), len(lit.TypeParams))
		}
	}

	e := b.FuncLit(declInit(t, b, stmts[4]))
	arr := b.Pattern(e.Params[0].Pattern)
	if arr.Kind != ast.PatArray || len(arr.Elems) != 3 || !arr.Elems[1].Hole || !arr.Elems[2].Rest {
		t.Fatalf("array pattern = %+v", arr)
	}
	obj := b.Pattern(e.Params[1].Pattern)
	if obj.Kind != ast.PatObject || obj.Elems[1].Key != "v" || obj.Elems[1].Name != "w" {
		t.Fatalf("object pattern = %+v", obj)
	}
	g := b.FuncLit(declInit(t, b, stmts[5]))
	if !g.Params[0].Default.IsValid() || !g.Params[1].Rest {
		t.Fatalf("default/rest not parsed: %+v", g.Params)
	}
}

func TestTernaryIsNotArrow(t *testing.T) {
	b, f := parseOK(t, "function main() {\n  const v = ok ? (a) : b\n}")
	init := declInit(t, b, funcBody(t, b, f)[0])
	if k := b.Expr(init).Kind; k != ast.ExprCond {
		t.Fatalf("kind = %s, want cond", k)
	}
}

func TestNestedGenericClose(t *testing.T) {
	b, f := parseOK(t, `function main() {
	const m: Map<string, List<int>> = {}
	const h: Function<int, Function<int, Function<int, int>>> = a => b => c => a + b + c
	const cmp = x >= 1
}`)
	stmts := funcBody(t, b, f)
	d := b.Stmt(stmts[0]).Data.(*ast.DeclData)
	ty := b.Type(d.Type)
	if ty.Name != "Map" || len(ty.Args) != 2 || b.Type(ty.Args[1]).Name != "List" {
		t.Fatalf("type = %+v", ty)
	}
	curried := b.FuncLit(declInit(t, b, stmts[1]))
	inner := b.FuncLit(curried.ExprBody)
	if inner == nil || b.FuncLit(inner.ExprBody) == nil {
		t.Fatalf("curried literal not nested")
	}
	cmp := b.Expr(declInit(t, b, stmts[2])).Data.(ast.BinaryData)
	if cmp.Op != token.GtEq {
		t.Fatalf("op = %s", cmp.Op)
	}
}

func TestFunctionType(t *testing.T) {
	b, f := parseOK(t, "function main() {\n  const add: (a: int, b: int) => int = (a, b) => a + b\n}")
	d := b.Stmt(funcBody(t, b, f)[0]).Data.(*ast.DeclData)
	ty := b.Type(d.Type)
	if ty.Kind != ast.TypeFunc || len(ty.Params) != 2 || b.Type(ty.Result).Name != "int" {
		t.Fatalf("type = %+v", ty)
	}
}

func TestSemicolonInsertion(t *testing.T) {
	b, f := parseOK(t, "function main() {\n  let x = 1\n  x++\n  const f = () => x\n  (f)()\n  return\n}")
	stmts := funcBody(t, b, f)
	want := []ast.StmtKind{ast.StmtDecl, ast.StmtExpr, ast.StmtDecl, ast.StmtExpr, ast.StmtReturn}
	if len(stmts) != len(want) {
		t.Fatalf("got %d statements", len(stmts))
	}
	for i, k := range want {
		if got := b.Stmt(stmts[i]).Kind; got != k {
			t.Errorf("stmt %d = %s, want %s", i, got, k)
		}
	}
	if lit := b.FuncLit(declInit(t, b, stmts[2])); b.Expr(lit.ExprBody).Kind != ast.ExprIdent {
		t.Fatalf("'(' on a new line continued the literal body")
	}
}

func TestNumericLiterals(t *testing.T) {
	b, f := parseOK(t, "function main() {\n  const a = 2147483647\n  const b = 2147483648\n  const c = -2147483648\n  const d = 3L\n  const e = 1.5f\n  const g = 0xFFFFFFFF\n}")
	want := []ast.LitKind{ast.LitInt, ast.LitLong, ast.LitInt, ast.LitLong, ast.LitFloat, ast.LitInt}
	for i, st := range funcBody(t, b, f) {
		lit := b.Expr(declInit(t, b, st)).Data.(ast.LiteralData)
		if lit.Kind != want[i] {
			t.Errorf("literal %d (%s): kind %d, want %d", i, lit.Text, lit.Kind, want[i])
		}
	}
}

func TestItems(t *testing.T) {
	b, f := parseOK(t, `import { IntUnaryOperator, Supplier } from 'java.util.function'

namespace app.util {
	export interface Transformer<T> {
		apply(x: T): T
	}
	class Counter implements Transformer {
		count: int = 0
		constructor(start: int) { this.count = start }
		apply(x: int): int { return x + this.count }
	}
}

function main(): void {}
`)
	if len(f.Items) != 4 {
		t.Fatalf("items = %d", len(f.Items))
	}
	imp := b.Item(f.Items[0]).Data.(*ast.ImportDecl)
	if len(imp.Names) != 2 || imp.From != "java.util.function" {
		t.Fatalf("import = %+v", imp)
	}
	iface := b.Item(f.Items[1])
	if !iface.Exported || iface.Namespace != "app.util" {
		t.Fatalf("interface item = %+v", iface)
	}
	if d := iface.Data.(*ast.InterfaceDecl); len(d.TypeParams) != 1 || len(d.Methods) != 1 {
		t.Fatalf("interface = %+v", d)
	}
	cls := b.Item(f.Items[2]).Data.(*ast.ClassDecl)
	if len(cls.Fields) != 1 || len(cls.Methods) != 2 || cls.Method("constructor") == nil || cls.Implements[0] != "Transformer" {
		t.Fatalf("class = %+v", cls)
	}
	if b.Item(f.Items[3]).Namespace != "" {
		t.Fatalf("namespace leaked out of its block")
	}
}

func TestStatements(t *testing.T) {
	b, f := parseOK(t, `function main() {
	for (let i = 0; i < 3; i++) { if (i == 1) continue; else break }
	for (const x of xs) print(x)
	while (true) {}
	const s = new Counter(1).apply(2) as long
	arr[0] += obj.f
}`)
	stmts := funcBody(t, b, f)
	want := []ast.StmtKind{ast.StmtFor, ast.StmtForOf, ast.StmtWhile, ast.StmtDecl, ast.StmtExpr}
	for i, k := range want {
		if got := b.Stmt(stmts[i]).Kind; got != k {
			t.Errorf("stmt %d = %s, want %s", i, got, k)
		}
	}
	if k := b.Expr(declInit(t, b, stmts[3])).Kind; k != ast.ExprCast {
		t.Errorf("cast parsed as %s", k)
	}
	as := b.Expr(b.Stmt(stmts[4]).Data.(ast.ExprStmtData).Expr).Data.(ast.AssignData)
	if as.Op != token.PlusAssign || b.Expr(as.Target).Kind != ast.ExprIndex {
		t.Errorf("assign = %+v", as)
	}
}

func TestRecovery(t *testing.T) {
	_, f, bag := parseSource(t, `function main() {
	const a = (1 +
	const b = 2
}
const stray = 1
function ok() { return 1 }
`)
	if !bag.HasErrors() {
		t.Fatalf("expected diagnostics")
	}
	codes := map[diag.Code]bool{}
	for _, c := range bag.Codes() {
		codes[c] = true
	}
	if !codes[diag.SynUnexpectedTopLevel] {
		t.Errorf("missing SynUnexpectedTopLevel: %s", diagnosticsSummary(bag))
	}
	if len(f.Items) == 0 {
		t.Fatalf("no items recovered")
	}
}

func TestRestMustBeLast(t *testing.T) {
	_, _, bag := parseSource(t, "function main() { const f = (...a: int[], b: int) => b }")
	if got := bag.Codes(); len(got) != 1 || got[0] != diag.SynRestMustBeLast {
		t.Fatalf("codes = %v", got)
	}
}

func TestInvalidAssignTarget(t *testing.T) {
	_, _, bag := parseSource(t, "function main() { 1 = 2 }")
	if got := bag.Codes(); len(got) != 1 || got[0] != diag.SynInvalidAssignTarget {
		t.Fatalf("codes = %v", got)
	}
}
