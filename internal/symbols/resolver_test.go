package symbols

import (
	"testing"

	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/parser"
	"arrowc/internal/source"
)

func resolveMain(t *testing.T, src string) (*Table, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.arrow", []byte(src)))
	bag := diag.NewBag(50)
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(f, b, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Codes())
	}
	file := b.File(res.File)
	u := Universe{"print": BindIntrinsic}
	var m Member
	for _, id := range file.Items {
		switch d := b.Item(id).Data.(type) {
		case *ast.FuncDecl:
			u[d.Name] = BindFunc
			if d.Name == "main" {
				m = Member{Func: d, Span: b.Item(id).Span}
			}
		case *ast.ClassDecl:
			u[d.Name] = BindClass
			if meth := d.Method("run"); meth != nil {
				m = Member{Class: d, Func: meth, Span: b.Item(id).Span}
			}
		}
	}
	return Resolve(b, m, u, diag.BagReporter{Bag: bag}), bag
}

func bindingNamed(t *testing.T, tab *Table, name string) *Binding {
	t.Helper()
	for i := range tab.Bindings {
		if tab.Bindings[i].Name == name && tab.Bindings[i].Kind.IsVariable() {
			return &tab.Bindings[i]
		}
	}
	t.Fatalf("no binding %q", name)
	return nil
}

func TestCaptureSites(t *testing.T) {
	tab, bag := resolveMain(t, `function main() {
	let x = 1
	const y = 2
	const f = () => x + y
	const g = () => () => x
	x = 3
}`)
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", bag.Codes())
	}
	x := bindingNamed(t, tab, "x")
	if len(x.Captures) != 2 {
		t.Fatalf("x captures = %d, want 2 (f and the outer literal of g)", len(x.Captures))
	}
	if len(x.Writes) != 1 || x.Writes[0].Owner != ast.NoExprID {
		t.Fatalf("x writes = %+v", x.Writes)
	}
	if y := bindingNamed(t, tab, "y"); len(y.Captures) != 1 || len(y.Writes) != 0 || y.Mutable {
		t.Fatalf("y = %+v", y)
	}
	if len(tab.Literals) != 3 {
		t.Fatalf("literals = %d", len(tab.Literals))
	}
	inner := tab.Literals[2]
	if !tab.Encloses(tab.Literals[1], inner) || tab.Encloses(tab.Literals[0], inner) {
		t.Fatalf("literal nesting wrong")
	}
}

func TestSelfReference(t *testing.T) {
	tab, bag := resolveMain(t, `function main() {
	const fact = (n: int): int => n <= 1 ? 1 : n * fact(n - 1)
	const bad = print(() => bad)
	const early = early + 1
}`)
	if len(tab.SelfRefs) != 1 {
		t.Fatalf("self refs = %d", len(tab.SelfRefs))
	}
	fact := bindingNamed(t, tab, "fact")
	if tab.LitSelf[tab.Literals[0]] != fact.ID || tab.LitBinding[tab.Literals[0]] != fact.ID {
		t.Fatalf("literal not bound to fact")
	}
	if len(fact.Captures) != 0 {
		t.Fatalf("self reference recorded as capture")
	}
	if len(tab.InvalidSelf) != 1 {
		t.Fatalf("invalid self refs = %d", len(tab.InvalidSelf))
	}
	if got := bag.Codes(); len(got) != 1 || got[0] != diag.NameUseBeforeInit {
		t.Fatalf("codes = %v", got)
	}
}

func TestLoopNesting(t *testing.T) {
	tab, _ := resolveMain(t, `function main() {
	const fs = []
	for (let i = 0; i < 3; i++) {
		fs.push(() => i)
	}
	for (const v of fs) {
		print(() => v)
	}
}`)
	i := bindingNamed(t, tab, "i")
	if len(i.Loops) != 0 {
		t.Fatalf("for-header declaration inside its loop: %v", i.Loops)
	}
	if len(i.Writes) != 1 || len(i.Writes[0].Loops) != 1 || len(i.Captures[0].Loops) != 1 {
		t.Fatalf("i sites = %+v / %+v", i.Writes, i.Captures)
	}
	if v := bindingNamed(t, tab, "v"); len(v.Loops) != 1 {
		t.Fatalf("for-of variable should be declared per iteration")
	}
}

func TestImplicitThisAndUnknown(t *testing.T) {
	tab, bag := resolveMain(t, `class Counter {
	count: int = 0
	run() {
		const f = () => count + missing
		return nowhere
	}
}`)
	var field *Binding
	for i := range tab.Bindings {
		if tab.Bindings[i].Name == "count" {
			field = &tab.Bindings[i]
		}
	}
	if field == nil || field.Kind != BindField {
		t.Fatalf("count not resolved as field")
	}
	if len(tab.Unresolved) != 1 {
		t.Fatalf("unresolved in literal = %d", len(tab.Unresolved))
	}
	if got := bag.Codes(); len(got) != 1 || got[0] != diag.NameUnknown {
		t.Fatalf("codes = %v", got)
	}
}

func TestAssignConst(t *testing.T) {
	_, bag := resolveMain(t, "function main() {\n  const a = 1\n  const f = () => { a = 2 }\n}")
	if got := bag.Codes(); len(got) != 1 || got[0] != diag.NameAssignConst {
		t.Fatalf("codes = %v", got)
	}
}
