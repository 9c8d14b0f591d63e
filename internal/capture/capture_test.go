package capture

import (
	"strings"
	"testing"

	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/parser"
	"arrowc/internal/source"
	"arrowc/internal/symbols"
)

type fixture struct {
	table *symbols.Table
	class *Classification
	an    *Analyzer
	bag   *diag.Bag
}

// setup resolves the method `run` of the first class, or function main.
func setup(t *testing.T, src string) *fixture {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.arrow", []byte(src)))
	bag := diag.NewBag(50)
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(f, b, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Codes())
	}
	u := symbols.Universe{"print": symbols.BindIntrinsic}
	var m symbols.Member
	for _, id := range b.File(res.File).Items {
		switch d := b.Item(id).Data.(type) {
		case *ast.FuncDecl:
			u[d.Name] = symbols.BindFunc
			if d.Name == "main" {
				m = symbols.Member{Func: d}
			}
		case *ast.ClassDecl:
			u[d.Name] = symbols.BindClass
			if meth := d.Method("run"); meth != nil {
				m = symbols.Member{Class: d, Func: meth}
			}
		}
	}
	r := diag.BagReporter{Bag: bag}
	tab := symbols.Resolve(b, m, u, r)
	cl := Classify(tab)
	return &fixture{table: tab, class: cl, an: NewAnalyzer(tab, cl, r), bag: bag}
}

func (fx *fixture) binding(t *testing.T, name string) *symbols.Binding {
	t.Helper()
	for i := range fx.table.Bindings {
		if b := &fx.table.Bindings[i]; b.Name == name && b.Kind.IsVariable() {
			return b
		}
	}
	t.Fatalf("no binding %q", name)
	return nil
}

func TestClassifyBoxing(t *testing.T) {
	fx := setup(t, `function main() {
	let counter = 0
	const writer = () => { counter++ }
	let late = 1
	const readLate = () => late
	late = 2
	let early = 1
	early = 5
	const readEarly = () => early
	const fixed = 7
	const readFixed = () => fixed
	let uncaptured = 0
	uncaptured = 1
}`)
	cases := []struct {
		name   string
		reason Reason
	}{
		{"counter", WrittenInLiteral},
		{"late", WrittenAfterCapture},
		{"early", NotBoxed},
		{"fixed", NotBoxed},
		{"uncaptured", NotBoxed},
	}
	for _, tc := range cases {
		b := fx.binding(t, tc.name)
		if got := fx.class.Reason(b.ID); got != tc.reason {
			t.Errorf("%s: %s, want %s", tc.name, got, tc.reason)
		}
	}
}

func TestClassifyLoops(t *testing.T) {
	fx := setup(t, `function main() {
	const fs = []
	for (let i = 0; i < 5; i++) {
		const snapshot = i
		fs.push(() => i + snapshot)
	}
	let total = 0
	while (total < 3) {
		total++
		fs.push(() => total)
	}
	for (const v of fs) {
		fs.push(() => v)
	}
	let fn = () => 0
	fn = () => fn()
}`)
	cases := []struct {
		name   string
		reason Reason
	}{
		{"i", WrittenInLoop},
		{"snapshot", NotBoxed},
		{"total", WrittenInLoop},
		{"v", NotBoxed},
		{"fn", WrittenAfterCapture},
	}
	for _, tc := range cases {
		b := fx.binding(t, tc.name)
		if got := fx.class.Reason(b.ID); got != tc.reason {
			t.Errorf("%s: %s, want %s", tc.name, got, tc.reason)
		}
	}
}

func TestSlotOrderAndKinds(t *testing.T) {
	fx := setup(t, `function main() {
	const a = 1
	const b = 2
	let c = 3
	const d = 4
	const e = 5
	const f = (p1: int, p2: int, p3: int, p4: int, p5: int) => e + d + c + b + a
	c = 9
	const none = () => 42
}`)
	res := fx.an.Analyze(fx.table.Literals[0])
	want := []string{"a", "b", "c", "d", "e"}
	if len(res.Slots) != len(want) {
		t.Fatalf("slots = %+v", res.Slots)
	}
	for i, name := range want {
		if res.Slots[i].Name != name {
			t.Fatalf("slot %d = %s, want %s", i, res.Slots[i].Name, name)
		}
	}
	if res.Slots[2].Kind != SharedMutableBox || res.Slots[0].Kind != ByValueCopy {
		t.Fatalf("kinds = %v %v", res.Slots[0].Kind, res.Slots[2].Kind)
	}
	if res := fx.an.Analyze(fx.table.Literals[1]); len(res.Slots) != 0 || res.SelfIndex() != -1 {
		t.Fatalf("zero-capture literal got %+v", res.Slots)
	}
}

func TestSelfAndInstance(t *testing.T) {
	fx := setup(t, `class Acc {
	base: int = 1
	run() {
		const sum = (n: int): int => n == 0 ? base : n + sum(n - 1)
		const curried = (n: int) => (m: int) => curried(n + m)
		return sum(10)
	}
}`)
	res := fx.an.Analyze(fx.table.Literals[0])
	if len(res.Slots) != 2 || res.Slots[0].Kind != EnclosingInstanceRef || res.Slots[1].Kind != SelfRecursiveRef {
		t.Fatalf("slots = %+v", res.Slots)
	}
	if res.SelfIndex() != 1 || res.Self != fx.binding(t, "sum").ID {
		t.Fatalf("self = %d at %d", res.Self, res.SelfIndex())
	}
	outer := fx.an.Analyze(fx.table.Literals[1])
	if len(outer.Slots) != 1 || outer.Slots[0].Kind != SelfRecursiveRef {
		t.Fatalf("outer slots = %+v", outer.Slots)
	}
	inner := fx.an.Analyze(fx.table.Literals[2])
	kinds := map[string]Kind{}
	for _, s := range inner.Slots {
		kinds[s.Name] = s.Kind
	}
	if kinds["curried"] != ByValueCopy || kinds["n"] != ByValueCopy || len(inner.Slots) != 2 {
		t.Fatalf("inner slots = %+v", inner.Slots)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	fx := setup(t, `function main() {
	const f = () => () => ghost
	const g = print(() => g)
}`)
	outer := fx.an.Analyze(fx.table.Literals[0])
	inner := fx.an.Analyze(fx.table.Literals[1])
	wrapped := fx.an.Analyze(fx.table.Literals[2])
	if outer.Errors != 0 || inner.Errors != 1 || wrapped.Errors != 1 {
		t.Fatalf("errors = %d %d %d", outer.Errors, inner.Errors, wrapped.Errors)
	}
	want := []diag.Code{diag.ClosureUnresolvableCapture, diag.ClosureInvalidSelfCapture}
	got := fx.bag.Codes()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("codes = %v", got)
	}
}

func TestSlotFirstReference(t *testing.T) {
	src := `function main() {
	let x = 1
	const f = () => x + x
	x = 2
}`
	fx := setup(t, src)
	res := fx.an.Analyze(fx.table.Literals[0])
	if len(res.Slots) != 1 {
		t.Fatalf("slots = %+v", res.Slots)
	}
	want := uint32(strings.Index(src, "=> x") + 3)
	if s := res.Slots[0]; s.Ref.Start != want || s.Ref.End != want+1 {
		t.Fatalf("ref = %v, want start %d", s.Ref, want)
	}
}

func TestSelfRefLookup(t *testing.T) {
	c := &collector{a: &Analyzer{table: &symbols.Table{SelfRefs: map[ast.ExprID]symbols.BindingID{7: 3}}}}
	cases := []struct {
		id      ast.ExprID
		binding symbols.BindingID
		want    bool
	}{
		{7, 3, true},
		{7, 4, false},
		{8, symbols.NoBindingID, false},
	}
	for _, tc := range cases {
		if got := c.selfRef(tc.id, tc.binding); got != tc.want {
			t.Errorf("selfRef(%d, %d) = %v, want %v", tc.id, tc.binding, got, tc.want)
		}
	}
}
