package infer

import (
	"testing"

	"arrowc/internal/ast"
	"arrowc/internal/contract"
	"arrowc/internal/diag"
	"arrowc/internal/parser"
	"arrowc/internal/source"
	"arrowc/internal/symbols"
	"arrowc/internal/types"
)

type fixture struct {
	unit  *Unit
	table *symbols.Table
	eng   *Engine
	bag   *diag.Bag
	in    *types.Interner
}

// setup types function main of src.
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
	in := types.NewInterner()
	u := &Unit{
		Builder:  b,
		Interner: in,
		Resolver: contract.NewResolver(contract.NewRegistry(in)),
		Classes:  make(map[string]*ast.ClassDecl),
		Funcs:    make(map[string]*ast.FuncDecl),
	}
	for _, id := range b.File(res.File).Items {
		switch d := b.Item(id).Data.(type) {
		case *ast.FuncDecl:
			u.Funcs[d.Name] = d
		case *ast.ClassDecl:
			u.Classes[d.Name] = d
		}
	}
	main := u.Funcs["main"]
	if main == nil {
		t.Fatalf("no main")
	}
	r := diag.BagReporter{Bag: bag}
	tab := symbols.Resolve(b, symbols.Member{Func: main}, u.Universe(), r)
	eng := New(u, tab, nil, r)
	eng.Func(main)
	return &fixture{unit: u, table: tab, eng: eng, bag: bag, in: in}
}

// lit returns the inference result of the literal initializing name.
func (fx *fixture) lit(t *testing.T, name string) *Literal {
	t.Helper()
	for lit, bid := range fx.table.LitBinding {
		if fx.table.Binding(bid).Name == name {
			info := fx.eng.LiteralInfo(lit)
			if info == nil {
				t.Fatalf("literal %s not typed", name)
			}
			return info
		}
	}
	t.Fatalf("no literal bound to %s", name)
	return nil
}

func (fx *fixture) local(t *testing.T, name string) types.TypeID {
	t.Helper()
	for i := range fx.table.Bindings {
		if b := &fx.table.Bindings[i]; b.Name == name && b.Kind.IsVariable() {
			return fx.eng.BindingType(b.ID)
		}
	}
	t.Fatalf("no binding %q", name)
	return types.NoTypeID
}

func (fx *fixture) labels(ids []types.TypeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = fx.in.Label(id)
	}
	return out
}

func (fx *fixture) noErrors(t *testing.T) {
	t.Helper()
	if fx.bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", fx.bag.Codes())
	}
}

func TestLiteralContracts(t *testing.T) {
	cases := []struct {
		name     string
		src      string
		contract string
		tier     contract.Tier
		params   []string
		result   string
	}{
		{"expected fills params", `const f: IntUnaryOperator = (x) => x * 2`, "IntUnaryOperator", contract.TierExpected, []string{"int"}, "int"},
		{"declared int", `const f = (x: int) => x * 2`, "IntUnaryOperator", contract.TierExact, []string{"int"}, "int"},
		{"comparison", `const f = (x: int) => x > 1`, "IntPredicate", contract.TierExact, []string{"int"}, "boolean"},
		{"widening result", `const f: DoubleSupplier = () => 1`, "DoubleSupplier", contract.TierExpected, []string{}, "double"},
		{"long param", `const f: LongUnaryOperator = (x: long) => x + 1`, "LongUnaryOperator", contract.TierExpected, []string{"long"}, "long"},
		{"mixed promotion", `const f = (a: int, b: double) => a * b`, "ToDoubleBiFunction<int, double>", contract.TierBoxed, []string{"int", "double"}, "double"},
		{"synthesized", `const f = (a: int, b: int, c: long) => a + b + c`, "Arrow3$IIJ$J", contract.TierSynthesized, []string{"int", "int", "long"}, "long"},
		{"untyped identity", `const f = (x) => x`, "UnaryOperator<Object>", contract.TierReference, []string{"Object"}, "Object"},
		{"generic erased", `const f = <T>(x: T): T => x`, "UnaryOperator<Object>", contract.TierReference, []string{"Object"}, "Object"},
		{"generic expected", `const f: Function<string, string> = <T>(x: T): T => x`, "Function<string, string>", contract.TierExpected, []string{"string"}, "string"},
		{"runnable", `let n = 0
	const f = () => { n = n + 1 }`, "Runnable", contract.TierExact, []string{}, "void"},
		{"default past arity", `const f: IntUnaryOperator = (x, y = 2) => x + y`, "IntUnaryOperator", contract.TierExpected, []string{"int", "int"}, "int"},
		{"rest", `const f = (...xs: int[]) => xs.length`, "ToIntFunction<int[]>", contract.TierReference, []string{"int[]"}, "int"},
		{"function type", `const f: (a: int, b: int) => int = (a, b) => a - b`, "IntBinaryOperator", contract.TierExpected, []string{"int", "int"}, "int"},
		{"raw supplier", `const f: Supplier = () => "x"`, "Supplier<Object>", contract.TierExpected, []string{}, "Object"},
		{"raw function", `const f: Function = (x) => x`, "Function<Object, Object>", contract.TierExpected, []string{"Object"}, "Object"},
		{"generic block body", `const f: UnaryOperator<Object> = <T>(x: T): T => {
		const r: T = x
		return r
	}`, "UnaryOperator<Object>", contract.TierExpected, []string{"Object"}, "Object"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := setup(t, "function main() {\n\t"+tc.src+"\n}")
			fx.noErrors(t)
			info := fx.lit(t, "f")
			if got := info.Contract.Label(fx.in); got != tc.contract {
				t.Fatalf("contract = %s, want %s", got, tc.contract)
			}
			if info.Tier != tc.tier {
				t.Fatalf("tier = %s, want %s", info.Tier, tc.tier)
			}
			got := fx.labels(info.Params)
			if len(got) != len(tc.params) {
				t.Fatalf("params = %v, want %v", got, tc.params)
			}
			for i := range got {
				if got[i] != tc.params[i] {
					t.Fatalf("params = %v, want %v", got, tc.params)
				}
			}
			if r := fx.in.Label(info.Result); r != tc.result {
				t.Fatalf("result = %s, want %s", r, tc.result)
			}
		})
	}
}

func TestTypeParamsEraseInBody(t *testing.T) {
	fx := setup(t, `function main() {
	const f = <T>(x: T): T => {
		const r: T = x
		const xs: T[] = [r]
		return xs[0]
	}
}`)
	fx.noErrors(t)
	if got := fx.in.Label(fx.local(t, "r")); got != "Object" {
		t.Fatalf("r = %s, want Object", got)
	}
	if got := fx.in.Label(fx.local(t, "xs")); got != "Object[]" {
		t.Fatalf("xs = %s, want Object[]", got)
	}
}

func TestLiteralErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"narrowing result", `const f: IntSupplier = () => 1.5`, diag.ClosureContractMismatch},
		{"narrowing param", `const f: LongUnaryOperator = (x: int) => x`, diag.ClosureContractMismatch},
		{"declared result", `const f: IntSupplier = (): string => "s"`, diag.ClosureContractMismatch},
		{"arity", `const f: IntUnaryOperator = (a: int, b: int) => a`, diag.ClosureArityMismatch},
		{"ambiguous", `const f = (c: boolean) => { if (c) { return 1 } return "s" }`, diag.ClosureAmbiguousReturn},
		{"missing return", `const f = (c: boolean) => { if (c) { return 1 } }`, diag.TypeMissingReturn},
		{"not callable", `const n = 1
	const f = () => n(2)`, diag.TypeNotCallable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := setup(t, "function main() {\n\t"+tc.src+"\n}")
			codes := fx.bag.Codes()
			for _, c := range codes {
				if c == tc.code {
					return
				}
			}
			t.Fatalf("codes = %v, want %v", codes, tc.code)
		})
	}
}

func TestAmbiguousReturnNotes(t *testing.T) {
	fx := setup(t, `function main() {
	const f = (c: int) => {
		if (c > 0) { return true }
		if (c < 0) { return "neg" }
		return 0
	}
}`)
	items := fx.bag.Items()
	if len(items) != 1 || items[0].Code != diag.ClosureAmbiguousReturn {
		t.Fatalf("diagnostics = %v", fx.bag.Codes())
	}
	if n := len(items[0].Notes); n != 3 {
		t.Fatalf("notes = %d, want one per return", n)
	}
}

func TestBlockJoin(t *testing.T) {
	fx := setup(t, `function main() {
	const f = (c: boolean) => {
		if (c) { return 1 }
		return 2L
	}
	const g = (c: boolean) => {
		if (c) { return "a" }
		return null
	}
	const h = () => {
		return 1
		return "unreachable"
	}
}`)
	fx.noErrors(t)
	if r := fx.in.Label(fx.lit(t, "f").Result); r != "long" {
		t.Fatalf("f result = %s", r)
	}
	if r := fx.in.Label(fx.lit(t, "g").Result); r != "string" {
		t.Fatalf("g result = %s", r)
	}
	h := fx.lit(t, "h")
	if h.Contract.Label(fx.in) != "IntSupplier" {
		t.Fatalf("h = %s", h.Contract.Label(fx.in))
	}
	if len(h.Returns) != 1 {
		t.Fatalf("h returns = %d, unreachable return typed", len(h.Returns))
	}
}

func TestRecursiveLiteral(t *testing.T) {
	fx := setup(t, `function main() {
	const fact = (n: int) => n <= 1 ? 1 : n * fact(n - 1)
	const fib = (n: int) => {
		if (n < 2) { return n }
		return fib(n - 1) + fib(n - 2)
	}
}`)
	fx.noErrors(t)
	for _, name := range []string{"fact", "fib"} {
		info := fx.lit(t, name)
		if got := info.Contract.Label(fx.in); got != "IntUnaryOperator" {
			t.Fatalf("%s contract = %s", name, got)
		}
		if got := fx.local(t, name); got != info.Contract.Type {
			t.Fatalf("%s binding = %s", name, fx.in.Label(got))
		}
	}
	if n := len(fx.unit.Resolver.Registry().Synthesized()); n != 0 {
		t.Fatalf("tentative pass synthesized %d contracts", n)
	}
}

func TestCurriedAndImmediate(t *testing.T) {
	fx := setup(t, `function main() {
	const add: IntFunction<IntUnaryOperator> = (a) => (b) => a + b
	const r = ((x) => x * 2)(21)
	const c: IntConsumer = (x) => x + 1
}`)
	fx.noErrors(t)
	add := fx.lit(t, "add")
	if got := add.Contract.Label(fx.in); got != "IntFunction<IntUnaryOperator>" {
		t.Fatalf("add = %s", got)
	}
	var inner *Literal
	for _, lit := range fx.table.Literals {
		if fx.table.LitParent[lit].IsValid() {
			inner = fx.eng.LiteralInfo(lit)
		}
	}
	if inner == nil || inner.Tier != contract.TierExpected || inner.Contract.Label(fx.in) != "IntUnaryOperator" {
		t.Fatalf("inner literal = %+v", inner)
	}
	if got := fx.in.Label(fx.local(t, "r")); got != "int" {
		t.Fatalf("r = %s", got)
	}
	if c := fx.lit(t, "c"); !c.Discard || fx.in.KindOf(c.Result) != types.KindVoid {
		t.Fatalf("consumer should discard its value: %+v", c)
	}
}

func TestExplicitTypesUnchanged(t *testing.T) {
	fx := setup(t, `function main() {
	const f = (x: short, y: char): long => x + y
}`)
	fx.noErrors(t)
	info := fx.lit(t, "f")
	got := fx.labels(info.Params)
	if got[0] != "short" || got[1] != "char" || fx.in.Label(info.Result) != "long" {
		t.Fatalf("params %v result %s", got, fx.in.Label(info.Result))
	}
}

func TestMemberResult(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`function main(x: int) { return x * 2 }`, "int"},
		{`function main() { print("hi") }`, "void"},
		{`function main(c: boolean) { if (c) { return 1 } return 2.5 }`, "double"},
		{`function main() { while (true) { return "s" } }`, "string"},
	}
	for _, tc := range cases {
		fx := setup(t, tc.src)
		fx.noErrors(t)
		if got := fx.in.Label(fx.eng.MemberResult()); got != tc.want {
			t.Errorf("%s: result %s, want %s", tc.src, got, tc.want)
		}
	}
}

func TestExpressionTypes(t *testing.T) {
	fx := setup(t, `function main() {
	const a = 1 + 2L
	const b = "n=" + 3
	const c = (5 as short) + (2 as byte)
	const d = [1, 2, 3]
	const e = { k: 1, v: 2 }
	const f = d[0] > 1 && true
	const g = (7 as long) << 2
	const h = Math.max(1, 2.5)
	const i = d.length
}`)
	fx.noErrors(t)
	want := map[string]string{
		"a": "long",
		"b": "string",
		"c": "int",
		"d": "int[]",
		"e": "Map<string, int>",
		"f": "boolean",
		"g": "long",
		"h": "double",
		"i": "int",
	}
	for name, w := range want {
		if got := fx.in.Label(fx.local(t, name)); got != w {
			t.Errorf("%s = %s, want %s", name, got, w)
		}
	}
}
