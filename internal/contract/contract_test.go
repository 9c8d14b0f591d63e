package contract

import (
	"errors"
	"testing"

	"arrowc/internal/source"
	"arrowc/internal/types"
)

type fixture struct {
	in  *types.Interner
	reg *Registry
	res *Resolver
	b   types.Builtins
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	in := types.NewInterner()
	reg := NewRegistry(in)
	return &fixture{in: in, reg: reg, res: NewResolver(reg), b: in.Builtins()}
}

func (f *fixture) expect(t *testing.T, name string, args ...types.TypeID) *Instance {
	t.Helper()
	c, ok := f.reg.Lookup(name)
	if !ok {
		t.Fatalf("no contract %s", name)
	}
	return Instantiate(f.in, c, args)
}

func TestCatalogShapes(t *testing.T) {
	f := newFixture(t)
	cases := map[string]string{
		"IntUnaryOperator":  "IntUnaryOperator.applyAsInt(int): int",
		"BiFunction":        "BiFunction<T, U, R>.apply(T, U): R",
		"IntFunction":       "IntFunction<R>.apply(int): R",
		"Runnable":          "Runnable.run(): void",
		"ObjIntConsumer":    "ObjIntConsumer<T>.accept(T, int): void",
		"IntBinaryOperator": "IntBinaryOperator.applyAsInt(int, int): int",
	}
	for name, want := range cases {
		c, ok := f.reg.Lookup(name)
		if !ok {
			t.Fatalf("missing %s", name)
		}
		if got := c.Signature(f.in); got != want {
			t.Errorf("%s: %q, want %q", name, got, want)
		}
	}
}

func TestResolveWithoutContext(t *testing.T) {
	f := newFixture(t)
	u := f.b.Unresolved
	cases := []struct {
		name   string
		params []types.TypeID
		result types.TypeID
		want   string
		tier   Tier
	}{
		{"int unary", []types.TypeID{f.b.Int}, f.b.Int, "IntUnaryOperator", TierExact},
		{"int binary", []types.TypeID{f.b.Int, f.b.Int}, f.b.Int, "IntBinaryOperator", TierExact},
		{"long predicate", []types.TypeID{f.b.Long}, f.b.Bool, "LongPredicate", TierExact},
		{"int supplier", nil, f.b.Int, "IntSupplier", TierExact},
		{"runnable", nil, f.b.Void, "Runnable", TierExact},
		{"string supplier", nil, f.b.String, "Supplier<string>", TierReference},
		{"int to string", []types.TypeID{f.b.Int}, f.b.String, "IntFunction<string>", TierReference},
		{"string length", []types.TypeID{f.b.String}, f.b.Int, "ToIntFunction<string>", TierReference},
		{"string identity", []types.TypeID{f.b.String}, f.b.String, "UnaryOperator<string>", TierReference},
		{"untyped identity", []types.TypeID{u}, u, "UnaryOperator<Object>", TierReference},
		{"obj int consumer", []types.TypeID{f.b.String, f.b.Int}, f.b.Void, "ObjIntConsumer<string>", TierReference},
		{"boxed", []types.TypeID{f.b.Int, f.b.String}, f.b.Int, "ToIntBiFunction<int, string>", TierBoxed},
		{"string pair to long", []types.TypeID{f.b.String, f.b.String}, f.b.Long, "ToLongBiFunction<string, string>", TierReference},
		{"boxed pair", []types.TypeID{f.b.Int, f.b.String}, f.b.String, "BiFunction<int, string, string>", TierBoxed},
		{"short identity", []types.TypeID{f.b.Short}, f.b.Short, "UnaryOperator<short>", TierBoxed},
		{"three ints", []types.TypeID{f.b.Int, f.b.Int, f.b.Long}, f.b.Double, "Arrow3$IIJ$D", TierSynthesized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := f.res.Resolve(Shape{Params: tc.params, Result: tc.result}, nil)
			if err != nil {
				t.Fatal(err)
			}
			if got := res.Instance.Label(f.in); got != tc.want {
				t.Fatalf("contract = %s, want %s", got, tc.want)
			}
			if res.Tier != tc.tier {
				t.Fatalf("tier = %s, want %s", res.Tier, tc.tier)
			}
		})
	}
}

func TestBackfillObject(t *testing.T) {
	f := newFixture(t)
	u := f.b.Unresolved
	res, err := f.res.Resolve(Shape{Params: []types.TypeID{u, u, u}, Result: u}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range res.Params {
		if p != f.b.Object {
			t.Fatalf("param %d = %s, want Object", i, f.in.Label(p))
		}
	}
	if res.Instance.Contract.Name != "Arrow3$OOO$O" || res.Instance.Contract.Method != SynthMethod {
		t.Fatalf("synthesized %s.%s", res.Instance.Contract.Name, res.Instance.Contract.Method)
	}
}

func TestSynthesizeDedup(t *testing.T) {
	f := newFixture(t)
	p := []types.TypeID{f.b.Int, f.b.String, f.b.Bool}
	a := f.reg.Synthesize(p, f.b.Long)
	b := f.reg.Synthesize([]types.TypeID{f.b.Int, f.b.String, f.b.Bool}, f.b.Long)
	if a != b {
		t.Fatalf("equal shapes synthesized twice")
	}
	c := f.reg.Synthesize(p, f.b.Int)
	if c == a || len(f.reg.Synthesized()) != 2 {
		t.Fatalf("distinct shapes merged: %d contracts", len(f.reg.Synthesized()))
	}
	if a.Name != "Arrow3$ITZ$J" {
		t.Fatalf("name = %s", a.Name)
	}

	other := NewRegistry(f.in)
	got, ok := other.Preload(a.Key)
	if !ok || got.Name != a.Name || got.Result != f.b.Long {
		t.Fatalf("preload = %+v, %v", got, ok)
	}
	if _, ok := other.Preload("garbage"); ok {
		t.Fatalf("garbage key accepted")
	}
}

func TestAdoptExpected(t *testing.T) {
	f := newFixture(t)
	u := f.b.Unresolved

	res, err := f.res.Resolve(Shape{Params: []types.TypeID{u}, Result: u}, f.expect(t, "IntUnaryOperator"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Tier != TierExpected || res.Params[0] != f.b.Int {
		t.Fatalf("tier %s param %s", res.Tier, f.in.Label(res.Params[0]))
	}

	// int widens into a long parameter.
	if _, err := f.res.Resolve(Shape{Params: []types.TypeID{f.b.Long}, Result: u}, f.expect(t, "IntUnaryOperator")); err != nil {
		t.Fatalf("widening rejected: %v", err)
	}

	// long cannot narrow into an int parameter.
	_, err = f.res.Resolve(Shape{Params: []types.TypeID{f.b.Int}, Result: u}, f.expect(t, "LongUnaryOperator"))
	var me *MismatchError
	if !errors.As(err, &me) || me.Index != 0 || me.Want != "long" || me.Got != "int" {
		t.Fatalf("err = %v", err)
	}

	// declared double result cannot narrow into int.
	_, err = f.res.Resolve(Shape{Params: []types.TypeID{u}, Result: f.b.Double}, f.expect(t, "IntUnaryOperator"))
	if !errors.As(err, &me) || me.Index != -1 {
		t.Fatalf("err = %v", err)
	}

	_, err = f.res.Resolve(Shape{Params: []types.TypeID{u, u}, Result: u}, f.expect(t, "IntUnaryOperator"))
	if !errors.As(err, &me) || !me.Arity {
		t.Fatalf("err = %v", err)
	}
}

func TestAdoptGeneric(t *testing.T) {
	f := newFixture(t)
	u := f.b.Unresolved

	res, err := f.res.Resolve(Shape{Params: []types.TypeID{u}, Result: u}, f.expect(t, "Function", f.b.String, f.b.Int))
	if err != nil {
		t.Fatal(err)
	}
	if res.Params[0] != f.b.String || res.Instance.Result != f.b.Int {
		t.Fatalf("params %v result %s", res.Params, f.in.Label(res.Instance.Result))
	}

	// A raw generic binds from the literal, then Object.
	res, err = f.res.Resolve(Shape{Params: []types.TypeID{f.b.String, u}, Result: u}, f.expect(t, "BiFunction"))
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Instance.Label(f.in); got != "BiFunction<string, Object, Object>" {
		t.Fatalf("instance = %s", got)
	}
}

func TestAdoptOptionalAndRest(t *testing.T) {
	f := newFixture(t)
	u := f.b.Unresolved
	exp := f.expect(t, "IntUnaryOperator")

	res, err := f.res.Resolve(Shape{Params: []types.TypeID{u, u}, Optional: []bool{false, true}, Result: u}, exp)
	if err != nil {
		t.Fatal(err)
	}
	if res.Params[0] != f.b.Int || res.Params[1] != u {
		t.Fatalf("params = %v", res.Params)
	}

	res, err = f.res.Resolve(Shape{Params: []types.TypeID{u}, Rest: true, Result: u}, f.expect(t, "IntBinaryOperator"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Params[0] != f.in.Array(f.b.Int) {
		t.Fatalf("rest = %s", f.in.Label(res.Params[0]))
	}
}

func TestCheckResult(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		got, want types.TypeID
		convert   bool
		ok        bool
	}{
		{f.b.Int, f.b.Int, false, true},
		{f.b.Int, f.b.Double, true, true},
		{f.b.Double, f.b.Int, false, false},
		{f.b.String, f.b.Void, false, true},
		{f.b.Void, f.b.Int, false, false},
		{f.b.Int, f.b.Object, false, true},
		{f.b.Null, f.b.String, false, true},
	}
	for _, tc := range cases {
		convert, err := f.res.CheckResult(tc.got, tc.want)
		if (err == nil) != tc.ok || convert != tc.convert {
			t.Errorf("%s -> %s: convert=%v err=%v", f.in.Label(tc.got), f.in.Label(tc.want), convert, err)
		}
	}
}

func TestDeclare(t *testing.T) {
	f := newFixture(t)
	c, err := f.reg.Declare("Transformer", []string{"T"}, []Method{{
		Name:   "transform",
		Params: []types.TypeID{f.in.TypeParam("T")},
		Result: f.in.TypeParam("T"),
	}}, source.Span{})
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := f.reg.Lookup("Transformer"); got != c || c.Flavor != Declared {
		t.Fatalf("lookup = %+v", got)
	}

	// Declared contracts shadow the catalog when named.
	if _, err := f.reg.Declare("Function", nil, []Method{{Name: "go", Result: f.b.Void}}, source.Span{}); err != nil {
		t.Fatal(err)
	}
	if got, _ := f.reg.Lookup("Function"); got.Flavor != Declared {
		t.Fatalf("Function not shadowed")
	}

	_, err = f.reg.Declare("Wide", nil, []Method{{Name: "a"}, {Name: "b"}}, source.Span{})
	if !errors.Is(err, ErrNotFunctional) {
		t.Fatalf("err = %v", err)
	}
	_, err = f.reg.Declare("Transformer", nil, []Method{{Name: "a"}}, source.Span{})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v", err)
	}

	res, err := f.res.Resolve(Shape{Params: []types.TypeID{f.b.Unresolved}, Result: f.b.Unresolved}, Instantiate(f.in, c, []types.TypeID{f.b.String}))
	if err != nil || res.Params[0] != f.b.String {
		t.Fatalf("res = %+v err = %v", res, err)
	}
}

func TestProbeLeavesRegistryAlone(t *testing.T) {
	f := newFixture(t)
	s := Shape{Params: []types.TypeID{f.b.Int, f.b.Int, f.b.Int}, Result: f.b.Int}
	res, err := f.res.Probe(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Tier != TierSynthesized || len(f.reg.Synthesized()) != 0 {
		t.Fatalf("probe registered %d contracts", len(f.reg.Synthesized()))
	}
	got, _ := f.res.Resolve(s, nil)
	if got.Instance.Contract.Name != res.Instance.Contract.Name || len(f.reg.Synthesized()) != 1 {
		t.Fatalf("resolve after probe: %s", got.Instance.Contract.Name)
	}
}
