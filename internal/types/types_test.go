package types

import "testing"

func TestInternStable(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	a1 := in.Array(b.Int)
	a2 := in.Intern(MakeArray(b.Int))
	if a1 != a2 {
		t.Fatalf("array interned twice: %d vs %d", a1, a2)
	}
	f1 := in.Contract("Function", b.Int, b.Long)
	f2 := in.Contract("Function", b.Int, b.Long)
	f3 := in.Contract("Function", b.Long, b.Int)
	if f1 != f2 || f1 == f3 {
		t.Fatalf("contract interning: %d %d %d", f1, f2, f3)
	}
	if got := in.Label(in.Map(b.String, in.Array(f1))); got != "Map<string, Function<int, long>[]>" {
		t.Fatalf("label = %q", got)
	}
}

func TestWidening(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	cls := in.Class("Point")
	cases := []struct {
		from, to TypeID
		want     bool
	}{
		{b.Int, b.Long, true},
		{b.Int, b.Double, true},
		{b.Long, b.Float, true},
		{b.Long, b.Int, false},
		{b.Double, b.Int, false},
		{b.Char, b.Int, true},
		{b.Short, b.Char, false},
		{b.Char, b.Short, false},
		{b.Byte, b.Short, true},
		{b.Bool, b.Int, false},
		{b.Null, b.String, true},
		{b.Null, b.Int, false},
		{cls, b.Object, true},
		{b.Int, b.Object, false},
		{in.Array(b.String), in.Array(b.Object), true},
		{in.Array(b.Int), in.Array(b.Long), false},
	}
	for _, tc := range cases {
		if got := in.Widens(tc.from, tc.to); got != tc.want {
			t.Errorf("Widens(%s, %s) = %v, want %v", in.Label(tc.from), in.Label(tc.to), got, tc.want)
		}
	}
	if !in.Assignable(b.Int, b.Object) || !in.Assignable(b.Unresolved, b.Int) {
		t.Errorf("boxing or unresolved not assignable")
	}
}

func TestPromoteAndJoin(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if got := in.Promote(b.Byte, b.Short); got != b.Int {
		t.Errorf("byte+short = %s", in.Label(got))
	}
	if got := in.Promote(b.Int, b.Long); got != b.Long {
		t.Errorf("int+long = %s", in.Label(got))
	}
	if got := in.Promote(b.Long, b.Float); got != b.Float {
		t.Errorf("long+float = %s", in.Label(got))
	}

	cls := in.Class("Point")
	joins := []struct {
		a, b, want TypeID
		ok         bool
	}{
		{b.Int, b.Long, b.Long, true},
		{b.Double, b.Int, b.Double, true},
		{b.Short, b.Char, b.Int, true},
		{b.Null, b.String, b.String, true},
		{b.String, cls, b.Object, true},
		{b.Int, b.String, NoTypeID, false},
		{b.Bool, b.Int, NoTypeID, false},
	}
	for _, tc := range joins {
		got, ok := in.Join(tc.a, tc.b)
		if ok != tc.ok || got != tc.want {
			t.Errorf("Join(%s, %s) = %s,%v", in.Label(tc.a), in.Label(tc.b), in.Label(got), ok)
		}
	}
}

func TestEraseAndDescriptor(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	tp := in.TypeParam("T")
	arr := in.Array(tp)
	if got := in.Erase(arr); got != in.Array(b.Object) {
		t.Fatalf("erase = %s", in.Label(got))
	}
	if !in.HasTypeParam(in.Contract("Function", tp, b.Int)) {
		t.Fatalf("type param not detected")
	}
	if got := in.Substitute(arr, map[string]TypeID{"T": b.String}); got != in.Array(b.String) {
		t.Fatalf("substitute = %s", in.Label(got))
	}

	for _, id := range []TypeID{b.Int, b.Long, in.Array(b.Double), in.Map(b.String, b.Int), in.Class("Point")} {
		d := in.Descriptor(id)
		back, ok := in.ParseDescriptor(d)
		if !ok || back != id {
			t.Errorf("descriptor %q round trip gave %s", d, in.Label(back))
		}
	}
}
