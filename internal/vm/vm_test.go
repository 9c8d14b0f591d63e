package vm

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"arrowc/internal/ast"
	"arrowc/internal/closure"
	"arrowc/internal/diag"
	"arrowc/internal/parser"
	"arrowc/internal/source"
	"arrowc/internal/token"
	"arrowc/internal/types"
)

// load compiles src and returns a machine writing to out.
func load(t *testing.T, src string, out *bytes.Buffer) *Machine {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.arrow", []byte(src)))
	bag := diag.NewBag(50)
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(f, b, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Codes())
	}
	u, err := closure.New(b, "test.arrow", bag, closure.Options{}).CompileUnit(res.File)
	if err != nil {
		t.Fatalf("compile: %v (codes %v)", err, bag.Codes())
	}
	return New(u, Options{Out: out})
}

func run(t *testing.T, src, entry string, args ...Value) Value {
	t.Helper()
	v, err := load(t, src, &bytes.Buffer{}).Call(entry, args...)
	if err != nil {
		t.Fatalf("%s: %v", entry, err)
	}
	return v
}

func TestPrograms(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want Value
	}{
		{"factorial", `function run(): int {
	const fact = (n: int): int => n <= 1 ? 1 : n * fact(n - 1)
	return fact(5)
}`, Int32(120)},
		{"fibonacci long", `function run(): long {
	const fib = (n: int): long => n < 2 ? n : fib(n - 1) + fib(n - 2)
	return fib(10)
}`, Long(55)},
		{"shared counter", `function run(): int {
	let count = 0
	const inc = () => { count++ }
	inc()
	inc()
	inc()
	return count
}`, Int32(3)},
		{"counter outlives scope", `function make(): IntSupplier {
	let n = 0
	return () => ++n
}
function run(): int {
	const next = make()
	next()
	next()
	return next()
}`, Int32(3)},
		{"snapshot per iteration", `function run(): int {
	const fs: IntSupplier[] = []
	for (let i = 0; i < 3; i++) {
		const j = i
		fs.push(() => j * 10)
	}
	let sum = 0
	for (const f of fs) {
		sum += f()
	}
	return sum
}`, Int32(30)},
		{"curried", `function run(): int {
	const add: IntFunction<IntUnaryOperator> = (a) => (b) => a + b
	return add(3)(4)
}`, Int32(7)},
		{"default parameter", `function run(): int {
	const f: IntUnaryOperator = (a, b: int = 10) => a + b
	return f(1)
}`, Int32(11)},
		{"rest immediately invoked", `function run(): int {
	return ((...xs: int[]) => xs.length)(1, 2, 3)
}`, Int32(3)},
		{"array destructuring", `function run(): int {
	const f = ([a, b, ...rest]: int[]) => a + b + rest.length
	return f([1, 2, 3, 4])
}`, Int32(5)},
		{"int wraps", `function run(): int {
	const twice = (x: int) => x * 2
	return twice(2147483647)
}`, Int32(-2)},
		{"char arithmetic", `function run(): int {
	const s = "abc"
	return s.charAt(1) + 1
}`, Int32(99)},
		{"widened result", `function run(): double {
	const f: DoubleSupplier = () => 1
	return f()
}`, Double(1)},
		{"raw supplier", `function run() {
	const f: Supplier = () => "x"
	return f()
}`, String("x")},
		{"raw supplier returned", `function mk(s: string): Supplier {
	return () => s
}
function run() {
	return mk("y")()
}`, String("y")},
		{"raw unary operator", `function run() {
	const tag = "t"
	const f: UnaryOperator = (x) => tag + x
	return f("z")
}`, String("tz")},
		{"generic block body", `function run() {
	const id: UnaryOperator<Object> = <T>(x: T): T => {
		const r: T = x
		return r
	}
	return id("hi")
}`, String("hi")},
		{"generic block body without context", `function run() {
	const id = <T>(x: T): T => {
		const r: T = x
		return r
	}
	return id("b")
}`, String("b")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := run(t, tc.src, "run")
			if !equal(got, tc.want) || got.Num != tc.want.Num {
				t.Fatalf("got %s (%s), want %s (%s)", got, got.Num, tc.want, tc.want.Num)
			}
		})
	}
}

func TestEnclosingInstance(t *testing.T) {
	src := `class Counter {
	count: int = 0
	step: int = 1
	constructor(step: int) {
		this.step = step
	}
	adder(): IntSupplier {
		return () => {
			this.count += this.step
			return this.count
		}
	}
}
function run(): int {
	const c = new Counter(2)
	const f = c.adder()
	f()
	return f()
}`
	if got := run(t, src, "run"); got.I != 4 {
		t.Fatalf("got %s", got)
	}
}

func TestGenericIdentity(t *testing.T) {
	got := run(t, `function run() {
	const id = (x) => x
	return id("a")
}`, "run")
	if got.Kind != VKString || got.S != "a" {
		t.Fatalf("got %s", got)
	}
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	m := load(t, `function main() {
	const greet = (name: string) => "hi " + name
	print(greet("bob"), 1.5, 10L, true, null)
}`, &out)
	if _, err := m.Call("main"); err != nil {
		t.Fatalf("main: %v", err)
	}
	if got, want := out.String(), "hi bob 1.5 10 true null\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestCallArguments(t *testing.T) {
	src := `function add(a: int, b: int): int {
	const f = () => a + b
	return f()
}`
	if got := run(t, src, "add", Int32(2), Int32(40)); got.I != 42 {
		t.Fatalf("got %s", got)
	}
}

func TestFaults(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		entry string
		code  diag.Code
	}{
		{"divide by zero", `function run(): int {
	const div = (a: int, b: int) => a / b
	return div(1, 0)
}`, "run", diag.RunDivideByZero},
		{"index", `function run(): int {
	const xs = [1, 2]
	const at = (i: int) => xs[i]
	return at(2)
}`, "run", diag.RunIndexOutOfRange},
		{"recursion depth", `function run(): int {
	const loop = (n: int): int => loop(n + 1)
	return loop(0)
}`, "run", diag.RunStackOverflow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(t, tc.src, &bytes.Buffer{}).Call(tc.entry)
			var f *Fault
			if !errors.As(err, &f) {
				t.Fatalf("err = %v", err)
			}
			if f.Code != tc.code {
				t.Fatalf("code = %s, want %s", f.Code.ID(), tc.code.ID())
			}
			if len(f.Backtrace) == 0 {
				t.Fatalf("no backtrace")
			}
		})
	}
}

func TestNoEntry(t *testing.T) {
	m := load(t, "function main() {}", &bytes.Buffer{})
	for _, name := range []string{"missing", "Nope.run"} {
		if _, err := m.Call(name); !errors.Is(err, ErrNoEntry) {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestSelfCell(t *testing.T) {
	var c SelfCell
	if _, ok := c.Get(); ok {
		t.Fatalf("empty cell reports a value")
	}
	c.Set(Int32(1))
	if v, ok := c.Get(); !ok || v.I != 1 {
		t.Fatalf("get = %v, %v", v, ok)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("second Set did not panic")
		}
	}()
	c.Set(Int32(2))
}

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		f    float64
		k    types.Kind
		want string
	}{
		{1, types.KindDouble, "1.0"},
		{100.5, types.KindDouble, "100.5"},
		{0.001, types.KindDouble, "0.001"},
		{1e-4, types.KindDouble, "1.0E-4"},
		{1e7, types.KindDouble, "1.0E7"},
		{1.5e10, types.KindDouble, "1.5E10"},
		{float64(float32(0.1)), types.KindFloat, "0.1"},
		{math.NaN(), types.KindDouble, "NaN"},
		{math.Inf(-1), types.KindDouble, "-Infinity"},
		{math.Copysign(0, -1), types.KindDouble, "-0.0"},
	}
	for _, tc := range cases {
		if got := formatFloat(tc.f, tc.k); got != tc.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tc.f, got, tc.want)
		}
	}
}

func TestArith(t *testing.T) {
	m := &Machine{}
	cases := []struct {
		name string
		got  Value
		want int64
	}{
		{"int overflow", mustArith(t, m, token.Plus, Int32(math.MaxInt32), Int32(1), types.KindInt), math.MinInt32},
		{"min div -1", mustArith(t, m, token.Slash, Int32(math.MinInt32), Int32(-1), types.KindInt), math.MinInt32},
		{"long min div -1", mustArith(t, m, token.Slash, Long(math.MinInt64), Long(-1), types.KindLong), math.MinInt64},
		{"remainder sign", mustArith(t, m, token.Percent, Int32(-7), Int32(2), types.KindInt), -1},
		{"shift mask", mustArith(t, m, token.Shl, Int32(1), Int32(33), types.KindInt), 2},
		{"unsigned shift", mustArith(t, m, token.UShr, Int32(-1), Int32(28), types.KindInt), 15},
		{"byte wrap", Int(127+1, types.KindByte), -128},
		{"char wrap", Int(-1, types.KindChar), 65535},
	}
	for _, tc := range cases {
		if tc.got.I != tc.want {
			t.Errorf("%s = %d, want %d", tc.name, tc.got.I, tc.want)
		}
	}
	if _, f := m.arith(token.Slash, Int32(1), Int32(0), types.KindInt, source.Span{}); f == nil || f.Code != diag.RunDivideByZero {
		t.Fatalf("division by zero = %v", f)
	}
	if v, f := m.arith(token.Slash, Double(1), Double(0), types.KindDouble, source.Span{}); f != nil || !math.IsInf(v.F, 1) {
		t.Fatalf("1.0 / 0.0 = %v, %v", v, f)
	}
}

func mustArith(t *testing.T, m *Machine, op token.Kind, l, r Value, k types.Kind) Value {
	t.Helper()
	v, f := m.arith(op, l, r, k, source.Span{})
	if f != nil {
		t.Fatalf("%s: %v", op, f)
	}
	return v
}
