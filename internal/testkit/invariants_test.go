package testkit

import (
	"strings"
	"testing"

	"arrowc/internal/capture"
	"arrowc/internal/hir"
	"arrowc/internal/source"
)

var programs = map[string]string{
	"recursion": `function main(): int {
	const fact = (n: int): int => n <= 1 ? 1 : n * fact(n - 1)
	return fact(5)
}`,
	"instance": `class Counter {
	count: int = 0
	bump(step: int): IntSupplier {
		let calls = 0
		return () => {
			calls++
			this.count += step
			return calls
		}
	}
}`,
	"five captures": `function main(): int {
	const a = 1
	const b = 2
	const c = 3
	const d = 4
	const e = 5
	const f = (p: int, q: int, r: int, s: int, t: int) => a + b + c + d + e + p + q + r + s + t
	return f(1, 2, 3, 4, 5)
}`,
	"nested": `function main(): int {
	let total = 0
	const add: IntFunction<IntUnaryOperator> = (x) => (y) => {
		total += x + y
		return total
	}
	return add(1)(2)
}`,
}

func TestProgramsSatisfyInvariants(t *testing.T) {
	for name, src := range programs {
		t.Run(name, func(t *testing.T) {
			u := Compile(t, name+".arrow", src)
			if len(u.HIR.Closures) == 0 {
				t.Fatalf("no closures")
			}
		})
	}
}

func TestFiveCapturesInDeclarationOrder(t *testing.T) {
	u := Compile(t, "five.arrow", programs["five captures"])
	clo := u.HIR.Closures[0]
	var names []string
	for _, s := range clo.Slots {
		names = append(names, s.Name)
	}
	if got := strings.Join(names, ","); got != "a,b,c,d,e" {
		t.Fatalf("slots = %s", got)
	}
}

func TestViolations(t *testing.T) {
	u := Compile(t, "rec.arrow", programs["recursion"])
	good := u.HIR.Closures[0]
	sf := u.File

	clone := func(edit func(c *hir.Closure)) *hir.Closure {
		c := *good
		c.Slots = append([]capture.Slot(nil), good.Slots...)
		edit(&c)
		return &c
	}
	at := func(start, end uint32) source.Span {
		return source.Span{File: sf.ID, Start: start, End: end}
	}
	cases := []struct {
		name string
		clo  *hir.Closure
		want string
	}{
		{"empty span", clone(func(c *hir.Closure) { c.Span = at(3, 3) }), "empty"},
		{"outside file", clone(func(c *hir.Closure) { c.Span = at(0, 1<<20) }), "outside file"},
		{"duplicate", clone(func(c *hir.Closure) {
			c.Slots = append([]capture.Slot{{Name: "fact", Kind: capture.ByValueCopy}}, c.Slots...)
			c.Self = len(c.Slots) - 1
		}), "appears at"},
		{"self not last", clone(func(c *hir.Closure) {
			c.Slots = append(c.Slots, capture.Slot{Name: "x", Kind: capture.ByValueCopy})
		}), "want last"},
		{"self index", clone(func(c *hir.Closure) { c.Self = -1 }), "self index"},
		{"instance not first", clone(func(c *hir.Closure) {
			c.Slots = append([]capture.Slot{{Name: "y", Kind: capture.ByValueCopy}, {Name: "this", Kind: capture.EnclosingInstanceRef}}, c.Slots...)
			c.Self = len(c.Slots) - 1
		}), "enclosing instance"},
		{"declared inside", clone(func(c *hir.Closure) {
			c.Slots = append([]capture.Slot{{Name: "z", Kind: capture.ByValueCopy, Decl: c.Span}}, c.Slots...)
			c.Self = len(c.Slots) - 1
		}), "inside the literal"},
		{"no contract", clone(func(c *hir.Closure) { c.Contract = nil }), "no contract"},
	}
	if err := CheckClosureInvariants(good, sf); err != nil {
		t.Fatalf("good closure: %v", err)
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckClosureInvariants(tc.clo, sf)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}
