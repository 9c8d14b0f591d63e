package hir

import (
	"bytes"
	"strings"
	"testing"

	"arrowc/internal/capture"
	"arrowc/internal/contract"
	"arrowc/internal/source"
	"arrowc/internal/token"
	"arrowc/internal/types"
)

func TestDumpUnit(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	c, _ := contract.NewRegistry(in).Lookup("IntUnaryOperator")
	inst := contract.Instantiate(in, c, nil)

	u := NewUnit("main.arrow", in)
	body := NewFunc("main$0", "", source.Span{})
	n := body.AddLocal(Local{Name: "n", Type: b.Int, Param: true})
	body.Params = []LocalID{n}
	body.Result = b.Int
	load := &Expr{Kind: ExprLocal, Type: b.Int, Data: LocalData{Local: n, Name: "n"}}
	one := &Expr{Kind: ExprConst, Type: b.Int, Data: ConstData{Kind: ConstInt, Int: 1}}
	self := &Expr{Kind: ExprSelfRef, Type: inst.Type, Data: SelfRefData{Slot: 1}}
	call := &Expr{Kind: ExprInvoke, Type: b.Int, Data: InvokeData{
		Target: self,
		Method: "applyAsInt",
		Args:   []*Expr{{Kind: ExprBinary, Type: b.Int, Data: BinaryData{Op: token.Minus, Left: load, Right: one, OpType: b.Int}}},
	}}
	body.Body.Append(StmtReturn, source.Span{}, ReturnData{Value: call})
	id := u.AddClosure(&Closure{
		Name:   "main$0",
		Member: "main",
		Slots: []capture.Slot{
			{Name: "k", Kind: capture.SharedMutableBox, Type: b.Long},
			{Name: "f", Kind: capture.SelfRecursiveRef, Type: inst.Type},
		},
		Self:     1,
		Contract: inst,
		Func:     body,
	})

	main := NewFunc("main", "", source.Span{})
	main.Result = b.Void
	k := main.AddLocal(Local{Name: "k", Type: b.Long, Boxed: true})
	f := main.AddLocal(Local{Name: "f", Type: inst.Type})
	main.Body.Append(StmtLet, source.Span{}, LetData{Local: k, Value: &Expr{Kind: ExprConst, Type: b.Long, Data: ConstData{Kind: ConstInt, Int: 3}}})
	mk := &Expr{Kind: ExprMakeClosure, Type: inst.Type, Data: MakeClosureData{
		Closure:  id,
		Captures: []*Expr{{Kind: ExprLocal, Type: b.Long, Data: LocalData{Local: k, Name: "k", Ref: true}}, nil},
	}}
	main.Body.Append(StmtLet, source.Span{}, LetData{Local: f, Value: mk})
	main.Body.Append(StmtPatchSelf, source.Span{}, PatchSelfData{Target: &Expr{Kind: ExprLocal, Type: inst.Type, Data: LocalData{Local: f, Name: "f"}}, Slot: 1})
	u.Funcs["main"] = main
	u.Order = append(u.Order, "main")

	var buf bytes.Buffer
	if err := Dump(&buf, u); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"func main() -> void {",
		"  let k#1: long boxed = 3L",
		"  let f#2: IntUnaryOperator = closure#1[&k, _]",
		"  patch-self f slot 1",
		"closure #1 main$0 implements IntUnaryOperator.applyAsInt (in main)",
		"  slot 0 k: long SharedMutableBox",
		"  self slot 1",
		"  body main$0(n#1: int) -> int {",
		"    return $1.self.applyAsInt((n - 1))",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestUnitLookup(t *testing.T) {
	u := NewUnit("x", types.NewInterner())
	if u.Closure(1) != nil || u.Closure(NoClosureID) != nil {
		t.Fatalf("empty unit returned a closure")
	}
	c := &Closure{Name: "a"}
	if id := u.AddClosure(c); id != 1 || u.Closure(id) != c {
		t.Fatalf("AddClosure = %d", id)
	}
	f := NewFunc("g", "", source.Span{})
	if f.Local(NoLocalID) != nil || f.Local(1) != nil {
		t.Fatalf("empty func returned a local")
	}
}
