package diag

import (
	"testing"

	"arrowc/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := range 3 {
		ok := b.Add(NewError(ClosureContractMismatch, sp(uint32(i), uint32(i+1)), "x"))
		if want := i < 2; ok != want {
			t.Fatalf("Add #%d = %v, want %v", i, ok, want)
		}
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d", b.Len())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	r := BagReporter{Bag: b}
	ReportError(r, ClosureAmbiguousReturn, sp(10, 12), "late").Emit()
	ReportWarning(r, ClosureInfo, sp(1, 2), "warn").Emit()
	ReportError(r, ClosureUnresolvableCapture, sp(1, 2), "first").Emit()
	ReportError(r, ClosureUnresolvableCapture, sp(1, 2), "first again").Emit()

	b.Sort()
	b.Dedup()
	got := b.Codes()
	want := []Code{ClosureUnresolvableCapture, ClosureInfo, ClosureAmbiguousReturn}
	if len(got) != len(want) {
		t.Fatalf("codes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("codes = %v, want %v", got, want)
		}
	}
	if b.ErrorCount() != 2 || !b.HasErrors() {
		t.Fatalf("ErrorCount = %d", b.ErrorCount())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	b := NewBag(10)
	rb := ReportError(BagReporter{Bag: b}, ClosureContractMismatch, sp(0, 1), "mismatch").
		WithNote(sp(4, 5), "expected here")
	rb.Emit()
	rb.Emit()
	if b.Len() != 1 {
		t.Fatalf("Len = %d, want 1", b.Len())
	}
	if d := b.Items()[0]; len(d.Notes) != 1 || d.Notes[0].Msg != "expected here" {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: b})
	for range 3 {
		r.Report(ClosureInvalidSelfCapture, SevError, sp(3, 4), "self", nil)
	}
	r.Report(ClosureInvalidSelfCapture, SevError, sp(3, 4), "other message", nil)
	if b.Len() != 2 || r.Suppressed() != 2 {
		t.Fatalf("Len = %d, suppressed = %d", b.Len(), r.Suppressed())
	}
}

func TestCodeNames(t *testing.T) {
	cases := map[Code]string{
		ClosureUnresolvableCapture: "UnresolvableCapture",
		ClosureContractMismatch:    "ContractMismatch",
		ClosureAmbiguousReturn:     "AmbiguousReturnType",
		ClosureInvalidSelfCapture:  "InvalidRecursiveSelfCapture",
	}
	for c, want := range cases {
		if c.String() != want {
			t.Errorf("%d: %q, want %q", c, c.String(), want)
		}
	}
	if id := ClosureContractMismatch.ID(); id != "CLO4002" {
		t.Errorf("ID = %q", id)
	}
}
