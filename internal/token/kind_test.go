package token

import "testing"

func TestKindNamesComplete(t *testing.T) {
	for k := Invalid; k <= OrOr; k++ {
		if k.String() == "unknown" {
			t.Errorf("kind %d has no name", k)
		}
	}
}

func TestKeywords(t *testing.T) {
	for text, kind := range keywords {
		if kind.String() != text {
			t.Errorf("%q maps to %s", text, kind)
		}
	}
	if _, ok := LookupKeyword("Const"); ok {
		t.Error("keywords must be case-sensitive")
	}
}

func TestCompoundBase(t *testing.T) {
	if PlusAssign.CompoundBase() != Plus || Assign.CompoundBase() != Invalid {
		t.Fatal("compound base mismatch")
	}
	if !PercentAssign.IsAssignOp() || EqEq.IsAssignOp() {
		t.Fatal("IsAssignOp mismatch")
	}
}
