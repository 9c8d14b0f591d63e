package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"arrowc/internal/capture"
	"arrowc/internal/hir"
	"arrowc/internal/source"
)

// CheckUnitInvariants runs CheckClosureInvariants on every closure of u.
func CheckUnitInvariants(u *hir.Unit, sf *source.File) error {
	if u == nil || sf == nil {
		return fmt.Errorf("nil unit or file")
	}
	for _, clo := range u.Closures {
		if err := CheckClosureInvariants(clo, sf); err != nil {
			return fmt.Errorf("%s: %w", clo.Name, err)
		}
	}
	return nil
}

// CheckClosureInvariants checks the structure of one emitted closure:
// 1) the literal span is non-empty and inside the file
// 2) slot names are unique
// 3) the enclosing instance, if captured, is the first slot
// 4) captured variables follow in declaration order
// 5) Self names the last slot iff a SelfRecursiveRef slot exists
// 6) every captured variable is declared outside the literal
// 7) a contract is attached and the body exists
func CheckClosureInvariants(clo *hir.Closure, sf *source.File) error {
	if clo == nil {
		return fmt.Errorf("nil closure")
	}
	sp := clo.Span
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if sp.End <= sp.Start {
		return fmt.Errorf("literal span is empty: %v", sp)
	}
	if sp.File != sf.ID || sp.End > lenContent {
		return fmt.Errorf("literal span %v is outside file %d (len %d)", sp, sf.ID, lenContent)
	}

	seen := make(map[string]int, len(clo.Slots))
	var lastDecl source.Span
	selfSlots := 0
	for i, s := range clo.Slots {
		if j, dup := seen[s.Name]; dup {
			return fmt.Errorf("slot %q appears at %d and %d", s.Name, j, i)
		}
		seen[s.Name] = i
		switch s.Kind {
		case capture.EnclosingInstanceRef:
			if i != 0 {
				return fmt.Errorf("enclosing instance slot at %d, want 0", i)
			}
		case capture.SelfRecursiveRef:
			selfSlots++
			if i != len(clo.Slots)-1 {
				return fmt.Errorf("self slot at %d, want last", i)
			}
		case capture.ByValueCopy, capture.SharedMutableBox:
			if s.Decl.Start < lastDecl.Start {
				return fmt.Errorf("slot %q declared at %d before previous slot at %d", s.Name, s.Decl.Start, lastDecl.Start)
			}
			lastDecl = s.Decl
		default:
			return fmt.Errorf("slot %q has kind %s", s.Name, s.Kind)
		}
		if s.Kind != capture.EnclosingInstanceRef && sp.Contains(s.Decl) {
			return fmt.Errorf("slot %q is declared inside the literal at %v", s.Name, s.Decl)
		}
	}
	switch {
	case selfSlots > 1:
		return fmt.Errorf("%d self slots", selfSlots)
	case selfSlots == 1 && clo.Self != len(clo.Slots)-1:
		return fmt.Errorf("self index %d, want %d", clo.Self, len(clo.Slots)-1)
	case selfSlots == 0 && clo.Self != -1:
		return fmt.Errorf("self index %d without a self slot", clo.Self)
	}
	if clo.Contract == nil {
		return fmt.Errorf("no contract")
	}
	if clo.Func == nil || clo.Func.Body == nil {
		return fmt.Errorf("no body")
	}
	return nil
}
