package closure

import "fmt"

// Stage is how far a function literal has been compiled.
type Stage uint8

const (
	StageUnanalyzed Stage = iota
	StageCapturesResolved
	StageContractResolved
	StageTypesResolved
	StageEmitted
)

func (s Stage) String() string {
	switch s {
	case StageUnanalyzed:
		return "Unanalyzed"
	case StageCapturesResolved:
		return "CapturesResolved"
	case StageContractResolved:
		return "ContractResolved"
	case StageTypesResolved:
		return "TypesResolved"
	case StageEmitted:
		return "Emitted"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// advance moves from cur to next. Stages cannot be skipped or repeated.
func advance(cur, next Stage) Stage {
	if next != cur+1 {
		panic(fmt.Sprintf("closure: stage %s cannot follow %s", next, cur))
	}
	return next
}
