package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerMergesPhases(t *testing.T) {
	tm := NewTimer()
	for range 2 {
		done := tm.Track("lower")
		time.Sleep(time.Millisecond)
		done("")
	}
	idx := tm.Begin("parse")
	tm.End(idx, "1 file")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %+v", r.Phases)
	}
	if r.Phases[0].Name != "lower" || r.Phases[0].DurationMS < 2 {
		t.Fatalf("lower = %+v", r.Phases[0])
	}
	if r.Phases[1].Note != "1 file" {
		t.Fatalf("parse note = %q", r.Phases[1].Note)
	}
	if s := tm.Summary(); !strings.Contains(s, "lower") || !strings.Contains(s, "total") {
		t.Fatalf("summary:\n%s", s)
	}
}

func TestNilTimerTrack(t *testing.T) {
	var tm *Timer
	tm.Track("x")("")
}
