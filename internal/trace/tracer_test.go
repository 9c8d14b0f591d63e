package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePhase, true},
		{LevelPhase, ScopeMember, false},
		{LevelDetail, ScopeLiteral, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s/%s: got %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "debug"} {
		l, err := ParseLevel(strings.ToUpper(s))
		if err != nil || l.String() != s {
			t.Fatalf("ParseLevel(%q) = %v, %v", s, l, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error")
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Output: &buf, Format: FormatNDJSON})
	if err != nil {
		t.Fatal(err)
	}
	root := Begin(tr, ScopeMember, "member:main", 0)
	child := Begin(tr, ScopeLiteral, "literal", root.ID())
	child.WithExtra("contract", "IntUnaryOperator").End("emitted")
	Begin(tr, ScopeNode, "tier", child.ID()).End("") // filtered
	root.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Kind     string            `json:"kind"`
		ParentID uint64            `json:"parent_id"`
		Detail   string            `json:"detail"`
		Extra    map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.ParentID != root.ID() || ev.Detail != "emitted" || ev.Extra["contract"] != "IntUnaryOperator" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestRingWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for i := range 5 {
		Point(r, ScopeNode, "p", strings.Repeat("x", i), 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d", len(snap))
	}
	if snap[0].Detail != "xx" || snap[2].Detail != "xxxx" {
		t.Fatalf("order = %q %q", snap[0].Detail, snap[2].Detail)
	}
}

func TestContextAndMulti(t *testing.T) {
	ring := NewRingTracer(8, LevelPhase)
	tr, err := New(Config{Level: LevelPhase, Sinks: []Sink{SinkRing, SinkLog}})
	if err != nil {
		t.Fatal(err)
	}
	if Ring(tr) == nil {
		t.Fatal("ring sink not reachable")
	}
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatal("tracer not propagated")
	}
	if FromContext(context.Background()).Enabled() {
		t.Fatal("default tracer must be disabled")
	}
	sp := Begin(FromContext(ctx), ScopePhase, "parse", 0)
	ctx = WithSpan(ctx, sp)
	if CurrentSpan(ctx) != sp.ID() {
		t.Fatal("span id not propagated")
	}
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for i := range 5 {
		r.Emit(&Event{Seq: uint64(i + 1), Scope: ScopeDriver, Kind: KindPoint})
	}
	got := r.Snapshot()
	if len(got) != 3 || got[0].Seq != 3 || got[2].Seq != 5 {
		t.Fatalf("snapshot = %+v", got)
	}
	if r.Dropped() != 2 {
		t.Fatalf("dropped = %d", r.Dropped())
	}
}

func TestNewWithFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.ndjson")
	tr, err := New(Config{Level: LevelPhase, Sinks: []Sink{SinkStream, SinkRing}, OutputPath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopePhase, "parse", 0).End("ok")
	if ring := Ring(tr); ring == nil || len(ring.Snapshot()) != 2 {
		t.Fatalf("ring missing or wrong size")
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Fatalf("%d lines in %s", n, data)
	}
}
