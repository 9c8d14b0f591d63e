package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"arrowc/internal/closure"
	"arrowc/internal/contract"
	"arrowc/internal/diag"
	"arrowc/internal/types"
)

const synthSrc = `function main(): long {
	const f = (a: int, b: int, c: long) => a + b + c
	return f(1, 2, 3)
}
`

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

type recordSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordSink) last(file string) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].File == file {
			return s.events[i], true
		}
	}
	return Event{}, false
}

func TestCompileSource(t *testing.T) {
	sink := &recordSink{}
	u := CompileSource("main.arrow", []byte(synthSrc), Options{EnableTimings: true, Sink: sink})
	if u.Failed() {
		t.Fatalf("failed: %v %v", u.Err, u.Bag.Codes())
	}
	if len(u.HIR.Closures) != 1 {
		t.Fatalf("closures = %d", len(u.HIR.Closures))
	}
	descs := u.Describe()
	if len(descs) != 1 || descs[0].Contract != "Arrow3$IIJ$J" || descs[0].Flavor != "synthesized" {
		t.Fatalf("descriptions = %+v", descs)
	}
	var phases []string
	for _, p := range u.Timer.Report().Phases {
		phases = append(phases, p.Name)
	}
	if !slices.Equal(phases, []string{"parse", "lower"}) {
		t.Fatalf("phases = %v", phases)
	}
	if ev, ok := sink.last("main.arrow"); !ok || ev.Status != StatusDone || ev.Stage != StageLower {
		t.Fatalf("last event = %+v", ev)
	}
}

func TestCompileSourceErrors(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		err   error
		stage Stage
		code  diag.Code
	}{
		{"syntax", "function main( {", ErrSyntax, StageParse, 0},
		{"closure", `function main(): int {
	const f: IntSupplier = () => 1.5
	return f()
}`, closure.ErrFailed, StageLower, diag.ClosureContractMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sink := &recordSink{}
			u := CompileSource("bad.arrow", []byte(tc.src), Options{Sink: sink})
			if !u.Failed() || !errors.Is(u.Err, tc.err) {
				t.Fatalf("err = %v, want %v", u.Err, tc.err)
			}
			if tc.code != 0 && !slices.Contains(u.Bag.Codes(), tc.code) {
				t.Fatalf("codes = %v, want %s", u.Bag.Codes(), tc.code.ID())
			}
			ev, _ := sink.last("bad.arrow")
			if ev.Status != StatusError || ev.Stage != tc.stage {
				t.Fatalf("last event = %+v", ev)
			}
		})
	}
}

func TestCompileFilesOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"c.arrow", "a.arrow", "b.arrow"} {
		paths = append(paths, writeSource(t, dir, name, synthSrc))
	}
	paths = append(paths, filepath.Join(dir, "missing.arrow"))

	units, err := CompileFiles(context.Background(), paths, Options{Jobs: 2})
	if err != nil {
		t.Fatalf("CompileFiles: %v", err)
	}
	if len(units) != len(paths) {
		t.Fatalf("units = %d", len(units))
	}
	for i, u := range units {
		if u.Path != paths[i] {
			t.Fatalf("unit %d is %s, want %s", i, u.Path, paths[i])
		}
	}
	missing := units[3]
	if !missing.Failed() || !slices.Contains(missing.Bag.Codes(), diag.IOLoadFailed) {
		t.Fatalf("missing file: %v %v", missing.Err, missing.Bag.Codes())
	}
	if n := Failed(units); n != 1 {
		t.Fatalf("Failed = %d", n)
	}
}

func TestCompileFilesCancelled(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.arrow", synthSrc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := CompileFiles(ctx, []string{path}, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestContractCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenContractCache(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	u := CompileSource("main.arrow", []byte(synthSrc), Options{Cache: cache})
	if u.Failed() {
		t.Fatalf("failed: %v", u.Err)
	}
	if got := cache.Keys(); !slices.Equal(got, []string{"IIJ$J"}) {
		t.Fatalf("keys = %v", got)
	}
	if err := cache.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reopened, err := OpenContractCache(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	reg := contract.NewRegistry(types.NewInterner())
	if n := reopened.Seed(reg); n != 1 {
		t.Fatalf("seeded %d", n)
	}
	c, ok := reg.Lookup("Arrow3$IIJ$J")
	if !ok || c.Flavor != contract.Synthesized {
		t.Fatalf("seeded contract missing: %v", c)
	}

	if err := reopened.Drop(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, contractCacheFile)); !os.IsNotExist(err) {
		t.Fatalf("cache file survived Drop: %v", err)
	}
}

func TestContractCacheIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, contractCacheFile, "not msgpack at all")
	cache, err := OpenContractCache(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(cache.Keys()) != 0 {
		t.Fatalf("keys = %v", cache.Keys())
	}
	var nilCache *ContractCache
	if nilCache.Seed(contract.NewRegistry(types.NewInterner())) != 0 || nilCache.Save() != nil {
		t.Fatalf("nil cache is not inert")
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.arrow", synthSrc)
	w, err := NewWatcher(dir, Options{}, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	builds := make(chan []*Unit, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- w.Run(ctx, func(units []*Unit) { builds <- units })
	}()

	first := <-builds
	if len(first) != 1 || first[0].Failed() {
		t.Fatalf("first build = %d units", len(first))
	}
	writeSource(t, dir, "b.arrow", "function main( {")
	select {
	case second := <-builds:
		if len(second) != 2 || Failed(second) != 1 {
			t.Fatalf("second build = %d units, %d failed", len(second), Failed(second))
		}
	case <-ctx.Done():
		t.Fatalf("no rebuild after change")
	}
	cancel()
	if err := <-errc; err != nil {
		t.Fatalf("Run: %v", err)
	}
}
