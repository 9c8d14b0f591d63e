package driver

import (
	"errors"
	"fmt"
	"time"

	"arrowc/internal/ast"
	"arrowc/internal/closure"
	"arrowc/internal/contract"
	"arrowc/internal/diag"
	"arrowc/internal/hir"
	"arrowc/internal/observ"
	"arrowc/internal/parser"
	"arrowc/internal/source"
	"arrowc/internal/trace"
	"arrowc/internal/types"
)

// ErrSyntax is wrapped by Unit.Err when parsing reported errors; lowering
// is skipped in that case.
var ErrSyntax = errors.New("syntax errors")

// Options configures compilation.
type Options struct {
	MaxDiagnostics int
	// Jobs bounds CompileFiles parallelism; 0 means GOMAXPROCS.
	Jobs          int
	EnableTimings bool
	Tracer        trace.Tracer
	// Cache seeds every unit's registry and records what it synthesized.
	Cache *ContractCache
	Sink  ProgressSink
}

// Unit is one compiled file.
type Unit struct {
	Path     string
	FileSet  *source.FileSet
	File     *source.File
	Builder  *ast.Builder
	ASTFile  ast.FileID
	Bag      *diag.Bag
	Compiler *closure.Compiler
	HIR      *hir.Unit
	Timer    *observ.Timer
	// Err is nil, or wraps ErrSyntax or closure.ErrFailed.
	Err error
}

// Failed reports whether the unit has errors.
func (u *Unit) Failed() bool { return u.Err != nil || u.Bag.HasErrors() }

// Describe summarizes every closure of the unit in compilation order.
func (u *Unit) Describe() []closure.Description {
	if u.HIR == nil || u.Compiler == nil {
		return nil
	}
	out := make([]closure.Description, 0, len(u.HIR.Closures))
	for _, clo := range u.HIR.Closures {
		out = append(out, u.Compiler.Describe(clo))
	}
	return out
}

// Registry is the unit's contract registry, or nil when lowering was
// skipped.
func (u *Unit) Registry() *contract.Registry {
	if u.Compiler == nil {
		return nil
	}
	return u.Compiler.Registry()
}

// CompileFile loads and compiles path. The error is non-nil only when the
// file cannot be read; compile errors are in the unit.
func CompileFile(path string, opts Options) (*Unit, error) {
	timer := newTimer(opts)
	done := timer.Track("load")
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	done("")
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return compile(fs, id, path, timer, opts), nil
}

// CompileSource compiles in-memory text registered under name.
func CompileSource(name string, src []byte, opts Options) *Unit {
	fs := source.NewFileSet()
	return compile(fs, fs.AddVirtual(name, src), name, newTimer(opts), opts)
}

func newTimer(opts Options) *observ.Timer {
	if !opts.EnableTimings {
		return nil
	}
	return observ.NewTimer()
}

// compile parses and lowers file id; path names the unit in events,
// traces and the HIR.
func compile(fs *source.FileSet, id source.FileID, path string, timer *observ.Timer, opts Options) *Unit {
	f := fs.Get(id)
	u := &Unit{
		Path:    path,
		FileSet: fs,
		File:    f,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Timer:   timer,
	}
	sp := trace.Begin(opts.Tracer, trace.ScopeDriver, "unit:"+u.Path, 0)
	defer func() { sp.End(fmt.Sprintf("diags=%d", u.Bag.Len())) }()

	start := time.Now()
	emit(opts.Sink, Event{File: u.Path, Stage: StageParse, Status: StatusWorking})
	done := timer.Track("parse")
	u.Builder = ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(f, u.Builder, parser.Options{Reporter: diag.BagReporter{Bag: u.Bag}})
	u.ASTFile = res.File
	done(fmt.Sprintf("items=%d", len(u.Builder.File(res.File).Items)))
	if n := u.Bag.ErrorCount(); n > 0 {
		u.Err = fmt.Errorf("%s: %w: %d", u.Path, ErrSyntax, n)
		u.finish(opts.Sink, StageParse, start)
		return u
	}

	emit(opts.Sink, Event{File: u.Path, Stage: StageLower, Status: StatusWorking})
	done = timer.Track("lower")
	reg := contract.NewRegistry(types.NewInterner())
	seeded := opts.Cache.Seed(reg)
	u.Compiler = closure.New(u.Builder, u.Path, u.Bag, closure.Options{
		Registry: reg,
		Tracer:   opts.Tracer,
		Parent:   sp.ID(),
	})
	u.HIR, u.Err = u.Compiler.CompileUnit(res.File)
	done(fmt.Sprintf("closures=%d seeded=%d", len(u.Compiler.Unit().Closures), seeded))
	if u.HIR == nil {
		u.HIR = u.Compiler.Unit()
	}
	if u.Err == nil {
		opts.Cache.Record(reg)
	}
	u.finish(opts.Sink, StageLower, start)
	return u
}

func (u *Unit) finish(sink ProgressSink, stage Stage, start time.Time) {
	u.Bag.Sort()
	status := StatusDone
	if u.Failed() {
		status = StatusError
	}
	emit(sink, Event{File: u.Path, Stage: stage, Status: status, Err: u.Err, Elapsed: time.Since(start)})
}
