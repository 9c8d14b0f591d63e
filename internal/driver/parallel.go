package driver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"arrowc/internal/diag"
	"arrowc/internal/source"
	"arrowc/internal/trace"
)

// CompileFiles compiles every path as its own unit, at most opts.Jobs at a
// time. Results follow the order of paths. A file that cannot be read
// yields a unit carrying an IOLoadFailed diagnostic; the returned error is
// only the context's.
func CompileFiles(ctx context.Context, paths []string, opts Options) ([]*Unit, error) {
	results := make([]*Unit, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.FromContext(ctx)
	}
	sp := trace.Begin(opts.Tracer, trace.ScopeDriver, "compile-files", trace.CurrentSpan(ctx))
	defer sp.End(fmt.Sprintf("files=%d", len(paths)))

	for _, p := range paths {
		emit(opts.Sink, Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			u, err := CompileFile(path, opts)
			if err != nil {
				u = loadFailure(path, err, opts)
			}
			// each goroutine owns index i
			results[i] = u
			return nil
		})
	}
	err := g.Wait()
	status := StatusDone
	if err != nil {
		status = StatusError
	}
	emit(opts.Sink, Event{Stage: StageLower, Status: status, Err: err, Elapsed: time.Since(start)})
	return results, err
}

func loadFailure(path string, err error, opts Options) *Unit {
	u := &Unit{
		Path:    path,
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Err:     err,
	}
	u.Bag.Add(diag.NewError(diag.IOLoadFailed, source.Span{}, "failed to load file: "+err.Error()))
	emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
	return u
}

// Failed counts the units with errors.
func Failed(units []*Unit) int {
	n := 0
	for _, u := range units {
		if u != nil && u.Failed() {
			n++
		}
	}
	return n
}
