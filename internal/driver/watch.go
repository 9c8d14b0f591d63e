package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"arrowc/internal/project"
	"arrowc/internal/trace"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 150 * time.Millisecond

// Watcher recompiles the sources under a directory whenever one of them
// changes. Bursts of events within the debounce window cause one rebuild,
// and a rebuild whose sources hash the same as the last one is skipped.
type Watcher struct {
	dir      string
	opts     Options
	debounce time.Duration
	fsw      *fsnotify.Watcher

	last  project.Digest
	built bool
}

// NewWatcher watches dir and every non-hidden directory below it.
func NewWatcher(dir string, opts Options, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{dir: dir, opts: opts, debounce: debounce, fsw: fsw}
	if err := w.addTree(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run builds once, then after every settled change, handing the units to
// report. It returns nil when ctx ends and an error when watching fails.
func (w *Watcher) Run(ctx context.Context, report func([]*Unit)) error {
	defer w.fsw.Close()
	if err := w.build(ctx, report); err != nil {
		return err
	}
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						return err
					}
				}
			}
			if filepath.Ext(ev.Name) != project.SourceExt || ev.Op == fsnotify.Chmod {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				defer timer.Stop()
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-fire:
			fire = nil
			if err := w.build(ctx, report); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) build(ctx context.Context, report func([]*Unit)) error {
	paths, err := project.ListSources(w.dir)
	if err != nil {
		return err
	}
	digest, err := project.Snapshot(paths)
	if err == nil && w.built && digest == w.last {
		trace.Point(w.opts.Tracer, trace.ScopeDriver, "watch", "unchanged", 0)
		return nil
	}
	units, err := CompileFiles(ctx, paths, w.opts)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
	w.last, w.built = digest, true
	if err := w.opts.Cache.Save(); err != nil {
		return fmt.Errorf("save contract cache: %w", err)
	}
	report(units)
	return nil
}
