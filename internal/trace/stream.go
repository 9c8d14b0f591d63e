package trace

import (
	"io"
	"sync"
)

// StreamTracer writes each event to w as soon as it is emitted.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	owned  io.Closer // set when the tracer opened w itself
	level  Level
	format Format
}

// NewStreamTracer writes to w; w is never closed by the tracer.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	data := FormatEvent(ev, t.format)
	t.mu.Lock()
	defer t.mu.Unlock()
	// a failing trace sink must not fail compilation
	_, _ = t.w.Write(data)
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.w.(interface{ Sync() error }); ok && t.owned != nil {
		return s.Sync()
	}
	return nil
}

// Close flushes and closes the output file when the tracer opened it.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.owned == nil {
		return nil
	}
	err := t.owned.Close()
	t.owned = nil
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
