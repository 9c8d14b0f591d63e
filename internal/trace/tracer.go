package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer is the interface every sink implements.
type Tracer interface {
	// Emit records an event. Must be goroutine-safe.
	Emit(ev *Event)
	// Flush writes buffered events.
	Flush() error
	// Close flushes and releases resources.
	Close() error
	Level() Level
	// Enabled reports Level() > LevelOff.
	Enabled() bool
}

// Sink selects where events go.
type Sink uint8

const (
	SinkStream Sink = iota + 1 // write immediately
	SinkRing                   // keep the last N in memory
	SinkLog                    // forward to commonlog
)

// ParseSink converts a comma separated list ("stream,ring") to sinks.
func ParseSink(s string) ([]Sink, error) {
	var out []Sink
	for part := range strings.SplitSeq(s, ",") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "stream":
			out = append(out, SinkStream)
		case "ring":
			out = append(out, SinkRing)
		case "log":
			out = append(out, SinkLog)
		case "":
		default:
			return nil, fmt.Errorf("invalid trace sink: %q (expected: stream|ring|log)", part)
		}
	}
	return out, nil
}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Sinks      []Sink    // default: stream
	Format     Format    // stream format
	Output     io.Writer // stream writer; when nil OutputPath is used
	OutputPath string    // "" or "-" means stderr
	RingSize   int       // default 4096
	LogName    string    // commonlog logger name, default "arrowc.trace"
}

// New builds a Tracer from cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = 4096
	}
	if len(cfg.Sinks) == 0 {
		cfg.Sinks = []Sink{SinkStream}
	}
	if cfg.Format == FormatAuto {
		cfg.Format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
			cfg.Format = FormatNDJSON
		}
	}

	tracers := make([]Tracer, 0, len(cfg.Sinks))
	for _, s := range cfg.Sinks {
		switch s {
		case SinkStream:
			st, err := openStream(cfg)
			if err != nil {
				return nil, err
			}
			tracers = append(tracers, st)
		case SinkRing:
			tracers = append(tracers, NewRingTracer(cfg.RingSize, cfg.Level))
		case SinkLog:
			name := cfg.LogName
			if name == "" {
				name = "arrowc.trace"
			}
			tracers = append(tracers, NewLogTracer(name, cfg.Level))
		default:
			return nil, fmt.Errorf("unknown trace sink: %d", s)
		}
	}
	if len(tracers) == 1 {
		return tracers[0], nil
	}
	return NewMultiTracer(cfg.Level, tracers...), nil
}

func openStream(cfg Config) (*StreamTracer, error) {
	if cfg.Output != nil {
		return NewStreamTracer(cfg.Output, cfg.Level, cfg.Format), nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return NewStreamTracer(os.Stderr, cfg.Level, cfg.Format), nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	st := NewStreamTracer(f, cfg.Level, cfg.Format)
	st.owned = f
	return st, nil
}

// Ring returns the first RingTracer reachable from t, if any.
func Ring(t Tracer) *RingTracer {
	switch v := t.(type) {
	case *RingTracer:
		return v
	case *MultiTracer:
		for _, inner := range v.tracers {
			if r := Ring(inner); r != nil {
				return r
			}
		}
	}
	return nil
}
