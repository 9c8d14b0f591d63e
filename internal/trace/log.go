package trace

import (
	"github.com/tliron/commonlog"
)

// LogTracer forwards events to a commonlog logger: span ends and points at
// Info, span begins at Debug.
type LogTracer struct {
	log   commonlog.Logger
	level Level
}

func NewLogTracer(name string, level Level) *LogTracer {
	return &LogTracer{log: commonlog.GetLogger(name), level: level}
}

func (t *LogTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	lvl := commonlog.Info
	if ev.Kind == KindSpanBegin {
		lvl = commonlog.Debug
	}
	if !t.log.AllowLevel(lvl) {
		return
	}
	kv := []any{"scope", ev.Scope.String(), "kind", ev.Kind.String()}
	if ev.ParentID != 0 {
		kv = append(kv, "parent", ev.ParentID)
	}
	for k, v := range ev.Extra {
		kv = append(kv, k, v)
	}
	msg := ev.Name
	if ev.Detail != "" {
		msg += ": " + ev.Detail
	}
	t.log.Log(lvl, 1, msg, kv...)
}

func (t *LogTracer) Flush() error  { return nil }
func (t *LogTracer) Close() error  { return nil }
func (t *LogTracer) Level() Level  { return t.level }
func (t *LogTracer) Enabled() bool { return t.level > LevelOff }

