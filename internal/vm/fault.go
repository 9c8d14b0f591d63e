package vm

import (
	"fmt"
	"strings"

	"arrowc/internal/diag"
	"arrowc/internal/source"
)

// BacktraceFrame is one active call when a fault was raised.
type BacktraceFrame struct {
	Func string
	Span source.Span
}

// Fault is a runtime error. Code is one of the diag Run* codes.
type Fault struct {
	Code      diag.Code
	Span      source.Span
	Msg       string
	Backtrace []BacktraceFrame // innermost first
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Code.ID(), f.Msg)
}

// FormatWithFiles renders the fault with file positions for the span and
// every backtrace frame.
func (f *Fault) FormatWithFiles(files *source.FileSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "fault %s: %s\n", f.Code.ID(), f.Msg)
	sb.WriteString("at ")
	sb.WriteString(formatSpan(f.Span, files))
	sb.WriteString("\n")
	if len(f.Backtrace) > 0 {
		sb.WriteString("backtrace:\n")
		for i, fr := range f.Backtrace {
			fmt.Fprintf(&sb, "  %d: %s at %s\n", i, fr.Func, formatSpan(fr.Span, files))
		}
	}
	return sb.String()
}

func formatSpan(span source.Span, files *source.FileSet) string {
	if files == nil || span.Empty() {
		return "<no-span>"
	}
	file := files.Get(span.File)
	if file == nil {
		return "<no-span>"
	}
	start, _ := files.Resolve(span)
	return fmt.Sprintf("%s:%s", file.DisplayPath(), start)
}

// fault builds a fault at sp with the current call stack.
func (m *Machine) fault(code diag.Code, sp source.Span, format string, args ...any) *Fault {
	f := &Fault{Code: code, Span: sp, Msg: fmt.Sprintf(format, args...)}
	f.Backtrace = make([]BacktraceFrame, 0, len(m.stack))
	for i := len(m.stack) - 1; i >= 0; i-- {
		fr := m.stack[i]
		f.Backtrace = append(f.Backtrace, BacktraceFrame{Func: fr.name(), Span: fr.span})
	}
	return f
}

func (m *Machine) nullRef(sp source.Span, what string) *Fault {
	return m.fault(diag.RunNullReference, sp, "%s on null", what)
}
