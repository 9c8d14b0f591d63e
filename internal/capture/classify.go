package capture

import (
	"slices"

	"arrowc/internal/symbols"
)

// Reason explains why a variable is boxed.
type Reason uint8

const (
	NotBoxed Reason = iota
	WrittenInLiteral
	WrittenAfterCapture
	WrittenInLoop
)

func (r Reason) String() string {
	switch r {
	case WrittenInLiteral:
		return "written inside a literal"
	case WrittenAfterCapture:
		return "written after capture"
	case WrittenInLoop:
		return "written in a loop that also captures it"
	}
	return "not boxed"
}

// Classification records, for one member, which variables live in a shared
// box. It is computed before any literal of the member is emitted.
type Classification struct {
	reasons map[symbols.BindingID]Reason
}

// Classify inspects every captured variable of the table. A variable is
// boxed when some literal captures it and
//
//   - it is written inside any literal, or
//   - a write in the declaring function does not come textually before
//     every capture site, or
//   - a loop declared around the variable's declaration contains both a
//     write and a capture site.
func Classify(t *symbols.Table) *Classification {
	c := &Classification{reasons: make(map[symbols.BindingID]Reason)}
	for i := range t.Bindings {
		b := &t.Bindings[i]
		if !b.Kind.IsVariable() || !b.Captured() || len(b.Writes) == 0 {
			continue
		}
		if r := classify(b); r != NotBoxed {
			c.reasons[b.ID] = r
		}
	}
	return c
}

func classify(b *symbols.Binding) Reason {
	for _, w := range b.Writes {
		if w.Owner != b.Owner {
			return WrittenInLiteral
		}
	}
	for _, w := range b.Writes {
		for _, cs := range b.Captures {
			if w.Span.End > cs.Span.Start {
				return WrittenAfterCapture
			}
		}
	}
	for _, w := range b.Writes {
		for _, cs := range b.Captures {
			for _, loop := range w.Loops {
				if slices.Contains(cs.Loops, loop) && !slices.Contains(b.Loops, loop) {
					return WrittenInLoop
				}
			}
		}
	}
	return NotBoxed
}

// Boxed reports whether the variable must be stored in a shared box.
func (c *Classification) Boxed(id symbols.BindingID) bool {
	if c == nil {
		return false
	}
	_, ok := c.reasons[id]
	return ok
}

// Reason returns why id is boxed, or NotBoxed.
func (c *Classification) Reason(id symbols.BindingID) Reason {
	if c == nil {
		return NotBoxed
	}
	return c.reasons[id]
}

// Len returns the number of boxed variables.
func (c *Classification) Len() int {
	if c == nil {
		return 0
	}
	return len(c.reasons)
}
