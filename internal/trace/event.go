package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeDriver  Scope = iota + 1 // CLI / driver
	ScopePhase                    // parse, resolve, classify, lower
	ScopeMember                   // one enclosing function or method
	ScopeLiteral                  // one function literal moving through its stages
	ScopeNode                     // resolver tiers, individual slots
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePhase:
		return "phase"
	case ScopeMember:
		return "member"
	case ScopeLiteral:
		return "literal"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // e.g. "parse", "member:Calc.run", "literal@12:5"
	Detail   string
	Extra    map[string]string
}
