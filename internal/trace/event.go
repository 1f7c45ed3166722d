package trace

import "time"

// Kind tells span boundaries from instant events.
type Kind uint8

const (
	// KindSpanBegin opens a pass, module or driver span.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd closes it and carries the span's extras.
	KindSpanEnd
	// KindPoint records a unit's marker requests and similar one-off facts.
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

// Scope is how fine-grained an event is; lower values are coarser.
type Scope uint8

const (
	// ScopeDriver is one whole emission pass.
	ScopeDriver Scope = iota + 1
	// ScopePass is freeze, files or lift.
	ScopePass
	// ScopeModule is work on one secondary module.
	ScopeModule
	// ScopeUnit is one compilation unit reporting its marker needs.
	ScopeUnit
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeModule:
		return "module"
	case ScopeUnit:
		return "unit"
	default:
		return "unknown"
	}
}

// Event is one record written by a tracer.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	GID      int64             // goroutine ID
	Name     string            // "freeze", "lift", a module file name, "unit Program"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}
