package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint // instant event
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

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	// ScopeCommand covers one CLI command from start to exit.
	ScopeCommand Scope = iota + 1
	// ScopePass covers a phase inside a command: catalog load, scan, report.
	ScopePass
	// ScopeSymbol covers the classification of one symbol.
	ScopeSymbol
	// ScopeDecode covers point events raised while decoding a symbol.
	ScopeDecode
)

func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopePass:
		return "pass"
	case ScopeSymbol:
		return "symbol"
	case ScopeDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the tracer that stores the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // e.g. "scan", "symbol:_Z10read_imagef..."
	Detail   string
	Extra    map[string]string
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
