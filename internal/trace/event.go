package trace

import "time"

// Kind is the type of a trace event.
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

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	// ScopeSession covers one Encode, Decode or Load call.
	ScopeSession Scope = iota + 1
	// ScopeFile covers one file of a module.
	ScopeFile
	// ScopeDecl covers one top-level declaration blob.
	ScopeDecl
	// ScopeNode marks a single serialized node.
	ScopeNode
)

func (s Scope) String() string {
	switch s {
	case ScopeSession:
		return "session"
	case ScopeFile:
		return "file"
	case ScopeDecl:
		return "decl"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the sink, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // e.g. "encode", "file:a.kt", "decl:#1000000001"
	Detail   string
	Extra    map[string]string
}
