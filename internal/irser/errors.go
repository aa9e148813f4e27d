package irser

import (
	"errors"
	"fmt"
	"strings"

	"irpack/internal/ir"
	"irpack/internal/wire"
)

// ErrorKind classifies codec failures.
type ErrorKind uint8

const (
	// ErrKindUnsupportedNodeKind: a node, type or declaration variant has no wire mapping.
	ErrKindUnsupportedNodeKind ErrorKind = iota + 1
	// ErrKindUnresolvedSymbol: a reference could not be bound to a declaration.
	ErrKindUnresolvedSymbol
	// ErrKindMalformedWire: structurally invalid input.
	ErrKindMalformedWire
	// ErrKindFakeOverrideResolutionAmbiguous: no real member behind a fake override.
	ErrKindFakeOverrideResolutionAmbiguous
	// ErrKindFetchFailure: the blob fetch function failed.
	ErrKindFetchFailure
	// ErrKindInvalidGraph: the graph handed to Encode is inconsistent.
	ErrKindInvalidGraph
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindUnsupportedNodeKind:
		return "unsupported node kind"
	case ErrKindUnresolvedSymbol:
		return "unresolved symbol"
	case ErrKindMalformedWire:
		return "malformed wire"
	case ErrKindFakeOverrideResolutionAmbiguous:
		return "fake override resolution ambiguous"
	case ErrKindFetchFailure:
		return "fetch failure"
	case ErrKindInvalidGraph:
		return "invalid graph"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Error is returned by every failing Encode, Decode or Load call.
type Error struct {
	Kind   ErrorKind
	ID     ir.UniqID // offending identity, if any
	Node   string    // node kind being processed, if known
	Detail string
	Err    error
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrUnsupportedNodeKind             = &Error{Kind: ErrKindUnsupportedNodeKind}
	ErrUnresolvedSymbol                = &Error{Kind: ErrKindUnresolvedSymbol}
	ErrMalformedWire                   = &Error{Kind: ErrKindMalformedWire}
	ErrFakeOverrideResolutionAmbiguous = &Error{Kind: ErrKindFakeOverrideResolutionAmbiguous}
	ErrFetchFailure                    = &Error{Kind: ErrKindFetchFailure}
	ErrInvalidGraph                    = &Error{Kind: ErrKindInvalidGraph}
)

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteString("irser: ")
	sb.WriteString(e.Kind.String())
	if e.Node != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Node)
	}
	if e.ID.IsValid() {
		sb.WriteString(" (")
		sb.WriteString(e.ID.String())
		sb.WriteString(")")
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.ID == 0 && t.Node == "" && t.Detail == "" && t.Err == nil
}

func newError(kind ErrorKind, node, format string, args ...any) *Error {
	return &Error{Kind: kind, Node: node, Detail: fmt.Sprintf(format, args...)}
}

func unsupported(node string, v any) *Error {
	return newError(ErrKindUnsupportedNodeKind, node, "%T", v)
}

func malformed(node, format string, args ...any) *Error {
	return newError(ErrKindMalformedWire, node, format, args...)
}

func invalidGraph(node, format string, args ...any) *Error {
	return newError(ErrKindInvalidGraph, node, format, args...)
}

func unresolved(id ir.UniqID, format string, args ...any) *Error {
	e := newError(ErrKindUnresolvedSymbol, "symbol", format, args...)
	e.ID = id
	return e
}

// wireError maps a dispatch or decoding failure from the wire layer onto the
// codec error kinds. Errors that are already *Error pass through.
func wireError(node string, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, wire.ErrUnknownCase) {
		return &Error{Kind: ErrKindUnsupportedNodeKind, Node: node, Err: err}
	}
	return &Error{Kind: ErrKindMalformedWire, Node: node, Err: err}
}
