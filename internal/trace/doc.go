// Package trace records what the IR codec does, one event per session,
// file, declaration blob and (at debug level) serialized node.
//
// # Usage
//
//	irpack print --trace=- --trace-level=decl ./store/mymodule
//
// # Sinks
//
//   - Nop: tracing disabled
//   - StreamTracer: writes each event as it happens (text or NDJSON)
//   - RingTracer: keeps the most recent events for dumping after a failure
//   - MultiTracer: fans out to several sinks
//
// # Levels and scopes
//
// Level phase emits session spans, detail adds file and declaration spans,
// debug adds node points. Level error emits nothing on its own; the ring is
// dumped by the caller when a command fails.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeSession, "encode", 0)
//	defer span.End("")
package trace
