// Package trace provides the tracing subsystem of the emitter.
//
// The trace package records emission phases (marker freeze, file
// aggregation, resource lifting) and per-module work so slow or stuck
// builds can be diagnosed.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	asmemit emit --trace=- --trace-level=detail asm.toml
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer kept for crash dumps
//   - MultiTracer: fan-out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only crash dumps
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: module-level events
//   - LevelDebug: everything
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopePass, "freeze")
//	defer span.End("")
package trace
