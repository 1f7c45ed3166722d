// Package diag defines the diagnostic model shared by every emission phase.
//
// # Purpose
//
//   - Provide deterministic data structures for findings produced while
//     synthesizing marker types, aggregating files and lifting resources.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable ID such
//     as EMT6001.
//   - Message – short, actionable text.
//   - Primary – the source.Span the finding points at. Assembly-level
//     findings use source.NoSpan.
//   - Notes – optional secondary spans with additional context.
//
// # Emitting diagnostics
//
// Phases receive a Reporter. Producers that may run on several goroutines
// must be handed a SyncReporter; BagReporter alone is not safe for concurrent
// use.
//
// The emit stage reports every recoverable condition once: only the
// goroutine that publishes a lazily computed value reports.
package diag
