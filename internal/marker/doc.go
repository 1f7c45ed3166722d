// Package marker synthesizes the compiler-generated marker attribute types
// an output assembly needs but that user source does not declare.
//
// A Registry collects needs from concurrent compilation work (Ensure), realizes
// each kind at most once (Realize) and is sealed by Freeze, which returns the
// immutable Snapshot consumed by the writer. Every lazily computed value is
// computed locally and published with a compare-and-swap; redundant work is
// discarded and only the publisher reports diagnostics.
package marker
