// Package emit holds the per-pass assembly build state handed to the binary
// writer: injected marker types, the file table of a multi-module assembly and
// the embedded resources lifted out of secondary modules.
//
// An AssemblyBuilder is safe for concurrent use. Files, injected types and
// lifted resources are each computed at most once per builder; concurrent
// callers may compute redundantly but observe a single published result, and
// only the publishing goroutine reports diagnostics.
package emit
