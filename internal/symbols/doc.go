// Package symbols is the emitter's narrow view of the front-end symbol
// table: named top-level types, their constructors, and the Compilation
// contract used to resolve well-known and special types.
//
// Table is an in-memory Compilation used by the driver and by tests.
package symbols
