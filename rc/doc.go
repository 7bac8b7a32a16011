// Package rc implements a dual-counted reference: a shared allocation
// with a non-atomic "local" count (cheap, single-owner-thread) and an
// atomic "shared" count (for cross-thread handoff), plus an atomic
// weak count.
//
// Go has no portable notion of "the current OS thread" the way the
// original C/Rust implementations do, so ownership here is tracked
// with an explicit Owner token instead of an implicit thread id: a
// goroutine that intends to hold Local handles mints one Owner (once,
// e.g. at socket-bind time) and passes it to every Local-side
// operation. This is the direct Go translation of the CAS'd
// "owner thread id" in the reference implementation.
package rc
