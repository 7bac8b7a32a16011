// Package filter builds byte-slice packet predicates: raw protocol
// header parsers, port-match filters built on them, and a bridge to
// classic BPF programs. Predicates are combined with Any/All and
// handed to the nethuns package, which adapts one into its header-aware
// FilterFunc for SetFilter.
package filter

// Predicate tests whether a packet's on-wire bytes should be accepted.
// Unlike the C convention of "0 means reject, nonzero means accept"
// that a BPF program returns, a Predicate is a plain bool: it is the
// unit every filter in this package, and every combinator, works in.
type Predicate func(p []byte) bool

// All returns a Predicate that accepts only when every preds member
// accepts; an empty preds accepts everything.
func All(preds ...Predicate) Predicate {
	return func(p []byte) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}

// Any returns a Predicate that accepts when at least one preds member
// accepts; an empty preds accepts nothing.
func Any(preds ...Predicate) Predicate {
	return func(p []byte) bool {
		for _, pred := range preds {
			if pred(p) {
				return true
			}
		}
		return false
	}
}
