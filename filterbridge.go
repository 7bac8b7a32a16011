package nethuns

import "github.com/nethuns-go/nethuns/filter"

// FromByteFilter adapts a filter.Predicate (a byte-only packet test,
// as built by filter.TCPPortFilter/UDPPortFilter/FromBPF) into the
// header-aware FilterFunc SetFilter expects. It ignores the capture
// header, since none of the byte-level predicates in package filter
// look past the payload anyway.
func FromByteFilter(pred filter.Predicate) FilterFunc {
	return func(_ *Pkthdr, payload []byte) bool {
		return pred(payload)
	}
}
