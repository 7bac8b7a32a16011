package nethuns

import (
	"testing"

	"github.com/nethuns-go/nethuns/filter"
)

func TestFromByteFilterIgnoresHeaderTestsPayload(t *testing.T) {
	accept := FromByteFilter(func(p []byte) bool { return true })
	if !accept(&Pkthdr{}, []byte{1, 2, 3}) {
		t.Fatal("expected accept")
	}

	reject := FromByteFilter(filter.Predicate(func(p []byte) bool { return false }))
	if reject(&Pkthdr{}, []byte{1, 2, 3}) {
		t.Fatal("expected reject")
	}
}
