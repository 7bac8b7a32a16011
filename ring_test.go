package nethuns

import "testing"

func TestNethunsRingCapacityNotBackingSize(t *testing.T) {
	r := newNethunsRing(5, 64)
	if r.Size() != 5 {
		t.Fatalf("Size() = %d, want 5 (logical capacity, not rounded backing size)", r.Size())
	}
	if !r.IsEmpty() || r.IsFull() {
		t.Fatalf("fresh ring must be empty and not full")
	}
}

func TestSendSlotPublishesAndRejectsBusy(t *testing.T) {
	r := newNethunsRing(4, 64)
	if !r.SendSlot(0, 10) {
		t.Fatalf("SendSlot on a Free slot must succeed")
	}
	s := r.GetSlot(0)
	if s.Status.LoadAcquire() != StatusInUse {
		t.Fatalf("status after SendSlot = %v, want InUse", s.Status.LoadAcquire())
	}
	if s.Len != 10 {
		t.Fatalf("Len = %d, want 10", s.Len)
	}
	if r.SendSlot(0, 20) {
		t.Fatalf("SendSlot on a busy slot must fail")
	}
}

func TestNumFreeSlotsStopsAtFirstBusy(t *testing.T) {
	r := newNethunsRing(8, 64)
	r.SendSlot(2, 1)
	if n := r.NumFreeSlots(0); n != 2 {
		t.Fatalf("NumFreeSlots(0) = %d, want 2 (slots 0,1 free, 2 busy)", n)
	}
}

func TestNumFreeSlotsCapsAtBatch(t *testing.T) {
	r := newNethunsRing(64, 64)
	if n := r.NumFreeSlots(0); n != reclaimBatchCap {
		t.Fatalf("NumFreeSlots(0) = %d, want cap of %d", n, reclaimBatchCap)
	}
}

func TestFreeSlotsRecyclesConsecutiveFreeTail(t *testing.T) {
	r := newNethunsRing(4, 64)
	for i := 0; i < 4; i++ {
		r.SendSlot(uint64(i), 1)
		r.GetSlot(uint64(i)).Pkthdr.BufIdx = uint32(100 + i)
	}
	r.AdvanceTail() // simulate tail having already moved past slot 0
	r.GetSlot(0).Status.StoreRelease(StatusFree)
	r.GetSlot(1).Status.StoreRelease(StatusFree)

	var recycled []uint32
	r.FreeSlots(func(bufIdx uint32) { recycled = append(recycled, bufIdx) })
	if len(recycled) != 1 {
		t.Fatalf("expected exactly one slot recycled (slot 1, since tail starts at 1), got %v", recycled)
	}
	if recycled[0] != 101 {
		t.Fatalf("recycled bufIdx = %d, want 101", recycled[0])
	}
}
