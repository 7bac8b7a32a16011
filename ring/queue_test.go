package ring

import "testing"

func TestNewRoundsUpToPow2(t *testing.T) {
	cases := []struct {
		cap  int
		size int
	}{
		{1, 1},
		{2, 2},
		{3, 4},
		{5, 8},
		{12, 16},
		{16, 16},
		{30, 32},
	}
	for _, c := range cases {
		q := New[int](c.cap)
		if q.Size() != c.size {
			t.Errorf("New(%d).Size() = %d, want %d", c.cap, q.Size(), c.size)
		}
		if q.Cap() != c.cap {
			t.Errorf("New(%d).Cap() = %d, want %d", c.cap, q.Cap(), c.cap)
		}
	}
}

func TestEmptyFullInvariants(t *testing.T) {
	q := New[int](4)
	if !q.IsEmpty() || q.IsFull() {
		t.Fatalf("new queue must be empty and not full")
	}

	for i := 0; i < 4; i++ {
		if !q.Push(i) {
			t.Fatalf("push %d should succeed", i)
		}
	}
	if q.IsEmpty() || !q.IsFull() {
		t.Fatalf("queue at logical capacity must report full")
	}
	if q.Push(100) {
		t.Fatalf("push beyond capacity must fail")
	}

	for i := 0; i < 4; i++ {
		v, ok := q.Pop()
		if !ok || v != i {
			t.Fatalf("pop %d = (%d, %v), want (%d, true)", i, v, ok, i)
		}
	}
	if !q.IsEmpty() {
		t.Fatalf("queue drained to empty")
	}
}

func TestWrapAround(t *testing.T) {
	// Capacity 1 rounds the backing array to size 1, so every push
	// must be immediately followed by a pop to avoid overwriting.
	q := New[int](1)
	for i := 0; i < 1000; i++ {
		q.PushUnchecked(i)
		v, ok := q.Pop()
		if !ok || v != i {
			t.Fatalf("iteration %d: got (%d, %v)", i, v, ok)
		}
	}
	if q.Head() != q.Tail() || q.Head() != 1000 {
		t.Fatalf("expected head==tail==1000, got head=%d tail=%d", q.Head(), q.Tail())
	}
}

func TestScanStopsAtFalse(t *testing.T) {
	q := New[int](8)
	for i := 0; i < 8; i++ {
		q.PushUnchecked(i)
	}
	var seen []int
	q.Scan(q.Head(), 8, func(v *int) bool {
		if *v == 4 {
			return false
		}
		seen = append(seen, *v)
		return true
	})
	if len(seen) != 4 {
		t.Fatalf("expected scan to stop after 4 elements, got %v", seen)
	}
}
