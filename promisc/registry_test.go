package promisc

import "testing"

func TestTransitionsOnlyAtEdges(t *testing.T) {
	dev := "test0-" + t.Name()
	var calls []bool
	fake := func(d string, on bool) error {
		calls = append(calls, on)
		return nil
	}

	if err := Set(dev, fake); err != nil {
		t.Fatal(err)
	}
	if err := Set(dev, fake); err != nil {
		t.Fatal(err)
	}
	if Refcount(dev) != 2 {
		t.Fatalf("refcount = %d, want 2", Refcount(dev))
	}
	if len(calls) != 1 || calls[0] != true {
		t.Fatalf("expected exactly one on-transition, got %v", calls)
	}

	if err := Clear(dev, fake); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 1 {
		t.Fatalf("clearing from 2->1 must not issue an ioctl, got %v", calls)
	}
	if err := Clear(dev, fake); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 2 || calls[1] != false {
		t.Fatalf("expected exactly one off-transition after draining refcount, got %v", calls)
	}
	if Refcount(dev) != 0 {
		t.Fatalf("refcount = %d, want 0", Refcount(dev))
	}
}

func TestClearOnUntouchedDeviceIsNoop(t *testing.T) {
	dev := "untouched-" + t.Name()
	called := false
	if err := Clear(dev, func(string, bool) error { called = true; return nil }); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Fatalf("Clear on a never-set device must not issue an ioctl")
	}
}
