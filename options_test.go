package nethuns

import "testing"

func TestNewSocketOptionsDefaults(t *testing.T) {
	o := NewSocketOptions()
	if o.NumBlocks != 1 || o.NumPackets != 1024 || o.PacketSize != 2048 {
		t.Fatalf("unexpected defaults: %+v", o)
	}
	if o.Mode != ModeRxTx || o.Dir != DirInOut {
		t.Fatalf("unexpected default mode/dir: %+v", o)
	}
}

func TestOptionOverrides(t *testing.T) {
	o := NewSocketOptions(
		WithBlocks(2, 512),
		WithPacketSize(4096),
		WithMode(ModeRxOnly),
		WithPromisc(true),
	)
	if o.NumBlocks != 2 || o.NumPackets != 512 || o.PacketSize != 4096 {
		t.Fatalf("overrides not applied: %+v", o)
	}
	if o.Mode != ModeRxOnly || !o.Promisc {
		t.Fatalf("mode/promisc overrides not applied: %+v", o)
	}
}

func TestValidateRejectsNegative(t *testing.T) {
	o := NewSocketOptions(WithPacketSize(-1))
	if err := o.validate(); err == nil {
		t.Fatalf("expected ErrInvalidOptions for negative packet size")
	}
}

func TestWantsRxTx(t *testing.T) {
	cases := []struct {
		mode         SocketMode
		wantRx, want bool
	}{
		{ModeRxTx, true, true},
		{ModeRxOnly, true, false},
		{ModeTxOnly, false, true},
	}
	for _, c := range cases {
		o := NewSocketOptions(WithMode(c.mode))
		if o.wantsRx() != c.wantRx {
			t.Errorf("mode %v wantsRx = %v, want %v", c.mode, o.wantsRx(), c.wantRx)
		}
		if o.wantsTx() != c.want {
			t.Errorf("mode %v wantsTx = %v, want %v", c.mode, o.wantsTx(), c.want)
		}
	}
}
