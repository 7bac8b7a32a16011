package nethuns

import "testing"

func TestDeviceSpec(t *testing.T) {
	cases := []struct {
		dev   string
		queue Queue
		mode  SocketMode
		want  string
	}{
		{"eth0", AnyQueue(), ModeRxTx, "netmap:eth0"},
		{"eth0", SomeQueue(3), ModeRxTx, "netmap:eth0-3"},
		{"eth0", AnyQueue(), ModeRxOnly, "netmap:eth0/R"},
		{"eth0", AnyQueue(), ModeTxOnly, "netmap:eth0/T"},
		{"valeSW0:a", AnyQueue(), ModeRxTx, "valeSW0:a"},
		{"valeSW0:a", SomeQueue(1), ModeRxTx, "valeSW0:a:1"},
	}
	for _, c := range cases {
		got := deviceSpec(c.dev, c.queue, c.mode)
		if got != c.want {
			t.Errorf("deviceSpec(%q, %v, %v) = %q, want %q", c.dev, c.queue, c.mode, got, c.want)
		}
	}
}

func TestDeviceQueueName(t *testing.T) {
	cases := []struct {
		dev   string
		queue Queue
		want  string
	}{
		{"", AnyQueue(), "unspec"},
		{"eth0", AnyQueue(), "eth0"},
		{"eth0", SomeQueue(2), "eth0:2"},
	}
	for _, c := range cases {
		if got := DeviceQueueName(c.dev, c.queue); got != c.want {
			t.Errorf("DeviceQueueName(%q, %v) = %q, want %q", c.dev, c.queue, got, c.want)
		}
	}
}
