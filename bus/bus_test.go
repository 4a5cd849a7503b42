// bus/bus_test.go
package bus

import (
	"testing"
	"time"
)

func expectPayload(t *testing.T, sub *Subscription, want any) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		if got.Payload != want {
			t.Errorf("payload = %v, want %v", got.Payload, want)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for %v on %s", want, sub.Topic().String())
	}
}

func expectNoMessage(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		t.Fatalf("unexpected message %v on %s", got.Payload, sub.Topic().String())
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("config", "timers"))
	conn.Publish(conn.NewMessage(T("config", "timers"), "hello", false))

	expectPayload(t, sub, "hello")
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("timer", "state"), "persist", true))

	sub := conn.Subscribe(T("timer", "state"))
	expectPayload(t, sub, "persist")
}

func TestRetainedClear(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("timer", "state"), "persist", true))
	conn.Publish(conn.NewMessage(T("timer", "state"), nil, true))

	sub := conn.Subscribe(T("timer", "state"))
	expectNoMessage(t, sub)
}

func TestWildcardSingleLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	s1 := c.Subscribe(T("timer", "control", "+"))
	sNo := c.Subscribe(T("timer", "event", "+"))

	c.Publish(c.NewMessage(T("timer", "control", "start"), "m1", false))

	expectPayload(t, s1, "m1")
	expectNoMessage(t, sNo)
}

func TestWildcardSeesRetained(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	c.Publish(c.NewMessage(T("config", "timers"), "cfg", true))

	sub := c.Subscribe(T("config", "+"))
	expectPayload(t, sub, "cfg")
}

func TestQueueDropsOldest(t *testing.T) {
	b := NewBus(1)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("a"))
	c.Publish(c.NewMessage(T("a"), 1, false))
	c.Publish(c.NewMessage(T("a"), 2, false))

	expectPayload(t, sub, 2)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("a", "b"))
	sub.Unsubscribe()
	c.Publish(c.NewMessage(T("a", "b"), "gone", false))

	if _, open := <-sub.Channel(); open {
		t.Fatal("expected channel closed after unsubscribe")
	}
}

func TestDisconnectClosesAll(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	s1 := c.Subscribe(T("a"))
	s2 := c.Subscribe(T("b"))
	c.Disconnect()

	if _, open := <-s1.Channel(); open {
		t.Fatal("s1 still open after disconnect")
	}
	if _, open := <-s2.Channel(); open {
		t.Fatal("s2 still open after disconnect")
	}
}
