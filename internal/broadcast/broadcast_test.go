package broadcast

import (
	"encoding/json"
	"testing"
	"time"

	"storefloor/internal/events"
)

func TestNewBroadcaster(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)
	if b == nil {
		t.Fatal("NewBroadcaster() returned nil")
	}
	bus.Close()
}

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	b := NewBroadcaster(bus)

	ch := b.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() returned nil")
	}

	b.Mu.Lock()
	if len(b.Clients) != 1 {
		t.Errorf("clients count = %d, want 1", len(b.Clients))
	}
	b.Mu.Unlock()

	b.Unsubscribe(ch)
	// Should not panic
	b.Unsubscribe(ch)

	b.Mu.Lock()
	if len(b.Clients) != 0 {
		t.Errorf("clients count after unsubscribe = %d, want 0", len(b.Clients))
	}
	b.Mu.Unlock()
}

func TestBroadcaster_Broadcast(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	b := NewBroadcaster(bus)

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()

	b.Broadcast("test-event", "hello")

	for i, ch := range []chan Message{ch1, ch2} {
		select {
		case msg := <-ch:
			if msg.Event != "test-event" || msg.Msg != "hello" {
				t.Errorf("ch%d got %+v, want event=test-event, msg=hello", i+1, msg)
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("ch%d timed out", i+1)
		}
	}

	b.Unsubscribe(ch1)
	b.Unsubscribe(ch2)
}

func TestBroadcaster_SkipsFullChannels(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	b := NewBroadcaster(bus)

	ch := b.Subscribe()

	// Fill the channel buffer (capacity 10)
	for i := 0; i < 10; i++ {
		b.Broadcast("fill", "data")
	}

	// This should not block even though channel is full
	done := make(chan bool)
	go func() {
		b.Broadcast("overflow", "data")
		done <- true
	}()

	select {
	case <-done:
		// Success - didn't block
	case <-time.After(1 * time.Second):
		t.Fatal("Broadcast blocked on full channel")
	}

	b.Unsubscribe(ch)
}

func TestBroadcaster_EventForwarding(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)

	ch := b.Subscribe()

	bus.Publish(events.Event{Kind: events.ZoneDwellThreshold, Zone: "Checkout"})

	select {
	case msg := <-ch:
		if msg.Event != "zoneDwellThreshold" {
			t.Errorf("event name = %q, want zoneDwellThreshold", msg.Event)
		}
		var ev events.Event
		if err := json.Unmarshal([]byte(msg.Msg), &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Zone != "Checkout" || ev.Kind != events.ZoneDwellThreshold {
			t.Errorf("forwarded %+v", ev)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for forwarded event")
	}

	bus.Close()
	select {
	case <-b.Done():
	case <-time.After(1 * time.Second):
		t.Fatal("forwarder did not stop after bus close")
	}
	b.CloseAll()
	if _, ok := <-ch; ok {
		t.Error("subscriber channel should be closed by CloseAll")
	}
}

func TestEventName(t *testing.T) {
	cases := map[events.Kind]string{
		events.SignUp:             "signUp",
		events.WalkIn:             "walkIn",
		events.DwellThreshold:     "dwellThreshold",
		events.ZoneWalkOut:        "zoneWalkOut",
		events.ZoneDwellThreshold: "zoneDwellThreshold",
	}
	for kind, want := range cases {
		if got := EventName(kind); got != want {
			t.Errorf("EventName(%q) = %q, want %q", kind, got, want)
		}
	}
}
