package events

import (
	"errors"
	"testing"
	"time"
)

func TestNewBus(t *testing.T) {
	bus := NewBus()
	if bus == nil {
		t.Fatal("NewBus() returned nil")
	}
	if bus.Recorded == nil {
		t.Fatal("Recorded channel is nil")
	}
}

func TestBus_SendReceive(t *testing.T) {
	bus := NewBus()
	ev := Event{Kind: ZoneWalkIn, Zone: "Bakery"}

	go func() {
		bus.Publish(ev)
	}()

	select {
	case received := <-bus.Recorded:
		if received.Zone != "Bakery" {
			t.Errorf("received Zone = %q, want %q", received.Zone, "Bakery")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_PublishDropsWhenFull(t *testing.T) {
	bus := NewBus()

	for i := 0; i < cap(bus.Recorded); i++ {
		if !bus.Publish(Event{Kind: WalkIn}) {
			t.Fatalf("Publish() dropped event %d before buffer was full", i)
		}
	}
	if bus.Publish(Event{Kind: WalkOut}) {
		t.Error("Publish() on a full bus = true, want false")
	}
}

func TestLog_NewestFirst(t *testing.T) {
	l := NewLog(5)
	l.Prepend(Event{Kind: WalkIn})
	l.Prepend(Event{Kind: ZoneWalkIn, Zone: "Exit"})

	got := l.Snapshot()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Kind != ZoneWalkIn || got[1].Kind != WalkIn {
		t.Errorf("order = [%s %s], want [Zone Walk In, Walk In]", got[0].Kind, got[1].Kind)
	}
}

func TestLog_EvictsOldestAtCapacity(t *testing.T) {
	l := NewLog(0)
	if l.Capacity() != DefaultCapacity {
		t.Fatalf("Capacity() = %d, want %d", l.Capacity(), DefaultCapacity)
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 150; i++ {
		l.Prepend(Event{Kind: WalkIn, Timestamp: base.Add(time.Duration(i) * time.Second)})
	}

	got := l.Snapshot()
	if len(got) != 100 {
		t.Fatalf("len = %d, want 100", len(got))
	}
	if !got[0].Timestamp.Equal(base.Add(149 * time.Second)) {
		t.Errorf("newest = %v, want event 149", got[0].Timestamp)
	}
	if !got[99].Timestamp.Equal(base.Add(50 * time.Second)) {
		t.Errorf("oldest kept = %v, want event 50", got[99].Timestamp)
	}
}

func TestLog_SnapshotIsACopy(t *testing.T) {
	l := NewLog(3)
	l.Prepend(Event{Kind: WalkIn})
	snap := l.Snapshot()
	snap[0].Kind = WalkOut

	if l.Snapshot()[0].Kind != WalkIn {
		t.Error("mutating a snapshot changed the log")
	}
}

type stubCue struct {
	calls int
	err   error
	panic bool
}

func (s *stubCue) Play() error {
	s.calls++
	if s.panic {
		panic("no audio device")
	}
	return s.err
}

func TestRecorder_StampsAndPrepends(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cue := &stubCue{}
	r := NewRecorder(NewLog(10), func() time.Time { return now }, cue)

	ev := r.Record(ZoneWalkIn, "Bakery", nil)
	if !ev.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v, want %v", ev.Timestamp, now)
	}
	if r.Log().Len() != 1 {
		t.Errorf("log length = %d, want 1", r.Log().Len())
	}
	if cue.calls != 1 {
		t.Errorf("cue calls = %d, want 1", cue.calls)
	}
}

func TestRecorder_CueFailureDoesNotBlockRecording(t *testing.T) {
	for _, cue := range []*stubCue{{err: errors.New("no audio context")}, {panic: true}} {
		r := NewRecorder(NewLog(10), nil, cue)
		var sunk []Event
		r.AddSink(func(ev Event) { sunk = append(sunk, ev) })

		r.Record(SignUp, "", &Signup{Name: "Ada", Email: "ada@example.com"})

		if r.Log().Len() != 1 {
			t.Errorf("log length = %d, want 1", r.Log().Len())
		}
		if len(sunk) != 1 || sunk[0].Data == nil || sunk[0].Data.Email != "ada@example.com" {
			t.Errorf("sink got %+v", sunk)
		}
	}
}

func TestRecorder_SinksInOrder(t *testing.T) {
	r := NewRecorder(NewLog(10), nil, nil)
	var order []string
	r.AddSink(func(Event) { order = append(order, "first") })
	r.AddSink(func(Event) { order = append(order, "second") })

	r.Record(WalkIn, "", nil)
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("order = %v", order)
	}
}

func TestBus_Close(t *testing.T) {
	bus := NewBus()
	bus.Close()
	bus.Close()

	if bus.Publish(Event{Kind: WalkIn}) {
		t.Error("Publish() after Close = true")
	}
	if _, ok := <-bus.Recorded; ok {
		t.Error("Recorded should be closed")
	}
}
