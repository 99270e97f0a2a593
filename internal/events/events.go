package events

import (
	"sync"
	"time"
)

type Kind string

const (
	SignUp             = Kind("Sign Up")
	WalkIn             = Kind("Walk In")
	WalkOut            = Kind("Walk Out")
	DwellThreshold     = Kind("Dwell Threshold")
	ZoneWalkIn         = Kind("Zone Walk In")
	ZoneWalkOut        = Kind("Zone Walk Out")
	ZoneDwellThreshold = Kind("Zone Dwell Threshold")
)

var Kinds = []Kind{SignUp, WalkIn, WalkOut, DwellThreshold, ZoneWalkIn, ZoneWalkOut, ZoneDwellThreshold}

// Signup is the payload of a submitted signup form.
type Signup struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Event struct {
	Kind      Kind      `json:"type"`
	Zone      string    `json:"zone,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Data      *Signup   `json:"data,omitempty"`
}

// Bus carries recorded events to a single consumer.
type Bus struct {
	Recorded chan Event

	mu     sync.Mutex
	closed bool
}

func NewBus() *Bus {
	return &Bus{
		Recorded: make(chan Event, 64),
	}
}

// Publish hands ev to the consumer without blocking. It reports false when
// the buffer is full and the event was dropped.
func (b *Bus) Publish(ev Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	select {
	case b.Recorded <- ev:
		return true
	default:
		return false
	}
}

// Close ends the stream; later publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.Recorded)
	}
}
