package events

import "sync"

const DefaultCapacity = 100

// Log keeps the most recent events, newest first.
type Log struct {
	mu       sync.Mutex
	capacity int
	entries  []Event
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		capacity: capacity,
		entries:  make([]Event, 0, capacity),
	}
}

// Prepend adds ev at the front, evicting the oldest entry once full.
func (l *Log) Prepend(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) < l.capacity {
		l.entries = append(l.entries, Event{})
	}
	copy(l.entries[1:], l.entries[:len(l.entries)-1])
	l.entries[0] = ev
}

func (l *Log) Snapshot() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Log) Capacity() int {
	return l.capacity
}
