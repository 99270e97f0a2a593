package sessions

import (
	"sync"
	"sync/atomic"
	"time"

	"storefloor/internal/broadcast"
	"storefloor/internal/events"
	"storefloor/internal/tracking"
)

// Session is one visitor's floor plan. Code is short enough to read out to
// someone watching the event stream.
type Session struct {
	ID          string
	Code        string
	Tracker     *tracking.Tracker
	Recorder    *events.Recorder
	Bus         *events.Bus
	Broadcaster *broadcast.Broadcaster
	CreatedAt   time.Time

	recorded atomic.Int64

	mu       sync.Mutex
	lastSeen time.Time
	closed   bool
	done     chan struct{}
}

// Touch marks the session as active.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

// Recorded counts every event recorded in the session, including those
// already evicted from the log.
func (s *Session) Recorded() int {
	return int(s.recorded.Load())
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close tears down the tracker and ends every watcher stream.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.Tracker.Close()
	s.Bus.Close()
	<-s.Broadcaster.Done()
	s.Broadcaster.CloseAll()
}

// Done is closed once the session has been closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
