package timers

import (
	"sync"
	"time"
)

const StoreKey = "store"

// ZoneKey is the registry key of a zone's dwell timer.
func ZoneKey(id string) string {
	return "zone:" + id
}

type handle struct {
	timer Timer
}

// Registry holds at most one pending action per key. It has no lock of its
// own: every method must be called with the owner's lock held, and fired
// actions acquire that same lock before running.
type Registry struct {
	lock    sync.Locker
	clock   Clock
	handles map[string]*handle
}

func NewRegistry(clock Clock, lock sync.Locker) *Registry {
	return &Registry{
		lock:    lock,
		clock:   clock,
		handles: make(map[string]*handle),
	}
}

// Start schedules fn to run after d under key, cancelling any action already
// pending for that key first.
func (r *Registry) Start(key string, d time.Duration, fn func()) {
	r.Cancel(key)

	h := &handle{}
	h.timer = r.clock.AfterFunc(d, func() {
		r.lock.Lock()
		defer r.lock.Unlock()
		// cancelled or replaced while waiting on the lock
		if r.handles[key] != h {
			return
		}
		delete(r.handles, key)
		fn()
	})
	r.handles[key] = h
}

// Cancel drops the pending action for key. It reports whether one was pending.
func (r *Registry) Cancel(key string) bool {
	h, ok := r.handles[key]
	if !ok {
		return false
	}
	h.timer.Stop()
	delete(r.handles, key)
	return true
}

// CancelAll drops every pending action and returns how many there were.
func (r *Registry) CancelAll() int {
	n := len(r.handles)
	for key, h := range r.handles {
		h.timer.Stop()
		delete(r.handles, key)
	}
	return n
}

func (r *Registry) Active(key string) bool {
	_, ok := r.handles[key]
	return ok
}

func (r *Registry) Len() int {
	return len(r.handles)
}
