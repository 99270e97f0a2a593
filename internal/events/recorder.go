package events

import (
	"log"
	"sync"
	"time"
)

// Cue is the audible feedback played for every recorded event.
type Cue interface {
	Play() error
}

// Recorder stamps events, keeps them in a Log and fans them out to sinks.
type Recorder struct {
	log *Log
	now func() time.Time
	cue Cue

	mu    sync.RWMutex
	sinks []func(Event)
}

func NewRecorder(l *Log, now func() time.Time, cue Cue) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{log: l, now: now, cue: cue}
}

// AddSink registers fn to receive every event recorded from now on.
func (r *Recorder) AddSink(fn func(Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, fn)
}

func (r *Recorder) Record(kind Kind, zone string, data *Signup) Event {
	ev := Event{
		Kind:      kind,
		Zone:      zone,
		Timestamp: r.now(),
		Data:      data,
	}
	r.log.Prepend(ev)
	r.playCue(ev)

	r.mu.RLock()
	sinks := r.sinks
	r.mu.RUnlock()
	for _, fn := range sinks {
		fn(ev)
	}
	return ev
}

func (r *Recorder) Log() *Log {
	return r.log
}

// playCue never lets a feedback failure reach the caller.
func (r *Recorder) playCue(ev Event) {
	if r.cue == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[Feedback] %s cue panicked: %v\n", ev.Kind, p)
		}
	}()
	if err := r.cue.Play(); err != nil {
		log.Printf("[Feedback] %s cue failed: %v\n", ev.Kind, err)
	}
}
