package sessions

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefloor/internal/broadcast"
	"storefloor/internal/events"
	"storefloor/internal/feedback"
	"storefloor/internal/timers"
	"storefloor/internal/tracking"
	"storefloor/internal/wshub"
)

const DefaultTTL = 1 * time.Hour

type Config struct {
	Tracking    tracking.Config
	LogCapacity int
	TTL         time.Duration
	Clock       timers.Clock
	Hub         *wshub.Hub
	// CueAvailable reports whether a chime was synthesized for clients to play.
	CueAvailable bool
	// Observe, OnSignup and OnCount are optional hooks for metrics and storage.
	Observe  func(events.Event)
	OnSignup func(code string, s events.Signup)
	OnCount  func(n int)
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	cfg      Config
}

func NewStore(cfg Config) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = timers.RealClock{}
	}
	if cfg.Hub == nil {
		cfg.Hub = wshub.NewHub()
	}
	s := &Store{
		sessions: make(map[string]*Session),
		cfg:      cfg,
	}
	go s.sweepStale()
	return s
}

func (s *Store) Hub() *wshub.Hub {
	return s.cfg.Hub
}

func (s *Store) Create() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Try up to 10 times to generate a unique code
	for i := 0; i < 10; i++ {
		code, err := GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("generating session code: %w", err)
		}
		if _, exists := s.sessions[code]; exists {
			continue
		}

		sess := s.newSession(code)
		s.sessions[code] = sess
		s.countChanged()
		log.Printf("[Session] Created %s (%s)\n", code, sess.ID)
		return sess, nil
	}
	return nil, fmt.Errorf("failed to generate unique session code after 10 attempts")
}

func (s *Store) newSession(code string) *Session {
	hub := s.cfg.Hub
	cue := feedback.NewNotifier(s.cfg.CueAvailable, func() bool {
		return hub.Send(code, wshub.ServerMessage{Type: wshub.TypeCue})
	})

	bus := events.NewBus()
	rec := events.NewRecorder(events.NewLog(s.cfg.LogCapacity), s.cfg.Clock.Now, cue)
	rec.AddSink(func(ev events.Event) {
		hub.Send(code, wshub.ServerMessage{Type: wshub.TypeEvent, Event: &ev})
	})
	rec.AddSink(func(ev events.Event) {
		if !bus.Publish(ev) {
			log.Printf("[Session] %s bus full, dropping %s for watchers\n", code, ev.Kind)
		}
	})
	if s.cfg.Observe != nil {
		rec.AddSink(s.cfg.Observe)
	}

	tcfg := s.cfg.Tracking
	if s.cfg.OnSignup != nil {
		onSignup := s.cfg.OnSignup
		tcfg.OnSignup = func(su events.Signup) { onSignup(code, su) }
	}

	now := s.cfg.Clock.Now()
	sess := &Session{
		ID:          uuid.New().String(),
		Code:        code,
		Recorder:    rec,
		Bus:         bus,
		Broadcaster: broadcast.NewBroadcaster(bus),
		CreatedAt:   now,
		lastSeen:    now,
		done:        make(chan struct{}),
	}
	rec.AddSink(func(events.Event) { sess.recorded.Add(1) })
	sess.Tracker = tracking.New(tcfg, rec, s.cfg.Clock)
	return sess
}

func (s *Store) Get(code string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[code]
}

// Delete removes the session and closes it.
func (s *Store) Delete(code string) {
	s.mu.Lock()
	sess, ok := s.sessions[code]
	delete(s.sessions, code)
	if ok {
		s.countChanged()
	}
	s.mu.Unlock()

	if ok {
		sess.Close()
	}
}

func (s *Store) List() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	return list
}

// Sweep closes sessions that have seen no input for longer than the TTL and
// returns how many were removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	var stale []*Session
	for code, sess := range s.sessions {
		if now.Sub(sess.LastSeen()) > s.cfg.TTL {
			stale = append(stale, sess)
			delete(s.sessions, code)
		}
	}
	if len(stale) > 0 {
		s.countChanged()
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.Close()
		log.Printf("[Session] Swept idle session %s\n", sess.Code)
	}
	return len(stale)
}

func (s *Store) countChanged() {
	if s.cfg.OnCount != nil {
		s.cfg.OnCount(len(s.sessions))
	}
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.Sweep(s.cfg.Clock.Now())
	}
}
