package tracking

import (
	"errors"
	"sync"
	"time"

	"storefloor/internal/events"
	"storefloor/internal/signup"
	"storefloor/internal/timers"
	"storefloor/internal/zones"
)

const DefaultStoreDwell = 10 * time.Second

var (
	ErrOverlayClosed = errors.New("signup overlay is not open")
	ErrClosed        = errors.New("tracker is closed")
)

type Config struct {
	Layout     zones.Layout
	StoreDwell time.Duration
	Viewport   zones.Size
	// OnSignup is called with every accepted signup, under the tracker lock.
	OnSignup func(events.Signup)
}

// Snapshot is a copy of the tracking state. StoreDwelling and ZoneDwelling
// are set while a dwell threshold is still pending.
type Snapshot struct {
	Pointer       zones.Point    `json:"pointer"`
	InStore       bool           `json:"inStore"`
	Zone          string         `json:"zone,omitempty"`
	OverlayOpen   bool           `json:"overlayOpen"`
	StoreDwelling bool           `json:"storeDwelling"`
	ZoneDwelling  bool           `json:"zoneDwelling"`
	Viewport      zones.Size     `json:"viewport"`
	Zones         []zones.Zone   `json:"zones"`
	Events        []events.Event `json:"events"`
}

// Tracker turns pointer input over the floor plan into store and zone
// events. All input and every fired dwell timer is serialized on one lock.
type Tracker struct {
	mu       sync.Mutex
	cfg      Config
	recorder *events.Recorder
	timers   *timers.Registry

	viewport zones.Size
	zones    []zones.Zone
	pointer  zones.Point
	inStore  bool
	current  *zones.Zone
	overlay  signup.Overlay
	closed   bool
}

func New(cfg Config, recorder *events.Recorder, clock timers.Clock) *Tracker {
	if cfg.StoreDwell <= 0 {
		cfg.StoreDwell = DefaultStoreDwell
	}
	if cfg.Layout == "" {
		cfg.Layout = zones.LayoutCircles
	}
	if clock == nil {
		clock = timers.RealClock{}
	}
	t := &Tracker{
		cfg:      cfg,
		recorder: recorder,
		pointer:  zones.Point{X: -100, Y: -100},
	}
	t.timers = timers.NewRegistry(clock, &t.mu)
	t.resize(cfg.Viewport)
	return t
}

// Resize regenerates the zone set for a new viewport.
func (t *Tracker) Resize(viewport zones.Size) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.resize(viewport)
}

func (t *Tracker) resize(viewport zones.Size) {
	if viewport.W <= 0 || viewport.H <= 0 {
		viewport = zones.Reference
	}
	t.viewport = viewport
	t.zones = zones.Provide(t.cfg.Layout, viewport)
}

// Move handles a pointer or touch position given in client coordinates,
// with surface being the floor plan's bounding rectangle in the same space.
func (t *Tracker) Move(client zones.Point, surface zones.Rect) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if surface.W > 0 && surface.H > 0 && surface.Size() != t.viewport {
		t.resize(surface.Size())
	}

	p := zones.Point{X: client.X - surface.X, Y: client.Y - surface.Y}
	t.pointer = p

	inStore := zones.Rect{W: t.viewport.W, H: t.viewport.H}.Contains(p)
	switch {
	case inStore && !t.inStore:
		t.enterStore()
	case !inStore && t.inStore:
		t.exitStore()
	}

	var found *zones.Zone
	if inStore {
		if z, ok := zones.Locate(t.zones, p); ok {
			found = &z
		}
	}
	if zoneID(found) != zoneID(t.current) {
		if t.current != nil {
			t.exitZone()
		}
		if found != nil {
			t.enterZone(*found)
		}
	}
}

// Leave forces a store and zone exit wherever the pointer was last seen.
func (t *Tracker) Leave() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if t.inStore {
		t.exitStore()
	}
	if t.current != nil {
		t.exitZone()
	}
}

// Click opens the signup overlay and records a payload-less signup. Clicks
// are ignored while the overlay is already open.
func (t *Tracker) Click() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.overlay.IsOpen() {
		return
	}
	t.overlay.Open()
	t.recorder.Record(events.SignUp, "", nil)
}

// Submit validates the signup form. A valid form is recorded with its
// payload and closes the overlay; an invalid one leaves it open.
func (t *Tracker) Submit(name, email string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if !t.overlay.IsOpen() {
		return ErrOverlayClosed
	}

	form := signup.Form{Name: name, Email: email}.Normalize()
	if err := signup.Validate(form); err != nil {
		return err
	}

	data := events.Signup{Name: form.Name, Email: form.Email}
	t.recorder.Record(events.SignUp, "", &data)
	t.overlay.Close()
	if t.cfg.OnSignup != nil {
		t.cfg.OnSignup(data)
	}
	return nil
}

func (t *Tracker) CloseOverlay() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.overlay.Close()
}

// Close tears the tracker down. Pending dwell timers are cancelled without
// emitting events and later input is ignored.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.timers.CancelAll()
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Snapshot{
		Pointer:     t.pointer,
		InStore:     t.inStore,
		Zone:        zoneID(t.current),
		OverlayOpen: t.overlay.IsOpen(),
		Viewport:    t.viewport,
		Zones:       append([]zones.Zone(nil), t.zones...),
	}
	s.StoreDwelling = t.timers.Active(timers.StoreKey)
	if t.current != nil {
		s.ZoneDwelling = t.timers.Active(timers.ZoneKey(t.current.ID))
	}
	if t.recorder != nil {
		s.Events = t.recorder.Log().Snapshot()
	}
	return s
}

// PendingTimers reports how many dwell timers are live.
func (t *Tracker) PendingTimers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timers.Len()
}

func (t *Tracker) enterStore() {
	t.inStore = true
	t.recorder.Record(events.WalkIn, "", nil)
	t.timers.Start(timers.StoreKey, t.cfg.StoreDwell, func() {
		t.recorder.Record(events.DwellThreshold, "", nil)
	})
}

func (t *Tracker) exitStore() {
	t.inStore = false
	t.recorder.Record(events.WalkOut, "", nil)
	t.timers.Cancel(timers.StoreKey)
}

func (t *Tracker) enterZone(z zones.Zone) {
	t.current = &z
	t.recorder.Record(events.ZoneWalkIn, z.Name, nil)
	t.timers.Start(timers.ZoneKey(z.ID), z.Dwell, func() {
		t.recorder.Record(events.ZoneDwellThreshold, z.Name, nil)
	})
}

func (t *Tracker) exitZone() {
	z := t.current
	t.current = nil
	t.timers.Cancel(timers.ZoneKey(z.ID))
	t.recorder.Record(events.ZoneWalkOut, z.Name, nil)
}

func zoneID(z *zones.Zone) string {
	if z == nil {
		return ""
	}
	return z.ID
}
