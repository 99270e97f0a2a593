package terminal

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"storefloor/internal/events"
	"storefloor/internal/feedback"
	"storefloor/internal/signup"
	"storefloor/internal/timers"
	"storefloor/internal/tracking"
	"storefloor/internal/zones"
)

const (
	// one cell covers cellW x cellH floor units, roughly a glyph in pixels
	cellW      = 8.0
	cellH      = 16.0
	panelWidth = 34
	minFloor   = 20
	redrawMs   = 100
)

type Config struct {
	Tracking    tracking.Config
	LogCapacity int
	Clock       timers.Clock
	// Cue falls back to the terminal bell when it fails or is nil.
	Cue feedback.Player
}

// form is the text state of the signup overlay.
type form struct {
	name   []rune
	email  []rune
	field  int
	errors map[string]string
}

func (f *form) reset() {
	*f = form{}
}

func (f *form) focused() *[]rune {
	if f.field == 1 {
		return &f.email
	}
	return &f.name
}

// App drives a Tracker from terminal mouse and keyboard input.
type App struct {
	screen   tcell.Screen
	tracker  *tracking.Tracker
	recorder *events.Recorder

	floorCols, floorRows int
	buttons              tcell.ButtonMask
	form                 form

	done     chan struct{}
	doneOnce sync.Once
}

// New wires a tracker to an initialized screen.
func New(screen tcell.Screen, cfg Config) *App {
	var cue feedback.Player = feedback.PlayerFunc(screen.Beep)
	if cfg.Cue != nil {
		cue = feedback.Fallback(cfg.Cue, cue)
	}
	if cfg.Clock == nil {
		cfg.Clock = timers.RealClock{}
	}

	rec := events.NewRecorder(events.NewLog(cfg.LogCapacity), cfg.Clock.Now, cue)
	a := &App{
		screen:   screen,
		recorder: rec,
		done:     make(chan struct{}),
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()

	a.measure()
	cfg.Tracking.Viewport = a.viewport()
	a.tracker = tracking.New(cfg.Tracking, rec, cfg.Clock)
	return a
}

// Run opens the terminal and blocks until the user quits.
func Run(cfg Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	app := New(screen, cfg)
	defer app.Close()
	app.Loop()
	return nil
}

// Loop handles input and redraws until a quit key is pressed or Close is
// called. Dwell timers fire in the background, so the screen is also
// redrawn on a ticker.
func (a *App) Loop() {
	ticker := time.NewTicker(redrawMs * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-a.done:
				return
			}
		}
	}()

	a.draw()
	for {
		select {
		case <-a.done:
			return
		case ev := <-eventChan:
			if !a.handleEvent(ev) {
				return
			}
			a.draw()
		case <-ticker.C:
			a.draw()
		}
	}
}

// Close stops the loop and cancels pending dwell timers.
func (a *App) Close() {
	a.doneOnce.Do(func() {
		close(a.done)
		a.tracker.Close()
	})
}

func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		a.handleMouse(x, y, ev.Buttons())
	case *tcell.EventResize:
		a.screen.Sync()
		a.handleResize()
	case *tcell.EventFocus:
		a.handleFocus(ev.Focused)
	}
	return true
}

// handleKey reports false when the app should quit.
func (a *App) handleKey(key tcell.Key, r rune) bool {
	if key == tcell.KeyCtrlC {
		return false
	}
	if !a.tracker.Snapshot().OverlayOpen {
		switch {
		case key == tcell.KeyEscape, key == tcell.KeyRune && r == 'q':
			return false
		case key == tcell.KeyEnter, key == tcell.KeyRune && r == 's':
			a.openForm()
		}
		return true
	}

	switch key {
	case tcell.KeyEscape:
		a.tracker.CloseOverlay()
		a.form.reset()
	case tcell.KeyTab, tcell.KeyBacktab:
		a.form.field ^= 1
	case tcell.KeyEnter:
		a.submit()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if f := a.form.focused(); len(*f) > 0 {
			*f = (*f)[:len(*f)-1]
		}
	case tcell.KeyRune:
		f := a.form.focused()
		*f = append(*f, r)
	}
	return true
}

func (a *App) openForm() {
	if a.tracker.Snapshot().OverlayOpen {
		return
	}
	a.form.reset()
	a.tracker.Click()
}

func (a *App) submit() {
	err := a.tracker.Submit(string(a.form.name), string(a.form.email))
	var verr *signup.ValidationError
	switch {
	case err == nil, errors.Is(err, tracking.ErrOverlayClosed):
		a.form.reset()
	case errors.As(err, &verr):
		a.form.errors = verr.Fields
	default:
		log.Printf("[Terminal] submit error: %v\n", err)
	}
}

func (a *App) handleMouse(x, y int, buttons tcell.ButtonMask) {
	pressed := buttons&tcell.Button1 != 0 && a.buttons&tcell.Button1 == 0
	a.buttons = buttons

	a.tracker.Move(cellPoint(x, y), a.surface())
	if pressed && a.inFloor(x, y) {
		a.openForm()
	}
}

// handleFocus treats a terminal losing focus like the pointer leaving.
func (a *App) handleFocus(focused bool) {
	if !focused {
		a.tracker.Leave()
	}
}

func (a *App) handleResize() {
	a.measure()
	a.tracker.Resize(a.viewport())
}

// measure splits the screen into the floor, the event panel and a status row.
func (a *App) measure() {
	w, h := a.screen.Size()
	a.floorCols = w
	if w-panelWidth >= minFloor {
		a.floorCols = w - panelWidth
	}
	a.floorRows = max(h-1, 1)
}

func (a *App) hasPanel() bool {
	w, _ := a.screen.Size()
	return a.floorCols < w
}

func (a *App) viewport() zones.Size {
	return zones.Size{W: float64(a.floorCols) * cellW, H: float64(a.floorRows) * cellH}
}

func (a *App) surface() zones.Rect {
	v := a.viewport()
	return zones.Rect{W: v.W, H: v.H}
}

func (a *App) inFloor(x, y int) bool {
	return x >= 0 && x < a.floorCols && y >= 0 && y < a.floorRows
}

// cellPoint is the floor coordinate of a cell's center.
func cellPoint(x, y int) zones.Point {
	return zones.Point{X: (float64(x) + 0.5) * cellW, Y: (float64(y) + 0.5) * cellH}
}
