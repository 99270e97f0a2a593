package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"storefloor/internal/events"
	"storefloor/internal/tracking"
	"storefloor/internal/zones"
)

var (
	floorStyle   = tcell.StyleDefault.Background(tcell.ColorWhiteSmoke).Foreground(tcell.ColorDimGray)
	labelStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Bold(true)
	pointerStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	apStyle      = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	panelStyle   = tcell.StyleDefault
	headerStyle  = tcell.StyleDefault.Bold(true)
	dimStyle     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	statusStyle  = tcell.StyleDefault.Reverse(true)
	formStyle    = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	errorStyle   = formStyle.Foreground(tcell.ColorLightCoral)
)

func (a *App) draw() {
	snap := a.tracker.Snapshot()
	a.screen.Clear()
	a.screen.HideCursor()

	a.drawFloor(snap)
	if a.hasPanel() {
		a.drawPanel(snap.Events)
	}
	a.drawStatus(snap)
	if snap.OverlayOpen {
		a.drawForm()
	}
	a.screen.Show()
}

func (a *App) drawFloor(snap tracking.Snapshot) {
	for y := 0; y < a.floorRows; y++ {
		for x := 0; x < a.floorCols; x++ {
			style, ch := floorStyle, ' '
			if z, ok := zones.Locate(snap.Zones, cellPoint(x, y)); ok {
				style = style.Background(tcell.GetColor(z.Color))
				if z.ID == snap.Zone {
					ch = '░'
				}
			}
			a.screen.SetContent(x, y, ch, nil, style)
		}
	}

	for _, z := range snap.Zones {
		cx, cy := pointCell(z.Shape.Center)
		name := []rune(z.Name)
		a.drawText(cx-len(name)/2, cy, a.floorCols, string(name), labelStyle.Background(tcell.GetColor(z.Color)))
	}
	for _, p := range zones.AccessPoints(snap.Viewport) {
		x, y := pointCell(p)
		a.setFloor(x, y, '+', apStyle)
	}
	if snap.InStore {
		x, y := pointCell(snap.Pointer)
		a.setFloor(x, y, '●', pointerStyle)
	}
}

// setFloor draws over a floor cell, keeping its background.
func (a *App) setFloor(x, y int, ch rune, fg tcell.Style) {
	if !a.inFloor(x, y) {
		return
	}
	_, _, style, _ := a.screen.GetContent(x, y)
	fgColor, _, _ := fg.Decompose()
	a.screen.SetContent(x, y, ch, nil, style.Foreground(fgColor).Bold(true))
}

func (a *App) drawPanel(log []events.Event) {
	x0 := a.floorCols
	_, h := a.screen.Size()
	for y := 0; y < h-1; y++ {
		a.screen.SetContent(x0, y, '│', nil, dimStyle)
	}

	limit := a.floorCols + panelWidth
	a.drawText(x0+2, 0, limit, fmt.Sprintf("Event log %d/%d", len(log), a.recorder.Log().Capacity()), headerStyle)
	for i, ev := range log {
		y := i + 2
		if y >= h-1 {
			break
		}
		a.drawText(x0+2, y, limit, ev.Timestamp.Format("15:04:05"), dimStyle)
		a.drawText(x0+11, y, limit, describe(ev), panelStyle)
	}
}

func (a *App) drawStatus(snap tracking.Snapshot) {
	w, h := a.screen.Size()
	where := "outside"
	if snap.InStore {
		where = "in store"
	}
	if snap.Zone != "" {
		for _, z := range snap.Zones {
			if z.ID == snap.Zone {
				where += " · " + z.Name
			}
		}
	}
	if snap.ZoneDwelling || snap.StoreDwelling {
		where += " …"
	}
	line := fmt.Sprintf(" %s   click or s: sign up   q: quit", where)
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, h-1, ' ', nil, statusStyle)
	}
	a.drawText(0, h-1, w, line, statusStyle)
}

const (
	formWidth  = 44
	formHeight = 9
)

func (a *App) drawForm() {
	w, h := a.screen.Size()
	x0 := max((w-formWidth)/2, 0)
	y0 := max((h-formHeight)/2, 0)
	right := x0 + formWidth

	for y := y0; y < y0+formHeight; y++ {
		for x := x0; x < right; x++ {
			a.screen.SetContent(x, y, ' ', nil, formStyle)
		}
	}

	a.drawText(x0+2, y0+1, right, "Sign up for offers", formStyle.Bold(true))
	fields := []struct {
		label, key string
		value      []rune
	}{
		{"Name:  ", "name", a.form.name},
		{"Email: ", "email", a.form.email},
	}
	for i, f := range fields {
		y := y0 + 3 + i*2
		marker := "  "
		if a.form.field == i {
			marker = "> "
		}
		a.drawText(x0+1, y, right, marker+f.label+string(f.value), formStyle)
		if msg := a.form.errors[f.key]; msg != "" {
			a.drawText(x0+10, y+1, right, msg, errorStyle)
		}
		if a.form.field == i {
			a.screen.ShowCursor(x0+1+len(marker)+len(f.label)+len(f.value), y)
		}
	}
	a.drawText(x0+2, y0+formHeight-1, right, "Tab switch · Enter submit · Esc close", formStyle.Foreground(tcell.ColorSilver))
}

// drawText writes s from (x, y), clipped at column limit.
func (a *App) drawText(x, y, limit int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= limit {
			return
		}
		if x >= 0 {
			a.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

func describe(ev events.Event) string {
	s := string(ev.Kind)
	if ev.Zone != "" {
		s += " · " + ev.Zone
	}
	if ev.Data != nil {
		s += " · " + ev.Data.Name
	}
	return s
}

func pointCell(p zones.Point) (int, int) {
	return int(p.X / cellW), int(p.Y / cellH)
}
