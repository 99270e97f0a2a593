package zones

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Reference is the floor plan size every layout is drawn against.
var Reference = Size{W: 800, H: 600}

type Zone struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Icon  string        `json:"icon"`
	Color string        `json:"color"`
	Shape Shape         `json:"shape"`
	Dwell time.Duration `json:"-"`
}

type Layout string

const (
	LayoutCircles = Layout("circles")
	LayoutAisles  = Layout("aisles")
)

var ErrUnknownLayout = errors.New("unknown zone layout")

func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case LayoutCircles, LayoutAisles:
		return l, nil
	case "":
		return LayoutCircles, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLayout, s)
}

// Provide returns the zones of the layout scaled to the viewport. A
// non-positive dimension falls back to the reference size.
func Provide(layout Layout, viewport Size) []Zone {
	sx, sy := scale(viewport)

	ref := circleZones
	if layout == LayoutAisles {
		ref = aisleZones
	}

	out := make([]Zone, len(ref))
	for i, z := range ref {
		z.Shape = z.Shape.Scale(sx, sy)
		out[i] = z
	}
	return out
}

// AccessPoints returns the scaled positions of the wifi beacons drawn on the plan.
func AccessPoints(viewport Size) []Point {
	sx, sy := scale(viewport)
	points := make([]Point, 0, 16)
	for _, y := range []float64{50, 250, 450, 550} {
		for _, x := range []float64{100, 300, 500, 700} {
			points = append(points, Point{X: x * sx, Y: y * sy})
		}
	}
	return points
}

// Locate returns the first zone, in declaration order, whose shape contains p.
func Locate(zones []Zone, p Point) (Zone, bool) {
	for _, z := range zones {
		if z.Shape.Contains(p) {
			return z, true
		}
	}
	return Zone{}, false
}

// Overlaps lists the id pairs of zones whose shapes intersect. Locate resolves
// points in these regions to the earlier declared zone.
func Overlaps(zones []Zone) [][2]string {
	var pairs [][2]string
	for i := 0; i < len(zones); i++ {
		for j := i + 1; j < len(zones); j++ {
			if intersects(zones[i].Shape, zones[j].Shape) {
				pairs = append(pairs, [2]string{zones[i].ID, zones[j].ID})
			}
		}
	}
	return pairs
}

func scale(viewport Size) (float64, float64) {
	w, h := viewport.W, viewport.H
	if w <= 0 || math.IsNaN(w) {
		w = Reference.W
	}
	if h <= 0 || math.IsNaN(h) {
		h = Reference.H
	}
	return w / Reference.W, h / Reference.H
}
