package presenter

import (
	"log/slog"
	"math"

	"github.com/soocke/snapcrop-go/domain/crop"
)

// tapSlop is how far the pointer may travel before a press stops counting as a tap.
const tapSlop = 4.0

// CropEngine is the gesture surface of the crop geometry engine.
type CropEngine interface {
	Rect() crop.Rect
	HitSize() float64
	ActiveCorner() (crop.Corner, bool)
	BeginGesture(p crop.Point) crop.GestureKind
	UpdateGesture(p crop.Point) bool
	EndGesture()
}

// GesturePresenter turns pointer events from the preview into crop engine
// gestures. A press and release inside the box without travel is a tap.
// All methods run on the Tk goroutine.
type GesturePresenter struct {
	engine CropEngine
	onTap  func()
	logger *slog.Logger

	pressed bool
	kind    crop.GestureKind
	start   crop.Point
	moved   bool
}

func NewGesturePresenter(engine CropEngine, onTap func(), logger *slog.Logger) *GesturePresenter {
	return &GesturePresenter{engine: engine, onTap: onTap, logger: logger}
}

// Press starts a gesture at view coordinates (x, y).
func (g *GesturePresenter) Press(x, y float64) {
	if g == nil || g.engine == nil {
		return
	}
	p := crop.Pt(x, y)
	g.pressed = true
	g.start = p
	g.moved = false
	g.kind = g.engine.BeginGesture(p)
}

// Motion updates the gesture in progress.
func (g *GesturePresenter) Motion(x, y float64) {
	if g == nil || g.engine == nil || !g.pressed {
		return
	}
	p := crop.Pt(x, y)
	if !g.moved && math.Hypot(p.X-g.start.X, p.Y-g.start.Y) > tapSlop {
		g.moved = true
	}
	g.engine.UpdateGesture(p)
}

// Release ends the gesture and fires the tap callback when appropriate.
func (g *GesturePresenter) Release(x, y float64) {
	if g == nil || g.engine == nil || !g.pressed {
		return
	}
	g.Motion(x, y)
	kind := g.kind
	g.engine.EndGesture()
	g.pressed = false
	g.kind = crop.GestureIgnored
	if g.logger != nil && kind != crop.GestureIgnored {
		g.logger.Debug("crop.gesture", "kind", kind.String(), "rect", g.engine.Rect().String(), "moved", g.moved)
	}
	if !g.moved && kind != crop.GestureIgnored && g.engine.Rect().Contains(g.start) && g.onTap != nil {
		g.onTap()
	}
}
