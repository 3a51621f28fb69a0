package crop

import (
	"errors"
	"log/slog"
)

const (
	// DefaultMinSize is the smallest width or height a crop box may have.
	DefaultMinSize = 100.0
	// DefaultHitSize is the side of the square hit region around each corner.
	DefaultHitSize = 30.0
)

// DefaultRect is the crop box shown before the user touches it.
var DefaultRect = Rect{X: 50, Y: 50, W: 300, H: 300}

// ErrBelowMinSize is returned by SetRect for a rectangle smaller than the minimum.
var ErrBelowMinSize = errors.New("crop: rectangle below minimum size")

// GestureKind reports what BeginGesture started.
type GestureKind int

const (
	GestureIgnored GestureKind = iota
	GestureResize
	GestureMove
)

func (k GestureKind) String() string {
	switch k {
	case GestureResize:
		return "resize"
	case GestureMove:
		return "move"
	default:
		return "ignored"
	}
}

// EngineConfig configures a new Engine. Zero fields take the defaults.
type EngineConfig struct {
	Initial Rect
	MinSize float64
	HitSize float64
	Logger  *slog.Logger
}

// Engine turns pointer samples into a crop rectangle that never shrinks below
// MinSize. It is not safe for concurrent use; the UI goroutine owns it.
type Engine struct {
	rect    Rect
	minSize float64
	hitSize float64
	logger  *slog.Logger

	resizing bool
	moving   bool
	corner   Corner
	anchor   Point
}

// NewEngine returns an Engine. An Initial rect below MinSize falls back to DefaultRect.
func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{minSize: cfg.MinSize, hitSize: cfg.HitSize, logger: cfg.Logger}
	if e.minSize <= 0 {
		e.minSize = DefaultMinSize
	}
	if e.hitSize <= 0 {
		e.hitSize = DefaultHitSize
	}
	e.rect = cfg.Initial
	if !e.valid(e.rect) {
		e.rect = DefaultRect
	}
	return e
}

func (e *Engine) valid(r Rect) bool { return r.W >= e.minSize && r.H >= e.minSize }

// Rect returns the current crop rectangle.
func (e *Engine) Rect() Rect { return e.rect }

func (e *Engine) MinSize() float64 { return e.minSize }
func (e *Engine) HitSize() float64 { return e.hitSize }
func (e *Engine) Resizing() bool   { return e.resizing }
func (e *Engine) Moving() bool     { return e.moving }

// ActiveCorner returns the corner being dragged; ok is false outside a resize.
func (e *Engine) ActiveCorner() (Corner, bool) {
	return e.corner, e.resizing && e.corner != NoCorner
}

// Anchor returns the last drag point of a move gesture; ok is false outside a move.
func (e *Engine) Anchor() (Point, bool) { return e.anchor, e.moving }

// SetRect replaces the rectangle outside of a gesture.
func (e *Engine) SetRect(r Rect) error {
	if !e.valid(r) {
		return ErrBelowMinSize
	}
	e.rect = r
	return nil
}

// CornerFrame returns the hit region for c on the current rectangle.
func (e *Engine) CornerFrame(c Corner) Rect {
	if c == NoCorner {
		return Rect{}
	}
	p := c.point(e.rect)
	half := e.hitSize / 2
	return Rect{X: p.X - half, Y: p.Y - half, W: e.hitSize, H: e.hitSize}
}

// HitTestCorner returns the first corner, in TL, TR, BL, BR order, whose hit
// region contains p, or NoCorner.
func (e *Engine) HitTestCorner(p Point) Corner {
	for _, c := range hitOrder {
		if e.CornerFrame(c).Contains(p) {
			return c
		}
	}
	return NoCorner
}

// BeginGesture starts a resize when p hits a corner, a move when p is inside the
// rectangle, and otherwise ignores the gesture until EndGesture.
func (e *Engine) BeginGesture(p Point) GestureKind {
	if e.resizing || e.moving {
		return GestureIgnored
	}
	if c := e.HitTestCorner(p); c != NoCorner {
		e.resizing = true
		e.corner = c
		e.debug("crop.resize.begin", "corner", c.String())
		return GestureResize
	}
	if e.rect.Contains(p) {
		e.moving = true
		e.anchor = p
		e.debug("crop.move.begin", "x", p.X, "y", p.Y)
		return GestureMove
	}
	return GestureIgnored
}

// UpdateGesture applies p to the active gesture. It reports whether the
// rectangle changed; a resize that would go below MinSize is rejected.
func (e *Engine) UpdateGesture(p Point) bool {
	switch {
	case e.resizing:
		next := resized(e.rect, e.corner, p)
		if !e.valid(next) {
			return false
		}
		e.rect = next
		return true
	case e.moving:
		d := p.Sub(e.anchor)
		e.rect = e.rect.Translate(d)
		e.anchor = p
		return d != Point{}
	}
	return false
}

// EndGesture clears gesture state. Calling it with no gesture in progress is a no-op.
func (e *Engine) EndGesture() {
	if e.resizing || e.moving {
		e.debug("crop.gesture.end", "rect", e.rect.String())
	}
	e.resizing = false
	e.moving = false
	e.corner = NoCorner
	e.anchor = Point{}
}

// resized keeps the edges opposite c and moves the adjacent ones to p.
func resized(r Rect, c Corner, p Point) Rect {
	switch c {
	case TopLeft:
		return Rect{X: p.X, Y: p.Y, W: r.MaxX() - p.X, H: r.MaxY() - p.Y}
	case TopRight:
		return Rect{X: r.MinX(), Y: p.Y, W: p.X - r.MinX(), H: r.MaxY() - p.Y}
	case BottomLeft:
		return Rect{X: p.X, Y: r.MinY(), W: r.MaxX() - p.X, H: p.Y - r.MinY()}
	case BottomRight:
		return Rect{X: r.MinX(), Y: r.MinY(), W: p.X - r.MinX(), H: p.Y - r.MinY()}
	}
	return r
}

func (e *Engine) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
