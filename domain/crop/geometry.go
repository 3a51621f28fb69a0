package crop

import "fmt"

// Point is a location in UI coordinate space.
type Point struct{ X, Y float64 }

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Size is a width/height pair, used for both view and image dimensions.
type Size struct{ W, H float64 }

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Rect is an axis-aligned rectangle in UI coordinate space. X/Y is the top-left origin.
type Rect struct{ X, Y, W, H float64 }

func (r Rect) MinX() float64 { return r.X }
func (r Rect) MinY() float64 { return r.Y }
func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Empty reports whether r has non-positive area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether p lies in r. Min edges are inclusive, max edges exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX() && p.X < r.MaxX() && p.Y >= r.MinY() && p.Y < r.MaxY()
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Intersect returns the overlap of r and s, or the zero Rect when they do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	x0 := max(r.MinX(), s.MinX())
	y0 := max(r.MinY(), s.MinY())
	x1 := min(r.MaxX(), s.MaxX())
	y1 := min(r.MaxY(), s.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.1f,%.1f %.1fx%.1f)", r.X, r.Y, r.W, r.H)
}

// Corner identifies a resize handle. The zero value means no corner.
type Corner int

const (
	NoCorner Corner = iota
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

// hitOrder is the order in which corner regions are tested.
var hitOrder = [...]Corner{TopLeft, TopRight, BottomLeft, BottomRight}

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top_left"
	case TopRight:
		return "top_right"
	case BottomLeft:
		return "bottom_left"
	case BottomRight:
		return "bottom_right"
	default:
		return "none"
	}
}

// point returns the location of corner c on r.
func (c Corner) point(r Rect) Point {
	switch c {
	case TopLeft:
		return Point{r.MinX(), r.MinY()}
	case TopRight:
		return Point{r.MaxX(), r.MinY()}
	case BottomLeft:
		return Point{r.MinX(), r.MaxY()}
	case BottomRight:
		return Point{r.MaxX(), r.MaxY()}
	}
	return Point{}
}
