package crop

import (
	"math/rand"
	"testing"
)

func newTestEngine() *Engine { return NewEngine(EngineConfig{}) }

func TestEngine_Defaults(t *testing.T) {
	e := newTestEngine()
	if e.Rect() != DefaultRect {
		t.Fatalf("initial rect %v want %v", e.Rect(), DefaultRect)
	}
	if e.MinSize() != DefaultMinSize || e.HitSize() != DefaultHitSize {
		t.Fatalf("min=%v hit=%v", e.MinSize(), e.HitSize())
	}
	small := NewEngine(EngineConfig{Initial: Rect{X: 0, Y: 0, W: 20, H: 500}})
	if small.Rect() != DefaultRect {
		t.Fatalf("undersized initial rect accepted: %v", small.Rect())
	}
}

func TestEngine_HitTestCorner(t *testing.T) {
	e := newTestEngine() // 50,50 300x300
	cases := []struct {
		p    Point
		want Corner
	}{
		{Pt(50, 50), TopLeft},
		{Pt(35, 35), TopLeft},
		{Pt(64.9, 64.9), TopLeft},
		{Pt(65, 65), NoCorner},
		{Pt(350, 50), TopRight},
		{Pt(50, 350), BottomLeft},
		{Pt(350, 350), BottomRight},
		{Pt(364, 364), BottomRight},
		{Pt(365, 365), NoCorner},
		{Pt(200, 200), NoCorner},
		{Pt(0, 0), NoCorner},
	}
	for _, c := range cases {
		if got := e.HitTestCorner(c.p); got != c.want {
			t.Fatalf("HitTestCorner(%v)=%v want %v", c.p, got, c.want)
		}
	}
}

func TestEngine_HitRegionsExclusive(t *testing.T) {
	e := newTestEngine()
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		p := Pt(r.Float64()*420, r.Float64()*420)
		hits := 0
		for _, c := range hitOrder {
			if e.CornerFrame(c).Contains(p) {
				hits++
			}
		}
		if hits > 1 {
			t.Fatalf("point %v in %d corner regions", p, hits)
		}
		got := e.HitTestCorner(p)
		if hits == 0 && got != NoCorner {
			t.Fatalf("point %v outside regions returned %v", p, got)
		}
		if hits == 1 && !e.CornerFrame(got).Contains(p) {
			t.Fatalf("point %v returned non-containing corner %v", p, got)
		}
	}
}

func TestEngine_ResizeBelowMinimumRejected(t *testing.T) {
	e := newTestEngine()
	if k := e.BeginGesture(Pt(350, 350)); k != GestureResize {
		t.Fatalf("begin kind %v", k)
	}
	if e.UpdateGesture(Pt(90, 350)) { // width 40
		t.Fatalf("update below minimum accepted")
	}
	if e.Rect() != DefaultRect {
		t.Fatalf("rect changed: %v", e.Rect())
	}
	if !e.Resizing() {
		t.Fatalf("resizing flag cleared")
	}
	if c, ok := e.ActiveCorner(); !ok || c != BottomRight {
		t.Fatalf("active corner %v ok=%v", c, ok)
	}
	e.EndGesture()
	if _, ok := e.ActiveCorner(); ok || e.Resizing() {
		t.Fatalf("gesture state not cleared")
	}
}

func TestEngine_ResizeKeepsOppositeEdges(t *testing.T) {
	for _, c := range hitOrder {
		e := newTestEngine()
		before := e.Rect()
		start := c.point(before)
		if k := e.BeginGesture(start); k != GestureResize {
			t.Fatalf("%v: begin kind %v", c, k)
		}
		target := Pt(start.X+17, start.Y-23)
		if !e.UpdateGesture(target) {
			t.Fatalf("%v: update rejected", c)
		}
		after := e.Rect()
		switch c {
		case TopLeft:
			if after.MaxX() != before.MaxX() || after.MaxY() != before.MaxY() {
				t.Fatalf("top_left moved fixed edges: %v", after)
			}
		case TopRight:
			if after.MinX() != before.MinX() || after.MaxY() != before.MaxY() {
				t.Fatalf("top_right moved fixed edges: %v", after)
			}
		case BottomLeft:
			if after.MaxX() != before.MaxX() || after.MinY() != before.MinY() {
				t.Fatalf("bottom_left moved fixed edges: %v", after)
			}
		case BottomRight:
			if after.MinX() != before.MinX() || after.MinY() != before.MinY() {
				t.Fatalf("bottom_right moved fixed edges: %v", after)
			}
		}
		if got := c.point(after); got != target {
			t.Fatalf("%v: corner at %v want %v", c, got, target)
		}
		e.EndGesture()
	}
}

func TestEngine_RandomGesturesRespectMinimum(t *testing.T) {
	e := newTestEngine()
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		rect := e.Rect()
		var start Point
		if r.Intn(2) == 0 {
			start = hitOrder[r.Intn(4)].point(rect)
		} else {
			start = Pt(rect.X+rect.W/2, rect.Y+rect.H/2)
		}
		e.BeginGesture(start)
		for j := 0; j < 5; j++ {
			e.UpdateGesture(Pt(start.X+r.Float64()*400-200, start.Y+r.Float64()*400-200))
			if got := e.Rect(); got.W < e.MinSize() || got.H < e.MinSize() {
				t.Fatalf("rect below minimum: %v", got)
			}
		}
		e.EndGesture()
	}
}

func TestEngine_MoveComposes(t *testing.T) {
	a := newTestEngine()
	b := newTestEngine()
	start := Pt(200, 200)
	if k := a.BeginGesture(start); k != GestureMove {
		t.Fatalf("begin kind %v", k)
	}
	b.BeginGesture(start)
	steps := []Point{Pt(205, 198), Pt(230, 180), Pt(210, 260), Pt(260, 240)}
	for _, p := range steps {
		a.UpdateGesture(p)
		if anchor, ok := a.Anchor(); !ok || anchor != p {
			t.Fatalf("anchor %v ok=%v want %v", anchor, ok, p)
		}
	}
	b.UpdateGesture(steps[len(steps)-1])
	if a.Rect() != b.Rect() {
		t.Fatalf("incremental %v != net %v", a.Rect(), b.Rect())
	}
	want := DefaultRect.Translate(Pt(60, 40))
	if a.Rect() != want {
		t.Fatalf("moved rect %v want %v", a.Rect(), want)
	}
}

func TestEngine_GestureOutsideIgnored(t *testing.T) {
	e := newTestEngine()
	if k := e.BeginGesture(Pt(500, 500)); k != GestureIgnored {
		t.Fatalf("begin kind %v", k)
	}
	// Dragging across a corner mid-gesture must not start a resize.
	if e.UpdateGesture(Pt(350, 350)) || e.UpdateGesture(Pt(200, 200)) {
		t.Fatalf("ignored gesture changed rect")
	}
	if e.Resizing() || e.Moving() || e.Rect() != DefaultRect {
		t.Fatalf("state changed: resizing=%v moving=%v rect=%v", e.Resizing(), e.Moving(), e.Rect())
	}
	e.EndGesture()
	e.EndGesture()
}

func TestEngine_SetRect(t *testing.T) {
	e := newTestEngine()
	if err := e.SetRect(Rect{W: 99, H: 200}); err != ErrBelowMinSize {
		t.Fatalf("err=%v", err)
	}
	r := Rect{X: 10, Y: 20, W: 120, H: 100}
	if err := e.SetRect(r); err != nil || e.Rect() != r {
		t.Fatalf("SetRect err=%v rect=%v", err, e.Rect())
	}
}
