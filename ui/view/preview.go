package view

import (
	"image"

	"github.com/soocke/snapcrop-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PointerHandlers receive pointer events in preview coordinates.
type PointerHandlers struct {
	Press   func(x, y float64)
	Motion  func(x, y float64)
	Release func(x, y float64)
}

// Preview shows the live frame with the crop box and forwards pointer events.
type Preview interface {
	UpdatePreview(img image.Image)
	Reset()
}

type preview struct {
	label     *LabelWidget
	w, h      int
	prevPhoto *Img // last Tk photo image instance, deleted on replacement
}

// NewPreview creates the preview label at (row, col) sized w x h and binds
// button-1 press, motion and release to the handlers.
func NewPreview(row, col, w, h int, handlers PointerHandlers) Preview {
	photo := NewPhoto(Data(images.EncodePNG(images.Placeholder(w, h))))
	// no border, so event coordinates are image coordinates
	lbl := Label(Image(photo), Borderwidth(0), Highlightthickness(0))
	Grid(lbl, Row(row), Column(col), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	bindPointer(lbl, "<ButtonPress-1>", handlers.Press)
	bindPointer(lbl, "<B1-Motion>", handlers.Motion)
	bindPointer(lbl, "<ButtonRelease-1>", handlers.Release)
	return &preview{label: lbl, w: w, h: h, prevPhoto: photo}
}

func bindPointer(w *LabelWidget, sequence string, fn func(x, y float64)) {
	if fn == nil {
		return
	}
	Bind(w, sequence, Command(func(e *Event) {
		fn(float64(e.X), float64(e.Y))
	}))
}

func (v *preview) UpdatePreview(img image.Image) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	v.replace(images.EncodePNG(img))
}

func (v *preview) Reset() {
	if v == nil || v.label == nil {
		return
	}
	v.replace(images.EncodePNG(images.Placeholder(v.w, v.h)))
}

func (v *preview) replace(pngBytes []byte) {
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(pngBytes))
	v.label.Configure(Image(v.prevPhoto))
}
