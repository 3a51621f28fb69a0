package presenter

import (
	"image"
	"sync/atomic"

	"github.com/soocke/snapcrop-go/domain/capture"
	"github.com/soocke/snapcrop-go/domain/crop"
	"github.com/soocke/snapcrop-go/ui/images"
)

// PreviewView renders the composed preview.
type PreviewView interface {
	UpdatePreview(img image.Image)
}

// OverlaySource is what the preview needs from the crop engine.
type OverlaySource interface {
	Rect() crop.Rect
	HitSize() float64
	ActiveCorner() (crop.Corner, bool)
}

// PreviewPresenter keeps the latest live frame and redraws the preview with
// the crop box whenever the frame or the box changes.
type PreviewPresenter struct {
	overlay OverlaySource
	view    PreviewView
	size    crop.Size

	latest atomic.Pointer[capture.Frame]

	// Tk goroutine only
	lastSeq    uint64
	lastRect   crop.Rect
	lastCorner crop.Corner
	scaled     image.Image
}

func NewPreviewPresenter(overlay OverlaySource, view PreviewView, size crop.Size) *PreviewPresenter {
	return &PreviewPresenter{overlay: overlay, view: view, size: size}
}

// Consume is the frame consumer attached to the dispatcher.
func (p *PreviewPresenter) Consume(f capture.Frame) {
	if p == nil || f.Image == nil {
		return
	}
	p.latest.Store(&f)
}

// Tick redraws when needed. Call it from the Tk goroutine.
func (p *PreviewPresenter) Tick() {
	if p == nil || p.view == nil || p.overlay == nil {
		return
	}
	rect := p.overlay.Rect()
	corner, _ := p.overlay.ActiveCorner()
	f := p.latest.Load()
	frameChanged := f != nil && f.Sequence != p.lastSeq
	if !frameChanged && rect == p.lastRect && corner == p.lastCorner && p.scaled != nil {
		return
	}
	if frameChanged {
		p.lastSeq = f.Sequence
		p.scaled = images.ScaleTo(f.Image, int(p.size.W), int(p.size.H))
	}
	if p.scaled == nil {
		p.scaled = images.Placeholder(int(p.size.W), int(p.size.H))
	}
	p.lastRect, p.lastCorner = rect, corner
	style := images.DefaultOverlayStyle(p.overlay.HitSize())
	style.Highlight = corner
	p.view.UpdatePreview(images.DrawCropOverlay(p.scaled, rect, style))
}
