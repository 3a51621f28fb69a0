package images

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"

	"github.com/soocke/snapcrop-go/domain/crop"
)

var (
	shadeColor  = color.NRGBA{0, 0, 0, 255}
	borderColor = color.NRGBA{255, 255, 255, 255}
	handleColor = color.NRGBA{255, 204, 0, 255}
)

// OverlayStyle controls how the crop box is drawn over the preview.
type OverlayStyle struct {
	Shade     float64 // opacity of the dimmed area outside the box, 0..1
	Border    int     // border thickness in pixels
	Handles   bool    // draw corner handles
	HitSize   float64 // handle side length, normally the engine's hit size
	Highlight crop.Corner
}

// DefaultOverlayStyle dims the outside at 45% with a 2px border and handles.
func DefaultOverlayStyle(hit float64) OverlayStyle {
	return OverlayStyle{Shade: 0.45, Border: 2, Handles: true, HitSize: hit}
}

// DrawCropOverlay returns a copy of frame with the crop box drawn on it. r is
// in frame pixel coordinates; parts outside the frame are clipped.
func DrawCropOverlay(frame image.Image, r crop.Rect, style OverlayStyle) *image.NRGBA {
	if frame == nil {
		return nil
	}
	out := imaging.Clone(frame)
	bounds := out.Bounds()
	box := pixelRect(r).Intersect(bounds)

	if style.Shade > 0 {
		shade := imaging.New(bounds.Dx(), bounds.Dy(), shadeColor)
		if !box.Empty() {
			draw.Draw(shade, box, image.Transparent, image.Point{}, draw.Src)
		}
		out = imaging.Overlay(out, shade, image.Point{}, math.Min(style.Shade, 1))
	}
	if box.Empty() {
		return out
	}
	strokeRect(out, box, max(style.Border, 1), borderColor)

	if style.Handles && style.HitSize > 0 {
		for _, c := range []crop.Corner{crop.TopLeft, crop.TopRight, crop.BottomLeft, crop.BottomRight} {
			h := handleRect(r, c, style.HitSize).Intersect(bounds)
			if h.Empty() {
				continue
			}
			col := color.Color(borderColor)
			if c == style.Highlight {
				col = handleColor
			}
			strokeRect(out, h, 2, col)
		}
	}
	return out
}

// handleRect is the hit square centred on corner c, matching the engine's hit test.
func handleRect(r crop.Rect, c crop.Corner, side float64) image.Rectangle {
	var x, y float64
	switch c {
	case crop.TopLeft:
		x, y = r.MinX(), r.MinY()
	case crop.TopRight:
		x, y = r.MaxX(), r.MinY()
	case crop.BottomLeft:
		x, y = r.MinX(), r.MaxY()
	case crop.BottomRight:
		x, y = r.MaxX(), r.MaxY()
	default:
		return image.Rectangle{}
	}
	return pixelRect(crop.Rect{X: x - side/2, Y: y - side/2, W: side, H: side})
}

func pixelRect(r crop.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.MinX())), int(math.Floor(r.MinY())),
		int(math.Ceil(r.MaxX())), int(math.Ceil(r.MaxY())),
	)
}

func strokeRect(dst draw.Image, r image.Rectangle, width int, c color.Color) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(r), src, image.Point{}, draw.Src)
	}
}
