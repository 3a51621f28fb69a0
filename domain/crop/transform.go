package crop

import (
	"image"
	"math"
)

// ImageCropRect maps a UI-space rectangle onto the pixels of an image shown
// stretched to view. Horizontal and vertical scale factors are independent.
// The result always lies inside the image; it is empty when the rectangle
// misses the image or either size is empty.
func ImageCropRect(ui Rect, img Size, view Size) image.Rectangle {
	if img.Empty() || view.Empty() {
		return image.Rectangle{}
	}
	sx := img.W / view.W
	sy := img.H / view.H
	scaled := Rect{X: ui.X * sx, Y: ui.Y * sy, W: ui.W * sx, H: ui.H * sy}
	clamped := scaled.Intersect(Rect{W: img.W, H: img.H})
	if clamped.Empty() {
		return image.Rectangle{}
	}
	bounds := image.Rect(0, 0, int(img.W), int(img.H))
	r := image.Rect(
		int(math.Floor(clamped.MinX())),
		int(math.Floor(clamped.MinY())),
		int(math.Ceil(clamped.MaxX())),
		int(math.Ceil(clamped.MaxY())),
	)
	return r.Intersect(bounds)
}

// MirrorX reflects ui horizontally inside view. Front-facing previews are
// shown mirrored while the captured pixels are not.
func MirrorX(ui Rect, view Size) Rect {
	ui.X = view.W - ui.X - ui.W
	return ui
}

// SizeOf returns the dimensions of b as a Size.
func SizeOf(b image.Rectangle) Size {
	return Size{W: float64(b.Dx()), H: float64(b.Dy())}
}
