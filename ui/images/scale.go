package images

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// ScaleToFit scales src to fit within maxW x maxH preserving aspect ratio.
// If the source already fits, the original is returned.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return src
	}
	return imaging.Fit(src, max(maxW, 1), max(maxH, 1), imaging.Linear)
}

// ScaleTo stretches src to exactly w x h. The preview uses this so that view
// coordinates map onto the frame with independent per-axis factors.
func ScaleTo(src image.Image, w, h int) image.Image {
	if src == nil || w < 1 || h < 1 {
		return src
	}
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return src
	}
	return imaging.Resize(src, w, h, imaging.Linear)
}

// Placeholder returns a blank w x h image in the preview background colour.
func Placeholder(w, h int) image.Image {
	return imaging.New(max(w, 1), max(h, 1), shadeColor)
}
