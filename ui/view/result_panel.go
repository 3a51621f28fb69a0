package view

import (
	"image"

	"github.com/soocke/snapcrop-go/ui/images"
	"github.com/soocke/snapcrop-go/ui/model"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	maxResultW = 320
	maxResultH = 240
)

// ResultPanel shows the cropped image and its description next to the preview.
type ResultPanel interface {
	ShowResult(state model.LoadState, img image.Image, text string)
}

type resultPanel struct {
	imageLabel *LabelWidget
	stateLabel *LabelWidget
	text       *TextWidget
	prevPhoto  *Img
}

// NewResultPanel grids the panel into parent starting at row.
func NewResultPanel(parent *FrameWidget, row int) ResultPanel {
	photo := NewPhoto(Data(images.EncodePNG(images.Placeholder(maxResultW, maxResultH))))
	img := Label(Image(photo), Borderwidth(1), Relief("sunken"))
	Grid(img, In(parent), Row(row), Column(0), Sticky("nwe"), Padx("0.4m"), Pady("0.4m"))
	state := Label(Txt("Tap the box to capture"), Anchor("w"))
	Grid(state, In(parent), Row(row+1), Column(0), Sticky("we"), Padx("0.4m"))
	text := Text(Height(6), Width(40), Wrap("word"))
	Grid(text, In(parent), Row(row+2), Column(0), Sticky("nsew"), Padx("0.4m"), Pady("0.4m"))
	return &resultPanel{imageLabel: img, stateLabel: state, text: text, prevPhoto: photo}
}

func (v *resultPanel) ShowResult(state model.LoadState, img image.Image, text string) {
	if v == nil {
		return
	}
	switch state {
	case model.LoadUnknown, model.LoadLoading, model.LoadedMovie, model.LoadFailed:
		img = images.Placeholder(maxResultW, maxResultH)
	}
	if img != nil && v.imageLabel != nil {
		if v.prevPhoto != nil {
			v.prevPhoto.Delete()
		}
		v.prevPhoto = NewPhoto(Data(images.EncodePNG(images.ScaleToFit(img, maxResultW, maxResultH))))
		v.imageLabel.Configure(Image(v.prevPhoto))
	}
	if v.stateLabel != nil {
		v.stateLabel.Configure(Txt(stateCaption(state)))
	}
	if v.text != nil {
		v.text.Delete("1.0", END)
		v.text.Insert("1.0", text)
	}
}

func stateCaption(s model.LoadState) string {
	switch s {
	case model.LoadLoading:
		return "Capturing"
	case model.LoadedImage:
		return "Captured image (tap the box to clear)"
	case model.LoadedMovie:
		return "Recording saved (tap the box to clear)"
	case model.LoadFailed:
		return "Capture failed"
	default:
		return "Tap the box to capture"
	}
}
