package screencam

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"

	"github.com/soocke/snapcrop-go/domain/capture"
)

// Display is the screen a facing maps to. Both facings show the primary
// display; the front one is mirrored like a selfie camera.
type Display struct {
	id     string
	facing capture.Facing
	rect   image.Rectangle
}

func (d *Display) ID() string              { return d.id }
func (d *Display) Facing() capture.Facing  { return d.facing }
func (d *Display) Bounds() image.Rectangle { return d.rect }

type displayInput struct{ d *Display }

func (in *displayInput) Device() capture.Device { return in.d }

// ScreenRectFunc reports the capturable screen area.
type ScreenRectFunc func() (image.Rectangle, error)

// Finder locates displays.
type Finder struct {
	screen ScreenRectFunc
}

// NewFinder returns a Finder; nil screen uses the primary display.
func NewFinder(screen ScreenRectFunc) *Finder {
	if screen == nil {
		screen = screenshot.ScreenRect
	}
	return &Finder{screen: screen}
}

func (f *Finder) DefaultDevice(facing capture.Facing) (capture.Device, bool) {
	r, err := f.screen()
	if err != nil || r.Empty() {
		return nil, false
	}
	return &Display{id: fmt.Sprintf("display-%s", facing), facing: facing, rect: r}, true
}

func (f *Finder) NewInput(d capture.Device) (capture.Input, error) {
	disp, ok := d.(*Display)
	if !ok {
		return nil, fmt.Errorf("screencam: unsupported device %T", d)
	}
	if disp.rect.Empty() {
		return nil, fmt.Errorf("screencam: display %s has no area", disp.id)
	}
	return &displayInput{d: disp}, nil
}
