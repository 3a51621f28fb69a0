package view

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/snapcrop-go/config"
	"github.com/soocke/snapcrop-go/ui/model"
	"github.com/soocke/snapcrop-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are the user actions the root view forwards.
type Handlers struct {
	Pointer         PointerHandlers
	Capture         func()
	ToggleRecording func()
	SwitchCamera    func()
	ToggleStreaming func()
	Clear           func()
	ApplySettings   func(*config.Config)
	Exit            func()
}

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Preview     Preview
	Result      ResultPanel
	Clips       ClipStats
	ConfigPanel ConfigPanel

	// Widgets
	StatusLabel *TLabelWidget
	streamBtn   *TButtonWidget
	recordBtn   *TButtonWidget
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	SetStatusLabel(text string)
	SetStreaming(paused bool)
	SetRecording(recording bool)
	UpdatePreview(img image.Image)
	ShowResult(state model.LoadState, img image.Image, text string)
	SetClip(clip, total time.Duration)
}

var _ UI = (*RootView)(nil)

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout. Handlers are invoked on user actions.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: status label and buttons
	rv.StatusLabel = TLabel(Txt("Camera: unconfigured"), Style(theme.StyleStatusLabel), Anchor("w"))
	Grid(rv.StatusLabel, Row(0), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	btnFrame := Frame()
	Grid(btnFrame, Row(1), Column(0), Columnspan(2), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	col := 0
	addButton := func(label, style string, cmd func()) *TButtonWidget {
		if cmd == nil {
			cmd = func() {}
		}
		b := TButton(Txt(label), Style(style), Command(cmd))
		Grid(b, In(btnFrame), Row(0), Column(col), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		col++
		return b
	}
	addButton("Capture", theme.StylePrimaryButton, h.Capture)
	rv.recordBtn = addButton("Record", theme.StylePrimaryButton, h.ToggleRecording)
	addButton("Switch Camera", theme.StylePrimaryButton, h.SwitchCamera)
	rv.streamBtn = addButton("Pause", theme.StylePrimaryButton, h.ToggleStreaming)
	addButton("Clear", theme.StylePrimaryButton, h.Clear)
	addButton("Exit", theme.StyleDangerButton, h.Exit)

	// Row 2: live preview on the left, result and settings on the right
	rv.Preview = NewPreview(2, 0, rv.cfg.ViewWidth, rv.cfg.ViewHeight, h.Pointer)
	side := Frame()
	Grid(side, Row(2), Column(1), Sticky("nsew"), Padx("0.3m"), Pady("0.3m"))
	rv.Result = NewResultPanel(side, 0)
	rv.Clips = NewClipStats(side, 3, 0)
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.ApplySettings)
	rv.ConfigPanel.Build(side, 4)
	GridColumnConfigure(App, 1, Weight(1))
}

// SetStatusLabel updates the status label text.
func (rv *RootView) SetStatusLabel(text string) {
	if rv != nil && rv.StatusLabel != nil {
		rv.StatusLabel.Configure(Txt(text))
	}
}

// SetStreaming relabels the pause button.
func (rv *RootView) SetStreaming(paused bool) {
	if rv == nil || rv.streamBtn == nil {
		return
	}
	if paused {
		rv.streamBtn.Configure(Txt("Resume"))
		return
	}
	rv.streamBtn.Configure(Txt("Pause"))
}

// SetRecording relabels the record button and locks settings while recording.
func (rv *RootView) SetRecording(recording bool) {
	if rv == nil {
		return
	}
	if rv.recordBtn != nil {
		if recording {
			rv.recordBtn.Configure(Txt("Stop"), Style(theme.StyleDangerButton))
		} else {
			rv.recordBtn.Configure(Txt("Record"), Style(theme.StylePrimaryButton))
		}
	}
	if rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(!recording)
	}
}

// UpdatePreview proxies to the preview view.
func (rv *RootView) UpdatePreview(img image.Image) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.UpdatePreview(img)
	}
}

// ShowResult proxies to the result panel.
func (rv *RootView) ShowResult(state model.LoadState, img image.Image, text string) {
	if rv != nil && rv.Result != nil {
		rv.Result.ShowResult(state, img, text)
	}
}

// SetClip updates clip and total recording durations.
func (rv *RootView) SetClip(clip, total time.Duration) {
	if rv != nil && rv.Clips != nil {
		rv.Clips.SetClip(clip, total)
	}
}

// PreviewReset clears the preview to the placeholder.
func (rv *RootView) PreviewReset() {
	if rv != nil && rv.Preview != nil {
		rv.Preview.Reset()
	}
}
