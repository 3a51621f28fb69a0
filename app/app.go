package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/snapcrop-go/config"
	"github.com/soocke/snapcrop-go/debug"
	"github.com/soocke/snapcrop-go/ui/theme"
	"github.com/soocke/snapcrop-go/ui/view"

	tk "modernc.org/tk9.0"
)

const tick = 50 * time.Millisecond

// app owns the Tk window and the container's lifecycle.
type app struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	width   int
	height  int
	afterID string
	c       *Container
	closed  bool
}

func NewApp(title string, width, height int, cfg *config.Config, cfgPath string, logger *slog.Logger) *app {
	a := &app{cfg: cfg, cfgPath: cfgPath, logger: logger, width: width, height: height}
	tk.App.WmTitle(title)
	tk.WmProtocol(tk.App, "WM_DELETE_WINDOW", a.exitHandler)
	tk.WmGeometry(tk.App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a
}

// Start builds the UI, starts capture and blocks in the Tk event loop until
// the window is closed.
func (a *app) Start() error {
	theme.SetDark(a.cfg.DarkMode)
	if a.cfg.Debug {
		debug.StartGoroutineLogger(5*time.Second, a.logger)
		debug.StartMemLogger(10*time.Second, a.logger)
	}

	a.c = BuildContainer(a.cfg, a.cfgPath, a.logger)
	a.c.RootView.Build(view.Handlers{
		Pointer: view.PointerHandlers{
			Press:   func(x, y float64) { a.c.Gesture.Press(x, y) },
			Motion:  func(x, y float64) { a.c.Gesture.Motion(x, y) },
			Release: func(x, y float64) { a.c.Gesture.Release(x, y) },
		},
		Capture:         func() { a.c.CaptureP.Capture() },
		ToggleRecording: func() { a.c.CaptureP.ToggleRecording() },
		SwitchCamera:    func() { a.c.CaptureP.SwitchCamera() },
		ToggleStreaming: func() { a.c.CaptureP.ToggleStreaming() },
		Clear:           func() { a.c.CaptureP.Clear() },
		ApplySettings:   a.c.ApplySettings,
		Exit:            a.exitHandler,
	})
	a.c.Wire(a.scheduleUpdate)
	a.logger.Info("app.started", "view_width", a.cfg.ViewWidth, "view_height", a.cfg.ViewHeight, "recordings", a.cfg.RecordingsDir)

	a.scheduleUpdate()
	tk.App.Wait()
	a.shutdown()
	return nil
}

func (a *app) scheduleUpdate() {
	if a.closed {
		return
	}
	// TclAfter keeps the tick on Tk's event loop thread.
	a.afterID = tk.TclAfter(tick, func() { a.c.Loop.Tick() })
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		tk.TclAfterCancel(a.afterID)
	}
	a.closed = true
	tk.Destroy(tk.App)
}

func (a *app) shutdown() {
	a.closed = true
	if a.c == nil {
		return
	}
	if err := a.c.SaveCropRect(a.cfgPath); err != nil {
		a.logger.Warn("crop box not saved", "path", a.cfgPath, "error", err)
	}
	a.c.Close()
	st := a.c.Control.Stats()
	a.logger.Info("app.stopped", "frames", st.FramesDelivered, "dropped", st.FramesDropped, "photos", st.Photos, "recordings", st.Recordings)
}
