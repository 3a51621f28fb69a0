package app

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/soocke/snapcrop-go/config"
	"github.com/soocke/snapcrop-go/domain/capture"
	"github.com/soocke/snapcrop-go/domain/crop"
	"github.com/soocke/snapcrop-go/domain/inference"
	"github.com/soocke/snapcrop-go/domain/screencam"
	"github.com/soocke/snapcrop-go/ui/model"
	"github.com/soocke/snapcrop-go/ui/presenter"
	"github.com/soocke/snapcrop-go/ui/view"
)

// Container assembles models, services, presenters and the root view.
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	Camera   *screencam.Camera
	Control  *capture.Controller
	Coord    *capture.Coordinator
	Engine   *crop.Engine
	Describe inference.Describer

	// Models
	Captured  *model.CaptureModel
	Load      *model.LoadModel
	Recording *model.RecordingModel

	// Presenters, wired by Wire once the view exists
	Gesture        *presenter.GesturePresenter
	CaptureP       *presenter.CapturePresenter
	StatusP        *presenter.StatusPresenter
	RecordingP     *presenter.RecordingPresenter
	PreviewP       *presenter.PreviewPresenter
	Loop           *presenter.Loop
	RootView       *view.RootView
	frameExec      *capture.SerialExecutor
	unsubscribeFns []func()
}

// BuildContainer constructs the domain services. Starting the controller
// kicks off authorization and session configuration on its queue.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) *Container {
	c := &Container{Config: cfg, Logger: logger}
	c.Camera = screencam.New(screencam.Options{
		FrameRate: cfg.FrameRate,
		Quality:   cfg.JPEGQuality,
		AuthNode:  cfg.AuthNode,
	}, logger)
	c.Control = capture.NewController(c.Camera.Hardware(), capture.Options{
		Facing:      capture.ParseFacing(cfg.Facing),
		Rotation:    cfg.VideoRotation,
		MirrorVideo: cfg.MirrorFront,
	}, logger)
	c.Coord = capture.NewCoordinator(c.Control, capture.CoordinatorOptions{
		RecordingsDir: cfg.RecordingsDir,
		Photo:         capture.PhotoSettings{PrioritizeSpeed: true},
	}, logger)
	c.Engine = crop.NewEngine(crop.EngineConfig{
		Initial: crop.Rect{X: cfg.CropX, Y: cfg.CropY, W: cfg.CropW, H: cfg.CropH},
		MinSize: cfg.CropMinSize,
		HitSize: cfg.CornerHitSize,
		Logger:  logger,
	})
	c.Describe = newDescriber(cfg, logger)

	c.Captured = &model.CaptureModel{}
	c.Load = model.NewLoadModel()
	c.Recording = model.NewRecordingModel()
	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	return c
}

func newDescriber(cfg *config.Config, logger *slog.Logger) inference.Describer {
	if cfg.OllamaURL == "" {
		return inference.NopDescriber{}
	}
	d, err := inference.NewOllamaDescriber(cfg.OllamaURL, cfg.OllamaModel, time.Duration(cfg.InferenceTimeoutSeconds)*time.Second, logger)
	if err != nil {
		if logger != nil {
			logger.Warn("inference disabled", "url", cfg.OllamaURL, "error", err)
		}
		return inference.NopDescriber{}
	}
	return d
}

// CaptureSettings derives presenter settings from cfg.
func CaptureSettings(cfg *config.Config) presenter.CaptureSettings {
	s := presenter.CaptureSettings{
		View: crop.Size{W: float64(cfg.ViewWidth), H: float64(cfg.ViewHeight)},
		Wait: capture.BoundedWait{
			Interval: time.Duration(cfg.PhotoPollIntervalMs) * time.Millisecond,
			Attempts: cfg.PhotoPollAttempts,
		},
		Encode:      crop.Options{Format: crop.ParseFormat(cfg.OutputFormat), Quality: cfg.JPEGQuality},
		MirrorFront: cfg.MirrorFront,
		Prompt:      cfg.Prompt,
	}
	if cfg.SaveCrops {
		s.SaveDir = filepath.Join(cfg.RecordingsDir, "crops")
	}
	return s
}

// Wire builds the presenters against the root view and attaches the preview
// to the live frame stream. schedule re-arms the UI tick.
func (c *Container) Wire(schedule func()) {
	ui := c.RootView
	c.CaptureP = presenter.NewCapturePresenter(c.Coord, c.Control, c.Engine, c.Describe, ui, c.Captured, c.Load, CaptureSettings(c.Config), c.Logger)
	c.Gesture = presenter.NewGesturePresenter(c.Engine, c.CaptureP.OnTap, c.Logger)
	c.StatusP = presenter.NewStatusPresenter(ui)
	c.RecordingP = presenter.NewRecordingPresenter(c.Recording, c.Control, ui)
	c.PreviewP = presenter.NewPreviewPresenter(c.Engine, ui, crop.Size{W: float64(c.Config.ViewWidth), H: float64(c.Config.ViewHeight)})
	c.Loop = presenter.NewLoop(c.StatusP, c.RecordingP, c.PreviewP, c.CaptureP, schedule)

	c.unsubscribeFns = append(c.unsubscribeFns, c.Control.Subscribe(c.StatusP.OnState))
	// seed the label with the state published before subscribing
	c.StatusP.OnState(capture.State{}, c.Control.State())

	c.frameExec = capture.NewSerialExecutor(1)
	c.Control.Frames().Attach(c.PreviewP.Consume, c.frameExec)
}

// ApplySettings pushes edited config values into the controller and the
// running presenters. Preview and crop mirroring both follow MirrorFront.
func (c *Container) ApplySettings(cfg *config.Config) {
	if c.Control != nil {
		c.Control.SetOrientation(cfg.VideoRotation, cfg.MirrorFront)
	}
	if c.CaptureP == nil {
		return
	}
	next := CaptureSettings(cfg)
	c.CaptureP.UpdateSettings(func(s *presenter.CaptureSettings) { *s = next })
}

// Close detaches the preview, stops the presenters and shuts the controller down.
func (c *Container) Close() {
	for _, fn := range c.unsubscribeFns {
		fn()
	}
	c.unsubscribeFns = nil
	if c.Control != nil {
		c.Control.Frames().Attach(nil, nil)
	}
	if c.CaptureP != nil {
		c.CaptureP.Close()
	}
	if c.Control != nil {
		c.Coord.StopRecording()
		c.Control.Close()
	}
	if c.frameExec != nil {
		c.frameExec.Close()
	}
}

// SaveCropRect persists the crop box so the next run starts where this one ended.
func (c *Container) SaveCropRect(cfgPath string) error {
	r := c.Engine.Rect()
	c.Config.CropX, c.Config.CropY, c.Config.CropW, c.Config.CropH = r.X, r.Y, r.W, r.H
	return c.Config.Save(cfgPath)
}
