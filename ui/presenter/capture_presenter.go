package presenter

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/snapcrop-go/domain/capture"
	"github.com/soocke/snapcrop-go/domain/crop"
	"github.com/soocke/snapcrop-go/domain/inference"
	"github.com/soocke/snapcrop-go/ui/model"
)

// Capturer is the part of the capture coordinator the presenter drives.
type Capturer interface {
	CapturePhoto() *capture.PhotoRequest
	StartRecording() *capture.RecordingRequest
	StopRecording()
	ClearResults()
}

// StreamControl is the part of the session controller the presenter drives.
type StreamControl interface {
	State() capture.State
	PauseStreaming() bool
	ResumeStreaming() bool
	ToggleStreaming() bool
	SwitchCamera()
}

// CropSource yields the committed crop box in preview coordinates.
type CropSource interface {
	Rect() crop.Rect
}

// ResultView shows the outcome of the last capture.
type ResultView interface {
	ShowResult(state model.LoadState, img image.Image, text string)
}

// CaptureSettings carries the per-capture knobs taken from config.
type CaptureSettings struct {
	View        crop.Size
	Wait        capture.BoundedWait
	Encode      crop.Options
	MirrorFront bool
	Prompt      string
	SaveDir     string // when set, cropped images are also written here
}

type captureResultKind int

const (
	resultImage captureResultKind = iota + 1
	resultDescription
	resultMovie
)

type captureTask struct {
	id       uuid.UUID
	gen      uint64
	rect     crop.Rect
	mirrored bool
}

type captureResult struct {
	kind captureResultKind
	gen  uint64
	data []byte
	img  image.Image
	text string
	err  error
}

// CapturePresenter owns the capture flow: photo, bounded wait, crop, describe.
// Work runs on a single worker goroutine; results are applied on the Tk
// goroutine by ProcessResults. Pausing streaming waits for the controller's
// queue, so stream changes run in order on their own goroutine and never on
// the Tk goroutine.
type CapturePresenter struct {
	capturer  Capturer
	stream    StreamControl
	crop      CropSource
	describer inference.Describer
	view      ResultView
	captured  *model.CaptureModel
	load      *model.LoadModel
	logger    *slog.Logger

	settingsMu sync.Mutex
	settings   CaptureSettings

	ctx    context.Context
	cancel context.CancelFunc

	workerOnce sync.Once
	workCh     chan captureTask
	resultCh   chan captureResult
	streamOnce sync.Once
	streamCh   chan func()
	busy       bool          // UI goroutine only
	gen        atomic.Uint64 // bumped by Clear to drop stale results
}

// NewCapturePresenter constructs a capture presenter.
func NewCapturePresenter(capturer Capturer, stream StreamControl, cropSrc CropSource, describer inference.Describer, view ResultView, captured *model.CaptureModel, load *model.LoadModel, settings CaptureSettings, logger *slog.Logger) *CapturePresenter {
	if describer == nil {
		describer = inference.NopDescriber{}
	}
	if settings.Wait.Attempts <= 0 || settings.Wait.Interval <= 0 {
		settings.Wait = capture.DefaultBoundedWait
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &CapturePresenter{
		capturer:  capturer,
		stream:    stream,
		crop:      cropSrc,
		describer: describer,
		view:      view,
		captured:  captured,
		load:      load,
		settings:  settings,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		workCh:    make(chan captureTask, 1),
		resultCh:  make(chan captureResult, 4),
		streamCh:  make(chan func(), 8),
	}
}

// OnTap captures when nothing is shown, otherwise clears the shown result.
func (p *CapturePresenter) OnTap() {
	if p == nil {
		return
	}
	if p.captured.Captured() {
		p.Clear()
		return
	}
	p.Capture()
}

// Capture starts a photo capture of the current crop box. It reports false
// when a capture is already in flight.
func (p *CapturePresenter) Capture() bool {
	if p == nil || p.capturer == nil || p.stream == nil || p.crop == nil {
		return false
	}
	if p.busy {
		return false
	}
	p.ensureWorker()
	st := p.stream.State()
	task := captureTask{
		id:       uuid.New(),
		gen:      p.gen.Load(),
		rect:     p.crop.Rect(),
		mirrored: p.Settings().MirrorFront && st.Facing == capture.FacingFront,
	}
	select {
	case p.workCh <- task:
	default:
		// a cleared capture is still finishing on the worker
		return false
	}
	p.busy = true
	p.captured.SetCaptured(true)
	p.load.SetLoading()
	p.show()
	return true
}

// Settings returns a copy of the current capture settings.
func (p *CapturePresenter) Settings() CaptureSettings {
	p.settingsMu.Lock()
	defer p.settingsMu.Unlock()
	return p.settings
}

// UpdateSettings edits the settings used by later captures.
func (p *CapturePresenter) UpdateSettings(fn func(*CaptureSettings)) {
	if p == nil || fn == nil {
		return
	}
	p.settingsMu.Lock()
	defer p.settingsMu.Unlock()
	fn(&p.settings)
}

// Clear drops the shown result and resumes streaming.
func (p *CapturePresenter) Clear() {
	if p == nil {
		return
	}
	p.gen.Add(1)
	p.busy = false
	if p.capturer != nil {
		p.capturer.ClearResults()
	}
	p.streamDo(func() { p.stream.ResumeStreaming() })
	p.captured.SetCaptured(false)
	p.load.Reset()
	p.show()
}

// ToggleRecording starts a recording, or stops the one in progress. The
// finished movie is delivered through ProcessResults.
func (p *CapturePresenter) ToggleRecording() {
	if p == nil || p.capturer == nil || p.stream == nil {
		return
	}
	if p.stream.State().Recording {
		p.capturer.StopRecording()
		return
	}
	req := p.capturer.StartRecording()
	gen := p.gen.Load()
	go func() {
		defer recoverLog(p.logger, "capture.recording.await")
		path, err := req.Await(p.ctx)
		if p.ctx.Err() != nil {
			return
		}
		if err == nil {
			p.pauseIfCurrent(gen)
		}
		p.deliver(captureResult{kind: resultMovie, gen: gen, text: path, err: err})
	}()
}

// SwitchCamera asks the controller to flip facing.
func (p *CapturePresenter) SwitchCamera() {
	if p != nil && p.stream != nil {
		p.stream.SwitchCamera()
	}
}

// ToggleStreaming pauses or resumes the live preview. It returns at once; the
// status label follows the published state.
func (p *CapturePresenter) ToggleStreaming() {
	if p == nil {
		return
	}
	p.streamDo(func() { p.stream.ToggleStreaming() })
}

// ProcessResults applies finished work to the models and the view. Call it
// from the Tk goroutine.
func (p *CapturePresenter) ProcessResults() {
	if p == nil {
		return
	}
	for {
		select {
		case res := <-p.resultCh:
			p.handleResult(res)
		default:
			return
		}
	}
}

// Close stops the worker and abandons in-flight waits.
func (p *CapturePresenter) Close() {
	if p == nil {
		return
	}
	p.cancel()
}

func (p *CapturePresenter) ensureWorker() {
	p.workerOnce.Do(func() {
		go p.runWorker()
	})
}

func (p *CapturePresenter) runWorker() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case task := <-p.workCh:
			p.executeTask(task)
		}
	}
}

func (p *CapturePresenter) executeTask(task captureTask) {
	defer recoverLog(p.logger, "capture.worker")
	settings := p.Settings()
	start := time.Now()
	data, err := p.capturer.CapturePhoto().Await(p.ctx, settings.Wait)
	if err != nil {
		p.deliver(captureResult{kind: resultImage, gen: task.gen, err: err})
		return
	}
	// streaming stays stopped while the result is shown
	p.pauseIfCurrent(task.gen)

	opts := settings.Encode
	opts.Mirrored = task.mirrored
	out := data
	res, cerr := crop.CropToView(data, task.rect, settings.View, opts)
	if cerr != nil {
		p.log(slog.LevelWarn, "capture.crop.failed", "request", task.id.String(), "rect", task.rect.String(), "error", cerr)
	} else {
		out = res.Data
		p.log(slog.LevelInfo, "capture.cropped", "request", task.id.String(), "pixels", res.Pixels.String(), "bytes", len(out), "took", time.Since(start))
	}
	img, derr := crop.Decode(out)
	if derr != nil {
		p.deliver(captureResult{kind: resultImage, gen: task.gen, err: derr})
		return
	}
	p.saveCrop(settings.SaveDir, task, out, opts.Format)
	p.deliver(captureResult{kind: resultImage, gen: task.gen, data: out, img: img})

	text, ierr := p.describer.Describe(p.ctx, out, settings.Prompt)
	if p.ctx.Err() != nil {
		return
	}
	p.deliver(captureResult{kind: resultDescription, gen: task.gen, text: text, err: ierr})
}

// streamDo runs fn on the stream goroutine, after every earlier stream change.
func (p *CapturePresenter) streamDo(fn func()) {
	if p.stream == nil {
		return
	}
	p.streamOnce.Do(func() {
		go p.runStream()
	})
	select {
	case p.streamCh <- fn:
	case <-p.ctx.Done():
	}
}

func (p *CapturePresenter) runStream() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case fn := <-p.streamCh:
			func() {
				defer recoverLog(p.logger, "capture.stream")
				fn()
			}()
		}
	}
}

// pauseIfCurrent pauses streaming unless a Clear came after generation gen.
// The check runs when the pause does, so a later Clear always wins.
func (p *CapturePresenter) pauseIfCurrent(gen uint64) {
	p.streamDo(func() {
		if gen == p.gen.Load() {
			p.stream.PauseStreaming()
		}
	})
}

func (p *CapturePresenter) saveCrop(dir string, task captureTask, data []byte, format crop.Format) {
	if dir == "" {
		return
	}
	ext := ".jpg"
	if format == crop.FormatWebP {
		ext = ".webp"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		p.log(slog.LevelWarn, "capture.crop.save", "error", err)
		return
	}
	path := filepath.Join(dir, "crop_"+time.Now().Format("2006-01-02_15-04-05")+"_"+task.id.String()[:8]+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		p.log(slog.LevelWarn, "capture.crop.save", "path", path, "error", err)
		return
	}
	p.log(slog.LevelDebug, "capture.crop.saved", "path", path)
}

func (p *CapturePresenter) deliver(res captureResult) {
	select {
	case p.resultCh <- res:
	case <-p.ctx.Done():
	}
}

func (p *CapturePresenter) handleResult(res captureResult) {
	if res.gen != p.gen.Load() {
		return // cleared while in flight
	}
	switch res.kind {
	case resultImage:
		p.busy = false
		if res.err != nil {
			p.load.Fail(res.err)
			p.log(slog.LevelWarn, "capture.failed", "error", res.err)
		} else {
			p.load.SetImage(res.data)
		}
		p.showImage(res.img)
	case resultDescription:
		if p.load.State() != model.LoadedImage {
			return
		}
		switch {
		case res.err != nil:
			p.log(slog.LevelWarn, "inference.failed", "error", res.err)
			p.load.SetDescription(fmt.Sprintf("Description unavailable: %v", res.err))
		case res.text == "":
			p.load.SetDescription("Captured.")
		default:
			p.load.SetDescription(res.text)
		}
		p.showImage(nil)
	case resultMovie:
		if res.err != nil {
			p.load.Fail(res.err)
			p.show()
			return
		}
		p.captured.SetCaptured(true)
		p.load.SetMovie(res.text)
		p.show()
	}
}

// show pushes the model without an image; the view keeps the one it has.
func (p *CapturePresenter) show() { p.showImage(nil) }

func (p *CapturePresenter) showImage(img image.Image) {
	if p.view == nil {
		return
	}
	p.view.ShowResult(p.load.State(), img, resultText(p.load))
}

func resultText(m *model.LoadModel) string {
	switch m.State() {
	case model.LoadLoading:
		return "Capturing..."
	case model.LoadedImage:
		if d := m.Description(); d != "" {
			return d
		}
		return "Describing..."
	case model.LoadedMovie:
		return "Recorded " + m.Movie()
	case model.LoadFailed:
		return fmt.Sprintf("Capture failed: %v", m.Err())
	default:
		return ""
	}
}

func (p *CapturePresenter) log(level slog.Level, msg string, args ...any) {
	if p.logger != nil {
		p.logger.Log(context.Background(), level, msg, args...)
	}
}
