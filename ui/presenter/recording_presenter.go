package presenter

import (
	"time"

	"github.com/soocke/snapcrop-go/domain/capture"
	"github.com/soocke/snapcrop-go/ui/model"
)

// StateSource reports the published capture state.
type StateSource interface{ State() capture.State }

// RecordingView displays the running clip length and total recorded time.
type RecordingView interface {
	SetClip(clip, total time.Duration)
}

// RecordingPresenter advances the recording model from published state.
type RecordingPresenter struct {
	rec   *model.RecordingModel
	state StateSource
	view  RecordingView
}

// NewRecordingPresenter returns a new RecordingPresenter.
func NewRecordingPresenter(rec *model.RecordingModel, state StateSource, view RecordingView) *RecordingPresenter {
	return &RecordingPresenter{rec: rec, state: state, view: view}
}

// Tick advances the model and pushes values to the view.
func (p *RecordingPresenter) Tick(now time.Time) {
	if p == nil || p.rec == nil || p.state == nil || p.view == nil {
		return
	}
	p.rec.OnTick(p.state.State().Recording, now)
	clip, total := p.rec.Values()
	p.view.SetClip(clip, total)
}
