package presenter

import (
	"strings"
	"sync"
	"time"

	"github.com/soocke/snapcrop-go/domain/capture"
)

// StatusView shows session status and the streaming/recording toggles.
type StatusView interface {
	SetStatusLabel(string)
	SetStreaming(paused bool)
	SetRecording(recording bool)
}

// StatusPresenter receives published capture state and reflects it in the view.
type StatusPresenter struct {
	view StatusView

	mu      sync.Mutex
	pending *capture.State // latest state not yet shown

	shown  string
	paused *bool
	rec    *bool
}

func NewStatusPresenter(view StatusView) *StatusPresenter {
	return &StatusPresenter{view: view}
}

// OnState matches capture.Listener. It runs on the capture queue goroutine and
// only stores the state; the next Tick reflects it.
func (p *StatusPresenter) OnState(prev, next capture.State) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = &next
	p.mu.Unlock()
}

// Tick flushes the most recent state to the view.
func (p *StatusPresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	st := p.pending
	p.pending = nil
	p.mu.Unlock()
	if st == nil {
		return
	}
	if text := StatusText(*st); text != p.shown {
		p.shown = text
		p.view.SetStatusLabel(text)
	}
	if p.paused == nil || *p.paused != st.StreamingPaused {
		v := st.StreamingPaused
		p.paused = &v
		p.view.SetStreaming(v)
	}
	if p.rec == nil || *p.rec != st.Recording {
		v := st.Recording
		p.rec = &v
		p.view.SetRecording(v)
	}
}

// StatusText renders a one-line summary of st.
func StatusText(st capture.State) string {
	var b strings.Builder
	b.WriteString("Camera: ")
	b.WriteString(st.Status.String())
	b.WriteString(" (")
	b.WriteString(st.Facing.String())
	b.WriteString(")")
	if st.StreamingPaused {
		b.WriteString(" paused")
	}
	if st.Recording {
		b.WriteString(" recording")
	}
	if st.Err != nil {
		b.WriteString(" | ")
		b.WriteString(st.Err.Error())
	}
	return b.String()
}
