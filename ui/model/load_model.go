package model

import "fmt"

// LoadState describes what the result area currently shows.
type LoadState int

const (
	LoadUnknown LoadState = iota
	LoadLoading
	LoadedImage
	LoadedMovie
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadUnknown:
		return "unknown"
	case LoadLoading:
		return "loading"
	case LoadedImage:
		return "image"
	case LoadedMovie:
		return "movie"
	case LoadFailed:
		return "failed"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// LoadModel holds the result of the last capture: the cropped image or the
// recorded movie, the model's description, and any failure.
// No synchronization needed: updates occur on the UI thread tick.
type LoadModel struct {
	state       LoadState
	image       []byte
	movie       string
	description string
	err         error
}

func NewLoadModel() *LoadModel { return &LoadModel{} }

// SetLoading clears the previous result and marks a capture as in flight.
func (m *LoadModel) SetLoading() {
	if m == nil {
		return
	}
	*m = LoadModel{state: LoadLoading}
}

// SetImage shows encoded image bytes. Empty data is treated as a failure.
func (m *LoadModel) SetImage(data []byte) {
	if m == nil {
		return
	}
	if len(data) == 0 {
		m.Fail(fmt.Errorf("empty image"))
		return
	}
	m.state, m.image, m.movie, m.err = LoadedImage, data, "", nil
}

// SetMovie shows a finished recording by file path.
func (m *LoadModel) SetMovie(path string) {
	if m == nil {
		return
	}
	if path == "" {
		m.Fail(fmt.Errorf("empty movie path"))
		return
	}
	m.state, m.image, m.movie, m.err = LoadedMovie, nil, path, nil
}

// SetDescription attaches text produced for the current image.
func (m *LoadModel) SetDescription(text string) {
	if m == nil {
		return
	}
	m.description = text
}

// Fail records err; the previous payload is dropped.
func (m *LoadModel) Fail(err error) {
	if m == nil {
		return
	}
	m.state, m.image, m.movie, m.err = LoadFailed, nil, "", err
}

// Reset returns to the unknown state.
func (m *LoadModel) Reset() {
	if m == nil {
		return
	}
	*m = LoadModel{}
}

func (m *LoadModel) State() LoadState {
	if m == nil {
		return LoadUnknown
	}
	return m.state
}

func (m *LoadModel) Image() []byte {
	if m == nil {
		return nil
	}
	return m.image
}

func (m *LoadModel) Movie() string {
	if m == nil {
		return ""
	}
	return m.movie
}

func (m *LoadModel) Description() string {
	if m == nil {
		return ""
	}
	return m.description
}

func (m *LoadModel) Err() error {
	if m == nil {
		return nil
	}
	return m.err
}
