package capture

import "context"

// Authorization is the platform's answer about camera access.
type Authorization int

const (
	AuthNotDetermined Authorization = iota
	AuthGranted
	AuthDenied
	AuthRestricted
	AuthUnknown
)

func (a Authorization) String() string {
	switch a {
	case AuthNotDetermined:
		return "not_determined"
	case AuthGranted:
		return "granted"
	case AuthDenied:
		return "denied"
	case AuthRestricted:
		return "restricted"
	default:
		return "unknown"
	}
}

// Authorizer reports and requests camera access. RequestAccess may block
// until the user answers.
type Authorizer interface {
	Status() Authorization
	RequestAccess(ctx context.Context) (bool, error)
}

// Device is a physical camera.
type Device interface {
	ID() string
	Facing() Facing
}

// Input feeds a device into the session.
type Input interface{ Device() Device }

// DeviceFinder locates cameras and builds inputs for them.
type DeviceFinder interface {
	DefaultDevice(f Facing) (Device, bool)
	NewInput(d Device) (Input, error)
}

// Output is anything the session can attach as a sink.
type Output interface{ OutputName() string }

// Session is the hardware session. Mutations happen between
// BeginConfiguration and CommitConfiguration.
type Session interface {
	BeginConfiguration()
	CommitConfiguration()
	CanAddInput(in Input) bool
	AddInput(in Input)
	RemoveInput(in Input)
	Inputs() []Input
	CanAddOutput(out Output) bool
	AddOutput(out Output)
	StartRunning()
	StopRunning()
	Running() bool
}

// PhotoSettings are per-shot options.
type PhotoSettings struct {
	PrioritizeSpeed bool
	LivePhoto       bool
}

// PhotoCallback receives the encoded still or an error, exactly once per shot.
type PhotoCallback func(data []byte, err error)

// RecordingCallback receives the finished file path or an error.
type RecordingCallback func(path string, err error)

// FrameHandler receives live frames from the video output.
type FrameHandler func(Frame)

type PhotoOutput interface {
	Output
	CapturePhoto(settings PhotoSettings, done PhotoCallback)
}

type MovieOutput interface {
	Output
	StartRecording(path string, done RecordingCallback)
	StopRecording()
	Recording() bool
}

type VideoOutput interface {
	Output
	SetFrameHandler(h FrameHandler)
	SetOrientation(rotation int, mirrored bool)
}

// Hardware bundles the collaborators a Controller drives.
type Hardware struct {
	Auth    Authorizer
	Devices DeviceFinder
	Session Session
	Photo   PhotoOutput
	Movie   MovieOutput
	Video   VideoOutput
}
