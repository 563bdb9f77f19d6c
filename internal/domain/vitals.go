package domain

import (
	"time"

	"github.com/google/uuid"
)

// DetectionSignal is the face-presence signal maintained by the monitor.
// It only ever reflects the most recent poll that completed without error.
type DetectionSignal int

const (
	SignalUnknown DetectionSignal = iota
	SignalFacePresent
	SignalFaceAbsent
)

func (s DetectionSignal) String() string {
	switch s {
	case SignalFacePresent:
		return "face_present"
	case SignalFaceAbsent:
		return "face_absent"
	default:
		return "unknown"
	}
}

// SessionState tracks where the single measurement session currently is.
type SessionState int

const (
	StateIdle SessionState = iota
	StateAwaitingFaceGate
	StateCountdown
	StateRecording
	StateSubmitting
	StateShowingResult
	StateShowingError
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingFaceGate:
		return "awaiting_face_gate"
	case StateCountdown:
		return "countdown"
	case StateRecording:
		return "recording"
	case StateSubmitting:
		return "submitting"
	case StateShowingResult:
		return "showing_result"
	case StateShowingError:
		return "showing_error"
	default:
		return "unknown"
	}
}

// Region is one detected face rectangle in frame coordinates.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Frame is a single encoded image read from the live video source.
type Frame struct {
	Data       []byte
	Width      int
	Height     int
	CapturedAt time.Time
}

// Recording is the finalized payload assembled from the capture chunks of one
// session. It is consumed by the predictor and then discarded.
type Recording struct {
	ID        uuid.UUID
	StartedAt time.Time
	Duration  time.Duration
	MIMEType  string
	Data      []byte
}

// StressLevel is the qualitative classification derived from a result.
type StressLevel int

const (
	StressNormal StressLevel = iota
	StressModerate
	StressHigh
)

func (l StressLevel) String() string {
	switch l {
	case StressHigh:
		return "High"
	case StressModerate:
		return "Moderate"
	default:
		return "Normal"
	}
}

// MetricsResult is the physiological reading returned by the prediction
// service. Immutable once received.
type MetricsResult struct {
	HeartRate   float64 `json:"heart_rate"`
	SystolicBP  float64 `json:"systolic_bp"`
	DiastolicBP float64 `json:"diastolic_bp"`
}

// Stress classifies the result. The 100/135 and 85/125 bounds are exclusive:
// a reading sitting exactly on a threshold stays in the lower band.
func (m MetricsResult) Stress() StressLevel {
	switch {
	case m.HeartRate > 100 || m.SystolicBP > 135:
		return StressHigh
	case m.HeartRate > 85 || m.SystolicBP > 125:
		return StressModerate
	default:
		return StressNormal
	}
}
