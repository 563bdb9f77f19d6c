package vitallens

import (
	"github.com/Siddhubn/VitalLens/internal/domain"
	"github.com/Siddhubn/VitalLens/internal/ports"
)

// MetricsResult is the physiological reading returned by the prediction service.
type MetricsResult = domain.MetricsResult

// Recording is the finalized payload of one measurement session.
type Recording = domain.Recording

// Frame is a single encoded image from the live video source.
type Frame = domain.Frame

// Region is one detected face rectangle.
type Region = domain.Region

// DetectionSignal is the face-presence signal maintained by the monitor.
type DetectionSignal = domain.DetectionSignal

// SessionState tracks where the measurement session currently is.
type SessionState = domain.SessionState

// StressLevel is the qualitative classification derived from a result.
type StressLevel = domain.StressLevel

// ResultView is a metrics result formatted for display.
type ResultView = ports.ResultView

// Measurement is a completed reading as persisted to history.
type Measurement = ports.Measurement

// Detector is the opaque face-detection capability.
type Detector = ports.Detector

// FrameSource is the live video source read by monitor and capture.
type FrameSource = ports.FrameSource

// Capture is the opaque media-capture capability.
type Capture = ports.Capture

// RecordingHandle controls one active recording.
type RecordingHandle = ports.RecordingHandle

// ChunkFunc receives encoded media chunks in arrival order.
type ChunkFunc = ports.ChunkFunc

// Predictor submits recordings to the prediction service.
type Predictor = ports.Predictor

// Display receives the UI-facing outputs of a session.
type Display = ports.Display

// Observability emits logs and metrics about sessions and polling.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

// MeasurementStore persists completed measurements.
type MeasurementStore = ports.MeasurementStore

// NetworkError wraps a transport-level prediction failure.
type NetworkError = domain.NetworkError

// ServerError carries the prediction service's error message.
type ServerError = domain.ServerError

// Re-exported signal, state, and stress values.
const (
	SignalUnknown     = domain.SignalUnknown
	SignalFacePresent = domain.SignalFacePresent
	SignalFaceAbsent  = domain.SignalFaceAbsent

	StateIdle             = domain.StateIdle
	StateAwaitingFaceGate = domain.StateAwaitingFaceGate
	StateCountdown        = domain.StateCountdown
	StateRecording        = domain.StateRecording
	StateSubmitting       = domain.StateSubmitting
	StateShowingResult    = domain.StateShowingResult
	StateShowingError     = domain.StateShowingError

	StressNormal   = domain.StressNormal
	StressModerate = domain.StressModerate
	StressHigh     = domain.StressHigh
)

// Re-exported sentinel errors.
var (
	ErrCaptureUnavailable    = domain.ErrCaptureUnavailable
	ErrAlreadyRecording      = domain.ErrAlreadyRecording
	ErrMalformedResponse     = domain.ErrMalformedResponse
	ErrFaceNotDetected       = domain.ErrFaceNotDetected
	ErrMeasurementInProgress = domain.ErrMeasurementInProgress
)
