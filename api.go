package vitallens

import (
	base "github.com/Siddhubn/VitalLens/pkg/vitallens"
)

// Re-exported errors for convenience.
var (
	ErrCaptureUnavailable    = base.ErrCaptureUnavailable
	ErrAlreadyRecording      = base.ErrAlreadyRecording
	ErrMalformedResponse     = base.ErrMalformedResponse
	ErrFaceNotDetected       = base.ErrFaceNotDetected
	ErrMeasurementInProgress = base.ErrMeasurementInProgress
)

// Type aliases so consumers can import github.com/Siddhubn/VitalLens directly.
type (
	Config            = base.Config
	DetectionConfig   = base.DetectionConfig
	CaptureConfig     = base.CaptureConfig
	MeasurementConfig = base.MeasurementConfig
	PredictConfig     = base.PredictConfig
	HistoryConfig     = base.HistoryConfig
	MetricsConfig     = base.MetricsConfig
	ServerConfig      = base.ServerConfig
	Runtime           = base.Runtime
	Option            = base.Option
	MetricsResult     = base.MetricsResult
	Recording         = base.Recording
	Frame             = base.Frame
	Region            = base.Region
	DetectionSignal   = base.DetectionSignal
	SessionState      = base.SessionState
	StressLevel       = base.StressLevel
	ResultView        = base.ResultView
	Measurement       = base.Measurement
	Detector          = base.Detector
	FrameSource       = base.FrameSource
	Capture           = base.Capture
	RecordingHandle   = base.RecordingHandle
	ChunkFunc         = base.ChunkFunc
	Predictor         = base.Predictor
	Display           = base.Display
	Observability     = base.Observability
	Field             = base.Field
	MeasurementStore  = base.MeasurementStore
	NetworkError      = base.NetworkError
	ServerError       = base.ServerError
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Runtime construction and options.
func NewRuntime(cfg *Config, opts ...Option) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithDetector(det Detector) Option {
	return base.WithDetector(det)
}

func WithFrameSource(src FrameSource) Option {
	return base.WithFrameSource(src)
}

func WithCapture(cap Capture) Option {
	return base.WithCapture(cap)
}

func WithPredictor(p Predictor) Option {
	return base.WithPredictor(p)
}

func WithDisplay(d Display) Option {
	return base.WithDisplay(d)
}

func WithObservability(obs Observability) Option {
	return base.WithObservability(obs)
}

func WithStore(s MeasurementStore) Option {
	return base.WithStore(s)
}
