package vitallens

import "github.com/Siddhubn/VitalLens/internal/app/config"

// Config re-exports the root configuration struct so embedders can construct
// or modify it programmatically.
type Config = config.Config

type (
	// DetectionConfig configures the face-detection client and poll interval.
	DetectionConfig = config.DetectionConfig
	// CaptureConfig configures the replayed capture source.
	CaptureConfig = config.CaptureConfig
	// MeasurementConfig holds the session timings.
	MeasurementConfig = config.MeasurementConfig
	// PredictConfig configures the prediction submitter.
	PredictConfig = config.PredictConfig
	// HistoryConfig configures the optional measurement store.
	HistoryConfig = config.HistoryConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// ServerConfig configures the control HTTP server.
	ServerConfig = config.ServerConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
