package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Detection   DetectionConfig   `yaml:"detection"`
	Capture     CaptureConfig     `yaml:"capture"`
	Measurement MeasurementConfig `yaml:"measurement"`
	Predict     PredictConfig     `yaml:"predict"`
	History     HistoryConfig     `yaml:"history"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Server      ServerConfig      `yaml:"server"`
}

type DetectionConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

type CaptureConfig struct {
	Source        string        `yaml:"source"`
	ChunkInterval time.Duration `yaml:"chunk_interval"`
	ChunkSize     int           `yaml:"chunk_size"`
	WarmupFrames  int           `yaml:"warmup_frames"`
	MIMEType      string        `yaml:"mime_type"`
}

type MeasurementConfig struct {
	Duration      time.Duration `yaml:"duration"`
	CountdownTick time.Duration `yaml:"countdown_tick"`
	RejectNotice  time.Duration `yaml:"reject_notice"`
}

type PredictConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	ReportURL string        `yaml:"report_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

type HistoryConfig struct {
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

func Load(path string) (*Config, error) {
	// A missing .env file is fine; system environment still applies.
	_ = godotenv.Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("VITALLENS_DETECT_ENDPOINT"); v != "" {
		c.Detection.Endpoint = v
	}
	if v := os.Getenv("VITALLENS_PREDICT_ENDPOINT"); v != "" {
		c.Predict.Endpoint = v
	}
	if v := os.Getenv("VITALLENS_REPORT_URL"); v != "" {
		c.Predict.ReportURL = v
	}
	if v := os.Getenv("VITALLENS_HISTORY_CONN"); v != "" {
		c.History.ConnString = v
	}
	if v := os.Getenv("VITALLENS_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

func (c *Config) applyDefaults() {
	if c.Detection.Endpoint == "" {
		c.Detection.Endpoint = "http://localhost:9001/detect"
	}
	if c.Detection.Interval <= 0 {
		c.Detection.Interval = 500 * time.Millisecond
	}
	if c.Detection.Timeout <= 0 {
		c.Detection.Timeout = 10 * time.Second
	}
	if c.Capture.ChunkInterval <= 0 {
		c.Capture.ChunkInterval = 250 * time.Millisecond
	}
	if c.Capture.ChunkSize <= 0 {
		c.Capture.ChunkSize = 64 << 10
	}
	if c.Capture.WarmupFrames <= 0 {
		c.Capture.WarmupFrames = 10
	}
	if c.Capture.MIMEType == "" {
		c.Capture.MIMEType = "video/webm"
	}
	if c.Measurement.Duration <= 0 {
		c.Measurement.Duration = 30 * time.Second
	}
	if c.Measurement.CountdownTick <= 0 {
		c.Measurement.CountdownTick = time.Second
	}
	if c.Measurement.RejectNotice <= 0 {
		c.Measurement.RejectNotice = 3 * time.Second
	}
	if c.Predict.Endpoint == "" {
		c.Predict.Endpoint = "http://localhost:5000/predict"
	}
	if c.Predict.ReportURL == "" {
		c.Predict.ReportURL = "http://localhost:5000/download_report"
	}
	if c.Predict.Timeout <= 0 {
		c.Predict.Timeout = 60 * time.Second
	}
	if c.History.Table == "" {
		c.History.Table = "measurements"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

func (c *Config) validate() error {
	if c.Capture.Source == "" {
		return fmt.Errorf("capture.source is required")
	}
	if c.Detection.Endpoint == "" {
		return fmt.Errorf("detection.endpoint is required")
	}
	if c.Predict.Endpoint == "" {
		return fmt.Errorf("predict.endpoint is required")
	}
	if c.Measurement.CountdownTick > c.Measurement.Duration {
		return fmt.Errorf("measurement.countdown_tick must not exceed measurement.duration")
	}
	return nil
}
