package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Siddhubn/VitalLens/internal/domain"
	"github.com/Siddhubn/VitalLens/internal/ports"
)

const (
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 1 << 20
)

// Config captures the details needed to reach the face-detection service.
type Config struct {
	// Endpoint is the full URL of the detect route.
	Endpoint string
	Timeout  time.Duration
}

// HTTPDetector asks a remote detection service for face regions in a frame.
// Errors returned here are absorbed by the face monitor, never fatal.
type HTTPDetector struct {
	endpoint string
	client   *http.Client
}

func NewHTTPDetector(cfg Config) *HTTPDetector {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPDetector{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (d *HTTPDetector) Detect(ctx context.Context, frame domain.Frame) ([]domain.Region, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(frame.Data))
	if err != nil {
		return nil, fmt.Errorf("build detect request: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detect request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detection service returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read detect response: %w", err)
	}

	var out struct {
		Faces []domain.Region `json:"faces"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode detect response: %w", err)
	}
	return out.Faces, nil
}

var _ ports.Detector = (*HTTPDetector)(nil)
