package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/Siddhubn/VitalLens/internal/domain"
	"github.com/Siddhubn/VitalLens/internal/ports"
)

const (
	formField    = "video_blob"
	formFilename = "recording.webm"

	defaultTimeout   = 60 * time.Second
	maxResponseBytes = 1 << 20
)

// Config captures the details needed to reach the prediction service.
type Config struct {
	// Endpoint is the full URL of the predict route.
	Endpoint string
	// Timeout bounds the whole request. Timeouts surface as NetworkError.
	Timeout time.Duration
}

// HTTPPredictor submits one recording per call as a multipart upload. No
// retries; every failure is reported once as a typed error.
type HTTPPredictor struct {
	endpoint string
	client   *http.Client
}

func NewHTTPPredictor(cfg Config) *HTTPPredictor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPPredictor{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *HTTPPredictor) Predict(ctx context.Context, rec *domain.Recording) (*domain.MetricsResult, error) {
	if rec == nil {
		return nil, fmt.Errorf("predict: nil recording")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(formField, formFilename)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := fw.Write(rec.Data); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(raw, &errBody); err == nil && errBody.Error != "" {
			return nil, &domain.ServerError{Message: errBody.Error}
		}
		return nil, &domain.ServerError{
			Message: fmt.Sprintf("prediction service returned status %d", resp.StatusCode),
		}
	}

	var res domain.MetricsResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, domain.ErrMalformedResponse
	}
	if res.HeartRate == 0 && res.SystolicBP == 0 && res.DiastolicBP == 0 {
		return nil, domain.ErrMalformedResponse
	}
	return &res, nil
}

var _ ports.Predictor = (*HTTPPredictor)(nil)
