package ports

import (
	"context"

	"github.com/Siddhubn/VitalLens/internal/domain"
)

// Predictor submits a finalized recording to the prediction service and
// resolves to either a metrics result or a typed error
// (domain.NetworkError, domain.ServerError, domain.ErrMalformedResponse).
type Predictor interface {
	Predict(ctx context.Context, rec *domain.Recording) (*domain.MetricsResult, error)
}
