package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Siddhubn/VitalLens/internal/domain"
)

// Measurement is a completed reading as persisted to history.
type Measurement struct {
	ID      uuid.UUID
	TakenAt time.Time
	Result  domain.MetricsResult
	Stress  domain.StressLevel
}

// MeasurementStore persists completed measurements. Persistence failures
// never fail the session that produced the measurement.
type MeasurementStore interface {
	Save(ctx context.Context, m *Measurement) error
	Name() string
}
