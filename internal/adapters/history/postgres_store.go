package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Siddhubn/VitalLens/internal/ports"
)

// PostgresStore persists completed measurements. Inserts are idempotent via
// the measurement id.
type PostgresStore struct {
	db        *sql.DB
	tableName string
}

func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	if table == "" {
		table = "measurements"
	}
	return &PostgresStore{db: db, tableName: table}
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) Save(ctx context.Context, m *ports.Measurement) error {
	if m == nil {
		return nil
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (id, taken_at, heart_rate, systolic_bp, diastolic_bp, stress_level) VALUES ($1,$2,$3,$4,$5,$6) ON CONFLICT (id) DO NOTHING",
		s.tableName,
	)

	_, err := s.db.ExecContext(ctx, query,
		m.ID.String(),
		m.TakenAt,
		m.Result.HeartRate,
		m.Result.SystolicBP,
		m.Result.DiastolicBP,
		m.Stress.String(),
	)
	return err
}

var _ ports.MeasurementStore = (*PostgresStore)(nil)
