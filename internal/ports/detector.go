package ports

import (
	"context"

	"github.com/Siddhubn/VitalLens/internal/domain"
)

// Detector is the opaque face-detection capability: given a frame it returns
// zero or more detected regions. Implementations may fail; callers decide
// whether a failure is fatal.
type Detector interface {
	Detect(ctx context.Context, frame domain.Frame) ([]domain.Region, error)
}
