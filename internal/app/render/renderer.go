package render

import (
	"fmt"

	"github.com/Siddhubn/VitalLens/internal/domain"
	"github.com/Siddhubn/VitalLens/internal/ports"
)

// Renderer maps a metrics result onto the display's result fields.
type Renderer struct {
	display ports.Display
}

func New(display ports.Display) *Renderer {
	return &Renderer{display: display}
}

func (r *Renderer) Render(res *domain.MetricsResult) ports.ResultView {
	view := View(res)
	if r.display != nil {
		r.display.ShowResult(view)
	}
	return view
}

// View formats a result for display.
func View(res *domain.MetricsResult) ports.ResultView {
	return ports.ResultView{
		HeartRate:     fmt.Sprintf("%.0f bpm", res.HeartRate),
		BloodPressure: fmt.Sprintf("%.0f/%.0f mmHg", res.SystolicBP, res.DiastolicBP),
		Stress:        res.Stress().String(),
	}
}
