package ports

import "github.com/Siddhubn/VitalLens/internal/domain"

// ResultView is a metrics result formatted for display.
type ResultView struct {
	HeartRate     string `json:"heart_rate"`
	BloodPressure string `json:"blood_pressure"`
	Stress        string `json:"stress"`
}

// Display receives the UI-facing outputs of a session: the status line, the
// face indicator, the trigger control state, and the result fields. Exactly
// one component drives the status line at any moment; the session state
// machine decides which.
type Display interface {
	SetStatus(msg string)
	SetFaceIndicator(signal domain.DetectionSignal)
	SetTriggerEnabled(enabled bool)
	ShowResult(view ResultView)
	ClearResult()
}
