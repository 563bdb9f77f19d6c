package ui

import (
	"log"

	"github.com/Siddhubn/VitalLens/internal/domain"
	"github.com/Siddhubn/VitalLens/internal/ports"
)

// LogDisplay mirrors display updates to the process log so headless runs are
// observable without a websocket client.
type LogDisplay struct{}

func NewLogDisplay() *LogDisplay { return &LogDisplay{} }

func (d *LogDisplay) SetStatus(msg string) {
	log.Printf("status: %s", msg)
}

func (d *LogDisplay) SetFaceIndicator(signal domain.DetectionSignal) {
	log.Printf("face: %s", signal)
}

func (d *LogDisplay) SetTriggerEnabled(enabled bool) {
	log.Printf("trigger enabled: %t", enabled)
}

func (d *LogDisplay) ShowResult(view ports.ResultView) {
	log.Printf("result: %s, %s, stress %s", view.HeartRate, view.BloodPressure, view.Stress)
}

func (d *LogDisplay) ClearResult() {}

var _ ports.Display = (*LogDisplay)(nil)

// Tee fans display updates out to several displays.
func Tee(displays ...ports.Display) ports.Display {
	return teeDisplay(displays)
}

type teeDisplay []ports.Display

func (t teeDisplay) SetStatus(msg string) {
	for _, d := range t {
		d.SetStatus(msg)
	}
}

func (t teeDisplay) SetFaceIndicator(signal domain.DetectionSignal) {
	for _, d := range t {
		d.SetFaceIndicator(signal)
	}
}

func (t teeDisplay) SetTriggerEnabled(enabled bool) {
	for _, d := range t {
		d.SetTriggerEnabled(enabled)
	}
}

func (t teeDisplay) ShowResult(view ports.ResultView) {
	for _, d := range t {
		d.ShowResult(view)
	}
}

func (t teeDisplay) ClearResult() {
	for _, d := range t {
		d.ClearResult()
	}
}
