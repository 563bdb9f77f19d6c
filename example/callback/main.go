package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/Siddhubn/VitalLens"
)

// printDisplay renders every UI update to stdout instead of the websocket hub.
type printDisplay struct{}

func (printDisplay) SetStatus(msg string) {
	fmt.Printf("status: %s\n", msg)
}

func (printDisplay) SetFaceIndicator(signal vitallens.DetectionSignal) {
	fmt.Printf("face: %s\n", signal)
}

func (printDisplay) SetTriggerEnabled(enabled bool) {
	fmt.Printf("trigger enabled: %v\n", enabled)
}

func (printDisplay) ShowResult(view vitallens.ResultView) {
	fmt.Printf("result: %s, %s, stress %s\n", view.HeartRate, view.BloodPressure, view.Stress)
}

func (printDisplay) ClearResult() {
	fmt.Println("result cleared")
}

func main() {
	cfg, err := vitallens.LoadConfig("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	rt, err := vitallens.NewRuntime(cfg, vitallens.WithDisplay(printDisplay{}))
	if err != nil {
		log.Fatalf("build runtime: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("runtime exited: %v", err)
	}
}
