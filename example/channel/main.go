package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Siddhubn/VitalLens"
)

// channelStore forwards completed measurements over a channel so a worker can
// ship them wherever it likes.
type channelStore struct {
	out chan *vitallens.Measurement
}

func (s *channelStore) Save(ctx context.Context, m *vitallens.Measurement) error {
	select {
	case s.out <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *channelStore) Name() string { return "channel" }

func main() {
	cfg, err := vitallens.LoadConfig("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store := &channelStore{out: make(chan *vitallens.Measurement, 16)}
	go historyWorker(store.out)

	rt, err := vitallens.NewRuntime(cfg, vitallens.WithStore(store))
	if err != nil {
		log.Fatalf("build runtime: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("runtime exited: %v", err)
	}
}

func historyWorker(measurements <-chan *vitallens.Measurement) {
	for m := range measurements {
		fmt.Printf("[history] %s hr=%.0f bp=%.0f/%.0f stress=%s at %s\n",
			m.ID,
			m.Result.HeartRate,
			m.Result.SystolicBP,
			m.Result.DiastolicBP,
			m.Stress,
			m.TakenAt.Format(time.RFC3339),
		)
	}
}
