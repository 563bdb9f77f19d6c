package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/Siddhubn/VitalLens/internal/domain"
	"github.com/Siddhubn/VitalLens/internal/ports"
)

const defaultInterval = 500 * time.Millisecond

// FaceMonitor polls the detection capability against the live video source on
// a fixed interval and maintains the current face-presence signal. Detection
// failures are logged and never change the signal.
type FaceMonitor struct {
	detector ports.Detector
	source   ports.FrameSource
	display  ports.Display
	obs      ports.Observability
	interval time.Duration

	mu     sync.Mutex
	signal domain.DetectionSignal
	cancel context.CancelFunc
	done   chan struct{}
}

func New(det ports.Detector, src ports.FrameSource, display ports.Display, obs ports.Observability, interval time.Duration) *FaceMonitor {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &FaceMonitor{
		detector: det,
		source:   src,
		display:  display,
		obs:      obs,
		interval: interval,
	}
}

// Start begins polling. Calling Start while already polling is a no-op.
func (m *FaceMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	m.cancel = cancel
	m.done = done
	go m.run(ctx, done)
}

// Stop cancels polling and waits for the poll loop to exit. Calling Stop when
// not polling is a no-op.
func (m *FaceMonitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	done := m.done
	m.cancel = nil
	m.done = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Polling reports whether the poll loop is currently running.
func (m *FaceMonitor) Polling() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

// CurrentSignal returns the signal set by the most recent successful poll.
func (m *FaceMonitor) CurrentSignal() domain.DetectionSignal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signal
}

func (m *FaceMonitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

func (m *FaceMonitor) poll(ctx context.Context) {
	if m.detector == nil || m.source == nil || !m.source.Ready() {
		return
	}

	frame, err := m.source.Frame(ctx)
	if err != nil {
		if ctx.Err() == nil {
			m.obs.LogError("frame_read_failed", err)
		}
		return
	}

	regions, err := m.detector.Detect(ctx, frame)
	if err != nil {
		if ctx.Err() == nil {
			m.obs.LogError("face_detect_failed", err)
			m.obs.IncCounter("vitallens_detector_errors_total", 1)
		}
		return
	}

	sig := domain.SignalFaceAbsent
	if len(regions) > 0 {
		sig = domain.SignalFacePresent
	}
	m.setSignal(sig)
}

func (m *FaceMonitor) setSignal(sig domain.DetectionSignal) {
	m.mu.Lock()
	m.signal = sig
	m.mu.Unlock()

	if m.display != nil {
		m.display.SetFaceIndicator(sig)
	}
	present := 0.0
	if sig == domain.SignalFacePresent {
		present = 1
	}
	m.obs.SetGauge("vitallens_face_present", present)
}
