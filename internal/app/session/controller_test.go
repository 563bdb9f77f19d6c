package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Siddhubn/VitalLens/internal/app/monitor"
	"github.com/Siddhubn/VitalLens/internal/app/recorder"
	"github.com/Siddhubn/VitalLens/internal/domain"
	"github.com/Siddhubn/VitalLens/internal/ports"
)

type memDisplay struct {
	mu       sync.Mutex
	statuses []string
	trigger  []bool
	views    []ports.ResultView
	cleared  int
}

func (d *memDisplay) SetStatus(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statuses = append(d.statuses, msg)
}

func (d *memDisplay) SetFaceIndicator(domain.DetectionSignal) {}

func (d *memDisplay) SetTriggerEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.trigger = append(d.trigger, enabled)
}

func (d *memDisplay) ShowResult(view ports.ResultView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.views = append(d.views, view)
}

func (d *memDisplay) ClearResult() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cleared++
}

func (d *memDisplay) lastStatus() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.statuses) == 0 {
		return ""
	}
	return d.statuses[len(d.statuses)-1]
}

func (d *memDisplay) sawStatus(substr string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.statuses {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

func (d *memDisplay) triggerEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.trigger) == 0 {
		return false
	}
	return d.trigger[len(d.trigger)-1]
}

func (d *memDisplay) results() []ports.ResultView {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ports.ResultView, len(d.views))
	copy(out, d.views)
	return out
}

type presentDetector struct{}

func (presentDetector) Detect(ctx context.Context, frame domain.Frame) ([]domain.Region, error) {
	return []domain.Region{{W: 10, H: 10}}, nil
}

type readySource struct{}

func (readySource) Ready() bool { return true }
func (readySource) Frame(ctx context.Context) (domain.Frame, error) {
	return domain.Frame{Data: []byte("frame")}, nil
}

type stubCapture struct {
	mu       sync.Mutex
	startErr error
	starts   int
}

func (c *stubCapture) StartRecording(ctx context.Context, src ports.FrameSource, onChunk ports.ChunkFunc) (ports.RecordingHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts++
	if c.startErr != nil {
		return nil, c.startErr
	}
	return &stubHandle{onChunk: onChunk}, nil
}

func (c *stubCapture) startCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starts
}

type stubHandle struct {
	onChunk ports.ChunkFunc
}

// Stop delivers the recording's bytes right before confirming, mimicking a
// capture capability that flushes on stop.
func (h *stubHandle) Stop(ctx context.Context) error {
	h.onChunk([]byte("payload"))
	return nil
}

type stubPredictor struct {
	mu     sync.Mutex
	result *domain.MetricsResult
	err    error
	calls  int
	lastIn *domain.Recording
}

func (p *stubPredictor) Predict(ctx context.Context, rec *domain.Recording) (*domain.MetricsResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.lastIn = rec
	return p.result, p.err
}

func (p *stubPredictor) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type memStore struct {
	mu    sync.Mutex
	saved []*ports.Measurement
}

func (s *memStore) Save(ctx context.Context, m *ports.Measurement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, m)
	return nil
}

func (s *memStore) Name() string { return "mem" }

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

type nopObs struct{}

func (nopObs) LogInfo(string, ...ports.Field)            {}
func (nopObs) LogError(string, error, ...ports.Field)    {}
func (nopObs) LogCritical(string, error, ...ports.Field) {}
func (nopObs) IncCounter(string, float64)                {}
func (nopObs) ObserveLatency(string, float64)            {}
func (nopObs) SetGauge(string, float64)                  {}

type fixture struct {
	ctl     *Controller
	mon     *monitor.FaceMonitor
	display *memDisplay
	capture *stubCapture
	pred    *stubPredictor
	store   *memStore
}

func newFixture(cfg Config, det ports.Detector, capt *stubCapture, pred *stubPredictor) *fixture {
	display := &memDisplay{}
	store := &memStore{}
	src := readySource{}
	mon := monitor.New(det, src, display, nopObs{}, 5*time.Millisecond)
	rec := recorder.New(capt, "video/webm")

	ctl := New(cfg, Deps{
		Monitor:   mon,
		Recorder:  rec,
		Source:    src,
		Predictor: pred,
		Display:   display,
		Store:     store,
		Obs:       nopObs{},
	})

	return &fixture{ctl: ctl, mon: mon, display: display, capture: capt, pred: pred, store: store}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func shortConfig() Config {
	return Config{
		Duration:      60 * time.Millisecond,
		CountdownTick: 20 * time.Millisecond,
		RejectNotice:  30 * time.Millisecond,
	}
}

func TestBeginRejectedWithoutFace(t *testing.T) {
	f := newFixture(shortConfig(), presentDetector{}, &stubCapture{}, &stubPredictor{})
	defer f.ctl.Close()

	// Monitor never started: signal is unknown, so the gate must reject.
	err := f.ctl.Begin(context.Background())
	if !errors.Is(err, domain.ErrFaceNotDetected) {
		t.Fatalf("expected ErrFaceNotDetected, got %v", err)
	}

	if f.ctl.State() != domain.StateIdle {
		t.Fatalf("expected idle after rejection, got %s", f.ctl.State())
	}
	if got := f.display.lastStatus(); got != msgNoFace {
		t.Fatalf("expected rejection notice, got %q", got)
	}

	// The notice reverts to the ready prompt after the bounded period.
	waitFor(t, 2*time.Second, func() bool {
		return f.display.lastStatus() == msgReady
	})

	if f.capture.startCount() != 0 {
		t.Fatalf("rejected request must not start a recording")
	}
	if f.pred.callCount() != 0 {
		t.Fatalf("rejected request must not submit")
	}
}

func TestAcceptedSessionHappyPath(t *testing.T) {
	pred := &stubPredictor{result: &domain.MetricsResult{HeartRate: 95, SystolicBP: 130, DiastolicBP: 85}}
	capt := &stubCapture{}
	f := newFixture(shortConfig(), presentDetector{}, capt, pred)
	defer f.ctl.Close()

	f.ctl.Start()
	waitFor(t, 2*time.Second, func() bool {
		return f.mon.CurrentSignal() == domain.SignalFacePresent
	})

	if err := f.ctl.Begin(context.Background()); err != nil {
		t.Fatalf("begin: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		return f.display.lastStatus() == msgComplete
	})

	if capt.startCount() != 1 {
		t.Fatalf("expected exactly one recording, got %d", capt.startCount())
	}
	if pred.callCount() != 1 {
		t.Fatalf("expected exactly one submission, got %d", pred.callCount())
	}
	if pred.lastIn == nil || string(pred.lastIn.Data) != "payload" {
		t.Fatalf("expected assembled payload to reach the predictor, got %+v", pred.lastIn)
	}

	views := f.display.results()
	if len(views) != 1 {
		t.Fatalf("expected one rendered result, got %d", len(views))
	}
	if views[0].HeartRate != "95 bpm" || views[0].BloodPressure != "130/85 mmHg" || views[0].Stress != "Moderate" {
		t.Fatalf("unexpected rendered view %+v", views[0])
	}

	if !f.display.sawStatus("remaining") {
		t.Fatalf("expected countdown status updates")
	}
	if !f.display.sawStatus("Processing") {
		t.Fatalf("expected processing status")
	}

	if !f.display.triggerEnabled() {
		t.Fatalf("trigger must be re-enabled after the session")
	}
	waitFor(t, 2*time.Second, func() bool { return f.mon.Polling() })
	if f.ctl.State() != domain.StateIdle {
		t.Fatalf("expected idle after completion, got %s", f.ctl.State())
	}
	if f.store.count() != 1 {
		t.Fatalf("expected measurement persisted once, got %d", f.store.count())
	}
}

func TestBeginWhileBusy(t *testing.T) {
	pred := &stubPredictor{result: &domain.MetricsResult{HeartRate: 70, SystolicBP: 110, DiastolicBP: 70}}
	cfg := Config{
		Duration:      200 * time.Millisecond,
		CountdownTick: 50 * time.Millisecond,
		RejectNotice:  30 * time.Millisecond,
	}
	f := newFixture(cfg, presentDetector{}, &stubCapture{}, pred)
	defer f.ctl.Close()

	f.ctl.Start()
	waitFor(t, 2*time.Second, func() bool {
		return f.mon.CurrentSignal() == domain.SignalFacePresent
	})

	if err := f.ctl.Begin(context.Background()); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := f.ctl.Begin(context.Background()); !errors.Is(err, domain.ErrMeasurementInProgress) {
		t.Fatalf("expected ErrMeasurementInProgress, got %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		return f.display.lastStatus() == msgComplete
	})
	if pred.callCount() != 1 {
		t.Fatalf("overlapping request must not cause a second submission, got %d", pred.callCount())
	}
}

func TestServerErrorRestoresIdle(t *testing.T) {
	pred := &stubPredictor{err: &domain.ServerError{Message: "bad video"}}
	f := newFixture(shortConfig(), presentDetector{}, &stubCapture{}, pred)
	defer f.ctl.Close()

	f.ctl.Start()
	waitFor(t, 2*time.Second, func() bool {
		return f.mon.CurrentSignal() == domain.SignalFacePresent
	})

	if err := f.ctl.Begin(context.Background()); err != nil {
		t.Fatalf("begin: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		return f.display.sawStatus("bad video")
	})

	waitFor(t, 2*time.Second, func() bool { return f.ctl.State() == domain.StateIdle })
	if !f.display.triggerEnabled() {
		t.Fatalf("trigger must be re-enabled after an error")
	}
	if !f.mon.Polling() {
		t.Fatalf("polling must resume after an error")
	}
	if len(f.display.results()) != 0 {
		t.Fatalf("no result should be rendered on error")
	}
	if f.store.count() != 0 {
		t.Fatalf("no measurement should be persisted on error")
	}
}

func TestCaptureFailureRestoresIdle(t *testing.T) {
	capt := &stubCapture{startErr: errors.New("no stream")}
	f := newFixture(shortConfig(), presentDetector{}, capt, &stubPredictor{})
	defer f.ctl.Close()

	f.ctl.Start()
	waitFor(t, 2*time.Second, func() bool {
		return f.mon.CurrentSignal() == domain.SignalFacePresent
	})

	err := f.ctl.Begin(context.Background())
	if !errors.Is(err, domain.ErrCaptureUnavailable) {
		t.Fatalf("expected ErrCaptureUnavailable, got %v", err)
	}

	if f.ctl.State() != domain.StateIdle {
		t.Fatalf("expected idle after capture failure, got %s", f.ctl.State())
	}
	if !f.display.triggerEnabled() {
		t.Fatalf("trigger must be re-enabled after capture failure")
	}
	if !f.mon.Polling() {
		t.Fatalf("polling must resume after capture failure")
	}
}
