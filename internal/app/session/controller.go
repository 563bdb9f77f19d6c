package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Siddhubn/VitalLens/internal/app/monitor"
	"github.com/Siddhubn/VitalLens/internal/app/recorder"
	"github.com/Siddhubn/VitalLens/internal/app/render"
	"github.com/Siddhubn/VitalLens/internal/domain"
	"github.com/Siddhubn/VitalLens/internal/ports"
)

const (
	defaultDuration     = 30 * time.Second
	defaultTick         = time.Second
	defaultRejectNotice = 3 * time.Second
)

// Status messages owned by the state machine.
const (
	msgReady      = "Position your face in the frame and press Start."
	msgNoFace     = "No face detected. Please position your face in the frame."
	msgProcessing = "Processing your video. Please wait..."
	msgComplete   = "Measurement complete."
)

var errNoPayload = errors.New("vitallens: recording produced no payload")

// Config holds the session timings.
type Config struct {
	// Duration is the fixed recording length. The authoritative stop timer
	// fires after exactly this much time.
	Duration time.Duration
	// CountdownTick drives the cosmetic remaining-seconds status updates.
	CountdownTick time.Duration
	// RejectNotice bounds how long a gate-rejection message stays on the
	// status line before it reverts to the ready prompt.
	RejectNotice time.Duration
}

func (c *Config) applyDefaults() {
	if c.Duration <= 0 {
		c.Duration = defaultDuration
	}
	if c.CountdownTick <= 0 {
		c.CountdownTick = defaultTick
	}
	if c.RejectNotice <= 0 {
		c.RejectNotice = defaultRejectNotice
	}
}

// Deps are the collaborators a controller drives.
type Deps struct {
	Monitor   *monitor.FaceMonitor
	Recorder  *recorder.Recorder
	Source    ports.FrameSource
	Predictor ports.Predictor
	Display   ports.Display
	Store     ports.MeasurementStore
	Obs       ports.Observability
}

// Controller is the measurement session state machine. It gates the start of
// a measurement on the face monitor's signal, drives the countdown, stops the
// recorder after the fixed duration, submits the payload, and renders the
// outcome. Face polling is suspended for the whole accepted span and resumed
// unconditionally afterwards; no failure leaves the trigger disabled.
type Controller struct {
	cfg      Config
	monitor  *monitor.FaceMonitor
	recorder *recorder.Recorder
	source   ports.FrameSource
	predict  ports.Predictor
	display  ports.Display
	store    ports.MeasurementStore
	obs      ports.Observability
	renderer *render.Renderer

	mu          sync.Mutex
	state       domain.SessionState
	lastResult  *domain.MetricsResult
	rejectTimer *time.Timer
	done        chan struct{}
}

func New(cfg Config, deps Deps) *Controller {
	cfg.applyDefaults()
	return &Controller{
		cfg:      cfg,
		monitor:  deps.Monitor,
		recorder: deps.Recorder,
		source:   deps.Source,
		predict:  deps.Predictor,
		display:  deps.Display,
		store:    deps.Store,
		obs:      deps.Obs,
		renderer: render.New(deps.Display),
		state:    domain.StateIdle,
	}
}

// Start arms the controller: ready prompt, enabled trigger, face polling.
func (c *Controller) Start() {
	c.display.SetStatus(msgReady)
	c.display.SetTriggerEnabled(true)
	c.monitor.Start()
}

// Close stops face polling and any pending notice timer. An in-flight session
// is left to run to completion.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.rejectTimer != nil {
		c.rejectTimer.Stop()
		c.rejectTimer = nil
	}
	c.mu.Unlock()
	c.monitor.Stop()
}

// State returns the current session state.
func (c *Controller) State() domain.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastResult returns the most recent successful metrics result, if any.
func (c *Controller) LastResult() *domain.MetricsResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastResult
}

// Done returns the completion channel of the in-flight session, or nil when
// no session is running.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == nil {
		return nil
	}
	return c.done
}

// Begin handles one "begin measurement" request. The face gate is evaluated
// at request time only. Begin returns once the request is accepted or
// rejected; an accepted session then runs asynchronously until the outcome is
// displayed.
func (c *Controller) Begin(ctx context.Context) error {
	c.mu.Lock()
	if c.state != domain.StateIdle {
		c.mu.Unlock()
		return domain.ErrMeasurementInProgress
	}
	c.state = domain.StateAwaitingFaceGate
	c.mu.Unlock()

	if c.monitor.CurrentSignal() != domain.SignalFacePresent {
		c.reject()
		return domain.ErrFaceNotDetected
	}

	// Accepted: polling is suspended and the trigger disabled for the whole
	// span up to result/error display.
	c.monitor.Stop()
	c.display.ClearResult()
	c.display.SetTriggerEnabled(false)

	if err := c.recorder.Start(ctx, c.source); err != nil {
		c.finishWithError(err)
		return err
	}

	c.setState(domain.StateCountdown)
	c.obs.IncCounter("vitallens_sessions_started_total", 1)

	done := make(chan struct{})
	c.mu.Lock()
	c.done = done
	c.mu.Unlock()

	go c.runSession(done)
	return nil
}

// reject bounces an unaccepted request: notice on the status line for the
// configured period, then back to the ready prompt. The system returns to
// Idle immediately.
func (c *Controller) reject() {
	c.display.SetStatus(msgNoFace)
	c.obs.IncCounter("vitallens_sessions_rejected_total", 1)
	c.setState(domain.StateIdle)

	c.mu.Lock()
	if c.rejectTimer != nil {
		c.rejectTimer.Stop()
	}
	c.rejectTimer = time.AfterFunc(c.cfg.RejectNotice, func() {
		c.display.SetStatus(msgReady)
	})
	c.mu.Unlock()
}

// runSession drives one accepted session from countdown to outcome. It uses
// a background context because the session outlives the request that
// triggered it.
func (c *Controller) runSession(done chan struct{}) {
	defer func() {
		c.mu.Lock()
		c.done = nil
		c.mu.Unlock()
		close(done)
	}()

	ctx := context.Background()

	remaining := int(c.cfg.Duration / c.cfg.CountdownTick)
	c.display.SetStatus(countdownStatus(remaining))

	// Two timers, deliberately redundant: the ticker only refreshes the
	// status line, the stop timer is what actually ends the recording.
	tick := time.NewTicker(c.cfg.CountdownTick)
	stop := time.NewTimer(c.cfg.Duration)
	defer tick.Stop()
	defer stop.Stop()

countdown:
	for {
		select {
		case <-tick.C:
			if remaining > 0 {
				remaining--
			}
			if remaining <= 0 {
				// Cosmetic timer exhausted; the recording keeps running
				// until the authoritative stop timer fires.
				tick.Stop()
				c.setState(domain.StateRecording)
				continue
			}
			c.display.SetStatus(countdownStatus(remaining))
		case <-stop.C:
			break countdown
		}
	}

	payload, err := c.recorder.Stop(ctx)
	if err != nil {
		c.finishWithError(err)
		return
	}
	if payload == nil {
		c.finishWithError(errNoPayload)
		return
	}

	c.display.SetStatus(msgProcessing)
	c.setState(domain.StateSubmitting)

	start := time.Now()
	res, err := c.predict.Predict(ctx, payload)
	c.obs.ObserveLatency("vitallens_predict_latency_seconds", time.Since(start).Seconds())
	if err != nil {
		c.finishWithError(err)
		return
	}

	c.setState(domain.StateShowingResult)
	c.renderer.Render(res)

	c.mu.Lock()
	c.lastResult = res
	c.mu.Unlock()

	if c.store != nil {
		m := &ports.Measurement{
			ID:      payload.ID,
			TakenAt: time.Now(),
			Result:  *res,
			Stress:  res.Stress(),
		}
		if err := c.store.Save(ctx, m); err != nil {
			c.obs.LogError("measurement_save_failed", err)
		}
	}

	c.obs.IncCounter("vitallens_sessions_completed_total", 1)
	c.display.SetStatus(msgComplete)
	c.restoreIdle()
}

// finishWithError surfaces the failure once and restores a usable idle state.
func (c *Controller) finishWithError(err error) {
	c.setState(domain.StateShowingError)
	c.display.SetStatus(err.Error())
	c.obs.LogError("session_failed", err)
	c.obs.IncCounter("vitallens_sessions_failed_total", 1)
	c.restoreIdle()
}

// restoreIdle re-enables the trigger and resumes face polling. Runs on every
// outcome so no error can leave the system stuck disabled.
func (c *Controller) restoreIdle() {
	c.display.SetTriggerEnabled(true)
	c.monitor.Start()
	c.setState(domain.StateIdle)
}

func (c *Controller) setState(s domain.SessionState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.obs.SetGauge("vitallens_session_state", float64(s))
}

func countdownStatus(remaining int) string {
	return fmt.Sprintf("Recording... %ds remaining", remaining)
}
