package vitallens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Siddhubn/VitalLens/internal/adapters/capture"
	"github.com/Siddhubn/VitalLens/internal/adapters/detect"
	"github.com/Siddhubn/VitalLens/internal/adapters/history"
	"github.com/Siddhubn/VitalLens/internal/adapters/observability"
	"github.com/Siddhubn/VitalLens/internal/adapters/predict"
	"github.com/Siddhubn/VitalLens/internal/adapters/ui"
	"github.com/Siddhubn/VitalLens/internal/app/config"
	"github.com/Siddhubn/VitalLens/internal/app/monitor"
	"github.com/Siddhubn/VitalLens/internal/app/recorder"
	"github.com/Siddhubn/VitalLens/internal/app/session"
	"github.com/Siddhubn/VitalLens/internal/ports"
)

// Option customizes the dependencies used by Runtime.
type Option func(*overrides)

type overrides struct {
	detector      ports.Detector
	source        ports.FrameSource
	capture       ports.Capture
	predictor     ports.Predictor
	display       ports.Display
	observability ports.Observability
	store         ports.MeasurementStore
}

// WithDetector injects a custom detection capability (local model, gRPC
// client, test fake).
func WithDetector(det Detector) Option {
	return func(o *overrides) { o.detector = det }
}

// WithFrameSource injects a custom live video source.
func WithFrameSource(src FrameSource) Option {
	return func(o *overrides) { o.source = src }
}

// WithCapture injects a custom capture capability.
func WithCapture(cap Capture) Option {
	return func(o *overrides) { o.capture = cap }
}

// WithPredictor injects a custom prediction client.
func WithPredictor(p Predictor) Option {
	return func(o *overrides) { o.predictor = p }
}

// WithDisplay replaces the default websocket hub display.
func WithDisplay(d Display) Option {
	return func(o *overrides) { o.display = d }
}

// WithObservability plugs in a custom metrics/log backend.
func WithObservability(obs Observability) Option {
	return func(o *overrides) { o.observability = obs }
}

// WithStore injects a custom measurement store.
func WithStore(s MeasurementStore) Option {
	return func(o *overrides) { o.store = s }
}

// Runtime wires the face monitor, recorder, session controller, and
// submitter together and exposes lifecycle hooks plus a small control server
// for embedding VitalLens inside any Go service.
type Runtime struct {
	cfg        *config.Config
	obs        ports.Observability
	display    ports.Display
	controller *session.Controller
	hub        *ui.Hub
	db         *sql.DB
	ctrlSrv    *http.Server
	metricsSrv *http.Server
}

// NewRuntime bootstraps the default adapters (HTTP detector, file capture,
// HTTP predictor, websocket hub display, Prometheus observability, optional
// Postgres history). Option values override any dependency.
func NewRuntime(cfg *config.Config, opts ...Option) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var o overrides
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	obs := o.observability
	if obs == nil {
		obs = observability.NewPromObs()
	}

	var hub *ui.Hub
	display := o.display
	if display == nil {
		hub = ui.NewHub()
		display = ui.Tee(hub, ui.NewLogDisplay())
	}

	detector := o.detector
	if detector == nil {
		detector = detect.NewHTTPDetector(detect.Config{
			Endpoint: cfg.Detection.Endpoint,
			Timeout:  cfg.Detection.Timeout,
		})
	}

	source := o.source
	capt := o.capture
	if source == nil || capt == nil {
		fc, err := capture.NewFileCapture(capture.Config{
			Path:          cfg.Capture.Source,
			ChunkInterval: cfg.Capture.ChunkInterval,
			ChunkSize:     cfg.Capture.ChunkSize,
			WarmupFrames:  cfg.Capture.WarmupFrames,
		})
		if err != nil {
			return nil, err
		}
		if source == nil {
			source = fc
		}
		if capt == nil {
			capt = fc
		}
	}

	predictor := o.predictor
	if predictor == nil {
		predictor = predict.NewHTTPPredictor(predict.Config{
			Endpoint: cfg.Predict.Endpoint,
			Timeout:  cfg.Predict.Timeout,
		})
	}

	var db *sql.DB
	store := o.store
	if store == nil && cfg.History.ConnString != "" {
		var err error
		db, err = sql.Open("postgres", cfg.History.ConnString)
		if err != nil {
			return nil, err
		}
		store = history.NewPostgresStore(db, cfg.History.Table)
	}

	rec := recorder.New(capt, cfg.Capture.MIMEType)
	mon := monitor.New(detector, source, display, obs, cfg.Detection.Interval)
	ctl := session.New(
		session.Config{
			Duration:      cfg.Measurement.Duration,
			CountdownTick: cfg.Measurement.CountdownTick,
			RejectNotice:  cfg.Measurement.RejectNotice,
		},
		session.Deps{
			Monitor:   mon,
			Recorder:  rec,
			Source:    source,
			Predictor: predictor,
			Display:   display,
			Store:     store,
			Obs:       obs,
		},
	)

	return &Runtime{
		cfg:        cfg,
		obs:        obs,
		display:    display,
		controller: ctl,
		hub:        hub,
		db:         db,
	}, nil
}

// Controller exposes the session state machine for direct embedding.
func (r *Runtime) Controller() *session.Controller {
	return r.controller
}

// Start arms the controller and launches the control and metrics servers.
// It returns immediately; call Run to block on a context instead.
func (r *Runtime) Start() error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}

	r.controller.Start()

	r.ctrlSrv = &http.Server{
		Addr:         r.cfg.Server.Addr,
		Handler:      r.controlMux(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Printf("control server listening on %s", r.cfg.Server.Addr)
		if err := r.ctrlSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("control server: %v", err)
		}
	}()

	if prom, ok := r.obs.(*observability.PromObs); ok {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(prom.Registry(), promhttp.HandlerOpts{}))
		r.metricsSrv = &http.Server{Addr: r.cfg.Metrics.Addr, Handler: mux}
		go func() {
			log.Printf("metrics server listening on %s", r.cfg.Metrics.Addr)
			if err := r.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("metrics server: %v", err)
			}
		}()
	}

	return nil
}

// Run starts the runtime and blocks until the provided context is cancelled,
// then attempts a graceful shutdown.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.Shutdown(shutdownCtx)
}

// Shutdown stops the servers, the face monitor, and the history connection.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.ctrlSrv != nil {
		if err := r.ctrlSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}
	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	r.controller.Close()

	if r.hub != nil {
		r.hub.Close()
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
