package observability

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Siddhubn/VitalLens/internal/ports"
)

// PromObs exposes session metrics on its own registry so multiple instances
// can coexist (tests, embedded runtimes).
type PromObs struct {
	registry *prometheus.Registry
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func NewPromObs() *PromObs {
	started := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vitallens_sessions_started_total",
		Help: "Measurement sessions accepted past the face gate.",
	})
	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vitallens_sessions_completed_total",
		Help: "Sessions that produced a rendered metrics result.",
	})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vitallens_sessions_rejected_total",
		Help: "Measurement requests rejected at the face gate.",
	})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vitallens_sessions_failed_total",
		Help: "Sessions aborted by capture or submission errors.",
	})
	detectorErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vitallens_detector_errors_total",
		Help: "Detection calls that errored and were absorbed.",
	})
	facePresent := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vitallens_face_present",
		Help: "1 when the latest successful poll saw a face, 0 otherwise.",
	})
	sessionState := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vitallens_session_state",
		Help: "Current session state as its enum value.",
	})
	predictLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "vitallens_predict_latency_seconds",
		Help:    "Round-trip latency of prediction submissions.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(started, completed, rejected, failed, detectorErrors, facePresent, sessionState, predictLatency)

	return &PromObs{
		registry: reg,
		counters: map[string]prometheus.Counter{
			"vitallens_sessions_started_total":   started,
			"vitallens_sessions_completed_total": completed,
			"vitallens_sessions_rejected_total":  rejected,
			"vitallens_sessions_failed_total":    failed,
			"vitallens_detector_errors_total":    detectorErrors,
		},
		gauges: map[string]prometheus.Gauge{
			"vitallens_face_present":  facePresent,
			"vitallens_session_state": sessionState,
		},
		histos: map[string]prometheus.Observer{
			"vitallens_predict_latency_seconds": predictLatency,
		},
	}
}

// Registry exposes the backing registry for serving /metrics.
func (p *PromObs) Registry() *prometheus.Registry { return p.registry }

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("ERROR: %s: %v", msg, err)
	}
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("CRITICAL: %s: %v", msg, err)
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

var _ ports.Observability = (*PromObs)(nil)
