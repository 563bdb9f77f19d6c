package vitallens

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Siddhubn/VitalLens/internal/app/render"
	"github.com/Siddhubn/VitalLens/internal/domain"
)

// controlMux exposes the trigger control and status outputs over HTTP:
// POST /api/measure begins a measurement, GET /api/status reports current
// state, GET /ws streams display events, GET /report redirects to the
// prediction service's report page.
func (r *Runtime) controlMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/measure", r.handleMeasure)
	mux.HandleFunc("/api/status", r.handleStatus)
	mux.HandleFunc("/api/health", r.handleHealth)
	mux.HandleFunc("/report", r.handleReport)

	if r.hub != nil {
		mux.Handle("/ws", r.hub)
	}

	return mux
}

func (r *Runtime) handleMeasure(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]any{"error": "method not allowed"})
		return
	}

	err := r.controller.Begin(req.Context())
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{"status": "started"})
	case errors.Is(err, domain.ErrMeasurementInProgress),
		errors.Is(err, domain.ErrFaceNotDetected):
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
	default:
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
	}
}

func (r *Runtime) handleStatus(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]any{"error": "method not allowed"})
		return
	}

	resp := map[string]any{
		"state":     r.controller.State().String(),
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if res := r.controller.LastResult(); res != nil {
		resp["last_result"] = render.View(res)
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func (r *Runtime) handleHealth(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]any{"error": "method not allowed"})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "healthy",
		"state":     r.controller.State().String(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleReport is a plain redirect; report generation lives in the prediction
// service.
func (r *Runtime) handleReport(w http.ResponseWriter, req *http.Request) {
	http.Redirect(w, req, r.cfg.Predict.ReportURL, http.StatusSeeOther)
}
