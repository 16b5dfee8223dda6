package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/rwilkes/optrack/src/eventconsumers"
	"github.com/rwilkes/optrack/src/portfoliodb"
)

// StatusHandler serves a read-only view of the tracker: liveness, the
// currently held positions and the delta audit trail.
type StatusHandler struct {
	worker *eventconsumers.PortfolioMonitoringWorker
	db     portfoliodb.PortfolioDatabase
}

func SetupStatusRoutes(router *mux.Router, worker *eventconsumers.PortfolioMonitoringWorker, db portfoliodb.PortfolioDatabase) {
	h := &StatusHandler{
		worker: worker,
		db:     db,
	}

	router.HandleFunc("/health", h.health).Methods("GET")
	router.HandleFunc("/positions", h.positions).Methods("GET")
	router.HandleFunc("/deltas", h.deltas).Methods("GET")
}

type healthResponse struct {
	Status    string     `json:"status"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

func (h *StatusHandler) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}

	if h.worker != nil {
		_, runAt, err := h.worker.LastRun()
		if !runAt.IsZero() {
			resp.LastRunAt = &runAt
		}

		if err != nil {
			resp.Status = "degraded"
			resp.LastError = err.Error()
		}
	}

	writeJSON(w, resp)
}

func (h *StatusHandler) positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.db.GetAllPositions()
	if err != nil {
		log.Errorf("StatusHandler.positions: %v", err)
		http.Error(w, "failed to read positions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, positions)
}

func (h *StatusHandler) deltas(w http.ResponseWriter, r *http.Request) {
	deltas, err := h.db.ReadDeltas()
	if err != nil {
		log.Errorf("StatusHandler.deltas: %v", err)
		http.Error(w, "failed to read deltas", http.StatusInternalServerError)
		return
	}

	writeJSON(w, deltas)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("writeJSON: %v", err)
	}
}
