package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// GET /v1/dashboard
func (h *Handlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Overview())
}

// HandleChart returns the weekly chart; only the current day is measured.
// GET /v1/dashboard/chart
func (h *Handlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ChartResponse{Points: h.service.Chart()})
}

// POST /v1/stats/steps
func (h *Handlers) HandleRecordSteps(w http.ResponseWriter, r *http.Request) {
	var req StepsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "invalid JSON body")
		return
	}

	stats, err := h.service.RecordSteps(req.Delta)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
