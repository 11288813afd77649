package meals

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fdg312/nutrilog/internal/tasks"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// GET /v1/meals
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ListResponse{Meals: h.service.List()})
}

// HandleCreate records a manual entry.
// POST /v1/meals
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req ManualMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "invalid JSON body")
		return
	}

	meal, err := h.service.SubmitManual(r.Context(), req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

// HandleEstimate starts an oracle estimate and returns the pending task.
// POST /v1/meals/estimate
func (h *Handlers) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "invalid JSON body")
		return
	}

	task, err := h.service.StartEstimate(r.Context(), req.Description)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, task)
}

// DELETE /v1/meals/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.service.Remove(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /v1/meals
func (h *Handlers) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.service.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// GET /v1/meals/summary
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Summary())
}

func (h *Handlers) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, tasks.ErrBusy):
		writeError(w, http.StatusConflict, "estimate_in_progress", "an estimate is already running")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
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
