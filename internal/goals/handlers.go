package goals

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	goals Goals
}

func NewHandler(g Goals) *Handler {
	return &Handler{goals: g}
}

// HandleGet returns the daily targets.
// GET /v1/goals
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(h.goals)
}
