package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

type Handlers struct {
	generator *Generator
}

func NewHandlers(generator *Generator) *Handlers {
	return &Handlers{generator: generator}
}

// HandleWeekly handles GET /v1/reports/weekly?format=pdf|csv
func (h *Handlers) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = FormatPDF
	}

	data, contentType, err := h.generator.Generate(format)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			writeError(w, http.StatusBadRequest, "invalid_format", "format must be pdf or csv")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	filename := fmt.Sprintf("weekly_report_%s.%s", h.generator.now().Format("2006-01-02"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
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
