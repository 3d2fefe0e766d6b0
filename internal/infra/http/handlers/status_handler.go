package handlers

import (
	"context"
	"net/http"

	"github.com/alexhuynh/fit-outreach/internal/usecase"
)

// StatusReporter is the orchestrator surface the status endpoint reads.
type StatusReporter interface {
	GetSystemStatus(ctx context.Context) (usecase.SystemStatus, error)
}

type StatusHandler struct {
	reporter StatusReporter
}

func NewStatusHandler(reporter StatusReporter) *StatusHandler {
	return &StatusHandler{reporter: reporter}
}

// Handle serves the aggregate outreach view: lead counts per status, rate
// window position per channel and pending follow-ups.
func (h *StatusHandler) Handle(w http.ResponseWriter, r *http.Request) {
	status, err := h.reporter.GetSystemStatus(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to read system status",
		})
		return
	}

	writeJSON(w, http.StatusOK, status)
}
