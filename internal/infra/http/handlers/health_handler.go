package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"
)

type HealthHandler struct {
	DB        *sql.DB
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler takes the database connection when the Postgres lead
// store is active; pass nil when the workbook store is in use.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{
		DB:        db,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	if h.DB != nil {
		if err := h.DB.Ping(); err != nil {
			deps["database"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["database"] = "healthy"
		}
	} else {
		deps["database"] = "not configured"
	}

	if os.Getenv("OUTLOOK_CLIENT_ID") != "" {
		deps["msgraph"] = "configured"
	} else {
		deps["msgraph"] = "not configured"
	}

	if os.Getenv("TWILIO_ACCOUNT_SID") != "" {
		deps["twilio"] = "configured"
	} else {
		deps["twilio"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	uptime := time.Since(h.StartTime).Round(time.Second).String()

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       uptime,
		Dependencies: deps,
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}
