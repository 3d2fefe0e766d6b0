package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/alexhuynh/fit-outreach/internal/entity"
	"github.com/alexhuynh/fit-outreach/internal/infra/metrics"
	"github.com/alexhuynh/fit-outreach/internal/usecase"
)

// LeadHandler captures signup-form leads into the store with status New,
// where the next outreach pass picks them up.
type LeadHandler struct {
	store       usecase.LeadStore
	rateLimiter *RateLimiter
}

func NewLeadHandler(store usecase.LeadStore) *LeadHandler {
	return &LeadHandler{
		store:       store,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

type CaptureLeadRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type CaptureLeadResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, CaptureLeadResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var req CaptureLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{
			Success: false,
			Message: "Invalid JSON",
		})
		return
	}

	if errs := usecase.ValidateCaptureLead(req.Name, req.Email, req.Phone); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  msgs,
		})
		return
	}

	lead := &entity.Lead{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: entity.StatusNew,
		Notes:  req.Notes,
	}

	if err := h.store.AppendLead(ctx, lead); err != nil {
		writeJSON(w, http.StatusInternalServerError, CaptureLeadResponse{
			Success: false,
			Message: "Failed to capture lead",
		})
		return
	}

	metrics.RecordLeadCaptured()
	writeJSON(w, http.StatusCreated, CaptureLeadResponse{Success: true})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// RateLimiter throttles the public capture endpoint per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
