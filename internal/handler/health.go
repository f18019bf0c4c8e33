package handler

import (
	"net/http"
	"runtime"
	"time"

	"wastenot-api/pkg/response"
)

const serviceVersion = "1.0.0"

// Handler serves the unauthenticated health surface.
type Handler struct {
	startedAt time.Time
}

// New creates a new handler.
func New() *Handler {
	return &Handler{startedAt: time.Now()}
}

// Health handles GET /api/v1/health: a liveness probe, always healthy while
// the process answers.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]interface{}{
		"status":    "healthy",
		"version":   serviceVersion,
		"timestamp": time.Now().UTC(),
	})
}

// Ready handles GET /api/v1/ready. Stores and caches degrade at startup
// rather than failing, so readiness follows liveness here.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]interface{}{
		"ready":     true,
		"timestamp": time.Now().UTC(),
	})
}

// Status handles GET /api/status, the endpoint external uptime monitors
// poll. Cheap on purpose: process stats only, no store round trip.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	response.OK(w, map[string]interface{}{
		"service":        "wastenot-api",
		"status":         "ok",
		"version":        serviceVersion,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"ping_ms":        time.Since(start).Milliseconds(),
		"memory_mb":      float64(int(float64(mem.Alloc)/1024/1024*100)) / 100,
	})
}
