package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hongminglow/vault-auth/internal/http/respond"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ready(ctx context.Context) error
}

// HealthHandler returns uptime and store reachability.
type HealthHandler struct {
	startedAt time.Time
	store     Pinger
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time, store Pinger) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, store: store}
}

// Register wires the handler into a ServeMux.
func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	uptime := time.Since(h.startedAt).Truncate(time.Second).String()
	if h.store != nil {
		if err := h.store.Ready(r.Context()); err != nil {
			respond.JSON(w, http.StatusServiceUnavailable, "store unavailable", map[string]string{
				"status": "degraded",
				"uptime": uptime,
			})
			return
		}
	}
	respond.JSON(w, http.StatusOK, "ok", map[string]string{
		"status": "ok",
		"uptime": uptime,
	})
}
