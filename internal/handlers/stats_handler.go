package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gigfolio/backend/internal/repository"
)

// StatsHandler serves the platform overview.
type StatsHandler struct {
	Stats  *repository.StatsRepo
	Logger *slog.Logger
}

// Overview handles GET /api/v1/stats.
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Overview(r.Context())
	if err != nil {
		h.Logger.Error("platform stats", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
