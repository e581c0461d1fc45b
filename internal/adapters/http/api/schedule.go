// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	service "github.com/okian/meeple/internal/app"
)

// ScheduleDependencies defines the interface for schedule reads.
type ScheduleDependencies interface {
	Schedule(ctx context.Context) []service.ScheduleEntry
	NextSession(ctx context.Context) (service.NextSession, bool)
}

// ScheduleHandler handles calendar requests.
type ScheduleHandler struct {
	deps ScheduleDependencies
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(deps ScheduleDependencies) *ScheduleHandler {
	return &ScheduleHandler{deps: deps}
}

// HandleGetSchedule handles GET /api/schedule requests.
func (h *ScheduleHandler) HandleGetSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Schedule(r.Context()))
}

// HandleGetNext handles GET /api/next requests: the upcoming session with
// its planned game lineup resolved.
func (h *ScheduleHandler) HandleGetNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	next, ok := h.deps.NextSession(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, next)
}
