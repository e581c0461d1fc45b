// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	service "github.com/okian/meeple/internal/app"
	"github.com/okian/meeple/internal/domain/session"
)

// SessionsDependencies defines the interface for session reads.
type SessionsDependencies interface {
	Sessions(ctx context.Context) []session.View
	Days(ctx context.Context) []service.Day
	SessionsForDate(ctx context.Context, date string) service.DayDetail
}

// SessionsHandler handles session (jornada) requests.
type SessionsHandler struct {
	deps SessionsDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionsDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleGetSessions handles GET /api/sessions requests: every known league
// date with its schedule info and match count.
func (h *SessionsHandler) HandleGetSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Days(r.Context()))
}

// HandleGetMatches handles GET /api/matches requests: every match as a
// session view, ordered by date and start time.
func (h *SessionsHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Sessions(r.Context()))
}

// HandleGetSessionByDate handles GET /api/sessions/{date} requests.
func (h *SessionsHandler) HandleGetSessionByDate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	date := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	if date == "" || strings.Contains(date, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	detail := h.deps.SessionsForDate(r.Context(), date)
	if detail.Schedule == nil && len(detail.Matches) == 0 {
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
