// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// RefreshDependencies defines the interface for forcing a snapshot reload.
type RefreshDependencies interface {
	Refresh(ctx context.Context)
}

// RefreshHandler handles forced refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

type refreshResponse struct {
	Status string `json:"status"`
}

// HandleRefresh handles POST /api/refresh requests.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.deps.Refresh(r.Context())
	writeJSON(w, http.StatusOK, refreshResponse{Status: "refreshed"})
}
