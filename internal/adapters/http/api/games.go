// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/meeple/internal/domain/model"
)

// GamesDependencies defines the interface for catalog reads.
type GamesDependencies interface {
	Games(ctx context.Context, typeFilter string) []model.Game
}

// GamesHandler handles game catalog requests.
type GamesHandler struct {
	deps GamesDependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps GamesDependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// HandleGetGames handles GET /api/games requests. The optional type query
// parameter filters by weight class (heavy, medium, filler, filler_night).
func (h *GamesHandler) HandleGetGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	typeFilter := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))
	if typeFilter != "" && !model.GameType(typeFilter).Valid() {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, h.deps.Games(r.Context(), typeFilter))
}
