// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/meeple/internal/domain/model"
)

// PlayersDependencies defines the interface for roster reads.
type PlayersDependencies interface {
	Players(ctx context.Context) []model.Player
}

// PlayersHandler handles roster requests.
type PlayersHandler struct {
	deps PlayersDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayersDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleGetPlayers handles GET /api/players requests.
func (h *PlayersHandler) HandleGetPlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Players(r.Context()))
}
