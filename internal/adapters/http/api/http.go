// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/meeple/internal/app"
	"github.com/okian/meeple/internal/domain/league"
	"github.com/okian/meeple/internal/domain/model"
	"github.com/okian/meeple/internal/domain/session"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Leaderboard(ctx context.Context, minMatches int) league.Result
	Sessions(ctx context.Context) []session.View
	Days(ctx context.Context) []service.Day
	SessionsForDate(ctx context.Context, date string) service.DayDetail
	Schedule(ctx context.Context) []service.ScheduleEntry
	NextSession(ctx context.Context) (service.NextSession, bool)
	Games(ctx context.Context, typeFilter string) []model.Game
	Players(ctx context.Context) []model.Player
	Refresh(ctx context.Context)
}

// Server wires HTTP routes for the business API.
type Server struct {
	leaderboardHandler *LeaderboardHandler
	sessionsHandler    *SessionsHandler
	scheduleHandler    *ScheduleHandler
	gamesHandler       *GamesHandler
	playersHandler     *PlayersHandler
	refreshHandler     *RefreshHandler
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	dashboardHandler   *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		leaderboardHandler: NewLeaderboardHandler(deps),
		sessionsHandler:    NewSessionsHandler(deps),
		scheduleHandler:    NewScheduleHandler(deps),
		gamesHandler:       NewGamesHandler(deps),
		playersHandler:     NewPlayersHandler(deps),
		refreshHandler:     NewRefreshHandler(deps),
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		dashboardHandler:   newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", Middleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", Middleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/api/leaderboard", Middleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/api/sessions", Middleware(s.sessionsHandler.HandleGetSessions, "sessions"))
	mux.HandleFunc("/api/sessions/", Middleware(s.sessionsHandler.HandleGetSessionByDate, "session_by_date"))
	mux.HandleFunc("/api/matches", Middleware(s.sessionsHandler.HandleGetMatches, "matches"))
	mux.HandleFunc("/api/schedule", Middleware(s.scheduleHandler.HandleGetSchedule, "schedule"))
	mux.HandleFunc("/api/next", Middleware(s.scheduleHandler.HandleGetNext, "next"))
	mux.HandleFunc("/api/games", Middleware(s.gamesHandler.HandleGetGames, "games"))
	mux.HandleFunc("/api/players", Middleware(s.playersHandler.HandleGetPlayers, "players"))
	mux.HandleFunc("/api/refresh", Middleware(s.refreshHandler.HandleRefresh, "refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
