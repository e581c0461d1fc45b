// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Feed names used as configuration and metrics keys.
const (
	FeedPlayers  = "players"
	FeedGames    = "games"
	FeedSchedule = "schedule"
	FeedMatches  = "matches"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Per-feed CSV URLs. An empty URL yields an empty feed, not an error.
	PlayersURL  string `koanf:"players_url"`
	GamesURL    string `koanf:"games_url"`
	ScheduleURL string `koanf:"schedule_url"`
	MatchesURL  string `koanf:"matches_url"`

	// FetchTimeoutMS bounds a single feed fetch.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// RefreshIntervalMS sets how often the snapshot is reloaded in the background.
	RefreshIntervalMS int `koanf:"refresh_interval_ms"`

	// MinMatches is the eligibility threshold for the ranked leaderboard.
	MinMatches int `koanf:"min_matches"`

	// BasePoints is the points-by-place table, winner first. League policy,
	// so it lives in configuration rather than code.
	BasePoints []float64 `koanf:"base_points"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		FetchTimeoutMS:    10_000,
		RefreshIntervalMS: 60_000,
		MinMatches:        1,
		BasePoints:        []float64{10, 6, 3, 1, 0},
	}
}

// FeedURLs returns the configured URL per feed name.
func (c *Config) FeedURLs() map[string]string {
	return map[string]string{
		FeedPlayers:  c.PlayersURL,
		FeedGames:    c.GamesURL,
		FeedSchedule: c.ScheduleURL,
		FeedMatches:  c.MatchesURL,
	}
}
