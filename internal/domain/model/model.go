// Package model contains domain rows built from the CSV feeds.
package model

// GameType classifies a game by weight class. The type drives the default
// multiplier when the feed does not carry an explicit one.
type GameType string

// Known game types.
const (
	TypeHeavy       GameType = "heavy"
	TypeMedium      GameType = "medium"
	TypeFiller      GameType = "filler"
	TypeFillerNight GameType = "filler_night"
)

// DefaultMultiplier returns the multiplier implied by the game type,
// or 1 when the type carries no convention.
func (t GameType) DefaultMultiplier() float64 {
	switch t {
	case TypeHeavy:
		return 2
	case TypeMedium:
		return 1.5
	case TypeFiller, TypeFillerNight:
		return 1
	default:
		return 1
	}
}

// Valid reports whether t is one of the known game types.
func (t GameType) Valid() bool {
	switch t {
	case TypeHeavy, TypeMedium, TypeFiller, TypeFillerNight:
		return true
	}
	return false
}

// Player is a roster member. Identity is the trimmed, non-empty ID.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Game describes one game in the league catalog.
// Multiplier is always positive; normalization enforces the fallback.
type Game struct {
	ID         string   `json:"game_id"`
	Name       string   `json:"name"`
	Type       GameType `json:"type,omitempty"`
	Multiplier float64  `json:"multiplier"`
	MinPlayers int      `json:"min_players,omitempty"`
	MaxPlayers int      `json:"max_players,omitempty"`
	ImageURL   string   `json:"image_url,omitempty"`
}

// ScheduleRow is one league session's logistics, keyed by date (YYYY-MM-DD).
// Lineup carries the game ids planned for the session, heaviest first.
type ScheduleRow struct {
	Date      string   `json:"date"`
	StartTime string   `json:"start_time,omitempty"`
	EndTime   string   `json:"end_time,omitempty"`
	Location  string   `json:"location,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Lineup    []string `json:"lineup,omitempty"`
}

// MatchRow records one played match. Slots P1..P5 encode finishing order,
// winner first; entries may be player ids or raw names depending on the
// sheet's discipline.
type MatchRow struct {
	SessionDate string `json:"session_date"`
	GameID      string `json:"game_id"`
	StartTime   string `json:"start_time,omitempty"`
	P1          string `json:"p1,omitempty"`
	P2          string `json:"p2,omitempty"`
	P3          string `json:"p3,omitempty"`
	P4          string `json:"p4,omitempty"`
	P5          string `json:"p5,omitempty"`
}

// Slots returns the placement slots in finishing order, untrimmed.
func (m MatchRow) Slots() []string {
	return []string{m.P1, m.P2, m.P3, m.P4, m.P5}
}
