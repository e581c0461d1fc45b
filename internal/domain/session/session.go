// Package session groups matches by league day (jornada) for day-level views.
package session

import (
	"sort"
	"strings"

	"github.com/okian/meeple/internal/domain/model"
	"github.com/okian/meeple/internal/domain/normalize"
	"github.com/okian/meeple/internal/domain/scoring"
)

// View is one match inside a session, with its game resolved and points
// already computed with the game's multiplier applied.
type View struct {
	Date           string             `json:"session_date"`
	StartTime      string             `json:"start_time,omitempty"`
	GameID         string             `json:"game_id"`
	GameName       string             `json:"game_name"`
	Multiplier     float64            `json:"multiplier"`
	Placements     []string           `json:"placements"`
	PointsByPlayer map[string]float64 `json:"points_by_player"`
}

// PlayerTotal aggregates a player's results inside a single session.
type PlayerTotal struct {
	Player  string  `json:"player"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	Points  float64 `json:"points"`
}

// Builder turns matches into session views.
type Builder struct {
	engine *scoring.Engine
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithEngine sets the scoring engine used for point breakdowns.
func WithEngine(e *scoring.Engine) Option {
	return func(b *Builder) {
		if e != nil {
			b.engine = e
		}
	}
}

// NewBuilder creates a Builder. Without options it scores with the default
// points table.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{engine: scoring.NewEngine()}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build maps every match to a View, ordered by date then start time.
// An unknown game id resolves to the raw id with multiplier 1.
func (b *Builder) Build(games []model.Game, matches []model.MatchRow) []View {
	gameByID := make(map[string]model.Game, len(games))
	for _, g := range games {
		gameByID[strings.TrimSpace(g.ID)] = g
	}

	out := make([]View, 0, len(matches))
	for _, m := range matches {
		gid := strings.TrimSpace(m.GameID)
		name := gid
		mult := 1.0
		if g, ok := gameByID[gid]; ok {
			mult = g.Multiplier
			if g.Name != "" {
				name = g.Name
			}
		}

		placements := scoring.Placements(m)
		out = append(out, View{
			Date:           normalize.Date(m.SessionDate),
			StartTime:      normalize.Clock(m.StartTime),
			GameID:         gid,
			GameName:       name,
			Multiplier:     mult,
			Placements:     placements,
			PointsByPlayer: b.engine.Score(placements, mult),
		})
	}

	// Start times are zero-padded HH:MM, so the string compare is
	// chronological.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// ForDate returns the session views for one normalized date.
func (b *Builder) ForDate(date string, games []model.Game, matches []model.MatchRow) []View {
	d := normalize.Date(date)
	views := b.Build(games, matches)
	out := make([]View, 0, len(views))
	for _, v := range views {
		if v.Date == d {
			out = append(out, v)
		}
	}
	return out
}

// Totals folds a session's views into per-player point totals and win
// counts, ordered points desc, wins desc, matches desc, player asc. The
// tie-break matches the leaderboard's.
func Totals(views []View) []PlayerTotal {
	byPlayer := make(map[string]*PlayerTotal)
	order := make([]string, 0)

	for _, v := range views {
		for i, p := range v.Placements {
			t, ok := byPlayer[p]
			if !ok {
				t = &PlayerTotal{Player: p}
				byPlayer[p] = t
				order = append(order, p)
			}
			t.Matches++
			if i == 0 {
				t.Wins++
			}
			t.Points = scoring.Round2(t.Points + v.PointsByPlayer[p])
		}
	}

	out := make([]PlayerTotal, 0, len(order))
	for _, p := range order {
		out = append(out, *byPlayer[p])
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Matches != b.Matches {
			return a.Matches > b.Matches
		}
		return a.Player < b.Player
	})
	return out
}

// Dates returns the union of schedule dates and match dates, normalized and
// sorted ascending. A session can exist in either feed alone.
func Dates(schedule []model.ScheduleRow, matches []model.MatchRow) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(schedule)+len(matches))

	add := func(raw string) {
		d := normalize.Date(raw)
		if d == "" {
			return
		}
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}

	for _, s := range schedule {
		add(s.Date)
	}
	for _, m := range matches {
		add(m.SessionDate)
	}
	sort.Strings(out)
	return out
}

// ScheduleFor returns the schedule row matching a normalized date.
func ScheduleFor(date string, schedule []model.ScheduleRow) (model.ScheduleRow, bool) {
	d := normalize.Date(date)
	for _, s := range schedule {
		if normalize.Date(s.Date) == d {
			return s, true
		}
	}
	return model.ScheduleRow{}, false
}
