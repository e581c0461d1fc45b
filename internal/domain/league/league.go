// Package league folds matches into a ranked leaderboard.
package league

import (
	"sort"
	"strings"

	"github.com/okian/meeple/internal/domain/model"
	"github.com/okian/meeple/internal/domain/scoring"
)

// PlayerStats is the per-player aggregate over all scored matches.
type PlayerStats struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	Podiums int     `json:"podiums"`
	Points  float64 `json:"points"`
	// AvgPoints is Points/Matches rounded to two decimals, 0 without matches.
	AvgPoints float64 `json:"avg_points"`
}

// Result is the computed leaderboard. Eligible is the subset of All whose
// match count meets MinMatches; both share the same ordering.
type Result struct {
	All        []PlayerStats `json:"all"`
	Eligible   []PlayerStats `json:"eligible"`
	MinMatches int           `json:"min_matches"`
}

// Aggregator computes leaderboards from normalized feed rows.
type Aggregator struct {
	engine *scoring.Engine
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithEngine sets the scoring engine used to award points.
func WithEngine(e *scoring.Engine) Option {
	return func(a *Aggregator) {
		if e != nil {
			a.engine = e
		}
	}
}

// NewAggregator creates an Aggregator. Without options it scores with the
// default points table.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{engine: scoring.NewEngine()}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Compute folds all matches into per-player stats and returns the ranked
// leaderboard. The roster seeds the stats map so inactive players still
// appear with zero stats. Matches referencing an unknown game score with
// multiplier 1; participants absent from the roster get an entry using the
// raw id as the display name. Compute never fails: empty or partial input
// yields an empty or partial leaderboard.
//
// Ordering: points desc, wins desc, matches desc, name asc. The four-key
// tie-break is the only deterministic total order over equal point totals.
func (a *Aggregator) Compute(players []model.Player, games []model.Game, matches []model.MatchRow, minMatches int) Result {
	if minMatches < 0 {
		minMatches = 0
	}

	gameByID := make(map[string]model.Game, len(games))
	for _, g := range games {
		gameByID[strings.TrimSpace(g.ID)] = g
	}

	stats := make(map[string]*PlayerStats, len(players))
	order := make([]string, 0, len(players))
	for _, p := range players {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			continue
		}
		if _, ok := stats[id]; ok {
			continue
		}
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = id
		}
		stats[id] = &PlayerStats{ID: id, Name: name}
		order = append(order, id)
	}

	for _, m := range matches {
		placements := scoring.Placements(m)
		if len(placements) == 0 {
			continue
		}

		mult := 1.0
		if g, ok := gameByID[strings.TrimSpace(m.GameID)]; ok {
			mult = g.Multiplier
		}
		points := a.engine.Score(placements, mult)

		for i, pid := range placements {
			st, ok := stats[pid]
			if !ok {
				st = &PlayerStats{ID: pid, Name: pid}
				stats[pid] = st
				order = append(order, pid)
			}
			st.Matches++
			if i == 0 {
				st.Wins++
			}
			if i <= 2 {
				st.Podiums++
			}
			st.Points = scoring.Round2(st.Points + points[pid])
		}
	}

	all := make([]PlayerStats, 0, len(order))
	for _, id := range order {
		st := *stats[id]
		if st.Matches > 0 {
			st.AvgPoints = scoring.Round2(st.Points / float64(st.Matches))
		}
		all = append(all, st)
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Matches != b.Matches {
			return a.Matches > b.Matches
		}
		return a.Name < b.Name
	})

	eligible := make([]PlayerStats, 0, len(all))
	for _, st := range all {
		if st.Matches >= minMatches {
			eligible = append(eligible, st)
		}
	}

	return Result{All: all, Eligible: eligible, MinMatches: minMatches}
}
