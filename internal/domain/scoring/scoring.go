// Package scoring derives match placements and converts them into point
// awards. Everything here is pure and deterministic.
package scoring

import (
	"math"
	"strings"

	"github.com/okian/meeple/internal/domain/model"
)

// DefaultTable is the default points-by-place table, winner first.
// The real table is league policy and comes from configuration.
func DefaultTable() []float64 {
	return []float64{10, 6, 3, 1, 0}
}

// Placements derives the finish order from a match's fixed place slots:
// p1..p5 in slot order, trimmed, empties dropped, and duplicate entrants
// collapsed keeping the first occurrence. An empty result means the match
// carries no scoreable outcome and is excluded from aggregation.
func Placements(m model.MatchRow) []string {
	slots := m.Slots()
	out := make([]string, 0, len(slots))
	seen := make(map[string]struct{}, len(slots))

	for _, s := range slots {
		p := strings.TrimSpace(s)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Engine maps placements to per-participant points using a base table
// modulated by the game's multiplier.
type Engine struct {
	table []float64
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithTable sets the points-by-place table, winner first. Places beyond the
// table score zero. Empty tables are ignored.
func WithTable(table []float64) Option {
	return func(e *Engine) {
		if len(table) == 0 {
			return
		}
		e.table = make([]float64, len(table))
		copy(e.table, table)
	}
}

// NewEngine creates an Engine with the default table.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{table: DefaultTable()}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Table returns a copy of the engine's points-by-place table.
func (e *Engine) Table() []float64 {
	out := make([]float64, len(e.table))
	copy(out, e.table)
	return out
}

// Score maps an ordered placement list and a game multiplier to the points
// earned per participant. Each award is rounded to two decimals before
// accumulating so floating-point drift never compounds across matches.
// Non-finite or non-positive multipliers fall back to 1. A duplicate id
// surviving extraction accumulates by summing.
func (e *Engine) Score(placements []string, multiplier float64) map[string]float64 {
	mult := multiplier
	if math.IsNaN(mult) || math.IsInf(mult, 0) || mult <= 0 {
		mult = 1
	}

	out := make(map[string]float64, len(placements))
	for i, p := range placements {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		var base float64
		if i < len(e.table) {
			base = e.table[i]
		}
		out[p] = Round2(out[p] + Round2(base*mult))
	}
	return out
}

// Round2 rounds to two decimal places.
func Round2(n float64) float64 {
	return math.Round(n*100) / 100
}
