// Package normalize coerces raw CSV records into typed domain rows.
//
// All normalizers are total: malformed rows are dropped, never surfaced as
// errors. Duplicate identity keys keep the first occurrence, which makes the
// output stable against trailing header repeats in sloppy sheet exports.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/meeple/internal/domain/model"
)

// FieldMap maps a canonical field name to the ordered list of source column
// names accepted for it. Lookup returns the first non-empty match.
type FieldMap map[string][]string

// Lookup returns the trimmed value of the first alias present and non-empty.
func (f FieldMap) Lookup(row map[string]string, field string) string {
	for _, alias := range f[field] {
		if v := strings.TrimSpace(row[alias]); v != "" {
			return v
		}
	}
	return ""
}

// Default alias tables per feed. The sheets have been exported with
// shifting headers over time; every spelling seen in the wild is listed.
func defaultPlayerFields() FieldMap {
	return FieldMap{
		"id":   {"player_id", "id", "handle"},
		"name": {"name", "player_name", "player"},
	}
}

func defaultGameFields() FieldMap {
	return FieldMap{
		"game_id":     {"game_id", "id"},
		"name":        {"name", "game"},
		"type":        {"type"},
		"multiplier":  {"multiplier", "mult"},
		"min_players": {"min_p", "min_players"},
		"max_players": {"max_p", "max_players"},
		"image_url":   {"image_url", "image"},
	}
}

func defaultScheduleFields() FieldMap {
	return FieldMap{
		"date":       {"date"},
		"start_time": {"start_time"},
		"end_time":   {"end_time"},
		"location":   {"location"},
		"notes":      {"notes"},
	}
}

// lineupColumns are the schedule columns naming the planned games for a
// session, heaviest first.
var lineupColumns = []string{"heavy", "medium", "filler1", "filler2"}

func defaultMatchFields() FieldMap {
	return FieldMap{
		"session_date": {"session_date", "date"},
		"game_id":      {"game_id", "game"},
		"start_time":   {"start_time", "time"},
		"p1":           {"p1"},
		"p2":           {"p2"},
		"p3":           {"p3"},
		"p4":           {"p4"},
		"p5":           {"p5"},
	}
}

// Normalizer converts raw feed records into typed rows.
type Normalizer struct {
	playerFields   FieldMap
	gameFields     FieldMap
	scheduleFields FieldMap
	matchFields    FieldMap
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithPlayerFields overrides the alias table for the players feed.
func WithPlayerFields(f FieldMap) Option {
	return func(n *Normalizer) {
		if f != nil {
			n.playerFields = f
		}
	}
}

// WithGameFields overrides the alias table for the games feed.
func WithGameFields(f FieldMap) Option {
	return func(n *Normalizer) {
		if f != nil {
			n.gameFields = f
		}
	}
}

// WithScheduleFields overrides the alias table for the schedule feed.
func WithScheduleFields(f FieldMap) Option {
	return func(n *Normalizer) {
		if f != nil {
			n.scheduleFields = f
		}
	}
}

// WithMatchFields overrides the alias table for the matches feed.
func WithMatchFields(f FieldMap) Option {
	return func(n *Normalizer) {
		if f != nil {
			n.matchFields = f
		}
	}
}

// New creates a Normalizer with the default alias tables.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		playerFields:   defaultPlayerFields(),
		gameFields:     defaultGameFields(),
		scheduleFields: defaultScheduleFields(),
		matchFields:    defaultMatchFields(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Players normalizes the players feed. Rows without an id or name are
// dropped; repeated ids keep the first row. Returns the rows and the number
// dropped.
func (n *Normalizer) Players(rows []map[string]string) ([]model.Player, int) {
	out := make([]model.Player, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	dropped := 0

	for _, r := range rows {
		id := n.playerFields.Lookup(r, "id")
		name := n.playerFields.Lookup(r, "name")
		if id == "" || name == "" {
			dropped++
			continue
		}
		if _, ok := seen[id]; ok {
			dropped++
			continue
		}
		seen[id] = struct{}{}
		out = append(out, model.Player{ID: id, Name: name})
	}
	return out, dropped
}

// Games normalizes the games feed. Rows without a game id are dropped;
// repeated ids keep the first row. Multiplier falls back to the type's
// default when missing or non-positive.
func (n *Normalizer) Games(rows []map[string]string) ([]model.Game, int) {
	out := make([]model.Game, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	dropped := 0

	for _, r := range rows {
		id := n.gameFields.Lookup(r, "game_id")
		if id == "" {
			dropped++
			continue
		}
		if _, ok := seen[id]; ok {
			dropped++
			continue
		}
		seen[id] = struct{}{}

		typ := model.GameType(strings.ToLower(n.gameFields.Lookup(r, "type")))
		if !typ.Valid() {
			typ = ""
		}

		g := model.Game{
			ID:         id,
			Name:       n.gameFields.Lookup(r, "name"),
			Type:       typ,
			Multiplier: Multiplier(n.gameFields.Lookup(r, "multiplier"), typ),
			MinPlayers: toInt(n.gameFields.Lookup(r, "min_players")),
			MaxPlayers: toInt(n.gameFields.Lookup(r, "max_players")),
			ImageURL:   n.gameFields.Lookup(r, "image_url"),
		}
		if g.Name == "" {
			g.Name = id
		}
		out = append(out, g)
	}
	return out, dropped
}

// Schedule normalizes the schedule feed. Rows without a date are dropped;
// repeated dates keep the first row. Dates and times are normalized so the
// rows sort correctly as strings.
func (n *Normalizer) Schedule(rows []map[string]string) ([]model.ScheduleRow, int) {
	out := make([]model.ScheduleRow, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	dropped := 0

	for _, r := range rows {
		date := Date(n.scheduleFields.Lookup(r, "date"))
		if date == "" {
			dropped++
			continue
		}
		if _, ok := seen[date]; ok {
			dropped++
			continue
		}
		seen[date] = struct{}{}

		var lineup []string
		for _, col := range lineupColumns {
			if v := strings.TrimSpace(r[col]); v != "" {
				lineup = append(lineup, v)
			}
		}

		out = append(out, model.ScheduleRow{
			Date:      date,
			StartTime: Clock(n.scheduleFields.Lookup(r, "start_time")),
			EndTime:   Clock(n.scheduleFields.Lookup(r, "end_time")),
			Location:  n.scheduleFields.Lookup(r, "location"),
			Notes:     n.scheduleFields.Lookup(r, "notes"),
			Lineup:    lineup,
		})
	}
	return out, dropped
}

// Matches normalizes the matches feed. A match is valid only when both the
// session date and the game id are present. Matches are not de-duplicated:
// the same game can legitimately be played twice in a session.
func (n *Normalizer) Matches(rows []map[string]string) ([]model.MatchRow, int) {
	out := make([]model.MatchRow, 0, len(rows))
	dropped := 0

	for _, r := range rows {
		date := Date(n.matchFields.Lookup(r, "session_date"))
		gameID := n.matchFields.Lookup(r, "game_id")
		if date == "" || gameID == "" {
			dropped++
			continue
		}

		out = append(out, model.MatchRow{
			SessionDate: date,
			GameID:      gameID,
			StartTime:   Clock(n.matchFields.Lookup(r, "start_time")),
			P1:          n.matchFields.Lookup(r, "p1"),
			P2:          n.matchFields.Lookup(r, "p2"),
			P3:          n.matchFields.Lookup(r, "p3"),
			P4:          n.matchFields.Lookup(r, "p4"),
			P5:          n.matchFields.Lookup(r, "p5"),
		})
	}
	return out, dropped
}

// Date normalizes a date value to YYYY-MM-DD. ISO datetimes are cut at the
// time separator and DD/MM/YYYY is converted. Anything else is returned
// trimmed as-is; callers compare normalized strings, not parsed times.
func Date(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}
	if parts := strings.Split(s, "/"); len(parts) == 3 {
		d, m, y := pad2(parts[0]), pad2(parts[1]), parts[2]
		if len(y) == 4 {
			return y + "-" + m + "-" + d
		}
	}
	return s
}

// Clock normalizes a clock value to zero-padded HH:MM so lexicographic
// comparison matches chronological order ("9:00" would otherwise sort after
// "10:00"). Seconds are discarded.
func Clock(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return s
	}
	return pad2(parts[0]) + ":" + pad2(parts[1])
}

// Multiplier coerces a multiplier cell. Non-numeric, non-finite or
// non-positive values fall back to the game type's default.
func Multiplier(v string, typ model.GameType) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return typ.DefaultMultiplier()
	}
	return f
}

func toInt(v string) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || i < 0 {
		return 0
	}
	return i
}

func pad2(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
