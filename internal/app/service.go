// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/meeple/internal/adapters/feed"
	"github.com/okian/meeple/internal/config"
	"github.com/okian/meeple/internal/domain/league"
	"github.com/okian/meeple/internal/domain/model"
	"github.com/okian/meeple/internal/domain/normalize"
	"github.com/okian/meeple/internal/domain/scoring"
	"github.com/okian/meeple/internal/domain/session"
	"github.com/okian/meeple/pkg/logger"
	"github.com/okian/meeple/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultRefreshInterval = time.Minute
	defaultMinMatches      = 1
)

// Service holds the latest feed snapshot and serves derived league views.
// Each refresh rebuilds the snapshot and leaderboard from scratch; requests
// only ever read the cached state under an RWMutex.
type Service struct {
	mu sync.RWMutex

	// Core components
	loader     *feed.Loader
	engine     *scoring.Engine
	aggregator *league.Aggregator
	builder    *session.Builder

	// Configuration
	feedURLs        map[string]string
	fetchTimeout    time.Duration
	refreshInterval time.Duration
	minMatches      int
	basePoints      []float64
	now             func() time.Time

	// State
	snapshot    feed.Snapshot
	leaderboard league.Result
	started     bool
	stopCh      chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFeedURLs sets the CSV URL per feed name.
func WithFeedURLs(urls map[string]string) Option {
	return func(s *Service) {
		if urls != nil {
			s.feedURLs = urls
		}
	}
}

// WithFetchTimeout bounds a single feed fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithRefreshInterval sets how often the snapshot reloads in the background.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshInterval = d
		}
	}
}

// WithMinMatches sets the eligibility threshold for the ranked leaderboard.
func WithMinMatches(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.minMatches = n
		}
	}
}

// WithBasePoints sets the points-by-place table, winner first.
func WithBasePoints(table []float64) Option {
	return func(s *Service) {
		if len(table) > 0 {
			s.basePoints = table
		}
	}
}

// WithLoader sets a custom snapshot loader. Tests use this to avoid the
// network entirely.
func WithLoader(l *feed.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithClock sets the time source used for past/today/future decisions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service with default configuration. The scoring
// components are built here so read operations are safe before Start.
func New(opts ...Option) *Service {
	s := &Service{
		feedURLs:        map[string]string{},
		fetchTimeout:    10 * time.Second,
		refreshInterval: defaultRefreshInterval,
		minMatches:      defaultMinMatches,
		basePoints:      scoring.DefaultTable(),
		now:             time.Now,
		stopCh:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.engine = scoring.NewEngine(scoring.WithTable(s.basePoints))
	s.aggregator = league.NewAggregator(league.WithEngine(s.engine))
	s.builder = session.NewBuilder(session.WithEngine(s.engine))

	return s
}

// Start performs the initial snapshot load and launches the background
// refresher. It is safe to call once; repeat calls are no-ops.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if s.loader == nil {
		client := feed.NewClient(s.feedURLs,
			feed.WithTimeout(s.fetchTimeout),
			feed.WithLogger(s.logger.Named("feed")),
		)
		s.loader = feed.NewLoader(client)
	}

	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "starting league service",
		logger.Int("min_matches", s.minMatches),
		logger.Int("base_points_places", len(s.basePoints)),
	)

	s.refresh(ctx)
	go s.refreshLoop(ctx)
	return nil
}

// Stop terminates the background refresher.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	s.started = false
	s.logger.Info(context.Background(), "league service stopped")
}

func (s *Service) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// feedCount is the number of feeds a snapshot loads.
const feedCount = 4

// refresh loads a fresh snapshot and swaps in the derived leaderboard.
// Rows from a failed feed are carried over from the previous snapshot; when
// every feed fails the previous snapshot is kept untouched.
func (s *Service) refresh(ctx context.Context) {
	start := time.Now()
	snap := s.loader.Load(ctx)

	if len(snap.Failed) == feedCount {
		metrics.RecordError("service", "refresh")
		s.logger.Warn(ctx, "every feed failed; keeping previous snapshot")
		return
	}
	if len(snap.Failed) > 0 {
		prev := s.current()
		if snap.Failed[config.FeedPlayers] {
			snap.Players = prev.Players
		}
		if snap.Failed[config.FeedGames] {
			snap.Games = prev.Games
		}
		if snap.Failed[config.FeedSchedule] {
			snap.Schedule = prev.Schedule
		}
		if snap.Failed[config.FeedMatches] {
			snap.Matches = prev.Matches
		}
		metrics.RecordError("service", "partial_refresh")
		s.logger.Warn(ctx, "some feeds failed; their rows carried over",
			logger.Int("failed_feeds", len(snap.Failed)),
		)
	}

	lb := s.aggregator.Compute(snap.Players, snap.Games, snap.Matches, s.minMatches)

	s.mu.Lock()
	s.snapshot = snap
	s.leaderboard = lb
	s.mu.Unlock()

	durationMs := float64(time.Since(start).Milliseconds())
	metrics.RecordSnapshotRefresh(durationMs)
	metrics.UpdateSnapshotLastRefresh(snap.FetchedAt.Unix())
	metrics.RecordMatchesScored(len(snap.Matches))
	metrics.UpdateLeaderboardSize(len(lb.All), len(lb.Eligible))
	metrics.UpdateSessionCount(len(session.Dates(snap.Schedule, snap.Matches)))

	s.logger.Info(ctx, "snapshot refreshed",
		logger.Int("players", len(snap.Players)),
		logger.Int("games", len(snap.Games)),
		logger.Int("schedule_rows", len(snap.Schedule)),
		logger.Int("matches", len(snap.Matches)),
		logger.Float64("duration_ms", durationMs),
	)
}

// Refresh forces an immediate snapshot reload. It is a no-op on a service
// that has not been started.
func (s *Service) Refresh(ctx context.Context) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return
	}
	s.refresh(ctx)
}

// Leaderboard returns the ranked leaderboard. A negative minMatches uses
// the configured threshold; anything else recomputes against the cached
// snapshot with the requested one.
func (s *Service) Leaderboard(ctx context.Context, minMatches int) league.Result {
	s.mu.RLock()
	snap := s.snapshot
	lb := s.leaderboard
	s.mu.RUnlock()

	if minMatches < 0 || minMatches == lb.MinMatches {
		return lb
	}
	return s.aggregator.Compute(snap.Players, snap.Games, snap.Matches, minMatches)
}

// Sessions returns every match as a session view, ordered by date and time.
func (s *Service) Sessions(ctx context.Context) []session.View {
	snap := s.current()
	return s.builder.Build(snap.Games, snap.Matches)
}

// Day summarizes one league date for the session index.
type Day struct {
	Date     string             `json:"date"`
	Schedule *model.ScheduleRow `json:"schedule,omitempty"`
	Matches  int                `json:"matches"`
}

// Days lists every known league date, drawn from both the schedule and the
// recorded matches, with per-date match counts.
func (s *Service) Days(ctx context.Context) []Day {
	snap := s.current()

	counts := make(map[string]int, len(snap.Matches))
	for _, m := range snap.Matches {
		counts[normalize.Date(m.SessionDate)]++
	}

	dates := session.Dates(snap.Schedule, snap.Matches)
	out := make([]Day, 0, len(dates))
	for _, d := range dates {
		day := Day{Date: d, Matches: counts[d]}
		if row, ok := session.ScheduleFor(d, snap.Schedule); ok {
			r := row
			day.Schedule = &r
		}
		out = append(out, day)
	}
	return out
}

// DayDetail is one session date with its matches and per-player totals.
type DayDetail struct {
	Date     string                `json:"date"`
	Schedule *model.ScheduleRow    `json:"schedule,omitempty"`
	Matches  []session.View        `json:"matches"`
	Totals   []session.PlayerTotal `json:"totals"`
}

// SessionsForDate returns the detailed view of one league date.
func (s *Service) SessionsForDate(ctx context.Context, date string) DayDetail {
	snap := s.current()

	views := s.builder.ForDate(date, snap.Games, snap.Matches)
	detail := DayDetail{
		Date:    date,
		Matches: views,
		Totals:  session.Totals(views),
	}
	if len(views) > 0 {
		detail.Date = views[0].Date
	}
	if row, ok := session.ScheduleFor(date, snap.Schedule); ok {
		r := row
		detail.Schedule = &r
		detail.Date = r.Date
	}
	return detail
}

// ScheduleEntry is a schedule row with its status relative to today.
type ScheduleEntry struct {
	model.ScheduleRow
	// Status is past, today or future.
	Status string `json:"status"`
}

// Schedule returns the normalized schedule sorted by date, each row tagged
// past/today/future.
func (s *Service) Schedule(ctx context.Context) []ScheduleEntry {
	snap := s.current()
	today := s.today()

	out := make([]ScheduleEntry, 0, len(snap.Schedule))
	for _, row := range snap.Schedule {
		e := ScheduleEntry{ScheduleRow: row}
		switch {
		case row.Date < today:
			e.Status = "past"
		case row.Date == today:
			e.Status = "today"
		default:
			e.Status = "future"
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// NextSession is the upcoming league date with its planned game lineup
// resolved against the catalog.
type NextSession struct {
	model.ScheduleRow
	Games []model.Game `json:"games,omitempty"`
}

// NextSession returns the first schedule row on or after today. When every
// row is in the past the most recent one is returned, so the card on the
// site always has something to show. ok is false only with an empty
// schedule.
func (s *Service) NextSession(ctx context.Context) (NextSession, bool) {
	entries := s.Schedule(ctx)
	if len(entries) == 0 {
		return NextSession{}, false
	}

	row := entries[len(entries)-1].ScheduleRow
	for _, e := range entries {
		if e.Status != "past" {
			row = e.ScheduleRow
			break
		}
	}

	snap := s.current()
	gameByID := make(map[string]model.Game, len(snap.Games))
	for _, g := range snap.Games {
		gameByID[g.ID] = g
	}

	next := NextSession{ScheduleRow: row}
	for _, id := range row.Lineup {
		if g, ok := gameByID[id]; ok {
			next.Games = append(next.Games, g)
		}
	}
	return next, true
}

// Games returns the catalog, optionally filtered by game type.
func (s *Service) Games(ctx context.Context, typeFilter string) []model.Game {
	snap := s.current()
	if typeFilter == "" {
		return snap.Games
	}
	out := make([]model.Game, 0, len(snap.Games))
	for _, g := range snap.Games {
		if string(g.Type) == typeFilter {
			out = append(out, g)
		}
	}
	return out
}

// Players returns the normalized roster.
func (s *Service) Players(ctx context.Context) []model.Player {
	return s.current().Players
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"minMatches":  s.minMatches,
		"players":     len(s.snapshot.Players),
		"games":       len(s.snapshot.Games),
		"schedule":    len(s.snapshot.Schedule),
		"matches":     len(s.snapshot.Matches),
		"leaderboard": len(s.leaderboard.All),
		"eligible":    len(s.leaderboard.Eligible),
	}
	if !s.snapshot.FetchedAt.IsZero() {
		stats["lastRefresh"] = s.snapshot.FetchedAt.UTC().Format(time.RFC3339)
	}
	return stats
}

func (s *Service) current() feed.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Service) today() string {
	return s.now().Format("2006-01-02")
}
