package feed

import (
	"context"
	"sync"
	"time"

	"github.com/okian/meeple/internal/config"
	"github.com/okian/meeple/internal/domain/model"
	"github.com/okian/meeple/internal/domain/normalize"
	"github.com/okian/meeple/pkg/metrics"
)

// Snapshot is one consistent load of all four feeds, already normalized.
type Snapshot struct {
	Players  []model.Player
	Games    []model.Game
	Schedule []model.ScheduleRow
	Matches  []model.MatchRow

	// Failed marks feeds whose fetch errored this load. Rows for a failed
	// feed are absent, not deliberately empty.
	Failed map[string]bool

	FetchedAt time.Time
}

// Fetcher is the raw-record source the Loader consumes. Client implements
// it; tests swap in stubs.
type Fetcher interface {
	Fetch(ctx context.Context, feed string) ([]map[string]string, error)
}

// Loader fans out the four feed fetches and normalizes the results.
type Loader struct {
	fetcher    Fetcher
	normalizer *normalize.Normalizer
}

// LoaderOption applies a configuration option to the Loader.
type LoaderOption func(*Loader)

// WithNormalizer sets a custom normalizer, e.g. with extra field aliases.
func WithNormalizer(n *normalize.Normalizer) LoaderOption {
	return func(l *Loader) {
		if n != nil {
			l.normalizer = n
		}
	}
}

// NewLoader creates a Loader over a Fetcher.
func NewLoader(fetcher Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher:    fetcher,
		normalizer: normalize.New(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load fetches the four feeds in parallel, waits for all of them, and
// normalizes the rows. The fetches have no ordering dependency; a failed
// feed contributes no rows and is marked in Snapshot.Failed.
func (l *Loader) Load(ctx context.Context) Snapshot {
	feeds := []string{config.FeedPlayers, config.FeedGames, config.FeedSchedule, config.FeedMatches}
	raw := make(map[string][]map[string]string, len(feeds))
	failed := make(map[string]bool, len(feeds))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, f := range feeds {
		wg.Add(1)
		go func(feed string) {
			defer wg.Done()
			rows, err := l.fetcher.Fetch(ctx, feed)
			mu.Lock()
			raw[feed] = rows
			if err != nil {
				failed[feed] = true
			}
			mu.Unlock()
		}(f)
	}
	wg.Wait()

	snap := Snapshot{Failed: failed, FetchedAt: time.Now()}
	var dropped int

	snap.Players, dropped = l.normalizer.Players(raw[config.FeedPlayers])
	recordFeed(config.FeedPlayers, len(snap.Players), dropped)

	snap.Games, dropped = l.normalizer.Games(raw[config.FeedGames])
	recordFeed(config.FeedGames, len(snap.Games), dropped)

	snap.Schedule, dropped = l.normalizer.Schedule(raw[config.FeedSchedule])
	recordFeed(config.FeedSchedule, len(snap.Schedule), dropped)

	snap.Matches, dropped = l.normalizer.Matches(raw[config.FeedMatches])
	recordFeed(config.FeedMatches, len(snap.Matches), dropped)

	return snap
}

func recordFeed(feed string, loaded, dropped int) {
	metrics.UpdateFeedRowsLoaded(feed, loaded)
	metrics.RecordRowsDropped(feed, "malformed", dropped)
}
