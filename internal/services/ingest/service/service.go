// Package service provides the ingest pipeline: enumerate games, fetch
// their updates, stitch each game into a ring and persist it in batches
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"steakfeed/internal/core/chain"
	"steakfeed/internal/core/record"
	"steakfeed/internal/platform/logger"
	"steakfeed/internal/platform/retry"
	"steakfeed/internal/services/ingest/domain"
)

// Config holds the run parameters of the ingest service
type Config struct {
	Team   string
	Season int

	// Upstream retry; <=0 -> 10 attempts, 1s apart
	MaxAttempts   int
	RetryInterval time.Duration

	// Writer batching; <=0 -> 25 items, 1s backoff unit
	BatchSize   int
	BackoffUnit time.Duration

	// Sleep replaces every wait of the run; nil waits on timers
	Sleep retry.SleepFunc
}

// Service implements domain.RunnerPort
type Service struct {
	Upstream domain.Upstream
	Store    domain.ItemWriter
	Cfg      Config

	newID func() string
}

// New constructs the ingest service
func New(up domain.Upstream, store domain.ItemWriter, cfg Config) *Service {
	if up == nil {
		panic("ingest.Service requires a non nil Upstream")
	}
	if store == nil {
		panic("ingest.Service requires a non nil ItemWriter")
	}
	return &Service{Upstream: up, Store: store, Cfg: cfg, newID: uuid.NewString}
}

// Run ingests every game of the configured team and season.
// The summary is returned alongside any error so partial progress is visible
func (s *Service) Run(ctx context.Context) (domain.Summary, error) {
	sum := domain.Summary{RunID: s.newID()}
	ctx = logger.WithRun(ctx, sum.RunID)
	log := logger.C(ctx)

	src := NewSource(s.Upstream, s.Cfg.MaxAttempts, s.Cfg.RetryInterval, s.Cfg.Sleep)
	w := NewWriter(s.Store, WriterOptions{
		Capacity:    s.Cfg.BatchSize,
		BackoffUnit: s.Cfg.BackoffUnit,
		Sleep:       s.Cfg.Sleep,
	})

	log.Info().Str("team", s.Cfg.Team).Int("season", s.Cfg.Season).Msg("ingest run started")
	start := time.Now()

	err := s.run(ctx, src, w, &sum)

	sum.Writes = w.Total()
	sum.Flushes = w.Flushes()
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Int("games", sum.Games).
		Int("empty_games", sum.EmptyGames).
		Int("updates", sum.Updates).
		Int("writes", sum.Writes).
		Int("flushes", sum.Flushes).
		Int("write_retries", w.Retries()).
		Int("truncated", sum.Truncated).
		Dur("took", time.Since(start)).
		Msg("ingest run finished")
	return sum, err
}

func (s *Service) run(ctx context.Context, src *Source, w *Writer, sum *domain.Summary) error {
	for gameID, err := range src.Games(ctx, s.Cfg.Team, s.Cfg.Season) {
		if err != nil {
			if !truncated(err, sum) {
				return err
			}
			break
		}
		sum.Games++
		if err := s.game(logger.WithGame(ctx, gameID), src, w, gameID, sum); err != nil {
			return err
		}
	}
	return w.Flush(ctx)
}

// game stitches one game's stream. The newest update is written last with
// its ring link, then the queue is flushed so the sentinel never lands
// ahead of the ring it points into
func (s *Service) game(ctx context.Context, src *Source, w *Writer, gameID string, sum *domain.Summary) error {
	var st chain.Stitcher
	for u, err := range src.Updates(ctx, gameID) {
		if err != nil {
			if !truncated(err, sum) {
				return err
			}
			break
		}
		sum.Updates++
		if out, ok := st.Push(u); ok {
			if err := put(ctx, w, out); err != nil {
				return err
			}
		}
	}

	n := st.Seen()
	c, ok := st.Close()
	if !ok {
		sum.EmptyGames++
		logger.C(ctx).Debug().Msg("game has no updates")
		return nil
	}
	if err := put(ctx, w, c.Ring); err != nil {
		return err
	}
	if err := w.Flush(ctx); err != nil {
		return err
	}
	if err := put(ctx, w, c.Sentinel); err != nil {
		return err
	}
	logger.C(ctx).Debug().Int("updates", n).Msg("game stitched")
	return nil
}

func put(ctx context.Context, w *Writer, u record.Update) error {
	it, err := record.Transform(u)
	if err != nil {
		return err
	}
	return w.Enqueue(ctx, it)
}

// truncated counts an early end of stream; any other error is fatal
func truncated(err error, sum *domain.Summary) bool {
	if errors.Is(err, domain.ErrTruncated) {
		sum.Truncated++
		return true
	}
	return false
}
