package service

import (
	"context"
	"iter"
	"time"

	"steakfeed/internal/adapters/chronicler"
	"steakfeed/internal/core/record"
	perr "steakfeed/internal/platform/errors"
	"steakfeed/internal/platform/logger"
	"steakfeed/internal/platform/retry"
	"steakfeed/internal/services/ingest/domain"
)

// Source turns the paginated upstream into lazy sequences.
// Each page request is retried with a fixed interval; exhausting the
// attempts ends the sequence with a *domain.TruncatedError
type Source struct {
	up     domain.Upstream
	policy retry.Policy
}

// NewSource builds a Source. maxAttempts <= 0 means 10, interval <= 0 means 1s
func NewSource(up domain.Upstream, maxAttempts int, interval time.Duration, sleep retry.SleepFunc) *Source {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Source{
		up: up,
		policy: retry.Policy{
			MaxAttempts: maxAttempts,
			Delay:       retry.Fixed(interval),
			Retryable:   chronicler.IsTransient,
			Sleep:       sleep,
		},
	}
}

// fetch runs one request under the policy and logs each retry
func (s *Source) fetch(ctx context.Context, what string, fn func(context.Context) error) error {
	p := s.policy
	p.OnRetry = func(attempt int, wait time.Duration, err error) {
		logger.C(ctx).Warn().Err(err).Str("request", what).Int("attempt", attempt).Dur("retry_in", wait).Msg("upstream request failed, retrying")
	}
	return p.Do(ctx, fn)
}

// end classifies a failed fetch: cancellation passes through untouched,
// anything else truncates the stream
func end(ctx context.Context, scope, id string, err error) error {
	if perr.IsCanceled(err) {
		return err
	}
	logger.C(ctx).Warn().Err(err).Str("scope", scope).Str("id", id).Msg("upstream gave up, ending stream early")
	return &domain.TruncatedError{Scope: scope, ID: id, Err: err}
}

// Games yields the game ids of a team's season in server order
func (s *Source) Games(ctx context.Context, team string, season int) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var page domain.GamesPage
		err := s.fetch(ctx, "games", func(ctx context.Context) error {
			p, err := s.up.Games(ctx, team, season)
			if err != nil {
				return err
			}
			page = p
			return nil
		})
		if err != nil {
			yield("", end(ctx, "games", team, err))
			return
		}
		for _, g := range page.Data {
			if g.GameID == "" {
				continue
			}
			if !yield(g.GameID, nil) {
				return
			}
		}
	}
}

// Updates yields a game's updates newest first, page by page. A page
// without a next cursor ends the stream and its records are not yielded.
// A page that echoes its own cursor with no records also ends the stream
func (s *Source) Updates(ctx context.Context, gameID string) iter.Seq2[record.Update, error] {
	return func(yield func(record.Update, error) bool) {
		cursor := ""
		for {
			var page domain.UpdatesPage
			err := s.fetch(ctx, "updates", func(ctx context.Context) error {
				p, err := s.up.Updates(ctx, gameID, cursor)
				if err != nil {
					return err
				}
				page = p
				return nil
			})
			if err != nil {
				yield(record.Update{}, end(ctx, "updates", gameID, err))
				return
			}
			if !page.More() {
				return
			}
			if page.NextPage == cursor && len(page.Data) == 0 {
				logger.C(ctx).Warn().Str("cursor", cursor).Msg("upstream cursor stalled, ending stream")
				return
			}
			cursor = page.NextPage
			for _, u := range page.Data {
				if !yield(u, nil) {
					return
				}
			}
		}
	}
}
