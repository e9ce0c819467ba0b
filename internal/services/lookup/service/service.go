// Package service contains lookup workflows over the stored updates
package service

import (
	"context"
	"strings"

	"steakfeed/internal/core/record"
	perr "steakfeed/internal/platform/errors"
	"steakfeed/internal/platform/logger"
	"steakfeed/internal/services/lookup/domain"
)

// Svc implements domain.ServicePort
type Svc struct {
	r domain.Reader
}

var _ domain.ServicePort = (*Svc)(nil)

// New constructs a lookup service
func New(r domain.Reader) *Svc {
	if r == nil {
		panic("lookup.Service requires a non nil Reader")
	}
	return &Svc{r: r}
}

// Current returns the sentinel copy of the latest game's oldest update
func (s *Svc) Current(ctx context.Context) (record.Item, error) {
	return s.Get(ctx, record.CurrentHash)
}

// Get returns the item stored under hash
func (s *Svc) Get(ctx context.Context, hash string) (record.Item, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return nil, perr.WithField(perr.New(perr.ErrorCodeInvalidArgument, "hash is required"), "hash")
	}
	return s.r.Get(ctx, hash)
}

// Ring follows next_id from hash until the walk closes, breaks or returns limit items.
// The start itself must exist; a missing later link ends the walk with StopMissing
func (s *Svc) Ring(ctx context.Context, hash string, limit int) (domain.Ring, error) {
	if limit < 1 || limit > domain.MaxRingLimit {
		return domain.Ring{}, perr.WithField(
			perr.Newf(perr.ErrorCodeValidation, "limit must be between 1 and %d", domain.MaxRingLimit), "limit")
	}
	first, err := s.Get(ctx, hash)
	if err != nil {
		return domain.Ring{}, err
	}

	ring := domain.Ring{Start: first.Key(), Items: []record.Item{first}}
	seen := map[string]bool{first.Key(): true}
	next := first.NextID()
	for {
		switch {
		case next == "":
			ring.Stop = domain.StopMissing
		case next == ring.Start:
			ring.Stop = domain.StopClosed
		case seen[next]:
			ring.Stop, ring.Next = domain.StopRevisit, next
		case len(ring.Items) >= limit:
			ring.Stop, ring.Next = domain.StopLimit, next
		}
		if ring.Stop != "" {
			break
		}

		it, err := s.r.Get(ctx, next)
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			ring.Stop, ring.Next = domain.StopMissing, next
			break
		}
		if err != nil {
			return domain.Ring{}, err
		}
		ring.Items = append(ring.Items, it)
		seen[next] = true
		next = it.NextID()
	}

	logger.C(ctx).Debug().
		Str("start", ring.Start).
		Str("stop", string(ring.Stop)).
		Int("items", len(ring.Items)).
		Msg("ring walk")
	return ring, nil
}
