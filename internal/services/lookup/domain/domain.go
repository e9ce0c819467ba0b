// Package domain holds the lookup contracts and response shapes
package domain

import (
	"context"

	"steakfeed/internal/core/record"
)

// Reader looks stored items up by hash. A missing hash is a perr NotFound error
type Reader interface {
	Get(ctx context.Context, hash string) (record.Item, error)
}

// ServicePort is the lookup surface exposed to HTTP and to other modules
type ServicePort interface {
	Current(ctx context.Context) (record.Item, error)
	Get(ctx context.Context, hash string) (record.Item, error)
	Ring(ctx context.Context, hash string, limit int) (Ring, error)
}

// Ring walk limits
const (
	DefaultRingLimit = 50
	MaxRingLimit     = 500
)

// RingInput is the query of the ring endpoint
type RingInput struct {
	Limit int `query:"limit" default:"50" validate:"min=1,max=500" example:"50"`
}

// Stop says why a ring walk ended
type Stop string

// Walk outcomes
const (
	// StopClosed means the walk came back to its first hash
	StopClosed Stop = "closed"
	// StopMissing means a next_id pointed at a hash that is not stored
	StopMissing Stop = "missing"
	// StopRevisit means the walk reached an item it had already returned without passing the start
	StopRevisit Stop = "revisit"
	// StopLimit means the walk returned limit items before finishing
	StopLimit Stop = "limit"
)

// Ring is the result of following next_id links from one item
type Ring struct {
	Start string        `json:"start" example:"current"`
	Stop  Stop          `json:"stop" example:"closed"`
	Next  string        `json:"next,omitempty"`
	Items []record.Item `json:"-"`
}
