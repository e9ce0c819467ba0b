// Package domain holds the ports and data shapes of the ingest pipeline
package domain

import (
	"errors"
	"fmt"

	"steakfeed/internal/adapters/chronicler"
)

type (
	// GamesPage re-exports the upstream games listing shape
	GamesPage = chronicler.GamesPage
	// UpdatesPage re-exports the upstream updates page shape
	UpdatesPage = chronicler.UpdatesPage
)

// Summary describes one ingest run
type Summary struct {
	RunID string `json:"run_id"`
	// Games counts game ids enumerated
	Games int `json:"games"`
	// EmptyGames counts games whose update stream was empty
	EmptyGames int `json:"empty_games"`
	// Updates counts raw updates received
	Updates int `json:"updates"`
	// Writes counts unique items the store accepted
	Writes int `json:"writes"`
	// Flushes counts batch flushes that completed
	Flushes int `json:"flushes"`
	// Truncated counts streams cut short after exhausting retries
	Truncated int `json:"truncated"`
}

// ErrTruncated marks a stream that ended early because upstream kept failing
var ErrTruncated = errors.New("ingest: stream truncated")

// TruncatedError says which stream ended early and why
type TruncatedError struct {
	// Scope is "games" or "updates"
	Scope string
	// ID is the team for games or the game id for updates
	ID  string
	Err error
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("ingest: %s stream for %s truncated: %v", e.Scope, e.ID, e.Err)
}

// Unwrap exposes the upstream failure
func (e *TruncatedError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrTruncated) match
func (e *TruncatedError) Is(target error) bool { return target == ErrTruncated }
