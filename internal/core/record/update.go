// Package record models Chronicler game updates and their typed storage items
package record

// CurrentHash is the key under which the latest known state of a game is published
const CurrentHash = "current"

// Update is one point-in-time snapshot of a game as delivered upstream.
// NextID is empty until the chain stitcher links it to its chronological successor.
// Data is shared between copies and must be treated as read-only
type Update struct {
	Hash      string         `json:"hash"`
	Timestamp string         `json:"timestamp"`
	GameID    string         `json:"gameId"`
	NextID    string         `json:"next_id,omitempty"`
	Data      map[string]any `json:"data"`
}

// Linked reports whether the update already points at a successor
func (u Update) Linked() bool { return u.NextID != "" }

// AsCurrent returns a copy of u published under CurrentHash
func (u Update) AsCurrent() Update {
	u.Hash = CurrentHash
	return u
}
