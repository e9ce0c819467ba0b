package chronicler

import "steakfeed/internal/core/record"

// GameRef is one entry of the games listing; only the id is used
type GameRef struct {
	GameID string `json:"gameId"`
}

// GamesPage is the games listing body. A missing data key decodes as empty
type GamesPage struct {
	Data []GameRef `json:"data"`
}

// UpdatesPage is one page of game updates, newest first.
// NextPage is empty on the last page
type UpdatesPage struct {
	NextPage string          `json:"nextPage"`
	Data     []record.Update `json:"data"`
}

// More reports whether another page follows this one
func (p UpdatesPage) More() bool { return p.NextPage != "" }
