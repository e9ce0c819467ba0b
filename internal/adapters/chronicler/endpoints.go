package chronicler

import (
	"context"
	"net/url"
	"strconv"
)

// Games lists the games a team played in a season, most recent first
func (c *Client) Games(ctx context.Context, team string, season int) (GamesPage, error) {
	q := url.Values{}
	q.Set("order", "desc")
	q.Set("team", team)
	q.Set("season", strconv.Itoa(season))

	var out GamesPage
	if err := c.getJSON(ctx, "/games", q, &out); err != nil {
		return GamesPage{}, err
	}
	return out, nil
}

// Updates fetches one page of updates for a game. An empty page cursor
// requests the first page
func (c *Client) Updates(ctx context.Context, gameID, page string) (UpdatesPage, error) {
	q := url.Values{}
	q.Set("order", "desc")
	q.Set("game", gameID)
	if page != "" {
		q.Set("page", page)
	}

	var out UpdatesPage
	if err := c.getJSON(ctx, "/games/updates", q, &out); err != nil {
		return UpdatesPage{}, err
	}
	return out, nil
}
