package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"steakfeed/internal/adapters/chronicler"
	"steakfeed/internal/core/record"
	perr "steakfeed/internal/platform/errors"
	"steakfeed/internal/services/ingest/domain"
)

// fakeUpstream serves pages from memory; keys are "<game>|<cursor>"
type fakeUpstream struct {
	mu sync.Mutex

	games    []string
	gamesErr []error

	pages    map[string]domain.UpdatesPage
	pageErrs map[string][]error

	calls map[string]int
}

func newFakeUpstream(games ...string) *fakeUpstream {
	return &fakeUpstream{
		games:    games,
		pages:    map[string]domain.UpdatesPage{},
		pageErrs: map[string][]error{},
		calls:    map[string]int{},
	}
}

// feed splits a game's updates (newest first) into pages of size n, each
// carrying a next cursor, followed by the empty terminal page
func (f *fakeUpstream) feed(game string, n int, us ...record.Update) {
	cursor := ""
	for i := 0; i < len(us); i += n {
		next := fmt.Sprintf("p%d", i/n+1)
		f.pages[game+"|"+cursor] = domain.UpdatesPage{NextPage: next, Data: us[i:min(i+n, len(us))]}
		cursor = next
	}
	f.pages[game+"|"+cursor] = domain.UpdatesPage{}
}

func (f *fakeUpstream) Games(ctx context.Context, _ string, _ int) (domain.GamesPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["games"]++
	if err := ctx.Err(); err != nil {
		return domain.GamesPage{}, err
	}
	if len(f.gamesErr) > 0 {
		err := f.gamesErr[0]
		f.gamesErr = f.gamesErr[1:]
		return domain.GamesPage{}, err
	}
	var p domain.GamesPage
	for _, g := range f.games {
		p.Data = append(p.Data, chronicler.GameRef{GameID: g})
	}
	return p, nil
}

func (f *fakeUpstream) Updates(ctx context.Context, game, page string) (domain.UpdatesPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := game + "|" + page
	f.calls[k]++
	if err := ctx.Err(); err != nil {
		return domain.UpdatesPage{}, err
	}
	if errs := f.pageErrs[k]; len(errs) > 0 {
		f.pageErrs[k] = errs[1:]
		return domain.UpdatesPage{}, errs[0]
	}
	return f.pages[k], nil
}

func (f *fakeUpstream) callsFor(k string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[k]
}

var errFlaky = perr.New(perr.ErrorCodeUnavailable, "upstream flaked")

// upd builds a complete update for game with the given hash and timestamp
func upd(game, hash, ts string) record.Update {
	d := map[string]any{}
	for _, f := range []string{
		"rules", "awayTeam", "homeTeam", "statsheet", "lastUpdate", "terminology",
		"awayTeamName", "homeTeamName", "awayTeamColor", "awayTeamEmoji", "homeTeamColor",
		"homeTeamEmoji", "awayBatterName", "homeBatterName", "awayPitcherName", "homePitcherName",
		"awayTeamNickname", "homeTeamNickname", "awayTeamSecondaryColor", "homeTeamSecondaryColor",
	} {
		d[f] = hash + "-" + f
	}
	for _, f := range []string{"shame", "finalized", "gameStart", "topOfInning", "gameComplete", "isPostseason"} {
		d[f] = false
	}
	for _, f := range []string{
		"day", "phase", "inning", "season", "weather", "awayOdds", "awayOuts", "homeOdds",
		"homeOuts", "awayBalls", "awayBases", "awayScore", "homeBalls", "homeBases", "homeScore",
		"playCount", "atBatBalls", "awayStrikes", "homeStrikes", "repeatCount", "seriesIndex",
		"atBatStrikes", "seriesLength", "halfInningOuts", "baserunnerCount", "halfInningScore",
		"awayTeamBatterCount", "homeTeamBatterCount",
	} {
		d[f] = json.Number("1")
	}
	for _, f := range []string{"awayPitcher", "homePitcher", "awayBatter", "homeBatter"} {
		d[f] = nil
	}
	for _, f := range []string{"outcomes", "baseRunners", "basesOccupied", "baseRunnerNames"} {
		d[f] = []any{}
	}
	d["lastUpdate"] = "update " + hash
	return record.Update{Hash: hash, Timestamp: ts, GameID: game, Data: d}
}

// flakyStore rejects the listed hashes on the first rejectFor calls
type flakyStore struct {
	inner     domain.ItemWriter
	reject    map[string]bool
	rejectFor int
	err       error
	errFor    int

	calls   int
	batches [][]string
}

func (s *flakyStore) BatchWrite(ctx context.Context, items []record.Item) ([]record.Item, error) {
	s.calls++
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Key()
	}
	s.batches = append(s.batches, keys)
	if s.calls <= s.errFor {
		return nil, s.err
	}

	var left, ok []record.Item
	for _, it := range items {
		if s.calls <= s.rejectFor && s.reject[it.Key()] {
			left = append(left, it)
			continue
		}
		ok = append(ok, it)
	}
	if s.inner != nil && len(ok) > 0 {
		if _, err := s.inner.BatchWrite(ctx, ok); err != nil {
			return nil, err
		}
	}
	return left, nil
}
