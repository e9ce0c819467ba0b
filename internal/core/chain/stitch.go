// Package chain links a game's newest-first update stream into a forward ring.
//
// Updates arrive newest first, so a record can only be linked once the record
// after it in time has been seen. The stitcher holds back the first arrival
// (the newest update) until the stream ends and then closes the ring through it.
//
//	arrival  U1 U2 U3 (U1 newest)
//	emitted  U2->U1  U3->U2
//	closing  U1->U3  current=U3
package chain

import "steakfeed/internal/core/record"

type state uint8

const (
	stateEmpty state = iota
	stateHolding
)

// Closing is what a non-empty stream yields once it ends
type Closing struct {
	// Ring is the held-back newest update, now linked to the oldest one
	Ring record.Update
	// Sentinel is a copy of the chronologically oldest update keyed by record.CurrentHash.
	// It must be persisted only after every ring member is durable
	Sentinel record.Update
}

// Stitcher is the per-game fold state. The zero value is ready for a new game
type Stitcher struct {
	st     state
	held   record.Update
	nextID string
	oldest record.Update
	seen   int
}

// Push consumes the next arrival. It returns the update with its link set when
// one can be emitted; the first arrival of a game is held and yields false
func (s *Stitcher) Push(u record.Update) (record.Update, bool) {
	s.seen++
	switch s.st {
	case stateEmpty:
		s.st = stateHolding
		s.held = u
		s.nextID = u.Hash
		s.oldest = u
		return record.Update{}, false
	default:
		u.NextID = s.nextID
		s.nextID = u.Hash
		s.oldest = u
		return u, true
	}
}

// Close ends the stream and resets the stitcher for the next game.
// It reports false when nothing was pushed
func (s *Stitcher) Close() (Closing, bool) {
	if s.st == stateEmpty {
		*s = Stitcher{}
		return Closing{}, false
	}
	ring := s.held
	ring.NextID = s.nextID

	oldest := s.oldest
	if s.seen == 1 {
		// the held update is also the oldest; its sentinel carries the self link
		oldest = ring
	}
	c := Closing{Ring: ring, Sentinel: oldest.AsCurrent()}
	*s = Stitcher{}
	return c, true
}

// Seen returns how many updates were pushed since the last Close
func (s *Stitcher) Seen() int { return s.seen }

// Stitch folds a complete stream in one call and returns every ring member in
// emission order followed by the sentinel. An empty stream returns nil
func Stitch(updates []record.Update) []record.Update {
	var s Stitcher
	out := make([]record.Update, 0, len(updates)+1)
	for _, u := range updates {
		if l, ok := s.Push(u); ok {
			out = append(out, l)
		}
	}
	c, ok := s.Close()
	if !ok {
		return nil
	}
	return append(out, c.Ring, c.Sentinel)
}
