package record

import (
	"fmt"
	"math"
	"strconv"

	"steakfeed/internal/core/normalize"
	perr "steakfeed/internal/platform/errors"
)

// Field layout of the data block, grouped by storage kind
var (
	stringFields = []string{
		"rules", "awayTeam", "homeTeam", "statsheet", "lastUpdate", "terminology",
		"awayTeamName", "homeTeamName", "awayTeamColor", "awayTeamEmoji", "homeTeamColor",
		"homeTeamEmoji", "awayBatterName", "homeBatterName", "awayPitcherName", "homePitcherName",
		"awayTeamNickname", "homeTeamNickname", "awayTeamSecondaryColor", "homeTeamSecondaryColor",
	}

	boolFields = []string{
		"shame", "finalized", "gameStart", "topOfInning", "gameComplete", "isPostseason",
	}

	numberFields = []string{
		"day", "phase", "inning", "season", "weather", "awayOdds", "awayOuts", "homeOdds",
		"homeOuts", "awayBalls", "awayBases", "awayScore", "homeBalls", "homeBases", "homeScore",
		"playCount", "atBatBalls", "awayStrikes", "homeStrikes", "repeatCount", "seriesIndex",
		"atBatStrikes", "seriesLength", "halfInningOuts", "baserunnerCount", "halfInningScore",
		"awayTeamBatterCount", "homeTeamBatterCount",
	}

	// null becomes ""
	nullableStringFields = []string{"awayPitcher", "homePitcher", "awayBatter", "homeBatter"}

	// written only when non-empty
	listFields = []struct {
		name string
		elem Kind
	}{
		{"outcomes", KindS},
		{"baseRunners", KindS},
		{"basesOccupied", KindN},
		{"baseRunnerNames", KindS},
	}
)

// MissingFieldError reports a required field absent from an update
type MissingFieldError struct {
	Hash  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("update %q: missing field %q", e.Hash, e.Field)
}

// FieldTypeError reports a field whose value cannot be stored as its expected kind
type FieldTypeError struct {
	Hash  string
	Field string
	Want  Kind
	Got   any
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("update %q: field %q wants %s, got %T", e.Hash, e.Field, e.Want, e.Got)
}

func schemaErr(cause error, field string) error {
	return perr.WithOp(perr.WithField(perr.Wrap(cause, perr.ErrorCodeSchema, "transform update"), field), "record.Transform")
}

// Transform maps a linked update to its storage item. It performs no I/O.
// A missing or mistyped field is a terminal schema error carrying ErrorCodeSchema
func Transform(u Update) (Item, error) {
	top := []struct{ name, val string }{
		{"hash", u.Hash},
		{"timestamp", u.Timestamp},
		{"gameId", u.GameID},
		{"next_id", u.NextID},
	}
	it := make(Item, len(top)+len(stringFields)+len(boolFields)+len(numberFields)+len(nullableStringFields)+len(listFields))
	for _, f := range top {
		// present but empty counts as absent; an empty key can be neither stored nor linked
		if f.val == "" {
			return nil, schemaErr(&MissingFieldError{Hash: u.Hash, Field: f.name}, f.name)
		}
		it[f.name] = S(f.val)
	}
	if u.Data == nil {
		return nil, schemaErr(&MissingFieldError{Hash: u.Hash, Field: "data"}, "data")
	}

	get := func(name string) (any, error) {
		v, ok := u.Data[name]
		if !ok {
			return nil, schemaErr(&MissingFieldError{Hash: u.Hash, Field: name}, name)
		}
		return v, nil
	}
	mistyped := func(name string, want Kind, got any) error {
		return schemaErr(&FieldTypeError{Hash: u.Hash, Field: name, Want: want, Got: got}, name)
	}

	for _, name := range stringFields {
		v, err := get(name)
		if err != nil {
			return nil, err
		}
		s, ok := v.(string)
		if !ok {
			return nil, mistyped(name, KindS, v)
		}
		it[name] = S(normalize.Clean(s))
	}

	for _, name := range boolFields {
		v, err := get(name)
		if err != nil {
			return nil, err
		}
		b, ok := v.(bool)
		if !ok {
			return nil, mistyped(name, KindBOOL, v)
		}
		it[name] = Bool(b)
	}

	for _, name := range numberFields {
		v, err := get(name)
		if err != nil {
			return nil, err
		}
		n, ok := numberText(v)
		if !ok {
			return nil, mistyped(name, KindN, v)
		}
		it[name] = N(n)
	}

	for _, name := range nullableStringFields {
		v, err := get(name)
		if err != nil {
			return nil, err
		}
		switch s := v.(type) {
		case nil:
			it[name] = S("")
		case string:
			it[name] = S(normalize.Clean(s))
		default:
			return nil, mistyped(name, KindS, v)
		}
	}

	for _, f := range listFields {
		v, err := get(f.name)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		elems, ok := v.([]any)
		if !ok {
			return nil, mistyped(f.name, KindL, v)
		}
		if len(elems) == 0 {
			continue
		}
		l := make([]Attr, len(elems))
		for i, e := range elems {
			a, ok := listElem(f.elem, e)
			if !ok {
				return nil, mistyped(fmt.Sprintf("%s[%d]", f.name, i), f.elem, e)
			}
			l[i] = a
		}
		it[f.name] = List(l...)
	}

	return it, nil
}

func listElem(k Kind, v any) (Attr, bool) {
	if k == KindN {
		n, ok := numberText(v)
		return N(n), ok
	}
	s, ok := v.(string)
	return S(normalize.Clean(s)), ok
}

// numberLike covers json.Number and decoders that keep number text the same way
type numberLike interface {
	Float64() (float64, error)
	String() string
}

// numberText renders a decoded JSON number as decimal text
func numberText(v any) (string, bool) {
	switch n := v.(type) {
	case numberLike:
		if _, err := n.Float64(); err != nil {
			return "", false
		}
		return n.String(), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "", false
		}
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case string:
		// numeric text from upstream is accepted as-is
		if _, err := strconv.ParseFloat(n, 64); err != nil {
			return "", false
		}
		return n, true
	default:
		return "", false
	}
}
