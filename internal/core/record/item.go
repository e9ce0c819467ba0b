package record

import (
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Kind is the storage type tag of an attribute
type Kind string

// Attribute kinds, named after their DynamoDB descriptors
const (
	KindS    Kind = "S"
	KindN    Kind = "N"
	KindBOOL Kind = "BOOL"
	KindL    Kind = "L"
)

// Attr is one typed attribute value. Numbers keep their decimal text
type Attr struct {
	Kind Kind
	S    string
	N    string
	BOOL bool
	L    []Attr
}

// S builds a string attribute
func S(v string) Attr { return Attr{Kind: KindS, S: v} }

// N builds a numeric attribute from its decimal text
func N(v string) Attr { return Attr{Kind: KindN, N: v} }

// Bool builds a boolean attribute
func Bool(v bool) Attr { return Attr{Kind: KindBOOL, BOOL: v} }

// List builds a list attribute
func List(vs ...Attr) Attr { return Attr{Kind: KindL, L: vs} }

// Item is the flat typed attribute map persisted per hash
type Item map[string]Attr

// Key returns the primary key of the item
func (it Item) Key() string { return it["hash"].S }

// NextID returns the forward link of the item, empty when absent
func (it Item) NextID() string { return it["next_id"].S }

// GameID returns the game the item belongs to
func (it Item) GameID() string { return it["gameId"].S }

// Timestamp returns the upstream timestamp text
func (it Item) Timestamp() string { return it["timestamp"].S }

// Plain converts the item to untyped JSON-friendly values; numbers stay json.Number
func (it Item) Plain() map[string]any {
	out := make(map[string]any, len(it))
	for k, a := range it {
		out[k] = a.Plain()
	}
	return out
}

// Plain converts one attribute to its untyped value
func (a Attr) Plain() any {
	switch a.Kind {
	case KindS:
		return a.S
	case KindN:
		return json.Number(a.N)
	case KindBOOL:
		return a.BOOL
	case KindL:
		out := make([]any, len(a.L))
		for i, v := range a.L {
			out[i] = v.Plain()
		}
		return out
	default:
		return nil
	}
}

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalJSON renders the attribute in DynamoDB JSON, e.g. {"N":"3"}
func (a Attr) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case KindS:
		return codec.Marshal(map[string]string{"S": a.S})
	case KindN:
		return codec.Marshal(map[string]string{"N": a.N})
	case KindBOOL:
		return codec.Marshal(map[string]bool{"BOOL": a.BOOL})
	case KindL:
		l := a.L
		if l == nil {
			l = []Attr{}
		}
		return codec.Marshal(map[string][]Attr{"L": l})
	default:
		return nil, fmt.Errorf("record: unknown attribute kind %q", a.Kind)
	}
}

// UnmarshalJSON parses DynamoDB JSON
func (a *Attr) UnmarshalJSON(b []byte) error {
	var raw map[string]jsoniter.RawMessage
	if err := codec.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("record: attribute wants exactly one type descriptor, got %d", len(raw))
	}
	for k, v := range raw {
		switch Kind(k) {
		case KindS:
			a.Kind = KindS
			return codec.Unmarshal(v, &a.S)
		case KindN:
			a.Kind = KindN
			return codec.Unmarshal(v, &a.N)
		case KindBOOL:
			a.Kind = KindBOOL
			return codec.Unmarshal(v, &a.BOOL)
		case KindL:
			a.Kind = KindL
			a.L = []Attr{}
			return codec.Unmarshal(v, &a.L)
		default:
			return fmt.Errorf("record: unsupported type descriptor %q", k)
		}
	}
	return nil
}

// EncodeItem serializes an item as DynamoDB JSON
func EncodeItem(it Item) ([]byte, error) { return codec.Marshal(it) }

// DecodeItem parses an item written by EncodeItem
func DecodeItem(b []byte) (Item, error) {
	var it Item
	if err := codec.Unmarshal(b, &it); err != nil {
		return nil, err
	}
	return it, nil
}
