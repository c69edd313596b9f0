package card

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Color identifies the suit of a card. Wild is the nominal color of the
// wild family; the effective color of a played wild is chosen by the player.
type Color int

const (
	Red Color = iota
	Green
	Blue
	Yellow
	Wild
)

// PlayableColors lists the four colors a wild card may be declared as,
// in the tie-break order used by the computer player.
var PlayableColors = [4]Color{Red, Green, Blue, Yellow}

var colorNames = map[Color]string{
	Red:    "red",
	Green:  "green",
	Blue:   "blue",
	Yellow: "yellow",
	Wild:   "wild",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("COLOR_%d", int(c))
}

// ParseColor maps a wire color name back to a Color.
func ParseColor(s string) (Color, error) {
	for c, name := range colorNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Kind identifies what a card does when played. Number cards share a single
// kind and carry their rank in Card.Value.
type Kind int

const (
	KindNumber Kind = iota
	KindSkip
	KindReverse
	KindDraw2
	KindDiscardAll
	KindWild
	KindWild4
	KindWildDiscardAll
)

var kindNames = map[Kind]string{
	KindNumber:         "number",
	KindSkip:           "skip",
	KindReverse:        "reverse",
	KindDraw2:          "draw2",
	KindDiscardAll:     "discard_all",
	KindWild:           "wild",
	KindWild4:          "wild4",
	KindWildDiscardAll: "wild_discard_all",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// IsWild reports whether the kind belongs to the wild family.
func (k Kind) IsWild() bool {
	return k == KindWild || k == KindWild4 || k == KindWildDiscardAll
}

// Point values carried on the card for end-of-round scoring.
const (
	specialValue = 20
	wildValue    = 50
)

// Card is an immutable value. ID is unique within one deck build and is
// never reused. Value holds the rank for number cards, a fixed scoring
// weight otherwise.
type Card struct {
	ID    int
	Color Color
	Kind  Kind
	Value int
}

// Label is the wire name of the card face: the digit for number cards,
// the kind name otherwise.
func (c Card) Label() string {
	if c.Kind == KindNumber {
		return strconv.Itoa(c.Value)
	}
	return c.Kind.String()
}

// SameKind reports whether two cards share a face. Number cards only match
// number cards of the same rank.
func (c Card) SameKind(other Card) bool {
	if c.Kind != other.Kind {
		return false
	}
	if c.Kind == KindNumber {
		return c.Value == other.Value
	}
	return true
}

// Matches reports whether the card may legally be played on top of topCard
// while current is the effective color. Wilds are always legal; otherwise
// the card must match the effective color or the top card's face.
func (c Card) Matches(topCard Card, current Color) bool {
	if c.Color == Wild {
		return true
	}
	return c.Color == current || c.SameKind(topCard)
}

// wireCard is the JSON shape shared with clients.
type wireCard struct {
	ID    int    `json:"id"`
	Color string `json:"color"`
	Type  string `json:"type"`
	Value int    `json:"value"`
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireCard{
		ID:    c.ID,
		Color: c.Color.String(),
		Type:  c.Label(),
		Value: c.Value,
	})
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var w wireCard
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	color, err := ParseColor(w.Color)
	if err != nil {
		return err
	}
	kind := KindNumber
	if rank, convErr := strconv.Atoi(w.Type); convErr == nil {
		if rank < 0 || rank > 9 {
			return fmt.Errorf("number card rank %d out of range", rank)
		}
		w.Value = rank
	} else {
		found := false
		for k, name := range kindNames {
			if name == w.Type && k != KindNumber {
				kind = k
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown card type %q", w.Type)
		}
	}
	*c = Card{ID: w.ID, Color: color, Kind: kind, Value: w.Value}
	return nil
}

func (c Card) String() string {
	return fmt.Sprintf("%s %s", c.Color, c.Label())
}
