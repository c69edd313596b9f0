package card

import (
	"math/rand"
	"time"
)

// coloredSpecials are the non-wild action kinds, two of each per color.
var coloredSpecials = [4]Kind{KindSkip, KindReverse, KindDraw2, KindDiscardAll}

// wildCounts is how many of each wild-family kind a fresh deck holds.
var wildCounts = []struct {
	kind  Kind
	count int
}{
	{KindWild, 4},
	{KindWild4, 4},
	{KindWildDiscardAll, 2},
}

// Size is the number of cards in a freshly built deck:
// per color one 0, two each of 1-9 and of the four colored specials,
// plus four wild, four wild4 and two wild_discard_all.
const Size = 4*(1+18+8) + 4 + 4 + 2

// Deck is a stack of cards; Draw removes from the top. The deck owns every
// card that is not in a hand or on the discard pile.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New builds a full, unshuffled deck. A nil rng falls back to a
// time-seeded source; tests inject a fixed seed for determinism.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d := &Deck{rng: rng}
	d.Reset()
	return d
}

// Reset rebuilds the full card set in a deterministic order, assigning
// sequential ids starting at zero.
func (d *Deck) Reset() {
	d.cards = make([]Card, 0, Size)
	id := 0

	for _, color := range PlayableColors {
		d.cards = append(d.cards, Card{ID: id, Color: color, Kind: KindNumber, Value: 0})
		id++

		for rank := 1; rank <= 9; rank++ {
			for i := 0; i < 2; i++ {
				d.cards = append(d.cards, Card{ID: id, Color: color, Kind: KindNumber, Value: rank})
				id++
			}
		}

		for _, kind := range coloredSpecials {
			for i := 0; i < 2; i++ {
				d.cards = append(d.cards, Card{ID: id, Color: color, Kind: kind, Value: specialValue})
				id++
			}
		}
	}

	for _, wc := range wildCounts {
		for i := 0; i < wc.count; i++ {
			d.cards = append(d.cards, Card{ID: id, Color: Wild, Kind: wc.kind, Value: wildValue})
			id++
		}
	}
}

// Shuffle applies a Fisher-Yates permutation; every ordering is equally
// likely given a uniform source.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card. ok is false when the deck is
// exhausted; there is no reshuffle from the discard pile.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	top := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return top, true
}

// Count returns the number of cards remaining.
func (d *Deck) Count() int {
	return len(d.cards)
}
