package game

import "github.com/unolabs/uno-server-go/internal/card"

// Player holds one seat in a match. Hand order is insertion order; rules
// never depend on it but clients reference cards by index, so it must be
// stable between snapshots.
type Player struct {
	Name     string
	Computer bool
	Hand     []card.Card
}

// NewPlayer creates a player with an empty hand.
func NewPlayer(name string, computer bool) *Player {
	return &Player{
		Name:     name,
		Computer: computer,
		Hand:     make([]card.Card, 0, 7),
	}
}

// Draw pulls up to n cards from the deck into the hand. An exhausted deck
// ends the draw early without error; the player simply receives fewer
// cards. There is no reshuffle from the discard pile.
func (p *Player) Draw(d *card.Deck, n int) {
	for i := 0; i < n; i++ {
		c, ok := d.Draw()
		if !ok {
			return
		}
		p.Hand = append(p.Hand, c)
	}
}

// Play removes and returns the card at index i.
func (p *Player) Play(i int) (card.Card, error) {
	if i < 0 || i >= len(p.Hand) {
		return card.Card{}, ErrInvalidCardIndex
	}
	c := p.Hand[i]
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	return c, nil
}

// HandSize returns the number of cards held.
func (p *Player) HandSize() int {
	return len(p.Hand)
}

// FindPlayable is the complete computer strategy, a fixed priority scan:
// first card matching the effective color, else first non-wild card
// matching the top card's face, else first wild-family card. No lookahead.
func (p *Player) FindPlayable(topCard card.Card, current card.Color) (int, bool) {
	for i, c := range p.Hand {
		if c.Color == current {
			return i, true
		}
	}
	for i, c := range p.Hand {
		if !c.Kind.IsWild() && c.SameKind(topCard) {
			return i, true
		}
	}
	for i, c := range p.Hand {
		if c.Kind.IsWild() {
			return i, true
		}
	}
	return 0, false
}

// PickWildColor chooses the declared color for a wild play: the color with
// the most matching non-wild cards left in hand. Ties go to the first
// maximal color in red/green/blue/yellow order, so an empty or all-wild
// hand yields red.
func (p *Player) PickWildColor() card.Color {
	var counts [4]int
	for _, c := range p.Hand {
		if c.Color != card.Wild {
			counts[c.Color]++
		}
	}

	best := card.PlayableColors[0]
	for _, color := range card.PlayableColors[1:] {
		if counts[color] > counts[best] {
			best = color
		}
	}
	return best
}
