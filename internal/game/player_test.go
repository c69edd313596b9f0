package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unolabs/uno-server-go/internal/card"
)

func TestPlayerDrawLenientOnExhaustion(t *testing.T) {
	d := card.New(rand.New(rand.NewSource(1)))
	for d.Count() > 3 {
		_, ok := d.Draw()
		require.True(t, ok)
	}

	p := NewPlayer("Alice", false)
	p.Draw(d, 7)

	assert.Equal(t, 3, p.HandSize(), "draw should stop silently when the deck runs dry")
	assert.Equal(t, 0, d.Count())
}

func TestPlayerPlay(t *testing.T) {
	p := NewPlayer("Alice", false)
	p.Hand = []card.Card{
		{ID: 1, Color: card.Red, Kind: card.KindNumber, Value: 3},
		{ID: 2, Color: card.Blue, Kind: card.KindSkip, Value: 20},
		{ID: 3, Color: card.Green, Kind: card.KindNumber, Value: 8},
	}

	c, err := p.Play(1)
	require.NoError(t, err)
	assert.Equal(t, 2, c.ID)
	assert.Equal(t, []int{1, 3}, []int{p.Hand[0].ID, p.Hand[1].ID}, "hand order must stay stable")

	_, err = p.Play(2)
	assert.ErrorIs(t, err, ErrInvalidCardIndex)
	_, err = p.Play(-1)
	assert.ErrorIs(t, err, ErrInvalidCardIndex)
}

func TestFindPlayablePriority(t *testing.T) {
	top := card.Card{Color: card.Blue, Kind: card.KindNumber, Value: 5}

	t.Run("color match wins", func(t *testing.T) {
		p := NewPlayer("Bot", true)
		p.Hand = []card.Card{
			{Color: card.Wild, Kind: card.KindWild},
			{Color: card.Green, Kind: card.KindNumber, Value: 5},
			{Color: card.Red, Kind: card.KindNumber, Value: 2},
		}
		idx, ok := p.FindPlayable(top, card.Red)
		require.True(t, ok)
		assert.Equal(t, 2, idx, "first card matching the effective color")
	})

	t.Run("kind match when no color", func(t *testing.T) {
		p := NewPlayer("Bot", true)
		p.Hand = []card.Card{
			{Color: card.Wild, Kind: card.KindWild},
			{Color: card.Green, Kind: card.KindNumber, Value: 5},
		}
		idx, ok := p.FindPlayable(top, card.Red)
		require.True(t, ok)
		assert.Equal(t, 1, idx, "first non-wild card matching the top face")
	})

	t.Run("wild as last resort", func(t *testing.T) {
		p := NewPlayer("Bot", true)
		p.Hand = []card.Card{
			{Color: card.Green, Kind: card.KindNumber, Value: 7},
			{Color: card.Wild, Kind: card.KindWild4},
		}
		idx, ok := p.FindPlayable(top, card.Red)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
	})

	t.Run("nothing playable", func(t *testing.T) {
		p := NewPlayer("Bot", true)
		p.Hand = []card.Card{
			{Color: card.Green, Kind: card.KindNumber, Value: 7},
			{Color: card.Yellow, Kind: card.KindSkip, Value: 20},
		}
		_, ok := p.FindPlayable(top, card.Red)
		assert.False(t, ok)
	})

	t.Run("number kind means same rank", func(t *testing.T) {
		p := NewPlayer("Bot", true)
		p.Hand = []card.Card{
			{Color: card.Green, Kind: card.KindNumber, Value: 4},
		}
		_, ok := p.FindPlayable(top, card.Red)
		assert.False(t, ok, "a green 4 does not match a blue 5")
	})
}

func TestPickWildColor(t *testing.T) {
	p := NewPlayer("Bot", true)
	p.Hand = []card.Card{
		{Color: card.Yellow, Kind: card.KindNumber, Value: 1},
		{Color: card.Yellow, Kind: card.KindNumber, Value: 2},
		{Color: card.Blue, Kind: card.KindSkip, Value: 20},
		{Color: card.Wild, Kind: card.KindWild},
	}
	assert.Equal(t, card.Yellow, p.PickWildColor())

	// Tie between green and yellow resolves in red/green/blue/yellow order.
	p.Hand = []card.Card{
		{Color: card.Green, Kind: card.KindNumber, Value: 1},
		{Color: card.Yellow, Kind: card.KindNumber, Value: 2},
	}
	assert.Equal(t, card.Green, p.PickWildColor())

	// An all-wild hand defaults to red.
	p.Hand = []card.Card{{Color: card.Wild, Kind: card.KindWild4}}
	assert.Equal(t, card.Red, p.PickWildColor())
}
