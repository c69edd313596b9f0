package card

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindIsWild(t *testing.T) {
	assert.True(t, KindWild.IsWild())
	assert.True(t, KindWild4.IsWild())
	assert.True(t, KindWildDiscardAll.IsWild())

	assert.False(t, KindNumber.IsWild())
	assert.False(t, KindSkip.IsWild())
	assert.False(t, KindReverse.IsWild())
	assert.False(t, KindDraw2.IsWild())
	assert.False(t, KindDiscardAll.IsWild())
}

func TestCardMatches(t *testing.T) {
	redFive := Card{Color: Red, Kind: KindNumber, Value: 5}

	tests := []struct {
		name     string
		card     Card
		top      Card
		current  Color
		playable bool
	}{
		{"same effective color", Card{Color: Red, Kind: KindNumber, Value: 9}, redFive, Red, true},
		{"same rank different color", Card{Color: Blue, Kind: KindNumber, Value: 5}, redFive, Red, true},
		{"different rank and color", Card{Color: Blue, Kind: KindNumber, Value: 7}, redFive, Red, false},
		{"wild always legal", Card{Color: Wild, Kind: KindWild}, redFive, Red, true},
		{"wild4 always legal", Card{Color: Wild, Kind: KindWild4}, redFive, Red, true},
		{"wild_discard_all always legal", Card{Color: Wild, Kind: KindWildDiscardAll}, redFive, Red, true},
		{"skip on skip", Card{Color: Green, Kind: KindSkip}, Card{Color: Red, Kind: KindSkip}, Red, true},
		{"skip on reverse wrong color", Card{Color: Green, Kind: KindSkip}, Card{Color: Red, Kind: KindReverse}, Red, false},
		{
			name: "effective color wins over wild top",
			card: Card{Color: Green, Kind: KindNumber, Value: 2},
			top:  Card{Color: Wild, Kind: KindWild},
			// Wild on top, green declared.
			current:  Green,
			playable: true,
		},
		{
			name:     "non-matching card on wild top",
			card:     Card{Color: Green, Kind: KindNumber, Value: 2},
			top:      Card{Color: Wild, Kind: KindWild},
			current:  Blue,
			playable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.playable, tt.card.Matches(tt.top, tt.current))
		})
	}
}

func TestSameKindNumberNeedsRank(t *testing.T) {
	three := Card{Color: Red, Kind: KindNumber, Value: 3}
	assert.True(t, three.SameKind(Card{Color: Blue, Kind: KindNumber, Value: 3}))
	assert.False(t, three.SameKind(Card{Color: Blue, Kind: KindNumber, Value: 4}))
	assert.False(t, three.SameKind(Card{Color: Red, Kind: KindSkip}))
}

func TestCardJSON(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{Card{ID: 3, Color: Red, Kind: KindNumber, Value: 7}, `{"id":3,"color":"red","type":"7","value":7}`},
		{Card{ID: 40, Color: Green, Kind: KindSkip, Value: 20}, `{"id":40,"color":"green","type":"skip","value":20}`},
		{Card{ID: 110, Color: Wild, Kind: KindWild4, Value: 50}, `{"id":110,"color":"wild","type":"wild4","value":50}`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.card)
		require.NoError(t, err)
		assert.JSONEq(t, tt.want, string(data))

		var back Card
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, tt.card, back)
	}
}

func TestCardJSONRejectsGarbage(t *testing.T) {
	var c Card
	assert.Error(t, json.Unmarshal([]byte(`{"id":1,"color":"purple","type":"5","value":5}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"id":1,"color":"red","type":"frobnicate","value":0}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"id":1,"color":"red","type":"12","value":12}`), &c))
}
