package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unolabs/uno-server-go/internal/game"
	"go.uber.org/zap"
)

func TestCreateAssignsUniqueCodes(t *testing.T) {
	m := NewManager(zap.NewNop())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		g, err := m.Create("Host")
		require.NoError(t, err)

		code := g.RoomCode()
		assert.Len(t, code, 4)
		assert.False(t, seen[code], "duplicate room code %s", code)
		seen[code] = true
		assert.Equal(t, game.PhaseHosting, g.Phase())
	}
	assert.Equal(t, 50, m.Count())
}

func TestGetAndRemove(t *testing.T) {
	m := NewManager(zap.NewNop())

	g, err := m.Create("Host")
	require.NoError(t, err)

	found, ok := m.Get(g.RoomCode())
	require.True(t, ok)
	assert.Same(t, g, found)

	_, ok = m.Get("0000")
	assert.False(t, ok)

	m.Remove(g.RoomCode())
	_, ok = m.Get(g.RoomCode())
	assert.False(t, ok)
	assert.Equal(t, 0, m.Count())
}

func TestCreatedMatchesAreIndependent(t *testing.T) {
	// Timers disabled so no real clocks outlive the test.
	m := NewManager(zap.NewNop(), game.WithSettings(game.Settings{
		GameTimeSeconds: 300,
		TurnTimeSeconds: 10,
	}))

	g1, err := m.Create("A")
	require.NoError(t, err)
	g2, err := m.Create("B")
	require.NoError(t, err)

	require.NoError(t, g1.Start())
	assert.Equal(t, game.PhasePlaying, g1.Phase())
	assert.Equal(t, game.PhaseHosting, g2.Phase(), "starting one match must not touch another")
}
