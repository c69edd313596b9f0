package game

import "github.com/unolabs/uno-server-go/internal/card"

// PlayerSnapshot is one seat as broadcast to clients. Full hands are
// exposed to every client; hiding opponents' cards is left to the
// presentation layer, a documented simplification rather than a security
// boundary.
type PlayerSnapshot struct {
	Name       string      `json:"name"`
	HandCount  int         `json:"handCount"`
	IsComputer bool        `json:"isComputer"`
	Hand       []card.Card `json:"hand"`
}

// Snapshot is the serializable projection of a match, broadcast on every
// state change. It is a pure function of engine state: building it copies
// everything, so replaying an unchanged snapshot cannot mutate anyone.
type Snapshot struct {
	Players            []PlayerSnapshot `json:"players"`
	TopCard            *card.Card       `json:"topCard"`
	CurrentColor       string           `json:"currentColor,omitempty"`
	CurrentPlayerIndex int              `json:"currentPlayerIndex"`
	GameState          string           `json:"gameState"`
	GameOver           bool             `json:"gameOver"`
	Winner             *string          `json:"winner"`
	Message            string           `json:"message"`
	RoomCode           string           `json:"roomCode"`
	GameTimeRemaining  int              `json:"gameTimeRemaining"`
	TurnTimeRemaining  int              `json:"turnTimeRemaining"`
	Settings           Settings         `json:"settings"`
}

// Snapshot returns a consistent copy of the match state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() Snapshot {
	players := make([]PlayerSnapshot, 0, len(g.players))
	for _, p := range g.players {
		hand := make([]card.Card, len(p.Hand))
		copy(hand, p.Hand)
		players = append(players, PlayerSnapshot{
			Name:       p.Name,
			HandCount:  len(p.Hand),
			IsComputer: p.Computer,
			Hand:       hand,
		})
	}

	var top *card.Card
	if g.hasTop {
		c := g.topCard
		top = &c
	}

	var winner *string
	if g.winner != nil {
		name := g.winner.Name
		winner = &name
	}

	color := ""
	if g.phase == PhasePlaying || g.phase == PhaseGameOver {
		color = g.currentColor.String()
	}

	return Snapshot{
		Players:            players,
		TopCard:            top,
		CurrentColor:       color,
		CurrentPlayerIndex: g.current,
		GameState:          g.phase.String(),
		GameOver:           g.phase == PhaseGameOver,
		Winner:             winner,
		Message:            g.message,
		RoomCode:           g.roomCode,
		GameTimeRemaining:  g.gameTimeRemaining,
		TurnTimeRemaining:  g.turnTimeRemaining,
		Settings:           g.settings,
	}
}
