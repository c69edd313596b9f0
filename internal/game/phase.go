package game

import "fmt"

// Phase is the match lifecycle state. GameOver is terminal.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseHosting
	PhasePlaying
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseLobby:    "LOBBY",
	PhaseHosting:  "HOSTING",
	PhasePlaying:  "PLAYING",
	PhaseGameOver: "GAME_OVER",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}
