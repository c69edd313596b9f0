package game

import "errors"

// Validation errors: the move is illegal, nothing mutates, only the acting
// client hears about it.
var (
	ErrNotYourTurn       = errors.New("not your turn")
	ErrIllegalCard       = errors.New("card matches neither color nor kind")
	ErrInvalidCardIndex  = errors.New("card index out of range")
	ErrWildColorRequired = errors.New("wild card requires a color choice")
)

// Lifecycle errors: the request arrived in the wrong phase.
var (
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrWrongPhase         = errors.New("operation not allowed in current phase")
	ErrNoPlayers          = errors.New("cannot start without players")
	ErrMatchFull          = errors.New("match already has four players")
)

// ErrDeckExhausted is returned when starting a match cannot flip a
// non-wild top card because the deck ran dry.
var ErrDeckExhausted = errors.New("deck exhausted")
