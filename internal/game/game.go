package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/unolabs/uno-server-go/internal/card"
	"go.uber.org/zap"
)

// maxPlayers caps a match at four seats.
const maxPlayers = 4

// defaultBotDelay is how long a computer waits before acting. It must stay
// below the turn timer duration so the bot always acts before a timeout.
const defaultBotDelay = 1500 * time.Millisecond

var botNames = [3]string{"Bot 1", "Bot 2", "Bot 3"}

// Game is the authoritative state machine for one match. All mutation
// happens under mu; timer and bot callbacks re-acquire it and validate
// their owning generation first, so actions and clock fires for a match
// are fully serialized.
type Game struct {
	id       uuid.UUID
	roomCode string
	logger   *zap.Logger

	mu           sync.Mutex
	rng          *rand.Rand
	deck         *card.Deck
	players      []*Player
	current      int
	direction    int
	topCard      card.Card
	hasTop       bool
	currentColor card.Color
	phase        Phase
	winner       *Player
	message      string
	settings     Settings

	gameTimeRemaining int
	turnTimeRemaining int
	startedAt         time.Time
	endedAt           time.Time

	// matchGen owns the game clock, turnGen owns the turn clock and the
	// pending bot move. Bumping a generation invalidates every callback
	// scheduled under the old value.
	matchGen  uint64
	turnGen   uint64
	gameTimer timerHandle
	turnTimer timerHandle
	botTimer  timerHandle

	after    clockFunc
	botDelay time.Duration

	listeners []func(Snapshot)
}

// Option configures a Game at construction time.
type Option func(*Game)

// WithRand supplies the randomness source used for shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) { g.rng = rng }
}

// WithClock replaces the timer scheduler; tests use this to fire clock
// callbacks by hand.
func WithClock(after clockFunc) Option {
	return func(g *Game) { g.after = after }
}

// WithBotDelay overrides the computer-player reaction delay.
func WithBotDelay(d time.Duration) Option {
	return func(g *Game) { g.botDelay = d }
}

// WithSettings overrides the default match settings.
func WithSettings(s Settings) Option {
	return func(g *Game) { g.settings = s }
}

// New creates a match in the lobby phase.
func New(roomCode string, logger *zap.Logger, opts ...Option) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Game{
		id:        uuid.New(),
		roomCode:  roomCode,
		logger:    logger,
		direction: 1,
		phase:     PhaseLobby,
		settings:  DefaultSettings(),
		message:   "Welcome to Uno!",
		after:     realClock,
		botDelay:  defaultBotDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g.deck = card.New(g.rng)
	g.gameTimeRemaining = g.settings.GameTimeSeconds
	g.turnTimeRemaining = g.settings.TurnTimeSeconds
	return g
}

// ID returns the internal match identifier.
func (g *Game) ID() uuid.UUID { return g.id }

// RoomCode returns the client-facing join code.
func (g *Game) RoomCode() string { return g.roomCode }

// Phase returns the current lifecycle phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// StartedAt returns when the match entered the playing phase.
func (g *Game) StartedAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.startedAt
}

// EndedAt returns when the match finished; zero while still running.
func (g *Game) EndedAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.endedAt
}

// OnChange registers a listener invoked synchronously with a snapshot
// after every state change, in mutation order. Listeners run under the
// engine lock and must not call back into the Game; hand off anything
// slow to a channel or goroutine.
func (g *Game) OnChange(fn func(Snapshot)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

// Host creates the match with one human player and opens it for joins.
func (g *Game) Host(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseLobby {
		return ErrWrongPhase
	}
	g.players = []*Player{NewPlayer(name, false)}
	g.phase = PhaseHosting
	g.message = fmt.Sprintf("Waiting for players... Room Code: %s", g.roomCode)
	g.logger.Info("match hosted",
		zap.String("room_code", g.roomCode),
		zap.String("host", name),
	)
	g.notifyLocked()
	return nil
}

// Join appends a human player and returns their seat slot. Joins are only
// legal before the match starts.
func (g *Game) Join(name string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseHosting && g.phase != PhaseLobby {
		return 0, ErrGameAlreadyStarted
	}
	if len(g.players) >= maxPlayers {
		return 0, ErrMatchFull
	}
	g.players = append(g.players, NewPlayer(name, false))
	slot := len(g.players) - 1
	g.logger.Info("player joined",
		zap.String("room_code", g.roomCode),
		zap.String("player", name),
		zap.Int("slot", slot),
	)
	g.notifyLocked()
	return slot, nil
}

// UpdateSettings shallow-merges the patch. The caller is responsible for
// the host-only check; the engine does not track seat ownership beyond
// the slot-0 convention.
func (g *Game) UpdateSettings(patch SettingsPatch) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.settings.apply(patch)
	g.notifyLocked()
}

// Start transitions to the playing phase: fresh shuffled deck, bots
// injected for a solo host, seven cards each, a non-wild top card flipped
// and both clocks armed.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseHosting && g.phase != PhaseLobby {
		return ErrWrongPhase
	}
	if len(g.players) == 0 {
		return ErrNoPlayers
	}

	g.deck.Reset()
	g.deck.Shuffle()

	// A lone host gets three computer opponents for solo play.
	if len(g.players) == 1 {
		for _, name := range botNames {
			g.players = append(g.players, NewPlayer(name, true))
		}
	}

	for _, p := range g.players {
		p.Hand = p.Hand[:0]
		p.Draw(g.deck, 7)
	}

	// Flip until a non-wild start card appears. Wilds drawn during this
	// search are discarded, not returned to the deck.
	for {
		c, ok := g.deck.Draw()
		if !ok {
			return ErrDeckExhausted
		}
		if c.Color != card.Wild {
			g.topCard = c
			g.hasTop = true
			break
		}
	}
	g.currentColor = g.topCard.Color

	g.current = 0
	g.direction = 1
	g.winner = nil
	g.phase = PhasePlaying
	g.gameTimeRemaining = g.settings.GameTimeSeconds
	g.turnTimeRemaining = g.settings.TurnTimeSeconds
	g.startedAt = time.Now()

	g.matchGen++
	g.startGameClock()
	g.startTurnClock()

	g.logger.Info("match started",
		zap.String("room_code", g.roomCode),
		zap.Int("players", len(g.players)),
		zap.String("top_card", g.topCard.String()),
	)
	g.notifyLocked()
	return nil
}

// HumanPlay validates and applies a card play from the given seat.
func (g *Game) HumanPlay(slot, index int, wildColor card.Color) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhasePlaying {
		return ErrWrongPhase
	}
	if slot != g.current {
		return ErrNotYourTurn
	}
	p := g.players[g.current]
	if p.Computer {
		return ErrNotYourTurn
	}
	if index < 0 || index >= len(p.Hand) {
		return ErrInvalidCardIndex
	}

	c := p.Hand[index]
	if c.Color == card.Wild {
		if wildColor < card.Red || wildColor > card.Yellow {
			return ErrWildColorRequired
		}
	} else if c.Color != g.currentColor && !c.SameKind(g.topCard) {
		return ErrIllegalCard
	}

	return g.playCard(p, index, wildColor)
}

// HumanDraw draws a single card for the given seat and passes the turn.
// There is no draw-until-playable rule.
func (g *Game) HumanDraw(slot int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhasePlaying {
		return ErrWrongPhase
	}
	if slot != g.current {
		return ErrNotYourTurn
	}
	p := g.players[g.current]
	if p.Computer {
		return ErrNotYourTurn
	}

	g.drawCard(p)
	return nil
}

// playCard is the shared play routine for humans and bots. Caller holds
// the lock and has validated legality.
func (g *Game) playCard(p *Player, index int, chosen card.Color) error {
	g.cancelTurnClock()

	c, err := p.Play(index)
	if err != nil {
		return err
	}
	g.topCard = c
	g.hasTop = true
	if c.Color == card.Wild {
		g.currentColor = chosen
	} else {
		g.currentColor = c.Color
	}

	colorLabel := c.Color.String()
	if c.Color == card.Wild {
		colorLabel = "Wild"
	}
	g.message = fmt.Sprintf("%s played %s %s", p.Name, colorLabel, c.Label())

	if p.HandSize() == 0 {
		g.finish(p, fmt.Sprintf("%s Wins!", p.Name))
		return nil
	}

	skipNext := false
	switch c.Kind {
	case card.KindSkip:
		skipNext = true
	case card.KindReverse:
		g.direction = -g.direction
		// With two players the reversed "other" player is the skipped
		// one, so reverse collapses to skip.
		if len(g.players) == 2 {
			skipNext = true
		}
	case card.KindDraw2, card.KindWild4:
		n := 2
		if c.Kind == card.KindWild4 {
			n = 4
		}
		victim := g.players[g.wrap(g.current+g.direction)]
		victim.Draw(g.deck, n)
		skipNext = true
	case card.KindWildDiscardAll:
		g.discardColor(p, g.currentColor)
		if p.HandSize() == 0 {
			g.finish(p, fmt.Sprintf("%s Wins!", p.Name))
			return nil
		}
	case card.KindDiscardAll:
		g.discardColor(p, c.Color)
		if p.HandSize() == 0 {
			g.finish(p, fmt.Sprintf("%s Wins!", p.Name))
			return nil
		}
	}

	if skipNext {
		g.current = g.wrap(g.current + g.direction)
	}

	g.notifyLocked()
	g.advanceTurn()
	return nil
}

// drawCard draws exactly one card and always advances the turn, even if
// the drawn card would have been playable. Caller holds the lock.
func (g *Game) drawCard(p *Player) {
	g.cancelTurnClock()
	p.Draw(g.deck, 1)
	g.message = fmt.Sprintf("%s drew a card", p.Name)
	g.notifyLocked()
	g.advanceTurn()
}

// advanceTurn moves to the next seat, re-arms the turn clock and, for a
// computer seat, schedules the bot move as a deferred callback so long
// skip chains never recurse.
func (g *Game) advanceTurn() {
	if g.phase != PhasePlaying {
		return
	}
	g.current = g.wrap(g.current + g.direction)
	g.startTurnClock()
	g.notifyLocked()

	if g.players[g.current].Computer {
		g.scheduleBotMove()
	}
}

// playComputerTurn runs the fixed-priority strategy for the current seat.
// Caller holds the lock.
func (g *Game) playComputerTurn() {
	if g.phase != PhasePlaying {
		return
	}
	p := g.players[g.current]

	index, ok := p.FindPlayable(g.topCard, g.currentColor)
	if !ok {
		g.drawCard(p)
		return
	}

	chosen := g.currentColor
	if p.Hand[index].Color == card.Wild {
		chosen = p.PickWildColor()
	}
	if err := g.playCard(p, index, chosen); err != nil {
		g.logger.Error("computer play failed",
			zap.String("room_code", g.roomCode),
			zap.String("player", p.Name),
			zap.Error(err),
		)
	}
}

// finish ends the match: records the winner, stops every clock and
// broadcasts the terminal state. Caller holds the lock.
func (g *Game) finish(winner *Player, message string) {
	g.phase = PhaseGameOver
	g.winner = winner
	g.message = message
	g.endedAt = time.Now()

	g.cancelTurnClock()
	g.matchGen++
	if g.gameTimer != nil {
		g.gameTimer.Stop()
		g.gameTimer = nil
	}

	name := ""
	if winner != nil {
		name = winner.Name
	}
	g.logger.Info("match finished",
		zap.String("room_code", g.roomCode),
		zap.String("winner", name),
	)
	g.notifyLocked()
}

// endByTime resolves a game-clock expiry: the seat holding the fewest
// cards wins, first minimal seat on ties. Caller holds the lock.
func (g *Game) endByTime() {
	winner := g.players[0]
	for _, p := range g.players[1:] {
		if p.HandSize() < winner.HandSize() {
			winner = p
		}
	}
	g.finish(winner, fmt.Sprintf("Time's Up! %s wins with fewest cards!", winner.Name))
}

// discardColor removes every card of the given color from the hand,
// preserving the order of the rest.
func (g *Game) discardColor(p *Player, color card.Color) {
	kept := p.Hand[:0]
	for _, c := range p.Hand {
		if c.Color != color {
			kept = append(kept, c)
		}
	}
	p.Hand = kept
}

func (g *Game) wrap(i int) int {
	n := len(g.players)
	return ((i % n) + n) % n
}

// startGameClock arms the per-second game clock for the current match
// generation.
func (g *Game) startGameClock() {
	if !g.settings.GameTimerEnabled {
		return
	}
	gen := g.matchGen
	g.gameTimer = g.after(time.Second, func() { g.onGameTick(gen) })
}

func (g *Game) onGameTick(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.matchGen || g.phase != PhasePlaying {
		return
	}
	g.gameTimeRemaining--
	if g.gameTimeRemaining <= 0 {
		g.endByTime()
		return
	}
	g.gameTimer = g.after(time.Second, func() { g.onGameTick(gen) })
	g.notifyLocked()
}

// startTurnClock cancels any previous turn clock (invalidating pending
// bot moves with it), resets the per-turn countdown and arms a new one.
func (g *Game) startTurnClock() {
	g.cancelTurnClock()
	if !g.settings.TurnTimerEnabled {
		return
	}
	g.turnTimeRemaining = g.settings.TurnTimeSeconds
	gen := g.turnGen
	g.turnTimer = g.after(time.Second, func() { g.onTurnTick(gen) })
}

func (g *Game) onTurnTick(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.turnGen || g.phase != PhasePlaying {
		return
	}
	g.turnTimeRemaining--
	if g.turnTimeRemaining <= 0 {
		p := g.players[g.current]
		g.logger.Info("turn timer expired",
			zap.String("room_code", g.roomCode),
			zap.String("player", p.Name),
		)
		g.message = fmt.Sprintf("%s ran out of time! Drawing card...", p.Name)
		// The forced draw is the sole penalty for inaction; it advances
		// the turn like any voluntary draw.
		g.drawCard(p)
		return
	}
	g.turnTimer = g.after(time.Second, func() { g.onTurnTick(gen) })
}

// cancelTurnClock bumps the turn generation and stops the turn and bot
// timers. Callbacks already in flight see the stale generation and bail.
func (g *Game) cancelTurnClock() {
	g.turnGen++
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
	if g.botTimer != nil {
		g.botTimer.Stop()
		g.botTimer = nil
	}
}

// scheduleBotMove defers the computer's move. The delay stays below the
// turn timer so the bot acts before a timeout can fire.
func (g *Game) scheduleBotMove() {
	gen := g.turnGen
	g.botTimer = g.after(g.botDelay, func() { g.onBotMove(gen) })
}

func (g *Game) onBotMove(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.turnGen || g.phase != PhasePlaying {
		return
	}
	if !g.players[g.current].Computer {
		return
	}
	g.playComputerTurn()
}

// notifyLocked emits the current snapshot to every listener. Caller holds
// the lock; emission order therefore matches mutation order.
func (g *Game) notifyLocked() {
	if len(g.listeners) == 0 {
		return
	}
	snap := g.snapshotLocked()
	for _, fn := range g.listeners {
		fn(snap)
	}
}
