package room

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/unolabs/uno-server-go/internal/game"
	"go.uber.org/zap"
)

// ErrRoomNotFound is returned when a room code does not map to a match.
var ErrRoomNotFound = errors.New("room not found")

// ErrNoFreeCodes is returned when every join code is taken.
var ErrNoFreeCodes = errors.New("no free room codes")

// codeSpace is the range of four digit join codes: 1000..9999.
const (
	codeMin   = 1000
	codeSpace = 9000
)

// Manager is the match registry: the only state shared across matches.
// Each match gets its own Game instance, its own randomness source and a
// unique four digit join code.
type Manager struct {
	mu     sync.RWMutex
	rooms  map[string]*game.Game
	rng    *rand.Rand
	logger *zap.Logger
	opts   []game.Option
}

// NewManager creates a registry. opts are applied to every match it
// creates, in addition to a per-match randomness source.
func NewManager(logger *zap.Logger, opts ...game.Option) *Manager {
	return &Manager{
		rooms:  make(map[string]*game.Game),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger,
		opts:   opts,
	}
}

// Create allocates a join code and a fresh match hosted by hostName.
func (m *Manager) Create(hostName string) (*game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.rooms) >= codeSpace {
		return nil, ErrNoFreeCodes
	}

	var code string
	for {
		code = fmt.Sprintf("%d", codeMin+m.rng.Intn(codeSpace))
		if _, taken := m.rooms[code]; !taken {
			break
		}
	}

	opts := make([]game.Option, 0, len(m.opts)+1)
	opts = append(opts, m.opts...)
	opts = append(opts, game.WithRand(rand.New(rand.NewSource(m.rng.Int63()))))

	g := game.New(code, m.logger, opts...)
	if err := g.Host(hostName); err != nil {
		return nil, err
	}
	m.rooms[code] = g

	m.logger.Info("room created",
		zap.String("room_code", code),
		zap.String("host", hostName),
		zap.String("match_id", g.ID().String()),
	)
	return g, nil
}

// Get looks up a match by join code.
func (m *Manager) Get(code string) (*game.Game, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.rooms[code]
	return g, ok
}

// Remove drops a match from the registry.
func (m *Manager) Remove(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, code)
	m.logger.Info("room removed", zap.String("room_code", code))
}

// Count returns the number of live matches.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
