package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/unolabs/uno-server-go/internal/card"
	"github.com/unolabs/uno-server-go/internal/game"
	"github.com/unolabs/uno-server-go/internal/repository"
	"github.com/unolabs/uno-server-go/internal/room"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Clients are served from arbitrary origins; turn ownership is
		// enforced per seat, not per origin.
		return true
	},
}

// ResultRecorder persists finished matches. The hub tolerates a nil
// recorder; results are then discarded.
type ResultRecorder interface {
	RecordResult(ctx context.Context, res repository.MatchResult) error
}

// Hub owns all websocket clients and routes intents to the match each
// client is seated at. Snapshots emitted by a match fan out to every
// client in its room.
type Hub struct {
	rooms   *room.Manager
	results ResultRecorder
	logger  *zap.Logger

	mu      sync.RWMutex
	clients map[*Client]bool
}

// NewHub creates a hub over the given match registry.
func NewHub(rooms *room.Manager, results ResultRecorder, logger *zap.Logger) *Hub {
	return &Hub{
		rooms:   rooms,
		results: results,
		logger:  logger,
		clients: make(map[*Client]bool),
	}
}

// ServeWS upgrades the request and starts the client pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		slot: -1,
	}
	h.register(client)

	go client.writePump()
	go client.readPump()
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// broadcastRoom sends a frame to every client seated in the room.
func (h *Hub) broadcastRoom(roomCode string, payload []byte) {
	if payload == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.roomCode == roomCode {
			c.enqueue(payload)
		}
	}
}

func (h *Hub) seat(c *Client, roomCode string, slot int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.roomCode = roomCode
	c.slot = slot
}

func (h *Hub) clientSeat(c *Client) (string, int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.roomCode, c.slot
}

// handleMessage dispatches one decoded intent from a client.
func (h *Hub) handleMessage(c *Client, msg Message) {
	switch msg.Type {
	case typeCreateGame:
		h.handleCreate(c, msg.Data)
	case typeJoinGame:
		h.handleJoin(c, msg.Data)
	case typeStartGame:
		h.handleStart(c)
	case typePlayCard:
		h.handlePlay(c, msg.Data)
	case typeDrawCard:
		h.handleDraw(c)
	case typeUpdateSettings:
		h.handleUpdateSettings(c, msg.Data)
	default:
		c.enqueue(encode(typeError, errorResponse{Message: "unknown message type"}))
	}
}

func (h *Hub) handleCreate(c *Client, data json.RawMessage) {
	var req createGameRequest
	if err := json.Unmarshal(data, &req); err != nil || req.Name == "" {
		c.enqueue(encode(typeError, errorResponse{Message: "player name is required"}))
		return
	}

	g, err := h.rooms.Create(req.Name)
	if err != nil {
		c.enqueue(encode(typeError, errorResponse{Message: err.Error()}))
		return
	}
	h.attachGame(g)
	h.seat(c, g.RoomCode(), 0)

	c.enqueue(encode(typeCreated, seatResponse{RoomCode: g.RoomCode(), PlayerIndex: 0}))
	h.broadcastRoom(g.RoomCode(), encode(typeGameState, g.Snapshot()))
}

func (h *Hub) handleJoin(c *Client, data json.RawMessage) {
	var req joinGameRequest
	if err := json.Unmarshal(data, &req); err != nil || req.Name == "" || req.RoomCode == "" {
		c.enqueue(encode(typeError, errorResponse{Message: "room code and player name are required"}))
		return
	}

	g, ok := h.rooms.Get(req.RoomCode)
	if !ok {
		c.enqueue(encode(typeError, errorResponse{Message: "Room not found"}))
		return
	}

	// Seat first so the join broadcast reaches this client too.
	h.seat(c, req.RoomCode, -1)
	slot, err := g.Join(req.Name)
	if err != nil {
		h.seat(c, "", -1)
		c.enqueue(encode(typeError, errorResponse{Message: "Game already started"}))
		return
	}
	h.seat(c, req.RoomCode, slot)

	c.enqueue(encode(typeJoined, seatResponse{RoomCode: req.RoomCode, PlayerIndex: slot}))
}

func (h *Hub) handleStart(c *Client) {
	g, _, ok := h.clientGame(c)
	if !ok {
		return
	}
	if err := g.Start(); err != nil {
		c.enqueue(encode(typeError, errorResponse{Message: err.Error()}))
	}
}

func (h *Hub) handlePlay(c *Client, data json.RawMessage) {
	g, slot, ok := h.clientGame(c)
	if !ok {
		return
	}

	var req playCardRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.enqueue(encode(typeError, errorResponse{Message: "malformed play_card payload"}))
		return
	}

	// An absent or invalid wild color is passed through as the wild
	// sentinel; the engine rejects it only when the card needs one.
	wildColor := card.Wild
	if req.WildColor != "" {
		if parsed, err := card.ParseColor(req.WildColor); err == nil {
			wildColor = parsed
		}
	}

	if err := g.HumanPlay(slot, req.CardIndex, wildColor); err != nil {
		c.enqueue(encode(typeError, errorResponse{Message: err.Error()}))
	}
}

func (h *Hub) handleDraw(c *Client) {
	g, slot, ok := h.clientGame(c)
	if !ok {
		return
	}
	if err := g.HumanDraw(slot); err != nil {
		c.enqueue(encode(typeError, errorResponse{Message: err.Error()}))
	}
}

func (h *Hub) handleUpdateSettings(c *Client, data json.RawMessage) {
	g, slot, ok := h.clientGame(c)
	if !ok {
		return
	}
	// Only the host may change settings.
	if slot != 0 {
		c.enqueue(encode(typeError, errorResponse{Message: "only the host can change settings"}))
		return
	}

	var req updateSettingsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.enqueue(encode(typeError, errorResponse{Message: "malformed settings payload"}))
		return
	}
	g.UpdateSettings(req)
}

func (h *Hub) clientGame(c *Client) (*game.Game, int, bool) {
	roomCode, slot := h.clientSeat(c)
	if roomCode == "" {
		c.enqueue(encode(typeError, errorResponse{Message: "not in a room"}))
		return nil, 0, false
	}
	g, ok := h.rooms.Get(roomCode)
	if !ok {
		c.enqueue(encode(typeError, errorResponse{Message: "Room not found"}))
		return nil, 0, false
	}
	return g, slot, true
}

// attachGame subscribes the hub to a match's state changes: every
// snapshot is broadcast to the room, and the first game-over snapshot is
// handed to the result recorder.
func (h *Hub) attachGame(g *game.Game) {
	var recordOnce sync.Once
	g.OnChange(func(snap game.Snapshot) {
		h.broadcastRoom(snap.RoomCode, encode(typeGameState, snap))

		if snap.GameOver && h.results != nil {
			recordOnce.Do(func() {
				res := repository.MatchResult{
					RoomCode: snap.RoomCode,
					Players:  len(snap.Players),
				}
				if snap.Winner != nil {
					res.Winner = *snap.Winner
				}
				// Listener runs under the engine lock; finish the
				// bookkeeping and the insert off it.
				go func() {
					res.StartedAt = g.StartedAt()
					res.EndedAt = g.EndedAt()
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := h.results.RecordResult(ctx, res); err != nil {
						h.logger.Warn("failed to record match result",
							zap.String("room_code", res.RoomCode),
							zap.Error(err),
						)
					}
				}()
			})
		}
	})
}
