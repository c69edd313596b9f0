package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unolabs/uno-server-go/internal/game"
	"github.com/unolabs/uno-server-go/internal/room"
	"go.uber.org/zap"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	// Timers disabled so no real clocks run during tests.
	rooms := room.NewManager(zap.NewNop(), game.WithSettings(game.Settings{
		GameTimeSeconds: 300,
		TurnTimeSeconds: 10,
	}))
	return NewHub(rooms, nil, zap.NewNop())
}

func newTestClient(h *Hub) *Client {
	c := &Client{
		hub:  h,
		send: make(chan []byte, 64),
		slot: -1,
	}
	h.register(c)
	return c
}

// drain decodes every frame queued for the client.
func drain(t *testing.T, c *Client) []Message {
	t.Helper()
	var msgs []Message
	for {
		select {
		case raw := <-c.send:
			var msg Message
			require.NoError(t, json.Unmarshal(raw, &msg))
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func lastOfType(msgs []Message, msgType string) (Message, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == msgType {
			return msgs[i], true
		}
	}
	return Message{}, false
}

func send(h *Hub, c *Client, msgType string, data any) {
	payload, _ := json.Marshal(data)
	h.handleMessage(c, Message{Type: msgType, Data: payload})
}

func TestCreateGameSeatsHost(t *testing.T) {
	h := newTestHub(t)
	c := newTestClient(h)

	send(h, c, typeCreateGame, createGameRequest{Name: "Alice"})

	msgs := drain(t, c)
	created, ok := lastOfType(msgs, typeCreated)
	require.True(t, ok)

	var seat seatResponse
	require.NoError(t, json.Unmarshal(created.Data, &seat))
	assert.Len(t, seat.RoomCode, 4)
	assert.Equal(t, 0, seat.PlayerIndex)

	state, ok := lastOfType(msgs, typeGameState)
	require.True(t, ok)
	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(state.Data, &snap))
	assert.Equal(t, "HOSTING", snap.GameState)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "Alice", snap.Players[0].Name)
}

func TestCreateGameRequiresName(t *testing.T) {
	h := newTestHub(t)
	c := newTestClient(h)

	send(h, c, typeCreateGame, createGameRequest{})

	msgs := drain(t, c)
	_, ok := lastOfType(msgs, typeError)
	assert.True(t, ok)
	assert.Equal(t, 0, h.rooms.Count())
}

func TestJoinGameFlow(t *testing.T) {
	h := newTestHub(t)
	host := newTestClient(h)
	guest := newTestClient(h)

	send(h, host, typeCreateGame, createGameRequest{Name: "Alice"})
	created, _ := lastOfType(drain(t, host), typeCreated)
	var seat seatResponse
	require.NoError(t, json.Unmarshal(created.Data, &seat))

	send(h, guest, typeJoinGame, joinGameRequest{RoomCode: seat.RoomCode, Name: "Bob"})

	guestMsgs := drain(t, guest)
	joined, ok := lastOfType(guestMsgs, typeJoined)
	require.True(t, ok)
	var guestSeat seatResponse
	require.NoError(t, json.Unmarshal(joined.Data, &guestSeat))
	assert.Equal(t, 1, guestSeat.PlayerIndex)

	// The host sees the join broadcast.
	hostMsgs := drain(t, host)
	state, ok := lastOfType(hostMsgs, typeGameState)
	require.True(t, ok)
	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(state.Data, &snap))
	require.Len(t, snap.Players, 2)
	assert.Equal(t, "Bob", snap.Players[1].Name)
}

func TestJoinUnknownRoom(t *testing.T) {
	h := newTestHub(t)
	c := newTestClient(h)

	send(h, c, typeJoinGame, joinGameRequest{RoomCode: "0000", Name: "Bob"})

	msgs := drain(t, c)
	errMsg, ok := lastOfType(msgs, typeError)
	require.True(t, ok)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(errMsg.Data, &resp))
	assert.Equal(t, "Room not found", resp.Message)
}

func TestJoinAfterStartRejected(t *testing.T) {
	h := newTestHub(t)
	host := newTestClient(h)
	late := newTestClient(h)

	send(h, host, typeCreateGame, createGameRequest{Name: "Alice"})
	created, _ := lastOfType(drain(t, host), typeCreated)
	var seat seatResponse
	require.NoError(t, json.Unmarshal(created.Data, &seat))

	send(h, host, typeStartGame, nil)

	send(h, late, typeJoinGame, joinGameRequest{RoomCode: seat.RoomCode, Name: "Eve"})
	msgs := drain(t, late)
	errMsg, ok := lastOfType(msgs, typeError)
	require.True(t, ok)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(errMsg.Data, &resp))
	assert.Equal(t, "Game already started", resp.Message)

	_, seated := lastOfType(msgs, typeJoined)
	assert.False(t, seated)
}

func TestPlayOutOfTurnSurfacesErrorToActorOnly(t *testing.T) {
	h := newTestHub(t)
	host := newTestClient(h)
	guest := newTestClient(h)

	send(h, host, typeCreateGame, createGameRequest{Name: "Alice"})
	created, _ := lastOfType(drain(t, host), typeCreated)
	var seat seatResponse
	require.NoError(t, json.Unmarshal(created.Data, &seat))

	send(h, guest, typeJoinGame, joinGameRequest{RoomCode: seat.RoomCode, Name: "Bob"})
	drain(t, guest)

	send(h, host, typeStartGame, nil)
	drain(t, host)
	drain(t, guest)

	// Seat 1 acts while seat 0 holds the turn.
	send(h, guest, typePlayCard, playCardRequest{CardIndex: 0})

	guestMsgs := drain(t, guest)
	_, gotErr := lastOfType(guestMsgs, typeError)
	assert.True(t, gotErr)
	_, gotState := lastOfType(guestMsgs, typeGameState)
	assert.False(t, gotState, "a rejected move must not broadcast state")

	hostMsgs := drain(t, host)
	assert.Empty(t, hostMsgs, "other clients hear nothing about a rejected move")
}

func TestUpdateSettingsHostOnly(t *testing.T) {
	h := newTestHub(t)
	host := newTestClient(h)
	guest := newTestClient(h)

	send(h, host, typeCreateGame, createGameRequest{Name: "Alice"})
	created, _ := lastOfType(drain(t, host), typeCreated)
	var seat seatResponse
	require.NoError(t, json.Unmarshal(created.Data, &seat))

	send(h, guest, typeJoinGame, joinGameRequest{RoomCode: seat.RoomCode, Name: "Bob"})
	drain(t, guest)
	drain(t, host)

	seconds := 60
	send(h, guest, typeUpdateSettings, game.SettingsPatch{GameTimeSeconds: &seconds})
	_, gotErr := lastOfType(drain(t, guest), typeError)
	assert.True(t, gotErr, "non-host settings change rejected")

	send(h, host, typeUpdateSettings, game.SettingsPatch{GameTimeSeconds: &seconds})
	state, ok := lastOfType(drain(t, host), typeGameState)
	require.True(t, ok)
	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(state.Data, &snap))
	assert.Equal(t, 60, snap.Settings.GameTimeSeconds)
}

func TestIntentWithoutRoom(t *testing.T) {
	h := newTestHub(t)
	c := newTestClient(h)

	send(h, c, typeDrawCard, nil)
	_, gotErr := lastOfType(drain(t, c), typeError)
	assert.True(t, gotErr)

	h.handleMessage(c, Message{Type: "bogus"})
	_, gotErr = lastOfType(drain(t, c), typeError)
	assert.True(t, gotErr)
}
