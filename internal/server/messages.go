package server

import (
	"encoding/json"

	"github.com/unolabs/uno-server-go/internal/game"
)

// Message is the JSON envelope for both directions of the websocket.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound intent types.
const (
	typeCreateGame     = "create_game"
	typeJoinGame       = "join_game"
	typeStartGame      = "start_game"
	typePlayCard       = "play_card"
	typeDrawCard       = "draw_card"
	typeUpdateSettings = "update_settings"
)

// Outbound message types.
const (
	typeCreated   = "created"
	typeJoined    = "joined"
	typeGameState = "game_state"
	typeError     = "error"
)

type createGameRequest struct {
	Name string `json:"name"`
}

type joinGameRequest struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
}

type playCardRequest struct {
	CardIndex int    `json:"cardIndex"`
	WildColor string `json:"wildColor,omitempty"`
}

type updateSettingsRequest = game.SettingsPatch

type seatResponse struct {
	RoomCode    string `json:"roomCode"`
	PlayerIndex int    `json:"playerIndex"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func encode(msgType string, data any) []byte {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	out, err := json.Marshal(Message{Type: msgType, Data: payload})
	if err != nil {
		return nil
	}
	return out
}
