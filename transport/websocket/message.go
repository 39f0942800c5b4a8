package websocket

import "encoding/json"

const (
	actionJoin      = "join"
	actionMove      = "move"
	actionReconnect = "reconnect"
	actionError     = "error"
)

// Message is the envelope for every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type JoinPayload struct {
	Username string `json:"username"`
	VsBot    bool   `json:"vs_bot"`
}

type MovePayload struct {
	SessionID string `json:"session_id"`
	Column    int    `json:"column"`
}

type ReconnectPayload struct {
	Username  string `json:"username"`
	SessionID string `json:"session_id,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
