package events

import (
	"context"
	"time"
)

const (
	TypeSessionStarted       = "session_started"
	TypeSessionEnded         = "session_ended"
	TypeMoveMade             = "move_made"
	TypeBotMove              = "bot_move"
	TypeIdentityJoined       = "identity_joined"
	TypeIdentityDisconnected = "identity_disconnected"
)

// Event is one fire-and-forget analytics record. The core never awaits an
// acknowledgement for it.
type Event struct {
	Type string         `json:"type"`
	At   time.Time      `json:"at"`
	Data map[string]any `json:"data"`
}

// Publisher accepts events best-effort: implementations log their own
// failures and never surface them to game logic.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

func newEvent(eventType string, data map[string]any) Event {
	return Event{Type: eventType, At: time.Now(), Data: data}
}

func SessionStarted(sessionID, playerOne, playerTwo string, vsBot bool) Event {
	return newEvent(TypeSessionStarted, map[string]any{
		"session_id": sessionID,
		"player1":    playerOne,
		"player2":    playerTwo,
		"vs_bot":     vsBot,
	})
}

func SessionEnded(sessionID, status, winner string, totalMoves, durationSeconds int) Event {
	return newEvent(TypeSessionEnded, map[string]any{
		"session_id":       sessionID,
		"status":           status,
		"winner":           winner,
		"total_moves":      totalMoves,
		"duration_seconds": durationSeconds,
	})
}

func MoveMade(sessionID, actor string, column, row int) Event {
	return newEvent(TypeMoveMade, map[string]any{
		"session_id": sessionID,
		"actor":      actor,
		"column":     column,
		"row":        row,
	})
}

func BotMove(sessionID string, column, row int, thinkTime time.Duration) Event {
	return newEvent(TypeBotMove, map[string]any{
		"session_id":    sessionID,
		"column":        column,
		"row":           row,
		"think_time_ms": thinkTime.Milliseconds(),
	})
}

func IdentityJoined(username string) Event {
	return newEvent(TypeIdentityJoined, map[string]any{"username": username})
}

func IdentityDisconnected(username string) Event {
	return newEvent(TypeIdentityDisconnected, map[string]any{"username": username})
}

// NoopPublisher discards every event; used when analytics is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ Event) {}
