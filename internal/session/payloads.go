package session

import (
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// Outbound actions carried over the transport boundary.
const (
	ActionWaiting     = "waiting"
	ActionStarted     = "game:started"
	ActionUpdate      = "game:update"
	ActionReconnected = "game:reconnected"
)

type WaitingPayload struct {
	Username string `json:"username"`
}

type StartedPayload struct {
	SessionID  string        `json:"session_id"`
	PlayerOne  string        `json:"player1"`
	PlayerTwo  string        `json:"player2"`
	YourSlot   int           `json:"your_slot"`
	Board      *entity.Board `json:"board"`
	ActiveSlot int           `json:"active_slot"`
}

type LastMove struct {
	Actor  string `json:"actor"`
	Column int    `json:"column"`
	Row    int    `json:"row"`
}

type UpdatePayload struct {
	SessionID    string        `json:"session_id"`
	Board        *entity.Board `json:"board"`
	ActiveSlot   int           `json:"active_slot"`
	Status       string        `json:"status"`
	Winner       string        `json:"winner,omitempty"`
	WinningCells [][2]int      `json:"winning_cells,omitempty"`
	LastMove     *LastMove     `json:"last_move,omitempty"`
	MoveCount    int           `json:"move_count"`
	Message      string        `json:"message,omitempty"`
}

type ReconnectedPayload struct {
	SessionID  string        `json:"session_id"`
	PlayerOne  string        `json:"player1"`
	PlayerTwo  string        `json:"player2"`
	YourSlot   int           `json:"your_slot"`
	Board      *entity.Board `json:"board"`
	ActiveSlot int           `json:"active_slot"`
	Status     string        `json:"status"`
	MoveCount  int           `json:"move_count"`
}

func startedPayload(sess *entity.Session, yourSlot int) StartedPayload {
	return StartedPayload{
		SessionID:  sess.ID,
		PlayerOne:  sess.Participants[0].Username,
		PlayerTwo:  sess.Participants[1].Username,
		YourSlot:   yourSlot,
		Board:      sess.Board,
		ActiveSlot: sess.ActiveSlot,
	}
}

func reconnectedPayload(sess *entity.Session, yourSlot int) ReconnectedPayload {
	return ReconnectedPayload{
		SessionID:  sess.ID,
		PlayerOne:  sess.Participants[0].Username,
		PlayerTwo:  sess.Participants[1].Username,
		YourSlot:   yourSlot,
		Board:      sess.Board,
		ActiveSlot: sess.ActiveSlot,
		Status:     sess.Status(),
		MoveCount:  sess.MoveCount,
	}
}
