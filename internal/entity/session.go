package entity

import (
	"strings"
	"time"
)

// BotName is the reserved identity of the automated opponent; it never has
// a live connection binding.
const BotName = "bot"

// NormalizeUsername case-folds and trims a raw username. All identity
// lookups go through the normalized form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

type Participant struct {
	Username string `json:"username"`
	Slot     int    `json:"slot"`
}

func (that Participant) IsBot() bool {
	return that.Username == BotName
}

// Session is one live game between two participant slots. The board is
// owned exclusively by the session; all mutation goes through the
// coordinator's entry points.
type Session struct {
	ID           string         `json:"id"`
	Participants [2]Participant `json:"participants"`
	Board        *Board         `json:"board"`
	ActiveSlot   int            `json:"active_slot"`
	MoveCount    int            `json:"move_count"`
	StartedAt    time.Time      `json:"started_at"`
}

func NewSession(id, playerOne, playerTwo string, config BoardConfig) *Session {
	return &Session{
		ID: id,
		Participants: [2]Participant{
			{Username: NormalizeUsername(playerOne), Slot: SlotOne},
			{Username: NormalizeUsername(playerTwo), Slot: SlotTwo},
		},
		Board:      NewBoard(config),
		ActiveSlot: SlotOne,
		StartedAt:  time.Now(),
	}
}

// SlotOf returns the slot bound to the username, or 0 when the username is
// not a participant.
func (that *Session) SlotOf(username string) int {
	for _, participant := range that.Participants {
		if participant.Username == username {
			return participant.Slot
		}
	}

	return 0
}

func (that *Session) Has(username string) bool {
	return that.SlotOf(username) != 0
}

func (that *Session) Participant(slot int) Participant {
	return that.Participants[slot-1]
}

func (that *Session) Opponent(slot int) Participant {
	if slot == SlotOne {
		return that.Participants[1]
	}
	return that.Participants[0]
}

func (that *Session) IsVsBot() bool {
	return that.Participants[0].IsBot() || that.Participants[1].IsBot()
}

func (that *Session) IsActive() bool {
	return that.Board.IsActive()
}

func (that *Session) Status() string {
	return that.Board.Status
}

// WinnerUsername resolves the winning slot to a username; empty when there
// is no winner.
func (that *Session) WinnerUsername() string {
	if that.Board.Winner == 0 {
		return ""
	}

	return that.Participant(that.Board.Winner).Username
}

// Forfeit terminates the session against the leaving slot and awards the
// win to the other participant.
func (that *Session) Forfeit(leavingSlot int) {
	that.Board.Status = StatusForfeited
	that.Board.Winner = that.Opponent(leavingSlot).Slot
	that.ActiveSlot = 0
}
