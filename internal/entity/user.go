package entity

import "time"

// UserStats is the persisted per-user record kept by the persistence
// collaborator; live sessions never depend on it.
type UserStats struct {
	Username    string `json:"username"`
	GamesPlayed int    `json:"games_played"`
	GamesWon    int    `json:"games_won"`
	GamesLost   int    `json:"games_lost"`
	GamesDrawn  int    `json:"games_drawn"`
}

// WinPercentage is the leaderboard tie-breaker after raw wins.
func (that *UserStats) WinPercentage() float64 {
	if that.GamesPlayed == 0 {
		return 0
	}

	return float64(that.GamesWon) / float64(that.GamesPlayed) * 100
}

// CompletedSession is the durable record of a finished game.
type CompletedSession struct {
	ID              string    `json:"id"`
	PlayerOne       string    `json:"player1"`
	PlayerTwo       string    `json:"player2"`
	Winner          string    `json:"winner,omitempty"`
	Status          string    `json:"status"`
	DurationSeconds int       `json:"duration_seconds"`
	TotalMoves      int       `json:"total_moves"`
	FinalBoard      [][]int   `json:"final_board"`
	CompletedAt     time.Time `json:"completed_at"`
}

// MoveRecord is one entry of a session's durable move log.
type MoveRecord struct {
	MoveNumber int    `json:"move_number"`
	Actor      string `json:"actor"`
	Column     int    `json:"column"`
	Row        int    `json:"row"`
}

// HistoryEntry is a completed session as seen from one user's side.
type HistoryEntry struct {
	SessionID       string    `json:"session_id"`
	Opponent        string    `json:"opponent"`
	Winner          string    `json:"winner,omitempty"`
	Status          string    `json:"status"`
	DurationSeconds int       `json:"duration_seconds"`
	TotalMoves      int       `json:"total_moves"`
	CompletedAt     time.Time `json:"completed_at"`
}
