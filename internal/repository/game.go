package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

type GameRepository interface {
	SaveCompleted(ctx context.Context, completed *entity.CompletedSession) error
	SaveMove(ctx context.Context, sessionID string, move *entity.MoveRecord) error
	History(ctx context.Context, username string, limit int) ([]entity.HistoryEntry, error)
}

type gameRepository struct {
	conn *sql.DB
}

func NewGameRepository(conn *sql.DB) GameRepository {
	return &gameRepository{
		conn: conn,
	}
}

func (that *gameRepository) SaveCompleted(ctx context.Context, completed *entity.CompletedSession) error {
	boardState, err := json.Marshal(completed.FinalBoard)
	if err != nil {
		return fmt.Errorf("can't marshal board state: %w", err)
	}

	query := `INSERT INTO games (id, player1, player2, winner, status, duration_seconds, total_moves, board_state, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = that.conn.ExecContext(ctx, query,
		completed.ID,
		completed.PlayerOne,
		completed.PlayerTwo,
		completed.Winner,
		completed.Status,
		completed.DurationSeconds,
		completed.TotalMoves,
		string(boardState),
		completed.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("can't save completed game: %w", err)
	}

	return nil
}

func (that *gameRepository) SaveMove(ctx context.Context, sessionID string, move *entity.MoveRecord) error {
	query := `INSERT INTO moves (game_id, move_number, actor, column_index, row_index)
		VALUES (?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query, sessionID, move.MoveNumber, move.Actor, move.Column, move.Row)
	if err != nil {
		return fmt.Errorf("can't save move: %w", err)
	}

	return nil
}

// History returns the user's most recent completed sessions, opponent
// resolved to the other participant.
func (that *gameRepository) History(ctx context.Context, username string, limit int) ([]entity.HistoryEntry, error) {
	username = entity.NormalizeUsername(username)

	query := `SELECT id, player1, player2, winner, status, duration_seconds, total_moves, completed_at
		FROM games
		WHERE player1 = ? OR player2 = ?
		ORDER BY completed_at DESC
		LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, username, username, limit)
	if err != nil {
		return nil, fmt.Errorf("can't query game history: %w", err)
	}
	defer rows.Close()

	var history []entity.HistoryEntry

	for rows.Next() {
		var (
			entry                entity.HistoryEntry
			playerOne, playerTwo string
		)

		err = rows.Scan(&entry.SessionID, &playerOne, &playerTwo, &entry.Winner, &entry.Status,
			&entry.DurationSeconds, &entry.TotalMoves, &entry.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("can't scan history row: %w", err)
		}

		entry.Opponent = playerTwo
		if playerTwo == username {
			entry.Opponent = playerOne
		}

		history = append(history, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read history rows: %w", err)
	}

	return history, nil
}
