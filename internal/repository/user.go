package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

type UserRepository interface {
	Upsert(ctx context.Context, username string) error
	RecordResult(ctx context.Context, username, status, winner string) error
	Stats(ctx context.Context, username string) (*entity.UserStats, error)
	Leaderboard(ctx context.Context, limit int) ([]entity.UserStats, error)
}

type userRepository struct {
	conn *sql.DB
}

func NewUserRepository(conn *sql.DB) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (that *userRepository) Upsert(ctx context.Context, username string) error {
	query := `INSERT INTO users (username) VALUES (?)
		ON CONFLICT(username) DO UPDATE SET updated_at = CURRENT_TIMESTAMP`

	_, err := that.conn.ExecContext(ctx, query, entity.NormalizeUsername(username))
	if err != nil {
		return fmt.Errorf("can't upsert user: %w", err)
	}

	return nil
}

// RecordResult increments the user's counters for one completed session.
// A terminal status with a winner counts as a win or a loss depending on
// whether the winner is this user; a draw increments games_drawn.
func (that *userRepository) RecordResult(ctx context.Context, username, status, winner string) error {
	username = entity.NormalizeUsername(username)

	won, lost, drawn := 0, 0, 0

	switch {
	case status == entity.StatusDraw:
		drawn = 1
	case winner == username:
		won = 1
	case winner != "":
		lost = 1
	}

	query := `UPDATE users SET
			games_played = games_played + 1,
			games_won = games_won + ?,
			games_lost = games_lost + ?,
			games_drawn = games_drawn + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE username = ?`

	_, err := that.conn.ExecContext(ctx, query, won, lost, drawn, username)
	if err != nil {
		return fmt.Errorf("can't record result: %w", err)
	}

	return nil
}

func (that *userRepository) Stats(ctx context.Context, username string) (*entity.UserStats, error) {
	query := `SELECT username, games_played, games_won, games_lost, games_drawn
		FROM users WHERE username = ?`

	var stats entity.UserStats

	err := that.conn.QueryRowContext(ctx, query, entity.NormalizeUsername(username)).
		Scan(&stats.Username, &stats.GamesPlayed, &stats.GamesWon, &stats.GamesLost, &stats.GamesDrawn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find user stats: %w", err)
	}

	return &stats, nil
}

// Leaderboard ranks users by wins, tie-broken by win percentage and then
// games played.
func (that *userRepository) Leaderboard(ctx context.Context, limit int) ([]entity.UserStats, error) {
	query := `SELECT username, games_played, games_won, games_lost, games_drawn
		FROM users
		WHERE games_played > 0
		ORDER BY games_won DESC,
			CAST(games_won AS REAL) / games_played DESC,
			games_played DESC
		LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("can't query leaderboard: %w", err)
	}
	defer rows.Close()

	var leaders []entity.UserStats

	for rows.Next() {
		var stats entity.UserStats
		if err = rows.Scan(&stats.Username, &stats.GamesPlayed, &stats.GamesWon, &stats.GamesLost, &stats.GamesDrawn); err != nil {
			return nil, fmt.Errorf("can't scan leaderboard row: %w", err)
		}

		leaders = append(leaders, stats)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read leaderboard rows: %w", err)
	}

	return leaders, nil
}
