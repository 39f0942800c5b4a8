package repository

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// Recorder bundles the user and game repositories behind the coordinator's
// persistence contract.
type Recorder struct {
	users UserRepository
	games GameRepository
}

func NewRecorder(users UserRepository, games GameRepository) *Recorder {
	return &Recorder{
		users: users,
		games: games,
	}
}

func (that *Recorder) UpsertUser(ctx context.Context, username string) error {
	if err := that.users.Upsert(ctx, username); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

func (that *Recorder) RecordResult(ctx context.Context, username, status, winner string) error {
	if err := that.users.RecordResult(ctx, username, status, winner); err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}

	return nil
}

func (that *Recorder) RecordCompletedSession(ctx context.Context, completed *entity.CompletedSession) error {
	if err := that.games.SaveCompleted(ctx, completed); err != nil {
		return fmt.Errorf("failed to record completed session: %w", err)
	}

	return nil
}

func (that *Recorder) RecordMove(ctx context.Context, sessionID string, move *entity.MoveRecord) error {
	if err := that.games.SaveMove(ctx, sessionID, move); err != nil {
		return fmt.Errorf("failed to record move: %w", err)
	}

	return nil
}
