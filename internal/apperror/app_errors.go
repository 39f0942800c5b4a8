package apperror

import "errors"

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTaken    = errors.New("username already in use")
	ErrPlayerNotFound   = errors.New("player not found")

	ErrSessionNotFound = errors.New("game not found")
	ErrNoActiveSession = errors.New("no active game found")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrGameNotActive   = errors.New("game is not active")
	ErrInvalidColumn   = errors.New("invalid column index")
	ErrColumnFull      = errors.New("column is full")

	ErrNotFound = errors.New("not found")
)
