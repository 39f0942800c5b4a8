package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/session"
)

type userRepository interface {
	Stats(ctx context.Context, username string) (*entity.UserStats, error)
	Leaderboard(ctx context.Context, limit int) ([]entity.UserStats, error)
}

type gameRepository interface {
	History(ctx context.Context, username string, limit int) ([]entity.HistoryEntry, error)
}

type statsProvider interface {
	Stats() session.Stats
}

type Server struct {
	logger *slog.Logger
	users  userRepository
	games  gameRepository
	live   statsProvider
}

func New(logger *slog.Logger, users userRepository, games gameRepository, live statsProvider) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		users:  users,
		games:  games,
		live:   live,
	}
}

func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", that.handlePing)
	mux.HandleFunc("/leaderboard", that.handleLeaderboard)
	mux.HandleFunc("/stats", that.handleUserStats)
	mux.HandleFunc("/stats/server", that.handleServerStats)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
