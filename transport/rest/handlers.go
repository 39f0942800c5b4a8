package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const defaultLimit = 10

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (that *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))

	leaders, err := that.users.Leaderboard(r.Context(), limit)
	if err != nil {
		that.logger.Error("failed to get leaderboard", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get leaderboard")
		return
	}

	writeJSON(w, map[string]any{"leaderboard": leaders})
}

func (that *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	username := entity.NormalizeUsername(r.URL.Query().Get("username"))
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	stats, err := that.users.Stats(r.Context(), username)
	if errors.Is(err, apperror.ErrNotFound) {
		stats = &entity.UserStats{Username: username}
	} else if err != nil {
		that.logger.Error("failed to get user stats", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get user stats")
		return
	}

	history, err := that.games.History(r.Context(), username, parseLimit(r.URL.Query().Get("limit")))
	if err != nil {
		that.logger.Error("failed to get game history", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get game history")
		return
	}

	writeJSON(w, map[string]any{"stats": stats, "history": history})
}

func (that *Server) handleServerStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, that.live.Stats())
}

func parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultLimit
	}

	return limit
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
