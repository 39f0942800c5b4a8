package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connectfour-backend/internal/session"
)

// coordinator is the inbound edge of the session coordinator.
type coordinator interface {
	Join(conn session.Conn, username string, vsBot bool) error
	Move(conn session.Conn, sessionID string, column int) error
	Reconnect(conn session.Conn, username, sessionID string) error
	Disconnect(conn session.Conn)
}

type Server struct {
	logger   *slog.Logger
	coord    coordinator
	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, coord coordinator) *Server {
	return &Server{
		logger: logger.With("component", "websocket"),
		coord:  coord,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.handleWS)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 0, // long-lived connections manage their own deadlines
		IdleTimeout: 30 * time.Second,
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

func (that *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(that.logger, conn)
	go client.writePump()

	log.Info("connection established", "remote", conn.RemoteAddr().String())

	that.readLoop(client)
}

// readLoop dispatches inbound frames until the peer goes away, then
// reports the disconnect to the coordinator.
func (that *Server) readLoop(client *Client) {
	log := that.logger.With("method", "readLoop")

	defer func() {
		that.coord.Disconnect(client)
		close(client.send)
	}()

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("unexpected close", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			client.Send(actionError, ErrorPayload{Message: "malformed message"})
			continue
		}

		if err = that.handleMessage(client, &message); err != nil {
			client.Send(actionError, ErrorPayload{Message: err.Error()})
		}
	}
}

// handleMessage routes one inbound action. A returned error is a rejection
// for the requesting connection only; shared state is untouched.
func (that *Server) handleMessage(client *Client, message *Message) error {
	switch message.Action {
	case actionJoin:
		var payload JoinPayload
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return fmt.Errorf("malformed join payload: %w", err)
		}

		return that.coord.Join(client, payload.Username, payload.VsBot)

	case actionMove:
		var payload MovePayload
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return fmt.Errorf("malformed move payload: %w", err)
		}

		return that.coord.Move(client, payload.SessionID, payload.Column)

	case actionReconnect:
		var payload ReconnectPayload
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return fmt.Errorf("malformed reconnect payload: %w", err)
		}

		return that.coord.Reconnect(client, payload.Username, payload.SessionID)

	default:
		return fmt.Errorf("unknown action %q", message.Action)
	}
}
