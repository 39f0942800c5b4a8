package websocket

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	sendBufferSize = 64
)

// Client is one live connection handle. It satisfies the coordinator's
// Conn contract: Send serializes the payload immediately and queues the
// frame without ever blocking the caller.
type Client struct {
	logger *slog.Logger
	conn   *websocket.Conn
	send   chan []byte
}

func newClient(logger *slog.Logger, conn *websocket.Conn) *Client {
	return &Client{
		logger: logger,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
}

// Send marshals an outbound message and queues it for the write pump. A
// receiver too slow to drain its buffer loses the frame; game state is
// recoverable through reconnect.
func (that *Client) Send(action string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		that.logger.Error("failed to marshal payload", "action", action, "error", err)
		return
	}

	frame, err := json.Marshal(Message{Action: action, Payload: raw})
	if err != nil {
		that.logger.Error("failed to marshal message", "action", action, "error", err)
		return
	}

	select {
	case that.send <- frame:
	default:
		that.logger.Warn("send buffer full, dropping frame", "action", action)
	}
}

// writePump drains the send queue onto the wire and keeps the connection
// alive with pings. It exits when the send channel closes.
func (that *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		that.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
