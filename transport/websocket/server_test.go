package websocket

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/session"
)

type recordedCall struct {
	method    string
	username  string
	sessionID string
	column    int
	vsBot     bool
}

type stubCoordinator struct {
	calls []recordedCall
	err   error
}

func (that *stubCoordinator) Join(_ session.Conn, username string, vsBot bool) error {
	that.calls = append(that.calls, recordedCall{method: "join", username: username, vsBot: vsBot})
	return that.err
}

func (that *stubCoordinator) Move(_ session.Conn, sessionID string, column int) error {
	that.calls = append(that.calls, recordedCall{method: "move", sessionID: sessionID, column: column})
	return that.err
}

func (that *stubCoordinator) Reconnect(_ session.Conn, username, sessionID string) error {
	that.calls = append(that.calls, recordedCall{method: "reconnect", username: username, sessionID: sessionID})
	return that.err
}

func (that *stubCoordinator) Disconnect(_ session.Conn) {
	that.calls = append(that.calls, recordedCall{method: "disconnect"})
}

func newRoutingFixture(coord *stubCoordinator) (*Server, *Client) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(logger, coord), newClient(logger, nil)
}

func TestServer_HandleMessage(t *testing.T) {
	t.Run("Routes a join action", func(t *testing.T) {
		// Given: a server over a recording coordinator
		coord := &stubCoordinator{}
		srv, client := newRoutingFixture(coord)

		// When: a join frame arrives
		message := &Message{Action: actionJoin, Payload: []byte(`{"username":"alice","vs_bot":true}`)}
		require.NoError(t, srv.handleMessage(client, message))

		// Then: the coordinator sees the parsed payload
		require.Len(t, coord.calls, 1)
		assert.Equal(t, "join", coord.calls[0].method)
		assert.Equal(t, "alice", coord.calls[0].username)
		assert.True(t, coord.calls[0].vsBot)
	})

	t.Run("Routes a move action", func(t *testing.T) {
		coord := &stubCoordinator{}
		srv, client := newRoutingFixture(coord)

		message := &Message{Action: actionMove, Payload: []byte(`{"session_id":"s1","column":3}`)}
		require.NoError(t, srv.handleMessage(client, message))

		require.Len(t, coord.calls, 1)
		assert.Equal(t, "move", coord.calls[0].method)
		assert.Equal(t, "s1", coord.calls[0].sessionID)
		assert.Equal(t, 3, coord.calls[0].column)
	})

	t.Run("Routes a reconnect action without a session id", func(t *testing.T) {
		coord := &stubCoordinator{}
		srv, client := newRoutingFixture(coord)

		message := &Message{Action: actionReconnect, Payload: []byte(`{"username":"alice"}`)}
		require.NoError(t, srv.handleMessage(client, message))

		require.Len(t, coord.calls, 1)
		assert.Equal(t, "reconnect", coord.calls[0].method)
		assert.Equal(t, "alice", coord.calls[0].username)
		assert.Equal(t, "", coord.calls[0].sessionID)
	})

	t.Run("Rejects an unknown action", func(t *testing.T) {
		coord := &stubCoordinator{}
		srv, client := newRoutingFixture(coord)

		err := srv.handleMessage(client, &Message{Action: "dance"})

		assert.ErrorContains(t, err, "unknown action")
		assert.Empty(t, coord.calls)
	})

	t.Run("Rejects a malformed payload before touching the coordinator", func(t *testing.T) {
		coord := &stubCoordinator{}
		srv, client := newRoutingFixture(coord)

		err := srv.handleMessage(client, &Message{Action: actionMove, Payload: []byte(`{"column":"three"}`)})

		assert.ErrorContains(t, err, "malformed move payload")
		assert.Empty(t, coord.calls)
	})

	t.Run("Coordinator rejections surface to the caller", func(t *testing.T) {
		coord := &stubCoordinator{err: assert.AnError}
		srv, client := newRoutingFixture(coord)

		message := &Message{Action: actionJoin, Payload: []byte(`{"username":"alice"}`)}

		assert.ErrorIs(t, srv.handleMessage(client, message), assert.AnError)
	})
}
