package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

type fakeConn struct {
	name string
}

func (that *fakeConn) Send(action string, payload any) {}

func TestDirectory_Bind(t *testing.T) {
	t.Run("Second bind of the same username is a conflict", func(t *testing.T) {
		// Given: an identity already bound to a connection
		dir := NewDirectory()
		first := &fakeConn{name: "first"}
		require.NoError(t, dir.Bind("alice", first))

		// When: another connection claims the same identity
		err := dir.Bind("alice", &fakeConn{name: "second"})

		// Then: the bind is rejected and the original binding survives
		assert.ErrorIs(t, err, apperror.ErrUsernameTaken)

		conn, exists := dir.ConnOf("alice")
		require.True(t, exists)
		assert.Same(t, first, conn)
	})

	t.Run("Rebind takes the identity over", func(t *testing.T) {
		// Given: a bound identity
		dir := NewDirectory()
		stale := &fakeConn{name: "stale"}
		require.NoError(t, dir.Bind("alice", stale))

		// When: a reconnect rebinds it
		fresh := &fakeConn{name: "fresh"}
		dir.Rebind("alice", fresh)

		// Then: the fresh connection owns the identity and the stale one is orphaned
		conn, exists := dir.ConnOf("alice")
		require.True(t, exists)
		assert.Same(t, fresh, conn)

		_, exists = dir.UsernameOf(stale)
		assert.False(t, exists)
	})

	t.Run("Stale disconnect does not evict a rebound identity", func(t *testing.T) {
		// Given: an identity rebound away from its original connection
		dir := NewDirectory()
		stale := &fakeConn{name: "stale"}
		fresh := &fakeConn{name: "fresh"}
		require.NoError(t, dir.Bind("alice", stale))
		dir.Rebind("alice", fresh)

		// When: the stale connection's disconnect is processed
		_, unbound := dir.UnbindConn(stale)

		// Then: the fresh binding is untouched
		assert.False(t, unbound)

		conn, exists := dir.ConnOf("alice")
		require.True(t, exists)
		assert.Same(t, fresh, conn)
	})
}

func TestDirectory_Waiting(t *testing.T) {
	t.Run("Waiting snapshot preserves arrival order", func(t *testing.T) {
		dir := NewDirectory()
		now := time.Now()
		dir.AddWaiting(&WaitingEntry{Username: "alice", JoinedAt: now})
		dir.AddWaiting(&WaitingEntry{Username: "bob", JoinedAt: now.Add(time.Second)})

		waiting := dir.Waiting()

		require.Len(t, waiting, 2)
		assert.Equal(t, "alice", waiting[0].Username)
		assert.Equal(t, "bob", waiting[1].Username)
	})

	t.Run("RemoveWaiting reports whether an entry existed", func(t *testing.T) {
		dir := NewDirectory()
		dir.AddWaiting(&WaitingEntry{Username: "alice"})

		assert.True(t, dir.RemoveWaiting("alice"))
		assert.False(t, dir.RemoveWaiting("alice"))
		assert.False(t, dir.IsWaiting("alice"))
	})
}

func TestDirectory_Sessions(t *testing.T) {
	t.Run("Sessions are found by id and by participant", func(t *testing.T) {
		dir := NewDirectory()
		session := entity.NewSession("s1", "alice", "bob", entity.DefaultBoardConfig())
		dir.PutSession(session)

		byID, exists := dir.Session("s1")
		require.True(t, exists)
		assert.Same(t, session, byID)

		byUser, exists := dir.SessionByUsername("bob")
		require.True(t, exists)
		assert.Same(t, session, byUser)

		_, exists = dir.SessionByUsername("carol")
		assert.False(t, exists)
	})

	t.Run("RemoveSession succeeds exactly once", func(t *testing.T) {
		dir := NewDirectory()
		dir.PutSession(entity.NewSession("s1", "alice", "bob", entity.DefaultBoardConfig()))

		assert.True(t, dir.RemoveSession("s1"))
		assert.False(t, dir.RemoveSession("s1"))
	})
}

func TestDirectory_ReconnectTimers(t *testing.T) {
	t.Run("Cancel reports whether a timer was pending", func(t *testing.T) {
		dir := NewDirectory()
		timer := time.AfterFunc(time.Hour, func() {})
		dir.PutReconnectTimer("alice", timer)

		assert.True(t, dir.CancelReconnectTimer("alice"))
		assert.False(t, dir.CancelReconnectTimer("alice"))
	})
}

func TestDirectory_Stats(t *testing.T) {
	t.Run("Stats reflect the committed state", func(t *testing.T) {
		// Given: one binding, one waiting entry, one session, one timer
		dir := NewDirectory()
		require.NoError(t, dir.Bind("alice", &fakeConn{name: "a"}))
		dir.AddWaiting(&WaitingEntry{Username: "alice"})
		dir.PutSession(entity.NewSession("s1", "bob", "carol", entity.DefaultBoardConfig()))
		dir.PutReconnectTimer("bob", time.AfterFunc(time.Hour, func() {}))

		stats := dir.Stats()

		assert.Equal(t, Stats{
			ActiveSessions:    1,
			WaitingPlayers:    1,
			ConnectedPlayers:  1,
			PendingReconnects: 1,
		}, stats)
	})
}
