package session

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

func newTestMatchmaker(coord *Coordinator, dir *Directory) *Matchmaker {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	conf := testGameConfig()

	return NewMatchmaker(logger, dir, coord, conf.MatchmakingInterval, conf.MatchmakingTimeout)
}

func TestMatchmaker_Tick(t *testing.T) {
	t.Run("Two fresh players are paired into one session", func(t *testing.T) {
		// Given: two players queued under the bot timeout
		coord, dir, _ := newTestCoordinator(testGameConfig())
		one, two := &recordingConn{}, &recordingConn{}
		require.NoError(t, coord.Join(one, "alice", false))
		require.NoError(t, coord.Join(two, "bob", false))

		matchmaker := newTestMatchmaker(coord, dir)

		// When: a tick fires
		matchmaker.tick(time.Now())

		// Then: they share one session and neither went to the bot
		assert.Equal(t, 1, dir.Stats().ActiveSessions)

		sess, ok := dir.SessionByUsername("alice")
		require.True(t, ok)
		assert.True(t, sess.Has("bob"))
		assert.False(t, sess.IsVsBot())

		assert.Equal(t, 1, one.countOf(ActionStarted))
		assert.Equal(t, 1, two.countOf(ActionStarted))
	})

	t.Run("Players are paired oldest first", func(t *testing.T) {
		// Given: three players queued in order
		coord, dir, _ := newTestCoordinator(testGameConfig())
		require.NoError(t, coord.Join(&recordingConn{}, "alice", false))
		require.NoError(t, coord.Join(&recordingConn{}, "bob", false))
		require.NoError(t, coord.Join(&recordingConn{}, "carol", false))

		newTestMatchmaker(coord, dir).tick(time.Now())

		// Then: the oldest two are paired and the third keeps waiting
		sess, ok := dir.SessionByUsername("alice")
		require.True(t, ok)
		assert.True(t, sess.Has("bob"))
		assert.True(t, dir.IsWaiting("carol"))
	})

	t.Run("A player past the timeout goes to the bot", func(t *testing.T) {
		// Given: a single player who has waited past the bot timeout
		coord, dir, _ := newTestCoordinator(testGameConfig())
		conn := &recordingConn{}
		require.NoError(t, coord.Join(conn, "alice", false))

		matchmaker := newTestMatchmaker(coord, dir)

		// When: a tick fires after the timeout elapsed
		matchmaker.tick(time.Now().Add(matchmaker.botTimeout))

		// Then: the player is matched with the bot
		sess, ok := dir.SessionByUsername("alice")
		require.True(t, ok)
		assert.True(t, sess.IsVsBot())
		assert.Equal(t, entity.BotName, sess.Participants[1].Username)
	})

	t.Run("Partitioning happens once per tick", func(t *testing.T) {
		// Given: one player past the timeout and one fresh
		coord, dir, _ := newTestCoordinator(testGameConfig())
		matchmaker := newTestMatchmaker(coord, dir)

		stale := &recordingConn{}
		require.NoError(t, coord.Join(stale, "alice", false))

		time.Sleep(matchmaker.botTimeout)

		fresh := &recordingConn{}
		require.NoError(t, coord.Join(fresh, "bob", false))

		// When: a tick fires
		matchmaker.tick(time.Now())

		// Then: the stale player faces the bot and the fresh one keeps
		// waiting for a human
		sess, ok := dir.SessionByUsername("alice")
		require.True(t, ok)
		assert.True(t, sess.IsVsBot())
		assert.True(t, dir.IsWaiting("bob"))
	})

	t.Run("An empty queue is a no-op tick", func(t *testing.T) {
		coord, dir, _ := newTestCoordinator(testGameConfig())

		newTestMatchmaker(coord, dir).tick(time.Now())

		assert.Equal(t, 0, dir.Stats().ActiveSessions)
	})
}
