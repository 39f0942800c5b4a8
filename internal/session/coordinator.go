package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/bot"
	"github.com/rocketscienceinc/connectfour-backend/internal/config"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/events"
)

const collaboratorTimeout = 5 * time.Second

// Recorder is the persistence collaborator. Every call is best-effort from
// the coordinator's perspective: failures are logged, never propagated.
type Recorder interface {
	UpsertUser(ctx context.Context, username string) error
	RecordResult(ctx context.Context, username, status, winner string) error
	RecordCompletedSession(ctx context.Context, completed *entity.CompletedSession) error
	RecordMove(ctx context.Context, sessionID string, move *entity.MoveRecord) error
}

// Coordinator is the single authority over live sessions. All entry points
// serialize through one mutex; collaborator calls and broadcasts are
// dispatched after the in-memory transition commits and never block it.
type Coordinator struct {
	logger *slog.Logger
	conf   config.Game

	dir    *Directory
	engine *bot.Engine
	store  Recorder
	events events.Publisher
	sup    *Supervisor

	mu sync.Mutex
}

func NewCoordinator(logger *slog.Logger, conf config.Game, dir *Directory, store Recorder, publisher events.Publisher) *Coordinator {
	coordinator := &Coordinator{
		logger: logger.With("component", "coordinator"),
		conf:   conf,
		dir:    dir,
		engine: bot.New(conf.BotSearchDepth),
		store:  store,
		events: publisher,
	}

	coordinator.sup = NewSupervisor(logger, dir, conf.ReconnectionGrace, coordinator.forfeitExpired)

	return coordinator
}

func (that *Coordinator) boardConfig() entity.BoardConfig {
	return entity.BoardConfig{
		Width:     that.conf.BoardWidth,
		Height:    that.conf.BoardHeight,
		WinLength: that.conf.WinLength,
	}
}

// Join binds the identity to the connection and either starts a bot session
// immediately or queues the identity for matchmaking.
func (that *Coordinator) Join(conn Conn, rawUsername string, vsBot bool) error {
	username := entity.NormalizeUsername(rawUsername)
	if username == "" {
		return apperror.ErrUsernameRequired
	}

	if username == entity.BotName {
		return apperror.ErrUsernameTaken
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.dir.Bind(username, conn); err != nil {
		return err
	}

	that.sup.Cancel(username)

	that.dispatch("upsert user", func(ctx context.Context) error {
		return that.store.UpsertUser(ctx, username)
	})
	that.publish(events.IdentityJoined(username))

	entry := &WaitingEntry{Username: username, Conn: conn, JoinedAt: time.Now()}

	if vsBot {
		that.startSession(entry, nil)
		return nil
	}

	that.dir.AddWaiting(entry)
	conn.Send(ActionWaiting, WaitingPayload{Username: username})

	that.logger.Info("player joined", "username", username)

	return nil
}

// Move applies one column drop for the identity bound to the connection.
// The turn check compares against the session's active slot, so a request
// arriving out of turn never mutates state.
func (that *Coordinator) Move(conn Conn, sessionID string, column int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	username, ok := that.dir.UsernameOf(conn)
	if !ok {
		return apperror.ErrPlayerNotFound
	}

	sess, ok := that.dir.Session(sessionID)
	if !ok {
		return apperror.ErrSessionNotFound
	}

	slot := sess.SlotOf(username)
	if slot == 0 {
		return apperror.ErrSessionNotFound
	}

	if sess.ActiveSlot != slot {
		return apperror.ErrNotYourTurn
	}

	result, err := that.applyMove(sess, slot, username, column)
	if err != nil {
		return err
	}

	that.publish(events.MoveMade(sess.ID, username, column, result.Row))

	if !sess.IsActive() {
		that.finishSession(sess)
		return nil
	}

	if opponent := sess.Opponent(slot); opponent.IsBot() && sess.ActiveSlot == opponent.Slot {
		that.scheduleBotMove(sess.ID)
	}

	return nil
}

// Reconnect rebinds the identity, cancels its grace timer and replays the
// full current state of its session to the new connection.
func (that *Coordinator) Reconnect(conn Conn, rawUsername, sessionID string) error {
	username := entity.NormalizeUsername(rawUsername)
	if username == "" {
		return apperror.ErrUsernameRequired
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.sup.Cancel(username)
	that.dir.Rebind(username, conn)

	var (
		sess *entity.Session
		ok   bool
	)

	if sessionID != "" {
		sess, ok = that.dir.Session(sessionID)
		if ok && !sess.Has(username) {
			ok = false
		}
	} else {
		sess, ok = that.dir.SessionByUsername(username)
	}

	if !ok {
		return apperror.ErrNoActiveSession
	}

	conn.Send(ActionReconnected, reconnectedPayload(sess, sess.SlotOf(username)))

	that.logger.Info("player reconnected", "username", username, "sessionID", sess.ID)

	return nil
}

// Disconnect releases the connection's binding and waiting entry. An
// identity that owns an active session gets a reconnection grace timer
// instead of an immediate forfeit.
func (that *Coordinator) Disconnect(conn Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	username, ok := that.dir.UnbindConn(conn)
	if !ok {
		return
	}

	that.dir.RemoveWaiting(username)

	if sess, found := that.dir.SessionByUsername(username); found && sess.IsActive() {
		that.sup.Start(username)
	}

	that.publish(events.IdentityDisconnected(username))

	that.logger.Info("player disconnected", "username", username)
}

// MatchPair starts a session for two waiting identities picked by the
// matchmaker. Entries that left the waiting list since the matchmaker's
// snapshot are dropped without pairing.
func (that *Coordinator) MatchPair(first, second *WaitingEntry) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.dir.IsWaiting(first.Username) || !that.dir.IsWaiting(second.Username) {
		return
	}

	that.startSession(first, second)
}

// MatchWithBot starts a bot session for a waiting identity that exceeded
// the matchmaking timeout.
func (that *Coordinator) MatchWithBot(entry *WaitingEntry) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.dir.IsWaiting(entry.Username) {
		return
	}

	that.startSession(entry, nil)
}

// Stats returns a snapshot of the directory's committed state.
func (that *Coordinator) Stats() Stats {
	return that.dir.Stats()
}

// startSession creates and announces a session; a nil second entry pairs
// the first with the bot. The caller holds the coordinator mutex.
func (that *Coordinator) startSession(first, second *WaitingEntry) {
	playerTwo := entity.BotName
	if second != nil {
		playerTwo = second.Username
	}

	sess := entity.NewSession(uuid.NewString(), first.Username, playerTwo, that.boardConfig())

	that.dir.PutSession(sess)
	that.dir.RemoveWaiting(first.Username)
	if second != nil {
		that.dir.RemoveWaiting(second.Username)
	}

	first.Conn.Send(ActionStarted, startedPayload(sess, entity.SlotOne))
	if second != nil {
		second.Conn.Send(ActionStarted, startedPayload(sess, entity.SlotTwo))
	}

	that.publish(events.SessionStarted(sess.ID, sess.Participants[0].Username, playerTwo, second == nil))

	that.logger.Info("session started",
		"sessionID", sess.ID,
		"player1", sess.Participants[0].Username,
		"player2", playerTwo,
	)
}

// applyMove commits one move, records it, and broadcasts the new state.
func (that *Coordinator) applyMove(sess *entity.Session, slot int, actor string, column int) (*entity.MoveResult, error) {
	result, err := sess.Board.ApplyMove(column, slot)
	if err != nil {
		return nil, err
	}

	sess.MoveCount++

	if result.Status == entity.StatusActive {
		sess.ActiveSlot = sess.Opponent(slot).Slot
	} else {
		sess.ActiveSlot = 0
	}

	move := &entity.MoveRecord{
		MoveNumber: sess.MoveCount,
		Actor:      actor,
		Column:     column,
		Row:        result.Row,
	}
	that.dispatch("record move", func(ctx context.Context) error {
		return that.store.RecordMove(ctx, sess.ID, move)
	})

	that.broadcastUpdate(sess, &LastMove{Actor: actor, Column: column, Row: result.Row}, "")

	return result, nil
}

func (that *Coordinator) scheduleBotMove(sessionID string) {
	time.AfterFunc(that.conf.BotMoveDelay, func() {
		that.playBotMove(sessionID)
	})
}

// playBotMove is the delayed bot continuation. It re-fetches the session by
// key and re-validates its state: a session that ended or advanced while
// the delay elapsed makes this a no-op.
func (that *Coordinator) playBotMove(sessionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	sess, ok := that.dir.Session(sessionID)
	if !ok || !sess.IsActive() {
		return
	}

	var botSlot int
	for _, participant := range sess.Participants {
		if participant.IsBot() {
			botSlot = participant.Slot
		}
	}

	if botSlot == 0 || sess.ActiveSlot != botSlot {
		return
	}

	started := time.Now()
	column := that.engine.BestMove(sess.Board.Clone(), botSlot, sess.Opponent(botSlot).Slot)
	if column == bot.NoMove {
		that.logger.Warn("bot found no valid move", "sessionID", sess.ID)
		return
	}

	result, err := that.applyMove(sess, botSlot, entity.BotName, column)
	if err != nil {
		that.logger.Error("bot made invalid move", "sessionID", sess.ID, "column", column, "error", err)
		return
	}

	that.publish(events.BotMove(sess.ID, column, result.Row, time.Since(started)))

	if !sess.IsActive() {
		that.finishSession(sess)
	}
}

// forfeitExpired is the reconnection grace continuation. State is
// re-validated under the lock; a stale timer is a normal no-op.
func (that *Coordinator) forfeitExpired(username string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.dir.ClearReconnectTimer(username)

	sess, ok := that.dir.SessionByUsername(username)
	if !ok || !sess.IsActive() {
		return
	}

	sess.Forfeit(sess.SlotOf(username))

	that.broadcastUpdate(sess, nil, username+" disconnected and did not reconnect")

	that.logger.Info("session forfeited", "sessionID", sess.ID, "username", username)

	that.finishSession(sess)
}

// finishSession runs end-of-session processing exactly once: eviction from
// the directory is the idempotency gate, so a racing terminal-move path and
// forfeit path cannot both proceed.
func (that *Coordinator) finishSession(sess *entity.Session) {
	if !that.dir.RemoveSession(sess.ID) {
		return
	}

	status := sess.Status()
	winner := sess.WinnerUsername()
	duration := int(time.Since(sess.StartedAt).Seconds())

	for _, participant := range sess.Participants {
		if participant.IsBot() {
			continue
		}

		username := participant.Username
		that.sup.Cancel(username)

		that.dispatch("record stats", func(ctx context.Context) error {
			return that.store.RecordResult(ctx, username, status, winner)
		})

		if _, inAnother := that.dir.SessionByUsername(username); !inAnother {
			that.dir.Unbind(username)
		}
	}

	completed := &entity.CompletedSession{
		ID:              sess.ID,
		PlayerOne:       sess.Participants[0].Username,
		PlayerTwo:       sess.Participants[1].Username,
		Winner:          winner,
		Status:          status,
		DurationSeconds: duration,
		TotalMoves:      sess.MoveCount,
		FinalBoard:      sess.Board.Cells,
		CompletedAt:     time.Now(),
	}
	that.dispatch("record completed session", func(ctx context.Context) error {
		return that.store.RecordCompletedSession(ctx, completed)
	})

	that.publish(events.SessionEnded(sess.ID, status, winner, sess.MoveCount, duration))

	that.logger.Info("session finished", "sessionID", sess.ID, "status", status, "winner", winner)
}

// broadcastUpdate pushes the committed session state to both bound
// participants. The caller holds the coordinator mutex.
func (that *Coordinator) broadcastUpdate(sess *entity.Session, lastMove *LastMove, message string) {
	payload := UpdatePayload{
		SessionID:    sess.ID,
		Board:        sess.Board,
		ActiveSlot:   sess.ActiveSlot,
		Status:       sess.Status(),
		Winner:       sess.WinnerUsername(),
		WinningCells: sess.Board.WinningCells,
		LastMove:     lastMove,
		MoveCount:    sess.MoveCount,
		Message:      message,
	}

	for _, participant := range sess.Participants {
		if participant.IsBot() {
			continue
		}

		if conn, ok := that.dir.ConnOf(participant.Username); ok {
			conn.Send(ActionUpdate, payload)
		}
	}
}

// dispatch runs a collaborator call off the hot path; a failure is logged
// and never rolls back the committed in-memory transition.
func (that *Coordinator) dispatch(what string, call func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
		defer cancel()

		if err := call(ctx); err != nil {
			that.logger.Error("collaborator call failed", "call", what, "error", err)
		}
	}()
}

func (that *Coordinator) publish(event events.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
		defer cancel()

		that.events.Publish(ctx, event)
	}()
}
