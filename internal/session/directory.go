package session

import (
	"sync"
	"time"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// Conn is a live connection handle capable of receiving outbound payloads.
// Send must never block the caller; slow receivers are the transport's
// problem.
type Conn interface {
	Send(action string, payload any)
}

// WaitingEntry is an identity queued for matchmaking.
type WaitingEntry struct {
	Username string
	Conn     Conn
	JoinedAt time.Time
}

// Stats is a committed-state snapshot of the directory's bookkeeping.
type Stats struct {
	ActiveSessions    int `json:"active_sessions"`
	WaitingPlayers    int `json:"waiting_players"`
	ConnectedPlayers  int `json:"connected_players"`
	PendingReconnects int `json:"pending_reconnects"`
}

// Directory is the authoritative in-memory mapping of identities to
// connections, waiting entries, active sessions and reconnection timers.
// Every other component reads and mutates this state only through its
// methods.
type Directory struct {
	mu sync.RWMutex

	bindings  map[string]Conn
	usernames map[Conn]string
	waiting   []*WaitingEntry
	sessions  map[string]*entity.Session
	timers    map[string]*time.Timer
}

func NewDirectory() *Directory {
	return &Directory{
		bindings:  make(map[string]Conn),
		usernames: make(map[Conn]string),
		sessions:  make(map[string]*entity.Session),
		timers:    make(map[string]*time.Timer),
	}
}

// Bind registers a live connection for the username. A username that is
// already bound is a conflict; the existing binding is left untouched.
func (that *Directory) Bind(username string, conn Conn) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, exists := that.bindings[username]; exists {
		return apperror.ErrUsernameTaken
	}

	that.bindings[username] = conn
	that.usernames[conn] = username

	return nil
}

// Rebind replaces any existing binding for the username with the given
// connection. Used on reconnects, where taking over the identity is the
// point.
func (that *Directory) Rebind(username string, conn Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if existing, exists := that.bindings[username]; exists {
		delete(that.usernames, existing)
	}

	that.bindings[username] = conn
	that.usernames[conn] = username
}

// UnbindConn removes the binding owned by the connection and reports which
// username it belonged to.
func (that *Directory) UnbindConn(conn Conn) (string, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	username, exists := that.usernames[conn]
	if !exists {
		return "", false
	}

	delete(that.usernames, conn)

	// Only drop the forward mapping if it still points at this connection;
	// a reconnect may already have taken the identity over.
	if bound, ok := that.bindings[username]; ok && bound == conn {
		delete(that.bindings, username)
	}

	return username, true
}

// Unbind releases the username's binding regardless of which connection
// holds it.
func (that *Directory) Unbind(username string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if conn, exists := that.bindings[username]; exists {
		delete(that.usernames, conn)
		delete(that.bindings, username)
	}
}

// UsernameOf resolves a connection to its bound identity.
func (that *Directory) UsernameOf(conn Conn) (string, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	username, exists := that.usernames[conn]

	return username, exists
}

// ConnOf resolves an identity to its live connection.
func (that *Directory) ConnOf(username string) (Conn, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	conn, exists := that.bindings[username]

	return conn, exists
}

func (that *Directory) AddWaiting(entry *WaitingEntry) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.waiting = append(that.waiting, entry)
}

// RemoveWaiting drops the username's waiting entry and reports whether one
// existed.
func (that *Directory) RemoveWaiting(username string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, entry := range that.waiting {
		if entry.Username == username {
			that.waiting = append(that.waiting[:i], that.waiting[i+1:]...)
			return true
		}
	}

	return false
}

// Waiting returns a snapshot of the waiting list ordered by arrival time.
func (that *Directory) Waiting() []*WaitingEntry {
	that.mu.RLock()
	defer that.mu.RUnlock()

	snapshot := make([]*WaitingEntry, len(that.waiting))
	copy(snapshot, that.waiting)

	return snapshot
}

// IsWaiting reports whether the username is still queued.
func (that *Directory) IsWaiting(username string) bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, entry := range that.waiting {
		if entry.Username == username {
			return true
		}
	}

	return false
}

func (that *Directory) PutSession(session *entity.Session) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[session.ID] = session
}

func (that *Directory) Session(id string) (*entity.Session, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, exists := that.sessions[id]

	return session, exists
}

// SessionByUsername scans the active sessions for one the username
// participates in.
func (that *Directory) SessionByUsername(username string) (*entity.Session, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, session := range that.sessions {
		if session.Has(username) {
			return session, true
		}
	}

	return nil, false
}

// RemoveSession evicts the session and reports whether it was present,
// which gives end-of-session processing its exactly-once guarantee.
func (that *Directory) RemoveSession(id string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, exists := that.sessions[id]; !exists {
		return false
	}

	delete(that.sessions, id)

	return true
}

// PutReconnectTimer registers the username's grace timer, stopping any
// previous one; at most one timer per identity exists at a time.
func (that *Directory) PutReconnectTimer(username string, timer *time.Timer) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if existing, exists := that.timers[username]; exists {
		existing.Stop()
	}

	that.timers[username] = timer
}

// CancelReconnectTimer stops and removes the username's grace timer,
// reporting whether one was pending.
func (that *Directory) CancelReconnectTimer(username string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	timer, exists := that.timers[username]
	if !exists {
		return false
	}

	timer.Stop()
	delete(that.timers, username)

	return true
}

// ClearReconnectTimer removes the bookkeeping entry without stopping the
// timer; used by a timer that just fired.
func (that *Directory) ClearReconnectTimer(username string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.timers, username)
}

func (that *Directory) Stats() Stats {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return Stats{
		ActiveSessions:    len(that.sessions),
		WaitingPlayers:    len(that.waiting),
		ConnectedPlayers:  len(that.bindings),
		PendingReconnects: len(that.timers),
	}
}
