package session

import (
	"log/slog"
	"time"
)

// Supervisor owns the per-identity reconnection grace timers. A timer
// exists only while an identity owns an active session and has no live
// binding; rebinding or session termination cancels it.
type Supervisor struct {
	logger *slog.Logger
	dir    *Directory
	grace  time.Duration
	expire func(username string)
}

func NewSupervisor(logger *slog.Logger, dir *Directory, grace time.Duration, expire func(username string)) *Supervisor {
	return &Supervisor{
		logger: logger.With("component", "reconnect"),
		dir:    dir,
		grace:  grace,
		expire: expire,
	}
}

// Start arms the grace timer for the username, replacing any previous one.
// The expiry callback re-validates current state before acting, so a timer
// that fires after a rebind or session end is a safe no-op.
func (that *Supervisor) Start(username string) {
	timer := time.AfterFunc(that.grace, func() {
		that.logger.Info("reconnection grace expired", "username", username)
		that.expire(username)
	})

	that.dir.PutReconnectTimer(username, timer)

	that.logger.Info("reconnection grace started", "username", username, "grace", that.grace)
}

// Cancel stops any pending grace timer for the username.
func (that *Supervisor) Cancel(username string) {
	if that.dir.CancelReconnectTimer(username) {
		that.logger.Info("reconnection grace cancelled", "username", username)
	}
}
