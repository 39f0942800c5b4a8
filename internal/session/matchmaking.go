package session

import (
	"context"
	"log/slog"
	"time"
)

// Matchmaker pairs waiting identities on a fixed tick: oldest two first,
// with a bot fallback once an entry has waited past the timeout.
type Matchmaker struct {
	logger     *slog.Logger
	dir        *Directory
	coord      *Coordinator
	interval   time.Duration
	botTimeout time.Duration
}

func NewMatchmaker(logger *slog.Logger, dir *Directory, coord *Coordinator, interval, botTimeout time.Duration) *Matchmaker {
	return &Matchmaker{
		logger:     logger.With("component", "matchmaking"),
		dir:        dir,
		coord:      coord,
		interval:   interval,
		botTimeout: botTimeout,
	}
}

// Run drives the tick loop until the context is cancelled. Ticks never
// overlap: each one completes before the next is read.
func (that *Matchmaker) Run(ctx context.Context) {
	ticker := time.NewTicker(that.interval)
	defer ticker.Stop()

	that.logger.Info("matchmaking started", "interval", that.interval, "botTimeout", that.botTimeout)

	for {
		select {
		case <-ctx.Done():
			that.logger.Info("matchmaking stopped")
			return
		case <-ticker.C:
			that.tick(time.Now())
		}
	}
}

// tick partitions a snapshot of the waiting list once, pairs the
// under-timeout entries in arrival order, and sends everyone past the
// timeout to the bot. An entry crossing the timeout mid-tick keeps the
// bucket it was partitioned into.
func (that *Matchmaker) tick(now time.Time) {
	snapshot := that.dir.Waiting()
	if len(snapshot) == 0 {
		return
	}

	var readyForBot, readyForHuman []*WaitingEntry

	for _, entry := range snapshot {
		if now.Sub(entry.JoinedAt) >= that.botTimeout {
			readyForBot = append(readyForBot, entry)
		} else {
			readyForHuman = append(readyForHuman, entry)
		}
	}

	for len(readyForHuman) >= 2 {
		first, second := readyForHuman[0], readyForHuman[1]
		readyForHuman = readyForHuman[2:]

		that.coord.MatchPair(first, second)
	}

	for _, entry := range readyForBot {
		that.coord.MatchWithBot(entry)
	}
}
