package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper is anything that can drop expired entries and report the count.
type Sweeper interface {
	Sweep() int
}

// SessionSweepWorker periodically evicts expired in-memory admin sessions.
// Redis-backed sessions expire via key TTL and do not need it.
type SessionSweepWorker struct {
	sweeper  Sweeper
	interval time.Duration
}

// NewSessionSweepWorker constructs a SessionSweepWorker.
func NewSessionSweepWorker(sweeper Sweeper, interval time.Duration) *SessionSweepWorker {
	return &SessionSweepWorker{sweeper: sweeper, interval: interval}
}

// Start begins the periodic sweep loop until context is canceled.
func (w *SessionSweepWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting session sweep worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if dropped := w.sweeper.Sweep(); dropped > 0 {
				log.Debug().Int("dropped", dropped).Msg("Swept expired admin sessions")
			}
		case <-ctx.Done():
			log.Info().Msg("Session sweep worker stopped")
			return
		}
	}
}
