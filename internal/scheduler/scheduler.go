// Package scheduler runs the periodic cleanup of expired samagams.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kirtanupdate/server/internal/storage"
)

// Cleaner deletes samagams dated before the start of the current day.
type Cleaner struct {
	samagams *storage.SamagamRepo
	interval time.Duration
	now      func() time.Time
}

func NewCleaner(samagams *storage.SamagamRepo, interval time.Duration) *Cleaner {
	return &Cleaner{
		samagams: samagams,
		interval: interval,
		now:      time.Now,
	}
}

// Sweep runs one cleanup pass.
func (c *Cleaner) Sweep() {
	now := c.now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	deleted, err := c.samagams.DeleteExpired(cutoff)
	if err != nil {
		log.Error().Err(err).Str("module", "scheduler").Msg("samagam cleanup")
		return
	}
	if deleted > 0 {
		log.Info().Str("module", "scheduler").Int64("deleted", deleted).Msg("expired samagams removed")
	}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	log.Info().Str("module", "scheduler").Dur("interval", c.interval).Msg("samagam cleanup started")
	c.Sweep()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "scheduler").Msg("samagam cleanup stopped")
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
