package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/nravi/wealthtrack/internal/cache"
	"github.com/nravi/wealthtrack/internal/database"
)

// CacheSweepJob drops expired entries from the in-process cache. Only wired
// when the memory backend is active; Redis expires keys itself.
type CacheSweepJob struct {
	cache *cache.Memory
	log   zerolog.Logger
}

// NewCacheSweepJob creates the hourly cache sweep.
func NewCacheSweepJob(c *cache.Memory, log zerolog.Logger) *CacheSweepJob {
	return &CacheSweepJob{
		cache: c,
		log:   log.With().Str("job", "cache_sweep").Logger(),
	}
}

// Name implements Job.
func (j *CacheSweepJob) Name() string { return "cache_sweep" }

// Run implements Job.
func (j *CacheSweepJob) Run() error {
	removed := j.cache.Sweep()
	j.log.Debug().Int("removed", removed).Int("live", j.cache.Len()).Msg("Swept cache")
	return nil
}

// WalCheckpointJob flushes the SQLite WAL back into the main database file so
// the WAL does not grow unbounded under a write-heavy day.
type WalCheckpointJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewWalCheckpointJob creates the daily WAL checkpoint.
func NewWalCheckpointJob(db *database.DB, log zerolog.Logger) *WalCheckpointJob {
	return &WalCheckpointJob{
		db:  db,
		log: log.With().Str("job", "wal_checkpoint").Logger(),
	}
}

// Name implements Job.
func (j *WalCheckpointJob) Name() string { return "wal_checkpoint" }

// Run implements Job.
func (j *WalCheckpointJob) Run() error {
	if err := j.db.Checkpoint(); err != nil {
		return err
	}
	j.log.Debug().Msg("WAL checkpoint complete")
	return nil
}
