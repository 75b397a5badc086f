// Package retention wires up the cron job that hard-deletes applications
// whose soft-deletion has passed the retention horizon. Soft-deleted rows
// are invisible to every read path already; the sweep just reclaims them.
package retention

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

// Sweeper wraps robfig/cron and manages the purge loop.
type Sweeper struct {
	cron          *cron.Cron
	pool          *pgxpool.Pool
	retentionDays int
	spec          string // cron spec, e.g. "@every 24h"
}

// New creates a Sweeper that fires every intervalHours hours and purges rows
// soft-deleted more than retentionDays ago.
func New(pool *pgxpool.Pool, intervalHours, retentionDays int) *Sweeper {
	return &Sweeper{
		cron:          cron.New(cron.WithLogger(cron.DefaultLogger)),
		pool:          pool,
		retentionDays: retentionDays,
		spec:          fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one sweep
// immediately so a long-stopped instance catches up without waiting for the
// first tick.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[retention] Cron started — spec: %s", s.spec)

	go s.runSweep(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	log.Println("[retention] Cron stopped")
}

func (s *Sweeper) runSweep(ctx context.Context) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM applications
		 WHERE deleted_at IS NOT NULL
		   AND deleted_at < NOW() - make_interval(days => $1)`,
		s.retentionDays,
	)
	if err != nil {
		log.Printf("[retention] sweep error: %v", err)
		return
	}
	if n := tag.RowsAffected(); n > 0 {
		log.Printf("[retention] purged %d application(s)", n)
	}
}
