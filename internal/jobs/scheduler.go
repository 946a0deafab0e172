package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/session"
)

// Scheduler runs the hourly sweep of expired sessions. Backends whose
// entries expire on their own (redis) don't implement session.Purger, in
// which case there is nothing to schedule.
type Scheduler struct {
	cron   *cron.Cron
	purger session.Purger
	log    zerolog.Logger
}

func NewScheduler(manager session.Manager, log zerolog.Logger) *Scheduler {
	purger, _ := manager.(session.Purger)
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		purger: purger,
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if s.purger == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 */1 * * *", s.purgeSessions); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for in-flight jobs to drain or for ctx to expire,
// whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) purgeSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("session purge failed")
		return
	}
	if purged > 0 {
		s.log.Info().Int64("purged", purged).Msg("expired sessions purged")
	}
}
