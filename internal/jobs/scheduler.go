package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"pirouette/internal/service"
)

const refreshClassLimit = 200

// Scheduler periodically recounts confirmed bookings for upcoming classes
// and rewrites the seat-count cache, repairing drift from best-effort
// invalidation.
type Scheduler struct {
	cron     *cron.Cron
	bookings *service.BookingService
	log      zerolog.Logger
}

func NewScheduler(bookings *service.BookingService, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		bookings: bookings,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("*/10 * * * *", s.refreshSeatCounts); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refreshSeatCounts() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.bookings.RefreshSeatCounts(ctx, refreshClassLimit); err != nil {
		s.log.Error().Err(err).Msg("seat count refresh failed")
		return
	}
	s.log.Debug().Msg("seat counts refreshed")
}
