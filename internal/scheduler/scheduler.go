package scheduler

import (
	"context"
	"time"

	"courtside/internal/service"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Scheduler runs the periodic booking sweeps: expiring PENDING bookings whose
// payment window lapsed and completing CONFIRMED bookings whose end time has
// passed. It owns its gocron instance so tests can run isolated copies.
type Scheduler struct {
	cron     gocron.Scheduler
	bookings *service.BookingService
	logger   zerolog.Logger
}

func New(bookings *service.BookingService, logger zerolog.Logger) (*Scheduler, error) {
	cron, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: cron, bookings: bookings, logger: logger}, nil
}

// Start registers the sweep jobs and begins running them. Jobs run singleton
// so a slow sweep never overlaps with the next tick.
func (s *Scheduler) Start(interval time.Duration) error {
	_, err := s.cron.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.sweep),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("booking-sweep"),
	)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info().Dur("interval", interval).Msg("booking sweep scheduler started")
	return nil
}

func (s *Scheduler) Stop() error {
	return s.cron.Shutdown()
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expired, err := s.bookings.ExpirePending(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("expire sweep failed")
	} else if expired > 0 {
		s.logger.Info().Int("count", expired).Msg("expired unpaid bookings")
	}

	completed, err := s.bookings.CompleteElapsed(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("complete sweep failed")
	} else if completed > 0 {
		s.logger.Info().Int64("count", completed).Msg("completed elapsed bookings")
	}
}
