package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gbergara/trip-planner/pkg/airports"
	"github.com/gbergara/trip-planner/pkg/log"
)

// refreshSchedule re-downloads the airport dataset nightly, well after
// the OpenFlights mirror updates.
const refreshSchedule = "0 3 * * *"

// Scheduler owns the background jobs of the service.
type Scheduler struct {
	cron     *cron.Cron
	airports *airports.Service
}

// New creates a scheduler wired to the airport service.
func New(airportSvc *airports.Service) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		airports: airportSvc,
	}
}

// Start registers and starts the background jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(refreshSchedule, s.refreshAirports)
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Info("background job scheduler started")
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("background job scheduler stopped")
}

func (s *Scheduler) refreshAirports() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.airports.Refresh(ctx); err != nil {
		log.WithError(err).Error("scheduled airport refresh failed")
	}
}
