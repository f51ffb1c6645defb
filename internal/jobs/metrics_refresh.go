package jobs

import (
	"context"
	"log"
	"time"

	"auraportal/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// Interval at which the dashboard aggregate is recomputed in the background.
const dashboardRefreshInterval = 5 * time.Minute

// Scheduler runs the portal's background jobs.
type Scheduler struct {
	scheduler     gocron.Scheduler
	memberService services.MemberService
}

// NewScheduler creates the background scheduler and registers its jobs.
func NewScheduler(memberService services.MemberService) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		scheduler:     scheduler,
		memberService: memberService,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(dashboardRefreshInterval),
		gocron.NewTask(s.refreshDashboard),
		gocron.WithName("dashboard-metrics-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Start starts the job scheduler
func (s *Scheduler) Start() {
	log.Printf("Starting background job scheduler")
	s.scheduler.Start()
}

// Stop stops the job scheduler
func (s *Scheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) refreshDashboard() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.memberService.RefreshDashboard(ctx); err != nil {
		log.Printf("Failed to refresh dashboard metrics: %v", err)
	}
}
