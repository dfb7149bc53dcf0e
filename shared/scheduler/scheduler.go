package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/RedJS19J/YT-Analytics/shared/config"
	"github.com/RedJS19J/YT-Analytics/shared/monitoring"

	"github.com/robfig/cron/v3"
)

// Agent defines the interface the scheduler drives.
type Agent interface {
	Name() string
	Initialize() error
	RunOnce(ctx context.Context) error
}

// Scheduler runs the agent on a cron schedule.
type Scheduler struct {
	config  *config.Config
	monitor *monitoring.Monitor
	agent   Agent
	cron    *cron.Cron
}

func New(cfg *config.Config, agent Agent) *Scheduler {
	return &Scheduler{
		config:  cfg,
		monitor: monitoring.NewMonitor(),
		agent:   agent,
		// Prevent overlapping runs
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.agent.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize agent: %w", err)
	}

	healthServer := monitoring.NewHealthServer(s.monitor, s.config.Monitoring.HealthPort)
	healthServer.Start()

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		if err := s.RunOnce(ctx); err != nil {
			log.Printf("Error running scheduled job for %s: %v", s.agent.Name(), err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	log.Printf("Scheduler started for %s with schedule: %s", s.agent.Name(), s.config.Schedule)
	s.cron.Start()

	<-ctx.Done()
	log.Printf("Scheduler stopped for %s", s.agent.Name())
	s.cron.Stop()
	return ctx.Err()
}

func (s *Scheduler) RunOnce(ctx context.Context) error {
	startTime := time.Now()
	agentName := s.agent.Name()

	log.Printf("Starting %s run...", agentName)

	if err := s.agent.RunOnce(ctx); err != nil {
		s.monitor.RecordFailure(fmt.Errorf("%s failed: %w", agentName, err), time.Since(startTime))
		return fmt.Errorf("%s run failed: %w", agentName, err)
	}

	s.monitor.RecordSuccess(fmt.Sprintf("%s finished", agentName), time.Since(startTime))
	return nil
}
