// Package scheduler runs named background jobs on cron schedules.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a named unit of background work
type Job interface {
	Run() error
	Name() string
}

// Scheduler wraps a cron runner with per-job logging
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New creates a scheduler. Schedules use the six-field cron syntax
// (seconds first) or descriptors like "@hourly" and "@every 15m".
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Start begins running registered jobs on their schedules
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop halts the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a job under the given schedule
func (s *Scheduler) AddJob(schedule string, job Job) error {
	jobLog := s.log.With().Str("job", job.Name()).Logger()

	_, err := s.cron.AddFunc(schedule, func() {
		jobLog.Debug().Msg("Job starting")
		if err := job.Run(); err != nil {
			jobLog.Error().Err(err).Msg("Job failed")
			return
		}
		jobLog.Debug().Msg("Job finished")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", job.Name(), err)
	}

	jobLog.Info().Str("schedule", schedule).Msg("Job registered")
	return nil
}

// RunNow executes a job once, outside its schedule
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job on demand")
	return job.Run()
}
