package newsfeed

import "context"

// RefreshJob adapts the service to the scheduler's Job interface
type RefreshJob struct {
	service *Service
}

// NewRefreshJob creates the periodic feed refresh job
func NewRefreshJob(service *Service) *RefreshJob {
	return &RefreshJob{service: service}
}

// Name implements scheduler.Job
func (j *RefreshJob) Name() string {
	return "newsfeed_refresh"
}

// Run implements scheduler.Job
func (j *RefreshJob) Run() error {
	return j.service.Refresh(context.Background())
}
