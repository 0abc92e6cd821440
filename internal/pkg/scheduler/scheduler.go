package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
)

// InterestScheduler fires the quarterly interest job on a cron spec.
// The HTTP trigger stays available alongside it; the store-level
// quarter check makes an overlapping fire harmless.
type InterestScheduler struct {
	cron *cron.Cron
}

func NewInterestScheduler(spec string, job func()) (*InterestScheduler, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, err
	}
	return &InterestScheduler{cron: c}, nil
}

func (s *InterestScheduler) Start() {
	s.cron.Start()
}

// Stop ends the schedule; the returned context is done once any running
// job finishes.
func (s *InterestScheduler) Stop() context.Context {
	return s.cron.Stop()
}
