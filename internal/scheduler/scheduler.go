package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the background jobs: the overdue sweep and the reminder
// dispatch. Jobs get a bounded context so a stuck SMTP server cannot wedge
// the cron goroutine forever.
type Scheduler struct {
	c   *cron.Cron
	log *logrus.Logger
}

func New(log *logrus.Logger) *Scheduler {
	return &Scheduler{c: cron.New(), log: log}
}

func (s *Scheduler) AddJob(spec, name string, fn func(ctx context.Context) error) error {
	_, err := s.c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		start := time.Now()
		if err := fn(ctx); err != nil {
			s.log.WithError(err).Errorf("job %s failed", name)
			return
		}
		s.log.WithField("took", time.Since(start).String()).Infof("job %s completed", name)
	})
	return err
}

func (s *Scheduler) Start() { s.c.Start() }

// Stop halts scheduling; the returned context is done once running jobs exit.
func (s *Scheduler) Stop() context.Context { return s.c.Stop() }
