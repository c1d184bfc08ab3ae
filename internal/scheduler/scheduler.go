package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"CrossWatch/internal/dispatch"
)

// Scheduler repeats poll cycles. By default it sleeps a fixed interval
// measured from the end of one cycle to the start of the next; a cron
// expression can be configured instead. The stop signal is honored between
// cycles only, never mid-cycle.
type Scheduler struct {
	Dispatcher *dispatch.Dispatcher
	Interval   time.Duration
	CronSpec   string
	Ctx        context.Context
	Log        *zap.Logger
}

// NewScheduler creates a Scheduler. cronSpec may be empty, which selects the
// fixed-interval loop.
func NewScheduler(ctx context.Context, d *dispatch.Dispatcher, interval time.Duration, cronSpec string, log *zap.Logger) *Scheduler {
	return &Scheduler{
		Dispatcher: d,
		Interval:   interval,
		CronSpec:   cronSpec,
		Ctx:        ctx,
		Log:        log,
	}
}

// Run blocks until the context is cancelled.
func (s *Scheduler) Run() error {
	if s.CronSpec != "" {
		return s.runCron()
	}
	s.runInterval()
	return nil
}

func (s *Scheduler) runInterval() {
	s.Log.Info("scheduler started", zap.Duration("interval", s.Interval))
	for {
		s.Dispatcher.RunCycle(s.Ctx)
		select {
		case <-s.Ctx.Done():
			s.Log.Info("scheduler stopped")
			return
		case <-time.After(s.Interval):
		}
	}
}

func (s *Scheduler) runCron() error {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(s.CronSpec, func() {
		s.Dispatcher.RunCycle(s.Ctx)
	}); err != nil {
		return fmt.Errorf("register cron task: %w", err)
	}
	c.Start()
	s.Log.Info("scheduler started", zap.String("cron", s.CronSpec))
	<-s.Ctx.Done()
	c.Stop()
	s.Log.Info("scheduler stopped")
	return nil
}

// RunNow executes one cycle immediately (manual trigger / run-on-start).
func (s *Scheduler) RunNow() {
	s.Dispatcher.RunCycle(s.Ctx)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/check":
		s.RunNow()
		return "cycle complete"
	case "/ping":
		return "alive"
	default:
		return "commands:\n/check - run a poll cycle now\n/ping - liveness check"
	}
}
