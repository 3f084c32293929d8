package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-payments-backend/internal/services/payments"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const runTimeout = 4 * time.Minute

// LateSweeper is the part of the payments service the nightly job drives.
type LateSweeper interface {
	UpdateLatePaymentsStatus(ctx context.Context) (int64, error)
	NotifyLatePayments(ctx context.Context) (*payments.NoticeRun, error)
}

// Scheduler runs the late sweep, followed by late notices when enabled, on a
// cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	svc     LateSweeper
	notices bool
	log     *logrus.Logger
}

func NewScheduler(spec string, loc *time.Location, svc LateSweeper, notices bool, log *logrus.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	cronLog := cron.PrintfLogger(log)
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		svc:     svc,
		notices: notices,
		log:     log,
	}

	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		s.RunLateSweep(ctx)
	}); err != nil {
		return nil, fmt.Errorf("late sweep schedule %q: %w", spec, err)
	}
	return s, nil
}

// RunLateSweep performs one sweep and, when enabled, one notice pass.
func (s *Scheduler) RunLateSweep(ctx context.Context) {
	entry := s.log.WithField("job", "late_sweep")

	n, err := s.svc.UpdateLatePaymentsStatus(ctx)
	if err != nil {
		entry.WithError(err).Error("late sweep failed")
		return
	}
	entry.WithField("updated", n).Info("late sweep done")

	if !s.notices {
		return
	}
	run, err := s.svc.NotifyLatePayments(ctx)
	switch {
	case errors.Is(err, payments.ErrNotificationsDisabled):
		entry.Warn("late notices enabled but no sender configured")
	case err != nil:
		entry.WithError(err).Error("late notices failed")
	default:
		entry.WithFields(logrus.Fields{"sent": run.Sent, "failed": run.Failed}).Info("late notices done")
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.log.WithField("next_run", e.Next).Info("late sweep scheduled")
	}
}

// Stop halts the schedule and waits for a running sweep to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
