package payments

import (
	"context"

	"rental-payments-backend/internal/models"
	"rental-payments-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const noticeBatchSize = 200

// NoticeRun summarises one pass of NotifyLatePayments.
type NoticeRun struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// NotifyLatePayments mails the tenant of every LATE payment that has not been
// reminded yet and stamps the payment so the next run skips it. A failed
// delivery leaves the payment unstamped for the next run; the pass still
// walks past it so later payments are reached.
func (s *Service) NotifyLatePayments(ctx context.Context) (*NoticeRun, error) {
	if s.notifier == nil {
		return nil, ErrNotificationsDisabled
	}

	run := &NoticeRun{}
	var cursor repository.NoticeCursor
	for {
		page, err := s.payments.ListLateWithoutNotice(ctx, cursor, s.noticeBatch)
		if err != nil {
			return run, persistence("list late payments", err)
		}

		for i := range page {
			if err := ctx.Err(); err != nil {
				return run, err
			}
			if err := s.sendLateNotice(ctx, &page[i], run); err != nil {
				return run, err
			}
		}

		if len(page) < s.noticeBatch {
			break
		}
		last := page[len(page)-1]
		cursor = repository.NoticeCursor{DueDate: last.DueDate.UTC(), ID: last.ID}
	}

	s.log.WithFields(logrus.Fields{
		"sent":    run.Sent,
		"failed":  run.Failed,
		"skipped": run.Skipped,
	}).Info("late notices processed")
	return run, nil
}

func (s *Service) sendLateNotice(ctx context.Context, p *models.Payment, run *NoticeRun) error {
	entry := s.log.WithField("payment_id", p.ID)

	if err := s.notifier.NotifyLate(ctx, p); err != nil {
		entry.WithError(err).Warn("late notice not delivered")
		run.Failed++
		return nil
	}

	stamped, err := s.payments.MarkLateNoticeSent(ctx, p.ID, s.now())
	if err != nil {
		return persistence("stamp late notice", err)
	}
	if !stamped {
		run.Skipped++
		return nil
	}
	if err := s.audit(ctx, s.payments, p, models.AuditActionLateNotice, p.Status, uuid.Nil, nil); err != nil {
		entry.WithError(err).Warn("late notice audit not written")
	}
	run.Sent++
	return nil
}
