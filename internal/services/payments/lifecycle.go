package payments

import (
	"context"
	"errors"
	"strings"

	"rental-payments-backend/internal/clock"
	"rental-payments-backend/internal/events"
	"rental-payments-backend/internal/models"
	"rental-payments-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RecordPaymentInput is a manual payment entry.
type RecordPaymentInput struct {
	Amount        decimal.Decimal
	Method        string
	TransactionID *string
	Notes         *string
	PerformedBy   uuid.UUID
}

// RecordPayment registers money received against a payment. An amount that
// covers the due amount settles it as PAID with paidAmount equal to the due
// amount; anything less leaves it PARTIALLY_PAID with paidAmount set to the
// amount given. A later entry replaces the earlier partial amount.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, in RecordPaymentInput) (*models.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, invalid("amount", "must be greater than zero")
	}
	method := strings.TrimSpace(in.Method)
	if method == "" {
		return nil, invalid("payment_method", "is required")
	}

	var updated *models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.payments.WithTx(tx)

		p, err := s.loadPayment(ctx, repo, id)
		if err != nil {
			return err
		}
		if p.Status.Terminal() {
			return &InvalidStateError{Op: "record", Status: p.Status}
		}

		status, paid := models.PaymentStatusPartiallyPaid, in.Amount
		if in.Amount.GreaterThanOrEqual(p.Amount) {
			status, paid = models.PaymentStatusPaid, p.Amount
		}
		if !models.CanTransition(p.Status, status) {
			return &InvalidStateError{Op: "record", Status: p.Status}
		}

		err = repo.UpdateVersioned(ctx, p.ID, p.Version, map[string]interface{}{
			"status":         status,
			"paid_amount":    decimal.NewNullDecimal(paid),
			"paid_at":        s.now(),
			"payment_method": method,
			"transaction_id": in.TransactionID,
			"notes":          in.Notes,
		})
		if errors.Is(err, repository.ErrStaleVersion) {
			return &ConflictError{Resource: "payment", ID: id}
		}
		if err != nil {
			return err
		}

		details := map[string]interface{}{
			"amount_received": in.Amount,
			"paid_amount":     paid,
			"due_amount":      p.Amount,
			"payment_method":  method,
		}
		if in.Amount.GreaterThan(p.Amount) {
			details["overpayment"] = in.Amount.Sub(p.Amount)
		}
		if err := s.audit(ctx, repo, p, models.AuditActionRecorded, status, in.PerformedBy, details); err != nil {
			return err
		}

		updated, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, persistence("record payment", err)
	}

	s.log.WithFields(logrus.Fields{
		"payment_id":  updated.ID,
		"status":      updated.Status,
		"paid_amount": updated.PaidAmount.Decimal.String(),
	}).Info("payment recorded")

	s.publish(ctx, events.PaymentRecorded, updated.ID.String(), map[string]interface{}{
		"payment_id":          updated.ID,
		"payment_schedule_id": updated.PaymentScheduleID,
		"status":              updated.Status,
		"amount":              updated.Amount,
		"paid_amount":         updated.PaidAmount.Decimal,
		"payment_method":      method,
	})
	return updated, nil
}

// CancelPayment moves a payment to CANCELLED. Paid payments cannot be
// cancelled; cancelling a cancelled payment returns it unchanged.
func (s *Service) CancelPayment(ctx context.Context, id, by uuid.UUID) (*models.Payment, error) {
	var (
		updated *models.Payment
		changed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.payments.WithTx(tx)

		p, err := s.loadPayment(ctx, repo, id)
		if err != nil {
			return err
		}
		if p.Status == models.PaymentStatusCancelled {
			updated = p
			return nil
		}
		if !models.CanTransition(p.Status, models.PaymentStatusCancelled) {
			return &InvalidStateError{Op: "cancel", Status: p.Status}
		}

		err = repo.UpdateVersioned(ctx, p.ID, p.Version, map[string]interface{}{
			"status": models.PaymentStatusCancelled,
		})
		if errors.Is(err, repository.ErrStaleVersion) {
			return &ConflictError{Resource: "payment", ID: id}
		}
		if err != nil {
			return err
		}
		if err := s.audit(ctx, repo, p, models.AuditActionCancelled, models.PaymentStatusCancelled, by, nil); err != nil {
			return err
		}

		changed = true
		updated, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, persistence("cancel payment", err)
	}

	if changed {
		s.publish(ctx, events.PaymentCancelled, updated.ID.String(), map[string]interface{}{
			"payment_id":          updated.ID,
			"payment_schedule_id": updated.PaymentScheduleID,
		})
	}
	return updated, nil
}

func (s *Service) ArchivePayment(ctx context.Context, id, by uuid.UUID) (*models.Payment, error) {
	return s.setArchived(ctx, id, by, true)
}

func (s *Service) UnarchivePayment(ctx context.Context, id, by uuid.UUID) (*models.Payment, error) {
	return s.setArchived(ctx, id, by, false)
}

// setArchived toggles the archive flag in any status.
func (s *Service) setArchived(ctx context.Context, id, by uuid.UUID, archived bool) (*models.Payment, error) {
	action := models.AuditActionUnarchived
	if archived {
		action = models.AuditActionArchived
	}

	var updated *models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.payments.WithTx(tx)

		p, err := s.loadPayment(ctx, repo, id)
		if err != nil {
			return err
		}
		if p.IsArchived == archived {
			updated = p
			return nil
		}

		err = repo.UpdateVersioned(ctx, p.ID, p.Version, map[string]interface{}{
			"is_archived": archived,
		})
		if errors.Is(err, repository.ErrStaleVersion) {
			return &ConflictError{Resource: "payment", ID: id}
		}
		if err != nil {
			return err
		}
		if err := s.audit(ctx, repo, p, action, p.Status, by, nil); err != nil {
			return err
		}

		updated, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, persistence(string(action)+" payment", err)
	}
	return updated, nil
}

// ArchiveResult reports a bulk archive. NotFound lists requested ids that
// match no payment.
type ArchiveResult struct {
	Archived int64       `json:"archived"`
	NotFound []uuid.UUID `json:"not_found"`
}

// ArchiveMultiplePayments archives every listed payment in one statement.
// Payments that are already archived are not counted again.
func (s *Service) ArchiveMultiplePayments(ctx context.Context, ids []uuid.UUID) (*ArchiveResult, error) {
	if len(ids) == 0 {
		return nil, invalid("payment_ids", "must not be empty")
	}

	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	result := &ArchiveResult{NotFound: []uuid.UUID{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.payments.WithTx(tx)

		existing, err := repo.ExistingIDs(ctx, unique)
		if err != nil {
			return err
		}
		found := make(map[uuid.UUID]struct{}, len(existing))
		for _, id := range existing {
			found[id] = struct{}{}
		}
		for _, id := range unique {
			if _, ok := found[id]; !ok {
				result.NotFound = append(result.NotFound, id)
			}
		}

		result.Archived, err = repo.ArchiveMany(ctx, existing)
		return err
	})
	if err != nil {
		return nil, persistence("archive payments", err)
	}
	return result, nil
}

// UpdateLatePaymentsStatus moves every PENDING payment due before today to
// LATE in a single statement and returns how many rows changed. Running it
// twice on the same day changes nothing the second time.
func (s *Service) UpdateLatePaymentsStatus(ctx context.Context) (int64, error) {
	today := s.today()

	n, err := s.payments.MarkLate(ctx, today)
	if err != nil {
		return 0, persistence("mark late payments", err)
	}

	s.log.WithFields(logrus.Fields{
		"today":   today.Format(clock.DateLayout),
		"updated": n,
	}).Info("late payment sweep finished")

	if n > 0 {
		s.publish(ctx, events.PaymentsMarkedLate, today.Format(clock.DateLayout), map[string]interface{}{
			"date":  today.Format(clock.DateLayout),
			"count": n,
		})
	}
	return n, nil
}
