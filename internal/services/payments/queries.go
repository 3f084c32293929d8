package payments

import (
	"context"
	"errors"

	"rental-payments-backend/internal/models"
	"rental-payments-backend/internal/repository"

	"github.com/google/uuid"
)

// FindPayment returns a payment with its schedule, rental, property, owner
// and tenant loaded.
func (s *Service) FindPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	p, err := s.payments.GetWithRelations(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "payment", ID: id}
	}
	if err != nil {
		return nil, persistence("find payment", err)
	}
	return p, nil
}

// GetLatePayments lists PENDING payments already past due, whether or not
// the late sweep has run today. A non-nil ownerID scopes the list.
func (s *Service) GetLatePayments(ctx context.Context, ownerID uuid.UUID) ([]models.Payment, error) {
	payments, err := s.payments.ListOverdue(ctx, s.today(), ownerID, false)
	if err != nil {
		return nil, persistence("list late payments", err)
	}
	return payments, nil
}

// GetAllLatePayments is GetLatePayments plus the payments the sweep or the
// generator already stored as LATE.
func (s *Service) GetAllLatePayments(ctx context.Context, ownerID uuid.UUID) ([]models.Payment, error) {
	payments, err := s.payments.ListOverdue(ctx, s.today(), ownerID, true)
	if err != nil {
		return nil, persistence("list late payments", err)
	}
	return payments, nil
}

// GetArchivedPayments lists archived payments, latest due date first.
func (s *Service) GetArchivedPayments(ctx context.Context, ownerID uuid.UUID) ([]models.Payment, error) {
	payments, err := s.payments.ListArchived(ctx, ownerID)
	if err != nil {
		return nil, persistence("list archived payments", err)
	}
	return payments, nil
}

// PaymentHistory returns the audit trail of a payment, newest first.
func (s *Service) PaymentHistory(ctx context.Context, id uuid.UUID) ([]models.PaymentAuditLog, error) {
	if _, err := s.loadPayment(ctx, s.payments, id); err != nil {
		return nil, persistence("payment history", err)
	}
	entries, err := s.payments.ListAudit(ctx, id)
	if err != nil {
		return nil, persistence("payment history", err)
	}
	return entries, nil
}
