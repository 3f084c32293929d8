package payments

import (
	"context"
	"errors"

	"rental-payments-backend/internal/events"
	"rental-payments-backend/internal/models"
	"rental-payments-backend/internal/repository"
	"rental-payments-backend/internal/services/schedule"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateSchedule stores a schedule and every monthly payment it generates in
// one transaction.
func (s *Service) CreateSchedule(ctx context.Context, p schedule.Params) (*models.PaymentSchedule, error) {
	if err := p.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}

	sched := schedule.NewSchedule(p)
	generated := schedule.Generate(sched, s.today())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		schedules := s.schedules.WithTx(tx)

		exists, err := schedules.RentalExists(ctx, p.RentalID)
		if err != nil {
			return err
		}
		if !exists {
			return &NotFoundError{Resource: "rental", ID: p.RentalID}
		}

		if err := schedules.Create(ctx, sched); err != nil {
			return err
		}
		return s.payments.WithTx(tx).CreateBatch(ctx, generated)
	})
	if err != nil {
		return nil, persistence("create schedule", err)
	}

	sched.Payments = generated
	s.log.WithFields(logrus.Fields{
		"schedule_id": sched.ID,
		"rental_id":   sched.RentalID,
		"payments":    len(generated),
	}).Info("payment schedule created")

	s.publish(ctx, events.ScheduleCreated, sched.ID.String(), map[string]interface{}{
		"schedule_id":    sched.ID,
		"rental_id":      sched.RentalID,
		"monthly_amount": sched.MonthlyAmount,
		"payments":       len(generated),
	})
	return sched, nil
}

// FindAll lists schedules matching f with rental, property, owner, tenant
// and payments loaded.
func (s *Service) FindAll(ctx context.Context, f repository.ScheduleFilter) ([]models.PaymentSchedule, error) {
	schedules, err := s.schedules.List(ctx, f)
	if err != nil {
		return nil, persistence("list schedules", err)
	}
	return schedules, nil
}

func (s *Service) FindOne(ctx context.Context, id uuid.UUID) (*models.PaymentSchedule, error) {
	sched, err := s.schedules.GetWithRelations(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "schedule", ID: id}
	}
	if err != nil {
		return nil, persistence("find schedule", err)
	}
	return sched, nil
}

func (s *Service) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.PaymentSchedule, error) {
	return s.FindAll(ctx, repository.ScheduleFilter{TenantID: tenantID})
}

func (s *Service) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]models.PaymentSchedule, error) {
	return s.FindAll(ctx, repository.ScheduleFilter{PropertyID: propertyID})
}

// AmountRevision is the outcome of UpdatePaymentAmount.
type AmountRevision struct {
	ScheduleID      uuid.UUID       `json:"schedule_id"`
	MonthlyAmount   decimal.Decimal `json:"monthly_amount"`
	UpdatedPayments int64           `json:"updated_payments"`
}

// UpdatePaymentAmount changes the schedule's monthly amount and reprices its
// PENDING payments due between today and the schedule end. Paid, late and
// past payments keep their amount.
func (s *Service) UpdatePaymentAmount(ctx context.Context, scheduleID uuid.UUID, amount decimal.Decimal) (*AmountRevision, error) {
	if !amount.IsPositive() {
		return nil, invalid("monthly_amount", "must be greater than zero")
	}

	today := s.today()
	rev := &AmountRevision{ScheduleID: scheduleID, MonthlyAmount: amount}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		schedules := s.schedules.WithTx(tx)

		sched, err := s.loadSchedule(ctx, schedules, scheduleID)
		if err != nil {
			return err
		}
		if _, err := schedules.UpdateMonthlyAmount(ctx, scheduleID, amount); err != nil {
			return err
		}

		n, err := s.payments.WithTx(tx).RevisePendingAmounts(ctx, scheduleID, today, sched.EndDate, amount)
		if err != nil {
			return err
		}
		rev.UpdatedPayments = n
		return nil
	})
	if err != nil {
		return nil, persistence("update payment amount", err)
	}

	s.publish(ctx, events.ScheduleAmountUpdated, scheduleID.String(), rev)
	return rev, nil
}

// DeactivateSchedule flags the schedule inactive once its rental has ended.
// Existing payments are left alone.
func (s *Service) DeactivateSchedule(ctx context.Context, id uuid.UUID) error {
	n, err := s.schedules.Deactivate(ctx, id)
	if err != nil {
		return persistence("deactivate schedule", err)
	}
	if n == 0 {
		return &NotFoundError{Resource: "schedule", ID: id}
	}
	return nil
}

// RemoveSchedule deletes a schedule together with its payments and their
// audit history.
func (s *Service) RemoveSchedule(ctx context.Context, id uuid.UUID) error {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.schedules.WithTx(tx).Delete(ctx, id)
		removed = n
		return err
	})
	if err != nil {
		return persistence("remove schedule", err)
	}
	if removed == 0 {
		return &NotFoundError{Resource: "schedule", ID: id}
	}

	s.log.WithField("schedule_id", id).Info("payment schedule removed")
	return nil
}
