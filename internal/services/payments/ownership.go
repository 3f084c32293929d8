package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// AuthorizeRental fails with ForbiddenError unless ownerID owns the rental's
// property, or NotFoundError when the rental does not exist.
func (s *Service) AuthorizeRental(ctx context.Context, rentalID, ownerID uuid.UUID) error {
	ok, err := s.ownership.RentalOwnedBy(ctx, rentalID, ownerID)
	if err != nil {
		return persistence("check rental owner", err)
	}
	if ok {
		return nil
	}
	exists, err := s.schedules.RentalExists(ctx, rentalID)
	if err != nil {
		return persistence("check rental owner", err)
	}
	if !exists {
		return &NotFoundError{Resource: "rental", ID: rentalID}
	}
	return &ForbiddenError{Resource: "rental", ID: rentalID}
}

func (s *Service) AuthorizeProperty(ctx context.Context, propertyID, ownerID uuid.UUID) error {
	ok, err := s.ownership.PropertyOwnedBy(ctx, propertyID, ownerID)
	if err != nil {
		return persistence("check property owner", err)
	}
	if !ok {
		return &ForbiddenError{Resource: "property", ID: propertyID}
	}
	return nil
}

func (s *Service) AuthorizeSchedule(ctx context.Context, scheduleID, ownerID uuid.UUID) error {
	ok, err := s.ownership.ScheduleOwnedBy(ctx, scheduleID, ownerID)
	if err != nil {
		return persistence("check schedule owner", err)
	}
	if ok {
		return nil
	}
	if _, err := s.loadSchedule(ctx, s.schedules, scheduleID); err != nil {
		return persistence("check schedule owner", err)
	}
	return &ForbiddenError{Resource: "schedule", ID: scheduleID}
}

func (s *Service) AuthorizePayment(ctx context.Context, paymentID, ownerID uuid.UUID) error {
	ok, err := s.ownership.PaymentOwnedBy(ctx, paymentID, ownerID)
	if err != nil {
		return persistence("check payment owner", err)
	}
	if ok {
		return nil
	}
	if _, err := s.loadPayment(ctx, s.payments, paymentID); err != nil {
		return persistence("check payment owner", err)
	}
	return &ForbiddenError{Resource: "payment", ID: paymentID}
}

// AuthorizePayments checks every id and stops at the first payment ownerID
// does not own. Unknown ids pass so the bulk archive can report them.
func (s *Service) AuthorizePayments(ctx context.Context, paymentIDs []uuid.UUID, ownerID uuid.UUID) error {
	for _, id := range paymentIDs {
		err := s.AuthorizePayment(ctx, id, ownerID)
		var missing *NotFoundError
		if errors.As(err, &missing) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
