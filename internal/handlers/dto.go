package handler

import (
	"rental-payments-backend/internal/clock"
	"rental-payments-backend/internal/services/payments"
	"rental-payments-backend/internal/services/schedule"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateScheduleRequest struct {
	RentalID      string          `json:"rental_id" binding:"required,uuid"`
	StartDate     string          `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate       string          `json:"end_date" binding:"required,datetime=2006-01-02"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	DayOfMonth    int             `json:"day_of_month" binding:"required,min=1,max=31"`
}

// ToParams converts a request already checked by binding.
func (r CreateScheduleRequest) ToParams() schedule.Params {
	start, _ := clock.ParseDate(r.StartDate)
	end, _ := clock.ParseDate(r.EndDate)
	return schedule.Params{
		RentalID:      uuid.MustParse(r.RentalID),
		StartDate:     start,
		EndDate:       end,
		MonthlyAmount: r.MonthlyAmount,
		DayOfMonth:    r.DayOfMonth,
	}
}

type UpdateAmountRequest struct {
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
}

type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" binding:"required,max=50"`
	TransactionID *string         `json:"transaction_id" binding:"omitempty,max=100"`
	Notes         *string         `json:"notes" binding:"omitempty,max=500"`
}

func (r RecordPaymentRequest) ToInput(by uuid.UUID) payments.RecordPaymentInput {
	return payments.RecordPaymentInput{
		Amount:        r.Amount,
		Method:        r.PaymentMethod,
		TransactionID: r.TransactionID,
		Notes:         r.Notes,
		PerformedBy:   by,
	}
}

type ArchivePaymentsRequest struct {
	PaymentIDs []string `json:"payment_ids" binding:"required,min=1,dive,uuid"`
}

func (r ArchivePaymentsRequest) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.PaymentIDs))
	for _, s := range r.PaymentIDs {
		ids = append(ids, uuid.MustParse(s))
	}
	return ids
}
