package payments

import (
	"context"

	"rental-payments-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatistics struct {
	TotalPayments         int `json:"total_payments"`
	PaidPayments          int `json:"paid_payments"`
	LatePayments          int `json:"late_payments"`
	PendingPayments       int `json:"pending_payments"`
	PartiallyPaidPayments int `json:"partially_paid_payments"`
	CancelledPayments     int `json:"cancelled_payments"`

	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// Summarize folds payments into statistics. Only PAID payments count toward
// PaidAmount; partial amounts stay in RemainingAmount.
func Summarize(payments []models.Payment) PaymentStatistics {
	stats := PaymentStatistics{
		TotalPayments: len(payments),
		TotalAmount:   decimal.Zero,
		PaidAmount:    decimal.Zero,
	}

	for _, p := range payments {
		stats.TotalAmount = stats.TotalAmount.Add(p.Amount)

		switch p.Status {
		case models.PaymentStatusPaid:
			stats.PaidPayments++
			if p.PaidAmount.Valid {
				stats.PaidAmount = stats.PaidAmount.Add(p.PaidAmount.Decimal)
			}
		case models.PaymentStatusLate:
			stats.LatePayments++
		case models.PaymentStatusPending:
			stats.PendingPayments++
		case models.PaymentStatusPartiallyPaid:
			stats.PartiallyPaidPayments++
		case models.PaymentStatusCancelled:
			stats.CancelledPayments++
		}
	}

	stats.RemainingAmount = stats.TotalAmount.Sub(stats.PaidAmount)
	return stats
}

// GetPaymentStatistics recomputes the statistics of a schedule from its
// current payments.
func (s *Service) GetPaymentStatistics(ctx context.Context, scheduleID uuid.UUID) (*PaymentStatistics, error) {
	if _, err := s.loadSchedule(ctx, s.schedules, scheduleID); err != nil {
		return nil, persistence("payment statistics", err)
	}

	payments, err := s.payments.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, persistence("payment statistics", err)
	}

	stats := Summarize(payments)
	return &stats, nil
}
