package schedule

import (
	"errors"
	"time"

	"rental-payments-backend/internal/clock"
	"rental-payments-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDateRange  = errors.New("start date must not be after end date")
	ErrInvalidDayOfMonth = errors.New("day of month must be between 1 and 31")
	ErrNonPositiveAmount = errors.New("monthly amount must be greater than zero")
	ErrMissingRental     = errors.New("rental id is required")
)

// Params are the billing terms of a new schedule.
type Params struct {
	RentalID      uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	MonthlyAmount decimal.Decimal
	DayOfMonth    int
}

func (p Params) Validate() error {
	if p.RentalID == uuid.Nil {
		return ErrMissingRental
	}
	if p.StartDate.After(p.EndDate) {
		return ErrInvalidDateRange
	}
	if p.DayOfMonth < 1 || p.DayOfMonth > 31 {
		return ErrInvalidDayOfMonth
	}
	if !p.MonthlyAmount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return nil
}

// NewSchedule builds the schedule row for p with a fresh id.
func NewSchedule(p Params) *models.PaymentSchedule {
	return &models.PaymentSchedule{
		ID:            uuid.New(),
		RentalID:      p.RentalID,
		StartDate:     clock.DateOf(p.StartDate, time.UTC),
		EndDate:       clock.DateOf(p.EndDate, time.UTC),
		MonthlyAmount: p.MonthlyAmount,
		DayOfMonth:    p.DayOfMonth,
		IsActive:      true,
	}
}

// Generate returns one payment per calendar month touched by the schedule's
// date range. Each is due on DayOfMonth (clamped to the month's last day) and
// starts LATE when that day is already before today, PENDING otherwise.
func Generate(s *models.PaymentSchedule, today time.Time) []models.Payment {
	n := clock.MonthsSpanned(s.StartDate, s.EndDate)
	if n == 0 {
		return nil
	}

	payments := make([]models.Payment, 0, n)
	y, m, _ := s.StartDate.Date()
	cursor := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < n; i++ {
		due := clock.DueDate(cursor.Year(), cursor.Month(), s.DayOfMonth)

		status := models.PaymentStatusPending
		if due.Before(today) {
			status = models.PaymentStatusLate
		}

		payments = append(payments, models.Payment{
			ID:                uuid.New(),
			PaymentScheduleID: s.ID,
			DueDate:           due,
			Amount:            s.MonthlyAmount,
			Status:            status,
			Version:           1,
		})

		cursor = cursor.AddDate(0, 1, 0)
	}
	return payments
}
