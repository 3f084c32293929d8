package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "PENDING"
	PaymentStatusLate          PaymentStatus = "LATE"
	PaymentStatusPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentStatusPaid          PaymentStatus = "PAID"
	PaymentStatusCancelled     PaymentStatus = "CANCELLED"
)

var transitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:       {PaymentStatusLate, PaymentStatusPartiallyPaid, PaymentStatusPaid, PaymentStatusCancelled},
	PaymentStatusLate:          {PaymentStatusPartiallyPaid, PaymentStatusPaid, PaymentStatusCancelled},
	PaymentStatusPartiallyPaid: {PaymentStatusPartiallyPaid, PaymentStatusPaid, PaymentStatusCancelled},
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusLate, PaymentStatusPartiallyPaid, PaymentStatusPaid, PaymentStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no status transition can leave s.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusPaid || s == PaymentStatusCancelled
}

// CanTransition reports whether the lifecycle allows from -> to.
func CanTransition(from, to PaymentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Payment is one monthly obligation generated from a schedule.
type Payment struct {
	ID                uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	PaymentScheduleID uuid.UUID           `gorm:"type:uuid;index;not null" json:"payment_schedule_id"`
	PaymentSchedule   *PaymentSchedule    `gorm:"foreignKey:PaymentScheduleID" json:"payment_schedule,omitempty"`
	DueDate           time.Time           `gorm:"type:date;index;not null" json:"due_date"`
	Amount            decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaidAmount        decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"paid_amount"`
	PaidAt            *time.Time          `json:"paid_at"`
	Status            PaymentStatus       `gorm:"type:varchar(20);index;not null" json:"status"`
	PaymentMethod     *string             `json:"payment_method"`
	TransactionID     *string             `json:"transaction_id"`
	Notes             *string             `json:"notes"`
	IsArchived        bool                `gorm:"index;not null;default:false" json:"is_archived"`
	LateNoticeSentAt  *time.Time          `json:"late_notice_sent_at,omitempty"`
	Version           int                 `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
