package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentSchedule is the recurring rent obligation of a rental.
type PaymentSchedule struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RentalID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"rental_id"`
	Rental        *Rental         `gorm:"foreignKey:RentalID" json:"rental,omitempty"`
	StartDate     time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate       time.Time       `gorm:"type:date;not null" json:"end_date"`
	MonthlyAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"monthly_amount"`
	DayOfMonth    int             `gorm:"not null" json:"day_of_month"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	Payments      []Payment       `gorm:"foreignKey:PaymentScheduleID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
