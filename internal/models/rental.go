package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rental links a property to a tenant. Rentals are managed elsewhere; this
// service only reads them to resolve schedules.
type Rental struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Identifier string          `gorm:"uniqueIndex" json:"identifier"`
	PropertyID uuid.UUID       `gorm:"type:uuid;index;not null" json:"property_id"`
	Property   *Property       `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	TenantID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"tenant_id"`
	Tenant     *User           `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	StartDate  time.Time       `gorm:"type:date" json:"start_date"`
	EndDate    *time.Time      `gorm:"type:date" json:"end_date,omitempty"`
	Rent       decimal.Decimal `gorm:"type:numeric(12,2)" json:"rent"`
	IsActive   bool            `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
