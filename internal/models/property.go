package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Property struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID uuid.UUID       `gorm:"type:uuid;index;not null" json:"owner_id"`
	Owner   *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Title   string          `json:"title"`
	Address string          `json:"address"`
	City    string          `json:"city"`
	ZipCode string          `json:"zip_code"`
	Type    string          `json:"type"`
	Surface decimal.Decimal `gorm:"type:numeric(10,2)" json:"surface"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
