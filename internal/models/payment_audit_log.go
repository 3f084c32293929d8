package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditActionRecorded   AuditAction = "recorded"
	AuditActionCancelled  AuditAction = "cancelled"
	AuditActionArchived   AuditAction = "archived"
	AuditActionUnarchived AuditAction = "unarchived"
	AuditActionLateNotice AuditAction = "late_notice_sent"
)

// PaymentAuditLog records one mutation of a single payment.
type PaymentAuditLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PaymentID   uuid.UUID      `gorm:"type:uuid;index;not null" json:"payment_id"`
	Action      AuditAction    `gorm:"type:varchar(32)" json:"action"`
	FromStatus  PaymentStatus  `gorm:"type:varchar(20)" json:"from_status"`
	ToStatus    PaymentStatus  `gorm:"type:varchar(20)" json:"to_status"`
	PerformedBy *uuid.UUID     `gorm:"type:uuid" json:"performed_by,omitempty"`
	Details     datatypes.JSON `json:"details"`
	CreatedAt   time.Time      `json:"created_at"`
}
