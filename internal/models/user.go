package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleTenant Role = "TENANT"
)

// User is the shared identity row for owners and tenants. Role-specific
// columns stay nil for the other role.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Role      Role      `gorm:"type:varchar(16);index;not null" json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `gorm:"index" json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`

	// owner
	CompanyName *string `json:"company_name,omitempty"`

	// tenant
	GuarantorName  *string `json:"guarantor_name,omitempty"`
	GuarantorPhone *string `json:"guarantor_phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
