package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a member of exactly one tenant. Email is unique per tenant.
type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_users_tenant_email,priority:1"`
	Tenant          *Tenant   `gorm:"constraint:OnDelete:CASCADE"`
	Email           string    `gorm:"size:256;not null;uniqueIndex:ux_users_tenant_email,priority:2"`
	DisplayName     string    `gorm:"size:256;not null"`
	PasswordHash    string    `gorm:"size:500;not null"`
	PasswordSalt    string    `gorm:"size:64"`
	Role            Role      `gorm:"size:32;not null"`
	CanViewAllTodos bool      `gorm:"not null"`
	CanEditAllTodos bool      `gorm:"not null"`
	CanCreateUser   bool      `gorm:"not null"`
	IsActive        bool      `gorm:"not null"`
	CreatedAt       time.Time `gorm:"not null"`
	LastLoginAt     *time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsOwner reports whether the user holds the Owner role.
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
