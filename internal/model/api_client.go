package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApiClient is a machine credential scoped to one tenant.
type ApiClient struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Tenant           *Tenant   `gorm:"constraint:OnDelete:CASCADE"`
	ClientID         string    `gorm:"size:128;not null;uniqueIndex"`
	ClientSecretHash string    `gorm:"size:500;not null"` // Never expose the hash
	Name             string    `gorm:"size:256"`
	IsActive         bool      `gorm:"not null"`
	CreatedAt        time.Time `gorm:"not null"`
}

func (c *ApiClient) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
