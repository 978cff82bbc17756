package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tenant is a household. Every other entity except BillingPlan belongs to one.
type Tenant struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name          string         `gorm:"size:256;not null;index"`
	IsActive      bool           `gorm:"not null"`
	Settings      datatypes.JSON
	BillingPlanID *uuid.UUID     `gorm:"type:uuid;index"`
	BillingPlan   *BillingPlan   `gorm:"constraint:OnDelete:SET NULL"`
	CreatedAt     time.Time      `gorm:"not null"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if len(t.Settings) == 0 {
		t.Settings = datatypes.JSON("{}")
	}
	return nil
}
