package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Billing plan codes seeded at startup.
const (
	PlanCodeFree     = "free"
	PlanCodeUpgraded = "upgraded"
	PlanCodePro      = "pro"
)

// BillingPlan is reference data shared by all tenants.
type BillingPlan struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string    `gorm:"size:128;not null"`
	Code             string    `gorm:"size:32;not null;uniqueIndex"`
	MaxUsers         int       `gorm:"not null"`
	PricePerMonth    float64   `gorm:"type:decimal(10,2);not null"`
	PromotionPercent int       `gorm:"not null"`
}

func (p *BillingPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
