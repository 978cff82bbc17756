package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TicketStatusOpen   = "Open"
	TicketStatusClosed = "Closed"
)

type SupportTicket struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	Tenant    *Tenant              `gorm:"constraint:OnDelete:CASCADE"`
	Subject   string               `gorm:"size:500;not null"`
	Body      string               `gorm:"size:4000;not null"`
	Status    string               `gorm:"size:32;not null"`
	CreatedAt time.Time            `gorm:"not null"`
	UpdatedAt *time.Time           `gorm:"autoUpdateTime:false"`
	Replies   []SupportTicketReply `gorm:"constraint:OnDelete:CASCADE"`
}

func (t *SupportTicket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type SupportTicketReply struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	SupportTicketID uuid.UUID `gorm:"type:uuid;not null;index"`
	Body            string    `gorm:"size:4000;not null"`
	IsFromStaff     bool      `gorm:"not null"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (r *SupportTicketReply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
