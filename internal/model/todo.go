package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TodoItem struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	Tenant           *Tenant    `gorm:"constraint:OnDelete:CASCADE"`
	CreatedByUserID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedByUser    *User      `gorm:"foreignKey:CreatedByUserID;constraint:OnDelete:CASCADE"`
	AssignedToUserID *uuid.UUID `gorm:"type:uuid;index"`
	AssignedToUser   *User      `gorm:"foreignKey:AssignedToUserID;constraint:OnDelete:SET NULL"`
	Title            string     `gorm:"size:500;not null"`
	Notes            *string    `gorm:"size:2000"`
	IsDone           bool       `gorm:"not null"`
	CompletedAt      *time.Time
	DueDate          *time.Time
	CreatedAt        time.Time `gorm:"not null"`
}

func (t *TodoItem) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TodoItemVote is one user's like on one todo. Existence means voted.
type TodoItemVote struct {
	TodoItemID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	TodoItem   *TodoItem `gorm:"constraint:OnDelete:CASCADE"`
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"not null"`
}
