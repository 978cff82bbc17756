package model

import "github.com/google/uuid"

const DefaultItemsPerPage = 9

// AllowedItemsPerPage are the page sizes a user may choose.
var AllowedItemsPerPage = []int{9, 12, 15, 18, 21, 24}

// UserPreference is created lazily the first time it is read.
type UserPreference struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	User         *User     `gorm:"constraint:OnDelete:CASCADE"`
	ItemsPerPage int       `gorm:"not null"`
}

// IsAllowedItemsPerPage reports whether n is one of AllowedItemsPerPage.
func IsAllowedItemsPerPage(n int) bool {
	for _, v := range AllowedItemsPerPage {
		if v == n {
			return true
		}
	}
	return false
}
