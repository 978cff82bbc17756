package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/prometheus"
)

type PreferenceRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.UserPreference, error)
	SetItemsPerPage(ctx context.Context, userID uuid.UUID, itemsPerPage int) (*model.UserPreference, error)
}

type preferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

// GetOrCreate returns the stored preferences, inserting the defaults on first access.
func (r *preferenceRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.UserPreference, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	pref := model.UserPreference{UserID: userID, ItemsPerPage: model.DefaultItemsPerPage}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Omit("User").
		Create(&pref).Error
	if err != nil {
		return nil, translate(err, "create preferences")
	}

	var stored model.UserPreference
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, translate(err, "get preferences")
	}
	return &stored, nil
}

func (r *preferenceRepository) SetItemsPerPage(ctx context.Context, userID uuid.UUID, itemsPerPage int) (*model.UserPreference, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	pref := model.UserPreference{UserID: userID, ItemsPerPage: itemsPerPage}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"items_per_page"}),
		}).
		Omit("User").
		Create(&pref).Error
	if err != nil {
		return nil, translate(err, "save preferences")
	}
	return &pref, nil
}
