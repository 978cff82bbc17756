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

type BillingPlanRepository interface {
	List(ctx context.Context) ([]model.BillingPlan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.BillingPlan, error)
	GetByCode(ctx context.Context, code string) (*model.BillingPlan, error)
	Upsert(ctx context.Context, plan *model.BillingPlan) error
}

type billingPlanRepository struct {
	db *gorm.DB
}

func NewBillingPlanRepository(db *gorm.DB) BillingPlanRepository {
	return &billingPlanRepository{db: db}
}

func (r *billingPlanRepository) List(ctx context.Context) ([]model.BillingPlan, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var plans []model.BillingPlan
	if err := r.db.WithContext(ctx).Order("max_users").Order("code").Find(&plans).Error; err != nil {
		return nil, translate(err, "list billing plans")
	}
	return plans, nil
}

func (r *billingPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BillingPlan, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var plan model.BillingPlan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, translate(err, "get billing plan")
	}
	return &plan, nil
}

func (r *billingPlanRepository) GetByCode(ctx context.Context, code string) (*model.BillingPlan, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var plan model.BillingPlan
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&plan).Error; err != nil {
		return nil, translate(err, "get billing plan by code")
	}
	return &plan, nil
}

// Upsert inserts the plan or refreshes name, limits and price of the plan with the same code.
// plan.ID is reloaded from the stored row.
func (r *billingPlanRepository) Upsert(ctx context.Context, plan *model.BillingPlan) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "max_users", "price_per_month", "promotion_percent"}),
		}).
		Create(plan).Error
	if err != nil {
		return translate(err, "upsert billing plan")
	}

	stored, err := r.GetByCode(ctx, plan.Code)
	if err != nil {
		return err
	}
	plan.ID = stored.ID
	return nil
}
