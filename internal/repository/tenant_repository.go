package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/prometheus"
)

type TenantRepository interface {
	GetActive(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Any(ctx context.Context) (bool, error)
	CountUsers(ctx context.Context, id uuid.UUID) (int64, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	SetBillingPlan(ctx context.Context, id uuid.UUID, planID *uuid.UUID) error
	CreateWithOwner(ctx context.Context, tenant *model.Tenant, owner *model.User) error
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

// GetActive loads an active tenant with its billing plan.
func (r *tenantRepository) GetActive(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var tenant model.Tenant
	err := r.db.WithContext(ctx).Preload("BillingPlan").
		Where("id = ? AND is_active = ?", id, true).
		First(&tenant).Error
	if err != nil {
		return nil, translate(err, "get tenant")
	}
	return &tenant, nil
}

func (r *tenantRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Tenant{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, translate(err, "check tenant")
	}
	return n > 0, nil
}

// Any reports whether at least one tenant exists.
func (r *tenantRepository) Any(ctx context.Context) (bool, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Tenant{}).Limit(1).Count(&n).Error; err != nil {
		return false, translate(err, "count tenants")
	}
	return n > 0, nil
}

func (r *tenantRepository) CountUsers(ctx context.Context, id uuid.UUID) (int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("tenant_id = ?", id).Count(&n).Error; err != nil {
		return 0, translate(err, "count tenant users")
	}
	return n, nil
}

func (r *tenantRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	res := r.db.WithContext(ctx).Model(&model.Tenant{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("name", name)
	if res.Error != nil {
		return translate(res.Error, "update tenant name")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetBillingPlan sets or, with a nil planID, clears the tenant's plan.
func (r *tenantRepository) SetBillingPlan(ctx context.Context, id uuid.UUID, planID *uuid.UUID) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	res := r.db.WithContext(ctx).Model(&model.Tenant{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("billing_plan_id", planID)
	if res.Error != nil {
		return translate(res.Error, "set billing plan")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateWithOwner inserts the tenant and its first user in one transaction.
func (r *tenantRepository) CreateWithOwner(ctx context.Context, tenant *model.Tenant, owner *model.User) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return translate(tx.Error, "begin tenant registration")
	}

	if err := tx.Omit("BillingPlan").Create(tenant).Error; err != nil {
		tx.Rollback()
		return translate(err, "create tenant")
	}

	owner.TenantID = tenant.ID
	if err := tx.Omit("Tenant").Create(owner).Error; err != nil {
		tx.Rollback()
		return translate(err, "create owner")
	}

	if err := tx.Commit().Error; err != nil {
		return translate(err, "commit tenant registration")
	}
	return nil
}
