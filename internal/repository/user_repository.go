package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/prometheus"
)

type UserRepository interface {
	// GetByID is not tenant-scoped; callers compare TenantID themselves.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetInTenant(ctx context.Context, tenantID, id uuid.UUID) (*model.User, error)
	FindActiveByEmail(ctx context.Context, email string) ([]model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	EmailExistsInTenant(ctx context.Context, tenantID uuid.UUID, email string, excludeID *uuid.UUID) (bool, error)
	List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]model.User, error)
	Create(ctx context.Context, user *model.User) error
	Save(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

func (r *userRepository) GetInTenant(ctx context.Context, tenantID, id uuid.UUID) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&user).Error; err != nil {
		return nil, translate(err, "get tenant user")
	}
	return &user, nil
}

// FindActiveByEmail returns every active user with the normalized email
// whose tenant is active, across all tenants.
func (r *userRepository) FindActiveByEmail(ctx context.Context, email string) ([]model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN tenants ON tenants.id = users.tenant_id AND tenants.is_active = ?", true).
		Where("users.email = ? AND users.is_active = ?", email, true).
		Order("users.created_at").
		Find(&users).Error
	if err != nil {
		return nil, translate(err, "find users by email")
	}
	return users, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, translate(err, "check email")
	}
	return n > 0, nil
}

func (r *userRepository) EmailExistsInTenant(ctx context.Context, tenantID uuid.UUID, email string, excludeID *uuid.UUID) (bool, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := r.db.WithContext(ctx).Model(&model.User{}).Where("tenant_id = ? AND email = ?", tenantID, email)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return false, translate(err, "check tenant email")
	}
	return n > 0, nil
}

func (r *userRepository) List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var users []model.User
	if err := query.Order("display_name").Order("id").Find(&users).Error; err != nil {
		return nil, translate(err, "list users")
	}
	return users, nil
}

func countOwners(db *gorm.DB, tenantID uuid.UUID) (int64, error) {
	var n int64
	err := db.Model(&model.User{}).Where("tenant_id = ? AND role = ?", tenantID, model.RoleOwner).Count(&n).Error
	if err != nil {
		return 0, translate(err, "count owners")
	}
	return n, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(r.db.WithContext(ctx).Omit("Tenant").Create(user).Error, "create user")
}

func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return translate(r.db.WithContext(ctx).Omit("Tenant").Save(user).Error, "save user")
}

// Delete removes the user and re-counts the tenant's owners inside the same
// transaction; the delete is rolled back with ErrLastOwner when none remain.
func (r *userRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&model.User{})
		if res.Error != nil {
			return translate(res.Error, "delete user")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		owners, err := countOwners(tx, tenantID)
		if err != nil {
			return err
		}
		if owners == 0 {
			return ErrLastOwner
		}
		return nil
	})
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("last_login_at", at)
	if res.Error != nil {
		return translate(res.Error, "touch last login")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
