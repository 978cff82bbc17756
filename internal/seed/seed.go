// Package seed installs reference data and the development household.
package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/internal/repository"
	"github.com/suteetoe/honeydew/pkg/hashing"
)

// Development credentials created by DevData.
const (
	DevTenantName   = "Default Household"
	DevOwnerEmail   = "test@example.com"
	DevOwnerName    = "Test Owner"
	DevPassword     = "TestPassword1!"
	DevClientID     = "client-id"
	DevClientSecret = "client-secret"
	DevClientName   = "Development client"
)

// BillingPlans is the reference plan list, smallest first.
func BillingPlans() []model.BillingPlan {
	return []model.BillingPlan{
		{Code: model.PlanCodeFree, Name: "Free", MaxUsers: 3, PricePerMonth: 0},
		{Code: model.PlanCodeUpgraded, Name: "Upgraded", MaxUsers: 10, PricePerMonth: 9.99},
		{Code: model.PlanCodePro, Name: "Pro", MaxUsers: 100, PricePerMonth: 19.99},
	}
}

// EnsureBillingPlans upserts every reference plan by code.
func EnsureBillingPlans(ctx context.Context, plans repository.BillingPlanRepository, log *zap.Logger) error {
	for _, plan := range BillingPlans() {
		if err := plans.Upsert(ctx, &plan); err != nil {
			return fmt.Errorf("failed to seed billing plan %s: %w", plan.Code, err)
		}
	}
	log.Info("Billing plans ensured", zap.Int("count", len(BillingPlans())))
	return nil
}

// DevData creates the development household, owner and API client when the
// database holds no tenant yet. It reports whether anything was created.
func DevData(
	ctx context.Context,
	tenants repository.TenantRepository,
	clients repository.ApiClientRepository,
	plans repository.BillingPlanRepository,
	log *zap.Logger,
) (bool, error) {
	exists, err := tenants.Any(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		log.Debug("Tenants present, skipping development seed")
		return false, nil
	}

	now := time.Now().UTC()
	tenant := &model.Tenant{Name: DevTenantName, IsActive: true, CreatedAt: now}
	plan, err := plans.GetByCode(ctx, model.PlanCodeFree)
	switch {
	case err == nil:
		tenant.BillingPlanID = &plan.ID
	case !repository.IsNotFound(err):
		return false, err
	}

	hash, salt, err := hashing.HashPassword(DevPassword)
	if err != nil {
		return false, err
	}
	owner := &model.User{
		Email:           DevOwnerEmail,
		DisplayName:     DevOwnerName,
		PasswordHash:    hash,
		PasswordSalt:    salt,
		Role:            model.RoleOwner,
		CanViewAllTodos: true,
		CanEditAllTodos: true,
		CanCreateUser:   true,
		IsActive:        true,
		CreatedAt:       now,
	}
	if err := tenants.CreateWithOwner(ctx, tenant, owner); err != nil {
		return false, fmt.Errorf("failed to seed development tenant: %w", err)
	}

	client := &model.ApiClient{
		TenantID:         tenant.ID,
		ClientID:         DevClientID,
		ClientSecretHash: hashing.HashClientSecret(DevClientSecret, DevClientID),
		Name:             DevClientName,
		IsActive:         true,
		CreatedAt:        now,
	}
	if err := clients.Create(ctx, client); err != nil {
		return false, fmt.Errorf("failed to seed development client: %w", err)
	}

	log.Info("Development data seeded",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("owner_email", DevOwnerEmail),
		zap.String("client_id", DevClientID))
	return true, nil
}
