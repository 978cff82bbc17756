package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suteetoe/honeydew/internal/apperror"
	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/internal/permission"
	"github.com/suteetoe/honeydew/internal/repository"
	"github.com/suteetoe/honeydew/prometheus"
)

const (
	msgNameRequired = "Name is required."
	msgPlanNotFound = "Billing plan not found."
	msgPlanTooSmall = "The household has more users than the selected plan allows."
)

type TenantService interface {
	Get(ctx context.Context, actor Actor) (*TenantDTO, error)
	UpdateName(ctx context.Context, actor Actor, req UpdateTenantRequest) (*TenantDTO, error)
	SetBillingPlan(ctx context.Context, actor Actor, planID *uuid.UUID) (*TenantDTO, error)
	ListBillingPlans(ctx context.Context, actor Actor) ([]BillingPlanDTO, error)
}

type tenantService struct {
	tenants repository.TenantRepository
	users   repository.UserRepository
	plans   repository.BillingPlanRepository
	logger  *zap.Logger
}

func NewTenantService(
	tenants repository.TenantRepository,
	users repository.UserRepository,
	plans repository.BillingPlanRepository,
	logger *zap.Logger,
) TenantService {
	return &tenantService{
		tenants: tenants,
		users:   users,
		plans:   plans,
		logger:  logger,
	}
}

// Get describes the caller's household. A household without a plan reports
// the free plan.
func (s *tenantService) Get(ctx context.Context, actor Actor) (*TenantDTO, error) {
	if _, err := resolveActor(ctx, s.users, actor); err != nil {
		return nil, err
	}
	return s.describe(ctx, actor.TenantID)
}

func (s *tenantService) UpdateName(ctx context.Context, actor Actor, req UpdateTenantRequest) (*TenantDTO, error) {
	caller, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}
	if !permission.CanManageTenant(caller) {
		return nil, errForbidden()
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation(msgNameRequired)
	}
	if err := s.tenants.UpdateName(ctx, actor.TenantID, name); err != nil {
		return nil, notFoundAs(err, apperror.NotFound(msgTenantNotFound))
	}

	prometheus.RecordTenantOperation("rename")
	return s.describe(ctx, actor.TenantID)
}

// SetBillingPlan switches the household's plan, or clears it when planID is
// nil. A plan smaller than the current user count is refused.
func (s *tenantService) SetBillingPlan(ctx context.Context, actor Actor, planID *uuid.UUID) (*TenantDTO, error) {
	caller, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}
	if !permission.CanManageTenant(caller) {
		return nil, errForbidden()
	}

	if planID != nil {
		plan, err := s.plans.GetByID(ctx, *planID)
		if err != nil {
			return nil, notFoundAs(err, apperror.NotFound(msgPlanNotFound))
		}
		users, err := s.tenants.CountUsers(ctx, actor.TenantID)
		if err != nil {
			return nil, err
		}
		if users > int64(plan.MaxUsers) {
			return nil, apperror.Conflict(msgPlanTooSmall)
		}
	}

	if err := s.tenants.SetBillingPlan(ctx, actor.TenantID, planID); err != nil {
		return nil, notFoundAs(err, apperror.NotFound(msgTenantNotFound))
	}

	prometheus.RecordTenantOperation("set_billing_plan")
	s.logger.Info("Billing plan changed",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.Any("billing_plan_id", planID))
	return s.describe(ctx, actor.TenantID)
}

func (s *tenantService) ListBillingPlans(ctx context.Context, actor Actor) ([]BillingPlanDTO, error) {
	if _, err := resolveActor(ctx, s.users, actor); err != nil {
		return nil, err
	}
	plans, err := s.plans.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BillingPlanDTO, 0, len(plans))
	for i := range plans {
		out = append(out, toBillingPlanDTO(&plans[i]))
	}
	return out, nil
}

func (s *tenantService) describe(ctx context.Context, tenantID uuid.UUID) (*TenantDTO, error) {
	tenant, err := s.tenants.GetActive(ctx, tenantID)
	if err != nil {
		return nil, notFoundAs(err, apperror.NotFound(msgTenantNotFound))
	}
	count, err := s.tenants.CountUsers(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	plan := tenant.BillingPlan
	if plan == nil {
		plan, err = s.plans.GetByCode(ctx, model.PlanCodeFree)
		if err != nil && !repository.IsNotFound(err) {
			return nil, err
		}
	}

	dto := &TenantDTO{
		ID:        tenant.ID,
		Name:      tenant.Name,
		CreatedAt: tenant.CreatedAt,
		UserCount: count,
	}
	if plan != nil {
		dto.BillingPlanID = &plan.ID
		dto.BillingPlanName = &plan.Name
		dto.BillingPlanCode = &plan.Code
		dto.BillingPlanMaxUsers = &plan.MaxUsers
	}
	return dto, nil
}
