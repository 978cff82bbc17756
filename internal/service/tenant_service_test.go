package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suteetoe/honeydew/internal/apperror"
	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/internal/testutil"
)

func TestTenantService_GetReportsFreePlan(t *testing.T) {
	f := newFixture(t)
	h := f.household(t, "home")
	free := testutil.Plan(t, f.db, model.PlanCodeFree, 3)

	got, err := f.tenants.Get(context.Background(), as(h.member))
	require.NoError(t, err)
	assert.Equal(t, h.tenant.ID, got.ID)
	assert.EqualValues(t, 2, got.UserCount)
	require.NotNil(t, got.BillingPlanID)
	assert.Equal(t, free.ID, *got.BillingPlanID)
	assert.Equal(t, model.PlanCodeFree, *got.BillingPlanCode)
	assert.Equal(t, 3, *got.BillingPlanMaxUsers)
}

func TestTenantService_UpdateName(t *testing.T) {
	f := newFixture(t)
	h := f.household(t, "home")
	ctx := context.Background()

	_, err := f.tenants.UpdateName(ctx, as(h.member), UpdateTenantRequest{Name: "Mine now"})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = f.tenants.UpdateName(ctx, as(h.owner), UpdateTenantRequest{Name: "  "})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	got, err := f.tenants.UpdateName(ctx, as(h.owner), UpdateTenantRequest{Name: " Lake House "})
	require.NoError(t, err)
	assert.Equal(t, "Lake House", got.Name)
}

func TestTenantService_SetBillingPlan(t *testing.T) {
	f := newFixture(t)
	h := f.household(t, "home")
	testutil.User(t, f.db, h.tenant.ID, "third@home.test")
	tiny := testutil.Plan(t, f.db, "tiny", 2)
	upgraded := testutil.Plan(t, f.db, model.PlanCodeUpgraded, 10)
	ctx := context.Background()

	_, err := f.tenants.SetBillingPlan(ctx, as(h.member), &upgraded.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	missing := uuid.New()
	_, err = f.tenants.SetBillingPlan(ctx, as(h.owner), &missing)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = f.tenants.SetBillingPlan(ctx, as(h.owner), &tiny.ID)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err), "three users do not fit a two user plan")

	got, err := f.tenants.SetBillingPlan(ctx, as(h.owner), &upgraded.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanCodeUpgraded, *got.BillingPlanCode)

	cleared, err := f.tenants.SetBillingPlan(ctx, as(h.owner), nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.BillingPlanID, "no free plan is seeded here")

	plans, err := f.tenants.ListBillingPlans(ctx, as(h.member))
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "tiny", plans[0].Code)
}
