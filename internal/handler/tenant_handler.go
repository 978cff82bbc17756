package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suteetoe/honeydew/internal/service"
)

type TenantHandler struct {
	tenants service.TenantService
}

func NewTenantHandler(tenants service.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

func (h *TenantHandler) Get(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	tenant, err := h.tenants.Get(c.Request().Context(), a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandler) Update(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.UpdateTenantRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	tenant, err := h.tenants.UpdateName(c.Request().Context(), a, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenant)
}

// SetBillingPlan handles PUT /api/tenant/billing-plan; a null id clears the plan
func (h *TenantHandler) SetBillingPlan(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.SetBillingPlanRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	tenant, err := h.tenants.SetBillingPlan(c.Request().Context(), a, req.BillingPlanID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandler) BillingPlans(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	plans, err := h.tenants.ListBillingPlans(c.Request().Context(), a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plans)
}
