package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suteetoe/honeydew/internal/service"
)

type AuthHandler struct {
	auth service.AuthService
}

func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterTenant handles household sign-up and returns the owner's token
func (h *AuthHandler) RegisterTenant(c echo.Context) error {
	var req service.RegisterTenantRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, err := h.auth.RegisterTenant(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, token)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req service.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, token)
}

// Token handles the client credential exchange
func (h *AuthHandler) Token(c echo.Context) error {
	var req service.ClientTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, err := h.auth.ClientToken(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, token)
}

func (h *AuthHandler) CreateClient(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.CreateApiClientRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	clientID, err := h.auth.CreateApiClient(c.Request().Context(), a, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"clientId": clientID})
}
