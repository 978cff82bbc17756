package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suteetoe/honeydew/internal/service"
)

type UserHandler struct {
	users service.UserService
	prefs service.PreferenceService
}

func NewUserHandler(users service.UserService, prefs service.PreferenceService) *UserHandler {
	return &UserHandler{users: users, prefs: prefs}
}

// List handles GET /api/users?activeOnly&forAssignmentOnly
func (h *UserHandler) List(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	activeOnly, err := queryBool(c, "activeOnly", false)
	if err != nil {
		return err
	}
	forAssignmentOnly, err := queryBool(c, "forAssignmentOnly", false)
	if err != nil {
		return err
	}

	users, err := h.users.List(c.Request().Context(), a, activeOnly, forAssignmentOnly)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Me(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetMe(c.Request().Context(), a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.UpdateCurrentUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateCurrentUser(c.Request().Context(), a, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Preferences(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	prefs, err := h.prefs.Get(c.Request().Context(), a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}

func (h *UserHandler) UpdatePreferences(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.UpdatePreferencesRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	prefs, err := h.prefs.SetItemsPerPage(c.Request().Context(), a, req.ItemsPerPage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}

func (h *UserHandler) Create(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.Create(c.Request().Context(), a, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req service.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), a, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), a, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
