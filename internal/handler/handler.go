// Package handler exposes the Honeydew use cases over HTTP.
package handler

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/honeydew/internal/apperror"
	"github.com/suteetoe/honeydew/internal/middleware"
	"github.com/suteetoe/honeydew/internal/service"
	"github.com/suteetoe/honeydew/pkg/logger"
)

const msgInvalidBody = "Invalid request body."

// actor returns the authenticated caller. Routes outside the bearer group
// have none.
func actor(c echo.Context) (service.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return service.Actor{}, apperror.Unauthorized("Unauthorized")
	}
	return a, nil
}

// pathID parses the :id route parameter. Anything that is not a uuid does not
// match a resource.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.NotFound("Resource not found.")
	}
	return id, nil
}

func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		logger.FromEcho(c).Warn("Invalid request body", zap.Error(err))
		return apperror.Validation(msgInvalidBody)
	}
	return nil
}

func invalidQuery(name string) error {
	return apperror.Validation("Invalid value for query parameter '" + name + "'.")
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidQuery(name)
	}
	return n, nil
}

func queryBool(c echo.Context, name string, def bool) (bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, invalidQuery(name)
	}
	return b, nil
}

// queryIDs collects every uuid given under any of the names.
func queryIDs(c echo.Context, names ...string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	params := c.QueryParams()
	for _, name := range names {
		for _, raw := range params[name] {
			for _, part := range strings.Split(raw, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				id, err := uuid.Parse(part)
				if err != nil {
					return nil, invalidQuery(name)
				}
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
