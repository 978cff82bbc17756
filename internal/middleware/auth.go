package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/honeydew/internal/apperror"
	"github.com/suteetoe/honeydew/internal/service"
	"github.com/suteetoe/honeydew/pkg/jwtutil"
	"github.com/suteetoe/honeydew/pkg/logger"
	"github.com/suteetoe/honeydew/prometheus"
)

const actorKey = "actor"

// JWTAuthMiddleware validates the bearer token and stores the calling actor
// in the echo context. Tokens without a tenant are rejected.
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Missing authorization header")
				prometheus.RecordAuthError("missing_token")
				return apperror.Unauthorized("Missing authorization header")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("Invalid authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return apperror.Unauthorized("Invalid authorization header format")
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return apperror.Unauthorized("Invalid or expired token")
			}
			if claims.TenantID == uuid.Nil {
				log.Warn("Token has no tenant", zap.String("subject", claims.Subject.String()))
				prometheus.RecordAuthError("missing_tenant")
				return apperror.Unauthorized("Invalid or expired token")
			}

			c.Set(actorKey, service.Actor{UserID: claims.Subject, TenantID: claims.TenantID})

			ctxLogger := log.With(
				zap.String("subject", claims.Subject.String()),
				zap.String("tenant_id", claims.TenantID.String()))
			c.Set("logger", ctxLogger)
			c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context(), ctxLogger)))

			return next(c)
		}
	}
}

// ActorFrom returns the caller set by JWTAuthMiddleware.
func ActorFrom(c echo.Context) (service.Actor, bool) {
	actor, ok := c.Get(actorKey).(service.Actor)
	return actor, ok
}
