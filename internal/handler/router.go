package handler

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/suteetoe/honeydew/internal/middleware"
	"github.com/suteetoe/honeydew/internal/service"
	"github.com/suteetoe/honeydew/pkg/jwtutil"
	"github.com/suteetoe/honeydew/pkg/logger"
	"github.com/suteetoe/honeydew/pkg/metrics"
)

// Services are the use cases the routes dispatch to.
type Services struct {
	Auth        service.AuthService
	Todos       service.TodoService
	Users       service.UserService
	Preferences service.PreferenceService
	Tenants     service.TenantService
	Tickets     service.SupportTicketService
}

// NewRouter builds the echo instance with the middleware chain and every route.
func NewRouter(s Services, jwtUtil *jwtutil.JWTUtil, serviceName string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.HTTPErrorHandler

	// order matters: the request id must exist before the logger reads it,
	// and Recover sits inside the logger so recovered panics are logged
	e.Use(middleware.RequestIDMiddleware())
	e.Use(metrics.NewHTTPMetrics(serviceName).Middleware())
	e.Use(logger.Middleware())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))
	e.GET("/api/health/status", HealthStatus)

	auth := NewAuthHandler(s.Auth)
	e.POST("/api/auth/register-tenant", auth.RegisterTenant)
	e.POST("/api/auth/login", auth.Login)
	e.POST("/api/auth/token", auth.Token)

	api := e.Group("/api", middleware.JWTAuthMiddleware(jwtUtil))
	api.POST("/auth/clients", auth.CreateClient)

	tenants := NewTenantHandler(s.Tenants)
	api.GET("/tenant", tenants.Get)
	api.PATCH("/tenant", tenants.Update)
	api.PUT("/tenant/billing-plan", tenants.SetBillingPlan)
	api.GET("/billing-plans", tenants.BillingPlans)

	todos := NewTodoHandler(s.Todos)
	api.GET("/todos", todos.List)
	api.GET("/todos/assigned-to-me", todos.AssignedToMe)
	api.GET("/todos/export", todos.Export)
	api.GET("/todos/:id", todos.Get)
	api.POST("/todos", todos.Create)
	api.PUT("/todos/:id", todos.Update)
	api.POST("/todos/:id/vote", todos.Vote)

	users := NewUserHandler(s.Users, s.Preferences)
	api.GET("/users", users.List)
	api.POST("/users", users.Create)
	api.GET("/users/me", users.Me)
	api.PATCH("/users/me", users.UpdateMe)
	api.GET("/users/me/preferences", users.Preferences)
	api.PUT("/users/me/preferences", users.UpdatePreferences)
	api.PUT("/users/:id", users.Update)
	api.DELETE("/users/:id", users.Delete)

	tickets := NewSupportTicketHandler(s.Tickets)
	api.GET("/support-tickets", tickets.List)
	api.POST("/support-tickets", tickets.Create)
	api.GET("/support-tickets/:id", tickets.Get)
	api.POST("/support-tickets/:id/replies", tickets.AddReply)
	api.PATCH("/support-tickets/:id/status", tickets.UpdateStatus)

	return e
}
