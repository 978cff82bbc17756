package handler

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/suteetoe/honeydew/internal/repository"
	"github.com/suteetoe/honeydew/internal/service"
	"github.com/suteetoe/honeydew/pkg/jwtutil"
)

// NewServices builds every repository over db and the services on top of them.
func NewServices(db *gorm.DB, jwtUtil *jwtutil.JWTUtil, log *zap.Logger) Services {
	tenants := repository.NewTenantRepository(db)
	users := repository.NewUserRepository(db)
	plans := repository.NewBillingPlanRepository(db)

	return Services{
		Auth:        service.NewAuthService(tenants, users, repository.NewApiClientRepository(db), plans, jwtUtil, log),
		Todos:       service.NewTodoService(repository.NewTodoRepository(db), users, log),
		Users:       service.NewUserService(users, log),
		Preferences: service.NewPreferenceService(repository.NewPreferenceRepository(db), users, log),
		Tenants:     service.NewTenantService(tenants, users, plans, log),
		Tickets:     service.NewSupportTicketService(repository.NewSupportTicketRepository(db), users, log),
	}
}
