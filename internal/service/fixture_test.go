package service

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/internal/repository"
	"github.com/suteetoe/honeydew/internal/testutil"
	"github.com/suteetoe/honeydew/pkg/jwtutil"
)

type fixture struct {
	db      *gorm.DB
	clock   *testutil.Clock
	jwt     *jwtutil.JWTUtil
	todos   *todoService
	users   *userService
	auth    *authService
	tenants *tenantService
	tickets *supportTicketService
	prefs   *preferenceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	log := zap.NewNop()
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:         "service-test-signing-key",
		Issuer:             "Honeydew",
		Audience:           "Honeydew",
		AccessTokenMinutes: 30,
	})

	todoRepo := repository.NewTodoRepository(db)
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	planRepo := repository.NewBillingPlanRepository(db)

	f := &fixture{
		db:      db,
		clock:   clock,
		jwt:     jwt,
		todos:   NewTodoService(todoRepo, userRepo, log).(*todoService),
		users:   NewUserService(userRepo, log).(*userService),
		auth:    NewAuthService(tenantRepo, userRepo, repository.NewApiClientRepository(db), planRepo, jwt, log).(*authService),
		tenants: NewTenantService(tenantRepo, userRepo, planRepo, log).(*tenantService),
		tickets: NewSupportTicketService(repository.NewSupportTicketRepository(db), userRepo, log).(*supportTicketService),
		prefs:   NewPreferenceService(repository.NewPreferenceRepository(db), userRepo, log).(*preferenceService),
	}
	f.todos.now = clock.Func()
	f.users.now = clock.Func()
	f.auth.now = clock.Func()
	f.tickets.now = clock.Func()
	return f
}

// household is a tenant with an Owner and a plain Member.
type household struct {
	tenant *model.Tenant
	owner  *model.User
	member *model.User
}

func (f *fixture) household(t *testing.T, name string) household {
	t.Helper()
	tenant := testutil.Tenant(t, f.db, name)
	return household{
		tenant: tenant,
		owner:  testutil.User(t, f.db, tenant.ID, "owner@"+name+".test", testutil.AsOwner()),
		member: testutil.User(t, f.db, tenant.ID, "member@"+name+".test"),
	}
}

func as(u *model.User) Actor {
	return Actor{UserID: u.ID, TenantID: u.TenantID}
}
