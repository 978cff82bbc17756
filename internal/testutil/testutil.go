// Package testutil opens migrated in-memory databases and inserts fixtures
// for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/suteetoe/honeydew/internal/migration"
	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/pkg/database"
	"github.com/suteetoe/honeydew/pkg/hashing"
)

// Password is the plain-text password of every fixture user.
const Password = "TestPassword1!"

// NewDB returns a private in-memory sqlite database with every migration applied.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.OpenSQLite(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Migrate(context.Background(), db, zap.NewNop(), migration.All()))
	return db
}

// Tenant inserts an active tenant with no billing plan.
func Tenant(t testing.TB, db *gorm.DB, name string) *model.Tenant {
	t.Helper()

	tenant := &model.Tenant{Name: name, IsActive: true}
	require.NoError(t, db.Omit("BillingPlan").Create(tenant).Error)
	return tenant
}

// UserOption adjusts a fixture user before insert.
type UserOption func(*model.User)

func AsOwner() UserOption {
	return func(u *model.User) {
		u.Role = model.RoleOwner
		u.CanViewAllTodos = true
		u.CanEditAllTodos = true
		u.CanCreateUser = true
	}
}

func WithFlags(viewAll, editAll, createUser bool) UserOption {
	return func(u *model.User) {
		u.CanViewAllTodos = viewAll
		u.CanEditAllTodos = editAll
		u.CanCreateUser = createUser
	}
}

func Inactive() UserOption {
	return func(u *model.User) { u.IsActive = false }
}

func WithDisplayName(name string) UserOption {
	return func(u *model.User) { u.DisplayName = name }
}

// User inserts an active Member of the tenant whose password is Password.
func User(t testing.TB, db *gorm.DB, tenantID uuid.UUID, email string, opts ...UserOption) *model.User {
	t.Helper()

	hash, salt, err := hashing.HashPassword(Password)
	require.NoError(t, err)

	user := &model.User{
		TenantID:     tenantID,
		Email:        model.NormalizeEmail(email),
		DisplayName:  email,
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         model.RoleMember,
		IsActive:     true,
	}
	for _, opt := range opts {
		opt(user)
	}
	require.NoError(t, db.Omit("Tenant").Create(user).Error)
	return user
}

// Todo inserts an open todo created by the user.
func Todo(t testing.TB, db *gorm.DB, creator *model.User, title string, mutate ...func(*model.TodoItem)) *model.TodoItem {
	t.Helper()

	todo := &model.TodoItem{
		TenantID:        creator.TenantID,
		CreatedByUserID: creator.ID,
		Title:           title,
	}
	for _, m := range mutate {
		m(todo)
	}
	require.NoError(t, db.Omit("Tenant", "CreatedByUser", "AssignedToUser").Create(todo).Error)
	return todo
}

// Plan inserts a billing plan.
func Plan(t testing.TB, db *gorm.DB, code string, maxUsers int) *model.BillingPlan {
	t.Helper()

	plan := &model.BillingPlan{Name: code, Code: code, MaxUsers: maxUsers}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

// Clock is a settable time source for services under test.
type Clock struct {
	Now time.Time
}

func NewClock() *Clock {
	return &Clock{Now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *Clock) Func() func() time.Time {
	return func() time.Time { return c.Now }
}

func (c *Clock) Advance(d time.Duration) {
	c.Now = c.Now.Add(d)
}
