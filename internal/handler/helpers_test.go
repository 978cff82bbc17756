package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/suteetoe/honeydew/internal/handler"
	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/internal/repository"
	"github.com/suteetoe/honeydew/internal/seed"
	"github.com/suteetoe/honeydew/internal/testutil"
	"github.com/suteetoe/honeydew/pkg/jwtutil"
)

type server struct {
	db  *gorm.DB
	jwt *jwtutil.JWTUtil
	e   *echo.Echo
}

func newServer(t *testing.T) *server {
	t.Helper()

	db := testutil.NewDB(t)
	require.NoError(t, seed.EnsureBillingPlans(context.Background(), repository.NewBillingPlanRepository(db), zap.NewNop()))

	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:         "handler-test-signing-key",
		Issuer:             "Honeydew",
		Audience:           "Honeydew",
		AccessTokenMinutes: 30,
	})
	e := handler.NewRouter(handler.NewServices(db, jwt, zap.NewNop()), jwt, "handler-test")
	return &server{db: db, jwt: jwt, e: e}
}

func (s *server) token(t *testing.T, u *model.User) string {
	t.Helper()
	token, err := s.jwt.GenerateUserToken(jwtutil.UserToken{
		UserID:          u.ID,
		TenantID:        u.TenantID,
		Email:           u.Email,
		Role:            string(u.Role),
		CanViewAllTodos: u.CanViewAllTodos,
		CanEditAllTodos: u.CanEditAllTodos,
		CanCreateUser:   u.CanCreateUser,
	})
	require.NoError(t, err)
	return token
}

// do sends body as JSON when it is not nil and returns the recorded response.
func (s *server) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type household struct {
	tenant *model.Tenant
	owner  *model.User
	member *model.User
}

func (s *server) household(t *testing.T, name string) household {
	t.Helper()
	tenant := testutil.Tenant(t, s.db, name)
	return household{
		tenant: tenant,
		owner:  testutil.User(t, s.db, tenant.ID, "owner@"+name+".test", testutil.AsOwner()),
		member: testutil.User(t, s.db, tenant.ID, "member@"+name+".test"),
	}
}
