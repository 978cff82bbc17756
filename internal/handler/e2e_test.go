package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/suteetoe/honeydew/internal/middleware"
	"github.com/suteetoe/honeydew/internal/repository"
	"github.com/suteetoe/honeydew/internal/seed"
	"github.com/suteetoe/honeydew/internal/service"
)

// TestHouseholdFlow drives a seeded server over real HTTP: the development
// owner invites a member, the member files a chore and the owner votes on it.
func TestHouseholdFlow(t *testing.T) {
	s := newServer(t)
	_, err := seed.DevData(context.Background(),
		repository.NewTenantRepository(s.db),
		repository.NewApiClientRepository(s.db),
		repository.NewBillingPlanRepository(s.db),
		zap.NewNop())
	require.NoError(t, err)

	srv := httptest.NewServer(s.e)
	defer srv.Close()
	client := resty.New().SetBaseURL(srv.URL)

	login := func(email, password string) string {
		t.Helper()
		var token service.TokenResponse
		resp, err := client.R().
			SetBody(service.LoginRequest{Email: email, Password: password}).
			SetResult(&token).
			Post("/api/auth/login")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())
		return token.Token
	}

	t.Run("client credentials", func(t *testing.T) {
		var token service.TokenResponse
		resp, err := client.R().
			SetBody(service.ClientTokenRequest{ClientID: seed.DevClientID, ClientSecret: seed.DevClientSecret}).
			SetResult(&token).
			Post("/api/auth/token")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())
		assert.NotEmpty(t, token.Token)

		var apiErr middleware.ErrorResponse
		resp, err = client.R().
			SetBody(service.ClientTokenRequest{ClientID: seed.DevClientID, ClientSecret: "guess"}).
			SetError(&apiErr).
			Post("/api/auth/token")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
		assert.Equal(t, "Invalid client credentials.", apiErr.Error)
	})

	ownerToken := login(seed.DevOwnerEmail, seed.DevPassword)

	var member service.UserDTO
	resp, err := client.R().
		SetAuthToken(ownerToken).
		SetBody(service.CreateUserRequest{Email: "kid@example.com", DisplayName: "Kid", Password: "Chores4ever", Role: "Member"}).
		SetResult(&member).
		Post("/api/users")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())

	memberToken := login("kid@example.com", "Chores4ever")

	var todo service.TodoDTO
	resp, err = client.R().
		SetAuthToken(memberToken).
		SetBody(service.CreateTodoRequest{Title: "Take out recycling", AssignedToUserID: member.ID}).
		SetResult(&todo).
		Post("/api/todos")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())

	var voted struct {
		Voted bool `json:"voted"`
	}
	resp, err = client.R().
		SetAuthToken(ownerToken).
		SetResult(&voted).
		Post("/api/todos/" + todo.ID.String() + "/vote")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.True(t, voted.Voted)

	var page service.TodoPage
	resp, err = client.R().
		SetAuthToken(ownerToken).
		SetQueryParams(map[string]string{"onlyMine": "false", "search": "RECYCL"}).
		SetResult(&page).
		Get("/api/todos")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, page.Items, 1)
	assert.Equal(t, todo.ID, page.Items[0].ID)
	assert.Equal(t, 1, page.Items[0].VoteCount)
	assert.True(t, page.Items[0].CurrentUserVoted)

	var mine []service.TodoDTO
	resp, err = client.R().
		SetAuthToken(memberToken).
		SetResult(&mine).
		Get("/api/todos/assigned-to-me")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, mine, 1)

	resp, err = client.R().
		SetAuthToken(ownerToken).
		SetQueryParam("onlyMine", "false").
		Get("/api/todos/export")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.True(t, strings.HasPrefix(resp.String(), "Id,Title,Notes,IsDone"))
	assert.Contains(t, resp.String(), `"Take out recycling"`)

	var tenant service.TenantDTO
	resp, err = client.R().SetAuthToken(memberToken).SetResult(&tenant).Get("/api/tenant")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, seed.DevTenantName, tenant.Name)
	assert.Equal(t, int64(2), tenant.UserCount)
}
