package jwtutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUtil() *JWTUtil {
	return NewJWTUtil(&JWTConfig{
		SigningKey:         "test-signing-key",
		Issuer:             "Honeydew",
		Audience:           "Honeydew",
		AccessTokenMinutes: 30,
	})
}

func TestUserTokenRoundTrip(t *testing.T) {
	j := newTestUtil()
	userID, tenantID := uuid.New(), uuid.New()

	token, err := j.GenerateUserToken(UserToken{
		UserID:          userID,
		TenantID:        tenantID,
		Email:           "owner@acme.com",
		Role:            "Owner",
		CanViewAllTodos: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, "Owner", claims.Role)
	assert.False(t, claims.IsClient())

	parsed := &UserClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, parsed)
	require.NoError(t, err)
	assert.Equal(t, "owner@acme.com", parsed.Email)
	assert.True(t, parsed.CanViewAllTodos)
	assert.False(t, parsed.CanEditAllTodos)
	assert.Equal(t, tenantID.String(), parsed.TenantID)
}

func TestClientTokenRoundTrip(t *testing.T) {
	j := newTestUtil()
	id, tenantID := uuid.New(), uuid.New()

	token, err := j.GenerateClientToken(id, "client-id", tenantID)
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Subject)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, "client-id", claims.ClientID)
	assert.True(t, claims.IsClient())
}

func TestValidateToken_Rejects(t *testing.T) {
	j := newTestUtil()
	token, err := j.GenerateClientToken(uuid.New(), "client-id", uuid.New())
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		late := newTestUtil()
		late.now = func() time.Time { return time.Now().Add(31 * time.Minute) }
		_, err := late.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong key", func(t *testing.T) {
		other := NewJWTUtil(&JWTConfig{SigningKey: "other", Issuer: "Honeydew", Audience: "Honeydew", AccessTokenMinutes: 30})
		_, err := other.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("wrong audience", func(t *testing.T) {
		other := NewJWTUtil(&JWTConfig{SigningKey: "test-signing-key", Issuer: "Honeydew", Audience: "Elsewhere", AccessTokenMinutes: 30})
		_, err := other.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)
	})

	t.Run("missing tenant", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "Honeydew",
			Audience:  jwt.ClaimStrings{"Honeydew"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
		require.NoError(t, err)
		_, err = j.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := j.ValidateToken("not-a-token")
		assert.Error(t, err)
	})
}

func TestMissingConfig(t *testing.T) {
	j := NewJWTUtil(nil)
	_, err := j.GenerateUserToken(UserToken{UserID: uuid.New(), TenantID: uuid.New()})
	assert.Error(t, err)
	_, err = j.ValidateToken("x")
	assert.Error(t, err)
}
