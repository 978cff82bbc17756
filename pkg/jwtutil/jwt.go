package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey         string
	Issuer             string
	Audience           string
	AccessTokenMinutes int
}

// UserClaims are carried by tokens issued to people on login or registration.
type UserClaims struct {
	TenantID        string `json:"tenant"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	CanViewAllTodos bool   `json:"can_view_all_todos"`
	CanEditAllTodos bool   `json:"can_edit_all_todos"`
	CanCreateUser   bool   `json:"can_create_user"`
	jwt.RegisteredClaims
}

// ClientClaims are carried by machine tokens from the client credential exchange.
type ClientClaims struct {
	TenantID string `json:"tenant"`
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// Claims is the common view the bearer middleware needs from either token kind.
type Claims struct {
	Subject  uuid.UUID
	TenantID uuid.UUID
	ClientID string
	Role     string
}

// IsClient reports whether the token was issued to an API client.
func (c *Claims) IsClient() bool {
	return c.ClientID != ""
}

// UserToken describes the subject of a user token
type UserToken struct {
	UserID          uuid.UUID
	TenantID        uuid.UUID
	Email           string
	Role            string
	CanViewAllTodos bool
	CanEditAllTodos bool
	CanCreateUser   bool
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *JWTConfig
	now    func() time.Time
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config *JWTConfig) *JWTUtil {
	return &JWTUtil{
		config: config,
		now:    time.Now,
	}
}

func (j *JWTUtil) registered(subject string) (jwt.RegisteredClaims, error) {
	if j.config == nil || j.config.SigningKey == "" {
		return jwt.RegisteredClaims{}, errors.New("JWT configuration not provided")
	}
	now := j.now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    j.config.Issuer,
		Audience:  jwt.ClaimStrings{j.config.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(j.config.AccessTokenMinutes) * time.Minute)),
	}, nil
}

// GenerateUserToken creates a signed token for a user session
func (j *JWTUtil) GenerateUserToken(u UserToken) (string, error) {
	registered, err := j.registered(u.UserID.String())
	if err != nil {
		return "", err
	}

	claims := UserClaims{
		TenantID:         u.TenantID.String(),
		Email:            u.Email,
		Role:             u.Role,
		CanViewAllTodos:  u.CanViewAllTodos,
		CanEditAllTodos:  u.CanEditAllTodos,
		CanCreateUser:    u.CanCreateUser,
		RegisteredClaims: registered,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// GenerateClientToken creates a signed token for an API client
func (j *JWTUtil) GenerateClientToken(id uuid.UUID, clientID string, tenantID uuid.UUID) (string, error) {
	registered, err := j.registered(id.String())
	if err != nil {
		return "", err
	}

	claims := ClientClaims{
		TenantID:         tenantID.String(),
		ClientID:         clientID,
		RegisteredClaims: registered,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// tokenClaims decodes both token kinds; client_id is only set on machine tokens.
type tokenClaims struct {
	TenantID string `json:"tenant"`
	ClientID string `json:"client_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// ValidateToken checks signature, issuer, audience and expiry, and requires
// both a subject and a tenant claim.
func (j *JWTUtil) ValidateToken(tokenString string) (*Claims, error) {
	if j.config == nil || j.config.SigningKey == "" {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.config.Issuer),
		jwt.WithAudience(j.config.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}

	raw, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	subject, err := uuid.Parse(raw.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid sub claim: %w", err)
	}
	tenantID, err := uuid.Parse(raw.TenantID)
	if err != nil {
		return nil, fmt.Errorf("invalid tenant claim: %w", err)
	}

	return &Claims{
		Subject:  subject,
		TenantID: tenantID,
		ClientID: raw.ClientID,
		Role:     raw.Role,
	}, nil
}
