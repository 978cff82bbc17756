package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/suteetoe/honeydew/internal/apperror"
	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/internal/permission"
	"github.com/suteetoe/honeydew/internal/repository"
	"github.com/suteetoe/honeydew/pkg/hashing"
	"github.com/suteetoe/honeydew/pkg/jwtutil"
	"github.com/suteetoe/honeydew/prometheus"
)

const (
	msgEmailPasswordRequired = "Email and password are required."
	msgEmailTaken            = "A user with this email already exists."
	msgTenantNameRequired    = "Tenant name is required."
	msgInvalidLogin          = "Invalid email or password."
	msgClientFieldsRequired  = "ClientId and ClientSecret are required."
	msgInvalidClient         = "Invalid client credentials."
	msgClientIDTaken         = "A client with this ClientId already exists."
	msgTenantNotFound        = "Tenant not found."
)

// ErrMultipleTenants is returned by Login when the email matches users in
// more than one tenant and no tenant id was given.
var ErrMultipleTenants = apperror.Validation("User belongs to multiple tenants; include tenantId.")

type AuthService interface {
	RegisterTenant(ctx context.Context, req RegisterTenantRequest) (*TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	ClientToken(ctx context.Context, req ClientTokenRequest) (*TokenResponse, error)
	CreateApiClient(ctx context.Context, actor Actor, req CreateApiClientRequest) (string, error)
}

type authService struct {
	tenants repository.TenantRepository
	users   repository.UserRepository
	clients repository.ApiClientRepository
	plans   repository.BillingPlanRepository
	jwt     *jwtutil.JWTUtil
	logger  *zap.Logger
	now     Clock
}

func NewAuthService(
	tenants repository.TenantRepository,
	users repository.UserRepository,
	clients repository.ApiClientRepository,
	plans repository.BillingPlanRepository,
	jwt *jwtutil.JWTUtil,
	logger *zap.Logger,
) AuthService {
	return &authService{
		tenants: tenants,
		users:   users,
		clients: clients,
		plans:   plans,
		jwt:     jwt,
		logger:  logger,
		now:     systemClock,
	}
}

// RegisterTenant creates a household and its Owner, then signs the Owner in.
func (s *authService) RegisterTenant(ctx context.Context, req RegisterTenantRequest) (*TokenResponse, error) {
	email := model.NormalizeEmail(req.OwnerEmail)
	if email == "" || req.Password == "" {
		return nil, apperror.Validation(msgEmailPasswordRequired)
	}
	name := strings.TrimSpace(req.TenantName)
	if name == "" {
		return nil, apperror.Validation(msgTenantNameRequired)
	}

	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Conflict(msgEmailTaken)
	}

	hash, salt, err := hashing.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	tenant := &model.Tenant{Name: name, IsActive: true, CreatedAt: now}
	plan, err := s.plans.GetByCode(ctx, model.PlanCodeFree)
	switch {
	case err == nil:
		tenant.BillingPlanID = &plan.ID
	case !repository.IsNotFound(err):
		return nil, err
	}

	owner := &model.User{
		Email:           email,
		DisplayName:     strings.TrimSpace(req.OwnerDisplayName),
		PasswordHash:    hash,
		PasswordSalt:    salt,
		Role:            model.RoleOwner,
		CanViewAllTodos: true,
		CanEditAllTodos: true,
		CanCreateUser:   true,
		IsActive:        true,
		CreatedAt:       now,
	}
	if err := s.tenants.CreateWithOwner(ctx, tenant, owner); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(msgEmailTaken)
		}
		return nil, err
	}

	prometheus.RegisterCounter.Inc()
	s.logger.Info("Tenant registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("owner_id", owner.ID.String()))

	return s.userToken(owner)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	email := model.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperror.Validation(msgEmailPasswordRequired)
	}

	candidates, err := s.users.FindActiveByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var user *model.User
	switch {
	case len(candidates) == 0:
	case len(candidates) > 1 && req.TenantID == nil:
		prometheus.RecordAuthError("multiple_tenants")
		return nil, ErrMultipleTenants
	case req.TenantID == nil:
		user = &candidates[0]
	default:
		for i := range candidates {
			if candidates[i].TenantID == *req.TenantID {
				user = &candidates[i]
				break
			}
		}
	}

	if user == nil || !hashing.VerifyPassword(req.Password, user.PasswordHash, user.PasswordSalt) {
		prometheus.RecordAuthError("invalid_credentials")
		s.logger.Warn("Login failed", zap.String("email", email))
		return nil, apperror.Unauthorized(msgInvalidLogin)
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		return nil, err
	}

	prometheus.LoginCounter.Inc()
	return s.userToken(user)
}

// ClientToken exchanges client credentials for a machine token.
func (s *authService) ClientToken(ctx context.Context, req ClientTokenRequest) (*TokenResponse, error) {
	clientID := strings.TrimSpace(req.ClientID)
	if clientID == "" || req.ClientSecret == "" {
		return nil, apperror.Validation(msgClientFieldsRequired)
	}

	client, err := s.clients.GetActiveByClientID(ctx, clientID)
	if repository.IsNotFound(err) {
		prometheus.RecordAuthError("invalid_client")
		return nil, apperror.Unauthorized(msgInvalidClient)
	}
	if err != nil {
		return nil, err
	}
	if !hashing.VerifyClientSecret(req.ClientSecret, client.ClientID, client.ClientSecretHash) {
		prometheus.RecordAuthError("invalid_client")
		s.logger.Warn("Client credential exchange failed", zap.String("client_id", clientID))
		return nil, apperror.Unauthorized(msgInvalidClient)
	}

	token, err := s.jwt.GenerateClientToken(client.ID, client.ClientID, client.TenantID)
	if err != nil {
		return nil, err
	}
	prometheus.ClientTokenCounter.Inc()
	return &TokenResponse{Token: token}, nil
}

// CreateApiClient registers a machine credential for the caller's tenant and
// returns its client id.
func (s *authService) CreateApiClient(ctx context.Context, actor Actor, req CreateApiClientRequest) (string, error) {
	user, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return "", err
	}
	if !permission.CanManageTenant(user) {
		return "", errForbidden()
	}

	clientID := strings.TrimSpace(req.ClientID)
	if clientID == "" || req.ClientSecret == "" {
		return "", apperror.Validation(msgClientFieldsRequired)
	}
	taken, err := s.clients.ClientIDExists(ctx, clientID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", apperror.Conflict(msgClientIDTaken)
	}
	exists, err := s.tenants.Exists(ctx, actor.TenantID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", apperror.NotFound(msgTenantNotFound)
	}

	client := &model.ApiClient{
		TenantID:         actor.TenantID,
		ClientID:         clientID,
		ClientSecretHash: hashing.HashClientSecret(req.ClientSecret, clientID),
		Name:             strings.TrimSpace(req.Name),
		IsActive:         true,
		CreatedAt:        s.now(),
	}
	if err := s.clients.Create(ctx, client); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", apperror.Conflict(msgClientIDTaken)
		}
		return "", err
	}

	prometheus.RecordTenantOperation("create_api_client")
	s.logger.Info("API client created",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("client_id", clientID))
	return client.ClientID, nil
}

func (s *authService) userToken(u *model.User) (*TokenResponse, error) {
	token, err := s.jwt.GenerateUserToken(jwtutil.UserToken{
		UserID:          u.ID,
		TenantID:        u.TenantID,
		Email:           u.Email,
		Role:            u.Role.String(),
		CanViewAllTodos: u.CanViewAllTodos,
		CanEditAllTodos: u.CanEditAllTodos,
		CanCreateUser:   u.CanCreateUser,
	})
	if err != nil {
		return nil, err
	}
	return &TokenResponse{Token: token}, nil
}
