package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suteetoe/honeydew/internal/apperror"
	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/internal/permission"
	"github.com/suteetoe/honeydew/internal/repository"
	"github.com/suteetoe/honeydew/pkg/hashing"
	"github.com/suteetoe/honeydew/prometheus"
)

const (
	msgEmailTakenInTenant = "A user with this email already exists in this household."
	msgEmailEmpty         = "Email cannot be empty."
	msgLastOwner          = "Cannot delete the last owner."
	msgInvalidRole        = "Role must be Owner or Member."
)

type UserService interface {
	List(ctx context.Context, actor Actor, activeOnly, forAssignmentOnly bool) ([]UserDTO, error)
	GetMe(ctx context.Context, actor Actor) (*UserDTO, error)
	Create(ctx context.Context, actor Actor, req CreateUserRequest) (*UserDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error)
	UpdateCurrentUser(ctx context.Context, actor Actor, req UpdateCurrentUserRequest) (*UserDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type userService struct {
	users  repository.UserRepository
	logger *zap.Logger
	now    Clock
}

func NewUserService(users repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		users:  users,
		logger: logger,
		now:    systemClock,
	}
}

// List returns the tenant's users by display name. Any member may fetch the
// list used to pick an assignee; the full list needs CanCreateUser.
func (s *userService) List(ctx context.Context, actor Actor, activeOnly, forAssignmentOnly bool) ([]UserDTO, error) {
	caller, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}
	if !permission.CanListUsers(caller, forAssignmentOnly) {
		return nil, errForbidden()
	}

	users, err := s.users.List(ctx, actor.TenantID, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, toUserDTO(&users[i]))
	}
	return out, nil
}

func (s *userService) GetMe(ctx context.Context, actor Actor) (*UserDTO, error) {
	caller, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(caller)
	return &dto, nil
}

func (s *userService) Create(ctx context.Context, actor Actor, req CreateUserRequest) (*UserDTO, error) {
	caller, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}
	if !permission.CanCreateUser(caller) {
		return nil, errForbidden()
	}

	email := model.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperror.Validation(msgEmailPasswordRequired)
	}
	taken, err := s.users.EmailExistsInTenant(ctx, actor.TenantID, email, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Conflict(msgEmailTakenInTenant)
	}

	hash, salt, err := hashing.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		TenantID:        actor.TenantID,
		Email:           email,
		DisplayName:     strings.TrimSpace(req.DisplayName),
		PasswordHash:    hash,
		PasswordSalt:    salt,
		Role:            model.ParseRoleOrMember(req.Role),
		CanViewAllTodos: req.CanViewAllTodos,
		CanEditAllTodos: req.CanEditAllTodos,
		CanCreateUser:   req.CanCreateUser,
		IsActive:        true,
		CreatedAt:       s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(msgEmailTakenInTenant)
		}
		return nil, err
	}

	prometheus.RecordUserOperation("create")
	s.logger.Info("User created",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	dto := toUserDTO(user)
	return &dto, nil
}

// Update edits another user of the tenant. Any member may change a display
// name; role, capability flags and the active state are applied only when
// the caller is an Owner acting on someone else, and ignored otherwise.
func (s *userService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error) {
	caller, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}
	target, err := s.users.GetInTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, notFoundAs(err, errNotFound())
	}

	var role model.Role
	if raw, ok := req.Role.Get(); ok {
		if role, err = model.ParseRole(raw); err != nil {
			return nil, apperror.Validation(msgInvalidRole)
		}
	}

	if name, ok := req.DisplayName.Get(); ok {
		if name = strings.TrimSpace(name); name != "" {
			target.DisplayName = name
		}
	}
	if permission.CanManageUser(caller, target) {
		if role != "" {
			target.Role = role
		}
		if v, ok := req.CanViewAllTodos.Get(); ok {
			target.CanViewAllTodos = v
		}
		if v, ok := req.CanEditAllTodos.Get(); ok {
			target.CanEditAllTodos = v
		}
		if v, ok := req.CanCreateUser.Get(); ok {
			target.CanCreateUser = v
		}
		if v, ok := req.IsActive.Get(); ok {
			target.IsActive = v
		}
	}

	if err := s.users.Save(ctx, target); err != nil {
		return nil, err
	}
	prometheus.RecordUserOperation("update")

	dto := toUserDTO(target)
	return &dto, nil
}

func (s *userService) UpdateCurrentUser(ctx context.Context, actor Actor, req UpdateCurrentUserRequest) (*UserDTO, error) {
	caller, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}

	if name, ok := req.DisplayName.Get(); ok {
		caller.DisplayName = strings.TrimSpace(name)
	}
	if raw, ok := req.Email.Get(); ok {
		email := model.NormalizeEmail(raw)
		if email == "" {
			return nil, apperror.Validation(msgEmailEmpty)
		}
		taken, err := s.users.EmailExistsInTenant(ctx, actor.TenantID, email, &caller.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.Conflict(msgEmailTakenInTenant)
		}
		caller.Email = email
	}

	if err := s.users.Save(ctx, caller); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(msgEmailTakenInTenant)
		}
		return nil, err
	}
	prometheus.RecordUserOperation("update_self")

	dto := toUserDTO(caller)
	return &dto, nil
}

// Delete removes a user. Owners may delete anyone in the tenant, members only
// themselves. The tenant always keeps at least one Owner.
func (s *userService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	caller, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return err
	}
	target, err := s.users.GetInTenant(ctx, actor.TenantID, id)
	if err != nil {
		return notFoundAs(err, errNotFound())
	}
	if !permission.CanDeleteUser(caller, target) {
		return errForbidden()
	}

	switch err := s.users.Delete(ctx, actor.TenantID, target.ID); {
	case errors.Is(err, repository.ErrLastOwner):
		return apperror.Conflict(msgLastOwner)
	case err != nil:
		return notFoundAs(err, errNotFound())
	}

	prometheus.RecordUserOperation("delete")
	s.logger.Info("User deleted",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("user_id", target.ID.String()),
		zap.String("deleted_by", caller.ID.String()))
	return nil
}
