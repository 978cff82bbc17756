// Package service holds the Honeydew use cases. Every operation resolves the
// calling user first and returns *apperror.Error for expected failures.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/suteetoe/honeydew/internal/apperror"
	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/internal/repository"
)

// Actor identifies the authenticated caller: the token subject and tenant.
type Actor struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
}

// Clock returns the current time. Services store it in UTC.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

const (
	msgUnauthorized = "Unauthorized"
	msgNotFound     = "Resource not found."
	msgForbidden    = "Access denied."
)

func errUnauthorized() error { return apperror.Unauthorized(msgUnauthorized) }
func errNotFound() error     { return apperror.NotFound(msgNotFound) }
func errForbidden() error    { return apperror.Forbidden(msgForbidden) }

// resolveActor loads the caller. A missing user, a user of another tenant and
// a deactivated user are all reported as Unauthorized.
func resolveActor(ctx context.Context, users repository.UserRepository, actor Actor) (*model.User, error) {
	user, err := users.GetByID(ctx, actor.UserID)
	if repository.IsNotFound(err) {
		return nil, errUnauthorized()
	}
	if err != nil {
		return nil, err
	}
	if user.TenantID != actor.TenantID || !user.IsActive {
		return nil, errUnauthorized()
	}
	return user, nil
}

// notFoundAs turns repository.ErrNotFound into the given business error and
// passes every other error through.
func notFoundAs(err error, as error) error {
	if repository.IsNotFound(err) {
		return as
	}
	return err
}
