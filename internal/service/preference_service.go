package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/suteetoe/honeydew/internal/apperror"
	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/internal/repository"
)

const msgInvalidItemsPerPage = "Invalid items per page value."

type PreferenceService interface {
	Get(ctx context.Context, actor Actor) (*PreferencesDTO, error)
	SetItemsPerPage(ctx context.Context, actor Actor, itemsPerPage int) (*PreferencesDTO, error)
}

type preferenceService struct {
	prefs  repository.PreferenceRepository
	users  repository.UserRepository
	logger *zap.Logger
}

func NewPreferenceService(prefs repository.PreferenceRepository, users repository.UserRepository, logger *zap.Logger) PreferenceService {
	return &preferenceService{prefs: prefs, users: users, logger: logger}
}

// Get returns the caller's preferences, creating the defaults on first read.
func (s *preferenceService) Get(ctx context.Context, actor Actor) (*PreferencesDTO, error) {
	caller, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}
	pref, err := s.prefs.GetOrCreate(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return toPreferencesDTO(pref), nil
}

func (s *preferenceService) SetItemsPerPage(ctx context.Context, actor Actor, itemsPerPage int) (*PreferencesDTO, error) {
	caller, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}
	if !model.IsAllowedItemsPerPage(itemsPerPage) {
		return nil, apperror.Validation(msgInvalidItemsPerPage)
	}
	pref, err := s.prefs.SetItemsPerPage(ctx, caller.ID, itemsPerPage)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Preferences saved", zap.String("user_id", caller.ID.String()), zap.Int("items_per_page", itemsPerPage))
	return toPreferencesDTO(pref), nil
}

func toPreferencesDTO(p *model.UserPreference) *PreferencesDTO {
	allowed := make([]int, len(model.AllowedItemsPerPage))
	copy(allowed, model.AllowedItemsPerPage)
	return &PreferencesDTO{ItemsPerPage: p.ItemsPerPage, AllowedItemsPerPage: allowed}
}
