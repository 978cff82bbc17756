package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/prometheus"
)

type ApiClientRepository interface {
	GetActiveByClientID(ctx context.Context, clientID string) (*model.ApiClient, error)
	ClientIDExists(ctx context.Context, clientID string) (bool, error)
	Create(ctx context.Context, client *model.ApiClient) error
}

type apiClientRepository struct {
	db *gorm.DB
}

func NewApiClientRepository(db *gorm.DB) ApiClientRepository {
	return &apiClientRepository{db: db}
}

// GetActiveByClientID requires both the client and its tenant to be active.
func (r *apiClientRepository) GetActiveByClientID(ctx context.Context, clientID string) (*model.ApiClient, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var client model.ApiClient
	err := r.db.WithContext(ctx).
		Joins("JOIN tenants ON tenants.id = api_clients.tenant_id AND tenants.is_active = ?", true).
		Where("api_clients.client_id = ? AND api_clients.is_active = ?", clientID, true).
		First(&client).Error
	if err != nil {
		return nil, translate(err, "get api client")
	}
	return &client, nil
}

func (r *apiClientRepository) ClientIDExists(ctx context.Context, clientID string) (bool, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var n int64
	if err := r.db.WithContext(ctx).Model(&model.ApiClient{}).Where("client_id = ?", clientID).Count(&n).Error; err != nil {
		return false, translate(err, "check client id")
	}
	return n > 0, nil
}

func (r *apiClientRepository) Create(ctx context.Context, client *model.ApiClient) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(r.db.WithContext(ctx).Omit("Tenant").Create(client).Error, "create api client")
}
