package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/prometheus"
)

type SupportTicketRepository interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]model.SupportTicket, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.SupportTicket, error)
	GetWithReplies(ctx context.Context, tenantID, id uuid.UUID) (*model.SupportTicket, error)
	Create(ctx context.Context, ticket *model.SupportTicket) error
	AddReply(ctx context.Context, tenantID uuid.UUID, reply *model.SupportTicketReply) error
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string, at time.Time) error
}

type supportTicketRepository struct {
	db *gorm.DB
}

func NewSupportTicketRepository(db *gorm.DB) SupportTicketRepository {
	return &supportTicketRepository{db: db}
}

// List returns the tenant's tickets newest first, without replies.
func (r *supportTicketRepository) List(ctx context.Context, tenantID uuid.UUID) ([]model.SupportTicket, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var tickets []model.SupportTicket
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).
		Order("created_at DESC").Order("id").
		Find(&tickets).Error
	if err != nil {
		return nil, translate(err, "list tickets")
	}
	return tickets, nil
}

func (r *supportTicketRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.SupportTicket, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var ticket model.SupportTicket
	if err := r.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&ticket).Error; err != nil {
		return nil, translate(err, "get ticket")
	}
	return &ticket, nil
}

// GetWithReplies loads the ticket with replies oldest first.
func (r *supportTicketRepository) GetWithReplies(ctx context.Context, tenantID, id uuid.UUID) (*model.SupportTicket, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var ticket model.SupportTicket
	err := r.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id")
		}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&ticket).Error
	if err != nil {
		return nil, translate(err, "get ticket with replies")
	}
	return &ticket, nil
}

func (r *supportTicketRepository) Create(ctx context.Context, ticket *model.SupportTicket) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(r.db.WithContext(ctx).Omit("Tenant", "Replies").Create(ticket).Error, "create ticket")
}

// AddReply inserts the reply and bumps the ticket's updated_at, provided the
// ticket belongs to the tenant.
func (r *supportTicketRepository) AddReply(ctx context.Context, tenantID uuid.UUID, reply *model.SupportTicketReply) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.SupportTicket{}).
			Where("id = ? AND tenant_id = ?", reply.SupportTicketID, tenantID).
			Update("updated_at", reply.CreatedAt)
		if res.Error != nil {
			return translate(res.Error, "touch ticket")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return translate(tx.Create(reply).Error, "create reply")
	})
}

func (r *supportTicketRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string, at time.Time) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	res := r.db.WithContext(ctx).Model(&model.SupportTicket{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(map[string]interface{}{"status": status, "updated_at": at})
	if res.Error != nil {
		return translate(res.Error, "update ticket status")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
