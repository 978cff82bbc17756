package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suteetoe/honeydew/internal/apperror"
	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/internal/repository"
	"github.com/suteetoe/honeydew/prometheus"
)

const (
	msgSubjectRequired = "Subject is required."
	msgBodyRequired    = "Body is required."
	msgInvalidStatus   = "Status must be Open or Closed."
)

type SupportTicketService interface {
	List(ctx context.Context, actor Actor) ([]SupportTicketDTO, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*SupportTicketDTO, error)
	Create(ctx context.Context, actor Actor, req CreateSupportTicketRequest) (*SupportTicketDTO, error)
	AddReply(ctx context.Context, actor Actor, id uuid.UUID, req AddSupportTicketReplyRequest) (*SupportTicketReplyDTO, error)
	UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, req UpdateSupportTicketStatusRequest) (*SupportTicketDTO, error)
}

type supportTicketService struct {
	tickets repository.SupportTicketRepository
	users   repository.UserRepository
	logger  *zap.Logger
	now     Clock
}

func NewSupportTicketService(tickets repository.SupportTicketRepository, users repository.UserRepository, logger *zap.Logger) SupportTicketService {
	return &supportTicketService{
		tickets: tickets,
		users:   users,
		logger:  logger,
		now:     systemClock,
	}
}

func (s *supportTicketService) List(ctx context.Context, actor Actor) ([]SupportTicketDTO, error) {
	if _, err := resolveActor(ctx, s.users, actor); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	out := make([]SupportTicketDTO, 0, len(tickets))
	for i := range tickets {
		out = append(out, toSupportTicketDTO(&tickets[i]))
	}
	return out, nil
}

// Get returns the ticket with its replies, oldest reply first.
func (s *supportTicketService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*SupportTicketDTO, error) {
	if _, err := resolveActor(ctx, s.users, actor); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetWithReplies(ctx, actor.TenantID, id)
	if err != nil {
		return nil, notFoundAs(err, errNotFound())
	}
	dto := toSupportTicketDTO(ticket)
	if dto.Replies == nil {
		dto.Replies = []SupportTicketReplyDTO{}
	}
	return &dto, nil
}

func (s *supportTicketService) Create(ctx context.Context, actor Actor, req CreateSupportTicketRequest) (*SupportTicketDTO, error) {
	if _, err := resolveActor(ctx, s.users, actor); err != nil {
		return nil, err
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return nil, apperror.Validation(msgSubjectRequired)
	}
	ticket := &model.SupportTicket{
		TenantID:  actor.TenantID,
		Subject:   subject,
		Body:      strings.TrimSpace(req.Body),
		Status:    model.TicketStatusOpen,
		CreatedAt: s.now(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	prometheus.RecordSupportTicketOperation("create")
	s.logger.Info("Support ticket created",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("ticket_id", ticket.ID.String()))

	dto := toSupportTicketDTO(ticket)
	return &dto, nil
}

func (s *supportTicketService) AddReply(ctx context.Context, actor Actor, id uuid.UUID, req AddSupportTicketReplyRequest) (*SupportTicketReplyDTO, error) {
	if _, err := resolveActor(ctx, s.users, actor); err != nil {
		return nil, err
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, apperror.Validation(msgBodyRequired)
	}
	reply := &model.SupportTicketReply{
		SupportTicketID: id,
		Body:            body,
		IsFromStaff:     false,
		CreatedAt:       s.now(),
	}
	if err := s.tickets.AddReply(ctx, actor.TenantID, reply); err != nil {
		return nil, notFoundAs(err, errNotFound())
	}

	prometheus.RecordSupportTicketOperation("reply")
	dto := toSupportTicketReplyDTO(reply)
	return &dto, nil
}

// UpdateStatus opens or closes a ticket. A blank status means Open.
func (s *supportTicketService) UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, req UpdateSupportTicketStatusRequest) (*SupportTicketDTO, error) {
	if _, err := resolveActor(ctx, s.users, actor); err != nil {
		return nil, err
	}

	status, ok := parseTicketStatus(req.Status)
	if !ok {
		return nil, apperror.Validation(msgInvalidStatus)
	}
	if err := s.tickets.UpdateStatus(ctx, actor.TenantID, id, status, s.now()); err != nil {
		return nil, notFoundAs(err, errNotFound())
	}

	ticket, err := s.tickets.Get(ctx, actor.TenantID, id)
	if err != nil {
		return nil, notFoundAs(err, errNotFound())
	}
	prometheus.RecordSupportTicketOperation("status_" + strings.ToLower(status))
	dto := toSupportTicketDTO(ticket)
	return &dto, nil
}

func parseTicketStatus(raw string) (string, bool) {
	switch s := strings.TrimSpace(raw); {
	case s == "", strings.EqualFold(s, model.TicketStatusOpen):
		return model.TicketStatusOpen, true
	case strings.EqualFold(s, model.TicketStatusClosed):
		return model.TicketStatusClosed, true
	}
	return "", false
}
