package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/pkg/optional"
)

// TodoDTO is a todo as returned to callers.
type TodoDTO struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Notes            *string    `json:"notes"`
	IsDone           bool       `json:"isDone"`
	CompletedAt      *time.Time `json:"completedAt"`
	DueDate          *time.Time `json:"dueDate"`
	CreatedAt        time.Time  `json:"createdAt"`
	CreatedByUserID  uuid.UUID  `json:"createdByUserId"`
	AssignedToUserID *uuid.UUID `json:"assignedToUserId"`
	VoteCount        int        `json:"voteCount"`
	CurrentUserVoted bool       `json:"currentUserVoted"`
}

func toTodoDTO(t *model.TodoItem, votes int, voted bool) TodoDTO {
	return TodoDTO{
		ID:               t.ID,
		Title:            t.Title,
		Notes:            t.Notes,
		IsDone:           t.IsDone,
		CompletedAt:      t.CompletedAt,
		DueDate:          t.DueDate,
		CreatedAt:        t.CreatedAt,
		CreatedByUserID:  t.CreatedByUserID,
		AssignedToUserID: t.AssignedToUserID,
		VoteCount:        votes,
		CurrentUserVoted: voted,
	}
}

// TodoPage is one page of todos plus the size of the filtered set.
type TodoPage struct {
	Items      []TodoDTO `json:"items"`
	TotalCount int64     `json:"totalCount"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
}

type ListTodosRequest struct {
	OnlyMine         bool
	IncludeCompleted bool
	AssignedTo       []uuid.UUID
	Search           string
	SortBy           string
	SortDesc         bool
	Page             int
	PageSize         int
}

type CreateTodoRequest struct {
	Title            string     `json:"title"`
	Notes            *string    `json:"notes"`
	AssignedToUserID uuid.UUID  `json:"assignedToUserId"`
	DueDate          *time.Time `json:"dueDate"`
}

// UpdateTodoRequest changes only the fields present in the body.
type UpdateTodoRequest struct {
	Title            optional.Value[string]    `json:"title"`
	Notes            optional.Value[string]    `json:"notes"`
	AssignedToUserID optional.Value[uuid.UUID] `json:"assignedToUserId"`
	DueDate          optional.Value[time.Time] `json:"dueDate"`
	IsDone           optional.Value[bool]      `json:"isDone"`
	CompletedAt      optional.Value[time.Time] `json:"completedAt"`
}

type UserDTO struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	DisplayName     string     `json:"displayName"`
	Role            model.Role `json:"role"`
	CanViewAllTodos bool       `json:"canViewAllTodos"`
	CanEditAllTodos bool       `json:"canEditAllTodos"`
	CanCreateUser   bool       `json:"canCreateUser"`
	IsActive        bool       `json:"isActive"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:              u.ID,
		Email:           u.Email,
		DisplayName:     u.DisplayName,
		Role:            u.Role,
		CanViewAllTodos: u.CanViewAllTodos,
		CanEditAllTodos: u.CanEditAllTodos,
		CanCreateUser:   u.CanCreateUser,
		IsActive:        u.IsActive,
		CreatedAt:       u.CreatedAt,
	}
}

type CreateUserRequest struct {
	Email           string `json:"email"`
	DisplayName     string `json:"displayName"`
	Password        string `json:"password"`
	Role            string `json:"role"`
	CanViewAllTodos bool   `json:"canViewAllTodos"`
	CanEditAllTodos bool   `json:"canEditAllTodos"`
	CanCreateUser   bool   `json:"canCreateUser"`
}

type UpdateUserRequest struct {
	DisplayName     optional.Value[string] `json:"displayName"`
	Role            optional.Value[string] `json:"role"`
	CanViewAllTodos optional.Value[bool]   `json:"canViewAllTodos"`
	CanEditAllTodos optional.Value[bool]   `json:"canEditAllTodos"`
	CanCreateUser   optional.Value[bool]   `json:"canCreateUser"`
	IsActive        optional.Value[bool]   `json:"isActive"`
}

type UpdateCurrentUserRequest struct {
	DisplayName optional.Value[string] `json:"displayName"`
	Email       optional.Value[string] `json:"email"`
}

type RegisterTenantRequest struct {
	TenantName       string `json:"tenantName"`
	OwnerEmail       string `json:"ownerEmail"`
	Password         string `json:"password"`
	OwnerDisplayName string `json:"ownerDisplayName"`
}

type LoginRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	TenantID *uuid.UUID `json:"tenantId"`
}

type ClientTokenRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type CreateApiClientRequest struct {
	Name         string `json:"name"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// TokenResponse carries a signed access token.
type TokenResponse struct {
	Token string `json:"token"`
}

type BillingPlanDTO struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Code             string    `json:"code"`
	MaxUsers         int       `json:"maxUsers"`
	PricePerMonth    float64   `json:"pricePerMonth"`
	PromotionPercent int       `json:"promotionPercent"`
}

func toBillingPlanDTO(p *model.BillingPlan) BillingPlanDTO {
	return BillingPlanDTO{
		ID:               p.ID,
		Name:             p.Name,
		Code:             p.Code,
		MaxUsers:         p.MaxUsers,
		PricePerMonth:    p.PricePerMonth,
		PromotionPercent: p.PromotionPercent,
	}
}

type TenantDTO struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	CreatedAt           time.Time  `json:"createdAt"`
	BillingPlanID       *uuid.UUID `json:"billingPlanId"`
	BillingPlanName     *string    `json:"billingPlanName"`
	BillingPlanCode     *string    `json:"billingPlanCode"`
	BillingPlanMaxUsers *int       `json:"billingPlanMaxUsers"`
	UserCount           int64      `json:"userCount"`
}

type UpdateTenantRequest struct {
	Name string `json:"name"`
}

type SetBillingPlanRequest struct {
	BillingPlanID *uuid.UUID `json:"billingPlanId"`
}

type SupportTicketDTO struct {
	ID        uuid.UUID               `json:"id"`
	TenantID  uuid.UUID               `json:"tenantId"`
	Subject   string                  `json:"subject"`
	Body      string                  `json:"body"`
	Status    string                  `json:"status"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt *time.Time              `json:"updatedAt"`
	Replies   []SupportTicketReplyDTO `json:"replies,omitempty"`
}

type SupportTicketReplyDTO struct {
	ID              uuid.UUID `json:"id"`
	SupportTicketID uuid.UUID `json:"supportTicketId"`
	Body            string    `json:"body"`
	IsFromStaff     bool      `json:"isFromStaff"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toSupportTicketDTO(t *model.SupportTicket) SupportTicketDTO {
	dto := SupportTicketDTO{
		ID:        t.ID,
		TenantID:  t.TenantID,
		Subject:   t.Subject,
		Body:      t.Body,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	for i := range t.Replies {
		dto.Replies = append(dto.Replies, toSupportTicketReplyDTO(&t.Replies[i]))
	}
	return dto
}

func toSupportTicketReplyDTO(r *model.SupportTicketReply) SupportTicketReplyDTO {
	return SupportTicketReplyDTO{
		ID:              r.ID,
		SupportTicketID: r.SupportTicketID,
		Body:            r.Body,
		IsFromStaff:     r.IsFromStaff,
		CreatedAt:       r.CreatedAt,
	}
}

type CreateSupportTicketRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type AddSupportTicketReplyRequest struct {
	Body string `json:"body"`
}

type UpdateSupportTicketStatusRequest struct {
	Status string `json:"status"`
}

type PreferencesDTO struct {
	ItemsPerPage        int   `json:"itemsPerPage"`
	AllowedItemsPerPage []int `json:"allowedItemsPerPage"`
}

type UpdatePreferencesRequest struct {
	ItemsPerPage int `json:"itemsPerPage"`
}
