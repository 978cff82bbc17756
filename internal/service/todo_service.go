package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suteetoe/honeydew/internal/apperror"
	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/internal/permission"
	"github.com/suteetoe/honeydew/internal/repository"
	"github.com/suteetoe/honeydew/prometheus"
)

const (
	msgTitleRequired   = "Title is required."
	msgAssigneeInvalid = "AssignedToUserId must be a user in your tenant."
)

type TodoService interface {
	List(ctx context.Context, actor Actor, req ListTodosRequest) (*TodoPage, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*TodoDTO, error)
	Create(ctx context.Context, actor Actor, req CreateTodoRequest) (*TodoDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateTodoRequest) (*TodoDTO, error)
	AssignedToMe(ctx context.Context, actor Actor, take int) ([]TodoDTO, error)
	Export(ctx context.Context, actor Actor, onlyMine bool) ([]TodoDTO, error)
	ToggleVote(ctx context.Context, actor Actor, id uuid.UUID) (bool, error)
}

type todoService struct {
	todos  repository.TodoRepository
	users  repository.UserRepository
	logger *zap.Logger
	now    Clock
}

func NewTodoService(todos repository.TodoRepository, users repository.UserRepository, logger *zap.Logger) TodoService {
	return &todoService{
		todos:  todos,
		users:  users,
		logger: logger,
		now:    systemClock,
	}
}

// List pages the tenant's todos. Callers without view-all only ever see their
// own todos, whatever OnlyMine says.
func (s *todoService) List(ctx context.Context, actor Actor, req ListTodosRequest) (*TodoPage, error) {
	user, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}

	q := repository.TodoPageQuery{
		TenantID:         actor.TenantID,
		AssignedTo:       req.AssignedTo,
		IncludeCompleted: req.IncludeCompleted,
		Search:           req.Search,
		SortBy:           req.SortBy,
		SortDesc:         req.SortDesc,
		Page:             req.Page,
		PageSize:         req.PageSize,
	}
	if req.OnlyMine || !permission.CanViewAllTodos(user) {
		q.CreatedBy = &user.ID
	}

	items, total, err := s.todos.GetPage(ctx, q)
	if err != nil {
		return nil, err
	}
	dtos, err := s.withVotes(ctx, user.ID, items)
	if err != nil {
		return nil, err
	}
	return &TodoPage{Items: dtos, TotalCount: total, Page: req.Page, PageSize: req.PageSize}, nil
}

func (s *todoService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*TodoDTO, error) {
	user, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}

	todo, err := s.todos.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, notFoundAs(err, errNotFound())
	}
	if !permission.CanViewTodoItem(user, todo) {
		return nil, errForbidden()
	}
	return s.single(ctx, user.ID, todo)
}

func (s *todoService) Create(ctx context.Context, actor Actor, req CreateTodoRequest) (*TodoDTO, error) {
	user, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}
	if !permission.CanCreateTodo(user) {
		return nil, errForbidden()
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.Validation(msgTitleRequired)
	}
	if err := s.checkAssignee(ctx, actor.TenantID, req.AssignedToUserID); err != nil {
		return nil, err
	}

	assignee := req.AssignedToUserID
	todo := &model.TodoItem{
		TenantID:         actor.TenantID,
		CreatedByUserID:  user.ID,
		AssignedToUserID: &assignee,
		Title:            title,
		Notes:            trimmedOrNil(req.Notes),
		IsDone:           false,
		DueDate:          req.DueDate,
		CreatedAt:        s.now(),
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, err
	}

	prometheus.RecordTodoOperation("create")
	s.logger.Info("Todo created",
		zap.String("todo_id", todo.ID.String()),
		zap.String("tenant_id", actor.TenantID.String()))

	dto := toTodoDTO(todo, 0, false)
	return &dto, nil
}

func (s *todoService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateTodoRequest) (*TodoDTO, error) {
	user, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}

	todo, err := s.todos.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, notFoundAs(err, errNotFound())
	}
	if !permission.CanEditTodoItem(user, todo) {
		return nil, errForbidden()
	}

	if title, ok := req.Title.Get(); ok {
		title = strings.TrimSpace(title)
		if title == "" {
			return nil, apperror.Validation(msgTitleRequired)
		}
		todo.Title = title
	}
	if notes, ok := req.Notes.Get(); ok {
		todo.Notes = trimmedOrNil(&notes)
	}
	if assignee, ok := req.AssignedToUserID.Get(); ok {
		if err := s.checkAssignee(ctx, actor.TenantID, assignee); err != nil {
			return nil, err
		}
		todo.AssignedToUserID = &assignee
	}
	if due, ok := req.DueDate.Get(); ok {
		todo.DueDate = &due
	}

	if done, ok := req.IsDone.Get(); ok {
		todo.IsDone = done
		switch completed, given := req.CompletedAt.Get(); {
		case given:
			todo.CompletedAt = &completed
		case done:
			now := s.now()
			todo.CompletedAt = &now
		default:
			todo.CompletedAt = nil
		}
	} else if completed, ok := req.CompletedAt.Get(); ok {
		todo.CompletedAt = &completed
	}

	if err := s.todos.Save(ctx, todo); err != nil {
		return nil, err
	}
	prometheus.RecordTodoOperation("update")
	return s.single(ctx, user.ID, todo)
}

func (s *todoService) AssignedToMe(ctx context.Context, actor Actor, take int) ([]TodoDTO, error) {
	user, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}

	items, err := s.todos.GetTopAssignedToUser(ctx, actor.TenantID, user.ID, take)
	if err != nil {
		return nil, err
	}
	return s.withVotes(ctx, user.ID, items)
}

// Export returns every todo the caller may list, newest first. Vote data is
// not part of the export.
func (s *todoService) Export(ctx context.Context, actor Actor, onlyMine bool) ([]TodoDTO, error) {
	user, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}

	var createdBy *uuid.UUID
	if onlyMine || !permission.CanViewAllTodos(user) {
		createdBy = &user.ID
	}
	items, err := s.todos.GetAllForExport(ctx, actor.TenantID, createdBy)
	if err != nil {
		return nil, err
	}

	dtos := make([]TodoDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, toTodoDTO(&items[i], 0, false))
	}
	prometheus.RecordTodoOperation("export")
	return dtos, nil
}

// ToggleVote flips the caller's vote and reports whether a vote now exists.
func (s *todoService) ToggleVote(ctx context.Context, actor Actor, id uuid.UUID) (bool, error) {
	user, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return false, err
	}

	res, err := s.todos.ToggleVote(ctx, id, user.ID, actor.TenantID)
	if err != nil {
		return false, err
	}
	switch res {
	case repository.VoteAdded:
		prometheus.RecordTodoOperation("vote")
		return true, nil
	case repository.VoteRemoved:
		prometheus.RecordTodoOperation("unvote")
		return false, nil
	default:
		return false, errNotFound()
	}
}

// checkAssignee requires an active user of the tenant.
func (s *todoService) checkAssignee(ctx context.Context, tenantID, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperror.Validation(msgAssigneeInvalid)
	}
	assignee, err := s.users.GetInTenant(ctx, tenantID, userID)
	if repository.IsNotFound(err) {
		return apperror.Validation(msgAssigneeInvalid)
	}
	if err != nil {
		return err
	}
	if !assignee.IsActive {
		return apperror.Validation(msgAssigneeInvalid)
	}
	return nil
}

func (s *todoService) single(ctx context.Context, userID uuid.UUID, todo *model.TodoItem) (*TodoDTO, error) {
	dtos, err := s.withVotes(ctx, userID, []model.TodoItem{*todo})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// withVotes maps todos to DTOs using one batch lookup each for vote counts
// and the caller's own votes.
func (s *todoService) withVotes(ctx context.Context, userID uuid.UUID, items []model.TodoItem) ([]TodoDTO, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	counts, err := s.todos.GetVoteCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	voted, err := s.todos.GetUserVotedTodoIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	dtos := make([]TodoDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, toTodoDTO(&items[i], counts[items[i].ID], voted[items[i].ID]))
	}
	return dtos, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
