package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/prometheus"
)

// Sort keys accepted by GetPage. Anything else sorts newest first.
const (
	SortDueDate     = "duedate"
	SortCompletedAt = "completedat"
	SortDoneDate    = "donedate"
)

// TodoPageQuery filters one page of a tenant's todos. Page is 1-indexed;
// Page and PageSize must be positive and are clamped by the caller.
type TodoPageQuery struct {
	TenantID         uuid.UUID
	CreatedBy        *uuid.UUID
	AssignedTo       []uuid.UUID
	IncludeCompleted bool
	Search           string
	SortBy           string
	SortDesc         bool
	Page             int
	PageSize         int
}

// VoteResult is the outcome of ToggleVote.
type VoteResult int

const (
	VoteNotFound VoteResult = iota
	VoteAdded
	VoteRemoved
)

type TodoRepository interface {
	GetPage(ctx context.Context, q TodoPageQuery) ([]model.TodoItem, int64, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*model.TodoItem, error)
	GetTopAssignedToUser(ctx context.Context, tenantID, userID uuid.UUID, take int) ([]model.TodoItem, error)
	GetAllForExport(ctx context.Context, tenantID uuid.UUID, createdBy *uuid.UUID) ([]model.TodoItem, error)
	GetVoteCounts(ctx context.Context, todoIDs []uuid.UUID) (map[uuid.UUID]int, error)
	GetUserVotedTodoIDs(ctx context.Context, userID uuid.UUID, todoIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	Create(ctx context.Context, todo *model.TodoItem) error
	Save(ctx context.Context, todo *model.TodoItem) error
	ToggleVote(ctx context.Context, todoID, userID, tenantID uuid.UUID) (VoteResult, error)
}

type todoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &todoRepository{db: db}
}

func (r *todoRepository) GetPage(ctx context.Context, q TodoPageQuery) ([]model.TodoItem, int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := r.db.WithContext(ctx).Model(&model.TodoItem{}).Where("tenant_id = ?", q.TenantID)
	if q.CreatedBy != nil {
		query = query.Where("created_by_user_id = ?", *q.CreatedBy)
	}
	if len(q.AssignedTo) > 0 {
		query = query.Where("assigned_to_user_id IN ?", q.AssignedTo)
	}
	if !q.IncludeCompleted {
		query = query.Where("is_done = ?", false)
	}
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		pattern := containsPattern(term)
		query = query.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(notes, '')) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	// count and page from the same filtered statement
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count todos")
	}

	var items []model.TodoItem
	err := orderTodos(query, q.SortBy, q.SortDesc).
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, translate(err, "list todos")
	}
	return items, total, nil
}

// orderTodos applies the page ordering. Null due and completion dates sort
// last in either direction; id is the final tie-break so pages are stable.
func orderTodos(tx *gorm.DB, sortBy string, desc bool) *gorm.DB {
	dir := " ASC"
	if desc {
		dir = " DESC"
	}
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case SortDueDate:
		tx = tx.Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END").Order("due_date" + dir).Order("created_at DESC")
	case SortCompletedAt, SortDoneDate:
		tx = tx.Order("CASE WHEN completed_at IS NULL THEN 1 ELSE 0 END").Order("completed_at" + dir).Order("created_at DESC")
	default:
		// sort direction is ignored here
		tx = tx.Order("created_at DESC")
	}
	return tx.Order("id")
}

func (r *todoRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*model.TodoItem, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var todo model.TodoItem
	err := r.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&todo).Error
	if err != nil {
		return nil, translate(err, "get todo")
	}
	return &todo, nil
}

func (r *todoRepository) GetTopAssignedToUser(ctx context.Context, tenantID, userID uuid.UUID, take int) ([]model.TodoItem, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var items []model.TodoItem
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND assigned_to_user_id = ? AND is_done = ?", tenantID, userID, false).
		Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END").
		Order("due_date ASC").
		Order("created_at DESC").
		Order("id").
		Limit(take).
		Find(&items).Error
	if err != nil {
		return nil, translate(err, "list assigned todos")
	}
	return items, nil
}

func (r *todoRepository) GetAllForExport(ctx context.Context, tenantID uuid.UUID, createdBy *uuid.UUID) ([]model.TodoItem, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if createdBy != nil {
		query = query.Where("created_by_user_id = ?", *createdBy)
	}

	var items []model.TodoItem
	if err := query.Order("created_at DESC").Order("id").Find(&items).Error; err != nil {
		return nil, translate(err, "export todos")
	}
	return items, nil
}

func (r *todoRepository) GetVoteCounts(ctx context.Context, todoIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(todoIDs))
	if len(todoIDs) == 0 {
		return counts, nil
	}
	defer prometheus.TrackDBOperation("query")(time.Now())

	var rows []struct {
		TodoItemID uuid.UUID
		Votes      int
	}
	err := r.db.WithContext(ctx).Model(&model.TodoItemVote{}).
		Select("todo_item_id, COUNT(*) AS votes").
		Where("todo_item_id IN ?", todoIDs).
		Group("todo_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "count votes")
	}
	for _, row := range rows {
		counts[row.TodoItemID] = row.Votes
	}
	return counts, nil
}

func (r *todoRepository) GetUserVotedTodoIDs(ctx context.Context, userID uuid.UUID, todoIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	voted := make(map[uuid.UUID]bool)
	if len(todoIDs) == 0 {
		return voted, nil
	}
	defer prometheus.TrackDBOperation("query")(time.Now())

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.TodoItemVote{}).
		Where("user_id = ? AND todo_item_id IN ?", userID, todoIDs).
		Pluck("todo_item_id", &ids).Error
	if err != nil {
		return nil, translate(err, "list user votes")
	}
	for _, id := range ids {
		voted[id] = true
	}
	return voted, nil
}

func (r *todoRepository) Create(ctx context.Context, todo *model.TodoItem) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(r.db.WithContext(ctx).Omit("Tenant", "CreatedByUser", "AssignedToUser").Create(todo).Error, "create todo")
}

func (r *todoRepository) Save(ctx context.Context, todo *model.TodoItem) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return translate(r.db.WithContext(ctx).Omit("Tenant", "CreatedByUser", "AssignedToUser").Save(todo).Error, "save todo")
}

// ToggleVote removes the caller's vote when present, otherwise adds one.
// Removal is a single conditional delete. An insert that loses a race to a
// concurrent toggle hits the (todo, user) primary key and is reported as added.
func (r *todoRepository) ToggleVote(ctx context.Context, todoID, userID, tenantID uuid.UUID) (VoteResult, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())
	db := r.db.WithContext(ctx)

	var n int64
	if err := db.Model(&model.TodoItem{}).Where("id = ? AND tenant_id = ?", todoID, tenantID).Count(&n).Error; err != nil {
		return VoteNotFound, translate(err, "find todo for vote")
	}
	if n == 0 {
		return VoteNotFound, nil
	}

	res := db.Where("todo_item_id = ? AND user_id = ?", todoID, userID).Delete(&model.TodoItemVote{})
	if res.Error != nil {
		return VoteNotFound, translate(res.Error, "remove vote")
	}
	if res.RowsAffected > 0 {
		return VoteRemoved, nil
	}

	err := db.Create(&model.TodoItemVote{TodoItemID: todoID, UserID: userID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return VoteAdded, nil
	}
	if err != nil {
		return VoteNotFound, translate(err, "add vote")
	}
	return VoteAdded, nil
}
