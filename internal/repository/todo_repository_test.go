package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/internal/repository"
	"github.com/suteetoe/honeydew/internal/testutil"
)

var base = time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

func at(hours int) *time.Time {
	t := base.Add(time.Duration(hours) * time.Hour)
	return &t
}

func createdAt(hours int) func(*model.TodoItem) {
	return func(t *model.TodoItem) { t.CreatedAt = *at(hours) }
}

func TestTodoRepository_GetPageReconstructsFilteredSet(t *testing.T) {
	db := testutil.NewDB(t)
	tenant := testutil.Tenant(t, db, "Home")
	owner := testutil.User(t, db, tenant.ID, "owner@home.test", testutil.AsOwner())
	for i := 0; i < 11; i++ {
		testutil.Todo(t, db, owner, fmt.Sprintf("todo %02d", i), createdAt(i))
	}
	testutil.Todo(t, db, owner, "finished", createdAt(20), func(t *model.TodoItem) { t.IsDone = true })

	repo := repository.NewTodoRepository(db)
	ctx := context.Background()

	seen := map[uuid.UUID]bool{}
	var total int64
	for page := 1; page <= 4; page++ {
		items, n, err := repo.GetPage(ctx, repository.TodoPageQuery{TenantID: tenant.ID, Page: page, PageSize: 3})
		require.NoError(t, err)
		total = n
		for _, item := range items {
			assert.False(t, seen[item.ID], "item repeated across pages")
			seen[item.ID] = true
		}
	}
	assert.EqualValues(t, 11, total)
	assert.Len(t, seen, 11)

	items, n, err := repo.GetPage(ctx, repository.TodoPageQuery{TenantID: tenant.ID, IncludeCompleted: true, Page: 1, PageSize: 99})
	require.NoError(t, err)
	assert.EqualValues(t, 12, n)
	assert.Equal(t, "finished", items[0].Title)
}

func TestTodoRepository_GetPageReconstructsEverySortOrder(t *testing.T) {
	db := testutil.NewDB(t)
	tenant := testutil.Tenant(t, db, "Home")
	owner := testutil.User(t, db, tenant.ID, "owner@home.test", testutil.AsOwner())
	// one shared created_at, repeated dates and nulls leave id as the only tie-break
	for i := 0; i < 13; i++ {
		testutil.Todo(t, db, owner, fmt.Sprintf("todo %02d", i), createdAt(0), func(todo *model.TodoItem) {
			if i%3 != 0 {
				todo.DueDate = at(10 + i%4)
			}
			if i%2 == 0 {
				todo.IsDone, todo.CompletedAt = true, at(20+i%3)
			}
		})
	}

	repo := repository.NewTodoRepository(db)
	ctx := context.Background()

	dateOf := map[string]func(model.TodoItem) *time.Time{
		repository.SortDueDate:     func(item model.TodoItem) *time.Time { return item.DueDate },
		repository.SortCompletedAt: func(item model.TodoItem) *time.Time { return item.CompletedAt },
		repository.SortDoneDate:    func(item model.TodoItem) *time.Time { return item.CompletedAt },
		"":                         func(model.TodoItem) *time.Time { return nil },
	}
	for sortBy, date := range dateOf {
		for _, desc := range []bool{false, true} {
			t.Run(fmt.Sprintf("%q desc=%v", sortBy, desc), func(t *testing.T) {
				var ordered []model.TodoItem
				for page := 1; page <= 5; page++ {
					items, total, err := repo.GetPage(ctx, repository.TodoPageQuery{
						TenantID:         tenant.ID,
						IncludeCompleted: true,
						SortBy:           sortBy,
						SortDesc:         desc,
						Page:             page,
						PageSize:         3,
					})
					require.NoError(t, err)
					assert.EqualValues(t, 13, total)
					ordered = append(ordered, items...)
				}

				seen := map[uuid.UUID]bool{}
				for _, item := range ordered {
					assert.False(t, seen[item.ID], "item repeated across pages")
					seen[item.ID] = true
				}
				assert.Len(t, seen, 13)

				var prev *time.Time
				nullSeen := false
				for _, item := range ordered {
					d := date(item)
					if d == nil {
						nullSeen = true
						continue
					}
					assert.False(t, nullSeen, "dated item sorted after a null")
					if prev != nil {
						if desc {
							assert.False(t, d.After(*prev), "dates out of order")
						} else {
							assert.False(t, d.Before(*prev), "dates out of order")
						}
					}
					prev = d
				}
			})
		}
	}
}

func TestTodoRepository_GetPageFilters(t *testing.T) {
	db := testutil.NewDB(t)
	tenant := testutil.Tenant(t, db, "Home")
	other := testutil.Tenant(t, db, "Other")
	alice := testutil.User(t, db, tenant.ID, "alice@home.test", testutil.AsOwner())
	bob := testutil.User(t, db, tenant.ID, "bob@home.test")
	stranger := testutil.User(t, db, other.ID, "stranger@other.test")

	notes := "Buy 100% cotton_sheets"
	testutil.Todo(t, db, alice, "Wash car", createdAt(1))
	testutil.Todo(t, db, alice, "Laundry", createdAt(2), func(t *model.TodoItem) { t.Notes = &notes })
	testutil.Todo(t, db, bob, "Mow LAWN", createdAt(3), func(t *model.TodoItem) { t.AssignedToUserID = &alice.ID })
	testutil.Todo(t, db, stranger, "Wash dishes", createdAt(4))

	repo := repository.NewTodoRepository(db)
	ctx := context.Background()

	tests := []struct {
		name  string
		query repository.TodoPageQuery
		want  []string
	}{
		{"tenant scoped", repository.TodoPageQuery{}, []string{"Mow LAWN", "Laundry", "Wash car"}},
		{"creator", repository.TodoPageQuery{CreatedBy: &bob.ID}, []string{"Mow LAWN"}},
		{"assignee set", repository.TodoPageQuery{AssignedTo: []uuid.UUID{alice.ID, bob.ID}}, []string{"Mow LAWN"}},
		{"search title case-insensitive", repository.TodoPageQuery{Search: "  lawn "}, []string{"Mow LAWN"}},
		{"search notes", repository.TodoPageQuery{Search: "COTTON"}, []string{"Laundry"}},
		{"search wildcard literal", repository.TodoPageQuery{Search: "100%"}, []string{"Laundry"}},
		{"search underscore literal", repository.TodoPageQuery{Search: "n_s"}, []string{"Laundry"}},
		{"no match", repository.TodoPageQuery{Search: "wash dishes"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query
			q.TenantID = tenant.ID
			q.Page, q.PageSize = 1, 20
			items, total, err := repo.GetPage(ctx, q)
			require.NoError(t, err)
			assert.EqualValues(t, len(tt.want), total)
			var titles []string
			for _, item := range items {
				titles = append(titles, item.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestTodoRepository_GetPageSorting(t *testing.T) {
	db := testutil.NewDB(t)
	tenant := testutil.Tenant(t, db, "Home")
	owner := testutil.User(t, db, tenant.ID, "owner@home.test", testutil.AsOwner())

	testutil.Todo(t, db, owner, "no due", createdAt(5))
	testutil.Todo(t, db, owner, "due late", createdAt(1), func(t *model.TodoItem) { t.DueDate = at(100) })
	testutil.Todo(t, db, owner, "due early", createdAt(2), func(t *model.TodoItem) { t.DueDate = at(50) })
	testutil.Todo(t, db, owner, "done early", createdAt(3), func(t *model.TodoItem) {
		t.IsDone, t.CompletedAt = true, at(10)
	})
	testutil.Todo(t, db, owner, "done late", createdAt(4), func(t *model.TodoItem) {
		t.IsDone, t.CompletedAt = true, at(20)
	})

	repo := repository.NewTodoRepository(db)

	titles := func(sortBy string, desc bool) []string {
		items, _, err := repo.GetPage(context.Background(), repository.TodoPageQuery{
			TenantID: tenant.ID, IncludeCompleted: true, SortBy: sortBy, SortDesc: desc, Page: 1, PageSize: 10,
		})
		require.NoError(t, err)
		var out []string
		for _, item := range items {
			out = append(out, item.Title)
		}
		return out
	}

	assert.Equal(t, []string{"due early", "due late", "no due", "done late", "done early"}, titles("DueDate", false))
	assert.Equal(t, []string{"due late", "due early", "no due", "done late", "done early"}, titles("duedate", true))
	assert.Equal(t, []string{"done early", "done late", "no due", "due early", "due late"}, titles("completedat", false))
	assert.Equal(t, []string{"done late", "done early", "no due", "due early", "due late"}, titles("donedate", true))

	newestFirst := []string{"no due", "done late", "done early", "due early", "due late"}
	assert.Equal(t, newestFirst, titles("", false))
	assert.Equal(t, newestFirst, titles("title", true))
}

func TestTodoRepository_GetTopAssignedToUser(t *testing.T) {
	db := testutil.NewDB(t)
	tenant := testutil.Tenant(t, db, "Home")
	owner := testutil.User(t, db, tenant.ID, "owner@home.test", testutil.AsOwner())
	kid := testutil.User(t, db, tenant.ID, "kid@home.test")

	assign := func(mut func(*model.TodoItem)) func(*model.TodoItem) {
		return func(t *model.TodoItem) {
			t.AssignedToUserID = &kid.ID
			if mut != nil {
				mut(t)
			}
		}
	}
	testutil.Todo(t, db, owner, "undated old", createdAt(1), assign(nil))
	testutil.Todo(t, db, owner, "undated new", createdAt(2), assign(nil))
	testutil.Todo(t, db, owner, "due soon", createdAt(3), assign(func(t *model.TodoItem) { t.DueDate = at(24) }))
	testutil.Todo(t, db, owner, "done", createdAt(4), assign(func(t *model.TodoItem) { t.IsDone = true }))
	testutil.Todo(t, db, owner, "someone else", createdAt(5))

	items, err := repository.NewTodoRepository(db).GetTopAssignedToUser(context.Background(), tenant.ID, kid.ID, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "due soon", items[0].Title)
	assert.Equal(t, "undated new", items[1].Title)
}

func TestTodoRepository_ToggleVoteIsAnInvolution(t *testing.T) {
	db := testutil.NewDB(t)
	tenant := testutil.Tenant(t, db, "Home")
	owner := testutil.User(t, db, tenant.ID, "owner@home.test", testutil.AsOwner())
	member := testutil.User(t, db, tenant.ID, "member@home.test")
	todo := testutil.Todo(t, db, owner, "Paint fence")

	repo := repository.NewTodoRepository(db)
	ctx := context.Background()
	ids := []uuid.UUID{todo.ID}

	res, err := repo.ToggleVote(ctx, todo.ID, member.ID, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.VoteAdded, res)

	_, err = repo.ToggleVote(ctx, todo.ID, owner.ID, tenant.ID)
	require.NoError(t, err)

	counts, err := repo.GetVoteCounts(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[todo.ID])

	voted, err := repo.GetUserVotedTodoIDs(ctx, member.ID, ids)
	require.NoError(t, err)
	assert.True(t, voted[todo.ID])

	res, err = repo.ToggleVote(ctx, todo.ID, member.ID, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.VoteRemoved, res)

	counts, err = repo.GetVoteCounts(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[todo.ID])

	voted, err = repo.GetUserVotedTodoIDs(ctx, member.ID, ids)
	require.NoError(t, err)
	assert.False(t, voted[todo.ID])
}

func TestTodoRepository_ToggleVoteOutsideTenant(t *testing.T) {
	db := testutil.NewDB(t)
	tenant := testutil.Tenant(t, db, "Home")
	other := testutil.Tenant(t, db, "Other")
	owner := testutil.User(t, db, tenant.ID, "owner@home.test", testutil.AsOwner())
	todo := testutil.Todo(t, db, owner, "Paint fence")

	res, err := repository.NewTodoRepository(db).ToggleVote(context.Background(), todo.ID, owner.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.VoteNotFound, res)
}

func TestTodoRepository_ToggleVoteLosesInsertRace(t *testing.T) {
	db := testutil.NewDB(t)
	tenant := testutil.Tenant(t, db, "Home")
	owner := testutil.User(t, db, tenant.ID, "owner@home.test", testutil.AsOwner())
	todo := testutil.Todo(t, db, owner, "Clean gutters")

	// another toggle adds the same vote between our delete and our insert
	raced := false
	err := db.Callback().Delete().After("gorm:commit_or_rollback_transaction").Register("test:concurrent_vote", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "todo_item_votes" {
			return
		}
		raced = true
		require.NoError(t, db.Create(&model.TodoItemVote{TodoItemID: todo.ID, UserID: owner.ID}).Error)
	})
	require.NoError(t, err)

	res, err := repository.NewTodoRepository(db).ToggleVote(context.Background(), todo.ID, owner.ID, tenant.ID)
	require.NoError(t, err)
	assert.True(t, raced)
	assert.Equal(t, repository.VoteAdded, res)

	var votes int64
	require.NoError(t, db.Model(&model.TodoItemVote{}).Where("todo_item_id = ?", todo.ID).Count(&votes).Error)
	assert.EqualValues(t, 1, votes)
}

func TestTodoRepository_GetByIDAndSave(t *testing.T) {
	db := testutil.NewDB(t)
	tenant := testutil.Tenant(t, db, "Home")
	other := testutil.Tenant(t, db, "Other")
	owner := testutil.User(t, db, tenant.ID, "owner@home.test", testutil.AsOwner())

	repo := repository.NewTodoRepository(db)
	ctx := context.Background()

	todo := &model.TodoItem{TenantID: tenant.ID, CreatedByUserID: owner.ID, Title: "Fix tap"}
	require.NoError(t, repo.Create(ctx, todo))

	_, err := repo.GetByID(ctx, other.ID, todo.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	loaded, err := repo.GetByID(ctx, tenant.ID, todo.ID)
	require.NoError(t, err)
	loaded.IsDone, loaded.CompletedAt = true, at(1)
	require.NoError(t, repo.Save(ctx, loaded))

	reloaded, err := repo.GetByID(ctx, tenant.ID, todo.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsDone)
	require.NotNil(t, reloaded.CompletedAt)
	assert.True(t, at(1).Equal(*reloaded.CompletedAt))
}

func TestTodoRepository_GetAllForExport(t *testing.T) {
	db := testutil.NewDB(t)
	tenant := testutil.Tenant(t, db, "Home")
	owner := testutil.User(t, db, tenant.ID, "owner@home.test", testutil.AsOwner())
	member := testutil.User(t, db, tenant.ID, "member@home.test")
	testutil.Todo(t, db, owner, "first", createdAt(1))
	testutil.Todo(t, db, member, "second", createdAt(2), func(t *model.TodoItem) { t.IsDone = true })

	repo := repository.NewTodoRepository(db)

	all, err := repo.GetAllForExport(context.Background(), tenant.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Title)

	mine, err := repo.GetAllForExport(context.Background(), tenant.ID, &owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "first", mine[0].Title)
}
