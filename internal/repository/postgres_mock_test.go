package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/suteetoe/honeydew/internal/repository"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestUserRepository_StorageErrorsPropagate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUserRepository(db)
	boom := errors.New("connection reset by peer")

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).WillReturnError(boom)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
	assert.Contains(t, err.Error(), "get user")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_EmptyResultIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 AND tenant_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetInTenant(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUserRepository(db)
	boom := errors.New("deadlock detected")

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "users"`).WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteLastOwnerRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "users"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrLastOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_CountFailureStopsPaging(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewTodoRepository(db)
	boom := errors.New("statement timeout")

	mock.ExpectQuery(`SELECT count\(\*\) FROM "todo_items"`).WillReturnError(boom)

	_, _, err := repo.GetPage(context.Background(), repository.TodoPageQuery{TenantID: uuid.New(), Page: 1, PageSize: 9})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
