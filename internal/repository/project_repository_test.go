package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/oguzatay/project-tracker-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		sqlDB.Close()
	})

	return db, mock
}

func TestProjectRepository_CountForUser_JoinsMemberships(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "projects" JOIN project_members ON project_members\.project_id = projects\.id WHERE project_members\.user_id = \$1`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountForUser(7, nil)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
}

func TestProjectRepository_CountForUser_FiltersByStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	status := models.ProjectStatusCompleted
	mock.ExpectQuery(`SELECT count\(\*\) FROM "projects" JOIN project_members .* WHERE project_members\.user_id = \$1 AND projects\.status = \$2`).
		WithArgs(uint64(7), string(status)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountForUser(7, &status)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestProjectRepository_RemoveMember_ZeroRowsIsNotAnError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectExec(`DELETE FROM "project_members" WHERE project_id = \$1 AND user_id = \$2`).
		WithArgs(uint64(1), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.RemoveMember(1, 42))
}

func TestProjectRepository_ListMemberIDs(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectQuery(`SELECT "user_id" FROM "project_members" WHERE project_id = \$1`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(3).AddRow(5))

	ids, err := repo.ListMemberIDs(1)
	require.NoError(t, err)
	require.Equal(t, []uint64{3, 5}, ids)
}

func TestTaskRepository_CountForUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE \(assigned_to_id = \$1 OR created_by_id = \$2\)`).
		WithArgs(uint64(9), uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountForUser(9, nil)
	require.NoError(t, err)
	require.Equal(t, int64(12), count)
}

func TestTaskRepository_CountForUser_FiltersByStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	status := models.TaskStatusDone
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE \(assigned_to_id = \$1 OR created_by_id = \$2\) AND status = \$3`).
		WithArgs(uint64(9), uint64(9), string(status)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountForUser(9, &status)
	require.NoError(t, err)
	require.Equal(t, int64(4), count)
}
