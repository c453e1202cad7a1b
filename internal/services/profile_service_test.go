package services

import (
	"testing"
	"time"

	"github.com/oguzatay/project-tracker-api/internal/models"
	"github.com/oguzatay/project-tracker-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db             *gorm.DB
	projectService *ProjectService
	taskService    *TaskService
	profileService *ProfileService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return serviceTestEnv{
		db:             db,
		projectService: NewProjectService(projectRepo, userRepo),
		taskService:    NewTaskService(taskRepo, projectRepo),
		profileService: NewProfileService(projectRepo, taskRepo),
	}
}

func createServiceTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     email,
		Email:        email,
		PasswordHash: "hashed",
		Role:         models.RoleMember,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createServiceTestProject(t *testing.T, db *gorm.DB, name string, creatorID uint64, status models.ProjectStatus) *models.Project {
	t.Helper()
	project := &models.Project{
		Name:        name,
		Status:      status,
		Priority:    models.PriorityMedium,
		CreatedByID: creatorID,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func addServiceTestMember(t *testing.T, db *gorm.DB, projectID, userID uint64) {
	t.Helper()
	require.NoError(t, db.Create(&models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	}).Error)
}

func createServiceTestTask(t *testing.T, db *gorm.DB, title string, projectID, creatorID uint64, assignedTo *uint64, status models.TaskStatus) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:        title,
		Status:       status,
		ProjectID:    projectID,
		CreatedByID:  creatorID,
		AssignedToID: assignedTo,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func setUpdatedAt(t *testing.T, db *gorm.DB, model interface{}, id uint64, ts time.Time) {
	t.Helper()
	require.NoError(t, db.Model(model).Where("id = ?", id).UpdateColumn("updated_at", ts).Error)
}

func TestProfileService_ComputeStats(t *testing.T) {
	env := setupServiceTestEnv(t)

	user := createServiceTestUser(t, env.db, "stats@example.com")
	other := createServiceTestUser(t, env.db, "other@example.com")

	// Member of 3 projects: 2 active, 1 completed.
	p1 := createServiceTestProject(t, env.db, "P1", user.ID, models.ProjectStatusActive)
	p2 := createServiceTestProject(t, env.db, "P2", user.ID, models.ProjectStatusActive)
	p3 := createServiceTestProject(t, env.db, "P3", other.ID, models.ProjectStatusCompleted)
	addServiceTestMember(t, env.db, p1.ID, user.ID)
	addServiceTestMember(t, env.db, p2.ID, user.ID)
	addServiceTestMember(t, env.db, p3.ID, user.ID)

	// A project the user does not belong to must not count.
	p4 := createServiceTestProject(t, env.db, "P4", other.ID, models.ProjectStatusActive)
	addServiceTestMember(t, env.db, p4.ID, other.ID)

	// Author or assignee of 5 tasks, 3 done.
	createServiceTestTask(t, env.db, "T1", p1.ID, user.ID, nil, models.TaskStatusDone)
	createServiceTestTask(t, env.db, "T2", p1.ID, user.ID, nil, models.TaskStatusDone)
	createServiceTestTask(t, env.db, "T3", p2.ID, other.ID, &user.ID, models.TaskStatusDone)
	createServiceTestTask(t, env.db, "T4", p2.ID, user.ID, nil, models.TaskStatusTodo)
	createServiceTestTask(t, env.db, "T5", p3.ID, other.ID, &user.ID, models.TaskStatusInProgress)

	// Someone else's task must not count.
	createServiceTestTask(t, env.db, "T6", p4.ID, other.ID, &other.ID, models.TaskStatusDone)

	stats, err := env.profileService.ComputeStats(user.ID)
	require.NoError(t, err)

	require.Equal(t, int64(3), stats.TotalProjects)
	require.Equal(t, int64(2), stats.ActiveProjects)
	require.Equal(t, int64(1), stats.CompletedProjects)
	require.Equal(t, int64(5), stats.TotalTasks)
	require.Equal(t, int64(3), stats.CompletedTasks)
}

func TestProfileService_ComputeStats_IncludesArchivedProjects(t *testing.T) {
	env := setupServiceTestEnv(t)

	user := createServiceTestUser(t, env.db, "archived@example.com")
	p := createServiceTestProject(t, env.db, "Old", user.ID, models.ProjectStatusActive)
	addServiceTestMember(t, env.db, p.ID, user.ID)
	require.NoError(t, env.db.Model(&models.Project{}).Where("id = ?", p.ID).UpdateColumn("is_archived", true).Error)

	stats, err := env.profileService.ComputeStats(user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.TotalProjects)
}

func TestProfileService_ComputeActivity_MergesAndRanks(t *testing.T) {
	env := setupServiceTestEnv(t)

	user := createServiceTestUser(t, env.db, "feed@example.com")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// 5 projects and 5 tasks, all distinctly timestamped.
	holder := createServiceTestProject(t, env.db, "Holder", user.ID, models.ProjectStatusActive)
	addServiceTestMember(t, env.db, holder.ID, user.ID)
	setUpdatedAt(t, env.db, &models.Project{}, holder.ID, base)

	for i := 1; i < 5; i++ {
		p := createServiceTestProject(t, env.db, "Project", user.ID, models.ProjectStatusActive)
		addServiceTestMember(t, env.db, p.ID, user.ID)
		setUpdatedAt(t, env.db, &models.Project{}, p.ID, base.Add(time.Duration(2*i)*time.Minute))
	}
	for i := 0; i < 5; i++ {
		task := createServiceTestTask(t, env.db, "Task", holder.ID, user.ID, nil, models.TaskStatusTodo)
		setUpdatedAt(t, env.db, &models.Task{}, task.ID, base.Add(time.Duration(2*i+1)*time.Minute))
	}

	records, err := env.profileService.ComputeActivity(user.ID)
	require.NoError(t, err)
	require.Len(t, records, 10)

	for i := 1; i < len(records); i++ {
		require.True(t, records[i-1].Date.After(records[i].Date),
			"records must be strictly descending by date")
	}
}

func TestProfileService_ComputeActivity_FewerThanLimit(t *testing.T) {
	env := setupServiceTestEnv(t)

	user := createServiceTestUser(t, env.db, "short@example.com")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	p := createServiceTestProject(t, env.db, "Solo", user.ID, models.ProjectStatusCompleted)
	addServiceTestMember(t, env.db, p.ID, user.ID)
	setUpdatedAt(t, env.db, &models.Project{}, p.ID, base)

	task := createServiceTestTask(t, env.db, "Lone task", p.ID, user.ID, nil, models.TaskStatusDone)
	setUpdatedAt(t, env.db, &models.Task{}, task.ID, base.Add(time.Minute))

	records, err := env.profileService.ComputeActivity(user.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, ActivityTypeTask, records[0].Type)
	require.Equal(t, "Task completed", records[0].Action)
	require.Equal(t, ActivityTypeProject, records[1].Type)
	require.Equal(t, "Project completed", records[1].Action)
}

func TestProfileService_ComputeActivity_TieBreakDeterminism(t *testing.T) {
	env := setupServiceTestEnv(t)

	user := createServiceTestUser(t, env.db, "ties@example.com")
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	p := createServiceTestProject(t, env.db, "Tied project", user.ID, models.ProjectStatusActive)
	addServiceTestMember(t, env.db, p.ID, user.ID)
	setUpdatedAt(t, env.db, &models.Project{}, p.ID, ts)

	t1 := createServiceTestTask(t, env.db, "Tied task A", p.ID, user.ID, nil, models.TaskStatusTodo)
	t2 := createServiceTestTask(t, env.db, "Tied task B", p.ID, user.ID, nil, models.TaskStatusTodo)
	setUpdatedAt(t, env.db, &models.Task{}, t1.ID, ts)
	setUpdatedAt(t, env.db, &models.Task{}, t2.ID, ts)

	first, err := env.profileService.ComputeActivity(user.ID)
	require.NoError(t, err)
	require.Len(t, first, 3)

	// Equal dates order by type, then id.
	require.Equal(t, ActivityTypeProject, first[0].Type)
	require.Equal(t, t1.ID, first[1].ID)
	require.Equal(t, t2.ID, first[2].ID)

	for i := 0; i < 5; i++ {
		again, err := env.profileService.ComputeActivity(user.ID)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}
