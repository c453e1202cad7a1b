package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/oguzatay/project-tracker-api/internal/models"
	"github.com/oguzatay/project-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotProjectMember    = errors.New("user is not a member of the project")
	ErrTaskNotFound        = errors.New("task not found")
	ErrNotTaskCreator      = errors.New("only the task creator can perform this action")
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleEmpty          = errors.New("title cannot be empty")
	ErrInvalidTaskAssignee = errors.New("assignee is not a member of the project")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID       uint64
	ProjectID    *uint64
	AssignedToMe bool
	DueToday     bool
	Status       *models.TaskStatus
	Page         int
	PageSize     int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title        string
	Description  string
	Status       models.TaskStatus
	DueDate      *time.Time
	AssignedToID *uint64
	ProjectID    uint64
	CreatorID    uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	DueDate      *time.Time
	ClearDueDate bool
}

// ListTasks returns tasks in projects the user belongs to, narrowed by
// the provided filters
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	projectIDs, err := s.resolveAccessibleProjectIDs(input.UserID, input.ProjectID)
	if err != nil {
		return nil, 0, err
	}

	if len(projectIDs) == 0 {
		return []models.Task{}, 0, nil
	}

	filter := repository.TaskFilter{
		ProjectIDs: projectIDs,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	if input.Status != nil {
		filter.Status = input.Status
	}
	if input.AssignedToMe {
		filter.AssignedUserID = &input.UserID
	}
	if input.DueToday {
		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)
		filter.DueDateFrom = &startOfDay
		filter.DueDateTo = &endOfDay
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "CreatedBy", "AssignedTo", "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task in a project the creator belongs to
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	if err := s.ensureProjectMember(input.ProjectID, input.CreatorID); err != nil {
		return nil, err
	}

	if input.AssignedToID != nil {
		if err := s.ensureProjectMember(input.ProjectID, *input.AssignedToID); err != nil {
			return nil, ErrInvalidTaskAssignee
		}
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}

	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		Status:       input.Status,
		DueDate:      input.DueDate,
		AssignedToID: input.AssignedToID,
		ProjectID:    input.ProjectID,
		CreatedByID:  input.CreatorID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "CreatedBy", "AssignedTo", "Project")
}

// UpdateTask updates an existing task, preserving unset fields
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "CreatedBy", "AssignedTo", "Project")
}

// DeleteTask deletes a task if the actor is the creator
func (s *TaskService) DeleteTask(taskID, actorID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.CreatedByID != actorID {
		return ErrNotTaskCreator
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AssignTask sets the task's assignee. The assignee must be a member of
// the task's project.
func (s *TaskService) AssignTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.ensureProjectMember(task.ProjectID, userID); err != nil {
		return nil, ErrInvalidTaskAssignee
	}

	task.AssignedToID = &userID
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "CreatedBy", "AssignedTo", "Project")
}

// UnassignTask clears the task's assignee
func (s *TaskService) UnassignTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.AssignedToID = nil
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to unassign task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "CreatedBy", "Project")
}

// resolveAccessibleProjectIDs returns the project IDs the user can access
func (s *TaskService) resolveAccessibleProjectIDs(userID uint64, projectID *uint64) ([]uint64, error) {
	if projectID != nil {
		if err := s.ensureProjectMember(*projectID, userID); err != nil {
			return nil, err
		}
		return []uint64{*projectID}, nil
	}

	memberships, err := s.projectRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project memberships: %w", err)
	}

	projectIDs := make([]uint64, 0, len(memberships))
	for _, m := range memberships {
		projectIDs = append(projectIDs, m.ProjectID)
	}

	return projectIDs, nil
}

// ensureProjectMember verifies that a user belongs to a project
func (s *TaskService) ensureProjectMember(projectID, userID uint64) error {
	_, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotProjectMember
		}
		return fmt.Errorf("failed to verify project membership: %w", err)
	}
	return nil
}
