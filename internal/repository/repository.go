package repository

import (
	"time"

	"github.com/oguzatay/project-tracker-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListActive lists non-archived projects with their members
	ListActive() ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and all related data
	Delete(id uint64) error

	// AddMember inserts the membership pair if absent; inserting an
	// existing pair is a no-op
	AddMember(member *models.ProjectMember) error

	// RemoveMember deletes the membership pair; removing an absent pair
	// is a no-op
	RemoveMember(projectID, userID uint64) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMemberIDs lists the user IDs of a project's members
	ListMemberIDs(projectID uint64) ([]uint64, error)

	// ListMembershipsByUserID lists all memberships of a user with their projects
	ListMembershipsByUserID(userID uint64) ([]models.ProjectMember, error)

	// CountForUser counts projects the user is a member of, optionally
	// filtered by status
	CountForUser(userID uint64, status *models.ProjectStatus) (int64, error)

	// RecentForUser returns the most recently updated projects the user
	// is a member of, newest first
	RecentForUser(userID uint64, limit int) ([]models.Project, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectIDs     []uint64
	Status         *models.TaskStatus
	AssignedUserID *uint64
	DueDateFrom    *time.Time
	DueDateTo      *time.Time
	Page           int
	PageSize       int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error

	// CountForUser counts tasks assigned to or created by the user,
	// optionally filtered by status
	CountForUser(userID uint64, status *models.TaskStatus) (int64, error)

	// RecentForUser returns the most recently updated tasks assigned to
	// or created by the user, newest first
	RecentForUser(userID uint64, limit int) ([]models.Task, error)
}
