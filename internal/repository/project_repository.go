package repository

import (
	"github.com/oguzatay/project-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// ListActive lists non-archived projects with their members
func (r *GormProjectRepository) ListActive() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Preload("Members.User").
		Where("is_archived = ?", false).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete deletes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// AddMember inserts the membership pair if absent. The conflict clause
// makes a duplicate insert a no-op, so concurrent or repeated adds
// converge on a single row.
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(member).Error
}

// RemoveMember deletes the membership pair. Deleting zero rows is not an
// error, so removing a non-member is a no-op.
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

// FindMember finds a specific project member
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMemberIDs lists the user IDs of a project's members
func (r *GormProjectRepository) ListMemberIDs(projectID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ?", projectID).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListMembershipsByUserID lists all memberships of a user with their projects
func (r *GormProjectRepository) ListMembershipsByUserID(userID uint64) ([]models.ProjectMember, error) {
	var memberships []models.ProjectMember
	if err := r.db.Preload("Project").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// CountForUser counts projects the user is a member of. Archived
// projects are included; only the optional status narrows the count.
func (r *GormProjectRepository) CountForUser(userID uint64, status *models.ProjectStatus) (int64, error) {
	query := r.db.Model(&models.Project{}).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID)

	if status != nil {
		query = query.Where("projects.status = ?", *status)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// RecentForUser returns the most recently updated projects the user is a
// member of, newest first
func (r *GormProjectRepository) RecentForUser(userID uint64, limit int) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Order("projects.updated_at DESC").
		Limit(limit).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}
