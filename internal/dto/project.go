package dto

import (
	"time"

	"github.com/oguzatay/project-tracker-api/internal/models"
)

// ProjectMemberDTO represents a member in a project
type ProjectMemberDTO struct {
	User     UserDTO   `json:"user"`
	JoinedAt time.Time `json:"joined_at"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	StartDate   *time.Time             `json:"start_date"`
	EndDate     *time.Time             `json:"end_date"`
	Priority    models.ProjectPriority `json:"priority"`
	Color       string                 `json:"color"`
	Status      models.ProjectStatus   `json:"status"`
	IsArchived  bool                   `json:"is_archived"`
	CreatedByID uint64                 `json:"created_by_id"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	CreatedBy   *UserDTO               `json:"created_by,omitempty"`
	Members     []ProjectMemberDTO     `json:"members,omitempty"`
	Tasks       []TaskDTO              `json:"tasks,omitempty"`
}

// ToProjectMemberDTO converts a member to DTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	return ProjectMemberDTO{
		User:     ToUserDTO(member.User),
		JoinedAt: member.JoinedAt,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
		Priority:    project.Priority,
		Color:       project.Color,
		Status:      project.Status,
		IsArchived:  project.IsArchived,
		CreatedByID: project.CreatedByID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	// Include creator if preloaded
	if project.CreatedBy.ID != 0 {
		creator := ToUserDTO(project.CreatedBy)
		dto.CreatedBy = &creator
	}

	// Include members if preloaded
	if len(project.Members) > 0 {
		dto.Members = make([]ProjectMemberDTO, len(project.Members))
		for i, member := range project.Members {
			dto.Members[i] = ToProjectMemberDTO(member)
		}
	}

	// Include tasks if preloaded
	if len(project.Tasks) > 0 {
		dto.Tasks = make([]TaskDTO, len(project.Tasks))
		for i, task := range project.Tasks {
			dto.Tasks[i] = ToTaskDTO(task)
		}
	}

	return dto
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = ToProjectDTO(project)
	}
	return dtos
}
