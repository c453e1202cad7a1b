package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oguzatay/project-tracker-api/internal/dto"
	apierrors "github.com/oguzatay/project-tracker-api/internal/errors"
	"github.com/oguzatay/project-tracker-api/internal/middleware"
	"github.com/oguzatay/project-tracker-api/internal/models"
	"github.com/oguzatay/project-tracker-api/internal/services"
	"github.com/rs/zerolog/log"
)

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a new project owned by the requesting user.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string                 `json:"name" binding:"required"`
		Description string                 `json:"description"`
		StartDate   *time.Time             `json:"start_date"`
		EndDate     *time.Time             `json:"end_date"`
		Priority    models.ProjectPriority `json:"priority"`
		Color       string                 `json:"color"`
		Status      models.ProjectStatus   `json:"status"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Priority:    req.Priority,
		Color:       req.Color,
		Status:      req.Status,
		CreatorID:   userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project created successfully",
		"project": dto.ToProjectDTO(*project),
	})
}

// ListProjects returns all non-archived projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects()
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTOs(projects))
}

// GetProject returns a project with its members and tasks.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject updates a project. Absent fields keep their values.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Name        *string                 `json:"name"`
		Description *string                 `json:"description"`
		StartDate   *time.Time              `json:"start_date"`
		EndDate     *time.Time              `json:"end_date"`
		Priority    *models.ProjectPriority `json:"priority"`
		Color       *string                 `json:"color"`
		Status      *models.ProjectStatus   `json:"status"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	project, err := h.projectService.UpdateProject(projectID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Priority:    req.Priority,
		Color:       req.Color,
		Status:      req.Status,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project updated successfully",
		"project": dto.ToProjectDTO(*project),
	})
}

// ArchiveProject flags a project as archived.
func (h *ProjectHandler) ArchiveProject(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	if err := h.projectService.ArchiveProject(projectID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project archived successfully",
	})
}

// AddMember adds a user to the project. Adding an existing member
// succeeds without effect.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	type MemberRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	if err := h.projectService.AddMember(projectID, req.UserID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member added successfully",
	})
}

// RemoveMember removes a user from the project. Removing a non-member
// succeeds without effect.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	type MemberRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	if err := h.projectService.RemoveMember(projectID, req.UserID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

// DeleteProject deletes a project after the authorization check.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.projectService.DeleteProject(principal, projectID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

func parseProjectID(c *gin.Context) (uint64, bool) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return 0, false
	}
	return projectID, true
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrDeleteNotAllowed):
		apierrors.Forbidden(c, err.Error())
	default:
		log.Error().Err(err).Msg("unexpected project error")
		apierrors.InternalError(c, "Internal server error", err)
	}
}
