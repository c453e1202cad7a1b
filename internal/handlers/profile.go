package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/oguzatay/project-tracker-api/internal/errors"
	"github.com/oguzatay/project-tracker-api/internal/middleware"
	"github.com/oguzatay/project-tracker-api/internal/services"
	"github.com/rs/zerolog/log"
)

// ProfileHandler serves the per-user aggregate views.
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetStats returns the authenticated user's project and task counts.
func (h *ProfileHandler) GetStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.profileService.ComputeStats(userID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", userID).Msg("failed to compute stats")
		apierrors.InternalError(c, "Failed to compute statistics", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetActivity returns the authenticated user's merged activity feed.
func (h *ProfileHandler) GetActivity(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	activity, err := h.profileService.ComputeActivity(userID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", userID).Msg("failed to compute activity")
		apierrors.InternalError(c, "Failed to compute activity", err)
		return
	}

	c.JSON(http.StatusOK, activity)
}
