// Package authz decides whether a principal may perform sensitive
// project mutations. Deletion is the only gated operation; update and
// archive are open to any authenticated principal.
package authz

import (
	"github.com/oguzatay/project-tracker-api/internal/auth"
	"github.com/oguzatay/project-tracker-api/internal/models"
)

// CanDeleteProject reports whether the principal may delete the project:
// the project's creator, any admin, and any current member are allowed.
func CanDeleteProject(p auth.Principal, project *models.Project, memberIDs []uint64) bool {
	if p.ID == project.CreatedByID {
		return true
	}
	if p.Role == models.RoleAdmin {
		return true
	}
	for _, id := range memberIDs {
		if id == p.ID {
			return true
		}
	}
	return false
}
