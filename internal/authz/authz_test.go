package authz

import (
	"testing"

	"github.com/oguzatay/project-tracker-api/internal/auth"
	"github.com/oguzatay/project-tracker-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestCanDeleteProject(t *testing.T) {
	project := &models.Project{ID: 1, CreatedByID: 10}
	memberIDs := []uint64{10, 20}

	tests := []struct {
		name      string
		principal auth.Principal
		want      bool
	}{
		{
			name:      "creator is allowed",
			principal: auth.Principal{ID: 10, Role: models.RoleMember},
			want:      true,
		},
		{
			name:      "admin is allowed",
			principal: auth.Principal{ID: 99, Role: models.RoleAdmin},
			want:      true,
		},
		{
			name:      "member is allowed",
			principal: auth.Principal{ID: 20, Role: models.RoleMember},
			want:      true,
		},
		{
			name:      "non-member non-admin non-creator is refused",
			principal: auth.Principal{ID: 30, Role: models.RoleMember},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CanDeleteProject(tt.principal, project, memberIDs))
		})
	}
}

func TestCanDeleteProject_NoMembers(t *testing.T) {
	project := &models.Project{ID: 1, CreatedByID: 10}

	require.True(t, CanDeleteProject(auth.Principal{ID: 10, Role: models.RoleMember}, project, nil))
	require.False(t, CanDeleteProject(auth.Principal{ID: 11, Role: models.RoleMember}, project, nil))
}
