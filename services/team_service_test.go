// services/team_service_test.go
package services

import (
	"testing"

	"teamlift/apperrors"
	"teamlift/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeamAddsOwner(t *testing.T) {
	s := newServices(t)
	owner := createUser(t, s.db, "owner@test.local", models.RoleIndividual)

	team, err := s.teams.CreateTeam("Platform Pod", "", "Boston", "", owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPublic, team.Visibility)

	assert.True(t, s.teams.IsTeamAdmin(owner.ID, team.ID))

	_, err = s.teams.CreateTeam("", "", "", "", owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = s.teams.CreateTeam("Bad Tier", "", "", models.TeamVisibility("secret"), owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRosterOperations(t *testing.T) {
	s := newServices(t)
	owner := createUser(t, s.db, "owner@test.local", models.RoleIndividual)
	team := createTeam(t, s.db, "Platform Pod", models.VisibilityPublic, owner.ID)

	dev := createUser(t, s.db, "dev@test.local", models.RoleIndividual)

	// non-admins cannot touch the roster
	err := s.teams.AddMember(team.ID, dev.ID, dev.ID, models.TeamRoleMember, "senior")
	assert.ErrorIs(t, err, apperrors.ErrForbiddenRole)

	require.NoError(t, s.teams.AddMember(team.ID, owner.ID, dev.ID, models.TeamRoleMember, "senior"))
	assert.True(t, s.teams.IsTeamMember(dev.ID, team.ID))

	// duplicate membership
	err = s.teams.AddMember(team.ID, owner.ID, dev.ID, models.TeamRoleMember, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	require.NoError(t, s.teams.PromoteMember(team.ID, owner.ID, dev.ID))
	assert.True(t, s.teams.IsTeamAdmin(dev.ID, team.ID))

	// the owner cannot be removed
	err = s.teams.RemoveMember(team.ID, dev.ID, owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbiddenRole)

	require.NoError(t, s.teams.RemoveMember(team.ID, owner.ID, dev.ID))
	assert.False(t, s.teams.IsTeamMember(dev.ID, team.ID))
}

func TestUpdateTeamVisibility(t *testing.T) {
	s := newServices(t)
	owner := createUser(t, s.db, "owner@test.local", models.RoleIndividual)
	team := createTeam(t, s.db, "Platform Pod", models.VisibilityPublic, owner.ID)

	err := s.teams.UpdateTeam(team.ID, "Platform Pod", "", "Boston", models.VisibilityAnonymous, owner.ID)
	require.NoError(t, err)

	reloaded, err := s.teams.GetTeam(team.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityAnonymous, reloaded.Visibility)
	assert.True(t, reloaded.IsAnonymous)

	stranger := createUser(t, s.db, "stranger@test.local", models.RoleIndividual)
	err = s.teams.UpdateTeam(team.ID, "X", "", "", models.VisibilityPublic, stranger.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbiddenRole)
}

func TestBlockAndUnblockCompany(t *testing.T) {
	s := newServices(t)
	owner := createUser(t, s.db, "owner@test.local", models.RoleIndividual)
	team := createTeam(t, s.db, "Platform Pod", models.VisibilityPublic, owner.ID)

	companyUser := createUser(t, s.db, "recruiter@test.local", models.RoleCompany)
	company := createCompany(t, s.db, "Acme", models.VerificationVerified, companyUser.ID)

	require.NoError(t, s.teams.BlockCompany(team.ID, owner.ID, company.ID))
	// blocking twice is idempotent
	require.NoError(t, s.teams.BlockCompany(team.ID, owner.ID, company.ID))

	viewer := s.viewer(t, companyUser.ID, models.RoleCompany)
	_, err := s.teams.ViewTeam(team.ID, viewer)
	assert.ErrorIs(t, err, apperrors.ErrBlocked)

	require.NoError(t, s.teams.UnblockCompany(team.ID, owner.ID, company.ID))
	_, err = s.teams.ViewTeam(team.ID, viewer)
	assert.NoError(t, err)
}

func TestDeleteTeamSoft(t *testing.T) {
	s := newServices(t)
	owner := createUser(t, s.db, "owner@test.local", models.RoleIndividual)
	team := createTeam(t, s.db, "Platform Pod", models.VisibilityPublic, owner.ID)

	dev := createUser(t, s.db, "dev@test.local", models.RoleIndividual)
	require.NoError(t, s.teams.AddMember(team.ID, owner.ID, dev.ID, models.TeamRoleMember, ""))

	// only the owner deletes
	err := s.teams.DeleteTeam(team.ID, dev.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbiddenRole)

	require.NoError(t, s.teams.DeleteTeam(team.ID, owner.ID))

	_, err = s.teams.GetTeam(team.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// the row survives as an inactive record
	var row models.Team
	require.NoError(t, s.db.First(&row, team.ID).Error)
	assert.False(t, row.IsActive)
}

func TestSearchTeamsQueryAndLimit(t *testing.T) {
	s := newServices(t)
	owner := createUser(t, s.db, "owner@test.local", models.RoleIndividual)
	createTeam(t, s.db, "Payments Crew", models.VisibilityPublic, owner.ID)
	createTeam(t, s.db, "Platform Pod", models.VisibilityPublic, owner.ID)

	viewer := s.viewer(t, owner.ID, models.RoleIndividual)

	views, err := s.teams.SearchTeams("Payments", 10, viewer)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Payments Crew", views[0].Name)

	views, err = s.teams.SearchTeams("", 1, viewer)
	require.NoError(t, err)
	assert.Len(t, views, 1)
}
