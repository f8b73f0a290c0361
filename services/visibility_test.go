// services/visibility_test.go
package services

import (
	"testing"

	"teamlift/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanViewPublicTeam(t *testing.T) {
	s := newServices(t)

	owner := createUser(t, s.db, "owner@test.local", models.RoleIndividual)
	team := createTeam(t, s.db, "Open Team", models.VisibilityPublic, owner.ID)
	loaded, err := s.teams.GetTeam(team.ID)
	require.NoError(t, err)

	stranger := createUser(t, s.db, "stranger@test.local", models.RoleIndividual)
	viewer := s.viewer(t, stranger.ID, models.RoleIndividual)

	decision := s.visibility.CanView(loaded, viewer)
	assert.True(t, decision.CanView)
	assert.Empty(t, decision.Reason)
}

func TestAnonymousTeamRequiresVerification(t *testing.T) {
	s := newServices(t)

	owner := createUser(t, s.db, "owner@test.local", models.RoleIndividual)
	team := createTeam(t, s.db, "Hidden Team", models.VisibilityAnonymous, owner.ID)

	companyUser := createUser(t, s.db, "company@test.local", models.RoleCompany)
	company := createCompany(t, s.db, "Acme", models.VerificationUnverified, companyUser.ID)

	loaded, err := s.teams.GetTeam(team.ID)
	require.NoError(t, err)

	viewer := s.viewer(t, companyUser.ID, models.RoleCompany)
	decision := s.visibility.CanView(loaded, viewer)
	assert.False(t, decision.CanView)
	assert.Equal(t, ReasonVerificationRequired, decision.Reason)

	// Verification flips the decision
	require.NoError(t, s.db.Model(company).Update("verification_status", models.VerificationVerified).Error)
	viewer = s.viewer(t, companyUser.ID, models.RoleCompany)
	decision = s.visibility.CanView(loaded, viewer)
	assert.True(t, decision.CanView)

	// Unless the company is on the block list
	blockCompany(t, s.db, team.ID, company.ID)
	loaded, err = s.teams.GetTeam(team.ID)
	require.NoError(t, err)
	decision = s.visibility.CanView(loaded, viewer)
	assert.False(t, decision.CanView)
	assert.Equal(t, ReasonBlocked, decision.Reason)
}

func TestBlockAppliesToPublicTeams(t *testing.T) {
	s := newServices(t)

	owner := createUser(t, s.db, "owner@test.local", models.RoleIndividual)
	team := createTeam(t, s.db, "Open Team", models.VisibilityPublic, owner.ID)

	companyUser := createUser(t, s.db, "company@test.local", models.RoleCompany)
	company := createCompany(t, s.db, "Acme", models.VerificationVerified, companyUser.ID)
	blockCompany(t, s.db, team.ID, company.ID)

	loaded, err := s.teams.GetTeam(team.ID)
	require.NoError(t, err)

	viewer := s.viewer(t, companyUser.ID, models.RoleCompany)
	decision := s.visibility.CanView(loaded, viewer)
	assert.False(t, decision.CanView)
	assert.Equal(t, ReasonBlocked, decision.Reason)
}

func TestSelectiveTreatedAsAnonymous(t *testing.T) {
	s := newServices(t)

	owner := createUser(t, s.db, "owner@test.local", models.RoleIndividual)
	team := createTeam(t, s.db, "Selective Team", models.VisibilitySelective, owner.ID)
	loaded, err := s.teams.GetTeam(team.ID)
	require.NoError(t, err)

	stranger := createUser(t, s.db, "stranger@test.local", models.RoleIndividual)
	viewer := s.viewer(t, stranger.ID, models.RoleIndividual)

	decision := s.visibility.CanView(loaded, viewer)
	assert.False(t, decision.CanView)
	assert.Equal(t, ReasonVerificationRequired, decision.Reason)

	// The owner always sees their own team
	ownerViewer := s.viewer(t, owner.ID, models.RoleIndividual)
	assert.True(t, s.visibility.CanView(loaded, ownerViewer).CanView)
}

func TestLegacyAnonymousFlagHonored(t *testing.T) {
	s := newServices(t)

	owner := createUser(t, s.db, "owner@test.local", models.RoleIndividual)
	team := createTeam(t, s.db, "Legacy Team", models.VisibilityPublic, owner.ID)
	// Legacy rows may carry is_anonymous without the tier being updated
	require.NoError(t, s.db.Model(team).Update("is_anonymous", true).Error)

	loaded, err := s.teams.GetTeam(team.ID)
	require.NoError(t, err)
	assert.True(t, loaded.EffectiveAnonymous())

	stranger := createUser(t, s.db, "stranger@test.local", models.RoleIndividual)
	viewer := s.viewer(t, stranger.ID, models.RoleIndividual)
	decision := s.visibility.CanView(loaded, viewer)
	assert.False(t, decision.CanView)
	assert.Equal(t, ReasonVerificationRequired, decision.Reason)
}

func TestFilterTeamsDropsIneligibleAnonymous(t *testing.T) {
	s := newServices(t)

	owner := createUser(t, s.db, "owner@test.local", models.RoleIndividual)
	createTeam(t, s.db, "Open Team", models.VisibilityPublic, owner.ID)
	createTeam(t, s.db, "Hidden Team", models.VisibilityAnonymous, owner.ID)

	stranger := createUser(t, s.db, "stranger@test.local", models.RoleIndividual)
	viewer := s.viewer(t, stranger.ID, models.RoleIndividual)

	views, err := s.teams.SearchTeams("", 50, viewer)
	require.NoError(t, err)

	// Anonymous team is filtered out, never shown-and-masked
	require.Len(t, views, 1)
	assert.Equal(t, "Open Team", views[0].Name)
}

func TestProjectTeamMasksIdentityForOutsiders(t *testing.T) {
	s := newServices(t)

	owner := createUser(t, s.db, "owner@test.local", models.RoleIndividual)
	team := createTeam(t, s.db, "Hidden Team", models.VisibilityAnonymous, owner.ID)

	companyUser := createUser(t, s.db, "company@test.local", models.RoleCompany)
	createCompany(t, s.db, "Acme", models.VerificationVerified, companyUser.ID)

	loaded, err := s.teams.GetTeam(team.ID)
	require.NoError(t, err)

	viewer := s.viewer(t, companyUser.ID, models.RoleCompany)
	view := s.visibility.ProjectTeam(loaded, viewer)

	assert.Equal(t, "Confidential Team", view.Name)
	assert.Equal(t, "Northeast US", view.Location)
	assert.True(t, view.IsAnonymous)
	require.Len(t, view.Members, 1)
	assert.Empty(t, view.Members[0].Name)
	assert.Equal(t, models.TeamRoleOwner, view.Members[0].Role)

	// The owner sees the real identity
	ownerView := s.visibility.ProjectTeam(loaded, s.viewer(t, owner.ID, models.RoleIndividual))
	assert.Equal(t, "Hidden Team", ownerView.Name)
	assert.Equal(t, "Boston", ownerView.Location)
	assert.Equal(t, "Test User", ownerView.Members[0].Name)
}

func TestGeneralizeLocation(t *testing.T) {
	tests := []struct {
		location   string
		anonymized bool
		want       string
	}{
		{"New York", true, "Northeast US"},
		{"san francisco", true, "West Coast US"},
		{"Springfield", true, "Undisclosed"}, // lookup miss never leaks the city
		{"Springfield", false, "Springfield"},
		{"remote", true, "Remote"},
		{"", true, "Undisclosed"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GeneralizeLocation(tt.location, tt.anonymized),
			"location=%q anonymized=%v", tt.location, tt.anonymized)
	}
}

func TestVisibilityMonotonicity(t *testing.T) {
	s := newServices(t)

	owner := createUser(t, s.db, "owner@test.local", models.RoleIndividual)
	team := createTeam(t, s.db, "Hidden Team", models.VisibilityAnonymous, owner.ID)

	verifiedUser := createUser(t, s.db, "verified@test.local", models.RoleCompany)
	company := createCompany(t, s.db, "Acme", models.VerificationVerified, verifiedUser.ID)
	blockCompany(t, s.db, team.ID, company.ID)

	publicUser := createUser(t, s.db, "public@test.local", models.RoleIndividual)

	loaded, err := s.teams.GetTeam(team.ID)
	require.NoError(t, err)

	verifiedDecision := s.visibility.CanView(loaded, s.viewer(t, verifiedUser.ID, models.RoleCompany))
	publicDecision := s.visibility.CanView(loaded, s.viewer(t, publicUser.ID, models.RoleIndividual))

	// If even a verified company user is denied a non-public team, an
	// unaffiliated viewer must be too.
	require.False(t, verifiedDecision.CanView)
	assert.False(t, publicDecision.CanView)
}
