// services/opportunity_service_test.go
package services

import (
	"encoding/json"
	"testing"
	"time"

	"teamlift/apperrors"
	"teamlift/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type opportunityFixture struct {
	s         *testServices
	company   *models.Company
	recruiter Viewer
	opp       *models.Opportunity
}

func setupOpportunity(t *testing.T) *opportunityFixture {
	t.Helper()
	s := newServices(t)

	companyUser := createUser(t, s.db, "recruiter@test.local", models.RoleCompany)
	company := createCompany(t, s.db, "Acme", models.VerificationVerified, companyUser.ID)
	recruiter := s.viewer(t, companyUser.ID, models.RoleCompany)

	opp, err := s.opportunities.CreateOpportunity(recruiter, "Platform squad", "Build the platform", "Boston",
		models.OpportunityPublic, 3, 6)
	require.NoError(t, err)

	return &opportunityFixture{s: s, company: company, recruiter: recruiter, opp: opp}
}

func (f *opportunityFixture) apply(t *testing.T, name string) *models.TeamApplication {
	t.Helper()
	owner := createUser(t, f.s.db, name+"@test.local", models.RoleIndividual)
	team := createTeam(t, f.s.db, name, models.VisibilityPublic, owner.ID)

	app, err := f.s.opportunities.Apply(f.s.viewer(t, owner.ID, models.RoleIndividual), team.ID, f.opp.ID, "hire us")
	require.NoError(t, err)
	return app
}

func TestApplyDuplicate(t *testing.T) {
	f := setupOpportunity(t)
	app := f.apply(t, "squad-a")

	_, err := f.s.opportunities.Apply(f.recruiter, app.TeamID, f.opp.ID, "again")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateApplication)

	// a concurrent identical submission slipping past the count guard
	// lands on the unique index as the translated duplicate-key error,
	// which Apply maps back to ErrDuplicateApplication
	dup := &models.TeamApplication{
		TeamID:        app.TeamID,
		OpportunityID: f.opp.ID,
		Status:        models.ApplicationSubmitted,
		AppliedAt:     time.Now(),
	}
	assert.ErrorIs(t, f.s.db.Create(dup).Error, gorm.ErrDuplicatedKey)
}

func TestGetOpportunityOmitsApplications(t *testing.T) {
	f := setupOpportunity(t)
	f.apply(t, "squad-a")

	// the public detail read must not carry applicant data
	opp, err := f.s.opportunities.GetOpportunity(f.opp.ID)
	require.NoError(t, err)
	assert.Empty(t, opp.Applications)

	payload, err := json.Marshal(opp)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "applications")
	assert.NotContains(t, string(payload), "cover_note")
	assert.NotContains(t, string(payload), "rejection_reason")
}

func TestApplyClosedOpportunity(t *testing.T) {
	f := setupOpportunity(t)

	_, err := f.s.opportunities.CloseOpportunity(f.opp.ID, f.recruiter, nil, "")
	require.NoError(t, err)

	owner := createUser(t, f.s.db, "late@test.local", models.RoleIndividual)
	team := createTeam(t, f.s.db, "Late Team", models.VisibilityPublic, owner.ID)
	_, err = f.s.opportunities.Apply(f.s.viewer(t, owner.ID, models.RoleIndividual), team.ID, f.opp.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestPauseOpportunity(t *testing.T) {
	f := setupOpportunity(t)

	paused, err := f.s.opportunities.SetStatus(f.opp.ID, f.recruiter, models.OpportunityPaused)
	require.NoError(t, err)
	assert.Equal(t, models.OpportunityPaused, paused.Status)

	// paused opportunities take no applications
	owner := createUser(t, f.s.db, "squad@test.local", models.RoleIndividual)
	team := createTeam(t, f.s.db, "Squad", models.VisibilityPublic, owner.ID)
	_, err = f.s.opportunities.Apply(f.s.viewer(t, owner.ID, models.RoleIndividual), team.ID, f.opp.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	// and drop out of the open listing
	open, err := f.s.opportunities.ListOpenOpportunities(10)
	require.NoError(t, err)
	assert.Empty(t, open)

	resumed, err := f.s.opportunities.SetStatus(f.opp.ID, f.recruiter, models.OpportunityActive)
	require.NoError(t, err)
	assert.Equal(t, models.OpportunityActive, resumed.Status)

	// filled is reserved for close/reopen
	_, err = f.s.opportunities.SetStatus(f.opp.ID, f.recruiter, models.OpportunityFilled)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestApplicationStateMachine(t *testing.T) {
	f := setupOpportunity(t)
	app := f.apply(t, "squad-a")

	// submitted cannot jump straight to accepted
	_, err := f.s.opportunities.Transition(app.ID, f.recruiter, models.ApplicationAccepted, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	app2, err := f.s.opportunities.Transition(app.ID, f.recruiter, models.ApplicationReviewing, "")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationReviewing, app2.Status)

	var row models.TeamApplication
	require.NoError(t, f.s.db.First(&row, app.ID).Error)
	assert.NotNil(t, row.ReviewedAt)

	_, err = f.s.opportunities.Transition(app.ID, f.recruiter, models.ApplicationInterviewing, "")
	require.NoError(t, err)

	accepted, err := f.s.opportunities.Transition(app.ID, f.recruiter, models.ApplicationAccepted, "")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, accepted.Status)

	// terminal, including backwards
	_, err = f.s.opportunities.Transition(app.ID, f.recruiter, models.ApplicationReviewing, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestRejectFromAnyOpenState(t *testing.T) {
	f := setupOpportunity(t)
	app := f.apply(t, "squad-a")

	_, err := f.s.opportunities.Transition(app.ID, f.recruiter, models.ApplicationReviewing, "")
	require.NoError(t, err)
	_, err = f.s.opportunities.Transition(app.ID, f.recruiter, models.ApplicationInterviewing, "")
	require.NoError(t, err)

	rejected, err := f.s.opportunities.Transition(app.ID, f.recruiter, models.ApplicationRejected, "not a fit")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationRejected, rejected.Status)

	var row models.TeamApplication
	require.NoError(t, f.s.db.First(&row, app.ID).Error)
	assert.Equal(t, "not a fit", row.RejectionReason)
	assert.NotNil(t, row.FinalDecisionAt)
}

func TestTransitionRequiresOwningCompany(t *testing.T) {
	f := setupOpportunity(t)
	app := f.apply(t, "squad-a")

	otherUser := createUser(t, f.s.db, "rival@test.local", models.RoleCompany)
	createCompany(t, f.s.db, "Rival", models.VerificationVerified, otherUser.ID)
	rival := f.s.viewer(t, otherUser.ID, models.RoleCompany)

	_, err := f.s.opportunities.Transition(app.ID, rival, models.ApplicationReviewing, "")
	assert.ErrorIs(t, err, apperrors.ErrForbiddenRole)
}

func TestCloseOpportunity(t *testing.T) {
	f := setupOpportunity(t)
	winner := f.apply(t, "squad-a")
	loserB := f.apply(t, "squad-b")
	loserC := f.apply(t, "squad-c")

	closed, err := f.s.opportunities.CloseOpportunity(f.opp.ID, f.recruiter, &winner.TeamID, "")
	require.NoError(t, err)

	assert.Equal(t, models.OpportunityFilled, closed.Status)
	assert.Equal(t, models.OpportunityActive, closed.PreviousStatus)
	assert.NotNil(t, closed.ClosedAt)
	require.NotNil(t, closed.SelectedTeamID)
	assert.Equal(t, winner.TeamID, *closed.SelectedTeamID)

	var rows []models.TeamApplication
	require.NoError(t, f.s.db.Where("opportunity_id = ?", f.opp.ID).Find(&rows).Error)
	for _, row := range rows {
		switch row.ID {
		case winner.ID:
			assert.Equal(t, models.ApplicationAccepted, row.Status)
			assert.Empty(t, row.RejectionReason)
		case loserB.ID, loserC.ID:
			assert.Equal(t, models.ApplicationRejected, row.Status)
			assert.Equal(t, "Position has been filled", row.RejectionReason)
		}
		assert.NotNil(t, row.FinalDecisionAt)
	}

	// closing twice is a no-op error
	_, err = f.s.opportunities.CloseOpportunity(f.opp.ID, f.recruiter, nil, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestCloseWithoutSelectionRejectsAll(t *testing.T) {
	f := setupOpportunity(t)
	f.apply(t, "squad-a")
	f.apply(t, "squad-b")

	closed, err := f.s.opportunities.CloseOpportunity(f.opp.ID, f.recruiter, nil, "budget cut")
	require.NoError(t, err)
	assert.Nil(t, closed.SelectedTeamID)
	assert.Equal(t, "budget cut", closed.CloseReason)

	var count int64
	require.NoError(t, f.s.db.Model(&models.TeamApplication{}).
		Where("opportunity_id = ? AND status = ?", f.opp.ID, models.ApplicationRejected).
		Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestReopenOpportunity(t *testing.T) {
	f := setupOpportunity(t)
	winner := f.apply(t, "squad-a")
	loser := f.apply(t, "squad-b")

	_, err := f.s.opportunities.CloseOpportunity(f.opp.ID, f.recruiter, &winner.TeamID, "")
	require.NoError(t, err)

	reopened, err := f.s.opportunities.ReopenOpportunity(f.opp.ID, f.recruiter)
	require.NoError(t, err)

	assert.Equal(t, models.OpportunityActive, reopened.Status)
	assert.Nil(t, reopened.ClosedAt)
	assert.Nil(t, reopened.SelectedTeamID)
	assert.Empty(t, reopened.CloseReason)
	assert.NotNil(t, reopened.ReopenedAt)

	// application decisions made by the close are not undone
	var rows []models.TeamApplication
	require.NoError(t, f.s.db.Where("opportunity_id = ?", f.opp.ID).Order("id ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, models.ApplicationAccepted, rows[0].Status)
	assert.Equal(t, winner.ID, rows[0].ID)
	assert.Equal(t, models.ApplicationRejected, rows[1].Status)
	assert.Equal(t, loser.ID, rows[1].ID)

	// an active opportunity cannot be reopened
	_, err = f.s.opportunities.ReopenOpportunity(f.opp.ID, f.recruiter)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}
