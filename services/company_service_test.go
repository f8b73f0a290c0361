// services/company_service_test.go
package services

import (
	"testing"

	"teamlift/apperrors"
	"teamlift/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompanyService(t *testing.T) (*testServices, *CompanyService) {
	t.Helper()
	s := newServices(t)
	return s, NewCompanyService(s.db, s.notifier)
}

func TestCreateCompanyLinksCreator(t *testing.T) {
	s, companies := newCompanyService(t)

	user := createUser(t, s.db, "founder@test.local", models.RoleCompany)
	company, err := companies.CreateCompany("Acme", "robots", "https://acme.test", "robotics", user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationUnverified, company.VerificationStatus)

	var membership models.CompanyUser
	require.NoError(t, s.db.Where("company_id = ? AND user_id = ?", company.ID, user.ID).
		First(&membership).Error)

	_, err = companies.CreateCompany("", "", "", "", user.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestVerificationWorkflow(t *testing.T) {
	s, companies := newCompanyService(t)

	user := createUser(t, s.db, "founder@test.local", models.RoleCompany)
	company, err := companies.CreateCompany("Acme", "", "", "", user.ID)
	require.NoError(t, err)

	// only company users can request
	outsider := createUser(t, s.db, "outsider@test.local", models.RoleIndividual)
	err = companies.RequestVerification(company.ID, outsider.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbiddenRole)

	require.NoError(t, companies.RequestVerification(company.ID, user.ID))

	// a pending request cannot be re-requested
	err = companies.RequestVerification(company.ID, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	pending, err := companies.ListPendingVerifications()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, company.ID, pending[0].ID)

	reviewed, err := companies.ReviewVerification(company.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, reviewed.VerificationStatus)
	assert.True(t, reviewed.IsVerified())

	// the decision reaches the creator
	assert.Equal(t, 1, s.notifier.count())

	// verified companies are terminal for the review surface
	_, err = companies.ReviewVerification(company.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestVerificationRejectionAllowsRetry(t *testing.T) {
	s, companies := newCompanyService(t)

	user := createUser(t, s.db, "founder@test.local", models.RoleCompany)
	company, err := companies.CreateCompany("Acme", "", "", "", user.ID)
	require.NoError(t, err)

	require.NoError(t, companies.RequestVerification(company.ID, user.ID))

	rejected, err := companies.ReviewVerification(company.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationRejected, rejected.VerificationStatus)

	// a rejected company may re-request
	require.NoError(t, companies.RequestVerification(company.ID, user.ID))
}
