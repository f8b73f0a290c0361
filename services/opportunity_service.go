// services/opportunity_service.go - opportunities and team applications
package services

import (
	"errors"
	"time"

	"teamlift/apperrors"
	"teamlift/models"

	"gorm.io/gorm"
)

// rejectionFilled is written on every application swept by a close.
const rejectionFilled = "Position has been filled"

// applicationTransitions is the forward state machine. Rejection is
// additionally reachable from any non-terminal state.
var applicationTransitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.ApplicationSubmitted:    {models.ApplicationReviewing, models.ApplicationRejected},
	models.ApplicationReviewing:    {models.ApplicationInterviewing, models.ApplicationRejected},
	models.ApplicationInterviewing: {models.ApplicationAccepted, models.ApplicationRejected},
}

type OpportunityService struct {
	db           *gorm.DB
	verification *VerificationService
	notifier     Notifier
}

func NewOpportunityService(db *gorm.DB, verification *VerificationService, notifier Notifier) *OpportunityService {
	return &OpportunityService{db: db, verification: verification, notifier: notifier}
}

// ================== OPPORTUNITY CRUD ==================

// CreateOpportunity creates an opportunity for the caller's company.
func (s *OpportunityService) CreateOpportunity(viewer Viewer, title, description, location string, visibility models.OpportunityVisibility, sizeMin, sizeMax int) (*models.Opportunity, error) {
	if viewer.CompanyID == nil {
		return nil, apperrors.ErrForbiddenRole
	}
	if title == "" {
		return nil, apperrors.ErrInvalidInput
	}
	if visibility == "" {
		visibility = models.OpportunityPublic
	}

	opportunity := &models.Opportunity{
		CompanyID:   *viewer.CompanyID,
		Title:       title,
		Description: description,
		Location:    location,
		TeamSizeMin: sizeMin,
		TeamSizeMax: sizeMax,
		Status:      models.OpportunityActive,
		Visibility:  visibility,
		CreatedAt:   time.Now(),
	}

	if err := s.db.Create(opportunity).Error; err != nil {
		return nil, err
	}

	return opportunity, nil
}

// GetOpportunity backs the public detail endpoint. Applications stay
// unloaded; they are served to the owning company via ListApplications.
func (s *OpportunityService) GetOpportunity(id uint) (*models.Opportunity, error) {
	var opportunity models.Opportunity
	err := s.db.First(&opportunity, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &opportunity, nil
}

// ListOpenOpportunities lists active public opportunities.
func (s *OpportunityService) ListOpenOpportunities(limit int) ([]models.Opportunity, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var opportunities []models.Opportunity
	err := s.db.Where("status = ? AND visibility = ?", models.OpportunityActive, models.OpportunityPublic).
		Order("created_at DESC").
		Limit(limit).
		Find(&opportunities).Error
	return opportunities, err
}

// SetStatus toggles an opportunity between active and paused. Filled is
// managed exclusively by close/reopen.
func (s *OpportunityService) SetStatus(opportunityID uint, viewer Viewer, target models.OpportunityStatus) (*models.Opportunity, error) {
	if target != models.OpportunityActive && target != models.OpportunityPaused {
		return nil, apperrors.ErrInvalidInput
	}

	opportunity, err := s.GetOpportunity(opportunityID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCompanyUser(opportunity, viewer); err != nil {
		return nil, err
	}
	if opportunity.Status == models.OpportunityFilled {
		return nil, apperrors.ErrInvalidTransition
	}

	err = s.db.Model(&models.Opportunity{}).Where("id = ?", opportunityID).
		Updates(map[string]interface{}{
			"status":     target,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return nil, err
	}

	opportunity.Status = target
	return opportunity, nil
}

// authorizeCompanyUser checks the caller belongs to the opportunity's
// owning company (admins pass).
func (s *OpportunityService) authorizeCompanyUser(opportunity *models.Opportunity, viewer Viewer) error {
	if viewer.Role == models.RoleAdmin {
		return nil
	}
	if viewer.CompanyID != nil && *viewer.CompanyID == opportunity.CompanyID {
		return nil
	}
	return apperrors.ErrForbiddenRole
}

// ================== APPLICATIONS ==================

// Apply submits a team application. One application per (team,
// opportunity); the composite unique index is the race-proof guard, the
// in-transaction count is the fast path.
func (s *OpportunityService) Apply(viewer Viewer, teamID, opportunityID uint, coverNote string) (*models.TeamApplication, error) {
	opportunity, err := s.GetOpportunity(opportunityID)
	if err != nil {
		return nil, err
	}
	if opportunity.Status != models.OpportunityActive {
		return nil, apperrors.ErrInvalidTransition
	}

	now := time.Now()
	application := &models.TeamApplication{
		TeamID:        teamID,
		OpportunityID: opportunityID,
		Status:        models.ApplicationSubmitted,
		CoverNote:     coverNote,
		AppliedAt:     now,
		CreatedAt:     now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.TeamApplication{}).
			Where("team_id = ? AND opportunity_id = ?", teamID, opportunityID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrDuplicateApplication
		}

		return tx.Create(application).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost the race against an identical submission
		return nil, apperrors.ErrDuplicateApplication
	}
	if err != nil {
		return nil, err
	}

	return application, nil
}

// Transition moves an application forward through its state machine.
// Terminal applications are immutable except for admin override.
func (s *OpportunityService) Transition(applicationID uint, viewer Viewer, target models.ApplicationStatus, reason string) (*models.TeamApplication, error) {
	var application models.TeamApplication
	err := s.db.Preload("Opportunity").First(&application, applicationID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if application.Opportunity == nil {
		return nil, apperrors.ErrNotFound
	}

	if err := s.authorizeCompanyUser(application.Opportunity, viewer); err != nil {
		return nil, err
	}

	if viewer.Role != models.RoleAdmin && !transitionAllowed(application.Status, target) {
		return nil, apperrors.ErrInvalidTransition
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     target,
		"updated_at": now,
	}
	switch target {
	case models.ApplicationReviewing:
		updates["reviewed_at"] = now
	case models.ApplicationAccepted, models.ApplicationRejected:
		updates["final_decision_at"] = now
		if target == models.ApplicationRejected && reason != "" {
			updates["rejection_reason"] = reason
		}
	}

	if err := s.db.Model(&application).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.notifyTeamOfApplication(&application, target)

	application.Status = target
	return &application, nil
}

func transitionAllowed(from, to models.ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ListApplications returns an opportunity's applications to its owners.
func (s *OpportunityService) ListApplications(opportunityID uint, viewer Viewer) ([]models.TeamApplication, error) {
	opportunity, err := s.GetOpportunity(opportunityID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCompanyUser(opportunity, viewer); err != nil {
		return nil, err
	}

	var applications []models.TeamApplication
	err = s.db.Where("opportunity_id = ?", opportunityID).
		Preload("Team").
		Order("applied_at ASC").
		Find(&applications).Error
	return applications, err
}

// ================== CLOSE / REOPEN ==================

// CloseOpportunity fills an opportunity: every open application except
// the selected team's is rejected, the selected team's (if any) is
// accepted, and the opportunity records its close audit trail. Both
// bulk updates run in one transaction, reject-others first, so the
// selected team is never transiently rejected.
func (s *OpportunityService) CloseOpportunity(opportunityID uint, viewer Viewer, selectedTeamID *uint, reason string) (*models.Opportunity, error) {
	opportunity, err := s.GetOpportunity(opportunityID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCompanyUser(opportunity, viewer); err != nil {
		return nil, err
	}
	if opportunity.Status == models.OpportunityFilled {
		return nil, apperrors.ErrInvalidTransition
	}

	if reason == "" {
		reason = rejectionFilled
	}

	now := time.Now()
	previousStatus := opportunity.Status

	err = s.db.Transaction(func(tx *gorm.DB) error {
		rejectQuery := tx.Model(&models.TeamApplication{}).
			Where("opportunity_id = ? AND status IN ?", opportunityID, models.OpenApplicationStatuses())
		if selectedTeamID != nil {
			rejectQuery = rejectQuery.Where("team_id <> ?", *selectedTeamID)
		}
		if err := rejectQuery.Updates(map[string]interface{}{
			"status":            models.ApplicationRejected,
			"rejection_reason":  rejectionFilled,
			"final_decision_at": now,
			"updated_at":        now,
		}).Error; err != nil {
			return err
		}

		if selectedTeamID != nil {
			if err := tx.Model(&models.TeamApplication{}).
				Where("opportunity_id = ? AND team_id = ? AND status IN ?",
					opportunityID, *selectedTeamID, models.OpenApplicationStatuses()).
				Updates(map[string]interface{}{
					"status":            models.ApplicationAccepted,
					"final_decision_at": now,
					"updated_at":        now,
				}).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Opportunity{}).Where("id = ?", opportunityID).
			Updates(map[string]interface{}{
				"status":           models.OpportunityFilled,
				"previous_status":  previousStatus,
				"closed_at":        now,
				"closed_by":        viewer.UserID,
				"close_reason":     reason,
				"selected_team_id": selectedTeamID,
				"updated_at":       now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	go s.notifyClosedApplicants(opportunityID)

	return s.GetOpportunity(opportunityID)
}

// ReopenOpportunity is the exact inverse of close for the opportunity
// record only. Application decisions made by the close stay terminal:
// human decisions about specific teams are not undone by an
// administrative toggle.
func (s *OpportunityService) ReopenOpportunity(opportunityID uint, viewer Viewer) (*models.Opportunity, error) {
	opportunity, err := s.GetOpportunity(opportunityID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCompanyUser(opportunity, viewer); err != nil {
		return nil, err
	}
	if opportunity.Status != models.OpportunityFilled {
		return nil, apperrors.ErrInvalidTransition
	}

	now := time.Now()
	err = s.db.Model(&models.Opportunity{}).Where("id = ?", opportunityID).
		Updates(map[string]interface{}{
			"status":           models.OpportunityActive,
			"previous_status":  "",
			"closed_at":        nil,
			"closed_by":        nil,
			"close_reason":     "",
			"selected_team_id": nil,
			"reopened_at":      now,
			"reopened_by":      viewer.UserID,
			"updated_at":       now,
		}).Error
	if err != nil {
		return nil, err
	}

	return s.GetOpportunity(opportunityID)
}

func (s *OpportunityService) notifyTeamOfApplication(application *models.TeamApplication, status models.ApplicationStatus) {
	var members []models.TeamMember
	if err := s.db.Where("team_id = ? AND is_active = ? AND role IN ?",
		application.TeamID, true, []models.TeamRole{models.TeamRoleOwner, models.TeamRoleAdmin}).
		Find(&members).Error; err != nil {
		return
	}

	for _, m := range members {
		s.notifier.Notify(m.UserID, models.NotificationApplication, map[string]interface{}{
			"application_id": application.ID,
			"opportunity_id": application.OpportunityID,
			"status":         status,
		})
	}
}

func (s *OpportunityService) notifyClosedApplicants(opportunityID uint) {
	var applications []models.TeamApplication
	if err := s.db.Where("opportunity_id = ?", opportunityID).Find(&applications).Error; err != nil {
		return
	}

	for i := range applications {
		s.notifyTeamOfApplication(&applications[i], applications[i].Status)
	}
}
