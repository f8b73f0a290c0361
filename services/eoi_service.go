// services/eoi_service.go - expression of interest lifecycle
package services

import (
	"errors"
	"time"

	"teamlift/apperrors"
	"teamlift/models"

	"gorm.io/gorm"
)

type EOIService struct {
	db       *gorm.DB
	teams    *TeamService
	notifier Notifier
	email    EmailSender
}

func NewEOIService(db *gorm.DB, teams *TeamService, notifier Notifier, email EmailSender) *EOIService {
	return &EOIService{db: db, teams: teams, notifier: notifier, email: email}
}

// CreateEOI opens a pending expression of interest. The duplicate check
// runs inside the transaction; the partial unique index on eois is the
// authoritative guard under concurrent identical submissions.
func (s *EOIService) CreateEOI(viewer Viewer, fromType models.EntityType, fromID uint, toType models.EntityType, toID uint, level models.InterestLevel, message string) (*models.ExpressionOfInterest, error) {
	switch level {
	case models.InterestLow, models.InterestMedium, models.InterestHigh:
	case "":
		level = models.InterestMedium
	default:
		return nil, apperrors.ErrInvalidInput
	}

	if err := s.authorizeSender(viewer, fromType, fromID); err != nil {
		return nil, err
	}

	anonymous := false
	if toType == models.EntityTeam {
		team, err := s.teams.GetTeam(toID)
		if err != nil {
			return nil, err
		}

		if anonymous = team.EffectiveAnonymous(); anonymous && !viewer.Verified && viewer.Role != models.RoleAdmin {
			return nil, apperrors.ErrVerificationRequired
		}
		if viewer.CompanyID != nil && team.IsBlocked(*viewer.CompanyID) {
			return nil, apperrors.ErrBlocked
		}
	}

	now := time.Now()
	eoi := &models.ExpressionOfInterest{
		FromType:      fromType,
		FromID:        fromID,
		ToType:        toType,
		ToID:          toID,
		Status:        models.EOIPending,
		InterestLevel: level,
		Message:       message,
		IsAnonymous:   anonymous, // snapshot, never recomputed
		ExpiresAt:     now.Add(models.EOIWindow),
		CreatedBy:     viewer.UserID,
		CreatedAt:     now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ExpressionOfInterest{}).
			Where("from_id = ? AND to_type = ? AND to_id = ? AND status = ?",
				fromID, toType, toID, models.EOIPending).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrDuplicatePending
		}

		return tx.Create(eoi).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost the race against an identical pending submission
		return nil, apperrors.ErrDuplicatePending
	}
	if err != nil {
		return nil, err
	}

	if toType == models.EntityTeam {
		go s.notifyTeamAdmins(toID, eoi.ID)
	}

	return eoi, nil
}

// authorizeSender checks the viewer speaks for the EOI's from side:
// company membership for company sources, team admin for team sources.
func (s *EOIService) authorizeSender(viewer Viewer, fromType models.EntityType, fromID uint) error {
	if viewer.Role == models.RoleAdmin {
		return nil
	}

	switch fromType {
	case models.EntityCompany:
		if viewer.CompanyID != nil && *viewer.CompanyID == fromID {
			return nil
		}
		return apperrors.ErrForbiddenRole
	case models.EntityTeam:
		if s.teams.IsTeamAdmin(viewer.UserID, fromID) {
			return nil
		}
		return apperrors.ErrForbiddenRole
	default:
		return apperrors.ErrInvalidInput
	}
}

// GetEOI reads one EOI with lazy expiry applied: a pending row past its
// window is presented as expired even before the sweep flips it.
func (s *EOIService) GetEOI(id uint) (*models.ExpressionOfInterest, error) {
	var eoi models.ExpressionOfInterest
	if err := s.db.First(&eoi, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	eoi.Status = eoi.EffectiveStatus(time.Now())
	return &eoi, nil
}

// GetEOIFor is GetEOI gated to the parties of the EOI: its creator,
// whoever speaks for the sending side, the receiving side, or an admin.
func (s *EOIService) GetEOIFor(id uint, viewer Viewer) (*models.ExpressionOfInterest, error) {
	eoi, err := s.GetEOI(id)
	if err != nil {
		return nil, err
	}

	if viewer.Role == models.RoleAdmin || eoi.CreatedBy == viewer.UserID {
		return eoi, nil
	}
	if s.authorizeSender(viewer, eoi.FromType, eoi.FromID) == nil {
		return eoi, nil
	}
	if s.authorizeResponder(eoi, viewer) == nil {
		return eoi, nil
	}
	return nil, apperrors.ErrForbiddenRole
}

// ListEOIsFor returns EOIs targeting an entity, lazy expiry applied.
func (s *EOIService) ListEOIsFor(toType models.EntityType, toID uint) ([]models.ExpressionOfInterest, error) {
	var eois []models.ExpressionOfInterest
	err := s.db.Where("to_type = ? AND to_id = ?", toType, toID).
		Order("created_at DESC").
		Find(&eois).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range eois {
		eois[i].Status = eois[i].EffectiveStatus(now)
	}
	return eois, nil
}

// Respond moves a pending EOI to accepted or declined. Terminal EOIs are
// immutable except for admin override.
func (s *EOIService) Respond(id uint, viewer Viewer, accept bool) (*models.ExpressionOfInterest, error) {
	var eoi models.ExpressionOfInterest
	if err := s.db.First(&eoi, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if err := s.authorizeResponder(&eoi, viewer); err != nil {
		return nil, err
	}

	now := time.Now()
	if eoi.EffectiveStatus(now) != models.EOIPending && viewer.Role != models.RoleAdmin {
		return nil, apperrors.ErrInvalidTransition
	}

	status := models.EOIDeclined
	if accept {
		status = models.EOIAccepted
	}

	err := s.db.Model(&eoi).Updates(map[string]interface{}{
		"status":       status,
		"responded_at": now,
		"updated_at":   now,
	}).Error
	if err != nil {
		return nil, err
	}

	eoi.Status = status
	eoi.RespondedAt = &now

	s.notifier.Notify(eoi.CreatedBy, models.NotificationEOIResponse, map[string]interface{}{
		"eoi_id": eoi.ID,
		"status": status,
	})

	return &eoi, nil
}

// authorizeResponder: the receiving party transitions the EOI forward.
// For team targets that means a team owner/admin; admins may always act.
func (s *EOIService) authorizeResponder(eoi *models.ExpressionOfInterest, viewer Viewer) error {
	if viewer.Role == models.RoleAdmin {
		return nil
	}

	if eoi.ToType == models.EntityTeam {
		if s.teams.IsTeamAdmin(viewer.UserID, eoi.ToID) {
			return nil
		}
		return apperrors.ErrForbiddenRole
	}

	if eoi.ToType == models.EntityCompany {
		if viewer.CompanyID != nil && *viewer.CompanyID == eoi.ToID {
			return nil
		}
	}
	return apperrors.ErrForbiddenRole
}

// ExpireOverdue flips persisted status of pending EOIs past their window.
// Readers already treat them as expired; this keeps the store consistent.
func (s *EOIService) ExpireOverdue() (int64, error) {
	result := s.db.Model(&models.ExpressionOfInterest{}).
		Where("status = ? AND expires_at < ?", models.EOIPending, time.Now()).
		Update("status", models.EOIExpired)
	return result.RowsAffected, result.Error
}

func (s *EOIService) notifyTeamAdmins(teamID, eoiID uint) {
	adminIDs, err := s.teams.AdminMemberIDs(teamID)
	if err != nil {
		return
	}

	for _, uid := range adminIDs {
		s.notifier.Notify(uid, models.NotificationEOIReceived, map[string]interface{}{
			"eoi_id":  eoiID,
			"team_id": teamID,
		})

		var user models.User
		if err := s.db.First(&user, uid).Error; err == nil {
			s.email.Send(user.Email, "New expression of interest",
				"A company has expressed interest in your team on TeamLift.")
		}
	}
}
