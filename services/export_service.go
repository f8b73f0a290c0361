// services/export_service.go - bulk export and GDPR redaction
package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"teamlift/apperrors"
	"teamlift/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExportService struct {
	db            *gorm.DB
	teams         *TeamService
	visibility    *VisibilityService
	conversations *ConversationService
}

func NewExportService(db *gorm.DB, teams *TeamService, visibility *VisibilityService, conversations *ConversationService) *ExportService {
	return &ExportService{db: db, teams: teams, visibility: visibility, conversations: conversations}
}

// ExportTeamsCSV writes the viewer's visible teams as CSV. The rows go
// through the exact same filter and projection pipeline as search, so an
// export can never leak a team or a field that search would hide.
func (s *ExportService) ExportTeamsCSV(viewer Viewer) ([]byte, error) {
	views, err := s.teams.SearchTeams("", 100, viewer)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "name", "location", "visibility", "member_count", "created_at"}); err != nil {
		return nil, err
	}

	for _, v := range views {
		record := []string{
			fmt.Sprintf("%d", v.ID),
			v.Name,
			v.Location,
			string(v.Visibility),
			fmt.Sprintf("%d", v.MemberCount),
			v.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportTeamsJSON returns the same projected rows as the CSV export.
func (s *ExportService) ExportTeamsJSON(viewer Viewer) ([]TeamView, error) {
	return s.teams.SearchTeams("", 100, viewer)
}

// AccountExport is a GDPR data export for one user.
type AccountExport struct {
	ExportID      string                        `json:"export_id"`
	GeneratedAt   time.Time                     `json:"generated_at"`
	User          models.User                   `json:"user"`
	Teams         []models.Team                 `json:"teams"`
	Conversations []ConversationView            `json:"conversations"`
	EOIs          []models.ExpressionOfInterest `json:"eois"`
	Applications  []models.TeamApplication      `json:"applications"`
	Notifications []models.Notification         `json:"notifications"`
}

// ExportAccount collects everything stored about a user. Conversations
// are projected through the same anonymization as the live surface, so an
// export never reveals a counterpart the conversation view would mask.
func (s *ExportService) ExportAccount(userID uint) (*AccountExport, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	export := &AccountExport{
		ExportID:    uuid.New().String(),
		GeneratedAt: time.Now(),
		User:        user,
	}

	teams, err := s.teams.GetUserTeams(userID)
	if err != nil {
		return nil, err
	}
	export.Teams = teams

	conversations, err := s.conversations.ListConversations(userID)
	if err != nil {
		return nil, err
	}
	export.Conversations = conversations

	if err := s.db.Where("created_by = ?", userID).Find(&export.EOIs).Error; err != nil {
		return nil, err
	}

	teamIDs := make([]uint, 0, len(teams))
	for _, t := range teams {
		teamIDs = append(teamIDs, t.ID)
	}
	if len(teamIDs) > 0 {
		if err := s.db.Where("team_id IN ?", teamIDs).Find(&export.Applications).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Where("user_id = ?", userID).Find(&export.Notifications).Error; err != nil {
		return nil, err
	}

	return export, nil
}

// DeleteAccount redacts a user in place. Conversations keep their shape
// (other participants' history stays intact) while the departed user's
// identity fields become a placeholder, matching the anonymization the
// projection layer applies.
func (s *ExportService) DeleteAccount(userID uint) error {
	placeholder := fmt.Sprintf("deleted-%s", uuid.New().String()[:8])
	now := time.Now()

	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.User{}).Where("id = ?", userID).
			Updates(map[string]interface{}{
				"email":      placeholder + "@redacted.invalid",
				"first_name": "Deleted",
				"last_name":  "User",
				"headline":   "",
				"location":   "",
				"password":   "",
				"is_deleted": true,
				"updated_at": now,
			}).Error
		if err != nil {
			return err
		}

		if err := tx.Model(&models.ConversationParticipant{}).
			Where("user_id = ? AND left_at IS NULL", userID).
			Update("left_at", now).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.TeamMember{}).Where("user_id = ?", userID).
			Update("is_active", false).Error; err != nil {
			return err
		}

		// drop company memberships so the account no longer resolves
		// as a verified company user
		if err := tx.Where("user_id = ?", userID).
			Delete(&models.CompanyUser{}).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", userID).Delete(&models.Notification{}).Error
	})
}
