// services/team_service.go - team lifecycle and roster management
package services

import (
	"time"

	"teamlift/apperrors"
	"teamlift/models"

	"gorm.io/gorm"
)

type TeamService struct {
	db         *gorm.DB
	visibility *VisibilityService
}

func NewTeamService(db *gorm.DB, visibility *VisibilityService) *TeamService {
	return &TeamService{db: db, visibility: visibility}
}

// ================== TEAM CRUD OPERATIONS ==================

// CreateTeam creates a new team with the user as owner
func (s *TeamService) CreateTeam(name, description, location string, visibility models.TeamVisibility, creatorID uint) (*models.Team, error) {
	if name == "" {
		return nil, apperrors.ErrInvalidInput
	}

	switch visibility {
	case models.VisibilityPublic, models.VisibilityAnonymous, models.VisibilitySelective:
	case "":
		visibility = models.VisibilityPublic
	default:
		return nil, apperrors.ErrInvalidInput
	}

	team := &models.Team{
		Name:        name,
		Description: description,
		Location:    location,
		Visibility:  visibility,
		IsAnonymous: visibility == models.VisibilityAnonymous,
		IsActive:    true,
		CreatedBy:   creatorID,
		CreatedAt:   time.Now(),
	}

	// Create team and add creator as owner in a transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		member := &models.TeamMember{
			TeamID:   team.ID,
			UserID:   creatorID,
			Role:     models.TeamRoleOwner,
			JoinedAt: time.Now(),
			IsActive: true,
		}

		return tx.Create(member).Error
	})

	if err != nil {
		return nil, err
	}

	return team, nil
}

// GetTeam retrieves a team with roster and block list preloaded.
func (s *TeamService) GetTeam(teamID uint) (*models.Team, error) {
	var team models.Team
	err := s.db.Where("id = ? AND is_active = ?", teamID, true).
		Preload("Members").
		Preload("Members.User").
		Preload("BlockedCompanies").
		First(&team).Error

	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &team, nil
}

// ViewTeam runs the full gate + projection pipeline for one team.
func (s *TeamService) ViewTeam(teamID uint, viewer Viewer) (*TeamView, error) {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, err
	}

	decision := s.visibility.CanView(team, viewer)
	if !decision.CanView {
		if decision.Reason == ReasonBlocked {
			return nil, apperrors.ErrBlocked
		}
		return nil, apperrors.ErrVerificationRequired
	}

	view := s.visibility.ProjectTeam(team, viewer)
	return &view, nil
}

// UpdateTeam updates team fields and visibility tier (owner/admin only).
// Changing the tier never rewrites anonymity snapshots already taken by
// conversations or EOIs.
func (s *TeamService) UpdateTeam(teamID uint, name, description, location string, visibility models.TeamVisibility, updaterID uint) error {
	if !s.IsTeamAdmin(updaterID, teamID) {
		return apperrors.ErrForbiddenRole
	}

	switch visibility {
	case models.VisibilityPublic, models.VisibilityAnonymous, models.VisibilitySelective:
	default:
		return apperrors.ErrInvalidInput
	}

	updates := map[string]interface{}{
		"name":         name,
		"description":  description,
		"location":     location,
		"visibility":   visibility,
		"is_anonymous": visibility == models.VisibilityAnonymous,
		"updated_at":   time.Now(),
	}

	return s.db.Model(&models.Team{}).Where("id = ?", teamID).Updates(updates).Error
}

// DeleteTeam soft deletes a team (owner only)
func (s *TeamService) DeleteTeam(teamID, ownerID uint) error {
	var member models.TeamMember
	if err := s.db.Where("team_id = ? AND user_id = ?", teamID, ownerID).First(&member).Error; err != nil {
		return apperrors.ErrNotFound
	}

	if member.Role != models.TeamRoleOwner {
		return apperrors.ErrForbiddenRole
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", teamID).
			Update("is_active", false).Error; err != nil {
			return err
		}

		return tx.Model(&models.Team{}).Where("id = ?", teamID).
			Update("is_active", false).Error
	})
}

// ================== ROSTER OPERATIONS ==================

// AddMember adds a user to the roster (owner/admin only).
func (s *TeamService) AddMember(teamID, adminID, userID uint, role models.TeamRole, seniority string) error {
	if !s.IsTeamAdmin(adminID, teamID) {
		return apperrors.ErrForbiddenRole
	}

	if role == "" {
		role = models.TeamRoleMember
	}
	if role == models.TeamRoleOwner {
		return apperrors.ErrInvalidInput
	}

	if s.IsTeamMember(userID, teamID) {
		return apperrors.ErrInvalidInput
	}

	member := &models.TeamMember{
		TeamID:    teamID,
		UserID:    userID,
		Role:      role,
		Seniority: seniority,
		JoinedAt:  time.Now(),
		IsActive:  true,
	}

	return s.db.Create(member).Error
}

// RemoveMember deactivates a roster entry (owner/admin only).
func (s *TeamService) RemoveMember(teamID, adminID, memberID uint) error {
	if !s.IsTeamAdmin(adminID, teamID) {
		return apperrors.ErrForbiddenRole
	}

	var targetMember models.TeamMember
	if err := s.db.Where("team_id = ? AND user_id = ?", teamID, memberID).First(&targetMember).Error; err != nil {
		return apperrors.ErrNotFound
	}

	if targetMember.Role == models.TeamRoleOwner {
		return apperrors.ErrForbiddenRole
	}

	return s.db.Model(&targetMember).Update("is_active", false).Error
}

// PromoteMember promotes a member to admin (owner only)
func (s *TeamService) PromoteMember(teamID, ownerID, memberID uint) error {
	var owner models.TeamMember
	if err := s.db.Where("team_id = ? AND user_id = ?", teamID, ownerID).First(&owner).Error; err != nil {
		return apperrors.ErrForbiddenRole
	}

	if owner.Role != models.TeamRoleOwner {
		return apperrors.ErrForbiddenRole
	}

	return s.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, memberID).
		Update("role", models.TeamRoleAdmin).Error
}

// ================== BLOCK LIST OPERATIONS ==================

// BlockCompany adds a company to the team's never-contact list (owner/admin only).
func (s *TeamService) BlockCompany(teamID, adminID, companyID uint) error {
	if !s.IsTeamAdmin(adminID, teamID) {
		return apperrors.ErrForbiddenRole
	}

	var count int64
	s.db.Model(&models.TeamBlockedCompany{}).
		Where("team_id = ? AND company_id = ?", teamID, companyID).
		Count(&count)
	if count > 0 {
		return nil
	}

	block := &models.TeamBlockedCompany{
		TeamID:    teamID,
		CompanyID: companyID,
		CreatedAt: time.Now(),
	}
	return s.db.Create(block).Error
}

// UnblockCompany removes a company from the block list (owner/admin only).
func (s *TeamService) UnblockCompany(teamID, adminID, companyID uint) error {
	if !s.IsTeamAdmin(adminID, teamID) {
		return apperrors.ErrForbiddenRole
	}

	return s.db.Where("team_id = ? AND company_id = ?", teamID, companyID).
		Delete(&models.TeamBlockedCompany{}).Error
}

// ================== SEARCH & DISCOVERY ==================

// SearchTeams lists teams through the visibility pipeline: tier check,
// block-list check, verification-derived filter, then per-team projection.
func (s *TeamService) SearchTeams(query string, limit int, viewer Viewer) ([]TeamView, error) {
	var teams []models.Team

	searchQuery := s.db.Where("is_active = ?", true)

	if query != "" {
		searchQuery = searchQuery.Where("name LIKE ? OR description LIKE ?", "%"+query+"%", "%"+query+"%")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	err := searchQuery.
		Preload("Members", "is_active = ?", true).
		Preload("Members.User").
		Preload("BlockedCompanies").
		Limit(limit).
		Order("created_at DESC").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}

	visible := s.visibility.FilterTeams(teams, viewer)

	views := make([]TeamView, 0, len(visible))
	for i := range visible {
		views = append(views, s.visibility.ProjectTeam(&visible[i], viewer))
	}

	return views, nil
}

// GetUserTeams retrieves all teams a user is a member of
func (s *TeamService) GetUserTeams(userID uint) ([]models.Team, error) {
	var teams []models.Team

	err := s.db.Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ? AND team_members.is_active = ? AND teams.is_active = ?",
			userID, true, true).
		Preload("Members", "is_active = ?", true).
		Preload("Members.User").
		Find(&teams).Error

	return teams, err
}

// ================== HELPER FUNCTIONS ==================

// IsTeamMember checks if a user is an active member of a team
func (s *TeamService) IsTeamMember(userID, teamID uint) bool {
	var count int64
	s.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ? AND is_active = ?", teamID, userID, true).
		Count(&count)
	return count > 0
}

// IsTeamAdmin checks if a user is owner or admin of a team
func (s *TeamService) IsTeamAdmin(userID, teamID uint) bool {
	var member models.TeamMember
	err := s.db.Where("team_id = ? AND user_id = ? AND is_active = ?", teamID, userID, true).
		First(&member).Error

	if err != nil {
		return false
	}

	return member.Role == models.TeamRoleOwner || member.Role == models.TeamRoleAdmin
}

// AdminMemberIDs returns the user ids of the team's active owner and
// admins, the audience for team-targeted notifications.
func (s *TeamService) AdminMemberIDs(teamID uint) ([]uint, error) {
	var members []models.TeamMember
	err := s.db.Where("team_id = ? AND is_active = ? AND role IN ?",
		teamID, true, []models.TeamRole{models.TeamRoleOwner, models.TeamRoleAdmin}).
		Order("id ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids, nil
}
