// services/visibility.go - team visibility resolution and anonymization
package services

import (
	"strings"
	"time"

	"teamlift/models"

	"gorm.io/gorm"
)

// Viewer is the resolved actor context a request carries into every
// access decision.
type Viewer struct {
	UserID    uint
	Role      models.UserRole
	CompanyID *uint
	Verified  bool
}

// Decision is the outcome of a visibility check. Reason is user-facing.
type Decision struct {
	CanView bool   `json:"can_view"`
	Reason  string `json:"reason,omitempty"`
}

const (
	ReasonVerificationRequired = "verification required"
	ReasonBlocked              = "blocked"
)

type VisibilityService struct {
	db           *gorm.DB
	verification *VerificationService
}

func NewVisibilityService(db *gorm.DB, verification *VerificationService) *VisibilityService {
	return &VisibilityService{db: db, verification: verification}
}

// ResolveViewer builds the viewer context for an authenticated user.
func (s *VisibilityService) ResolveViewer(userID uint, role models.UserRole) (Viewer, error) {
	viewer := Viewer{UserID: userID, Role: role}

	verified, companyID, err := s.verification.IsVerifiedCompanyUser(userID)
	if err != nil {
		return viewer, err
	}
	viewer.Verified = verified
	viewer.CompanyID = companyID

	return viewer, nil
}

// CanView decides whether the viewer may see the team at all. Pure
// decision function: the tier check runs first, then the block-list
// check, so a blocked verified company gets the block-specific reason
// instead of a generic denial.
func (s *VisibilityService) CanView(team *models.Team, viewer Viewer) Decision {
	if team.EffectiveAnonymous() && !s.eligibleForAnonymous(team, viewer) {
		return Decision{CanView: false, Reason: ReasonVerificationRequired}
	}

	if viewer.CompanyID != nil && team.IsBlocked(*viewer.CompanyID) {
		return Decision{CanView: false, Reason: ReasonBlocked}
	}

	return Decision{CanView: true}
}

// eligibleForAnonymous: verified company users, the team's owner and
// active members, and admins may see anonymous-tier teams. Selective
// teams take the same path until an allow-list exists.
func (s *VisibilityService) eligibleForAnonymous(team *models.Team, viewer Viewer) bool {
	if viewer.Role == models.RoleAdmin {
		return true
	}
	if s.IsTeamInsider(team, viewer.UserID) {
		return true
	}
	return viewer.Verified
}

// IsTeamInsider reports whether the user owns the team or is an active member.
func (s *VisibilityService) IsTeamInsider(team *models.Team, userID uint) bool {
	if team.CreatedBy == userID {
		return true
	}
	for _, m := range team.Members {
		if m.UserID == userID && m.IsActive {
			return true
		}
	}
	return false
}

// FilterTeams drops every team the viewer may not see. Anonymous teams
// are removed for ineligible viewers, never shown-and-masked. Search and
// every export path go through this one function so the three checks
// always run in the same order.
func (s *VisibilityService) FilterTeams(teams []models.Team, viewer Viewer) []models.Team {
	visible := make([]models.Team, 0, len(teams))
	for i := range teams {
		if s.CanView(&teams[i], viewer).CanView {
			visible = append(visible, teams[i])
		}
	}
	return visible
}

// TeamView is the outward projection of a team for a given viewer.
type TeamView struct {
	ID          uint                  `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Location    string                `json:"location"`
	Visibility  models.TeamVisibility `json:"visibility"`
	IsAnonymous bool                  `json:"is_anonymous"`
	MemberCount int                   `json:"member_count"`
	Members     []TeamMemberView      `json:"members,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

type TeamMemberView struct {
	Role      models.TeamRole `json:"role"`
	Seniority string          `json:"seniority"`
	Name      string          `json:"name,omitempty"`
}

// ProjectTeam renders a team for a viewer that already passed CanView.
// Identity fields are masked whenever the team is effectively anonymous
// and the viewer is not an insider or admin.
func (s *VisibilityService) ProjectTeam(team *models.Team, viewer Viewer) TeamView {
	masked := team.EffectiveAnonymous() &&
		viewer.Role != models.RoleAdmin &&
		!s.IsTeamInsider(team, viewer.UserID)

	view := TeamView{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		Location:    team.Location,
		Visibility:  team.Visibility,
		IsAnonymous: team.EffectiveAnonymous(),
		CreatedAt:   team.CreatedAt,
	}

	for _, m := range team.Members {
		if !m.IsActive {
			continue
		}
		view.MemberCount++
		member := TeamMemberView{Role: m.Role, Seniority: m.Seniority}
		if !masked && m.User != nil {
			member.Name = m.User.FullName()
		}
		view.Members = append(view.Members, member)
	}

	if masked {
		view.Name = "Confidential Team"
		view.Location = GeneralizeLocation(team.Location, true)
	}

	return view
}

// cityRegions generalizes a city to a coarse region for anonymized
// projections.
var cityRegions = map[string]string{
	"new york":      "Northeast US",
	"boston":        "Northeast US",
	"philadelphia":  "Northeast US",
	"san francisco": "West Coast US",
	"los angeles":   "West Coast US",
	"san diego":     "West Coast US",
	"seattle":       "Pacific Northwest US",
	"portland":      "Pacific Northwest US",
	"austin":        "South US",
	"dallas":        "South US",
	"houston":       "South US",
	"miami":         "Southeast US",
	"atlanta":       "Southeast US",
	"chicago":       "Midwest US",
	"detroit":       "Midwest US",
	"denver":        "Mountain US",
	"london":        "United Kingdom",
	"manchester":    "United Kingdom",
	"berlin":        "Central Europe",
	"munich":        "Central Europe",
	"amsterdam":     "Western Europe",
	"paris":         "Western Europe",
	"toronto":       "Canada",
	"vancouver":     "Canada",
	"remote":        "Remote",
}

// GeneralizeLocation maps a city to its region when the surrounding
// projection is anonymized. A raw city name is only ever kept for
// non-anonymized projections; an anonymized miss falls back to
// "Undisclosed", never the original string.
func GeneralizeLocation(location string, anonymized bool) string {
	if !anonymized {
		return location
	}
	if region, ok := cityRegions[strings.ToLower(strings.TrimSpace(location))]; ok {
		return region
	}
	return "Undisclosed"
}
