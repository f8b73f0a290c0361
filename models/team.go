// models/team.go
package models

import "time"

type TeamVisibility string

const (
	VisibilityPublic    TeamVisibility = "public"
	VisibilityAnonymous TeamVisibility = "anonymous"
	VisibilitySelective TeamVisibility = "selective"
)

type Team struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null;size:100"`
	Description string         `json:"description" gorm:"type:text"`
	Location    string         `json:"location"`
	Visibility  TeamVisibility `json:"visibility" gorm:"not null;default:'public';index"`

	// Legacy alias for Visibility == anonymous. Kept until backfilled;
	// every read path must go through EffectiveAnonymous.
	IsAnonymous bool `json:"is_anonymous" gorm:"default:false"`

	IsActive  bool      `json:"is_active" gorm:"default:true;index"`
	CreatedBy uint      `json:"created_by" gorm:"not null"`
	Creator   *User     `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Members          []TeamMember         `json:"members,omitempty" gorm:"foreignKey:TeamID"`
	BlockedCompanies []TeamBlockedCompany `json:"-" gorm:"foreignKey:TeamID"`
}

func (Team) TableName() string {
	return "teams"
}

// EffectiveAnonymous is the OR of the tier and the legacy flag. Selective
// teams count as anonymous for access purposes until an allow-list exists.
func (t *Team) EffectiveAnonymous() bool {
	return t.Visibility == VisibilityAnonymous || t.Visibility == VisibilitySelective || t.IsAnonymous
}

func (t *Team) IsBlocked(companyID uint) bool {
	for _, b := range t.BlockedCompanies {
		if b.CompanyID == companyID {
			return true
		}
	}
	return false
}

type TeamRole string

const (
	TeamRoleOwner  TeamRole = "owner"
	TeamRoleAdmin  TeamRole = "admin"
	TeamRoleMember TeamRole = "member"
)

type TeamMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TeamID    uint      `json:"team_id" gorm:"not null;index"`
	Team      *Team     `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Role      TeamRole  `json:"role" gorm:"not null;default:'member'"`
	Seniority string    `json:"seniority"`
	JoinedAt  time.Time `json:"joined_at" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true;index"`
}

func (TeamMember) TableName() string {
	return "team_members"
}

// TeamBlockedCompany marks a company that may never view or contact the team.
type TeamBlockedCompany struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TeamID    uint      `json:"team_id" gorm:"not null;uniqueIndex:idx_team_blocked"`
	CompanyID uint      `json:"company_id" gorm:"not null;uniqueIndex:idx_team_blocked"`
	CreatedAt time.Time `json:"created_at"`
}

func (TeamBlockedCompany) TableName() string {
	return "team_blocked_companies"
}
