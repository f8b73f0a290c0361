// models/opportunity.go
package models

import "time"

type OpportunityStatus string

const (
	OpportunityActive  OpportunityStatus = "active"
	OpportunityPaused  OpportunityStatus = "paused"
	OpportunityFilled  OpportunityStatus = "filled"
	OpportunityExpired OpportunityStatus = "expired"
)

type OpportunityVisibility string

const (
	OpportunityPublic  OpportunityVisibility = "public"
	OpportunityPrivate OpportunityVisibility = "private"
)

type Opportunity struct {
	ID          uint                  `json:"id" gorm:"primaryKey"`
	CompanyID   uint                  `json:"company_id" gorm:"not null;index"`
	Company     *Company              `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Title       string                `json:"title" gorm:"not null;size:200"`
	Description string                `json:"description" gorm:"type:text"`
	Location    string                `json:"location"`
	TeamSizeMin int                   `json:"team_size_min"`
	TeamSizeMax int                   `json:"team_size_max"`
	Status      OpportunityStatus     `json:"status" gorm:"not null;default:'active';index"`
	Visibility  OpportunityVisibility `json:"visibility" gorm:"not null;default:'public'"`

	// Close/reopen audit trail. Explicit columns so the inverse operation
	// can strip them without touching application rows.
	PreviousStatus OpportunityStatus `json:"previous_status,omitempty"`
	ClosedAt       *time.Time        `json:"closed_at,omitempty"`
	ClosedBy       *uint             `json:"closed_by,omitempty"`
	CloseReason    string            `json:"close_reason,omitempty"`
	SelectedTeamID *uint             `json:"selected_team_id,omitempty"`
	ReopenedAt     *time.Time        `json:"reopened_at,omitempty"`
	ReopenedBy     *uint             `json:"reopened_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Applications []TeamApplication `json:"applications,omitempty" gorm:"foreignKey:OpportunityID"`
}

func (Opportunity) TableName() string {
	return "opportunities"
}

type ApplicationStatus string

const (
	ApplicationSubmitted    ApplicationStatus = "submitted"
	ApplicationReviewing    ApplicationStatus = "reviewing"
	ApplicationInterviewing ApplicationStatus = "interviewing"
	ApplicationAccepted     ApplicationStatus = "accepted"
	ApplicationRejected     ApplicationStatus = "rejected"
)

type TeamApplication struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	TeamID        uint              `json:"team_id" gorm:"not null;uniqueIndex:idx_app_team_opp"`
	Team          *Team             `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	OpportunityID uint              `json:"opportunity_id" gorm:"not null;uniqueIndex:idx_app_team_opp"`
	Opportunity   *Opportunity      `json:"opportunity,omitempty" gorm:"foreignKey:OpportunityID"`
	Status        ApplicationStatus `json:"status" gorm:"not null;default:'submitted';index"`
	CoverNote     string            `json:"cover_note" gorm:"type:text"`

	RejectionReason string     `json:"rejection_reason,omitempty"`
	AppliedAt       time.Time  `json:"applied_at" gorm:"not null"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	FinalDecisionAt *time.Time `json:"final_decision_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (TeamApplication) TableName() string {
	return "team_applications"
}

func (a *TeamApplication) Terminal() bool {
	return a.Status == ApplicationAccepted || a.Status == ApplicationRejected
}

// OpenApplicationStatuses are the states swept by an opportunity close.
func OpenApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{ApplicationSubmitted, ApplicationReviewing, ApplicationInterviewing}
}
