// models/eoi.go
package models

import "time"

type EOIStatus string

const (
	EOIPending  EOIStatus = "pending"
	EOIAccepted EOIStatus = "accepted"
	EOIDeclined EOIStatus = "declined"
	EOIExpired  EOIStatus = "expired"
)

type InterestLevel string

const (
	InterestLow    InterestLevel = "low"
	InterestMedium InterestLevel = "medium"
	InterestHigh   InterestLevel = "high"
)

type EntityType string

const (
	EntityTeam        EntityType = "team"
	EntityCompany     EntityType = "company"
	EntityOpportunity EntityType = "opportunity"
)

// EOIWindow is how long an expression of interest stays open.
const EOIWindow = 30 * 24 * time.Hour

type ExpressionOfInterest struct {
	ID       uint       `json:"id" gorm:"primaryKey"`
	FromType EntityType `json:"from_type" gorm:"not null"`
	FromID   uint       `json:"from_id" gorm:"not null;index:idx_eoi_pair"`
	ToType   EntityType `json:"to_type" gorm:"not null;index:idx_eoi_pair"`
	ToID     uint       `json:"to_id" gorm:"not null;index:idx_eoi_pair"`

	Status        EOIStatus     `json:"status" gorm:"not null;default:'pending';index"`
	InterestLevel InterestLevel `json:"interest_level" gorm:"not null;default:'medium'"`
	Message       string        `json:"message" gorm:"type:text"`

	// Snapshot of the target team's anonymity at creation. Immutable.
	IsAnonymous bool `json:"is_anonymous" gorm:"not null"`

	ExpiresAt   time.Time  `json:"expires_at" gorm:"not null;index"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedBy   uint       `json:"created_by" gorm:"not null"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (ExpressionOfInterest) TableName() string {
	return "eois"
}

func (e *ExpressionOfInterest) Terminal() bool {
	return e.Status != EOIPending
}

// EffectiveStatus applies lazy expiry: a pending EOI read past its window
// is expired even if the background sweep has not flipped the row yet.
func (e *ExpressionOfInterest) EffectiveStatus(now time.Time) EOIStatus {
	if e.Status == EOIPending && now.After(e.ExpiresAt) {
		return EOIExpired
	}
	return e.Status
}
