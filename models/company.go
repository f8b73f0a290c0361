// models/company.go
package models

import "time"

type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
	VerificationRejected   VerificationStatus = "rejected"
)

type Company struct {
	ID                 uint               `json:"id" gorm:"primaryKey"`
	Name               string             `json:"name" gorm:"not null;size:200"`
	Description        string             `json:"description" gorm:"type:text"`
	Website            string             `json:"website"`
	Industry           string             `json:"industry"`
	VerificationStatus VerificationStatus `json:"verification_status" gorm:"not null;default:'unverified';index"`
	VerifiedAt         *time.Time         `json:"verified_at,omitempty"`
	CreatorID          uint               `json:"creator_id" gorm:"not null"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

func (Company) TableName() string {
	return "companies"
}

func (c *Company) IsVerified() bool {
	return c.VerificationStatus == VerificationVerified
}

// CompanyUser links a user to exactly one company. The unique index on
// user_id enforces the one-company-per-user rule at write time; lookups
// still take the first match.
type CompanyUser struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CompanyID uint      `json:"company_id" gorm:"not null;index"`
	Company   *Company  `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func (CompanyUser) TableName() string {
	return "company_users"
}
