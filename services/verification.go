// services/verification.go - company verification gate
package services

import (
	"errors"

	"teamlift/models"

	"gorm.io/gorm"
)

type VerificationService struct {
	db *gorm.DB
}

func NewVerificationService(db *gorm.DB) *VerificationService {
	return &VerificationService{db: db}
}

// CompanyMembership is the first-match company link for a user, or nil.
// The unique index on company_users.user_id makes first-match deterministic.
func (s *VerificationService) CompanyMembership(userID uint) (*models.CompanyUser, error) {
	var membership models.CompanyUser
	err := s.db.Where("user_id = ?", userID).
		Order("id ASC").
		Preload("Company").
		First(&membership).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &membership, nil
}

// IsVerifiedCompanyUser reports whether the user belongs to a verified
// company, and which one. Gates anonymous-tier reads and confidential
// contact; also reused by the export filter.
func (s *VerificationService) IsVerifiedCompanyUser(userID uint) (bool, *uint, error) {
	membership, err := s.CompanyMembership(userID)
	if err != nil {
		return false, nil, err
	}
	if membership == nil || membership.Company == nil {
		return false, nil, nil
	}

	companyID := membership.CompanyID
	return membership.Company.IsVerified(), &companyID, nil
}
