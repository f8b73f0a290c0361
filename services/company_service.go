// services/company_service.go - company lifecycle and verification review
package services

import (
	"time"

	"teamlift/apperrors"
	"teamlift/models"

	"gorm.io/gorm"
)

type CompanyService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewCompanyService(db *gorm.DB, notifier Notifier) *CompanyService {
	return &CompanyService{db: db, notifier: notifier}
}

// CreateCompany creates a company and links the creator as its first
// company user. The unique index on company_users.user_id rejects a
// second membership.
func (s *CompanyService) CreateCompany(name, description, website, industry string, creatorID uint) (*models.Company, error) {
	if name == "" {
		return nil, apperrors.ErrInvalidInput
	}

	company := &models.Company{
		Name:               name,
		Description:        description,
		Website:            website,
		Industry:           industry,
		VerificationStatus: models.VerificationUnverified,
		CreatorID:          creatorID,
		CreatedAt:          time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			return err
		}

		membership := &models.CompanyUser{
			CompanyID: company.ID,
			UserID:    creatorID,
			CreatedAt: time.Now(),
		}
		return tx.Create(membership).Error
	})
	if err != nil {
		return nil, err
	}

	return company, nil
}

func (s *CompanyService) GetCompany(id uint) (*models.Company, error) {
	var company models.Company
	err := s.db.First(&company, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// RequestVerification moves an unverified or rejected company to pending.
func (s *CompanyService) RequestVerification(companyID, userID uint) error {
	var membership models.CompanyUser
	if err := s.db.Where("company_id = ? AND user_id = ?", companyID, userID).First(&membership).Error; err != nil {
		return apperrors.ErrForbiddenRole
	}

	company, err := s.GetCompany(companyID)
	if err != nil {
		return err
	}

	switch company.VerificationStatus {
	case models.VerificationUnverified, models.VerificationRejected:
	default:
		return apperrors.ErrInvalidTransition
	}

	return s.db.Model(company).Updates(map[string]interface{}{
		"verification_status": models.VerificationPending,
		"updated_at":          time.Now(),
	}).Error
}

// ListPendingVerifications is the admin review queue.
func (s *CompanyService) ListPendingVerifications() ([]models.Company, error) {
	var companies []models.Company
	err := s.db.Where("verification_status = ?", models.VerificationPending).
		Order("updated_at ASC").
		Find(&companies).Error
	return companies, err
}

// ReviewVerification resolves a pending request (admin only surface).
func (s *CompanyService) ReviewVerification(companyID uint, approve bool) (*models.Company, error) {
	company, err := s.GetCompany(companyID)
	if err != nil {
		return nil, err
	}

	if company.VerificationStatus != models.VerificationPending {
		return nil, apperrors.ErrInvalidTransition
	}

	now := time.Now()
	status := models.VerificationRejected
	updates := map[string]interface{}{
		"verification_status": status,
		"updated_at":          now,
	}
	if approve {
		status = models.VerificationVerified
		updates["verification_status"] = status
		updates["verified_at"] = now
	}

	if err := s.db.Model(company).Updates(updates).Error; err != nil {
		return nil, err
	}
	company.VerificationStatus = status

	s.notifier.Notify(company.CreatorID, models.NotificationApplication, map[string]interface{}{
		"company_id": company.ID,
		"status":     status,
	})

	return company, nil
}
