// handlers/admin/companies.go - verification review queue
package admin

import (
	"strconv"

	"teamlift/database"
	"teamlift/models"
	"teamlift/services"
	"teamlift/utils"

	"github.com/gofiber/fiber/v2"
)

var (
	companyService *services.CompanyService
	exportService  *services.ExportService
)

// InitAdminHandlers wires the admin surface against the shared database.
func InitAdminHandlers() {
	db := database.GetDB()
	if db == nil {
		panic("Database not initialized before InitAdminHandlers")
	}

	notifier := services.NewDBNotifier(db)
	companyService = services.NewCompanyService(db, notifier)

	verification := services.NewVerificationService(db)
	visibility := services.NewVisibilityService(db, verification)
	teams := services.NewTeamService(db, visibility)
	conversations := services.NewConversationService(db, teams, notifier, services.NewSendGridSender())
	exportService = services.NewExportService(db, teams, visibility, conversations)
}

// GetPendingCompanies lists companies waiting on verification review
// GET /api/admin/companies/pending
func GetPendingCompanies(c *fiber.Ctx) error {
	companies, err := companyService.ListPendingVerifications()
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"companies": companies, "count": len(companies)})
}

// VerifyCompany approves a pending verification request
// POST /api/admin/companies/:id/verify
func VerifyCompany(c *fiber.Ctx) error {
	return reviewCompany(c, true)
}

// RejectCompany rejects a pending verification request
// POST /api/admin/companies/:id/reject
func RejectCompany(c *fiber.Ctx) error {
	return reviewCompany(c, false)
}

func reviewCompany(c *fiber.Ctx, approve bool) error {
	companyID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid company ID"})
	}

	company, err := companyService.ReviewVerification(uint(companyID), approve)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"company": company})
}

// GetCompanies lists every company with its verification status
// GET /api/admin/companies
func GetCompanies(c *fiber.Ctx) error {
	var companies []models.Company
	if err := database.GetDB().Order("created_at DESC").Find(&companies).Error; err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"companies": companies, "count": len(companies)})
}
