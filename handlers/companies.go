// handlers/companies.go - company surface
package handlers

import (
	"strconv"

	"teamlift/middleware"
	"teamlift/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateCompany creates a company with the caller as its first user
// POST /api/companies
func CreateCompany(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Website     string `json:"website"`
		Industry    string `json:"industry"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	company, err := companyService.CreateCompany(req.Name, req.Description, req.Website, req.Industry, userID)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{"company": company})
}

// GetCompany retrieves a company
// GET /api/companies/:id
func GetCompany(c *fiber.Ctx) error {
	companyID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid company ID"})
	}

	company, err := companyService.GetCompany(uint(companyID))
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"company": company})
}

// RequestVerification queues the company for admin review
// POST /api/companies/:id/verification
func RequestVerification(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	companyID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid company ID"})
	}

	if err := companyService.RequestVerification(uint(companyID), userID); err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Verification requested"})
}
