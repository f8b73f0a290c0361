// handlers/admin/users.go
package admin

import (
	"strconv"

	"teamlift/database"
	"teamlift/models"
	"teamlift/utils"

	"github.com/gofiber/fiber/v2"
)

// GetUsers lists accounts
// GET /api/admin/users
func GetUsers(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var users []models.User
	err := database.GetDB().Where("is_deleted = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"users": users, "count": len(users)})
}

// GetUser retrieves one account
// GET /api/admin/users/:id
func GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid user ID"})
	}

	var user models.User
	if err := database.GetDB().First(&user, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	return utils.Success(c, fiber.Map{"user": user})
}

// DeleteUser runs the GDPR redaction for an account (admin override)
// DELETE /api/admin/users/:id
func DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid user ID"})
	}

	if err := exportService.DeleteAccount(uint(id)); err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "User deleted"})
}
