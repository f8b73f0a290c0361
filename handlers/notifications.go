// handlers/notifications.go
package handlers

import (
	"strconv"

	"teamlift/database"
	"teamlift/middleware"
	"teamlift/models"
	"teamlift/utils"

	"github.com/gofiber/fiber/v2"
)

// ListNotifications lists the caller's notifications, newest first
// GET /api/notifications
func ListNotifications(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var notifications []models.Notification
	err = database.GetDB().Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"notifications": notifications, "count": len(notifications)})
}

// MarkNotificationRead marks one notification as read
// PUT /api/notifications/:id/read
func MarkNotificationRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid notification ID"})
	}

	result := database.GetDB().Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return utils.Error(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Notification not found"})
	}

	return utils.Success(c, fiber.Map{"message": "Notification marked read"})
}

// UpdatePreferences updates the caller's notification preferences
// PUT /api/notifications/preferences
func UpdatePreferences(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		NotifyMessages bool `json:"notify_messages"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	err = database.GetDB().Model(&models.User{}).Where("id = ?", userID).
		Update("notify_messages", req.NotifyMessages).Error
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Preferences updated"})
}
