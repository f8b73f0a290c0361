// handlers/conversations.go - confidential contact surface
package handlers

import (
	"strconv"

	"teamlift/middleware"
	"teamlift/utils"

	"github.com/gofiber/fiber/v2"
)

// StartConversation opens a conversation with a team. Contacting an
// anonymous team is a two-phase handshake: the first call without
// accept_nda fails with nda_required, the second carries acceptance.
// POST /api/conversations
func StartConversation(c *fiber.Ctx) error {
	viewer, err := resolveViewer(c)
	if err != nil {
		return err
	}

	var req struct {
		TeamID    uint   `json:"team_id"`
		Subject   string `json:"subject"`
		Message   string `json:"message"`
		AcceptNDA bool   `json:"accept_nda"`
	}

	if err := c.BodyParser(&req); err != nil || req.TeamID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	conversation, err := conversationService.StartConversation(viewer, req.TeamID, req.Subject, req.Message, req.AcceptNDA)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{"conversation": conversation})
}

// ListConversations lists the caller's conversations, projected
// GET /api/conversations
func ListConversations(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	views, err := conversationService.ListConversations(userID)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"conversations": views, "count": len(views)})
}

// GetConversation returns one conversation projected for the caller
// GET /api/conversations/:id
func GetConversation(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	conversationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid conversation ID"})
	}

	view, err := conversationService.ProjectConversation(uint(conversationID), userID)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"conversation": view})
}

// SendMessage appends a message to a conversation
// POST /api/conversations/:id/messages
func SendMessage(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	conversationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid conversation ID"})
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	message, err := conversationService.SendMessage(uint(conversationID), userID, req.Body)
	if err != nil {
		return utils.Error(c, err)
	}

	if view, viewErr := conversationService.BroadcastView(uint(conversationID), message); viewErr == nil {
		go BroadcastMessage(uint(conversationID), view)
	}

	return utils.Created(c, fiber.Map{"message": message})
}

// LeaveConversation marks the caller as departed
// POST /api/conversations/:id/leave
func LeaveConversation(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	conversationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid conversation ID"})
	}

	if err := conversationService.LeaveConversation(uint(conversationID), userID); err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Left conversation"})
}
