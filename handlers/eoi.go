// handlers/eoi.go - expression of interest surface
package handlers

import (
	"strconv"

	"teamlift/apperrors"
	"teamlift/models"
	"teamlift/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateEOI opens a pending expression of interest
// POST /api/eoi
func CreateEOI(c *fiber.Ctx) error {
	viewer, err := resolveViewer(c)
	if err != nil {
		return err
	}

	var req struct {
		FromType      string `json:"from_type"`
		FromID        uint   `json:"from_id"`
		ToType        string `json:"to_type"`
		ToID          uint   `json:"to_id"`
		InterestLevel string `json:"interest_level"`
		Message       string `json:"message"`
	}

	if err := c.BodyParser(&req); err != nil || req.FromID == 0 || req.ToID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	eoi, err := eoiService.CreateEOI(viewer,
		models.EntityType(req.FromType), req.FromID,
		models.EntityType(req.ToType), req.ToID,
		models.InterestLevel(req.InterestLevel), req.Message)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{"eoi": eoi})
}

// GetEOI reads one EOI, lazy expiry applied. Only the parties to the
// EOI (and admins) may read it.
// GET /api/eoi/:id
func GetEOI(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid EOI ID"})
	}

	viewer, err := resolveViewer(c)
	if err != nil {
		return err
	}

	eoi, err := eoiService.GetEOIFor(uint(id), viewer)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"eoi": eoi})
}

// ListTeamEOIs lists EOIs targeting a team (team owners/admins only)
// GET /api/teams/:id/eoi
func ListTeamEOIs(c *fiber.Ctx) error {
	viewer, err := resolveViewer(c)
	if err != nil {
		return err
	}

	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	if viewer.Role != models.RoleAdmin && !teamService.IsTeamAdmin(viewer.UserID, uint(teamID)) {
		return utils.Error(c, apperrors.ErrForbiddenRole)
	}

	eois, err := eoiService.ListEOIsFor(models.EntityTeam, uint(teamID))
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"eois": eois, "count": len(eois)})
}

// RespondEOI accepts or declines a pending EOI
// POST /api/eoi/:id/respond
func RespondEOI(c *fiber.Ctx) error {
	viewer, err := resolveViewer(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid EOI ID"})
	}

	var req struct {
		Accept bool `json:"accept"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	eoi, err := eoiService.Respond(uint(id), viewer, req.Accept)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"eoi": eoi})
}
