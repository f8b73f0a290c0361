// handlers/opportunities.go - opportunity and application surface
package handlers

import (
	"strconv"

	"teamlift/apperrors"
	"teamlift/models"
	"teamlift/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateOpportunity creates an opportunity for the caller's company
// POST /api/opportunities
func CreateOpportunity(c *fiber.Ctx) error {
	viewer, err := resolveViewer(c)
	if err != nil {
		return err
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Location    string `json:"location"`
		Visibility  string `json:"visibility"`
		TeamSizeMin int    `json:"team_size_min"`
		TeamSizeMax int    `json:"team_size_max"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	opportunity, err := opportunityService.CreateOpportunity(viewer, req.Title, req.Description,
		req.Location, models.OpportunityVisibility(req.Visibility), req.TeamSizeMin, req.TeamSizeMax)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{"opportunity": opportunity})
}

// ListOpportunities lists active public opportunities
// GET /api/opportunities
func ListOpportunities(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	opportunities, err := opportunityService.ListOpenOpportunities(limit)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"opportunities": opportunities, "count": len(opportunities)})
}

// GetOpportunity retrieves one opportunity
// GET /api/opportunities/:id
func GetOpportunity(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid opportunity ID"})
	}

	opportunity, err := opportunityService.GetOpportunity(uint(id))
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"opportunity": opportunity})
}

// UpdateOpportunityStatus pauses or resumes an opportunity
// PUT /api/opportunities/:id/status
func UpdateOpportunityStatus(c *fiber.Ctx) error {
	viewer, err := resolveViewer(c)
	if err != nil {
		return err
	}

	opportunityID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid opportunity ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	opportunity, err := opportunityService.SetStatus(uint(opportunityID), viewer,
		models.OpportunityStatus(req.Status))
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"opportunity": opportunity})
}

// Apply submits a team application
// POST /api/opportunities/:id/applications
func Apply(c *fiber.Ctx) error {
	viewer, err := resolveViewer(c)
	if err != nil {
		return err
	}

	opportunityID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid opportunity ID"})
	}

	var req struct {
		TeamID    uint   `json:"team_id"`
		CoverNote string `json:"cover_note"`
	}
	if err := c.BodyParser(&req); err != nil || req.TeamID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	// Only team owners/admins submit on the team's behalf
	if !teamService.IsTeamAdmin(viewer.UserID, req.TeamID) {
		return utils.Error(c, apperrors.ErrForbiddenRole)
	}

	application, err := opportunityService.Apply(viewer, req.TeamID, uint(opportunityID), req.CoverNote)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{"application": application})
}

// ListApplications lists an opportunity's applications for its owners
// GET /api/opportunities/:id/applications
func ListApplications(c *fiber.Ctx) error {
	viewer, err := resolveViewer(c)
	if err != nil {
		return err
	}

	opportunityID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid opportunity ID"})
	}

	applications, err := opportunityService.ListApplications(uint(opportunityID), viewer)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"applications": applications, "count": len(applications)})
}

// TransitionApplication moves an application through its state machine
// PUT /api/applications/:id/status
func TransitionApplication(c *fiber.Ctx) error {
	viewer, err := resolveViewer(c)
	if err != nil {
		return err
	}

	applicationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid application ID"})
	}

	var req struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	application, err := opportunityService.Transition(uint(applicationID), viewer,
		models.ApplicationStatus(req.Status), req.Reason)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"application": application})
}

// CloseOpportunity fills the opportunity and settles its applications
// POST /api/opportunities/:id/close
func CloseOpportunity(c *fiber.Ctx) error {
	viewer, err := resolveViewer(c)
	if err != nil {
		return err
	}

	opportunityID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid opportunity ID"})
	}

	var req struct {
		SelectedTeamID *uint  `json:"selected_team_id"`
		Reason         string `json:"reason"`
	}
	_ = c.BodyParser(&req) // empty body closes with no selected team

	opportunity, err := opportunityService.CloseOpportunity(uint(opportunityID), viewer, req.SelectedTeamID, req.Reason)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"opportunity": opportunity})
}

// ReopenOpportunity reverses the close for the opportunity record only
// DELETE /api/opportunities/:id/close
func ReopenOpportunity(c *fiber.Ctx) error {
	viewer, err := resolveViewer(c)
	if err != nil {
		return err
	}

	opportunityID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid opportunity ID"})
	}

	opportunity, err := opportunityService.ReopenOpportunity(uint(opportunityID), viewer)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"opportunity": opportunity})
}
