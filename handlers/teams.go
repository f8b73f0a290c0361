// handlers/teams.go - team surface
package handlers

import (
	"strconv"

	"teamlift/middleware"
	"teamlift/models"
	"teamlift/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateTeam creates a new team
// POST /api/teams
func CreateTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Location    string `json:"location"`
		Visibility  string `json:"visibility"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	team, err := teamService.CreateTeam(req.Name, req.Description, req.Location,
		models.TeamVisibility(req.Visibility), userID)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{"team": team})
}

// GetTeam retrieves one team through the visibility pipeline
// GET /api/teams/:id
func GetTeam(c *fiber.Ctx) error {
	viewer, err := resolveViewer(c)
	if err != nil {
		return err
	}

	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	view, err := teamService.ViewTeam(uint(teamID), viewer)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"team": view})
}

// SearchTeams lists visible teams
// GET /api/teams/search?q=...&limit=...
func SearchTeams(c *fiber.Ctx) error {
	viewer, err := resolveViewer(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	views, err := teamService.SearchTeams(c.Query("q"), limit, viewer)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"teams": views, "count": len(views)})
}

// GetUserTeams retrieves the caller's teams
// GET /api/teams
func GetUserTeams(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	teams, err := teamService.GetUserTeams(userID)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"teams": teams, "count": len(teams)})
}

// UpdateTeam updates team fields and visibility tier
// PUT /api/teams/:id
func UpdateTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Location    string `json:"location"`
		Visibility  string `json:"visibility"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	err = teamService.UpdateTeam(uint(teamID), req.Name, req.Description, req.Location,
		models.TeamVisibility(req.Visibility), userID)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Team updated successfully"})
}

// DeleteTeam soft deletes a team
// DELETE /api/teams/:id
func DeleteTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	if err := teamService.DeleteTeam(uint(teamID), userID); err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Team deleted successfully"})
}

// AddMember adds a user to the roster
// POST /api/teams/:id/members
func AddMember(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	var req struct {
		UserID    uint   `json:"user_id"`
		Role      string `json:"role"`
		Seniority string `json:"seniority"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	err = teamService.AddMember(uint(teamID), userID, req.UserID, models.TeamRole(req.Role), req.Seniority)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{"message": "Member added"})
}

// RemoveMember deactivates a roster entry
// DELETE /api/teams/:id/members/:memberId
func RemoveMember(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}
	memberID, err := strconv.ParseUint(c.Params("memberId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid member ID"})
	}

	if err := teamService.RemoveMember(uint(teamID), userID, uint(memberID)); err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Member removed"})
}

// PromoteMember promotes a member to team admin
// PUT /api/teams/:id/members/:memberId/promote
func PromoteMember(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}
	memberID, err := strconv.ParseUint(c.Params("memberId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid member ID"})
	}

	if err := teamService.PromoteMember(uint(teamID), userID, uint(memberID)); err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Member promoted"})
}

// BlockCompany adds a company to the team's block list
// POST /api/teams/:id/blocked-companies
func BlockCompany(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	var req struct {
		CompanyID uint `json:"company_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.CompanyID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if err := teamService.BlockCompany(uint(teamID), userID, req.CompanyID); err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Company blocked"})
}

// UnblockCompany removes a company from the team's block list
// DELETE /api/teams/:id/blocked-companies/:companyId
func UnblockCompany(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}
	companyID, err := strconv.ParseUint(c.Params("companyId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid company ID"})
	}

	if err := teamService.UnblockCompany(uint(teamID), userID, uint(companyID)); err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Company unblocked"})
}
