// handlers/export.go - bulk export and GDPR surface
package handlers

import (
	"teamlift/middleware"
	"teamlift/utils"

	"github.com/gofiber/fiber/v2"
)

// ExportTeams exports the caller's visible teams as CSV or JSON. The
// rows pass through the same visibility pipeline as search.
// GET /api/export/teams?format=csv|json
func ExportTeams(c *fiber.Ctx) error {
	viewer, err := resolveViewer(c)
	if err != nil {
		return err
	}

	if c.Query("format", "json") == "csv" {
		data, err := exportService.ExportTeamsCSV(viewer)
		if err != nil {
			return utils.Error(c, err)
		}
		c.Set("Content-Type", "text/csv")
		c.Set("Content-Disposition", `attachment; filename="teams.csv"`)
		return c.Send(data)
	}

	views, err := exportService.ExportTeamsJSON(viewer)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"teams": views, "count": len(views)})
}

// ExportAccount is the GDPR data export for the caller
// GET /api/export/account
func ExportAccount(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	export, err := exportService.ExportAccount(userID)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"export": export})
}

// DeleteAccount redacts the caller's account in place
// DELETE /api/account
func DeleteAccount(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	if err := exportService.DeleteAccount(userID); err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Account deleted"})
}
