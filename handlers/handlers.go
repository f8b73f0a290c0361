// handlers/handlers.go - service wiring shared by all handler files
package handlers

import (
	"teamlift/database"
	"teamlift/middleware"
	"teamlift/services"

	"github.com/gofiber/fiber/v2"
)

var (
	verificationService *services.VerificationService
	visibilityService   *services.VisibilityService
	teamService         *services.TeamService
	companyService      *services.CompanyService
	conversationService *services.ConversationService
	eoiService          *services.EOIService
	opportunityService  *services.OpportunityService
	exportService       *services.ExportService
	notifier            services.Notifier
)

// InitHandlers wires every service against the shared database.
func InitHandlers() {
	db := database.GetDB()
	if db == nil {
		panic("Database not initialized before InitHandlers")
	}

	notifier = services.NewDBNotifier(db)
	email := services.NewSendGridSender()

	verificationService = services.NewVerificationService(db)
	visibilityService = services.NewVisibilityService(db, verificationService)
	teamService = services.NewTeamService(db, visibilityService)
	companyService = services.NewCompanyService(db, notifier)
	conversationService = services.NewConversationService(db, teamService, notifier, email)
	eoiService = services.NewEOIService(db, teamService, notifier, email)
	opportunityService = services.NewOpportunityService(db, verificationService, notifier)
	exportService = services.NewExportService(db, teamService, visibilityService, conversationService)

	services.InitCleanupService(eoiService)
}

// resolveViewer builds the actor context for the authenticated caller.
func resolveViewer(c *fiber.Ctx) (services.Viewer, error) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return services.Viewer{}, err
	}

	viewer, err := visibilityService.ResolveViewer(userID, middleware.GetRole(c))
	if err != nil {
		return services.Viewer{}, fiber.NewError(500, "Failed to resolve user context")
	}

	return viewer, nil
}
