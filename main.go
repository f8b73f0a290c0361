// main.go
package main

import (
	"log"
	"os"
	"time"

	"teamlift/database"
	"teamlift/handlers"
	"teamlift/handlers/admin"
	"teamlift/middleware"
	"teamlift/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Wire services and handlers
	handlers.InitHandlers()
	admin.InitAdminHandlers()

	// Background EOI expiry sweep
	cleanup := services.GetCleanupService()
	cleanup.Start()
	defer cleanup.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)

	// Team routes
	teamGroup := api.Group("/teams")
	teamGroup.Use(middleware.AuthMiddleware)
	teamGroup.Post("/", handlers.CreateTeam)
	teamGroup.Get("/", handlers.GetUserTeams)
	teamGroup.Get("/search", handlers.SearchTeams)
	teamGroup.Get("/:id", handlers.GetTeam)
	teamGroup.Put("/:id", handlers.UpdateTeam)
	teamGroup.Delete("/:id", handlers.DeleteTeam)
	teamGroup.Post("/:id/members", handlers.AddMember)
	teamGroup.Delete("/:id/members/:memberId", handlers.RemoveMember)
	teamGroup.Put("/:id/members/:memberId/promote", handlers.PromoteMember)
	teamGroup.Post("/:id/blocked-companies", handlers.BlockCompany)
	teamGroup.Delete("/:id/blocked-companies/:companyId", handlers.UnblockCompany)
	teamGroup.Get("/:id/eoi", handlers.ListTeamEOIs)

	// Company routes
	companyGroup := api.Group("/companies")
	companyGroup.Use(middleware.AuthMiddleware)
	companyGroup.Post("/", handlers.CreateCompany)
	companyGroup.Get("/:id", handlers.GetCompany)
	companyGroup.Post("/:id/verification", handlers.RequestVerification)

	// Conversation routes
	conversationGroup := api.Group("/conversations")
	conversationGroup.Use(middleware.AuthMiddleware)
	conversationGroup.Post("/", handlers.StartConversation)
	conversationGroup.Get("/", handlers.ListConversations)
	conversationGroup.Get("/:id", handlers.GetConversation)
	conversationGroup.Post("/:id/messages", handlers.SendMessage)
	conversationGroup.Post("/:id/leave", handlers.LeaveConversation)

	// EOI routes
	eoiGroup := api.Group("/eoi")
	eoiGroup.Use(middleware.AuthMiddleware)
	eoiGroup.Post("/", handlers.CreateEOI)
	eoiGroup.Get("/:id", handlers.GetEOI)
	eoiGroup.Post("/:id/respond", handlers.RespondEOI)

	// Opportunity routes
	opportunityGroup := api.Group("/opportunities")
	opportunityGroup.Use(middleware.AuthMiddleware)
	opportunityGroup.Post("/", handlers.CreateOpportunity)
	opportunityGroup.Get("/", handlers.ListOpportunities)
	opportunityGroup.Get("/:id", handlers.GetOpportunity)
	opportunityGroup.Put("/:id/status", handlers.UpdateOpportunityStatus)
	opportunityGroup.Post("/:id/applications", handlers.Apply)
	opportunityGroup.Get("/:id/applications", handlers.ListApplications)
	opportunityGroup.Post("/:id/close", handlers.CloseOpportunity)
	opportunityGroup.Delete("/:id/close", handlers.ReopenOpportunity)

	// Application transitions
	applicationGroup := api.Group("/applications")
	applicationGroup.Use(middleware.AuthMiddleware)
	applicationGroup.Put("/:id/status", handlers.TransitionApplication)

	// Notification routes
	notificationGroup := api.Group("/notifications")
	notificationGroup.Use(middleware.AuthMiddleware)
	notificationGroup.Get("/", handlers.ListNotifications)
	notificationGroup.Put("/preferences", handlers.UpdatePreferences)
	notificationGroup.Put("/:id/read", handlers.MarkNotificationRead)

	// Export / GDPR routes
	exportGroup := api.Group("/export")
	exportGroup.Use(middleware.AuthMiddleware)
	exportGroup.Get("/teams", handlers.ExportTeams)
	exportGroup.Get("/account", handlers.ExportAccount)
	api.Delete("/account", middleware.AuthMiddleware, handlers.DeleteAccount)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AdminAuthMiddleware)
	adminGroup.Get("/companies", admin.GetCompanies)
	adminGroup.Get("/companies/pending", admin.GetPendingCompanies)
	adminGroup.Post("/companies/:id/verify", admin.VerifyCompany)
	adminGroup.Post("/companies/:id/reject", admin.RejectCompany)
	adminGroup.Get("/users", admin.GetUsers)
	adminGroup.Get("/users/:id", admin.GetUser)
	adminGroup.Delete("/users/:id", admin.DeleteUser)

	// Live conversation feed
	app.Use("/ws", handlers.WebSocketUpgrade)
	app.Get("/ws/conversations/:id", middleware.AuthMiddleware, handlers.ConversationSocket())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
