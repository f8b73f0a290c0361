// database/migrate.go - Database Migration Runner
package database

import (
	"log"
	"teamlift/models"

	"gorm.io/gorm"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.CompanyUser{},
		&models.Team{},
		&models.TeamMember{},
		&models.TeamBlockedCompany{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.NDAAcceptance{},
		&models.Message{},
		&models.ExpressionOfInterest{},
		&models.Opportunity{},
		&models.TeamApplication{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes(db)

	log.Println("✅ All migrations completed successfully")
}

// createIndexes adds indexes AutoMigrate tags don't cover. The partial
// unique index on eois is the authoritative duplicate-pending guard; the
// service-level check is only a fast path.
func createIndexes(db *gorm.DB) {
	log.Println("Creating indexes...")

	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_eois_one_pending ON eois(from_id, to_type, to_id) WHERE status = 'pending'")

	db.Exec("CREATE INDEX IF NOT EXISTS idx_teams_created_by ON teams(created_by)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_teams_visibility ON teams(visibility)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_team_members_team_user ON team_members(team_id, user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_conversations_team ON conversations(team_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_eois_expiry ON eois(status, expires_at)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_applications_opportunity ON team_applications(opportunity_id, status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, is_read)")
}
