// cmd/seed/main.go - inserts demo data for local development
package main

import (
	"log"
	"time"

	"teamlift/database"
	"teamlift/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	database.InitDB()
	db := database.GetDB()

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Database already seeded, nothing to do")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now()

	users := []models.User{
		{Email: "admin@teamlift.local", Password: string(hash), FirstName: "Ada", LastName: "Admin", Role: models.RoleAdmin, NotifyMessages: true, CreatedAt: now},
		{Email: "lead@teamlift.local", Password: string(hash), FirstName: "Lena", LastName: "Lead", Role: models.RoleIndividual, Location: "Boston", NotifyMessages: true, CreatedAt: now},
		{Email: "dev@teamlift.local", Password: string(hash), FirstName: "Devon", LastName: "Engineer", Role: models.RoleIndividual, Location: "Boston", NotifyMessages: true, CreatedAt: now},
		{Email: "recruiter@acme.local", Password: string(hash), FirstName: "Rae", LastName: "Recruiter", Role: models.RoleCompany, NotifyMessages: true, CreatedAt: now},
	}
	if err := db.Create(&users).Error; err != nil {
		log.Fatalf("seed users: %v", err)
	}

	company := models.Company{
		Name:               "Acme Robotics",
		Description:        "Industrial automation",
		Industry:           "Robotics",
		VerificationStatus: models.VerificationVerified,
		CreatorID:          users[3].ID,
		CreatedAt:          now,
	}
	if err := db.Create(&company).Error; err != nil {
		log.Fatalf("seed company: %v", err)
	}
	verifiedAt := now
	db.Model(&company).Update("verified_at", verifiedAt)

	membership := models.CompanyUser{CompanyID: company.ID, UserID: users[3].ID, Title: "Head of Talent", CreatedAt: now}
	if err := db.Create(&membership).Error; err != nil {
		log.Fatalf("seed company user: %v", err)
	}

	team := models.Team{
		Name:        "Platform Pod",
		Description: "Four backend engineers moving together",
		Location:    "Boston",
		Visibility:  models.VisibilityAnonymous,
		IsAnonymous: true,
		IsActive:    true,
		CreatedBy:   users[1].ID,
		CreatedAt:   now,
	}
	if err := db.Create(&team).Error; err != nil {
		log.Fatalf("seed team: %v", err)
	}

	members := []models.TeamMember{
		{TeamID: team.ID, UserID: users[1].ID, Role: models.TeamRoleOwner, Seniority: "staff", JoinedAt: now, IsActive: true},
		{TeamID: team.ID, UserID: users[2].ID, Role: models.TeamRoleMember, Seniority: "senior", JoinedAt: now, IsActive: true},
	}
	if err := db.Create(&members).Error; err != nil {
		log.Fatalf("seed members: %v", err)
	}

	opportunity := models.Opportunity{
		CompanyID:   company.ID,
		Title:       "Backend platform team",
		Description: "Own our services platform end to end",
		Location:    "Boston",
		TeamSizeMin: 3,
		TeamSizeMax: 6,
		Status:      models.OpportunityActive,
		Visibility:  models.OpportunityPublic,
		CreatedAt:   now,
	}
	if err := db.Create(&opportunity).Error; err != nil {
		log.Fatalf("seed opportunity: %v", err)
	}

	log.Println("✅ Seed data inserted")
}
