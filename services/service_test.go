// services/service_test.go - shared test fixtures
package services

import (
	"sync"
	"testing"
	"time"

	"teamlift/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
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
	))

	return db
}

// mockNotifier records dispatches instead of persisting them.
type mockNotifier struct {
	mu     sync.Mutex
	events []mockNotification
}

type mockNotification struct {
	UserID  uint
	Type    models.NotificationType
	Payload map[string]interface{}
}

func (m *mockNotifier) Notify(userID uint, ntype models.NotificationType, payload map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, mockNotification{UserID: userID, Type: ntype, Payload: payload})
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// mockEmail is a no-op EmailSender.
type mockEmail struct {
	mu   sync.Mutex
	sent []string
}

func (m *mockEmail) Send(toEmail, subject, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, toEmail)
}

// ---------- fixture builders ----------

func createUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Email:          email,
		Password:       "x",
		FirstName:      "Test",
		LastName:       "User",
		Role:           role,
		NotifyMessages: true,
		CreatedAt:      time.Now(),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCompany(t *testing.T, db *gorm.DB, name string, status models.VerificationStatus, userID uint) *models.Company {
	t.Helper()
	company := &models.Company{
		Name:               name,
		VerificationStatus: status,
		CreatorID:          userID,
		CreatedAt:          time.Now(),
	}
	require.NoError(t, db.Create(company).Error)

	membership := &models.CompanyUser{CompanyID: company.ID, UserID: userID, CreatedAt: time.Now()}
	require.NoError(t, db.Create(membership).Error)

	return company
}

func createTeam(t *testing.T, db *gorm.DB, name string, visibility models.TeamVisibility, ownerID uint) *models.Team {
	t.Helper()
	team := &models.Team{
		Name:        name,
		Location:    "Boston",
		Visibility:  visibility,
		IsAnonymous: visibility == models.VisibilityAnonymous,
		IsActive:    true,
		CreatedBy:   ownerID,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, db.Create(team).Error)

	member := &models.TeamMember{
		TeamID:   team.ID,
		UserID:   ownerID,
		Role:     models.TeamRoleOwner,
		JoinedAt: time.Now(),
		IsActive: true,
	}
	require.NoError(t, db.Create(member).Error)

	return team
}

func blockCompany(t *testing.T, db *gorm.DB, teamID, companyID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.TeamBlockedCompany{
		TeamID:    teamID,
		CompanyID: companyID,
		CreatedAt: time.Now(),
	}).Error)
}

// newServices wires the full service graph on one test database.
type testServices struct {
	db            *gorm.DB
	verification  *VerificationService
	visibility    *VisibilityService
	teams         *TeamService
	conversations *ConversationService
	eois          *EOIService
	opportunities *OpportunityService
	export        *ExportService
	notifier      *mockNotifier
	email         *mockEmail
}

func newServices(t *testing.T) *testServices {
	t.Helper()
	db := setupTestDB(t)

	notifier := &mockNotifier{}
	email := &mockEmail{}

	verification := NewVerificationService(db)
	visibility := NewVisibilityService(db, verification)
	teams := NewTeamService(db, visibility)
	conversations := NewConversationService(db, teams, notifier, email)
	eois := NewEOIService(db, teams, notifier, email)
	opportunities := NewOpportunityService(db, verification, notifier)
	export := NewExportService(db, teams, visibility, conversations)

	return &testServices{
		db:            db,
		verification:  verification,
		visibility:    visibility,
		teams:         teams,
		conversations: conversations,
		eois:          eois,
		opportunities: opportunities,
		export:        export,
		notifier:      notifier,
		email:         email,
	}
}

func (s *testServices) viewer(t *testing.T, userID uint, role models.UserRole) Viewer {
	t.Helper()
	viewer, err := s.visibility.ResolveViewer(userID, role)
	require.NoError(t, err)
	return viewer
}
