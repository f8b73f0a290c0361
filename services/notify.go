// services/notify.go - fire-and-forget notification and email dispatch
package services

import (
	"encoding/json"
	"log"
	"os"

	"teamlift/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gorm.io/gorm"
)

// Notifier delivers in-app notifications. Failures are logged, never
// returned: a dropped notification must not fail the triggering operation.
type Notifier interface {
	Notify(userID uint, ntype models.NotificationType, payload map[string]interface{})
}

// DBNotifier persists notifications as rows the client polls.
type DBNotifier struct {
	db *gorm.DB
}

func NewDBNotifier(db *gorm.DB) *DBNotifier {
	return &DBNotifier{db: db}
}

func (n *DBNotifier) Notify(userID uint, ntype models.NotificationType, payload map[string]interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("notify: marshal payload for user %d: %v", userID, err)
		return
	}

	notification := models.Notification{
		UserID:  userID,
		Type:    ntype,
		Payload: string(body),
	}

	if err := n.db.Create(&notification).Error; err != nil {
		log.Printf("notify: persist %s for user %d: %v", ntype, userID, err)
	}
}

// EmailSender mirrors the Notifier contract for outbound mail.
type EmailSender interface {
	Send(toEmail, subject, body string)
}

// SendGridSender sends via SendGrid when SENDGRID_API_KEY is configured
// and degrades to a logged no-op otherwise.
type SendGridSender struct {
	apiKey    string
	fromEmail string
}

func NewSendGridSender() *SendGridSender {
	return &SendGridSender{
		apiKey:    os.Getenv("SENDGRID_API_KEY"),
		fromEmail: getEnvDefault("EMAIL_FROM", "no-reply@teamlift.io"),
	}
}

func (s *SendGridSender) Send(toEmail, subject, body string) {
	if s.apiKey == "" {
		log.Printf("email: SENDGRID_API_KEY not set, skipping %q to %s", subject, toEmail)
		return
	}

	from := mail.NewEmail("TeamLift", s.fromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("email: send %q to %s: %v", subject, toEmail, err)
		return
	}
	if resp.StatusCode >= 400 {
		log.Printf("email: send %q to %s: status %d", subject, toEmail, resp.StatusCode)
	}
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
