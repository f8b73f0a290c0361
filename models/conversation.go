// models/conversation.go
package models

import "time"

type ParticipantRole string

const (
	ParticipantCompany ParticipantRole = "company"
	ParticipantTeam    ParticipantRole = "team"
)

type Conversation struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	TeamID uint `json:"team_id" gorm:"not null;index"`

	// Snapshot of the target team's anonymity at creation time. Never
	// recomputed when the team later changes visibility.
	IsAnonymous bool `json:"is_anonymous" gorm:"not null"`

	Subject       string     `json:"subject"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	MessageCount  int        `json:"message_count" gorm:"default:0"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Participants []ConversationParticipant `json:"participants,omitempty" gorm:"foreignKey:ConversationID"`
	Messages     []Message                 `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type ConversationParticipant struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	ConversationID uint            `json:"conversation_id" gorm:"not null;uniqueIndex:idx_conv_participant"`
	UserID         uint            `json:"user_id" gorm:"not null;uniqueIndex:idx_conv_participant"`
	User           *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Role           ParticipantRole `json:"role" gorm:"not null"`
	JoinedAt       time.Time       `json:"joined_at" gorm:"not null"`
	LeftAt         *time.Time      `json:"left_at,omitempty"`
}

func (ConversationParticipant) TableName() string {
	return "conversation_participants"
}

func (p *ConversationParticipant) Active() bool {
	return p.LeftAt == nil
}

// NDAAcceptance is the per-conversation confidentiality ledger. Accepting
// for one conversation does not waive the requirement for another.
type NDAAcceptance struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"not null;uniqueIndex:idx_nda_conv_user"`
	UserID         uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_nda_conv_user"`
	AcceptedAt     time.Time `json:"accepted_at" gorm:"not null"`
}

func (NDAAcceptance) TableName() string {
	return "nda_acceptances"
}

type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"not null;index"`
	SenderID       uint      `json:"sender_id" gorm:"not null"`
	Body           string    `json:"body" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}
