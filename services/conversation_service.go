// services/conversation_service.go - confidential contact and conversation access
package services

import (
	"fmt"
	"sort"
	"time"

	"teamlift/apperrors"
	"teamlift/models"

	"gorm.io/gorm"
)

type ConversationService struct {
	db       *gorm.DB
	teams    *TeamService
	notifier Notifier
	email    EmailSender
}

func NewConversationService(db *gorm.DB, teams *TeamService, notifier Notifier, email EmailSender) *ConversationService {
	return &ConversationService{db: db, teams: teams, notifier: notifier, email: email}
}

// StartConversation opens a conversation from a company user to a team.
// Contact with an effectively anonymous team is a two-phase handshake:
// the first call without the acceptNDA flag fails with nda_required, the
// caller re-submits with acceptance. Acceptance is ledgered per
// conversation, never per team.
func (s *ConversationService) StartConversation(viewer Viewer, teamID uint, subject, firstMessage string, acceptNDA bool) (*models.Conversation, error) {
	if viewer.Role != models.RoleCompany {
		return nil, apperrors.ErrForbiddenRole
	}

	team, err := s.teams.GetTeam(teamID)
	if err != nil {
		return nil, err
	}

	anonymous := team.EffectiveAnonymous()

	if anonymous && !viewer.Verified {
		return nil, apperrors.ErrVerificationRequired
	}

	if viewer.CompanyID != nil && team.IsBlocked(*viewer.CompanyID) {
		return nil, apperrors.ErrBlocked
	}

	if anonymous && !acceptNDA {
		return nil, apperrors.ErrNDARequired
	}

	teamSide, err := s.teams.AdminMemberIDs(teamID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	conversation := &models.Conversation{
		TeamID:      teamID,
		IsAnonymous: anonymous, // snapshot; later tier changes don't touch this
		Subject:     subject,
		CreatedAt:   now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conversation).Error; err != nil {
			return err
		}

		participants := []models.ConversationParticipant{{
			ConversationID: conversation.ID,
			UserID:         viewer.UserID,
			Role:           models.ParticipantCompany,
			JoinedAt:       now,
		}}
		for _, uid := range teamSide {
			participants = append(participants, models.ConversationParticipant{
				ConversationID: conversation.ID,
				UserID:         uid,
				Role:           models.ParticipantTeam,
				JoinedAt:       now,
			})
		}
		if err := tx.Create(&participants).Error; err != nil {
			return err
		}

		if anonymous {
			acceptance := models.NDAAcceptance{
				ConversationID: conversation.ID,
				UserID:         viewer.UserID,
				AcceptedAt:     now,
			}
			if err := tx.Create(&acceptance).Error; err != nil {
				return err
			}
		}

		if firstMessage != "" {
			message := models.Message{
				ConversationID: conversation.ID,
				SenderID:       viewer.UserID,
				Body:           firstMessage,
				CreatedAt:      now,
			}
			if err := tx.Create(&message).Error; err != nil {
				return err
			}
			conversation.MessageCount = 1
			conversation.LastMessageAt = &now
			return tx.Model(conversation).Updates(map[string]interface{}{
				"message_count":   1,
				"last_message_at": now,
			}).Error
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.dispatchMessageNotifications(conversation.ID, viewer.UserID)

	return conversation, nil
}

func (s *ConversationService) getConversation(conversationID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.Preload("Participants").
		Preload("Participants.User").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.created_at ASC")
		}).
		First(&conversation, conversationID).Error

	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

func activeParticipant(conversation *models.Conversation, userID uint) *models.ConversationParticipant {
	for i := range conversation.Participants {
		p := &conversation.Participants[i]
		if p.UserID == userID && p.Active() {
			return p
		}
	}
	return nil
}

// ConversationView is a conversation projected for one viewer.
type ConversationView struct {
	ID            uint              `json:"id"`
	TeamID        uint              `json:"team_id"`
	IsAnonymous   bool              `json:"is_anonymous"`
	Subject       string            `json:"subject"`
	Participants  []ParticipantView `json:"participants"`
	Messages      []MessageView     `json:"messages,omitempty"`
	MessageCount  int               `json:"message_count"`
	LastMessageAt *time.Time        `json:"last_message_at,omitempty"`
}

type ParticipantView struct {
	UserID    string                 `json:"user_id"`
	FirstName string                 `json:"first_name"`
	LastName  string                 `json:"last_name"`
	Role      models.ParticipantRole `json:"role"`
	JoinedAt  time.Time              `json:"joined_at"`
	LeftAt    *time.Time             `json:"left_at,omitempty"`
}

type MessageView struct {
	ID         uint      `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProjectConversation renders the conversation for an active participant.
// In anonymous conversations every participant other than the viewer gets
// a stable ordinal pseudonym. Ordinals are positions in the full
// participant list ordered by row id, so the numbering is
// viewer-independent; only the self-exclusion differs per viewer.
func (s *ConversationService) ProjectConversation(conversationID, viewerID uint) (*ConversationView, error) {
	conversation, err := s.getConversation(conversationID)
	if err != nil {
		return nil, err
	}

	if activeParticipant(conversation, viewerID) == nil {
		return nil, apperrors.ErrForbiddenRole
	}

	view := &ConversationView{
		ID:            conversation.ID,
		TeamID:        conversation.TeamID,
		IsAnonymous:   conversation.IsAnonymous,
		Subject:       conversation.Subject,
		MessageCount:  conversation.MessageCount,
		LastMessageAt: conversation.LastMessageAt,
	}

	names := participantNames(conversation, viewerID)

	for i := range conversation.Participants {
		view.Participants = append(view.Participants, names[conversation.Participants[i].UserID])
	}

	for _, m := range conversation.Messages {
		view.Messages = append(view.Messages, projectMessage(conversation, &m, names, viewerID))
	}

	return view, nil
}

// participantNames assigns each participant their rendered identity.
// Ordinals are positions in the participant list ordered by row id; in
// anonymous conversations only viewerID (if any) stays unmasked. The
// map is reused for message senders so pseudonyms line up. Mutates the
// participant slice order.
func participantNames(conversation *models.Conversation, viewerID uint) map[uint]ParticipantView {
	sort.Slice(conversation.Participants, func(i, j int) bool {
		return conversation.Participants[i].ID < conversation.Participants[j].ID
	})

	names := make(map[uint]ParticipantView, len(conversation.Participants))

	for i := range conversation.Participants {
		p := &conversation.Participants[i]

		pv := ParticipantView{
			Role:     p.Role,
			JoinedAt: p.JoinedAt,
			LeftAt:   p.LeftAt,
		}

		if conversation.IsAnonymous && p.UserID != viewerID {
			pv.UserID = fmt.Sprintf("anonymous-%d", i)
			pv.FirstName = "Anonymous"
			pv.LastName = fmt.Sprintf("User %d", i+1)
		} else {
			pv.UserID = fmt.Sprintf("%d", p.UserID)
			if p.User != nil {
				pv.FirstName = p.User.FirstName
				pv.LastName = p.User.LastName
			}
		}

		names[p.UserID] = pv
	}

	return names
}

func projectMessage(conversation *models.Conversation, m *models.Message, names map[uint]ParticipantView, viewerID uint) MessageView {
	mv := MessageView{
		ID:        m.ID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
	if pv, ok := names[m.SenderID]; ok {
		mv.SenderID = pv.UserID
		mv.SenderName = pv.FirstName + " " + pv.LastName
		return mv
	}

	// Sender left before projection rules existed; mask in anonymous
	// conversations regardless.
	if conversation.IsAnonymous && m.SenderID != viewerID {
		mv.SenderID = "anonymous"
		mv.SenderName = "Anonymous User"
	} else {
		mv.SenderID = fmt.Sprintf("%d", m.SenderID)
	}
	return mv
}

// BroadcastView renders a message for the conversation's shared live
// feed. The feed has one payload for every watcher, so in anonymous
// conversations the sender is always pseudonymized: no viewer id means
// no self-exclusion, and a real user id never reaches the sockets.
func (s *ConversationService) BroadcastView(conversationID uint, message *models.Message) (*MessageView, error) {
	conversation, err := s.getConversation(conversationID)
	if err != nil {
		return nil, err
	}

	names := participantNames(conversation, 0)
	mv := projectMessage(conversation, message, names, 0)
	return &mv, nil
}

// ListConversations returns projected views of every conversation the
// user actively participates in.
func (s *ConversationService) ListConversations(viewerID uint) ([]ConversationView, error) {
	var participantRows []models.ConversationParticipant
	err := s.db.Where("user_id = ? AND left_at IS NULL", viewerID).Find(&participantRows).Error
	if err != nil {
		return nil, err
	}

	views := make([]ConversationView, 0, len(participantRows))
	for _, row := range participantRows {
		view, err := s.ProjectConversation(row.ConversationID, viewerID)
		if err != nil {
			return nil, err
		}
		view.Messages = nil // list projection omits bodies
		views = append(views, *view)
	}

	return views, nil
}

// SendMessage appends a message for an active participant. Notification
// and email dispatch is fire-and-forget: its failure never fails the send.
func (s *ConversationService) SendMessage(conversationID, senderID uint, body string) (*models.Message, error) {
	if body == "" {
		return nil, apperrors.ErrInvalidInput
	}

	conversation, err := s.getConversation(conversationID)
	if err != nil {
		return nil, err
	}

	if activeParticipant(conversation, senderID) == nil {
		return nil, apperrors.ErrForbiddenRole
	}

	now := time.Now()
	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		CreatedAt:      now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).Where("id = ?", conversationID).
			Updates(map[string]interface{}{
				"message_count":   gorm.Expr("message_count + 1"),
				"last_message_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	go s.dispatchMessageNotifications(conversationID, senderID)

	return message, nil
}

// LeaveConversation marks the participant as departed.
func (s *ConversationService) LeaveConversation(conversationID, userID uint) error {
	conversation, err := s.getConversation(conversationID)
	if err != nil {
		return err
	}

	participant := activeParticipant(conversation, userID)
	if participant == nil {
		return apperrors.ErrForbiddenRole
	}

	now := time.Now()
	return s.db.Model(participant).Update("left_at", now).Error
}

// dispatchMessageNotifications notifies every other active participant
// whose preference allows it. Runs detached from the send operation.
func (s *ConversationService) dispatchMessageNotifications(conversationID, senderID uint) {
	var participants []models.ConversationParticipant
	if err := s.db.Where("conversation_id = ? AND left_at IS NULL AND user_id <> ?", conversationID, senderID).
		Preload("User").
		Find(&participants).Error; err != nil {
		return
	}

	for _, p := range participants {
		if p.User == nil || !p.User.NotifyMessages {
			continue
		}

		s.notifier.Notify(p.UserID, models.NotificationNewMessage, map[string]interface{}{
			"conversation_id": conversationID,
		})
		s.email.Send(p.User.Email, "New message on TeamLift",
			"You have a new message in one of your conversations.")
	}
}
