// models/notification.go
package models

import "time"

type NotificationType string

const (
	NotificationNewMessage  NotificationType = "new_message"
	NotificationEOIReceived NotificationType = "eoi_received"
	NotificationEOIResponse NotificationType = "eoi_response"
	NotificationApplication NotificationType = "application_update"
)

type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"user_id" gorm:"not null;index"`
	Type      NotificationType `json:"type" gorm:"not null"`
	Payload   string           `json:"payload" gorm:"type:text"`
	IsRead    bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time        `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
