// models/user.go
package models

import (
	"time"
)

type UserRole string

const (
	RoleIndividual UserRole = "individual"
	RoleCompany    UserRole = "company"
	RoleAdmin      UserRole = "admin"
)

type User struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Email     string   `gorm:"uniqueIndex;not null" json:"email"`
	Password  string   `gorm:"not null" json:"-"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Role      UserRole `gorm:"not null;default:'individual';index" json:"role"`
	Headline  string   `json:"headline"`
	Location  string   `json:"location"`

	// Per-user dispatch preference checked before message notifications
	NotifyMessages bool `gorm:"default:true" json:"notify_messages"`

	IsDeleted bool `gorm:"default:false;index" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`
}

func (User) TableName() string {
	return "users"
}

// FullName is used by conversation projections for non-anonymous parties.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
