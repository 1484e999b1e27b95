package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleCreator    UserRole = "creator"
	RoleRespondent UserRole = "respondent"
)

// User mirrors the external identity directory. The survey service never
// writes users; they are resolved from Casdoor and cached.
type User struct {
	ID            string    `json:"id" gorm:"primaryKey;size:255"`
	FullName      string    `json:"full_name" gorm:"size:255"`
	Email         string    `json:"email" gorm:"size:255;index"`
	Role          UserRole  `json:"role" gorm:"size:30;default:respondent"`
	AvatarURL     *string   `json:"avatar_url" gorm:"size:500"`
	EmailVerified bool      `json:"email_verified" gorm:"default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
